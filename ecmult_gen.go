package p256k1

import "sync"

// Window size and table shape for fixed-base (generator) scalar multiplication.
// A smaller window than the textbook default of 8 is used here in exchange for
// a table of ~1024 points instead of ~8192; see SPEC_FULL.md for the tradeoff.
const (
	genWindowBits = 4
	genTableSize  = 1 << genWindowBits // 16, digit values 0..15
	genWindows    = (256 + genWindowBits - 1) / genWindowBits
)

// ecmultGenTable holds, for each of the genWindows 4-bit digit positions,
// every possible digit multiple of 2^(4*i)*G, including the zero entry
// (the point at infinity) so that table lookups never need a special case.
type ecmultGenTable struct {
	points [genWindows][genTableSize]GroupElementAffine
}

var (
	genTableOnce sync.Once
	genTable     *ecmultGenTable
)

// buildGenTable computes the fixed-base precomputed table once. Building is
// not constant-time (the table only depends on the public generator point,
// never on secret data), but every lookup into the finished table is.
func buildGenTable() *ecmultGenTable {
	t := &ecmultGenTable{}

	window := Generator
	for i := 0; i < genWindows; i++ {
		t.points[i][0].setInfinity()
		t.points[i][1] = window

		var acc GroupElementJacobian
		acc.setGE(&window)
		for d := 2; d < genTableSize; d++ {
			acc.addGE(&acc, &window)
			t.points[i][d].setGEJ(&acc)
		}

		var next GroupElementJacobian
		next.setGE(&window)
		for k := 0; k < genWindowBits; k++ {
			next.double(&next)
		}
		window.setGEJ(&next)
	}

	return t
}

// ensureGenTable lazily builds and caches the generator table. sync.Once
// runs the build exactly once; concurrent first callers block until it has
// finished and then all receive the same table.
func ensureGenTable() *ecmultGenTable {
	genTableOnce.Do(func() {
		genTable = buildGenTable()
	})
	return genTable
}

// selectGenTableEntry copies table[digit] into out using a constant-time,
// branchless scan over every entry in the window so that which digit was
// actually used leaves no timing signature.
func selectGenTableEntry(out *GroupElementAffine, table *[genTableSize]GroupElementAffine, digit uint32) {
	out.setInfinity()
	for d := 0; d < genTableSize; d++ {
		eq := constEqUint32(uint32(d), digit)
		out.cmov(&table[d], eq)
	}
}

// constEqUint32 returns 1 if a == b and 0 otherwise, computed without
// branching on the compared values.
func constEqUint32(a, b uint32) int {
	x := a ^ b
	x |= x >> 16
	x |= x >> 8
	x |= x >> 4
	x |= x >> 2
	x |= x >> 1
	return int((x & 1) ^ 1)
}

// EcmultGen computes r = k*G using the precomputed fixed-base table.
func EcmultGen(r *GroupElementJacobian, k *Scalar) {
	if k.isZero() {
		r.setInfinity()
		return
	}

	table := ensureGenTable()
	r.setInfinity()

	for i := 0; i < genWindows; i++ {
		digit := k.getBits(uint(i*genWindowBits), genWindowBits)

		var entry GroupElementAffine
		selectGenTableEntry(&entry, &table.points[i], digit)
		r.addGE(r, &entry)
	}
}
