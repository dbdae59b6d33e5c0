package p256k1

// secp256k1 points come in three representations used at different layers
// of this package: GroupElementAffine (x, y) for wire formats and curve
// checks, GroupElementJacobian (x, y, z) for the addition chains inside
// scalar multiplication (affine coordinates cost a field inversion per
// point; Jacobian coordinates defer that to a single inversion at the
// end), and GroupElementStorage, a fixed-width byte form of an affine point
// (the precomputed multiplication tables hold GroupElementAffine values).

// GroupElementAffine is a secp256k1 point in affine coordinates.
type GroupElementAffine struct {
	x, y     FieldElement
	infinity bool
}

// GroupElementJacobian is a secp256k1 point in Jacobian projective
// coordinates: the affine point is (x/z^2, y/z^3).
type GroupElementJacobian struct {
	x, y, z  FieldElement
	infinity bool
}

// GroupElementStorage is the compact, always-normalized byte encoding of an
// affine point.
type GroupElementStorage struct {
	x [32]byte
	y [32]byte
}

// Generator is the base point G. GeneratorX and GeneratorY are exported
// for callers that need the raw coordinates (e.g. building custom
// precomputation tables) without going through an affine struct.
var (
	GeneratorX FieldElement
	GeneratorY FieldElement
	Generator  GroupElementAffine
)

func init() {
	gx := []byte{
		0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC, 0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87, 0x0B, 0x07,
		0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9, 0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8, 0x17, 0x98,
	}
	gy := []byte{
		0x48, 0x3A, 0xDA, 0x77, 0x26, 0xA3, 0xC4, 0x65, 0x5D, 0xA4, 0xFB, 0xFC, 0x0E, 0x11, 0x08, 0xA8,
		0xFD, 0x17, 0xB4, 0x48, 0xA6, 0x85, 0x54, 0x19, 0x9C, 0x47, 0xD0, 0x8F, 0xFB, 0x10, 0xD4, 0xB8,
	}

	GeneratorX.setB32(gx)
	GeneratorY.setB32(gy)
	GeneratorX.normalize()
	GeneratorY.normalize()

	Generator = GroupElementAffine{x: GeneratorX, y: GeneratorY}
}

// NewGroupElementAffine returns the point at infinity in affine form.
func NewGroupElementAffine() *GroupElementAffine {
	return &GroupElementAffine{x: FieldElementZero, y: FieldElementZero, infinity: true}
}

// NewGroupElementJacobian returns the point at infinity in Jacobian form.
func NewGroupElementJacobian() *GroupElementJacobian {
	return &GroupElementJacobian{x: FieldElementZero, y: FieldElementZero, z: FieldElementZero, infinity: true}
}

// --- affine point operations ---

// setXY sets r to the point (x, y) without any curve-membership check.
func (r *GroupElementAffine) setXY(x, y *FieldElement) {
	r.x = *x
	r.y = *y
	r.infinity = false
}

// setXOVar lifts an X coordinate to a curve point with the requested Y
// parity by solving y^2 = x^3 + 7 and taking whichever square root has
// the matching oddness. Returns false if x doesn't correspond to a point
// on the curve at all.
func (r *GroupElementAffine) setXOVar(x *FieldElement, odd bool) bool {
	var xSq, xCb, ySq FieldElement
	xSq.sqr(x)
	xCb.mul(&xSq, x)

	var b FieldElement
	b.setInt(7)
	ySq = xCb
	ySq.add(&b)

	var y FieldElement
	if !y.sqrt(&ySq) {
		return false
	}

	y.normalize()
	if y.isOdd() != odd {
		y.negate(&y, 1)
		y.normalize()
	}

	r.setXY(x, &y)
	return true
}

// isInfinity reports whether r is the point at infinity.
func (r *GroupElementAffine) isInfinity() bool {
	return r.infinity
}

// isValid checks the curve equation y^2 = x^3 + 7 for a non-infinity
// point; infinity is trivially valid.
func (r *GroupElementAffine) isValid() bool {
	if r.infinity {
		return true
	}

	x, y := r.x, r.y
	x.normalize()
	y.normalize()

	var lhs FieldElement
	lhs.sqr(&y)

	var xSq, rhs, b FieldElement
	xSq.sqr(&x)
	rhs.mul(&xSq, &x)
	b.setInt(7)
	rhs.add(&b)

	lhs.normalize()
	rhs.normalize()
	return lhs.equal(&rhs)
}

// negate sets r to the mirror of a across the X axis.
func (r *GroupElementAffine) negate(a *GroupElementAffine) {
	if a.infinity {
		r.setInfinity()
		return
	}
	r.x = a.x
	r.y.negate(&a.y, a.y.magnitude)
	r.infinity = false
}

// setInfinity sets r to the point at infinity.
func (r *GroupElementAffine) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementZero
	r.infinity = true
}

// equal reports whether r and a are the same point, after normalizing
// both sides' coordinates.
func (r *GroupElementAffine) equal(a *GroupElementAffine) bool {
	if r.infinity && a.infinity {
		return true
	}
	if r.infinity || a.infinity {
		return false
	}

	rn, an := *r, *a
	rn.x.normalize()
	rn.y.normalize()
	an.x.normalize()
	an.y.normalize()
	return rn.x.equal(&an.x) && rn.y.equal(&an.y)
}

// cmov conditionally overwrites r with a: r = a when flag is nonzero, r
// unchanged otherwise. Used by precomputed-table lookups so the selected
// index doesn't leak through branching.
func (r *GroupElementAffine) cmov(a *GroupElementAffine, flag int) {
	r.x.cmov(&a.x, flag)
	r.y.cmov(&a.y, flag)
	if flag != 0 {
		r.infinity = a.infinity
	}
}

// --- Jacobian point operations ---

// setInfinity sets r to the point at infinity in Jacobian form (z = 0).
func (r *GroupElementJacobian) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementOne
	r.z = FieldElementZero
	r.infinity = true
}

// isInfinity reports whether r is the point at infinity.
func (r *GroupElementJacobian) isInfinity() bool {
	return r.infinity
}

// setGE lifts an affine point into Jacobian coordinates with z = 1.
func (r *GroupElementJacobian) setGE(a *GroupElementAffine) {
	if a.infinity {
		r.setInfinity()
		return
	}
	r.x = a.x
	r.y = a.y
	r.z = FieldElementOne
	r.infinity = false
}

// setGEJ converts a Jacobian point back to affine by inverting z once:
// x' = x/z^2, y' = y/z^3.
func (r *GroupElementAffine) setGEJ(a *GroupElementJacobian) {
	if a.infinity {
		r.setInfinity()
		return
	}

	p := *a
	r.infinity = false

	p.z.inv(&p.z)

	var zInv2, zInv3 FieldElement
	zInv2.sqr(&p.z)
	zInv3.mul(&p.z, &zInv2)

	p.x.mul(&p.x, &zInv2)
	p.y.mul(&p.y, &zInv3)
	p.z.setInt(1)

	r.x = p.x
	r.y = p.y
}

// negate sets r to the negation of a Jacobian point.
func (r *GroupElementJacobian) negate(a *GroupElementJacobian) {
	if a.infinity {
		r.setInfinity()
		return
	}
	r.x = a.x
	r.y.negate(&a.y, a.y.magnitude)
	r.z = a.z
	r.infinity = false
}

// double sets r = 2*a using the standard Jacobian doubling formula:
//
//	Z3 = Y1*Z1
//	S  = Y1^2
//	L  = 3/2 * X1^2
//	T  = -X1*S
//	X3 = L^2 + 2T
//	Y3 = -(L*(X3+T) + S^2)
//
// This has no dedicated infinity short-circuit; r.infinity is carried
// through from a so the zero point doubles to itself.
func (r *GroupElementJacobian) double(a *GroupElementJacobian) {
	var slope, ySq, temp FieldElement

	r.infinity = a.infinity

	r.z.mul(&a.z, &a.y)

	ySq.sqr(&a.y)

	slope.sqr(&a.x)
	slope.mulInt(3)
	slope.half(&slope)

	temp.negate(&ySq, 1)
	temp.mul(&temp, &a.x)

	r.x.sqr(&slope)
	r.x.add(&temp)
	r.x.add(&temp)

	ySq.sqr(&ySq)
	temp.add(&r.x)

	r.y.mul(&temp, &slope)
	r.y.add(&ySq)
	r.y.negate(&r.y, 2)
}

// addVar sets r = a + b, both in Jacobian coordinates, handling the
// infinity and point-doubling/point-negation special cases before
// falling through to the general addition formula. Variable-time: the
// control flow branches on whether the inputs collide, so this must
// never run over secret scalars.
func (r *GroupElementJacobian) addVar(a, b *GroupElementJacobian) {
	if a.infinity {
		*r = *b
		return
	}
	if b.infinity {
		*r = *a
		return
	}

	var bz2, az2, u1, u2, s1, s2, h, i FieldElement

	bz2.sqr(&b.z)
	az2.sqr(&a.z)

	u1.mul(&a.x, &bz2)
	u2.mul(&b.x, &az2)

	s1.mul(&a.y, &bz2)
	s1.mul(&s1, &b.z)

	s2.mul(&b.y, &az2)
	s2.mul(&s2, &a.z)

	h.negate(&u1, 1)
	h.add(&u2)

	i.negate(&s2, 1)
	i.add(&s1)

	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			r.double(a)
		} else {
			r.setInfinity()
		}
		return
	}

	r.infinity = false

	var hz, hSq, negHSq, hCb, t FieldElement
	hz.mul(&h, &b.z)
	r.z.mul(&a.z, &hz)

	hSq.sqr(&h)
	negHSq.negate(&hSq, 1)
	hCb.mul(&negHSq, &h)

	t.mul(&u1, &negHSq)

	r.x.sqr(&i)
	r.x.add(&hCb)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)

	hCb.mul(&hCb, &s1)
	r.y.add(&hCb)
}

// addGEWithZR sets r = a + b, a in Jacobian coordinates and b affine. If
// rzr is non-nil it receives the h factor such that r.z == a.z * h,
// which lets a caller that is building a chain of additions (e.g. an
// odd-multiples table) track the running Z ratio without re-deriving it.
func (r *GroupElementJacobian) addGEWithZR(a *GroupElementJacobian, b *GroupElementAffine, rzr *FieldElement) {
	if a.infinity {
		r.setGE(b)
		return
	}
	if b.infinity {
		if rzr != nil {
			rzr.setInt(1)
		}
		*r = *a
		return
	}

	var az2, u1, u2, s1, s2, h, i FieldElement

	az2.sqr(&a.z)

	u1 = a.x
	u2.mul(&b.x, &az2)

	s1 = a.y
	s2.mul(&b.y, &az2)
	s2.mul(&s2, &a.z)

	h.negate(&u1, a.x.magnitude)
	h.add(&u2)

	i.negate(&s2, 1)
	i.add(&s1)

	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			if rzr != nil {
				*rzr = a.y
			}
			r.double(a)
			return
		}
		if rzr != nil {
			rzr.setInt(0)
		}
		r.setInfinity()
		return
	}

	r.infinity = false
	if rzr != nil {
		*rzr = h
	}

	r.z.mul(&a.z, &h)

	var hSq, negHSq, hCb, t FieldElement
	hSq.sqr(&h)
	negHSq.negate(&hSq, 1)
	hCb.mul(&negHSq, &h)

	t.mul(&u1, &negHSq)

	r.x.sqr(&i)
	r.x.add(&hCb)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)

	hCb.mul(&hCb, &s1)
	r.y.add(&hCb)
}

// addGE sets r = a + b (Jacobian + affine) without tracking the Z ratio.
func (r *GroupElementJacobian) addGE(a *GroupElementJacobian, b *GroupElementAffine) {
	r.addGEWithZR(a, b, nil)
}

// clear zeroes an affine point's coordinates.
func (r *GroupElementAffine) clear() {
	r.x.clear()
	r.y.clear()
	r.infinity = true
}

// clear zeroes a Jacobian point's coordinates.
func (r *GroupElementJacobian) clear() {
	r.x.clear()
	r.y.clear()
	r.z.clear()
	r.infinity = true
}

// --- storage / wire encoding ---

// toStorage writes r into the compact table-storage format, normalizing
// coordinates first if they aren't already.
func (r *GroupElementAffine) toStorage(s *GroupElementStorage) {
	if r.infinity {
		for i := range s.x {
			s.x[i] = 0
			s.y[i] = 0
		}
		return
	}

	if !r.x.normalized {
		r.x.normalize()
	}
	if !r.y.normalized {
		r.y.normalize()
	}

	r.x.getB32(s.x[:])
	r.y.getB32(s.y[:])
}

// fromStorage loads r from the compact table-storage format.
func (r *GroupElementAffine) fromStorage(s *GroupElementStorage) {
	if isAllZero(s.x[:]) && isAllZero(s.y[:]) {
		r.setInfinity()
		return
	}

	r.x.setB32(s.x[:])
	r.y.setB32(s.y[:])
	r.infinity = false
}

// toBytes writes r as 64 bytes (32-byte X followed by 32-byte Y),
// encoding infinity as all zeros.
func (r *GroupElementAffine) toBytes(buf []byte) {
	if len(buf) < 64 {
		panic("p256k1: toBytes needs a 64-byte buffer")
	}

	if r.infinity {
		for i := range buf[:64] {
			buf[i] = 0
		}
		return
	}

	if !r.x.normalized {
		r.x.normalize()
	}
	if !r.y.normalized {
		r.y.normalize()
	}

	r.x.getB32(buf[:32])
	r.y.getB32(buf[32:64])
}

// fromBytes loads r from the 64-byte X||Y encoding toBytes produces.
func (r *GroupElementAffine) fromBytes(buf []byte) {
	if len(buf) < 64 {
		panic("p256k1: fromBytes needs a 64-byte buffer")
	}

	if isAllZero(buf[:64]) {
		r.setInfinity()
		return
	}

	r.x.setB32(buf[:32])
	r.y.setB32(buf[32:64])
	r.infinity = false
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
