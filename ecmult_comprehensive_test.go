package p256k1

import (
	"crypto/rand"
	"testing"
)

func affineFromGen(k *Scalar) GroupElementAffine {
	var jac GroupElementJacobian
	EcmultGen(&jac, k)
	var aff GroupElementAffine
	aff.setGEJ(&jac)
	aff.x.normalize()
	aff.y.normalize()
	return aff
}

func TestEcmultGenIdentityAndUnit(t *testing.T) {
	var zero, one Scalar
	zero.setInt(0)
	one.setInt(1)

	var zeroResult GroupElementJacobian
	EcmultGen(&zeroResult, &zero)
	if !zeroResult.isInfinity() {
		t.Error("0*G should be the point at infinity")
	}

	oneResult := affineFromGen(&one)
	if oneResult.isInfinity() {
		t.Fatal("1*G should not be infinity")
	}
	if !oneResult.equal(&Generator) {
		t.Error("1*G should equal the generator point")
	}
}

func TestEcmultGenAdditivity(t *testing.T) {
	var a, b, sum Scalar
	a.setInt(7)
	b.setInt(11)
	sum.add(&a, &b)

	var aJac, bJac, sumJac, combined GroupElementJacobian
	EcmultGen(&aJac, &a)
	EcmultGen(&bJac, &b)
	EcmultGen(&sumJac, &sum)
	combined.addVar(&aJac, &bJac)

	var want, got GroupElementAffine
	want.setGEJ(&sumJac)
	got.setGEJ(&combined)
	want.x.normalize()
	want.y.normalize()
	got.x.normalize()
	got.y.normalize()

	if !want.equal(&got) {
		t.Error("[a]G + [b]G should equal [a+b]G")
	}
}

func TestEcmultGenMatchesEcmultConst(t *testing.T) {
	for i := 0; i < 8; i++ {
		var k Scalar
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			t.Fatalf("rand: %v", err)
		}
		k.setB32(buf[:])
		if k.isZero() {
			continue
		}

		fixedBase := affineFromGen(&k)

		var varBase GroupElementJacobian
		EcmultConst(&varBase, &Generator, &k)
		var varBaseAff GroupElementAffine
		varBaseAff.setGEJ(&varBase)
		varBaseAff.x.normalize()
		varBaseAff.y.normalize()

		if !fixedBase.equal(&varBaseAff) {
			t.Fatalf("EcmultGen and EcmultConst(G) disagree for k=%x", buf)
		}
	}
}

func TestEcmultDoubleScalarVar(t *testing.T) {
	var u1, u2 Scalar
	u1.setInt(3)
	u2.setInt(5)

	// [u1]G + [u2]G should equal [u1+u2]G, checked via the double-scalar
	// entry point ECDSA verification itself relies on.
	var result GroupElementJacobian
	EcmultDoubleScalarVar(&result, &u1, &u2, &Generator)

	var sum Scalar
	sum.add(&u1, &u2)
	want := affineFromGen(&sum)

	var got GroupElementAffine
	got.setGEJ(&result)
	got.x.normalize()
	got.y.normalize()

	if !want.equal(&got) {
		t.Error("EcmultDoubleScalarVar(u1, u2, G) should equal [u1+u2]G")
	}
}

func TestEcmultDoubleScalarVarWithDistinctPoints(t *testing.T) {
	dA, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("ECSeckeyGenerate: %v", err)
	}
	var a Scalar
	a.setB32Seckey(dA)
	p := affineFromGen(&a)

	var u1, u2 Scalar
	u1.setInt(2)
	u2.setInt(9)

	var result GroupElementJacobian
	EcmultDoubleScalarVar(&result, &u1, &u2, &p)

	var u1G, u2P, want GroupElementJacobian
	EcmultGen(&u1G, &u1)
	EcmultConst(&u2P, &p, &u2)
	want.addVar(&u1G, &u2P)

	var wantAff, gotAff GroupElementAffine
	wantAff.setGEJ(&want)
	gotAff.setGEJ(&result)
	wantAff.x.normalize()
	wantAff.y.normalize()
	gotAff.x.normalize()
	gotAff.y.normalize()

	if !wantAff.equal(&gotAff) {
		t.Error("EcmultDoubleScalarVar(u1, u2, P) should equal [u1]G + [u2]P")
	}
}

func TestEcmultConstRejectsNothingForValidScalars(t *testing.T) {
	for i := 1; i < 32; i++ {
		var k Scalar
		k.setInt(uint(i))

		var result GroupElementJacobian
		EcmultConst(&result, &Generator, &k)
		if result.isInfinity() {
			t.Fatalf("[%d]G should not be infinity", i)
		}
	}
}

func TestEcmultGenNegationCancels(t *testing.T) {
	// [k]G + [-k mod n]G must be the point at infinity, exercising the
	// scalar field's modular negation against the group law.
	var k Scalar
	k.setInt(999983)
	var negK Scalar
	negK.negate(&k)

	var kG, negKG, sum GroupElementJacobian
	EcmultGen(&kG, &k)
	EcmultGen(&negKG, &negK)
	sum.addVar(&kG, &negKG)

	if !sum.isInfinity() {
		t.Error("[k]G + [-k]G should be the point at infinity")
	}
}
