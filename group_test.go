package p256k1

import "testing"

func jacobianOfGenerator() GroupElementJacobian {
	var j GroupElementJacobian
	j.setGE(&Generator)
	return j
}

func affineOf(j *GroupElementJacobian) GroupElementAffine {
	var a GroupElementAffine
	a.setGEJ(j)
	return a
}

func TestGeneratorIsValidAndFinite(t *testing.T) {
	var inf GroupElementAffine
	inf.setInfinity()
	if !inf.isInfinity() {
		t.Error("setInfinity() should produce an infinite point")
	}

	if Generator.isInfinity() {
		t.Error("the generator should not be infinity")
	}
	if !Generator.isValid() {
		t.Error("the generator should satisfy the curve equation")
	}
}

func TestAffineNegationIsInvolutive(t *testing.T) {
	var negGen GroupElementAffine
	negGen.negate(&Generator)
	if negGen.isInfinity() {
		t.Error("negated generator should not be infinity")
	}

	var doubleNeg GroupElementAffine
	doubleNeg.negate(&negGen)
	if !doubleNeg.equal(&Generator) {
		t.Error("negating twice should recover the generator")
	}

	var inf, negInf GroupElementAffine
	inf.setInfinity()
	negInf.negate(&inf)
	if !negInf.isInfinity() {
		t.Error("negating infinity should yield infinity")
	}
}

func TestSetXYPreservesCoordinates(t *testing.T) {
	var x, y FieldElement
	x.setInt(1)
	y.setInt(1)

	var point GroupElementAffine
	point.setXY(&x, &y)

	if point.isInfinity() {
		t.Error("a point built from explicit coordinates is never infinity")
	}
	if !point.x.equal(&x) {
		t.Error("x coordinate was not preserved by setXY")
	}
	if !point.y.equal(&y) {
		t.Error("y coordinate was not preserved by setXY")
	}
}

func TestSetXOVarRecoversGeneratorFromItsXCoordinate(t *testing.T) {
	gx := GeneratorX
	gx.normalize()

	var evenY, oddY GroupElementAffine
	if !evenY.setXOVar(&gx, false) {
		t.Fatal("setXOVar(Gx, even) should succeed: Gx is on the curve")
	}
	if !oddY.setXOVar(&gx, true) {
		t.Fatal("setXOVar(Gx, odd) should succeed: Gx is on the curve")
	}

	var negEven GroupElementAffine
	negEven.negate(&evenY)
	if !negEven.equal(&oddY) {
		t.Error("the even-Y and odd-Y points for the same x should be negatives of each other")
	}

	wantParityMatch := evenY.equal(&Generator) || oddY.equal(&Generator)
	if !wantParityMatch {
		t.Error("one of the two recovered points should equal the generator itself")
	}
}

func TestAffineEquality(t *testing.T) {
	gen2 := Generator
	if !Generator.equal(&gen2) {
		t.Error("a point should equal a copy of itself")
	}

	var negGen GroupElementAffine
	negGen.negate(&Generator)
	if Generator.equal(&negGen) {
		t.Error("the generator should not equal its own negation")
	}

	var inf1, inf2 GroupElementAffine
	inf1.setInfinity()
	inf2.setInfinity()
	if !inf1.equal(&inf2) {
		t.Error("two infinity points should be equal")
	}
	if Generator.equal(&inf1) {
		t.Error("the generator should not equal infinity")
	}
}

func TestJacobianRoundTripsThroughAffine(t *testing.T) {
	var inf GroupElementJacobian
	inf.setInfinity()
	if !inf.isInfinity() {
		t.Error("Jacobian setInfinity should be infinity")
	}

	genJ := jacobianOfGenerator()
	if genJ.isInfinity() {
		t.Error("the generator lifted to Jacobian should not be infinity")
	}

	back := affineOf(&genJ)
	if !back.equal(&Generator) {
		t.Error("affine -> Jacobian -> affine should be the identity")
	}
}

func TestJacobianDoublingMatchesAddingToSelf(t *testing.T) {
	genJ := jacobianOfGenerator()

	var doubled GroupElementJacobian
	doubled.double(&genJ)
	if doubled.isInfinity() {
		t.Error("2G should not be infinity")
	}
	doubledAff := affineOf(&doubled)
	if doubledAff.equal(&Generator) {
		t.Error("2G should not equal G")
	}

	var inf, doubledInf GroupElementJacobian
	inf.setInfinity()
	doubledInf.double(&inf)
	if !doubledInf.isInfinity() {
		t.Error("doubling infinity should yield infinity")
	}

	var sum GroupElementJacobian
	sum.addVar(&genJ, &genJ)
	sumAff := affineOf(&sum)
	if !sumAff.equal(&doubledAff) {
		t.Error("G + G should equal double(G)")
	}
}

func TestJacobianAddVarIdentityAndInverse(t *testing.T) {
	genJ := jacobianOfGenerator()
	var inf GroupElementJacobian
	inf.setInfinity()

	var rightIdentity GroupElementJacobian
	rightIdentity.addVar(&genJ, &inf)
	rightIdentityAff := affineOf(&rightIdentity)
	if !rightIdentityAff.equal(&Generator) {
		t.Error("G + O should equal G")
	}

	var leftIdentity GroupElementJacobian
	leftIdentity.addVar(&inf, &genJ)
	leftIdentityAff := affineOf(&leftIdentity)
	if !leftIdentityAff.equal(&Generator) {
		t.Error("O + G should equal G")
	}

	var negGen GroupElementAffine
	negGen.negate(&Generator)
	var negGenJ GroupElementJacobian
	negGenJ.setGE(&negGen)

	var shouldBeInf GroupElementJacobian
	shouldBeInf.addVar(&genJ, &negGenJ)
	if !shouldBeInf.isInfinity() {
		t.Error("G + (-G) should be infinity")
	}
}

func TestMixedAdditionAddGE(t *testing.T) {
	genJ := jacobianOfGenerator()

	var negGen GroupElementAffine
	negGen.negate(&Generator)

	var shouldBeInf GroupElementJacobian
	shouldBeInf.addGE(&genJ, &negGen)
	if !shouldBeInf.isInfinity() {
		t.Error("mixed addition of G and -G should give infinity")
	}

	var inf GroupElementAffine
	inf.setInfinity()
	var result GroupElementJacobian
	result.addGE(&genJ, &inf)
	resultAff := affineOf(&result)
	if !resultAff.equal(&Generator) {
		t.Error("mixed addition of G and infinity should give G")
	}
}

func TestJacobianNegateMatchesAffineNegate(t *testing.T) {
	genJ := jacobianOfGenerator()

	var negGenJ GroupElementJacobian
	negGenJ.negate(&genJ)
	if negGenJ.isInfinity() {
		t.Error("negated Jacobian generator should not be infinity")
	}

	var wantNeg GroupElementAffine
	wantNeg.negate(&Generator)
	negGenAff := affineOf(&negGenJ)
	if !negGenAff.equal(&wantNeg) {
		t.Error("Jacobian negate should match affine negate under conversion")
	}
}

func TestStorageAndBytesRoundTrip(t *testing.T) {
	var storage GroupElementStorage
	Generator.toStorage(&storage)
	var fromStore GroupElementAffine
	fromStore.fromStorage(&storage)
	if !fromStore.equal(&Generator) {
		t.Error("toStorage/fromStorage should round-trip the generator")
	}

	var raw [64]byte
	Generator.toBytes(raw[:])
	var fromRaw GroupElementAffine
	fromRaw.fromBytes(raw[:])
	if !fromRaw.equal(&Generator) {
		t.Error("toBytes/fromBytes should round-trip the generator")
	}
}

func TestClearResetsToInfinity(t *testing.T) {
	gen := Generator
	gen.clear()
	if !gen.isInfinity() {
		t.Error("clearing an affine point should leave it at infinity")
	}

	genJ := jacobianOfGenerator()
	genJ.clear()
	if !genJ.isInfinity() {
		t.Error("clearing a Jacobian point should leave it at infinity")
	}
}

func TestAdditionIsAssociativeAndCommutative(t *testing.T) {
	genJ := jacobianOfGenerator()

	var twoG GroupElementJacobian
	twoG.addVar(&genJ, &genJ)

	var leftAssoc, rightAssoc GroupElementJacobian
	leftAssoc.addVar(&twoG, &genJ)
	rightAssoc.addVar(&genJ, &twoG)
	leftAssocAff := affineOf(&leftAssoc)
	rightAssocAff := affineOf(&rightAssoc)
	if !leftAssocAff.equal(&rightAssocAff) {
		t.Error("(G+G)+G should equal G+(G+G)")
	}

	var doubled GroupElementJacobian
	doubled.double(&genJ)

	var sum1, sum2 GroupElementJacobian
	sum1.addVar(&genJ, &doubled)
	sum2.addVar(&doubled, &genJ)
	sum1Aff := affineOf(&sum1)
	sum2Aff := affineOf(&sum2)
	if !sum1Aff.equal(&sum2Aff) {
		t.Error("G+2G should equal 2G+G")
	}
}

func TestSettingCoordinatesLeavesInfinityFlagUnset(t *testing.T) {
	var inf GroupElementAffine
	inf.setInfinity()

	var x, y FieldElement
	x.setInt(0)
	y.setInt(0)
	inf.setXY(&x, &y)
	if inf.isInfinity() {
		t.Error("setXY should clear the infinity flag even for (0,0)")
	}
}

func TestJacobianConversionOfInfinityRoundTrips(t *testing.T) {
	var inf GroupElementAffine
	inf.setInfinity()

	var infJ GroupElementJacobian
	infJ.setGE(&inf)
	if !infJ.isInfinity() {
		t.Error("lifting infinity to Jacobian should stay infinity")
	}

	back := affineOf(&infJ)
	if !back.isInfinity() {
		t.Error("lowering Jacobian infinity back to affine should stay infinity")
	}
}

func TestRepeatedDoublingProducesDistinctPowers(t *testing.T) {
	current := jacobianOfGenerator()
	powers := make([]GroupElementAffine, 8)
	powers[0] = Generator

	for i := 1; i < len(powers); i++ {
		current.double(&current)
		powers[i] = affineOf(&current)

		if powers[i].isInfinity() {
			t.Fatalf("2^%d * G should not be infinity", i)
		}
		for j := 0; j < i; j++ {
			if powers[i].equal(&powers[j]) {
				t.Fatalf("2^%d * G should not equal 2^%d * G", i, j)
			}
		}
	}
}

func BenchmarkJacobianDouble(b *testing.B) {
	genJ := jacobianOfGenerator()
	var result GroupElementJacobian

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.double(&genJ)
	}
}

func BenchmarkJacobianAddVar(b *testing.B) {
	genJ := jacobianOfGenerator()
	var doubled, result GroupElementJacobian
	doubled.double(&genJ)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.addVar(&genJ, &doubled)
	}
}

func BenchmarkJacobianAddGE(b *testing.B) {
	genJ := jacobianOfGenerator()
	var negGen GroupElementAffine
	negGen.negate(&Generator)
	var result GroupElementJacobian

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.addGE(&genJ, &negGen)
	}
}

func BenchmarkSetGEJ(b *testing.B) {
	genJ := jacobianOfGenerator()
	var result GroupElementAffine

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.setGEJ(&genJ)
	}
}

func BenchmarkAffineNegate(b *testing.B) {
	var result GroupElementAffine

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result.negate(&Generator)
	}
}
