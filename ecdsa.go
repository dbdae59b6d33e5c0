package p256k1

import "errors"

// ECDSASignature is a parsed ECDSA signature (r, s), both reduced mod the
// group order.
type ECDSASignature struct {
	r, s Scalar
}

// normalizeHash32 maps an arbitrary-length big-endian hash onto the 32-byte
// buffer Scalar.setB32 expects, per RFC 6979's byte-aligned bits2int rule for
// a 256-bit order: shorter inputs are zero-padded on the left, longer inputs
// are truncated to their leftmost 32 bytes. ECDSA accepts a msgHash of any
// length this way (spec §9); BIP-340 Schnorr does not share this leniency.
func normalizeHash32(h []byte) [32]byte {
	var buf [32]byte
	if len(h) >= 32 {
		copy(buf[:], h[:32])
	} else {
		copy(buf[32-len(h):], h)
	}
	return buf
}

// addBE32 adds two 256-bit big-endian values, returning the 32-byte sum and
// whether the addition carried out of the top (i.e. the true sum is >= 2^256).
func addBE32(a, b [32]byte) (sum [32]byte, carry bool) {
	var c uint16
	for i := 31; i >= 0; i-- {
		t := uint16(a[i]) + uint16(b[i]) + c
		sum[i] = byte(t)
		c = t >> 8
	}
	return sum, c != 0
}

// ECDSASignOpts controls optional ECDSASign behavior.
type ECDSASignOpts struct {
	// Canonical forces the low-S form (s <= n/2), flipping the recovery
	// id's parity bit to match.
	Canonical bool
	// ExtraEntropy is appended to the RFC 6979 seed as additional
	// entropy; nil reproduces the plain deterministic nonce.
	ExtraEntropy []byte
}

// ECDSASign produces a deterministic ECDSA signature over msghash under
// seckey, along with the recovery id needed to recover the public key from
// (msghash, sig) alone. msghash may be any length; it is reduced mod n per
// normalizeHash32, matching RFC 6979/spec §9's asymmetry with Schnorr.
//
// recoveryId = (R.y & 1) | ((R.x >= n) ? 2 : 0), flipped in its low bit if
// s was negated to enforce canonical (low-S) form.
func ECDSASign(sig *ECDSASignature, msghash []byte, seckey []byte, opts *ECDSASignOpts) (recoveryID byte, err error) {
	if len(seckey) != 32 {
		return 0, errors.New("private key must be 32 bytes")
	}
	if opts == nil {
		opts = &ECDSASignOpts{}
	}

	var sec Scalar
	if !sec.setB32Seckey(seckey) {
		return 0, errors.New("invalid private key")
	}

	hashBytes := normalizeHash32(msghash)

	var e Scalar
	e.setB32(hashBytes[:])

	var rAff GroupElementAffine
	var rOverflow bool

	validate := func(k *Scalar) bool {
		var rp GroupElementJacobian
		EcmultGen(&rp, k)

		var aff GroupElementAffine
		aff.setGEJ(&rp)
		if aff.isInfinity() {
			return false
		}
		aff.x.normalize()
		aff.y.normalize()

		var rBytes [32]byte
		aff.x.getB32(rBytes[:])

		var rCandidate Scalar
		rOverflow = rCandidate.setB32(rBytes[:])
		if rCandidate.isZero() {
			return false
		}

		var kInv Scalar
		kInv.inverse(k)

		var sCandidate Scalar
		sCandidate.mul(&rCandidate, &sec)
		sCandidate.add(&sCandidate, &e)
		sCandidate.mul(&kInv, &sCandidate)
		kInv.clear()

		if sCandidate.isZero() {
			return false
		}

		sig.r = rCandidate
		sig.s = sCandidate
		rAff = aff
		return true
	}

	nonce, err := GenerateRFC6979Nonce(&sec, hashBytes[:], opts.ExtraEntropy, validate)
	if err != nil {
		sec.clear()
		return 0, err
	}
	nonce.clear()

	recoveryID = byte(0)
	rAff.y.normalize()
	if rAff.y.isOdd() {
		recoveryID |= 0x01
	}
	if rOverflow {
		recoveryID |= 0x02
	}

	if opts.Canonical && sig.s.isHigh() {
		sig.s.negate(&sig.s)
		recoveryID ^= 0x01
	}

	sec.clear()
	e.clear()

	return recoveryID, nil
}

// ECDSAVerify checks that sig is a valid signature over msghash under
// pubkey. msghash may be any length, reduced mod n per normalizeHash32.
func ECDSAVerify(sig *ECDSASignature, msghash []byte, pubkey *PublicKey) bool {
	if sig.r.isZero() || sig.s.isZero() {
		return false
	}
	if sig.r.checkOverflow() || sig.s.checkOverflow() {
		return false
	}

	hashBytes := normalizeHash32(msghash)

	var msg Scalar
	msg.setB32(hashBytes[:])

	var pubkeyPoint GroupElementAffine
	pubkeyPoint.fromBytes(pubkey.data[:])
	if pubkeyPoint.isInfinity() || !pubkeyPoint.isValid() {
		return false
	}

	var sInv Scalar
	sInv.inverse(&sig.s)

	var u1, u2 Scalar
	u1.mul(&msg, &sInv)
	u2.mul(&sig.r, &sInv)

	// R = u1*G + u2*P, a single public variable-time double multiplication.
	var rj GroupElementJacobian
	EcmultDoubleScalarVar(&rj, &u1, &u2, &pubkeyPoint)

	if rj.isInfinity() {
		return false
	}

	var rAff GroupElementAffine
	rAff.setGEJ(&rj)
	rAff.x.normalize()

	var rBytes [32]byte
	rAff.x.getB32(rBytes[:])

	var computedR Scalar
	computedR.setB32(rBytes[:])

	return sig.r.equal(&computedR)
}

// recoverPublicKey recovers the public key that produced sig over msghash
// (any length, reduced mod n per normalizeHash32), given the recovery id
// from ECDSASign.
func recoverPublicKey(pubkey *PublicKey, sig *ECDSASignature, msghash []byte, recoveryID byte) error {
	if recoveryID > 3 {
		return errors.New("invalid recovery id")
	}
	if sig.r.isZero() || sig.s.isZero() {
		return errors.New("invalid signature")
	}

	j := (recoveryID >> 1) & 1
	parity := recoveryID & 1

	var rBytes [32]byte
	sig.r.getB32(rBytes[:])

	xBytes := rBytes
	if j != 0 {
		var nScalar Scalar
		nScalar.d[0], nScalar.d[1], nScalar.d[2], nScalar.d[3] = scalarN0, scalarN1, scalarN2, scalarN3
		var nBytes [32]byte
		nScalar.getB32(nBytes[:])

		sum, carry := addBE32(rBytes, nBytes)
		if carry {
			return errors.New("invalid recovery: r + n overflows the field")
		}
		xBytes = sum
	}

	var x FieldElement
	if err := x.setB32(xBytes[:]); err != nil {
		return errors.New("invalid recovery: r + j*n is out of field range")
	}

	var rPoint GroupElementAffine
	if !rPoint.setXOVar(&x, parity != 0) {
		return errors.New("invalid recovery: r is not a valid x coordinate")
	}

	hashBytes := normalizeHash32(msghash)

	var e Scalar
	e.setB32(hashBytes[:])

	var rInv Scalar
	rInv.inverse(&sig.r)

	var u1 Scalar
	u1.mul(&e, &rInv)
	u1.negate(&u1)

	var u2 Scalar
	u2.mul(&sig.s, &rInv)

	var qj GroupElementJacobian
	EcmultDoubleScalarVar(&qj, &u1, &u2, &rPoint)
	if qj.isInfinity() {
		return errors.New("recovered point is infinity")
	}

	var qAff GroupElementAffine
	qAff.setGEJ(&qj)
	qAff.toBytes(pubkey.data[:])

	return nil
}

// ECDSASignatureCompact is the 64-byte compact (r || s) encoding.
type ECDSASignatureCompact [64]byte

// ToCompact serializes sig to its 64-byte compact form.
func (sig *ECDSASignature) ToCompact() *ECDSASignatureCompact {
	var compact ECDSASignatureCompact
	sig.r.getB32(compact[:32])
	sig.s.getB32(compact[32:])
	return &compact
}

// FromCompact parses a 64-byte compact signature, requiring both r and s to
// lie strictly in [1, n-1] (a value >= n is rejected, not silently reduced).
func (sig *ECDSASignature) FromCompact(compact *ECDSASignatureCompact) error {
	if sig.r.setB32(compact[:32]) {
		return errors.New("invalid signature: r >= group order")
	}
	if sig.s.setB32(compact[32:64]) {
		return errors.New("invalid signature: s >= group order")
	}
	if sig.r.isZero() || sig.s.isZero() {
		return errors.New("invalid signature: r or s is zero")
	}
	return nil
}

// ECDSAVerifyCompact verifies a 64-byte compact signature.
func ECDSAVerifyCompact(compact *ECDSASignatureCompact, msghash32 []byte, pubkey *PublicKey) bool {
	var sig ECDSASignature
	if err := sig.FromCompact(compact); err != nil {
		return false
	}
	return ECDSAVerify(&sig, msghash32, pubkey)
}

// ECDSASignCompact signs and returns the 64-byte compact encoding plus the
// recovery id.
func ECDSASignCompact(compact *ECDSASignatureCompact, msghash32 []byte, seckey []byte, opts *ECDSASignOpts) (recoveryID byte, err error) {
	var sig ECDSASignature
	recoveryID, err = ECDSASign(&sig, msghash32, seckey, opts)
	if err != nil {
		return 0, err
	}
	*compact = *sig.ToCompact()
	return recoveryID, nil
}
