package p256k1

import (
	pkgerrors "github.com/pkg/errors"
)

// SignOpts mirrors the spec's `opts` bag for the high-level Sign entry
// point: DER vs compact output, canonical (low-S) normalization, whether to
// return a recovery id, and optional RFC 6979 extra entropy.
type SignOpts struct {
	DER          bool
	Canonical    bool
	Recovered    bool
	ExtraEntropy []byte
}

// DefaultSignOpts matches the spec's documented defaults: der=true,
// canonical=false, recovered=false, extraEntropy=false.
func DefaultSignOpts() SignOpts {
	return SignOpts{DER: true}
}

// GetPublicKey computes the public key for a private key d, SEC1-encoded
// (33-byte compressed by default, 65-byte uncompressed otherwise).
func GetPublicKey(d []byte, compressed bool) ([]byte, error) {
	var pk PublicKey
	if err := ECPubkeyCreate(&pk, d); err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}

	flag := uint(ECCompressed)
	size := 33
	if !compressed {
		flag = ECUncompressed
		size = 65
	}

	out := make([]byte, size)
	if ECPubkeySerialize(out, &pk, flag) != size {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("serialization failed"))
	}
	return out, nil
}

// GetSharedSecret computes the ECDH shared secret between private key d and
// public key Q, returned as the 33-byte SEC1-compressed point s*Q (the
// spec's default ECDH output, distinct from the hash-based ECDHHashFunction
// variants in ecdh.go, which remain available as opt-in extensions).
func GetSharedSecret(d []byte, qCompressedOrUncompressed []byte) ([]byte, error) {
	var q PublicKey
	if err := ECPubkeyParse(&q, qCompressedOrUncompressed); err != nil {
		return nil, wrapErr(ErrInvalidPublicKey, err)
	}

	var s Scalar
	if !s.setB32Seckey(d) {
		return nil, wrapErr(ErrInvalidPrivateKey, pkgerrors.New("scalar is zero or out of range"))
	}

	var pt GroupElementAffine
	pubkeyLoad(&pt, &q)
	if pt.isInfinity() {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("point at infinity"))
	}

	var res GroupElementJacobian
	EcmultConst(&res, &pt, &s)
	s.clear()

	if res.isInfinity() {
		return nil, wrapErr(ErrNoSolution, pkgerrors.New("shared point is the identity"))
	}

	var resAff GroupElementAffine
	resAff.setGEJ(&res)

	var shared PublicKey
	pubkeySave(&shared, &resAff)

	out := make([]byte, 33)
	ECPubkeySerialize(out, &shared, ECCompressed)
	return out, nil
}

// Sign produces a signature over message hash h (any length, as ECDSASign
// accepts) under private key d, honoring opts for DER vs compact encoding, low-S normalization, and
// optional recovery id.
func Sign(h []byte, d []byte, opts SignOpts) (sigBytes []byte, recovery byte, err error) {
	var sig ECDSASignature
	rec, err := ECDSASign(&sig, h, d, &ECDSASignOpts{
		Canonical:    opts.Canonical,
		ExtraEntropy: opts.ExtraEntropy,
	})
	if err != nil {
		return nil, 0, wrapErr(ErrInvalidPrivateKey, err)
	}

	if opts.DER {
		sigBytes = sig.ToDER()
	} else {
		compact := sig.ToCompact()
		sigBytes = compact[:]
	}

	if opts.Recovered {
		return sigBytes, rec, nil
	}
	return sigBytes, 0, nil
}

// Verify reports whether sig (DER or 64-byte compact) is a valid signature
// over h under public key Q. Malformed input of any kind yields false
// rather than an error, matching the spec's verify boundary policy.
func Verify(sig []byte, h []byte, q []byte) bool {
	var parsed ECDSASignature
	switch len(sig) {
	case 64:
		var compact ECDSASignatureCompact
		copy(compact[:], sig)
		if err := parsed.FromCompact(&compact); err != nil {
			return false
		}
	default:
		if err := parsed.FromDER(sig); err != nil {
			return false
		}
	}

	var pk PublicKey
	if err := ECPubkeyParse(&pk, q); err != nil {
		return false
	}

	return ECDSAVerify(&parsed, h, &pk)
}

// RecoverPublicKey recovers the 65-byte uncompressed public key that
// produced sig over h, given the recovery id from Sign with
// opts.Recovered=true.
func RecoverPublicKey(h []byte, sig []byte, rec byte) ([]byte, error) {
	var parsed ECDSASignature
	switch len(sig) {
	case 64:
		var compact ECDSASignatureCompact
		copy(compact[:], sig)
		if err := parsed.FromCompact(&compact); err != nil {
			return nil, wrapErr(ErrInvalidSignature, err)
		}
	default:
		if err := parsed.FromDER(sig); err != nil {
			return nil, wrapErr(ErrInvalidSignature, err)
		}
	}

	var pk PublicKey
	if err := recoverPublicKey(&pk, &parsed, h, rec); err != nil {
		return nil, wrapErr(ErrNoSolution, err)
	}

	out := make([]byte, 65)
	ECPubkeySerialize(out, &pk, ECUncompressed)
	return out, nil
}

// Schnorr groups the BIP-340 entry points under the spec's schnorr.sign /
// schnorr.verify naming.
var Schnorr = schnorrAPI{}

type schnorrAPI struct{}

// Sign produces a 64-byte BIP-340 signature over a 32-byte message under
// private key d, with optional 32-byte auxiliary randomness.
func (schnorrAPI) Sign(m []byte, d []byte, aux []byte) ([]byte, error) {
	if len(m) != 32 {
		return nil, wrapErr(ErrInvalidHash, pkgerrors.New("message must be 32 bytes"))
	}
	kp, err := KeyPairCreate(d)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}
	defer kp.Clear()

	sig := make([]byte, 64)
	if err := SchnorrSign(sig, m, kp, aux); err != nil {
		return nil, wrapErr(ErrProbabilityExhausted, err)
	}
	return sig, nil
}

// Verify reports whether sig is a valid BIP-340 signature over m under the
// 32-byte x-only public key xOnlyP.
func (schnorrAPI) Verify(sig []byte, m []byte, xOnlyP []byte) bool {
	xonly, err := XOnlyPubkeyParse(xOnlyP)
	if err != nil {
		return false
	}
	return SchnorrVerify(sig, m, xonly)
}

// RandomPrivateKey draws a cryptographically random valid private key.
func RandomPrivateKey() ([]byte, error) {
	return ECSeckeyGenerate()
}

// Precompute forces construction of the shared fixed-base (generator)
// multiplication table ahead of the first Sign/GetPublicKey call, trading
// an eager one-time cost for a faster subsequent call.
func Precompute() {
	ensureGenTable()
}
