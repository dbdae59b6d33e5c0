package p256k1

import "errors"

// maxNonceRetries bounds the RFC 6979 retry loop. Exceeding it is
// astronomically unlikely and signals a bug rather than bad luck.
const maxNonceRetries = 256

// NonceValidator is called with each RFC 6979 candidate scalar; it returns
// true to accept the candidate and false to force another retry round.
type NonceValidator func(k *Scalar) bool

// GenerateRFC6979Nonce derives a deterministic nonce scalar from a private
// key and message hash, following RFC 6979 §3.2: seed the HMAC-DRBG from
// bits2octets(d) || bits2octets(h) || extras, then draw candidates until
// one both lies in [1, n-1] and satisfies validate.
//
// extras supplies the optional additional entropy octets RFC 6979 allows
// appending after bits2octets(h); pass nil for the plain deterministic
// behavior.
func GenerateRFC6979Nonce(privkey *Scalar, msgHash []byte, extras []byte, validate NonceValidator) (*Scalar, error) {
	if privkey == nil {
		return nil, errors.New("private key cannot be nil")
	}
	if len(msgHash) != 32 {
		return nil, errors.New("message hash must be 32 bytes")
	}

	var dBytes [32]byte
	privkey.getB32(dBytes[:])

	// bits2octets(h): reduce h mod n once (it can overflow by at most one
	// subtraction, since h < 2^256 and n is just under 2^256), then
	// re-encode to 32 bytes. Using the raw hash bytes here would only
	// diverge from this for the astronomically rare h >= n, but RFC 6979
	// §3.2 calls for the reduced form regardless.
	var hScalar Scalar
	hScalar.setB32(msgHash)
	var hBytes [32]byte
	hScalar.getB32(hBytes[:])

	seed := make([]byte, 0, 32+32+len(extras))
	seed = append(seed, dBytes[:]...)
	seed = append(seed, hBytes[:]...)
	seed = append(seed, extras...)

	rng := newRFC6979Drbg(seed)
	defer rng.Clear()
	memclear2(dBytes[:])
	memclear2(hBytes[:])

	for attempt := 0; attempt < maxNonceRetries; attempt++ {
		var candidate [32]byte
		rng.Generate(candidate[:])

		var k Scalar
		overflow := k.setB32(candidate[:])
		memclear2(candidate[:])

		if overflow || k.isZero() {
			continue
		}
		if validate != nil && !validate(&k) {
			continue
		}
		return &k, nil
	}

	return nil, errors.New("RFC 6979 nonce generation exceeded retry bound")
}

func memclear2(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
