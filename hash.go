package p256k1

import (
	"crypto/hmac"
	"hash"
	"sync"

	pkgerrors "github.com/pkg/errors"

	sha256simd "github.com/minio/sha256-simd"
)

// newDigest returns a fresh SHA-256 digest. Every hash in this package
// routes through sha256-simd rather than crypto/sha256, for its AVX2/SHA-NI
// acceleration paths; crypto/hmac composes with it through the ordinary
// hash.Hash interface.
func newDigest() hash.Hash { return sha256simd.New() }

// tagPrefixCache memoizes SHA256(tag) for BIP-340 tags, keyed by the tag
// string. TaggedHash is on the hot path of both schnorr sign and verify, and
// the three BIP-340 tags ("aux", "nonce", "challenge") repeat across every
// call, so the inner SHA256(tag) is worth caching; sync.Map keeps the cache
// safe under concurrent first use without a dedicated init step.
var tagPrefixCache sync.Map // string -> [32]byte

func tagPrefix(tag []byte) [32]byte {
	key := string(tag)
	if v, ok := tagPrefixCache.Load(key); ok {
		return v.([32]byte)
	}

	d := newDigest()
	d.Write(tag)
	var prefix [32]byte
	copy(prefix[:], d.Sum(nil))

	tagPrefixCache.Store(key, prefix)
	return prefix
}

// TaggedHash computes BIP-340's domain-separated hash construction:
// SHA256(SHA256(tag) || SHA256(tag) || data).
func TaggedHash(tag []byte, data []byte) [32]byte {
	prefix := tagPrefix(tag)

	d := newDigest()
	d.Write(prefix[:])
	d.Write(prefix[:])
	d.Write(data)

	var out [32]byte
	copy(out[:], d.Sum(nil))
	return out
}

// SHA256 is a reusable one-shot SHA-256 digest context.
type SHA256 struct {
	digest hash.Hash
}

// NewSHA256 starts a fresh SHA-256 digest.
func NewSHA256() *SHA256 {
	return &SHA256{digest: newDigest()}
}

// Write feeds data into the digest.
func (s *SHA256) Write(data []byte) { s.digest.Write(data) }

// Sum returns the 32-byte digest, writing into out if it is non-nil.
func (s *SHA256) Sum(out []byte) []byte {
	if out == nil {
		out = make([]byte, 32)
	}
	copy(out, s.digest.Sum(nil))
	return out
}

// Finalize writes the 32-byte digest into out32.
func (s *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("p256k1: SHA256.Finalize requires a 32-byte buffer")
	}
	copy(out32, s.digest.Sum(nil))
}

// Clear drops the underlying digest so its internal buffer can be
// collected; a cleared SHA256 must not be reused.
func (s *SHA256) Clear() { s.digest = nil }

// HMACSHA256 is a reusable HMAC-SHA256 context, built on crypto/hmac over
// the sha256-simd digest rather than hand-rolling the inner/outer pad
// bookkeeping.
type HMACSHA256 struct {
	mac hash.Hash
}

// NewHMACSHA256 starts a new HMAC-SHA256 context under key.
func NewHMACSHA256(key []byte) *HMACSHA256 {
	return &HMACSHA256{mac: hmac.New(newDigest, key)}
}

// Write feeds data into the MAC.
func (h *HMACSHA256) Write(data []byte) { h.mac.Write(data) }

// Finalize writes the 32-byte MAC into out32.
func (h *HMACSHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("p256k1: HMACSHA256.Finalize requires a 32-byte buffer")
	}
	copy(out32, h.mac.Sum(nil))
}

// Clear drops the underlying MAC state; a cleared HMACSHA256 must not be
// reused.
func (h *HMACSHA256) Clear() { h.mac = nil }

// rfc6979Drbg is the RFC 6979 §3.2 HMAC-DRBG: an HMAC-SHA256-keyed stream
// that, reseeded once from (V, K), produces an unbounded sequence of
// 32-byte blocks on demand. GenerateRFC6979Nonce in rfc6979.go drives this
// to draw candidate nonces until one satisfies its validator.
type rfc6979Drbg struct {
	v, k   [32]byte
	primed bool
}

// newRFC6979Drbg seeds V and K from seed (RFC 6979 §3.2 steps b-f: the two
// priming HMAC rounds that fold the seed material into K before any output
// is drawn).
func newRFC6979Drbg(seed []byte) *rfc6979Drbg {
	d := &rfc6979Drbg{}
	for i := range d.v {
		d.v[i] = 0x01
	}
	for i := range d.k {
		d.k[i] = 0x00
	}

	d.round(0x00, seed)
	d.round(0x01, seed)
	return d
}

// round performs one K/V update: K = HMAC_K(V || marker || extra); V =
// HMAC_K(V).
func (d *rfc6979Drbg) round(marker byte, extra []byte) {
	mac := NewHMACSHA256(d.k[:])
	mac.Write(d.v[:])
	mac.Write([]byte{marker})
	mac.Write(extra)
	mac.Finalize(d.k[:])
	mac.Clear()

	mac = NewHMACSHA256(d.k[:])
	mac.Write(d.v[:])
	mac.Finalize(d.v[:])
	mac.Clear()
}

// Generate fills out with DRBG output, reseeding with a 0x00 round (RFC
// 6979 §3.2.h) before every draw after the first.
func (d *rfc6979Drbg) Generate(out []byte) {
	if d.primed {
		d.round(0x00, nil)
	}
	d.primed = true

	for len(out) > 0 {
		mac := NewHMACSHA256(d.k[:])
		mac.Write(d.v[:])
		mac.Finalize(d.v[:])
		mac.Clear()

		n := copy(out, d.v[:])
		out = out[n:]
	}
}

// Clear wipes the DRBG's key/state bytes.
func (d *rfc6979Drbg) Clear() {
	for i := range d.v {
		d.v[i] = 0
	}
	for i := range d.k {
		d.k[i] = 0
	}
	d.primed = false
}

// HashToScalar reduces a 32-byte hash into a scalar mod n, the C2 operation
// the Schnorr challenge and RFC 6979 candidate steps both perform.
func HashToScalar(digest []byte) (*Scalar, error) {
	if len(digest) != 32 {
		return nil, wrapErr(ErrInvalidHash, pkgerrors.New("HashToScalar: digest must be 32 bytes"))
	}

	var s Scalar
	s.setB32(digest)
	return &s, nil
}

// HashToField parses a 32-byte hash as a field element, rejecting values
// that are not fully reduced mod p.
func HashToField(digest []byte) (*FieldElement, error) {
	if len(digest) != 32 {
		return nil, wrapErr(ErrInvalidHash, pkgerrors.New("HashToField: digest must be 32 bytes"))
	}

	var f FieldElement
	if err := f.setB32(digest); err != nil {
		return nil, wrapErr(ErrInvalidHash, err)
	}
	return &f, nil
}
