package p256k1

import (
	"unsafe"

	pkgerrors "github.com/pkg/errors"
)

// XOnlyPubkey is the 32-byte x-coordinate-only public key format BIP-340
// standardizes: a Schnorr pubkey never carries its Y coordinate, since
// verification recovers the even-Y point implicitly.
type XOnlyPubkey struct {
	data [32]byte
}

// KeyPair bundles a 32-byte secret scalar with its derived PublicKey so
// Schnorr signing call sites don't need to re-derive the point on every
// call.
type KeyPair struct {
	seckey [32]byte
	pubkey PublicKey
}

// XOnlyPubkeyParse decodes a 32-byte x-coordinate into an XOnlyPubkey,
// choosing the even-Y lift of x per BIP-340's pubkey convention.
func XOnlyPubkeyParse(input32 []byte) (*XOnlyPubkey, error) {
	if len(input32) != 32 {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("x-only pubkey input must be 32 bytes"))
	}

	var x FieldElement
	if err := x.setB32(input32); err != nil {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("x-only pubkey coordinate out of range"))
	}

	var pt GroupElementAffine
	if !pt.setXOVar(&x, false) {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("x coordinate is not on the curve"))
	}
	if !pt.isValid() {
		return nil, wrapErr(ErrInvalidPublicKey, pkgerrors.New("lifted point failed curve-equation check"))
	}

	xonly := &XOnlyPubkey{}
	copy(xonly.data[:], input32)
	return xonly, nil
}

// Serialize returns the 32-byte encoding of an x-only public key.
func (xonly *XOnlyPubkey) Serialize() [32]byte {
	return xonly.data
}

// XOnlyPubkeyFromPubkey drops the Y coordinate from a full PublicKey,
// returning the resulting XOnlyPubkey along with the parity bit (1 if the
// original Y was odd) a caller needs to reconstruct the sign in a
// tweak/negate chain.
func XOnlyPubkeyFromPubkey(pubkey *PublicKey) (*XOnlyPubkey, int, error) {
	if pubkey == nil {
		return nil, 0, wrapErr(ErrInvalidPublicKey, pkgerrors.New("pubkey is nil"))
	}

	var pt GroupElementAffine
	pt.fromBytes(pubkey.data[:])
	if pt.isInfinity() {
		return nil, 0, wrapErr(ErrInvalidPublicKey, pkgerrors.New("pubkey is the point at infinity"))
	}

	pt.y.normalize()
	parity := 0
	if pt.y.isOdd() {
		parity = 1
		pt.negate(&pt)
	}

	xonly := &XOnlyPubkey{}
	pt.x.normalize()
	pt.x.getB32(xonly.data[:])
	return xonly, parity, nil
}

// XOnlyPubkeyCmp orders two x-only public keys by their big-endian byte
// representation: negative if xonly1 sorts first, positive if it sorts
// after, zero on equality.
func XOnlyPubkeyCmp(xonly1, xonly2 *XOnlyPubkey) int {
	if xonly1 == nil || xonly2 == nil {
		panic("p256k1: XOnlyPubkeyCmp given a nil key")
	}

	for i := 0; i < 32; i++ {
		switch {
		case xonly1.data[i] < xonly2.data[i]:
			return -1
		case xonly1.data[i] > xonly2.data[i]:
			return 1
		}
	}
	return 0
}

// KeyPairCreate builds a KeyPair from an existing 32-byte secret key,
// deriving its public key once so Sign callers reuse it.
func KeyPairCreate(seckey []byte) (*KeyPair, error) {
	if len(seckey) != 32 {
		return nil, wrapErr(ErrInvalidPrivateKey, pkgerrors.New("secret key must be 32 bytes"))
	}
	if !ECSeckeyVerify(seckey) {
		return nil, wrapErr(ErrInvalidPrivateKey, pkgerrors.New("secret key is out of range"))
	}

	var pubkey PublicKey
	if err := ECPubkeyCreate(&pubkey, seckey); err != nil {
		return nil, err
	}

	kp := &KeyPair{pubkey: pubkey}
	copy(kp.seckey[:], seckey)
	return kp, nil
}

// KeyPairGenerate draws a fresh random secret key and wraps it in a
// KeyPair.
func KeyPairGenerate() (*KeyPair, error) {
	seckey, pubkey, err := ECKeyPairGenerate()
	if err != nil {
		return nil, err
	}

	kp := &KeyPair{pubkey: *pubkey}
	copy(kp.seckey[:], seckey)
	return kp, nil
}

// Seckey returns the 32-byte secret key backing this pair.
func (kp *KeyPair) Seckey() []byte { return kp.seckey[:] }

// Pubkey returns the full (Y-carrying) public key.
func (kp *KeyPair) Pubkey() *PublicKey { return &kp.pubkey }

// XOnlyPubkey returns the BIP-340 x-only form of this pair's public key.
func (kp *KeyPair) XOnlyPubkey() (*XOnlyPubkey, error) {
	xonly, _, err := XOnlyPubkeyFromPubkey(&kp.pubkey)
	return xonly, err
}

// Clear zeroes the secret key and discards the cached public key, so a
// KeyPair that is done being used doesn't keep key material resident.
func (kp *KeyPair) Clear() {
	memclear(unsafe.Pointer(&kp.seckey[0]), 32)
	kp.pubkey.data = [64]byte{}
}
