package signer

import (
	pkgerrors "github.com/pkg/errors"

	p256k1 "secp256k1.mleku.dev"
)

// Native implements I using this module's own BIP-340 Schnorr arithmetic.
// It normalizes every loaded secret key to the even-Y convention BIP-340
// requires, so the same keypair can feed both Schnorr signing and ECDH.
type Native struct {
	kp        *p256k1.KeyPair
	xonly     *p256k1.XOnlyPubkey
	hasSecret bool
}

// NewNative returns an empty Native signer; call InitSec, InitPub, or
// Generate before using it.
func NewNative() *Native {
	return &Native{}
}

// Generate draws a fresh random keypair, negating the secret key if
// needed so the resulting public key has even Y.
func (s *Native) Generate() error {
	kp, err := p256k1.KeyPairGenerate()
	if err != nil {
		return err
	}
	return s.adopt(kp)
}

// InitSec loads a 32-byte secret key, deriving and even-Y-normalizing its
// public key.
func (s *Native) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return pkgerrors.New("signer: secret key must be 32 bytes")
	}

	kp, err := p256k1.KeyPairCreate(sec)
	if err != nil {
		return err
	}
	return s.adopt(kp)
}

// adopt stores kp, flipping its secret key's sign if that is needed to
// make the derived public key's Y coordinate even.
func (s *Native) adopt(kp *p256k1.KeyPair) error {
	xonly, parity, err := p256k1.XOnlyPubkeyFromPubkey(kp.Pubkey())
	if err != nil {
		return err
	}

	if parity == 1 {
		sec := kp.Seckey()
		if !p256k1.ECSeckeyNegate(sec) {
			return pkgerrors.New("signer: failed to negate secret key")
		}
		kp, err = p256k1.KeyPairCreate(sec)
		if err != nil {
			return err
		}
		xonly, _, err = p256k1.XOnlyPubkeyFromPubkey(kp.Pubkey())
		if err != nil {
			return err
		}
	}

	s.kp = kp
	s.xonly = xonly
	s.hasSecret = true
	return nil
}

// InitPub loads a 32-byte x-only public key for verify/ECDH-from-pubkey
// use; the signer has no secret key after this call.
func (s *Native) InitPub(pub []byte) error {
	xonly, err := p256k1.XOnlyPubkeyParse(pub)
	if err != nil {
		return err
	}

	s.xonly = xonly
	s.kp = nil
	s.hasSecret = false
	return nil
}

// Sec returns the loaded secret key, or nil if none is held.
func (s *Native) Sec() []byte {
	if !s.hasSecret || s.kp == nil {
		return nil
	}
	return s.kp.Seckey()
}

// Pub returns the 32-byte x-only public key, or nil if none is loaded.
func (s *Native) Pub() []byte {
	if s.xonly == nil {
		return nil
	}
	out := s.xonly.Serialize()
	return out[:]
}

// Sign produces a 64-byte BIP-340 signature over a 32-byte message hash.
func (s *Native) Sign(msg []byte) ([]byte, error) {
	if !s.hasSecret || s.kp == nil {
		return nil, pkgerrors.New("signer: no secret key loaded")
	}
	if len(msg) != 32 {
		return nil, pkgerrors.New("signer: message must be 32 bytes")
	}

	sig := make([]byte, 64)
	if err := p256k1.SchnorrSign(sig, msg, s.kp, nil); err != nil {
		return nil, err
	}
	return sig, nil
}

// Verify checks a 64-byte BIP-340 signature over a 32-byte message hash
// against the loaded public key.
func (s *Native) Verify(msg, sig []byte) (bool, error) {
	if s.xonly == nil {
		return false, pkgerrors.New("signer: no public key loaded")
	}
	if len(msg) != 32 {
		return false, pkgerrors.New("signer: message must be 32 bytes")
	}
	if len(sig) != 64 {
		return false, pkgerrors.New("signer: signature must be 64 bytes")
	}

	return p256k1.SchnorrVerify(sig, msg, s.xonly), nil
}

// ECDH derives a shared secret between the loaded secret key and a
// 32-byte x-only public key, lifting pub to its even-Y point first. The
// secret is the X coordinate of the shared point, the same value Btcec.ECDH
// returns.
func (s *Native) ECDH(pub []byte) ([]byte, error) {
	if !s.hasSecret || s.kp == nil {
		return nil, pkgerrors.New("signer: no secret key loaded")
	}
	if len(pub) != 32 {
		return nil, pkgerrors.New("signer: public key must be 32 bytes")
	}

	var compressed [33]byte
	compressed[0] = 0x02
	copy(compressed[1:], pub)

	var pk p256k1.PublicKey
	if err := p256k1.ECPubkeyParse(&pk, compressed[:]); err != nil {
		return nil, err
	}

	shared := make([]byte, 32)
	if err := p256k1.ECDHXOnly(shared, &pk, s.kp.Seckey()); err != nil {
		return nil, err
	}
	return shared, nil
}

// Zero wipes the loaded secret key.
func (s *Native) Zero() {
	if s.kp != nil {
		s.kp.Clear()
		s.kp = nil
	}
	s.hasSecret = false
	s.xonly = nil
}

// NativeGen implements Gen, minting keypairs whose compressed form exposes
// Y-parity so a caller can decide whether to Negate before committing to
// one.
type NativeGen struct {
	kp *p256k1.KeyPair
}

// NewNativeGen returns an empty NativeGen; call Generate before Negate.
func NewNativeGen() *NativeGen {
	return &NativeGen{}
}

// Generate draws a fresh keypair and returns its 33-byte SEC1-compressed
// public key.
func (g *NativeGen) Generate() ([]byte, error) {
	kp, err := p256k1.KeyPairGenerate()
	if err != nil {
		return nil, err
	}
	g.kp = kp

	compressed := make([]byte, 33)
	pub := kp.Pubkey()
	if n := p256k1.ECPubkeySerialize(compressed, pub, p256k1.ECCompressed); n != 33 {
		return nil, pkgerrors.New("signer: failed to serialize compressed public key")
	}
	return compressed, nil
}

// Negate flips the held keypair's secret key, and therefore its public
// key's Y parity.
func (g *NativeGen) Negate() {
	if g.kp == nil {
		return
	}

	sec := g.kp.Seckey()
	if !p256k1.ECSeckeyNegate(sec) {
		return
	}

	kp, err := p256k1.KeyPairCreate(sec)
	if err != nil {
		return
	}
	g.kp = kp
}
