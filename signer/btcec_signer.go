package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	pkgerrors "github.com/pkg/errors"
)

// Btcec implements I on top of github.com/btcsuite/btcd/btcec/v2, letting a
// caller swap the signing backend out from under the I interface without
// touching call sites — useful for cross-checking Native against an
// independent implementation in the same program.
type Btcec struct {
	privKey   *btcec.PrivateKey
	pubKey    *btcec.PublicKey
	xonlyPub  []byte
	hasSecret bool
}

// NewBtcec returns an empty Btcec signer; call InitSec, InitPub, or
// Generate before using it.
func NewBtcec() *Btcec {
	return &Btcec{}
}

// Generate draws a fresh keypair from btcec, negating the private key if
// needed so its public key has even Y.
func (s *Btcec) Generate() error {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.adopt(priv)
	return nil
}

// InitSec loads a 32-byte secret key, even-Y-normalizing the derived
// public key.
func (s *Btcec) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return pkgerrors.New("signer: secret key must be 32 bytes")
	}

	priv, _ := btcec.PrivKeyFromBytes(sec)
	s.adopt(priv)
	return nil
}

// adopt stores priv, flipping its sign if needed for an even-Y public key.
func (s *Btcec) adopt(priv *btcec.PrivateKey) {
	pub := priv.PubKey()
	if pub.SerializeCompressed()[0] == 0x03 {
		k := priv.Key
		k.Negate()
		priv = &btcec.PrivateKey{Key: k}
		pub = priv.PubKey()
	}

	s.privKey = priv
	s.pubKey = pub
	s.xonlyPub = schnorr.SerializePubKey(pub)
	s.hasSecret = true
}

// InitPub loads a 32-byte x-only public key.
func (s *Btcec) InitPub(pub []byte) error {
	if len(pub) != 32 {
		return pkgerrors.New("signer: public key must be 32 bytes")
	}

	parsed, err := schnorr.ParsePubKey(pub)
	if err != nil {
		return err
	}

	s.pubKey = parsed
	s.xonlyPub = append([]byte(nil), pub...)
	s.privKey = nil
	s.hasSecret = false
	return nil
}

// Sec returns the loaded secret key, or nil if none is held.
func (s *Btcec) Sec() []byte {
	if !s.hasSecret || s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the 32-byte x-only public key, or nil if none is loaded.
func (s *Btcec) Pub() []byte {
	return s.xonlyPub
}

// Sign produces a 64-byte BIP-340 signature over a 32-byte message hash.
func (s *Btcec) Sign(msg []byte) ([]byte, error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, pkgerrors.New("signer: no secret key loaded")
	}
	if len(msg) != 32 {
		return nil, pkgerrors.New("signer: message must be 32 bytes")
	}

	sig, err := schnorr.Sign(s.privKey, msg)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// Verify checks a 64-byte BIP-340 signature over a 32-byte message hash.
func (s *Btcec) Verify(msg, sig []byte) (bool, error) {
	if s.pubKey == nil {
		return false, pkgerrors.New("signer: no public key loaded")
	}
	if len(msg) != 32 {
		return false, pkgerrors.New("signer: message must be 32 bytes")
	}
	if len(sig) != 64 {
		return false, pkgerrors.New("signer: signature must be 64 bytes")
	}

	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, err
	}
	return parsed.Verify(msg, s.pubKey), nil
}

// ECDH derives a shared secret between the loaded secret key and a
// 32-byte x-only public key.
func (s *Btcec) ECDH(pub []byte) ([]byte, error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, pkgerrors.New("signer: no secret key loaded")
	}
	if len(pub) != 32 {
		return nil, pkgerrors.New("signer: public key must be 32 bytes")
	}

	pubKey, err := schnorr.ParsePubKey(pub)
	if err != nil {
		return nil, err
	}

	return btcec.GenerateSharedSecret(s.privKey, pubKey), nil
}

// Zero wipes the loaded secret key.
func (s *Btcec) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
		s.privKey = nil
	}
	s.hasSecret = false
	s.pubKey = nil
	s.xonlyPub = nil
}
