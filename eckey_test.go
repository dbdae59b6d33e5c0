package p256k1

import (
	"bytes"
	"testing"
)

func fixedKeyByte(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestECSeckeyVerifyTable(t *testing.T) {
	cases := []struct {
		name string
		key  []byte
		want bool
	}{
		{"all ones", fixedKeyByte(0x01), true},
		{"all zero", make([]byte, 32), false},
		{"too short", fixedKeyByte(0x01)[:31], false},
		{"order n itself", mustHex(t, "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"), false},
		{"order n minus one", mustHex(t, "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364140"), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ECSeckeyVerify(c.key); got != c.want {
				t.Errorf("ECSeckeyVerify(%x) = %v, want %v", c.key, got, c.want)
			}
		})
	}
}

func TestECSeckeyGenerateProducesVerifiableKeys(t *testing.T) {
	for i := 0; i < 5; i++ {
		key, err := ECSeckeyGenerate()
		if err != nil {
			t.Fatalf("ECSeckeyGenerate: %v", err)
		}
		if len(key) != 32 {
			t.Fatalf("key %d has length %d, want 32", i, len(key))
		}
		if !ECSeckeyVerify(key) {
			t.Fatalf("generated key %d did not verify", i)
		}
	}
}

func TestECKeyPairGenerateMatchesDerivedPubkey(t *testing.T) {
	seckey, pubkey, err := ECKeyPairGenerate()
	if err != nil {
		t.Fatalf("ECKeyPairGenerate: %v", err)
	}
	if len(seckey) != 32 {
		t.Fatalf("seckey length = %d, want 32", len(seckey))
	}

	var derived PublicKey
	if err := ECPubkeyCreate(&derived, seckey); err != nil {
		t.Fatalf("ECPubkeyCreate: %v", err)
	}
	if ECPubkeyCmp(pubkey, &derived) != 0 {
		t.Error("ECKeyPairGenerate's pubkey doesn't match one derived from its own seckey")
	}
}

func TestECSeckeyNegateIsAnInvolution(t *testing.T) {
	original := fixedKeyByte(0x01)
	working := append([]byte(nil), original...)

	if !ECSeckeyNegate(working) {
		t.Fatal("first negation failed")
	}
	if bytes.Equal(working, original) {
		t.Fatal("negated key should differ from the original")
	}

	if !ECSeckeyNegate(working) {
		t.Fatal("second negation failed")
	}
	if !bytes.Equal(working, original) {
		t.Error("negating twice should restore the original key")
	}
}

func TestECSeckeyTweakAddChangesKeyButKeepsItValid(t *testing.T) {
	seckey := fixedKeyByte(0x01)
	tweak := fixedKeyByte(0x02)
	original := append([]byte(nil), seckey...)

	if err := ECSeckeyTweakAdd(seckey, tweak); err != nil {
		t.Fatalf("ECSeckeyTweakAdd: %v", err)
	}
	if !ECSeckeyVerify(seckey) {
		t.Error("tweaked secret key should still be valid")
	}
	if bytes.Equal(seckey, original) {
		t.Error("tweaked secret key should differ from the original")
	}
}

func TestECSeckeyTweakAddZeroIsIdentity(t *testing.T) {
	seckey := fixedKeyByte(0x01)
	original := append([]byte(nil), seckey...)

	if err := ECSeckeyTweakAdd(seckey, make([]byte, 32)); err != nil {
		t.Fatalf("ECSeckeyTweakAdd with zero tweak: %v", err)
	}
	if !bytes.Equal(seckey, original) {
		t.Error("tweaking by zero should leave the secret key unchanged")
	}
}

func TestECPubkeyTweakAddAgreesWithSeckeyTweak(t *testing.T) {
	seckey, pubkey, err := ECKeyPairGenerate()
	if err != nil {
		t.Fatalf("ECKeyPairGenerate: %v", err)
	}
	tweak := fixedKeyByte(0x02)
	originalPub := *pubkey

	tweakedSec := append([]byte(nil), seckey...)
	if err := ECSeckeyTweakAdd(tweakedSec, tweak); err != nil {
		t.Fatalf("ECSeckeyTweakAdd: %v", err)
	}
	var wantPub PublicKey
	if err := ECPubkeyCreate(&wantPub, tweakedSec); err != nil {
		t.Fatalf("ECPubkeyCreate: %v", err)
	}

	if err := ECPubkeyTweakAdd(pubkey, tweak); err != nil {
		t.Fatalf("ECPubkeyTweakAdd: %v", err)
	}

	if ECPubkeyCmp(pubkey, &wantPub) != 0 {
		t.Error("tweak-add on the public key doesn't match tweak-add on the secret key")
	}
	if ECPubkeyCmp(pubkey, &originalPub) == 0 {
		t.Error("tweaked public key should differ from the original")
	}
}

func TestECPubkeyTweakMulAgreesWithSeckeyTweak(t *testing.T) {
	seckey, pubkey, err := ECKeyPairGenerate()
	if err != nil {
		t.Fatalf("ECKeyPairGenerate: %v", err)
	}
	tweak := fixedKeyByte(0x02)
	originalPub := *pubkey

	tweakedSec := append([]byte(nil), seckey...)
	if err := ECSeckeyTweakMul(tweakedSec, tweak); err != nil {
		t.Fatalf("ECSeckeyTweakMul: %v", err)
	}
	var wantPub PublicKey
	if err := ECPubkeyCreate(&wantPub, tweakedSec); err != nil {
		t.Fatalf("ECPubkeyCreate: %v", err)
	}

	if err := ECPubkeyTweakMul(pubkey, tweak); err != nil {
		t.Fatalf("ECPubkeyTweakMul: %v", err)
	}

	if ECPubkeyCmp(pubkey, &wantPub) != 0 {
		t.Error("tweak-mul on the public key doesn't match tweak-mul on the secret key")
	}
	if ECPubkeyCmp(pubkey, &originalPub) == 0 {
		t.Error("tweaked public key should differ from the original")
	}
}

func TestECSeckeyTweakAddRejectsResultingInZero(t *testing.T) {
	seckey := fixedKeyByte(0x01)
	negated := append([]byte(nil), seckey...)
	if !ECSeckeyNegate(negated) {
		t.Fatal("negation failed")
	}

	if err := ECSeckeyTweakAdd(seckey, negated); err == nil {
		t.Error("tweaking a key by its own negation should be rejected (would yield zero)")
	}
}
