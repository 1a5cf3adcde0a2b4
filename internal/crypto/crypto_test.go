package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
)

func TestEd25519VerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	msg := []byte("hello contract")
	sig := ed25519.Sign(priv, msg)

	if code := Ed25519Verify(msg, sig, pub); code != CodeValid {
		t.Fatalf("expected valid, got code %d", code)
	}

	sig[0] ^= 0xFF
	if code := Ed25519Verify(msg, sig, pub); code != CodeInvalid {
		t.Fatalf("expected invalid, got code %d", code)
	}
}

func TestEd25519BatchVerifySharedPubkey(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(rand.Reader)
	msgs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	var sigs [][]byte
	for _, m := range msgs {
		sigs = append(sigs, ed25519.Sign(priv, m))
	}
	if code := Ed25519BatchVerify(msgs, sigs, [][]byte{pub}); code != CodeValid {
		t.Fatalf("expected valid batch, got %d", code)
	}

	sigs[1][0] ^= 0xFF
	if code := Ed25519BatchVerify(msgs, sigs, [][]byte{pub}); code != CodeInvalid {
		t.Fatalf("expected batch to reject a tampered signature, got %d", code)
	}
}

func TestSecp256k1VerifyRejectsMalformedHash(t *testing.T) {
	if code := Secp256k1Verify(make([]byte, 10), make([]byte, 64), make([]byte, 33)); code != CodeInvalidHashFormat {
		t.Fatalf("expected invalid-hash-format, got %d", code)
	}
}

func TestSecp256r1RecoverRejectsBadRecoveryParam(t *testing.T) {
	_, code := Secp256r1RecoverPubkey(make([]byte, 32), make([]byte, 64), 9)
	if code != RecoverInvalidRecoveryParam {
		t.Fatalf("expected invalid recovery param, got %d", code)
	}
}
