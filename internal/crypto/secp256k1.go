package crypto

// secp256k1 verify/recover, grounded on core/compliance.go's use of
// github.com/decred/dcrd/dcrec/secp256k1/v4.

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Secp256k1Verify checks a 64-byte compact (r||s) signature over a 32-byte
// message hash against a compressed or uncompressed pubkey. Returns a
// CodeValid/CodeInvalid/error-tier code.
func Secp256k1Verify(hash, sig, pubkeyBytes []byte) uint32 {
	if len(hash) != 32 {
		return CodeInvalidHashFormat
	}
	if len(sig) != 64 {
		return CodeInvalidSignatureFormat
	}
	pub, err := secp256k1.ParsePubKey(pubkeyBytes)
	if err != nil {
		return CodeInvalidPubkeyFormat
	}
	r := new(secp256k1.ModNScalar)
	s := new(secp256k1.ModNScalar)
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return CodeInvalidSignatureFormat
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return CodeInvalidSignatureFormat
	}
	signature := ecdsa.NewSignature(r, s)
	if signature.Verify(hash, pub) {
		return CodeValid
	}
	return CodeInvalid
}

// Secp256k1RecoverPubkey recovers the uncompressed public key from a
// compact signature and message hash given a recovery id in [0,3].
// Returns (pubkeyBytes, RecoverOK) on success or (nil, error-code).
func Secp256k1RecoverPubkey(hash, sig []byte, recoveryParam byte) ([]byte, uint32) {
	if len(hash) != 32 {
		return nil, RecoverInvalidHashFormat
	}
	if len(sig) != 64 {
		return nil, RecoverInvalidSignatureFormat
	}
	if recoveryParam > 3 {
		return nil, RecoverInvalidRecoveryParam
	}

	compact := make([]byte, 65)
	compact[0] = 27 + recoveryParam
	copy(compact[1:], sig)

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, RecoverUnknownErr
	}
	return pub.SerializeUncompressed(), RecoverOK
}
