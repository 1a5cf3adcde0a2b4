package crypto

// ed25519 verify/batch-verify, grounded on core/security.go's
// crypto/ed25519 usage (Sign/Verify for AlgoEd25519 wallets).
// crypto/ed25519 has no native batch verification API, so the batch
// variant is a sequential loop; no available library carries a true
// batch-verification implementation for ed25519, so this is a
// standard-library extension rather than a wired dependency (DESIGN.md).

import "crypto/ed25519"

// Ed25519Verify checks sig over msg against pubkey.
func Ed25519Verify(msg, sig, pubkey []byte) uint32 {
	if len(pubkey) != ed25519.PublicKeySize {
		return CodeInvalidPubkeyFormat
	}
	if len(sig) != ed25519.SignatureSize {
		return CodeInvalidSignatureFormat
	}
	if ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig) {
		return CodeValid
	}
	return CodeInvalid
}

// Ed25519BatchVerify checks that every (msgs[i], sigs[i], pubkeys[i])
// triple verifies. A single pubkey shared across all messages is allowed
// (len(pubkeys) == 1, len(pubkeys) != len(msgs)), matching the guest SDK
// convention for "one signer, many messages".
func Ed25519BatchVerify(msgs, sigs, pubkeys [][]byte) uint32 {
	if len(msgs) != len(sigs) {
		return CodeBatchErr
	}
	if len(pubkeys) != len(msgs) && len(pubkeys) != 1 {
		return CodeBatchErr
	}
	for i := range msgs {
		pk := pubkeys[0]
		if len(pubkeys) == len(msgs) {
			pk = pubkeys[i]
		}
		if code := Ed25519Verify(msgs[i], sigs[i], pk); code != CodeValid {
			if code == CodeInvalid {
				return CodeInvalid
			}
			return code
		}
	}
	return CodeValid
}
