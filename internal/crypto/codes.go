// Package crypto wraps the stateless signature/aggregation primitives the
// host exposes to the guest: secp256k1, secp256r1,
// ed25519, and BLS12-381. Every function returns a fixed numeric code
// instead of a Go error for the common paths, because the wire encoding
// must preserve error codes byte-for-byte so existing guests keep working,
// overloading success/failure/error-kind into a single integer.
package crypto

// Verify-style return codes (0/1 plus a detailed error tier starting at
// 2), shared by secp256k1_verify, secp256r1_verify, ed25519_verify and
// ed25519_batch_verify.
const (
	CodeValid   = 0
	CodeInvalid = 1

	CodeInvalidHashFormat      = 2
	CodeInvalidSignatureFormat = 3
	CodeInvalidPubkeyFormat    = 4
	CodeInvalidRecoveryParam   = 5
	CodeBatchErr               = 6
	CodeGenericErr             = 10
)

// Recover-style high-32-bit error codes (secp256k1_recover_pubkey,
// secp256r1_recover_pubkey). 0 means success (the low 32 bits then carry
// the region pointer).
const (
	RecoverOK                     = 0
	RecoverInvalidHashFormat      = 2
	RecoverInvalidSignatureFormat = 3
	RecoverInvalidRecoveryParam   = 5
	RecoverUnknownErr             = 10
)

// BLS-family return codes (aggregate, pairing, hash-to-curve).
const (
	CodeBLSOK                    = 0
	CodeBLSNotEqual              = 1
	CodeBLSInvalidPoint          = 2
	CodeBLSAggregationEmpty      = 3
	CodeBLSUnknownHashFunction   = 4
	CodeBLSInvalidCompositeCount = 5
	CodeBLSUnknownErr            = 10
)
