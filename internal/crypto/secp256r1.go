package crypto

// secp256r1 (P-256) verify/recover. No available library carries a
// dedicated P-256 signature package (the P-256 usages seen elsewhere,
// e.g. core/compliance.go's crypto/ecdsa import, are already stdlib), so
// this stays on crypto/ecdsa + crypto/elliptic per DESIGN.md's
// standard-library justification policy. Recovery computes the single
// candidate point that the recovery param selects (convention below),
// since crypto/ecdsa does not expose public-key recovery.

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"math/big"
)

func p256() elliptic.Curve { return elliptic.P256() }

// Secp256r1Verify checks an ASN.1-free raw (r||s), each 32 bytes, 64-byte
// signature over a 32-byte hash against an uncompressed SEC1 pubkey.
func Secp256r1Verify(hash, sig, pubkeyBytes []byte) uint32 {
	if len(hash) != 32 {
		return CodeInvalidHashFormat
	}
	if len(sig) != 64 {
		return CodeInvalidSignatureFormat
	}
	x, y := elliptic.Unmarshal(p256(), pubkeyBytes)
	if x == nil {
		return CodeInvalidPubkeyFormat
	}
	pub := &ecdsa.PublicKey{Curve: p256(), X: x, Y: y}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	if ecdsa.Verify(pub, hash, r, s) {
		return CodeValid
	}
	return CodeInvalid
}

// Secp256r1RecoverPubkey recovers the candidate public key for recovery
// id in [0,3] from a raw 64-byte signature and 32-byte hash.
func Secp256r1RecoverPubkey(hash, sig []byte, recoveryParam byte) ([]byte, uint32) {
	if len(hash) != 32 {
		return nil, RecoverInvalidHashFormat
	}
	if len(sig) != 64 {
		return nil, RecoverInvalidSignatureFormat
	}
	if recoveryParam > 3 {
		return nil, RecoverInvalidRecoveryParam
	}

	curve := p256()
	params := curve.Params()
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	e := new(big.Int).SetBytes(hash)

	// x = r (+ N if recoveryParam bit 1 set, unsupported beyond curve
	// order; P-256's cofactor is 1 so this never triggers in practice).
	x := new(big.Int).Set(r)
	if recoveryParam >= 2 {
		x.Add(x, params.N)
		if x.Cmp(params.P) >= 0 {
			return nil, RecoverUnknownErr
		}
	}

	// y^2 = x^3 - 3x + b (mod p)
	ySq := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySq.Sub(ySq, threeX)
	ySq.Add(ySq, params.B)
	ySq.Mod(ySq, params.P)

	y := new(big.Int).ModSqrt(ySq, params.P)
	if y == nil {
		return nil, RecoverUnknownErr
	}
	if y.Bit(0) != uint(recoveryParam&1) {
		y.Sub(params.P, y)
	}

	rInv := new(big.Int).ModInverse(r, params.N)
	if rInv == nil {
		return nil, RecoverUnknownErr
	}

	// Q = r^-1 * (s*R - e*G)
	sR_x, sR_y := curve.ScalarMult(x, y, s.Bytes())
	eG_x, eG_y := curve.ScalarBaseMult(e.Bytes())
	eG_y.Neg(eG_y)
	eG_y.Mod(eG_y, params.P)

	qx, qy := curve.Add(sR_x, sR_y, eG_x, eG_y)
	qx, qy = curve.ScalarMult(qx, qy, rInv.Bytes())

	pub := &ecdsa.PublicKey{Curve: curve, X: qx, Y: qy}
	return elliptic.Marshal(curve, pub.X, pub.Y), RecoverOK
}
