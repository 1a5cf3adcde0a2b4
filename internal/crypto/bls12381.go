package crypto

// BLS12-381 aggregation, pairing, and hash-to-curve, grounded on
// core/security.go's use of github.com/herumi/bls-eth-go-binary
// (bls.Init(bls.BLS12_381) + bls.SecretKey/PublicKey/Sign). The wider
// Synnergy/Ethereum stack also carries consensys/gnark-crypto,
// kilic/bls12-381 and supranational/blst as indirect deps; herumi is the
// one actually driven by hand-written Go call sites, so it is the only
// BLS backend wired here (DESIGN.md).

import (
	"sync"

	bls "github.com/herumi/bls-eth-go-binary/bls"
)

var blsInitOnce sync.Once

func ensureInit() {
	blsInitOnce.Do(func() {
		if err := bls.Init(bls.BLS12_381); err != nil {
			panic("bls init: " + err.Error())
		}
		bls.SetETHmode(bls.EthModeDraft07)
	})
}

// AggregateG1 sums a list of serialized G1 points into one serialized G1
// point (used for BLS pubkey/signature aggregation). Returns the
// serialized result and CodeBLSOK, or nil and an error code.
func AggregateG1(points [][]byte) ([]byte, uint32) {
	ensureInit()
	if len(points) == 0 {
		return nil, CodeBLSAggregationEmpty
	}
	var sum bls.G1
	for i, p := range points {
		var pt bls.G1
		if err := pt.Deserialize(p); err != nil {
			return nil, CodeBLSInvalidPoint
		}
		if i == 0 {
			sum = pt
		} else {
			bls.G1Add(&sum, &sum, &pt)
		}
	}
	return sum.Serialize(), CodeBLSOK
}

// AggregateG2 is AggregateG1's G2 counterpart.
func AggregateG2(points [][]byte) ([]byte, uint32) {
	ensureInit()
	if len(points) == 0 {
		return nil, CodeBLSAggregationEmpty
	}
	var sum bls.G2
	for i, p := range points {
		var pt bls.G2
		if err := pt.Deserialize(p); err != nil {
			return nil, CodeBLSInvalidPoint
		}
		if i == 0 {
			sum = pt
		} else {
			bls.G2Add(&sum, &sum, &pt)
		}
	}
	return sum.Serialize(), CodeBLSOK
}

// PairingEquality checks e(ps[i], qs[i]) product equals e(r, s), the core
// check behind BLS signature verification with a fixed generator.
// Returns CodeBLSOK (equal), CodeBLSNotEqual, or an error code.
func PairingEquality(ps, qs [][]byte, r, s []byte) uint32 {
	ensureInit()
	if len(ps) != len(qs) || len(ps) == 0 {
		return CodeBLSInvalidCompositeCount
	}

	var lhs bls.GT
	for i := range ps {
		var p bls.G1
		var q bls.G2
		if err := p.Deserialize(ps[i]); err != nil {
			return CodeBLSInvalidPoint
		}
		if err := q.Deserialize(qs[i]); err != nil {
			return CodeBLSInvalidPoint
		}
		var pairing bls.GT
		bls.Pairing(&pairing, &q, &p)
		if i == 0 {
			lhs = pairing
		} else {
			bls.GTMul(&lhs, &lhs, &pairing)
		}
	}

	var rPt bls.G1
	var sPt bls.G2
	if err := rPt.Deserialize(r); err != nil {
		return CodeBLSInvalidPoint
	}
	if err := sPt.Deserialize(s); err != nil {
		return CodeBLSInvalidPoint
	}
	var rhs bls.GT
	bls.Pairing(&rhs, &sPt, &rPt)

	if lhs.IsEqual(&rhs) {
		return CodeBLSOK
	}
	return CodeBLSNotEqual
}

// HashFunction selects the hash backing a hash-to-curve call (the
// bls12_381_hash_to_g1/g2 hash_fn argument).
type HashFunction uint32

const (
	HashSHA256 HashFunction = iota
)

// HashToG1 maps msg (with domain separation tag dst) onto a G1 point.
func HashToG1(fn HashFunction, msg, dst []byte) ([]byte, uint32) {
	ensureInit()
	if fn != HashSHA256 {
		return nil, CodeBLSUnknownHashFunction
	}
	var pt bls.G1
	if err := pt.HashAndMapToWithDst(msg, dst); err != nil {
		return nil, CodeBLSUnknownErr
	}
	return pt.Serialize(), CodeBLSOK
}

// HashToG2 is HashToG1's G2 counterpart.
func HashToG2(fn HashFunction, msg, dst []byte) ([]byte, uint32) {
	ensureInit()
	if fn != HashSHA256 {
		return nil, CodeBLSUnknownHashFunction
	}
	var pt bls.G2
	if err := pt.HashAndMapToWithDst(msg, dst); err != nil {
		return nil, CodeBLSUnknownErr
	}
	return pt.Serialize(), CodeBLSOK
}
