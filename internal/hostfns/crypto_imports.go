package hostfns

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/crypto"
)

func secp256k1Verify(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		hash, err := env.readRegion(uint32(args[0].I32()), capHashLen)
		if err != nil {
			return nil, err
		}
		sig, err := env.readRegion(uint32(args[1].I32()), capSigLen)
		if err != nil {
			return nil, err
		}
		pubkey, err := env.readRegion(uint32(args[2].I32()), capPubkeyLen)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().Secp256k1VerifyCost); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.Secp256k1Verify(hash, sig, pubkey))}, nil
	}
}

// recoverResult packs the combined u64 return secp256k1/secp256r1 recover
// use: low 32 bits the region pointer on success, high 32 bits the error
// code on failure (so a single i64 carries both without an out-param).
func recoverResult(env *Env, recovered []byte, code uint32) ([]wasmer.Value, error) {
	if code != crypto.RecoverOK {
		return []wasmer.Value{i64(int64(uint64(code) << 32))}, nil
	}
	ptr, err := env.writeOut(recovered)
	if err != nil {
		return nil, err
	}
	return []wasmer.Value{i64(int64(uint64(ptr)))}, nil
}

func secp256k1Recover(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		hash, err := env.readRegion(uint32(args[0].I32()), capHashLen)
		if err != nil {
			return nil, err
		}
		sig, err := env.readRegion(uint32(args[1].I32()), capSigLen)
		if err != nil {
			return nil, err
		}
		recoveryParam := byte(args[2].I32())
		if err := env.charge(env.gas().Config().Secp256k1RecoverCost); err != nil {
			return nil, err
		}
		pk, code := crypto.Secp256k1RecoverPubkey(hash, sig, recoveryParam)
		return recoverResult(env, pk, code)
	}
}

func secp256r1Verify(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		hash, err := env.readRegion(uint32(args[0].I32()), capHashLen)
		if err != nil {
			return nil, err
		}
		sig, err := env.readRegion(uint32(args[1].I32()), capSigLen)
		if err != nil {
			return nil, err
		}
		pubkey, err := env.readRegion(uint32(args[2].I32()), capPubkeyLen)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().Secp256r1VerifyCost); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.Secp256r1Verify(hash, sig, pubkey))}, nil
	}
}

func secp256r1Recover(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		hash, err := env.readRegion(uint32(args[0].I32()), capHashLen)
		if err != nil {
			return nil, err
		}
		sig, err := env.readRegion(uint32(args[1].I32()), capSigLen)
		if err != nil {
			return nil, err
		}
		recoveryParam := byte(args[2].I32())
		if err := env.charge(env.gas().Config().Secp256r1RecoverCost); err != nil {
			return nil, err
		}
		pk, code := crypto.Secp256r1RecoverPubkey(hash, sig, recoveryParam)
		return recoverResult(env, pk, code)
	}
}

func ed25519Verify(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		msg, err := env.readRegion(uint32(args[0].I32()), capEd25519Msg)
		if err != nil {
			return nil, err
		}
		sig, err := env.readRegion(uint32(args[1].I32()), capSigLen)
		if err != nil {
			return nil, err
		}
		pubkey, err := env.readRegion(uint32(args[2].I32()), capPubkeyLen)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().Ed25519VerifyCost); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.Ed25519Verify(msg, sig, pubkey))}, nil
	}
}

func ed25519BatchVerify(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		msgsRaw, err := env.readRegion(uint32(args[0].I32()), capBatchEntries*capEd25519Msg)
		if err != nil {
			return nil, err
		}
		sigsRaw, err := env.readRegion(uint32(args[1].I32()), capBatchEntries*capSigLen)
		if err != nil {
			return nil, err
		}
		pubkeysRaw, err := env.readRegion(uint32(args[2].I32()), capBatchEntries*capPubkeyLen)
		if err != nil {
			return nil, err
		}
		msgs, err := DecodeSections(msgsRaw)
		if err != nil {
			return nil, err
		}
		sigs, err := DecodeSections(sigsRaw)
		if err != nil {
			return nil, err
		}
		pubkeys, err := DecodeSections(pubkeysRaw)
		if err != nil {
			return nil, err
		}
		if len(msgs) > capBatchEntries {
			return nil, fmt.Errorf("hostfns: batch of %d messages exceeds cap %d", len(msgs), capBatchEntries)
		}
		if err := env.charge(env.gas().Config().Ed25519BatchPerSig * uint64(len(msgs))); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.Ed25519BatchVerify(msgs, sigs, pubkeys))}, nil
	}
}

func bls12381AggregateG1(env *Env) hostFunc {
	return blsAggregate(env, crypto.AggregateG1)
}

func bls12381AggregateG2(env *Env) hostFunc {
	return blsAggregate(env, crypto.AggregateG2)
}

func blsAggregate(env *Env, aggregate func([][]byte) ([]byte, uint32)) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		raw, err := env.readRegion(uint32(args[0].I32()), capBLSPoints)
		if err != nil {
			return nil, err
		}
		outPtr := uint32(args[1].I32())
		points, err := DecodeSections(raw)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().BLSAggregatePerPoint * uint64(len(points))); err != nil {
			return nil, err
		}
		result, code := aggregate(points)
		if code != crypto.CodeBLSOK {
			return []wasmer.Value{u32(code)}, nil
		}
		if err := env.writeInto(outPtr, result); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.CodeBLSOK)}, nil
	}
}

func bls12381PairingEquality(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		psRaw, err := env.readRegion(uint32(args[0].I32()), capBLSPoints)
		if err != nil {
			return nil, err
		}
		qsRaw, err := env.readRegion(uint32(args[1].I32()), capBLSPoints)
		if err != nil {
			return nil, err
		}
		r, err := env.readRegion(uint32(args[2].I32()), capBLSPoints)
		if err != nil {
			return nil, err
		}
		s, err := env.readRegion(uint32(args[3].I32()), capBLSPoints)
		if err != nil {
			return nil, err
		}
		ps, err := DecodeSections(psRaw)
		if err != nil {
			return nil, err
		}
		qs, err := DecodeSections(qsRaw)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().BLSPairingCost); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.PairingEquality(ps, qs, r, s))}, nil
	}
}

func bls12381HashToG1(env *Env) hostFunc {
	return blsHashToCurve(env, crypto.HashToG1)
}

func bls12381HashToG2(env *Env) hostFunc {
	return blsHashToCurve(env, crypto.HashToG2)
}

func blsHashToCurve(env *Env, hashFn func(crypto.HashFunction, []byte, []byte) ([]byte, uint32)) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		fn := crypto.HashFunction(uint32(args[0].I32()))
		msg, err := env.readRegion(uint32(args[1].I32()), capBLSHashMsg)
		if err != nil {
			return nil, err
		}
		dst, err := env.readRegion(uint32(args[2].I32()), capBLSHashDST)
		if err != nil {
			return nil, err
		}
		outPtr := uint32(args[3].I32())
		if err := env.charge(env.gas().Config().BLSHashToCurveCost); err != nil {
			return nil, err
		}
		point, code := hashFn(fn, msg, dst)
		if code != crypto.CodeBLSOK {
			return []wasmer.Value{u32(code)}, nil
		}
		if err := env.writeInto(outPtr, point); err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(crypto.CodeBLSOK)}, nil
	}
}
