package hostfns

import (
	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/checker"
)

func valueTypes(kinds ...wasmer.ValueKind) []wasmer.ValueType {
	return wasmer.NewValueTypes(kinds...)
}

// fnType is a small declarative builder so the import table below reads as
// a table (symbol → arity) instead of a wall of wasmer.NewFunctionType
// calls.
func fnType(params, results []wasmer.ValueKind) *wasmer.FunctionType {
	return wasmer.NewFunctionType(valueTypes(params...), valueTypes(results...))
}

var i32k = wasmer.I32
var i64k = wasmer.I64

// BuildImports constructs the "env" import object every guest module must
// satisfy exactly, wiring each symbol to env through the do_* closures in
// this package. store is the same *wasmer.Store the candidate module was
// compiled against, matching the registerHost(store, hctx) pairing this
// table is generalized from.
func BuildImports(store *wasmer.Store, env *Env, logSink *logrus.Logger) *wasmer.ImportObject {
	imports := wasmer.NewImportObject()

	reg := func(funcs map[string]wasmer.IntoExtern) {
		imports.Register("env", funcs)
	}

	region1 := []wasmer.ValueKind{i32k}
	region2 := []wasmer.ValueKind{i32k, i32k}
	region3 := []wasmer.ValueKind{i32k, i32k, i32k}
	region4 := []wasmer.ValueKind{i32k, i32k, i32k, i32k}
	noRet := []wasmer.ValueKind{}
	i32Ret := []wasmer.ValueKind{i32k}
	i64Ret := []wasmer.ValueKind{i64k}

	reg(map[string]wasmer.IntoExtern{
		"abort": wasmer.NewFunction(store, fnType(region1, noRet), abort(env)),
		"debug": wasmer.NewFunction(store, fnType(region1, noRet), debug(env, logSink)),

		"db_read":       wasmer.NewFunction(store, fnType(region1, i32Ret), dbRead(env)),
		"db_write":      wasmer.NewFunction(store, fnType(region2, noRet), dbWrite(env)),
		"db_remove":     wasmer.NewFunction(store, fnType(region1, noRet), dbRemove(env)),
		"db_scan":       wasmer.NewFunction(store, fnType(region3, i32Ret), dbScan(env)),
		"db_next":       wasmer.NewFunction(store, fnType(region1, i32Ret), dbNext(env)),
		"db_next_key":   wasmer.NewFunction(store, fnType(region1, i32Ret), dbNextKey(env)),
		"db_next_value": wasmer.NewFunction(store, fnType(region1, i32Ret), dbNextValue(env)),

		"addr_validate":     wasmer.NewFunction(store, fnType(region1, i32Ret), addrValidate(env)),
		"addr_canonicalize": wasmer.NewFunction(store, fnType(region2, i32Ret), addrCanonicalize(env)),
		"addr_humanize":     wasmer.NewFunction(store, fnType(region2, i32Ret), addrHumanize(env)),

		"secp256k1_verify":          wasmer.NewFunction(store, fnType(region3, i32Ret), secp256k1Verify(env)),
		"secp256k1_recover_pubkey":  wasmer.NewFunction(store, fnType(region3, i64Ret), secp256k1Recover(env)),
		"secp256r1_verify":          wasmer.NewFunction(store, fnType(region3, i32Ret), secp256r1Verify(env)),
		"secp256r1_recover_pubkey":  wasmer.NewFunction(store, fnType(region3, i64Ret), secp256r1Recover(env)),
		"ed25519_verify":            wasmer.NewFunction(store, fnType(region3, i32Ret), ed25519Verify(env)),
		"ed25519_batch_verify":      wasmer.NewFunction(store, fnType(region3, i32Ret), ed25519BatchVerify(env)),
		"bls12_381_aggregate_g1":    wasmer.NewFunction(store, fnType(region2, i32Ret), bls12381AggregateG1(env)),
		"bls12_381_aggregate_g2":    wasmer.NewFunction(store, fnType(region2, i32Ret), bls12381AggregateG2(env)),
		"bls12_381_pairing_equality": wasmer.NewFunction(store, fnType(region4, i32Ret), bls12381PairingEquality(env)),
		"bls12_381_hash_to_g1":      wasmer.NewFunction(store, fnType([]wasmer.ValueKind{i32k, i32k, i32k, i32k}, i32Ret), bls12381HashToG1(env)),
		"bls12_381_hash_to_g2":      wasmer.NewFunction(store, fnType([]wasmer.ValueKind{i32k, i32k, i32k, i32k}, i32Ret), bls12381HashToG2(env)),

		"query_chain": wasmer.NewFunction(store, fnType(region1, i32Ret), queryChain(env)),
	})

	return imports
}

// AllowedImports is the checker-facing twin of BuildImports: the same
// fixed symbol/signature table expressed as checker.FuncSig values so
// C7's static gate and C6's live wiring can never drift apart.
func AllowedImports() map[string]checker.FuncSig {
	i32 := checker.I32
	i64 := checker.I64
	sig := func(params, results []checker.ValueKind) checker.FuncSig {
		return checker.FuncSig{Params: params, Results: results}
	}
	p1 := []checker.ValueKind{i32}
	p2 := []checker.ValueKind{i32, i32}
	p3 := []checker.ValueKind{i32, i32, i32}
	p4 := []checker.ValueKind{i32, i32, i32, i32}
	none := []checker.ValueKind{}
	r1 := []checker.ValueKind{i32}
	r64 := []checker.ValueKind{i64}

	return map[string]checker.FuncSig{
		"env.abort": sig(p1, none),
		"env.debug": sig(p1, none),

		"env.db_read":       sig(p1, r1),
		"env.db_write":      sig(p2, none),
		"env.db_remove":     sig(p1, none),
		"env.db_scan":       sig(p3, r1),
		"env.db_next":       sig(p1, r1),
		"env.db_next_key":   sig(p1, r1),
		"env.db_next_value": sig(p1, r1),

		"env.addr_validate":     sig(p1, r1),
		"env.addr_canonicalize": sig(p2, r1),
		"env.addr_humanize":     sig(p2, r1),

		"env.secp256k1_verify":           sig(p3, r1),
		"env.secp256k1_recover_pubkey":   sig(p3, r64),
		"env.secp256r1_verify":           sig(p3, r1),
		"env.secp256r1_recover_pubkey":   sig(p3, r64),
		"env.ed25519_verify":             sig(p3, r1),
		"env.ed25519_batch_verify":       sig(p3, r1),
		"env.bls12_381_aggregate_g1":     sig(p2, r1),
		"env.bls12_381_aggregate_g2":     sig(p2, r1),
		"env.bls12_381_pairing_equality": sig(p4, r1),
		"env.bls12_381_hash_to_g1":       sig(p4, r1),
		"env.bls12_381_hash_to_g2":       sig(p4, r1),

		"env.query_chain": sig(p1, r1),
	}
}
