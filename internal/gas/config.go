// Package gas implements bidirectional fuel accounting: instruction-level
// fuel lives on the wasm instance, host-side costs accumulate separately,
// and a single Remaining() accessor is the only source of truth for "are
// we out?". The shape follows core/virtual_machine.go's GasMeter
// (used/limit, Consume, Remaining), generalized from per-opcode costs to
// per-host-call costs.
package gas

import "math"

// Config is the rate table for host-side charges. It is loaded from
// internal/config (viper) so an operator can retune without a rebuild,
// the same way pkg/config.Config groups tunables under a nested struct
// instead of package-level constants.
type Config struct {
	// Region transfer costs: base + PerByte*n, split small/large to
	// discourage chatty many-tiny-transfer guests.
	PerByteBase    uint64
	PerByte        uint64
	PerByteBaseBig uint64
	PerByteBig     uint64
	BigThreshold   uint32

	// Storage.
	DBReadBase   uint64
	DBWriteBase  uint64
	DBRemoveBase uint64
	DBScanBase   uint64
	DBNextBase   uint64

	// Address codec.
	AddrValidateBase     uint64
	AddrCanonicalizeBase uint64
	AddrHumanizeBase     uint64

	// Crypto.
	Secp256k1VerifyCost  uint64
	Secp256k1RecoverCost uint64
	Secp256r1VerifyCost  uint64
	Secp256r1RecoverCost uint64
	Ed25519VerifyCost    uint64
	Ed25519BatchPerSig   uint64
	BLSAggregatePerPoint uint64
	BLSPairingCost       uint64
	BLSHashToCurveCost   uint64

	QueryChainBase uint64
}

// DefaultConfig mirrors the magnitude of costs CosmWasm-family runtimes
// use: small per-call floors plus a per-byte linear term.
func DefaultConfig() Config {
	return Config{
		PerByteBase:    30,
		PerByte:        1,
		PerByteBaseBig: 30,
		PerByteBig:     4,
		BigThreshold:   32 * 1024,

		DBReadBase:   100,
		DBWriteBase:  200,
		DBRemoveBase: 100,
		DBScanBase:   10,
		DBNextBase:   10,

		AddrValidateBase:     260,
		AddrCanonicalizeBase: 260,
		AddrHumanizeBase:     260,

		Secp256k1VerifyCost:  151_000,
		Secp256k1RecoverCost: 162_000,
		Secp256r1VerifyCost:  151_000,
		Secp256r1RecoverCost: 162_000,
		Ed25519VerifyCost:    63_000,
		Ed25519BatchPerSig:   21_000,
		BLSAggregatePerPoint: 6_100,
		BLSPairingCost:       320_000,
		BLSHashToCurveCost:   5_400,

		QueryChainBase: 10,
	}
}

// TransferCost charges the small/large tiered linear cost for moving n
// bytes across the boundary, saturating instead of overflowing on
// pathological n.
func (c Config) TransferCost(n uint32) uint64 {
	base, perByte := c.PerByteBase, c.PerByte
	if n > c.BigThreshold {
		base, perByte = c.PerByteBaseBig, c.PerByteBig
	}
	return linearCost(base, perByte, uint64(n))
}

// linearCost computes base + perUnit*n, saturating to math.MaxUint64 on
// overflow rather than wrapping or panicking.
func linearCost(base, perUnit, n uint64) uint64 {
	if perUnit != 0 && n > (math.MaxUint64-base)/perUnit {
		return math.MaxUint64
	}
	return base + perUnit*n
}

// LinearCost is the general total_cost(n) = base + per_unit*n helper,
// exposed for callers outside this package (e.g. BLS
// aggregation cost keyed on point count).
func LinearCost(base, perUnit, n uint64) uint64 {
	return linearCost(base, perUnit, n)
}
