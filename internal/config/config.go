// Package config loads the host's tunables from a YAML file plus
// environment overrides, mirroring pkg/config.Config's nested-struct +
// viper pattern (default.yaml under a config path, merged with an
// optional environment-specific file, AutomaticEnv on top).
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vortexchain/wasmhost/internal/checker"
	"github.com/vortexchain/wasmhost/internal/gas"
)

// HostConfig is the unified configuration for a wasmhost process: the
// module checker's static limits, the gas rate table, and the ambient
// logging/server knobs the outer binaries (cmd/wasmhost, debugsrv) need.
type HostConfig struct {
	Module struct {
		MaxSizeBytes    int      `mapstructure:"max_size_bytes"`
		RequiredExports []string `mapstructure:"required_exports"`
		ABIVersionFunc  string   `mapstructure:"abi_version_func"`
		AcceptedABI     []uint32 `mapstructure:"accepted_abi"`
		MaxFunctions    int      `mapstructure:"max_functions"`
		MaxTables       int      `mapstructure:"max_tables"`
		MaxTableEntries uint32   `mapstructure:"max_table_entries"`
	} `mapstructure:"module"`

	Gas struct {
		DefaultLimit uint64 `mapstructure:"default_limit"`

		PerByteBase    uint64 `mapstructure:"per_byte_base"`
		PerByte        uint64 `mapstructure:"per_byte"`
		PerByteBaseBig uint64 `mapstructure:"per_byte_base_big"`
		PerByteBig     uint64 `mapstructure:"per_byte_big"`
		BigThreshold   uint32 `mapstructure:"big_threshold"`

		DBReadBase   uint64 `mapstructure:"db_read_base"`
		DBWriteBase  uint64 `mapstructure:"db_write_base"`
		DBRemoveBase uint64 `mapstructure:"db_remove_base"`
		DBScanBase   uint64 `mapstructure:"db_scan_base"`
		DBNextBase   uint64 `mapstructure:"db_next_base"`

		AddrValidateBase     uint64 `mapstructure:"addr_validate_base"`
		AddrCanonicalizeBase uint64 `mapstructure:"addr_canonicalize_base"`
		AddrHumanizeBase     uint64 `mapstructure:"addr_humanize_base"`

		Secp256k1VerifyCost  uint64 `mapstructure:"secp256k1_verify_cost"`
		Secp256k1RecoverCost uint64 `mapstructure:"secp256k1_recover_cost"`
		Secp256r1VerifyCost  uint64 `mapstructure:"secp256r1_verify_cost"`
		Secp256r1RecoverCost uint64 `mapstructure:"secp256r1_recover_cost"`
		Ed25519VerifyCost    uint64 `mapstructure:"ed25519_verify_cost"`
		Ed25519BatchPerSig   uint64 `mapstructure:"ed25519_batch_per_sig"`
		BLSAggregatePerPoint uint64 `mapstructure:"bls_aggregate_per_point"`
		BLSPairingCost       uint64 `mapstructure:"bls_pairing_cost"`
		BLSHashToCurveCost   uint64 `mapstructure:"bls_hash_to_curve_cost"`

		QueryChainBase uint64 `mapstructure:"query_chain_base"`
	} `mapstructure:"gas"`

	Logging struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"logging"`

	DebugServer struct {
		ListenAddr      string  `mapstructure:"listen_addr"`
		RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec"`
		RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
	} `mapstructure:"debug_server"`
}

// AppConfig holds the configuration loaded via Load.
var AppConfig HostConfig

// Load reads the default configuration file and merges an optional
// environment-specific override, then overlays environment variables. The
// result is stored in AppConfig and returned. env may be empty to skip
// the merge step.
func Load(env string) (*HostConfig, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge %s config: %w", env, err)
		}
	}

	viper.SetEnvPrefix("WASMHOST")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &AppConfig, nil
}

func setDefaults() {
	d := gas.DefaultConfig()
	viper.SetDefault("gas.default_limit", 30_000_000)
	viper.SetDefault("gas.per_byte_base", d.PerByteBase)
	viper.SetDefault("gas.per_byte", d.PerByte)
	viper.SetDefault("gas.per_byte_base_big", d.PerByteBaseBig)
	viper.SetDefault("gas.per_byte_big", d.PerByteBig)
	viper.SetDefault("gas.big_threshold", d.BigThreshold)
	viper.SetDefault("gas.db_read_base", d.DBReadBase)
	viper.SetDefault("gas.db_write_base", d.DBWriteBase)
	viper.SetDefault("gas.db_remove_base", d.DBRemoveBase)
	viper.SetDefault("gas.db_scan_base", d.DBScanBase)
	viper.SetDefault("gas.db_next_base", d.DBNextBase)
	viper.SetDefault("gas.addr_validate_base", d.AddrValidateBase)
	viper.SetDefault("gas.addr_canonicalize_base", d.AddrCanonicalizeBase)
	viper.SetDefault("gas.addr_humanize_base", d.AddrHumanizeBase)
	viper.SetDefault("gas.secp256k1_verify_cost", d.Secp256k1VerifyCost)
	viper.SetDefault("gas.secp256k1_recover_cost", d.Secp256k1RecoverCost)
	viper.SetDefault("gas.secp256r1_verify_cost", d.Secp256r1VerifyCost)
	viper.SetDefault("gas.secp256r1_recover_cost", d.Secp256r1RecoverCost)
	viper.SetDefault("gas.ed25519_verify_cost", d.Ed25519VerifyCost)
	viper.SetDefault("gas.ed25519_batch_per_sig", d.Ed25519BatchPerSig)
	viper.SetDefault("gas.bls_aggregate_per_point", d.BLSAggregatePerPoint)
	viper.SetDefault("gas.bls_pairing_cost", d.BLSPairingCost)
	viper.SetDefault("gas.bls_hash_to_curve_cost", d.BLSHashToCurveCost)
	viper.SetDefault("gas.query_chain_base", d.QueryChainBase)

	viper.SetDefault("module.max_size_bytes", 5*1024*1024)
	viper.SetDefault("module.required_exports", []string{"allocate", "deallocate"})
	viper.SetDefault("module.abi_version_func", "interface_version")
	viper.SetDefault("module.accepted_abi", []int{1})
	viper.SetDefault("module.max_functions", 10_000)
	viper.SetDefault("module.max_tables", 1)
	viper.SetDefault("module.max_table_entries", 10_000)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", true)

	viper.SetDefault("debug_server.listen_addr", ":9090")
	viper.SetDefault("debug_server.rate_limit_per_sec", 200)
	viper.SetDefault("debug_server.rate_limit_burst", 100)
}

// GasConfig projects the loaded Gas section onto gas.Config.
func (c *HostConfig) GasConfig() gas.Config {
	g := c.Gas
	return gas.Config{
		PerByteBase:          g.PerByteBase,
		PerByte:              g.PerByte,
		PerByteBaseBig:       g.PerByteBaseBig,
		PerByteBig:           g.PerByteBig,
		BigThreshold:         g.BigThreshold,
		DBReadBase:           g.DBReadBase,
		DBWriteBase:          g.DBWriteBase,
		DBRemoveBase:         g.DBRemoveBase,
		DBScanBase:           g.DBScanBase,
		DBNextBase:           g.DBNextBase,
		AddrValidateBase:     g.AddrValidateBase,
		AddrCanonicalizeBase: g.AddrCanonicalizeBase,
		AddrHumanizeBase:     g.AddrHumanizeBase,
		Secp256k1VerifyCost:  g.Secp256k1VerifyCost,
		Secp256k1RecoverCost: g.Secp256k1RecoverCost,
		Secp256r1VerifyCost:  g.Secp256r1VerifyCost,
		Secp256r1RecoverCost: g.Secp256r1RecoverCost,
		Ed25519VerifyCost:    g.Ed25519VerifyCost,
		Ed25519BatchPerSig:   g.Ed25519BatchPerSig,
		BLSAggregatePerPoint: g.BLSAggregatePerPoint,
		BLSPairingCost:       g.BLSPairingCost,
		BLSHashToCurveCost:   g.BLSHashToCurveCost,
		QueryChainBase:       g.QueryChainBase,
	}
}

// CheckerConfig projects the loaded Module section onto checker.Config,
// merging in the fixed host-function import table from hostfns.
func (c *HostConfig) CheckerConfig(allowedImports map[string]checker.FuncSig) checker.Config {
	accepted := make(map[uint32]bool, len(c.Module.AcceptedABI))
	for _, v := range c.Module.AcceptedABI {
		accepted[v] = true
	}
	return checker.Config{
		MaxSizeBytes:    c.Module.MaxSizeBytes,
		RequiredExports: append([]string{}, c.Module.RequiredExports...),
		AllowedImports:  allowedImports,
		ABIVersionFunc:  c.Module.ABIVersionFunc,
		AcceptedABI:     accepted,
		MaxFunctions:    c.Module.MaxFunctions,
		MaxTables:       c.Module.MaxTables,
		MaxTableEntries: c.Module.MaxTableEntries,
	}
}
