package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"github.com/vortexchain/wasmhost/internal/checker"
)

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	dir := t.TempDir()
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gas.DefaultLimit != 30_000_000 {
		t.Fatalf("default gas limit = %d, want 30000000", cfg.Gas.DefaultLimit)
	}
	if cfg.Module.ABIVersionFunc != "interface_version" {
		t.Fatalf("default abi version func = %q", cfg.Module.ABIVersionFunc)
	}
	if cfg.DebugServer.ListenAddr != ":9090" {
		t.Fatalf("default listen addr = %q", cfg.DebugServer.ListenAddr)
	}
}

func TestLoadMergesOverrideFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	dir := t.TempDir()
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Mkdir(dir+"/config", 0o700); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(dir+"/config/staging.yaml", []byte("gas:\n  default_limit: 5000\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := Load("staging")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gas.DefaultLimit != 5000 {
		t.Fatalf("gas.default_limit = %d, want 5000", cfg.Gas.DefaultLimit)
	}
}

func TestGasConfigProjection(t *testing.T) {
	var cfg HostConfig
	cfg.Gas.DBReadBase = 7
	cfg.Gas.QueryChainBase = 9
	g := cfg.GasConfig()
	if g.DBReadBase != 7 || g.QueryChainBase != 9 {
		t.Fatalf("GasConfig projection lost fields: %+v", g)
	}
}

func TestCheckerConfigProjection(t *testing.T) {
	var cfg HostConfig
	cfg.Module.MaxSizeBytes = 1024
	cfg.Module.RequiredExports = []string{"allocate"}
	cfg.Module.ABIVersionFunc = "interface_version"
	cfg.Module.AcceptedABI = []uint32{1, 2}

	allowed := map[string]checker.FuncSig{"env.abort": {}}
	cc := cfg.CheckerConfig(allowed)
	if cc.MaxSizeBytes != 1024 {
		t.Fatalf("MaxSizeBytes = %d", cc.MaxSizeBytes)
	}
	if !cc.AcceptedABI[1] || !cc.AcceptedABI[2] {
		t.Fatalf("AcceptedABI projection = %v", cc.AcceptedABI)
	}
	if len(cc.AllowedImports) != 1 {
		t.Fatalf("AllowedImports not passed through")
	}
}
