package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/config"
	"github.com/vortexchain/wasmhost/internal/hostfns"
	"github.com/vortexchain/wasmhost/internal/metrics"
	"github.com/vortexchain/wasmhost/pkg/wasmhost"
)

// entrypointCapBytes bounds the region an invoked export may return; it
// is not part of HostConfig because it is a CLI/debugsrv convenience
// rather than a gas-relevant tunable.
const entrypointCapBytes = 16 * 1024 * 1024

// buildHost loads HostConfig from the environment overlay named by the
// root command's --config-env flag and assembles a ready-to-use
// wasmhost.Host with metrics enabled.
func buildHost(cmd *cobra.Command) (*wasmhost.Host, *config.HostConfig, error) {
	env, _ := cmd.Root().PersistentFlags().GetString("config-env")
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	if cfg.Logging.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err == nil {
		log.SetLevel(level)
	}

	host := wasmhost.New(wasmhost.Options{
		Checker:        cfg.CheckerConfig(hostfns.AllowedImports()),
		Gas:            cfg.GasConfig(),
		LogSink:        log,
		EntrypointCaps: entrypointCapBytes,
		Metrics:        metrics.New(),
	})
	return host, cfg, nil
}

// emptyBackend returns a fresh in-memory MemStore plus a generic
// address codec, for CLI invocations that don't attach a real node
// backend. The MemStore is also returned so a caller can inspect
// post-invocation state; run and validate currently discard it.
func emptyBackend() (backend.Backend, *backend.MemStore, error) {
	store := backend.NewMemStore()
	return backend.Backend{
		Storage: store,
		Address: backend.NewSimpleBech32Codec("wasm1"),
	}, store, nil
}
