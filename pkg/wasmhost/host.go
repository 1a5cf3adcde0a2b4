// Package wasmhost is the public facade over the internal host-runtime
// components: a single wasmer.Engine shared across instances, a
// checker-config/gas-config bundle loaded once, and thin
// Instantiate/Call entry points that wrap internal/instance so callers
// never need to import internal packages directly. It is grounded on
// the VM interface + HeavyVM/Execute pairing in core/virtual_machine.go,
// generalized from "one call, one bytecode blob, one VMContext" to "one
// engine, many checked modules, many single-use Instances".
package wasmhost

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/checker"
	"github.com/vortexchain/wasmhost/internal/gas"
	"github.com/vortexchain/wasmhost/internal/hostfns"
	"github.com/vortexchain/wasmhost/internal/instance"
	"github.com/vortexchain/wasmhost/internal/metrics"
)

// Options configures a Host for its entire process lifetime.
type Options struct {
	Checker        checker.Config
	Gas            gas.Config
	LogSink        *logrus.Logger
	EntrypointCaps uint32
	Metrics        *metrics.Collector // optional; nil disables instrumentation
}

// Host owns the shared wasmer engine and the static configuration every
// Instantiate call reuses. It has no mutable state of its own beyond the
// engine, so a single Host is safe for concurrent Instantiate calls;
// each Instance it produces gets its own store.
type Host struct {
	engine  *wasmer.Engine
	opts    Options
	metrics *metrics.Collector
}

// New builds a Host. opts.Checker.AllowedImports is overwritten with the
// fixed host-function table from internal/hostfns so the checker and the
// live import wiring can never drift apart.
func New(opts Options) *Host {
	opts.Checker.AllowedImports = hostfns.AllowedImports()
	if opts.LogSink == nil {
		opts.LogSink = logrus.New()
	}
	return &Host{
		engine:  wasmer.NewEngine(),
		opts:    opts,
		metrics: opts.Metrics,
	}
}

// Receipt reports the outcome of a single Call, mirroring the shape of
// core/virtual_machine.go's Receipt (status/gas_used/return_data/error)
// generalized to the host-guest invocation model: Error is non-empty and
// wraps the Kind whenever the call did not reach a successful return.
type Receipt struct {
	Status     bool
	GasUsed    uint64
	ReturnData []byte
	Kind       instance.Kind
	Error      string
}

// Instantiate checks and compiles code, binds the host-function table
// and attaches b for exactly one subsequent Call. Every Instantiate
// produces a single-use handle; call Close when done with it regardless
// of whether Call succeeds.
func (h *Host) Instantiate(code []byte, gasLimit uint64, entrypoint string, b backend.Backend, readonly bool) (*Handle, error) {
	cfg := instance.Config{
		Checker:        h.opts.Checker,
		Gas:            h.opts.Gas,
		LogSink:        h.opts.LogSink,
		EntrypointCaps: h.opts.EntrypointCaps,
	}

	inst, err := instance.New(h.engine, code, gasLimit, entrypoint, cfg)
	if err != nil {
		if h.metrics != nil {
			if f, ok := err.(*instance.Fault); ok && f.Kind == instance.KindStaticValidation {
				h.metrics.ObserveModuleRejection(f.Message)
			}
		}
		return nil, err
	}

	if err := inst.Attach(b, readonly); err != nil {
		inst.Recycle()
		return nil, err
	}

	if h.metrics != nil {
		h.metrics.InstanceCreated()
	}

	return &Handle{inst: inst, entrypoint: entrypoint, metrics: h.metrics}, nil
}

// Handle is a single checked, attached, ready-to-call instance.
type Handle struct {
	inst       *instance.Instance
	entrypoint string
	metrics    *metrics.Collector
	called     bool
}

// Call invokes the handle's configured entrypoint exactly once with
// payload and returns the resulting Receipt. Calling it a second time
// returns an error rather than silently reusing the finished instance.
func (hd *Handle) Call(payload []byte) (*Receipt, error) {
	if hd.called {
		return nil, fmt.Errorf("wasmhost: handle already called")
	}
	hd.called = true

	start := time.Now()
	out, err := hd.inst.Invoke(hd.entrypoint, payload)
	elapsed := time.Since(start).Seconds()

	rec := &Receipt{GasUsed: hd.inst.GasUsed()}
	outcome := "ok"
	if err != nil {
		rec.Status = false
		rec.Error = err.Error()
		if f, ok := err.(*instance.Fault); ok {
			rec.Kind = f.Kind
			outcome = f.Kind.String()
		} else {
			outcome = "unknown"
		}
	} else {
		rec.Status = true
		rec.ReturnData = out
	}

	if hd.metrics != nil {
		hd.metrics.ObserveInvocation(hd.entrypoint, outcome, elapsed)
		hd.metrics.ObserveGas(rec.GasUsed)
	}
	return rec, err
}

// MoveOut releases the backend's storage and querier without requiring
// Call to have run, for callers that need to recover state after a
// failed Instantiate-time check further up their own stack.
func (hd *Handle) MoveOut() (backend.Storage, backend.Querier) {
	return hd.inst.MoveOut()
}

// Close releases the wasmer-side resources this handle holds. It is
// idempotent-safe to call after Call whether or not Call succeeded.
func (hd *Handle) Close() {
	hd.inst.Recycle()
	if hd.metrics != nil {
		hd.metrics.InstanceFinished()
	}
}
