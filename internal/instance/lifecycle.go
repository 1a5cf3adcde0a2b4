// Package instance implements the Created→Ready→Running→Finished
// invocation state machine: it compiles a checked module, binds the
// host-function table, deposits a backend into the context cell for the
// duration of one call, and tears everything back down afterward. It is
// grounded on HeavyVM.Execute in core/virtual_machine.go (new
// store+module+instance per call, registerHost wiring, memory and
// entrypoint lookup, trap classification) plus
// BigBossBooling-Empower1Blockchain's VMService.ExecuteContract, which
// adds the defer-based engine/store/instance cleanup this package follows.
package instance

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/checker"
	"github.com/vortexchain/wasmhost/internal/gas"
	"github.com/vortexchain/wasmhost/internal/hostfns"
	"github.com/vortexchain/wasmhost/internal/region"
	"github.com/vortexchain/wasmhost/internal/wasmctx"
)

// Phase names the four states an Instance value passes through exactly
// once each; it is never reused for a second invocation.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseReady
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	errUnexpectedABIReturn = errors.New("instance: ABI version export did not return an i32")
	// ErrWrongPhase is returned when a lifecycle method is called out of
	// order (e.g. Invoke before Attach).
	ErrWrongPhase = errors.New("instance: called from the wrong lifecycle phase")
	// ErrMemoryMissing means the module's single declared memory was not
	// exported under the conventional name.
	ErrMemoryMissing = errors.New("instance: wasm memory export missing")
)

// Kind distinguishes the failure taxonomy an outer caller branches on,
// independent of the underlying Go error's message.
type Kind int

const (
	KindNone Kind = iota
	KindStaticValidation
	KindResolution
	KindCommunication
	KindRuntime
	KindGasDepletion
	KindWriteAccessDenied
	KindBackendUnknown
	KindBackendUser
	KindAborted
)

func (k Kind) String() string {
	switch k {
	case KindStaticValidation:
		return "static_validation"
	case KindResolution:
		return "resolution"
	case KindCommunication:
		return "communication"
	case KindRuntime:
		return "runtime"
	case KindGasDepletion:
		return "gas_depletion"
	case KindWriteAccessDenied:
		return "write_access_denied"
	case KindBackendUnknown:
		return "backend_unknown"
	case KindBackendUser:
		return "backend_user"
	case KindAborted:
		return "aborted"
	default:
		return "none"
	}
}

// Fault wraps an invocation failure with its Kind so the outer caller can
// branch without string matching.
type Fault struct {
	Kind    Kind
	Message string
	Cause   error
}

func (f *Fault) Error() string { return fmt.Sprintf("%s", f.Message) }
func (f *Fault) Unwrap() error { return f.Cause }

func fault(kind Kind, cause error) *Fault {
	return &Fault{Kind: kind, Message: cause.Error(), Cause: cause}
}

// Config bundles the tunables a node supplies once per instance.
type Config struct {
	Checker        checker.Config
	Gas            gas.Config
	LogSink        *logrus.Logger
	EntrypointCaps uint32 // max length, in bytes, of the region an invoked entrypoint returns
}

// Instance is a single-use execution: one compiled module, one context
// cell, one backend attachment. Recycle only releases the underlying
// wasmer resources; the Instance value itself is never reused for a
// second invocation.
type Instance struct {
	cfg Config

	store    *wasmer.Store
	module   *wasmer.Module
	wasmInst *wasmer.Instance
	mem      *wasmer.Memory
	alloc    *guestAllocator

	cell  *wasmctx.Cell
	gas   *gas.State
	phase Phase
	log   *logrus.Entry
}

// callable is the shape every wasmer exported function takes once
// resolved by Exports.GetFunction: a variadic native-value call returning
// a single result or an error (trap). Named locally so guestAllocator,
// and its tests, don't depend on wasmer.NativeFunction's exact spelling.
type callable func(args ...interface{}) (interface{}, error)

// guestAllocator adapts the guest's required allocate export to
// region.Allocator.
type guestAllocator struct {
	allocate callable
}

func (g *guestAllocator) Allocate(size uint32) (uint32, error) {
	res, err := g.allocate(int32(size))
	if err != nil {
		return 0, err
	}
	v, ok := res.(int32)
	if !ok {
		return 0, fmt.Errorf("instance: allocate(%d) returned unexpected type %T", size, res)
	}
	return uint32(v), nil
}

// New checks, compiles and instantiates code under gasLimit, binding the
// host-function table but deferring backend attachment to Attach. It
// corresponds to the Created state: "import table bound, memory reserved
// with a per-instance cap" (the cap itself is enforced by the engine
// config the caller built store's Engine with).
func New(engine *wasmer.Engine, code []byte, gasLimit uint64, entrypointName string, cfg Config) (*Instance, error) {
	store := wasmer.NewStore(engine)

	module, err := wasmer.NewModule(store, code)
	if err != nil {
		return nil, fault(KindStaticValidation, fmt.Errorf("compile: %w", err))
	}

	info := ModuleInfo(module, code, len(code))
	gasState := gas.NewState(cfg.Gas, gasLimit)
	cell := wasmctx.New(gasState)
	env := &hostfns.Env{Cell: cell}

	imports := hostfns.BuildImports(store, env, cfg.LogSink)

	wasmInst, err := wasmer.NewInstance(module, imports)
	if err != nil {
		module.Close()
		store.Close()
		return nil, fault(KindResolution, fmt.Errorf("instantiate: %w", err))
	}

	mem, err := wasmInst.Exports.GetMemory("memory")
	if err != nil {
		wasmInst.Close()
		module.Close()
		store.Close()
		return nil, fault(KindResolution, ErrMemoryMissing)
	}
	env.Mem = mem

	allocateFn, err := wasmInst.Exports.GetFunction("allocate")
	if err != nil {
		wasmInst.Close()
		module.Close()
		store.Close()
		return nil, fault(KindResolution, fmt.Errorf("required export %q missing: %w", "allocate", err))
	}
	alloc := &guestAllocator{allocate: callable(allocateFn)}
	env.Alloc = alloc

	requiredExports := append([]string{}, cfg.Checker.RequiredExports...)
	if entrypointName != "" {
		requiredExports = append(requiredExports, entrypointName)
	}
	checkerCfg := cfg.Checker
	checkerCfg.RequiredExports = requiredExports

	if err := checker.Check(info, checkerCfg, abiVersionReader(wasmInst, checkerCfg.ABIVersionFunc)); err != nil {
		wasmInst.Close()
		module.Close()
		store.Close()
		return nil, fault(KindStaticValidation, err)
	}

	gasState.Attach(newNoopFuel(gasLimit))

	inst := &Instance{
		cfg:      cfg,
		store:    store,
		module:   module,
		wasmInst: wasmInst,
		mem:      mem,
		alloc:    alloc,
		cell:     cell,
		gas:      gasState,
		phase:    PhaseCreated,
		log:      cfg.LogSink.WithField("cell", cell.ID()),
	}
	return inst, nil
}

// Attach deposits a backend into the context cell and moves Created →
// Ready. readonly gates mutating storage imports for the duration of the
// call (query-style entrypoints pass true).
func (inst *Instance) Attach(b backend.Backend, readonly bool) error {
	if inst.phase != PhaseCreated {
		return ErrWrongPhase
	}
	inst.cell.MoveIn(b.Storage, b.Querier, b.Address)
	inst.cell.SetStorageReadonly(readonly)
	inst.phase = PhaseReady
	return nil
}

// Invoke runs exactly one exported function, writing payload to the guest
// via C2, reading back its returned region, and deallocating it in the
// guest before returning. It moves Ready → Running → Finished regardless
// of outcome.
func (inst *Instance) Invoke(name string, payload []byte) ([]byte, error) {
	if inst.phase != PhaseReady {
		return nil, ErrWrongPhase
	}
	inst.phase = PhaseRunning
	defer func() { inst.phase = PhaseFinished }()

	fn, err := inst.wasmInst.Exports.GetFunction(name)
	if err != nil {
		return nil, fault(KindResolution, fmt.Errorf("entrypoint %q not found: %w", name, err))
	}

	inPtr, err := region.WriteToContract(inst.mem, inst.alloc, payload)
	if err != nil {
		return nil, fault(KindCommunication, err)
	}

	raw, callErr := fn(int32(inPtr))
	if callErr != nil {
		return nil, inst.classify(callErr)
	}

	outPtr, ok := raw.(int32)
	if !ok {
		return nil, fault(KindRuntime, fmt.Errorf("entrypoint %q returned unexpected type %T", name, raw))
	}

	out, err := region.ReadBytes(inst.mem, uint32(outPtr), inst.cfg.EntrypointCaps)
	if err != nil {
		return nil, fault(KindCommunication, err)
	}

	if deallocate, err := inst.wasmInst.Exports.GetFunction("deallocate"); err == nil {
		_, _ = deallocate(int32(outPtr))
	}

	inst.log.WithFields(logrus.Fields{
		"entrypoint":   name,
		"gas_used":     inst.gas.ExternallyUsed(),
		"output_bytes": len(out),
	}).Debug("invocation finished")

	return out, nil
}

// classify maps a raw wasmer call error (or a host-function-returned Go
// error surfaced as a trap) onto the dedicated failure kinds the outer
// caller needs to be able to distinguish.
func (inst *Instance) classify(err error) error {
	var abortErr *hostfns.AbortError
	if errors.As(err, &abortErr) {
		return &Fault{Kind: KindAborted, Message: abortErr.Error(), Cause: err}
	}
	if errors.Is(err, gas.ErrOutOfGas) {
		return &Fault{Kind: KindGasDepletion, Message: "gas-depletion", Cause: err}
	}
	if errors.Is(err, hostfns.ErrWriteAccessDenied) {
		return &Fault{Kind: KindWriteAccessDenied, Message: "write-access-denied", Cause: err}
	}
	if be, ok := backend.IsUser(err); ok {
		return &Fault{Kind: KindBackendUser, Message: be.Error(), Cause: err}
	}
	var regionErr *region.Error
	if errors.As(err, &regionErr) {
		return &Fault{Kind: KindCommunication, Message: regionErr.Error(), Cause: err}
	}
	if _, ok := err.(*wasmer.TrapError); ok {
		return &Fault{Kind: KindRuntime, Message: err.Error(), Cause: err}
	}
	return &Fault{Kind: KindBackendUnknown, Message: err.Error(), Cause: err}
}

// MoveOut releases storage and querier back to the caller without
// requiring the instance to finish normally (used by the outer caller's
// trap-handling path, which still moves out remaining state before
// discarding the instance).
func (inst *Instance) MoveOut() (backend.Storage, backend.Querier) {
	return inst.cell.MoveOut()
}

// Phase reports the current lifecycle state, mainly for logging/metrics.
func (inst *Instance) Phase() Phase { return inst.phase }

// GasUsed reports the externally-used gas total for this invocation.
func (inst *Instance) GasUsed() uint64 { return inst.gas.ExternallyUsed() }

// Recycle closes the instance and module. Only the compiled module may
// be released back to an outer cache; neither this package nor
// pkg/wasmhost caches modules, so the module is closed here too. It does
// free the wasmer-side resources deterministically rather than waiting
// on the GC finalizer wasmer-go registers.
func (inst *Instance) Recycle() {
	inst.cell.MoveOut()
	if inst.wasmInst != nil {
		inst.wasmInst.Close()
	}
	if inst.module != nil {
		inst.module.Close()
	}
	if inst.store != nil {
		inst.store.Close()
	}
}
