package hostfns

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/gas"
	"github.com/vortexchain/wasmhost/internal/region"
	"github.com/vortexchain/wasmhost/internal/wasmctx"
)

// Per-argument length caps from the fixed import table. A handler that
// accepts a region argument always checks it against the matching cap
// before touching backend or gas state.
const (
	capAbortMsg       = 2 * 1024 * 1024
	capDBKey          = 64 * 1024
	capDBValue        = 128 * 1024
	capAddrSrcShort   = 64
	capAddrSrcLong    = 256
	capAddrDstShort   = 64
	capAddrDstLong    = 256
	capHashLen        = 32
	capSigLen         = 64
	capPubkeyLen      = 65
	capEd25519Msg     = 128 * 1024
	capBatchEntries   = 256
	capBLSPoints      = 2 * 1024 * 1024
	capBLSHashMsg     = 5 * 1024 * 1024
	capBLSHashDST     = 5 * 1024
	capQueryChainReq  = 64 * 1024
	capDebugMsg       = 2 * 1024 * 1024
)

// Env is the per-instance closure environment every host function reads
// from, mirroring hostCtx's mem/store/gas/tx/rec bundle but generalized
// to the full backend trio plus the context cell's borrow and iterator
// bookkeeping.
type Env struct {
	Cell  *wasmctx.Cell
	Mem   region.Memory
	Alloc region.Allocator
}

func (e *Env) gas() *gas.State { return e.Cell.Gas }

// charge bills cost against the cell's gas state; a non-nil return means
// the invocation is out of gas and the host callback must abort by
// returning this error (it surfaces as the trap that halts the guest).
func (e *Env) charge(cost uint64) error {
	return e.gas().Charge(cost)
}

// readRegion reads a validated region and bills its transfer cost
// proportional to the bytes actually moved, per spec §4.2 ("All
// operations charge gas to C5 proportional to bytes transferred").
func (e *Env) readRegion(ptr uint32, maxLen uint32) ([]byte, error) {
	b, err := region.ReadBytes(e.Mem, ptr, maxLen)
	if err != nil {
		return nil, err
	}
	if err := e.charge(e.gas().Config().TransferCost(uint32(len(b)))); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *Env) maybeReadRegion(ptr uint32, maxLen uint32) ([]byte, bool, error) {
	b, ok, err := region.MaybeReadBytes(e.Mem, ptr, maxLen)
	if err != nil || !ok {
		return b, ok, err
	}
	if err := e.charge(e.gas().Config().TransferCost(uint32(len(b)))); err != nil {
		return nil, false, err
	}
	return b, ok, nil
}

func (e *Env) writeOut(bytes []byte) (uint32, error) {
	if err := e.charge(e.gas().Config().TransferCost(uint32(len(bytes)))); err != nil {
		return 0, err
	}
	return region.WriteToContract(e.Mem, e.Alloc, bytes)
}

// writeInto copies bytes into a guest-owned destination region (used by
// addr_canonicalize/addr_humanize, which write into a buffer the guest
// already allocated rather than one freshly allocated by the host).
func (e *Env) writeInto(dstPtr uint32, bytes []byte) error {
	if err := e.charge(e.gas().Config().TransferCost(uint32(len(bytes)))); err != nil {
		return err
	}
	return region.WriteBytes(e.Mem, dstPtr, bytes)
}

// i32 and noResults are small readability helpers matching the inline
// wasmer.Value slice literal style used throughout this table.
func i32(v int32) wasmer.Value { return wasmer.NewI32(v) }
func u32(v uint32) wasmer.Value { return wasmer.NewI32(int32(v)) }
func i64(v int64) wasmer.Value  { return wasmer.NewI64(v) }

func noResults() []wasmer.Value { return []wasmer.Value{} }

// hostFunc is the callback shape wasmer.NewFunction expects. Named locally
// so each do_* builder below has a concrete return type instead of
// repeating the inline func literal signature.
type hostFunc = func(args []wasmer.Value) ([]wasmer.Value, error)
