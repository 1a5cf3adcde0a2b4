package hostfns

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/gas"
	"github.com/vortexchain/wasmhost/internal/region"
	"github.com/vortexchain/wasmhost/internal/wasmctx"
)

// fakeMemory stands in for wasmer.Memory.Data() in these unit tests,
// following internal/region's own test fixture.
type fakeMemory struct{ buf []byte }

func (m *fakeMemory) Data() []byte { return m.buf }

func putRegion(buf []byte, ptr, offset, capacity, length uint32) {
	binary.LittleEndian.PutUint32(buf[ptr:], offset)
	binary.LittleEndian.PutUint32(buf[ptr+4:], capacity)
	binary.LittleEndian.PutUint32(buf[ptr+8:], length)
}

// bumpAllocator hands out fresh regions sequentially, modeling a guest's
// allocate() export for tests that never deallocate.
type bumpAllocator struct {
	mem  *fakeMemory
	next uint32
}

func (a *bumpAllocator) Allocate(size uint32) (uint32, error) {
	if size == 0 {
		size = 1 // region invariant requires capacity > 0 even for empty payloads
	}
	descPtr := a.next
	bufPtr := a.next + 64
	putRegion(a.mem.buf, descPtr, bufPtr, size, 0)
	a.next += 4096
	return descPtr, nil
}

// newTestEnv builds an Env over a 64 KiB fake memory with a storage
// backend already moved into its cell, plus a helper to place a byte
// string into guest memory at a fresh region the tests can pass as an
// argument pointer.
func newTestEnv(t *testing.T, store backend.Storage, readonly bool) (*Env, func([]byte) uint32) {
	t.Helper()
	mem := &fakeMemory{buf: make([]byte, 64*1024)}
	alloc := &bumpAllocator{mem: mem, next: 1024}

	cell := wasmctx.New(gas.NewState(gas.DefaultConfig(), 10_000_000))
	cell.MoveIn(store, nil, backend.NewSimpleBech32Codec("wasm1"))
	cell.SetStorageReadonly(readonly)

	env := &Env{Cell: cell, Mem: mem, Alloc: alloc}

	place := func(b []byte) uint32 {
		ptr, err := env.writeOut(b)
		require.NoError(t, err)
		return ptr
	}
	return env, place
}

func callArgs(vals ...int32) []wasmer.Value {
	out := make([]wasmer.Value, len(vals))
	for i, v := range vals {
		out[i] = wasmer.NewI32(v)
	}
	return out
}

// S1/S2: db_read hit and miss.
func TestDBReadHitAndMiss(t *testing.T) {
	store := backend.NewMemStore()
	_, err := store.Set([]byte("ant"), []byte("insect"))
	require.NoError(t, err)

	env, place := newTestEnv(t, store, false)
	keyPtr := place([]byte("ant"))

	out, err := dbRead(env)(callArgs(int32(keyPtr)))
	require.NoError(t, err)
	ptr := uint32(out[0].I32())
	require.NotZero(t, ptr)

	got, err := env.readRegion(ptr, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "insect", string(got))

	missPtr := place([]byte("ghost"))
	out, err = dbRead(env)(callArgs(int32(missPtr)))
	require.NoError(t, err)
	require.Zero(t, out[0].I32())
}

// S3: write then read.
func TestDBWriteThenRead(t *testing.T) {
	store := backend.NewMemStore()
	env, place := newTestEnv(t, store, false)

	kPtr, vPtr := place([]byte("k")), place([]byte("v"))
	_, err := dbWrite(env)(callArgs(int32(kPtr), int32(vPtr)))
	require.NoError(t, err)

	readPtr := place([]byte("k"))
	out, err := dbRead(env)(callArgs(int32(readPtr)))
	require.NoError(t, err)
	got, err := env.readRegion(uint32(out[0].I32()), 1<<20)
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
	require.Equal(t, map[string][]byte{"k": []byte("v")}, store.Snapshot())
}

// Empty-value prohibition (testable property 4).
func TestDBWriteEmptyValueRejected(t *testing.T) {
	store := backend.NewMemStore()
	env, place := newTestEnv(t, store, false)

	kPtr, vPtr := place([]byte("k")), place(nil)
	_, err := dbWrite(env)(callArgs(int32(kPtr), int32(vPtr)))
	require.Error(t, err)
	require.Empty(t, store.Snapshot())
}

// S4 / readonly enforcement (testable property 5).
func TestDBWriteReadonlyDenied(t *testing.T) {
	store := backend.NewMemStore()
	_, err := store.Set([]byte("a"), []byte("1"))
	require.NoError(t, err)
	before := store.Snapshot()

	env, place := newTestEnv(t, store, true)
	kPtr, vPtr := place([]byte("a")), place([]byte("2"))

	_, err = dbWrite(env)(callArgs(int32(kPtr), int32(vPtr)))
	require.ErrorIs(t, err, ErrWriteAccessDenied)
	require.Equal(t, before, store.Snapshot())

	_, err = dbRemove(env)(callArgs(int32(kPtr)))
	require.ErrorIs(t, err, ErrWriteAccessDenied)
	require.Equal(t, before, store.Snapshot())
}

// S5: scan ascending bounded, then exhaustion sentinel.
func TestDBScanAscendingBoundedThenExhausted(t *testing.T) {
	store := backend.NewMemStore()
	_, err := store.Set([]byte("ant"), []byte("insect"))
	require.NoError(t, err)
	_, err = store.Set([]byte("tree"), []byte("plant"))
	require.NoError(t, err)

	env, place := newTestEnv(t, store, false)
	startPtr, endPtr := place([]byte("anna")), place([]byte("bert"))

	out, err := dbScan(env)(callArgs(int32(startPtr), int32(endPtr), int32(backend.Ascending)))
	require.NoError(t, err)
	id := uint32(out[0].I32())
	require.NotZero(t, id)

	out, err = dbNext(env)(callArgs(int32(id)))
	require.NoError(t, err)
	sections, err := env.readRegion(uint32(out[0].I32()), 1<<20)
	require.NoError(t, err)
	parts, err := DecodeSections(sections)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, "ant", string(parts[0]))
	require.Equal(t, "insect", string(parts[1]))

	out, err = dbNext(env)(callArgs(int32(id)))
	require.NoError(t, err)
	sections, err = env.readRegion(uint32(out[0].I32()), 1<<20)
	require.NoError(t, err)
	parts, err = DecodeSections(sections)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Empty(t, parts[0])
}

// An unregistered iterator id is a backend error, not a trap (testable
// property 6).
func TestDBNextUnknownIteratorIsBackendError(t *testing.T) {
	store := backend.NewMemStore()
	env, _ := newTestEnv(t, store, false)

	_, err := dbNext(env)(callArgs(999))
	require.Error(t, err)
	_, isUser := backend.IsUser(err)
	require.True(t, isUser)
}

// S6-style: a heavy read against a tiny gas limit surfaces ErrOutOfGas
// rather than allocating anything in the guest.
func TestDBReadGasDepletion(t *testing.T) {
	store := backend.NewMemStore()
	big := make([]byte, 10*1024)
	for i := range big {
		big[i] = 'x'
	}
	_, err := store.Set([]byte("big"), big)
	require.NoError(t, err)

	mem := &fakeMemory{buf: make([]byte, 64*1024)}
	alloc := &bumpAllocator{mem: mem, next: 1024}
	// The key region is placed directly (bypassing env.writeOut's own
	// charge) to model bytes the guest already wrote before the call; only
	// the db_read handler itself runs under the tiny budget below.
	keyPtr, err := region.WriteToContract(mem, alloc, []byte("big"))
	require.NoError(t, err)

	cell := wasmctx.New(gas.NewState(gas.DefaultConfig(), 10))
	cell.MoveIn(store, nil, nil)
	env := &Env{Cell: cell, Mem: mem, Alloc: alloc}

	_, err = dbRead(env)(callArgs(int32(keyPtr)))
	require.ErrorIs(t, err, gas.ErrOutOfGas)
}
