// Package region implements the length-tagged pointer descriptor that is
// the sole way bytes cross the host-guest boundary, and the validated
// reads/writes built on top of it.
//
// The on-wire shape is fixed at three little-endian uint32 fields laid out
// contiguously in guest linear memory: offset, capacity, length. An earlier
// two-field shape existed in some guest SDK generations; this package only
// ever emits and accepts the three-field form.
package region

import (
	"encoding/binary"
	"fmt"
)

// Size is the byte length of a Region descriptor in guest memory.
const Size = 12

// Region mirrors the guest-memory layout {offset, capacity, length}, each a
// 32-bit unsigned integer.
type Region struct {
	Offset   uint32
	Capacity uint32
	Length   uint32
}

// Memory is the slice of guest linear memory a marshaller operates over. It
// is satisfied by wasmer.Memory.Data() (a live, growable []byte) wrapped by
// the instance lifecycle layer so this package stays free of any wasm
// runtime import.
type Memory interface {
	Data() []byte
}

// Error is a communication-kind failure: a violated region invariant, a
// pointer out of range, or a declared cap exceeded. These are "buggy guest"
// errors surfaced to the outer caller rather than retried.
type Error struct {
	Kind string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newErr(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(kind+": "+format, args...)}
}

// Error kinds, named so callers can errors.As and branch on e.Kind.
const (
	KindNullPointer           = "null-pointer"
	KindOutOfRange            = "out-of-range"
	KindLengthTooBig          = "length-too-big"
	KindLengthExceedsCapacity = "length-exceeds-capacity"
	KindRegionTooSmall        = "region-too-small"
	KindRegionTooBig          = "region-too-big"
	KindZeroCapacity          = "zero-capacity"
	KindAllocationFailed      = "allocation-failed"
)

// Read dereferences the descriptor at ptr, validates every invariant,
// and returns a decoded copy. It does not touch guest bytes.
func Read(mem Memory, ptr uint32) (Region, error) {
	if ptr == 0 {
		return Region{}, newErr(KindNullPointer, "region pointer is zero")
	}
	data := mem.Data()
	if uint64(ptr)+Size > uint64(len(data)) {
		return Region{}, newErr(KindOutOfRange, "descriptor at %d exceeds memory of size %d", ptr, len(data))
	}
	r := Region{
		Offset:   binary.LittleEndian.Uint32(data[ptr : ptr+4]),
		Capacity: binary.LittleEndian.Uint32(data[ptr+4 : ptr+8]),
		Length:   binary.LittleEndian.Uint32(data[ptr+8 : ptr+12]),
	}
	if err := validate(r, uint64(len(data))); err != nil {
		return Region{}, err
	}
	return r, nil
}

// validate checks the region invariants: offset > 0,
// offset+capacity <= memSize, length <= capacity, capacity > 0.
func validate(r Region, memSize uint64) error {
	if r.Offset == 0 {
		return newErr(KindNullPointer, "region buffer offset is zero")
	}
	if r.Capacity == 0 {
		return newErr(KindZeroCapacity, "region capacity is zero")
	}
	if uint64(r.Offset)+uint64(r.Capacity) > memSize {
		return newErr(KindOutOfRange, "region buffer [%d,%d) exceeds memory of size %d", r.Offset, uint64(r.Offset)+uint64(r.Capacity), memSize)
	}
	if r.Length > r.Capacity {
		return newErr(KindLengthExceedsCapacity, "length %d exceeds capacity %d", r.Length, r.Capacity)
	}
	return nil
}

// ReadBytes reads a validated region and copies out its `Length` bytes,
// failing if that exceeds maxLen (the per-call-site cap).
func ReadBytes(mem Memory, ptr uint32, maxLen uint32) ([]byte, error) {
	r, err := Read(mem, ptr)
	if err != nil {
		return nil, err
	}
	if r.Length > maxLen {
		return nil, newErr(KindLengthTooBig, "length %d exceeds cap %d", r.Length, maxLen)
	}
	data := mem.Data()
	out := make([]byte, r.Length)
	copy(out, data[r.Offset:r.Offset+r.Length])
	return out, nil
}

// MaybeReadBytes treats ptr == 0 as "no value", per the null-sentinel
// convention used by db_read misses and exhausted iterators.
func MaybeReadBytes(mem Memory, ptr uint32, maxLen uint32) ([]byte, bool, error) {
	if ptr == 0 {
		return nil, false, nil
	}
	b, err := ReadBytes(mem, ptr, maxLen)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// WriteBytes validates the descriptor at ptr and copies bytes into its
// buffer, updating Length. It fails region-too-small if bytes does not fit
// within the declared capacity.
func WriteBytes(mem Memory, ptr uint32, bytes []byte) error {
	data := mem.Data()
	r, err := Read(mem, ptr)
	if err != nil {
		return err
	}
	if uint64(len(bytes)) > uint64(r.Capacity) {
		return newErr(KindRegionTooSmall, "got %d bytes, region capacity is %d", len(bytes), r.Capacity)
	}
	copy(data[r.Offset:r.Offset+uint32(len(bytes))], bytes)
	binary.LittleEndian.PutUint32(data[ptr+8:ptr+12], uint32(len(bytes)))
	return nil
}

// Allocator is the subset of the guest's required exports a marshaller
// needs to hand ownership of freshly written bytes back to the guest.
type Allocator interface {
	Allocate(size uint32) (uint32, error)
}

// WriteToContract calls the guest's allocate(n) export, validates the
// returned descriptor, writes bytes into it and returns the pointer. It is
// the only way the host hands variable-length output back across the
// boundary (scalar host-function returns never allocate).
func WriteToContract(mem Memory, alloc Allocator, bytes []byte) (uint32, error) {
	ptr, err := alloc.Allocate(uint32(len(bytes)))
	if err != nil {
		return 0, newErr(KindAllocationFailed, "guest allocate(%d) failed: %v", len(bytes), err)
	}
	if ptr == 0 {
		return 0, newErr(KindAllocationFailed, "guest allocate(%d) returned null", len(bytes))
	}
	if err := WriteBytes(mem, ptr, bytes); err != nil {
		return 0, err
	}
	return ptr, nil
}

// CheckCap fails region-too-big if n exceeds the declared cap for a call
// site, without dereferencing any region.
func CheckCap(n, cap uint32) error {
	if n > cap {
		return newErr(KindRegionTooBig, "length %d exceeds cap %d", n, cap)
	}
	return nil
}
