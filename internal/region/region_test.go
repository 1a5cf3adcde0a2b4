package region

import (
	"encoding/binary"
	"testing"
)

// fakeMemory is a trivial Memory backed by a plain slice, standing in for
// wasmer.Memory.Data() in these unit tests.
type fakeMemory struct{ buf []byte }

func (m *fakeMemory) Data() []byte { return m.buf }

func putRegion(buf []byte, ptr uint32, r Region) {
	binary.LittleEndian.PutUint32(buf[ptr:], r.Offset)
	binary.LittleEndian.PutUint32(buf[ptr+4:], r.Capacity)
	binary.LittleEndian.PutUint32(buf[ptr+8:], r.Length)
}

func newTestMemory() (*fakeMemory, uint32) {
	buf := make([]byte, 1024)
	descPtr := uint32(8)
	putRegion(buf, descPtr, Region{Offset: 100, Capacity: 64, Length: 0})
	return &fakeMemory{buf: buf}, descPtr
}

func TestRegionRoundTrip(t *testing.T) {
	mem, ptr := newTestMemory()
	want := []byte("insect")
	if err := WriteBytes(mem, ptr, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadBytes(mem, ptr, 64)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRegionTooBigOnRead(t *testing.T) {
	mem, ptr := newTestMemory()
	if err := WriteBytes(mem, ptr, []byte("0123456789")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ReadBytes(mem, ptr, 5)
	re, ok := err.(*Error)
	if !ok || re.Kind != KindLengthTooBig {
		t.Fatalf("expected length-too-big, got %v", err)
	}
}

func TestRegionTooSmallOnWrite(t *testing.T) {
	mem, ptr := newTestMemory()
	err := WriteBytes(mem, ptr, make([]byte, 65))
	re, ok := err.(*Error)
	if !ok || re.Kind != KindRegionTooSmall {
		t.Fatalf("expected region-too-small, got %v", err)
	}
}

func TestNullPointerSentinel(t *testing.T) {
	mem, _ := newTestMemory()
	b, ok, err := MaybeReadBytes(mem, 0, 64)
	if err != nil || ok || b != nil {
		t.Fatalf("expected none for null pointer, got %v %v %v", b, ok, err)
	}
}

func TestZeroOffsetRejected(t *testing.T) {
	mem, ptr := newTestMemory()
	putRegion(mem.buf, ptr, Region{Offset: 0, Capacity: 64, Length: 0})
	_, err := Read(mem, ptr)
	re, ok := err.(*Error)
	if !ok || re.Kind != KindNullPointer {
		t.Fatalf("expected null-pointer for zero offset, got %v", err)
	}
}

func TestCapacityExceedsMemoryRejected(t *testing.T) {
	mem, ptr := newTestMemory()
	putRegion(mem.buf, ptr, Region{Offset: 1000, Capacity: 100, Length: 0})
	_, err := Read(mem, ptr)
	re, ok := err.(*Error)
	if !ok || re.Kind != KindOutOfRange {
		t.Fatalf("expected out-of-range, got %v", err)
	}
}

func TestWriteToContract(t *testing.T) {
	mem, _ := newTestMemory()
	alloc := fakeAllocator{mem: mem, next: 500}
	ptr, err := WriteToContract(mem, &alloc, []byte("plant"))
	if err != nil {
		t.Fatalf("write to contract: %v", err)
	}
	got, err := ReadBytes(mem, ptr, 64)
	if err != nil || string(got) != "plant" {
		t.Fatalf("got %q err %v", got, err)
	}
}

type fakeAllocator struct {
	mem  *fakeMemory
	next uint32
}

func (a *fakeAllocator) Allocate(size uint32) (uint32, error) {
	descPtr := a.next
	bufPtr := a.next + 64
	putRegion(a.mem.buf, descPtr, Region{Offset: bufPtr, Capacity: size, Length: 0})
	a.next += 128
	return descPtr, nil
}
