package instance

import (
	"fmt"
	"testing"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/gas"
	"github.com/vortexchain/wasmhost/internal/hostfns"
	"github.com/vortexchain/wasmhost/internal/region"
)

func TestPhaseStringCoversAllValues(t *testing.T) {
	want := map[Phase]string{PhaseCreated: "created", PhaseReady: "ready", PhaseRunning: "running", PhaseFinished: "finished"}
	for p, s := range want {
		if got := p.String(); got != s {
			t.Fatalf("Phase(%d).String() = %q, want %q", p, got, s)
		}
	}
	if got := Phase(99).String(); got != "unknown" {
		t.Fatalf("unknown phase should stringify to %q, got %q", "unknown", got)
	}
}

func TestGuestAllocatorSuccess(t *testing.T) {
	var called []int32
	alloc := &guestAllocator{allocate: func(args ...interface{}) (interface{}, error) {
		called = append(called, args[0].(int32))
		return int32(128), nil
	}}
	ptr, err := alloc.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if ptr != 128 {
		t.Fatalf("got ptr %d, want 128", ptr)
	}
	if len(called) != 1 || called[0] != 16 {
		t.Fatalf("allocate called with %v, want [16]", called)
	}
}

func TestGuestAllocatorRejectsWrongReturnType(t *testing.T) {
	alloc := &guestAllocator{allocate: func(args ...interface{}) (interface{}, error) {
		return "not-an-int32", nil
	}}
	if _, err := alloc.Allocate(16); err == nil {
		t.Fatal("expected error on non-int32 allocate return")
	}
}

func TestGuestAllocatorPropagatesCallError(t *testing.T) {
	wantErr := fmt.Errorf("trap: unreachable")
	alloc := &guestAllocator{allocate: func(args ...interface{}) (interface{}, error) {
		return nil, wantErr
	}}
	if _, err := alloc.Allocate(16); err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

func TestClassifyMapsKnownErrorKinds(t *testing.T) {
	inst := &Instance{}

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"abort", &hostfns.AbortError{Message: "nope"}, KindAborted},
		{"out-of-gas", gas.ErrOutOfGas, KindGasDepletion},
		{"write-access-denied", hostfns.ErrWriteAccessDenied, KindWriteAccessDenied},
		{"backend-user", backend.User("bad address"), KindBackendUser},
		{"region", &region.Error{Kind: region.KindNullPointer}, KindCommunication},
		{"trap", &wasmer.TrapError{}, KindRuntime},
		{"unknown", fmt.Errorf("disk on fire"), KindBackendUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, ok := inst.classify(c.err).(*Fault)
			if !ok {
				t.Fatalf("classify did not return *Fault")
			}
			if f.Kind != c.want {
				t.Fatalf("classify(%v) kind = %v, want %v", c.err, f.Kind, c.want)
			}
		})
	}
}
