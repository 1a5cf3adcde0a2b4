package wasmhost

import (
	"errors"
	"testing"

	"github.com/vortexchain/wasmhost/internal/instance"
)

func TestAsFaultExtractsKind(t *testing.T) {
	err := &instance.Fault{Kind: instance.KindGasDepletion, Message: "out of gas"}
	if got := AsFault(err); got != KindGasDepletion {
		t.Fatalf("AsFault = %v, want KindGasDepletion", got)
	}
}

func TestAsFaultDefaultsToNone(t *testing.T) {
	if got := AsFault(errors.New("plain error")); got != KindNone {
		t.Fatalf("AsFault(plain) = %v, want KindNone", got)
	}
	if got := AsFault(nil); got != KindNone {
		t.Fatalf("AsFault(nil) = %v, want KindNone", got)
	}
}

func TestKindLabelCoversEveryKind(t *testing.T) {
	kinds := []instance.Kind{
		instance.KindNone, instance.KindStaticValidation, instance.KindResolution,
		instance.KindCommunication, instance.KindRuntime, instance.KindGasDepletion,
		instance.KindWriteAccessDenied, instance.KindBackendUnknown,
		instance.KindBackendUser, instance.KindAborted,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		label := k.String()
		if label == "" {
			t.Fatalf("Kind(%d).String() returned empty string", int(k))
		}
		seen[label] = true
	}
	if len(seen) != len(kinds) {
		t.Fatalf("Kind.String produced %d distinct labels for %d kinds", len(seen), len(kinds))
	}
}
