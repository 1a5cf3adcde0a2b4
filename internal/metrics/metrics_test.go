package metrics

import "testing"

func TestCollectorRegistersWithoutPanicking(t *testing.T) {
	c := New()
	if c.Registry() == nil {
		t.Fatal("Registry() returned nil")
	}
}

func TestObserversDoNotPanic(t *testing.T) {
	c := New()
	c.ObserveGas(1234)
	c.ObserveHostCall("db_read")
	c.ObserveInvocation("instantiate", "ok", 0.002)
	c.InstanceCreated()
	c.InstanceFinished()
	c.IteratorOpened()
	c.IteratorClosed()
	c.ObserveModuleRejection("missing required export")
}

func TestGatherExposesRegisteredMetrics(t *testing.T) {
	c := New()
	c.ObserveHostCall("abort")

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "wasmhost_host_calls_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("wasmhost_host_calls_total not present in gathered families")
	}
}
