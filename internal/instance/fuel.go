package instance

// noopFuel backs gas.State's InstanceFuel slot when the underlying engine
// has no instruction-level metering to delegate to. wasmer-go (the
// binding every wasmer-based VM seen so far embeds, including
// HeavyVM) does not expose Wasmer's Cranelift metering middleware through
// its Go API, so every one of those VMs accounts gas entirely on the host
// side, charging a fixed cost per host call or opcode rather than
// decrementing an engine fuel register. This type keeps gas.State's
// bidirectional design (it still has a slot for a real fuel register,
// for an engine that exposes one) while matching that host-only
// accounting: remaining never decreases except through
// SetFuel, which the gas state calls to force zero whenever a charge
// exceeds the budget.
type noopFuel struct {
	remaining uint64
}

func newNoopFuel(limit uint64) *noopFuel {
	return &noopFuel{remaining: limit}
}

func (f *noopFuel) FuelRemaining() (uint64, error) { return f.remaining, nil }

func (f *noopFuel) SetFuel(v uint64) error {
	f.remaining = v
	return nil
}
