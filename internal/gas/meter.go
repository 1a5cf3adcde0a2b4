package gas

import "fmt"

// InstanceFuel is the minimal view the meter needs of the wasm engine's
// internal fuel register. The VM/instance lifecycle layer adapts
// wasmer's instance to this interface; this package stays free of any
// wasm-runtime import so it can be unit tested in isolation.
type InstanceFuel interface {
	// FuelRemaining reads the instance's current remaining-fuel register.
	FuelRemaining() (uint64, error)
	// SetFuel forces the instance's fuel register, used to zero it out
	// the instant externally-used work exceeds the budget so the next
	// guest instruction traps rather than racing one more step.
	SetFuel(uint64) error
}

// ErrOutOfGas is returned by Charge when externally-used work
// has exceeded the fuel budget.
var ErrOutOfGas = fmt.Errorf("gas-depletion")

// State is the per-invocation gas state: a pair
// (externally_used, guest_fuel_remaining), the latter delegated to the
// wasm instance itself rather than duplicated here.
type State struct {
	cfg            Config
	limit          uint64
	externallyUsed uint64
	fuel           InstanceFuel
}

// NewState builds a fresh gas state for one invocation with the given
// total limit. Attach is called once the instance exists (the limit must
// be known before compilation starts the fuel metering).
func NewState(cfg Config, limit uint64) *State {
	return &State{cfg: cfg, limit: limit}
}

// Attach binds the state to a live instance's fuel register. Until this
// is called Charge still accumulates externallyUsed but Remaining treats
// the limit as the only fuel source (used during module instantiation,
// before the instance exists).
func (s *State) Attach(f InstanceFuel) { s.fuel = f }

// Config exposes the rate table so host-function handlers can compute
// charges without a second lookup.
func (s *State) Config() Config { return s.cfg }

// ExternallyUsed returns the host-side-only portion of consumed gas.
func (s *State) ExternallyUsed() uint64 { return s.externallyUsed }

// Remaining computes guest_fuel_remaining - externally_used, the sole
// source of truth for "are we out?".
func (s *State) Remaining() (uint64, error) {
	fuel := s.limit
	if s.fuel != nil {
		f, err := s.fuel.FuelRemaining()
		if err != nil {
			return 0, err
		}
		fuel = f
	}
	if s.externallyUsed > fuel {
		return 0, nil
	}
	return fuel - s.externallyUsed, nil
}

// Charge adds cost to externally-used gas and, if that now exceeds the
// instance's fuel, forces the fuel register to zero before returning
// ErrOutOfGas.
func (s *State) Charge(cost uint64) error {
	s.externallyUsed += cost
	if s.externallyUsed < cost {
		// overflow: treat as immediately depleted.
		s.externallyUsed = ^uint64(0)
	}
	if s.exceeded() {
		if s.fuel != nil {
			_ = s.fuel.SetFuel(0)
		}
		return ErrOutOfGas
	}
	return nil
}

func (s *State) exceeded() bool {
	fuel := s.limit
	if s.fuel != nil {
		if f, err := s.fuel.FuelRemaining(); err == nil {
			fuel = f
		}
	}
	return s.externallyUsed > fuel
}

// Limit returns the invocation's total gas limit.
func (s *State) Limit() uint64 { return s.limit }
