package wasmhost

import "github.com/vortexchain/wasmhost/internal/instance"

// Kind re-exports internal/instance's failure taxonomy so callers outside
// this module never need to import an internal package to branch on it.
type Kind = instance.Kind

const (
	KindNone               = instance.KindNone
	KindStaticValidation   = instance.KindStaticValidation
	KindResolution         = instance.KindResolution
	KindCommunication      = instance.KindCommunication
	KindRuntime            = instance.KindRuntime
	KindGasDepletion       = instance.KindGasDepletion
	KindWriteAccessDenied  = instance.KindWriteAccessDenied
	KindBackendUnknown     = instance.KindBackendUnknown
	KindBackendUser        = instance.KindBackendUser
	KindAborted            = instance.KindAborted
)

// Fault re-exports internal/instance.Fault so errors.As(err, &*Fault)
// works from outside this module without an internal import.
type Fault = instance.Fault

// AsFault extracts the Kind from a Call/Instantiate error, returning
// KindNone if err is nil or not a *Fault.
func AsFault(err error) Kind {
	f, ok := err.(*Fault)
	if !ok {
		return KindNone
	}
	return f.Kind
}
