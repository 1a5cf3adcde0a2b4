package hostfns

import (
	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/region"
)

// AbortError is the fatal error a guest's call to abort() surfaces as.
// The instance lifecycle layer type-switches on this to report the
// dedicated "aborted" failure kind instead of a generic runtime error.
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string { return "wasm guest aborted: " + e.Message }

func abort(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		msg, err := env.readRegion(uint32(args[0].I32()), capAbortMsg)
		if err != nil {
			return nil, err
		}
		return nil, &AbortError{Message: string(msg)}
	}
}

// debug forwards the guest's message to the host log at debug level and
// never bills gas, matching the hostLog callback which appends to the
// receipt without consuming the gas meter. It reads the region directly
// through region.ReadBytes rather than env.readRegion, since the latter
// always bills the transfer cost and debug is the one region-bearing
// import that must stay free.
func debug(env *Env, sink *logrus.Logger) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		msg, err := region.ReadBytes(env.Mem, uint32(args[0].I32()), capDebugMsg)
		if err != nil {
			return nil, err
		}
		sink.WithField("cell", env.Cell.ID()).Debug(string(msg))
		return noResults(), nil
	}
}
