package hostfns

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
)

// queryChain dispatches query_chain: the sole host import that lets a
// guest recurse into the outer caller (e.g. another contract query). The
// gas limit passed down is whatever remains on the calling invocation,
// per spec, so a runaway recursive query still traps at the same fuel
// register as the outer call.
func queryChain(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		request, err := env.readRegion(uint32(args[0].I32()), capQueryChainReq)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().QueryChainBase); err != nil {
			return nil, err
		}
		remaining, err := env.gas().Remaining()
		if err != nil {
			return nil, err
		}

		res, err := env.Cell.WithQuerier(func(q backend.Querier) (interface{}, error) {
			response, info, err := q.QueryRaw(request, remaining)
			if err != nil {
				return nil, err
			}
			if err := env.charge(info.Cost); err != nil {
				return nil, err
			}
			return response, nil
		})
		if err != nil {
			return nil, err
		}
		ptr, err := env.writeOut(res.([]byte))
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
}
