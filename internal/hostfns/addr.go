package hostfns

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
)

// addrResult turns the outcome of one address-codec operation into the
// fixed 0-ok/nonzero-err-string-pointer return convention the import
// table uses: 0 on success, or a region pointer to a UTF-8 error string
// on a domain error. Backend faults (KindUnknown) still abort the
// invocation like any other host fault.
func addrResult(env *Env, info backend.GasInfo, opErr error) ([]wasmer.Value, error) {
	if err := env.charge(info.Cost); err != nil {
		return nil, err
	}
	if opErr == nil {
		return []wasmer.Value{i32(0)}, nil
	}
	if uerr, ok := backend.IsUser(opErr); ok {
		ptr, werr := env.writeOut([]byte(uerr.Error()))
		if werr != nil {
			return nil, werr
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
	return nil, opErr
}

func addrValidate(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		human, err := env.readRegion(uint32(args[0].I32()), capAddrSrcLong)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().AddrValidateBase); err != nil {
			return nil, err
		}
		addr, err := env.Cell.Address()
		if err != nil {
			return nil, err
		}
		info, opErr := addr.Validate(string(human))
		return addrResult(env, info, opErr)
	}
}

func addrCanonicalize(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		human, err := env.readRegion(uint32(args[0].I32()), capAddrSrcLong)
		if err != nil {
			return nil, err
		}
		dstPtr := uint32(args[1].I32())
		if err := env.charge(env.gas().Config().AddrCanonicalizeBase); err != nil {
			return nil, err
		}
		addr, err := env.Cell.Address()
		if err != nil {
			return nil, err
		}
		canon, info, opErr := addr.Canonicalize(string(human))
		if opErr == nil {
			if werr := env.writeInto(dstPtr, canon); werr != nil {
				return nil, werr
			}
		}
		return addrResult(env, info, opErr)
	}
}

func addrHumanize(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		canon, err := env.readRegion(uint32(args[0].I32()), capAddrSrcShort)
		if err != nil {
			return nil, err
		}
		dstPtr := uint32(args[1].I32())
		if err := env.charge(env.gas().Config().AddrHumanizeBase); err != nil {
			return nil, err
		}
		addr, err := env.Cell.Address()
		if err != nil {
			return nil, err
		}
		human, info, opErr := addr.Humanize(canon)
		if opErr == nil {
			if werr := env.writeInto(dstPtr, []byte(human)); werr != nil {
				return nil, werr
			}
		}
		return addrResult(env, info, opErr)
	}
}
