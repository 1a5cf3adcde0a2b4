package hostfns

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/backend"
)

// ErrWriteAccessDenied is returned by db_write/db_remove when the
// invocation's readonly flag is set (query-style entrypoints never
// mutate storage).
var ErrWriteAccessDenied = fmt.Errorf("write-access-denied")

func dbRead(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		keyPtr := uint32(args[0].I32())
		key, err := env.readRegion(keyPtr, capDBKey)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().DBReadBase); err != nil {
			return nil, err
		}

		res, err := env.Cell.WithStorage(func(s backend.Storage) (interface{}, error) {
			value, info, err := s.Get(key)
			if err != nil {
				return nil, err
			}
			if err := env.charge(info.Cost); err != nil {
				return nil, err
			}
			return value, nil
		})
		if err != nil {
			return nil, err
		}
		value, _ := res.([]byte)
		if value == nil {
			return []wasmer.Value{i32(0)}, nil
		}
		ptr, err := env.writeOut(value)
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
}

func dbWrite(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		if env.Cell.Readonly() {
			return nil, ErrWriteAccessDenied
		}
		keyPtr, valPtr := uint32(args[0].I32()), uint32(args[1].I32())
		key, err := env.readRegion(keyPtr, capDBKey)
		if err != nil {
			return nil, err
		}
		value, err := env.readRegion(valPtr, capDBValue)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().DBWriteBase); err != nil {
			return nil, err
		}

		_, err = env.Cell.WithStorage(func(s backend.Storage) (interface{}, error) {
			info, err := s.Set(key, value)
			if err != nil {
				return nil, err
			}
			return nil, env.charge(info.Cost)
		})
		if err != nil {
			return nil, err
		}
		return noResults(), nil
	}
}

func dbRemove(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		if env.Cell.Readonly() {
			return nil, ErrWriteAccessDenied
		}
		keyPtr := uint32(args[0].I32())
		key, err := env.readRegion(keyPtr, capDBKey)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().DBRemoveBase); err != nil {
			return nil, err
		}

		_, err = env.Cell.WithStorage(func(s backend.Storage) (interface{}, error) {
			info, err := s.Remove(key)
			if err != nil {
				return nil, err
			}
			return nil, env.charge(info.Cost)
		})
		if err != nil {
			return nil, err
		}
		return noResults(), nil
	}
}

func dbScan(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		startPtr, endPtr, order := uint32(args[0].I32()), uint32(args[1].I32()), args[2].I32()
		start, _, err := env.maybeReadRegion(startPtr, capDBKey)
		if err != nil {
			return nil, err
		}
		end, _, err := env.maybeReadRegion(endPtr, capDBKey)
		if err != nil {
			return nil, err
		}
		if err := env.charge(env.gas().Config().DBScanBase); err != nil {
			return nil, err
		}

		res, err := env.Cell.WithStorage(func(s backend.Storage) (interface{}, error) {
			iter, info, err := s.Scan(start, end, backend.Order(order))
			if err != nil {
				return nil, err
			}
			if err := env.charge(info.Cost); err != nil {
				return nil, err
			}
			return env.Cell.RegisterIterator(iter), nil
		})
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(res.(uint32))}, nil
	}
}

// nextResult bundles what one db_next* call needs after the iterator
// lookup and charge, so the three db_next variants share one body.
func nextResult(env *Env, id uint32) (key, value []byte, exhausted bool, err error) {
	iter, ok := env.Cell.Iterator(id)
	if !ok {
		return nil, nil, false, backend.User("unknown iterator id %d", id)
	}
	if err := env.charge(env.gas().Config().DBNextBase); err != nil {
		return nil, nil, false, err
	}
	k, v, hasNext, info, err := iter.Next()
	if err != nil {
		return nil, nil, false, err
	}
	if err := env.charge(info.Cost); err != nil {
		return nil, nil, false, err
	}
	return k, v, !hasNext, nil
}

func dbNext(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		key, value, exhausted, err := nextResult(env, uint32(args[0].I32()))
		if err != nil {
			return nil, err
		}
		if exhausted {
			key, value = []byte{}, []byte{}
		}
		ptr, err := env.writeOut(EncodeSections(key, value))
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
}

func dbNextKey(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		key, _, exhausted, err := nextResult(env, uint32(args[0].I32()))
		if err != nil {
			return nil, err
		}
		if exhausted {
			return []wasmer.Value{i32(0)}, nil
		}
		ptr, err := env.writeOut(key)
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
}

func dbNextValue(env *Env) hostFunc {
	return func(args []wasmer.Value) ([]wasmer.Value, error) {
		_, value, exhausted, err := nextResult(env, uint32(args[0].I32()))
		if err != nil {
			return nil, err
		}
		if exhausted {
			return []wasmer.Value{i32(0)}, nil
		}
		ptr, err := env.writeOut(value)
		if err != nil {
			return nil, err
		}
		return []wasmer.Value{u32(ptr)}, nil
	}
}
