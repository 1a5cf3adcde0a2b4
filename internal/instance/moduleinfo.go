package instance

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/vortexchain/wasmhost/internal/checker"
)

// ModuleInfo inspects a compiled module's import/export/memory surface
// and reduces it to the runtime-agnostic shape internal/checker validates
// against, so the checker package never needs to import wasmer itself.
// code is the raw module bytes, used only to count locally-defined
// functions (the wasm function section); wasmer's Module type exposes
// imported and exported functions but not the full function count.
func ModuleInfo(module *wasmer.Module, code []byte, sizeBytes int) checker.ModuleInfo {
	info := checker.ModuleInfo{
		SizeBytes:     sizeBytes,
		Exports:       make(map[string]checker.FuncSig),
		FunctionCount: localFunctionCount(code),
	}

	for _, exp := range module.Exports() {
		ty := exp.Type()
		switch ty.Kind() {
		case wasmer.FUNCTION:
			info.Exports[exp.Name()] = funcSig(ty.IntoFunctionType())
		case wasmer.MEMORY:
			info.MemoryCount++
		case wasmer.TABLE:
			info.TableCount++
			updateMaxTableEntries(&info, ty.IntoTableType())
		}
	}

	for _, imp := range module.Imports() {
		ty := imp.Type()
		switch ty.Kind() {
		case wasmer.FUNCTION:
			info.FunctionCount++
			info.Imports = append(info.Imports, checker.Import{
				Module: imp.Module(),
				Name:   imp.Name(),
				Sig:    funcSig(ty.IntoFunctionType()),
			})
		case wasmer.TABLE:
			info.TableCount++
			updateMaxTableEntries(&info, ty.IntoTableType())
		}
	}

	return info
}

func updateMaxTableEntries(info *checker.ModuleInfo, tt *wasmer.TableType) {
	min := tt.Limits().Minimum()
	if min > info.MaxTableEntries {
		info.MaxTableEntries = min
	}
}

// localFunctionCount walks the raw wasm binary's section headers to read
// the function section's declaration count (the number of functions
// defined in the module body, as opposed to imported). It does not
// validate the binary beyond what is needed to find that one section;
// a malformed module is instead rejected by wasmer's own compile step
// before ModuleInfo is ever called.
func localFunctionCount(code []byte) int {
	const (
		wasmHeaderLen = 8 // magic (4 bytes) + version (4 bytes)
		functionSecID = 3
	)
	if len(code) < wasmHeaderLen {
		return 0
	}
	pos := wasmHeaderLen
	for pos < len(code) {
		id := code[pos]
		pos++
		size, n := decodeULEB128(code[pos:])
		if n == 0 {
			return 0
		}
		pos += n
		if pos+int(size) > len(code) {
			return 0
		}
		if id == functionSecID {
			count, _ := decodeULEB128(code[pos : pos+int(size)])
			return int(count)
		}
		pos += int(size)
	}
	return 0
}

// decodeULEB128 reads an unsigned LEB128 integer from the front of b,
// returning the value and the number of bytes consumed (0 on a
// truncated or overlong encoding).
func decodeULEB128(b []byte) (uint64, int) {
	var result uint64
	var shift uint
	for i := 0; i < len(b) && i < 10; i++ {
		byt := b[i]
		result |= uint64(byt&0x7f) << shift
		if byt&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return 0, 0
}

func funcSig(ft *wasmer.FunctionType) checker.FuncSig {
	sig := checker.FuncSig{}
	for _, p := range ft.Params() {
		sig.Params = append(sig.Params, valueKind(p.Kind()))
	}
	for _, r := range ft.Results() {
		sig.Results = append(sig.Results, valueKind(r.Kind()))
	}
	return sig
}

func valueKind(k wasmer.ValueKind) checker.ValueKind {
	if k == wasmer.I64 {
		return checker.I64
	}
	return checker.I32
}

// abiVersionReader builds the checker's readABIVersion callback against a
// live instance: it calls the zero-arg marker export and returns its i32
// result as the declared ABI version.
func abiVersionReader(wasmInst *wasmer.Instance, exportName string) func() (uint32, error) {
	return func() (uint32, error) {
		fn, err := wasmInst.Exports.GetFunction(exportName)
		if err != nil {
			return 0, err
		}
		res, err := fn()
		if err != nil {
			return 0, err
		}
		v, ok := res.(int32)
		if !ok {
			return 0, errUnexpectedABIReturn
		}
		return uint32(v), nil
	}
}
