// Package checker implements the module checker: a static,
// non-executing yes/no gate run before any instantiation. It is grounded
// on the validation step implied by core/contracts.go's deploy pipeline
// (CompileWASM + hash, gated before InvokeWithReceipt ever runs),
// generalized into the full import/export/size/ABI-version/function-count/
// table-size gate a candidate module must pass. The checker never touches
// a wasm runtime directly; internal/instance extracts a ModuleInfo from
// the compiled wasmer.Module and hands it here, keeping this package
// runtime-agnostic and cheaply unit-testable.
package checker

import "fmt"

// ValueKind mirrors the small set of wasm value types the host-function
// table uses (all i32, plus i64 for the combined secp256k1/secp256r1
// recover return).
type ValueKind int

const (
	I32 ValueKind = iota
	I64
)

// FuncSig is a host-visible or guest-declared function signature.
type FuncSig struct {
	Params  []ValueKind
	Results []ValueKind
}

func (s FuncSig) equal(o FuncSig) bool {
	if len(s.Params) != len(o.Params) || len(s.Results) != len(o.Results) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range s.Results {
		if s.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// Import describes one import the candidate module declares.
type Import struct {
	Module string
	Name   string
	Sig    FuncSig
}

// ModuleInfo is the static shape a candidate module must present.
type ModuleInfo struct {
	SizeBytes   int
	MemoryCount int
	// FunctionCount is the total number of functions the module declares,
	// imported plus locally defined.
	FunctionCount int
	// TableCount is the number of tables the module declares, imported
	// plus locally defined.
	TableCount int
	// MaxTableEntries is the largest declared minimum size among the
	// module's tables (0 if it declares none).
	MaxTableEntries uint32
	Exports         map[string]FuncSig
	Imports         []Import
}

// Config is the set of static limits and the allowed-import table. The
// host loads this from internal/config (viper-backed HostConfig).
type Config struct {
	MaxSizeBytes    int
	RequiredExports []string
	AllowedImports  map[string]FuncSig // keyed "module.name"
	ABIVersionFunc  string
	AcceptedABI     map[uint32]bool

	// MaxFunctions caps ModuleInfo.FunctionCount. Zero means unlimited.
	MaxFunctions int
	// MaxTables caps ModuleInfo.TableCount. Zero means unlimited.
	MaxTables int
	// MaxTableEntries caps ModuleInfo.MaxTableEntries. Zero means
	// unlimited.
	MaxTableEntries uint32
}

// Error names the first validation failure encountered.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("static-validation-failed: %s", e.Reason) }

func fail(format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Check runs the full gate in a fixed order so the reported failure is
// always the first violated condition, not an arbitrary one.
//
// readABIVersion is a callback invoked only if the ABI-version export is
// present and well-typed; it lets the caller actually instantiate/run the
// zero-arg version export without this package depending on wasmer.
func Check(info ModuleInfo, cfg Config, readABIVersion func() (uint32, error)) error {
	if info.SizeBytes > cfg.MaxSizeBytes {
		return fail("module size %d exceeds cap %d", info.SizeBytes, cfg.MaxSizeBytes)
	}
	if info.MemoryCount != 1 {
		return fail("expected exactly one memory, found %d", info.MemoryCount)
	}
	if cfg.MaxFunctions > 0 && info.FunctionCount > cfg.MaxFunctions {
		return fail("function count %d exceeds cap %d", info.FunctionCount, cfg.MaxFunctions)
	}
	if cfg.MaxTables > 0 && info.TableCount > cfg.MaxTables {
		return fail("table count %d exceeds cap %d", info.TableCount, cfg.MaxTables)
	}
	if cfg.MaxTableEntries > 0 && info.MaxTableEntries > cfg.MaxTableEntries {
		return fail("table size %d exceeds cap %d", info.MaxTableEntries, cfg.MaxTableEntries)
	}

	abiSig, hasABI := info.Exports[cfg.ABIVersionFunc]
	if !hasABI {
		return fail("missing ABI version marker export %q", cfg.ABIVersionFunc)
	}
	if len(abiSig.Params) != 0 || len(abiSig.Results) != 1 || abiSig.Results[0] != I32 {
		return fail("ABI version marker export %q has wrong signature", cfg.ABIVersionFunc)
	}

	for _, name := range cfg.RequiredExports {
		if _, ok := info.Exports[name]; !ok {
			return fail("missing required export %q", name)
		}
	}

	for _, imp := range info.Imports {
		key := imp.Module + "." + imp.Name
		want, ok := cfg.AllowedImports[key]
		if !ok {
			return fail("import %q is not in the allowed set", key)
		}
		if !imp.Sig.equal(want) {
			return fail("import %q has signature mismatch", key)
		}
	}

	if readABIVersion != nil {
		version, err := readABIVersion()
		if err != nil {
			return fail("failed to read ABI version: %v", err)
		}
		if !cfg.AcceptedABI[version] {
			return fail("ABI version %d is not accepted", version)
		}
	}

	return nil
}
