package checker

import "testing"

func baseConfig() Config {
	return Config{
		MaxSizeBytes:    1024,
		RequiredExports: []string{"allocate", "deallocate", "execute"},
		AllowedImports: map[string]FuncSig{
			"env.db_read": {Params: []ValueKind{I32}, Results: []ValueKind{I32}},
		},
		ABIVersionFunc: "interface_version_8",
		AcceptedABI:    map[uint32]bool{8: true},
	}
}

func baseModule() ModuleInfo {
	return ModuleInfo{
		SizeBytes:   100,
		MemoryCount: 1,
		Exports: map[string]FuncSig{
			"interface_version_8": {Results: []ValueKind{I32}},
			"allocate":            {Params: []ValueKind{I32}, Results: []ValueKind{I32}},
			"deallocate":          {Params: []ValueKind{I32}},
			"execute":             {Params: []ValueKind{I32, I32, I32}, Results: []ValueKind{I32}},
		},
		Imports: []Import{
			{Module: "env", Name: "db_read", Sig: FuncSig{Params: []ValueKind{I32}, Results: []ValueKind{I32}}},
		},
	}
}

func TestCheckAccepts(t *testing.T) {
	err := Check(baseModule(), baseConfig(), func() (uint32, error) { return 8, nil })
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestCheckRejectsOversized(t *testing.T) {
	m := baseModule()
	m.SizeBytes = 2048
	if err := Check(m, baseConfig(), nil); err == nil {
		t.Fatal("expected size rejection")
	}
}

func TestCheckRejectsMultipleMemories(t *testing.T) {
	m := baseModule()
	m.MemoryCount = 2
	if err := Check(m, baseConfig(), nil); err == nil {
		t.Fatal("expected memory-count rejection")
	}
}

func TestCheckRejectsMissingABIMarker(t *testing.T) {
	m := baseModule()
	delete(m.Exports, "interface_version_8")
	if err := Check(m, baseConfig(), nil); err == nil {
		t.Fatal("expected missing ABI marker rejection")
	}
}

func TestCheckRejectsMissingRequiredExport(t *testing.T) {
	m := baseModule()
	delete(m.Exports, "execute")
	if err := Check(m, baseConfig(), func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected missing required export rejection")
	}
}

func TestCheckRejectsDisallowedImport(t *testing.T) {
	m := baseModule()
	m.Imports = append(m.Imports, Import{Module: "env", Name: "db_write", Sig: FuncSig{Params: []ValueKind{I32, I32}}})
	if err := Check(m, baseConfig(), func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected disallowed import rejection")
	}
}

func TestCheckRejectsImportSignatureMismatch(t *testing.T) {
	m := baseModule()
	m.Imports[0].Sig.Results = nil
	if err := Check(m, baseConfig(), func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected import signature mismatch rejection")
	}
}

func TestCheckRejectsUnacceptedABIVersion(t *testing.T) {
	if err := Check(baseModule(), baseConfig(), func() (uint32, error) { return 7, nil }); err == nil {
		t.Fatal("expected ABI version rejection")
	}
}

func TestCheckRejectsExcessiveFunctionCount(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxFunctions = 4
	m := baseModule()
	m.FunctionCount = 5
	if err := Check(m, cfg, func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected function-count rejection")
	}
}

func TestCheckAcceptsFunctionCountAtCap(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxFunctions = 5
	m := baseModule()
	m.FunctionCount = 5
	if err := Check(m, cfg, func() (uint32, error) { return 8, nil }); err != nil {
		t.Fatalf("expected acceptance at cap, got %v", err)
	}
}

func TestCheckRejectsExcessiveTableCount(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxTables = 1
	m := baseModule()
	m.TableCount = 2
	if err := Check(m, cfg, func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected table-count rejection")
	}
}

func TestCheckRejectsExcessiveTableSize(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxTables = 1
	cfg.MaxTableEntries = 1000
	m := baseModule()
	m.TableCount = 1
	m.MaxTableEntries = 1001
	if err := Check(m, cfg, func() (uint32, error) { return 8, nil }); err == nil {
		t.Fatal("expected table-size rejection")
	}
}
