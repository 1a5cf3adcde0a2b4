package instance

import "testing"

func TestDecodeULEB128(t *testing.T) {
	cases := []struct {
		in       []byte
		val      uint64
		consumed int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x05}, 5, 1},
		{[]byte{0xe5, 0x8e, 0x26}, 624485, 3},
		{[]byte{}, 0, 0},
	}
	for _, c := range cases {
		val, n := decodeULEB128(c.in)
		if val != c.val || n != c.consumed {
			t.Fatalf("decodeULEB128(%v) = (%d, %d), want (%d, %d)", c.in, val, n, c.val, c.consumed)
		}
	}
}

// buildMinimalWasm assembles a wasm binary with just a header and a
// function section declaring count local functions, enough to exercise
// localFunctionCount without a real compiler.
func buildMinimalWasm(count byte) []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version 1
		0x03,       // section id 3 (function)
		0x02,       // section size: 2 bytes
		count, 0x00, // vector count, one filler byte
	}
}

func TestLocalFunctionCountReadsFunctionSection(t *testing.T) {
	if got := localFunctionCount(buildMinimalWasm(3)); got != 3 {
		t.Fatalf("localFunctionCount = %d, want 3", got)
	}
}

func TestLocalFunctionCountNoFunctionSection(t *testing.T) {
	onlyHeader := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if got := localFunctionCount(onlyHeader); got != 0 {
		t.Fatalf("localFunctionCount = %d, want 0", got)
	}
}

func TestLocalFunctionCountTruncatedInputIsZero(t *testing.T) {
	if got := localFunctionCount([]byte{0x00, 0x61, 0x73}); got != 0 {
		t.Fatalf("localFunctionCount = %d, want 0", got)
	}
}
