// Package hostfns builds the fixed guest-import table ("env") the module
// checker allows and wires each import to the context cell, gas meter and
// backend, following core/virtual_machine.go's registerHost (a
// *wasmer.Store plus a closure-captured context building one
// *wasmer.Function per symbol, all registered under the "env" namespace).
package hostfns

import (
	"encoding/binary"
	"fmt"
)

// EncodeSections packs parts into the trailing-length-prefixed stream
// db_next's combined key/value return and the batch crypto imports use: n
// sections, each `bytes || big-endian u32 length`, concatenated.
func EncodeSections(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p)))
		out = append(out, lenBuf[:]...)
	}
	return out
}

// DecodeSections peels trailing length-prefixed sections off data until
// nothing remains, then returns them in original declaration order. It
// needs no a-priori section count: each section's length trails it, so
// the stream is self-terminating from the back.
func DecodeSections(data []byte) ([][]byte, error) {
	var reversed [][]byte
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("hostfns: truncated section stream, %d trailing bytes", len(data))
		}
		n := binary.BigEndian.Uint32(data[len(data)-4:])
		data = data[:len(data)-4]
		if uint64(n) > uint64(len(data)) {
			return nil, fmt.Errorf("hostfns: section length %d exceeds remaining %d bytes", n, len(data))
		}
		start := len(data) - int(n)
		reversed = append(reversed, data[start:])
		data = data[:start]
	}
	parts := make([][]byte, len(reversed))
	for i, p := range reversed {
		parts[len(reversed)-1-i] = p
	}
	return parts, nil
}
