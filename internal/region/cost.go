package region

// TransferCost computes the linear "base + per_byte*n" charge for moving
// n bytes, saturating on overflow. It applies a single rate with no
// small/large tiering; the host-function handlers bill region transfers
// through internal/gas.Config.TransferCost instead, which is tiered.
func TransferCost(n uint32, base, perByte uint64) uint64 {
	cost := base
	add := uint64(n) * perByte
	if perByte != 0 && add/perByte != uint64(n) {
		// overflow: saturate, the gas meter will report out-of-gas.
		return ^uint64(0)
	}
	if cost+add < cost {
		return ^uint64(0)
	}
	return cost + add
}
