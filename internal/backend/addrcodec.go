package backend

import "strings"

// SimpleBech32Codec is a reference AddressCodec used by tests and the
// debug server. It is deliberately not a real bech32 implementation; the
// core treats address encoding as payload-agnostic, but this codec
// enforces the size caps (canonicalize input <= 256B,
// canonical output <= 64B, humanize input <= 64B, output <= 256B).
type SimpleBech32Codec struct {
	Prefix string
}

func NewSimpleBech32Codec(prefix string) *SimpleBech32Codec {
	return &SimpleBech32Codec{Prefix: prefix}
}

func (c *SimpleBech32Codec) Validate(human string) (GasInfo, error) {
	if len(human) > 256 {
		return GasInfo{}, User("address exceeds 256 bytes")
	}
	if !strings.HasPrefix(human, c.Prefix) {
		return GasInfo{}, User("address missing expected prefix %q", c.Prefix)
	}
	return GasInfo{}, nil
}

func (c *SimpleBech32Codec) Canonicalize(human string) ([]byte, GasInfo, error) {
	if len(human) > 256 {
		return nil, GasInfo{}, User("address exceeds 256 bytes")
	}
	if _, err := c.Validate(human); err != nil {
		return nil, GasInfo{}, err
	}
	body := strings.TrimPrefix(human, c.Prefix)
	if len(body) > 64 {
		body = body[:64]
	}
	return []byte(body), GasInfo{}, nil
}

func (c *SimpleBech32Codec) Humanize(canonical []byte) (string, GasInfo, error) {
	if len(canonical) > 64 {
		return "", GasInfo{}, User("canonical address exceeds 64 bytes")
	}
	return c.Prefix + string(canonical), GasInfo{}, nil
}
