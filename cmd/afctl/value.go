package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgekit/aflib/profile"
)

func parseAttrID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("attribute id %q: %w", s, err)
	}

	return uint16(v), nil
}

// parseHexValue accepts hex with the separators people paste in, like
// "01:02" or "0x0102".
func parseHexValue(s string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "-", "", "0x", "").Replace(s)

	value, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value: %w", err)
	}

	return value, nil
}

// formatValue renders a value for display, decoding it according to the
// profile when the attribute's type is known, always alongside the raw hex.
func formatValue(p *profile.Profile, attrID uint16, value []byte) string {
	raw := hex.EncodeToString(value)

	if p == nil {
		return raw
	}

	a := p.Find(attrID)
	if a == nil {
		return raw
	}

	switch a.Type {
	case profile.TypeBoolean:
		if len(value) == 1 {
			return fmt.Sprintf("%t (%s)", value[0] != 0, raw)
		}
	case profile.TypeSInt8:
		if len(value) == 1 {
			return fmt.Sprintf("%d (%s)", int8(value[0]), raw)
		}
	case profile.TypeSInt16:
		if len(value) == 2 {
			return fmt.Sprintf("%d (%s)", int16(binary.LittleEndian.Uint16(value)), raw)
		}
	case profile.TypeSInt32:
		if len(value) == 4 {
			return fmt.Sprintf("%d (%s)", int32(binary.LittleEndian.Uint32(value)), raw)
		}
	case profile.TypeSInt64:
		if len(value) == 8 {
			return fmt.Sprintf("%d (%s)", int64(binary.LittleEndian.Uint64(value)), raw)
		}
	case profile.TypeUTF8S:
		return fmt.Sprintf("%q (%s)", string(value), raw)
	}

	return raw
}
