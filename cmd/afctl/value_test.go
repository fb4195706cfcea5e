package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgekit/aflib/profile"
)

func sampleProfile(t *testing.T) *profile.Profile {
	// Attribute 7 is a sint32, attribute 8 a utf8s string.
	p, err := profile.Parse([]byte{
		0x50, 0xaf, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00,
		0x07, 0x00, 0x04, 0x00, 0x05, 0x00, 0x04, 0x00,
		0x08, 0x00, 0x14, 0x00, 0x01, 0x00, 0x10, 0x00,
	})
	require.NoError(t, err)
	return p
}

func TestParseAttrID(t *testing.T) {
	t.Run("accepts decimal and hex ids", func(t *testing.T) {
		id, err := parseAttrID("1024")
		assert.NoError(t, err)
		assert.Equal(t, uint16(1024), id)

		id, err = parseAttrID("0x400")
		assert.NoError(t, err)
		assert.Equal(t, uint16(1024), id)
	})

	t.Run("rejects out of range and junk", func(t *testing.T) {
		_, err := parseAttrID("65536")
		assert.Error(t, err)

		_, err = parseAttrID("cheese")
		assert.Error(t, err)
	})
}

func TestParseHexValue(t *testing.T) {
	t.Run("tolerates common separators", func(t *testing.T) {
		value, err := parseHexValue("01:02-03 04")
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, value)

		value, err = parseHexValue("0xff")
		assert.NoError(t, err)
		assert.Equal(t, []byte{0xff}, value)
	})

	t.Run("rejects odd length and non hex input", func(t *testing.T) {
		_, err := parseHexValue("abc")
		assert.Error(t, err)

		_, err = parseHexValue("zz")
		assert.Error(t, err)
	})
}

func TestFormatValue(t *testing.T) {
	t.Run("decodes typed values alongside the hex", func(t *testing.T) {
		p := sampleProfile(t)

		assert.Equal(t, "-2 (feffffff)", formatValue(p, 7, []byte{0xfe, 0xff, 0xff, 0xff}))
		assert.Equal(t, `"hi" (6869)`, formatValue(p, 8, []byte{'h', 'i'}))
	})

	t.Run("falls back to hex without a profile or matching attribute", func(t *testing.T) {
		assert.Equal(t, "0102", formatValue(nil, 7, []byte{0x01, 0x02}))

		p := sampleProfile(t)
		assert.Equal(t, "0102", formatValue(p, 99, []byte{0x01, 0x02}))
	})

	t.Run("a typed value of the wrong length is shown as hex", func(t *testing.T) {
		p := sampleProfile(t)

		assert.Equal(t, "01", formatValue(p, 7, []byte{0x01}))
	})
}

func TestParseBoolValue(t *testing.T) {
	t.Run("understands on and off as well as Go booleans", func(t *testing.T) {
		for _, s := range []string{"on", "true", "1"} {
			v, err := parseBoolValue(s)
			assert.NoError(t, err)
			assert.True(t, v)
		}

		for _, s := range []string{"off", "false", "0"} {
			v, err := parseBoolValue(s)
			assert.NoError(t, err)
			assert.False(t, v)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		_, err := parseBoolValue("maybe")
		assert.Error(t, err)
	})
}
