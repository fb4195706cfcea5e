package aflib

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgekit/aflib/profile"
)

func TestGetSetAvailability(t *testing.T) {
	t.Run("get and set fail while disconnected and emit nothing", func(t *testing.T) {
		c, tr := newTestClient(t, nil, nil)

		assert.ErrorIs(t, c.Get(1), ErrUnavailable)
		assert.ErrorIs(t, c.Set(1, []byte{0x01}), ErrUnavailable)
		assert.Empty(t, tr.sentMessages())
	})

	t.Run("get and set succeed while connected", func(t *testing.T) {
		c, tr := newTestClient(t, nil, nil)
		c.receiveConnectionState(true)

		assert.NoError(t, c.Get(9))
		assert.NoError(t, c.Set(9, []byte{0xaa, 0xbb}))

		assert.Equal(t, [][]byte{
			encodeGetRequest(9),
			encodeSetRequest(9, []byte{0xaa, 0xbb}),
		}, tr.sentMessages())
	})

	t.Run("operations return unavailable again after a disconnect", func(t *testing.T) {
		c, _ := newTestClient(t, nil, nil)

		c.receiveConnectionState(true)
		assert.NoError(t, c.Get(1))

		c.receiveConnectionState(false)
		assert.ErrorIs(t, c.Get(1), ErrUnavailable)
		assert.ErrorIs(t, c.Set(1, nil), ErrUnavailable)
	})
}

func TestSetValidation(t *testing.T) {
	t.Run("every set variant rejects values over the size limit without emitting", func(t *testing.T) {
		c, tr := newTestClient(t, nil, nil)
		c.receiveConnectionState(true)

		oversized := make([]byte, MaxAttributeSize+1)
		assert.ErrorIs(t, c.Set(1, oversized), ErrInvalidParam)

		longString := string(make([]byte, MaxAttributeSize+1))
		assert.ErrorIs(t, c.SetString(1, longString), ErrInvalidParam)

		assert.Empty(t, tr.sentMessages())
	})

	t.Run("a value at exactly the size limit is accepted", func(t *testing.T) {
		c, tr := newTestClient(t, nil, nil)
		c.receiveConnectionState(true)

		assert.NoError(t, c.Set(1, make([]byte, MaxAttributeSize)))
		assert.Len(t, tr.sentMessages(), 1)
	})

	t.Run("an attached profile enforces the attribute's declared maximum", func(t *testing.T) {
		p, err := profile.Parse(buildTestProfile())
		assert.NoError(t, err)

		c, tr := newTestClient(t, nil, nil)
		c.receiveConnectionState(true)
		c.SetProfile(p)

		assert.ErrorIs(t, c.Set(2, []byte("too long for four")), ErrInvalidParam)
		assert.NoError(t, c.Set(2, []byte{1, 2, 3, 4}))

		// Ids the profile does not describe are passed through unchecked.
		assert.NoError(t, c.Set(9999, make([]byte, 100)))

		assert.Len(t, tr.sentMessages(), 2)
	})
}

func TestTypedSetters(t *testing.T) {
	c, tr := newTestClient(t, nil, nil)
	c.receiveConnectionState(true)

	assert.NoError(t, c.SetBool(1, true))
	assert.NoError(t, c.SetBool(1, false))
	assert.NoError(t, c.SetInt8(1, -2))
	assert.NoError(t, c.SetInt16(1, -2))
	assert.NoError(t, c.SetInt32(1, -2))
	assert.NoError(t, c.SetInt64(1, -2))
	assert.NoError(t, c.SetString(1, "hub"))

	expected := [][]byte{
		encodeSetRequest(1, []byte{0x01}),
		encodeSetRequest(1, []byte{0x00}),
		encodeSetRequest(1, []byte{0xfe}),
		encodeSetRequest(1, []byte{0xfe, 0xff}),
		encodeSetRequest(1, []byte{0xfe, 0xff, 0xff, 0xff}),
		encodeSetRequest(1, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}),
		encodeSetRequest(1, []byte("hub")),
	}

	assert.Equal(t, expected, tr.sentMessages())
}

// buildTestProfile assembles a small binary profile: attribute 1 is a
// boolean flagged for flash storage, attribute 2 a four byte integer.
func buildTestProfile() []byte {
	records := []struct {
		id, attrType, flags, maxLength uint16
	}{
		{1, uint16(profile.TypeBoolean), uint16(profile.FlagRead | profile.FlagWrite | profile.FlagStoreInFlash), 1},
		{2, uint16(profile.TypeSInt32), uint16(profile.FlagRead | profile.FlagWrite), 4},
	}

	data := make([]byte, 8+len(records)*8)
	binary.LittleEndian.PutUint16(data[0:2], profile.Magic)
	binary.LittleEndian.PutUint16(data[2:4], profile.Version)
	binary.LittleEndian.PutUint16(data[4:6], uint16(len(records)))

	for i, r := range records {
		record := data[8+i*8:]
		binary.LittleEndian.PutUint16(record[0:2], r.id)
		binary.LittleEndian.PutUint16(record[2:4], r.attrType)
		binary.LittleEndian.PutUint16(record[4:6], r.flags)
		binary.LittleEndian.PutUint16(record[6:8], r.maxLength)
	}

	return data
}
