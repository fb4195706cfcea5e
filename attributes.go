package aflib

import (
	"encoding/binary"
	"fmt"
)

// Get requests the current value of an attribute from the hub service. The
// value, if any, arrives later through the notify handler; this is a fire
// and forget request. The protocol carries no correlation token, so when
// several gets for the same id are outstanding a notification cannot be
// attributed to a specific one.
func (c *Client) Get(attrID uint16) error {
	if !c.Connected() {
		return ErrUnavailable
	}

	return c.send(encodeGetRequest(attrID))
}

// Set requests an attribute change on the hub service. Values are limited
// to MaxAttributeSize bytes and, when a profile has been attached, to the
// attribute's declared maximum length. Acceptance feedback, if the hub
// provides any, arrives as an ordinary notification.
func (c *Client) Set(attrID uint16, value []byte) error {
	if len(value) > MaxAttributeSize {
		return fmt.Errorf("%w: value length %d exceeds %d", ErrInvalidParam, len(value), MaxAttributeSize)
	}

	c.m.Lock()
	schema := c.schema
	c.m.Unlock()

	if schema != nil {
		if a := schema.Find(attrID); a != nil && len(value) > int(a.MaxLength) {
			return fmt.Errorf("%w: value length %d exceeds attribute %d maximum of %d", ErrInvalidParam, len(value), attrID, a.MaxLength)
		}
	}

	if !c.Connected() {
		return ErrUnavailable
	}

	return c.send(encodeSetRequest(attrID, value))
}

// Typed variants of Set, for convenience. Integers are encoded little
// endian, two's complement; booleans as a single 0 or 1 byte; strings as
// their raw UTF-8 bytes.

func (c *Client) SetBool(attrID uint16, value bool) error {
	b := byte(0)
	if value {
		b = 1
	}

	return c.Set(attrID, []byte{b})
}

func (c *Client) SetInt8(attrID uint16, value int8) error {
	return c.Set(attrID, []byte{byte(value)})
}

func (c *Client) SetInt16(attrID uint16, value int16) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(value))

	return c.Set(attrID, buf)
}

func (c *Client) SetInt32(attrID uint16, value int32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))

	return c.Set(attrID, buf)
}

func (c *Client) SetInt64(attrID uint16, value int64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(value))

	return c.Set(attrID, buf)
}

func (c *Client) SetString(attrID uint16, value string) error {
	return c.Set(attrID, []byte(value))
}
