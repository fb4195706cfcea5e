package aflib

import (
	"encoding/binary"
	"fmt"
)

// MaxAttributeSize is the largest attribute value the API will accept.
const MaxAttributeSize = 255

// Message opcodes on the attribute channel. Framing below this level is the
// transport's concern; these records are the unit the dispatcher works in.
const (
	opGetRequest  uint8 = 0x01
	opSetRequest  uint8 = 0x02
	opSetResponse uint8 = 0x03
	opNotify      uint8 = 0x04
)

type getRequest struct {
	attrID uint16
}

type setRequest struct {
	attrID uint16
	value  []byte
}

type setResponse struct {
	attrID   uint16
	accepted bool
}

type notify struct {
	attrID uint16
	value  []byte
}

func encodeGetRequest(attrID uint16) []byte {
	msg := make([]byte, 3)
	msg[0] = opGetRequest
	binary.LittleEndian.PutUint16(msg[1:3], attrID)
	return msg
}

func encodeSetRequest(attrID uint16, value []byte) []byte {
	msg := make([]byte, 5+len(value))
	msg[0] = opSetRequest
	binary.LittleEndian.PutUint16(msg[1:3], attrID)
	binary.LittleEndian.PutUint16(msg[3:5], uint16(len(value)))
	copy(msg[5:], value)
	return msg
}

func encodeSetResponse(attrID uint16, accepted bool) []byte {
	msg := make([]byte, 4)
	msg[0] = opSetResponse
	binary.LittleEndian.PutUint16(msg[1:3], attrID)
	if accepted {
		msg[3] = 1
	}
	return msg
}

func encodeNotify(attrID uint16, value []byte) []byte {
	msg := make([]byte, 5+len(value))
	msg[0] = opNotify
	binary.LittleEndian.PutUint16(msg[1:3], attrID)
	binary.LittleEndian.PutUint16(msg[3:5], uint16(len(value)))
	copy(msg[5:], value)
	return msg
}

// decodeMessage parses one inbound message, returning one of getRequest,
// setRequest, setResponse or notify. Input is a semi-trusted peer's, so
// malformation is an error to log and drop, never a panic.
func decodeMessage(msg []byte) (any, error) {
	if len(msg) < 3 {
		return nil, fmt.Errorf("message too short: %d bytes", len(msg))
	}

	op := msg[0]
	attrID := binary.LittleEndian.Uint16(msg[1:3])

	switch op {
	case opGetRequest:
		if len(msg) != 3 {
			return nil, fmt.Errorf("get request: %d trailing bytes", len(msg)-3)
		}
		return getRequest{attrID: attrID}, nil

	case opSetRequest, opNotify:
		if len(msg) < 5 {
			return nil, fmt.Errorf("opcode 0x%02x: truncated length field", op)
		}

		length := int(binary.LittleEndian.Uint16(msg[3:5]))
		if length > MaxAttributeSize {
			return nil, fmt.Errorf("opcode 0x%02x: value length %d exceeds maximum", op, length)
		}
		if len(msg)-5 != length {
			return nil, fmt.Errorf("opcode 0x%02x: declared %d value bytes, %d present", op, length, len(msg)-5)
		}

		value := make([]byte, length)
		copy(value, msg[5:])

		if op == opSetRequest {
			return setRequest{attrID: attrID, value: value}, nil
		}
		return notify{attrID: attrID, value: value}, nil

	case opSetResponse:
		if len(msg) != 4 {
			return nil, fmt.Errorf("set response: bad length %d", len(msg))
		}
		return setResponse{attrID: attrID, accepted: msg[3] != 0}, nil

	default:
		return nil, fmt.Errorf("unknown opcode 0x%02x", op)
	}
}
