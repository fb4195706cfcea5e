package profile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// DefaultPath is where the hub installs the device profile.
const DefaultPath = "/etc/af/profile.bin"

const (
	// Magic marks the start of a binary profile.
	Magic uint16 = 0xAF50

	// Version is the newest profile format revision this parser understands.
	Version uint16 = 2

	headerLength = 8
	recordLength = 8
)

// Ceilings on what a profile file may declare, bounding the allocation a
// corrupt or hostile file can force.
const (
	MaxAttributeCount = 1024
	MaxProfileSize    = 64 * 1024
)

var (
	ErrNotFound  = errors.New("profile: file not found")
	ErrCorrupted = errors.New("profile: corrupted")
	ErrTooBig    = errors.New("profile: exceeds size ceiling")
	ErrTooNew    = errors.New("profile: version newer than supported")
)

// AttributeType enumerates the declared value types of an attribute.
type AttributeType uint16

const (
	TypeBoolean    AttributeType = 1
	TypeSInt8      AttributeType = 2
	TypeSInt16     AttributeType = 3
	TypeSInt32     AttributeType = 4
	TypeSInt64     AttributeType = 5
	TypeFixed16_16 AttributeType = 6
	TypeFixed32_32 AttributeType = 7
	TypeUTF8S      AttributeType = 20
	TypeBytes      AttributeType = 21
)

func (t AttributeType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeSInt8:
		return "sint8"
	case TypeSInt16:
		return "sint16"
	case TypeSInt32:
		return "sint32"
	case TypeSInt64:
		return "sint64"
	case TypeFixed16_16:
		return "fixed16.16"
	case TypeFixed32_32:
		return "fixed32.32"
	case TypeUTF8S:
		return "utf8s"
	case TypeBytes:
		return "bytes"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

func knownType(t AttributeType) bool {
	switch t {
	case TypeBoolean, TypeSInt8, TypeSInt16, TypeSInt32, TypeSInt64,
		TypeFixed16_16, TypeFixed32_32, TypeUTF8S, TypeBytes:
		return true
	default:
		return false
	}
}

// AttributeFlag is a bitset describing how an attribute may be used.
type AttributeFlag uint16

const (
	FlagRead         AttributeFlag = 0x0001
	FlagReadNotify   AttributeFlag = 0x0002
	FlagWrite        AttributeFlag = 0x0004
	FlagWriteNotify  AttributeFlag = 0x0008
	FlagHasDefault   AttributeFlag = 0x0010
	FlagLatch        AttributeFlag = 0x0020
	FlagMCUHide      AttributeFlag = 0x0040
	FlagPassThrough  AttributeFlag = 0x0080
	FlagStoreInFlash AttributeFlag = 0x0100

	flagMask AttributeFlag = 0x01ff
)

// Attribute is a single descriptor from a profile. Descriptors are owned by
// the Profile and must be treated as read only, with the exception of
// UserData, which is reserved for the caller.
type Attribute struct {
	ID        uint16
	Type      AttributeType
	Flags     AttributeFlag
	MaxLength uint16

	UserData any
}

func (a *Attribute) Writable() bool {
	return a.Flags&FlagWrite != 0
}

// Profile is the parsed attribute directory. Immutable once loaded, safe to
// share by reference between any number of readers.
type Profile struct {
	version    uint16
	attributes []Attribute
	byID       map[uint16]*Attribute
}

// Load reads and parses a binary profile. An empty path selects DefaultPath.
func Load(path string) (*Profile, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a profile from an in-memory blob. It never panics on
// malformed input; every field read is bounds checked against the buffer
// before it happens.
func Parse(data []byte) (*Profile, error) {
	if len(data) > MaxProfileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooBig, len(data))
	}

	if len(data) < headerLength {
		return nil, fmt.Errorf("%w: truncated header, %d bytes", ErrCorrupted, len(data))
	}

	magic := binary.LittleEndian.Uint16(data[0:2])
	version := binary.LittleEndian.Uint16(data[2:4])
	count := binary.LittleEndian.Uint16(data[4:6])

	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%04x", ErrCorrupted, magic)
	}

	if version > Version {
		return nil, fmt.Errorf("%w: version %d, supported up to %d", ErrTooNew, version, Version)
	}

	if int(count) > MaxAttributeCount {
		return nil, fmt.Errorf("%w: %d attributes", ErrTooBig, count)
	}

	body := data[headerLength:]
	if len(body) != int(count)*recordLength {
		return nil, fmt.Errorf("%w: %d attributes declared, %d bytes of records", ErrCorrupted, count, len(body))
	}

	p := &Profile{
		version:    version,
		attributes: make([]Attribute, count),
		byID:       make(map[uint16]*Attribute, count),
	}

	for i := 0; i < int(count); i++ {
		record := body[i*recordLength : (i+1)*recordLength]

		attr := Attribute{
			ID:        binary.LittleEndian.Uint16(record[0:2]),
			Type:      AttributeType(binary.LittleEndian.Uint16(record[2:4])),
			Flags:     AttributeFlag(binary.LittleEndian.Uint16(record[4:6])),
			MaxLength: binary.LittleEndian.Uint16(record[6:8]),
		}

		if !knownType(attr.Type) {
			return nil, fmt.Errorf("%w: attribute %d has unknown type %d", ErrCorrupted, attr.ID, attr.Type)
		}

		if attr.Flags&^flagMask != 0 {
			return nil, fmt.Errorf("%w: attribute %d has unknown flags 0x%04x", ErrCorrupted, attr.ID, attr.Flags)
		}

		if _, duplicate := p.byID[attr.ID]; duplicate {
			return nil, fmt.Errorf("%w: duplicate attribute id %d", ErrCorrupted, attr.ID)
		}

		p.attributes[i] = attr
		p.byID[attr.ID] = &p.attributes[i]
	}

	return p, nil
}

// Version reports the format revision the profile was written with.
func (p *Profile) Version() uint16 {
	return p.version
}

// Find returns the descriptor for an attribute id, or nil if the profile
// does not contain it.
func (p *Profile) Find(attrID uint16) *Attribute {
	return p.byID[attrID]
}

// Attributes returns the descriptors in file order. The returned slice is
// shared with the profile and must not be modified.
func (p *Profile) Attributes() []Attribute {
	return p.attributes
}
