package registry

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// IdKind tags the variant of a token Identifier. The order of the
// constants defines the variant precedence used by Compare.
type IdKind byte

const (
	IdKindU8 IdKind = iota
	IdKindU16
	IdKindU32
	IdKindU64
	IdKindU128
	IdKindBytes
)

const (
	idWidthU8   = 1
	idWidthU16  = 2
	idWidthU32  = 4
	idWidthU64  = 8
	idWidthU128 = 16
)

// Id is the tagged identifier naming a token or the collection itself.
// Integer variants up to 64 bits live in Num, the U128 and Bytes
// variants live in Raw.
type Id struct {
	Kind IdKind
	Num  uint64
	Raw  []byte
}

func NewU8Id(v uint8) Id {
	return Id{Kind: IdKindU8, Num: uint64(v)}
}

func NewU16Id(v uint16) Id {
	return Id{Kind: IdKindU16, Num: uint64(v)}
}

func NewU32Id(v uint32) Id {
	return Id{Kind: IdKindU32, Num: uint64(v)}
}

func NewU64Id(v uint64) Id {
	return Id{Kind: IdKindU64, Num: v}
}

func NewU128Id(raw []byte) Id {
	buf := make([]byte, idWidthU128)
	copy(buf[idWidthU128-len(raw):], raw)
	return Id{Kind: IdKindU128, Raw: buf}
}

func NewBytesId(raw []byte) Id {
	return Id{Kind: IdKindBytes, Raw: raw}
}

// CollectionToken is the reserved pseudo-token that stores
// collection-level attributes.
func CollectionToken() Id {
	return NewU8Id(0)
}

func (id Id) Validate() error {
	switch id.Kind {
	case IdKindU8:
		if id.Num > 0xff {
			return fmt.Errorf("u8 id out of range %d", id.Num)
		}
	case IdKindU16:
		if id.Num > 0xffff {
			return fmt.Errorf("u16 id out of range %d", id.Num)
		}
	case IdKindU32:
		if id.Num > 0xffffffff {
			return fmt.Errorf("u32 id out of range %d", id.Num)
		}
	case IdKindU64:
	case IdKindU128:
		if len(id.Raw) != idWidthU128 {
			return fmt.Errorf("u128 id invalid width %d", len(id.Raw))
		}
	case IdKindBytes:
		if len(id.Raw) == 0 {
			return fmt.Errorf("bytes id empty")
		}
	default:
		return fmt.Errorf("invalid id kind %d", id.Kind)
	}
	return nil
}

// Key encodes the Id as a self-describing byte string whose
// lexicographic order over same-kind values matches Compare. It is
// used directly inside storage keys.
func (id Id) Key() []byte {
	switch id.Kind {
	case IdKindU8:
		return []byte{byte(id.Kind), byte(id.Num)}
	case IdKindU16:
		buf := make([]byte, 1+idWidthU16)
		buf[0] = byte(id.Kind)
		binary.BigEndian.PutUint16(buf[1:], uint16(id.Num))
		return buf
	case IdKindU32:
		buf := make([]byte, 1+idWidthU32)
		buf[0] = byte(id.Kind)
		binary.BigEndian.PutUint32(buf[1:], uint32(id.Num))
		return buf
	case IdKindU64:
		buf := make([]byte, 1+idWidthU64)
		buf[0] = byte(id.Kind)
		binary.BigEndian.PutUint64(buf[1:], id.Num)
		return buf
	case IdKindU128, IdKindBytes:
		buf := make([]byte, 0, 1+len(id.Raw))
		buf = append(buf, byte(id.Kind))
		return append(buf, id.Raw...)
	}
	panic(id.Kind)
}

// Compare orders two Ids by variant tag first, then by value.
func (id Id) Compare(other Id) int {
	if id.Kind != other.Kind {
		if id.Kind < other.Kind {
			return -1
		}
		return 1
	}
	switch id.Kind {
	case IdKindU128, IdKindBytes:
		return bytes.Compare(id.Raw, other.Raw)
	default:
		if id.Num < other.Num {
			return -1
		} else if id.Num > other.Num {
			return 1
		}
		return 0
	}
}

func (id Id) Equal(other Id) bool {
	return id.Compare(other) == 0
}

// IsCollection checks for the reserved U8 zero pseudo-token.
func (id Id) IsCollection() bool {
	return id.Kind == IdKindU8 && id.Num == 0
}

// IsZeroInteger reports whether the Id is an integer variant of value
// zero. Zero-valued integer ids of every width are construction-time
// guards and never name a mintable token.
func (id Id) IsZeroInteger() bool {
	switch id.Kind {
	case IdKindU8, IdKindU16, IdKindU32, IdKindU64:
		return id.Num == 0
	}
	return false
}

func (id Id) String() string {
	switch id.Kind {
	case IdKindU8:
		return "u8:" + strconv.FormatUint(id.Num, 10)
	case IdKindU16:
		return "u16:" + strconv.FormatUint(id.Num, 10)
	case IdKindU32:
		return "u32:" + strconv.FormatUint(id.Num, 10)
	case IdKindU64:
		return "u64:" + strconv.FormatUint(id.Num, 10)
	case IdKindU128:
		return "u128:" + hex.EncodeToString(id.Raw)
	case IdKindBytes:
		return "bytes:" + hex.EncodeToString(id.Raw)
	}
	panic(id.Kind)
}

// IdFromKey decodes the encoding produced by Key.
func IdFromKey(buf []byte) (Id, error) {
	if len(buf) < 2 {
		return Id{}, fmt.Errorf("invalid id key %x", buf)
	}
	kind, payload := IdKind(buf[0]), buf[1:]
	id := Id{Kind: kind}
	switch kind {
	case IdKindU8, IdKindU16, IdKindU32, IdKindU64:
		widths := map[IdKind]int{
			IdKindU8:  idWidthU8,
			IdKindU16: idWidthU16,
			IdKindU32: idWidthU32,
			IdKindU64: idWidthU64,
		}
		if len(payload) != widths[kind] {
			return Id{}, fmt.Errorf("invalid id key %x", buf)
		}
		for _, b := range payload {
			id.Num = id.Num<<8 | uint64(b)
		}
	case IdKindU128, IdKindBytes:
		id.Raw = append([]byte{}, payload...)
	default:
		return Id{}, fmt.Errorf("invalid id key %x", buf)
	}
	if err := id.Validate(); err != nil {
		return Id{}, err
	}
	return id, nil
}

// ParseId reads the textual form produced by String. A bare decimal
// number is accepted as a u64 id.
func ParseId(s string) (Id, error) {
	kind, value, found := strings.Cut(s, ":")
	if !found {
		num, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Id{}, fmt.Errorf("invalid id %s", s)
		}
		return NewU64Id(num), nil
	}
	switch kind {
	case "u8", "u16", "u32", "u64":
		num, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Id{}, fmt.Errorf("invalid id %s", s)
		}
		id := Id{Num: num}
		switch kind {
		case "u8":
			id.Kind = IdKindU8
		case "u16":
			id.Kind = IdKindU16
		case "u32":
			id.Kind = IdKindU32
		case "u64":
			id.Kind = IdKindU64
		}
		if err := id.Validate(); err != nil {
			return Id{}, err
		}
		return id, nil
	case "u128", "bytes":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return Id{}, fmt.Errorf("invalid id %s", s)
		}
		id := Id{Kind: IdKindBytes, Raw: raw}
		if kind == "u128" {
			if len(raw) > idWidthU128 {
				return Id{}, fmt.Errorf("invalid id %s", s)
			}
			id = NewU128Id(raw)
		}
		if err := id.Validate(); err != nil {
			return Id{}, err
		}
		return id, nil
	}
	return Id{}, fmt.Errorf("invalid id kind %s", kind)
}
