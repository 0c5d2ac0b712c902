// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"encoding/binary"
	"fmt"
)

// Length/value/type field values with a special meaning
const (
	lvtExtended = 5
	lvtOpening  = 6
	lvtClosing  = 7
)

// extendedTagNumber is the tag number nibble announcing an extension octet
const extendedTagNumber = 0x0F

// Tag is a decoded BACnet tag header.
//
// LenValueType is the content length in octets, except for an application
// tagged boolean where it is the boolean value itself. It is zero for
// opening and closing tags.
type Tag struct {
	Number       uint8
	Class        TagClass
	Opening      bool
	Closing      bool
	LenValueType uint32
}

// IsContext reports whether the tag is context specific
func (t Tag) IsContext() bool {
	return t.Class == TagClassContext
}

// IsPrimitive reports whether the tag carries a value rather than
// delimiting constructed data
func (t Tag) IsPrimitive() bool {
	return !t.Opening && !t.Closing
}

// ContentLen returns how many octets of content follow the header
func (t Tag) ContentLen() int {
	if !t.IsPrimitive() {
		return 0
	}
	if t.Class == TagClassApplication && t.Number == uint8(TagBoolean) {
		return 0
	}
	return int(t.LenValueType)
}

func (t Tag) String() string {
	switch {
	case t.Opening:
		return fmt.Sprintf("opening[%d]", t.Number)
	case t.Closing:
		return fmt.Sprintf("closing[%d]", t.Number)
	case t.IsContext():
		return fmt.Sprintf("context[%d] len=%d", t.Number, t.LenValueType)
	}
	return fmt.Sprintf("%s lvt=%d", ApplicationTag(t.Number), t.LenValueType)
}

// TagLen returns the size of the header EncodeTag would produce
func TagLen(tagNum uint8, lenValueType uint32) int {
	n := 1
	if tagNum >= extendedTagNumber {
		n++
	}
	switch {
	case lenValueType < lvtExtended:
	case lenValueType <= 253:
		n++
	case lenValueType <= 0xFFFF:
		n += 3
	default:
		n += 5
	}
	return n
}

// EncodeTag encodes a BACnet tag header
func EncodeTag(tagNum uint8, class TagClass, lenValueType uint32) []byte {
	return AppendTag(make([]byte, 0, TagLen(tagNum, lenValueType)), tagNum, class, lenValueType)
}

// AppendTag appends a BACnet tag header to dst
func AppendTag(dst []byte, tagNum uint8, class TagClass, lenValueType uint32) []byte {
	first := uint8(class&1) << 3
	if tagNum < extendedTagNumber {
		first |= tagNum << 4
	} else {
		first |= extendedTagNumber << 4
	}
	if lenValueType < lvtExtended {
		first |= uint8(lenValueType)
	} else {
		first |= lvtExtended
	}

	dst = append(dst, first)
	if tagNum >= extendedTagNumber {
		dst = append(dst, tagNum)
	}

	switch {
	case lenValueType < lvtExtended:
	case lenValueType <= 253:
		dst = append(dst, byte(lenValueType))
	case lenValueType <= 0xFFFF:
		dst = append(dst, 254)
		dst = binary.BigEndian.AppendUint16(dst, uint16(lenValueType))
	default:
		dst = append(dst, 255)
		dst = binary.BigEndian.AppendUint32(dst, lenValueType)
	}
	return dst
}

// EncodeContextTag encodes a context-specific tag followed by its content
func EncodeContextTag(tagNum uint8, data []byte) []byte {
	tag := EncodeTag(tagNum, TagClassContext, uint32(len(data)))
	return append(tag, data...)
}

// EncodeOpeningTag encodes an opening tag for constructed data
func EncodeOpeningTag(tagNum uint8) []byte {
	if tagNum < extendedTagNumber {
		return []byte{(tagNum << 4) | 0x0E}
	}
	return []byte{0xFE, tagNum}
}

// EncodeClosingTag encodes a closing tag for constructed data
func EncodeClosingTag(tagNum uint8) []byte {
	if tagNum < extendedTagNumber {
		return []byte{(tagNum << 4) | 0x0F}
	}
	return []byte{0xFF, tagNum}
}

// DecodeTag decodes a tag header. It returns the tag and the number of
// header octets. It never reads past len(data).
func DecodeTag(data []byte) (Tag, int, error) {
	if len(data) < 1 {
		return Tag{}, 0, fmt.Errorf("%w: empty tag", ErrTruncated)
	}

	tag := Tag{
		Number: data[0] >> 4,
		Class:  TagClass((data[0] >> 3) & 0x01),
	}
	lvt := data[0] & 0x07
	n := 1

	if tag.Number == extendedTagNumber {
		if len(data) < 2 {
			return Tag{}, 0, fmt.Errorf("%w: tag number extension", ErrTruncated)
		}
		tag.Number = data[1]
		n = 2
	}

	if tag.Class == TagClassContext {
		switch lvt {
		case lvtOpening:
			tag.Opening = true
			return tag, n, nil
		case lvtClosing:
			tag.Closing = true
			return tag, n, nil
		}
	}

	if lvt != lvtExtended {
		tag.LenValueType = uint32(lvt)
		return tag, n, nil
	}

	if len(data) < n+1 {
		return Tag{}, 0, fmt.Errorf("%w: length extension", ErrTruncated)
	}
	switch ext := data[n]; ext {
	case 254:
		if len(data) < n+3 {
			return Tag{}, 0, fmt.Errorf("%w: 16-bit length", ErrTruncated)
		}
		tag.LenValueType = uint32(binary.BigEndian.Uint16(data[n+1:]))
		n += 3
	case 255:
		if len(data) < n+5 {
			return Tag{}, 0, fmt.Errorf("%w: 32-bit length", ErrTruncated)
		}
		tag.LenValueType = binary.BigEndian.Uint32(data[n+1:])
		n += 5
	default:
		tag.LenValueType = uint32(ext)
		n++
	}

	return tag, n, nil
}

// IsOpeningTag reports whether data starts with any opening tag
func IsOpeningTag(data []byte) bool {
	return len(data) > 0 && data[0]&0x0F == 0x0E
}

// IsClosingTag reports whether data starts with any closing tag
func IsClosingTag(data []byte) bool {
	return len(data) > 0 && data[0]&0x0F == 0x0F
}

// IsOpeningTagNumber reports whether data starts with opening tag tagNum
func IsOpeningTagNumber(data []byte, tagNum uint8) bool {
	tag, _, err := DecodeTag(data)
	return err == nil && tag.Opening && tag.Number == tagNum
}

// IsClosingTagNumber reports whether data starts with closing tag tagNum
func IsClosingTagNumber(data []byte, tagNum uint8) bool {
	tag, _, err := DecodeTag(data)
	return err == nil && tag.Closing && tag.Number == tagNum
}

// IsContextTagNumber reports whether data starts with a primitive context
// tag numbered tagNum
func IsContextTagNumber(data []byte, tagNum uint8) bool {
	tag, _, err := DecodeTag(data)
	return err == nil && tag.IsContext() && tag.IsPrimitive() && tag.Number == tagNum
}
