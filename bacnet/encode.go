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
	"fmt"
)

// primitiveContent returns the content octets of a primitive datum.
// Booleans get their one octet context form.
func primitiveContent(d Datum) ([]byte, error) {
	switch x := d.(type) {
	case Null:
		return nil, nil
	case Boolean:
		return EncodeBoolean(bool(x)), nil
	case Unsigned:
		return EncodeUnsigned(uint64(x)), nil
	case Signed:
		return EncodeSigned(int64(x)), nil
	case Real:
		return EncodeReal(float32(x)), nil
	case Double:
		return EncodeDouble(float64(x)), nil
	case OctetString:
		return []byte(x), nil
	case CharacterString:
		return EncodeCharacterString(x), nil
	case BitString:
		return EncodeBitString(x), nil
	case Enumerated:
		return EncodeEnumerated(uint32(x)), nil
	case Date:
		return EncodeDate(x)
	case Time:
		return EncodeTime(x), nil
	case ObjectIdentifier:
		if err := x.validate(); err != nil {
			return nil, err
		}
		return EncodeObjectIdentifier(x), nil
	case WeekNDay:
		return EncodeWeekNDay(x), nil
	case Opaque:
		return x.Data, nil
	}
	return nil, fmt.Errorf("%w: %T as a primitive", ErrUnsupportedType, d)
}

// AppendApplicationValue appends the application tagged encoding of v,
// ignoring its context tagging. Compound values are written as their
// bare sequence. A WeekNDay is written as a 3 octet octet string.
func AppendApplicationValue(dst []byte, v Value) ([]byte, error) {
	switch d := v.Data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: invalid value", ErrUnsupportedType)
	case Null:
		return AppendTag(dst, uint8(TagNull), TagClassApplication, 0), nil
	case Boolean:
		return AppendTag(dst, uint8(TagBoolean), TagClassApplication, boolLVT(bool(d))), nil
	case WeekNDay:
		return appendApplication(dst, TagOctetString, EncodeWeekNDay(d)), nil
	case EmptyList:
		return dst, nil
	case Opaque:
		return nil, fmt.Errorf("%w: opaque data has no application tag", ErrUnsupportedType)
	case Constructed:
		var err error
		for _, inner := range d.Values {
			if dst, err = AppendValue(dst, inner); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}

	kind := v.Tag()
	if !kind.IsPrimitive() {
		return appendCompound(dst, v.Data)
	}
	content, err := primitiveContent(v.Data)
	if err != nil {
		return nil, err
	}
	return appendApplication(dst, kind, content), nil
}

// AppendContextValue appends v under context tag tagNum. Primitive values
// are written as a context tagged primitive; compound and constructed
// values are enclosed in opening and closing tag tagNum.
func AppendContextValue(dst []byte, tagNum uint8, v Value) ([]byte, error) {
	switch d := v.Data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: invalid value", ErrUnsupportedType)
	case EmptyList:
		dst = append(dst, EncodeOpeningTag(tagNum)...)
		return append(dst, EncodeClosingTag(tagNum)...), nil
	case Constructed:
		var err error
		dst = append(dst, EncodeOpeningTag(tagNum)...)
		for _, inner := range d.Values {
			if dst, err = AppendValue(dst, inner); err != nil {
				return nil, err
			}
		}
		return append(dst, EncodeClosingTag(tagNum)...), nil
	}

	kind := v.Tag()
	if kind.IsPrimitive() || kind == TagWeekNDay || kind == TagOpaque {
		content, err := primitiveContent(v.Data)
		if err != nil {
			return nil, err
		}
		return appendContext(dst, tagNum, content), nil
	}

	dst, err := appendCompound(append(dst, EncodeOpeningTag(tagNum)...), v.Data)
	if err != nil {
		return nil, err
	}
	return append(dst, EncodeClosingTag(tagNum)...), nil
}

// AppendValue appends v in the form its tagging asks for
func AppendValue(dst []byte, v Value) ([]byte, error) {
	if v.ContextSpecific {
		return AppendContextValue(dst, v.ContextTag, v)
	}
	return AppendApplicationValue(dst, v)
}

// EncodeApplicationValue encodes v with application tagging
func EncodeApplicationValue(v Value) ([]byte, error) {
	return AppendApplicationValue(nil, v)
}

// EncodeContextValue encodes v under context tag tagNum
func EncodeContextValue(tagNum uint8, v Value) ([]byte, error) {
	return AppendContextValue(nil, tagNum, v)
}

// EncodeValue encodes v in the form its tagging asks for
func EncodeValue(v Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// EncodeValues encodes a sequence of values back to back
func EncodeValues(values ...Value) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	for _, v := range values {
		if buf, err = AppendValue(buf, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// EncodeConstructed encodes values enclosed in opening and closing tag tagNum
func EncodeConstructed(tagNum uint8, values ...Value) ([]byte, error) {
	return EncodeContextValue(tagNum, Value{Data: Constructed{Values: values}})
}

// ValueLen returns the number of octets EncodeValue produces for v
func ValueLen(v Value) (int, error) {
	buf, err := AppendValue(nil, v)
	if err != nil {
		return 0, err
	}
	return len(buf), nil
}

// EncodeValueTo encodes v into dst and returns the number of octets
// written. If dst is too small it returns ErrBufferExceeded and leaves
// dst untouched.
func EncodeValueTo(dst []byte, v Value) (int, error) {
	buf, err := AppendValue(nil, v)
	if err != nil {
		return 0, err
	}
	if len(buf) > len(dst) {
		return 0, fmt.Errorf("%w: value needs %d octets, buffer holds %d", ErrBufferExceeded, len(buf), len(dst))
	}
	return copy(dst, buf), nil
}
