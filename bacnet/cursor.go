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
	"errors"
	"fmt"
	"io"
)

// Cursor walks a buffer of tagged values. Each Cursor owns its position,
// so any number of cursors may decode concurrently.
//
// A call that fails leaves the position where it was before the call.
type Cursor struct {
	dec      *Decoder
	data     []byte
	pos      int
	limit    int
	depth    int
	property PropertyIdentifier
}

// NewCursor returns a cursor over data using the default decoder
func NewCursor(data []byte) *Cursor {
	return defaultDecoder.NewCursor(data)
}

// NewCursor returns a cursor over data that applies the decoder's limits
func (d *Decoder) NewCursor(data []byte) *Cursor {
	return d.newCursor(data, PropertyAll)
}

// NewPropertyCursor returns a cursor that resolves context tags against
// the given property
func (d *Decoder) NewPropertyCursor(data []byte, property PropertyIdentifier) *Cursor {
	return d.newCursor(data, property)
}

func (d *Decoder) newCursor(data []byte, property PropertyIdentifier) *Cursor {
	limit := len(data)
	if d.opts.maxAPDU > 0 && d.opts.maxAPDU < limit {
		limit = d.opts.maxAPDU
	}
	return &Cursor{dec: d, data: data, limit: limit, property: property}
}

// Offset returns the number of octets consumed so far
func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining returns the number of octets not yet consumed
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Done reports whether all data has been consumed. Data past the read
// limit is never consumed; reading it fails with ErrBufferExceeded.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.data)
}

// Property returns the property context tags are resolved against
func (c *Cursor) Property() PropertyIdentifier {
	return c.property
}

// clip turns a truncation caused by the read limit rather than by the end
// of the data into ErrBufferExceeded.
func (c *Cursor) clip(err error) error {
	if errors.Is(err, ErrTruncated) && c.limit < len(c.data) {
		return fmt.Errorf("%w: read limit of %d octets", ErrBufferExceeded, c.limit)
	}
	return err
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.limit-c.pos {
		return c.clip(fmt.Errorf("%w: need %d octets at offset %d, have %d", ErrTruncated, n, c.pos, c.limit-c.pos))
	}
	return nil
}

// PeekTag decodes the next tag header without consuming it
func (c *Cursor) PeekTag() (Tag, int, error) {
	if c.pos >= c.limit {
		return Tag{}, 0, c.clip(fmt.Errorf("%w: no tag at offset %d", ErrTruncated, c.pos))
	}
	tag, n, err := DecodeTag(c.data[c.pos:c.limit])
	if err != nil {
		return Tag{}, 0, c.clip(err)
	}
	return tag, n, nil
}

// ReadTag decodes and consumes the next tag header
func (c *Cursor) ReadTag() (Tag, error) {
	tag, n, err := c.PeekTag()
	if err != nil {
		return Tag{}, err
	}
	c.pos += n
	return tag, nil
}

func (c *Cursor) content(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip consumes the next tag together with its content. An opening tag
// is skipped up to and including its matching closing tag.
func (c *Cursor) Skip() error {
	start := c.pos
	tag, err := c.ReadTag()
	if err == nil {
		if tag.Opening {
			err = c.skipEnclosed(tag.Number)
		} else {
			_, err = c.content(tag.ContentLen())
		}
	}
	if err != nil {
		c.pos = start
	}
	return err
}

// skipEnclosed consumes everything up to and including closing tag tagNum.
// The opening tag has already been read.
func (c *Cursor) skipEnclosed(tagNum uint8) error {
	open := 1
	for {
		if c.Done() {
			return c.clip(fmt.Errorf("%w: closing[%d]", ErrMissingClosingTag, tagNum))
		}
		tag, err := c.ReadTag()
		if err != nil {
			return err
		}
		switch {
		case tag.Opening && tag.Number == tagNum:
			open++
		case tag.Closing && tag.Number == tagNum:
			open--
			if open == 0 {
				return nil
			}
		case tag.IsPrimitive():
			if _, err := c.content(tag.ContentLen()); err != nil {
				return err
			}
		}
	}
}

// Next decodes the next value. Application tagged values are decoded by
// their tag; context tagged values are resolved against the cursor's
// property. It returns io.EOF once all data has been consumed.
func (c *Cursor) Next() (Value, error) {
	if c.Done() {
		return Value{}, io.EOF
	}
	start := c.pos
	v, err := c.next()
	if err != nil {
		c.pos = start
		return Value{}, err
	}
	return v, nil
}

func (c *Cursor) next() (Value, error) {
	tag, _, err := c.PeekTag()
	if err != nil {
		return Value{}, err
	}
	if !tag.IsContext() {
		return c.application()
	}
	v, end, err := c.contextData()
	if err != nil {
		return Value{}, err
	}
	if end {
		return Value{}, fmt.Errorf("%w: unexpected %s at offset %d", ErrMalformed, tag, c.pos)
	}
	return v, nil
}

// ContextValue decodes a value of the given kind under context tag
// tagNum. If the next tag is something else it returns ErrNoMatch and
// consumes nothing.
func (c *Cursor) ContextValue(tagNum uint8, kind ApplicationTag) (Value, error) {
	start := c.pos
	v, err := c.contextValue(tagNum, kind)
	if err != nil {
		c.pos = start
		return Value{}, err
	}
	return v, nil
}

func (c *Cursor) contextValue(tagNum uint8, kind ApplicationTag) (Value, error) {
	tag, n, err := c.PeekTag()
	if err != nil {
		return Value{}, err
	}
	if !tag.IsContext() || tag.Closing || tag.Number != tagNum {
		return Value{}, fmt.Errorf("%w: want context[%d], have %s", ErrNoMatch, tagNum, tag)
	}

	if tag.Opening {
		if kind.IsPrimitive() || kind == TagWeekNDay || kind == TagOpaque {
			return Value{}, fmt.Errorf("%w: %s under opening[%d]", ErrTypeMismatch, kind, tagNum)
		}
		c.pos += n
		d, err := c.enclosedCompound(tagNum, kind)
		if err != nil {
			return Value{}, err
		}
		return CtxValue(tagNum, d), nil
	}

	if !kind.IsPrimitive() && kind != TagWeekNDay && kind != TagOpaque {
		return Value{}, fmt.Errorf("%w: %s under primitive context[%d]", ErrTypeMismatch, kind, tagNum)
	}
	c.pos += n
	content, err := c.content(int(tag.LenValueType))
	if err != nil {
		return Value{}, err
	}
	if kind == TagOpaque {
		return CtxValue(tagNum, Opaque{Data: bytesCopy(content)}), nil
	}
	d, err := decodePrimitive(kind, content)
	if err != nil {
		return Value{}, err
	}
	return CtxValue(tagNum, d), nil
}

// enclosedCompound decodes a compound of the given kind and the closing
// tag that ends it. The opening tag has already been read.
func (c *Cursor) enclosedCompound(tagNum uint8, kind ApplicationTag) (Datum, error) {
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()

	if kind == TagEmptyList || kind == TagConstructed {
		values, err := c.enclosedValues(tagNum)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return EmptyList{}, nil
		}
		return Constructed{Values: values}, nil
	}

	d, err := decodeCompound(c, kind)
	if err != nil {
		return nil, err
	}
	if err := c.closing(tagNum); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Cursor) enter() error {
	c.depth++
	if c.depth > c.dec.opts.maxDepth {
		return fmt.Errorf("%w: depth %d at offset %d", ErrNestingTooDeep, c.depth, c.pos)
	}
	if m := c.dec.opts.metrics; m != nil {
		m.MaxDepth.SetMax(int64(c.depth))
	}
	return nil
}

func (c *Cursor) leave() {
	c.depth--
}

// application decodes an application tagged primitive. Tag numbers with
// no primitive encoding yield an invalid value after consuming only the
// header.
func (c *Cursor) application() (Value, error) {
	tag, n, err := c.PeekTag()
	if err != nil {
		return Value{}, err
	}
	if tag.IsContext() {
		return Value{}, fmt.Errorf("%w: %s where an application tag was expected", ErrNoMatch, tag)
	}
	c.pos += n

	kind := ApplicationTag(tag.Number)
	switch {
	case kind > maxApplicationTag:
		c.dec.opts.logger.Debug("unknown application tag",
			"tag", tag.Number, "offset", c.pos-n)
		return Value{}, nil
	case kind == TagNull:
		if tag.LenValueType != 0 {
			return Value{}, fmt.Errorf("%w: null of %d octets", ErrTypeMismatch, tag.LenValueType)
		}
		return AppValue(Null{}), nil
	case kind == TagBoolean:
		if tag.LenValueType > 1 {
			return Value{}, fmt.Errorf("%w: boolean value %d", ErrTypeMismatch, tag.LenValueType)
		}
		return AppValue(Boolean(tag.LenValueType == 1)), nil
	}

	content, err := c.content(int(tag.LenValueType))
	if err != nil {
		return Value{}, err
	}
	d, err := decodePrimitive(kind, content)
	if err != nil {
		return Value{}, err
	}
	return AppValue(d), nil
}

// decodePrimitive decodes content octets as the given kind. Booleans are
// decoded in their context form, with one content octet.
func decodePrimitive(kind ApplicationTag, content []byte) (Datum, error) {
	switch kind {
	case TagNull:
		if len(content) != 0 {
			return nil, fmt.Errorf("%w: null of %d octets", ErrTypeMismatch, len(content))
		}
		return Null{}, nil
	case TagBoolean:
		v, err := DecodeBoolean(content)
		return Boolean(v), err
	case TagUnsignedInt:
		v, err := DecodeUnsigned(content)
		return Unsigned(v), err
	case TagSignedInt:
		v, err := DecodeSigned(content)
		return Signed(v), err
	case TagReal:
		v, err := DecodeReal(content)
		return Real(v), err
	case TagDouble:
		v, err := DecodeDouble(content)
		return Double(v), err
	case TagOctetString:
		return OctetString(DecodeOctetString(content)), nil
	case TagCharacterString:
		return DecodeCharacterString(content)
	case TagBitString:
		return DecodeBitString(content)
	case TagEnumerated:
		v, err := DecodeEnumerated(content)
		return Enumerated(v), err
	case TagDate:
		return DecodeDate(content)
	case TagTime:
		return DecodeTime(content)
	case TagObjectID:
		return DecodeObjectIdentifierFromBytes(content)
	case TagWeekNDay:
		return DecodeWeekNDay(content)
	}
	return nil, fmt.Errorf("%w: %s as a primitive", ErrUnsupportedType, kind)
}

func bytesCopy(b []byte) []byte {
	return append([]byte{}, b...)
}

// Field readers used by the compound decoders. A reader that finds a
// different tag than it wants returns ErrNoMatch without consuming.

func (c *Cursor) peekIs(match func(Tag) bool) bool {
	tag, _, err := c.PeekTag()
	return err == nil && match(tag)
}

func (c *Cursor) peekContext(tagNum uint8) bool {
	return c.peekIs(func(t Tag) bool { return t.IsContext() && t.IsPrimitive() && t.Number == tagNum })
}

func (c *Cursor) peekOpening(tagNum uint8) bool {
	return c.peekIs(func(t Tag) bool { return t.Opening && t.Number == tagNum })
}

func (c *Cursor) peekClosing(tagNum uint8) bool {
	return c.peekIs(func(t Tag) bool { return t.Closing && t.Number == tagNum })
}

func (c *Cursor) peekApplication(kind ApplicationTag) bool {
	return c.peekIs(func(t Tag) bool { return !t.IsContext() && t.Number == uint8(kind) })
}

func (c *Cursor) opening(tagNum uint8) error {
	tag, n, err := c.PeekTag()
	if err != nil {
		return err
	}
	if !tag.Opening || tag.Number != tagNum {
		return fmt.Errorf("%w: want opening[%d], have %s", ErrNoMatch, tagNum, tag)
	}
	c.pos += n
	return nil
}

func (c *Cursor) closing(tagNum uint8) error {
	if c.Done() {
		return c.clip(fmt.Errorf("%w: closing[%d]", ErrMissingClosingTag, tagNum))
	}
	tag, n, err := c.PeekTag()
	if err != nil {
		return err
	}
	if !tag.Closing || tag.Number != tagNum {
		return fmt.Errorf("%w: want closing[%d], have %s", ErrMissingClosingTag, tagNum, tag)
	}
	c.pos += n
	return nil
}

func (c *Cursor) contextContent(tagNum uint8) ([]byte, error) {
	tag, n, err := c.PeekTag()
	if err != nil {
		return nil, err
	}
	if !tag.IsContext() || !tag.IsPrimitive() || tag.Number != tagNum {
		return nil, fmt.Errorf("%w: want context[%d], have %s", ErrNoMatch, tagNum, tag)
	}
	c.pos += n
	return c.content(int(tag.LenValueType))
}

func (c *Cursor) contextUnsigned(tagNum uint8) (uint64, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return 0, err
	}
	return DecodeUnsigned(b)
}

func (c *Cursor) contextEnumerated(tagNum uint8) (uint32, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return 0, err
	}
	return DecodeEnumerated(b)
}

func (c *Cursor) contextBoolean(tagNum uint8) (bool, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return false, err
	}
	return DecodeBoolean(b)
}

func (c *Cursor) contextReal(tagNum uint8) (float32, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return 0, err
	}
	return DecodeReal(b)
}

func (c *Cursor) contextObjectID(tagNum uint8) (ObjectIdentifier, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return ObjectIdentifier{}, err
	}
	return DecodeObjectIdentifierFromBytes(b)
}

func (c *Cursor) contextDate(tagNum uint8) (Date, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return Date{}, err
	}
	return DecodeDate(b)
}

func (c *Cursor) contextTime(tagNum uint8) (Time, error) {
	b, err := c.contextContent(tagNum)
	if err != nil {
		return Time{}, err
	}
	return DecodeTime(b)
}

// applicationOf reads an application value that must be of the given kind
func (c *Cursor) applicationOf(kind ApplicationTag) (Datum, error) {
	if !c.peekApplication(kind) {
		tag, _, err := c.PeekTag()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: want %s, have %s", ErrNoMatch, kind, tag)
	}
	v, err := c.application()
	if err != nil {
		return nil, err
	}
	return v.Data, nil
}

func (c *Cursor) applicationDate() (Date, error) {
	d, err := c.applicationOf(TagDate)
	if err != nil {
		return Date{}, err
	}
	return d.(Date), nil
}

func (c *Cursor) applicationTime() (Time, error) {
	d, err := c.applicationOf(TagTime)
	if err != nil {
		return Time{}, err
	}
	return d.(Time), nil
}

func (c *Cursor) applicationUnsigned() (uint64, error) {
	d, err := c.applicationOf(TagUnsignedInt)
	if err != nil {
		return 0, err
	}
	return uint64(d.(Unsigned)), nil
}

func (c *Cursor) applicationBoolean() (bool, error) {
	d, err := c.applicationOf(TagBoolean)
	if err != nil {
		return false, err
	}
	return bool(d.(Boolean)), nil
}

func (c *Cursor) applicationBitString() (BitString, error) {
	d, err := c.applicationOf(TagBitString)
	if err != nil {
		return BitString{}, err
	}
	return d.(BitString), nil
}

func (c *Cursor) applicationOctetString() ([]byte, error) {
	d, err := c.applicationOf(TagOctetString)
	if err != nil {
		return nil, err
	}
	return []byte(d.(OctetString)), nil
}
