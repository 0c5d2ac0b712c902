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
	"time"
)

// Decoder decodes tagged values. It holds only configuration, so one
// Decoder may be used from many goroutines at once.
type Decoder struct {
	opts *decoderOptions
}

// NewDecoder creates a decoder with the given options
func NewDecoder(opts ...Option) *Decoder {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Decoder{opts: options}
}

var defaultDecoder = NewDecoder()

// Metrics returns the metrics the decoder records to, or nil
func (d *Decoder) Metrics() *Metrics {
	return d.opts.metrics
}

// run decodes data with fn and takes care of metrics, logging and error
// wrapping. fn returns the number of values it decoded.
func (d *Decoder) run(data []byte, property PropertyIdentifier, op string, fn func(c *Cursor) (int, error)) (int, error) {
	start := time.Now()
	c := d.newCursor(data, property)
	count, err := fn(c)

	if m := d.opts.metrics; m != nil {
		m.DecodeLatency.Record(time.Since(start))
		switch {
		case err == nil:
			m.ValuesDecoded.Add(int64(count))
			m.BytesDecoded.Add(int64(c.pos))
		case !errors.Is(err, ErrNoMatch):
			m.DecodeErrors.Inc()
		}
	}

	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return 0, err
		}
		d.opts.logger.Debug("decode failed",
			"op", op,
			"property", c.property.String(),
			"offset", c.pos,
			"error", err,
		)
		return 0, &DecodeError{Offset: c.pos, Property: c.property, Err: err}
	}
	return c.pos, nil
}

// DecodeApplicationData decodes one application tagged value and returns
// it with the number of octets consumed. A context tag fails with
// ErrNoMatch. An application tag number with no primitive encoding yields
// an invalid value and consumes only the tag header.
func (d *Decoder) DecodeApplicationData(data []byte) (Value, int, error) {
	var v Value
	n, err := d.run(data, PropertyAll, "application", func(c *Cursor) (int, error) {
		var err error
		v, err = c.application()
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeContextValue decodes a value of the given kind under context tag
// tagNum. A different tag fails with ErrNoMatch and consumes nothing.
func (d *Decoder) DecodeContextValue(data []byte, tagNum uint8, kind ApplicationTag) (Value, int, error) {
	var v Value
	n, err := d.run(data, PropertyAll, "context", func(c *Cursor) (int, error) {
		var err error
		v, err = c.contextValue(tagNum, kind)
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeContextData decodes one context tagged value of property. The
// datatype comes from the context tag table; an unknown primitive is kept
// as Opaque and an unknown constructed region is decoded generically.
//
// A closing tag is not consumed: DecodeContextData returns an invalid
// value, zero octets and no error, which ends a list.
func (d *Decoder) DecodeContextData(data []byte, property PropertyIdentifier) (Value, int, error) {
	var v Value
	n, err := d.run(data, property, "context-data", func(c *Cursor) (int, error) {
		tag, _, err := c.PeekTag()
		if err != nil {
			return 0, err
		}
		if !tag.IsContext() {
			return 0, fmt.Errorf("%w: %s where a context tag was expected", ErrNoMatch, tag)
		}
		var end bool
		v, end, err = c.contextData()
		if end {
			return 0, err
		}
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeGenericProperty decodes one value of property, application or
// context tagged, without the compound knowledge of DecodeKnownProperty.
func (d *Decoder) DecodeGenericProperty(data []byte, property PropertyIdentifier) (Value, int, error) {
	var v Value
	n, err := d.run(data, property, "generic", func(c *Cursor) (int, error) {
		var err error
		v, err = c.next()
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeKnownProperty decodes one value, or one list or array element, of
// property. Properties with a compound datatype are decoded into it; all
// others go through DecodeGenericProperty.
func (d *Decoder) DecodeKnownProperty(data []byte, property PropertyIdentifier) (Value, int, error) {
	var v Value
	n, err := d.run(data, property, "known", func(c *Cursor) (int, error) {
		var err error
		v, err = c.knownProperty()
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeKnownPropertyUntilTag decodes values of property up to closing tag
// tagNum. The closing tag is not consumed. Running out of data first fails
// with ErrMissingClosingTag. No values at all yields a single EmptyList.
func (d *Decoder) DecodeKnownPropertyUntilTag(data []byte, property PropertyIdentifier, tagNum uint8) ([]Value, int, error) {
	var values []Value
	n, err := d.run(data, property, "known-until-tag", func(c *Cursor) (int, error) {
		var err error
		values, err = c.knownPropertyList(int(tagNum))
		return len(values), err
	})
	if err != nil {
		return nil, 0, err
	}
	return values, n, nil
}

// DecodeKnownPropertyUntilEnd decodes values of property until the data
// is used up. No values at all yields a single EmptyList.
func (d *Decoder) DecodeKnownPropertyUntilEnd(data []byte, property PropertyIdentifier) ([]Value, int, error) {
	var values []Value
	n, err := d.run(data, property, "known-until-end", func(c *Cursor) (int, error) {
		var err error
		values, err = c.knownPropertyList(-1)
		return len(values), err
	})
	if err != nil {
		return nil, 0, err
	}
	return values, n, nil
}

// DecodeCompound decodes the bare sequence form of a compound kind, such
// as a DateTime or a WeeklySchedule.
func (d *Decoder) DecodeCompound(data []byte, kind ApplicationTag) (Value, int, error) {
	var v Value
	n, err := d.run(data, PropertyAll, "compound", func(c *Cursor) (int, error) {
		datum, err := decodeCompound(c, kind)
		v = AppValue(datum)
		return 1, err
	})
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DataLength returns the length of the value of property enclosed in the
// opening tag at the start of data, excluding the opening and the closing
// tag. The enclosed values are decoded to find it.
func (d *Decoder) DataLength(data []byte, property PropertyIdentifier) (int, error) {
	var length int
	_, err := d.run(data, property, "data-length", func(c *Cursor) (int, error) {
		tag, err := c.ReadTag()
		if err != nil {
			return 0, err
		}
		if !tag.Opening {
			return 0, fmt.Errorf("%w: %s where an opening tag was expected", ErrMalformed, tag)
		}
		start := c.pos
		values, err := c.knownPropertyList(int(tag.Number))
		if err != nil {
			return 0, err
		}
		length = c.pos - start
		return len(values), c.closing(tag.Number)
	})
	if err != nil {
		return 0, err
	}
	return length, nil
}

// contextData decodes the context tagged value at the cursor. It reports
// end without consuming anything when the next tag is a closing tag.
func (c *Cursor) contextData() (Value, bool, error) {
	tag, n, err := c.PeekTag()
	if err != nil {
		return Value{}, false, err
	}
	if tag.Closing {
		return Value{}, true, nil
	}
	if !tag.IsContext() {
		return Value{}, false, fmt.Errorf("%w: %s where a context tag was expected", ErrNoMatch, tag)
	}

	kind := ContextTagType(c.property, tag.Number)
	if tag.Opening {
		if kind == TagInvalid || kind.IsPrimitive() || kind == TagWeekNDay {
			kind = TagConstructed
		}
		c.pos += n
		d, err := c.enclosedCompound(tag.Number, kind)
		if err != nil {
			return Value{}, false, err
		}
		return CtxValue(tag.Number, d), false, nil
	}

	if kind != TagInvalid {
		v, err := c.contextValue(tag.Number, kind)
		return v, false, err
	}

	if tag.LenValueType == 0 {
		return Value{}, false, fmt.Errorf("%w: empty context[%d] of %s", ErrUnsupportedType, tag.Number, c.property)
	}
	c.pos += n
	content, err := c.content(int(tag.LenValueType))
	if err != nil {
		return Value{}, false, err
	}
	if m := c.dec.opts.metrics; m != nil {
		m.OpaqueSkipped.Inc()
	}
	c.dec.opts.logger.Debug("opaque context data",
		"property", c.property.String(),
		"tag", tag.Number,
		"length", len(content),
	)
	return CtxValue(tag.Number, Opaque{Data: bytesCopy(content)}), false, nil
}

// enclosedValues decodes values up to and including closing tag tagNum.
// The opening tag has already been read.
func (c *Cursor) enclosedValues(tagNum uint8) ([]Value, error) {
	var values []Value
	for {
		if c.Done() {
			return nil, fmt.Errorf("%w: closing[%d]", ErrMissingClosingTag, tagNum)
		}
		tag, n, err := c.PeekTag()
		if err != nil {
			return nil, err
		}
		if tag.Closing {
			if tag.Number != tagNum {
				return nil, fmt.Errorf("%w: closing[%d] inside opening[%d] at offset %d", ErrMalformed, tag.Number, tagNum, c.pos)
			}
			c.pos += n
			return values, nil
		}

		var v Value
		if tag.IsContext() {
			v, _, err = c.contextData()
		} else {
			v, err = c.application()
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
}

// knownProperty decodes one value of the cursor's property
func (c *Cursor) knownProperty() (Value, error) {
	if c.property == PropertyPriorityArray {
		return c.priorityValue()
	}
	kind, ok := knownProperties[c.property]
	if !ok || c.peekApplication(TagNull) {
		return c.next()
	}
	d, err := decodeCompound(c, kind)
	if err != nil {
		return Value{}, err
	}
	return AppValue(d), nil
}

// priorityValue decodes one priority array slot: an application value or
// a constructed value under context tag 0.
func (c *Cursor) priorityValue() (Value, error) {
	if !c.peekOpening(0) {
		return c.next()
	}
	if err := c.opening(0); err != nil {
		return Value{}, err
	}
	d, err := c.enclosedCompound(0, TagConstructed)
	if err != nil {
		return Value{}, err
	}
	return CtxValue(0, d), nil
}

// knownPropertyList decodes values of the cursor's property up to closing
// tag closing, or to the end of the data when closing is negative.
func (c *Cursor) knownPropertyList(closing int) ([]Value, error) {
	var values []Value
	for {
		if closing >= 0 {
			if c.peekClosing(uint8(closing)) {
				break
			}
			if c.Done() {
				return nil, fmt.Errorf("%w: closing[%d]", ErrMissingClosingTag, closing)
			}
		} else if c.Done() {
			break
		}

		v, err := c.knownProperty()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		values = []Value{{Data: EmptyList{}}}
	}
	return values, nil
}

// Package level functions decode with a default Decoder.

// DecodeApplicationData decodes one application tagged value
func DecodeApplicationData(data []byte) (Value, int, error) {
	return defaultDecoder.DecodeApplicationData(data)
}

// DecodeContextValue decodes a value of kind under context tag tagNum
func DecodeContextValue(data []byte, tagNum uint8, kind ApplicationTag) (Value, int, error) {
	return defaultDecoder.DecodeContextValue(data, tagNum, kind)
}

// DecodeContextData decodes one context tagged value of property
func DecodeContextData(data []byte, property PropertyIdentifier) (Value, int, error) {
	return defaultDecoder.DecodeContextData(data, property)
}

// DecodeGenericProperty decodes one value of property generically
func DecodeGenericProperty(data []byte, property PropertyIdentifier) (Value, int, error) {
	return defaultDecoder.DecodeGenericProperty(data, property)
}

// DecodeKnownProperty decodes one value of property
func DecodeKnownProperty(data []byte, property PropertyIdentifier) (Value, int, error) {
	return defaultDecoder.DecodeKnownProperty(data, property)
}

// DecodeKnownPropertyUntilTag decodes values of property up to closing tag tagNum
func DecodeKnownPropertyUntilTag(data []byte, property PropertyIdentifier, tagNum uint8) ([]Value, int, error) {
	return defaultDecoder.DecodeKnownPropertyUntilTag(data, property, tagNum)
}

// DecodeKnownPropertyUntilEnd decodes values of property until the data is used up
func DecodeKnownPropertyUntilEnd(data []byte, property PropertyIdentifier) ([]Value, int, error) {
	return defaultDecoder.DecodeKnownPropertyUntilEnd(data, property)
}

// DecodeCompound decodes the bare sequence form of a compound kind
func DecodeCompound(data []byte, kind ApplicationTag) (Value, int, error) {
	return defaultDecoder.DecodeCompound(data, kind)
}

// DataLength returns the length of the enclosed value of property
func DataLength(data []byte, property PropertyIdentifier) (int, error) {
	return defaultDecoder.DataLength(data, property)
}
