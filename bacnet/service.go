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

// PropertyValue is the value of one property as carried by the
// ReadProperty, WriteProperty and ReadPropertyMultiple services. A
// ReadPropertyMultiple result holds either Values or Error.
type PropertyValue struct {
	Object     ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Values     []Value
	Priority   *uint8
	Error      *BACnetError
}

// MinPriority and MaxPriority bound the priority of a WriteProperty request
const (
	MinPriority = 1
	MaxPriority = 16
)

func appendPropertyValues(dst []byte, tagNum uint8, values []Value) ([]byte, error) {
	var err error
	dst = append(dst, EncodeOpeningTag(tagNum)...)
	for _, v := range values {
		if dst, err = AppendValue(dst, v); err != nil {
			return nil, err
		}
	}
	return append(dst, EncodeClosingTag(tagNum)...), nil
}

// EncodeReadProperty encodes a ReadProperty request
func EncodeReadProperty(ref ObjectPropertyReference) ([]byte, error) {
	return appendObjectPropertyReference(make([]byte, 0, 16), ref)
}

// EncodeReadPropertyAck encodes a ReadProperty acknowledgement
func EncodeReadPropertyAck(pv PropertyValue) ([]byte, error) {
	data, err := appendObjectPropertyReference(make([]byte, 0, 32), ObjectPropertyReference{
		Object:     pv.Object,
		Property:   pv.Property,
		ArrayIndex: pv.ArrayIndex,
	})
	if err != nil {
		return nil, err
	}
	return appendPropertyValues(data, 3, pv.Values)
}

// EncodeWriteProperty encodes a WriteProperty request
func EncodeWriteProperty(pv PropertyValue) ([]byte, error) {
	data, err := EncodeReadPropertyAck(pv)
	if err != nil {
		return nil, err
	}
	if pv.Priority != nil {
		if *pv.Priority < MinPriority || *pv.Priority > MaxPriority {
			return nil, fmt.Errorf("%w: priority %d", ErrValueOutOfRange, *pv.Priority)
		}
		data = appendContext(data, 4, EncodeUnsigned(uint64(*pv.Priority)))
	}
	return data, nil
}

// EncodeReadPropertyMultipleAck encodes the results of a
// ReadPropertyMultiple request. Consecutive results for the same object
// share one read access result.
func EncodeReadPropertyMultipleAck(results []PropertyValue) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	for i := 0; i < len(results); {
		obj := results[i].Object
		if data, err = appendContextObjectID(data, 0, obj); err != nil {
			return nil, err
		}
		data = append(data, EncodeOpeningTag(1)...)
		for ; i < len(results) && results[i].Object == obj; i++ {
			r := results[i]
			data = appendContext(data, 2, EncodeEnumerated(uint32(r.Property)))
			if r.ArrayIndex != nil {
				data = appendContext(data, 3, EncodeUnsigned(uint64(*r.ArrayIndex)))
			}
			if r.Error != nil {
				data = append(data, EncodeOpeningTag(5)...)
				data = appendApplication(data, TagEnumerated, EncodeEnumerated(uint32(r.Error.Class)))
				data = appendApplication(data, TagEnumerated, EncodeEnumerated(uint32(r.Error.Code)))
				data = append(data, EncodeClosingTag(5)...)
				continue
			}
			if data, err = appendPropertyValues(data, 4, r.Values); err != nil {
				return nil, err
			}
		}
		data = append(data, EncodeClosingTag(1)...)
	}
	return data, nil
}

// DecodeReadProperty decodes a ReadProperty request
func (d *Decoder) DecodeReadProperty(data []byte) (ObjectPropertyReference, error) {
	var ref ObjectPropertyReference
	_, err := d.run(data, PropertyAll, "read-property", func(c *Cursor) (int, error) {
		var err error
		ref, err = decodeObjectPropertyReference(c)
		if err == nil && !c.Done() {
			err = fmt.Errorf("%w: %d trailing octets", ErrMalformed, c.Remaining())
		}
		return 0, err
	})
	return ref, err
}

// DecodeReadPropertyAck decodes a ReadProperty acknowledgement. The value
// is decoded with the knowledge of its property.
func (d *Decoder) DecodeReadPropertyAck(data []byte) (PropertyValue, error) {
	var pv PropertyValue
	_, err := d.run(data, PropertyAll, "read-property-ack", func(c *Cursor) (int, error) {
		var err error
		if pv, err = decodePropertyValue(c); err != nil {
			return 0, err
		}
		if !c.Done() {
			return 0, fmt.Errorf("%w: %d trailing octets", ErrMalformed, c.Remaining())
		}
		return len(pv.Values), nil
	})
	return pv, err
}

// DecodeWriteProperty decodes a WriteProperty request
func (d *Decoder) DecodeWriteProperty(data []byte) (PropertyValue, error) {
	var pv PropertyValue
	_, err := d.run(data, PropertyAll, "write-property", func(c *Cursor) (int, error) {
		var err error
		if pv, err = decodePropertyValue(c); err != nil {
			return 0, err
		}
		if c.peekContext(4) {
			p, err := c.contextUnsigned(4)
			if err != nil {
				return 0, err
			}
			if p < MinPriority || p > MaxPriority {
				return 0, fmt.Errorf("%w: priority %d", ErrValueOutOfRange, p)
			}
			priority := uint8(p)
			pv.Priority = &priority
		}
		if !c.Done() {
			return 0, fmt.Errorf("%w: %d trailing octets", ErrMalformed, c.Remaining())
		}
		return len(pv.Values), nil
	})
	return pv, err
}

// DecodeReadPropertyMultipleAck decodes the results of a
// ReadPropertyMultiple request
func (d *Decoder) DecodeReadPropertyMultipleAck(data []byte) ([]PropertyValue, error) {
	var results []PropertyValue
	_, err := d.run(data, PropertyAll, "read-property-multiple-ack", func(c *Cursor) (int, error) {
		for !c.Done() {
			obj, err := c.contextObjectID(0)
			if err != nil {
				return 0, err
			}
			if err := c.opening(1); err != nil {
				return 0, err
			}
			for !c.peekClosing(1) {
				r, err := decodeReadResult(c, obj)
				if err != nil {
					return 0, err
				}
				results = append(results, r)
			}
			if err := c.closing(1); err != nil {
				return 0, err
			}
			c.property = PropertyAll
		}
		return len(results), nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// decodePropertyValue reads object [0], property [1], the optional array
// index [2] and the values enclosed in [3]
func decodePropertyValue(c *Cursor) (PropertyValue, error) {
	ref, err := decodeObjectPropertyReference(c)
	if err != nil {
		return PropertyValue{}, err
	}
	pv := PropertyValue{Object: ref.Object, Property: ref.Property, ArrayIndex: ref.ArrayIndex}
	if pv.Values, err = decodePropertyValues(c, 3, ref.Property); err != nil {
		return PropertyValue{}, err
	}
	return pv, nil
}

func decodePropertyValues(c *Cursor, tagNum uint8, property PropertyIdentifier) ([]Value, error) {
	if err := c.opening(tagNum); err != nil {
		return nil, err
	}
	c.property = property
	values, err := c.knownPropertyList(int(tagNum))
	if err != nil {
		return nil, err
	}
	if err := c.closing(tagNum); err != nil {
		return nil, err
	}
	return values, nil
}

func decodeReadResult(c *Cursor, obj ObjectIdentifier) (PropertyValue, error) {
	prop, err := c.contextEnumerated(2)
	if err != nil {
		return PropertyValue{}, err
	}
	r := PropertyValue{Object: obj, Property: PropertyIdentifier(prop)}
	if c.peekContext(3) {
		index, err := c.contextUnsigned(3)
		if err != nil {
			return r, err
		}
		if index > 0xFFFFFFFF {
			return r, fmt.Errorf("%w: array index %d", ErrValueOutOfRange, index)
		}
		i := uint32(index)
		r.ArrayIndex = &i
	}

	switch {
	case c.peekOpening(4):
		r.Values, err = decodePropertyValues(c, 4, r.Property)
		return r, err
	case c.peekOpening(5):
		if err := c.opening(5); err != nil {
			return r, err
		}
		class, err := c.applicationOf(TagEnumerated)
		if err != nil {
			return r, err
		}
		code, err := c.applicationOf(TagEnumerated)
		if err != nil {
			return r, err
		}
		if err := c.closing(5); err != nil {
			return r, err
		}
		if class.(Enumerated) > 0xFFFF || code.(Enumerated) > 0xFFFF {
			return r, fmt.Errorf("%w: error class %d code %d", ErrValueOutOfRange, class, code)
		}
		r.Error = NewBACnetError(ErrorClass(class.(Enumerated)), ErrorCode(code.(Enumerated)))
		return r, nil
	}
	return r, c.noChoice("read result")
}

// DecodeReadProperty decodes a ReadProperty request
func DecodeReadProperty(data []byte) (ObjectPropertyReference, error) {
	return defaultDecoder.DecodeReadProperty(data)
}

// DecodeReadPropertyAck decodes a ReadProperty acknowledgement
func DecodeReadPropertyAck(data []byte) (PropertyValue, error) {
	return defaultDecoder.DecodeReadPropertyAck(data)
}

// DecodeWriteProperty decodes a WriteProperty request
func DecodeWriteProperty(data []byte) (PropertyValue, error) {
	return defaultDecoder.DecodeWriteProperty(data)
}

// DecodeReadPropertyMultipleAck decodes the results of a ReadPropertyMultiple request
func DecodeReadPropertyMultipleAck(data []byte) ([]PropertyValue, error) {
	return defaultDecoder.DecodeReadPropertyMultipleAck(data)
}
