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
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Datum is the payload of a Value. The concrete type decides the kind.
type Datum interface {
	Tag() ApplicationTag
}

// Primitive datums
type (
	Null        struct{}
	Boolean     bool
	Unsigned    uint64
	Signed      int64
	Real        float32
	Double      float64
	OctetString []byte
	Enumerated  uint32
)

// EmptyList is a constructed value with nothing between its opening and
// closing tags. It is distinct from an absent value.
type EmptyList struct{}

// Opaque holds the content of a context tagged primitive whose datatype
// is not known for the property being decoded.
type Opaque struct {
	Data []byte
}

// Constructed holds the values found between an opening and a closing tag
// when the property gives no structure for them. Nested regions become
// nested Constructed values.
type Constructed struct {
	Values []Value
}

func (Null) Tag() ApplicationTag             { return TagNull }
func (Boolean) Tag() ApplicationTag          { return TagBoolean }
func (Unsigned) Tag() ApplicationTag         { return TagUnsignedInt }
func (Signed) Tag() ApplicationTag           { return TagSignedInt }
func (Real) Tag() ApplicationTag             { return TagReal }
func (Double) Tag() ApplicationTag           { return TagDouble }
func (OctetString) Tag() ApplicationTag      { return TagOctetString }
func (CharacterString) Tag() ApplicationTag  { return TagCharacterString }
func (BitString) Tag() ApplicationTag        { return TagBitString }
func (Enumerated) Tag() ApplicationTag       { return TagEnumerated }
func (Date) Tag() ApplicationTag             { return TagDate }
func (Time) Tag() ApplicationTag             { return TagTime }
func (ObjectIdentifier) Tag() ApplicationTag { return TagObjectID }
func (EmptyList) Tag() ApplicationTag        { return TagEmptyList }
func (Opaque) Tag() ApplicationTag           { return TagOpaque }
func (Constructed) Tag() ApplicationTag      { return TagConstructed }

func (Null) String() string          { return "null" }
func (EmptyList) String() string     { return "{}" }
func (o OctetString) String() string { return fmt.Sprintf("%X", []byte(o)) }
func (o Opaque) String() string      { return fmt.Sprintf("opaque(%X)", o.Data) }

func (c Constructed) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Value is one decoded or to-be-encoded item. A context specific value
// carries the context tag number it was found under or is to be written
// with. A zero Value has kind TagInvalid.
type Value struct {
	ContextSpecific bool
	ContextTag      uint8
	Data            Datum
}

// Tag returns the kind of the value
func (v Value) Tag() ApplicationTag {
	if v.Data == nil {
		return TagInvalid
	}
	return v.Data.Tag()
}

// IsValid reports whether the value holds a datum
func (v Value) IsValid() bool {
	return v.Data != nil
}

// NewValue returns the zero value of the given kind, or an invalid value
// if the kind is unknown.
func NewValue(tag ApplicationTag) Value {
	var d Datum
	switch tag {
	case TagNull:
		d = Null{}
	case TagBoolean:
		d = Boolean(false)
	case TagUnsignedInt:
		d = Unsigned(0)
	case TagSignedInt:
		d = Signed(0)
	case TagReal:
		d = Real(0)
	case TagDouble:
		d = Double(0)
	case TagOctetString:
		d = OctetString{}
	case TagCharacterString:
		d = CharacterString{}
	case TagBitString:
		d = BitString{}
	case TagEnumerated:
		d = Enumerated(0)
	case TagDate:
		d = Date{}
	case TagTime:
		d = Time{}
	case TagObjectID:
		d = ObjectIdentifier{}
	case TagEmptyList:
		d = EmptyList{}
	case TagWeekNDay:
		d = WeekNDay{}
	case TagDateTime:
		d = DateTime{}
	case TagDateRange:
		d = DateRange{}
	case TagTimeStamp:
		d = TimeStamp{}
	case TagDeviceObjectReference:
		d = DeviceObjectReference{}
	case TagDeviceObjectPropertyReference:
		d = DeviceObjectPropertyReference{}
	case TagObjectPropertyReference:
		d = ObjectPropertyReference{}
	case TagRecipient:
		d = Recipient{}
	case TagDestination:
		d = Destination{}
	case TagCOVSubscription:
		d = COVSubscription{}
	case TagCalendarEntry:
		d = CalendarEntry{}
	case TagTimeValue:
		d = TimeValue{}
	case TagDailySchedule:
		d = DailySchedule{}
	case TagWeeklySchedule:
		d = WeeklySchedule{}
	case TagSpecialEvent:
		d = SpecialEvent{}
	case TagHostNPort:
		d = HostNPort{}
	case TagConstructed:
		d = Constructed{}
	case TagOpaque:
		d = Opaque{}
	}
	return Value{Data: d}
}

// AppValue wraps a datum as an application tagged value
func AppValue(d Datum) Value {
	return Value{Data: d}
}

// CtxValue wraps a datum as a value under context tag tagNum
func CtxValue(tagNum uint8, d Datum) Value {
	return Value{ContextSpecific: true, ContextTag: tagNum, Data: d}
}

// Clone returns a deep copy. The copy shares no memory with v.
func (v Value) Clone() Value {
	v.Data = cloneDatum(v.Data)
	return v
}

func cloneDatum(d Datum) Datum {
	switch x := d.(type) {
	case OctetString:
		if x == nil {
			return x
		}
		return OctetString(bytes.Clone(x))
	case BitString:
		return x.clone()
	case Opaque:
		return Opaque{Data: bytes.Clone(x.Data)}
	case Constructed:
		return Constructed{Values: cloneValues(x.Values)}
	case DeviceObjectReference:
		x.Device = clonePtr(x.Device)
		return x
	case DeviceObjectPropertyReference:
		x.ArrayIndex = clonePtr(x.ArrayIndex)
		x.Device = clonePtr(x.Device)
		return x
	case ObjectPropertyReference:
		x.ArrayIndex = clonePtr(x.ArrayIndex)
		return x
	case Recipient:
		return x.clone()
	case Destination:
		x.ValidDays = x.ValidDays.clone()
		x.Recipient = x.Recipient.clone()
		x.Transitions = x.Transitions.clone()
		return x
	case COVSubscription:
		x.Recipient.Recipient = x.Recipient.Recipient.clone()
		x.MonitoredProperty.ArrayIndex = clonePtr(x.MonitoredProperty.ArrayIndex)
		x.COVIncrement = clonePtr(x.COVIncrement)
		return x
	case TimeValue:
		x.Value = x.Value.Clone()
		return x
	case DailySchedule:
		return x.clone()
	case WeeklySchedule:
		for i := range x.Days {
			x.Days[i] = x.Days[i].clone()
		}
		return x
	case SpecialEvent:
		x.Period = clonePtr(x.Period)
		x.CalendarRef = clonePtr(x.CalendarRef)
		x.TimeValues = cloneTimeValues(x.TimeValues)
		return x
	case HostNPort:
		x.IP = bytes.Clone(x.IP)
		return x
	}
	// everything else is a plain value
	return d
}

func cloneValues(values []Value) []Value {
	if values == nil {
		return nil
	}
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = v.Clone()
	}
	return out
}

func cloneTimeValues(tvs []TimeValue) []TimeValue {
	if tvs == nil {
		return nil
	}
	out := make([]TimeValue, len(tvs))
	for i, tv := range tvs {
		out[i] = TimeValue{Time: tv.Time, Value: tv.Value.Clone()}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Equal compares the kind, the context tagging and the payload of two
// primitive values. Compound and structural values never compare equal.
func (v Value) Equal(o Value) bool {
	if v.ContextSpecific != o.ContextSpecific {
		return false
	}
	if v.ContextSpecific && v.ContextTag != o.ContextTag {
		return false
	}
	if v.Tag() != o.Tag() {
		return false
	}

	switch a := v.Data.(type) {
	case Null:
		return true
	case Boolean, Unsigned, Signed, Enumerated, Date, Time, ObjectIdentifier, CharacterString:
		return v.Data == o.Data
	case Real:
		return a == o.Data.(Real)
	case Double:
		return a == o.Data.(Double)
	case OctetString:
		return bytes.Equal(a, o.Data.(OctetString))
	case BitString:
		return a.Equal(o.Data.(BitString))
	}
	return false
}

func (v Value) String() string {
	var s string
	switch d := v.Data.(type) {
	case nil:
		s = "invalid"
	case Boolean:
		s = strconv.FormatBool(bool(d))
	case Unsigned:
		s = strconv.FormatUint(uint64(d), 10)
	case Signed:
		s = strconv.FormatInt(int64(d), 10)
	case Real:
		s = strconv.FormatFloat(float64(d), 'g', -1, 32)
	case Double:
		s = strconv.FormatFloat(float64(d), 'g', -1, 64)
	case CharacterString:
		s = strconv.Quote(d.Value)
	case Enumerated:
		s = fmt.Sprintf("enum(%d)", uint32(d))
	case fmt.Stringer:
		s = d.String()
	default:
		s = fmt.Sprintf("%+v", d)
	}
	if v.ContextSpecific {
		return fmt.Sprintf("[%d] %s", v.ContextTag, s)
	}
	return s
}
