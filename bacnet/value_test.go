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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeApplicationValue(t *testing.T) {
	testCases := []struct {
		name     string
		value    Value
		expected []byte
	}{
		{"null", AppValue(Null{}), []byte{0x00}},
		{"true", AppValue(Boolean(true)), []byte{0x11}},
		{"false", AppValue(Boolean(false)), []byte{0x10}},
		{"unsigned", AppValue(Unsigned(4194303)), []byte{0x23, 0x3F, 0xFF, 0xFF}},
		{"signed", AppValue(Signed(-2)), []byte{0x31, 0xFE}},
		{"real", AppValue(Real(42)), []byte{0x44, 0x42, 0x28, 0x00, 0x00}},
		{"double", AppValue(Double(1)), []byte{0x55, 0x08, 0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{"octet string", AppValue(OctetString{0xC0, 0xA8}), []byte{0x62, 0xC0, 0xA8}},
		{"character string", AppValue(NewCharacterString("AI")), []byte{0x73, 0x00, 'A', 'I'}},
		{"bit string", AppValue(BitStringFromBools(false, true, false, false)), []byte{0x82, 0x04, 0x40}},
		{"enumerated", AppValue(Enumerated(62)), []byte{0x91, 0x3E}},
		{"date", AppValue(NewDate(2024, 3, 15)), []byte{0xA4, 124, 3, 15, 5}},
		{"time", AppValue(NewTime(8, 30, 0, 0)), []byte{0xB4, 8, 30, 0, 0}},
		{"object identifier", AppValue(ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}), []byte{0xC4, 0x00, 0x00, 0x00, 0x01}},
		{"week n day", AppValue(WeekNDay{Month: 1, WeekOfMonth: Unspecified, DayOfWeek: 1}), []byte{0x63, 0x01, 0xFF, 0x01}},
		{"empty list", AppValue(EmptyList{}), nil},
		{"context tagging ignored", CtxValue(3, Unsigned(1)), []byte{0x21, 0x01}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			encoded, err := EncodeApplicationValue(tCase.value)
			require.NoError(t, err)
			assert.Equal(t, tCase.expected, encoded)
		})
	}
}

func TestEncodeContextValue(t *testing.T) {
	testCases := []struct {
		name     string
		tagNum   uint8
		value    Value
		expected []byte
	}{
		{"unsigned", 2, AppValue(Unsigned(5)), []byte{0x29, 0x05}},
		{"boolean carries a content octet", 0, AppValue(Boolean(true)), []byte{0x09, 0x01}},
		{"null", 4, AppValue(Null{}), []byte{0x48}},
		{"enumerated", 1, AppValue(Enumerated(85)), []byte{0x19, 0x55}},
		{"extended tag", 20, AppValue(Unsigned(1)), []byte{0xF9, 20, 0x01}},
		{"week n day", 2, AppValue(WeekNDay{Month: 12, WeekOfMonth: 1, DayOfWeek: 7}), []byte{0x2B, 12, 1, 7}},
		{"opaque", 5, AppValue(Opaque{Data: []byte{0xAA, 0xBB}}), []byte{0x5A, 0xAA, 0xBB}},
		{"empty list", 3, AppValue(EmptyList{}), []byte{0x3E, 0x3F}},
		{"constructed", 3, AppValue(Constructed{Values: []Value{AppValue(Unsigned(1)), CtxValue(0, Real(0))}}),
			[]byte{0x3E, 0x21, 0x01, 0x0C, 0, 0, 0, 0, 0x3F}},
		{"compound", 2, AppValue(DateTime{Date: NewDate(2024, 3, 15), Time: NewTime(8, 0, 0, 0)}),
			[]byte{0x2E, 0xA4, 124, 3, 15, 5, 0xB4, 8, 0, 0, 0, 0x2F}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			encoded, err := EncodeContextValue(tCase.tagNum, tCase.value)
			require.NoError(t, err)
			assert.Equal(t, tCase.expected, encoded)
		})
	}
}

func TestEncodeValueUsesTagging(t *testing.T) {
	app, err := EncodeValue(AppValue(Unsigned(5)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0x05}, app)

	ctx, err := EncodeValue(CtxValue(2, Unsigned(5)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x29, 0x05}, ctx)

	seq, err := EncodeValues(AppValue(Unsigned(5)), CtxValue(2, Unsigned(5)))
	require.NoError(t, err)
	assert.Equal(t, append(app, ctx...), seq)

	constructed, err := EncodeConstructed(3, AppValue(Unsigned(4194303)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3E, 0x23, 0x3F, 0xFF, 0xFF, 0x3F}, constructed)
}

func TestEncodeValueErrors(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		err   error
	}{
		{"invalid", Value{}, ErrUnsupportedType},
		{"opaque as application", AppValue(Opaque{Data: []byte{1}}), ErrUnsupportedType},
		{"object type out of range", AppValue(ObjectIdentifier{Type: MaxObjectType + 1}), ErrValueOutOfRange},
		{"date out of range", AppValue(Date{Year: 3000}), ErrValueOutOfRange},
		{"nested invalid", AppValue(Constructed{Values: []Value{{}}}), ErrUnsupportedType},
		{"recipient without choice", AppValue(Recipient{}), ErrMalformed},
		{"time value holding a compound", AppValue(TimeValue{Value: AppValue(DateRange{})}), ErrUnsupportedType},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			_, err := EncodeValue(tCase.value)
			assert.ErrorIs(t, err, tCase.err)
		})
	}
}

func TestEncodeValueTo(t *testing.T) {
	v := AppValue(Unsigned(4194303))
	n, err := ValueLen(v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 8)
	n, err = EncodeValueTo(buf, v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x23, 0x3F, 0xFF, 0xFF, 0, 0, 0, 0}, buf)

	small := []byte{0xEE, 0xEE, 0xEE}
	n, err = EncodeValueTo(small, v)
	assert.ErrorIs(t, err, ErrBufferExceeded)
	assert.Zero(t, n)
	assert.Equal(t, []byte{0xEE, 0xEE, 0xEE}, small)
}

func TestValueTag(t *testing.T) {
	assert.Equal(t, TagInvalid, Value{}.Tag())
	assert.False(t, Value{}.IsValid())
	assert.Equal(t, TagUnsignedInt, AppValue(Unsigned(1)).Tag())
	assert.Equal(t, TagEmptyList, AppValue(EmptyList{}).Tag())
	assert.Equal(t, TagHostNPort, AppValue(HostNPort{}).Tag())
	assert.Equal(t, TagConstructed, CtxValue(1, Constructed{}).Tag())
}

func TestNewValue(t *testing.T) {
	for tag := TagNull; tag <= TagObjectID; tag++ {
		v := NewValue(tag)
		assert.True(t, v.IsValid(), "%s", tag)
		assert.Equal(t, tag, v.Tag())
		assert.False(t, v.ContextSpecific)
	}
	for tag := TagEmptyList; tag <= TagOpaque; tag++ {
		assert.Equal(t, tag, NewValue(tag).Tag())
	}
	assert.False(t, NewValue(13).IsValid())
	assert.False(t, NewValue(TagInvalid).IsValid())
}

func TestValueEqual(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same unsigned", AppValue(Unsigned(3)), AppValue(Unsigned(3)), true},
		{"different unsigned", AppValue(Unsigned(3)), AppValue(Unsigned(4)), false},
		{"different kind", AppValue(Unsigned(3)), AppValue(Enumerated(3)), false},
		{"same context tag", CtxValue(1, Real(1.5)), CtxValue(1, Real(1.5)), true},
		{"different context tag", CtxValue(1, Real(1.5)), CtxValue(2, Real(1.5)), false},
		{"context and application", CtxValue(1, Null{}), AppValue(Null{}), false},
		{"octet strings", AppValue(OctetString{1, 2}), AppValue(OctetString{1, 2}), true},
		{"bit strings", AppValue(BitStringFromBools(true)), AppValue(BitStringFromBools(true)), true},
		{"character strings", AppValue(NewCharacterString("x")), AppValue(NewCharacterString("y")), false},
		{"invalid", Value{}, Value{}, false},
		{"compound", AppValue(DateTime{}), AppValue(DateTime{}), false},
		{"empty lists", AppValue(EmptyList{}), AppValue(EmptyList{}), false},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			assert.Equal(t, tCase.equal, tCase.a.Equal(tCase.b))
		})
	}
}

func TestValueClone(t *testing.T) {
	device := ObjectIdentifier{Type: ObjectTypeDevice, Instance: 7}
	original := AppValue(Constructed{Values: []Value{
		AppValue(OctetString{1, 2, 3}),
		CtxValue(0, Opaque{Data: []byte{9}}),
		AppValue(DeviceObjectReference{Device: &device, Object: device}),
		AppValue(DailySchedule{Values: []TimeValue{{Time: NewTime(6, 0, 0, 0), Value: AppValue(OctetString{4})}}}),
	}})
	clone := original.Clone()
	assert.Equal(t, original, clone)

	inner := original.Data.(Constructed).Values
	inner[0].Data.(OctetString)[0] = 0xFF
	inner[1].Data.(Opaque).Data[0] = 0xFF
	inner[2].Data.(DeviceObjectReference).Device.Instance = 99
	inner[3].Data.(DailySchedule).Values[0].Value.Data.(OctetString)[0] = 0xFF

	cloned := clone.Data.(Constructed).Values
	assert.Equal(t, OctetString{1, 2, 3}, cloned[0].Data)
	assert.Equal(t, Opaque{Data: []byte{9}}, cloned[1].Data)
	assert.Equal(t, uint32(7), cloned[2].Data.(DeviceObjectReference).Device.Instance)
	assert.Equal(t, OctetString{4}, cloned[3].Data.(DailySchedule).Values[0].Value.Data)
}

func TestValueString(t *testing.T) {
	testCases := []struct {
		value    Value
		expected string
	}{
		{Value{}, "invalid"},
		{AppValue(Null{}), "null"},
		{AppValue(Boolean(true)), "true"},
		{AppValue(Unsigned(42)), "42"},
		{AppValue(Signed(-42)), "-42"},
		{AppValue(Real(21.5)), "21.5"},
		{AppValue(NewCharacterString("Room")), `"Room"`},
		{AppValue(Enumerated(1)), "enum(1)"},
		{AppValue(OctetString{0xC0, 0xA8}), "C0A8"},
		{CtxValue(3, Unsigned(1)), "[3] 1"},
		{AppValue(EmptyList{}), "{}"},
		{AppValue(Constructed{Values: []Value{AppValue(Unsigned(1)), CtxValue(0, Null{})}}), "{1, [0] null}"},
	}
	for _, tCase := range testCases {
		assert.Equal(t, tCase.expected, tCase.value.String())
	}
}
