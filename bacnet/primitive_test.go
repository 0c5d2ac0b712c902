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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsigned(t *testing.T) {
	testCases := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{255, []byte{0xFF}},
		{256, []byte{0x01, 0x00}},
		{65535, []byte{0xFF, 0xFF}},
		{65536, []byte{0x01, 0x00, 0x00}},
		{4194303, []byte{0x3F, 0xFF, 0xFF}},
		{0xFFFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{0x100000000, []byte{0x01, 0x00, 0x00, 0x00, 0x00}},
		{math.MaxUint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tCase := range testCases {
		encoded := EncodeUnsigned(tCase.value)
		assert.Equal(t, tCase.expected, encoded, "value %d", tCase.value)
		decoded, err := DecodeUnsigned(encoded)
		require.NoError(t, err)
		assert.Equal(t, tCase.value, decoded)
	}

	_, err := DecodeUnsigned(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = DecodeUnsigned(make([]byte, 9))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSigned(t *testing.T) {
	testCases := []struct {
		value    int64
		expected []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0xFF}},
		{127, []byte{0x7F}},
		{128, []byte{0x00, 0x80}},
		{-128, []byte{0x80}},
		{-129, []byte{0xFF, 0x7F}},
		{32767, []byte{0x7F, 0xFF}},
		{-32768, []byte{0x80, 0x00}},
		{8388607, []byte{0x7F, 0xFF, 0xFF}},
		{-8388609, []byte{0xFF, 0x7F, 0xFF, 0xFF}},
		{math.MaxInt32, []byte{0x7F, 0xFF, 0xFF, 0xFF}},
		{math.MinInt32, []byte{0x80, 0x00, 0x00, 0x00}},
		{math.MaxInt32 + 1, []byte{0x00, 0x80, 0x00, 0x00, 0x00}},
		{math.MinInt64, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
		{math.MaxInt64, []byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tCase := range testCases {
		encoded := EncodeSigned(tCase.value)
		assert.Equal(t, tCase.expected, encoded, "value %d", tCase.value)
		decoded, err := DecodeSigned(encoded)
		require.NoError(t, err)
		assert.Equal(t, tCase.value, decoded)
	}

	_, err := DecodeSigned(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRealAndDouble(t *testing.T) {
	assert.Equal(t, []byte{0x42, 0x28, 0x00, 0x00}, EncodeReal(42))
	f, err := DecodeReal([]byte{0x42, 0x28, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, float32(42), f)

	_, err = DecodeReal([]byte{0x42, 0x28, 0x00})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	d, err := DecodeDouble(EncodeDouble(-0.125))
	require.NoError(t, err)
	assert.Equal(t, -0.125, d)

	_, err = DecodeDouble(EncodeReal(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	nan, err := DecodeReal(EncodeReal(float32(math.NaN())))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(nan)))
}

func TestBoolean(t *testing.T) {
	assert.Equal(t, []byte{0x11}, EncodeBooleanTag(true))
	assert.Equal(t, []byte{0x10}, EncodeBooleanTag(false))
	assert.Equal(t, []byte{0x01}, EncodeBoolean(true))

	v, err := DecodeBoolean([]byte{0x01})
	require.NoError(t, err)
	assert.True(t, v)
	_, err = DecodeBoolean([]byte{0x01, 0x00})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCharacterString(t *testing.T) {
	s := NewCharacterString("Zone 1")
	encoded := EncodeCharacterString(s)
	assert.Equal(t, append([]byte{0x00}, "Zone 1"...), encoded)

	decoded, err := DecodeCharacterString(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)

	decoded, err = DecodeCharacterString([]byte{byte(CharacterSetISO88591)})
	require.NoError(t, err)
	assert.Equal(t, CharacterString{Charset: CharacterSetISO88591}, decoded)

	_, err = DecodeCharacterString(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestOctetStringCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	decoded := DecodeOctetString(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, decoded)
	assert.NotNil(t, DecodeOctetString(nil))
}

func TestBitString(t *testing.T) {
	testCases := []struct {
		name     string
		bits     []bool
		expected []byte
	}{
		{"empty", nil, []byte{0x00}},
		{"three bits", []bool{true, false, true}, []byte{0x05, 0xA0}},
		{"full octet", []bool{true, true, true, true, false, false, false, true}, []byte{0x00, 0xF1}},
		{"status flags", []bool{false, true, false, false}, []byte{0x04, 0x40}},
		{"nine bits", []bool{false, false, false, false, false, false, false, false, true}, []byte{0x07, 0x00, 0x80}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			b := BitStringFromBools(tCase.bits...)
			encoded := EncodeBitString(b)
			assert.Equal(t, tCase.expected, encoded)

			decoded, err := DecodeBitString(encoded)
			require.NoError(t, err)
			assert.True(t, b.Equal(decoded))
			assert.Equal(t, len(tCase.bits), decoded.Len())
			for i, bit := range tCase.bits {
				assert.Equal(t, bit, decoded.Bit(i), "bit %d", i)
			}
		})
	}
}

func TestBitStringUnusedBitsMasked(t *testing.T) {
	b, err := DecodeBitString([]byte{0x04, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, "1111", b.String())
	assert.True(t, b.Equal(BitStringFromBools(true, true, true, true)))
	assert.Equal(t, []byte{0x04, 0xF0}, EncodeBitString(b))
}

func TestBitStringInvalid(t *testing.T) {
	for _, data := range [][]byte{nil, {0x08, 0xFF}, {0x03}} {
		_, err := DecodeBitString(data)
		assert.ErrorIs(t, err, ErrTypeMismatch, "% X", data)
	}
}

func TestBitStringSet(t *testing.T) {
	b := NewBitString(2)
	b.Set(10, true)
	assert.Equal(t, 11, b.Len())
	assert.True(t, b.Bit(10))
	assert.False(t, b.Bit(11))
	b.Set(10, false)
	assert.False(t, b.Bit(10))
	assert.False(t, b.Equal(NewBitString(2)))
}

func TestEnumerated(t *testing.T) {
	v, err := DecodeEnumerated([]byte{0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint32(256), v)

	_, err = DecodeEnumerated([]byte{0, 0, 0, 0, 1})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = DecodeEnumerated(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDate(t *testing.T) {
	testCases := []struct {
		name     string
		date     Date
		expected []byte
	}{
		{"friday", NewDate(2024, time.March, 15), []byte{124, 3, 15, 5}},
		{"sunday", NewDate(2023, time.January, 1), []byte{123, 1, 1, 7}},
		{"first year", Date{Year: 1900, Month: 1, Day: 1, Weekday: 1}, []byte{0, 1, 1, 1}},
		{"last year", Date{Year: 2154, Month: 12, Day: 31, Weekday: Unspecified}, []byte{254, 12, 31, 0xFF}},
		{"wildcard", Date{Year: Unspecified, Month: Unspecified, Day: Unspecified, Weekday: Unspecified}, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			encoded, err := EncodeDate(tCase.date)
			require.NoError(t, err)
			assert.Equal(t, tCase.expected, encoded)

			decoded, err := DecodeDate(encoded)
			require.NoError(t, err)
			assert.Equal(t, tCase.date, decoded)
		})
	}
}

func TestDateYearOffset(t *testing.T) {
	encoded, err := EncodeDate(Date{Year: 124, Month: 3, Day: 15, Weekday: 5})
	require.NoError(t, err)
	assert.Equal(t, []byte{124, 3, 15, 5}, encoded)

	for _, year := range []uint16{1899, 2155, 0xFFFF} {
		_, err := EncodeDate(Date{Year: year, Month: 1, Day: 1})
		assert.ErrorIs(t, err, ErrValueOutOfRange, "year %d", year)
	}

	_, err = DecodeDate([]byte{124, 3, 15})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "2024-03-15/05", NewDate(2024, time.March, 15).String())
	assert.Equal(t, "*-12-*/*", Date{Year: Unspecified, Month: 12, Day: Unspecified, Weekday: Unspecified}.String())
}

func TestTime(t *testing.T) {
	tm := NewTime(23, 59, 59, 99)
	assert.Equal(t, []byte{23, 59, 59, 99}, EncodeTime(tm))
	decoded, err := DecodeTime(EncodeTime(tm))
	require.NoError(t, err)
	assert.Equal(t, tm, decoded)
	assert.Equal(t, "23:59:59.99", tm.String())
	assert.Equal(t, "12:*:*.*", NewTime(12, Unspecified, Unspecified, Unspecified).String())

	_, err = DecodeTime([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestObjectIdentifierBytes(t *testing.T) {
	oid := ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1234}
	encoded := EncodeObjectIdentifier(oid)
	assert.Equal(t, []byte{0x02, 0x00, 0x04, 0xD2}, encoded)

	decoded, err := DecodeObjectIdentifierFromBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, oid, decoded)

	largest := ObjectIdentifier{Type: MaxObjectType, Instance: MaxInstance}
	decoded, err = DecodeObjectIdentifierFromBytes(EncodeObjectIdentifier(largest))
	require.NoError(t, err)
	assert.Equal(t, largest, decoded)
	assert.NoError(t, largest.validate())

	assert.ErrorIs(t, ObjectIdentifier{Type: ObjectTypeDevice, Instance: MaxInstance + 1}.validate(), ErrValueOutOfRange)

	_, err = DecodeObjectIdentifierFromBytes([]byte{0x02, 0x00})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
