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
	"math"
	"math/bits"
	"strings"
	"time"
)

// Primitive content encoders produce only the content octets. The tag
// header that carries their length is added by the value codecs.

func unsignedLen(value uint64) int {
	if value == 0 {
		return 1
	}
	return (bits.Len64(value) + 7) / 8
}

// EncodeUnsigned encodes an unsigned integer in the fewest octets
func EncodeUnsigned(value uint64) []byte {
	n := unsignedLen(value)
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(value)
		value >>= 8
	}
	return buf
}

// DecodeUnsigned decodes a big-endian unsigned integer of 1 to 8 octets
func DecodeUnsigned(data []byte) (uint64, error) {
	if len(data) < 1 || len(data) > 8 {
		return 0, fmt.Errorf("%w: unsigned of %d octets", ErrTypeMismatch, len(data))
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func signedLen(value int64) int {
	switch {
	case value >= -128 && value < 128:
		return 1
	case value >= -32768 && value < 32768:
		return 2
	case value >= -8388608 && value < 8388608:
		return 3
	case value >= math.MinInt32 && value <= math.MaxInt32:
		return 4
	}
	n := 5
	for ; n < 8; n++ {
		limit := int64(1) << (8*n - 1)
		if value >= -limit && value < limit {
			break
		}
	}
	return n
}

// EncodeSigned encodes a two's complement integer in the fewest octets
// that still carry the sign in the top bit
func EncodeSigned(value int64) []byte {
	n := signedLen(value)
	buf := make([]byte, n)
	v := uint64(value)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

// DecodeSigned decodes a big-endian two's complement integer of 1 to 8 octets
func DecodeSigned(data []byte) (int64, error) {
	if len(data) < 1 || len(data) > 8 {
		return 0, fmt.Errorf("%w: signed of %d octets", ErrTypeMismatch, len(data))
	}
	var v uint64
	if data[0]&0x80 != 0 {
		v = math.MaxUint64
	}
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return int64(v), nil
}

// EncodeReal encodes a float32
func EncodeReal(value float32) []byte {
	return binary.BigEndian.AppendUint32(nil, math.Float32bits(value))
}

// DecodeReal decodes a float32 from exactly 4 octets
func DecodeReal(data []byte) (float32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("%w: real of %d octets", ErrTypeMismatch, len(data))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
}

// EncodeDouble encodes a float64
func EncodeDouble(value float64) []byte {
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(value))
}

// DecodeDouble decodes a float64 from exactly 8 octets
func DecodeDouble(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: double of %d octets", ErrTypeMismatch, len(data))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
}

// EncodeBoolean encodes the content octet of a context tagged boolean.
// An application tagged boolean has no content; see EncodeBooleanTag.
func EncodeBoolean(value bool) []byte {
	if value {
		return []byte{1}
	}
	return []byte{0}
}

// EncodeBooleanTag encodes a boolean with application tag
func EncodeBooleanTag(value bool) []byte {
	if value {
		return []byte{0x11} // Boolean true, length 1, value 1
	}
	return []byte{0x10} // Boolean false, length 1, value 0
}

// DecodeBoolean decodes the single content octet of a context tagged boolean
func DecodeBoolean(data []byte) (bool, error) {
	if len(data) != 1 {
		return false, fmt.Errorf("%w: boolean of %d octets", ErrTypeMismatch, len(data))
	}
	return data[0] != 0, nil
}

// EncodeOctetString returns a copy of the octets
func EncodeOctetString(value []byte) []byte {
	return append([]byte(nil), value...)
}

// DecodeOctetString returns a copy of the octets
func DecodeOctetString(data []byte) []byte {
	return append([]byte{}, data...)
}

// CharacterString is a string together with its character set
type CharacterString struct {
	Charset CharacterSet
	Value   string
}

// NewCharacterString creates a UTF-8 character string
func NewCharacterString(s string) CharacterString {
	return CharacterString{Charset: CharacterSetUTF8, Value: s}
}

func (s CharacterString) String() string {
	return s.Value
}

// EncodeCharacterString encodes the character set octet and the string
func EncodeCharacterString(s CharacterString) []byte {
	data := make([]byte, 1+len(s.Value))
	data[0] = byte(s.Charset)
	copy(data[1:], s.Value)
	return data
}

// DecodeCharacterString decodes a character string. The first octet
// selects the character set.
func DecodeCharacterString(data []byte) (CharacterString, error) {
	if len(data) < 1 {
		return CharacterString{}, fmt.Errorf("%w: character string without character set", ErrTypeMismatch)
	}
	return CharacterString{
		Charset: CharacterSet(data[0]),
		Value:   string(data[1:]),
	}, nil
}

// BitString is an ordered sequence of bits. Bit 0 is the first bit on the wire.
type BitString struct {
	bits  int
	value []byte // bit i is bit (i % 8) of value[i/8]
}

// NewBitString creates a bit string of n cleared bits
func NewBitString(n int) BitString {
	if n < 0 {
		n = 0
	}
	return BitString{bits: n, value: make([]byte, (n+7)/8)}
}

// BitStringFromBools creates a bit string from a slice of bits
func BitStringFromBools(bools ...bool) BitString {
	b := NewBitString(len(bools))
	for i, v := range bools {
		b.Set(i, v)
	}
	return b
}

// Len returns the number of bits
func (b BitString) Len() int {
	return b.bits
}

// Bit returns bit i; bits past the end read as false
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= b.bits {
		return false
	}
	return b.value[i/8]&(1<<(i%8)) != 0
}

// Set sets bit i, growing the string when needed
func (b *BitString) Set(i int, v bool) {
	if i < 0 {
		return
	}
	if i >= b.bits {
		b.bits = i + 1
		for len(b.value) < (b.bits+7)/8 {
			b.value = append(b.value, 0)
		}
	}
	if v {
		b.value[i/8] |= 1 << (i % 8)
	} else {
		b.value[i/8] &^= 1 << (i % 8)
	}
}

// Equal reports whether both strings hold the same bits
func (b BitString) Equal(o BitString) bool {
	if b.bits != o.bits {
		return false
	}
	for i := 0; i < b.bits; i++ {
		if b.Bit(i) != o.Bit(i) {
			return false
		}
	}
	return true
}

func (b BitString) clone() BitString {
	return BitString{bits: b.bits, value: append([]byte(nil), b.value...)}
}

func (b BitString) String() string {
	var sb strings.Builder
	sb.Grow(b.bits)
	for i := 0; i < b.bits; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func bitStringLen(b BitString) int {
	return 1 + (b.bits+7)/8
}

// EncodeBitString encodes the unused bit count followed by the bits, the
// first bit in the most significant position of each octet
func EncodeBitString(b BitString) []byte {
	n := (b.bits + 7) / 8
	data := make([]byte, 1+n)
	data[0] = byte(n*8 - b.bits)
	for i := 0; i < n; i++ {
		data[1+i] = bits.Reverse8(b.value[i])
	}
	return data
}

// DecodeBitString decodes a bit string
func DecodeBitString(data []byte) (BitString, error) {
	if len(data) < 1 {
		return BitString{}, fmt.Errorf("%w: bit string without unused bit count", ErrTypeMismatch)
	}
	unused := int(data[0])
	n := len(data) - 1
	if unused > 7 || (n == 0 && unused != 0) {
		return BitString{}, fmt.Errorf("%w: %d unused bits in %d octets", ErrTypeMismatch, unused, n)
	}
	b := BitString{bits: n*8 - unused, value: make([]byte, n)}
	for i := 0; i < n; i++ {
		b.value[i] = bits.Reverse8(data[1+i])
	}
	// unused bits are not part of the value
	if unused > 0 {
		b.value[n-1] &= byte(0xFF) >> unused
	}
	return b, nil
}

// EncodeEnumerated encodes an enumerated value
func EncodeEnumerated(value uint32) []byte {
	return EncodeUnsigned(uint64(value))
}

// DecodeEnumerated decodes an enumerated value of 1 to 4 octets
func DecodeEnumerated(data []byte) (uint32, error) {
	if len(data) < 1 || len(data) > 4 {
		return 0, fmt.Errorf("%w: enumerated of %d octets", ErrTypeMismatch, len(data))
	}
	v, err := DecodeUnsigned(data)
	return uint32(v), err
}

// Unspecified is the wildcard value of every date and time field
const Unspecified = 0xFF

// Date is a BACnet date. Any field may be Unspecified. Weekday runs from
// 1 (Monday) to 7 (Sunday).
type Date struct {
	Year    uint16
	Month   uint8
	Day     uint8
	Weekday uint8
}

// NewDate creates a date and fills in its weekday
func NewDate(year int, month time.Month, day int) Date {
	wd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
	if wd == time.Sunday {
		wd = 7
	}
	return Date{Year: uint16(year), Month: uint8(month), Day: uint8(day), Weekday: uint8(wd)}
}

func (d Date) String() string {
	field := func(v uint8) string {
		if v == Unspecified {
			return "*"
		}
		return fmt.Sprintf("%02d", v)
	}
	year := "*"
	if d.Year != Unspecified {
		year = fmt.Sprintf("%04d", d.Year)
	}
	return fmt.Sprintf("%s-%s-%s/%s", year, field(d.Month), field(d.Day), field(d.Weekday))
}

// yearOctet maps a year to its wire octet. Years below 256 are passed
// through, which keeps two digit years and the wildcard intact.
func (d Date) yearOctet() (byte, error) {
	switch {
	case d.Year < 0x100:
		return byte(d.Year), nil
	case d.Year >= 1900 && d.Year < 1900+Unspecified:
		return byte(d.Year - 1900), nil
	}
	return 0, fmt.Errorf("%w: year %d", ErrValueOutOfRange, d.Year)
}

// EncodeDate encodes a date. Years outside 1900..2154 that are not
// below 256 fail with ErrValueOutOfRange.
func EncodeDate(d Date) ([]byte, error) {
	year, err := d.yearOctet()
	if err != nil {
		return nil, err
	}
	return []byte{year, d.Month, d.Day, d.Weekday}, nil
}

// DecodeDate decodes a date from exactly 4 octets
func DecodeDate(data []byte) (Date, error) {
	if len(data) != 4 {
		return Date{}, fmt.Errorf("%w: date of %d octets", ErrTypeMismatch, len(data))
	}
	d := Date{Year: Unspecified, Month: data[1], Day: data[2], Weekday: data[3]}
	if data[0] != Unspecified {
		d.Year = 1900 + uint16(data[0])
	}
	return d, nil
}

// Time is a BACnet time of day. Any field may be Unspecified.
type Time struct {
	Hour       uint8
	Minute     uint8
	Second     uint8
	Hundredths uint8
}

// NewTime creates a time of day
func NewTime(hour, minute, second, hundredths uint8) Time {
	return Time{Hour: hour, Minute: minute, Second: second, Hundredths: hundredths}
}

func (t Time) String() string {
	field := func(v uint8) string {
		if v == Unspecified {
			return "*"
		}
		return fmt.Sprintf("%02d", v)
	}
	return fmt.Sprintf("%s:%s:%s.%s", field(t.Hour), field(t.Minute), field(t.Second), field(t.Hundredths))
}

// EncodeTime encodes a time
func EncodeTime(t Time) []byte {
	return []byte{t.Hour, t.Minute, t.Second, t.Hundredths}
}

// DecodeTime decodes a time from exactly 4 octets
func DecodeTime(data []byte) (Time, error) {
	if len(data) != 4 {
		return Time{}, fmt.Errorf("%w: time of %d octets", ErrTypeMismatch, len(data))
	}
	return Time{Hour: data[0], Minute: data[1], Second: data[2], Hundredths: data[3]}, nil
}

// EncodeObjectIdentifier encodes an object identifier
func EncodeObjectIdentifier(oid ObjectIdentifier) []byte {
	return binary.BigEndian.AppendUint32(nil, oid.Encode())
}

// DecodeObjectIdentifierFromBytes decodes an object identifier from exactly 4 octets
func DecodeObjectIdentifierFromBytes(data []byte) (ObjectIdentifier, error) {
	if len(data) != 4 {
		return ObjectIdentifier{}, fmt.Errorf("%w: object identifier of %d octets", ErrTypeMismatch, len(data))
	}
	return DecodeObjectIdentifier(binary.BigEndian.Uint32(data)), nil
}

func (o ObjectIdentifier) validate() error {
	if o.Type > MaxObjectType || o.Instance > MaxInstance {
		return fmt.Errorf("%w: object identifier %d:%d", ErrValueOutOfRange, o.Type, o.Instance)
	}
	return nil
}
