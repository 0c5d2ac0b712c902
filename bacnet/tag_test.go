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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTag(t *testing.T) {
	testCases := []struct {
		name     string
		num      uint8
		class    TagClass
		lvt      uint32
		expected []byte
	}{
		{"application unsigned", 2, TagClassApplication, 1, []byte{0x21}},
		{"context four octets", 3, TagClassContext, 4, []byte{0x3C}},
		{"extended tag number", 20, TagClassContext, 2, []byte{0xFA, 20}},
		{"tag number 15", 15, TagClassContext, 0, []byte{0xF8, 15}},
		{"length 5", 7, TagClassApplication, 5, []byte{0x75, 5}},
		{"length 253", 6, TagClassApplication, 253, []byte{0x65, 253}},
		{"length 254", 6, TagClassApplication, 254, []byte{0x65, 254, 0x00, 0xFE}},
		{"length 65535", 6, TagClassApplication, 65535, []byte{0x65, 254, 0xFF, 0xFF}},
		{"length 65536", 6, TagClassApplication, 65536, []byte{0x65, 255, 0x00, 0x01, 0x00, 0x00}},
		{"extended number and length", 200, TagClassContext, 300, []byte{0xFD, 200, 254, 0x01, 0x2C}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			encoded := EncodeTag(tCase.num, tCase.class, tCase.lvt)
			assert.Equal(t, tCase.expected, encoded)
			assert.Equal(t, len(tCase.expected), TagLen(tCase.num, tCase.lvt))

			tag, n, err := DecodeTag(encoded)
			require.NoError(t, err)
			assert.Equal(t, len(encoded), n)
			assert.Equal(t, tCase.num, tag.Number)
			assert.Equal(t, tCase.class, tag.Class)
			assert.Equal(t, tCase.lvt, tag.LenValueType)
		})
	}
}

func TestTagRoundTrip(t *testing.T) {
	lengths := []uint32{0, 1, 4, 5, 253, 254, 0xFFFF, 0x10000, 0xFFFFFFFF}
	for _, class := range []TagClass{TagClassApplication, TagClassContext} {
		for num := 0; num <= 255; num++ {
			for _, lvt := range lengths {
				encoded := EncodeTag(uint8(num), class, lvt)
				tag, n, err := DecodeTag(encoded)
				require.NoError(t, err, "tag %d %s lvt %d", num, class, lvt)
				require.Equal(t, len(encoded), n)
				require.Equal(t, Tag{Number: uint8(num), Class: class, LenValueType: lvt}, tag)
			}
		}
	}
}

func TestOpeningClosingTags(t *testing.T) {
	testCases := []struct {
		num     uint8
		opening []byte
		closing []byte
	}{
		{0, []byte{0x0E}, []byte{0x0F}},
		{3, []byte{0x3E}, []byte{0x3F}},
		{14, []byte{0xEE}, []byte{0xEF}},
		{15, []byte{0xFE, 15}, []byte{0xFF, 15}},
		{254, []byte{0xFE, 254}, []byte{0xFF, 254}},
	}
	for _, tCase := range testCases {
		t.Run(fmt.Sprintf("tag %d", tCase.num), func(t *testing.T) {
			assert.Equal(t, tCase.opening, EncodeOpeningTag(tCase.num))
			assert.Equal(t, tCase.closing, EncodeClosingTag(tCase.num))

			tag, n, err := DecodeTag(tCase.opening)
			require.NoError(t, err)
			assert.Equal(t, len(tCase.opening), n)
			assert.True(t, tag.Opening)
			assert.False(t, tag.IsPrimitive())
			assert.Equal(t, tCase.num, tag.Number)

			tag, _, err = DecodeTag(tCase.closing)
			require.NoError(t, err)
			assert.True(t, tag.Closing)
			assert.Equal(t, tCase.num, tag.Number)

			assert.True(t, IsOpeningTag(tCase.opening))
			assert.True(t, IsClosingTag(tCase.closing))
			assert.True(t, IsOpeningTagNumber(tCase.opening, tCase.num))
			assert.False(t, IsOpeningTagNumber(tCase.opening, tCase.num+1))
			assert.True(t, IsClosingTagNumber(tCase.closing, tCase.num))
			assert.False(t, IsClosingTagNumber(tCase.opening, tCase.num))
			assert.False(t, IsContextTagNumber(tCase.opening, tCase.num))
		})
	}
}

func TestApplicationTagLVTSixAndSeven(t *testing.T) {
	// Only context tags use 6 and 7 for opening and closing
	tag, n, err := DecodeTag([]byte{0x66})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, tag.IsPrimitive())
	assert.Equal(t, uint32(6), tag.LenValueType)
}

func TestIsContextTagNumber(t *testing.T) {
	assert.True(t, IsContextTagNumber([]byte{0x3C, 0, 0, 0, 1}, 3))
	assert.False(t, IsContextTagNumber([]byte{0x3C, 0, 0, 0, 1}, 2))
	assert.False(t, IsContextTagNumber([]byte{0x34, 0, 0, 0, 1}, 3))
	assert.False(t, IsContextTagNumber(nil, 0))
	assert.False(t, IsOpeningTag(nil))
	assert.False(t, IsClosingTag([]byte{0x3E}))
}

func TestDecodeTagTruncated(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"missing tag number extension", []byte{0xF8}},
		{"missing length octet", []byte{0x65}},
		{"short 16-bit length", []byte{0x65, 254, 0x01}},
		{"short 32-bit length", []byte{0x65, 255, 0x00, 0x00, 0x01}},
		{"extended number then missing length", []byte{0xFD, 20}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			_, n, err := DecodeTag(tCase.data)
			assert.ErrorIs(t, err, ErrTruncated)
			assert.Zero(t, n)
		})
	}
}

func TestTagContentLen(t *testing.T) {
	assert.Equal(t, 0, Tag{Number: uint8(TagBoolean), LenValueType: 1}.ContentLen())
	assert.Equal(t, 1, Tag{Number: uint8(TagBoolean), Class: TagClassContext, LenValueType: 1}.ContentLen())
	assert.Equal(t, 4, Tag{Number: uint8(TagReal), LenValueType: 4}.ContentLen())
	assert.Equal(t, 0, Tag{Number: 3, Class: TagClassContext, Opening: true}.ContentLen())
}
