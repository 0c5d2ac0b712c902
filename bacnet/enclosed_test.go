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
)

func TestEnclosedDataLength(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected int
		err      error
	}{
		{"present value", presentValue, 4, nil},
		{"empty", []byte{0x3E, 0x3F}, 0, nil},
		{"nested same number", []byte{0x3E, 0x3E, 0x3F, 0x21, 0x01, 0x3F}, 4, nil},
		{"nested other number", []byte{0x3E, 0x0E, 0x21, 0x01, 0x0F, 0x3F}, 4, nil},
		{"closing of another number inside", []byte{0x3E, 0x0F, 0x3F}, 1, nil},
		{"extended tag number", []byte{0xFE, 0x14, 0x21, 0x01, 0xFF, 0x14}, 2, nil},
		{"trailing data", []byte{0x3E, 0x3F, 0x21, 0x01}, 0, nil},
		{"primitive first", []byte{0x21, 0x01}, 0, ErrMalformed},
		{"closing first", []byte{0x3F}, 0, ErrMalformed},
		{"missing closing tag", []byte{0x3E, 0x21, 0x01}, 0, ErrMissingClosingTag},
		{"nested missing closing tag", []byte{0x3E, 0x3E, 0x3F}, 0, ErrMissingClosingTag},
		{"truncated content", []byte{0x3E, 0x24, 0x00}, 0, ErrTruncated},
		{"empty data", nil, 0, ErrTruncated},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			n, err := EnclosedDataLength(tCase.data)
			if tCase.err != nil {
				assert.ErrorIs(t, err, tCase.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tCase.expected, n)
		})
	}
}

func TestEnclosedDataLengthSkipsUnknownContent(t *testing.T) {
	// octets that look like tags inside primitive content are not tags
	data := []byte{0x3E, 0x62, 0x3F, 0x3F, 0x3F}
	n, err := EnclosedDataLength(data)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEnclosedDataLengthLimit(t *testing.T) {
	_, err := NewDecoder(WithMaxAPDU(4)).EnclosedDataLength(presentValue)
	assert.ErrorIs(t, err, ErrBufferExceeded)
}
