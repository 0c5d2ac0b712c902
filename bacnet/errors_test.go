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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectReasonFor(t *testing.T) {
	testCases := []struct {
		err      error
		expected RejectReason
	}{
		{nil, RejectReasonOther},
		{ErrBufferExceeded, RejectReasonBufferOverflow},
		{ErrTruncated, RejectReasonMissingRequiredParameter},
		{ErrMissingClosingTag, RejectReasonMissingRequiredParameter},
		{ErrTypeMismatch, RejectReasonInvalidParameterDataType},
		{ErrUnsupportedType, RejectReasonInvalidParameterDataType},
		{ErrNoMatch, RejectReasonInvalidTag},
		{ErrMalformed, RejectReasonInvalidTag},
		{ErrNestingTooDeep, RejectReasonInvalidTag},
		{ErrValueOutOfRange, RejectReasonParameterOutOfRange},
		{errors.New("other"), RejectReasonOther},
		{&DecodeError{Offset: 3, Err: fmt.Errorf("%w: context", ErrTypeMismatch)}, RejectReasonInvalidParameterDataType},
	}
	for _, tCase := range testCases {
		assert.Equal(t, tCase.expected, RejectReasonFor(tCase.err), "%v", tCase.err)
	}
}

func TestErrorFor(t *testing.T) {
	assert.Nil(t, ErrorFor(nil))

	testCases := []struct {
		err   error
		class ErrorClass
		code  ErrorCode
	}{
		{ErrBufferExceeded, ErrorClassCommunication, ErrorCodeAbortBufferOverflow},
		{ErrTypeMismatch, ErrorClassProperty, ErrorCodeInvalidDataType},
		{ErrUnsupportedType, ErrorClassProperty, ErrorCodeDatatypeNotSupported},
		{ErrValueOutOfRange, ErrorClassProperty, ErrorCodeValueOutOfRange},
		{ErrTruncated, ErrorClassServices, ErrorCodeMissingRequiredParameter},
		{ErrMalformed, ErrorClassServices, ErrorCodeInvalidTag},
	}
	for _, tCase := range testCases {
		bacErr := ErrorFor(tCase.err)
		assert.Equal(t, tCase.class, bacErr.Class, "%v", tCase.err)
		assert.Equal(t, tCase.code, bacErr.Code, "%v", tCase.err)
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	err := &DecodeError{Offset: 7, Property: PropertyDateList, Err: fmt.Errorf("%w: date of 3 octets", ErrTypeMismatch)}
	assert.True(t, IsTypeMismatch(err))
	assert.False(t, IsTruncated(err))
	assert.Equal(t, "decode date-list at offset 7: bacnet: length does not match datatype: date of 3 octets", err.Error())
}

func TestBACnetErrorIs(t *testing.T) {
	err := fmt.Errorf("write failed: %w", NewBACnetError(ErrorClassProperty, ErrorCodeValueOutOfRange))
	assert.ErrorIs(t, err, NewBACnetError(ErrorClassProperty, ErrorCodeValueOutOfRange))
	assert.NotErrorIs(t, err, NewBACnetError(ErrorClassProperty, ErrorCodeInvalidDataType))
	assert.Equal(t, "bacnet error: class=property, code=value-out-of-range", errors.Unwrap(err).Error())
	assert.Equal(t, "error-code(200)", ErrorCode(200).String())
}
