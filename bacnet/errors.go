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
)

// Sentinel errors
var (
	ErrTruncated         = errors.New("bacnet: truncated data")
	ErrBufferExceeded    = errors.New("bacnet: buffer limit exceeded")
	ErrUnsupportedType   = errors.New("bacnet: unsupported datatype")
	ErrTypeMismatch      = errors.New("bacnet: length does not match datatype")
	ErrMissingClosingTag = errors.New("bacnet: missing closing tag")
	ErrMalformed         = errors.New("bacnet: malformed data")
	ErrNestingTooDeep    = errors.New("bacnet: constructed data nested too deep")
	ErrValueOutOfRange   = errors.New("bacnet: value out of range")

	// ErrNoMatch is returned when the next tag is not the one asked for.
	// Nothing is consumed, so the caller can probe for another tag.
	ErrNoMatch = errors.New("bacnet: tag does not match")
)

// DecodeError records where in a buffer decoding failed
type DecodeError struct {
	Offset   int
	Property PropertyIdentifier
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Property, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorClass represents BACnet error classes
type ErrorClass uint16

const (
	ErrorClassDevice        ErrorClass = 0
	ErrorClassObject        ErrorClass = 1
	ErrorClassProperty      ErrorClass = 2
	ErrorClassResources     ErrorClass = 3
	ErrorClassSecurity      ErrorClass = 4
	ErrorClassServices      ErrorClass = 5
	ErrorClassVT            ErrorClass = 6
	ErrorClassCommunication ErrorClass = 7
)

func (e ErrorClass) String() string {
	names := map[ErrorClass]string{
		ErrorClassDevice:        "device",
		ErrorClassObject:        "object",
		ErrorClassProperty:      "property",
		ErrorClassResources:     "resources",
		ErrorClassSecurity:      "security",
		ErrorClassServices:      "services",
		ErrorClassVT:            "vt",
		ErrorClassCommunication: "communication",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-class(%d)", e)
}

// ErrorCode represents the BACnet error codes a codec failure can map to
type ErrorCode uint16

const (
	ErrorCodeOther                    ErrorCode = 0
	ErrorCodeInconsistentParameters   ErrorCode = 7
	ErrorCodeInvalidDataType          ErrorCode = 9
	ErrorCodeInvalidParameterDataType ErrorCode = 13
	ErrorCodeMissingRequiredParameter ErrorCode = 16
	ErrorCodeValueOutOfRange          ErrorCode = 37
	ErrorCodeDatatypeNotSupported     ErrorCode = 47
	ErrorCodeInvalidTag               ErrorCode = 57
	ErrorCodeValueTooLong             ErrorCode = 72
	ErrorCodeAbortBufferOverflow      ErrorCode = 51
)

func (e ErrorCode) String() string {
	names := map[ErrorCode]string{
		ErrorCodeOther:                    "other",
		ErrorCodeInconsistentParameters:   "inconsistent-parameters",
		ErrorCodeInvalidDataType:          "invalid-data-type",
		ErrorCodeInvalidParameterDataType: "invalid-parameter-data-type",
		ErrorCodeMissingRequiredParameter: "missing-required-parameter",
		ErrorCodeValueOutOfRange:          "value-out-of-range",
		ErrorCodeDatatypeNotSupported:     "datatype-not-supported",
		ErrorCodeInvalidTag:               "invalid-tag",
		ErrorCodeValueTooLong:             "value-too-long",
		ErrorCodeAbortBufferOverflow:      "abort-buffer-overflow",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-code(%d)", e)
}

// BACnetError represents a BACnet protocol error
type BACnetError struct {
	Class ErrorClass
	Code  ErrorCode
}

func (e *BACnetError) Error() string {
	return fmt.Sprintf("bacnet error: class=%s, code=%s", e.Class, e.Code)
}

func (e *BACnetError) Is(target error) bool {
	t, ok := target.(*BACnetError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewBACnetError creates a new BACnet error
func NewBACnetError(class ErrorClass, code ErrorCode) *BACnetError {
	return &BACnetError{
		Class: class,
		Code:  code,
	}
}

// RejectReason represents BACnet reject reasons
type RejectReason uint8

const (
	RejectReasonOther                    RejectReason = 0
	RejectReasonBufferOverflow           RejectReason = 1
	RejectReasonInconsistentParameters   RejectReason = 2
	RejectReasonInvalidParameterDataType RejectReason = 3
	RejectReasonInvalidTag               RejectReason = 4
	RejectReasonMissingRequiredParameter RejectReason = 5
	RejectReasonParameterOutOfRange      RejectReason = 6
	RejectReasonTooManyArguments         RejectReason = 7
	RejectReasonUndefinedEnumeration     RejectReason = 8
	RejectReasonUnrecognizedService      RejectReason = 9
)

func (r RejectReason) String() string {
	names := map[RejectReason]string{
		RejectReasonOther:                    "other",
		RejectReasonBufferOverflow:           "buffer-overflow",
		RejectReasonInconsistentParameters:   "inconsistent-parameters",
		RejectReasonInvalidParameterDataType: "invalid-parameter-data-type",
		RejectReasonInvalidTag:               "invalid-tag",
		RejectReasonMissingRequiredParameter: "missing-required-parameter",
		RejectReasonParameterOutOfRange:      "parameter-out-of-range",
		RejectReasonTooManyArguments:         "too-many-arguments",
		RejectReasonUndefinedEnumeration:     "undefined-enumeration",
		RejectReasonUnrecognizedService:      "unrecognized-service",
	}
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("reject-reason(%d)", r)
}

// RejectReasonFor maps a codec error to the reject reason a service layer
// answers with when a request payload fails to decode.
func RejectReasonFor(err error) RejectReason {
	switch {
	case err == nil:
		return RejectReasonOther
	case errors.Is(err, ErrBufferExceeded):
		return RejectReasonBufferOverflow
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrMissingClosingTag):
		return RejectReasonMissingRequiredParameter
	case errors.Is(err, ErrTypeMismatch), errors.Is(err, ErrUnsupportedType):
		return RejectReasonInvalidParameterDataType
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrMalformed), errors.Is(err, ErrNestingTooDeep):
		return RejectReasonInvalidTag
	case errors.Is(err, ErrValueOutOfRange):
		return RejectReasonParameterOutOfRange
	}
	return RejectReasonOther
}

// ErrorFor maps a codec error to the error class and code of a
// WriteProperty error response. It returns nil for a nil error.
func ErrorFor(err error) *BACnetError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBufferExceeded):
		return NewBACnetError(ErrorClassCommunication, ErrorCodeAbortBufferOverflow)
	case errors.Is(err, ErrTypeMismatch):
		return NewBACnetError(ErrorClassProperty, ErrorCodeInvalidDataType)
	case errors.Is(err, ErrUnsupportedType):
		return NewBACnetError(ErrorClassProperty, ErrorCodeDatatypeNotSupported)
	case errors.Is(err, ErrValueOutOfRange):
		return NewBACnetError(ErrorClassProperty, ErrorCodeValueOutOfRange)
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrMissingClosingTag):
		return NewBACnetError(ErrorClassServices, ErrorCodeMissingRequiredParameter)
	}
	return NewBACnetError(ErrorClassServices, ErrorCodeInvalidTag)
}

// IsTruncated returns true if the buffer ended before the data did
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}

// IsNoMatch returns true if an optional tag was probed and not found
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsTypeMismatch returns true if a length did not fit its datatype
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}
