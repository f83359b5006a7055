// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package vm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// StatusCode identifies the kind of failure which aborted interpretation.
// None of these are recoverable: any error aborts the whole interpretation
// pass.
type StatusCode uint8

const (
	// STACK_OVERFLOW indicates the evaluation or call stack bound was exceeded.
	STACK_OVERFLOW StatusCode = iota + 1
	// STACK_UNDERFLOW indicates a pop from an empty evaluation or call stack.
	STACK_UNDERFLOW
	// OUT_OF_BOUNDS indicates an index (e.g. of a local) outside its valid
	// range.
	OUT_OF_BOUNDS
	// COPY_LOCAL_ERROR indicates a copy from an invalid local slot.
	COPY_LOCAL_ERROR
	// MOVE_LOCAL_ERROR indicates a move from an invalid local slot.
	MOVE_LOCAL_ERROR
	// SYNTHESIS_ERROR indicates the constraint system failed to allocate a wire
	// or record a constraint.
	SYNTHESIS_ERROR
	// VALUE_CONVERSION_ERROR indicates a concrete value was required but none
	// was available.
	VALUE_CONVERSION_ERROR
	// PROGRAM_BLOCK_ERROR indicates the bytecode around a conditional branch
	// did not have the expected shape.
	PROGRAM_BLOCK_ERROR
	// SHOULD_NOT_REACH_HERE indicates an internal invariant was violated.
	SHOULD_NOT_REACH_HERE
	// MOVE_ABORT indicates the guest program explicitly aborted.
	MOVE_ABORT
)

func (c StatusCode) String() string {
	switch c {
	case STACK_OVERFLOW:
		return "StackOverflow"
	case STACK_UNDERFLOW:
		return "StackUnderflow"
	case OUT_OF_BOUNDS:
		return "OutOfBounds"
	case COPY_LOCAL_ERROR:
		return "CopyLocalError"
	case MOVE_LOCAL_ERROR:
		return "MoveLocalError"
	case SYNTHESIS_ERROR:
		return "SynthesisError"
	case VALUE_CONVERSION_ERROR:
		return "ValueConversionError"
	case PROGRAM_BLOCK_ERROR:
		return "ProgramBlockError"
	case SHOULD_NOT_REACH_HERE:
		return "ShouldNotReachHere"
	case MOVE_ABORT:
		return "MoveAbort"
	default:
		return fmt.Sprintf("StatusCode(%d)", uint8(c))
	}
}

// RuntimeError is the tagged failure returned by the interpreter.  Two runtime
// errors are considered the same (i.e. by errors.Is) when they have the same
// status code.
type RuntimeError struct {
	code    StatusCode
	message string
	cause   error
	// Only present for MOVE_ABORT
	abortCode *uint256.Int
}

// NewError constructs a runtime error with a given status code.
func NewError(code StatusCode) *RuntimeError {
	return &RuntimeError{code: code}
}

// NewAbortError constructs the error raised by an Abort instruction.
func NewAbortError(code *uint256.Int) *RuntimeError {
	return &RuntimeError{
		code:      MOVE_ABORT,
		message:   fmt.Sprintf("Move bytecode aborted with error code %s", code.Dec()),
		abortCode: code,
	}
}

// WithMessage returns a copy of this error with a given message attached.
func (e *RuntimeError) WithMessage(msg string) *RuntimeError {
	var err = *e
	//
	err.message = msg
	//
	return &err
}

// WithCause returns a copy of this error which wraps an underlying cause.
func (e *RuntimeError) WithCause(cause error) *RuntimeError {
	var err = *e
	//
	err.cause = cause
	//
	return &err
}

// Code returns the status code of this error.
func (e *RuntimeError) Code() StatusCode {
	return e.code
}

// Message returns the message attached to this error (if any).
func (e *RuntimeError) Message() string {
	return e.message
}

// AbortCode returns the code carried by a MOVE_ABORT error.
func (e *RuntimeError) AbortCode() (*uint256.Int, bool) {
	return e.abortCode, e.abortCode != nil
}

func (e *RuntimeError) Error() string {
	var msg = e.code.String()
	//
	if e.message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.message)
	}
	//
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	//
	return msg
}

// Unwrap returns the underlying cause (if any).
func (e *RuntimeError) Unwrap() error {
	return e.cause
}

// Is matches any runtime error with the same status code.
func (e *RuntimeError) Is(target error) bool {
	var other *RuntimeError
	//
	if errors.As(target, &other) {
		return other.code == e.code
	}
	//
	return false
}

// StatusOf extracts the status code of a runtime error, or returns false if
// the given error is not a runtime error.
func StatusOf(err error) (StatusCode, bool) {
	var rerr *RuntimeError
	//
	if errors.As(err, &rerr) {
		return rerr.code, true
	}
	//
	return 0, false
}
