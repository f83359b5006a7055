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
	"github.com/consensys/go-zkmove/pkg/util/collection/stack"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/value"
)

// EvalStack is the bounded stack of operands shared by every frame.
type EvalStack[F field.Element[F]] struct {
	items *stack.Stack[value.Value[F]]
}

// NewEvalStack constructs an empty evaluation stack holding at most n values,
// where zero gives the default of EVAL_STACK_SIZE.
func NewEvalStack[F field.Element[F]](n uint) *EvalStack[F] {
	if n == 0 {
		n = EVAL_STACK_SIZE
	}
	//
	return &EvalStack[F]{stack.NewBoundedStack[value.Value[F]](n)}
}

// Len returns the number of values on the stack.
func (p *EvalStack[F]) Len() uint {
	return p.items.Len()
}

// Push a value onto the stack, failing if the stack is full.
func (p *EvalStack[F]) Push(val value.Value[F]) error {
	if p.items.Push(val) != nil {
		return NewError(STACK_OVERFLOW)
	}
	//
	return nil
}

// Pop the topmost value from the stack, failing if the stack is empty.
func (p *EvalStack[F]) Pop() (value.Value[F], error) {
	val, err := p.items.Pop()
	//
	if err != nil {
		return val, NewError(STACK_UNDERFLOW)
	}
	//
	return val, nil
}

// Top returns the topmost value, or nil if the stack is empty.
func (p *EvalStack[F]) Top() *value.Value[F] {
	return p.items.Top()
}

// CallStack is the bounded stack of active frames, where the topmost frame is
// the one executing.
type CallStack[F field.Element[F]] struct {
	frames *stack.Stack[*Frame[F]]
}

// NewCallStack constructs an empty call stack holding at most n frames, where
// zero gives the default of CALL_STACK_SIZE.
func NewCallStack[F field.Element[F]](n uint) *CallStack[F] {
	if n == 0 {
		n = CALL_STACK_SIZE
	}
	//
	return &CallStack[F]{stack.NewBoundedStack[*Frame[F]](n)}
}

// Len returns the number of active frames.
func (p *CallStack[F]) Len() uint {
	return p.frames.Len()
}

// Push a frame, failing if the call stack is full.
func (p *CallStack[F]) Push(frame *Frame[F]) error {
	if p.frames.Push(frame) != nil {
		return NewError(STACK_OVERFLOW).WithMessage("call stack")
	}
	//
	return nil
}

// Pop the topmost frame, failing if the call stack is empty.
func (p *CallStack[F]) Pop() (*Frame[F], error) {
	frame, err := p.frames.Pop()
	//
	if err != nil {
		return nil, NewError(STACK_UNDERFLOW).WithMessage("call stack")
	}
	//
	return frame, nil
}

// Top returns the executing frame, or nil if there are no frames.
func (p *CallStack[F]) Top() *Frame[F] {
	if top := p.frames.Top(); top != nil {
		return *top
	}
	//
	return nil
}
