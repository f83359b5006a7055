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
package stack

import "errors"

// ErrOverflow is returned when pushing onto a stack which is already at
// capacity.
var ErrOverflow = errors.New("stack overflow")

// ErrUnderflow is returned when popping from an empty stack.
var ErrUnderflow = errors.New("stack underflow")

// Stack represents a reusable LIFO stack which is implemented using an array.
// A stack may optionally be bounded, in which case it holds at most a fixed
// number of items.
type Stack[T any] struct {
	items []T
	// Maximum number of items, where 0 means unbounded.
	capacity uint
}

// NewStack returns an empty (unbounded) stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewBoundedStack returns an empty stack which can hold at most n items.
func NewBoundedStack[T any](n uint) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, min(n, 64)), capacity: n}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Capacity returns the maximum number of items this stack can hold, or 0 if
// it is unbounded.
func (p *Stack[T]) Capacity() uint {
	return p.capacity
}

// Peek at nth item from top of stack.  This returns false if there is no such
// item.
func (p *Stack[T]) Peek(offset uint) (T, bool) {
	var (
		n     = len(p.items) - int(offset) - 1
		empty T
	)
	//
	if n < 0 {
		return empty, false
	}
	//
	return p.items[n], true
}

// Top returns a pointer to the item on top of the stack, or nil if the stack
// is empty.  The item may be updated in place through this pointer.
func (p *Stack[T]) Top() *T {
	if len(p.items) == 0 {
		return nil
	}
	//
	return &p.items[len(p.items)-1]
}

// Push a new item onto the stack, failing if the stack is at capacity.
func (p *Stack[T]) Push(item T) error {
	if p.capacity != 0 && uint(len(p.items)) >= p.capacity {
		return ErrOverflow
	}
	//
	p.items = append(p.items, item)
	//
	return nil
}

// Pop the last item off the stack, failing if the stack is empty.
func (p *Stack[T]) Pop() (T, error) {
	var (
		n     = len(p.items)
		empty T
	)
	//
	if n == 0 {
		return empty, ErrUnderflow
	}
	// Get last item
	item := p.items[n-1]
	// Clear the slot so it can be collected
	p.items[n-1] = empty
	// Remove last item
	p.items = p.items[:n-1]
	// Done
	return item, nil
}

// Items returns the items on the stack from bottom to top.  The returned slice
// must not be modified.
func (p *Stack[T]) Items() []T {
	return p.items
}
