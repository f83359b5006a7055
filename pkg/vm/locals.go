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
	"fmt"

	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/value"
)

// Locals holds the local variable slots of a single function invocation.  A
// slot is either invalid (i.e. never written or moved out) or holds a value.
type Locals[F field.Element[F]] struct {
	slots []value.Value[F]
}

// NewLocals constructs a set of n local slots, all of which are initially
// invalid.
func NewLocals[F field.Element[F]](n uint) *Locals[F] {
	var slots = make([]value.Value[F], n)
	//
	for i := range slots {
		slots[i] = value.Invalid[F]()
	}
	//
	return &Locals[F]{slots}
}

// Len returns the number of slots.
func (p *Locals[F]) Len() uint {
	return uint(len(p.slots))
}

// Copy returns the value held in a given slot, leaving it in place.
func (p *Locals[F]) Copy(index uint) (value.Value[F], error) {
	if index >= p.Len() {
		return value.Invalid[F](), outOfBounds(index, p.Len())
	} else if !p.slots[index].IsValid() {
		return value.Invalid[F](), NewError(COPY_LOCAL_ERROR).WithMessage(fmt.Sprintf("local %d is invalid", index))
	}
	//
	return p.slots[index], nil
}

// Move returns the value held in a given slot, after which that slot is
// invalid.
func (p *Locals[F]) Move(index uint) (value.Value[F], error) {
	if index >= p.Len() {
		return value.Invalid[F](), outOfBounds(index, p.Len())
	} else if !p.slots[index].IsValid() {
		return value.Invalid[F](), NewError(MOVE_LOCAL_ERROR).WithMessage(fmt.Sprintf("local %d is invalid", index))
	}
	//
	var val = p.slots[index]
	p.slots[index] = value.Invalid[F]()
	//
	return val, nil
}

// Store overwrites a given slot.  Whatever the slot previously held is
// discarded.
func (p *Locals[F]) Store(index uint, val value.Value[F]) error {
	if index >= p.Len() {
		return outOfBounds(index, p.Len())
	}
	//
	p.slots[index] = val
	//
	return nil
}

func outOfBounds(index uint, n uint) error {
	return NewError(OUT_OF_BOUNDS).WithMessage(fmt.Sprintf("local %d out of bounds (%d locals)", index, n))
}

// LocalsId identifies a set of locals within a table.
type LocalsId uint

// LocalsTable is an arena owning the locals of every live frame.  Frames and
// the blocks within them refer to their locals by identifier, such that every
// block of a frame shares exactly the same slots.
type LocalsTable[F field.Element[F]] struct {
	entries []*Locals[F]
	free    []LocalsId
}

// NewLocalsTable constructs an empty locals table.
func NewLocalsTable[F field.Element[F]]() *LocalsTable[F] {
	return &LocalsTable[F]{}
}

// Alloc allocates a fresh set of n invalid local slots.
func (p *LocalsTable[F]) Alloc(n uint) LocalsId {
	var locals = NewLocals[F](n)
	//
	if len(p.free) > 0 {
		id := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.entries[id] = locals
		//
		return id
	}
	//
	p.entries = append(p.entries, locals)
	//
	return LocalsId(len(p.entries) - 1)
}

// Get returns the locals with a given identifier.
func (p *LocalsTable[F]) Get(id LocalsId) *Locals[F] {
	return p.entries[id]
}

// Release returns a set of locals to the table, such that its identifier can
// be reused.
func (p *LocalsTable[F]) Release(id LocalsId) {
	p.entries[id] = nil
	p.free = append(p.free, id)
}

// Live returns the number of locals currently allocated.
func (p *LocalsTable[F]) Live() uint {
	return uint(len(p.entries) - len(p.free))
}
