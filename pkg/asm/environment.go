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
package asm

import (
	"math"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/source/lex"
)

// Label represents a potentially unresolved branch target within a function.
type Label struct {
	// Name of the label
	name string
	// PC position the label represents.  This will be math.MaxUint until the
	// label is declared.
	pc uint
}

// UnboundLabel constructs a label whose PC location is (as yet) unknown.
func UnboundLabel(name string) Label {
	return Label{name, math.MaxUint}
}

// BoundLabel constructs a label whose PC location is known.
func BoundLabel(name string, pc uint) Label {
	return Label{name, pc}
}

// Fixup records a use of a symbolic operand, which is patched once all
// symbols are known.
type Fixup struct {
	// Position of the instruction to patch
	pc uint
	// Symbol to resolve
	name string
	// Token of the symbol (for error reporting)
	token lex.Token
}

// Environment captures the labels of the function being assembled, along with
// every branch whose target is a label.
type Environment struct {
	labels []Label
	fixups []Fixup
}

// BindLabel records a branch at a given position to a label which may not yet
// be declared.
func (p *Environment) BindLabel(pc uint, name string, token lex.Token) {
	p.fixups = append(p.fixups, Fixup{pc, name, token})
	//
	for _, lab := range p.labels {
		if lab.name == name {
			return
		}
	}
	//
	p.labels = append(p.labels, UnboundLabel(name))
}

// DeclareLabel declares a given label at a given program counter position,
// returning false if it was already declared.
func (p *Environment) DeclareLabel(name string, pc uint) bool {
	for i, lab := range p.labels {
		if lab.name != name {
			continue
		} else if lab.pc != math.MaxUint {
			return false
		}
		//
		p.labels[i].pc = pc
		//
		return true
	}
	//
	p.labels = append(p.labels, BoundLabel(name, pc))
	//
	return true
}

// IsBoundLabel checks whether or not a given label has been declared.
func (p *Environment) IsBoundLabel(name string) bool {
	for _, l := range p.labels {
		if l.name == name && l.pc != math.MaxUint {
			return true
		}
	}
	//
	return false
}

// BindLabels patches the target of every branch to a label.  The first branch
// to an undeclared label is returned, if any.
func (p *Environment) BindLabels(code []bytecode.Instruction) (Fixup, bool) {
	for _, fixup := range p.fixups {
		pc, ok := p.lookup(fixup.name)
		if !ok {
			return fixup, false
		}
		//
		code[fixup.pc].Operand.SetUint64(uint64(pc))
	}
	//
	return Fixup{}, true
}

func (p *Environment) lookup(name string) (uint, bool) {
	for _, l := range p.labels {
		if l.name == name && l.pc != math.MaxUint {
			return l.pc, true
		}
	}
	//
	return 0, false
}
