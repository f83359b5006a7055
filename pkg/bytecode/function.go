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
package bytecode

import (
	"fmt"
	"io"

	"github.com/consensys/go-zkmove/pkg/value"
)

// Function contains information about an executable guest function.  A
// function has some number of local slots, of which the first n are its
// parameters.  Additionally, a function declares how many values it leaves on
// the evaluation stack when it returns, and has a body of decoded
// instructions.  Functions are immutable once constructed and can be shared
// freely between frames.
type Function struct {
	// Unique name of this function.
	name string
	// Types of the parameters (i.e. the first locals).
	params []value.Type
	// Total number of local slots (including parameters).
	locals uint
	// Number of returned values.
	returns uint
	// Code defines the body of this function.
	code []Instruction
}

// NewFunction constructs a new function with the given components.
func NewFunction(name string, params []value.Type, locals, returns uint, code []Instruction) *Function {
	if locals < uint(len(params)) {
		panic(fmt.Sprintf("function %s has fewer locals (%d) than parameters (%d)", name, locals, len(params)))
	}
	//
	return &Function{name, params, locals, returns, code}
}

// Name returns the name of this function.
func (p *Function) Name() string {
	return p.name
}

// NumParams returns the number of parameters for this function.
func (p *Function) NumParams() uint {
	return uint(len(p.params))
}

// Parameters returns the types of the parameters for this function.
func (p *Function) Parameters() []value.Type {
	return p.params
}

// NumLocals returns the number of local slots (including parameters).
func (p *Function) NumLocals() uint {
	return p.locals
}

// NumReturns returns the number of values returned by this function.
func (p *Function) NumReturns() uint {
	return p.returns
}

// CodeAt returns the ith instruction making up the body of this function.
func (p *Function) CodeAt(i uint) Instruction {
	return p.code[i]
}

// Code returns the instructions making up the body of this function.
func (p *Function) Code() []Instruction {
	return p.code
}

// Disassemble writes the decoded instructions of this function, one per line.
func (p *Function) Disassemble(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Bytecode of function %q:\n", p.name); err != nil {
		return err
	}
	//
	for i, insn := range p.code {
		if _, err := fmt.Fprintf(w, "#%d, %s\n", i, insn.String()); err != nil {
			return err
		}
	}
	//
	return nil
}
