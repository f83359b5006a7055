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

import "math"

// Module is a table of functions, where the position of a function in the
// table is the index used by Call instructions to refer to it.
type Module struct {
	functions []*Function
}

// NewModule constructs a module from a given set of functions.
func NewModule(functions ...*Function) *Module {
	return &Module{functions}
}

// Function returns the function with the given index, or false if no such
// function exists.
func (p *Module) Function(index uint16) (*Function, bool) {
	if int(index) >= len(p.functions) {
		return nil, false
	}
	//
	return p.functions[index], true
}

// Functions returns all functions in this module.
func (p *Module) Functions() []*Function {
	return p.functions
}

// Find checks whether a function with the given name exists and, if so,
// returns its index.  Otherwise, it returns false.
func (p *Module) Find(name string) (uint16, bool) {
	for i, f := range p.functions {
		if f.Name() == name {
			return uint16(i), true
		}
	}
	// Failed
	return math.MaxUint16, false
}
