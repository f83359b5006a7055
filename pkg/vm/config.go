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

import "fmt"

// EVAL_STACK_SIZE is the default bound on the evaluation stack.
const EVAL_STACK_SIZE = 256

// CALL_STACK_SIZE is the default bound on the call stack.
const CALL_STACK_SIZE = 256

// Mode determines what an interpretation pass is building.
type Mode uint8

const (
	// WITNESS mode requires every value to be known, and computes the
	// concrete assignment of every wire for one execution.
	WITNESS Mode = iota
	// STRUCTURE mode builds the fixed shape of the circuit without any
	// input.  Both arms of every branch on an unknown condition are
	// constrained.
	STRUCTURE
)

func (m Mode) String() string {
	switch m {
	case WITNESS:
		return "witness"
	case STRUCTURE:
		return "structure"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode converts a mode name into a mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "witness":
		return WITNESS, nil
	case "structure":
		return STRUCTURE, nil
	default:
		return WITNESS, fmt.Errorf("unknown mode \"%s\"", name)
	}
}

// Config captures the configurable aspects of an interpreter.
type Config struct {
	// Mode of interpretation.
	Mode Mode
	// Maximum number of values on the evaluation stack.
	EvalStackSize uint
	// Maximum number of frames on the call stack.
	CallStackSize uint
}

// DefaultConfig returns the default configuration, which runs in witness mode
// with the standard stack bounds.
func DefaultConfig() Config {
	return Config{WITNESS, EVAL_STACK_SIZE, CALL_STACK_SIZE}
}

// WithMode returns a config updated with the given mode, but which is
// otherwise identical to before.
func (c Config) WithMode(mode Mode) Config {
	var config = c
	//
	config.Mode = mode
	//
	return config
}
