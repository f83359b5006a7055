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

// ExitKind identifies why a block stopped executing.
type ExitKind uint8

const (
	// RETURN indicates the executing function returned.
	RETURN ExitKind = iota
	// CALL indicates the executing function called another function.
	CALL
	// CONDITIONAL_BRANCH indicates a conditional branch was reached whose
	// condition is unknown, hence both arms must be executed.
	CONDITIONAL_BRANCH
	// BRANCH_END indicates the last instruction of a branch arm was executed.
	BRANCH_END
)

// ExitStatus describes why a block returned control to its enclosing frame.
type ExitStatus[F field.Element[F]] struct {
	Kind ExitKind
	// Callee (for CALL only)
	Function uint16
	// Location of the branch (for CONDITIONAL_BRANCH) or of the final
	// instruction executed (for BRANCH_END).
	PC uint16
	// Branch condition (for CONDITIONAL_BRANCH only)
	Condition value.Value[F]
}

// ExitReturn constructs a RETURN exit status.
func ExitReturn[F field.Element[F]]() ExitStatus[F] {
	return ExitStatus[F]{Kind: RETURN, Condition: value.Invalid[F]()}
}

// ExitCall constructs a CALL exit status.
func ExitCall[F field.Element[F]](fn uint16) ExitStatus[F] {
	return ExitStatus[F]{Kind: CALL, Function: fn, Condition: value.Invalid[F]()}
}

// ExitConditionalBranch constructs a CONDITIONAL_BRANCH exit status.
func ExitConditionalBranch[F field.Element[F]](pc uint16, cond value.Value[F]) ExitStatus[F] {
	return ExitStatus[F]{Kind: CONDITIONAL_BRANCH, PC: pc, Condition: cond}
}

// ExitBranchEnd constructs a BRANCH_END exit status.
func ExitBranchEnd[F field.Element[F]](pc uint16) ExitStatus[F] {
	return ExitStatus[F]{Kind: BRANCH_END, PC: pc, Condition: value.Invalid[F]()}
}

func (p ExitStatus[F]) String() string {
	switch p.Kind {
	case RETURN:
		return "Return"
	case CALL:
		return fmt.Sprintf("Call(%d)", p.Function)
	case CONDITIONAL_BRANCH:
		return fmt.Sprintf("ConditionalBranch(%d)", p.PC)
	case BRANCH_END:
		return fmt.Sprintf("BranchEnd(%d)", p.PC)
	default:
		return "???"
	}
}
