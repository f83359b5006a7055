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

	"github.com/holiman/uint256"
)

// Opcode identifies the kind of a decoded guest instruction.
type Opcode uint8

const (
	// LD_U8 pushes an 8bit literal.
	LD_U8 Opcode = iota
	// LD_U64 pushes a 64bit literal.
	LD_U64
	// LD_U128 pushes a 128bit literal.
	LD_U128
	// LD_TRUE pushes the boolean literal true.
	LD_TRUE
	// LD_FALSE pushes the boolean literal false.
	LD_FALSE
	// POP discards the top of the evaluation stack.
	POP
	// ADD pops two operands and pushes their sum.
	ADD
	// SUB pops two operands and pushes their difference.
	SUB
	// MUL pops two operands and pushes their product.
	MUL
	// EQ pops two operands and pushes whether they are equal.
	EQ
	// RET returns from the current function.
	RET
	// CALL invokes the function with a given index.
	CALL
	// COPY_LOC pushes a copy of a local.
	COPY_LOC
	// ST_LOC pops a value into a local.
	ST_LOC
	// MOVE_LOC moves a local onto the stack, invalidating the local.
	MOVE_LOC
	// BR_TRUE pops a condition and branches if it holds.
	BR_TRUE
	// BR_FALSE pops a condition and branches if it does not hold.
	BR_FALSE
	// BRANCH unconditionally branches.
	BRANCH
	// ABORT pops an error code and aborts execution.
	ABORT
)

var opcodeNames = [...]string{
	LD_U8:    "LdU8",
	LD_U64:   "LdU64",
	LD_U128:  "LdU128",
	LD_TRUE:  "LdTrue",
	LD_FALSE: "LdFalse",
	POP:      "Pop",
	ADD:      "Add",
	SUB:      "Sub",
	MUL:      "Mul",
	EQ:       "Eq",
	RET:      "Ret",
	CALL:     "Call",
	COPY_LOC: "CopyLoc",
	ST_LOC:   "StLoc",
	MOVE_LOC: "MoveLoc",
	BR_TRUE:  "BrTrue",
	BR_FALSE: "BrFalse",
	BRANCH:   "Branch",
	ABORT:    "Abort",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	//
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// ParseOpcode determines the opcode with a given name.
func ParseOpcode(name string) (Opcode, bool) {
	for i, n := range opcodeNames {
		if n == name {
			return Opcode(i), true
		}
	}
	//
	return 0, false
}

// OperandWidth returns the maximum bitwidth of the operand carried by
// instructions with this opcode, or zero if they carry none.
func (op Opcode) OperandWidth() uint {
	switch op {
	case LD_U8, COPY_LOC, ST_LOC, MOVE_LOC:
		return 8
	case CALL, BR_TRUE, BR_FALSE, BRANCH:
		return 16
	case LD_U64:
		return 64
	case LD_U128:
		return 128
	default:
		return 0
	}
}

// HasOperand determines whether instructions with this opcode carry an
// immediate operand.
func (op Opcode) HasOperand() bool {
	switch op {
	case LD_U8, LD_U64, LD_U128, CALL, COPY_LOC, ST_LOC, MOVE_LOC, BR_TRUE, BR_FALSE, BRANCH:
		return true
	default:
		return false
	}
}

// Instruction represents a single decoded guest instruction.
type Instruction struct {
	Opcode Opcode
	// Operand holds the immediate argument (if any).  Depending on the opcode
	// this is a literal, a local index, a branch target or a function index.
	Operand uint256.Int
}

// LdU8 constructs an instruction loading an 8bit literal.
func LdU8(v uint8) Instruction {
	return withOperand(LD_U8, uint64(v))
}

// LdU64 constructs an instruction loading a 64bit literal.
func LdU64(v uint64) Instruction {
	return withOperand(LD_U64, v)
}

// LdU128 constructs an instruction loading a 128bit literal.  The literal is
// not checked to fit within 128 bits.
func LdU128(v *uint256.Int) Instruction {
	return Instruction{LD_U128, *v}
}

// LdTrue constructs an instruction loading true.
func LdTrue() Instruction { return Instruction{Opcode: LD_TRUE} }

// LdFalse constructs an instruction loading false.
func LdFalse() Instruction { return Instruction{Opcode: LD_FALSE} }

// Pop constructs an instruction discarding the top of the stack.
func Pop() Instruction { return Instruction{Opcode: POP} }

// Add constructs an addition instruction.
func Add() Instruction { return Instruction{Opcode: ADD} }

// Sub constructs a subtraction instruction.
func Sub() Instruction { return Instruction{Opcode: SUB} }

// Mul constructs a multiplication instruction.
func Mul() Instruction { return Instruction{Opcode: MUL} }

// Eq constructs an equality instruction.
func Eq() Instruction { return Instruction{Opcode: EQ} }

// Ret constructs a return instruction.
func Ret() Instruction { return Instruction{Opcode: RET} }

// Abort constructs an abort instruction.
func Abort() Instruction { return Instruction{Opcode: ABORT} }

// Call constructs an instruction invoking the function with a given index.
func Call(index uint16) Instruction {
	return withOperand(CALL, uint64(index))
}

// CopyLoc constructs an instruction copying a given local.
func CopyLoc(index uint8) Instruction {
	return withOperand(COPY_LOC, uint64(index))
}

// StLoc constructs an instruction storing into a given local.
func StLoc(index uint8) Instruction {
	return withOperand(ST_LOC, uint64(index))
}

// MoveLoc constructs an instruction moving out of a given local.
func MoveLoc(index uint8) Instruction {
	return withOperand(MOVE_LOC, uint64(index))
}

// BrTrue constructs a branch taken when the popped condition holds.
func BrTrue(target uint16) Instruction {
	return withOperand(BR_TRUE, uint64(target))
}

// BrFalse constructs a branch taken when the popped condition does not hold.
func BrFalse(target uint16) Instruction {
	return withOperand(BR_FALSE, uint64(target))
}

// Branch constructs an unconditional branch.
func Branch(target uint16) Instruction {
	return withOperand(BRANCH, uint64(target))
}

func withOperand(op Opcode, v uint64) Instruction {
	var insn = Instruction{Opcode: op}
	//
	insn.Operand.SetUint64(v)
	//
	return insn
}

// Target returns the branch target of a branch instruction.
func (p Instruction) Target() uint16 {
	return uint16(p.Operand.Uint64())
}

// Index returns the local or function index of an instruction.
func (p Instruction) Index() uint16 {
	return uint16(p.Operand.Uint64())
}

// IsConditionalBranch checks whether this is a BrTrue or BrFalse.
func (p Instruction) IsConditionalBranch() bool {
	return p.Opcode == BR_TRUE || p.Opcode == BR_FALSE
}

// IsBranch checks whether this instruction can transfer control to anywhere
// other than the following instruction.
func (p Instruction) IsBranch() bool {
	switch p.Opcode {
	case BR_TRUE, BR_FALSE, BRANCH, RET, CALL, ABORT:
		return true
	default:
		return false
	}
}

func (p Instruction) String() string {
	if p.Opcode.HasOperand() {
		return fmt.Sprintf("%s(%s)", p.Opcode, p.Operand.Dec())
	}
	//
	return p.Opcode.String()
}
