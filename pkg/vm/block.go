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

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
)

// Block is a contiguous range of instructions within a function, executed with
// a program counter.  The body of a function is an unbounded block, whilst
// the arms of a conditional branch are bounded blocks which end (inclusively)
// at a given instruction.  All blocks of a frame share the same locals.
type Block[F field.Element[F]] struct {
	pc    uint16
	start uint16
	// Last instruction of this block (when bounded)
	end     uint16
	bounded bool
	locals  LocalsId
	fn      *bytecode.Function
}

// NewBlock constructs an unbounded block starting at a given instruction.
func NewBlock[F field.Element[F]](fn *bytecode.Function, start uint16, locals LocalsId) Block[F] {
	return Block[F]{start, start, 0, false, locals, fn}
}

// NewBoundedBlock constructs a block covering the instructions [start, end]
// inclusive.
func NewBoundedBlock[F field.Element[F]](fn *bytecode.Function, start, end uint16, locals LocalsId) Block[F] {
	return Block[F]{start, start, end, true, locals, fn}
}

// PC returns the program counter of this block.
func (p *Block[F]) PC() uint16 {
	return p.pc
}

// SetPC sets the program counter of this block.
func (p *Block[F]) SetPC(pc uint16) {
	p.pc = pc
}

// AddPC advances the program counter of this block.
func (p *Block[F]) AddPC(n uint16) {
	p.pc += n
}

// Start returns the first instruction of this block.
func (p *Block[F]) Start() uint16 {
	return p.start
}

// End returns the last instruction of this block, or false if this block is
// unbounded.
func (p *Block[F]) End() (uint16, bool) {
	return p.end, p.bounded
}

// AtEnd checks whether the program counter is on the last instruction of this
// block.
func (p *Block[F]) AtEnd() bool {
	return p.bounded && p.pc == p.end
}

// Locals returns the identifier of the locals used by this block.
func (p *Block[F]) Locals() LocalsId {
	return p.locals
}

// Execute instructions from the current program counter until control must
// leave this block.  That happens on a return or call, on a conditional branch
// whose condition is unknown, or after executing the last instruction of a
// bounded block.  Jumps do not count as executing the last instruction.
func (p *Block[F]) Execute(interp *Interpreter[F]) (ExitStatus[F], error) {
	var (
		code   = p.fn.Code()
		locals = interp.locals.Get(p.locals)
	)
	//
	for {
		if int(p.pc) >= len(code) {
			return ExitReturn[F](), NewError(OUT_OF_BOUNDS).WithMessage(
				fmt.Sprintf("pc %d beyond end of function %s", p.pc, p.fn.Name()))
		}
		//
		insn := code[p.pc]
		step := interp.nextStep()
		ns := fmt.Sprintf("step#%d", step)
		//
		log.WithFields(log.Fields{
			"step":     step,
			"function": p.fn.Name(),
			"pc":       p.pc,
			"insn":     insn.String(),
		}).Debug("execute")
		//
		switch insn.Opcode {
		case bytecode.LD_U8, bytecode.LD_U64, bytecode.LD_U128, bytecode.LD_TRUE, bytecode.LD_FALSE:
			val, ty := literal[F](insn)
			//
			c, err := interp.chip.LoadConstant(ns, val, ty)
			if err != nil {
				return ExitReturn[F](), NewError(SYNTHESIS_ERROR).WithCause(err)
			} else if err := interp.stack.Push(c); err != nil {
				return ExitReturn[F](), err
			}
		case bytecode.POP:
			if _, err := interp.stack.Pop(); err != nil {
				return ExitReturn[F](), err
			}
		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.EQ:
			if err := p.binary(interp, ns, insn.Opcode); err != nil {
				return ExitReturn[F](), err
			}
		case bytecode.COPY_LOC, bytecode.MOVE_LOC:
			var (
				val value.Value[F]
				err error
			)
			//
			if insn.Opcode == bytecode.COPY_LOC {
				val, err = locals.Copy(uint(insn.Index()))
			} else {
				val, err = locals.Move(uint(insn.Index()))
			}
			//
			if err != nil {
				return ExitReturn[F](), err
			} else if err := interp.stack.Push(val); err != nil {
				return ExitReturn[F](), err
			}
		case bytecode.ST_LOC:
			val, err := interp.stack.Pop()
			if err != nil {
				return ExitReturn[F](), err
			} else if err := locals.Store(uint(insn.Index()), val); err != nil {
				return ExitReturn[F](), err
			}
		case bytecode.BR_TRUE, bytecode.BR_FALSE:
			cond, err := interp.stack.Pop()
			if err != nil {
				return ExitReturn[F](), err
			}
			//
			c, ok := cond.Value()
			//
			if !ok && interp.config.Mode == WITNESS {
				return ExitReturn[F](), NewError(VALUE_CONVERSION_ERROR).WithMessage(
					fmt.Sprintf("unknown branch condition at %s#%d", p.fn.Name(), p.pc))
			} else if !ok {
				// Both arms must be constrained.  The branch is left in place so
				// the frame can inspect its shape.
				return ExitConditionalBranch(p.pc, cond), nil
			} else if (insn.Opcode == bytecode.BR_TRUE && c.IsOne()) ||
				(insn.Opcode == bytecode.BR_FALSE && c.IsZero()) {
				p.pc = insn.Target()
				continue
			}
		case bytecode.BRANCH:
			p.pc = insn.Target()
			continue
		case bytecode.RET:
			return ExitReturn[F](), nil
		case bytecode.CALL:
			return ExitCall[F](insn.Index()), nil
		case bytecode.ABORT:
			return ExitReturn[F](), abort(interp)
		default:
			return ExitReturn[F](), NewError(SHOULD_NOT_REACH_HERE).WithMessage(
				fmt.Sprintf("unknown instruction %s", insn.String()))
		}
		//
		if p.AtEnd() {
			return ExitBranchEnd[F](p.pc), nil
		}
		//
		p.pc++
	}
}

// Pop two operands, where the first popped is the right-hand side, and push
// the result of applying a given operation.
func (p *Block[F]) binary(interp *Interpreter[F], ns string, op bytecode.Opcode) error {
	var (
		res value.Value[F]
		rhs value.Value[F]
		lhs value.Value[F]
		err error
	)
	//
	if rhs, err = interp.stack.Pop(); err != nil {
		return err
	} else if lhs, err = interp.stack.Pop(); err != nil {
		return err
	}
	//
	guard := interp.conditions.Top()
	//
	switch op {
	case bytecode.ADD:
		res, err = interp.chip.Add(ns, lhs, rhs, guard)
	case bytecode.SUB:
		res, err = interp.chip.Sub(ns, lhs, rhs, guard)
	case bytecode.MUL:
		res, err = interp.chip.Mul(ns, lhs, rhs, guard)
	case bytecode.EQ:
		res, err = interp.chip.Eq(ns, lhs, rhs, guard)
	}
	//
	if err != nil {
		log.WithField("ns", ns).Errorf("%s failed: %s", op, err)
		return NewError(SYNTHESIS_ERROR).WithCause(err)
	}
	//
	return interp.stack.Push(res)
}

// Decode the literal carried by a load instruction.
func literal[F field.Element[F]](insn bytecode.Instruction) (F, value.Type) {
	switch insn.Opcode {
	case bytecode.LD_TRUE:
		return field.One[F](), value.BOOL
	case bytecode.LD_FALSE:
		return field.Zero[F](), value.BOOL
	case bytecode.LD_U8:
		return field.Uint64[F](insn.Operand.Uint64()), value.U8
	case bytecode.LD_U64:
		return field.Uint64[F](insn.Operand.Uint64()), value.U64
	default:
		bytes := insn.Operand.Bytes32()
		return field.FromBigEndianBytes[F](bytes[:]), value.U128
	}
}

// Abort requires a known code, of which only the lower 128 bits are reported.
func abort[F field.Element[F]](interp *Interpreter[F]) error {
	val, err := interp.stack.Pop()
	if err != nil {
		return err
	}
	//
	c, ok := val.Value()
	if !ok {
		return NewError(VALUE_CONVERSION_ERROR).WithMessage("unknown abort code")
	}
	//
	var (
		bytes = c.Bytes()
		code  = new(uint256.Int)
	)
	//
	if len(bytes) > 16 {
		bytes = bytes[len(bytes)-16:]
	}
	//
	return NewAbortError(code.SetBytes(bytes))
}
