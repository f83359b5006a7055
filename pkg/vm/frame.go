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
	"io"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/chip"
	"github.com/consensys/go-zkmove/pkg/util/collection/stack"
	"github.com/consensys/go-zkmove/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Frame is the activation of a single function.  A frame executes one program
// block at a time, suspending it whilst the arms of a conditional branch
// execute.  Blocks are held in an arena owned by the frame, where the arms of
// the innermost conditional branch are always the last entries.
type Frame[F field.Element[F]] struct {
	index  uint16
	fn     *bytecode.Function
	locals LocalsId
	// Arena of blocks, where the first is the function body.
	blocks    []Block[F]
	current   ProgramBlock
	suspended *stack.Stack[ProgramBlock]
}

// NewFrame constructs a frame for a given function whose body starts at the
// first instruction.
func NewFrame[F field.Element[F]](index uint16, fn *bytecode.Function, locals LocalsId) *Frame[F] {
	var (
		body = NewBlock[F](fn, 0, locals)
		// Nested arms start strictly after their branch, so depth never
		// exceeds the length of the code.
		suspended = stack.NewBoundedStack[ProgramBlock](uint(len(fn.Code())) + 1)
	)
	//
	return &Frame[F]{index, fn, locals, []Block[F]{body}, SimpleBlock(0), suspended}
}

// Index returns the module index of the executing function.
func (p *Frame[F]) Index() uint16 {
	return p.index
}

// Function returns the executing function.
func (p *Frame[F]) Function() *bytecode.Function {
	return p.fn
}

// Locals returns the identifier of the locals of this frame.
func (p *Frame[F]) Locals() LocalsId {
	return p.locals
}

// Current returns the program block currently executing.
func (p *Frame[F]) Current() *ProgramBlock {
	return &p.current
}

// Depth returns the number of suspended program blocks, which is the number
// of conditional branches currently being materialised by this frame.
func (p *Frame[F]) Depth() uint {
	return p.suspended.Len()
}

// Blocks returns the number of blocks allocated in this frame.
func (p *Frame[F]) Blocks() uint {
	return uint(len(p.blocks))
}

// PC returns the program counter of the running block.
func (p *Frame[F]) PC() (uint16, error) {
	blk, err := p.running()
	if err != nil {
		return 0, err
	}
	//
	return blk.PC(), nil
}

// SetPC sets the program counter of the running block.
func (p *Frame[F]) SetPC(pc uint16) error {
	blk, err := p.running()
	if err != nil {
		return err
	}
	//
	blk.SetPC(pc)
	//
	return nil
}

// Execute the running block of this frame until control must leave the frame,
// which happens only on a return or call.  Conditional branches with unknown
// conditions are materialised here, and the ends of their arms are handled
// here as well.
func (p *Frame[F]) Execute(interp *Interpreter[F]) (ExitStatus[F], error) {
	for {
		blk, err := p.running()
		if err != nil {
			return ExitReturn[F](), err
		}
		//
		status, err := blk.Execute(interp)
		if err != nil {
			return status, err
		}
		//
		switch status.Kind {
		case RETURN, CALL:
			return status, nil
		case CONDITIONAL_BRANCH:
			if err := p.materialise(status, interp); err != nil {
				return status, err
			}
		case BRANCH_END:
			if err := p.branchEnd(status.PC, interp); err != nil {
				return status, err
			}
		}
	}
}

// Advance resumes this frame after a callee has returned.  If the call was the
// last instruction of an arm, this ends the arm.
func (p *Frame[F]) Advance(interp *Interpreter[F]) error {
	blk, err := p.running()
	if err != nil {
		return err
	} else if blk.AtEnd() {
		return p.branchEnd(blk.PC(), interp)
	}
	//
	blk.AddPC(1)
	//
	return nil
}

// Dump writes the code of the executing function.
func (p *Frame[F]) Dump(w io.Writer) error {
	return p.fn.Disassemble(w)
}

// Suspend the current program block and begin executing the arms of the
// conditional branch at a given location.
func (p *Frame[F]) materialise(status ExitStatus[F], interp *Interpreter[F]) error {
	cond, err := p.PrepareConditionalBlock(status.PC)
	if err != nil {
		return err
	}
	// Arms of a BrFalse are taken when the condition does not hold.
	negated := p.fn.CodeAt(uint(status.PC)).Opcode == bytecode.BR_FALSE
	//
	log.WithFields(log.Fields{
		"function": p.fn.Name(),
		"pc":       status.PC,
		"depth":    p.Depth() + 1,
	}).Debug("materialise conditional branch")
	//
	if err := interp.conditions.Push(chip.Guard[F]{Cond: status.Condition, Negated: negated}); err != nil {
		return NewError(SHOULD_NOT_REACH_HERE).WithCause(err)
	} else if err := p.suspended.Push(p.current); err != nil {
		return NewError(SHOULD_NOT_REACH_HERE).WithCause(err)
	}
	//
	p.current = ConditionalProgramBlock(cond)
	//
	return nil
}

// PrepareConditionalBlock determines the arms of the conditional branch at a
// given location, and allocates their blocks.  The expected shape is:
//
//	pc:   BrTrue(t) or BrFalse(t)
//	pc+1: Branch(f)
//	t:    ... first arm ...  (where t = pc+2)
//	f-1:  Branch(m)
//	f:    ... second arm ...
//	m:
//
// Where f-1 is not a Branch, there is no second arm and the first arm ends at
// f-1.  On failure, nothing is allocated.
func (p *Frame[F]) PrepareConditionalBlock(pc uint16) (ConditionalBlock, error) {
	var (
		code = p.fn.Code()
		n    = len(code)
	)
	//
	if int(pc)+1 >= n {
		return ConditionalBlock{}, malformed(p.fn, pc, "conditional branch at end of function")
	} else if !code[pc].IsConditionalBranch() {
		return ConditionalBlock{}, malformed(p.fn, pc, "expected conditional branch")
	} else if code[pc+1].Opcode != bytecode.BRANCH {
		return ConditionalBlock{}, malformed(p.fn, pc, "conditional branch not followed by branch")
	}
	//
	var (
		trueStart   = code[pc].Target()
		falseTarget = code[pc+1].Target()
	)
	//
	if trueStart != pc+2 {
		return ConditionalBlock{}, malformed(p.fn, pc, "first arm must follow branch")
	} else if falseTarget == 0 || int(falseTarget) > n {
		return ConditionalBlock{}, malformed(p.fn, pc, "invalid branch target")
	}
	//
	trueEnd := falseTarget - 1
	//
	if code[trueEnd].Opcode != bytecode.BRANCH {
		if trueStart > trueEnd {
			return ConditionalBlock{}, malformed(p.fn, pc, "empty branch")
		}
		//
		return NewConditionalBlock(&Branch{p.alloc(trueStart, trueEnd), true}, nil), nil
	}
	// First arm ends by jumping over the second.
	merge := code[trueEnd].Target()
	//
	if trueStart >= trueEnd || merge < falseTarget || int(merge) > n {
		return ConditionalBlock{}, malformed(p.fn, pc, "invalid branch arms")
	} else if merge == falseTarget {
		// Second arm is empty
		return NewConditionalBlock(&Branch{p.alloc(trueStart, trueEnd-1), true}, nil), nil
	}
	//
	var (
		trueBlock  = p.alloc(trueStart, trueEnd-1)
		falseBlock = p.alloc(falseTarget, merge-1)
	)
	//
	return NewConditionalBlock(&Branch{trueBlock, true}, &Branch{falseBlock, false}), nil
}

// Handle the end of the running arm at a given location.  If another arm
// remains, it begins executing under the negated guard.  Otherwise, the
// conditional block is merged and the suspended block resumes after the arm.
// Since an arm can end on the same instruction as the arm enclosing it,
// merging can cascade.
func (p *Frame[F]) branchEnd(pc uint16, interp *Interpreter[F]) error {
	for {
		cond := p.current.Conditional()
		//
		if cond == nil {
			return NewError(SHOULD_NOT_REACH_HERE).WithMessage(fmt.Sprintf("branch end at %d outside conditional", pc))
		} else if _, ok := cond.CurrentRunning(); !ok {
			return NewError(SHOULD_NOT_REACH_HERE).WithMessage(fmt.Sprintf("branch end at %d with no running arm", pc))
		} else if cond.True != nil && cond.True.Running && cond.False != nil {
			cond.True.Running = false
			cond.False.Running = true
			//
			log.WithFields(log.Fields{"function": p.fn.Name(), "pc": pc}).Debug("switch to second arm")
			// Switch guard
			if guard := interp.conditions.Top(); guard != nil {
				guard.Negated = !guard.Negated
				return nil
			}
			//
			return NewError(SHOULD_NOT_REACH_HERE).WithMessage("missing branch condition")
		}
		// Merge
		parent, err := p.suspended.Pop()
		if err != nil {
			return NewError(SHOULD_NOT_REACH_HERE).WithMessage("no suspended block")
		} else if _, err := interp.conditions.Pop(); err != nil {
			return NewError(SHOULD_NOT_REACH_HERE).WithMessage("missing branch condition")
		}
		//
		p.blocks = p.blocks[:cond.first()]
		p.current = parent
		//
		log.WithFields(log.Fields{"function": p.fn.Name(), "pc": pc, "depth": p.Depth()}).Debug("merge conditional branch")
		//
		blk, err := p.running()
		if err != nil {
			return err
		} else if end, bounded := blk.End(); !bounded || end != pc {
			blk.SetPC(pc + 1)
			return nil
		}
		// Enclosing arm also ends here
		blk.SetPC(pc)
	}
}

func (p *Frame[F]) alloc(start, end uint16) uint {
	p.blocks = append(p.blocks, NewBoundedBlock[F](p.fn, start, end, p.locals))
	//
	return uint(len(p.blocks) - 1)
}

func (p *Frame[F]) running() (*Block[F], error) {
	index, ok := p.current.Running()
	//
	if !ok || index >= uint(len(p.blocks)) {
		return nil, NewError(SHOULD_NOT_REACH_HERE).WithMessage("no running block")
	}
	//
	return &p.blocks[index], nil
}

func malformed(fn *bytecode.Function, pc uint16, msg string) error {
	return NewError(PROGRAM_BLOCK_ERROR).WithMessage(fmt.Sprintf("%s (%s#%d)", msg, fn.Name(), pc))
}
