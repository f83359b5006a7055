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
	"github.com/consensys/go-zkmove/pkg/chip"
	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util/collection/stack"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/value"
	log "github.com/sirupsen/logrus"
)

// Interpreter executes the functions of a module whilst recording every
// arithmetic operation as a constraint in a given constraint system.  In
// witness mode every value must be known, and branches are simply taken.  In
// structure mode, branches on unknown conditions are materialised such that
// both arms are constrained under the appropriate guard.
type Interpreter[F field.Element[F]] struct {
	config Config
	module *bytecode.Module
	cs     circuit.ConstraintSystem[F]
	chip   *chip.EvaluationChip[F]
	// State of the current run
	stack      *EvalStack[F]
	frames     *CallStack[F]
	locals     *LocalsTable[F]
	conditions *stack.Stack[chip.Guard[F]]
	steps      uint64
}

// NewInterpreter constructs an interpreter for a given module which records
// constraints into a given constraint system.
func NewInterpreter[F field.Element[F]](module *bytecode.Module, cs circuit.ConstraintSystem[F],
	config Config) *Interpreter[F] {
	//
	var p = &Interpreter[F]{config: config, module: module, cs: cs, chip: chip.NewEvaluationChip(cs)}
	//
	p.reset()
	//
	return p
}

// Config returns the configuration of this interpreter.
func (p *Interpreter[F]) Config() Config {
	return p.config
}

// Steps returns the number of instructions executed so far.
func (p *Interpreter[F]) Steps() uint64 {
	return p.steps
}

// Stack returns the evaluation stack.
func (p *Interpreter[F]) Stack() *EvalStack[F] {
	return p.stack
}

// Frames returns the call stack.
func (p *Interpreter[F]) Frames() *CallStack[F] {
	return p.frames
}

// Conditions returns the number of branch conditions currently guarding
// execution.
func (p *Interpreter[F]) Conditions() uint {
	return p.conditions.Len()
}

// Run a given entry function to completion, returning the values it returns.
// In witness mode, a value must be given for every parameter.  In structure
// mode, arguments are ignored and every parameter is unknown.  Every parameter
// is allocated a wire, such that it is an input to the circuit.
func (p *Interpreter[F]) Run(entry uint16, args []F) ([]value.Value[F], error) {
	fn, ok := p.module.Function(entry)
	//
	if !ok {
		return nil, NewError(OUT_OF_BOUNDS).WithMessage(fmt.Sprintf("unknown function %d", entry))
	} else if p.config.Mode == WITNESS && uint(len(args)) != fn.NumParams() {
		return nil, NewError(VALUE_CONVERSION_ERROR).WithMessage(
			fmt.Sprintf("function %s expects %d arguments (found %d)", fn.Name(), fn.NumParams(), len(args)))
	}
	//
	p.reset()
	//
	frame := NewFrame[F](entry, fn, p.locals.Alloc(fn.NumLocals()))
	locals := p.locals.Get(frame.Locals())
	//
	for i, ty := range fn.Parameters() {
		arg, err := p.argument(uint(i), ty, args)
		if err != nil {
			return nil, err
		} else if err := locals.Store(uint(i), arg); err != nil {
			return nil, err
		}
	}
	//
	if err := p.frames.Push(frame); err != nil {
		return nil, err
	}
	//
	log.WithFields(log.Fields{"function": fn.Name(), "mode": p.config.Mode}).Debug("run")
	//
	for {
		status, err := p.frames.Top().Execute(p)
		//
		if err != nil {
			log.WithFields(log.Fields{"step": p.steps, "function": p.frames.Top().Function().Name()}).Debug(err)
			return nil, err
		}
		//
		switch status.Kind {
		case CALL:
			err = p.call(status.Function)
		case RETURN:
			var done bool
			//
			if done, err = p.ret(); err == nil && done {
				return p.results(fn)
			}
		default:
			err = NewError(SHOULD_NOT_REACH_HERE).WithMessage(fmt.Sprintf("unexpected exit %s", status.String()))
		}
		//
		if err != nil {
			return nil, err
		}
	}
}

func (p *Interpreter[F]) reset() {
	p.stack = NewEvalStack[F](p.config.EvalStackSize)
	p.frames = NewCallStack[F](p.config.CallStackSize)
	p.locals = NewLocalsTable[F]()
	p.conditions = stack.NewStack[chip.Guard[F]]()
	p.steps = 0
}

func (p *Interpreter[F]) nextStep() uint64 {
	p.steps++
	return p.steps
}

// Allocate the wire for the ith argument.
func (p *Interpreter[F]) argument(i uint, ty value.Type, args []F) (value.Value[F], error) {
	var (
		label = fmt.Sprintf("arg#%d", i)
		known = p.config.Mode == WITNESS
		val   F
	)
	//
	if known {
		val = args[i]
	}
	//
	wire, err := p.cs.AllocWire(label, func() (F, error) {
		if known {
			return val, nil
		}
		//
		return val, circuit.ErrAssignmentMissing
	})
	//
	if err != nil {
		return value.Invalid[F](), NewError(SYNTHESIS_ERROR).WithCause(err)
	} else if known {
		return value.Variable(wire, val, ty), nil
	}
	//
	return value.UnknownVariable[F](wire, ty), nil
}

// Push a frame for a given callee, whose parameters are popped from the
// evaluation stack such that the last pushed becomes the last parameter.
func (p *Interpreter[F]) call(index uint16) error {
	fn, ok := p.module.Function(index)
	if !ok {
		return NewError(OUT_OF_BOUNDS).WithMessage(fmt.Sprintf("unknown function %d", index))
	}
	//
	var (
		frame  = NewFrame[F](index, fn, p.locals.Alloc(fn.NumLocals()))
		locals = p.locals.Get(frame.Locals())
	)
	//
	for i := fn.NumParams(); i > 0; i-- {
		arg, err := p.stack.Pop()
		if err != nil {
			p.locals.Release(frame.Locals())
			return err
		}
		// Cannot fail since locals cover parameters
		_ = locals.Store(i-1, arg)
	}
	//
	if err := p.frames.Push(frame); err != nil {
		p.locals.Release(frame.Locals())
		return err
	}
	//
	log.WithFields(log.Fields{"step": p.steps, "function": fn.Name(), "depth": p.frames.Len()}).Trace("call")
	//
	return nil
}

// Pop the executing frame, and resume its caller (if any).  Returned values
// remain on the evaluation stack.
func (p *Interpreter[F]) ret() (bool, error) {
	frame, err := p.frames.Pop()
	if err != nil {
		return false, err
	}
	// Discard guards of any conditional branch returned from
	for i := frame.Depth(); i > 0; i-- {
		if _, err := p.conditions.Pop(); err != nil {
			return false, NewError(SHOULD_NOT_REACH_HERE).WithMessage("missing branch condition")
		}
	}
	//
	p.locals.Release(frame.Locals())
	//
	if caller := p.frames.Top(); caller != nil {
		return false, caller.Advance(p)
	}
	//
	return true, nil
}

// Pop the values returned by the entry function.
func (p *Interpreter[F]) results(fn *bytecode.Function) ([]value.Value[F], error) {
	var results = make([]value.Value[F], fn.NumReturns())
	//
	for i := len(results); i > 0; i-- {
		val, err := p.stack.Pop()
		if err != nil {
			return nil, err
		}
		//
		results[i-1] = val
	}
	//
	return results, nil
}
