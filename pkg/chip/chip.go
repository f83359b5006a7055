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
package chip

import (
	"errors"
	"fmt"

	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/value"
	log "github.com/sirupsen/logrus"
)

// ErrUnboundVariable is returned when a variable which has not been bound to
// any wire is used as an operand.
var ErrUnboundVariable = errors.New("variable not bound to a wire")

// ErrInvalidOperand is returned when an invalid value is used as an operand.
var ErrInvalidOperand = errors.New("invalid operand")

// Guard describes the condition under which the instructions of a conditional
// arm are executed.  When Negated holds, the arm runs when the condition is
// false.
type Guard[F field.Element[F]] struct {
	Cond    value.Value[F]
	Negated bool
}

// Value returns the value of the guard (i.e. 1 if the arm is taken, 0
// otherwise), or false if this is not known.
func (p Guard[F]) Value() (F, bool) {
	val, ok := p.Cond.Value()
	//
	if ok && p.Negated {
		return field.One[F]().Sub(val), true
	}
	//
	return val, ok
}

// EvaluationChip performs the arithmetic of the guest instruction set by
// allocating result wires and recording one constraint per operation.
type EvaluationChip[F field.Element[F]] struct {
	cs circuit.ConstraintSystem[F]
}

// NewEvaluationChip constructs a chip which records into a given constraint
// system.
func NewEvaluationChip[F field.Element[F]](cs circuit.ConstraintSystem[F]) *EvaluationChip[F] {
	return &EvaluationChip[F]{cs}
}

// LoadConstant materialises a literal.  Constants are not bound to wires, and
// instead appear in linear combinations as multiples of the ONE wire.  Hence,
// no constraint is recorded.
func (p *EvaluationChip[F]) LoadConstant(namespace string, val F, ty value.Type) (value.Value[F], error) {
	log.WithField("ns", namespace).Tracef("constant %s:%s", val.String(), ty)
	//
	return value.Constant(val, ty), nil
}

// Add enforces (a + b)·1 = c for a fresh wire c.
func (p *EvaluationChip[F]) Add(namespace string, a, b value.Value[F], guard *Guard[F]) (value.Value[F], error) {
	return p.binary(namespace, a, b, guard, false, func(x, y F) F { return x.Add(y) },
		func(la, lb, lc circuit.LinearCombination[F]) constraint[F] {
			return constraint[F]{la.Plus(lb), circuit.Constant(field.One[F]()), lc}
		})
}

// Sub enforces (a - b)·1 = c for a fresh wire c.
func (p *EvaluationChip[F]) Sub(namespace string, a, b value.Value[F], guard *Guard[F]) (value.Value[F], error) {
	return p.binary(namespace, a, b, guard, false, func(x, y F) F { return x.Sub(y) },
		func(la, lb, lc circuit.LinearCombination[F]) constraint[F] {
			return constraint[F]{la.Minus(lb), circuit.Constant(field.One[F]()), lc}
		})
}

// Mul enforces a·b = c for a fresh wire c.
func (p *EvaluationChip[F]) Mul(namespace string, a, b value.Value[F], guard *Guard[F]) (value.Value[F], error) {
	return p.binary(namespace, a, b, guard, false, func(x, y F) F { return x.Mul(y) },
		func(la, lb, lc circuit.LinearCombination[F]) constraint[F] {
			return constraint[F]{la, lb, lc}
		})
}

// Eq enforces (a - b)·c = 0 for a fresh boolean wire c, which holds 1 when a
// and b are equal.  The single gate forces a = b whenever c = 1; it does not
// on its own force c = 1 whenever a = b.
func (p *EvaluationChip[F]) Eq(namespace string, a, b value.Value[F], guard *Guard[F]) (value.Value[F], error) {
	return p.binary(namespace, a, b, guard, true,
		func(x, y F) F { return field.Bool[F](x.Equals(y)) },
		func(la, lb, lc circuit.LinearCombination[F]) constraint[F] {
			return constraint[F]{la.Minus(lb), lc, nil}
		})
}

type constraint[F field.Element[F]] struct {
	a, b, c circuit.LinearCombination[F]
}

func (p *EvaluationChip[F]) binary(namespace string, a, b value.Value[F], guard *Guard[F], boolean bool,
	eval func(F, F) F, shape func(la, lb, lc circuit.LinearCombination[F]) constraint[F]) (value.Value[F], error) {
	//
	var result F
	//
	la, err := LinearCombination(a)
	if err != nil {
		return value.Invalid[F](), fmt.Errorf("%s: left operand: %w", namespace, err)
	}
	//
	lb, err := LinearCombination(b)
	if err != nil {
		return value.Invalid[F](), fmt.Errorf("%s: right operand: %w", namespace, err)
	}
	// Comparisons yield booleans, whilst arithmetic retains the operand type.
	ty := value.BOOL
	if !boolean {
		ty = a.Type()
	}
	// Determine result (if possible)
	x, xok := a.Value()
	y, yok := b.Value()
	known := xok && yok
	//
	if guard != nil {
		log.WithFields(log.Fields{"ns": namespace, "negated": guard.Negated}).Trace("guarded operation")
	}
	//
	if known {
		result = eval(x, y)
	}
	// Allocate result wire
	wire, err := p.cs.AllocWire(namespace, func() (F, error) {
		if known {
			return result, nil
		}
		//
		return result, circuit.ErrAssignmentMissing
	})
	//
	if err != nil {
		return value.Invalid[F](), fmt.Errorf("%s: %w", namespace, err)
	}
	//
	c := shape(la, lb, circuit.Single[F](wire))
	//
	if err := p.cs.Enforce(namespace, c.a, c.b, c.c); err != nil {
		return value.Invalid[F](), fmt.Errorf("%s: %w", namespace, err)
	}
	//
	if known {
		return value.Variable(wire, result, ty), nil
	}
	//
	return value.UnknownVariable[F](wire, ty), nil
}

// LinearCombination converts a value into a linear combination over the wires
// of the circuit.  Values bound to a wire are represented by that wire,
// whilst unbound constants are multiples of the ONE wire.
func LinearCombination[F field.Element[F]](v value.Value[F]) (circuit.LinearCombination[F], error) {
	if w, ok := v.Wire(); ok {
		return circuit.Single[F](w), nil
	}
	//
	switch v.Kind() {
	case value.CONSTANT:
		val, _ := v.Value()
		return circuit.Constant(val), nil
	case value.VARIABLE:
		return nil, ErrUnboundVariable
	default:
		return nil, ErrInvalidOperand
	}
}
