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
	"testing"

	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

type op func(*EvaluationChip[F], string, value.Value[F], value.Value[F], *Guard[F]) (value.Value[F], error)

var ops = []struct {
	name     string
	fn       op
	expected func(x, y uint64) F
}{
	{"add", (*EvaluationChip[F]).Add, func(x, y uint64) F { return field.Uint64[F](x + y) }},
	{"sub", (*EvaluationChip[F]).Sub, func(x, y uint64) F { return field.Uint64[F](x).Sub(field.Uint64[F](y)) }},
	{"mul", (*EvaluationChip[F]).Mul, func(x, y uint64) F { return field.Uint64[F](x * y) }},
	{"eq", (*EvaluationChip[F]).Eq, func(x, y uint64) F { return field.Bool[F](x == y) }},
}

func TestKnownOperands(t *testing.T) {
	for _, o := range ops {
		for _, args := range [][2]uint64{{2, 3}, {7, 7}, {0, 9}} {
			cs := circuit.NewSystem[F]()
			c := NewEvaluationChip[F](cs)
			//
			res, err := o.fn(c, o.name, value.U64Value[F](args[0]), value.U64Value[F](args[1]), nil)
			require.NoError(t, err)
			//
			v, ok := res.Value()
			require.True(t, ok, o.name)
			assert.True(t, v.Equals(o.expected(args[0], args[1])), "%s(%d,%d)", o.name, args[0], args[1])
			assert.Equal(t, uint(1), cs.NumConstraints())
			assert.True(t, res.IsVariable())
			assert.NoError(t, cs.IsSatisfied(), o.name)
		}
	}
}

func TestUnknownOperand(t *testing.T) {
	for _, o := range ops {
		cs := circuit.NewSystem[F]()
		c := NewEvaluationChip[F](cs)
		w, err := cs.AllocWire("x", func() (F, error) { return F{}, circuit.ErrAssignmentMissing })
		require.NoError(t, err)
		//
		res, err := o.fn(c, o.name, value.UnknownVariable[F](w, value.U8), value.U8Value[F](1), nil)
		require.NoError(t, err)
		//
		_, ok := res.Value()
		assert.False(t, ok, o.name)
		assert.Equal(t, uint(1), cs.NumConstraints())
		//
		_, bound := res.Wire()
		assert.True(t, bound)
	}
}

func TestResultTypes(t *testing.T) {
	var c = NewEvaluationChip[F](circuit.NewSystem[F]())
	//
	sum, err := c.Add("add", value.U8Value[F](1), value.U8Value[F](2), nil)
	require.NoError(t, err)
	assert.Equal(t, value.U8, sum.Type())
	//
	eq, err := c.Eq("eq", value.U8Value[F](1), value.U8Value[F](2), nil)
	require.NoError(t, err)
	assert.Equal(t, value.BOOL, eq.Type())
}

func TestUnknownGuard(t *testing.T) {
	var (
		cs    = circuit.NewSystem[F]()
		c     = NewEvaluationChip[F](cs)
		guard = &Guard[F]{Cond: value.UnknownVariable[F](circuit.ONE, value.BOOL)}
	)
	// Known operands give a known result, even within an arm
	res, err := c.Add("add", value.U8Value[F](2), value.U8Value[F](3), guard)
	require.NoError(t, err)
	//
	v, ok := res.Value()
	require.True(t, ok)
	assert.True(t, v.Equals(field.Uint64[F](5)))
	// Unknown operands stay unknown
	res, err = c.Add("add", res, value.UnknownVariable[F](circuit.ONE, value.U8), guard)
	require.NoError(t, err)
	//
	_, ok = res.Value()
	assert.False(t, ok)
	assert.Equal(t, uint(2), cs.NumConstraints())
}

func TestEqualityGateOneSided(t *testing.T) {
	var (
		cs = circuit.NewSystem[F]()
		c  = NewEvaluationChip[F](cs)
	)
	//
	res, err := c.Eq("eq", value.U8Value[F](4), value.U8Value[F](4), nil)
	require.NoError(t, err)
	//
	v, _ := res.Value()
	assert.True(t, v.IsOne())
	// The gate (a-b)·c = 0 has a zero left-hand side when a = b, so it holds
	// for any assignment of c.
	require.Len(t, cs.Constraints(), 1)
	lhs, err := cs.Evaluate(cs.Constraints()[0].A)
	require.NoError(t, err)
	assert.True(t, lhs.IsZero())
	assert.Empty(t, cs.Constraints()[0].C)
}

func TestGuardValue(t *testing.T) {
	var g = Guard[F]{Cond: value.Bool[F](true), Negated: true}
	//
	v, ok := g.Value()
	assert.True(t, ok)
	assert.True(t, v.IsZero())
	//
	g.Negated = false
	v, _ = g.Value()
	assert.True(t, v.IsOne())
}

func TestInvalidOperands(t *testing.T) {
	var (
		cs = circuit.NewSystem[F]()
		c  = NewEvaluationChip[F](cs)
	)
	//
	_, err := c.Add("add", value.Invalid[F](), value.U8Value[F](2), nil)
	assert.ErrorIs(t, err, ErrInvalidOperand)
	//
	_, err = c.Mul("mul", value.U8Value[F](2), value.Value[F]{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOperand)
	// Nothing recorded
	assert.Equal(t, uint(0), cs.NumConstraints())
	assert.Equal(t, uint(1), cs.NumWires())
}

func TestLoadConstant(t *testing.T) {
	var (
		cs = circuit.NewSystem[F]()
		c  = NewEvaluationChip[F](cs)
	)
	//
	v, err := c.LoadConstant("ld", field.Uint64[F](5), value.U64)
	require.NoError(t, err)
	assert.True(t, v.IsConstant())
	assert.Equal(t, uint(0), cs.NumConstraints())
	//
	lc, err := LinearCombination(v)
	require.NoError(t, err)
	assert.Equal(t, circuit.ONE, lc[0].Wire)
}
