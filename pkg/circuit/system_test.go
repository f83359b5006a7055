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
package circuit

import (
	"errors"
	"testing"

	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func known(v uint64) func() (F, error) {
	return func() (F, error) { return field.Uint64[F](v), nil }
}

func missing() (F, error) {
	return F{}, ErrAssignmentMissing
}

// Build x + y = z for the given assignments.
func buildSum(t *testing.T, x, y, z func() (F, error)) *System[F] {
	var cs = NewSystem[F]()
	//
	wx, err := cs.AllocWire("x", x)
	require.NoError(t, err)
	wy, err := cs.AllocWire("y", y)
	require.NoError(t, err)
	wz, err := cs.AllocWire("z", z)
	require.NoError(t, err)
	//
	err = cs.Enforce("sum", Single[F](wx).Plus(Single[F](wy)), Constant(field.One[F]()), Single[F](wz))
	require.NoError(t, err)
	//
	return cs
}

func TestSystem_Satisfied(t *testing.T) {
	cs := buildSum(t, known(2), known(3), known(5))
	//
	assert.Equal(t, uint(4), cs.NumWires())
	assert.Equal(t, uint(1), cs.NumConstraints())
	assert.NoError(t, cs.IsSatisfied())
}

func TestSystem_Unsatisfied(t *testing.T) {
	cs := buildSum(t, known(2), known(3), known(6))
	//
	assert.Error(t, cs.IsSatisfied())
}

func TestSystem_Unassigned(t *testing.T) {
	cs := buildSum(t, known(2), missing, missing)
	//
	_, ok := cs.Value(Wire(2))
	assert.False(t, ok)
	assert.ErrorContains(t, cs.IsSatisfied(), "unassigned")
}

func TestSystem_ResolverFailure(t *testing.T) {
	var (
		cs     = NewSystem[F]()
		broken = errors.New("broken")
	)
	//
	_, err := cs.AllocWire("x", func() (F, error) { return F{}, broken })
	assert.ErrorIs(t, err, broken)
	assert.Equal(t, uint(1), cs.NumWires())
}

func TestSystem_UnknownWire(t *testing.T) {
	cs := NewSystem[F]()
	//
	err := cs.Enforce("bad", Single[F](Wire(7)), Constant(field.One[F]()), Single[F](ONE))
	assert.Error(t, err)
	assert.Equal(t, uint(0), cs.NumConstraints())
}

func TestSystem_DigestIgnoresValues(t *testing.T) {
	var (
		structure = buildSum(t, missing, missing, missing)
		witness   = buildSum(t, known(2), known(3), known(5))
		other     = NewSystem[F]()
	)
	//
	assert.Equal(t, structure.Digest(), witness.Digest())
	assert.NotEqual(t, structure.Digest(), other.Digest())
}

func TestLinearCombination(t *testing.T) {
	var (
		a   = Single[F](Wire(1))
		b   = Constant(field.Uint64[F](3))
		sum = a.Plus(b)
		dif = a.Minus(b)
	)
	//
	assert.Len(t, sum, 2)
	assert.Len(t, a, 1)
	assert.Equal(t, "w1 + 3·one", sum.String())
	assert.True(t, dif[1].Coeff.Add(field.Uint64[F](3)).IsZero())
	assert.Equal(t, "0", LinearCombination[F]{}.String())
}
