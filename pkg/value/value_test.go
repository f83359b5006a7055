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
package value

import (
	"testing"

	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

type F = bls12_377.Element

func TestLiterals(t *testing.T) {
	tests := []struct {
		val      Value[F]
		expected uint64
		ty       Type
	}{
		{Bool[F](true), 1, BOOL},
		{Bool[F](false), 0, BOOL},
		{U8Value[F](255), 255, U8},
		{U64Value[F](1 << 63), 1 << 63, U64},
		{U128Value[F](uint256.NewInt(42)), 42, U128},
	}
	//
	for _, test := range tests {
		v, ok := test.val.Value()
		assert.True(t, ok)
		assert.True(t, v.Equals(field.Uint64[F](test.expected)))
		assert.Equal(t, test.ty, test.val.Type())
		assert.True(t, test.val.IsConstant())
		//
		_, bound := test.val.Wire()
		assert.False(t, bound)
	}
}

func TestU128Wide(t *testing.T) {
	var (
		x    = new(uint256.Int).Lsh(uint256.NewInt(3), 100)
		v, _ = U128Value[F](x).Value()
	)
	//
	assert.Equal(t, 0, x.ToBig().Cmp(field.ToBigInt(v)))
}

func TestVariables(t *testing.T) {
	var (
		known   = Variable(circuit.Wire(3), field.Uint64[F](7), U64)
		unknown = UnknownVariable[F](circuit.Wire(4), U8)
	)
	//
	v, ok := known.Value()
	assert.True(t, ok)
	assert.True(t, v.Equals(field.Uint64[F](7)))
	w, ok := known.Wire()
	assert.True(t, ok)
	assert.Equal(t, circuit.Wire(3), w)
	//
	_, ok = unknown.Value()
	assert.False(t, ok)
	assert.True(t, unknown.IsVariable())
	assert.Equal(t, U8, unknown.Type())
	assert.Equal(t, "w4=?:u8", unknown.String())
}

func TestInvalid(t *testing.T) {
	var v Value[F]
	//
	assert.False(t, v.IsValid())
	assert.Equal(t, INVALID, v.Kind())
	assert.Equal(t, "invalid", v.String())
	assert.Panics(t, func() { v.Type() })
	assert.Panics(t, func() { v.WithWire(circuit.Wire(1)) })
	//
	_, ok := v.Value()
	assert.False(t, ok)
}

func TestWithWire(t *testing.T) {
	var (
		c     = U8Value[F](9)
		bound = c.WithWire(circuit.Wire(2))
	)
	//
	w, ok := bound.Wire()
	assert.True(t, ok)
	assert.Equal(t, circuit.Wire(2), w)
	assert.True(t, bound.IsConstant())
	// original unchanged
	_, ok = c.Wire()
	assert.False(t, ok)
	assert.Equal(t, "9:u8", c.String())
}

func TestTypeWidths(t *testing.T) {
	assert.Equal(t, uint(1), BOOL.BitWidth())
	assert.Equal(t, uint(128), U128.BitWidth())
	assert.Equal(t, "u64", U64.String())
}

func TestParseType(t *testing.T) {
	for _, ty := range []Type{BOOL, U8, U64, U128} {
		parsed, err := ParseType(ty.String())
		assert.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	//
	_, err := ParseType("u16")
	assert.Error(t, err)
}
