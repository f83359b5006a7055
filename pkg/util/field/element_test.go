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
package field_test

import (
	"math/big"
	"testing"

	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkmove/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// make sure the interface is adhered to.
	_ = field.Element[bls12_377.Element](bls12_377.Element{})
	_ = field.Element[bn254.Element](bn254.Element{})
}

func TestArithmetic_BLS12_377(t *testing.T) {
	checkArithmetic[bls12_377.Element](t)
}

func TestArithmetic_BN254(t *testing.T) {
	checkArithmetic[bn254.Element](t)
}

func checkArithmetic[F field.Element[F]](t *testing.T) {
	var (
		two   = field.Uint64[F](2)
		three = field.Uint64[F](3)
	)
	//
	assert.True(t, field.Zero[F]().IsZero())
	assert.True(t, field.One[F]().IsOne())
	assert.True(t, two.Add(three).Equals(field.Uint64[F](5)))
	assert.True(t, two.Mul(three).Equals(field.Uint64[F](6)))
	assert.True(t, three.Sub(two).IsOne())
	assert.Equal(t, 1, three.Cmp(two))
	assert.Equal(t, 0, two.Cmp(two))
	// wrap around
	minusOne := two.Sub(three)
	assert.True(t, minusOne.Add(field.One[F]()).IsZero())
	assert.True(t, field.Negate(field.One[F]()).Equals(minusOne))
}

func TestBigIntRoundTrip(t *testing.T) {
	val, ok := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	require.True(t, ok)
	//
	elem, err := field.FromBigInt[bls12_377.Element](val)
	require.NoError(t, err)
	assert.Equal(t, 0, val.Cmp(field.ToBigInt(elem)))
	assert.Len(t, elem.Bytes(), 32)
}

func TestBigIntReduced(t *testing.T) {
	var (
		modulus = field.Zero[bls12_377.Element]().Modulus()
		val     = new(big.Int).Add(modulus, big.NewInt(7))
	)
	//
	elem, err := field.FromBigInt[bls12_377.Element](val)
	require.NoError(t, err)
	assert.True(t, elem.Equals(field.Uint64[bls12_377.Element](7)))
}

func TestBigIntNegative(t *testing.T) {
	_, err := field.FromBigInt[bls12_377.Element](big.NewInt(-1))
	assert.Error(t, err)
}

func TestGetConfig(t *testing.T) {
	assert.Equal(t, &field.FIELD_CONFIGS[0], field.GetConfig("BLS12_377"))
	assert.Equal(t, field.BN254, *field.GetConfig("BN254"))
	assert.Nil(t, field.GetConfig("GF_251"))
}
