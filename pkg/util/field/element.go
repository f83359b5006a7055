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
package field

import (
	"errors"
	"fmt"
	"math/big"
)

// An Element of a prime-order field.  Elements are immutable values, hence
// every operation returns a fresh element rather than updating the receiver.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y Operand) int
	// Equals returns true if x = y.
	Equals(y Operand) bool
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// SetUint64 returns an element holding the given value.
	SetUint64(val uint64) Operand
	// SetBytes returns an element holding the given big-endian value, reduced
	// modulo the field order.
	SetBytes(bytes []byte) Operand
	// Bytes returns the big-endian encoding of x, padded to the field width.
	Bytes() []byte
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// Bool constructs either 1 or 0.
func Bool[F Element[F]](val bool) F {
	if val {
		return One[F]()
	}
	//
	return Zero[F]()
}

// FromBigEndianBytes constructs an element from an array of bytes given in big
// endian order.
func FromBigEndianBytes[F Element[F]](bytes []byte) F {
	var element F
	//
	return element.SetBytes(bytes)
}

// FromBigInt constructs a field element from a given big.Int.  Negative values
// are rejected, whilst values at or above the modulus are reduced.
func FromBigInt[F Element[F]](val *big.Int) (F, error) {
	var element F
	//
	if val.Sign() < 0 {
		return element, errors.New("negative value encountered")
	}
	//
	return element.SetBytes(val.Bytes()), nil
}

// ToBigInt returns the canonical (i.e. reduced) integer value of a given
// element.
func ToBigInt[F Element[F]](val F) *big.Int {
	return new(big.Int).SetBytes(val.Bytes())
}

// Negate computes -x.
func Negate[F Element[F]](x F) F {
	return Zero[F]().Sub(x)
}
