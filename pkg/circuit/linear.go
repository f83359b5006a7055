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
	"fmt"
	"strings"

	"github.com/consensys/go-zkmove/pkg/util/field"
)

// Wire is a handle for a wire allocated within a constraint system.
type Wire uint32

// ONE is the wire which always holds the constant 1.  Constants appear in
// linear combinations as multiples of this wire.
const ONE Wire = 0

func (w Wire) String() string {
	if w == ONE {
		return "one"
	}
	//
	return fmt.Sprintf("w%d", uint32(w))
}

// Term is a single coefficient-wire product within a linear combination.
type Term[F field.Element[F]] struct {
	Coeff F
	Wire  Wire
}

// LinearCombination represents a sum of zero or more terms.  An empty
// combination denotes zero.
type LinearCombination[F field.Element[F]] []Term[F]

// Constant constructs the linear combination c·ONE.
func Constant[F field.Element[F]](c F) LinearCombination[F] {
	return LinearCombination[F]{{c, ONE}}
}

// Single constructs the linear combination 1·w.
func Single[F field.Element[F]](w Wire) LinearCombination[F] {
	return LinearCombination[F]{{field.One[F](), w}}
}

// Plus returns the combination p + q.  Neither operand is modified.
func (p LinearCombination[F]) Plus(q LinearCombination[F]) LinearCombination[F] {
	var res = make(LinearCombination[F], 0, len(p)+len(q))
	//
	res = append(res, p...)
	//
	return append(res, q...)
}

// Minus returns the combination p - q.  Neither operand is modified.
func (p LinearCombination[F]) Minus(q LinearCombination[F]) LinearCombination[F] {
	var res = make(LinearCombination[F], 0, len(p)+len(q))
	//
	res = append(res, p...)
	//
	for _, t := range q {
		res = append(res, Term[F]{field.Negate(t.Coeff), t.Wire})
	}
	//
	return res
}

func (p LinearCombination[F]) String() string {
	var builder strings.Builder
	//
	if len(p) == 0 {
		return "0"
	}
	//
	for i, t := range p {
		if i != 0 {
			builder.WriteString(" + ")
		}
		//
		if t.Coeff.IsOne() {
			builder.WriteString(t.Wire.String())
		} else {
			builder.WriteString(fmt.Sprintf("%s·%s", t.Coeff.String(), t.Wire.String()))
		}
	}
	//
	return builder.String()
}
