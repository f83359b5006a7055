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
	"fmt"

	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/holiman/uint256"
)

// Kind distinguishes the three forms a value can take.
type Kind uint8

const (
	// INVALID marks a slot which holds no usable value, either because it was
	// never written or because its value was moved out.
	INVALID Kind = iota
	// CONSTANT marks a value known when the circuit is built.
	CONSTANT
	// VARIABLE marks a circuit wire, whose value may or may not be known.
	VARIABLE
)

// Value represents a quantity flowing through the interpreter.  Values are
// pure data: they record what is known about a quantity (its field element,
// if any, and the wire it is bound to, if any) but perform no arithmetic.
// The zero Value is INVALID.
type Value[F field.Element[F]] struct {
	kind  Kind
	value F
	// Indicates whether value holds the concrete value.
	known bool
	wire  circuit.Wire
	// Indicates whether wire holds a bound wire.
	bound bool
	ty    Type
}

// Invalid returns a value which holds nothing.
func Invalid[F field.Element[F]]() Value[F] {
	return Value[F]{}
}

// Constant constructs a value known at circuit build time, which is not bound
// to any wire.
func Constant[F field.Element[F]](val F, ty Type) Value[F] {
	return Value[F]{kind: CONSTANT, value: val, known: true, ty: ty}
}

// Variable constructs a value bound to a given wire whose concrete value is
// known.
func Variable[F field.Element[F]](wire circuit.Wire, val F, ty Type) Value[F] {
	return Value[F]{kind: VARIABLE, value: val, known: true, wire: wire, bound: true, ty: ty}
}

// UnknownVariable constructs a value bound to a given wire whose concrete value
// is not (yet) known.
func UnknownVariable[F field.Element[F]](wire circuit.Wire, ty Type) Value[F] {
	return Value[F]{kind: VARIABLE, wire: wire, bound: true, ty: ty}
}

// Bool constructs a boolean constant.
func Bool[F field.Element[F]](x bool) Value[F] {
	return Constant(field.Bool[F](x), BOOL)
}

// U8Value constructs an 8bit constant.
func U8Value[F field.Element[F]](x uint8) Value[F] {
	return Constant(field.Uint64[F](uint64(x)), U8)
}

// U64Value constructs a 64bit constant.
func U64Value[F field.Element[F]](x uint64) Value[F] {
	return Constant(field.Uint64[F](x), U64)
}

// U128Value constructs a 128bit constant.  No range check is applied.
func U128Value[F field.Element[F]](x *uint256.Int) Value[F] {
	var bytes = x.Bytes32()
	//
	return Constant(field.FromBigEndianBytes[F](bytes[:]), U128)
}

// Kind returns the form of this value.
func (p Value[F]) Kind() Kind {
	return p.kind
}

// IsValid checks whether this value holds something (i.e. is not INVALID).
func (p Value[F]) IsValid() bool {
	return p.kind != INVALID
}

// IsConstant checks whether this is a CONSTANT.
func (p Value[F]) IsConstant() bool {
	return p.kind == CONSTANT
}

// IsVariable checks whether this is a VARIABLE.
func (p Value[F]) IsVariable() bool {
	return p.kind == VARIABLE
}

// Value returns the concrete field element, or false if it is not known.
func (p Value[F]) Value() (F, bool) {
	return p.value, p.known
}

// Wire returns the wire this value is bound to, or false if it is unbound.
func (p Value[F]) Wire() (circuit.Wire, bool) {
	return p.wire, p.bound
}

// WithWire returns a copy of this value bound to a given wire.
func (p Value[F]) WithWire(wire circuit.Wire) Value[F] {
	if p.kind == INVALID {
		panic("cannot bind invalid value")
	}
	//
	p.wire, p.bound = wire, true
	//
	return p
}

// Type returns the guest type of this value.  This must not be called on an
// INVALID value.
func (p Value[F]) Type() Type {
	if p.kind == INVALID {
		panic("invalid value has no type")
	}
	//
	return p.ty
}

func (p Value[F]) String() string {
	var val = "?"
	//
	if p.known {
		val = p.value.String()
	}
	//
	switch {
	case p.kind == INVALID:
		return "invalid"
	case p.kind == CONSTANT && !p.bound:
		return fmt.Sprintf("%s:%s", val, p.ty)
	default:
		return fmt.Sprintf("%s=%s:%s", p.wire, val, p.ty)
	}
}
