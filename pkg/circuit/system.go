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
	"encoding/binary"
	"errors"
	"fmt"
	"hash"

	"github.com/consensys/go-zkmove/pkg/util/field"
	"golang.org/x/crypto/sha3"
)

// ErrAssignmentMissing is returned by a wire resolver to signal that the value
// of the wire is not (yet) known.  This is expected when building the
// structure of a circuit, rather than its witness.
var ErrAssignmentMissing = errors.New("assignment missing")

// ConstraintSystem is the narrow interface through which the interpreter
// builds a circuit.  Constraints must be recorded in program order.
type ConstraintSystem[F field.Element[F]] interface {
	// AllocWire allocates a new wire whose value is supplied by the given
	// resolver.  The resolver may return ErrAssignmentMissing, in which case
	// the wire is allocated without a value.
	AllocWire(label string, resolver func() (F, error)) (Wire, error)
	// Enforce records a single multiplication gate constraint a·b = c.
	Enforce(label string, a, b, c LinearCombination[F]) error
}

// Constraint is a single recorded multiplication gate a·b = c.
type Constraint[F field.Element[F]] struct {
	Label string
	A     LinearCombination[F]
	B     LinearCombination[F]
	C     LinearCombination[F]
}

func (p Constraint[F]) String() string {
	return fmt.Sprintf("%s: (%s) * (%s) = (%s)", p.Label, p.A.String(), p.B.String(), p.C.String())
}

type wire[F any] struct {
	label    string
	value    F
	assigned bool
}

// System is a simple rank-1 constraint system which records every wire and
// constraint it is given.  It serves both as the circuit structure (when
// values are missing) and as a witness (when all values are assigned).
type System[F field.Element[F]] struct {
	wires       []wire[F]
	constraints []Constraint[F]
}

// NewSystem constructs an empty constraint system, containing just the ONE
// wire.
func NewSystem[F field.Element[F]]() *System[F] {
	return &System[F]{
		wires: []wire[F]{{"one", field.One[F](), true}},
	}
}

// AllocWire implementation for the ConstraintSystem interface.
func (p *System[F]) AllocWire(label string, resolver func() (F, error)) (Wire, error) {
	var w = wire[F]{label: label}
	//
	value, err := resolver()
	//
	switch {
	case err == nil:
		w.value, w.assigned = value, true
	case !errors.Is(err, ErrAssignmentMissing):
		return ONE, fmt.Errorf("allocating wire %q: %w", label, err)
	}
	//
	p.wires = append(p.wires, w)
	//
	return Wire(len(p.wires) - 1), nil
}

// Enforce implementation for the ConstraintSystem interface.
func (p *System[F]) Enforce(label string, a, b, c LinearCombination[F]) error {
	for _, lc := range []LinearCombination[F]{a, b, c} {
		for _, t := range lc {
			if int(t.Wire) >= len(p.wires) {
				return fmt.Errorf("constraint %q refers to unknown wire %s", label, t.Wire)
			}
		}
	}
	//
	p.constraints = append(p.constraints, Constraint[F]{label, a, b, c})
	//
	return nil
}

// NumWires returns the number of wires allocated, including ONE.
func (p *System[F]) NumWires() uint {
	return uint(len(p.wires))
}

// NumConstraints returns the number of constraints recorded.
func (p *System[F]) NumConstraints() uint {
	return uint(len(p.constraints))
}

// Constraints returns the recorded constraints in the order they were
// enforced.
func (p *System[F]) Constraints() []Constraint[F] {
	return p.constraints
}

// Value returns the assignment of a given wire, or false if it has none.
func (p *System[F]) Value(w Wire) (F, bool) {
	var empty F
	//
	if int(w) >= len(p.wires) || !p.wires[w].assigned {
		return empty, false
	}
	//
	return p.wires[w].value, true
}

// Label returns the label a wire was allocated with.
func (p *System[F]) Label(w Wire) string {
	return p.wires[w].label
}

// Evaluate a linear combination against the current assignment.  This fails
// if any wire used in the combination is unassigned.
func (p *System[F]) Evaluate(lc LinearCombination[F]) (F, error) {
	var sum F
	//
	for _, t := range lc {
		val, ok := p.Value(t.Wire)
		if !ok {
			return sum, fmt.Errorf("wire %s (%s) is unassigned", t.Wire, p.Label(t.Wire))
		}
		//
		sum = sum.Add(t.Coeff.Mul(val))
	}
	//
	return sum, nil
}

// IsSatisfied checks every recorded constraint holds under the current
// assignment, reporting the first one which does not.
func (p *System[F]) IsSatisfied() error {
	for i, c := range p.constraints {
		a, err := p.Evaluate(c.A)
		if err != nil {
			return fmt.Errorf("constraint #%d (%s): %w", i, c.Label, err)
		}
		//
		b, err := p.Evaluate(c.B)
		if err != nil {
			return fmt.Errorf("constraint #%d (%s): %w", i, c.Label, err)
		}
		//
		res, err := p.Evaluate(c.C)
		if err != nil {
			return fmt.Errorf("constraint #%d (%s): %w", i, c.Label, err)
		}
		//
		if !a.Mul(b).Equals(res) {
			return fmt.Errorf("constraint #%d (%s) does not hold", i, c.Label)
		}
	}
	//
	return nil
}

// Digest computes a Keccak-256 fingerprint of the circuit structure, that is
// the number of wires and the shape of every constraint.  Labels and wire
// assignments are excluded, hence building the same circuit with and without
// a witness yields the same digest.
func (p *System[F]) Digest() [32]byte {
	var (
		hasher = sha3.NewLegacyKeccak256()
		digest [32]byte
	)
	//
	writeUint32(hasher, uint32(len(p.wires)))
	writeUint32(hasher, uint32(len(p.constraints)))
	//
	for _, c := range p.constraints {
		for _, lc := range []LinearCombination[F]{c.A, c.B, c.C} {
			writeUint32(hasher, uint32(len(lc)))
			//
			for _, t := range lc {
				writeUint32(hasher, uint32(t.Wire))
				hasher.Write(t.Coeff.Bytes())
			}
		}
	}
	//
	hasher.Sum(digest[:0])
	//
	return digest
}

func writeUint32(w hash.Hash, v uint32) {
	var buf [4]byte
	//
	binary.BigEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}
