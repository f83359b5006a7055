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

import "fmt"

// Type identifies the guest type of a value.  This is carried alongside every
// live value so that typed operations downstream know the intended width.
type Type uint8

const (
	// BOOL is the guest boolean type.
	BOOL Type = iota
	// U8 is the guest 8bit unsigned integer type.
	U8
	// U64 is the guest 64bit unsigned integer type.
	U64
	// U128 is the guest 128bit unsigned integer type.
	U128
)

// BitWidth returns the number of bits needed to hold any value of this type.
func (t Type) BitWidth() uint {
	switch t {
	case BOOL:
		return 1
	case U8:
		return 8
	case U64:
		return 64
	case U128:
		return 128
	default:
		panic(fmt.Sprintf("unknown type %d", uint8(t)))
	}
}

func (t Type) String() string {
	switch t {
	case BOOL:
		return "bool"
	case U8:
		return "u8"
	case U64:
		return "u64"
	case U128:
		return "u128"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseType converts the name of a guest type into a type.
func ParseType(name string) (Type, error) {
	switch name {
	case "bool":
		return BOOL, nil
	case "u8":
		return U8, nil
	case "u64":
		return U64, nil
	case "u128":
		return U128, nil
	default:
		return BOOL, fmt.Errorf("unknown type \"%s\"", name)
	}
}
