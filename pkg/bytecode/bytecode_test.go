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
package bytecode

import (
	"strings"
	"testing"

	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		insn     Instruction
		expected string
	}{
		{LdU8(2), "LdU8(2)"},
		{LdU64(1 << 40), "LdU64(1099511627776)"},
		{LdU128(new(uint256.Int).Lsh(uint256.NewInt(1), 100)), "LdU128(1267650600228229401496703205376)"},
		{LdTrue(), "LdTrue"},
		{Add(), "Add"},
		{Call(3), "Call(3)"},
		{BrTrue(7), "BrTrue(7)"},
		{Branch(12), "Branch(12)"},
		{Instruction{Opcode: Opcode(200)}, "Opcode(200)"},
	}
	//
	for _, test := range tests {
		assert.Equal(t, test.expected, test.insn.String())
	}
}

func TestInstructionOperands(t *testing.T) {
	assert.Equal(t, uint16(7), BrFalse(7).Target())
	assert.Equal(t, uint16(4), StLoc(4).Index())
	assert.True(t, BrFalse(1).IsConditionalBranch())
	assert.False(t, Branch(1).IsConditionalBranch())
	assert.True(t, Ret().IsBranch())
	assert.False(t, Add().IsBranch())
}

func TestDisassemble(t *testing.T) {
	var (
		fn  = NewFunction("main", nil, 0, 1, []Instruction{LdU8(2), LdU8(3), Add(), Ret()})
		out strings.Builder
	)
	//
	assert.NoError(t, fn.Disassemble(&out))
	assert.Equal(t, "Bytecode of function \"main\":\n#0, LdU8(2)\n#1, LdU8(3)\n#2, Add\n#3, Ret\n", out.String())
}

func TestModuleFind(t *testing.T) {
	var (
		f = NewFunction("f", []value.Type{value.U64}, 2, 1, []Instruction{Ret()})
		g = NewFunction("g", nil, 0, 0, []Instruction{Ret()})
		m = NewModule(f, g)
	)
	//
	index, ok := m.Find("g")
	assert.True(t, ok)
	assert.Equal(t, uint16(1), index)
	//
	_, ok = m.Find("h")
	assert.False(t, ok)
	//
	fn, ok := m.Function(0)
	assert.True(t, ok)
	assert.Equal(t, "f", fn.Name())
	//
	_, ok = m.Function(2)
	assert.False(t, ok)
}

func TestNewFunctionInvalidLocals(t *testing.T) {
	assert.Panics(t, func() { NewFunction("bad", []value.Type{value.U8, value.U8}, 1, 0, nil) })
}

func TestParseOpcode(t *testing.T) {
	for op := LD_U8; op <= ABORT; op++ {
		parsed, ok := ParseOpcode(op.String())
		assert.True(t, ok)
		assert.Equal(t, op, parsed)
		assert.Equal(t, op.HasOperand(), op.OperandWidth() > 0, op.String())
	}
	//
	_, ok := ParseOpcode("Jump")
	assert.False(t, ok)
}
