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
package asm

import (
	"strings"
	"testing"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/source"
	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) (*bytecode.Module, []source.SyntaxError) {
	t.Helper()
	//
	return Parse(source.NewSourceFile("test.zkm", []byte(text)))
}

func parseFile(t *testing.T, filename string) *bytecode.Module {
	t.Helper()
	//
	srcfile, err := source.ReadFile(filename)
	require.NoError(t, err)
	//
	module, errs := Parse(srcfile)
	require.Empty(t, errs)
	//
	return module
}

func checkError(t *testing.T, text string, msg string, line int) {
	t.Helper()
	//
	_, errs := parse(t, text)
	require.Len(t, errs, 1)
	assert.Equal(t, msg, errs[0].Message())
	//
	enclosing := errs[0].FirstEnclosingLine()
	assert.Equal(t, line, enclosing.Number())
}

func TestAssembleAddition(t *testing.T) {
	module, errs := parse(t, "fn main() -> 1 {\n  LdU8 2\n  LdU8 3\n  Add\n  Ret\n}")
	require.Empty(t, errs)
	//
	fn, ok := module.Function(0)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name())
	assert.Equal(t, uint(0), fn.NumParams())
	assert.Equal(t, uint(1), fn.NumReturns())
	assert.Equal(t, []bytecode.Instruction{bytecode.LdU8(2), bytecode.LdU8(3), bytecode.Add(), bytecode.Ret()}, fn.Code())
}

func TestAssembleLabels(t *testing.T) {
	module := parseFile(t, "testdata/branch.zkm")
	fn, _ := module.Function(0)
	//
	assert.Equal(t, []value.Type{value.U64}, fn.Parameters())
	assert.Equal(t, uint(2), fn.NumLocals())
	assert.Equal(t, bytecode.BrTrue(5), fn.CodeAt(3))
	assert.Equal(t, bytecode.Branch(10), fn.CodeAt(4))
	assert.Equal(t, bytecode.Branch(14), fn.CodeAt(9))
	assert.Equal(t, bytecode.MoveLoc(1), fn.CodeAt(14))
}

func TestAssembleCalls(t *testing.T) {
	module := parseFile(t, "testdata/call.zkm")
	//
	main, _ := module.Function(0)
	assert.Equal(t, bytecode.Call(1), main.CodeAt(2))
	//
	index, ok := module.Find("square_diff")
	assert.True(t, ok)
	assert.Equal(t, uint16(1), index)
}

func TestAssembleWideLiteral(t *testing.T) {
	module := parseFile(t, "testdata/abort.zkm")
	fn, _ := module.Function(0)
	//
	expected, err := uint256.FromHex("0xdeadbeef000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, bytecode.LdU128(expected), fn.CodeAt(4))
	assert.Equal(t, bytecode.BrFalse(3), fn.CodeAt(1))
	assert.Equal(t, bytecode.Branch(4), fn.CodeAt(2))
}

func TestAssembleComments(t *testing.T) {
	module, errs := parse(t, ";; header\nfn f() { ;; trailing\n Ret ;; done\n}\n;; end")
	require.Empty(t, errs)
	assert.Len(t, module.Functions(), 1)
}

func TestAssembleErrors(t *testing.T) {
	checkError(t, "fn main() {\n  Jump 1\n}", "unknown instruction", 2)
	checkError(t, "fn main() {\n  LdU8 256\n}", "literal exceeds 8 bits", 2)
	checkError(t, "fn main() {\n  LdU64 0x1_0000_0000_0000_0000\n}", "literal exceeds 64 bits", 2)
	checkError(t, "fn main() {\n  CopyLoc 300\n}", "literal exceeds 8 bits", 2)
	checkError(t, "fn main() {\n  Branch nowhere\n}", "unknown label", 2)
	checkError(t, "fn main() {\n  Call nowhere\n}", "unknown function", 2)
	checkError(t, "fn main() {\nx:\nx:\n  Ret\n}", "duplicate label", 3)
	checkError(t, "fn f() { Ret }\nfn f() { Ret }", "duplicate function", 2)
	checkError(t, "fn main(u16) { Ret }", "unknown type", 1)
	checkError(t, "fn main(u8, u8) {\n  locals 1\n}", "fewer locals than parameters", 2)
	checkError(t, "fn main() {\n  Ret\n", "missing \"}\"", 3)
	checkError(t, "fn main() {\n  Add 1\n}", "unexpected token", 2)
	checkError(t, "fn main() {\n  LdU8\n}", "unexpected token", 3)
	checkError(t, "main() {}", "unknown declaration", 1)
	checkError(t, "fn main() {\n  Ret #\n}", "unknown text encountered", 2)
}

func TestDisassembleRoundTrip(t *testing.T) {
	var (
		module = parseFile(t, "testdata/branch.zkm")
		fn, _  = module.Function(0)
		buf    strings.Builder
		text   strings.Builder
	)
	//
	require.NoError(t, fn.Disassemble(&buf))
	// Reassemble from the dump, after stripping positions
	text.WriteString("fn main(u64) -> 1 {\n locals 2\n")
	//
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n")[1:] {
		insn := line[strings.Index(line, ", ")+2:]
		insn = strings.NewReplacer("(", " ", ")", "").Replace(insn)
		text.WriteString(insn + "\n")
	}
	//
	text.WriteString("}\n")
	//
	reassembled, errs := parse(t, text.String())
	require.Empty(t, errs)
	//
	other, _ := reassembled.Function(0)
	assert.Equal(t, fn.Code(), other.Code())
}
