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
package cmd

import (
	"strings"
	"testing"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkmove/pkg/util/termio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments[bls12_377.Element]([]string{"7", "0xff", "0"})
	require.NoError(t, err)
	//
	assert.True(t, args[0].Equals(field.Uint64[bls12_377.Element](7)))
	assert.True(t, args[1].Equals(field.Uint64[bls12_377.Element](255)))
	assert.True(t, args[2].IsZero())
	//
	_, err = ParseArguments[bls12_377.Element]([]string{"seven"})
	assert.Error(t, err)
	_, err = ParseArguments[bls12_377.Element]([]string{"-1"})
	assert.Error(t, err)
}

func TestHighlightFunction(t *testing.T) {
	fn := bytecode.NewFunction("main", nil, 0, 0, []bytecode.Instruction{
		bytecode.LdTrue(), bytecode.BrTrue(3), bytecode.Branch(3), bytecode.Ret(),
	})
	//
	lines := strings.Split(strings.TrimSpace(highlightFunction(fn)), "\n")
	require.Len(t, lines, 5)
	//
	yellow := termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW)
	assert.Equal(t, "#0, LdTrue", lines[1])
	assert.Equal(t, "#1, "+yellow.Wrap("BrTrue(3)"), lines[2])
	assert.Contains(t, lines[0], "main")
}

func TestRootCommands(t *testing.T) {
	var names []string
	//
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	//
	assert.Subset(t, names, []string{"run", "disasm", "digest"})
	assert.Equal(t, field.BLS12_377.Name, rootCmd.PersistentFlags().Lookup("field").DefValue)
}
