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
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/termio"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file.zkm",
	Short: "Print the decoded instructions of every function.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			colour = UseColour(cmd)
			module = ReadModule(args[0], colour)
		)
		//
		for i, fn := range module.Functions() {
			if i != 0 {
				fmt.Println()
			}
			//
			if !colour {
				if err := fn.Disassemble(os.Stdout); err != nil {
					fmt.Println(err)
					os.Exit(2)
				}
			} else {
				fmt.Print(highlightFunction(fn))
			}
		}
	},
}

// Render a function in the same form as its disassembly, but with control
// flow highlighted.
func highlightFunction(fn *bytecode.Function) string {
	var (
		builder strings.Builder
		header  = termio.NewAnsiEscape().Bold()
	)
	//
	builder.WriteString(header.Wrap(fmt.Sprintf("Bytecode of function %q:", fn.Name())))
	builder.WriteString("\n")
	//
	for pc, insn := range fn.Code() {
		text := insn.String()
		//
		if col, ok := instructionColour(insn.Opcode); ok {
			text = termio.NewAnsiEscape().FgColour(col).Wrap(text)
		}
		//
		builder.WriteString(fmt.Sprintf("#%d, %s\n", pc, text))
	}
	//
	return builder.String()
}

func instructionColour(opcode bytecode.Opcode) (uint, bool) {
	switch opcode {
	case bytecode.BR_TRUE, bytecode.BR_FALSE, bytecode.BRANCH:
		return termio.TERM_YELLOW, true
	case bytecode.CALL, bytecode.RET:
		return termio.TERM_CYAN, true
	case bytecode.ABORT:
		return termio.TERM_RED, true
	default:
		return 0, false
	}
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().Bool("color", false, "force (or disable) highlighted output")
}
