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
	"math/big"
	"os"
	"strings"

	"github.com/consensys/go-zkmove/pkg/asm"
	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/source"
	"github.com/consensys/go-zkmove/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected string array, or exits if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// UseColour determines whether output should be highlighted.  Unless forced
// either way with "--color", this holds only when writing to a terminal.
func UseColour(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("color") {
		return GetFlag(cmd, "color")
	}
	//
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ReadModule reads and assembles a given source file, or exits after
// reporting any syntax errors.
func ReadModule(filename string, colour bool) *bytecode.Module {
	log.Debug(fmt.Sprintf("assembling source file %s", filename))
	//
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	module, errors := asm.Parse(srcfile)
	//
	if len(errors) != 0 {
		for _, err := range errors {
			printSyntaxError(&err, colour)
		}
		//
		os.Exit(4)
	}
	//
	return module
}

// FindEntry determines the module index of the named entry function, or exits.
func FindEntry(module *bytecode.Module, name string) uint16 {
	index, ok := module.Find(name)
	if !ok {
		fmt.Printf("unknown function \"%s\"\n", name)
		os.Exit(3)
	}
	//
	return index
}

// ParseArguments converts the textual arguments given on the command line
// (decimal, or hexadecimal with a "0x" prefix) into field elements.
func ParseArguments[F field.Element[F]](args []string) ([]F, error) {
	var elements = make([]F, len(args))
	//
	for i, arg := range args {
		var (
			val big.Int
			ok  bool
		)
		//
		if strings.HasPrefix(arg, "0x") {
			_, ok = val.SetString(arg[2:], 16)
		} else {
			_, ok = val.SetString(arg, 10)
		}
		//
		if !ok {
			return nil, fmt.Errorf("invalid argument \"%s\"", arg)
		}
		//
		element, err := field.FromBigInt[F](&val)
		if err != nil {
			return nil, fmt.Errorf("invalid argument \"%s\": %w", arg, err)
		}
		//
		elements[i] = element
	}
	//
	return elements, nil
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError, colour bool) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	highlight := strings.Repeat("^", length)
	//
	if colour {
		highlight = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED).Wrap(highlight)
	}
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	fmt.Println()
	fmt.Println(line.String())
	// Print indent
	fmt.Print(strings.Repeat(" ", lineOffset))
	fmt.Println(highlight)
}
