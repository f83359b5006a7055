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

	"github.com/consensys/go-zkmove/pkg/circuit"
	"github.com/consensys/go-zkmove/pkg/util"
	"github.com/consensys/go-zkmove/pkg/util/field"
	"github.com/consensys/go-zkmove/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkmove/pkg/util/field/bn254"
	"github.com/consensys/go-zkmove/pkg/util/termio"
	"github.com/consensys/go-zkmove/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file.zkm",
	Short: "Interpret a function whilst building its circuit.",
	Long: `Interpret a function whilst recording its arithmetic as constraints.  In witness
mode every argument must be given, and the resulting assignment is checked
against the constraints.  In structure mode arguments are ignored, and both
arms of every branch are constrained.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFieldAgnosticCmd(cmd, args, runCmds)
	},
}

// Available instances
var runCmds = []FieldAgnosticCmd{
	{field.BLS12_377, runRunCmd[bls12_377.Element]},
	{field.BN254, runRunCmd[bn254.Element]},
}

func runRunCmd[F field.Element[F]](cmd *cobra.Command, args []string) {
	var (
		colour = UseColour(cmd)
		module = ReadModule(args[0], colour)
		entry  = FindEntry(module, GetString(cmd, "entry"))
		cs     = circuit.NewSystem[F]()
	)
	//
	mode, err := vm.ParseMode(GetString(cmd, "mode"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	inputs, err := ParseArguments[F](GetStringArray(cmd, "arg"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	stats := util.NewPerfStats()
	interp := vm.NewInterpreter[F](module, cs, vm.DefaultConfig().WithMode(mode))
	results, err := interp.Run(entry, inputs)
	//
	stats.Log("interpretation")
	//
	if err != nil {
		log.WithField("step", interp.Steps()).Error(err)
		os.Exit(5)
	}
	//
	for i, result := range results {
		fmt.Printf("result[%d] = %s\n", i, result.String())
	}
	//
	digest := cs.Digest()
	//
	fmt.Printf("steps: %d\n", interp.Steps())
	fmt.Printf("wires: %d\n", cs.NumWires())
	fmt.Printf("constraints: %d\n", cs.NumConstraints())
	fmt.Printf("digest: 0x%x\n", digest[:])
	//
	if mode == vm.WITNESS {
		reportSatisfaction(cs, colour)
	}
}

// Report whether the assignment satisfies every constraint.  This checks the
// recorded gates only: an equality gate does not force its result to one when
// its operands are equal, so a satisfied witness is not a proof of soundness.
func reportSatisfaction[F field.Element[F]](cs *circuit.System[F], colour bool) {
	var (
		status = "satisfied"
		col    = termio.TERM_GREEN
		err    = cs.IsSatisfied()
	)
	//
	if err != nil {
		status = fmt.Sprintf("unsatisfied (%s)", err)
		col = termio.TERM_RED
	}
	//
	if colour {
		status = termio.NewAnsiEscape().FgColour(col).Wrap(status)
	}
	//
	fmt.Printf("witness: %s\n", status)
	//
	if err != nil {
		os.Exit(6)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("entry", "main", "name of the function to run")
	runCmd.Flags().String("mode", vm.WITNESS.String(), "interpretation mode (witness or structure)")
	runCmd.Flags().StringArray("arg", nil, "argument value for the entry function (repeatable)")
	runCmd.Flags().Bool("color", false, "force (or disable) highlighted output")
}
