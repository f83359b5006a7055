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
	"github.com/consensys/go-zkmove/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest [flags] file.zkm",
	Short: "Compute the digest of a function's circuit structure.",
	Long: `Build the structure of the circuit for a given function (without any input), and
report a Keccak-256 digest identifying its wires and constraints.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFieldAgnosticCmd(cmd, args, digestCmds)
	},
}

// Available instances
var digestCmds = []FieldAgnosticCmd{
	{field.BLS12_377, runDigestCmd[bls12_377.Element]},
	{field.BN254, runDigestCmd[bn254.Element]},
}

func runDigestCmd[F field.Element[F]](cmd *cobra.Command, args []string) {
	var (
		module = ReadModule(args[0], UseColour(cmd))
		entry  = FindEntry(module, GetString(cmd, "entry"))
		cs     = circuit.NewSystem[F]()
		interp = vm.NewInterpreter[F](module, cs, vm.DefaultConfig().WithMode(vm.STRUCTURE))
		stats  = util.NewPerfStats()
	)
	//
	_, err := interp.Run(entry, nil)
	stats.Log("structure build")
	//
	if err != nil {
		log.WithField("step", interp.Steps()).Error(err)
		os.Exit(5)
	}
	//
	digest := cs.Digest()
	//
	fmt.Printf("0x%x (%d wires, %d constraints)\n", digest[:], cs.NumWires(), cs.NumConstraints())
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().String("entry", "main", "name of the function to build")
	digestCmd.Flags().Bool("color", false, "force (or disable) highlighted output")
}
