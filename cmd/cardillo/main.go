// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Cardillo runs flexible multibody simulations described by YAML scene
// files: rods, rigid bodies, joints and frictional contacts advanced by
// Moreau, Lobatto IIIA/B or Radau IIA schemes, or solved statically.
package main

import (
	"os"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/lisaeb/cardillo/inp"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "cardillo",
		Short:         "constrained flexible multibody dynamics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print per-step diagnostics")
	root.AddCommand(runCmd(), checkCmd())
	if err := root.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scene.yml>",
		Short: "run the solver configured in the scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := inp.ReadSim(args[0])
			if err != nil {
				return err
			}
			if sim.Desc != "" {
				io.Pf("%s\n", sim.Desc)
			}
			sol, err := sim.Run(verbose)
			if err != nil {
				return err
			}
			t, q, u := sol.Last()
			io.Pf("scheme   = %s\n", sim.Solver.Scheme)
			io.Pf("samples  = %d\n", sol.Nsamples())
			io.Pf("t final  = %g\n", t)
			io.Pf("q final  = %v\n", q)
			io.Pf("u final  = %v\n", u)
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scene.yml>",
		Short: "parse the scene and report the assembled dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := inp.ReadSim(args[0])
			if err != nil {
				return err
			}
			d, err := sim.BuildDomain()
			if err != nil {
				return err
			}
			io.Pf("bodies   = %d\n", len(d.Bodies))
			io.Pf("forces   = %d\n", len(d.Forces))
			io.Pf("joints   = %d\n", len(d.Joints))
			io.Pf("contacts = %d\n", len(d.Contacts))
			io.Pf("nq       = %d\n", d.Nq)
			io.Pf("nu       = %d\n", d.Nu)
			io.Pf("nlaS     = %d\n", d.NlaS)
			io.Pf("nlaG     = %d\n", d.NlaG)
			io.Pf("nlaN     = %d\n", d.NlaN)
			io.Pf("nlaF     = %d\n", d.NlaF)
			return nil
		},
	}
}
