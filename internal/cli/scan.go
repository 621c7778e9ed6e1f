/*
 * scan.go, part of gonb.
 *
 * Copyright 2026 The gonb Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */


package cli

import (
	"fmt"
	"log/slog"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/mol"
	"github.com/rmera/gonb/profile"
	"github.com/rmera/gonb/system"
	"github.com/spf13/cobra"
)

type scanFlags struct {
	molecule int
	step     []float64
	steps    int
	plot     string
}

func newScanCmd() *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan <system.yaml>",
		Short: "Scan the intermolecular energy along a displacement",
		Long: `Move one molecule of a system by a fixed step, a number of times, printing the
intermolecular energy at each position. Each step is evaluated incrementally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(f.step) != 3 {
				return fmt.Errorf("the step needs 3 components, got %d", len(f.step))
			}
			sys, err := system.ReadFile(args[0])
			if err != nil {
				return err
			}
			F, mols, err := sys.Build(forcefieldOptions())
			if err != nil {
				return err
			}
			var target *mol.Molecule
			for _, m := range mols {
				if m.Number() == nb.MolNum(f.molecule) {
					target = m
				}
			}
			if target == nil {
				return fmt.Errorf("no molecule %d in %s", f.molecule, args[0])
			}
			step := [3]float64{f.step[0], f.step[1], f.step[2]}
			slog.Info("scan", "system", sys.Name, "molecule", f.molecule, "step", step, "steps", f.steps)
			P, err := profile.Scan(cmd.Context(), F, target, step, f.steps)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			P.WriteTable(out)
			S := P.Summarize()
			fmt.Fprintf(out, "\nmean %.4f  std dev %.4f  max %.4f  minimum %.4f at %.3f A\n",
				S.Mean, S.StdDev, S.Max, S.Min, S.Minimum.Distance)
			if f.plot != "" {
				title := fmt.Sprintf("%s: molecule %d", sys.Name, f.molecule)
				if err := P.SavePlot(title, f.plot); err != nil {
					return err
				}
				fmt.Fprintf(out, "plot written to %s\n", f.plot)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&f.molecule, "molecule", "m", 1, "number of the molecule to move")
	cmd.Flags().Float64SliceVar(&f.step, "step", []float64{0.2, 0, 0}, "displacement per step, in A")
	cmd.Flags().IntVarP(&f.steps, "steps", "n", 20, "number of steps")
	cmd.Flags().StringVar(&f.plot, "plot", "", "save a plot of the scan to this file (png, svg, pdf...)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newScanCmd())
}
