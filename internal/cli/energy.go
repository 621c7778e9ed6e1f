/*
 * energy.go, part of gonb.
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
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/rmera/gonb/clj"
	"github.com/rmera/gonb/system"
	"github.com/spf13/cobra"
)

func newEnergyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "energy <system.yaml>",
		Short: "Print the energies of a system",
		Long: `Print the intermolecular energy of a system, and the intramolecular energy of
each of its molecules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := system.ReadFile(args[0])
			if err != nil {
				return err
			}
			opts := forcefieldOptions()
			inter, mols, err := sys.Build(opts)
			if err != nil {
				return err
			}
			intra, _, err := sys.BuildIntra(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ie := intra.Energy()
			table := newEnergyTable(out, "Molecule", "Name")
			for _, m := range mols {
				e, _ := intra.MoleculeEnergy(m.Number())
				table.Append(energyRow(e, fmt.Sprintf("%d", m.Number()), m.Name()))
			}
			table.SetFooter(energyRow(ie, "", "intra"))
			fmt.Fprintf(out, "System %s, %d molecules\n\n", sys.Name, len(mols))
			table.Render()

			fmt.Fprintln(out)
			table = newEnergyTable(out, "")
			table.Append(energyRow(inter.Energy(), "inter"))
			table.Append(energyRow(inter.Energy().Add(ie), "total"))
			table.Render()
			return nil
		},
	}
}

func newEnergyTable(w io.Writer, cols ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append(cols, "Coulomb", "LJ", "Total"))
	table.SetBorder(false)
	table.SetCenterSeparator("")
	align := make([]int, len(cols)+3)
	for i := range align {
		align[i] = tablewriter.ALIGN_RIGHT
	}
	table.SetColumnAlignment(align)
	return table
}

func energyRow(E clj.Energy, cols ...string) []string {
	return append(cols,
		fmt.Sprintf("%.4f", E.Coulomb),
		fmt.Sprintf("%.4f", E.LJ),
		fmt.Sprintf("%.4f", E.Total()))
}

func init() {
	rootCmd.AddCommand(newEnergyCmd())
}
