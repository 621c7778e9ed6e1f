/*
 * checkpoint.go, part of gonb.
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
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rmera/gonb/store"
	"github.com/rmera/gonb/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func openStore() (*store.Store, error) {
	cfg := store.DefaultConfig()
	cfg.Path = viper.GetString(storeKey)
	cfg.Logger = slog.Default().With("component", "badger")
	return store.Open(cfg)
}

//withStore runs f with the store open, and closes it afterwards.
func withStore(f func(*store.Store) error) error {
	S, err := openStore()
	if err != nil {
		return err
	}
	err = f(S)
	if cerr := S.Close(); err == nil {
		err = cerr
	}
	return err
}

func newCheckpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Save, list, show and delete forcefield checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().String(dbFlagName, viper.GetString(storeKey), "checkpoint database directory")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dbFlagName), storeKey)
	cmd.AddCommand(newSaveCmd(), newListCmd(), newShowCmd(), newDeleteCmd())
	return cmd
}

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <system.yaml> [name]",
		Short: "Compute the energy of a system and store its forcefield",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := system.ReadFile(args[0])
			if err != nil {
				return err
			}
			F, _, err := sys.Build(forcefieldOptions())
			if err != nil {
				return err
			}
			name := sys.Name
			if len(args) > 1 {
				name = args[1]
			}
			E := F.Energy()
			err = withStore(func(S *store.Store) error {
				return S.Put(cmd.Context(), name, F)
			})
			if err != nil {
				return err
			}
			cmd.Printf("saved %s: %d molecules, %s\n", name, F.NMolecules(), E)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var infos []store.Info
			err := withStore(func(S *store.Store) error {
				var err error
				infos, err = S.List(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Saved", "Molecules", "Energy", "Bytes"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
			for _, I := range infos {
				energy := fmt.Sprintf("%.4f", I.Energy)
				if I.Dirty {
					energy = "pending"
				}
				table.Append([]string{I.Name, I.Saved.Format(time.DateTime), fmt.Sprintf("%d", I.Molecules),
					energy, fmt.Sprintf("%d", I.Size)})
			}
			table.SetFooter([]string{"", "", "", "checkpoints", fmt.Sprintf("%d", len(infos))})
			table.Render()
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Load a checkpoint and print its forcefield and energy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(S *store.Store) error {
				F, err := S.Get(cmd.Context(), args[0], forcefieldOptions())
				if err != nil {
					return err
				}
				cmd.Println(F)
				cmd.Println(F.Energy())
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(S *store.Store) error {
				return S.Delete(cmd.Context(), args[0])
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(newCheckpointCmd())
}
