/*
 * root.go, part of gonb.
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


//Package cli contains the gonb command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const rootLongDescription = `gonb evaluates Coulomb and Lennard-Jones energies of molecular systems
described in YAML files, and keeps checkpoints of the forcefields in a local database.

Settings are read from gonb.yaml in the working directory, from GONB_* environment
variables (e.g. GONB_FF_WORKERS) and from the flags, which take precedence.`

var (
	logPathFlag string
	verboseFlag bool
)

//rootCmd is the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "gonb",
		Short:         "Nonbonded energies of molecular systems",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logPathFlag, verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func init() {
	configureRootFlags(rootCmd)
}

func configureRootFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&logPathFlag, logFlagName, viper.GetString(logFilenameKey), "log file")
	bindFlagToConfig(pf.Lookup(logFlagName), logFilenameKey)

	pf.BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	bindFlagToConfig(pf.Lookup(verboseFlagName), logVerboseKey)

	pf.Int(workersFlagName, viper.GetInt(workersKey), "goroutines used when energies are computed from scratch")
	bindFlagToConfig(pf.Lookup(workersFlagName), workersKey)

	pf.Float64(fractionFlagName, viper.GetFloat64(fractionKey), "fraction of changed molecules above which energies are computed from scratch")
	bindFlagToConfig(pf.Lookup(fractionFlagName), fractionKey)

	pf.Bool(checkFlagName, viper.GetBool(checkKey), "check every incremental energy against a full evaluation (slow)")
	bindFlagToConfig(pf.Lookup(checkFlagName), checkKey)
}

//bindFlagToConfig wires a flag to a viper key, so config and environment values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

//Execute runs the root command. It is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
