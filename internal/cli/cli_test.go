/*
 * cli_test.go, part of gonb.
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
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ions = `
name: ions
switch: {type: harmonic, cutoff: 15, feather: 12}
molecules:
  - number: 1
    name: sodium
    groups:
      - atoms:
          - {name: Na, pos: [0, 0, 0], charge: 1, sigma: 2.5, epsilon: 0.1}
  - number: 2
    name: chloride
    groups:
      - atoms:
          - {name: Cl, pos: [3, 0, 0], charge: -1, sigma: 4.4, epsilon: 0.1}
  - number: 3
    name: dimer
    groups:
      - atoms:
          - {name: A, pos: [0, 8, 0], charge: 0.5, sigma: 3, epsilon: 0.1}
      - atoms:
          - {name: B, pos: [0, 12, 0], charge: -0.5, sigma: 3, epsilon: 0.1}
`

func systemFile(Te *testing.T) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), "ions.yaml")
	require.NoError(Te, os.WriteFile(path, []byte(ions), 0o600))
	return path
}

func run(Te *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	Te.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(Te *testing.T) {
	output, err := run(Te, newVersionCmd())
	require.NoError(Te, err)
	if strings.Contains(output, "version: unknown") {
		return
	}
	assert.Contains(Te, output, "gonb version")
	assert.Contains(Te, output, "go version")
}

func TestEnergyCmd(Te *testing.T) {
	output, err := run(Te, newEnergyCmd(), systemFile(Te))
	require.NoError(Te, err)
	assert.Contains(Te, output, "System ions, 3 molecules")
	assert.Contains(Te, output, "chloride")
	assert.Contains(Te, output, "dimer")
	assert.Contains(Te, output, "inter")
	assert.Contains(Te, output, "total")

	_, err = run(Te, newEnergyCmd(), filepath.Join(Te.TempDir(), "missing.yaml"))
	assert.Error(Te, err)
	_, err = run(Te, newEnergyCmd())
	assert.Error(Te, err)
}

func TestScanCmd(Te *testing.T) {
	file := systemFile(Te)
	png := filepath.Join(Te.TempDir(), "scan.png")
	output, err := run(Te, newScanCmd(), file, "--molecule", "2", "--step", "0.5,0,0", "--steps", "4", "--plot", png)
	require.NoError(Te, err)
	assert.Contains(Te, output, "minimum")
	assert.Contains(Te, output, "plot written to")
	info, err := os.Stat(png)
	require.NoError(Te, err)
	assert.Positive(Te, info.Size())

	_, err = run(Te, newScanCmd(), file, "--molecule", "9")
	assert.Error(Te, err)
	_, err = run(Te, newScanCmd(), file, "--step", "1,0")
	assert.Error(Te, err)
}

func TestCheckpointCmds(Te *testing.T) {
	file := systemFile(Te)
	db := filepath.Join(Te.TempDir(), "db")

	output, err := run(Te, newCheckpointCmd(), "save", file, "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, output, "saved ions: 3 molecules")
	_, err = run(Te, newCheckpointCmd(), "save", file, "second", "--db", db)
	require.NoError(Te, err)

	output, err = run(Te, newCheckpointCmd(), "list", "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, output, "ions")
	assert.Contains(Te, output, "second")

	output, err = run(Te, newCheckpointCmd(), "show", "ions", "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, output, "InterFF ions: 3 molecules")

	_, err = run(Te, newCheckpointCmd(), "delete", "ions", "--db", db)
	require.NoError(Te, err)
	_, err = run(Te, newCheckpointCmd(), "show", "ions", "--db", db)
	assert.Error(Te, err)
}

func TestLogging(Te *testing.T) {
	assert.Equal(Te, slog.LevelDebug, parseSlogLevel(" DEBUG ", slog.LevelInfo))
	assert.Equal(Te, slog.LevelWarn, parseSlogLevel("warning", slog.LevelInfo))
	assert.Equal(Te, slog.Level(-8), parseSlogLevel("-8", slog.LevelInfo))
	assert.Equal(Te, slog.LevelError, parseSlogLevel("loud", slog.LevelError))

	prev := slog.Default()
	defer slog.SetDefault(prev)
	path := filepath.Join(Te.TempDir(), "gonb.log")
	configureLogger(path, true)
	slog.Debug("debug line")
	data, err := os.ReadFile(path)
	require.NoError(Te, err)
	assert.Contains(Te, string(data), "debug line")
}

func TestForcefieldOptions(Te *testing.T) {
	O := forcefieldOptions()
	assert.Equal(Te, defaultWorkers, O.Workers())
	assert.Equal(Te, defaultFraction, O.FullRecomputeFraction())
	assert.False(Te, O.CheckConsistency())
}
