/*
 * system_test.go, part of gonb.
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

package system

import (
	"strings"
	"testing"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/space"
	"github.com/rmera/gonb/switching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waters = `
name: waters
space: {type: periodic, box: [30, 30, 30]}
switch: {type: harmonic, cutoff: 12, feather: 10}
combining_rule: arithmetic
molecules:
  - number: 1
    name: water
    copies: 3
    shift: [5, 0, 0]
    groups:
      - atoms:
          - {name: O, pos: [0, 0, 0], charge: -0.834, sigma: 3.15, epsilon: 0.152}
          - {name: H1, pos: [0.96, 0, 0], charge: 0.417}
          - {name: H2, pos: [-0.24, 0.93, 0], charge: 0.417}
  - number: 10
    name: ion
    groups:
      - atoms:
          - {name: Na, pos: [0, 10, 0], charge: 1, sigma: 2.5, epsilon: 0.1}
`

func TestParseAndBuild(Te *testing.T) {
	F, err := Parse(strings.NewReader(waters))
	require.NoError(Te, err)
	assert.Equal(Te, "waters", F.Name)

	sp, err := F.BuildSpace()
	require.NoError(Te, err)
	assert.Equal(Te, space.PeriodicBox{X: 30, Y: 30, Z: 30}, sp)
	sw, err := F.BuildSwitch()
	require.NoError(Te, err)
	assert.Equal(Te, 12.0, sw.CutoffDistance())
	assert.Equal(Te, 1.0, sw.ElectrostaticScale(9))

	mols, err := F.BuildMolecules()
	require.NoError(Te, err)
	require.Len(Te, mols, 4)
	for i, want := range []nb.MolNum{1, 2, 3, 10} {
		assert.Equal(Te, want, mols[i].Number())
	}
	assert.InDelta(Te, 10.96, mols[2].Coordinates()[0].At(1, 0), 1e-12)
	assert.NotEqual(Te, mols[0].ID(), mols[1].ID())
	assert.Equal(Te, "H2", mols[1].AtomName(nb.AtomIndex{Group: 0, Atom: 2}))
	lj, err := mols[0].LJParameters(nb.DefaultLJProperty)
	require.NoError(Te, err)
	assert.True(Te, lj[0][1].IsDummy())

	FF, _, err := F.Build(nil)
	require.NoError(Te, err)
	assert.Equal(Te, 4, FF.NMolecules())
	assert.NotZero(Te, FF.Energy().Coulomb)
	I, _, err := F.BuildIntra(nil)
	require.NoError(Te, err)
	assert.NotZero(Te, I.Energy().Coulomb)
}

func TestDefaults(Te *testing.T) {
	F, err := Parse(strings.NewReader(`
name: one
molecules:
  - groups:
      - atoms:
          - {pos: [0, 0, 0], charge: 1}
`))
	require.NoError(Te, err)
	sp, err := F.BuildSpace()
	require.NoError(Te, err)
	assert.Equal(Te, space.Cartesian{}, sp)
	sw, err := F.BuildSwitch()
	require.NoError(Te, err)
	assert.Equal(Te, switching.NoCutoff{}, sw)
	assert.Equal(Te, "geometric", F.Options(nil).CombiningRule())
}

//c6 = 4*eps*sigma^6 and c12 = 4*eps*sigma^12, with sigma 3 and eps 0.5.
func TestC6C12(Te *testing.T) {
	F, err := Parse(strings.NewReader(`
name: c6c12
molecules:
  - groups:
      - atoms:
          - {name: Ar, pos: [0, 0, 0], c6: 1458, c12: 1062882}
          - {name: X, pos: [4, 0, 0], c6: 1458}
`))
	require.NoError(Te, err)
	mols, err := F.BuildMolecules()
	require.NoError(Te, err)
	lj, err := mols[0].LJParameters(nb.DefaultLJProperty)
	require.NoError(Te, err)
	assert.InDelta(Te, 3.0, lj[0][0].Sigma, 1e-12)
	assert.InDelta(Te, 0.5, lj[0][0].Epsilon, 1e-12)
	assert.True(Te, lj[0][1].IsDummy())
}

func TestInvalidFiles(Te *testing.T) {
	for name, doc := range map[string]string{
		"no name":      "molecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"no molecules": "name: x",
		"short pos":    "name: x\nmolecules: [{groups: [{atoms: [{pos: [0, 0]}]}]}]",
		"empty group":  "name: x\nmolecules: [{groups: [{atoms: []}]}]",
		"bad rule":     "name: x\ncombining_rule: magic\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"feather":      "name: x\nswitch: {type: harmonic, cutoff: 5, feather: 8}\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"no cutoff":    "name: x\nswitch: {type: harmonic}\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"no box":       "name: x\nspace: {type: periodic}\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"negative box": "name: x\nspace: {type: periodic, box: [1, -1, 1]}\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"unknown key":  "name: x\ncolour: blue\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
		"mixed lj":     "name: x\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0], sigma: 3, epsilon: 0.5, c6: 1458}]}]}]",
		"negative c12": "name: x\nmolecules: [{groups: [{atoms: [{pos: [0, 0, 0], c6: 1, c12: -1}]}]}]",
		"same number":  "name: x\nmolecules: [{number: 1, copies: 2, groups: [{atoms: [{pos: [0, 0, 0]}]}]}, {number: 2, groups: [{atoms: [{pos: [0, 0, 0]}]}]}]",
	} {
		_, err := Parse(strings.NewReader(doc))
		assert.Error(Te, err, name)
	}
}
