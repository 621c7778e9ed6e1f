/*
 * kernel_test.go, part of gonb.
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

package clj

import (
	"math"
	"testing"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ffmol"
	"github.com/rmera/gonb/mol"
	"github.com/rmera/gonb/space"
	"github.com/rmera/gonb/switching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var argon = nb.LJParameter{Sigma: 3.0, Epsilon: 0.1}

func snapshot(Te *testing.T, m nb.Molecule) *ffmol.Snapshot {
	Te.Helper()
	s, err := ffmol.New(m, ffmol.DefaultParameters())
	require.NoError(Te, err)
	return s
}

//handLJ is the textbook 12-6 potential.
func handLJ(sigma, eps, r float64) float64 {
	return 4 * eps * (math.Pow(sigma/r, 12) - math.Pow(sigma/r, 6))
}

//Three atoms on a line, 3 A apart, charges +1, -1, 0, no cutoff.
func TestThreeAtomSelfEnergy(Te *testing.T) {
	m, err := mol.FromAtoms(1, "line", [][]mol.Atom{{
		{Pos: [3]float64{0, 0, 0}, Charge: 1, LJ: argon},
		{Pos: [3]float64{3, 0, 0}, Charge: -1, LJ: argon},
		{Pos: [3]float64{6, 0, 0}, Charge: 0, LJ: argon},
	}})
	require.NoError(Te, err)
	K := NewKernel(space.Cartesian{}, switching.NoCutoff{}, nil)
	E := K.MoleculeSelf(snapshot(Te, m), NewWorkspace(3))

	wantCoul := nb.OneOver4PiEps0 * (1 * -1 / 3.0)
	wantLJ := handLJ(3, 0.1, 3) + handLJ(3, 0.1, 6) + handLJ(3, 0.1, 3)
	assert.InDelta(Te, wantCoul, E.Coulomb, 1e-9)
	assert.InDelta(Te, wantLJ, E.LJ, 1e-12)
	assert.InDelta(Te, -0.00615234375, E.LJ, 1e-12)
}

//Splitting a molecule in groups gives the same energy as long as nothing is switched.
func TestSelfEqualsPairsWithoutCutoff(Te *testing.T) {
	atoms := []mol.Atom{
		{Pos: [3]float64{0, 0, 0}, Charge: 0.5, LJ: argon},
		{Pos: [3]float64{1.5, 0.3, 0}, Charge: -0.2, LJ: nb.LJParameter{Sigma: 2.5, Epsilon: 0.2}},
		{Pos: [3]float64{0, 2.2, 1}, Charge: -0.3},
		{Pos: [3]float64{3, 3, 3}, Charge: 0.1, LJ: argon},
	}
	one, err := mol.FromAtoms(1, "one", [][]mol.Atom{atoms})
	require.NoError(Te, err)
	split, err := mol.FromAtoms(1, "split", [][]mol.Atom{atoms[:1], atoms[1:3], atoms[3:]})
	require.NoError(Te, err)
	for name, rule := range map[string]nb.CombiningRule{"geometric": nb.Geometric, "arithmetic": nb.Arithmetic} {
		K := NewKernel(space.Cartesian{}, switching.NoCutoff{}, rule)
		ws := NewWorkspace(0)
		a := K.MoleculeSelf(snapshot(Te, one), ws)
		b := K.MoleculeSelf(snapshot(Te, split), ws)
		assert.InDelta(Te, a.Coulomb, b.Coulomb, 1e-9, name)
		assert.InDelta(Te, a.LJ, b.LJ, 1e-12, name)
	}
}

func TestGroupPairMatchesHand(Te *testing.T) {
	a, err := mol.FromAtoms(1, "a", [][]mol.Atom{{{Pos: [3]float64{0, 0, 0}, Charge: 1, LJ: argon}}})
	require.NoError(Te, err)
	other := nb.LJParameter{Sigma: 4, Epsilon: 0.4}
	b, err := mol.FromAtoms(2, "b", [][]mol.Atom{{{Pos: [3]float64{0, 4, 0}, Charge: 0.5, LJ: other}}})
	require.NoError(Te, err)
	K := NewKernel(space.Cartesian{}, switching.NoCutoff{}, nb.Geometric)
	E := K.MoleculePair(snapshot(Te, a), snapshot(Te, b), NewWorkspace(1))
	assert.InDelta(Te, nb.OneOver4PiEps0*0.5/4, E.Coulomb, 1e-9)
	assert.InDelta(Te, handLJ(math.Sqrt(12), math.Sqrt(0.04), 4), E.LJ, 1e-12)

	K.Rule = nb.Arithmetic
	E = K.MoleculePair(snapshot(Te, a), snapshot(Te, b), NewWorkspace(1))
	assert.InDelta(Te, handLJ(3.5, math.Sqrt(0.04), 4), E.LJ, 1e-12)
}

func pair(Te *testing.T, d float64) (*ffmol.Snapshot, *ffmol.Snapshot, Energy) {
	Te.Helper()
	a, err := mol.FromAtoms(1, "a", [][]mol.Atom{{
		{Pos: [3]float64{0, 0, 0}, Charge: 0.4, LJ: argon},
		{Pos: [3]float64{-1, 0, 0}, Charge: -0.4, LJ: argon},
	}})
	require.NoError(Te, err)
	b, err := mol.FromAtoms(2, "b", [][]mol.Atom{{
		{Pos: [3]float64{d, 0, 0}, Charge: 0.4, LJ: argon},
		{Pos: [3]float64{d + 1, 0, 0}, Charge: -0.4, LJ: argon},
	}})
	require.NoError(Te, err)
	sa, sb := snapshot(Te, a), snapshot(Te, b)
	unscaled := NewKernel(space.Cartesian{}, switching.NoCutoff{}, nil).MoleculePair(sa, sb, NewWorkspace(2))
	return sa, sb, unscaled
}

//Groups beyond the cutoff give exactly zero. Within the feather region the energy is
//scaled, strictly between zero and the unscaled value.
func TestCutoffAndFeather(Te *testing.T) {
	H, err := switching.NewHarmonic(10, 8)
	require.NoError(Te, err)
	K := NewKernel(space.Cartesian{}, H, nil)
	ws := NewWorkspace(2)

	sa, sb, _ := pair(Te, 15)
	assert.Equal(Te, Energy{}, K.MoleculePair(sa, sb, ws))

	//just beyond the cutoff
	sa, sb, _ = pair(Te, 10.5)
	assert.Equal(Te, Energy{}, K.MoleculePair(sa, sb, ws))

	sa, sb, unscaled := pair(Te, 9)
	E := K.MoleculePair(sa, sb, ws)
	scale := H.ElectrostaticScale(9)
	require.Greater(Te, scale, 0.0)
	require.Less(Te, scale, 1.0)
	assert.InDelta(Te, unscaled.Coulomb*scale, E.Coulomb, 1e-12)
	assert.InDelta(Te, unscaled.LJ*scale, E.LJ, 1e-15)
	assert.NotZero(Te, E.Coulomb)
	assert.Less(Te, math.Abs(E.Coulomb), math.Abs(unscaled.Coulomb))

	sa, sb, unscaled = pair(Te, 5)
	assert.Equal(Te, unscaled, K.MoleculePair(sa, sb, ws))
}

func TestEnergyArithmetic(Te *testing.T) {
	a := Energy{1, 2}
	b := Energy{0.5, -1}
	assert.Equal(Te, Energy{1.5, 1}, a.Add(b))
	assert.Equal(Te, Energy{0.5, 3}, a.Sub(b))
	assert.Equal(Te, Energy{2, 4}, a.Scale(2))
	assert.Equal(Te, 3.0, a.Total())
}
