/*
 * molecule_test.go, part of gonb.
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

package mol

import (
	"errors"
	"testing"

	nb "github.com/rmera/gonb"
	v3 "github.com/rmera/gonb/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water(Te *testing.T, num nb.MolNum, x float64) *Molecule {
	Te.Helper()
	ow := nb.LJParameter{Sigma: 3.15, Epsilon: 0.152}
	m, err := FromAtoms(num, "HOH", [][]Atom{
		{
			{Name: "O", Pos: [3]float64{x, 0, 0}, Charge: -0.834, LJ: ow},
			{Name: "H1", Pos: [3]float64{x + 0.957, 0, 0}, Charge: 0.417},
			{Name: "H2", Pos: [3]float64{x - 0.24, 0.927, 0}, Charge: 0.417},
		},
	})
	require.NoError(Te, err)
	return m
}

func TestFromAtoms(Te *testing.T) {
	m := water(Te, 1, 0)
	assert.Equal(Te, 1, m.NGroups())
	assert.Equal(Te, 3, m.NAtoms())
	assert.Equal(Te, 3, m.GroupNAtoms(0))
	assert.Equal(Te, "H2", m.AtomName(nb.AtomIndex{Group: 0, Atom: 2}))
	q, err := m.Charges(nb.DefaultChargeProperty)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.0, q[0][0]+q[0][1]+q[0][2], 1e-12)
	lj, err := m.LJParameters(nb.DefaultLJProperty)
	require.NoError(Te, err)
	assert.True(Te, lj[0][1].IsDummy())
	assert.Equal(Te, nb.Version{}, m.Version())

	_, err = FromAtoms(2, "bad", [][]Atom{{}})
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
}

func TestMissingProperty(Te *testing.T) {
	c, err := v3.NewMatrix([]float64{0, 0, 0})
	require.NoError(Te, err)
	m, err := New(3, "X", []*v3.Matrix{c})
	require.NoError(Te, err)
	_, err = m.Charges("charge")
	assert.True(Te, errors.Is(err, nb.ErrMissingParameter))
	_, err = m.LJParameters("LJ")
	assert.True(Te, errors.Is(err, nb.ErrMissingParameter))
}

func TestEditsAreCopyOnWrite(Te *testing.T) {
	m := water(Te, 1, 0)
	moved := m.Translate([3]float64{1, 0, 0})
	assert.Equal(Te, m.ID(), moved.ID())
	assert.Equal(Te, uint64(0), moved.Version().Major)
	assert.True(Te, m.Version().Less(moved.Version()))
	//two edits of the same molecule never share a version
	other := m.Translate([3]float64{-1, 0, 0})
	assert.NotEqual(Te, moved.Version(), other.Version())
	assert.False(Te, moved.Version().MajorChanged(other.Version()))
	assert.Equal(Te, 0.0, m.Coordinates()[0].At(0, 0), "original molecule changed")
	assert.Equal(Te, 1.0, moved.Coordinates()[0].At(0, 0))

	q0, _ := m.Charges(nb.DefaultChargeProperty)
	q1, _ := moved.Charges(nb.DefaultChargeProperty)
	assert.Same(Te, &q0[0][0], &q1[0][0], "moving atoms shouldn't copy the charges")

	charged, err := moved.SetAtomCharge(nb.DefaultChargeProperty, nb.AtomIndex{Group: 0, Atom: 0}, -1)
	require.NoError(Te, err)
	assert.True(Te, charged.Version().MajorChanged(moved.Version()))
	assert.True(Te, moved.Version().Less(charged.Version()))
	assert.Equal(Te, uint64(0), charged.Version().Minor)
	q2, _ := charged.Charges(nb.DefaultChargeProperty)
	assert.Equal(Te, -1.0, q2[0][0])
	assert.Equal(Te, -0.834, q1[0][0])
	assert.Same(Te, moved.Coordinates()[0], charged.Coordinates()[0])

	_, err = m.SetAtomCharge(nb.DefaultChargeProperty, nb.AtomIndex{Group: 0, Atom: 3}, 1)
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
}

func TestTranslateGroupsSharesUnchanged(Te *testing.T) {
	m, err := FromAtoms(1, "two", [][]Atom{
		{{Pos: [3]float64{0, 0, 0}}},
		{{Pos: [3]float64{5, 0, 0}}, {Pos: [3]float64{6, 0, 0}}},
	})
	require.NoError(Te, err)
	moved, err := m.TranslateGroups([3]float64{0, 1, 0}, 1, 1)
	require.NoError(Te, err)
	assert.Same(Te, m.Coordinates()[0], moved.Coordinates()[0])
	assert.NotSame(Te, m.Coordinates()[1], moved.Coordinates()[1])
	assert.Equal(Te, 1.0, moved.Coordinates()[1].At(1, 1))

	_, err = m.TranslateGroups([3]float64{}, 2)
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))

	c := v3.Zeros(1)
	_, err = m.SetGroupCoordinates(1, c)
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
	set, err := m.SetGroupCoordinates(0, c)
	require.NoError(Te, err)
	assert.Same(Te, c, set.Coordinates()[0])
}

func TestAddGroup(Te *testing.T) {
	m := water(Te, 1, 0)
	c, err := v3.NewMatrix([]float64{9, 9, 9, 9, 9, 8})
	require.NoError(Te, err)
	bigger, err := m.AddGroup(c, map[string][]float64{nb.DefaultChargeProperty: {0.1, -0.1}}, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 2, bigger.NGroups())
	assert.Equal(Te, 5, bigger.NAtoms())
	assert.Equal(Te, 1, m.NGroups())
	assert.True(Te, m.Version().Less(bigger.Version()))
	lj, err := bigger.LJParameters(nb.DefaultLJProperty)
	require.NoError(Te, err)
	assert.Len(Te, lj[1], 2)
	assert.True(Te, lj[1][0].IsDummy())

	_, err = m.AddGroup(c, map[string][]float64{"charge": {1}}, nil)
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
}

func TestWithParameters(Te *testing.T) {
	m := water(Te, 1, 0)
	_, err := m.WithCharges("other", [][]float64{{1, 2}})
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
	m2, err := m.WithLJ("other", [][]nb.LJParameter{{{Sigma: 1, Epsilon: 1}, {}, {}}})
	require.NoError(Te, err)
	_, err = m.LJParameters("other")
	assert.Error(Te, err)
	lj, err := m2.LJParameters("other")
	require.NoError(Te, err)
	assert.Equal(Te, 1.0, lj[0][0].Sigma)
	assert.True(Te, m.Version().Less(m2.Version()))
	assert.True(Te, m2.Version().MajorChanged(m.Version()))
}
