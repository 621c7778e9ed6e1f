/*
 * ffmol_test.go, part of gonb.
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

package ffmol

import (
	"errors"
	"testing"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/mol"
	"github.com/rmera/gonb/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lj = nb.LJParameter{Sigma: 3.0, Epsilon: 0.1}

//chain returns a molecule with groups of the given sizes, with atoms on the x axis
//3 A apart, alternating charges and the same LJ parameters.
func chain(Te *testing.T, sizes ...int) *mol.Molecule {
	Te.Helper()
	groups := make([][]mol.Atom, len(sizes))
	x := 0.0
	q := 1.0
	for i, n := range sizes {
		groups[i] = make([]mol.Atom, n)
		for j := range groups[i] {
			groups[i][j] = mol.Atom{Pos: [3]float64{x, 0, 0}, Charge: q, LJ: lj}
			x += 3
			q = -q
		}
	}
	m, err := mol.FromAtoms(1, "chain", groups)
	require.NoError(Te, err)
	return m
}

func checkShape(Te *testing.T, S *Snapshot) {
	Te.Helper()
	require.Len(Te, S.Charges(), S.NGroups())
	require.Len(Te, S.LJParameters(), S.NGroups())
	for i, c := range S.Coordinates() {
		assert.Len(Te, S.Charges()[i], c.NVecs())
		assert.Len(Te, S.LJParameters()[i], c.NVecs())
		j, ok := S.GroupIndex(S.OriginalGroup(i))
		assert.True(Te, ok)
		assert.Equal(Te, i, j)
	}
}

func TestSelectAllSharesMoleculeArrays(Te *testing.T) {
	m := chain(Te, 2, 3)
	S, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	checkShape(Te, S)
	assert.Equal(Te, 2, S.NGroups())
	q, _ := m.Charges(nb.DefaultChargeProperty)
	assert.Same(Te, &q[1][0], &S.Charges()[1][0])
	assert.Same(Te, m.Coordinates()[0], S.Coordinates()[0])
	assert.Equal(Te, 1, S.OriginalGroup(1))
}

func TestSelectNone(Te *testing.T) {
	m := chain(Te, 2, 3)
	S, err := New(m, DefaultParameters(), selection.NewNone(m))
	require.NoError(Te, err)
	assert.True(Te, S.IsEmpty())
	assert.Equal(Te, 0, S.NGroups())
	_, ok := S.GroupIndex(0)
	assert.False(Te, ok)
	E := Empty(m, DefaultParameters())
	assert.True(Te, E.Equal(S, 0))
}

//Deselecting the middle atom of a one-group molecule keeps the group at full length,
//with neutral parameters for that atom.
func TestPartialGroupKeepsLength(Te *testing.T) {
	m := chain(Te, 3)
	sel := selection.New(m)
	require.NoError(Te, sel.Deselect(nb.AtomIndex{Group: 0, Atom: 1}))
	assert.Equal(Te, 2, sel.NSelected())
	S, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	checkShape(Te, S)
	require.Equal(Te, 1, S.NGroups())
	assert.Len(Te, S.Charges()[0], 3)
	assert.Equal(Te, []float64{1, 0, 1}, S.Charges()[0])
	assert.True(Te, S.LJParameters()[0][1].IsDummy())
	assert.Equal(Te, lj, S.LJParameters()[0][2])
	q, _ := m.Charges(nb.DefaultChargeProperty)
	assert.Equal(Te, -1.0, q[0][1], "the molecule must not be modified")

	//the snapshot keeps its own copy of the selection
	require.NoError(Te, sel.Deselect(nb.AtomIndex{Group: 0, Atom: 0}))
	assert.Equal(Te, 2, S.NSelected())
}

func TestPartialSelectionCompactsGroups(Te *testing.T) {
	m := chain(Te, 2, 2, 2)
	sel, err := selection.FromGroups(m, []int{0, 2})
	require.NoError(Te, err)
	S, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	checkShape(Te, S)
	assert.Equal(Te, 2, S.NGroups())
	assert.Equal(Te, 2, S.OriginalGroup(1))
	i, ok := S.GroupIndex(2)
	assert.True(Te, ok)
	assert.Equal(Te, 1, i)
	_, ok = S.GroupIndex(1)
	assert.False(Te, ok)
	assert.Same(Te, m.Coordinates()[2], S.Coordinates()[1])
}

func TestIncompatible(Te *testing.T) {
	m := chain(Te, 2)
	other := chain(Te, 2)
	_, err := New(m, DefaultParameters(), selection.New(other))
	assert.True(Te, errors.Is(err, nb.ErrIncompatibleSelection))
	S, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	_, err = S.RebuildAll(other)
	assert.True(Te, errors.Is(err, nb.ErrIncompatibleMolecule))
	_, err = S.Update(other)
	assert.True(Te, errors.Is(err, nb.ErrIncompatibleMolecule))
	_, err = New(m, Parameters{Charge: "nope", LJ: nb.DefaultLJProperty})
	assert.True(Te, errors.Is(err, nb.ErrMissingParameter))
}

//A move that doesn't change the major version only rebuilds coordinates: the charge
//and LJ arrays are the same objects.
func TestMoveRebuildsCoordinatesOnly(Te *testing.T) {
	m := chain(Te, 2, 2)
	S, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	moved, err := m.TranslateGroups([3]float64{0, 0, 1}, 1)
	require.NoError(Te, err)
	D, err := S.Update(moved)
	require.NoError(Te, err)
	assert.False(Te, D.ChangedAll())
	assert.Equal(Te, []int{1}, D.ChangedGroups())
	N := D.New()
	assert.Equal(Te, moved.Version(), N.Version())
	for i := range S.Charges() {
		assert.Same(Te, &S.Charges()[i][0], &N.Charges()[i][0])
		assert.Same(Te, &S.LJParameters()[i][0], &N.LJParameters()[i][0])
	}
	assert.Same(Te, S.Coordinates()[0], N.Coordinates()[0])
	assert.Equal(Te, 1.0, N.Coordinates()[1].At(0, 2))
	assert.Equal(Te, 0.0, S.Coordinates()[1].At(0, 2), "old snapshot changed")
	assert.Equal(Te, 1, D.NewParts().NGroups())
	assert.Equal(Te, 1, D.OldParts().OriginalGroup(0))

	same, err := N.Update(moved)
	require.NoError(Te, err)
	assert.True(Te, same.IsEmpty())
	assert.Same(Te, N, same.New())
}

//Moving the whole molecule rebuilds the coordinates of every stored group at once,
//sharing the parameter arrays of the old snapshot.
func TestWholeMoleculeMove(Te *testing.T) {
	m := chain(Te, 2, 1, 2)
	S, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	moved := m.Translate([3]float64{1, 2, 3})
	D, err := S.Update(moved)
	require.NoError(Te, err)
	assert.True(Te, D.ChangedAll())
	N := D.New()
	for i := range S.Charges() {
		assert.Same(Te, &S.Charges()[i][0], &N.Charges()[i][0])
		assert.Same(Te, &S.LJParameters()[i][0], &N.LJParameters()[i][0])
		assert.Same(Te, moved.Coordinates()[i], N.Coordinates()[i])
	}

	//only groups 1 and 2 stored
	sel, err := selection.FromGroups(m, []int{1, 2})
	require.NoError(Te, err)
	P, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	D, err = P.Update(moved)
	require.NoError(Te, err)
	assert.True(Te, D.ChangedAll())
	N = D.New()
	require.Equal(Te, 2, N.NGroups())
	assert.Equal(Te, 1, N.OriginalGroup(0))
	assert.Same(Te, moved.Coordinates()[2], N.Coordinates()[1])
	assert.Same(Te, &P.Charges()[1][0], &N.Charges()[1][0])

	//another move from the same molecule is a different state
	other := m.Translate([3]float64{-1, 0, 0})
	D, err = N.Update(other)
	require.NoError(Te, err)
	assert.False(Te, D.IsEmpty())
	assert.Equal(Te, other.Version(), D.New().Version())
}

func TestMajorChangeFindsChangedGroups(Te *testing.T) {
	m := chain(Te, 2, 2, 2)
	S, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	m2, err := m.SetAtomCharge(nb.DefaultChargeProperty, nb.AtomIndex{Group: 2, Atom: 0}, 0.5)
	require.NoError(Te, err)
	D, err := S.Update(m2)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2}, D.ChangedGroups())
	assert.Equal(Te, 0.5, D.New().Charges()[2][0])

	m3, err := m2.AddGroup(m.Coordinates()[0].Translate([3]float64{20, 0, 0}), nil, nil)
	require.NoError(Te, err)
	D, err = D.New().Update(m3)
	require.NoError(Te, err)
	assert.True(Te, D.ChangedAll())
	assert.Equal(Te, 4, D.New().NGroups())
}

func TestShapeChangeWithPartialSelection(Te *testing.T) {
	m := chain(Te, 2, 2)
	sel, _ := selection.FromGroups(m, []int{0})
	S, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	m2, err := m.AddGroup(m.Coordinates()[0].Clone(), nil, nil)
	require.NoError(Te, err)
	_, err = S.Update(m2)
	assert.True(Te, errors.Is(err, nb.ErrIncompatibleSelection))
}

func TestScopedRebuild(Te *testing.T) {
	m := chain(Te, 2, 2, 2)
	sel, _ := selection.FromGroups(m, []int{0, 1})
	S, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	moved, err := m.TranslateGroups([3]float64{1, 1, 1}, 1, 2)
	require.NoError(Te, err)

	N, hit, err := S.RebuildCoordinatesIn(moved, []int{2})
	require.NoError(Te, err)
	assert.False(Te, hit)
	assert.Equal(Te, moved.Version(), N.Version())

	N, hit, err = S.RebuildAllIn(moved, []int{1, 2})
	require.NoError(Te, err)
	assert.True(Te, hit)
	assert.Same(Te, S.Coordinates()[0], N.Coordinates()[0])
	assert.Same(Te, moved.Coordinates()[1], N.Coordinates()[1])

	full, err := S.RebuildAll(moved)
	require.NoError(Te, err)
	assert.True(Te, full.Equal(N, 0))
}

func TestDeltaNormalizesToAll(Te *testing.T) {
	m := chain(Te, 1, 1)
	S, _ := New(m, DefaultParameters())
	D, err := NewDeltaIn(S, S, []int{1, 0, 1})
	require.NoError(Te, err)
	assert.True(Te, D.ChangedAll())
	assert.Nil(Te, D.ChangedGroups())
	assert.Same(Te, S, D.OldParts())

	D, err = NewDeltaIn(S, S, nil)
	require.NoError(Te, err)
	assert.True(Te, D.IsEmpty())
	assert.True(Te, D.NewParts().IsEmpty())

	_, err = NewDeltaIn(S, S, []int{2})
	assert.True(Te, errors.Is(err, nb.ErrInvalidIndex))
	other, _ := New(chain(Te, 1, 1), DefaultParameters())
	_, err = NewDelta(S, other)
	assert.True(Te, errors.Is(err, nb.ErrIncompatibleMolecule))
}

//Composing M0->M1 and M1->M2 gives the changed groups of M0->M2.
func TestDeltaComposition(Te *testing.T) {
	m0 := chain(Te, 2, 2, 2, 2)
	S0, err := New(m0, DefaultParameters())
	require.NoError(Te, err)
	m1, _ := m0.TranslateGroups([3]float64{1, 0, 0}, 0)
	m2, _ := m1.TranslateGroups([3]float64{0, 1, 0}, 2)

	d01, err := S0.Update(m1)
	require.NoError(Te, err)
	d12, err := d01.New().Update(m2)
	require.NoError(Te, err)
	composed, err := d01.Compose(d12)
	require.NoError(Te, err)
	direct, err := S0.Update(m2)
	require.NoError(Te, err)
	assert.Equal(Te, direct.ChangedGroups(), composed.ChangedGroups())
	assert.Equal(Te, []int{0, 2}, composed.ChangedGroups())
	assert.Same(Te, S0, composed.Old())
	assert.True(Te, composed.New().Equal(direct.New(), 0))

	//the same through the Change combinator, which mustn't modify its receiver
	viaChange, err := NoChange(S0).Change(m1)
	require.NoError(Te, err)
	viaChange2, err := viaChange.Change(m2)
	require.NoError(Te, err)
	assert.Equal(Te, []int{0}, viaChange.ChangedGroups())
	assert.Equal(Te, []int{0, 2}, viaChange2.ChangedGroups())

	//all-changed absorbs
	all, err := NewDelta(S0, d01.New())
	require.NoError(Te, err)
	absorbed, err := all.Compose(d12)
	require.NoError(Te, err)
	assert.True(Te, absorbed.ChangedAll())
	assert.Same(Te, d12.New(), absorbed.New())
}

func TestDeltaAddRemove(Te *testing.T) {
	m := chain(Te, 2, 2, 2)
	sel, _ := selection.FromGroups(m, []int{0})
	S, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)

	extra, _ := selection.FromIndices(m, []nb.AtomIndex{{Group: 2, Atom: 1}})
	added, err := NoChange(S).Add(m, extra)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2}, added.ChangedGroups())
	assert.Equal(Te, 3, added.New().NSelected())
	assert.True(Te, added.OldParts().IsEmpty())
	require.Equal(Te, 1, added.NewParts().NGroups())
	assert.Equal(Te, []float64{0, -1}, added.NewParts().Charges()[0])

	//adding what is already there changes nothing
	again, err := NoChange(added.New()).Add(m, extra)
	require.NoError(Te, err)
	assert.True(Te, again.IsEmpty())

	moved, _ := m.TranslateGroups([3]float64{0, 0, 2}, 0)
	removed, err := added.Change(moved)
	require.NoError(Te, err)
	first, _ := selection.FromGroups(m, []int{0})
	removed, err = removed.Remove(moved, first)
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 2}, removed.ChangedGroups())
	assert.Equal(Te, 1, removed.New().NSelected())
	assert.Same(Te, S, removed.Old())
	assert.Equal(Te, 1, removed.NewParts().NGroups())
	require.Equal(Te, 1, removed.OldParts().NGroups())
	assert.Equal(Te, 0, removed.OldParts().OriginalGroup(0))
}

func TestSnapshotBinaryRoundTrip(Te *testing.T) {
	m := chain(Te, 3, 2)
	sel, _ := selection.FromIndices(m, []nb.AtomIndex{{Group: 0, Atom: 0}, {Group: 0, Atom: 2}})
	partial, err := New(m, DefaultParameters(), sel)
	require.NoError(Te, err)
	full, err := New(m, DefaultParameters())
	require.NoError(Te, err)
	for name, S := range map[string]*Snapshot{"partial": partial, "full": full, "empty": Empty(m, DefaultParameters())} {
		Te.Run(name, func(Te *testing.T) {
			data, err := S.MarshalBinary()
			require.NoError(Te, err)
			var R Snapshot
			require.NoError(Te, R.UnmarshalBinary(data))
			assert.True(Te, S.Equal(&R, 0))
			checkShape(Te, &R)
		})
	}
}

func TestDeltaBinaryRoundTrip(Te *testing.T) {
	m := chain(Te, 2, 2, 2)
	S, _ := New(m, DefaultParameters())
	moved, _ := m.TranslateGroups([3]float64{0.5, 0, 0}, 1)
	D, err := S.Update(moved)
	require.NoError(Te, err)
	data, err := D.MarshalBinary()
	require.NoError(Te, err)
	var R Delta
	require.NoError(Te, R.UnmarshalBinary(data))
	assert.Equal(Te, D.ChangedGroups(), R.ChangedGroups())
	assert.True(Te, D.New().Equal(R.New(), 0))
	assert.True(Te, D.OldParts().Equal(R.OldParts(), 0))

	data[5] = 'x'
	assert.True(Te, errors.Is(R.UnmarshalBinary(data), nb.ErrVersionMismatch))
}
