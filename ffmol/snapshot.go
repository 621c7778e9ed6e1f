/*
 * snapshot.go, part of gonb.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package ffmol contains the view a forcefield has of a molecule: the Snapshot, with the
//coordinates, charges and LJ parameters of the selected atoms, and the Delta, which describes the
//change between two snapshots of the same molecule.
//
//Snapshots are immutable. Every rebuild returns a new Snapshot that shares with the old one (and
//with the molecule) all the blocks that didn't change, so a Snapshot can be read from several
//goroutines and held by several forcefields at the same time.
package ffmol

import (
	"fmt"

	"github.com/google/uuid"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/selection"
	v3 "github.com/rmera/gonb/v3"
)

//Parameters contains the names of the properties from which a snapshot takes
//charges and LJ parameters.
type Parameters struct {
	Charge string
	LJ     string
}

//DefaultParameters returns the parameter names used when none are given.
func DefaultParameters() Parameters {
	return Parameters{Charge: nb.DefaultChargeProperty, LJ: nb.DefaultLJProperty}
}

//Snapshot contains the data of the selected atoms of a molecule, as seen by a forcefield.
//Coordinates, charges and LJ parameters are stored per cut group, and only groups with
//at least one atom selected are present. Within a partially selected group, unselected
//atoms are present but have zero charge and dummy LJ parameters.
type Snapshot struct {
	num     nb.MolNum
	id      uuid.UUID
	version nb.Version
	shape   []int //atoms per group in the molecule
	params  Parameters
	sel     *selection.AtomSelection

	coords  []*v3.Matrix
	charges [][]float64
	ljs     [][]nb.LJParameter

	//groups[i] is the molecule group stored in position i. nil means that all the
	//molecule's groups are present, in order.
	groups []int
	index  map[int]int
}

func shapeOf(mol nb.Molecule) []int {
	shape := make([]int, mol.NGroups())
	for i := range shape {
		shape[i] = mol.GroupNAtoms(i)
	}
	return shape
}

//New builds a snapshot of mol, with the given selection, or of the whole molecule if
//no selection is given. The selection is copied, so the caller can keep using it.
func New(mol nb.Molecule, params Parameters, sel ...*selection.AtomSelection) (*Snapshot, error) {
	var s *selection.AtomSelection
	if len(sel) > 0 && sel[0] != nil {
		if err := sel[0].AssertCompatibleWith(mol); err != nil {
			return nil, nb.Decorate(err, "ffmol.New")
		}
		s = sel[0].Clone()
	} else {
		s = selection.New(mol)
	}
	S := &Snapshot{num: mol.Number(), id: mol.ID(), version: mol.Version(), shape: shapeOf(mol), params: params, sel: s}
	if err := S.fill(mol); err != nil {
		return nil, nb.Decorate(err, "ffmol.New")
	}
	return S, nil
}

//Empty returns a snapshot of mol with nothing selected. Properties are not
//looked for, so it can be built for molecules without parameters.
func Empty(mol nb.Molecule, params Parameters) *Snapshot {
	return &Snapshot{num: mol.Number(), id: mol.ID(), version: mol.Version(), shape: shapeOf(mol), params: params,
		sel: selection.NewNone(mol), groups: []int{}, index: map[int]int{}}
}

//fill builds all the arrays of S from mol, following S.sel.
func (S *Snapshot) fill(mol nb.Molecule) error {
	S.coords, S.charges, S.ljs, S.groups, S.index = nil, nil, nil, nil, nil
	if S.sel.SelectedNone() {
		S.groups = []int{}
		S.index = map[int]int{}
		return nil
	}
	q, err := mol.Charges(S.params.Charge)
	if err != nil {
		return err
	}
	lj, err := mol.LJParameters(S.params.LJ)
	if err != nil {
		return err
	}
	coords := mol.Coordinates()
	if S.sel.SelectedAll() {
		//select-all: the molecule's own arrays are used as they are.
		S.coords = coords
		S.charges = q
		S.ljs = lj
		return nil
	}
	sgroups := S.sel.SelectedGroups()
	S.coords = make([]*v3.Matrix, 0, len(sgroups))
	S.charges = make([][]float64, 0, len(sgroups))
	S.ljs = make([][]nb.LJParameter, 0, len(sgroups))
	S.groups = sgroups
	S.index = make(map[int]int, len(sgroups))
	for i, g := range sgroups {
		S.index[g] = i
		S.coords = append(S.coords, coords[g])
		gq, glj := S.groupParameters(g, q[g], lj[g])
		S.charges = append(S.charges, gq)
		S.ljs = append(S.ljs, glj)
	}
	return nil
}

//groupParameters returns the charges and LJ parameters for group g given those of the molecule.
//For fully selected groups, the molecule's slices are returned. Otherwise, copies with
//neutral parameters for the unselected atoms.
func (S *Snapshot) groupParameters(g int, q []float64, lj []nb.LJParameter) ([]float64, []nb.LJParameter) {
	if all, _ := S.sel.SelectedAllIn(g); all {
		return q, lj
	}
	nq := make([]float64, len(q))
	nlj := make([]nb.LJParameter, len(lj))
	for _, a := range S.sel.SelectedAtoms(g) {
		nq[a] = q[a]
		nlj[a] = lj[a]
	}
	return nq, nlj
}

//shallow returns a copy of S with its own outer slices. The blocks are shared.
func (S *Snapshot) shallow() *Snapshot {
	r := *S
	r.coords = append([]*v3.Matrix(nil), S.coords...)
	r.charges = append([][]float64(nil), S.charges...)
	r.ljs = append([][]nb.LJParameter(nil), S.ljs...)
	return &r
}

//Accessors

//Number returns the number of the molecule.
func (S *Snapshot) Number() nb.MolNum { return S.num }

//ID returns the identity of the molecule.
func (S *Snapshot) ID() uuid.UUID { return S.id }

//Version returns the version of the molecule the snapshot was built from.
func (S *Snapshot) Version() nb.Version { return S.version }

func (S *Snapshot) Parameters() Parameters { return S.params }

//Selection returns a copy of the selection of the snapshot.
func (S *Snapshot) Selection() *selection.AtomSelection { return S.sel.Clone() }

//NSelected returns the number of selected atoms.
func (S *Snapshot) NSelected() int { return S.sel.NSelected() }

//MoleculeNGroups returns the number of groups in the molecule, present in the snapshot or not.
func (S *Snapshot) MoleculeNGroups() int { return len(S.shape) }

//NGroups returns the number of groups stored in the snapshot.
func (S *Snapshot) NGroups() int { return len(S.coords) }

//IsEmpty returns true if the snapshot contains no groups.
func (S *Snapshot) IsEmpty() bool { return len(S.coords) == 0 }

//Coordinates returns the coordinate blocks, one per stored group. They must not be modified.
func (S *Snapshot) Coordinates() []*v3.Matrix { return S.coords }

//Charges returns the charges, one slice per stored group. They must not be modified.
func (S *Snapshot) Charges() [][]float64 { return S.charges }

//LJParameters returns the LJ parameters, one slice per stored group. They must not be modified.
func (S *Snapshot) LJParameters() [][]nb.LJParameter { return S.ljs }

//OriginalGroup returns the molecule group stored in position i. It panics if i is out of range.
func (S *Snapshot) OriginalGroup(i int) int {
	if i < 0 || i >= len(S.coords) {
		panic(fmt.Sprintf("ffmol: position %d out of range (%d groups)", i, len(S.coords)))
	}
	if S.groups == nil {
		return i
	}
	return S.groups[i]
}

//GroupIndex returns the position where molecule group g is stored, and false if g is not present.
func (S *Snapshot) GroupIndex(g int) (int, bool) {
	if S.groups == nil {
		return g, g >= 0 && g < len(S.coords)
	}
	i, ok := S.index[g]
	return i, ok
}

//Restrict returns a snapshot with only the given molecule groups, among those present in S.
//The data is shared with S. The selection of the result keeps only the atoms of those groups.
func (S *Snapshot) Restrict(groups []int) *Snapshot {
	r := &Snapshot{num: S.num, id: S.id, version: S.version, shape: S.shape, params: S.params}
	r.sel = S.sel.Clone()
	keep := make(map[int]bool, len(groups))
	for _, g := range groups {
		keep[g] = true
	}
	for g := range S.shape {
		if !keep[g] {
			r.sel.DeselectGroup(g) //can't fail, g is in range
		}
	}
	r.groups = []int{}
	r.index = map[int]int{}
	for i := 0; i < len(S.coords); i++ {
		g := S.OriginalGroup(i)
		if !keep[g] {
			continue
		}
		r.index[g] = len(r.coords)
		r.groups = append(r.groups, g)
		r.coords = append(r.coords, S.coords[i])
		r.charges = append(r.charges, S.charges[i])
		r.ljs = append(r.ljs, S.ljs[i])
	}
	return r
}

//sameShape returns true if S was built for a molecule with the shape of mol.
func (S *Snapshot) sameShape(mol nb.Molecule) bool {
	if mol.NGroups() != len(S.shape) {
		return false
	}
	for g, n := range S.shape {
		if mol.GroupNAtoms(g) != n {
			return false
		}
	}
	return true
}

//Equal returns true if S and O belong to the same molecule version, select the same
//atoms and contain the same data, with coordinates equal within tol.
func (S *Snapshot) Equal(O *Snapshot, tol float64) bool {
	if S == O {
		return true
	}
	if O == nil || S.id != O.id || S.num != O.num || S.version != O.version || S.params != O.params {
		return false
	}
	if !S.sel.Equal(O.sel) || len(S.coords) != len(O.coords) {
		return false
	}
	for i := range S.coords {
		if S.OriginalGroup(i) != O.OriginalGroup(i) || !S.coords[i].Equal(O.coords[i], tol) {
			return false
		}
		if !sameCharges(S.charges[i], O.charges[i]) || !sameLJ(S.ljs[i], O.ljs[i]) {
			return false
		}
	}
	return true
}

func (S *Snapshot) String() string {
	return fmt.Sprintf("Snapshot{mol %d v%s, %d of %d groups, %d atoms selected}", S.num, S.version, len(S.coords), len(S.shape), S.sel.NSelected())
}

//sameCharges compares two charge slices, first by identity, then by value.
func sameCharges(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameLJ(a, b []nb.LJParameter) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

//sameBlock compares two coordinate blocks, first by identity, then by value.
func sameBlock(a, b *v3.Matrix) bool {
	if a == b {
		return true
	}
	return a.NVecs() == b.NVecs() && a.Equal(b, 0)
}
