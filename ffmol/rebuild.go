/*
 * rebuild.go, part of gonb.
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
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/selection"
)

//check returns an error if S can't be rebuilt from mol, keeping its selection.
func (S *Snapshot) check(mol nb.Molecule, caller string) error {
	if mol.ID() != S.id {
		return nb.NewError(nb.ErrIncompatibleMolecule, caller, "snapshot of molecule %d (%s) can't be rebuilt from molecule %d (%s)", S.num, S.id, mol.Number(), mol.ID())
	}
	if !S.sel.IsCompatibleWith(mol) {
		return nb.NewError(nb.ErrIncompatibleSelection, caller, "the shape of molecule %d changed, the selection can't be kept", S.num)
	}
	return nil
}

//RebuildAll returns a new snapshot with the coordinates and parameters of mol, and the selection of S.
func (S *Snapshot) RebuildAll(mol nb.Molecule) (*Snapshot, error) {
	if err := S.check(mol, "RebuildAll"); err != nil {
		return nil, err
	}
	r := &Snapshot{num: S.num, id: S.id, version: mol.Version(), shape: S.shape, params: S.params, sel: S.sel}
	if err := r.fill(mol); err != nil {
		return nil, nb.Decorate(err, "RebuildAll")
	}
	return r, nil
}

//RebuildCoordinates returns a new snapshot with the coordinates of mol. Charges and LJ parameters
//are shared with S. Use it when only the minor version of the molecule changed.
func (S *Snapshot) RebuildCoordinates(mol nb.Molecule) (*Snapshot, error) {
	if err := S.check(mol, "RebuildCoordinates"); err != nil {
		return nil, err
	}
	r := S.shallow()
	r.version = mol.Version()
	coords := mol.Coordinates()
	if S.groups == nil {
		r.coords = coords
		return r, nil
	}
	for i := range r.coords {
		r.coords[i] = coords[S.groups[i]]
	}
	return r, nil
}

//RebuildAllIn rebuilds coordinates and parameters only for the given molecule groups. The rest
//is shared with S. It also returns whether any of those groups has selected atoms. If none has,
//the returned snapshot has the same data as S, and only its version changes.
func (S *Snapshot) RebuildAllIn(mol nb.Molecule, groups []int) (*Snapshot, bool, error) {
	if err := S.check(mol, "RebuildAllIn"); err != nil {
		return nil, false, err
	}
	r := S.shallow()
	r.version = mol.Version()
	if !S.sel.Intersects(groups) {
		return r, false, nil
	}
	q, err := mol.Charges(S.params.Charge)
	if err != nil {
		return nil, false, nb.Decorate(err, "RebuildAllIn")
	}
	lj, err := mol.LJParameters(S.params.LJ)
	if err != nil {
		return nil, false, nb.Decorate(err, "RebuildAllIn")
	}
	coords := mol.Coordinates()
	for _, g := range groups {
		i, ok := S.GroupIndex(g)
		if !ok {
			continue
		}
		r.coords[i] = coords[g]
		r.charges[i], r.ljs[i] = S.groupParameters(g, q[g], lj[g])
	}
	return r, true, nil
}

//RebuildCoordinatesIn is like RebuildAllIn, but only coordinates are taken from mol.
func (S *Snapshot) RebuildCoordinatesIn(mol nb.Molecule, groups []int) (*Snapshot, bool, error) {
	if err := S.check(mol, "RebuildCoordinatesIn"); err != nil {
		return nil, false, err
	}
	r := S.shallow()
	r.version = mol.Version()
	if !S.sel.Intersects(groups) {
		return r, false, nil
	}
	coords := mol.Coordinates()
	for _, g := range groups {
		if i, ok := S.GroupIndex(g); ok {
			r.coords[i] = coords[g]
		}
	}
	return r, true, nil
}

//WithSelection returns a snapshot of mol with the selection sel and the parameter names of S.
func (S *Snapshot) WithSelection(mol nb.Molecule, sel *selection.AtomSelection) (*Snapshot, error) {
	if mol.ID() != S.id {
		return nil, nb.NewError(nb.ErrIncompatibleMolecule, "WithSelection", "snapshot of molecule %s can't take molecule %s", S.id, mol.ID())
	}
	r, err := New(mol, S.params, sel)
	return r, nb.Decorate(err, "WithSelection")
}

//changedCoordinates returns the molecule groups present in S whose coordinates in mol differ
//from those in S. mol must have the shape of S.
func (S *Snapshot) changedCoordinates(mol nb.Molecule) []int {
	coords := mol.Coordinates()
	var changed []int
	for i, c := range S.coords {
		g := S.OriginalGroup(i)
		if !sameBlock(c, coords[g]) {
			changed = append(changed, g)
		}
	}
	return changed
}

//changedGroups returns the molecule groups for which S and O, which must have the same
//group layout, store different data.
func (S *Snapshot) changedGroups(O *Snapshot) []int {
	var changed []int
	for i := range S.coords {
		if !sameBlock(S.coords[i], O.coords[i]) || !sameCharges(S.charges[i], O.charges[i]) || !sameLJ(S.ljs[i], O.ljs[i]) {
			changed = append(changed, S.OriginalGroup(i))
		}
	}
	return changed
}

//Update brings S up to date with mol, and returns the Delta from S to the new snapshot.
//If only the minor version of mol changed, only the coordinates of the groups that moved are
//rebuilt. A major change rebuilds everything, but the delta still contains only the groups
//whose data changed, unless the shape of the molecule changed. A molecule whose shape changed
//can only be followed if everything or nothing was selected in it, otherwise an error of kind
//ErrIncompatibleSelection is returned.
func (S *Snapshot) Update(mol nb.Molecule) (Delta, error) {
	if mol.ID() != S.id {
		return Delta{}, nb.NewError(nb.ErrIncompatibleMolecule, "Update", "snapshot of molecule %d (%s) can't follow molecule %d (%s)", S.num, S.id, mol.Number(), mol.ID())
	}
	if mol.Version() == S.version {
		return NoChange(S), nil
	}
	if !S.sameShape(mol) {
		var n *Snapshot
		var err error
		switch {
		case S.sel.SelectedAll():
			n, err = New(mol, S.params)
		case S.sel.SelectedNone():
			n = Empty(mol, S.params)
		default:
			err = nb.NewError(nb.ErrIncompatibleSelection, "", "the shape of molecule %d changed and only part of it is selected", S.num)
		}
		if err != nil {
			return Delta{}, nb.Decorate(err, "Update")
		}
		return NewDelta(S, n)
	}
	if S.version.MajorChanged(mol.Version()) {
		n, err := S.RebuildAll(mol)
		if err != nil {
			return Delta{}, nb.Decorate(err, "Update")
		}
		return NewDeltaIn(S, n, S.changedGroups(n))
	}
	changed := S.changedCoordinates(mol)
	if len(changed) > 0 && len(changed) == len(S.coords) {
		n, err := S.RebuildCoordinates(mol)
		if err != nil {
			return Delta{}, nb.Decorate(err, "Update")
		}
		return NewDelta(S, n)
	}
	n, _, err := S.RebuildCoordinatesIn(mol, changed)
	if err != nil {
		return Delta{}, nb.Decorate(err, "Update")
	}
	return NewDeltaIn(S, n, changed)
}
