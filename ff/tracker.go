/*
 * tracker.go, part of gonb.
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

package ff

import (
	"log/slog"
	"sort"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ffmol"
	"github.com/rmera/gonb/selection"
)

//tracker keeps the snapshots of the molecules in a forcefield, and the deltas that
//have not yet been accounted for in its energy. Every method either succeeds or
//leaves the tracker untouched.
type tracker struct {
	name    string
	params  ffmol.Parameters
	log     *slog.Logger
	mols    map[nb.MolNum]*ffmol.Snapshot
	pending map[nb.MolNum]ffmol.Delta
	dirty   bool
	full    bool //the next evaluation must start from scratch
}

func newTracker(name string, O *Options) tracker {
	return tracker{
		name:    name,
		params:  O.parameters(),
		log:     O.Logger().With("ff", name),
		mols:    make(map[nb.MolNum]*ffmol.Snapshot),
		pending: make(map[nb.MolNum]ffmol.Delta),
		dirty:   true,
		full:    true,
	}
}

//Name returns the name of the forcefield.
func (T *tracker) Name() string { return T.name }

//IsDirty returns true if the energy needs to be recomputed.
func (T *tracker) IsDirty() bool { return T.dirty }

//Contains returns true if the molecule with number num is in the forcefield.
func (T *tracker) Contains(num nb.MolNum) bool {
	_, ok := T.mols[num]
	return ok
}

//NMolecules returns the number of molecules in the forcefield.
func (T *tracker) NMolecules() int { return len(T.mols) }

//Snapshot returns the current snapshot of the molecule with number num.
func (T *tracker) Snapshot(num nb.MolNum) (*ffmol.Snapshot, bool) {
	s, ok := T.mols[num]
	return s, ok
}

//Molecules returns the numbers of the molecules in the forcefield, in increasing order.
func (T *tracker) Molecules() []nb.MolNum {
	return sortedNums(T.mols)
}

func sortedNums[V any](m map[nb.MolNum]V) []nb.MolNum {
	r := make([]nb.MolNum, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return r
}

//ForceFullRecompute drops every pending change. The next energy evaluation
//will be done from scratch.
func (T *tracker) ForceFullRecompute() {
	T.pending = make(map[nb.MolNum]ffmol.Delta)
	T.full = true
	T.dirty = true
}

//tracked returns the current snapshot of mol, or nil if mol is not in the forcefield.
//A different molecule under the same number is an error.
func (T *tracker) tracked(mol nb.Molecule, caller string) (*ffmol.Snapshot, error) {
	cur, ok := T.mols[mol.Number()]
	if !ok {
		return nil, nil
	}
	if cur.ID() != mol.ID() {
		return nil, nb.NewError(nb.ErrIncompatibleMolecule, caller, "forcefield %s holds a different molecule with number %d (%s, not %s)", T.name, mol.Number(), cur.ID(), mol.ID())
	}
	return cur, nil
}

//record makes d the current state of its molecule, and adds it to the pending changes.
//If removed is true, the molecule leaves the forcefield.
func (T *tracker) record(d ffmol.Delta, removed bool) {
	num := d.Number()
	if removed {
		delete(T.mols, num)
	} else {
		T.mols[num] = d.New()
	}
	if d.IsEmpty() {
		//a pending change still has to end at the stored snapshot
		if _, ok := T.pending[num]; !ok {
			return
		}
	} else {
		T.dirty = true
	}
	if T.full {
		return
	}
	if p, ok := T.pending[num]; ok {
		c, err := p.Compose(d)
		if err != nil {
			//a different molecule took the number since the last evaluation
			T.log.Debug("pending changes can't be composed, falling back to a full recomputation", "mol", num, "err", err)
			T.ForceFullRecompute()
			return
		}
		d = c
	}
	T.pending[num] = d
}

//Add adds mol to the forcefield, with the atoms in sel, or with all its atoms if no selection
//is given. If mol is already in the forcefield, the atoms are added to those already there.
func (T *tracker) Add(mol nb.Molecule, sel ...*selection.AtomSelection) error {
	cur, err := T.tracked(mol, "Add")
	if err != nil {
		return err
	}
	if cur != nil {
		s := selection.New(mol)
		if len(sel) > 0 && sel[0] != nil {
			s = sel[0]
		}
		return nb.Decorate(T.AddAtoms(mol, s), "Add")
	}
	snap, err := ffmol.New(mol, T.params, sel...)
	if err != nil {
		return nb.Decorate(err, "Add")
	}
	d, err := ffmol.NewDelta(ffmol.Empty(mol, T.params), snap)
	if err != nil {
		return nb.Decorate(err, "Add")
	}
	T.record(d, false)
	T.log.Debug("molecule added", "mol", mol.Number(), "atoms", snap.NSelected())
	return nil
}

//Remove takes mol out of the forcefield. Removing a molecule that is not there does nothing.
func (T *tracker) Remove(mol nb.Molecule) error {
	cur, err := T.tracked(mol, "Remove")
	if cur == nil {
		return err
	}
	d, err := ffmol.NewDelta(cur, cur.Restrict(nil))
	if err != nil {
		return nb.Decorate(err, "Remove")
	}
	T.record(d, true)
	T.log.Debug("molecule removed", "mol", mol.Number())
	return nil
}

//Change updates the forcefield with the current state of mol. Changing a molecule that
//is not in the forcefield does nothing.
func (T *tracker) Change(mol nb.Molecule) error {
	cur, err := T.tracked(mol, "Change")
	if cur == nil {
		return err
	}
	d, err := cur.Update(mol)
	if err != nil {
		return nb.Decorate(err, "Change")
	}
	T.record(d, false)
	return nil
}

//ChangeIn is like Change, but the caller asserts that only the given groups of mol changed,
//so the rest of the molecule is not examined. If the shape of mol changed, it is the same as Change.
func (T *tracker) ChangeIn(mol nb.Molecule, groups []int) error {
	cur, err := T.tracked(mol, "ChangeIn")
	if cur == nil {
		return err
	}
	if mol.Version() == cur.Version() {
		return nil
	}
	if !cur.Selection().IsCompatibleWith(mol) {
		return nb.Decorate(T.Change(mol), "ChangeIn")
	}
	for _, g := range groups {
		if g < 0 || g >= mol.NGroups() {
			return nb.NewError(nb.ErrInvalidIndex, "ChangeIn", "group %d out of range, molecule %d has %d groups", g, mol.Number(), mol.NGroups())
		}
	}
	rebuild := cur.RebuildCoordinatesIn
	if cur.Version().MajorChanged(mol.Version()) {
		rebuild = cur.RebuildAllIn
	}
	n, hit, err := rebuild(mol, groups)
	if err != nil {
		return nb.Decorate(err, "ChangeIn")
	}
	if !hit {
		groups = nil
	}
	d, err := ffmol.NewDeltaIn(cur, n, groups)
	if err != nil {
		return nb.Decorate(err, "ChangeIn")
	}
	T.record(d, false)
	return nil
}

//AddAtoms adds the atoms in sel to those of mol already in the forcefield. If mol is not there,
//it is added with the atoms in sel.
func (T *tracker) AddAtoms(mol nb.Molecule, sel *selection.AtomSelection) error {
	cur, err := T.tracked(mol, "AddAtoms")
	if err != nil {
		return err
	}
	if cur == nil {
		return nb.Decorate(T.Add(mol, sel), "AddAtoms")
	}
	d, err := ffmol.NoChange(cur).Add(mol, sel)
	if err != nil {
		return nb.Decorate(err, "AddAtoms")
	}
	T.record(d, false)
	return nil
}

//RemoveAtoms removes the atoms in sel from the forcefield. The molecule stays in the forcefield
//even if none of its atoms is left. Removing atoms of a molecule that is not there does nothing.
func (T *tracker) RemoveAtoms(mol nb.Molecule, sel *selection.AtomSelection) error {
	cur, err := T.tracked(mol, "RemoveAtoms")
	if cur == nil {
		return err
	}
	d, err := ffmol.NoChange(cur).Remove(mol, sel)
	if err != nil {
		return nb.Decorate(err, "RemoveAtoms")
	}
	T.record(d, false)
	return nil
}

//MarkDirty applies a delta built elsewhere. The delta must start from the current snapshot
//of its molecule. A delta that starts from an empty snapshot adds its molecule, if it is not
//in the forcefield. Other deltas for molecules not in the forcefield are ignored.
func (T *tracker) MarkDirty(d ffmol.Delta) error {
	if d.New() == nil {
		return nil
	}
	cur, ok := T.mols[d.Number()]
	if !ok {
		if !d.Old().IsEmpty() {
			return nil
		}
		T.record(d, false)
		return nil
	}
	if cur.ID() != d.ID() || cur.Version() != d.Old().Version() || cur.NSelected() != d.Old().NSelected() {
		return nb.NewError(nb.ErrIncompatibleMolecule, "MarkDirty", "delta %s doesn't start from the snapshot of molecule %d in forcefield %s (%s)", d, cur.Number(), T.name, cur)
	}
	T.record(d, false)
	return nil
}

//changed returns the molecules with pending changes, in increasing order, and the number of
//molecules, present or removed, that the pending changes refer to.
func (T *tracker) changed() ([]nb.MolNum, int) {
	c := sortedNums(T.pending)
	total := len(T.mols)
	for _, n := range c {
		if _, ok := T.mols[n]; !ok {
			total++
		}
	}
	return c, total
}

//useFull decides whether the next evaluation starts from scratch.
func (T *tracker) useFull(nchanged, total int, fraction float64) bool {
	if T.full || total == 0 {
		return true
	}
	return float64(nchanged) > fraction*float64(total)
}

//clean marks the pending changes as accounted for.
func (T *tracker) clean() {
	T.pending = make(map[nb.MolNum]ffmol.Delta)
	T.dirty = false
	T.full = false
}
