/*
 * delta.go, part of gonb.
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
	"fmt"
	"sort"

	"github.com/google/uuid"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/selection"
)

//Delta is the change from one snapshot of a molecule to another. It is either empty
//(nothing that matters for the energy changed), all-changed, or it lists the molecule groups
//that changed. OldParts and NewParts contain only the changed groups of the old and new snapshots.
//
//Deltas are values. The combinators never modify the receiver, they return a new Delta
//that goes from the same old snapshot to a further one.
type Delta struct {
	old, new *Snapshot
	all      bool
	changed  []int //sorted. nil if all is true or if nothing changed.

	oldParts, newParts *Snapshot
}

func compatible(old, new *Snapshot, caller string) error {
	if old == nil || new == nil {
		return nb.NewError(nb.ErrIncompatibleMolecule, caller, "nil snapshot")
	}
	if old.id != new.id || old.num != new.num {
		return nb.NewError(nb.ErrIncompatibleMolecule, caller, "snapshots belong to different molecules: %d (%s) and %d (%s)", old.num, old.id, new.num, new.id)
	}
	return nil
}

func sameShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

//NoChange returns an empty delta from s to itself.
func NoChange(s *Snapshot) Delta {
	return Delta{old: s, new: s}
}

//NewDelta returns a delta from old to new where everything changed.
func NewDelta(old, new *Snapshot) (Delta, error) {
	if err := compatible(old, new, "NewDelta"); err != nil {
		return Delta{}, err
	}
	return Delta{old: old, new: new, all: true, oldParts: old, newParts: new}, nil
}

//NewDeltaIn returns a delta from old to new where the given molecule groups changed.
//If groups is empty, the delta is empty. If groups covers every group of the molecule,
//or if the shape of the molecule is not the same in old and new, the delta is all-changed.
func NewDeltaIn(old, new *Snapshot, groups []int) (Delta, error) {
	if err := compatible(old, new, "NewDeltaIn"); err != nil {
		return Delta{}, err
	}
	if !sameShapes(old.shape, new.shape) {
		return Delta{old: old, new: new, all: true, oldParts: old, newParts: new}, nil
	}
	set := make([]int, 0, len(groups))
	seen := make(map[int]bool, len(groups))
	for _, g := range groups {
		if g < 0 || g >= len(new.shape) {
			return Delta{}, nb.NewError(nb.ErrInvalidIndex, "NewDeltaIn", "group %d out of range, molecule %d has %d groups", g, new.num, len(new.shape))
		}
		if !seen[g] {
			seen[g] = true
			set = append(set, g)
		}
	}
	if len(set) == 0 {
		return Delta{old: old, new: new}, nil
	}
	if len(set) == len(new.shape) {
		return Delta{old: old, new: new, all: true, oldParts: old, newParts: new}, nil
	}
	sort.Ints(set)
	return Delta{old: old, new: new, changed: set, oldParts: old.Restrict(set), newParts: new.Restrict(set)}, nil
}

//Accessors

//Old returns the snapshot the delta starts from.
func (D Delta) Old() *Snapshot { return D.old }

//New returns the snapshot the delta arrives to.
func (D Delta) New() *Snapshot { return D.new }

//Number returns the number of the molecule.
func (D Delta) Number() nb.MolNum { return D.new.num }

//ID returns the identity of the molecule.
func (D Delta) ID() uuid.UUID { return D.new.id }

//ChangedAll returns true if every group of the molecule is considered changed.
func (D Delta) ChangedAll() bool { return D.all }

//IsEmpty returns true if no group changed.
func (D Delta) IsEmpty() bool { return !D.all && len(D.changed) == 0 }

//ChangedGroups returns the sorted molecule groups that changed, or nil if
//the delta is empty or all-changed.
func (D Delta) ChangedGroups() []int {
	if D.changed == nil {
		return nil
	}
	return append([]int(nil), D.changed...)
}

//OldParts returns the changed groups of the old snapshot.
func (D Delta) OldParts() *Snapshot {
	if D.oldParts == nil {
		return D.old.Restrict(nil)
	}
	return D.oldParts
}

//NewParts returns the changed groups of the new snapshot.
func (D Delta) NewParts() *Snapshot {
	if D.newParts == nil {
		return D.new.Restrict(nil)
	}
	return D.newParts
}

//Combinators

//Compose returns the delta from the old snapshot of D to the new snapshot of next.
//next must start where D ends. The changed groups of the result are the union of
//those of D and next.
func (D Delta) Compose(next Delta) (Delta, error) {
	if D.new == nil {
		return next, nil
	}
	if next.old == nil {
		return D, nil
	}
	if D.new.id != next.old.id {
		return Delta{}, nb.NewError(nb.ErrIncompatibleMolecule, "Compose", "deltas belong to different molecules: %s and %s", D.new.id, next.old.id)
	}
	if D.all || next.all {
		return NewDelta(D.old, next.new)
	}
	union := make([]int, 0, len(D.changed)+len(next.changed))
	union = append(union, D.changed...)
	union = append(union, next.changed...)
	return NewDeltaIn(D.old, next.new, union)
}

//Change returns the delta from the old snapshot of D to a snapshot of mol, which is
//the molecule of D, possibly changed.
func (D Delta) Change(mol nb.Molecule) (Delta, error) {
	next, err := D.new.Update(mol)
	if err != nil {
		return Delta{}, nb.Decorate(err, "Delta.Change")
	}
	return D.Compose(next)
}

//Add returns the delta from the old snapshot of D to a snapshot of mol where the atoms in sel
//are also selected.
func (D Delta) Add(mol nb.Molecule, sel *selection.AtomSelection) (Delta, error) {
	return D.reselect(mol, sel, "Delta.Add", (*selection.AtomSelection).Union)
}

//Remove returns the delta from the old snapshot of D to a snapshot of mol where the atoms in sel
//are no longer selected.
func (D Delta) Remove(mol nb.Molecule, sel *selection.AtomSelection) (Delta, error) {
	return D.reselect(mol, sel, "Delta.Remove", (*selection.AtomSelection).Subtract)
}

func (D Delta) reselect(mol nb.Molecule, sel *selection.AtomSelection, caller string, op func(*selection.AtomSelection, *selection.AtomSelection) error) (Delta, error) {
	if err := sel.AssertCompatibleWith(mol); err != nil {
		return Delta{}, nb.Decorate(err, caller)
	}
	up, err := D.new.Update(mol)
	if err != nil {
		return Delta{}, nb.Decorate(err, caller)
	}
	cur := up.New()
	ns := cur.sel.Clone()
	if err := op(ns, sel); err != nil {
		return Delta{}, nb.Decorate(err, caller)
	}
	var touched []int
	for _, g := range sel.SelectedGroups() {
		before, _ := cur.sel.NSelectedIn(g)
		after, _ := ns.NSelectedIn(g)
		if before != after {
			touched = append(touched, g)
		}
	}
	step := NoChange(cur)
	if len(touched) > 0 {
		n, err := cur.WithSelection(mol, ns)
		if err != nil {
			return Delta{}, nb.Decorate(err, caller)
		}
		if step, err = NewDeltaIn(cur, n, touched); err != nil {
			return Delta{}, nb.Decorate(err, caller)
		}
	}
	r, err := D.Compose(up)
	if err != nil {
		return Delta{}, nb.Decorate(err, caller)
	}
	return r.Compose(step)
}

func (D Delta) String() string {
	switch {
	case D.new == nil:
		return "Delta{}"
	case D.all:
		return fmt.Sprintf("Delta{mol %d v%s -> v%s, all changed}", D.new.num, D.old.version, D.new.version)
	case D.IsEmpty():
		return fmt.Sprintf("Delta{mol %d v%s -> v%s, no change}", D.new.num, D.old.version, D.new.version)
	}
	return fmt.Sprintf("Delta{mol %d v%s -> v%s, groups %v}", D.new.num, D.old.version, D.new.version, D.changed)
}
