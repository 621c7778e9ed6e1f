/*
 * selection.go, part of gonb.
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

//Package selection implements AtomSelection, a compact mask over the atoms of a molecule,
//organized by cut group.
//
//A selection is in one of three states: everything selected, nothing selected, or
//a partial selection. Only partial selections store anything, and only for the groups
//that have at least one atom selected. A group with all its atoms selected stores no indexes.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	nb "github.com/rmera/gonb"
)

//Kind is the state of a whole selection.
type Kind int

const (
	None Kind = iota
	Partial
	All
)

func (K Kind) String() string {
	switch K {
	case None:
		return "none"
	case Partial:
		return "partial"
	case All:
		return "all"
	}
	return "unknown"
}

//groupMask is the selection within one group of a Partial selection.
//If all is true, atoms is nil.
type groupMask struct {
	all   bool
	atoms map[int]struct{}
}

func (g *groupMask) clone() *groupMask {
	r := &groupMask{all: g.all}
	if g.atoms != nil {
		r.atoms = make(map[int]struct{}, len(g.atoms))
		for k := range g.atoms {
			r.atoms[k] = struct{}{}
		}
	}
	return r
}

//AtomSelection is a mask over the atoms of one molecule. The zero value is not usable,
//use New, NewNone, FromGroups or FromIndices.
type AtomSelection struct {
	id     uuid.UUID
	shape  []int //atoms per group
	natoms int
	kind   Kind
	groups map[int]*groupMask //only used when kind==Partial
	nsel   int
}

func shapeOf(mol nb.Molecule) []int {
	shape := make([]int, mol.NGroups())
	for i := range shape {
		shape[i] = mol.GroupNAtoms(i)
	}
	return shape
}

func newSelection(id uuid.UUID, shape []int) *AtomSelection {
	S := &AtomSelection{id: id, shape: shape}
	for _, v := range shape {
		S.natoms += v
	}
	return S
}

//New returns a selection of all the atoms of mol.
func New(mol nb.Molecule) *AtomSelection {
	S := newSelection(mol.ID(), shapeOf(mol))
	S.SelectAll()
	return S
}

//NewNone returns a selection of none of the atoms of mol.
func NewNone(mol nb.Molecule) *AtomSelection {
	S := newSelection(mol.ID(), shapeOf(mol))
	S.DeselectAll()
	return S
}

//FromGroups returns a selection of all the atoms in the given groups of mol.
func FromGroups(mol nb.Molecule, groups []int) (*AtomSelection, error) {
	S := NewNone(mol)
	for _, g := range groups {
		if err := S.SelectGroup(g); err != nil {
			return nil, nb.Decorate(err, "FromGroups")
		}
	}
	return S, nil
}

//FromIndices returns a selection of the given atoms of mol.
func FromIndices(mol nb.Molecule, atoms []nb.AtomIndex) (*AtomSelection, error) {
	S := NewNone(mol)
	for _, a := range atoms {
		if err := S.Select(a); err != nil {
			return nil, nb.Decorate(err, "FromIndices")
		}
	}
	return S, nil
}

//Validation. Every mutating method validates before touching anything.

func (S *AtomSelection) checkGroup(g int, caller string) error {
	if g < 0 || g >= len(S.shape) {
		return nb.NewError(nb.ErrInvalidIndex, caller, "group %d out of range, the molecule has %d groups", g, len(S.shape))
	}
	return nil
}

func (S *AtomSelection) checkAtom(a nb.AtomIndex, caller string) error {
	if err := S.checkGroup(a.Group, caller); err != nil {
		return err
	}
	if a.Atom < 0 || a.Atom >= S.shape[a.Group] {
		return nb.NewError(nb.ErrInvalidIndex, caller, "atom %v out of range, group %d has %d atoms", a, a.Group, S.shape[a.Group])
	}
	return nil
}

//count returns the number of atoms selected in group g of a Partial selection.
func (S *AtomSelection) count(g int) int {
	gm, ok := S.groups[g]
	if !ok {
		return 0
	}
	if gm.all {
		return S.shape[g]
	}
	return len(gm.atoms)
}

//collapse takes a Partial selection to All or None if it became one of them.
func (S *AtomSelection) collapse() {
	if S.kind != Partial {
		return
	}
	if S.nsel == S.natoms {
		S.kind = All
		S.groups = nil
	} else if S.nsel == 0 {
		S.kind = None
		S.groups = nil
	}
}

//expand turns an All selection into the equivalent Partial one, with every group fully selected.
func (S *AtomSelection) expand() {
	if S.kind != All {
		return
	}
	S.kind = Partial
	S.groups = make(map[int]*groupMask, len(S.shape))
	for g, n := range S.shape {
		if n > 0 {
			S.groups[g] = &groupMask{all: true}
		}
	}
}

//toPartial turns a None selection into an empty Partial one.
func (S *AtomSelection) toPartial() {
	if S.kind != None {
		return
	}
	S.kind = Partial
	S.groups = make(map[int]*groupMask)
}

//Mutation

//SelectAll selects every atom.
func (S *AtomSelection) SelectAll() {
	S.kind = All
	S.groups = nil
	S.nsel = S.natoms
}

//DeselectAll deselects every atom.
func (S *AtomSelection) DeselectAll() {
	S.kind = None
	S.groups = nil
	S.nsel = 0
}

//SelectGroup selects all the atoms in group g.
func (S *AtomSelection) SelectGroup(g int) error {
	if err := S.checkGroup(g, "SelectGroup"); err != nil {
		return err
	}
	if S.kind == All {
		return nil
	}
	S.toPartial()
	S.nsel += S.shape[g] - S.count(g)
	if S.shape[g] > 0 {
		S.groups[g] = &groupMask{all: true}
	}
	S.collapse()
	return nil
}

//DeselectGroup deselects all the atoms in group g.
func (S *AtomSelection) DeselectGroup(g int) error {
	if err := S.checkGroup(g, "DeselectGroup"); err != nil {
		return err
	}
	if S.kind == None {
		return nil
	}
	S.expand()
	S.nsel -= S.count(g)
	delete(S.groups, g)
	S.collapse()
	return nil
}

//Select selects the atom a. Selecting an atom already selected does nothing.
func (S *AtomSelection) Select(a nb.AtomIndex) error {
	if err := S.checkAtom(a, "Select"); err != nil {
		return err
	}
	if S.isSelected(a) {
		return nil
	}
	S.toPartial()
	gm, ok := S.groups[a.Group]
	if !ok {
		gm = &groupMask{atoms: make(map[int]struct{})}
		S.groups[a.Group] = gm
	}
	gm.atoms[a.Atom] = struct{}{}
	S.nsel++
	if len(gm.atoms) == S.shape[a.Group] {
		gm.all = true
		gm.atoms = nil
	}
	S.collapse()
	return nil
}

//Deselect deselects the atom a. Deselecting an atom that is not selected does nothing.
func (S *AtomSelection) Deselect(a nb.AtomIndex) error {
	if err := S.checkAtom(a, "Deselect"); err != nil {
		return err
	}
	if !S.isSelected(a) {
		return nil
	}
	S.expand()
	gm := S.groups[a.Group]
	if gm.all {
		gm.all = false
		gm.atoms = make(map[int]struct{}, S.shape[a.Group]-1)
		for i := 0; i < S.shape[a.Group]; i++ {
			if i != a.Atom {
				gm.atoms[i] = struct{}{}
			}
		}
	} else {
		delete(gm.atoms, a.Atom)
	}
	S.nsel--
	if !gm.all && len(gm.atoms) == 0 {
		delete(S.groups, a.Group)
	}
	S.collapse()
	return nil
}

//Queries

//ID returns the identity of the molecule the selection was built for.
func (S *AtomSelection) ID() uuid.UUID {
	return S.id
}

//Kind returns the state of the selection
func (S *AtomSelection) Kind() Kind {
	return S.kind
}

//NGroups returns the number of groups in the molecule.
func (S *AtomSelection) NGroups() int {
	return len(S.shape)
}

//NAtoms returns the number of atoms in the molecule, selected or not.
func (S *AtomSelection) NAtoms() int {
	return S.natoms
}

//GroupNAtoms returns the number of atoms in group g, selected or not. Panics if g is out of range.
func (S *AtomSelection) GroupNAtoms(g int) int {
	return S.shape[g]
}

func (S *AtomSelection) isSelected(a nb.AtomIndex) bool {
	switch S.kind {
	case All:
		return true
	case None:
		return false
	}
	gm, ok := S.groups[a.Group]
	if !ok {
		return false
	}
	if gm.all {
		return true
	}
	_, ok = gm.atoms[a.Atom]
	return ok
}

//IsSelected returns true if the atom a is selected.
func (S *AtomSelection) IsSelected(a nb.AtomIndex) (bool, error) {
	if err := S.checkAtom(a, "IsSelected"); err != nil {
		return false, err
	}
	return S.isSelected(a), nil
}

//NSelected returns the number of selected atoms
func (S *AtomSelection) NSelected() int {
	return S.nsel
}

//NSelectedIn returns the number of selected atoms in group g.
func (S *AtomSelection) NSelectedIn(g int) (int, error) {
	if err := S.checkGroup(g, "NSelectedIn"); err != nil {
		return 0, err
	}
	return S.nSelectedIn(g), nil
}

func (S *AtomSelection) nSelectedIn(g int) int {
	switch S.kind {
	case All:
		return S.shape[g]
	case None:
		return 0
	}
	return S.count(g)
}

//SelectedAll returns true if all atoms are selected.
func (S *AtomSelection) SelectedAll() bool {
	return S.nsel == S.natoms
}

//SelectedNone returns true if no atom is selected.
func (S *AtomSelection) SelectedNone() bool {
	return S.nsel == 0
}

//SelectedAllIn returns true if all the atoms in group g are selected.
func (S *AtomSelection) SelectedAllIn(g int) (bool, error) {
	if err := S.checkGroup(g, "SelectedAllIn"); err != nil {
		return false, err
	}
	return S.nSelectedIn(g) == S.shape[g], nil
}

//SelectedGroups returns the sorted indexes of the groups with at least one atom selected.
func (S *AtomSelection) SelectedGroups() []int {
	var ret []int
	switch S.kind {
	case None:
		return nil
	case All:
		ret = make([]int, 0, len(S.shape))
		for g, n := range S.shape {
			if n > 0 {
				ret = append(ret, g)
			}
		}
		return ret
	}
	ret = make([]int, 0, len(S.groups))
	for g := range S.groups {
		ret = append(ret, g)
	}
	sort.Ints(ret)
	return ret
}

//SelectedAtoms returns the sorted indexes, within group g, of the selected atoms of that group.
//It panics if g is out of range.
func (S *AtomSelection) SelectedAtoms(g int) []int {
	n := S.nSelectedIn(g)
	if n == 0 {
		return nil
	}
	ret := make([]int, 0, n)
	if n == S.shape[g] {
		for i := 0; i < n; i++ {
			ret = append(ret, i)
		}
		return ret
	}
	for a := range S.groups[g].atoms {
		ret = append(ret, a)
	}
	sort.Ints(ret)
	return ret
}

//Intersects returns true if any of the given groups has at least one atom selected.
//Groups out of range are ignored.
func (S *AtomSelection) Intersects(groups []int) bool {
	for _, g := range groups {
		if g < 0 || g >= len(S.shape) {
			continue
		}
		if S.nSelectedIn(g) > 0 {
			return true
		}
	}
	return false
}

//Compatibility and set operations

//IsCompatibleWith returns true if S was built for mol, and mol still has the same shape.
func (S *AtomSelection) IsCompatibleWith(mol nb.Molecule) bool {
	if mol.ID() != S.id || mol.NGroups() != len(S.shape) {
		return false
	}
	for g, n := range S.shape {
		if mol.GroupNAtoms(g) != n {
			return false
		}
	}
	return true
}

//AssertCompatibleWith returns an error of kind ErrIncompatibleSelection if S can't be used with mol.
func (S *AtomSelection) AssertCompatibleWith(mol nb.Molecule) error {
	if !S.IsCompatibleWith(mol) {
		return nb.NewError(nb.ErrIncompatibleSelection, "AssertCompatibleWith", "selection for molecule %s (%d groups, %d atoms) can't be used with molecule %s (%d groups, %d atoms)", S.id, len(S.shape), S.natoms, mol.ID(), mol.NGroups(), mol.NAtoms())
	}
	return nil
}

func (S *AtomSelection) sameShape(O *AtomSelection) bool {
	if S.id != O.id || len(S.shape) != len(O.shape) {
		return false
	}
	for i, v := range S.shape {
		if O.shape[i] != v {
			return false
		}
	}
	return true
}

//Union adds to S every atom selected in O.
func (S *AtomSelection) Union(O *AtomSelection) error {
	if !S.sameShape(O) {
		return nb.NewError(nb.ErrIncompatibleSelection, "Union", "selections belong to different molecules")
	}
	if O.kind == All {
		S.SelectAll()
		return nil
	}
	for _, g := range O.SelectedGroups() {
		if O.count(g) == O.shape[g] {
			S.SelectGroup(g) //can't fail, same shape
			continue
		}
		for a := range O.groups[g].atoms {
			S.Select(nb.AtomIndex{Group: g, Atom: a})
		}
	}
	return nil
}

//Subtract removes from S every atom selected in O.
func (S *AtomSelection) Subtract(O *AtomSelection) error {
	if !S.sameShape(O) {
		return nb.NewError(nb.ErrIncompatibleSelection, "Subtract", "selections belong to different molecules")
	}
	if O.kind == All {
		S.DeselectAll()
		return nil
	}
	for _, g := range O.SelectedGroups() {
		if O.count(g) == O.shape[g] {
			S.DeselectGroup(g)
			continue
		}
		for a := range O.groups[g].atoms {
			S.Deselect(nb.AtomIndex{Group: g, Atom: a})
		}
	}
	return nil
}

//Equal returns true if S and O belong to the same molecule and select the same atoms.
func (S *AtomSelection) Equal(O *AtomSelection) bool {
	if S == O {
		return true
	}
	if O == nil || !S.sameShape(O) || S.nsel != O.nsel || S.kind != O.kind {
		return false
	}
	if S.kind != Partial {
		return true
	}
	if len(S.groups) != len(O.groups) {
		return false
	}
	for g, gm := range S.groups {
		om, ok := O.groups[g]
		if !ok || om.all != gm.all || len(om.atoms) != len(gm.atoms) {
			return false
		}
		for a := range gm.atoms {
			if _, ok := om.atoms[a]; !ok {
				return false
			}
		}
	}
	return true
}

//Clone returns a deep copy of S.
func (S *AtomSelection) Clone() *AtomSelection {
	r := &AtomSelection{id: S.id, natoms: S.natoms, kind: S.kind, nsel: S.nsel}
	r.shape = make([]int, len(S.shape))
	copy(r.shape, S.shape)
	if S.groups != nil {
		r.groups = make(map[int]*groupMask, len(S.groups))
		for g, gm := range S.groups {
			r.groups[g] = gm.clone()
		}
	}
	return r
}

func (S *AtomSelection) String() string {
	switch S.kind {
	case All:
		return fmt.Sprintf("AtomSelection{all %d atoms}", S.natoms)
	case None:
		return fmt.Sprintf("AtomSelection{none of %d atoms}", S.natoms)
	}
	parts := make([]string, 0, len(S.groups))
	for _, g := range S.SelectedGroups() {
		if S.groups[g].all {
			parts = append(parts, fmt.Sprintf("%d:*", g))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%v", g, S.SelectedAtoms(g)))
	}
	return fmt.Sprintf("AtomSelection{%d of %d atoms: %s}", S.nsel, S.natoms, strings.Join(parts, " "))
}
