/*
 * edit.go, part of gonb.
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
	nb "github.com/rmera/gonb"
	v3 "github.com/rmera/gonb/v3"
)

//Coordinate edits. They bump the minor version.

//Translate returns a copy of M with all its atoms displaced by d.
func (M *Molecule) Translate(d [3]float64) *Molecule {
	r := M.cow()
	for i, c := range r.coords {
		r.coords[i] = c.Translate(d)
	}
	r.version = M.counter.BumpMinor(M.version)
	return r
}

//TranslateGroups returns a copy of M with the atoms in the given groups displaced by d.
func (M *Molecule) TranslateGroups(d [3]float64, groups ...int) (*Molecule, error) {
	for _, g := range groups {
		if g < 0 || g >= len(M.coords) {
			return nil, nb.NewError(nb.ErrInvalidIndex, "TranslateGroups", "group %d out of range (%d groups)", g, len(M.coords))
		}
	}
	r := M.cow()
	moved := make(map[int]bool, len(groups))
	for _, g := range groups {
		if moved[g] {
			continue
		}
		r.coords[g] = M.coords[g].Translate(d)
		moved[g] = true
	}
	r.version = M.counter.BumpMinor(M.version)
	return r, nil
}

//SetGroupCoordinates returns a copy of M where group g has the coordinates c.
//c is used as it is, not copied.
func (M *Molecule) SetGroupCoordinates(g int, c *v3.Matrix) (*Molecule, error) {
	if g < 0 || g >= len(M.coords) {
		return nil, nb.NewError(nb.ErrInvalidIndex, "SetGroupCoordinates", "group %d out of range (%d groups)", g, len(M.coords))
	}
	if c.NVecs() != M.coords[g].NVecs() {
		return nil, nb.NewError(nb.ErrInvalidIndex, "SetGroupCoordinates", "group %d has %d atoms, %d coordinates given", g, M.coords[g].NVecs(), c.NVecs())
	}
	r := M.cow()
	r.coords[g] = c
	r.version = M.counter.BumpMinor(M.version)
	return r, nil
}

//Parameter edits. They bump the major version.

func (M *Molecule) checkShape(n []int, caller string) error {
	if len(n) != len(M.coords) {
		return nb.NewError(nb.ErrInvalidIndex, caller, "%d groups given, molecule has %d", len(n), len(M.coords))
	}
	for i, v := range n {
		if v != M.coords[i].NVecs() {
			return nb.NewError(nb.ErrInvalidIndex, caller, "%d values given for group %d, which has %d atoms", v, i, M.coords[i].NVecs())
		}
	}
	return nil
}

//WithCharges returns a copy of M where the property name contains the charges q, one slice per group.
func (M *Molecule) WithCharges(name string, q [][]float64) (*Molecule, error) {
	n := make([]int, len(q))
	for i, v := range q {
		n[i] = len(v)
	}
	if err := M.checkShape(n, "WithCharges"); err != nil {
		return nil, err
	}
	r := M.cow()
	r.charges[name] = q
	r.version = M.counter.BumpMajor(M.version)
	return r, nil
}

//WithLJ returns a copy of M where the property name contains the LJ parameters lj, one slice per group.
func (M *Molecule) WithLJ(name string, lj [][]nb.LJParameter) (*Molecule, error) {
	n := make([]int, len(lj))
	for i, v := range lj {
		n[i] = len(v)
	}
	if err := M.checkShape(n, "WithLJ"); err != nil {
		return nil, err
	}
	r := M.cow()
	r.ljs[name] = lj
	r.version = M.counter.BumpMajor(M.version)
	return r, nil
}

//SetAtomCharge returns a copy of M where atom a has charge q in the property name.
//Only the affected group is copied.
func (M *Molecule) SetAtomCharge(name string, a nb.AtomIndex, q float64) (*Molecule, error) {
	old, err := M.Charges(name)
	if err != nil {
		return nil, err
	}
	if a.Group < 0 || a.Group >= len(old) || a.Atom < 0 || a.Atom >= len(old[a.Group]) {
		return nil, nb.NewError(nb.ErrInvalidIndex, "SetAtomCharge", "atom %v out of range", a)
	}
	nq := append([][]float64(nil), old...)
	nq[a.Group] = append([]float64(nil), old[a.Group]...)
	nq[a.Group][a.Atom] = q
	r := M.cow()
	r.charges[name] = nq
	r.version = M.counter.BumpMajor(M.version)
	return r, nil
}

//AddGroup returns a copy of M with a new group at the end, with coordinates c and the given
//charges and LJ parameters, keyed by property name. Properties of M not given get zero
//charges and dummy LJ parameters for the new atoms.
func (M *Molecule) AddGroup(c *v3.Matrix, charges map[string][]float64, ljs map[string][]nb.LJParameter) (*Molecule, error) {
	n := c.NVecs()
	for k, v := range charges {
		if len(v) != n {
			return nil, nb.NewError(nb.ErrInvalidIndex, "AddGroup", "%d charges for %q given for %d atoms", len(v), k, n)
		}
	}
	for k, v := range ljs {
		if len(v) != n {
			return nil, nb.NewError(nb.ErrInvalidIndex, "AddGroup", "%d LJ parameters for %q given for %d atoms", len(v), k, n)
		}
	}
	r := M.cow()
	r.coords = append(r.coords, c)
	r.names = append(r.names, make([]string, n))
	r.natoms += n
	for k, v := range M.charges {
		q, ok := charges[k]
		if !ok {
			q = make([]float64, n)
		}
		r.charges[k] = append(append([][]float64(nil), v...), q)
	}
	for k, v := range M.ljs {
		lj, ok := ljs[k]
		if !ok {
			lj = make([]nb.LJParameter, n)
		}
		r.ljs[k] = append(append([][]nb.LJParameter(nil), v...), lj)
	}
	r.version = M.counter.BumpMajor(M.version)
	return r, nil
}
