/*
 * molecule.go, part of gonb.
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

//Package mol provides Molecule, a simple in-memory molecule organized in cut groups,
//which implements nb.Molecule.
//
//Molecules are never modified in place. Every "edit" returns a new Molecule, with the same
//identity and a newer version, that shares with the original whatever did not change.
//Moving atoms bumps the minor version, changing parameters or adding groups bumps the major one.
package mol

import (
	"fmt"

	"github.com/google/uuid"
	nb "github.com/rmera/gonb"
	v3 "github.com/rmera/gonb/v3"
)

//Atom contains what is needed to build a molecule atom by atom.
type Atom struct {
	Name   string
	Pos    [3]float64
	Charge float64
	LJ     nb.LJParameter
}

//Molecule is a molecule split in cut groups, with named per-atom properties.
type Molecule struct {
	num     nb.MolNum
	id      uuid.UUID
	name    string
	version nb.Version
	counter *nb.VersionCounter //shared by every molecule edited from this one
	coords  []*v3.Matrix
	names   [][]string
	charges map[string][][]float64
	ljs     map[string][][]nb.LJParameter
	natoms  int
}

//New returns a molecule with the given number, name and coordinates, one block
//per cut group, and no parameters. Empty groups are not allowed.
func New(num nb.MolNum, name string, coords []*v3.Matrix) (*Molecule, error) {
	M := &Molecule{num: num, id: uuid.New(), name: name, counter: new(nb.VersionCounter)}
	M.coords = make([]*v3.Matrix, len(coords))
	M.names = make([][]string, len(coords))
	for i, c := range coords {
		if c == nil || c.NVecs() == 0 {
			return nil, nb.NewError(nb.ErrInvalidIndex, "mol.New", "group %d is empty", i)
		}
		M.coords[i] = c
		M.names[i] = make([]string, c.NVecs())
		M.natoms += c.NVecs()
	}
	M.charges = make(map[string][][]float64)
	M.ljs = make(map[string][][]nb.LJParameter)
	return M, nil
}

//FromAtoms builds a molecule from atoms given group by group. Charges and LJ parameters are
//stored under nb.DefaultChargeProperty and nb.DefaultLJProperty.
func FromAtoms(num nb.MolNum, name string, groups [][]Atom) (*Molecule, error) {
	coords := make([]*v3.Matrix, len(groups))
	q := make([][]float64, len(groups))
	lj := make([][]nb.LJParameter, len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			return nil, nb.NewError(nb.ErrInvalidIndex, "mol.FromAtoms", "group %d is empty", i)
		}
		c := v3.Zeros(len(g))
		q[i] = make([]float64, len(g))
		lj[i] = make([]nb.LJParameter, len(g))
		for j, a := range g {
			copy(c.RawRowView(j), a.Pos[:])
			q[i][j] = a.Charge
			lj[i][j] = a.LJ
		}
		coords[i] = c
	}
	M, err := New(num, name, coords)
	if err != nil {
		return nil, nb.Decorate(err, "mol.FromAtoms")
	}
	for i, g := range groups {
		for j, a := range g {
			M.names[i][j] = a.Name
		}
	}
	M.charges[nb.DefaultChargeProperty] = q
	M.ljs[nb.DefaultLJProperty] = lj
	return M, nil
}

//copy-on-write: a shallow copy with its own slices and maps, which can be
//edited without affecting M. The blocks themselves are shared.
func (M *Molecule) cow() *Molecule {
	r := *M
	r.coords = append([]*v3.Matrix(nil), M.coords...)
	r.names = append([][]string(nil), M.names...)
	r.charges = make(map[string][][]float64, len(M.charges))
	for k, v := range M.charges {
		r.charges[k] = v
	}
	r.ljs = make(map[string][][]nb.LJParameter, len(M.ljs))
	for k, v := range M.ljs {
		r.ljs[k] = v
	}
	return &r
}

//nb.Molecule implementation

func (M *Molecule) Number() nb.MolNum     { return M.num }
func (M *Molecule) ID() uuid.UUID         { return M.id }
func (M *Molecule) Version() nb.Version   { return M.version }
func (M *Molecule) NGroups() int          { return len(M.coords) }
func (M *Molecule) NAtoms() int           { return M.natoms }
func (M *Molecule) GroupNAtoms(g int) int { return M.coords[g].NVecs() }

//Coordinates returns the coordinate blocks of the molecule. They must not be modified.
func (M *Molecule) Coordinates() []*v3.Matrix {
	return M.coords
}

//Charges returns the charges stored under name.
func (M *Molecule) Charges(name string) ([][]float64, error) {
	q, ok := M.charges[name]
	if !ok {
		return nil, nb.NewError(nb.ErrMissingParameter, "Charges", "molecule %d (%s) has no charge property %q", M.num, M.name, name)
	}
	return q, nil
}

//LJParameters returns the LJ parameters stored under name.
func (M *Molecule) LJParameters(name string) ([][]nb.LJParameter, error) {
	lj, ok := M.ljs[name]
	if !ok {
		return nil, nb.NewError(nb.ErrMissingParameter, "LJParameters", "molecule %d (%s) has no LJ property %q", M.num, M.name, name)
	}
	return lj, nil
}

//Other accessors

//Name returns the name of the molecule.
func (M *Molecule) Name() string { return M.name }

//AtomName returns the name of an atom. Panics if the index is out of range.
func (M *Molecule) AtomName(a nb.AtomIndex) string {
	return M.names[a.Group][a.Atom]
}

func (M *Molecule) String() string {
	return fmt.Sprintf("Molecule %d (%s) %s v%s: %d groups, %d atoms", M.num, M.name, M.id, M.version, len(M.coords), M.natoms)
}
