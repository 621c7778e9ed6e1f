/*
 * interfaces.go, part of gonb.
 *
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
 *
 */

package nb

import (
	"github.com/google/uuid"
	v3 "github.com/rmera/gonb/v3"
	"gonum.org/v1/gonum/mat"
)

//The energy engine consumes molecules, spaces and switching functions only through
//these interfaces. The mol, space and switching packages contain implementations,
//but anything satisfying them will do.

//Molecule is what a forcefield needs from a molecule: its identity, its version,
//its cut groups and the per-atom parameters, stored group by group.
type Molecule interface {
	//Number is the numeric id forcefields use to key the molecule.
	Number() MolNum

	//ID identifies the molecule itself. Two molecules with the same number
	//but different ID are different molecules.
	ID() uuid.UUID

	//Version must differ between any two states of the molecule with the same ID,
	//including two edits made from the same state. A VersionCounter gives such versions.
	Version() Version

	//NGroups returns the number of cut groups
	NGroups() int

	//NAtoms returns the total number of atoms
	NAtoms() int

	//GroupNAtoms returns the number of atoms in cut group g. Should panic if
	//g is out of range.
	GroupNAtoms(g int) int

	//Coordinates returns one Nx3 block per cut group. The blocks must not
	//be modified by the caller.
	Coordinates() []*v3.Matrix

	//Charges returns the per-atom charges stored under the property name,
	//one slice per cut group. Returns an error of kind ErrMissingParameter if
	//the property was never assigned.
	Charges(name string) ([][]float64, error)

	//LJParameters is the same as Charges but for Lennard-Jones parameters.
	LJParameters(name string) ([][]LJParameter, error)
}

//Space provides distances between cut groups.
type Space interface {
	//InverseSquareDistances fills out with 1/r^2 for every pair of atoms (i in a, j in b),
	//resizing it to a.NVecs() x b.NVecs() if needed, and returns the
	//minimum distance (not squared) between the two groups.
	InverseSquareDistances(a, b *v3.Matrix, out *mat.Dense) float64

	//SelfInverseSquareDistances does the same for every pair of atoms within a. The diagonal is 0.
	SelfInverseSquareDistances(a *v3.Matrix, out *mat.Dense) float64

	//IsBeyond returns true if it is cheaply possible to prove that no pair of atoms
	//between a and b is closer than cutoff. False negatives are allowed.
	IsBeyond(cutoff float64, a, b *v3.Matrix) bool
}

//Switch maps the minimum distance between two groups to scale factors
//for the electrostatic and van der Waals energies.
type Switch interface {
	ElectrostaticScale(d float64) float64
	VDWScale(d float64) float64

	//CutoffDistance is the distance beyond which both scale factors are 0.
	CutoffDistance() float64
}
