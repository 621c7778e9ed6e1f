/*
 * types.go, part of gonb.
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

package nb

import (
	"fmt"
	"math"
	"sync/atomic"
)

//The property names under which charges and LJ parameters are looked for,
//unless told otherwise.
const (
	DefaultChargeProperty = "charge"
	DefaultLJProperty     = "LJ"
)

//MolNum is the number forcefields use to identify a molecule.
type MolNum int

//Version is the two-level change counter of a molecule. A change in Major means that
//the topology or the parameters changed, a change only in Minor means that
//only the coordinates did.
type Version struct {
	Major uint64
	Minor uint64
}

//Less returns true if V is older than W.
func (V Version) Less(W Version) bool {
	if V.Major != W.Major {
		return V.Major < W.Major
	}
	return V.Minor < W.Minor
}

//MajorChanged returns true if V and W differ in their major version.
func (V Version) MajorChanged(W Version) bool {
	return V.Major != W.Major
}

//VersionCounter hands out the versions of one molecule and of every copy edited from it,
//so that two edits never get the same version, even when both start from the same molecule.
//Versions from one counter still increase along any chain of edits. It is safe for concurrent use.
type VersionCounter struct {
	last atomic.Uint64
}

//next returns a number larger than after, and than any number returned before.
func (C *VersionCounter) next(after uint64) uint64 {
	for {
		cur := C.last.Load()
		n := max(cur, after) + 1
		if C.last.CompareAndSwap(cur, n) {
			return n
		}
	}
}

//BumpMinor returns a new version for a coordinates-only change of the molecule at version V.
func (C *VersionCounter) BumpMinor(V Version) Version {
	return Version{V.Major, C.next(V.Minor)}
}

//BumpMajor returns a new version for a parameter or topology change of the molecule at version V.
func (C *VersionCounter) BumpMajor(V Version) Version {
	return Version{C.next(V.Major), 0}
}

func (V Version) String() string {
	return fmt.Sprintf("%d.%d", V.Major, V.Minor)
}

//AtomIndex addresses an atom as the index of its cut group and its index within the group.
type AtomIndex struct {
	Group int
	Atom  int
}

func (A AtomIndex) String() string {
	return fmt.Sprintf("%d:%d", A.Group, A.Atom)
}

//LJParameter contains the Lennard-Jones parameters of one atom, in A and kcal/mol.
type LJParameter struct {
	Sigma   float64
	Epsilon float64
}

//DummyLJ returns the neutral parameter, which gives no LJ interaction.
func DummyLJ() LJParameter {
	return LJParameter{}
}

//IsDummy returns true if L can't give any LJ interaction.
func (L LJParameter) IsDummy() bool {
	return L.Sigma == 0 || L.Epsilon == 0
}

//LJFromC6C12 builds an LJParameter from the C6 and C12 coefficients
//of an atom interacting with itself.
func LJFromC6C12(c6, c12 float64) LJParameter {
	if c6 == 0 || c12 == 0 {
		return DummyLJ()
	}
	return LJParameter{Sigma: math.Pow(c12/c6, 1.0/6), Epsilon: c6 * c6 / (4 * c12)}
}

//CombiningRule obtains the parameter for the pair from the parameters of two atoms.
type CombiningRule func(a, b LJParameter) LJParameter

//Geometric is the geometric combining rule: both sigma and epsilon are geometric means.
func Geometric(a, b LJParameter) LJParameter {
	return LJParameter{Sigma: math.Sqrt(a.Sigma * b.Sigma), Epsilon: math.Sqrt(a.Epsilon * b.Epsilon)}
}

//Arithmetic is the Lorentz-Berthelot rule: arithmetic sigma, geometric epsilon.
func Arithmetic(a, b LJParameter) LJParameter {
	if a.IsDummy() || b.IsDummy() {
		return DummyLJ()
	}
	return LJParameter{Sigma: 0.5 * (a.Sigma + b.Sigma), Epsilon: math.Sqrt(a.Epsilon * b.Epsilon)}
}

//RuleByName returns the combining rule with the given name ("geometric" or "arithmetic").
func RuleByName(name string) (CombiningRule, error) {
	switch name {
	case "", "geometric":
		return Geometric, nil
	case "arithmetic", "lorentz-berthelot":
		return Arithmetic, nil
	}
	return nil, fmt.Errorf("unknown combining rule %q", name)
}
