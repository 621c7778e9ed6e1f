/*
 * kernel.go, part of gonb.
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

//Package clj contains the Coulomb and Lennard-Jones energy kernel. Energies are in kcal/mol,
//distances in A and charges in e.
//
//The functions here are pure: they read snapshots and coordinate blocks and never modify them.
//The only mutable state is the Workspace, so several goroutines can evaluate energies
//at the same time as long as each one uses its own Workspace.
package clj

import (
	"fmt"
	"math"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ffmol"
	v3 "github.com/rmera/gonb/v3"
	"gonum.org/v1/gonum/mat"
)

//Energy is a pair of Coulomb and LJ energies, in kcal/mol.
type Energy struct {
	Coulomb float64
	LJ      float64
}

func (E Energy) Add(O Energy) Energy {
	return Energy{E.Coulomb + O.Coulomb, E.LJ + O.LJ}
}

func (E Energy) Sub(O Energy) Energy {
	return Energy{E.Coulomb - O.Coulomb, E.LJ - O.LJ}
}

func (E Energy) Scale(f float64) Energy {
	return Energy{E.Coulomb * f, E.LJ * f}
}

//Total returns the sum of both components.
func (E Energy) Total() float64 {
	return E.Coulomb + E.LJ
}

func (E Energy) String() string {
	return fmt.Sprintf("Coulomb: %.6f LJ: %.6f kcal/mol", E.Coulomb, E.LJ)
}

//Workspace holds the buffers the kernel needs. It is not safe for concurrent use.
type Workspace struct {
	dist mat.Dense
}

//NewWorkspace returns a workspace with storage for groups of up to n atoms.
func NewWorkspace(n int) *Workspace {
	W := new(Workspace)
	if n > 0 {
		W.dist.ReuseAs(n, n)
	}
	return W
}

//Kernel evaluates energies with a given space, switching function and combining rule.
type Kernel struct {
	Space  nb.Space
	Switch nb.Switch
	Rule   nb.CombiningRule
}

//NewKernel returns a kernel. A nil rule means the geometric combining rule.
func NewKernel(space nb.Space, sw nb.Switch, rule nb.CombiningRule) Kernel {
	if rule == nil {
		rule = nb.Geometric
	}
	return Kernel{Space: space, Switch: sw, Rule: rule}
}

//ljPair returns the LJ energy of two atoms with combined parameters p, at inverse square distance invd2.
func ljPair(p nb.LJParameter, invd2 float64) float64 {
	s2 := p.Sigma * p.Sigma * invd2
	s6 := s2 * s2 * s2
	return 4 * p.Epsilon * (s6*s6 - s6)
}

//GroupPair returns the energy between the atoms of two groups, with their coordinates, charges and
//LJ parameters. If the groups are beyond the cutoff of the switching function, nothing is calculated.
//Otherwise, both energies are scaled by the switching function at the minimum distance between the groups.
func (K Kernel) GroupPair(c0 *v3.Matrix, q0 []float64, lj0 []nb.LJParameter, c1 *v3.Matrix, q1 []float64, lj1 []nb.LJParameter, ws *Workspace) Energy {
	cut := K.Switch.CutoffDistance()
	if K.Space.IsBeyond(cut, c0, c1) {
		return Energy{}
	}
	mindist := K.Space.InverseSquareDistances(c0, c1, &ws.dist)
	if mindist > cut {
		return Energy{}
	}
	cscale := K.Switch.ElectrostaticScale(mindist)
	ljscale := K.Switch.VDWScale(mindist)
	if cscale == 0 && ljscale == 0 {
		return Energy{}
	}
	var coul, lj float64
	for i, qi := range q0 {
		row := ws.dist.RawRowView(i)
		lji := lj0[i]
		for j, qj := range q1 {
			invd2 := row[j]
			if qi != 0 && qj != 0 {
				coul += qi * qj * math.Sqrt(invd2)
			}
			if p := K.Rule(lji, lj1[j]); !p.IsDummy() {
				lj += ljPair(p, invd2)
			}
		}
	}
	return Energy{nb.OneOver4PiEps0 * coul * cscale, lj * ljscale}
}

//GroupSelf returns the energy between every pair of atoms within one group. It is never switched.
func (K Kernel) GroupSelf(c *v3.Matrix, q []float64, lj []nb.LJParameter, ws *Workspace) Energy {
	if len(q) < 2 {
		return Energy{}
	}
	K.Space.SelfInverseSquareDistances(c, &ws.dist)
	var coul, ljs float64
	for i := 0; i < len(q)-1; i++ {
		row := ws.dist.RawRowView(i)
		for j := i + 1; j < len(q); j++ {
			invd2 := row[j]
			if q[i] != 0 && q[j] != 0 {
				coul += q[i] * q[j] * math.Sqrt(invd2)
			}
			if p := K.Rule(lj[i], lj[j]); !p.IsDummy() {
				ljs += ljPair(p, invd2)
			}
		}
	}
	return Energy{nb.OneOver4PiEps0 * coul, ljs}
}

//MoleculePair returns the energy between all the groups of a and all the groups of b.
func (K Kernel) MoleculePair(a, b *ffmol.Snapshot, ws *Workspace) Energy {
	var E Energy
	ac, aq, alj := a.Coordinates(), a.Charges(), a.LJParameters()
	bc, bq, blj := b.Coordinates(), b.Charges(), b.LJParameters()
	for i := range ac {
		for j := range bc {
			E = E.Add(K.GroupPair(ac[i], aq[i], alj[i], bc[j], bq[j], blj[j], ws))
		}
	}
	return E
}

//MoleculeSelf returns the energy within a molecule: the self energy of every group, plus the
//switched energy between every pair of groups.
func (K Kernel) MoleculeSelf(s *ffmol.Snapshot, ws *Workspace) Energy {
	var E Energy
	c, q, lj := s.Coordinates(), s.Charges(), s.LJParameters()
	for i := range c {
		E = E.Add(K.GroupSelf(c[i], q[i], lj[i], ws))
		for j := i + 1; j < len(c); j++ {
			E = E.Add(K.GroupPair(c[i], q[i], lj[i], c[j], q[j], lj[j], ws))
		}
	}
	return E
}
