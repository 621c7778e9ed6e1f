/*
 * intra.go, part of gonb.
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
	"fmt"
	"time"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/clj"
	"github.com/rmera/gonb/ffmol"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

//IntraFF is the Coulomb and LJ energy within each of the molecules it contains.
//Molecules don't interact with each other.
type IntraFF struct {
	tracker
	kernel   clj.Kernel
	fraction float64
	workers  int
	selfs    map[nb.MolNum]clj.Energy
	energy   clj.Energy
	ws       *clj.Workspace
}

//NewIntra returns an empty intramolecular forcefield. If opts is nil, DefaultOptions() are used.
func NewIntra(name string, space nb.Space, sw nb.Switch, opts *Options) (*IntraFF, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	rule, err := nb.RuleByName(opts.CombiningRule())
	if err != nil {
		return nil, nb.Decorate(err, "ff.NewIntra")
	}
	if space == nil || sw == nil {
		return nil, fmt.Errorf("ff.NewIntra: forcefield %s needs a space and a switching function", name)
	}
	return &IntraFF{
		tracker:  newTracker(name, opts),
		kernel:   clj.NewKernel(space, sw, rule),
		fraction: opts.FullRecomputeFraction(),
		workers:  opts.Workers(),
		selfs:    make(map[nb.MolNum]clj.Energy),
		ws:       clj.NewWorkspace(0),
	}, nil
}

//SetSpace replaces the space. The next energy is computed from scratch.
func (F *IntraFF) SetSpace(s nb.Space) {
	F.kernel.Space = s
	F.ForceFullRecompute()
}

//SetSwitch replaces the switching function. The next energy is computed from scratch.
func (F *IntraFF) SetSwitch(sw nb.Switch) {
	F.kernel.Switch = sw
	F.ForceFullRecompute()
}

//MoleculeEnergy returns the energy within the molecule with number num. It
//brings the forcefield up to date first.
func (F *IntraFF) MoleculeEnergy(num nb.MolNum) (clj.Energy, bool) {
	F.Energy()
	E, ok := F.selfs[num]
	return E, ok
}

//Energy returns the sum of the energies within each molecule of the forcefield.
func (F *IntraFF) Energy() clj.Energy {
	if !F.dirty {
		energyEvaluations.WithLabelValues(F.name, pathCached).Inc()
		return F.energy
	}
	changed, total := F.changed()
	pendingDeltas.Observe(float64(len(changed)))
	if F.useFull(len(changed), total, F.fraction) {
		F.log.Debug("energy from scratch", "molecules", len(F.mols), "changed", len(changed), "forced", F.full)
		energyEvaluations.WithLabelValues(F.name, pathFull).Inc()
		F.fullEnergy()
	} else {
		F.log.Debug("incremental energy", "molecules", len(F.mols), "changed", len(changed))
		energyEvaluations.WithLabelValues(F.name, pathIncremental).Inc()
		for _, c := range changed {
			F.update(c)
		}
	}
	F.energy = F.sum()
	F.clean()
	return F.energy
}

//update brings the energy of molecule c up to date with its pending change. Only the
//changed groups are evaluated, against themselves and against the rest of the molecule.
func (F *IntraFF) update(c nb.MolNum) {
	d := F.pending[c]
	if _, ok := F.mols[c]; !ok {
		delete(F.selfs, c)
		return
	}
	prev, ok := F.selfs[c]
	if !ok || d.ChangedAll() {
		F.selfs[c] = F.kernel.MoleculeSelf(d.New(), F.ws)
		return
	}
	rest := unchanged(d.New(), d.ChangedGroups())
	np, op := d.NewParts(), d.OldParts()
	E := F.kernel.MoleculeSelf(np, F.ws).Add(F.kernel.MoleculePair(np, rest, F.ws))
	E = E.Sub(F.kernel.MoleculeSelf(op, F.ws)).Sub(F.kernel.MoleculePair(op, rest, F.ws))
	F.selfs[c] = prev.Add(E)
}

//unchanged returns the part of s that is not in the sorted list of groups changed.
func unchanged(s *ffmol.Snapshot, changed []int) *ffmol.Snapshot {
	keep := make([]int, 0, s.NGroups())
	j := 0
	for i := 0; i < s.NGroups(); i++ {
		g := s.OriginalGroup(i)
		for j < len(changed) && changed[j] < g {
			j++
		}
		if j < len(changed) && changed[j] == g {
			continue
		}
		keep = append(keep, g)
	}
	return s.Restrict(keep)
}

//fullEnergy recomputes the energy of every molecule.
func (F *IntraFF) fullEnergy() {
	start := time.Now()
	defer func() { fullRecomputeSeconds.Observe(time.Since(start).Seconds()) }()
	nums := sortedNums(F.mols)
	res := make([]clj.Energy, len(nums))
	workers := min(F.workers, len(nums))
	if workers <= 1 {
		for i, n := range nums {
			res[i] = F.kernel.MoleculeSelf(F.mols[n], F.ws)
		}
	} else {
		var group errgroup.Group
		group.SetLimit(workers)
		for w := 0; w < workers; w++ {
			w := w
			group.Go(func() error {
				ws := clj.NewWorkspace(0)
				for i := w; i < len(nums); i += workers {
					res[i] = F.kernel.MoleculeSelf(F.mols[nums[i]], ws)
				}
				return nil
			})
		}
		_ = group.Wait()
	}
	F.selfs = make(map[nb.MolNum]clj.Energy, len(nums))
	for i, n := range nums {
		F.selfs[n] = res[i]
	}
}

//sum adds the molecule energies in increasing molecule order.
func (F *IntraFF) sum() clj.Energy {
	nums := sortedNums(F.selfs)
	coul := make([]float64, len(nums))
	lj := make([]float64, len(nums))
	for i, n := range nums {
		coul[i], lj[i] = F.selfs[n].Coulomb, F.selfs[n].LJ
	}
	return clj.Energy{Coulomb: floats.Sum(coul), LJ: floats.Sum(lj)}
}

func (F *IntraFF) String() string {
	return fmt.Sprintf("IntraFF %s: %d molecules, dirty: %t", F.name, len(F.mols), F.dirty)
}
