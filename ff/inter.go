/*
 * inter.go, part of gonb.
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

//Package ff contains forcefields that keep the Coulomb and LJ energy of a set of molecules
//up to date. Changes to the molecules are recorded as they happen, and accounted for only
//when the energy is requested, either incrementally, from the groups that changed, or from
//scratch, when too much changed.
//
//A forcefield is not safe for concurrent use.
package ff

import (
	"fmt"
	"math"
	"time"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/clj"
	"github.com/rmera/gonb/ffmol"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

//InterFF is the intermolecular Coulomb and LJ energy between the molecules it contains.
//Interactions within each molecule are not included.
type InterFF struct {
	tracker
	kernel   clj.Kernel
	rule     string
	fraction float64
	workers  int
	check    bool
	energy   clj.Energy
	ws       *clj.Workspace
}

//New returns an empty intermolecular forcefield with the given space and switching function.
//If opts is nil, DefaultOptions() are used.
func New(name string, space nb.Space, sw nb.Switch, opts *Options) (*InterFF, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	rule, err := nb.RuleByName(opts.CombiningRule())
	if err != nil {
		return nil, nb.Decorate(err, "ff.New")
	}
	if space == nil || sw == nil {
		return nil, fmt.Errorf("ff.New: forcefield %s needs a space and a switching function", name)
	}
	F := &InterFF{
		tracker:  newTracker(name, opts),
		kernel:   clj.NewKernel(space, sw, rule),
		rule:     opts.CombiningRule(),
		fraction: opts.FullRecomputeFraction(),
		workers:  opts.Workers(),
		check:    opts.CheckConsistency(),
		ws:       clj.NewWorkspace(0),
	}
	return F, nil
}

//Space returns the space of the forcefield.
func (F *InterFF) Space() nb.Space { return F.kernel.Space }

//Switch returns the switching function of the forcefield.
func (F *InterFF) Switch() nb.Switch { return F.kernel.Switch }

//SetSpace replaces the space. The next energy is computed from scratch.
func (F *InterFF) SetSpace(s nb.Space) {
	F.kernel.Space = s
	F.ForceFullRecompute()
}

//SetSwitch replaces the switching function. The next energy is computed from scratch.
func (F *InterFF) SetSwitch(sw nb.Switch) {
	F.kernel.Switch = sw
	F.ForceFullRecompute()
}

//Energy returns the energy between the molecules in the forcefield, accounting for every
//change recorded since the last call.
func (F *InterFF) Energy() clj.Energy {
	if !F.dirty {
		energyEvaluations.WithLabelValues(F.name, pathCached).Inc()
		return F.energy
	}
	changed, total := F.changed()
	pendingDeltas.Observe(float64(len(changed)))
	if F.useFull(len(changed), total, F.fraction) {
		F.log.Debug("energy from scratch", "molecules", len(F.mols), "changed", len(changed), "forced", F.full)
		energyEvaluations.WithLabelValues(F.name, pathFull).Inc()
		F.energy = F.fullEnergy()
		F.clean()
		return F.energy
	}
	F.log.Debug("incremental energy", "molecules", len(F.mols), "changed", len(changed))
	energyEvaluations.WithLabelValues(F.name, pathIncremental).Inc()
	F.energy = F.energy.Add(F.deltaEnergy(changed))
	F.clean()
	if F.check {
		F.checkConsistency()
	}
	return F.energy
}

//states returns the snapshot of molecule n before and after its pending change.
//For molecules without pending changes, both are the current snapshot. Removed or
//added molecules have an empty snapshot on one side.
func (F *InterFF) states(n nb.MolNum) (old, new *ffmol.Snapshot) {
	if d, ok := F.pending[n]; ok {
		return d.Old(), d.New()
	}
	s := F.mols[n]
	return s, s
}

//deltaEnergy returns the energy change produced by the pending changes of the molecules in changed.
//Each changed molecule contributes the energy of its new parts with the new state of every other
//molecule, minus that of its old parts with the old state of every other molecule. The parts of two
//changed molecules are then counted twice, which the second loop corrects.
func (F *InterFF) deltaEnergy(changed []nb.MolNum) clj.Energy {
	others := sortedNums(F.mols)
	for _, n := range changed {
		if _, ok := F.mols[n]; !ok {
			others = append(others, n)
		}
	}
	var dE clj.Energy
	for _, c := range changed {
		d := F.pending[c]
		np, op := d.NewParts(), d.OldParts()
		for _, o := range others {
			if o == c {
				continue
			}
			oold, onew := F.states(o)
			if !np.IsEmpty() && !onew.IsEmpty() {
				dE = dE.Add(F.kernel.MoleculePair(np, onew, F.ws))
			}
			if !op.IsEmpty() && !oold.IsEmpty() {
				dE = dE.Sub(F.kernel.MoleculePair(op, oold, F.ws))
			}
		}
	}
	for i, c := range changed {
		dc := F.pending[c]
		for _, e := range changed[i+1:] {
			de := F.pending[e]
			dE = dE.Sub(F.kernel.MoleculePair(dc.NewParts(), de.NewParts(), F.ws))
			dE = dE.Add(F.kernel.MoleculePair(dc.OldParts(), de.OldParts(), F.ws))
		}
	}
	return dE
}

//fullEnergy sums the energy of every pair of molecules. With more than one worker, the
//molecules are dealt round-robin to the workers. The result doesn't depend on the number of workers.
func (F *InterFF) fullEnergy() clj.Energy {
	start := time.Now()
	defer func() { fullRecomputeSeconds.Observe(time.Since(start).Seconds()) }()
	nums := sortedNums(F.mols)
	snaps := make([]*ffmol.Snapshot, len(nums))
	for i, n := range nums {
		snaps[i] = F.mols[n]
	}
	coul := make([]float64, len(snaps))
	lj := make([]float64, len(snaps))
	row := func(i int, ws *clj.Workspace) {
		var E clj.Energy
		for j := i + 1; j < len(snaps); j++ {
			E = E.Add(F.kernel.MoleculePair(snaps[i], snaps[j], ws))
		}
		coul[i], lj[i] = E.Coulomb, E.LJ
	}
	workers := F.workers
	if workers > len(snaps) {
		workers = len(snaps)
	}
	if workers <= 1 {
		for i := range snaps {
			row(i, F.ws)
		}
	} else {
		var group errgroup.Group
		group.SetLimit(workers)
		for w := 0; w < workers; w++ {
			w := w
			group.Go(func() error {
				ws := clj.NewWorkspace(0)
				for i := w; i < len(snaps); i += workers {
					row(i, ws)
				}
				return nil
			})
		}
		_ = group.Wait() //the workers can't fail
	}
	return clj.Energy{Coulomb: floats.Sum(coul), LJ: floats.Sum(lj)}
}

//checkConsistency compares the current energy with one computed from scratch, and logs the drift.
func (F *InterFF) checkConsistency() {
	full := F.fullEnergy()
	drift := math.Abs(full.Total() - F.energy.Total())
	consistencyDrift.Set(drift)
	scale := math.Max(1, math.Abs(full.Total()))
	if drift/scale > 1e-6 {
		F.log.Warn("incremental energy drifted from the full sum", "incremental", F.energy.Total(), "full", full.Total(), "drift", drift)
		return
	}
	F.log.Debug("incremental energy checked", "drift", drift)
}

func (F *InterFF) String() string {
	return fmt.Sprintf("InterFF %s: %d molecules, space %v, switch %v, rule %s, dirty: %t", F.name, len(F.mols), F.kernel.Space, F.kernel.Switch, F.rule, F.dirty)
}
