/*
 * options.go, part of gonb.
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

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ffmol"
)

//Options contains the settings of a forcefield.
type Options struct {
	charge       string
	lj           string
	rule         string
	fullFraction float64
	workers      int
	logger       *slog.Logger
	check        bool
}

//DefaultOptions returns options for the "charge" and "LJ" properties, geometric combining rule,
//a full recomputation when more than half of the molecules changed, one goroutine
//and the default slog logger.
func DefaultOptions() *Options {
	r := new(Options)
	r.charge = nb.DefaultChargeProperty
	r.lj = nb.DefaultLJProperty
	r.rule = "geometric"
	r.fullFraction = 0.5
	r.workers = 1
	return r
}

//ChargeProperty returns the name of the property with the charges,
//and sets it to a new value, if given.
func (O *Options) ChargeProperty(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.charge = name[0]
	}
	return O.charge
}

//LJProperty returns the name of the property with the LJ parameters,
//and sets it to a new value, if given.
func (O *Options) LJProperty(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.lj = name[0]
	}
	return O.lj
}

//CombiningRule returns the name of the combining rule, and sets it to a new value, if given.
//The name is checked when the forcefield is built.
func (O *Options) CombiningRule(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.rule = name[0]
	}
	return O.rule
}

//FullRecomputeFraction returns the fraction of molecules that need to change before
//the energy is recomputed from scratch instead of incrementally, and sets it to a new value, if given.
//0 means always from scratch, 1 always incrementally, unless the forcefield was told otherwise.
func (O *Options) FullRecomputeFraction(f ...float64) float64 {
	if len(f) > 0 && f[0] >= 0 && f[0] <= 1 {
		O.fullFraction = f[0]
	}
	return O.fullFraction
}

//Workers returns the number of goroutines used for full recomputations,
//and sets it to a new value, if given.
func (O *Options) Workers(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.workers = n[0]
	}
	return O.workers
}

//Logger returns the logger, and sets it to a new value, if given.
//If none was set, slog.Default() is returned.
func (O *Options) Logger(l ...*slog.Logger) *slog.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	if O.logger == nil {
		return slog.Default()
	}
	return O.logger
}

//CheckConsistency returns whether each incremental evaluation is checked against a full
//one, and sets it to a new value, if given. This is expensive and meant for debugging.
func (O *Options) CheckConsistency(b ...bool) bool {
	if len(b) > 0 {
		O.check = b[0]
	}
	return O.check
}

func (O *Options) parameters() ffmol.Parameters {
	return ffmol.Parameters{Charge: O.charge, LJ: O.lj}
}
