/*
 * switching.go, part of gonb.
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

//Package switching implements nb.Switch: no cutoff at all, and a harmonic switch that
//takes the energy smoothly to zero between a feather distance and a cutoff.
package switching

import (
	"fmt"
	"math"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
)

//NoCutoff never scales anything.
type NoCutoff struct{}

func (NoCutoff) ElectrostaticScale(d float64) float64 { return 1 }
func (NoCutoff) VDWScale(d float64) float64           { return 1 }

//CutoffDistance returns +Inf.
func (NoCutoff) CutoffDistance() float64 { return math.Inf(1) }

func (NoCutoff) String() string { return "NoCutoff" }

//Harmonic scales energies by 1 up to the feather distance, by 0 beyond the cutoff, and
//by (cut^2-d^2)/(cut^2-feather^2) in between. Coulomb and LJ can have different
//cutoff and feather distances.
type Harmonic struct {
	cut, feather     float64
	ljcut, ljfeather float64

	//precomputed 1/(cut^2-feather^2)
	norm, ljnorm float64
}

//NewHarmonic returns a harmonic switch with the same cutoff and feather for Coulomb and LJ.
func NewHarmonic(cutoff, feather float64) (*Harmonic, error) {
	return NewHarmonicLJ(cutoff, feather, cutoff, feather)
}

//NewHarmonicLJ returns a harmonic switch with separate Coulomb and LJ distances.
//Feathers must be in [0, cutoff].
func NewHarmonicLJ(cutoff, feather, ljcutoff, ljfeather float64) (*Harmonic, error) {
	if cutoff <= 0 || feather < 0 || feather > cutoff || ljcutoff <= 0 || ljfeather < 0 || ljfeather > ljcutoff {
		return nil, fmt.Errorf("switching: invalid harmonic switch cutoff %g feather %g, LJ cutoff %g feather %g", cutoff, feather, ljcutoff, ljfeather)
	}
	H := &Harmonic{cut: cutoff, feather: feather, ljcut: ljcutoff, ljfeather: ljfeather}
	if cutoff > feather {
		H.norm = 1 / (cutoff*cutoff - feather*feather)
	}
	if ljcutoff > ljfeather {
		H.ljnorm = 1 / (ljcutoff*ljcutoff - ljfeather*ljfeather)
	}
	return H, nil
}

func scale(d, cut, feather, norm float64) float64 {
	switch {
	case d >= cut:
		return 0
	case d <= feather:
		return 1
	}
	return (cut*cut - d*d) * norm
}

func (H *Harmonic) ElectrostaticScale(d float64) float64 {
	return scale(d, H.cut, H.feather, H.norm)
}

func (H *Harmonic) VDWScale(d float64) float64 {
	return scale(d, H.ljcut, H.ljfeather, H.ljnorm)
}

//CutoffDistance returns the largest of the two cutoffs.
func (H *Harmonic) CutoffDistance() float64 {
	return math.Max(H.cut, H.ljcut)
}

//Cutoffs returns the Coulomb cutoff and feather, and the LJ cutoff and feather.
func (H *Harmonic) Cutoffs() (cut, feather, ljcut, ljfeather float64) {
	return H.cut, H.feather, H.ljcut, H.ljfeather
}

func (H *Harmonic) String() string {
	if H.cut == H.ljcut && H.feather == H.ljfeather {
		return fmt.Sprintf("Harmonic(cutoff %g, feather %g)", H.cut, H.feather)
	}
	return fmt.Sprintf("Harmonic(cutoff %g, feather %g, LJ cutoff %g, feather %g)", H.cut, H.feather, H.ljcut, H.ljfeather)
}

const (
	noCutoffTag = "NoCutoff"
	harmonicTag = "HarmonicSwitch"
)

//Encode writes sw to E. Only the switches in this package can be written.
func Encode(E *nbio.Encoder, sw nb.Switch) error {
	switch S := sw.(type) {
	case NoCutoff, *NoCutoff:
		E.Header(noCutoffTag, 1)
	case *Harmonic:
		E.Header(harmonicTag, 1)
		E.Float64(S.cut)
		E.Float64(S.feather)
		E.Float64(S.ljcut)
		E.Float64(S.ljfeather)
	default:
		return nb.NewError(nb.ErrVersionMismatch, "switching.Encode", "can't encode switch of type %T", sw)
	}
	return E.Err()
}

//Decode reads a switch written by Encode.
func Decode(D *nbio.Decoder) nb.Switch {
	tag := D.String()
	version := D.Uint32()
	if D.Err() != nil {
		return nil
	}
	if version != 1 {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "switching.Decode", "format %q version %d is not supported", tag, version))
		return nil
	}
	switch tag {
	case noCutoffTag:
		return NoCutoff{}
	case harmonicTag:
		c, f, lc, lf := D.Float64(), D.Float64(), D.Float64(), D.Float64()
		if D.Err() != nil {
			return nil
		}
		H, err := NewHarmonicLJ(c, f, lc, lf)
		if err != nil {
			D.Fail(nb.NewError(nb.ErrVersionMismatch, "switching.Decode", "%s", err.Error()))
			return nil
		}
		return H
	}
	D.Fail(nb.NewError(nb.ErrVersionMismatch, "switching.Decode", "unknown switch %q", tag))
	return nil
}
