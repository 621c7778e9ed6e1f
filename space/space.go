/*
 * space.go, part of gonb.
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

//Package space implements nb.Space for infinite (Cartesian) space and for
//an orthorhombic periodic box, using the minimum image convention.
package space

import (
	"fmt"
	"math"

	v3 "github.com/rmera/gonb/v3"
	"gonum.org/v1/gonum/mat"
)

//reuse makes out an r x c matrix, keeping its storage if it is large enough.
func reuse(out *mat.Dense, r, c int) {
	if rr, cc := out.Dims(); rr == r && cc == c {
		return
	}
	out.Reset()
	out.ReuseAs(r, c)
}

//Cartesian is infinite, non-periodic space.
type Cartesian struct{}

//InverseSquareDistances puts in out the inverse square distances between the atoms of a and b,
//and returns the minimum distance.
func (Cartesian) InverseSquareDistances(a, b *v3.Matrix, out *mat.Dense) float64 {
	return inverseSquare(a, b, out, func(d *[3]float64) {})
}

//SelfInverseSquareDistances puts in out the inverse square distances between the atoms of a,
//and returns the minimum distance. A single atom gives +Inf.
func (Cartesian) SelfInverseSquareDistances(a *v3.Matrix, out *mat.Dense) float64 {
	return selfInverseSquare(a, out, func(d *[3]float64) {})
}

//IsBeyond compares the distance between the bounding spheres of a and b with cutoff.
func (Cartesian) IsBeyond(cutoff float64, a, b *v3.Matrix) bool {
	if math.IsInf(cutoff, 1) {
		return false
	}
	ca, cb := a.Center(), b.Center()
	d := [3]float64{ca[0] - cb[0], ca[1] - cb[1], ca[2] - cb[2]}
	return norm(d)-a.Radius(ca)-b.Radius(cb) > cutoff
}

func (Cartesian) String() string { return "Cartesian" }

//PeriodicBox is an orthorhombic box with periodic boundary conditions, with the
//given side lengths, in A. Distances follow the minimum image convention, which
//only makes sense for cutoffs up to half the shortest side.
type PeriodicBox struct {
	X, Y, Z float64
}

//NewPeriodicBox returns a box with the given sides, which must be positive.
func NewPeriodicBox(x, y, z float64) (PeriodicBox, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return PeriodicBox{}, fmt.Errorf("space: box sides must be positive, got %g %g %g", x, y, z)
	}
	return PeriodicBox{x, y, z}, nil
}

func (P PeriodicBox) wrap(d *[3]float64) {
	d[0] -= P.X * math.Round(d[0]/P.X)
	d[1] -= P.Y * math.Round(d[1]/P.Y)
	d[2] -= P.Z * math.Round(d[2]/P.Z)
}

//InverseSquareDistances puts in out the inverse square minimum-image distances between the
//atoms of a and b, and returns the minimum distance.
func (P PeriodicBox) InverseSquareDistances(a, b *v3.Matrix, out *mat.Dense) float64 {
	return inverseSquare(a, b, out, P.wrap)
}

//SelfInverseSquareDistances is like InverseSquareDistances, within the atoms of a.
func (P PeriodicBox) SelfInverseSquareDistances(a *v3.Matrix, out *mat.Dense) float64 {
	return selfInverseSquare(a, out, P.wrap)
}

//IsBeyond compares the minimum image distance between the bounding spheres of a and b with cutoff.
func (P PeriodicBox) IsBeyond(cutoff float64, a, b *v3.Matrix) bool {
	if math.IsInf(cutoff, 1) {
		return false
	}
	ca, cb := a.Center(), b.Center()
	d := [3]float64{ca[0] - cb[0], ca[1] - cb[1], ca[2] - cb[2]}
	P.wrap(&d)
	return norm(d)-a.Radius(ca)-b.Radius(cb) > cutoff
}

func (P PeriodicBox) String() string {
	return fmt.Sprintf("PeriodicBox(%g, %g, %g)", P.X, P.Y, P.Z)
}

func norm(d [3]float64) float64 {
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

func inverseSquare(a, b *v3.Matrix, out *mat.Dense, wrap func(*[3]float64)) float64 {
	na, nB := a.NVecs(), b.NVecs()
	reuse(out, na, nB)
	min2 := math.Inf(1)
	var d [3]float64
	for i := 0; i < na; i++ {
		ra := a.RawRowView(i)
		row := out.RawRowView(i)
		for j := 0; j < nB; j++ {
			rb := b.RawRowView(j)
			d[0], d[1], d[2] = ra[0]-rb[0], ra[1]-rb[1], ra[2]-rb[2]
			wrap(&d)
			d2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
			if d2 < min2 {
				min2 = d2
			}
			row[j] = 1 / d2
		}
	}
	return math.Sqrt(min2)
}

func selfInverseSquare(a *v3.Matrix, out *mat.Dense, wrap func(*[3]float64)) float64 {
	n := a.NVecs()
	reuse(out, n, n)
	min2 := math.Inf(1)
	var d [3]float64
	for i := 0; i < n; i++ {
		ra := a.RawRowView(i)
		out.Set(i, i, 0)
		for j := i + 1; j < n; j++ {
			rb := a.RawRowView(j)
			d[0], d[1], d[2] = ra[0]-rb[0], ra[1]-rb[1], ra[2]-rb[2]
			wrap(&d)
			d2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
			if d2 < min2 {
				min2 = d2
			}
			out.Set(i, j, 1/d2)
			out.Set(j, i, 1/d2)
		}
	}
	return math.Sqrt(min2)
}
