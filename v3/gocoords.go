/*
 * gocoords.go, part of gonb.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//METHODS

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Len is the same as NVecs, so a Matrix can be used where goChem-style Len() is expected.
func (F *Matrix) Len() int {
	return F.NVecs()
}

//Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Copy(F.Dense)
	return r
}

//Translate returns a new Matrix with every vector of F displaced by d.
//F is not modified.
func (F *Matrix) Translate(d [3]float64) *Matrix {
	r := F.Clone()
	for i := 0; i < r.NVecs(); i++ {
		row := r.RawRowView(i)
		row[0] += d[0]
		row[1] += d[1]
		row[2] += d[2]
	}
	return r
}

//Center returns the geometric center of the vectors in F.
func (F *Matrix) Center() [3]float64 {
	var c [3]float64
	n := F.NVecs()
	for i := 0; i < n; i++ {
		row := F.Vec(i)
		c[0] += row[0]
		c[1] += row[1]
		c[2] += row[2]
	}
	inv := 1.0 / float64(n)
	c[0] *= inv
	c[1] *= inv
	c[2] *= inv
	return c
}

//Radius returns the largest distance between center and any vector in F.
func (F *Matrix) Radius(center [3]float64) float64 {
	var max2 float64
	for i := 0; i < F.NVecs(); i++ {
		row := F.Vec(i)
		dx := row[0] - center[0]
		dy := row[1] - center[1]
		dz := row[2] - center[2]
		d2 := dx*dx + dy*dy + dz*dz
		if d2 > max2 {
			max2 = d2
		}
	}
	return math.Sqrt(max2)
}

//Equal returns true if F and A have the same number of vectors and
//no element differs by more than tol. A negative tol uses a tiny default.
func (F *Matrix) Equal(A *Matrix, tol float64) bool {
	if F == A {
		return true
	}
	if F == nil || A == nil {
		return false
	}
	if tol < 0 {
		tol = appzero
	}
	return mat.EqualApprox(F.Dense, A.Dense, tol)
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense)
		if i == 0 {
			v[i+1] = fmt.Sprintf("%6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
			continue
		} else if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		} else {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
		}
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
