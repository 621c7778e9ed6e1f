/*
 * space_test.go, part of gonb.
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

package space

import (
	"bytes"
	"errors"
	"math"
	"testing"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
	v3 "github.com/rmera/gonb/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func block(Te *testing.T, data ...float64) *v3.Matrix {
	Te.Helper()
	m, err := v3.NewMatrix(data)
	require.NoError(Te, err)
	return m
}

func TestCartesianDistances(Te *testing.T) {
	a := block(Te, 0, 0, 0, 1, 0, 0)
	b := block(Te, 3, 0, 0, 0, 4, 0, 0, 0, 2)
	var out mat.Dense
	min := Cartesian{}.InverseSquareDistances(a, b, &out)
	r, c := out.Dims()
	assert.Equal(Te, 2, r)
	assert.Equal(Te, 3, c)
	assert.InDelta(Te, 1.0/9, out.At(0, 0), 1e-12)
	assert.InDelta(Te, 1.0/17, out.At(1, 1), 1e-12)
	assert.InDelta(Te, 1.0/5, out.At(1, 2), 1e-12)
	assert.InDelta(Te, 2.0, min, 1e-12)

	//the buffer is reused for smaller shapes
	min = Cartesian{}.SelfInverseSquareDistances(a, &out)
	assert.InDelta(Te, 1.0, min, 1e-12)
	assert.Equal(Te, 0.0, out.At(0, 0))
	assert.Equal(Te, 1.0, out.At(0, 1))
	assert.Equal(Te, 1.0, out.At(1, 0))

	one := block(Te, 1, 1, 1)
	assert.True(Te, math.IsInf(Cartesian{}.SelfInverseSquareDistances(one, &out), 1))
}

func TestIsBeyond(Te *testing.T) {
	a := block(Te, 0, 0, 0, 1, 0, 0)
	b := block(Te, 10, 0, 0, 11, 0, 0)
	assert.True(Te, Cartesian{}.IsBeyond(5, a, b))
	assert.False(Te, Cartesian{}.IsBeyond(9.5, a, b))
	assert.False(Te, Cartesian{}.IsBeyond(math.Inf(1), a, b))

	box, err := NewPeriodicBox(12, 12, 12)
	require.NoError(Te, err)
	//across the boundary, the groups are 1 A apart
	assert.False(Te, box.IsBeyond(5, a, b))
}

func TestPeriodicMinimumImage(Te *testing.T) {
	box, err := NewPeriodicBox(10, 10, 10)
	require.NoError(Te, err)
	a := block(Te, 0.5, 0, 0)
	b := block(Te, 9.5, 0, 0, 5, 0, 0)
	var out mat.Dense
	min := box.InverseSquareDistances(a, b, &out)
	assert.InDelta(Te, 1.0, min, 1e-12)
	assert.InDelta(Te, 1.0, out.At(0, 0), 1e-12)
	assert.InDelta(Te, 1/(4.5*4.5), out.At(0, 1), 1e-12)

	_, err = NewPeriodicBox(0, 1, 1)
	assert.Error(Te, err)
}

func TestEncodeDecode(Te *testing.T) {
	box, _ := NewPeriodicBox(20, 30, 40)
	for _, s := range []nb.Space{Cartesian{}, box} {
		var buf bytes.Buffer
		require.NoError(Te, Encode(nbio.NewEncoder(&buf), s))
		D := nbio.NewDecoder(&buf)
		got := Decode(D)
		require.NoError(Te, D.Err())
		assert.Equal(Te, s, got)
	}

	var buf bytes.Buffer
	E := nbio.NewEncoder(&buf)
	E.Header("Hyperbolic", 1)
	D := nbio.NewDecoder(&buf)
	assert.Nil(Te, Decode(D))
	assert.True(Te, errors.Is(D.Err(), nb.ErrVersionMismatch))
}
