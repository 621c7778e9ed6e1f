/*
 * switching_test.go, part of gonb.
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

package switching

import (
	"bytes"
	"math"
	"testing"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonic(Te *testing.T) {
	H, err := NewHarmonic(10, 8)
	require.NoError(Te, err)
	tests := []struct {
		d, want float64
	}{
		{0, 1},
		{8, 1},
		{9, (100 - 81) / (100.0 - 64)},
		{10, 0},
		{12, 0},
	}
	for _, t := range tests {
		assert.InDelta(Te, t.want, H.ElectrostaticScale(t.d), 1e-12, "d=%g", t.d)
		assert.InDelta(Te, t.want, H.VDWScale(t.d), 1e-12, "d=%g", t.d)
	}
	assert.Equal(Te, 10.0, H.CutoffDistance())

	prev := 1.0
	for d := 8.0; d < 10; d += 0.1 {
		s := H.ElectrostaticScale(d)
		assert.LessOrEqual(Te, s, prev, "scale must not grow with distance")
		prev = s
	}
}

func TestHarmonicSeparateLJ(Te *testing.T) {
	H, err := NewHarmonicLJ(12, 10, 8, 8)
	require.NoError(Te, err)
	assert.Equal(Te, 12.0, H.CutoffDistance())
	assert.Equal(Te, 0.0, H.VDWScale(9))
	assert.Equal(Te, 1.0, H.VDWScale(7.9))
	assert.Greater(Te, H.ElectrostaticScale(11), 0.0)

	_, err = NewHarmonic(5, 6)
	assert.Error(Te, err)
	_, err = NewHarmonic(0, 0)
	assert.Error(Te, err)
}

func TestNoCutoff(Te *testing.T) {
	var S nb.Switch = NoCutoff{}
	assert.True(Te, math.IsInf(S.CutoffDistance(), 1))
	assert.Equal(Te, 1.0, S.ElectrostaticScale(1e9))
}

func TestEncodeDecode(Te *testing.T) {
	H, _ := NewHarmonicLJ(12, 10, 9, 7)
	for _, sw := range []nb.Switch{NoCutoff{}, H} {
		var buf bytes.Buffer
		require.NoError(Te, Encode(nbio.NewEncoder(&buf), sw))
		D := nbio.NewDecoder(&buf)
		got := Decode(D)
		require.NoError(Te, D.Err())
		assert.Equal(Te, sw, got)
	}
}
