/*
 * binary.go, part of gonb.
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

package ffmol

import (
	"bytes"

	"github.com/google/uuid"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
	"github.com/rmera/gonb/selection"
	v3 "github.com/rmera/gonb/v3"
)

const (
	snapshotTag     = "FFSnapshot"
	snapshotVersion = 1
	deltaTag        = "FFDelta"
	deltaVersion    = 1
)

//EncodeTo writes S to E: the molecule reference (number, identity, version, shape),
//the property names, the selection, the group map and then, group by group,
//coordinates, charges and LJ parameters.
func (S *Snapshot) EncodeTo(E *nbio.Encoder) {
	E.Header(snapshotTag, snapshotVersion)
	E.Int(int(S.num))
	E.Raw16(S.id)
	E.Uint64(S.version.Major)
	E.Uint64(S.version.Minor)
	E.Ints(S.shape)
	E.String(S.params.Charge)
	E.String(S.params.LJ)
	S.sel.EncodeTo(E)
	E.Bool(S.groups == nil)
	if S.groups != nil {
		E.Ints(S.groups)
	}
	E.Len(len(S.coords))
	for i, c := range S.coords {
		n := c.NVecs()
		E.Len(n)
		for j := 0; j < n; j++ {
			row := c.RawRowView(j)
			E.Float64(row[0])
			E.Float64(row[1])
			E.Float64(row[2])
		}
		E.Float64s(S.charges[i])
		E.Len(len(S.ljs[i]))
		for _, l := range S.ljs[i] {
			E.Float64(l.Sigma)
			E.Float64(l.Epsilon)
		}
	}
}

//DecodeSnapshot reads a snapshot written by EncodeTo, and checks that it is consistent.
func DecodeSnapshot(D *nbio.Decoder) *Snapshot {
	D.Header(snapshotTag, snapshotVersion)
	S := &Snapshot{}
	S.num = nb.MolNum(D.Int())
	S.id = uuid.UUID(D.Raw16())
	S.version = nb.Version{Major: D.Uint64(), Minor: D.Uint64()}
	S.shape = D.Ints()
	S.params = Parameters{Charge: D.String(), LJ: D.String()}
	S.sel = selection.Decode(D)
	identity := D.Bool()
	if !identity {
		S.groups = D.Ints()
	}
	npos := D.Len()
	if D.Err() != nil {
		return nil
	}
	fail := func(format string, a ...interface{}) *Snapshot {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "ffmol.DecodeSnapshot", format, a...))
		return nil
	}
	if S.sel.ID() != S.id || !sameShapes(selShape(S.sel), S.shape) {
		return fail("the selection doesn't belong to the molecule")
	}
	expected := S.sel.SelectedGroups()
	if identity {
		if S.sel.SelectedAll() {
			expected = nil
		} else {
			return fail("identity group map with a partial selection")
		}
	} else if !sameShapes(S.groups, expected) {
		return fail("group map %v doesn't match the selected groups %v", S.groups, expected)
	}
	if identity && npos != len(S.shape) || !identity && npos != len(S.groups) {
		return fail("%d groups stored, the group map implies otherwise", npos)
	}
	S.coords = make([]*v3.Matrix, npos)
	S.charges = make([][]float64, npos)
	S.ljs = make([][]nb.LJParameter, npos)
	if !identity {
		S.index = make(map[int]int, npos)
	}
	for i := 0; i < npos; i++ {
		g := i
		if !identity {
			g = S.groups[i]
			S.index[g] = i
		}
		n := D.Len()
		data := make([]float64, 0, 3*n)
		for j := 0; j < 3*n; j++ {
			data = append(data, D.Float64())
		}
		S.charges[i] = D.Float64s()
		nlj := D.Len()
		S.ljs[i] = make([]nb.LJParameter, nlj)
		for j := range S.ljs[i] {
			S.ljs[i][j] = nb.LJParameter{Sigma: D.Float64(), Epsilon: D.Float64()}
		}
		if D.Err() != nil {
			return nil
		}
		if n != S.shape[g] || len(S.charges[i]) != n || nlj != n {
			return fail("group %d has %d atoms but %d coordinates, %d charges and %d LJ parameters were stored", g, S.shape[g], n, len(S.charges[i]), nlj)
		}
		c, err := v3.NewMatrix(data)
		if err != nil {
			return fail("group %d: %s", g, err.Error())
		}
		S.coords[i] = c
	}
	return S
}

func selShape(s *selection.AtomSelection) []int {
	shape := make([]int, s.NGroups())
	for i := range shape {
		shape[i] = s.GroupNAtoms(i)
	}
	return shape
}

//MarshalBinary implements encoding.BinaryMarshaler
func (S *Snapshot) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	E := nbio.NewEncoder(&buf)
	S.EncodeTo(E)
	return buf.Bytes(), E.Err()
}

//UnmarshalBinary implements encoding.BinaryUnmarshaler
func (S *Snapshot) UnmarshalBinary(data []byte) error {
	D := nbio.NewDecoder(bytes.NewReader(data))
	r := DecodeSnapshot(D)
	if D.Err() != nil {
		return D.Err()
	}
	*S = *r
	return nil
}

//EncodeTo writes D to E: old snapshot, new snapshot, old parts, new parts, and the changed groups.
func (D Delta) EncodeTo(E *nbio.Encoder) {
	E.Header(deltaTag, deltaVersion)
	D.old.EncodeTo(E)
	D.new.EncodeTo(E)
	D.OldParts().EncodeTo(E)
	D.NewParts().EncodeTo(E)
	E.Bool(D.all)
	E.Ints(D.changed)
}

//DecodeDelta reads a delta written by EncodeTo.
func DecodeDelta(D *nbio.Decoder) Delta {
	D.Header(deltaTag, deltaVersion)
	old := DecodeSnapshot(D)
	new := DecodeSnapshot(D)
	oldParts := DecodeSnapshot(D)
	newParts := DecodeSnapshot(D)
	all := D.Bool()
	changed := D.Ints()
	if D.Err() != nil {
		return Delta{}
	}
	var r Delta
	var err error
	if all {
		r, err = NewDelta(old, new)
	} else {
		r, err = NewDeltaIn(old, new, changed)
	}
	if err != nil {
		D.Fail(nb.Decorate(err, "ffmol.DecodeDelta"))
		return Delta{}
	}
	if r.all != all || !r.OldParts().Equal(oldParts, 0) || !r.NewParts().Equal(newParts, 0) {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "ffmol.DecodeDelta", "stored parts don't match the changed groups"))
		return Delta{}
	}
	return r
}

//MarshalBinary implements encoding.BinaryMarshaler
func (D Delta) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	E := nbio.NewEncoder(&buf)
	D.EncodeTo(E)
	return buf.Bytes(), E.Err()
}

//UnmarshalBinary implements encoding.BinaryUnmarshaler
func (D *Delta) UnmarshalBinary(data []byte) error {
	Dec := nbio.NewDecoder(bytes.NewReader(data))
	r := DecodeDelta(Dec)
	if Dec.Err() != nil {
		return Dec.Err()
	}
	*D = r
	return nil
}
