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

package selection

import (
	"bytes"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
)

const (
	formatTag     = "AtomSelection"
	formatVersion = 1
)

//EncodeTo writes S to E: the molecule identity and shape, then one
//(group, all-selected flag, atom indexes) entry per selected group.
func (S *AtomSelection) EncodeTo(E *nbio.Encoder) {
	E.Header(formatTag, formatVersion)
	E.Raw16(S.id)
	E.Ints(S.shape)
	E.Uint32(uint32(S.kind))
	E.Int(S.nsel)
	if S.kind != Partial {
		E.Len(0)
		return
	}
	groups := S.SelectedGroups()
	E.Len(len(groups))
	for _, g := range groups {
		gm := S.groups[g]
		E.Int(g)
		E.Bool(gm.all)
		if gm.all {
			E.Ints(nil)
		} else {
			E.Ints(S.SelectedAtoms(g))
		}
	}
}

//Decode reads a selection written by EncodeTo. The result is checked for consistency,
//so a corrupted stream can't produce a selection that breaks its own invariants.
func Decode(D *nbio.Decoder) *AtomSelection {
	D.Header(formatTag, formatVersion)
	id := D.Raw16()
	shape := D.Ints()
	kind := Kind(D.Uint32())
	nsel := D.Int()
	ngroups := D.Len()
	if D.Err() != nil {
		return nil
	}
	S := newSelection(id, shape)
	switch kind {
	case All:
		S.SelectAll()
	case None:
		S.DeselectAll()
	case Partial:
		S.DeselectAll()
	default:
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "selection.Decode", "unknown selection kind %d", kind))
		return nil
	}
	for i := 0; i < ngroups; i++ {
		g := D.Int()
		all := D.Bool()
		atoms := D.Ints()
		if D.Err() != nil {
			return nil
		}
		var err error
		if all {
			err = S.SelectGroup(g)
		}
		for _, a := range atoms {
			if err != nil {
				break
			}
			err = S.Select(nb.AtomIndex{Group: g, Atom: a})
		}
		if err != nil {
			D.Fail(nb.Decorate(err, "selection.Decode"))
			return nil
		}
	}
	if S.nsel != nsel {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "selection.Decode", "stored count %d doesn't match the %d atoms selected", nsel, S.nsel))
		return nil
	}
	return S
}

//MarshalBinary implements encoding.BinaryMarshaler
func (S *AtomSelection) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	E := nbio.NewEncoder(&buf)
	S.EncodeTo(E)
	return buf.Bytes(), E.Err()
}

//UnmarshalBinary implements encoding.BinaryUnmarshaler
func (S *AtomSelection) UnmarshalBinary(data []byte) error {
	D := nbio.NewDecoder(bytes.NewReader(data))
	r := Decode(D)
	if D.Err() != nil {
		return D.Err()
	}
	*S = *r
	return nil
}
