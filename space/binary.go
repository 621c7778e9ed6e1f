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

package space

import (
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/nbio"
)

const (
	cartesianTag = "Cartesian"
	boxTag       = "PeriodicBox"
)

//Encode writes s to E. Only the spaces in this package can be written.
func Encode(E *nbio.Encoder, s nb.Space) error {
	switch S := s.(type) {
	case Cartesian, *Cartesian:
		E.Header(cartesianTag, 1)
	case PeriodicBox:
		E.Header(boxTag, 1)
		E.Float64(S.X)
		E.Float64(S.Y)
		E.Float64(S.Z)
	case *PeriodicBox:
		return Encode(E, *S)
	default:
		return nb.NewError(nb.ErrVersionMismatch, "space.Encode", "can't encode space of type %T", s)
	}
	return E.Err()
}

//Decode reads a space written by Encode.
func Decode(D *nbio.Decoder) nb.Space {
	tag := D.String()
	version := D.Uint32()
	if D.Err() != nil {
		return nil
	}
	if version != 1 {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "space.Decode", "format %q version %d is not supported", tag, version))
		return nil
	}
	switch tag {
	case cartesianTag:
		return Cartesian{}
	case boxTag:
		x, y, z := D.Float64(), D.Float64(), D.Float64()
		if D.Err() != nil {
			return nil
		}
		P, err := NewPeriodicBox(x, y, z)
		if err != nil {
			D.Fail(nb.NewError(nb.ErrVersionMismatch, "space.Decode", "%s", err.Error()))
			return nil
		}
		return P
	}
	D.Fail(nb.NewError(nb.ErrVersionMismatch, "space.Decode", "unknown space %q", tag))
	return nil
}
