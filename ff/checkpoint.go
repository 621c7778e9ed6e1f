/*
 * checkpoint.go, part of gonb.
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
	"bytes"
	"io"

	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/clj"
	"github.com/rmera/gonb/ffmol"
	"github.com/rmera/gonb/nbio"
	"github.com/rmera/gonb/space"
	"github.com/rmera/gonb/switching"
)

const (
	interTag     = "InterCLJFF"
	interVersion = 1
)

//EncodeTo writes F to E: name, options, space, switching function, the last energy,
//the state flags, the snapshots and the pending deltas.
func (F *InterFF) EncodeTo(E *nbio.Encoder) error {
	E.Header(interTag, interVersion)
	E.String(F.name)
	E.String(F.params.Charge)
	E.String(F.params.LJ)
	E.String(F.rule)
	E.Float64(F.fraction)
	E.Int(F.workers)
	E.Bool(F.check)
	if err := space.Encode(E, F.kernel.Space); err != nil {
		return nb.Decorate(err, "InterFF.EncodeTo")
	}
	if err := switching.Encode(E, F.kernel.Switch); err != nil {
		return nb.Decorate(err, "InterFF.EncodeTo")
	}
	E.Float64(F.energy.Coulomb)
	E.Float64(F.energy.LJ)
	E.Bool(F.dirty)
	E.Bool(F.full)
	nums := sortedNums(F.mols)
	E.Len(len(nums))
	for _, n := range nums {
		F.mols[n].EncodeTo(E)
	}
	pend := sortedNums(F.pending)
	E.Len(len(pend))
	for _, n := range pend {
		F.pending[n].EncodeTo(E)
	}
	return E.Err()
}

//DecodeInter reads a forcefield written by EncodeTo. Only the logger is taken from opts,
//which can be nil.
func DecodeInter(D *nbio.Decoder, opts *Options) *InterFF {
	D.Header(interTag, interVersion)
	O := DefaultOptions()
	if opts != nil {
		O.Logger(opts.Logger())
	}
	name := D.String()
	O.ChargeProperty(D.String())
	O.LJProperty(D.String())
	O.CombiningRule(D.String())
	O.FullRecomputeFraction(D.Float64())
	O.Workers(D.Int())
	O.CheckConsistency(D.Bool())
	sp := space.Decode(D)
	sw := switching.Decode(D)
	energy := clj.Energy{Coulomb: D.Float64(), LJ: D.Float64()}
	dirty, full := D.Bool(), D.Bool()
	if D.Err() != nil {
		return nil
	}
	fail := func(format string, a ...interface{}) *InterFF {
		D.Fail(nb.NewError(nb.ErrVersionMismatch, "ff.DecodeInter", format, a...))
		return nil
	}
	F, err := New(name, sp, sw, O)
	if err != nil {
		return fail("%s", err.Error())
	}
	nmols := D.Len()
	for i := 0; i < nmols; i++ {
		s := ffmol.DecodeSnapshot(D)
		if D.Err() != nil {
			return nil
		}
		if _, ok := F.mols[s.Number()]; ok {
			return fail("molecule %d stored twice", s.Number())
		}
		F.mols[s.Number()] = s
	}
	npend := D.Len()
	for i := 0; i < npend; i++ {
		d := ffmol.DecodeDelta(D)
		if D.Err() != nil {
			return nil
		}
		n := d.Number()
		if cur, ok := F.mols[n]; ok && !cur.Equal(d.New(), 0) {
			return fail("the pending change of molecule %d doesn't end in its snapshot", n)
		}
		if _, ok := F.pending[n]; ok {
			return fail("two pending changes for molecule %d", n)
		}
		F.pending[n] = d
	}
	F.energy, F.dirty, F.full = energy, dirty, full
	return F
}

//MarshalBinary implements encoding.BinaryMarshaler
func (F *InterFF) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := F.EncodeTo(nbio.NewEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//UnmarshalBinary implements encoding.BinaryUnmarshaler. The logger of F, if any, is kept.
func (F *InterFF) UnmarshalBinary(data []byte) error {
	D := nbio.NewDecoder(bytes.NewReader(data))
	r := DecodeInter(D, nil)
	if D.Err() != nil {
		return D.Err()
	}
	if F.log != nil {
		r.log = F.log
	}
	*F = *r
	return nil
}

//Save writes a zstd-compressed checkpoint of F to w.
func (F *InterFF) Save(w io.Writer) error {
	zw, err := nbio.Compress(w)
	if err != nil {
		return nb.Decorate(err, "InterFF.Save")
	}
	if err := F.EncodeTo(nbio.NewEncoder(zw)); err != nil {
		zw.Close()
		return nb.Decorate(err, "InterFF.Save")
	}
	return nb.Decorate(zw.Close(), "InterFF.Save")
}

//Load reads a checkpoint written by Save. Only the logger is taken from opts, which can be nil.
func Load(r io.Reader, opts *Options) (*InterFF, error) {
	zr, err := nbio.Decompress(r)
	if err != nil {
		return nil, nb.Decorate(err, "ff.Load")
	}
	defer zr.Close()
	D := nbio.NewDecoder(zr)
	F := DecodeInter(D, opts)
	if D.Err() != nil {
		return nil, nb.Decorate(D.Err(), "ff.Load")
	}
	return F, nil
}
