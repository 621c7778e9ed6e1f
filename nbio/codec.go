/*
 * codec.go, part of gonb.
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

//Package nbio implements the binary layout used to persist the state of gonb objects.
//Every object is written as a format tag, a format version and then its fields.
//All numbers are little endian. Reading a tag or a version that is not understood
//fails with an error of kind nb.ErrVersionMismatch.
//
//Both Encoder and Decoder keep the first error they find, and do nothing after it,
//so a long sequence of writes or reads can be checked once with Err.
package nbio

import (
	"encoding/binary"
	"io"
	"math"

	nb "github.com/rmera/gonb"
)

//maxLen is the largest slice or string length a Decoder will accept.
const maxLen = 1 << 28

//Encoder writes gonb's binary layout to an io.Writer.
type Encoder struct {
	w   io.Writer
	buf [8]byte
	err error
}

//NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

//Err returns the first error found while encoding, if any.
func (E *Encoder) Err() error {
	return E.err
}

func (E *Encoder) write(b []byte) {
	if E.err != nil {
		return
	}
	_, E.err = E.w.Write(b)
}

//Header writes the format tag and version of an object.
func (E *Encoder) Header(tag string, version uint32) {
	E.String(tag)
	E.Uint32(version)
}

func (E *Encoder) Uint32(u uint32) {
	binary.LittleEndian.PutUint32(E.buf[:4], u)
	E.write(E.buf[:4])
}

func (E *Encoder) Uint64(u uint64) {
	binary.LittleEndian.PutUint64(E.buf[:8], u)
	E.write(E.buf[:8])
}

//Int writes i as a signed 64-bit integer.
func (E *Encoder) Int(i int) {
	E.Uint64(uint64(int64(i)))
}

func (E *Encoder) Float64(f float64) {
	E.Uint64(math.Float64bits(f))
}

func (E *Encoder) Bool(b bool) {
	if b {
		E.buf[0] = 1
	} else {
		E.buf[0] = 0
	}
	E.write(E.buf[:1])
}

//Len writes a length. Negative lengths are a programming error.
func (E *Encoder) Len(n int) {
	if n < 0 {
		panic("nbio: negative length")
	}
	E.Uint32(uint32(n))
}

func (E *Encoder) Bytes(b []byte) {
	E.Len(len(b))
	E.write(b)
}

func (E *Encoder) String(s string) {
	E.Bytes([]byte(s))
}

//Raw16 writes 16 bytes without length prefix, for UUIDs.
func (E *Encoder) Raw16(b [16]byte) {
	E.write(b[:])
}

//Float64s writes a length-prefixed slice of floats.
func (E *Encoder) Float64s(f []float64) {
	E.Len(len(f))
	for _, v := range f {
		E.Float64(v)
	}
}

//Ints writes a length-prefixed slice of ints.
func (E *Encoder) Ints(s []int) {
	E.Len(len(s))
	for _, v := range s {
		E.Int(v)
	}
}

//Decoder reads gonb's binary layout from an io.Reader.
type Decoder struct {
	r   io.Reader
	buf [8]byte
	err error
}

//NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

//Err returns the first error found while decoding, if any.
func (D *Decoder) Err() error {
	return D.err
}

//Fail sets the error of the decoder, unless it already has one.
//It is meant for objects that find inconsistencies in what they read.
func (D *Decoder) Fail(err error) {
	if D.err == nil {
		D.err = err
	}
}

func (D *Decoder) read(b []byte) bool {
	if D.err != nil {
		return false
	}
	_, err := io.ReadFull(D.r, b)
	if err != nil {
		D.err = err
		return false
	}
	return true
}

//Header reads a format tag and version, and checks them against tag and the list of supported versions.
//It returns the version read.
func (D *Decoder) Header(tag string, supported ...uint32) uint32 {
	t := D.String()
	v := D.Uint32()
	if D.err != nil {
		return 0
	}
	if t != tag {
		D.err = nb.NewError(nb.ErrVersionMismatch, "Header", "expected format %q, found %q", tag, t)
		return 0
	}
	for _, s := range supported {
		if v == s {
			return v
		}
	}
	D.err = nb.NewError(nb.ErrVersionMismatch, "Header", "format %q version %d is not supported (supported: %v)", tag, v, supported)
	return 0
}

func (D *Decoder) Uint32() uint32 {
	if !D.read(D.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(D.buf[:4])
}

func (D *Decoder) Uint64() uint64 {
	if !D.read(D.buf[:8]) {
		return 0
	}
	return binary.LittleEndian.Uint64(D.buf[:8])
}

func (D *Decoder) Int() int {
	return int(int64(D.Uint64()))
}

func (D *Decoder) Float64() float64 {
	return math.Float64frombits(D.Uint64())
}

func (D *Decoder) Bool() bool {
	if !D.read(D.buf[:1]) {
		return false
	}
	return D.buf[0] != 0
}

//Len reads a length and checks that it is sane.
func (D *Decoder) Len() int {
	n := D.Uint32()
	if D.err != nil {
		return 0
	}
	if n > maxLen {
		D.err = nb.NewError(nb.ErrVersionMismatch, "Len", "length %d is too large, corrupted data?", n)
		return 0
	}
	return int(n)
}

func (D *Decoder) Bytes() []byte {
	n := D.Len()
	if D.err != nil {
		return nil
	}
	b := make([]byte, n)
	if !D.read(b) {
		return nil
	}
	return b
}

func (D *Decoder) String() string {
	return string(D.Bytes())
}

func (D *Decoder) Raw16() [16]byte {
	var b [16]byte
	D.read(b[:])
	return b
}

func (D *Decoder) Float64s() []float64 {
	n := D.Len()
	if D.err != nil {
		return nil
	}
	f := make([]float64, n)
	for i := range f {
		f[i] = D.Float64()
	}
	if D.err != nil {
		return nil
	}
	return f
}

func (D *Decoder) Ints() []int {
	n := D.Len()
	if D.err != nil {
		return nil
	}
	s := make([]int, n)
	for i := range s {
		s[i] = D.Int()
	}
	if D.err != nil {
		return nil
	}
	return s
}
