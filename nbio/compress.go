/*
 * compress.go, part of gonb.
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

package nbio

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

//Compress returns a WriteCloser that zstd-compresses everything written to it into w.
//The returned object must be closed to flush the stream. Closing it doesn't close w.
func Compress(w io.Writer, level ...zstd.EncoderLevel) (io.WriteCloser, error) {
	l := zstd.SpeedDefault
	if len(level) > 0 {
		l = level[0]
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(l))
}

//*zstd.Decoder doesn't implement io.ReadCloser, as its Close returns nothing.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

//Close Closes the object. It can not be used after this call
func (s zstdql) Close() error {
	s.closeql()
	return nil
}

//Decompress returns a ReadCloser that decompresses the zstd stream in r.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zstdql{d.Close, d}, nil
}
