/*
 * errors.go, part of gonb.
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

package nb

import (
	"errors"
	"fmt"
	"strings"
)

//The kinds of error the library produces. Use errors.Is to check for them.
var (
	//An atom or group index outside of the shape of a molecule.
	ErrInvalidIndex = errors.New("invalid index")
	//A selection applied to a molecule other than the one it was built for.
	ErrIncompatibleSelection = errors.New("incompatible selection")
	//A snapshot or delta applied to a different molecule.
	ErrIncompatibleMolecule = errors.New("incompatible molecule")
	//A per-atom parameter that was never assigned.
	ErrMissingParameter = errors.New("missing parameter")
	//A persisted format or version that can't be read.
	ErrVersionMismatch = errors.New("version mismatch")
)

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice resulting from the current call. If passed an empty string, it just returns the current value.
}

//CError is the general error type of the library. It carries one of the error kinds above,
//which can be recovered with errors.Is.
type CError struct {
	msg      string
	kind     error
	deco     []string
	critical bool
}

//NewError returns a *CError of the given kind, decorated with caller.
func NewError(kind error, caller string, format string, a ...interface{}) *CError {
	e := &CError{msg: fmt.Sprintf(format, a...), kind: kind, critical: true}
	if caller != "" {
		e.deco = []string{caller}
	}
	return e
}

func (err *CError) Error() string {
	s := err.msg
	if err.kind != nil {
		s = err.kind.Error() + ": " + s
	}
	if len(err.deco) > 0 {
		s = strings.Join(err.deco, ": ") + ": " + s
	}
	return s
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		//the decoration list is kept with the outermost caller first.
		err.deco = append([]string{dec}, err.deco...)
	}
	return err.deco
}

//Unwrap returns the kind of the error.
func (err *CError) Unwrap() error { return err.kind }

//Critical returns true if the error is critical. All CErrors are.
func (err *CError) Critical() bool { return err.critical }

//Decorate adds caller to the decoration of err, if err implements Error.
//Otherwise, err is wrapped with caller as a prefix. nil errors are returned as they are.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}
