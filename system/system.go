/*
 * system.go, part of gonb.
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

//Package system reads YAML descriptions of molecular systems: the molecules, with their
//cut groups, charges and LJ parameters, the space they live in and the switching function.
//
//A minimal file:
//
//	name: ion pair
//	switch: {type: harmonic, cutoff: 10, feather: 8}
//	molecules:
//	  - number: 1
//	    groups:
//	      - atoms:
//	          - {name: Na, pos: [0, 0, 0], charge: 1, sigma: 2.5, epsilon: 0.1}
//	  - number: 2
//	    groups:
//	      - atoms:
//	          - {name: Cl, pos: [3, 0, 0], charge: -1, sigma: 4.4, epsilon: 0.1}
package system

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ff"
	"github.com/rmera/gonb/mol"
	"github.com/rmera/gonb/space"
	"github.com/rmera/gonb/switching"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

//File is the content of a system file.
type File struct {
	Name      string     `yaml:"name" validate:"required"`
	Space     SpaceSpec  `yaml:"space"`
	Switch    SwitchSpec `yaml:"switch"`
	Rule      string     `yaml:"combining_rule" validate:"omitempty,oneof=geometric arithmetic"`
	Molecules []Molecule `yaml:"molecules" validate:"required,min=1,dive"`
}

//SpaceSpec describes the space. An empty type means cartesian.
type SpaceSpec struct {
	Type string    `yaml:"type" validate:"omitempty,oneof=cartesian periodic"`
	Box  []float64 `yaml:"box" validate:"omitempty,len=3,dive,gt=0"`
}

//SwitchSpec describes the switching function. An empty type means no cutoff.
//If the LJ cutoff is 0, the electrostatic cutoff and feather are used for LJ too.
type SwitchSpec struct {
	Type      string  `yaml:"type" validate:"omitempty,oneof=none harmonic"`
	Cutoff    float64 `yaml:"cutoff" validate:"gte=0"`
	Feather   float64 `yaml:"feather" validate:"gte=0,ltefield=Cutoff"`
	LJCutoff  float64 `yaml:"lj_cutoff" validate:"gte=0"`
	LJFeather float64 `yaml:"lj_feather" validate:"gte=0,ltefield=LJCutoff"`
}

//Molecule describes a molecule. With Copies > 1, the molecule is repeated, each copy displaced
//by Shift from the previous one and numbered after it.
type Molecule struct {
	Number int       `yaml:"number" validate:"gte=0"`
	Name   string    `yaml:"name"`
	Copies int       `yaml:"copies" validate:"gte=0"`
	Shift  []float64 `yaml:"shift" validate:"omitempty,len=3"`
	Groups []Group   `yaml:"groups" validate:"required,min=1,dive"`
}

type Group struct {
	Atoms []Atom `yaml:"atoms" validate:"required,min=1,dive"`
}

//Atom describes an atom. The LJ parameters are given either as sigma and epsilon,
//or as the c6 and c12 coefficients of the atom with itself.
type Atom struct {
	Name    string    `yaml:"name"`
	Pos     []float64 `yaml:"pos" validate:"required,len=3"`
	Charge  float64   `yaml:"charge"`
	Sigma   float64   `yaml:"sigma" validate:"gte=0"`
	Epsilon float64   `yaml:"epsilon" validate:"gte=0"`
	C6      float64   `yaml:"c6" validate:"gte=0"`
	C12     float64   `yaml:"c12" validate:"gte=0"`
}

func (A Atom) usesC6C12() bool { return A.C6 != 0 || A.C12 != 0 }

//LJ returns the LJ parameters of the atom.
func (A Atom) LJ() nb.LJParameter {
	if A.usesC6C12() {
		return nb.LJFromC6C12(A.C6, A.C12)
	}
	return nb.LJParameter{Sigma: A.Sigma, Epsilon: A.Epsilon}
}

//Parse reads and validates a system file.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	F := new(File)
	if err := dec.Decode(F); err != nil {
		return nil, fmt.Errorf("system.Parse: %w", err)
	}
	if err := F.Validate(); err != nil {
		return nil, fmt.Errorf("system.Parse: %w", err)
	}
	return F, nil
}

//ReadFile reads and validates the system file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

//Validate checks the field constraints, that no atom mixes both ways of giving LJ parameters,
//and that no two molecules have the same number.
func (F *File) Validate() error {
	if err := validate.Struct(F); err != nil {
		return err
	}
	if F.Space.Type == "periodic" && len(F.Space.Box) != 3 {
		return errors.New("a periodic space needs the 3 sides of the box")
	}
	if F.Switch.Type == "harmonic" && F.Switch.Cutoff == 0 {
		return errors.New("a harmonic switch needs a cutoff")
	}
	seen := make(map[int]string)
	for _, m := range F.Molecules {
		for _, g := range m.Groups {
			for _, a := range g.Atoms {
				if a.usesC6C12() && (a.Sigma != 0 || a.Epsilon != 0) {
					return fmt.Errorf("atom %q of molecule %d has both sigma/epsilon and c6/c12", a.Name, m.Number)
				}
			}
		}
		for c := 0; c < max(1, m.Copies); c++ {
			n := m.Number + c
			if prev, ok := seen[n]; ok {
				return fmt.Errorf("molecule number %d used by both %q and %q", n, prev, m.Name)
			}
			seen[n] = m.Name
		}
	}
	return nil
}

//BuildSpace returns the space described in F.
func (F *File) BuildSpace() (nb.Space, error) {
	if F.Space.Type != "periodic" {
		return space.Cartesian{}, nil
	}
	b := F.Space.Box
	return space.NewPeriodicBox(b[0], b[1], b[2])
}

//BuildSwitch returns the switching function described in F.
func (F *File) BuildSwitch() (nb.Switch, error) {
	s := F.Switch
	if s.Type != "harmonic" {
		return switching.NoCutoff{}, nil
	}
	if s.LJCutoff == 0 {
		return switching.NewHarmonic(s.Cutoff, s.Feather)
	}
	return switching.NewHarmonicLJ(s.Cutoff, s.Feather, s.LJCutoff, s.LJFeather)
}

//BuildMolecules returns the molecules described in F, copies included, in the order of the file.
func (F *File) BuildMolecules() ([]*mol.Molecule, error) {
	var mols []*mol.Molecule
	for _, m := range F.Molecules {
		groups := make([][]mol.Atom, len(m.Groups))
		for g, grp := range m.Groups {
			groups[g] = make([]mol.Atom, len(grp.Atoms))
			for a, at := range grp.Atoms {
				groups[g][a] = mol.Atom{
					Name:   at.Name,
					Pos:    [3]float64{at.Pos[0], at.Pos[1], at.Pos[2]},
					Charge: at.Charge,
					LJ:     at.LJ(),
				}
			}
		}
		first, err := mol.FromAtoms(nb.MolNum(m.Number), m.Name, groups)
		if err != nil {
			return nil, fmt.Errorf("molecule %d: %w", m.Number, err)
		}
		mols = append(mols, first)
		for c := 1; c < m.Copies; c++ {
			var d [3]float64
			if len(m.Shift) == 3 {
				d = [3]float64{m.Shift[0] * float64(c), m.Shift[1] * float64(c), m.Shift[2] * float64(c)}
			}
			for g := range groups {
				for a := range groups[g] {
					for k := range d {
						groups[g][a].Pos[k] = m.Groups[g].Atoms[a].Pos[k] + d[k]
					}
				}
			}
			cp, err := mol.FromAtoms(nb.MolNum(m.Number+c), m.Name, groups)
			if err != nil {
				return nil, fmt.Errorf("molecule %d: %w", m.Number+c, err)
			}
			mols = append(mols, cp)
		}
	}
	return mols, nil
}

//Options returns forcefield options with the combining rule of F, on top of opts,
//which is modified. If opts is nil, DefaultOptions are used.
func (F *File) Options(opts *ff.Options) *ff.Options {
	if opts == nil {
		opts = ff.DefaultOptions()
	}
	if F.Rule != "" {
		opts.CombiningRule(F.Rule)
	}
	return opts
}

//Build returns an intermolecular forcefield with every molecule in F, and the molecules.
func (F *File) Build(opts *ff.Options) (*ff.InterFF, []*mol.Molecule, error) {
	sp, sw, mols, err := F.parts()
	if err != nil {
		return nil, nil, err
	}
	FF, err := ff.New(F.Name, sp, sw, F.Options(opts))
	if err != nil {
		return nil, nil, err
	}
	for _, m := range mols {
		if err := FF.Add(m); err != nil {
			return nil, nil, err
		}
	}
	return FF, mols, nil
}

//BuildIntra returns an intramolecular forcefield with every molecule in F, and the molecules.
func (F *File) BuildIntra(opts *ff.Options) (*ff.IntraFF, []*mol.Molecule, error) {
	sp, sw, mols, err := F.parts()
	if err != nil {
		return nil, nil, err
	}
	FF, err := ff.NewIntra(F.Name, sp, sw, F.Options(opts))
	if err != nil {
		return nil, nil, err
	}
	for _, m := range mols {
		if err := FF.Add(m); err != nil {
			return nil, nil, err
		}
	}
	return FF, mols, nil
}

func (F *File) parts() (nb.Space, nb.Switch, []*mol.Molecule, error) {
	sp, err := F.BuildSpace()
	if err != nil {
		return nil, nil, nil, err
	}
	sw, err := F.BuildSwitch()
	if err != nil {
		return nil, nil, nil, err
	}
	mols, err := F.BuildMolecules()
	if err != nil {
		return nil, nil, nil, err
	}
	return sp, sw, mols, nil
}
