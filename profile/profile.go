/*
 * profile.go, part of gonb.
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


//Package profile scans the interaction energy of a molecule as it is displaced, summarizes it
//and writes it out as a table or a plot.
package profile

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/clj"
	"github.com/rmera/gonb/ff"
	"github.com/rmera/gonb/mol"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//Point is the energy of the system with the scanned molecule displaced by Distance.
type Point struct {
	Step     int
	Distance float64
	Energy   clj.Energy
}

//Profile is the result of a scan.
type Profile struct {
	Molecule nb.MolNum
	Points   []Point
}

//Scan moves m, which must be in F, by step, n times, and returns the energy of F at the
//starting position and after each move. Every step is an incremental update of F.
//When the scan finishes, or fails, F is returned to the starting position.
func Scan(ctx context.Context, F *ff.InterFF, m *mol.Molecule, step [3]float64, n int) (*Profile, error) {
	if !F.Contains(m.Number()) {
		return nil, nb.NewError(nb.ErrIncompatibleMolecule, "profile.Scan", "molecule %d is not in forcefield %s", m.Number(), F.Name())
	}
	if n < 1 {
		return nil, fmt.Errorf("profile.Scan: the number of steps must be positive, got %d", n)
	}
	if err := F.Change(m); err != nil {
		return nil, nb.Decorate(err, "profile.Scan")
	}
	length := math.Sqrt(step[0]*step[0] + step[1]*step[1] + step[2]*step[2])
	P := &Profile{Molecule: m.Number(), Points: make([]Point, 0, n+1)}
	P.Points = append(P.Points, Point{Step: 0, Energy: F.Energy()})
	cur := m
	var err error
	for i := 1; i <= n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		cur = cur.Translate(step)
		if err = F.Change(cur); err != nil {
			err = nb.Decorate(err, "profile.Scan")
			break
		}
		P.Points = append(P.Points, Point{Step: i, Distance: length * float64(i), Energy: F.Energy()})
	}
	if rerr := F.Change(m); rerr != nil && err == nil {
		err = nb.Decorate(rerr, "profile.Scan")
	}
	if err != nil {
		return nil, err
	}
	return P, nil
}

//Distances returns the displacement of each point.
func (P *Profile) Distances() []float64 {
	r := make([]float64, len(P.Points))
	for i, p := range P.Points {
		r[i] = p.Distance
	}
	return r
}

//Totals returns the total energy of each point.
func (P *Profile) Totals() []float64 {
	return P.component(clj.Energy.Total)
}

func (P *Profile) component(f func(clj.Energy) float64) []float64 {
	r := make([]float64, len(P.Points))
	for i, p := range P.Points {
		r[i] = f(p.Energy)
	}
	return r
}

//Summary contains statistics on the total energies of a profile.
type Summary struct {
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Minimum Point //the point with the lowest total energy
}

//Summarize returns statistics on the total energies of P. P must have at least one point.
//StdDev is 0 for a single point.
func (P *Profile) Summarize() Summary {
	t := P.Totals()
	S := Summary{
		Mean: stat.Mean(t, nil),
		Min:  floats.Min(t),
		Max:  floats.Max(t),
	}
	if len(t) > 1 {
		S.StdDev = stat.StdDev(t, nil)
	}
	S.Minimum = P.Points[floats.MinIdx(t)]
	return S
}

//WriteTable writes the points of P as a plain text table.
func (P *Profile) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Distance", "Coulomb", "LJ", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, p := range P.Points {
		table.Append([]string{
			fmt.Sprintf("%d", p.Step),
			fmt.Sprintf("%.3f", p.Distance),
			fmt.Sprintf("%.4f", p.Energy.Coulomb),
			fmt.Sprintf("%.4f", p.Energy.LJ),
			fmt.Sprintf("%.4f", p.Energy.Total()),
		})
	}
	S := P.Summarize()
	table.SetFooter([]string{"", "", "", "min", fmt.Sprintf("%.4f", S.Min)})
	table.Render()
}

func (P *Profile) xys(f func(clj.Energy) float64) plotter.XYs {
	pts := make(plotter.XYs, len(P.Points))
	for i, p := range P.Points {
		pts[i].X = p.Distance
		pts[i].Y = f(p.Energy)
	}
	return pts
}

func coulomb(E clj.Energy) float64 { return E.Coulomb }
func lj(E clj.Energy) float64      { return E.LJ }

//Plot builds a plot of the Coulomb, LJ and total energies of P against the displacement.
func (P *Profile) Plot(title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Displacement (A)"
	p.Y.Label.Text = "Energy (kcal/mol)"
	p.Add(plotter.NewGrid())
	err := plotutil.AddLinePoints(p,
		"Coulomb", P.xys(coulomb),
		"LJ", P.xys(lj),
		"Total", P.xys(clj.Energy.Total))
	if err != nil {
		return nil, fmt.Errorf("profile.Plot: %w", err)
	}
	return p, nil
}

//SavePlot saves the plot of P to filename. The format is taken from the extension.
func (P *Profile) SavePlot(title, filename string) error {
	p, err := P.Plot(title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("profile.SavePlot: %w", err)
	}
	return nil
}
