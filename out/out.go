// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out post-processes solution records: time series of material
// point kinematics, energy balances and plain-text tables
package out

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lisaeb/cardillo/ele"
	"github.com/lisaeb/cardillo/fem"
)

// Results binds a solution record to the domain that produced it
type Results struct {
	Dmn *fem.Domain
	Sol *fem.Solution
}

// New wraps a finished run
func New(d *fem.Domain, sol *fem.Solution) *Results {
	return &Results{Dmn: d, Sol: sol}
}

// PointPath returns the world position of a material point at every sample,
// one row per sample
type PointPath struct {
	T []float64
	R [][]float64
}

// Path evaluates the trajectory of a material point
func (o *Results) Path(p ele.Point) *PointPath {
	n := o.Sol.Nsamples()
	pp := &PointPath{T: make([]float64, n), R: make([][]float64, n)}
	for k := 0; k < n; k++ {
		r := make([]float64, 3)
		p.Pos(r, o.Sol.T[k], o.Sol.Q[k])
		pp.T[k] = o.Sol.T[k]
		pp.R[k] = r
	}
	return pp
}

// Energies returns the kinetic and potential energy at every sample
func (o *Results) Energies() (kin, pot []float64) {
	n := o.Sol.Nsamples()
	kin = make([]float64, n)
	pot = make([]float64, n)
	for k := 0; k < n; k++ {
		kin[k], pot[k] = o.Dmn.Energy(o.Sol.T[k], o.Sol.Q[k], o.Sol.U[k])
	}
	return
}

// EnergyDrift returns the largest deviation of the total energy from its
// initial value
func (o *Results) EnergyDrift() float64 {
	kin, pot := o.Energies()
	if len(kin) == 0 {
		return 0
	}
	e0 := kin[0] + pot[0]
	drift := 0.0
	for k := range kin {
		d := kin[k] + pot[k] - e0
		if d < 0 {
			d = -d
		}
		if d > drift {
			drift = d
		}
	}
	return drift
}

// SaveTable writes named columns as a whitespace-separated text file,
// creating the output directory if needed
func SaveTable(dirout, fnkey string, headers []string, columns ...[]float64) (fn string, err error) {
	if len(headers) != len(columns) {
		return "", chk.Err("table %q: %d headers for %d columns", fnkey, len(headers), len(columns))
	}
	if len(columns) == 0 {
		return "", chk.Err("table %q has no columns", fnkey)
	}
	n := len(columns[0])
	for j, c := range columns {
		if len(c) != n {
			return "", chk.Err("table %q: column %q has %d rows but %d are required", fnkey, headers[j], len(c), n)
		}
	}
	var b strings.Builder
	for _, hd := range headers {
		b.WriteString(io.Sf("%23s", hd))
	}
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		for _, c := range columns {
			b.WriteString(io.Sf("%23.15e", c[i]))
		}
		b.WriteString("\n")
	}
	if err = os.MkdirAll(dirout, 0755); err != nil {
		return "", chk.Err("cannot create output directory %q:\n%v", dirout, err)
	}
	fn = filepath.Join(dirout, fnkey+".res")
	if err = os.WriteFile(fn, []byte(b.String()), 0644); err != nil {
		return "", chk.Err("cannot write table %q:\n%v", fn, err)
	}
	return
}
