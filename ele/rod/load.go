// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rod

import (
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/lisaeb/cardillo/rot"
)

// LineLoad applies a constant direction force per unit reference length to a
// rod, scaled by a time function. Gravity on a rod is the typical case.
type LineLoad struct {
	Nm  string
	Rod *Rod
	Dir [3]float64    // force density in the world frame
	Fcn dbf.T // time scaling (may be nil for constant)
}

// NewLineLoad creates a distributed load on rod r
func NewLineLoad(name string, r *Rod, dir [3]float64, fcn dbf.T) *LineLoad {
	return &LineLoad{Nm: name, Rod: r, Dir: dir, Fcn: fcn}
}

// Name returns the load identifier
func (o *LineLoad) Name() string { return o.Nm }

func (o *LineLoad) scale(t float64) float64 {
	if o.Fcn == nil {
		return 1
	}
	return o.Fcn.F(t, nil)
}

// AddToH adds the consistent nodal forces of the distributed load
func (o *LineLoad) AddToH(h []float64, t float64, q, u []float64) {
	r := o.Rod
	c := o.scale(t)
	for e := 0; e < r.Msh.Nelem; e++ {
		for iq := 0; iq < r.Msh.Nquad; iq++ {
			s := r.site(e, r.Msh.Xg[iq])
			w := r.Msh.Wg[iq] * s.J * c
			for a, n := range r.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					h[r.iuv(n)+i] += w * s.N[a] * o.Dir[i]
				}
			}
		}
	}
}

// Energy returns the load potential -f.r integrated along the rod
func (o *LineLoad) Energy(t float64, q, u []float64) (E float64) {
	r := o.Rod
	c := o.scale(t)
	var x [3]float64
	for e := 0; e < r.Msh.Nelem; e++ {
		for iq := 0; iq < r.Msh.Nquad; iq++ {
			s := r.site(e, r.Msh.Xg[iq])
			x[0], x[1], x[2] = 0, 0, 0
			for a, n := range r.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					x[i] += s.N[a] * q[r.iqr(n)+i]
				}
			}
			E -= r.Msh.Wg[iq] * s.J * c * rot.Dot3(o.Dir[:], x[:])
		}
	}
	return
}

// PointWrench applies a concentrated force and couple at a parametric
// location of a rod, scaled by a time function. The couple is given in the
// cross-section frame.
type PointWrench struct {
	Nm  string
	Pnt *CrossSectionPoint
	F   [3]float64    // force in the world frame
	M   [3]float64    // couple in the cross-section frame
	Fcn dbf.T // time scaling (may be nil for constant)
}

// NewPointWrench creates a concentrated load at parametric coordinate xi
func NewPointWrench(name string, r *Rod, xi float64, f, m [3]float64, fcn dbf.T) *PointWrench {
	return &PointWrench{Nm: name, Pnt: r.NewPoint(xi, [3]float64{}), F: f, M: m, Fcn: fcn}
}

// Name returns the load identifier
func (o *PointWrench) Name() string { return o.Nm }

// AddToH adds f through the point translation Jacobian and the couple
// directly on the angular velocity DOFs
func (o *PointWrench) AddToH(h []float64, t float64, q, u []float64) {
	c := 1.0
	if o.Fcn != nil {
		c = o.Fcn.F(t, nil)
	}
	r := o.Pnt.Rod
	s := r.site(o.Pnt.el, o.Pnt.xl)
	for a, n := range r.Msh.Conn[o.Pnt.el] {
		for i := 0; i < 3; i++ {
			h[r.iuv(n)+i] += c * s.N[a] * o.F[i]
			h[r.iuw(n)+i] += c * s.N[a] * o.M[i]
		}
	}
}

// Energy returns the potential of the force part
func (o *PointWrench) Energy(t float64, q, u []float64) float64 {
	c := 1.0
	if o.Fcn != nil {
		c = o.Fcn.F(t, nil)
	}
	var x [3]float64
	o.Pnt.Pos(x[:], t, q)
	return -c * rot.Dot3(o.F[:], x[:])
}
