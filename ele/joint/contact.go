// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele"
	"github.com/lisaeb/cardillo/rot"
)

// PointPlane is a frictional contact between a material point and a fixed
// plane: one normal gap with a Signorini law and two tangential friction
// components constrained to the Coulomb disk
type PointPlane struct {
	Nm     string
	Pnt    ele.Point
	Origin [3]float64 // a point of the plane
	Normal [3]float64 // unit outward normal
	T1, T2 [3]float64 // tangent basis
	MuC    float64    // friction coefficient
	ENC    float64    // normal restitution
	EFC    float64    // tangential restitution
	RN     float64    // prox parameter, normal
	RF     float64    // prox parameter, friction

	ilaN, ilaF int
}

// NewPointPlane creates the contact. The tangent basis is built from the
// normal, which must be nonzero.
func NewPointPlane(name string, p ele.Point, origin, normal [3]float64, mu, eN, rN, rF float64) (o *PointPlane) {
	o = new(PointPlane)
	o.Nm = name
	o.Pnt = p
	o.Origin = origin
	nrm := rot.Norm3(normal[:])
	if nrm < 1e-14 {
		chk.Panic("contact %q: normal must be nonzero", name)
	}
	for i := 0; i < 3; i++ {
		o.Normal[i] = normal[i] / nrm
	}
	// tangent basis: cross the normal with the least aligned unit vector
	var a [3]float64
	if absf(o.Normal[0]) <= absf(o.Normal[1]) && absf(o.Normal[0]) <= absf(o.Normal[2]) {
		a[0] = 1
	} else if absf(o.Normal[1]) <= absf(o.Normal[2]) {
		a[1] = 1
	} else {
		a[2] = 1
	}
	rot.Cross(o.T1[:], o.Normal[:], a[:])
	t1n := rot.Norm3(o.T1[:])
	for i := 0; i < 3; i++ {
		o.T1[i] /= t1n
	}
	rot.Cross(o.T2[:], o.Normal[:], o.T1[:])
	o.MuC = mu
	o.ENC = eN
	o.RN = rN
	o.RF = rF
	return
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Name returns the contact identifier
func (o *PointPlane) Name() string { return o.Nm }

// NlaN returns the number of normal contacts
func (o *PointPlane) NlaN() int { return 1 }

// NlaF returns the number of friction components
func (o *PointPlane) NlaF() int { return 2 }

// SetMaps assigns the global multiplier offsets
func (o *PointPlane) SetMaps(ilaN, ilaF int) { o.ilaN, o.ilaF = ilaN, ilaF }

// Maps returns the global multiplier offsets
func (o *PointPlane) Maps() (ilaN, ilaF int) { return o.ilaN, o.ilaF }

// GN writes the normal gap n . (r - origin)
func (o *PointPlane) GN(g []float64, t float64, q []float64) {
	var r [3]float64
	o.Pnt.Pos(r[:], t, q)
	for i := 0; i < 3; i++ {
		r[i] -= o.Origin[i]
	}
	g[o.ilaN] = rot.Dot3(o.Normal[:], r[:])
}

// GNDot writes the normal gap rate n . v
func (o *PointPlane) GNDot(gd []float64, t float64, q, u []float64) {
	var v [3]float64
	o.Pnt.Vel(v[:], t, q, u)
	gd[o.ilaN] = rot.Dot3(o.Normal[:], v[:])
}

// GammaF writes the tangential sliding velocities
func (o *PointPlane) GammaF(gf []float64, t float64, q, u []float64) {
	var v [3]float64
	o.Pnt.Vel(v[:], t, q, u)
	gf[o.ilaF] = rot.Dot3(o.T1[:], v[:])
	gf[o.ilaF+1] = rot.Dot3(o.T2[:], v[:])
}

// AddToWN adds the normal force direction JP' n
func (o *PointPlane) AddToWN(W *la.Triplet, t float64, q []float64) {
	n := len(o.Pnt.UDofs())
	JP := la.MatAlloc(3, n)
	o.Pnt.JP(JP, t, q)
	for j, dof := range o.Pnt.UDofs() {
		v := 0.0
		for i := 0; i < 3; i++ {
			v += JP[i][j] * o.Normal[i]
		}
		if v != 0 {
			W.Put(dof, o.ilaN, v)
		}
	}
}

// AddToWF adds the friction force directions JP' t1 and JP' t2
func (o *PointPlane) AddToWF(W *la.Triplet, t float64, q []float64) {
	n := len(o.Pnt.UDofs())
	JP := la.MatAlloc(3, n)
	o.Pnt.JP(JP, t, q)
	for j, dof := range o.Pnt.UDofs() {
		v1, v2 := 0.0, 0.0
		for i := 0; i < 3; i++ {
			v1 += JP[i][j] * o.T1[i]
			v2 += JP[i][j] * o.T2[i]
		}
		if v1 != 0 {
			W.Put(dof, o.ilaF, v1)
		}
		if v2 != 0 {
			W.Put(dof, o.ilaF+1, v2)
		}
	}
}

// FrictionGroups maps the single normal contact to its two friction
// components
func (o *PointPlane) FrictionGroups() [][]int { return [][]int{{0, 1}} }

// Mu returns the friction coefficients
func (o *PointPlane) Mu() []float64 { return []float64{o.MuC} }

// EN returns the normal restitution coefficients
func (o *PointPlane) EN() []float64 { return []float64{o.ENC} }

// EF returns the tangential restitution coefficients
func (o *PointPlane) EF() []float64 { return []float64{o.EFC} }

// ProxRN returns the normal prox parameters
func (o *PointPlane) ProxRN() []float64 { return []float64{o.RN} }

// ProxRF returns the friction prox parameters
func (o *PointPlane) ProxRF() []float64 { return []float64{o.RF, o.RF} }
