// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid

import (
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/lisaeb/cardillo/rot"
)

// Weight applies a constant force (typically gravity) at the centre of mass
// of a rigid body or point mass, scaled by an optional time function
type Weight struct {
	Nm  string
	F   [3]float64
	Fcn dbf.T

	iu int // global velocity offset of the carrying body
	iq int // global coordinate offset (position block)
}

// NewWeight creates a weight force on a body whose first three velocity
// components are the centre-of-mass velocity
func NewWeight(name string, b interface{ Maps() (int, int, int) }, f [3]float64, fcn dbf.T) (o *Weight) {
	o = new(Weight)
	o.Nm = name
	o.F = f
	o.Fcn = fcn
	o.iq, o.iu, _ = b.Maps()
	return
}

// Name returns the force identifier
func (o *Weight) Name() string { return o.Nm }

// AddToH adds the force on the centre-of-mass velocity DOFs
func (o *Weight) AddToH(h []float64, t float64, q, u []float64) {
	c := 1.0
	if o.Fcn != nil {
		c = o.Fcn.F(t, nil)
	}
	for i := 0; i < 3; i++ {
		h[o.iu+i] += c * o.F[i]
	}
}

// Energy returns the potential -F.r
func (o *Weight) Energy(t float64, q, u []float64) float64 {
	c := 1.0
	if o.Fcn != nil {
		c = o.Fcn.F(t, nil)
	}
	return -c * rot.Dot3(o.F[:], q[o.iq:o.iq+3])
}
