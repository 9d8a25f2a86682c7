// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele"
	"github.com/lisaeb/cardillo/rot"
)

// PD is a proportional-derivative actuator regulating the distance between
// two material points towards a time-dependent target length. The actuation
// force acts along the line connecting the points, equal and opposite.
type PD struct {
	Nm     string
	P1, P2 ele.Point
	KP, KD float64 // gains
	Target dbf.T   // target distance over time
}

// NewPD creates the actuator
func NewPD(name string, p1, p2 ele.Point, kp, kd float64, target dbf.T) *PD {
	if target == nil {
		chk.Panic("actuator %q: target function must not be nil", name)
	}
	return &PD{Nm: name, P1: p1, P2: p2, KP: kp, KD: kd, Target: target}
}

// Name returns the actuator identifier
func (o *PD) Name() string { return o.Nm }

// force returns the scalar actuation force and the unit line direction
func (o *PD) force(t float64, q, u []float64) (f float64, e [3]float64) {
	var r1, r2, v1, v2, d, dv [3]float64
	o.P1.Pos(r1[:], t, q)
	o.P2.Pos(r2[:], t, q)
	o.P1.Vel(v1[:], t, q, u)
	o.P2.Vel(v2[:], t, q, u)
	for i := 0; i < 3; i++ {
		d[i] = r2[i] - r1[i]
		dv[i] = v2[i] - v1[i]
	}
	l := rot.Norm3(d[:])
	if l < 1e-12 {
		chk.Panic("actuator %q: points coincide, line direction undefined", o.Nm)
	}
	for i := 0; i < 3; i++ {
		e[i] = d[i] / l
	}
	ld := rot.Dot3(e[:], dv[:])
	f = -o.KP*(l-o.Target.F(t, nil)) - o.KD*(ld-o.Target.G(t, nil))
	return
}

// AddToH applies the actuation force through the point Jacobians: +f e on
// point 2 and -f e on point 1
func (o *PD) AddToH(h []float64, t float64, q, u []float64) {
	f, e := o.force(t, q, u)
	apply := func(p ele.Point, sign float64) {
		n := len(p.UDofs())
		if n == 0 {
			return
		}
		JP := la.MatAlloc(3, n)
		p.JP(JP, t, q)
		for j, dof := range p.UDofs() {
			v := 0.0
			for i := 0; i < 3; i++ {
				v += JP[i][j] * e[i]
			}
			h[dof] += sign * f * v
		}
	}
	apply(o.P2, +1)
	apply(o.P1, -1)
}

// Energy returns zero: the actuator is not conservative
func (o *PD) Energy(t float64, q, u []float64) float64 { return 0 }
