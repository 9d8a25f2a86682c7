// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ana"
	"github.com/lisaeb/cardillo/ele/joint"
	"github.com/lisaeb/cardillo/ele/rigid"
	"github.com/lisaeb/cardillo/ele/rod"
)

func Test_ics01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ics01. consistent accelerations and reactions of the pendulum")

	d := pendulum()
	cfg := &Config{Tf: 1}
	q0, u0 := d.InitState()
	s, err := ConsistentIC(d, cfg, 0, q0, u0, nil, nil)
	if err != nil {
		tst.Errorf("consistent initial conditions failed: %v", err)
		return
	}

	// horizontal release about the pin
	ref := &ana.CompoundPendulum{M: 1, L: 1, I: 0.1, G: 9.81}
	alpha := ref.Alpha0()
	chk.Scalar(tst, "ud v_z", 1e-9, s.Ud[2], -alpha)
	chk.Scalar(tst, "ud om_y", 1e-9, s.Ud[4], alpha)
	for _, i := range []int{0, 1, 3, 5} {
		chk.Scalar(tst, io.Sf("ud[%d]", i), 1e-9, s.Ud[i], 0)
	}

	// the pin carries the part of the weight not spent on the swing
	chk.Scalar(tst, "|la_z|", 1e-9, math.Abs(s.LaG[2]), ref.Reaction0())
	chk.Scalar(tst, "la_x", 1e-9, s.LaG[0], 0)
	chk.Scalar(tst, "la_y", 1e-9, s.LaG[1], 0)

	// momentum residual: M ud - h - W la = 0
	Mcc := massMatrix(d, q0)
	r := make([]float64, d.Nu)
	la.SpMatVecMul(r, 1, Mcc, s.Ud)
	h := make([]float64, d.Nu)
	d.H(h, 0, q0, u0)
	W := d.WG(0, q0)
	for i := 0; i < d.Nu; i++ {
		r[i] -= h[i]
		for j := 0; j < d.NlaG; j++ {
			r[i] -= W[i][j] * s.LaG[j]
		}
		chk.Scalar(tst, io.Sf("residual[%d]", i), 1e-9, r[i], 0)
	}

	// the solved accelerations keep the constraint at acceleration level
	gdd := make([]float64, d.NlaG)
	d.GDDot(gdd, 0, q0, u0, s.Ud)
	for i, v := range gdd {
		chk.Scalar(tst, io.Sf("gdd[%d]", i), 1e-8, v, 0)
	}
}

func Test_ics02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ics02. infeasible initial configuration is rejected")

	d := NewDomain()
	theta := [3][3]float64{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}}
	b := rigid.New("bob", 1.0, theta, "xyz", []float64{1, 0, 0.5, 0, 0, 0}, nil)
	d.AddBody(b)

	// the pin target does not match the initial point position
	pin := b.NewPoint([3]float64{-1, 0, 0})
	d.AddJoint(joint.NewSpherical("pin", pin, rigid.NewFrame([3]float64{}, nil)))

	cfg := &Config{Tf: 1}
	q0, u0 := d.InitState()
	if _, err := ConsistentIC(d, cfg, 0, q0, u0, nil, nil); err == nil {
		tst.Errorf("violated position constraint was not detected")
		return
	}
}

func Test_ics03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ics03. known contact forces enter the momentum balance")

	build := func() *Domain {
		d := NewDomain()
		m := rigid.NewPointMass("ball", 1.0, []float64{0, 0, 0}, nil)
		d.AddBody(m)
		d.AddForce(rigid.NewWeight("gravity", m, [3]float64{0, 0, -9.81}, nil))
		c := joint.NewPointPlane("floor", m.NewPoint(), [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, 0.3, 0, 0.3, 0.3)
		d.AddContact(c)
		return d
	}
	cfg := &Config{Tf: 1}

	// nothing supports the ball: it accelerates downwards
	d := build()
	q0, u0 := d.InitState()
	s, err := ConsistentIC(d, cfg, 0, q0, u0, nil, nil)
	if err != nil {
		tst.Errorf("consistent initial conditions failed: %v", err)
		return
	}
	chk.Vector(tst, "ud free", 1e-12, s.Ud, []float64{0, 0, -9.81})

	// the weight carried by the normal force: zero acceleration
	d = build()
	q0, u0 = d.InitState()
	s, err = ConsistentIC(d, cfg, 0, q0, u0, []float64{9.81}, []float64{0, 0})
	if err != nil {
		tst.Errorf("consistent initial conditions failed: %v", err)
		return
	}
	chk.Vector(tst, "ud supported", 1e-12, s.Ud, []float64{0, 0, 0})
}

func Test_static01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("static01. unloaded clamped rod is already in equilibrium")

	r := testRod(tst, 2, 2)
	d := NewDomain()
	d.AddBody(r)
	d.AddJoint(joint.NewRigid("clamp", r.NewPoint(0, [3]float64{}), rigid.NewFrame([3]float64{}, nil)))
	q0, _ := d.InitState()

	st := NewStatics(d, &Config{Tf: 1})
	iters, err := st.Solve(0)
	if err != nil {
		tst.Errorf("solve failed: %v", err)
		return
	}
	io.Pf("converged in %d iterations\n", iters)
	chk.Vector(tst, "q", 1e-10, st.Q, q0)
}

func Test_static02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("static02. cantilever tip load deflection")

	F := 1e-3
	r := testRod(tst, 4, 2)
	d := NewDomain()
	d.AddBody(r)
	d.AddJoint(joint.NewRigid("clamp", r.NewPoint(0, [3]float64{}), rigid.NewFrame([3]float64{}, nil)))
	d.AddForce(rod.NewPointWrench("tip", r, 1.0, [3]float64{0, 0, -F}, [3]float64{}, nil))

	st := NewStatics(d, &Config{Tf: 1})
	if _, err := st.Solve(0); err != nil {
		tst.Errorf("solve failed: %v", err)
		return
	}

	// clamp and quaternion norms hold at the solution
	g := make([]float64, d.NlaG)
	d.G(g, 0, st.Q)
	for i, v := range g {
		chk.Scalar(tst, io.Sf("g[%d]", i), 1e-9, v, 0)
	}
	gs := make([]float64, d.NlaS)
	d.GS(gs, st.Q)
	for i, v := range gs {
		chk.Scalar(tst, io.Sf("gS[%d]", i), 1e-10, v, 0)
	}

	// small-deflection beam estimate with shear
	ref := &ana.CantileverTip{F: F, L: 2.0, EI: 4.0, GA: 50.0}
	want := ref.Deflection()
	tip := r.NewPoint(1.0, [3]float64{})
	pos := make([]float64, 3)
	tip.Pos(pos, 0, st.Q)
	dz := -pos[2]
	io.Pf("tip deflection = %g (beam estimate %g)\n", dz, want)
	if dz < 0.5*want || dz > 1.5*want {
		tst.Errorf("tip deflection %g is far from the beam estimate %g", dz, want)
		return
	}
}
