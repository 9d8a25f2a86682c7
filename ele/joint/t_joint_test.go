// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele/rigid"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// testBody returns a rigid body with assigned maps and a generic state
func testBody(q0 []float64) (*rigid.Body, []float64, []float64) {
	theta := [3][3]float64{{0.1, 0, 0}, {0, 0.2, 0}, {0, 0, 0.3}}
	b := rigid.New("b", 1.5, theta, "xyz", q0, nil)
	b.SetMaps(0, 0, 0)
	q := make([]float64, 6)
	u := make([]float64, 6)
	b.InitState(q, u)
	for i := range u {
		u[i] = 0.3 * math.Cos(float64(i)*1.3)
	}
	return b, q, u
}

func Test_joint01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("joint01. row masks of the standard variants")

	b, _, _ := testBody(nil)
	pt := b.NewPoint([3]float64{0, 0, 0})
	fr := rigid.NewFrame([3]float64{}, nil)

	chk.IntAssert(NewSpherical("s", pt, fr).Nla(), 3)
	chk.IntAssert(NewPlanar("p", pt, fr, 2).Nla(), 2)
	chk.IntAssert(NewRigid("r", pt, fr).Nla(), 6)
	chk.IntAssert(NewRevolute("rev", pt, fr).Nla(), 5)
	chk.IntAssert(NewPrismatic("pri", pt, fr).Nla(), 5)
	chk.IntAssert(NewCylindrical("cyl", pt, fr).Nla(), 4)

	// the planar variant discards exactly the requested axis
	j := NewPlanar("p", pt, fr, 1)
	chk.Ints(tst, "planar rows", j.Rows, []int{0, 2})
}

func Test_joint02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("joint02. coincident aligned frames satisfy the rigid joint")

	b, q, _ := testBody([]float64{0.4, -0.2, 0.9, 0, 0, 0})
	pt := b.NewPoint([3]float64{0.1, 0.2, 0.3})
	r := make([]float64, 3)
	pt.Pos(r, 0, q)
	fr := rigid.NewFrame([3]float64{r[0], r[1], r[2]}, nil)

	j := NewRigid("weld", pt, fr)
	j.SetMaps(0)
	g := make([]float64, 6)
	j.G(g, 0, q)
	chk.Vector(tst, "g", 1e-14, g, []float64{0, 0, 0, 0, 0, 0})
}

func Test_joint03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("joint03. gdot equals W'u and Gq qdot")

	b, q, u := testBody([]float64{0.4, -0.2, 0.9, 0.3, -0.5, 0.8})
	pt := b.NewPoint([3]float64{0.1, 0.2, 0.3})
	fr := rigid.NewFrame([3]float64{1, 0, 0}, nil)

	for _, j := range []*Generic{
		NewSpherical("s", pt, fr),
		NewRigid("r", pt, fr),
		NewRevolute("rev", fr, pt),
		NewCylindrical("cyl", pt, fr),
	} {
		j.SetMaps(0)
		nla := j.Nla()

		// gdot from the evaluator
		gd := make([]float64, nla)
		j.GDot(gd, 0, q, u)

		// gdot from the assembled force directions: gd = W' u
		W := new(la.Triplet)
		W.Init(6, nla, 6*nla)
		j.AddToW(W, 0, q)
		wu := make([]float64, nla)
		la.SpMatTrVecMul(wu, 1, W.ToMatrix(nil), u)
		chk.Vector(tst, io.Sf("%s: W'u", j.Name()), 1e-12, wu, gd)

		// gdot from the position Jacobian along the kinematic equation
		qd := make([]float64, 6)
		b.Qdot(qd, 0, q, u)
		Gq := new(la.Triplet)
		Gq.Init(nla, 6, 6*nla)
		j.AddToGq(Gq, 0, q)
		gq := make([]float64, nla)
		la.SpMatVecMul(gq, 1, Gq.ToMatrix(nil), qd)
		chk.Vector(tst, io.Sf("%s: Gq qd", j.Name()), 1e-6, gq, gd)

		// gdot by central differences of g along the trajectory
		h := 1e-6
		qp := make([]float64, 6)
		qm := make([]float64, 6)
		for i := range q {
			qp[i] = q[i] + h*qd[i]
			qm[i] = q[i] - h*qd[i]
		}
		gp := make([]float64, nla)
		gm := make([]float64, nla)
		j.G(gp, 0, qp)
		j.G(gm, 0, qm)
		for k := 0; k < nla; k++ {
			chk.AnaNum(tst, io.Sf("%s: gd[%d]", j.Name(), k), 1e-7, gd[k], (gp[k]-gm[k])/(2*h), chk.Verbose)
		}
	}
}

func Test_joint04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("joint04. gddot quadratic part matches differences of gdot")

	b, q, u := testBody([]float64{0.4, -0.2, 0.9, 0.3, -0.5, 0.8})
	pt := b.NewPoint([3]float64{0.1, 0.2, 0.3})
	fr := rigid.NewFrame([3]float64{1, 0, 0}, nil)
	j := NewSpherical("s", pt, fr)
	j.SetMaps(0)

	// with ud = 0 the second derivative is the velocity-quadratic part;
	// compare against differences of gdot along the frozen-velocity flow
	gdd := make([]float64, 3)
	j.GDDot(gdd, 0, q, u, nil)

	qd := make([]float64, 6)
	b.Qdot(qd, 0, q, u)
	h := 1e-6
	qp := make([]float64, 6)
	qm := make([]float64, 6)
	for i := range q {
		qp[i] = q[i] + h*qd[i]
		qm[i] = q[i] - h*qd[i]
	}
	gdp := make([]float64, 3)
	gdm := make([]float64, 3)
	j.GDot(gdp, 0, qp, u)
	j.GDot(gdm, 0, qm, u)
	for k := 0; k < 3; k++ {
		chk.AnaNum(tst, io.Sf("gdd[%d]", k), 1e-6, gdd[k], (gdp[k]-gdm[k])/(2*h), chk.Verbose)
	}
}

func Test_contact01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("contact01. point-plane gap, rates and force directions")

	m := rigid.NewPointMass("ball", 1.0, []float64{0.3, -0.2, 0.7}, []float64{0.1, 0.2, -0.5})
	m.SetMaps(0, 0, 0)
	q := make([]float64, 3)
	u := make([]float64, 3)
	m.InitState(q, u)
	pt := m.NewPoint()

	c := NewPointPlane("floor", pt, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, 0.3, 0, 0.2, 0.2)
	c.SetMaps(0, 0)

	g := make([]float64, 1)
	c.GN(g, 0, q)
	chk.Scalar(tst, "gN", 1e-15, g[0], 0.7)
	gd := make([]float64, 1)
	c.GNDot(gd, 0, q, u)
	chk.Scalar(tst, "gNd", 1e-15, gd[0], -0.5)

	gf := make([]float64, 2)
	c.GammaF(gf, 0, q, u)
	// the tangential speed must be recovered regardless of basis orientation
	chk.Scalar(tst, "|gamF|", 1e-14, math.Hypot(gf[0], gf[1]), math.Hypot(0.1, 0.2))

	// gNdot == WN' u
	W := new(la.Triplet)
	W.Init(3, 1, 3)
	c.AddToWN(W, 0, q)
	wu := make([]float64, 1)
	la.SpMatTrVecMul(wu, 1, W.ToMatrix(nil), u)
	chk.Scalar(tst, "WN'u", 1e-14, wu[0], gd[0])

	// gamF == WF' u
	WF := new(la.Triplet)
	WF.Init(3, 2, 6)
	c.AddToWF(WF, 0, q)
	wfu := make([]float64, 2)
	la.SpMatTrVecMul(wfu, 1, WF.ToMatrix(nil), u)
	chk.Vector(tst, "WF'u", 1e-14, wfu, gf)

	chk.Ints(tst, "friction group", c.FrictionGroups()[0], []int{0, 1})
}

func Test_pd01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pd01. actuator force direction and equilibrium")

	m := rigid.NewPointMass("ball", 1.0, []float64{2, 0, 0}, nil)
	m.SetMaps(0, 0, 0)
	q := make([]float64, 3)
	u := make([]float64, 3)
	m.InitState(q, u)
	pt := m.NewPoint()
	fr := rigid.NewFrame([3]float64{}, nil)

	// at the target distance with zero velocity the force vanishes
	target, err := dbf.New("cte", []*dbf.P{{N: "c", V: 2.0}})
	if err != nil {
		tst.Errorf("cannot allocate target function:\n%v", err)
		return
	}
	a := NewPD("pd", fr, pt, 10.0, 1.0, target)
	h := make([]float64, 3)
	a.AddToH(h, 0, q, u)
	chk.Vector(tst, "h at target", 1e-14, h, []float64{0, 0, 0})

	// stretched beyond the target the force pulls the point back
	q[0] = 3
	a.AddToH(h, 0, q, u)
	chk.Vector(tst, "h stretched", 1e-13, h, []float64{-10, 0, 0})

	ft := a.Energy(0, q, u)
	chk.Scalar(tst, "nonconservative", 1e-15, ft, 0)

	// moving target: the derivative term tracks the target rate, so a point
	// sitting still at the instantaneous target length is pushed outwards
	ramp, err := dbf.New("lin", []*dbf.P{{N: "m", V: 2.0}})
	if err != nil {
		tst.Errorf("cannot allocate ramp function:\n%v", err)
		return
	}
	b := NewPD("pd2", fr, pt, 10.0, 1.0, ramp)
	q[0] = 2 // equals the target length at t = 1
	for i := range h {
		h[i] = 0
	}
	b.AddToH(h, 1, q, u)
	chk.Vector(tst, "h moving target", 1e-13, h, []float64{2, 0, 0})
}
