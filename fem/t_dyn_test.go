// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ana"
	"github.com/lisaeb/cardillo/ele/joint"
	"github.com/lisaeb/cardillo/ele/rigid"
	"github.com/lisaeb/cardillo/ele/rod"
	"github.com/lisaeb/cardillo/mdl"
	"github.com/lisaeb/cardillo/shp"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// testRod builds a straight rod of length 2 along the x-axis
func testRod(tst *testing.T, nelem, degree int) *rod.Rod {
	msh := shp.NewMesh(nelem, degree, degree+1)
	mat, err := mdl.NewRod("quadratic")
	if err != nil {
		tst.Fatalf("material allocation failed: %v", err)
	}
	err = mat.Init(dbf.Params{
		&dbf.P{N: "EA", V: 100.0},
		&dbf.P{N: "GA2", V: 50.0},
		&dbf.P{N: "GA3", V: 50.0},
		&dbf.P{N: "GJ", V: 2.0},
		&dbf.P{N: "EI2", V: 4.0},
		&dbf.P{N: "EI3", V: 4.0},
	})
	if err != nil {
		tst.Fatalf("material init failed: %v", err)
	}
	A := la.MatAlloc(3, 3)
	A[0][0], A[1][1], A[2][2] = 1, 1, 1
	q0 := rod.Straight(msh, [3]float64{0, 0, 0}, A, 2.0)
	return rod.New("rod", msh, mat, 0.5, [3]float64{0.1, 0.2, 0.2}, q0, nil)
}

// pendulum builds a rigid body of mass 1 with its centre at (1,0,0), pinned
// to the origin through a spherical joint, under gravity
func pendulum() *Domain {
	d := NewDomain()
	theta := [3][3]float64{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}}
	b := rigid.New("bob", 1.0, theta, "xyz", []float64{1, 0, 0, 0, 0, 0}, nil)
	d.AddBody(b)
	d.AddForce(rigid.NewWeight("gravity", b, [3]float64{0, 0, -9.81}, nil))
	pin := b.NewPoint([3]float64{-1, 0, 0})
	d.AddJoint(joint.NewSpherical("pin", pin, rigid.NewFrame([3]float64{}, nil)))
	return d
}

func Test_dyn01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn01. free rod at rest stays at rest under every scheme")

	r := testRod(tst, 2, 2)
	d := NewDomain()
	d.AddBody(r)
	q0, _ := d.InitState()

	for _, scheme := range []string{"moreau", "lobatto", "radau"} {
		cfg := &Config{T0: 0, Tf: 3e-3, Dt: 1e-3}
		sol, err := NewSolver(scheme, d, cfg).Run()
		if err != nil {
			tst.Errorf("%s failed: %v", scheme, err)
			return
		}
		_, q1, u1 := sol.Last()
		chk.Vector(tst, scheme+": q", 1e-10, q1, q0)
		for i, v := range u1 {
			chk.Scalar(tst, io.Sf("%s: u[%d]", scheme, i), 1e-10, v, 0)
		}
	}

	// the two-stage pair as well
	cfg := &Config{T0: 0, Tf: 3e-3, Dt: 1e-3, Stages: 2}
	sol, err := NewLobatto(d, cfg).Run()
	if err != nil {
		tst.Errorf("two-stage lobatto failed: %v", err)
		return
	}
	_, q1, _ := sol.Last()
	chk.Vector(tst, "two-stage: q", 1e-10, q1, q0)
}

func Test_dyn02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn02. rod pinned at both ends: joints hold during stepping")

	build := func(gravity bool) *Domain {
		r := testRod(tst, 2, 2)
		d := NewDomain()
		d.AddBody(r)
		d.AddJoint(joint.NewSpherical("p0", r.NewPoint(0, [3]float64{}), rigid.NewFrame([3]float64{0, 0, 0}, nil)))
		d.AddJoint(joint.NewSpherical("p1", r.NewPoint(1, [3]float64{}), rigid.NewFrame([3]float64{2, 0, 0}, nil)))
		if gravity {
			d.AddForce(rod.NewLineLoad("gravity", r, [3]float64{0, 0, -9.81 * 0.5}, nil))
		}
		return d
	}

	// rest without load: the configuration must not move at all
	d := build(false)
	q0, _ := d.InitState()
	cfg := &Config{T0: 0, Tf: 5e-3, Dt: 1e-3}
	sol, err := NewMoreau(d, cfg).Run()
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}
	_, q1, u1 := sol.Last()
	chk.Vector(tst, "rest: q", 1e-11, q1, q0)
	for i, v := range u1 {
		chk.Scalar(tst, io.Sf("rest: u[%d]", i), 1e-11, v, 0)
	}

	// sagging under gravity: the pins must keep holding the endpoints
	d = build(true)
	cfg = &Config{T0: 0, Tf: 1e-2, Dt: 1e-3}
	sol, err = NewMoreau(d, cfg).Run()
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}
	g := make([]float64, d.NlaG)
	for k := 0; k < sol.Nsamples(); k++ {
		d.G(g, sol.T[k], sol.Q[k])
		for i, v := range g {
			chk.Scalar(tst, io.Sf("g[%d] at sample %d", i, k), 1e-6, v, 0)
		}
	}

	// the midspan must actually move down
	_, qf, _ := sol.Last()
	r := d.Bodies[0].(*rod.Rod)
	mid := r.NewPoint(0.5, [3]float64{})
	pos := make([]float64, 3)
	mid.Pos(pos, 0, qf)
	if pos[2] >= 0 {
		tst.Errorf("midspan did not sag: z = %g", pos[2])
		return
	}
}

func Test_dyn03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn03. sliding point mass on a plane: friction brings it to rest")

	build := func() *Domain {
		d := NewDomain()
		m := rigid.NewPointMass("ball", 1.0, []float64{0, 0, 0}, []float64{0.1, 0, 0})
		d.AddBody(m)
		d.AddForce(rigid.NewWeight("gravity", m, [3]float64{0, 0, -9.81}, nil))
		c := joint.NewPointPlane("floor", m.NewPoint(), [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, 0.3, 0, 0.3, 0.3)
		d.AddContact(c)
		return d
	}

	dt := 1e-3
	cfg := &Config{T0: 0, Tf: 0.06, Dt: dt, Strategy: "fixedpoint"}
	sol, err := NewMoreau(build(), cfg).Run()
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}

	// the contact stays closed and carries the weight as a percussion
	mgdt := 9.81 * dt
	for k := 1; k < sol.Nsamples(); k++ {
		chk.Scalar(tst, io.Sf("PN at sample %d", k), 1e-8, sol.LaN[k][0], mgdt)

		// friction admissibility
		pf := math.Hypot(sol.LaF[k][0], sol.LaF[k][1])
		if pf > 0.3*sol.LaN[k][0]+1e-10 {
			tst.Errorf("friction percussion outside the cone at sample %d: %g > %g", k, pf, 0.3*sol.LaN[k][0])
			return
		}
	}

	// during slip the speed follows the Coulomb deceleration
	ref := &ana.SlidingBlock{V0: 0.1, Mu: 0.3, G: 9.81}
	chk.Scalar(tst, "u[0] while slipping", 1e-6, sol.U[10][0], ref.Speed(10*dt))
	if sol.T[sol.Nsamples()-1] < ref.StopTime() {
		tst.Errorf("run is too short to reach sticking")
		return
	}

	// and the mass ends up stuck
	_, qf, uf := sol.Last()
	for i, v := range uf {
		chk.Scalar(tst, io.Sf("final u[%d]", i), 1e-6, v, 0)
	}

	// the semismooth strategy must land on the same answer
	cfgN := &Config{T0: 0, Tf: 0.06, Dt: dt, Strategy: "newton"}
	solN, err := NewMoreau(build(), cfgN).Run()
	if err != nil {
		tst.Errorf("newton run failed: %v", err)
		return
	}
	_, qfN, ufN := solN.Last()
	chk.Vector(tst, "q fixedpoint vs newton", 1e-6, qfN, qf)
	chk.Vector(tst, "u fixedpoint vs newton", 1e-6, ufN, uf)
}

func Test_dyn04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn04. dropped point mass: inelastic impact and complementarity")

	d := NewDomain()
	m := rigid.NewPointMass("ball", 1.0, []float64{0, 0, 0.01}, nil)
	d.AddBody(m)
	d.AddForce(rigid.NewWeight("gravity", m, [3]float64{0, 0, -9.81}, nil))
	d.AddContact(joint.NewPointPlane("floor", m.NewPoint(), [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, 0.3, 0, 0.3, 0.3))

	dt := 1e-3
	cfg := &Config{T0: 0, Tf: 0.1, Dt: dt}
	sol, err := NewMoreau(d, cfg).Run()
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}

	// no percussion while in flight
	ff := &ana.FreeFall{H: 0.01, G: 9.81}
	g := make([]float64, 1)
	for k := 1; k < sol.Nsamples(); k++ {
		if sol.T[k] < ff.ImpactTime()-2*dt && sol.LaN[k][0] != 0 {
			tst.Errorf("percussion before impact at sample %d", k)
			return
		}
		d.GN(g, sol.T[k], sol.Q[k])

		// open gap carries no percussion
		if g[0] > 1e-6 && sol.LaN[k][0] != 0 {
			tst.Errorf("open contact with percussion at sample %d: gap=%g PN=%g", k, g[0], sol.LaN[k][0])
			return
		}

		// penetration stays within one step of travel
		if g[0] < -5e-4 {
			tst.Errorf("excessive penetration at sample %d: %g", k, g[0])
			return
		}
	}

	// settled: zero velocity and the weight carried by the contact
	_, _, uf := sol.Last()
	chk.Scalar(tst, "final u[2]", 1e-6, uf[2], 0)
	last := sol.Nsamples() - 1
	chk.Scalar(tst, "final PN", 1e-8, sol.LaN[last][0], 9.81*dt)
}

func Test_dyn05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn05. pendulum under radau: index formulations agree")

	run := func(index int, ggl bool) (*Domain, *Solution) {
		d := pendulum()
		cfg := &Config{T0: 0, Tf: 0.5, Dt: 1e-3, Index: index, GGL: ggl, RTol: 1e-6, ATol: 1e-8}
		sol, err := NewRadau(d, cfg).Run()
		if err != nil {
			tst.Fatalf("radau index=%d ggl=%v failed: %v", index, ggl, err)
		}
		return d, sol
	}

	d3, s3 := run(3, false)
	_, s2 := run(2, false)
	dg, sg := run(3, true)

	_, q3, u3 := s3.Last()
	_, q2, u2 := s2.Last()
	_, qg, ug := sg.Last()
	chk.Vector(tst, "q index3 vs index2", 1e-3, q2, q3)
	chk.Vector(tst, "u index3 vs index2", 1e-2, u2, u3)
	chk.Vector(tst, "q index3 vs ggl", 1e-3, qg, q3)

	// the stabilized form keeps both constraint levels
	g := make([]float64, dg.NlaG)
	gd := make([]float64, dg.NlaG)
	dg.G(g, 0.5, qg)
	dg.GDot(gd, 0.5, qg, ug)
	for i := range g {
		chk.Scalar(tst, io.Sf("ggl g[%d]", i), 1e-5, g[i], 0)
		chk.Scalar(tst, io.Sf("ggl gd[%d]", i), 1e-5, gd[i], 0)
	}

	// index 3 enforces the gap at the endpoint collocation node
	d3.G(g, 0.5, q3)
	for i := range g {
		chk.Scalar(tst, io.Sf("index3 g[%d]", i), 1e-5, g[i], 0)
	}

	// total energy is conserved along the swing
	k0, p0 := d3.Energy(0, s3.Q[0], s3.U[0])
	kf, pf := d3.Energy(0.5, q3, u3)
	chk.Scalar(tst, "energy", 1e-4, kf+pf, k0+p0)
}

func Test_dyn06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dyn06. pendulum under lobatto: velocity constraints hold")

	d := pendulum()
	cfg := &Config{T0: 0, Tf: 0.05, Dt: 1e-3, Stages: 3}
	sol, err := NewLobatto(d, cfg).Run()
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}

	g := make([]float64, d.NlaG)
	gd := make([]float64, d.NlaG)
	for k := 0; k < sol.Nsamples(); k++ {
		d.GDot(gd, sol.T[k], sol.Q[k], sol.U[k])
		d.G(g, sol.T[k], sol.Q[k])
		for i := range gd {
			chk.Scalar(tst, io.Sf("gd[%d] at sample %d", i, k), 1e-6, gd[i], 0)
			chk.Scalar(tst, io.Sf("g[%d] at sample %d", i, k), 1e-6, g[i], 0)
		}
	}

	k0, p0 := d.Energy(0, sol.Q[0], sol.U[0])
	tf, qf, uf := sol.Last()
	kf, pf := d.Energy(tf, qf, uf)
	chk.Scalar(tst, "energy", 1e-4, kf+pf, k0+p0)
}

func Test_prox01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prox01. projections onto the admissible sets")

	chk.Scalar(tst, "prox(-1)", 1e-15, ProxRPlus(-1), 0)
	chk.Scalar(tst, "prox(0)", 1e-15, ProxRPlus(0), 0)
	chk.Scalar(tst, "prox(2)", 1e-15, ProxRPlus(2), 2)

	chk.Vector(tst, "inside", 1e-15, ProxDisk([]float64{0.3, -0.4}, 1), []float64{0.3, -0.4})
	chk.Vector(tst, "boundary", 1e-15, ProxDisk([]float64{3, -4}, 5), []float64{3, -4})
	chk.Vector(tst, "outside", 1e-14, ProxDisk([]float64{3, -4}, 1), []float64{0.6, -0.8})
	chk.Vector(tst, "empty radius", 1e-15, ProxDisk([]float64{3, -4}, 0), []float64{0, 0})
}

func Test_errnorm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errnorm01. step-size norm counts differential components only")

	v := []float64{3, 4}
	s := []float64{1, 1}
	n0 := scaledNorm(v, s, 2)
	chk.Scalar(tst, "two components", 1e-15, n0, math.Sqrt(25.0/2.0))

	// appended multiplier rows with zero error leave the norm unchanged
	v = []float64{3, 4, 0, 0, 0}
	s = []float64{1, 1, 1, 1, 1}
	chk.Scalar(tst, "with multiplier rows", 1e-15, scaledNorm(v, s, 2), n0)
}
