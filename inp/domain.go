// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele"
	"github.com/lisaeb/cardillo/ele/joint"
	"github.com/lisaeb/cardillo/ele/rigid"
	"github.com/lisaeb/cardillo/ele/rod"
	"github.com/lisaeb/cardillo/fem"
	"github.com/lisaeb/cardillo/shp"
)

// BuildDomain assembles the scene into a solver domain
func (o *Sim) BuildDomain() (d *fem.Domain, err error) {

	d = fem.NewDomain()
	bodies := make(map[string]ele.Body)

	for _, bd := range o.Bodies {
		var b ele.Body
		switch bd.Type {
		case "rod":
			if b, err = o.buildRod(bd); err != nil {
				return nil, err
			}
		case "rigid":
			theta := [3][3]float64{
				{bd.Theta[0], 0, 0},
				{0, bd.Theta[1], 0},
				{0, 0, bd.Theta[2]},
			}
			b = rigid.New(bd.Name, bd.Mass, theta, bd.Sequence, bd.Q0, bd.U0)
		case "pointmass":
			b = rigid.NewPointMass(bd.Name, bd.Mass, bd.Q0, bd.U0)
		default:
			return nil, chk.Err("unknown body type %q", bd.Type)
		}
		if _, dup := bodies[bd.Name]; dup {
			return nil, chk.Err("duplicate body name %q", bd.Name)
		}
		bodies[bd.Name] = b
		d.AddBody(b)
	}

	for _, fd := range o.Forces {
		if err = o.addForce(d, fd, bodies); err != nil {
			return nil, err
		}
	}

	for _, jd := range o.Joints {
		p1, e1 := o.point(jd.A, bodies)
		p2, e2 := o.point(jd.B, bodies)
		if e1 != nil || e2 != nil {
			return nil, chk.Err("joint %q: bad endpoints:\n%v\n%v", jd.Name, e1, e2)
		}
		switch jd.Type {
		case "spherical":
			d.AddJoint(joint.NewSpherical(jd.Name, p1, p2))
		case "rigid":
			d.AddJoint(joint.NewRigid(jd.Name, p1, p2))
		case "revolute":
			d.AddJoint(joint.NewRevolute(jd.Name, p1, p2))
		case "prismatic":
			d.AddJoint(joint.NewPrismatic(jd.Name, p1, p2))
		case "cylindrical":
			d.AddJoint(joint.NewCylindrical(jd.Name, p1, p2))
		case "planar":
			d.AddJoint(joint.NewPlanar(jd.Name, p1, p2, jd.Axis))
		default:
			return nil, chk.Err("joint %q: unknown type %q", jd.Name, jd.Type)
		}
	}

	for _, cd := range o.Contacts {
		p, e := o.point(cd.Point, bodies)
		if e != nil {
			return nil, chk.Err("contact %q: bad point:\n%v", cd.Name, e)
		}
		rn, rf := cd.RN, cd.RF
		if rn == 0 {
			rn = 0.3
		}
		if rf == 0 {
			rf = 0.3
		}
		d.AddContact(joint.NewPointPlane(cd.Name, p, cd.Origin, cd.Normal, cd.Mu, cd.EN, rn, rf))
	}
	return
}

// buildRod assembles one rod body
func (o *Sim) buildRod(bd *BodyData) (*rod.Rod, error) {
	if bd.Nelem < 1 {
		return nil, chk.Err("rod %q: nelem must be positive", bd.Name)
	}
	mat, err := o.Materials.Get(bd.Mat)
	if err != nil {
		return nil, chk.Err("rod %q:\n%v", bd.Name, err)
	}
	msh := shp.NewMesh(bd.Nelem, bd.Degree, bd.Nquad)
	q0 := bd.Q0
	if q0 == nil {
		q0 = rod.Straight(msh, bd.Origin, axisBasis(bd.Axis), bd.Length)
	}
	return rod.New(bd.Name, msh, mat, bd.RhoA, bd.Irho, q0, bd.U0), nil
}

// addForce assembles one applied force
func (o *Sim) addForce(d *fem.Domain, fd *ForceData, bodies map[string]ele.Body) error {
	var fcn dbf.T
	var err error
	if fd.Func != "" {
		if fcn, err = o.Functions.Get(fd.Func); err != nil {
			return chk.Err("force %q:\n%v", fd.Name, err)
		}
	}
	switch fd.Type {
	case "weight":
		b, ok := bodies[fd.Body]
		if !ok {
			return chk.Err("force %q: unknown body %q", fd.Name, fd.Body)
		}
		d.AddForce(rigid.NewWeight(fd.Name, b, fd.F, fcn))
	case "lineload":
		r, err := o.rodOf(fd.Body, bodies)
		if err != nil {
			return chk.Err("force %q:\n%v", fd.Name, err)
		}
		d.AddForce(rod.NewLineLoad(fd.Name, r, fd.F, fcn))
	case "wrench":
		r, err := o.rodOf(fd.Body, bodies)
		if err != nil {
			return chk.Err("force %q:\n%v", fd.Name, err)
		}
		d.AddForce(rod.NewPointWrench(fd.Name, r, fd.Xi, fd.F, fd.M, fcn))
	case "pd":
		p1, e1 := o.point(fd.A, bodies)
		p2, e2 := o.point(fd.B, bodies)
		if e1 != nil || e2 != nil {
			return chk.Err("force %q: bad endpoints:\n%v\n%v", fd.Name, e1, e2)
		}
		target, err := o.Functions.Get(fd.Target)
		if err != nil {
			return chk.Err("force %q:\n%v", fd.Name, err)
		}
		d.AddForce(joint.NewPD(fd.Name, p1, p2, fd.Kp, fd.Kd, target))
	default:
		return chk.Err("force %q: unknown type %q", fd.Name, fd.Type)
	}
	return nil
}

// rodOf finds a named rod body
func (o *Sim) rodOf(name string, bodies map[string]ele.Body) (*rod.Rod, error) {
	b, ok := bodies[name]
	if !ok {
		return nil, chk.Err("unknown body %q", name)
	}
	r, ok := b.(*rod.Rod)
	if !ok {
		return nil, chk.Err("body %q is not a rod", name)
	}
	return r, nil
}

// point resolves a point selector; an empty body name selects a fixed frame
func (o *Sim) point(p *PointData, bodies map[string]ele.Body) (ele.Point, error) {
	if p == nil {
		return nil, chk.Err("missing point selector")
	}
	if p.Body == "" {
		return rigid.NewFrame(p.At, nil), nil
	}
	b, ok := bodies[p.Body]
	if !ok {
		return nil, chk.Err("unknown body %q", p.Body)
	}
	switch t := b.(type) {
	case *rod.Rod:
		return t.NewPoint(p.Xi, p.B), nil
	case *rigid.Body:
		return t.NewPoint(p.B), nil
	case *rigid.PointMass:
		return t.NewPoint(), nil
	}
	return nil, chk.Err("body %q cannot provide material points", p.Body)
}

// axisBasis returns an orthonormal basis with the first director along dir
func axisBasis(dir [3]float64) [][]float64 {
	n := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	if n == 0 {
		dir, n = [3]float64{1, 0, 0}, 1
	}
	var e1, h [3]float64
	for i := 0; i < 3; i++ {
		e1[i] = dir[i] / n
	}
	if math.Abs(e1[2]) < 0.9 {
		h = [3]float64{0, 0, 1}
	} else {
		h = [3]float64{0, 1, 0}
	}
	e2 := [3]float64{
		h[1]*e1[2] - h[2]*e1[1],
		h[2]*e1[0] - h[0]*e1[2],
		h[0]*e1[1] - h[1]*e1[0],
	}
	n = math.Sqrt(e2[0]*e2[0] + e2[1]*e2[1] + e2[2]*e2[2])
	for i := 0; i < 3; i++ {
		e2[i] /= n
	}
	e3 := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	A := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		A[i][0], A[i][1], A[i][2] = e1[i], e2[i], e3[i]
	}
	return A
}

// Run builds the domain and runs the configured solver
func (o *Sim) Run(verbose bool) (*fem.Solution, error) {
	d, err := o.BuildDomain()
	if err != nil {
		return nil, err
	}
	cfg := o.Solver.Config(verbose)
	if o.Solver.Scheme == "static" {
		return fem.NewStatics(d, cfg).Run()
	}
	return fem.NewSolver(o.Solver.Scheme, d, cfg).Run()
}
