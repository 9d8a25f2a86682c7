// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

const sceneYAML = `desc: pinned rod with a swinging body
materials:
  - name: steel
    model: quadratic
    prms:
      - {n: EA, v: 100}
      - {n: GA2, v: 50}
      - {n: GA3, v: 50}
      - {n: GJ, v: 2}
      - {n: EI2, v: 4}
      - {n: EI3, v: 4}
functions:
  - name: ramp
    type: lin
    prms:
      - {n: m, v: 2}
bodies:
  - name: beam
    type: rod
    mat: steel
    nelem: 2
    degree: 2
    length: 2
    rhoa: 0.5
    irho: [0.1, 0.2, 0.2]
  - name: bob
    type: rigid
    mass: 1
    theta: [0.1, 0.1, 0.1]
    q0: [1, 0, 0, 0, 0, 0]
forces:
  - name: gravity
    type: weight
    body: bob
    f: [0, 0, -9.81]
joints:
  - name: root
    type: rigid
    a: {body: beam, xi: 0}
    b: {at: [0, 0, 0]}
  - name: pin
    type: spherical
    a: {body: bob, b: [-1, 0, 0]}
    b: {at: [0, 0, 0]}
contacts:
  - name: floor
    point: {body: bob, b: [0, 0, -0.1]}
    origin: [0, 0, -2]
    normal: [0, 0, 1]
    mu: 0.3
solver:
  scheme: moreau
  tf: 0.5
  dt: 0.001
`

func writeScene(tst *testing.T) string {
	fn := filepath.Join(tst.TempDir(), "scene.yml")
	if err := os.WriteFile(fn, []byte(sceneYAML), 0644); err != nil {
		tst.Fatalf("cannot write scene file: %v", err)
	}
	return fn
}

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01. scene parsing and defaults")

	sim, err := ReadSim(writeScene(tst))
	if err != nil {
		tst.Errorf("read failed: %v", err)
		return
	}

	chk.IntAssert(len(sim.Bodies), 2)
	chk.IntAssert(len(sim.Joints), 2)
	chk.IntAssert(len(sim.Contacts), 1)
	chk.String(tst, sim.Bodies[0].Mat, "steel")
	chk.String(tst, sim.Bodies[1].Sequence, "xyz") // filled by SetDefault
	chk.IntAssert(sim.Bodies[0].Nquad, 3)
	chk.Scalar(tst, "tf", 1e-15, sim.Solver.Tf, 0.5)

	mat, err := sim.Materials.Get("steel")
	if err != nil {
		tst.Errorf("material lookup failed: %v", err)
		return
	}
	if mat == nil {
		tst.Errorf("material is nil")
		return
	}
	if _, err = sim.Materials.Get("wood"); err == nil {
		tst.Errorf("missing material was not reported")
		return
	}

	fcn, err := sim.Functions.Get("ramp")
	if err != nil {
		tst.Errorf("function lookup failed: %v", err)
		return
	}
	chk.Scalar(tst, "ramp(2)", 1e-14, fcn.F(2, nil), 4)
}

func Test_read02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read02. scene assembly into a domain")

	sim, err := ReadSim(writeScene(tst))
	if err != nil {
		tst.Errorf("read failed: %v", err)
		return
	}
	d, err := sim.BuildDomain()
	if err != nil {
		tst.Errorf("assembly failed: %v", err)
		return
	}

	// rod: 5 nodes; rigid body: 6+6
	chk.IntAssert(d.Nq, 7*5+6)
	chk.IntAssert(d.Nu, 6*5+6)
	chk.IntAssert(d.NlaS, 5)
	chk.IntAssert(d.NlaG, 6+3)
	chk.IntAssert(d.NlaN, 1)
	chk.IntAssert(d.NlaF, 2)
	chk.Scalar(tst, "mu", 1e-15, d.MuAll[0], 0.3)
	chk.Scalar(tst, "rN default", 1e-15, d.RNAll[0], 0.3)

	// the initial state satisfies the joints
	q, u := d.InitState()
	g := make([]float64, d.NlaG)
	d.G(g, 0, q)
	for i, v := range g {
		chk.Scalar(tst, io.Sf("g[%d]", i), 1e-14, v, 0)
	}
	gd := make([]float64, d.NlaG)
	d.GDot(gd, 0, q, u)
	for i, v := range gd {
		chk.Scalar(tst, io.Sf("gd[%d]", i), 1e-14, v, 0)
	}
}

func Test_read03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read03. bad scenes are rejected")

	if _, err := ReadSim(filepath.Join(tst.TempDir(), "missing.yml")); err == nil {
		tst.Errorf("missing file was not reported")
		return
	}

	fn := filepath.Join(tst.TempDir(), "broken.yml")
	if err := os.WriteFile(fn, []byte("bodies: {not: a list}"), 0644); err != nil {
		tst.Fatalf("cannot write scene file: %v", err)
	}
	if _, err := ReadSim(fn); err == nil {
		tst.Errorf("malformed scene was not reported")
		return
	}

	sim, err := ReadSim(writeScene(tst))
	if err != nil {
		tst.Errorf("read failed: %v", err)
		return
	}
	sim.Joints[0].A.Body = "ghost"
	if _, err = sim.BuildDomain(); err == nil {
		tst.Errorf("unknown body reference was not reported")
		return
	}
}
