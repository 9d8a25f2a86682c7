// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp reads multibody scenes from YAML files: the material
// catalogue, time functions, bodies, applied forces, joints, contacts and
// the solver setup
package inp

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"gopkg.in/yaml.v3"

	"github.com/lisaeb/cardillo/fem"
)

// SolverData holds the scheme selection and its parameters
type SolverData struct {
	Scheme   string  `yaml:"scheme"`   // "moreau", "lobatto", "radau" or "static"
	T0       float64 `yaml:"t0"`       // initial time
	Tf       float64 `yaml:"tf"`       // final time
	Dt       float64 `yaml:"dt"`       // step size; initial step for radau
	Tol      float64 `yaml:"tol"`      // nonlinear iteration tolerance
	ItMax    int     `yaml:"itmax"`    // iteration cap
	Strategy string  `yaml:"strategy"` // moreau contact strategy
	Stages   int     `yaml:"stages"`   // lobatto stages
	Index    int     `yaml:"index"`    // radau DAE index
	GGL      bool    `yaml:"ggl"`      // radau stabilized formulation
	RTol     float64 `yaml:"rtol"`     // radau relative tolerance
	ATol     float64 `yaml:"atol"`     // radau absolute tolerance
	DtMin    float64 `yaml:"dtmin"`    // radau smallest step
	DtMax    float64 `yaml:"dtmax"`    // radau largest step
	LinSol   string  `yaml:"linsol"`   // sparse solver name
}

// Config converts the input data into solver parameters
func (o *SolverData) Config(verbose bool) *fem.Config {
	cfg := &fem.Config{
		T0: o.T0, Tf: o.Tf, Dt: o.Dt,
		Tol: o.Tol, ItMax: o.ItMax,
		Strategy: o.Strategy, Stages: o.Stages,
		Index: o.Index, GGL: o.GGL,
		RTol: o.RTol, ATol: o.ATol, DtMin: o.DtMin, DtMax: o.DtMax,
		LinSolName: o.LinSol, Verbose: verbose,
	}
	cfg.SetDefault()
	return cfg
}

// Sim holds one complete scene
type Sim struct {

	// global information
	Desc   string `yaml:"desc"`   // description of the scene
	DirOut string `yaml:"dirout"` // directory for output files

	// catalogues
	Materials MatsData  `yaml:"materials"`
	Functions FuncsData `yaml:"functions"`

	// scene
	Bodies   []*BodyData    `yaml:"bodies"`
	Forces   []*ForceData   `yaml:"forces"`
	Joints   []*JointData   `yaml:"joints"`
	Contacts []*ContactData `yaml:"contacts"`

	// solver
	Solver SolverData `yaml:"solver"`

	// derived
	Path string `yaml:"-"` // path of the scene file
}

// BodyData holds one body definition
type BodyData struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "rod", "rigid" or "pointmass"

	// rod data
	Mat    string     `yaml:"mat"`    // material name from the catalogue
	Nelem  int        `yaml:"nelem"`  // number of elements
	Degree int        `yaml:"degree"` // interpolation degree
	Nquad  int        `yaml:"nquad"`  // quadrature points; 0 means degree+1
	Origin [3]float64 `yaml:"origin"` // starting point of a straight reference line
	Axis   [3]float64 `yaml:"axis"`   // direction of the reference line; zero means +x
	Length float64    `yaml:"length"` // reference length
	RhoA   float64    `yaml:"rhoa"`   // mass per unit reference length
	Irho   [3]float64 `yaml:"irho"`   // cross-section inertia densities

	// rigid body data
	Mass     float64    `yaml:"mass"`
	Theta    [3]float64 `yaml:"theta"`    // principal inertia components
	Sequence string     `yaml:"sequence"` // Euler angle sequence; "" means "xyz"

	// state
	Q0 []float64 `yaml:"q0"` // initial coordinates; nil means the reference
	U0 []float64 `yaml:"u0"` // initial velocities; nil means at rest
}

// PointData selects a material point: a point of a named body, or a fixed
// frame when the body name is empty
type PointData struct {
	Body string     `yaml:"body"`
	Xi   float64    `yaml:"xi"` // rod arc-length coordinate
	B    [3]float64 `yaml:"b"`  // body-frame offset
	At   [3]float64 `yaml:"at"` // frame position when body is empty
}

// ForceData holds one applied force or actuator definition
type ForceData struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "weight", "lineload", "wrench" or "pd"

	Body string     `yaml:"body"`
	F    [3]float64 `yaml:"f"`    // force vector or direction
	M    [3]float64 `yaml:"m"`    // moment vector of a wrench
	Xi   float64    `yaml:"xi"`   // rod coordinate of a wrench
	Func string     `yaml:"func"` // time function name; "" means constant

	// pd actuator data
	A      *PointData `yaml:"a"`
	B      *PointData `yaml:"b"`
	Kp     float64    `yaml:"kp"`
	Kd     float64    `yaml:"kd"`
	Target string     `yaml:"target"` // target distance function name
}

// JointData holds one bilateral constraint definition
type JointData struct {
	Name string     `yaml:"name"`
	Type string     `yaml:"type"` // "spherical", "rigid", "revolute", "prismatic", "cylindrical" or "planar"
	A    *PointData `yaml:"a"`
	B    *PointData `yaml:"b"`
	Axis int        `yaml:"axis"` // free axis of the planar variant
}

// ContactData holds one frictional point-plane contact definition
type ContactData struct {
	Name   string     `yaml:"name"`
	Point  *PointData `yaml:"point"`
	Origin [3]float64 `yaml:"origin"`
	Normal [3]float64 `yaml:"normal"`
	Mu     float64    `yaml:"mu"`
	EN     float64    `yaml:"en"`
	RN     float64    `yaml:"rn"` // normal prox parameter
	RF     float64    `yaml:"rf"` // friction prox parameter
}

// ReadSim reads a scene file
func ReadSim(path string) (o *Sim, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read scene file %q:\n%v", path, err)
	}
	o = new(Sim)
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot parse scene file %q:\n%v", path, err)
	}
	o.Path = path
	o.SetDefault()
	return
}

// SetDefault fills unset fields
func (o *Sim) SetDefault() {
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "cardillo")
	}
	if o.Solver.Scheme == "" {
		o.Solver.Scheme = "moreau"
	}
	for _, b := range o.Bodies {
		if b.Type == "rod" {
			if b.Degree == 0 {
				b.Degree = 1
			}
			if b.Nquad == 0 {
				b.Nquad = b.Degree + 1
			}
			if b.Axis == [3]float64{} {
				b.Axis = [3]float64{1, 0, 0}
			}
		}
		if b.Type == "rigid" && b.Sequence == "" {
			b.Sequence = "xyz"
		}
	}
}
