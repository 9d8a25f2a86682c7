// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
)

// Config holds the solver parameters shared by all schemes. Zero values are
// replaced by SetDefault.
type Config struct {
	T0, Tf float64 // time interval
	Dt     float64 // step size (initial step for the adaptive scheme)
	Tol    float64 // nonlinear / prox iteration tolerance
	ItMax  int     // iteration cap

	Strategy string // moreau contact strategy: "fixedpoint" or "newton"
	Stages   int    // lobatto stages (2 or 3)

	Index int  // radau DAE index (2 or 3)
	GGL   bool // radau stabilized formulation enforcing g and gdot
	RTol  float64
	ATol  float64
	DtMin float64
	DtMax float64

	LinSolName string // sparse solver name, e.g. "umfpack"
	Verbose    bool
}

// SetDefault fills unset fields
func (o *Config) SetDefault() {
	if o.Dt <= 0 {
		o.Dt = 1e-3
	}
	if o.Tol <= 0 {
		o.Tol = 1e-8
	}
	if o.ItMax <= 0 {
		o.ItMax = 50
	}
	if o.Strategy == "" {
		o.Strategy = "fixedpoint"
	}
	if o.Stages == 0 {
		o.Stages = 3
	}
	if o.Index == 0 {
		o.Index = 3
	}
	if o.RTol <= 0 {
		o.RTol = 1e-6
	}
	if o.ATol <= 0 {
		o.ATol = 1e-8
	}
	if o.DtMin <= 0 {
		o.DtMin = 1e-12
	}
	if o.DtMax <= 0 {
		o.DtMax = o.Tf - o.T0
	}
	if o.LinSolName == "" {
		o.LinSolName = "umfpack"
	}
}

// Solver is a time-stepping scheme running from T0 to Tf
type Solver interface {
	Run() (*Solution, error)
}

// allocators holds all available schemes
var allocators = map[string]func(d *Domain, cfg *Config) Solver{
	"moreau":  func(d *Domain, cfg *Config) Solver { return NewMoreau(d, cfg) },
	"lobatto": func(d *Domain, cfg *Config) Solver { return NewLobatto(d, cfg) },
	"radau":   func(d *Domain, cfg *Config) Solver { return NewRadau(d, cfg) },
}

// NewSolver allocates a scheme by name
func NewSolver(name string, d *Domain, cfg *Config) Solver {
	alloc, ok := allocators[name]
	if !ok {
		chk.Panic("cannot find solver named %q", name)
	}
	cfg.SetDefault()
	return alloc(d, cfg)
}
