// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdl implements constitutive models for rods: hyperelastic laws
// mapping strain measures to contact forces and couples in the cross-section
// frame
package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// RodMaterial defines the constitutive law of a rod: a stored-energy density
// per unit reference length as a function of the strain measures Gamma
// (stretch/shear) and Kappa (twist/bending), both resolved in the
// cross-section frame
type RodMaterial interface {
	Init(prms dbf.Params) error                       // initializes model with parameters
	Potential(Gamma, Kappa, Gamma0, Kappa0 []float64) float64 // stored energy density
	Stress(n, m, Gamma, Kappa, Gamma0, Kappa0 []float64)      // contact force n and couple m
	Stiffness(CGam, CKap [][]float64)                 // tangents dn/dGamma and dm/dKappa (3x3 each)
}

// allocators holds the available model allocators
var allocators = map[string]func() RodMaterial{}

// NewRod returns a new rod material model of the given name
func NewRod(name string) (RodMaterial, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find rod material model named %q", name)
	}
	return alloc(), nil
}

// QuadraticLaw implements the quadratic stored-energy function of
// Simo's rod theory: uncoupled diagonal stiffness in stretch/shear and
// twist/bending,
//
//	W = 1/2 (Gamma-Gamma0)' Ce (Gamma-Gamma0) + 1/2 (Kappa-Kappa0)' Cb (Kappa-Kappa0)
//
// with Ce = diag(EA, GA, GA) and Cb = diag(GJ, EI2, EI3)
type QuadraticLaw struct {
	Ce [3]float64 // EA, GA2, GA3
	Cb [3]float64 // GJ, EI2, EI3
}

// Init initializes the model. Accepted parameters: either the six direct
// stiffnesses EA, GA2, GA3, GJ, EI2, EI3, or the engineering set E, G, A,
// I2, I3, J (with GA2 = GA3 = G*A).
func (o *QuadraticLaw) Init(prms dbf.Params) error {
	var E, G, A, I2, I3, J float64
	for _, p := range prms {
		switch p.N {
		case "EA":
			o.Ce[0] = p.V
		case "GA2":
			o.Ce[1] = p.V
		case "GA3":
			o.Ce[2] = p.V
		case "GJ":
			o.Cb[0] = p.V
		case "EI2":
			o.Cb[1] = p.V
		case "EI3":
			o.Cb[2] = p.V
		case "E":
			E = p.V
		case "G":
			G = p.V
		case "A":
			A = p.V
		case "I2":
			I2 = p.V
		case "I3":
			I3 = p.V
		case "J":
			J = p.V
		default:
			return chk.Err("quadratic rod law: parameter named %q is invalid", p.N)
		}
	}
	if o.Ce[0] == 0 {
		o.Ce[0] = E * A
	}
	if o.Ce[1] == 0 {
		o.Ce[1] = G * A
	}
	if o.Ce[2] == 0 {
		o.Ce[2] = G * A
	}
	if o.Cb[0] == 0 {
		o.Cb[0] = G * J
	}
	if o.Cb[1] == 0 {
		o.Cb[1] = E * I2
	}
	if o.Cb[2] == 0 {
		o.Cb[2] = E * I3
	}
	for i := 0; i < 3; i++ {
		if o.Ce[i] <= 0 || o.Cb[i] <= 0 {
			return chk.Err("quadratic rod law: stiffness %d is not positive (Ce=%v, Cb=%v)", i, o.Ce, o.Cb)
		}
	}
	return nil
}

// Potential returns the stored energy density per unit reference length
func (o *QuadraticLaw) Potential(Gamma, Kappa, Gamma0, Kappa0 []float64) (W float64) {
	for i := 0; i < 3; i++ {
		de := Gamma[i] - Gamma0[i]
		db := Kappa[i] - Kappa0[i]
		W += 0.5*o.Ce[i]*de*de + 0.5*o.Cb[i]*db*db
	}
	return
}

// Stress computes the cross-section contact force n and couple m
func (o *QuadraticLaw) Stress(n, m, Gamma, Kappa, Gamma0, Kappa0 []float64) {
	for i := 0; i < 3; i++ {
		n[i] = o.Ce[i] * (Gamma[i] - Gamma0[i])
		m[i] = o.Cb[i] * (Kappa[i] - Kappa0[i])
	}
}

// Stiffness sets the constant material tangents
func (o *QuadraticLaw) Stiffness(CGam, CKap [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			CGam[i][j] = 0
			CKap[i][j] = 0
		}
		CGam[i][i] = o.Ce[i]
		CKap[i][i] = o.Cb[i]
	}
}

func init() {
	allocators["quadratic"] = func() RodMaterial { return new(QuadraticLaw) }
}
