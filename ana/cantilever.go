// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana provides analytical solutions of small reference problems,
// used to verify the element formulations and the time-stepping schemes
package ana

// CantileverTip is the linear Timoshenko solution of a clamped beam with a
// transverse tip load
type CantileverTip struct {
	F  float64 // tip load magnitude
	L  float64 // beam length
	EI float64 // bending stiffness in the loading plane
	GA float64 // shear stiffness in the loading direction
}

// Deflection returns the transverse tip displacement
func (o *CantileverTip) Deflection() float64 {
	return o.F*o.L*o.L*o.L/(3*o.EI) + o.F*o.L/o.GA
}

// DeflectionAt returns the transverse displacement at 0 <= x <= L
func (o *CantileverTip) DeflectionAt(x float64) float64 {
	return o.F*x*x*(3*o.L-x)/(6*o.EI) + o.F*x/o.GA
}

// Rotation returns the cross-section rotation at 0 <= x <= L
func (o *CantileverTip) Rotation(x float64) float64 {
	return o.F * x * (2*o.L - x) / (2 * o.EI)
}
