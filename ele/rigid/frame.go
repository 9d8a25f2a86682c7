// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid

// Frame is a fixed frame in space: a material point without degrees of
// freedom, usable as the ground side of joints
type Frame struct {
	R [3]float64    // origin
	A [3][3]float64 // orientation
}

// NewFrame creates a fixed frame. a may be nil for the identity orientation.
func NewFrame(r [3]float64, a [][]float64) (o *Frame) {
	o = new(Frame)
	o.R = r
	if a == nil {
		o.A[0][0], o.A[1][1], o.A[2][2] = 1, 1, 1
		return
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.A[i][j] = a[i][j]
		}
	}
	return
}

// UDofs returns an empty slice: a frame has no degrees of freedom
func (o *Frame) UDofs() []int { return nil }

// QDofs returns an empty slice
func (o *Frame) QDofs() []int { return nil }

// Pos returns the fixed origin
func (o *Frame) Pos(r []float64, t float64, q []float64) {
	copy(r, o.R[:])
}

// Vel returns zero
func (o *Frame) Vel(v []float64, t float64, q, u []float64) {
	v[0], v[1], v[2] = 0, 0, 0
}

// Acc returns zero
func (o *Frame) Acc(a []float64, t float64, q, u, ud []float64) {
	a[0], a[1], a[2] = 0, 0, 0
}

// Rot returns the fixed orientation
func (o *Frame) Rot(A [][]float64, t float64, q []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = o.A[i][j]
		}
	}
}

// Omega returns zero
func (o *Frame) Omega(om []float64, t float64, q, u []float64) {
	om[0], om[1], om[2] = 0, 0, 0
}

// Psi returns zero
func (o *Frame) Psi(ps []float64, t float64, q, u, ud []float64) {
	ps[0], ps[1], ps[2] = 0, 0, 0
}

// JP returns an empty Jacobian
func (o *Frame) JP(J [][]float64, t float64, q []float64) {}

// JR returns an empty Jacobian
func (o *Frame) JR(J [][]float64, t float64, q []float64) {}
