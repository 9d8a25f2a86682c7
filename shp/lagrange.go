// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shp implements 1D Lagrange shape functions on the reference
// interval [-1,1], the centreline meshes built from them, Gauss-Legendre
// quadrature data, and a small cache for repeated evaluations at arbitrary
// parametric coordinates.
package shp

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Lagrange holds a nodal polynomial basis of given degree on [-1,1] with
// equally spaced nodes
type Lagrange struct {
	Degree int       // polynomial degree (1, 2 or 3)
	Nnodes int       // number of nodes = Degree+1
	Xi     []float64 // nodal coordinates in [-1,1]
}

// NewLagrange returns the Lagrange basis of the given degree. Degrees 1 to 3
// are supported.
func NewLagrange(degree int) (o *Lagrange) {
	if degree < 1 || degree > 3 {
		chk.Panic("Lagrange basis degree must be 1, 2 or 3. degree=%d is invalid", degree)
	}
	o = new(Lagrange)
	o.Degree = degree
	o.Nnodes = degree + 1
	o.Xi = make([]float64, o.Nnodes)
	for i := 0; i < o.Nnodes; i++ {
		o.Xi[i] = -1.0 + 2.0*float64(i)/float64(degree)
	}
	return
}

// Eval computes the shape functions N and their first derivatives Nxi at the
// reference coordinate xi. Both slices must have length Nnodes.
func (o *Lagrange) Eval(N, Nxi []float64, xi float64) {
	for i := 0; i < o.Nnodes; i++ {
		N[i] = 1.0
		for j := 0; j < o.Nnodes; j++ {
			if j != i {
				N[i] *= (xi - o.Xi[j]) / (o.Xi[i] - o.Xi[j])
			}
		}
		Nxi[i] = 0.0
		for k := 0; k < o.Nnodes; k++ {
			if k == i {
				continue
			}
			term := 1.0 / (o.Xi[i] - o.Xi[k])
			for j := 0; j < o.Nnodes; j++ {
				if j != i && j != k {
					term *= (xi - o.Xi[j]) / (o.Xi[i] - o.Xi[j])
				}
			}
			Nxi[i] += term
		}
	}
}

// GaussPoints returns n Gauss-Legendre points and weights on [-1,1]
func GaussPoints(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	(quad.Legendre{}).FixedLocations(x, w, -1, 1)
	return
}
