// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"github.com/cpmech/gosl/chk"
)

// Mesh holds a uniform 1D mesh on the parametric domain [0,1]: element
// connectivity, the Lagrange basis, and basis values precomputed at the
// Gauss points of every element
type Mesh struct {

	// input
	Basis *Lagrange // nodal basis shared by all elements
	Nelem int       // number of elements
	Nquad int       // Gauss points per element

	// derived
	Nnodes int       // total number of nodes
	Xg     []float64 // Gauss point coordinates in [-1,1]
	Wg     []float64 // Gauss weights
	Ng     []float64 // basis values at Gauss points: Ng[iq*nne+a]
	Ngxi   []float64 // basis derivatives at Gauss points: Ngxi[iq*nne+a]
	Conn   [][]int   // Conn[e][a] = global node number of local node a
}

// NewMesh creates a mesh with nelem elements of the given polynomial degree
// and nquad Gauss points per element
func NewMesh(nelem, degree, nquad int) (o *Mesh) {
	if nelem < 1 {
		chk.Panic("mesh must have at least one element. nelem=%d is invalid", nelem)
	}
	if nquad < 1 {
		chk.Panic("mesh needs at least one Gauss point per element. nquad=%d is invalid", nquad)
	}
	o = new(Mesh)
	o.Basis = NewLagrange(degree)
	o.Nelem = nelem
	o.Nquad = nquad
	o.Nnodes = nelem*degree + 1
	o.Xg, o.Wg = GaussPoints(nquad)
	nne := o.Basis.Nnodes
	o.Ng = make([]float64, nquad*nne)
	o.Ngxi = make([]float64, nquad*nne)
	for iq := 0; iq < nquad; iq++ {
		o.Basis.Eval(o.Ng[iq*nne:(iq+1)*nne], o.Ngxi[iq*nne:(iq+1)*nne], o.Xg[iq])
	}
	o.Conn = make([][]int, nelem)
	for e := 0; e < nelem; e++ {
		o.Conn[e] = make([]int, nne)
		for a := 0; a < nne; a++ {
			o.Conn[e][a] = e*degree + a
		}
	}
	return
}

// AtGauss returns the precomputed basis values and derivatives at Gauss
// point iq. The derivatives are with respect to the element coordinate in
// [-1,1].
func (o *Mesh) AtGauss(iq int) (N, Nxi []float64) {
	nne := o.Basis.Nnodes
	return o.Ng[iq*nne : (iq+1)*nne], o.Ngxi[iq*nne : (iq+1)*nne]
}

// Locate maps the global parametric coordinate xi in [0,1] to the containing
// element and its local coordinate in [-1,1]. xi outside [0,1] is clamped to
// the boundary elements.
func (o *Mesh) Locate(xi float64) (e int, xl float64) {
	z := xi * float64(o.Nelem)
	e = int(z)
	if e < 0 {
		e = 0
	}
	if e > o.Nelem-1 {
		e = o.Nelem - 1
	}
	xl = 2.0*(z-float64(e)) - 1.0
	if xl < -1 {
		xl = -1
	}
	if xl > 1 {
		xl = 1
	}
	return
}

// NodeXi returns the parametric coordinate of global node n
func (o *Mesh) NodeXi(n int) float64 {
	return float64(n) / float64(o.Nnodes-1)
}
