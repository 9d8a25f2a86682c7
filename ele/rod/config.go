// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rod

import (
	"github.com/lisaeb/cardillo/rot"
	"github.com/lisaeb/cardillo/shp"
)

// Straight builds the coordinates of a straight rod of length L: node
// positions start at r0 and advance along the first column of A, and every
// cross-section carries the orientation A
func Straight(msh *shp.Mesh, r0 [3]float64, A [][]float64, L float64) []float64 {
	nn := msh.Nnodes
	q := make([]float64, 7*nn)
	var p [4]float64
	rot.FromMatrix(p[:], A)
	for n := 0; n < nn; n++ {
		s := msh.NodeXi(n) * L
		for i := 0; i < 3; i++ {
			q[3*n+i] = r0[i] + s*A[i][0]
		}
		for c := 0; c < 4; c++ {
			q[3*nn+4*n+c] = p[c]
		}
	}
	return q
}

// Deformed builds rod coordinates from user supplied centreline and
// orientation fields sampled at the nodes
func Deformed(msh *shp.Mesh, pos func(xi float64) [3]float64, ornt func(xi float64) [][]float64) []float64 {
	nn := msh.Nnodes
	q := make([]float64, 7*nn)
	var p [4]float64
	for n := 0; n < nn; n++ {
		xi := msh.NodeXi(n)
		r := pos(xi)
		rot.FromMatrix(p[:], ornt(xi))
		for i := 0; i < 3; i++ {
			q[3*n+i] = r[i]
		}
		for c := 0; c < 4; c++ {
			q[3*nn+4*n+c] = p[c]
		}
	}
	return q
}
