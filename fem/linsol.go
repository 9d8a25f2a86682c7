// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// sparseSolver wraps a factorized real sparse matrix for repeated solves
type sparseSolver struct {
	ls la.LinSol
}

// newSparseSolver initializes and factorizes K
func newSparseSolver(name string, K *la.Triplet) (o *sparseSolver, err error) {
	o = &sparseSolver{ls: la.GetSolver(name)}
	if err = o.ls.InitR(K, false, false, false); err != nil {
		o.ls.Free()
		return nil, chk.Err("cannot initialize linear solver: %v", err)
	}
	if err = o.ls.Fact(); err != nil {
		o.ls.Free()
		return nil, chk.Err("cannot factorize matrix: %v", err)
	}
	return
}

// Solve computes x from K x = b using the stored factorization
func (o *sparseSolver) Solve(x, b []float64) error {
	if err := o.ls.SolveR(x, b, false); err != nil {
		return chk.Err("linear solve failed: %v", err)
	}
	return nil
}

// Free releases the factorization
func (o *sparseSolver) Free() {
	o.ls.Free()
}

// solveSparse factorizes K and solves K x = b once
func solveSparse(name string, K *la.Triplet, x, b []float64) error {
	s, err := newSparseSolver(name, K)
	if err != nil {
		return err
	}
	defer s.Free()
	if err := s.ls.SolveR(x, b, false); err != nil {
		return chk.Err("linear solve failed: %v", err)
	}
	return nil
}

// sparseSolverC wraps a factorized complex sparse matrix
type sparseSolverC struct {
	ls la.LinSol
}

// newSparseSolverC initializes and factorizes the complex matrix K
func newSparseSolverC(name string, K *la.TripletC) (o *sparseSolverC, err error) {
	o = &sparseSolverC{ls: la.GetSolver(name)}
	if err = o.ls.InitC(K, false, false, false); err != nil {
		o.ls.Free()
		return nil, chk.Err("cannot initialize complex linear solver: %v", err)
	}
	if err = o.ls.Fact(); err != nil {
		o.ls.Free()
		return nil, chk.Err("cannot factorize complex matrix: %v", err)
	}
	return
}

// Solve computes x from K x = b with split real/imaginary storage
func (o *sparseSolverC) Solve(xR, xC, bR, bC []float64) error {
	if err := o.ls.SolveC(xR, xC, bR, bC, false); err != nil {
		return chk.Err("complex linear solve failed: %v", err)
	}
	return nil
}

// Free releases the factorization
func (o *sparseSolverC) Free() {
	o.ls.Free()
}
