// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

// Solution is the append-only trajectory record produced by the
// time-stepping schemes. Multiplier histories are present only when the
// active scheme computes them; absent ones stay nil.
type Solution struct {
	T     []float64
	Q     [][]float64
	U     [][]float64
	LaG   [][]float64 // bilateral multipliers
	LaGam [][]float64 // velocity-level bilateral multipliers
	LaN   [][]float64 // normal contact impulses/forces
	LaF   [][]float64 // friction impulses/forces

	// per-sample step diagnostics
	Iters []int
	Errs  []float64
}

// Append copies one time sample into the record; nil multiplier slices are
// allowed and recorded as nil
func (o *Solution) Append(t float64, q, u, laG, laGam, laN, laF []float64, iters int, errNorm float64) {
	o.T = append(o.T, t)
	o.Q = append(o.Q, clone(q))
	o.U = append(o.U, clone(u))
	o.LaG = append(o.LaG, clone(laG))
	o.LaGam = append(o.LaGam, clone(laGam))
	o.LaN = append(o.LaN, clone(laN))
	o.LaF = append(o.LaF, clone(laF))
	o.Iters = append(o.Iters, iters)
	o.Errs = append(o.Errs, errNorm)
}

// Nsamples returns the number of recorded samples
func (o *Solution) Nsamples() int { return len(o.T) }

// Last returns the final time, coordinates and velocities
func (o *Solution) Last() (t float64, q, u []float64) {
	n := len(o.T)
	if n == 0 {
		return
	}
	return o.T[n-1], o.Q[n-1], o.U[n-1]
}

func clone(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
