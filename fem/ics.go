// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// InitialState is the output of the consistent initial-condition solve
type InitialState struct {
	T     float64
	Q     []float64
	U     []float64
	Ud    []float64
	LaG   []float64
	LaGam []float64
}

// putBlock adds alpha times the dense block B, optionally transposed, at
// the given offsets of the sparse triplet
func putBlock(K *la.Triplet, i0, j0 int, B [][]float64, alpha float64, transpose bool) {
	for i := 0; i < len(B); i++ {
		for j := 0; j < len(B[i]); j++ {
			if B[i][j] == 0 {
				continue
			}
			if transpose {
				K.Put(i0+j, j0+i, alpha*B[i][j])
			} else {
				K.Put(i0+i, j0+j, alpha*B[i][j])
			}
		}
	}
}

func maxAbs(v []float64) (m float64) {
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return
}

// ConsistentIC projects the given initial state onto the constraint
// manifold at the acceleration level: it solves the KKT system
//
//	[M, -Wg, -Wgam; Wg', 0, 0; Wgam', 0, 0] [ud; laG; laGam] = [h; -zetaG; -zetaGam]
//
// and asserts that position-, velocity- and acceleration-level residuals
// and the contact data are feasible. Known initial contact forces enter
// the momentum rows as WN laN0 + WF laF0; nil slices mean zero forces.
// It is called once, before the first time step.
func ConsistentIC(d *Domain, cfg *Config, t0 float64, q0, u0, laN0, laF0 []float64) (s *InitialState, err error) {

	tol := cfg.Tol

	// position-level feasibility
	if d.NlaG > 0 {
		g := make([]float64, d.NlaG)
		d.G(g, t0, q0)
		if r := maxAbs(g); r > tol {
			return nil, chk.Err("initial configuration violates bilateral constraints: |g| = %g > %g", r, tol)
		}
	}
	if d.NlaS > 0 {
		gs := make([]float64, d.NlaS)
		d.GS(gs, q0)
		if r := maxAbs(gs); r > tol {
			return nil, chk.Err("initial configuration violates internal coordinate constraints: |gS| = %g > %g", r, tol)
		}
	}

	// velocity-level feasibility
	if d.NlaG > 0 {
		gd := make([]float64, d.NlaG)
		d.GDot(gd, t0, q0, u0)
		if r := maxAbs(gd); r > tol {
			return nil, chk.Err("initial velocities violate bilateral constraints: |gdot| = %g > %g", r, tol)
		}
	}
	if d.NlaGam > 0 {
		gam := make([]float64, d.NlaGam)
		d.Gamma(gam, t0, q0, u0)
		if r := maxAbs(gam); r > tol {
			return nil, chk.Err("initial velocities violate velocity constraints: |gamma| = %g > %g", r, tol)
		}
	}

	// contact feasibility: no penetration, and closed contacts must not
	// approach
	if d.NlaN > 0 {
		gn := make([]float64, d.NlaN)
		gnd := make([]float64, d.NlaN)
		d.GN(gn, t0, q0)
		d.GNDot(gnd, t0, q0, u0)
		for i := 0; i < d.NlaN; i++ {
			if gn[i] < -tol {
				return nil, chk.Err("initial gap %d is negative: %g", i, gn[i])
			}
			if gn[i] <= tol && gnd[i] < -tol {
				return nil, chk.Err("closed contact %d has approaching velocity: %g", i, gnd[i])
			}
		}
	}

	// KKT system for the initial accelerations and multipliers
	nu, ng, ngam := d.Nu, d.NlaG, d.NlaGam
	n := nu + ng + ngam
	K := new(la.Triplet)
	K.Init(n, n, d.NnzM()+4*nu*(ng+ngam)+1)
	d.AddM(K, q0)
	Wg := d.WG(t0, q0)
	Wgam := d.WGam(t0, q0)
	putBlock(K, 0, nu, Wg, -1, false)
	putBlock(K, nu, 0, Wg, +1, true)
	putBlock(K, 0, nu+ng, Wgam, -1, false)
	putBlock(K, nu+ng, 0, Wgam, +1, true)
	for i := nu; i < n; i++ {
		// keep the factorization well posed when a constraint block is empty
		K.Put(i, i, 0)
	}

	b := make([]float64, n)
	d.H(b[:nu], t0, q0, u0)
	if laN0 != nil {
		Wn := d.WN(t0, q0)
		for i := 0; i < nu; i++ {
			for j := 0; j < d.NlaN; j++ {
				b[i] += Wn[i][j] * laN0[j]
			}
		}
	}
	if laF0 != nil {
		Wf := d.WF(t0, q0)
		for i := 0; i < nu; i++ {
			for j := 0; j < d.NlaF; j++ {
				b[i] += Wf[i][j] * laF0[j]
			}
		}
	}
	if ng > 0 {
		zg := make([]float64, ng)
		d.GDDot(zg, t0, q0, u0, nil)
		for i := 0; i < ng; i++ {
			b[nu+i] = -zg[i]
		}
	}
	if ngam > 0 {
		zgam := make([]float64, ngam)
		d.GammaDot(zgam, t0, q0, u0, nil)
		for i := 0; i < ngam; i++ {
			b[nu+ng+i] = -zgam[i]
		}
	}

	x := make([]float64, n)
	if err = solveSparse(cfg.LinSolName, K, x, b); err != nil {
		return nil, chk.Err("initial-condition KKT solve: %v", err)
	}

	s = &InitialState{T: t0, Q: clone(q0), U: clone(u0)}
	s.Ud = clone(x[:nu])
	s.LaG = clone(x[nu : nu+ng])
	s.LaGam = clone(x[nu+ng : n])

	// acceleration-level feasibility
	if ng > 0 {
		gdd := make([]float64, ng)
		udFull := make([]float64, nu)
		copy(udFull, s.Ud)
		d.GDDot(gdd, t0, q0, u0, udFull)
		if r := maxAbs(gdd); r > tol*10 {
			return nil, chk.Err("initial accelerations violate bilateral constraints: |gddot| = %g", r)
		}
	}
	if ngam > 0 {
		gamd := make([]float64, ngam)
		d.GammaDot(gamd, t0, q0, u0, s.Ud)
		if r := maxAbs(gamd); r > tol*10 {
			return nil, chk.Err("initial accelerations violate velocity constraints: |gammadot| = %g", r)
		}
	}
	return
}
