// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Statics is the static / quasi-static Newton solver. The unknowns are the
// coordinates and the bilateral multipliers; the residual stacks the
// equilibrium equations, the internal coordinate constraints and the
// bilateral constraints:
//
//	R = [ h(t,q,0) + Wg(q) laG ; gS(q) ; g(t,q) ]
//
// Velocity-level constraints and contacts do not enter a static solve.
type Statics struct {
	Dmn *Domain
	Cfg *Config

	// state, kept across Solve calls for quasi-static continuation
	Q   []float64
	LaG []float64
}

// NewStatics allocates the solver with the domain's initial configuration
func NewStatics(d *Domain, cfg *Config) (o *Statics) {
	cfg.SetDefault()
	o = &Statics{Dmn: d, Cfg: cfg}
	o.Q, _ = d.InitState()
	o.LaG = make([]float64, d.NlaG)
	return
}

// residual evaluates R at the current state
func (o *Statics) residual(R []float64, t float64, u []float64) {
	d := o.Dmn
	nu, ns, ng := d.Nu, d.NlaS, d.NlaG
	for i := range R {
		R[i] = 0
	}
	d.H(R[:nu], t, o.Q, u)
	if ng > 0 {
		Wg := d.WG(t, o.Q)
		for i := 0; i < nu; i++ {
			for j := 0; j < ng; j++ {
				R[i] += Wg[i][j] * o.LaG[j]
			}
		}
		d.G(R[nu+ns:], t, o.Q)
	}
	if ns > 0 {
		d.GS(R[nu:], o.Q)
	}
}

// Solve finds the equilibrium configuration at time t by a full Newton
// iteration with analytic tangent
func (o *Statics) Solve(t float64) (iters int, err error) {

	d := o.Dmn
	nu, nq, ns, ng := d.Nu, d.Nq, d.NlaS, d.NlaG
	n := nq + ng
	if nu+ns+ng != n {
		chk.Panic("static system is not square: nu+nlaS+nlaG = %d, nq+nlaG = %d", nu+ns+ng, n)
	}

	u := make([]float64, nu)
	R := make([]float64, n)
	x := make([]float64, n)
	mR := make([]float64, n)

	for iters = 0; iters < o.Cfg.ItMax; iters++ {

		o.residual(R, t, u)
		res := maxAbs(R)
		if o.Cfg.Verbose {
			io.Pf("statics: it=%d |R|=%g\n", iters, res)
		}
		if res < o.Cfg.Tol {
			d.StepCallback(t, o.Q, u)
			return iters, nil
		}

		// tangent
		K := new(la.Triplet)
		K.Init(n, n, d.NnzKh()+nq*ng+(ns+ng)*nq+2*nu*ng+1)
		d.AddKh(K, t, o.Q, u)
		if ng > 0 {
			d.AddWlaQ(K, t, o.Q, o.LaG)
			Wg := d.WG(t, o.Q)
			putBlock(K, 0, nq, Wg, +1, false)
			putBlock(K, nu+ns, 0, d.Gq(t, o.Q), +1, false)
		}
		if ns > 0 {
			putBlock(K, nu, 0, d.GSq(o.Q), +1, false)
		}

		for i := range R {
			mR[i] = -R[i]
		}
		if err = solveSparse(o.Cfg.LinSolName, K, x, mR); err != nil {
			return iters, chk.Err("statics: %v", err)
		}

		for i := 0; i < nq; i++ {
			o.Q[i] += x[i]
		}
		for j := 0; j < ng; j++ {
			o.LaG[j] += x[nq+j]
		}
	}
	return iters, chk.Err("statics: Newton did not converge within %d iterations", o.Cfg.ItMax)
}

// Run marches the load parameter from T0 to Tf in steps of Dt, solving an
// equilibrium at each sample (quasi-static continuation)
func (o *Statics) Run() (*Solution, error) {
	sol := new(Solution)
	u := make([]float64, o.Dmn.Nu)
	t := o.Cfg.T0
	for {
		iters, err := o.Solve(t)
		if err != nil {
			return sol, err
		}
		sol.Append(t, o.Q, u, o.LaG, nil, nil, nil, iters, 0)
		if t >= o.Cfg.Tf {
			return sol, nil
		}
		t += o.Cfg.Dt
		if t > o.Cfg.Tf {
			t = o.Cfg.Tf
		}
	}
}
