// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Lobatto is the partitioned IIIA/IIIB stage scheme. Stage velocities
// follow the IIIA tableau while constraint impulse rates follow IIIB, whose
// vanishing last column removes the final stage multiplier from the system;
// constraints are enforced at the velocity level on stages 2..s. All stage
// unknowns are solved as one coupled nonlinear system per step. Active sets
// are detected per interior stage from the one-step-lagged stage impulses
// and from the predicted stage gaps; the endpoint additionally unions the
// previous step's whole impulse history.
type Lobatto struct {
	Dmn *Domain
	Cfg *Config

	tA, tB tableau
	s      int

	// lagged stage impulse rates, for warm starts and active sets
	prevLamN [][]float64
}

// NewLobatto allocates the scheme
func NewLobatto(d *Domain, cfg *Config) (o *Lobatto) {
	cfg.SetDefault()
	o = &Lobatto{Dmn: d, Cfg: cfg, s: cfg.Stages}
	o.tA, o.tB = lobattoPair(cfg.Stages)
	m1 := o.s - 1
	o.prevLamN = make([][]float64, m1)
	for i := range o.prevLamN {
		o.prevLamN[i] = make([]float64, d.NlaN)
	}
	return
}

// lobattoStage caches per-stage operator evaluations during one residual
type lobattoStage struct {
	t      float64
	Q      []float64
	active []bool
}

// Run integrates from T0 to Tf with fixed step Dt
func (o *Lobatto) Run() (sol *Solution, err error) {

	d, cfg := o.Dmn, o.Cfg
	q, u := d.InitState()
	if _, err = ConsistentIC(d, cfg, cfg.T0, q, u, nil, nil); err != nil {
		return nil, err
	}

	m1 := o.s - 1
	nu, ng, ngam, nn, nf := d.Nu, d.NlaG, d.NlaGam, d.NlaN, d.NlaF
	nx := m1 * (nu + ng + ngam + nn + nf)
	X := make([]float64, nx)

	sol = new(Solution)
	sol.Append(cfg.T0, q, u, make([]float64, ng), make([]float64, ngam), make([]float64, nn), make([]float64, nf), 0, 0)

	t := cfg.T0
	for t < cfg.Tf-1e-12*(cfg.Tf-cfg.T0) {
		h := cfg.Dt
		if t+h > cfg.Tf {
			h = cfg.Tf - t
		}
		iters, err := o.step(t, h, q, u, X)
		if err != nil {
			return sol, chk.Err("lobatto: step at t=%g failed: %v", t, err)
		}
		t += h
		d.StepCallback(t, q, u)
		// record the final multiplier stage of each kind
		oG := m1 * nu
		oGam := oG + m1*ng
		oN := oGam + m1*ngam
		oF := oN + m1*nn
		laG := X[oG+(m1-1)*ng : oG+m1*ng]
		laGam := X[oGam+(m1-1)*ngam : oGam+m1*ngam]
		laN := X[oN+(m1-1)*nn : oN+m1*nn]
		laF := X[oF+(m1-1)*nf : oF+m1*nf]
		sol.Append(t, q, u, laG, laGam, laN, laF, iters, 0)
		if cfg.Verbose {
			io.Pf("lobatto: t=%g it=%d\n", t, iters)
		}
	}
	return sol, nil
}

// stages predicts stage positions and decides the stage active sets
func (o *Lobatto) stages(tn, h float64, qn, un []float64) (st []lobattoStage) {
	d := o.Dmn
	st = make([]lobattoStage, o.s)
	qd := make([]float64, d.Nq)
	d.Qdot(qd, tn, qn, un)
	for i := 0; i < o.s; i++ {
		st[i].t = tn + o.tA.C[i]*h
		st[i].Q = make([]float64, d.Nq)
		for k := range qn {
			st[i].Q[k] = qn[k] + h*o.tA.C[i]*qd[k]
		}
		st[i].active = make([]bool, d.NlaN)
		if d.NlaN == 0 {
			continue
		}
		gn := make([]float64, d.NlaN)
		d.GN(gn, st[i].t, st[i].Q)
		for k := 0; k < d.NlaN; k++ {
			st[i].active[k] = gn[k] <= 0
			if i > 0 && i < o.s-1 && o.prevLamN[i-1][k] > 0 {
				st[i].active[k] = true
			}
			if i == o.s-1 {
				for _, lam := range o.prevLamN {
					if lam[k] > 0 {
						st[i].active[k] = true
					}
				}
			}
		}
	}
	return
}

// residual evaluates the coupled stage system. Layout of X (m1 = s-1):
//
//	[U_2..U_s | LamG_1..LamG_m1 | LamGam_1.. | LamN_1.. | LamF_1..]
//
// Momentum rows live at the U offsets, velocity-level constraint rows of
// stage i+1 at the LamG/LamGam offsets, and the contact prox rows at the
// LamN/LamF offsets.
func (o *Lobatto) residual(R, X []float64, tn, h float64, qn, un []float64, st []lobattoStage, Mcc *la.CCMatrix) {

	d := o.Dmn
	m1 := o.s - 1
	nu, ng, ngam, nn, nf := d.Nu, d.NlaG, d.NlaGam, d.NlaN, d.NlaF
	oG := m1 * nu
	oGam := oG + m1*ng
	oN := oGam + m1*ngam
	oF := oN + m1*nn

	// stage velocities, including the explicit first stage
	U := make([][]float64, o.s)
	U[0] = un
	for i := 1; i < o.s; i++ {
		U[i] = X[(i-1)*nu : i*nu]
	}

	// stage positions from the frozen kinematic map
	qd := make([]float64, d.Nq)
	Q := make([][]float64, o.s)
	for i := 0; i < o.s; i++ {
		Q[i] = make([]float64, d.Nq)
		copy(Q[i], qn)
	}
	for j := 0; j < o.s; j++ {
		d.Qdot(qd, st[j].t, qn, U[j])
		for i := 0; i < o.s; i++ {
			if a := o.tA.A[i][j]; a != 0 {
				for k := range qd {
					Q[i][k] += h * a * qd[k]
				}
			}
		}
	}

	// stage forces and force directions
	hv := make([][]float64, o.s)
	for j := 0; j < o.s; j++ {
		hv[j] = make([]float64, nu)
		d.H(hv[j], st[j].t, Q[j], U[j])
	}

	for i := range R {
		R[i] = 0
	}

	// momentum rows for stages 2..s
	tmp := make([]float64, nu)
	for i := 1; i < o.s; i++ {
		row := (i - 1) * nu
		la.SpMatVecMul(tmp, 1, Mcc, U[i])
		mtmp := make([]float64, nu)
		la.SpMatVecMul(mtmp, 1, Mcc, un)
		for k := 0; k < nu; k++ {
			R[row+k] = tmp[k] - mtmp[k]
		}
		for j := 0; j < o.s; j++ {
			if a := o.tA.A[i][j]; a != 0 {
				for k := 0; k < nu; k++ {
					R[row+k] -= h * a * hv[j][k]
				}
			}
		}
		for j := 0; j < m1; j++ {
			a := o.tB.A[i][j]
			if a == 0 {
				continue
			}
			Wg := d.WG(st[j].t, Q[j])
			Wgam := d.WGam(st[j].t, Q[j])
			Wn := d.WN(st[j].t, Q[j])
			Wf := d.WF(st[j].t, Q[j])
			for k := 0; k < nu; k++ {
				for c := 0; c < ng; c++ {
					R[row+k] -= h * a * Wg[k][c] * X[oG+j*ng+c]
				}
				for c := 0; c < ngam; c++ {
					R[row+k] -= h * a * Wgam[k][c] * X[oGam+j*ngam+c]
				}
				for c := 0; c < nn; c++ {
					R[row+k] -= h * a * Wn[k][c] * X[oN+j*nn+c]
				}
				for c := 0; c < nf; c++ {
					R[row+k] -= h * a * Wf[k][c] * X[oF+j*nf+c]
				}
			}
		}
	}

	// velocity-level constraint rows at stages 2..s
	for i := 1; i < o.s; i++ {
		if ng > 0 {
			gd := make([]float64, ng)
			d.GDot(gd, st[i].t, Q[i], U[i])
			copy(R[oG+(i-1)*ng:oG+i*ng], gd)
		}
		if ngam > 0 {
			gam := make([]float64, ngam)
			d.Gamma(gam, st[i].t, Q[i], U[i])
			copy(R[oGam+(i-1)*ngam:oGam+i*ngam], gam)
		}
	}

	// contact prox rows: stage multiplier block j pairs with stage j+1
	for i := 1; i < o.s; i++ {
		j := i - 1
		if nn > 0 {
			gnd := make([]float64, nn)
			d.GNDot(gnd, st[i].t, Q[i], U[i])
			for k := 0; k < nn; k++ {
				lam := X[oN+j*nn+k]
				if st[i].active[k] {
					R[oN+j*nn+k] = lam - ProxRPlus(lam-d.RNAll[k]*gnd[k])
				} else {
					R[oN+j*nn+k] = lam
				}
			}
			gf := make([]float64, nf)
			d.GammaF(gf, st[i].t, Q[i], U[i])
			for kg, grp := range d.Groups {
				z := make([]float64, len(grp))
				for k, c := range grp {
					z[k] = X[oF+j*nf+c] - d.RFAll[c]*gf[c]
				}
				var pf []float64
				if st[i].active[kg] {
					pf = ProxDisk(z, d.MuAll[kg]*X[oN+j*nn+kg])
				} else {
					pf = make([]float64, len(grp))
				}
				for k, c := range grp {
					R[oF+j*nf+c] = X[oF+j*nf+c] - pf[k]
				}
			}
		}
	}
}

// step solves the coupled stage system by Newton iteration with a
// forward-difference Jacobian and advances the state
func (o *Lobatto) step(tn, h float64, q, u, X []float64) (iters int, err error) {

	d, cfg := o.Dmn, o.Cfg
	m1 := o.s - 1
	nu := d.Nu
	nx := len(X)
	st := o.stages(tn, h, q, u)
	Mcc := massMatrix(d, q)

	// warm start: stage velocities from the current velocity
	for i := 0; i < m1; i++ {
		copy(X[i*nu:(i+1)*nu], u)
	}

	R := make([]float64, nx)
	Rp := make([]float64, nx)
	mR := make([]float64, nx)
	dX := make([]float64, nx)

	for iters = 0; iters < cfg.ItMax; iters++ {
		o.residual(R, X, tn, h, q, u, st, Mcc)
		if maxAbs(R) < cfg.Tol {
			break
		}
		if iters == cfg.ItMax-1 {
			return iters, chk.Err("stage Newton did not converge within %d iterations", cfg.ItMax)
		}

		// forward-difference Jacobian
		K := new(la.Triplet)
		K.Init(nx, nx, nx*nx+1)
		for c := 0; c < nx; c++ {
			eps := 1e-7 * (1 + math.Abs(X[c]))
			X[c] += eps
			o.residual(Rp, X, tn, h, q, u, st, Mcc)
			X[c] -= eps
			for r := 0; r < nx; r++ {
				if v := (Rp[r] - R[r]) / eps; v != 0 {
					K.Put(r, c, v)
				}
			}
		}
		for i := range R {
			mR[i] = -R[i]
		}
		if err = solveSparse(cfg.LinSolName, K, dX, mR); err != nil {
			return iters, err
		}
		for i := range X {
			X[i] += dX[i]
		}
	}

	// advance: u_{n+1} = U_s, q_{n+1} from the IIIA weights
	qd := make([]float64, d.Nq)
	qNew := make([]float64, d.Nq)
	copy(qNew, q)
	for j := 0; j < o.s; j++ {
		Uj := u
		if j > 0 {
			Uj = X[(j-1)*nu : j*nu]
		}
		d.Qdot(qd, st[j].t, q, Uj)
		for k := range qNew {
			qNew[k] += h * o.tA.B[j] * qd[k]
		}
	}
	copy(q, qNew)
	copy(u, X[(m1-1)*nu:m1*nu])

	// lag the stage impulse rates for the next step's active sets
	oN := m1 * (nu + d.NlaG + d.NlaGam)
	for j := 0; j < m1; j++ {
		copy(o.prevLamN[j], X[oN+j*d.NlaN:oN+(j+1)*d.NlaN])
	}
	return iters, nil
}
