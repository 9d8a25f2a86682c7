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

// Moreau is the velocity-level time-stepping scheme with midpoint position
// prediction and set-valued contact resolved by proximal-point iteration.
// Two contact strategies are available: a fixed-point sweep over the prox
// maps ("fixedpoint") and a semismooth Newton solve of the full coupled
// system ("newton"). Multipliers are recorded as percussions (impulses) of
// each step.
type Moreau struct {
	Dmn *Domain
	Cfg *Config

	// warm-started impulses
	PN, PF []float64
}

// NewMoreau allocates the scheme
func NewMoreau(d *Domain, cfg *Config) *Moreau {
	cfg.SetDefault()
	return &Moreau{Dmn: d, Cfg: cfg}
}

// Run integrates from T0 to Tf with fixed step Dt
func (o *Moreau) Run() (sol *Solution, err error) {

	d, cfg := o.Dmn, o.Cfg
	q, u := d.InitState()
	if _, err = ConsistentIC(d, cfg, cfg.T0, q, u, nil, nil); err != nil {
		return nil, err
	}

	o.PN = make([]float64, d.NlaN)
	o.PF = make([]float64, d.NlaF)
	Pg := make([]float64, d.NlaG)
	Pgam := make([]float64, d.NlaGam)

	sol = new(Solution)
	sol.Append(cfg.T0, q, u, Pg, Pgam, o.PN, o.PF, 0, 0)

	t := cfg.T0
	for t < cfg.Tf-1e-12*(cfg.Tf-cfg.T0) {
		dt := cfg.Dt
		if t+dt > cfg.Tf {
			dt = cfg.Tf - t
		}
		var iters int
		if cfg.Strategy == "newton" {
			iters, err = o.stepNewton(t, dt, q, u, Pg, Pgam)
		} else {
			iters, err = o.stepFixedPoint(t, dt, q, u, Pg, Pgam)
		}
		if err != nil {
			return sol, chk.Err("moreau: step at t=%g failed: %v", t, err)
		}
		t += dt
		d.StepCallback(t, q, u)
		sol.Append(t, q, u, Pg, Pgam, o.PN, o.PF, iters, 0)
		if cfg.Verbose {
			io.Pf("moreau: t=%g it=%d\n", t, iters)
		}
	}
	return sol, nil
}

// midpoint predicts the position and evaluates all operators there
type moreauOps struct {
	tm     float64
	qm     []float64
	h      []float64
	Wn, Wf [][]float64
	active []bool
	gd0    []float64 // explicit part of the bilateral constraint rates
	gam0   []float64
	gndA   []float64 // beginning-of-step gap rates, for restitution
	gfA    []float64
}

func (o *Moreau) prepare(t, dt float64, q, u []float64) (ops *moreauOps) {
	d := o.Dmn
	ops = new(moreauOps)
	ops.tm = t + 0.5*dt
	qd := make([]float64, d.Nq)
	d.Qdot(qd, t, q, u)
	ops.qm = make([]float64, d.Nq)
	for i := range q {
		ops.qm[i] = q[i] + 0.5*dt*qd[i]
	}
	ops.h = make([]float64, d.Nu)
	d.H(ops.h, ops.tm, ops.qm, u)
	ops.Wn = d.WN(ops.tm, ops.qm)
	ops.Wf = d.WF(ops.tm, ops.qm)
	zero := make([]float64, d.Nu)
	ops.gd0 = make([]float64, d.NlaG)
	d.GDot(ops.gd0, ops.tm, ops.qm, zero)
	ops.gam0 = make([]float64, d.NlaGam)
	d.Gamma(ops.gam0, ops.tm, ops.qm, zero)
	gn := make([]float64, d.NlaN)
	d.GN(gn, ops.tm, ops.qm)
	ops.active = make([]bool, d.NlaN)
	for i := range gn {
		ops.active[i] = gn[i] <= 0
	}
	ops.gndA = make([]float64, d.NlaN)
	d.GNDot(ops.gndA, ops.tm, ops.qm, u)
	ops.gfA = make([]float64, d.NlaF)
	d.GammaF(ops.gfA, ops.tm, ops.qm, u)
	return
}

// finish advances the position with the midpoint rule and stores the state
func (o *Moreau) finish(dt float64, ops *moreauOps, q, u, uNew []float64) {
	d := o.Dmn
	qd := make([]float64, d.Nq)
	d.Qdot(qd, ops.tm, ops.qm, uNew)
	for i := range q {
		q[i] = ops.qm[i] + 0.5*dt*qd[i]
	}
	copy(u, uNew)
}

// proxUpdate sweeps the normal and friction prox maps once, returning the
// largest impulse change
func (o *Moreau) proxUpdate(ops *moreauOps, uPlus []float64) (diff float64) {
	d := o.Dmn
	gnd := make([]float64, d.NlaN)
	d.GNDot(gnd, ops.tm, ops.qm, uPlus)
	gf := make([]float64, d.NlaF)
	d.GammaF(gf, ops.tm, ops.qm, uPlus)
	for i := 0; i < d.NlaN; i++ {
		pn := 0.0
		if ops.active[i] {
			xi := gnd[i] + d.ENAll[i]*ops.gndA[i]
			pn = ProxRPlus(o.PN[i] - d.RNAll[i]*xi)
		}
		if c := math.Abs(pn - o.PN[i]); c > diff {
			diff = c
		}
		o.PN[i] = pn
	}
	for i, grp := range d.Groups {
		z := make([]float64, len(grp))
		for k, j := range grp {
			xi := gf[j] + d.EFAll[j]*ops.gfA[j]
			z[k] = o.PF[j] - d.RFAll[j]*xi
		}
		pf := ProxDisk(z, d.MuAll[i]*o.PN[i])
		if !ops.active[i] {
			for k := range pf {
				pf[k] = 0
			}
		}
		for k, j := range grp {
			if c := math.Abs(pf[k] - o.PF[j]); c > diff {
				diff = c
			}
			o.PF[j] = pf[k]
		}
	}
	return
}

// stepFixedPoint factorizes the bilateral KKT matrix once and alternates
// linear solves with prox sweeps until the impulses settle
func (o *Moreau) stepFixedPoint(t, dt float64, q, u, Pg, Pgam []float64) (iters int, err error) {

	d, cfg := o.Dmn, o.Cfg
	nu, ng, ngam := d.Nu, d.NlaG, d.NlaGam
	n := nu + ng + ngam
	ops := o.prepare(t, dt, q, u)

	// KKT matrix at the midpoint
	K := new(la.Triplet)
	K.Init(n, n, d.NnzM()+4*nu*(ng+ngam)+1)
	d.AddM(K, ops.qm)
	Wg := d.WG(ops.tm, ops.qm)
	Wgam := d.WGam(ops.tm, ops.qm)
	putBlock(K, 0, nu, Wg, -1, false)
	putBlock(K, nu, 0, Wg, +1, true)
	putBlock(K, 0, nu+ng, Wgam, -1, false)
	putBlock(K, nu+ng, 0, Wgam, +1, true)
	Mcc := massMatrix(d, ops.qm)

	ss, err := newSparseSolver(cfg.LinSolName, K)
	if err != nil {
		return 0, err
	}
	defer ss.Free()

	// rhs: M un + dt h + contact percussions
	b := make([]float64, n)
	x := make([]float64, n)
	rhs := func() {
		la.SpMatVecMul(b[:nu], 1, Mcc, u)
		for i := 0; i < nu; i++ {
			b[i] += dt * ops.h[i]
			for j := 0; j < d.NlaN; j++ {
				b[i] += ops.Wn[i][j] * o.PN[j]
			}
			for j := 0; j < d.NlaF; j++ {
				b[i] += ops.Wf[i][j] * o.PF[j]
			}
		}
		for i := 0; i < ng; i++ {
			b[nu+i] = -ops.gd0[i]
		}
		for i := 0; i < ngam; i++ {
			b[nu+ng+i] = -ops.gam0[i]
		}
	}

	anyActive := false
	for _, a := range ops.active {
		if a {
			anyActive = true
		}
	}
	for i, a := range ops.active {
		if !a {
			o.PN[i] = 0
			for _, j := range d.Groups[i] {
				o.PF[j] = 0
			}
		}
	}

	for iters = 0; iters < cfg.ItMax; iters++ {
		rhs()
		if err = ss.Solve(x, b); err != nil {
			return iters, err
		}
		if !anyActive {
			break
		}
		diff := o.proxUpdate(ops, x[:nu])
		if diff < cfg.Tol {
			rhs()
			if err = ss.Solve(x, b); err != nil {
				return iters, err
			}
			break
		}
		if iters == cfg.ItMax-1 {
			return iters, chk.Err("prox fixed-point iteration did not converge within %d sweeps", cfg.ItMax)
		}
	}

	copy(Pg, x[nu:nu+ng])
	copy(Pgam, x[nu+ng:n])
	o.finish(dt, ops, q, u, x[:nu])
	return iters, nil
}

// massMatrix assembles the mass matrix into compressed form
func massMatrix(d *Domain, q []float64) *la.CCMatrix {
	M := new(la.Triplet)
	M.Init(d.Nu, d.Nu, d.NnzM())
	d.AddM(M, q)
	return M.ToMatrix(nil)
}

// stepNewton solves the coupled velocity/impulse system, including the prox
// equations, by a semismooth Newton iteration
func (o *Moreau) stepNewton(t, dt float64, q, u, Pg, Pgam []float64) (iters int, err error) {

	d, cfg := o.Dmn, o.Cfg
	nu, ng, ngam, nn, nf := d.Nu, d.NlaG, d.NlaGam, d.NlaN, d.NlaF
	n := nu + ng + ngam + nn + nf
	ops := o.prepare(t, dt, q, u)

	Wg := d.WG(ops.tm, ops.qm)
	Wgam := d.WGam(ops.tm, ops.qm)
	Mcc := massMatrix(d, ops.qm)
	Mun := make([]float64, nu)
	la.SpMatVecMul(Mun, 1, Mcc, u)

	// unknowns z = [u+; Pg; Pgam; PN; PF]
	z := make([]float64, n)
	copy(z[:nu], u)
	copy(z[nu:nu+ng], Pg)
	copy(z[nu+ng:nu+ng+ngam], Pgam)
	copy(z[nu+ng+ngam:nu+ng+ngam+nn], o.PN)
	copy(z[nu+ng+ngam+nn:], o.PF)

	R := make([]float64, n)
	mR := make([]float64, n)
	dz := make([]float64, n)
	gnd := make([]float64, nn)
	gf := make([]float64, nf)

	residual := func() {
		uP := z[:nu]
		PN := z[nu+ng+ngam : nu+ng+ngam+nn]
		PF := z[nu+ng+ngam+nn:]
		la.SpMatVecMul(R[:nu], 1, Mcc, uP)
		for i := 0; i < nu; i++ {
			R[i] -= Mun[i] + dt*ops.h[i]
			for j := 0; j < ng; j++ {
				R[i] -= Wg[i][j] * z[nu+j]
			}
			for j := 0; j < ngam; j++ {
				R[i] -= Wgam[i][j] * z[nu+ng+j]
			}
			for j := 0; j < nn; j++ {
				R[i] -= ops.Wn[i][j] * PN[j]
			}
			for j := 0; j < nf; j++ {
				R[i] -= ops.Wf[i][j] * PF[j]
			}
		}
		gdP := make([]float64, ng)
		d.GDot(gdP, ops.tm, ops.qm, uP)
		for i := 0; i < ng; i++ {
			R[nu+i] = gdP[i]
		}
		gamP := make([]float64, ngam)
		d.Gamma(gamP, ops.tm, ops.qm, uP)
		for i := 0; i < ngam; i++ {
			R[nu+ng+i] = gamP[i]
		}
		d.GNDot(gnd, ops.tm, ops.qm, uP)
		d.GammaF(gf, ops.tm, ops.qm, uP)
		for i := 0; i < nn; i++ {
			if ops.active[i] {
				xi := gnd[i] + d.ENAll[i]*ops.gndA[i]
				R[nu+ng+ngam+i] = PN[i] - ProxRPlus(PN[i]-d.RNAll[i]*xi)
			} else {
				R[nu+ng+ngam+i] = PN[i]
			}
		}
		for i, grp := range d.Groups {
			zf := make([]float64, len(grp))
			for k, j := range grp {
				xi := gf[j] + d.EFAll[j]*ops.gfA[j]
				zf[k] = PF[j] - d.RFAll[j]*xi
			}
			var pf []float64
			if ops.active[i] {
				pf = ProxDisk(zf, d.MuAll[i]*PN[i])
			} else {
				pf = make([]float64, len(grp))
			}
			for k, j := range grp {
				R[nu+ng+ngam+nn+j] = PF[j] - pf[k]
			}
		}
	}

	for iters = 0; iters < cfg.ItMax; iters++ {
		residual()
		if maxAbs(R) < cfg.Tol {
			break
		}
		if iters == cfg.ItMax-1 {
			return iters, chk.Err("semismooth Newton did not converge within %d iterations", cfg.ItMax)
		}

		// Jacobian
		K := new(la.Triplet)
		K.Init(n, n, d.NnzM()+4*nu*(ng+ngam+nn+nf)+4*nf*nf+1)
		d.AddM(K, ops.qm)
		putBlock(K, 0, nu, Wg, -1, false)
		putBlock(K, nu, 0, Wg, +1, true)
		putBlock(K, 0, nu+ng, Wgam, -1, false)
		putBlock(K, nu+ng, 0, Wgam, +1, true)
		putBlock(K, 0, nu+ng+ngam, ops.Wn, -1, false)
		putBlock(K, 0, nu+ng+ngam+nn, ops.Wf, -1, false)

		PN := z[nu+ng+ngam : nu+ng+ngam+nn]
		PF := z[nu+ng+ngam+nn:]
		for i := 0; i < nn; i++ {
			row := nu + ng + ngam + i
			if !ops.active[i] {
				K.Put(row, row, 1)
				continue
			}
			xi := gnd[i] + d.ENAll[i]*ops.gndA[i]
			if PN[i]-d.RNAll[i]*xi > 0 {
				// contact stays closed: rows reduce to rN * dgnd/du
				for c := 0; c < nu; c++ {
					if ops.Wn[c][i] != 0 {
						K.Put(row, c, d.RNAll[i]*ops.Wn[c][i])
					}
				}
			} else {
				K.Put(row, row, 1)
			}
		}
		for i, grp := range d.Groups {
			if !ops.active[i] {
				for _, j := range grp {
					row := nu + ng + ngam + nn + j
					K.Put(row, row, 1)
				}
				continue
			}
			m := len(grp)
			zf := make([]float64, m)
			for k, j := range grp {
				xi := gf[j] + d.EFAll[j]*ops.gfA[j]
				zf[k] = PF[j] - d.RFAll[j]*xi
			}
			rho := d.MuAll[i] * PN[i]
			zn := 0.0
			for _, v := range zf {
				zn += v * v
			}
			zn = math.Sqrt(zn)
			if zn <= rho || zn < 1e-15 {
				// stick: rows reduce to rF * dgf/du
				for _, j := range grp {
					row := nu + ng + ngam + nn + j
					for c := 0; c < nu; c++ {
						if ops.Wf[c][j] != 0 {
							K.Put(row, c, d.RFAll[j]*ops.Wf[c][j])
						}
					}
				}
			} else {
				// slip: R = PF - rho z/|z|
				for k, j := range grp {
					row := nu + ng + ngam + nn + j
					// d/dPN
					K.Put(row, nu+ng+ngam+i, -d.MuAll[i]*zf[k]/zn)
					for l, jl := range grp {
						// projector (I - zhat zhat')/|z|
						P := -zf[k] * zf[l] / (zn * zn)
						if k == l {
							P += 1
						}
						P /= zn
						// d/dPF
						v := -rho * P
						if k == l {
							v += 1
						}
						K.Put(row, nu+ng+ngam+nn+jl, v)
						// d/du+ through z = PF - rF gf(u)
						for c := 0; c < nu; c++ {
							if ops.Wf[c][jl] != 0 {
								K.Put(row, c, rho*P*d.RFAll[jl]*ops.Wf[c][jl])
							}
						}
					}
				}
			}
		}

		for i := range R {
			mR[i] = -R[i]
		}
		if err = solveSparse(cfg.LinSolName, K, dz, mR); err != nil {
			return iters, err
		}
		for i := range z {
			z[i] += dz[i]
		}
	}

	copy(Pg, z[nu:nu+ng])
	copy(Pgam, z[nu+ng:nu+ng+ngam])
	copy(o.PN, z[nu+ng+ngam:nu+ng+ngam+nn])
	copy(o.PF, z[nu+ng+ngam+nn:])
	o.finish(dt, ops, q, u, z[:nu])
	return iters, nil
}
