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

// Radau IIA order-5 collocation constants
var (
	radauS6 = math.Sqrt(6.0)

	radauC = [3]float64{(4 - radauS6) / 10, (4 + radauS6) / 10, 1}
	radauE = [3]float64{(-13 - 7*radauS6) / 3, (-13 + 7*radauS6) / 3, -1.0 / 3.0}

	radauMuReal = 3 + math.Cbrt(9) - math.Cbrt(3)
	radauMuCr   = 3 + 0.5*(math.Cbrt(3)-math.Cbrt(9))
	radauMuCi   = -0.5 * (math.Pow(3, 5.0/6.0) + math.Pow(3, 7.0/6.0))

	radauT = [3][3]float64{
		{9.443876248897524e-02, -1.412552950209542e-01, 3.002919410514742e-02},
		{2.502131229653333e-01, 2.041293522937999e-01, -3.829421127572619e-01},
		{1, 1, 0},
	}
	radauTI = [3][3]float64{
		{4.178718591551904, 3.276828207610624e-01, 5.233764454994495e-01},
		{-4.178718591551904, -3.276828207610624e-01, 4.766235545005504e-01},
		{5.028726349457868e-01, -2.571926949855605, 5.960392048282249e-01},
	}
)

const (
	radauNewtonMax = 6
	radauMinFactor = 0.2
	radauMaxFactor = 10.0
)

// Radau is the adaptive Radau IIA collocation integrator for the index-2,
// index-3 or GGL-stabilized DAE form of the equations of motion. The state
// vector stacks coordinates, velocities and bilateral multipliers (plus the
// auxiliary multiplier in GGL form); the singular mass matrix is identity
// on the q block, the body mass matrix on the u block and zero on the
// multiplier blocks. Embedded-error components of algebraic variables are
// scaled by a power of the step size matching their DAE index.
type Radau struct {
	Dmn *Domain
	Cfg *Config

	nq, nu, nla, nmu, ny int
	indexPow             []float64 // per-component error scaling exponent
	Mcc                  *la.CCMatrix
}

// NewRadau allocates the integrator
func NewRadau(d *Domain, cfg *Config) (o *Radau) {
	cfg.SetDefault()
	if cfg.Index != 2 && cfg.Index != 3 {
		chk.Panic("radau: DAE index must be 2 or 3 (got %d)", cfg.Index)
	}
	if d.NlaN > 0 {
		chk.Panic("radau cannot handle unilateral contacts; use moreau or lobatto")
	}
	o = &Radau{Dmn: d, Cfg: cfg}
	o.nq, o.nu, o.nla = d.Nq, d.Nu, d.NlaG
	if cfg.GGL {
		o.nmu = o.nla
	}
	o.ny = o.nq + o.nu + o.nla + o.nmu
	o.indexPow = make([]float64, o.ny)
	for i := 0; i < o.nla; i++ {
		// lambda acts through the velocity equation: index-1 lower in the
		// stabilized form
		p := float64(cfg.Index - 1)
		if cfg.GGL {
			p = 1
		}
		o.indexPow[o.nq+o.nu+i] = p
	}
	for i := 0; i < o.nmu; i++ {
		o.indexPow[o.nq+o.nu+o.nla+i] = 2
	}
	return
}

// fcn evaluates the DAE right-hand side f with M ydot = f(t,y)
func (o *Radau) fcn(f []float64, t float64, y []float64) {
	d := o.Dmn
	q := y[:o.nq]
	u := y[o.nq : o.nq+o.nu]
	lam := y[o.nq+o.nu : o.nq+o.nu+o.nla]

	// kinematic block, with the GGL projection term
	d.Qdot(f[:o.nq], t, q, u)
	if o.nmu > 0 {
		mu := y[o.nq+o.nu+o.nla:]
		Gq := d.Gq(t, q)
		for i := 0; i < o.nq; i++ {
			for j := 0; j < o.nla; j++ {
				f[i] += Gq[j][i] * mu[j]
			}
		}
	}

	// momentum block
	fu := f[o.nq : o.nq+o.nu]
	d.H(fu, t, q, u)
	if o.nla > 0 {
		Wg := d.WG(t, q)
		for i := 0; i < o.nu; i++ {
			for j := 0; j < o.nla; j++ {
				fu[i] += Wg[i][j] * lam[j]
			}
		}
	}

	// algebraic block
	if o.nla > 0 {
		fl := f[o.nq+o.nu : o.nq+o.nu+o.nla]
		if o.Cfg.GGL || o.Cfg.Index == 2 {
			d.GDot(fl, t, q, u)
		} else {
			d.G(fl, t, q)
		}
		if o.nmu > 0 {
			d.G(f[o.nq+o.nu+o.nla:], t, q)
		}
	}
}

// massMul computes v = M y-block-wise: identity on q, body mass on u, zero
// on the multipliers
func (o *Radau) massMul(v, w []float64) {
	copy(v[:o.nq], w[:o.nq])
	la.SpMatVecMul(v[o.nq:o.nq+o.nu], 1, o.Mcc, w[o.nq:o.nq+o.nu])
	for i := o.nq + o.nu; i < o.ny; i++ {
		v[i] = 0
	}
}

// jacFD computes the dense Jacobian df/dy by forward differences
func (o *Radau) jacFD(t float64, y, f0 []float64) (J [][]float64) {
	J = la.MatAlloc(o.ny, o.ny)
	fp := make([]float64, o.ny)
	for c := 0; c < o.ny; c++ {
		eps := 1e-8 * (1 + math.Abs(y[c]))
		y[c] += eps
		o.fcn(fp, t, y)
		y[c] -= eps
		for r := 0; r < o.ny; r++ {
			J[r][c] = (fp[r] - f0[r]) / eps
		}
	}
	return
}

// factorize builds and factorizes the real and complex collocation matrices
// mu/h*M - J
func (o *Radau) factorize(h float64, J [][]float64) (sr *sparseSolver, sc *sparseSolverC, err error) {
	mr := radauMuReal / h
	cr := radauMuCr / h
	ci := radauMuCi / h

	Kr := new(la.Triplet)
	Kr.Init(o.ny, o.ny, o.ny*o.ny+o.Dmn.NnzM()+o.nq+1)
	Kc := new(la.TripletC)
	Kc.Init(o.ny, o.ny, o.ny*o.ny+o.Dmn.NnzM()+o.nq+1, false)
	for r := 0; r < o.ny; r++ {
		for c := 0; c < o.ny; c++ {
			if J[r][c] != 0 {
				Kr.Put(r, c, -J[r][c])
				Kc.Put(r, c, -J[r][c], 0)
			}
		}
	}
	for i := 0; i < o.nq; i++ {
		Kr.Put(i, i, mr)
		Kc.Put(i, i, cr, ci)
	}
	Mt := new(la.Triplet)
	Mt.Init(o.nu, o.nu, o.Dmn.NnzM())
	o.Dmn.AddM(Mt, nil)
	Md := Mt.ToMatrix(nil).ToDense()
	for i := 0; i < o.nu; i++ {
		for j := 0; j < o.nu; j++ {
			if Md[i][j] != 0 {
				Kr.Put(o.nq+i, o.nq+j, mr*Md[i][j])
				Kc.Put(o.nq+i, o.nq+j, cr*Md[i][j], ci*Md[i][j])
			}
		}
	}

	if sr, err = newSparseSolver(o.Cfg.LinSolName, Kr); err != nil {
		return nil, nil, err
	}
	if sc, err = newSparseSolverC(o.Cfg.LinSolName, Kc); err != nil {
		sr.Free()
		return nil, nil, err
	}
	return
}

// scaledNorm is the RMS norm of v weighted by scale. The divisor counts
// the differential components only: the multiplier rows carry no step-size
// information and must not dilute the estimate
func scaledNorm(v, scale []float64, ndiff int) float64 {
	s := 0.0
	for i := range v {
		r := v[i] / scale[i]
		s += r * r
	}
	return math.Sqrt(s / float64(ndiff))
}

// Run integrates from T0 to Tf with adaptive step size
func (o *Radau) Run() (sol *Solution, err error) {

	d, cfg := o.Dmn, o.Cfg
	q0, u0 := d.InitState()
	ini, err := ConsistentIC(d, cfg, cfg.T0, q0, u0, nil, nil)
	if err != nil {
		return nil, err
	}
	o.Mcc = massMatrix(d, q0)

	y := make([]float64, o.ny)
	copy(y[:o.nq], q0)
	copy(y[o.nq:o.nq+o.nu], u0)
	copy(y[o.nq+o.nu:o.nq+o.nu+o.nla], ini.LaG)

	sol = new(Solution)
	sol.Append(cfg.T0, y[:o.nq], y[o.nq:o.nq+o.nu], y[o.nq+o.nu:o.nq+o.nu+o.nla], nil, nil, nil, 0, 0)

	newtonTol := math.Max(10*1.1e-16/cfg.RTol, math.Min(0.03, math.Sqrt(cfg.RTol)))

	t := cfg.T0
	h := cfg.Dt
	f0 := make([]float64, o.ny)
	yNew := make([]float64, o.ny)
	scale := make([]float64, o.ny)

	for t < cfg.Tf-1e-12*(cfg.Tf-cfg.T0) {
		if t+h > cfg.Tf {
			h = cfg.Tf - t
		}
		if h < cfg.DtMin {
			return sol, chk.Err("radau: step size %g fell below minimum at t=%g", h, t)
		}

		o.fcn(f0, t, y)
		J := o.jacFD(t, y, f0)
		sr, sc, err := o.factorize(h, J)
		if err != nil {
			return sol, err
		}

		converged, nit, Z := o.collocate(t, h, y, sr, sc, newtonTol)
		if !converged {
			sr.Free()
			sc.Free()
			h *= 0.5
			continue
		}

		// error estimate
		for i := 0; i < o.ny; i++ {
			yNew[i] = y[i] + Z[2][i]
		}
		ze := make([]float64, o.ny)
		for i := 0; i < o.ny; i++ {
			ze[i] = (radauE[0]*Z[0][i] + radauE[1]*Z[1][i] + radauE[2]*Z[2][i]) / h
		}
		rhs := make([]float64, o.ny)
		o.massMul(rhs, ze)
		for i := 0; i < o.ny; i++ {
			rhs[i] += f0[i]
		}
		errv := make([]float64, o.ny)
		lerr := sr.Solve(errv, rhs)
		sr.Free()
		sc.Free()
		if lerr != nil {
			return sol, lerr
		}
		for i := 0; i < o.ny; i++ {
			if p := o.indexPow[i]; p > 0 {
				errv[i] *= math.Pow(h, p)
			}
			scale[i] = cfg.ATol + cfg.RTol*math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		}
		errNorm := scaledNorm(errv, scale, o.nq+o.nu)

		safety := 0.9 * float64(2*radauNewtonMax+1) / float64(2*radauNewtonMax+nit)
		if errNorm > 1 {
			fac := math.Max(radauMinFactor, safety*math.Pow(errNorm, -0.25))
			h *= fac
			if cfg.Verbose {
				io.Pf("radau: reject t=%g err=%g h->%g\n", t, errNorm, h)
			}
			continue
		}

		// accept
		t += h
		copy(y, yNew)
		d.StepCallback(t, y[:o.nq], y[o.nq:o.nq+o.nu])
		sol.Append(t, y[:o.nq], y[o.nq:o.nq+o.nu], y[o.nq+o.nu:o.nq+o.nu+o.nla], nil, nil, nil, nit, errNorm)
		if cfg.Verbose {
			io.Pf("radau: t=%g h=%g it=%d err=%g\n", t, h, nit, errNorm)
		}
		fac := math.Min(radauMaxFactor, math.Max(radauMinFactor, safety*math.Pow(errNorm+1e-16, -0.25)))
		h *= fac
		if h > cfg.DtMax {
			h = cfg.DtMax
		}
	}
	return sol, nil
}

// collocate runs the simplified Newton iteration of the three-stage system
// in the spectral variables W = TI Z
func (o *Radau) collocate(t, h float64, y []float64, sr *sparseSolver, sc *sparseSolverC, tol float64) (converged bool, nit int, Z [3][]float64) {

	W := [3][]float64{make([]float64, o.ny), make([]float64, o.ny), make([]float64, o.ny)}
	for i := range Z {
		Z[i] = make([]float64, o.ny)
	}
	F := [3][]float64{make([]float64, o.ny), make([]float64, o.ny), make([]float64, o.ny)}
	yi := make([]float64, o.ny)
	fr := make([]float64, o.ny)
	fcr := make([]float64, o.ny)
	fci := make([]float64, o.ny)
	mw := make([]float64, o.ny)
	dwr := make([]float64, o.ny)
	dcr := make([]float64, o.ny)
	dci := make([]float64, o.ny)

	mr := radauMuReal / h
	cr := radauMuCr / h
	ci := radauMuCi / h

	normOld := -1.0
	for nit = 1; nit <= radauNewtonMax; nit++ {

		for i := 0; i < 3; i++ {
			for k := 0; k < o.ny; k++ {
				yi[k] = y[k] + Z[i][k]
			}
			o.fcn(F[i], t+radauC[i]*h, yi)
		}

		// spectral right-hand sides
		o.massMul(mw, W[0])
		for k := 0; k < o.ny; k++ {
			fr[k] = radauTI[0][0]*F[0][k] + radauTI[0][1]*F[1][k] + radauTI[0][2]*F[2][k] - mr*mw[k]
		}
		o.massMul(mw, W[1])
		for k := 0; k < o.ny; k++ {
			fcr[k] = radauTI[1][0]*F[0][k] + radauTI[1][1]*F[1][k] + radauTI[1][2]*F[2][k] - cr*mw[k]
		}
		o.massMul(dwr, W[2])
		for k := 0; k < o.ny; k++ {
			fcr[k] += ci * dwr[k]
			fci[k] = radauTI[2][0]*F[0][k] + radauTI[2][1]*F[1][k] + radauTI[2][2]*F[2][k] - cr*dwr[k] - ci*mw[k]
		}

		if err := sr.Solve(dwr, fr); err != nil {
			return false, nit, Z
		}
		if err := sc.Solve(dcr, dci, fcr, fci); err != nil {
			return false, nit, Z
		}

		dn := 0.0
		for k := 0; k < o.ny; k++ {
			W[0][k] += dwr[k]
			W[1][k] += dcr[k]
			W[2][k] += dci[k]
			dn += dwr[k]*dwr[k] + dcr[k]*dcr[k] + dci[k]*dci[k]
		}
		dn = math.Sqrt(dn)

		for i := 0; i < 3; i++ {
			for k := 0; k < o.ny; k++ {
				Z[i][k] = radauT[i][0]*W[0][k] + radauT[i][1]*W[1][k] + radauT[i][2]*W[2][k]
			}
		}

		if normOld > 0 {
			rate := dn / normOld
			if rate >= 1 {
				return false, nit, Z
			}
			if rate/(1-rate)*dn < tol {
				return true, nit, Z
			}
		} else if dn < tol {
			return true, nit, Z
		}
		normOld = dn
	}
	return false, nit, Z
}
