// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rot

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_quat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quat01. rotation matrix from non-unit quaternion")

	// 90 degrees about z, scaled by 3 to exercise the normalization
	s := math.Sqrt(2.0) / 2.0
	p := []float64{3 * s, 0, 0, 3 * s}
	A := la.MatAlloc(3, 3)
	Matrix(A, p)
	chk.Matrix(tst, "A", 1e-15, A, [][]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	})

	// orthonormality for a random non-unit quaternion
	p = []float64{0.3, -1.2, 0.7, 2.1}
	Matrix(A, p)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			for k := 0; k < 3; k++ {
				v += A[k][i] * A[k][j]
			}
			if i == j {
				chk.Scalar(tst, io.Sf("A'A[%d][%d]", i, j), 1e-14, v, 1)
			} else {
				chk.Scalar(tst, io.Sf("A'A[%d][%d]", i, j), 1e-14, v, 0)
			}
		}
	}

	// round trip through FromMatrix
	q := []float64{0, 0, 0, 0}
	FromMatrix(q, A)
	B := la.MatAlloc(3, 3)
	Matrix(B, q)
	chk.Matrix(tst, "A(p) == A(q(A(p)))", 1e-14, B, A)
	chk.Scalar(tst, "|q|", 1e-14, QuatNorm(q), 1)
}

func Test_quat02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quat02. derivative of rotation matrix")

	p := []float64{0.8, -0.3, 1.4, 0.6}
	dA := make([][][]float64, 3)
	for i := 0; i < 3; i++ {
		dA[i] = la.MatAlloc(3, 4)
	}
	MatrixDeriv(dA, p)

	// central differences
	h := 1e-6
	Ap := la.MatAlloc(3, 3)
	Am := la.MatAlloc(3, 3)
	for c := 0; c < 4; c++ {
		p[c] += h
		Matrix(Ap, p)
		p[c] -= 2 * h
		Matrix(Am, p)
		p[c] += h
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				num := (Ap[i][j] - Am[i][j]) / (2 * h)
				chk.AnaNum(tst, io.Sf("dA[%d][%d]/dp[%d]", i, j, c), 1e-8, dA[i][j][c], num, chk.Verbose)
			}
		}
	}
}

func Test_quat03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quat03. local rate vector and its derivatives")

	p := []float64{1.1, -0.2, 0.5, 0.9}
	pd := []float64{0.4, 0.7, -0.3, 0.2}

	// consistency with the kinematic matrix: for pd = KinMat(p)*om and unit p,
	// LocalRate must recover om
	pu := []float64{1.1, -0.2, 0.5, 0.9}
	QuatNormalize(pu)
	om := []float64{0.3, -1.1, 0.8}
	B := la.MatAlloc(4, 3)
	KinMat(B, pu)
	pdB := []float64{0, 0, 0, 0}
	for i := 0; i < 4; i++ {
		for k := 0; k < 3; k++ {
			pdB[i] += B[i][k] * om[k]
		}
	}
	omBack := []float64{0, 0, 0}
	LocalRate(omBack, pu, pdB)
	chk.Vector(tst, "om", 1e-14, omBack, om)

	// analytic derivatives vs central differences
	dp := la.MatAlloc(3, 4)
	dpd := la.MatAlloc(3, 4)
	LocalRateDerivs(dp, dpd, p, pd)
	h := 1e-6
	wp := []float64{0, 0, 0}
	wm := []float64{0, 0, 0}
	for c := 0; c < 4; c++ {
		p[c] += h
		LocalRate(wp, p, pd)
		p[c] -= 2 * h
		LocalRate(wm, p, pd)
		p[c] += h
		for i := 0; i < 3; i++ {
			chk.AnaNum(tst, io.Sf("dom[%d]/dp[%d]", i, c), 1e-8, dp[i][c], (wp[i]-wm[i])/(2*h), chk.Verbose)
		}
		pd[c] += h
		LocalRate(wp, p, pd)
		pd[c] -= 2 * h
		LocalRate(wm, p, pd)
		pd[c] += h
		for i := 0; i < 3; i++ {
			chk.AnaNum(tst, io.Sf("dom[%d]/dpd[%d]", i, c), 1e-8, dpd[i][c], (wp[i]-wm[i])/(2*h), chk.Verbose)
		}
	}

	// KinMatDerivTimesOmega vs central differences of KinMat(p)*om
	D := la.MatAlloc(4, 4)
	KinMatDerivTimesOmega(D, om)
	Bp := la.MatAlloc(4, 3)
	Bm := la.MatAlloc(4, 3)
	for c := 0; c < 4; c++ {
		p[c] += h
		KinMat(Bp, p)
		p[c] -= 2 * h
		KinMat(Bm, p)
		p[c] += h
		for i := 0; i < 4; i++ {
			num := 0.0
			for k := 0; k < 3; k++ {
				num += (Bp[i][k] - Bm[i][k]) / (2 * h) * om[k]
			}
			chk.AnaNum(tst, io.Sf("d(B om)[%d]/dp[%d]", i, c), 1e-8, D[i][c], num, chk.Verbose)
		}
	}
}

func Test_euler01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("euler01. Euler sequences and kinematic matrix")

	axes := ParseAxes("zxz")
	chk.Ints(tst, "axes(zxz)", axes[:], []int{2, 0, 2})

	phi := []float64{0.3, -0.8, 1.2}
	A := la.MatAlloc(3, 3)
	EulerMatrix(A, axes, phi)

	// orthonormality
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			for k := 0; k < 3; k++ {
				v += A[k][i] * A[k][j]
			}
			e := 0.0
			if i == j {
				e = 1
			}
			chk.Scalar(tst, io.Sf("A'A[%d][%d]", i, j), 1e-14, v, e)
		}
	}

	// om = Q dphi must match om from dA/dt: S(om) = A' dA/dt
	for _, order := range []string{"zxz", "xyz", "zyx"} {
		axes = ParseAxes(order)
		phid := []float64{0.7, 0.2, -0.5}
		Q := la.MatAlloc(3, 3)
		EulerKinMat(Q, axes, phi)
		om := []float64{0, 0, 0}
		for i := 0; i < 3; i++ {
			for k := 0; k < 3; k++ {
				om[i] += Q[i][k] * phid[k]
			}
		}
		h := 1e-6
		Ap := la.MatAlloc(3, 3)
		Am := la.MatAlloc(3, 3)
		phiP := []float64{phi[0] + h*phid[0], phi[1] + h*phid[1], phi[2] + h*phid[2]}
		phiM := []float64{phi[0] - h*phid[0], phi[1] - h*phid[1], phi[2] - h*phid[2]}
		EulerMatrix(Ap, axes, phiP)
		EulerMatrix(Am, axes, phiM)
		EulerMatrix(A, axes, phi)
		omNum := []float64{0, 0, 0}
		// vec(A' dA): om_x = (A'dA)[2][1], om_y = (A'dA)[0][2], om_z = (A'dA)[1][0]
		idx := [][]int{{2, 1}, {0, 2}, {1, 0}}
		for c := 0; c < 3; c++ {
			i, j := idx[c][0], idx[c][1]
			for k := 0; k < 3; k++ {
				omNum[c] += A[k][i] * (Ap[k][j] - Am[k][j]) / (2 * h)
			}
		}
		chk.Vector(tst, io.Sf("om(%s)", order), 1e-8, om, omNum)
	}

	// derivative of Q
	axes = ParseAxes("zxz")
	dQ := make([][][]float64, 3)
	for i := 0; i < 3; i++ {
		dQ[i] = la.MatAlloc(3, 3)
	}
	EulerKinMatDeriv(dQ, axes, phi)
	h := 1e-6
	Qp := la.MatAlloc(3, 3)
	Qm := la.MatAlloc(3, 3)
	for c := 0; c < 3; c++ {
		phi[c] += h
		EulerKinMat(Qp, axes, phi)
		phi[c] -= 2 * h
		EulerKinMat(Qm, axes, phi)
		phi[c] += h
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				chk.AnaNum(tst, io.Sf("dQ[%d][%d]/dphi[%d]", i, j, c), 1e-8, dQ[i][j][c], (Qp[i][j]-Qm[i][j])/(2*h), chk.Verbose)
			}
		}
	}
}
