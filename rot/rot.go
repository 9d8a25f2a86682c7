// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rot implements finite-rotation algebra for multibody dynamics:
// quaternion products, rotation matrices parametrized by non-unit
// quaternions, their analytic derivatives, and basic (single-axis)
// rotation tables for Euler-angle sequences.
package rot

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/num/quat"
)

// Cross computes w = u cross v (3D)
func Cross(w, u, v []float64) {
	w[0] = u[1]*v[2] - u[2]*v[1]
	w[1] = u[2]*v[0] - u[0]*v[2]
	w[2] = u[0]*v[1] - u[1]*v[0]
}

// Skew sets the 3x3 skew-symmetric matrix S such that S*x == v cross x
func Skew(S [][]float64, v []float64) {
	S[0][0], S[0][1], S[0][2] = 0, -v[2], +v[1]
	S[1][0], S[1][1], S[1][2] = +v[2], 0, -v[0]
	S[2][0], S[2][1], S[2][2] = -v[1], +v[0], 0
}

// Dot3 returns the dot product of two 3-vectors
func Dot3(u, v []float64) float64 {
	return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
}

// Norm3 returns the Euclidean norm of a 3-vector
func Norm3(v []float64) float64 {
	return math.Sqrt(Dot3(v, v))
}

// quaternions //////////////////////////////////////////////////////////////////////////////////////

// QuatNumber converts a {p0,p1,p2,p3} slice to a gonum quaternion
func QuatNumber(p []float64) quat.Number {
	return quat.Number{Real: p[0], Imag: p[1], Jmag: p[2], Kmag: p[3]}
}

// QuatSlice converts a gonum quaternion to a {p0,p1,p2,p3} slice
func QuatSlice(p []float64, n quat.Number) {
	p[0], p[1], p[2], p[3] = n.Real, n.Imag, n.Jmag, n.Kmag
}

// QuatNorm returns the Euclidean norm of quaternion p
func QuatNorm(p []float64) float64 {
	return math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3])
}

// QuatNormalize scales p to unit norm, in place. Panics on zero quaternion.
func QuatNormalize(p []float64) {
	n := QuatNorm(p)
	if n < 1e-14 {
		chk.Panic("cannot normalize zero quaternion")
	}
	for i := 0; i < 4; i++ {
		p[i] /= n
	}
}

// QuatMul computes the quaternion (Hamilton) product r = p * q
func QuatMul(r, p, q []float64) {
	QuatSlice(r, quat.Mul(QuatNumber(p), QuatNumber(q)))
}

// Matrix sets A (3x3) to the rotation matrix corresponding to the possibly
// non-unit quaternion p. The normalization by p.p makes A exactly orthonormal
// for any nonzero p.
func Matrix(A [][]float64, p []float64) {
	n := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	p0, pv := p[0], p[1:]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = 2.0 * pv[i] * pv[j]
		}
		A[i][i] += p0*p0 - Dot3(pv, pv)
	}
	A[0][1] -= 2.0 * p0 * pv[2]
	A[0][2] += 2.0 * p0 * pv[1]
	A[1][0] += 2.0 * p0 * pv[2]
	A[1][2] -= 2.0 * p0 * pv[0]
	A[2][0] -= 2.0 * p0 * pv[1]
	A[2][1] += 2.0 * p0 * pv[0]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] /= n
		}
	}
}

// MatrixDeriv sets dA (3x3x4) to the partial derivatives of the rotation
// matrix with respect to the four quaternion components: dA[i][j][c] = dA[i][j]/dp[c]
func MatrixDeriv(dA [][][]float64, p []float64) {
	n := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	p0, pv := p[0], p[1:]
	A := la.MatAlloc(3, 3)
	Matrix(A, p)

	// dB/dp0 = 2 p0 I + 2 S(pv)
	S := la.MatAlloc(3, 3)
	Skew(S, pv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dB := 2.0 * S[i][j]
			if i == j {
				dB += 2.0 * p0
			}
			dA[i][j][0] = dB/n - 2.0*p[0]*A[i][j]/n
		}
	}

	// dB/dpk = -2 pk I + 2 (ek pv' + pv ek') + 2 p0 S(ek)
	e := []float64{0, 0, 0}
	for k := 0; k < 3; k++ {
		e[0], e[1], e[2] = 0, 0, 0
		e[k] = 1
		Skew(S, e)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dB := 2.0 * (e[i]*pv[j] + pv[i]*e[j] + p0*S[i][j])
				if i == j {
					dB -= 2.0 * pv[k]
				}
				dA[i][j][1+k] = dB/n - 2.0*pv[k]*A[i][j]/n
			}
		}
	}
}

// FromMatrix extracts the unit quaternion p corresponding to the rotation
// matrix A (Shepperd's method)
func FromMatrix(p []float64, A [][]float64) {
	tr := A[0][0] + A[1][1] + A[2][2]
	if tr > 0 {
		s := math.Sqrt(tr+1.0) * 2.0
		p[0] = 0.25 * s
		p[1] = (A[2][1] - A[1][2]) / s
		p[2] = (A[0][2] - A[2][0]) / s
		p[3] = (A[1][0] - A[0][1]) / s
	} else if A[0][0] > A[1][1] && A[0][0] > A[2][2] {
		s := math.Sqrt(1.0+A[0][0]-A[1][1]-A[2][2]) * 2.0
		p[0] = (A[2][1] - A[1][2]) / s
		p[1] = 0.25 * s
		p[2] = (A[0][1] + A[1][0]) / s
		p[3] = (A[0][2] + A[2][0]) / s
	} else if A[1][1] > A[2][2] {
		s := math.Sqrt(1.0+A[1][1]-A[0][0]-A[2][2]) * 2.0
		p[0] = (A[0][2] - A[2][0]) / s
		p[1] = (A[0][1] + A[1][0]) / s
		p[2] = 0.25 * s
		p[3] = (A[1][2] + A[2][1]) / s
	} else {
		s := math.Sqrt(1.0+A[2][2]-A[0][0]-A[1][1]) * 2.0
		p[0] = (A[1][0] - A[0][1]) / s
		p[1] = (A[0][2] + A[2][0]) / s
		p[2] = (A[1][2] + A[2][1]) / s
		p[3] = 0.25 * s
	}
}

// LocalRate computes the body-frame rotation rate vector associated with a
// quaternion p and its derivative pd (with respect to time or arc-length):
//
//	om = 2 vec(conj(p) * pd) / (p . p)
//
// For pd = dp/dt this is the body-frame angular velocity; for pd = dp/dxi it
// is the (scaled) torsional/flexural curvature of a rod.
func LocalRate(om, p, pd []float64) {
	n := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	var w [3]float64
	Cross(w[:], p[1:], pd[1:])
	for i := 0; i < 3; i++ {
		om[i] = 2.0 * (p[0]*pd[1+i] - pd[0]*p[1+i] - w[i]) / n
	}
}

// LocalRateDerivs computes the partial derivatives of LocalRate with respect
// to p (into dp, 3x4) and with respect to pd (into dpd, 3x4)
func LocalRateDerivs(dp, dpd [][]float64, p, pd []float64) {
	n := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	om := []float64{0, 0, 0}
	LocalRate(om, p, pd)
	Spd := la.MatAlloc(3, 3)
	Sp := la.MatAlloc(3, 3)
	Skew(Spd, pd[1:])
	Skew(Sp, p[1:])
	for i := 0; i < 3; i++ {
		// w = p0 pdv - pd0 pv - pv x pdv
		dp[i][0] = 2.0*pd[1+i]/n - 2.0*p[0]*om[i]/n
		dpd[i][0] = -2.0 * p[1+i] / n
		for k := 0; k < 3; k++ {
			dwdp := Spd[i][k] // d(-pv x pdv)/dpv = +S(pdv)
			if i == k {
				dwdp -= pd[0]
			}
			dp[i][1+k] = 2.0*dwdp/n - 2.0*p[1+k]*om[i]/n
			dwdpd := -Sp[i][k] // d(-pv x pdv)/dpdv = -S(pv)
			if i == k {
				dwdpd += p[0]
			}
			dpd[i][1+k] = 2.0 * dwdpd / n
		}
	}
}

// KinMat sets B (4x3) to the quaternion kinematic matrix such that
// dp/dt = B * om, with om the body-frame angular velocity:
//
//	B = 1/2 [ -pv'; p0 I + S(pv) ]
func KinMat(B [][]float64, p []float64) {
	for k := 0; k < 3; k++ {
		B[0][k] = -0.5 * p[1+k]
	}
	S := la.MatAlloc(3, 3)
	Skew(S, p[1:])
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			B[1+i][k] = 0.5 * S[i][k]
			if i == k {
				B[1+i][k] += 0.5 * p[0]
			}
		}
	}
}

// KinMatDerivTimesOmega sets D (4x4) to the derivative of KinMat(p)*om with
// respect to the quaternion components, for fixed om
func KinMatDerivTimesOmega(D [][]float64, om []float64) {
	S := la.MatAlloc(3, 3)
	Skew(S, om)
	D[0][0] = 0
	for k := 0; k < 3; k++ {
		D[0][1+k] = -0.5 * om[k]
		D[1+k][0] = 0.5 * om[k]
		for i := 0; i < 3; i++ {
			D[1+k][1+i] = -0.5 * S[k][i]
		}
	}
}

// Inv3 inverts the 3x3 matrix A into Ai and returns the determinant.
// Panics if the determinant magnitude falls below tol.
func Inv3(Ai, A [][]float64, tol float64) (det float64) {
	det = A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
	if math.Abs(det) < tol {
		chk.Panic("inverse of 3x3 matrix failed with det = %g", det)
	}
	Ai[0][0] = (A[1][1]*A[2][2] - A[1][2]*A[2][1]) / det
	Ai[0][1] = (A[0][2]*A[2][1] - A[0][1]*A[2][2]) / det
	Ai[0][2] = (A[0][1]*A[1][2] - A[0][2]*A[1][1]) / det
	Ai[1][0] = (A[1][2]*A[2][0] - A[1][0]*A[2][2]) / det
	Ai[1][1] = (A[0][0]*A[2][2] - A[0][2]*A[2][0]) / det
	Ai[1][2] = (A[0][2]*A[1][0] - A[0][0]*A[1][2]) / det
	Ai[2][0] = (A[1][0]*A[2][1] - A[1][1]*A[2][0]) / det
	Ai[2][1] = (A[0][1]*A[2][0] - A[0][0]*A[2][1]) / det
	Ai[2][2] = (A[0][0]*A[1][1] - A[0][1]*A[1][0]) / det
	return
}
