// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rot

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// AxisIndex converts an axis letter 'x', 'y' or 'z' to its index 0, 1 or 2
func AxisIndex(c byte) int {
	switch c {
	case 'x', 'X':
		return 0
	case 'y', 'Y':
		return 1
	case 'z', 'Z':
		return 2
	}
	chk.Panic("invalid rotation axis %q", string(c))
	return -1
}

// ParseAxes converts an Euler sequence string such as "zxz" or "xyz" into
// three axis indices. Consecutive repeated axes are rejected since they do
// not define a proper Euler sequence.
func ParseAxes(order string) (axes [3]int) {
	if len(order) != 3 {
		chk.Panic("Euler sequence must have 3 letters. %q is invalid", order)
	}
	for i := 0; i < 3; i++ {
		axes[i] = AxisIndex(order[i])
	}
	if axes[0] == axes[1] || axes[1] == axes[2] {
		chk.Panic("Euler sequence %q repeats an axis consecutively", order)
	}
	return
}

// Basic sets A (3x3) to the elementary rotation matrix about axis (0, 1 or 2)
// by the given angle
func Basic(A [][]float64, axis int, angle float64) {
	s, c := math.Sin(angle), math.Cos(angle)
	i := axis
	j := (axis + 1) % 3
	k := (axis + 2) % 3
	A[i][i], A[i][j], A[i][k] = 1, 0, 0
	A[j][i], A[j][j], A[j][k] = 0, c, -s
	A[k][i], A[k][j], A[k][k] = 0, s, c
}

// BasicDeriv sets dA (3x3) to the derivative of Basic with respect to the angle
func BasicDeriv(dA [][]float64, axis int, angle float64) {
	s, c := math.Sin(angle), math.Cos(angle)
	i := axis
	j := (axis + 1) % 3
	k := (axis + 2) % 3
	dA[i][i], dA[i][j], dA[i][k] = 0, 0, 0
	dA[j][i], dA[j][j], dA[j][k] = 0, -s, -c
	dA[k][i], dA[k][j], dA[k][k] = 0, c, -s
}

// EulerMatrix sets A (3x3) to the composition of three basic rotations
// A = A(axes[0], phi[0]) * A(axes[1], phi[1]) * A(axes[2], phi[2])
func EulerMatrix(A [][]float64, axes [3]int, phi []float64) {
	A0 := la.MatAlloc(3, 3)
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	Basic(A0, axes[0], phi[0])
	Basic(A1, axes[1], phi[1])
	Basic(A2, axes[2], phi[2])
	tmp := la.MatAlloc(3, 3)
	matMul3(tmp, A1, A2)
	matMul3(A, A0, tmp)
}

// EulerKinMat sets Q (3x3) to the matrix mapping Euler angle rates to the
// body-frame angular velocity: om = Q * dphi/dt. The columns are the three
// rotation axes resolved in the body frame:
//
//	Q = [ A2' A1' e0 | A2' e1 | e2 ]
func EulerKinMat(Q [][]float64, axes [3]int, phi []float64) {
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	Basic(A1, axes[1], phi[1])
	Basic(A2, axes[2], phi[2])
	for i := 0; i < 3; i++ {
		// A2' A1' e0 == row axes[0] of (A1 A2)
		v := 0.0
		for k := 0; k < 3; k++ {
			v += A1[axes[0]][k] * A2[k][i]
		}
		Q[i][0] = v
		Q[i][1] = A2[axes[1]][i] // A2' e1
		Q[i][2] = 0
	}
	Q[axes[2]][2] = 1 // e2
}

// EulerKinMatDeriv sets dQ (3x3x3) to the partial derivatives of EulerKinMat
// with respect to the three Euler angles: dQ[i][j][k] = dQ[i][j]/dphi[k]
func EulerKinMatDeriv(dQ [][][]float64, axes [3]int, phi []float64) {
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	dA1 := la.MatAlloc(3, 3)
	dA2 := la.MatAlloc(3, 3)
	Basic(A1, axes[1], phi[1])
	Basic(A2, axes[2], phi[2])
	BasicDeriv(dA1, axes[1], phi[1])
	BasicDeriv(dA2, axes[2], phi[2])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				dQ[i][j][k] = 0
			}
		}
	}
	for i := 0; i < 3; i++ {
		v1, v2 := 0.0, 0.0
		for k := 0; k < 3; k++ {
			v1 += dA1[axes[0]][k] * A2[k][i]
			v2 += A1[axes[0]][k] * dA2[k][i]
		}
		dQ[i][0][1] = v1
		dQ[i][0][2] = v2
		dQ[i][1][2] = dA2[axes[1]][i]
	}
}

func matMul3(C, A, B [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			for k := 0; k < 3; k++ {
				v += A[i][k] * B[k][j]
			}
			C[i][j] = v
		}
	}
}
