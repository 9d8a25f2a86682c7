// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func Test_quadlaw01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quadlaw01. quadratic rod law: stress is gradient of energy")

	m, err := NewRod("quadratic")
	if err != nil {
		tst.Errorf("allocation failed: %v", err)
		return
	}
	err = m.Init(dbf.Params{
		&dbf.P{N: "E", V: 210e9},
		&dbf.P{N: "G", V: 80e9},
		&dbf.P{N: "A", V: 1e-4},
		&dbf.P{N: "I2", V: 1e-8},
		&dbf.P{N: "I3", V: 2e-8},
		&dbf.P{N: "J", V: 3e-8},
	})
	if err != nil {
		tst.Errorf("init failed: %v", err)
		return
	}

	Gamma := []float64{1.01, 0.002, -0.003}
	Kappa := []float64{0.1, -0.2, 0.3}
	Gamma0 := []float64{1, 0, 0}
	Kappa0 := []float64{0, 0, 0}
	n := make([]float64, 3)
	mm := make([]float64, 3)
	m.Stress(n, mm, Gamma, Kappa, Gamma0, Kappa0)

	// n = dW/dGamma and m = dW/dKappa by central differences
	h := 1e-7
	for i := 0; i < 3; i++ {
		Gamma[i] += h
		Wp := m.Potential(Gamma, Kappa, Gamma0, Kappa0)
		Gamma[i] -= 2 * h
		Wm := m.Potential(Gamma, Kappa, Gamma0, Kappa0)
		Gamma[i] += h
		chk.AnaNum(tst, io.Sf("n[%d]", i), 1e-1, n[i], (Wp-Wm)/(2*h), chk.Verbose)
		Kappa[i] += h
		Wp = m.Potential(Gamma, Kappa, Gamma0, Kappa0)
		Kappa[i] -= 2 * h
		Wm = m.Potential(Gamma, Kappa, Gamma0, Kappa0)
		Kappa[i] += h
		chk.AnaNum(tst, io.Sf("m[%d]", i), 1e-1, mm[i], (Wp-Wm)/(2*h), chk.Verbose)
	}

	// tangents match the direct stiffnesses
	CGam := la.MatAlloc(3, 3)
	CKap := la.MatAlloc(3, 3)
	m.Stiffness(CGam, CKap)
	chk.Scalar(tst, "EA", 1e-15, CGam[0][0], 210e9*1e-4)
	chk.Scalar(tst, "GA", 1e-15, CGam[1][1], 80e9*1e-4)
	chk.Scalar(tst, "GJ", 1e-15, CKap[0][0], 80e9*3e-8)
	chk.Scalar(tst, "EI3", 1e-15, CKap[2][2], 210e9*2e-8)

	// zero strain relative to the reference gives zero energy and stress
	chk.Scalar(tst, "W0", 1e-15, m.Potential(Gamma0, Kappa0, Gamma0, Kappa0), 0)

	// unknown model name
	if _, err := NewRod("nonexistent"); err == nil {
		tst.Errorf("expected error for unknown model name")
	}
}
