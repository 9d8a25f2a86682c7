// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/chk"

// tableau holds one Butcher tableau
type tableau struct {
	A [][]float64
	B []float64
	C []float64
}

// lobattoPair returns the companion Lobatto IIIA (positions/velocities) and
// IIIB (impulses) tableaus with the given number of stages
func lobattoPair(stages int) (iiia, iiib tableau) {
	switch stages {
	case 2:
		iiia = tableau{
			A: [][]float64{
				{0, 0},
				{0.5, 0.5},
			},
			B: []float64{0.5, 0.5},
			C: []float64{0, 1},
		}
		iiib = tableau{
			A: [][]float64{
				{0.5, 0},
				{0.5, 0},
			},
			B: []float64{0.5, 0.5},
			C: []float64{0, 1},
		}
	case 3:
		iiia = tableau{
			A: [][]float64{
				{0, 0, 0},
				{5.0 / 24.0, 1.0 / 3.0, -1.0 / 24.0},
				{1.0 / 6.0, 2.0 / 3.0, 1.0 / 6.0},
			},
			B: []float64{1.0 / 6.0, 2.0 / 3.0, 1.0 / 6.0},
			C: []float64{0, 0.5, 1},
		}
		iiib = tableau{
			A: [][]float64{
				{1.0 / 6.0, -1.0 / 6.0, 0},
				{1.0 / 6.0, 1.0 / 3.0, 0},
				{1.0 / 6.0, 5.0 / 6.0, 0},
			},
			B: []float64{1.0 / 6.0, 2.0 / 3.0, 1.0 / 6.0},
			C: []float64{0, 0.5, 1},
		}
	default:
		chk.Panic("lobatto pair with %d stages is not available (use 2 or 3)", stages)
	}
	return
}
