// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "math"

// ProxRPlus projects x onto the non-negative half line. This is the
// proximal-point operator of the Signorini normal contact law.
func ProxRPlus(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// ProxDisk projects the point z onto the disk of radius r centred at the
// origin. This is the proximal-point operator of the planar Coulomb
// friction law; r is mu times the normal impulse.
func ProxDisk(z []float64, r float64) (p []float64) {
	p = make([]float64, len(z))
	if r <= 0 {
		return
	}
	n := 0.0
	for _, zi := range z {
		n += zi * zi
	}
	n = math.Sqrt(n)
	if n <= r {
		copy(p, z)
		return
	}
	for i, zi := range z {
		p[i] = r * zi / n
	}
	return
}
