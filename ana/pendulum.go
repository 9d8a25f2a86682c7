// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// CompoundPendulum is a rigid body of mass M pinned at distance L from its
// centre, swinging in a vertical plane under gravity G. I is the central
// moment of inertia about the swing axis.
type CompoundPendulum struct {
	M float64
	L float64
	I float64
	G float64
}

// Ipin returns the moment of inertia about the pin
func (o *CompoundPendulum) Ipin() float64 {
	return o.I + o.M*o.L*o.L
}

// Alpha0 returns the angular acceleration when released horizontally
func (o *CompoundPendulum) Alpha0() float64 {
	return o.M * o.G * o.L / o.Ipin()
}

// Reaction0 returns the vertical pin force when released horizontally: the
// part of the weight not spent accelerating the centre
func (o *CompoundPendulum) Reaction0() float64 {
	return o.M * o.G * (1 - o.M*o.L*o.L/o.Ipin())
}

// SmallPeriod returns the period of small oscillations about the hanging
// equilibrium
func (o *CompoundPendulum) SmallPeriod() float64 {
	return 2 * math.Pi * math.Sqrt(o.Ipin()/(o.M*o.G*o.L))
}
