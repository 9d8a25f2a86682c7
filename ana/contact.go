// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// SlidingBlock is a point mass sliding on a horizontal plane with Coulomb
// friction, decelerating from speed V0 until it sticks
type SlidingBlock struct {
	V0 float64 // initial speed
	Mu float64 // friction coefficient
	G  float64 // gravity
}

// Speed returns the sliding speed at time t
func (o *SlidingBlock) Speed(t float64) float64 {
	v := o.V0 - o.Mu*o.G*t
	if v < 0 {
		return 0
	}
	return v
}

// StopTime returns the instant the block sticks
func (o *SlidingBlock) StopTime() float64 {
	return o.V0 / (o.Mu * o.G)
}

// StopDistance returns the distance travelled before sticking
func (o *SlidingBlock) StopDistance() float64 {
	return o.V0 * o.V0 / (2 * o.Mu * o.G)
}

// FreeFall is a point mass dropped from rest at height H above a plane
type FreeFall struct {
	H float64
	G float64
}

// ImpactTime returns the instant the mass reaches the plane
func (o *FreeFall) ImpactTime() float64 {
	return math.Sqrt(2 * o.H / o.G)
}

// ImpactSpeed returns the speed at the plane
func (o *FreeFall) ImpactSpeed() float64 {
	return math.Sqrt(2 * o.G * o.H)
}
