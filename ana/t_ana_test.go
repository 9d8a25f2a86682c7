// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_ana01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ana01. cantilever limits")

	// the tip formula and the pointwise formula agree at the tip
	c := &CantileverTip{F: 2, L: 3, EI: 4, GA: 50}
	chk.Scalar(tst, "tip", 1e-15, c.DeflectionAt(c.L), c.Deflection())
	chk.Scalar(tst, "clamp", 1e-15, c.DeflectionAt(0), 0)

	// rigid shear recovers Euler-Bernoulli
	c.GA = math.Inf(1)
	chk.Scalar(tst, "bending only", 1e-15, c.Deflection(), 2.0*27/12)
}

func Test_ana02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ana02. pendulum limits")

	// a point bob recovers the simple pendulum
	p := &CompoundPendulum{M: 1, L: 2, I: 0, G: 9.81}
	chk.Scalar(tst, "alpha0", 1e-14, p.Alpha0(), 9.81/2)
	chk.Scalar(tst, "reaction0", 1e-14, p.Reaction0(), 0)
	chk.Scalar(tst, "period", 1e-14, p.SmallPeriod(), 2*math.Pi*math.Sqrt(2/9.81))

	// central inertia stiffens the swing and loads the pin
	p.I = 0.1
	if p.Alpha0() >= 9.81/2 {
		tst.Errorf("central inertia did not slow the swing")
		return
	}
	if p.Reaction0() <= 0 {
		tst.Errorf("central inertia did not load the pin")
		return
	}
}

func Test_ana03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ana03. sliding and falling")

	s := &SlidingBlock{V0: 0.1, Mu: 0.3, G: 9.81}
	chk.Scalar(tst, "speed at stop", 1e-15, s.Speed(s.StopTime()), 0)
	chk.Scalar(tst, "half way", 1e-15, s.Speed(s.StopTime()/2), 0.05)
	chk.Scalar(tst, "distance", 1e-15, s.StopDistance(), 0.5*0.1*s.StopTime())

	f := &FreeFall{H: 0.01, G: 9.81}
	chk.Scalar(tst, "impact speed", 1e-14, f.ImpactSpeed(), 9.81*f.ImpactTime())
}
