// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele defines the contracts between bodies, interactions and the
// assembler: bodies carry generalized coordinates and produce mass and force
// contributions; interactions couple material points of bodies through
// bilateral constraints, set-valued contact laws, or applied forces
package ele

import (
	"github.com/cpmech/gosl/la"
)

// Body is a contribution owning generalized coordinates q and velocities u.
// All methods receive GLOBAL vectors; implementations address their own
// entries through the offsets assigned by the domain via SetMaps.
type Body interface {

	// identification and dimensions
	Name() string             // body identifier
	Nq() int                  // number of generalized coordinates
	Nu() int                  // number of generalized velocities
	NlaS() int                // number of internal (e.g. quaternion norm) constraints
	SetMaps(iq, iu, ilaS int) // assigns global offsets
	Maps() (iq, iu, ilaS int) // returns global offsets

	// state
	InitState(q, u []float64) // writes initial coordinates/velocities at own offsets

	// kinematic equation: writes own slice of qd with dq/dt given (t,q,u)
	Qdot(qd []float64, t float64, q, u []float64)

	// dynamics
	AddToM(M *la.Triplet, q []float64)                 // adds mass matrix block
	AddToH(h []float64, t float64, q, u []float64)     // adds gyroscopic and potential forces
	AddToKh(Kb *la.Triplet, t float64, q, u []float64) // adds dh/dq block
	HasAnalyticKh() bool                               // reports whether AddToKh is exact or a numerical fallback

	// internal constraints on coordinates (no-ops when NlaS() == 0)
	GS(g []float64, q []float64)         // writes constraint values at own offsets
	AddToGSq(K *la.Triplet, q []float64) // adds dGS/dq block (nlaS x nq)

	// maintenance after an accepted step, e.g. quaternion renormalization
	StepCallback(t float64, q, u []float64)

	// diagnostics
	Energy(t float64, q, u []float64) (kinetic, potential float64)
}

// Point exposes the kinematics of one material point of a body, resolved in
// the world frame. Interactions are formulated against this interface so
// that a joint does not care whether it attaches to a rod cross-section, a
// rigid body or a fixed frame.
type Point interface {
	Pos(r []float64, t float64, q []float64)         // world position
	Vel(v []float64, t float64, q, u []float64)      // world velocity
	Acc(a []float64, t float64, q, u, ud []float64)  // world acceleration (ud may be nil for zero u̇)
	Rot(A [][]float64, t float64, q []float64)       // world orientation (3x3)
	Omega(om []float64, t float64, q, u []float64)   // world angular velocity
	Psi(ps []float64, t float64, q, u, ud []float64) // world angular acceleration (ud may be nil)
	JP(J [][]float64, t float64, q []float64)        // translation Jacobian (3 x len(UDofs))
	JR(J [][]float64, t float64, q []float64)        // rotation Jacobian (3 x len(UDofs))
	UDofs() []int                                    // global u indices of the Jacobian columns
	QDofs() []int                                    // global q indices this point depends on
}

// Bilateral is a position-level constraint g(t,q) = 0 enforced by Lagrange
// multipliers
type Bilateral interface {
	Name() string
	Nla() int        // number of constraint equations
	SetMaps(ila int) // assigns global multiplier offset
	Maps() (ila int)

	G(g []float64, t float64, q []float64)               // writes g at own offsets
	GDot(gd []float64, t float64, q, u []float64)        // writes dg/dt
	GDDot(gdd []float64, t float64, q, u, ud []float64)  // writes d2g/dt2 (ud may be nil)
	AddToW(W *la.Triplet, t float64, q []float64)        // adds force directions (nu x nla)
	AddToGq(K *la.Triplet, t float64, q []float64)       // adds dg/dq block (nla x nq)
	AddToWlaQ(K *la.Triplet, t float64, q, la []float64) // adds d(W la)/dq block (nu x nq)
}

// VelocityBilateral is a velocity-level (nonholonomic) constraint
// gamma(t,q,u) = 0
type VelocityBilateral interface {
	Name() string
	Ngamma() int
	SetMaps(igam int)
	Maps() (igam int)

	Gamma(gam []float64, t float64, q, u []float64)
	GammaDot(gamd []float64, t float64, q, u, ud []float64) // ud may be nil
	AddToW(W *la.Triplet, t float64, q []float64)           // nu x ngamma
	AddToWlaQ(K *la.Triplet, t float64, q, la []float64)
}

// Unilateral is a frictional contact: normal gap functions with a Signorini
// law and associated tangential Coulomb friction. Friction components are
// grouped per normal contact; each group is constrained to the disk of
// radius mu*laN.
type Unilateral interface {
	Name() string
	NlaN() int // number of normal contacts
	NlaF() int // number of friction components
	SetMaps(ilaN, ilaF int)
	Maps() (ilaN, ilaF int)

	GN(g []float64, t float64, q []float64)         // normal gaps
	GNDot(gd []float64, t float64, q, u []float64)  // normal gap rates
	GammaF(gf []float64, t float64, q, u []float64) // tangential sliding velocities
	AddToWN(W *la.Triplet, t float64, q []float64)  // normal force directions (nu x nlaN)
	AddToWF(W *la.Triplet, t float64, q []float64)  // friction force directions (nu x nlaF)

	// law parameters, indexed per normal contact
	FrictionGroups() [][]int // friction component indices attached to each normal contact
	Mu() []float64           // friction coefficients
	EN() []float64           // normal restitution coefficients
	EF() []float64           // tangential restitution coefficients
	ProxRN() []float64       // prox parameters, normal
	ProxRF() []float64       // prox parameters, friction
}

// Force is an applied load or actuator contributing generalized forces only
type Force interface {
	Name() string
	AddToH(h []float64, t float64, q, u []float64)
	Energy(t float64, q, u []float64) float64 // potential of the load (0 for nonconservative)
}

// PutBlock adds the dense block B at row/column offsets (i0,j0) of the
// sparse triplet K
func PutBlock(K *la.Triplet, i0, j0 int, B [][]float64) {
	for i := 0; i < len(B); i++ {
		for j := 0; j < len(B[i]); j++ {
			if B[i][j] != 0 {
				K.Put(i0+i, j0+j, B[i][j])
			}
		}
	}
}

// PutBlockMapped adds the dense block B to K using explicit row and column
// index maps
func PutBlockMapped(K *la.Triplet, rmap, cmap []int, B [][]float64) {
	for i, I := range rmap {
		for j, J := range cmap {
			if B[i][j] != 0 {
				K.Put(I, J, B[i][j])
			}
		}
	}
}
