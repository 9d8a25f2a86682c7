// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/rot"
)

// PointMass is a particle with three translational degrees of freedom
type PointMass struct {
	Nm     string
	Mass   float64
	q0, u0 [3]float64
	iq, iu int
}

// NewPointMass creates a point mass
func NewPointMass(name string, mass float64, q0, u0 []float64) (o *PointMass) {
	o = new(PointMass)
	o.Nm = name
	o.Mass = mass
	if mass <= 0 {
		chk.Panic("point mass %q: mass must be positive", name)
	}
	if q0 != nil {
		copy(o.q0[:], q0)
	}
	if u0 != nil {
		copy(o.u0[:], u0)
	}
	return
}

// Name returns the body identifier
func (o *PointMass) Name() string { return o.Nm }

// Nq returns the number of generalized coordinates
func (o *PointMass) Nq() int { return 3 }

// Nu returns the number of generalized velocities
func (o *PointMass) Nu() int { return 3 }

// NlaS returns zero
func (o *PointMass) NlaS() int { return 0 }

// SetMaps assigns the global offsets
func (o *PointMass) SetMaps(iq, iu, ilaS int) { o.iq, o.iu = iq, iu }

// Maps returns the global offsets
func (o *PointMass) Maps() (iq, iu, ilaS int) { return o.iq, o.iu, 0 }

// HasAnalyticKh reports that the (vanishing) force linearization is exact
func (o *PointMass) HasAnalyticKh() bool { return true }

// InitState writes the initial state
func (o *PointMass) InitState(q, u []float64) {
	copy(q[o.iq:o.iq+3], o.q0[:])
	copy(u[o.iu:o.iu+3], o.u0[:])
}

// Qdot writes dq/dt = u
func (o *PointMass) Qdot(qd []float64, t float64, q, u []float64) {
	for i := 0; i < 3; i++ {
		qd[o.iq+i] = u[o.iu+i]
	}
}

// AddToM adds the diagonal mass block
func (o *PointMass) AddToM(M *la.Triplet, q []float64) {
	for i := 0; i < 3; i++ {
		M.Put(o.iu+i, o.iu+i, o.Mass)
	}
}

// AddToH adds nothing: a particle has no gyroscopic forces
func (o *PointMass) AddToH(h []float64, t float64, q, u []float64) {}

// AddToKh adds nothing
func (o *PointMass) AddToKh(Kb *la.Triplet, t float64, q, u []float64) {}

// GS has no internal constraints
func (o *PointMass) GS(g []float64, q []float64) {}

// AddToGSq has no internal constraints
func (o *PointMass) AddToGSq(K *la.Triplet, q []float64) {}

// StepCallback does nothing
func (o *PointMass) StepCallback(t float64, q, u []float64) {}

// Energy returns the kinetic energy
func (o *PointMass) Energy(t float64, q, u []float64) (kin, pot float64) {
	v := u[o.iu : o.iu+3]
	return 0.5 * o.Mass * rot.Dot3(v, v), 0
}

// MassPoint exposes the particle itself as a material point
type MassPoint struct {
	Mass  *PointMass
	udofs []int
	qdofs []int
}

// NewPoint creates the material point of the particle
func (o *PointMass) NewPoint() *MassPoint {
	p := &MassPoint{Mass: o}
	p.udofs = []int{o.iu, o.iu + 1, o.iu + 2}
	p.qdofs = []int{o.iq, o.iq + 1, o.iq + 2}
	return p
}

// UDofs returns the global velocity DOFs
func (o *MassPoint) UDofs() []int { return o.udofs }

// QDofs returns the global coordinate DOFs
func (o *MassPoint) QDofs() []int { return o.qdofs }

// Pos copies the particle position
func (o *MassPoint) Pos(r []float64, t float64, q []float64) {
	copy(r, q[o.Mass.iq:o.Mass.iq+3])
}

// Vel copies the particle velocity
func (o *MassPoint) Vel(v []float64, t float64, q, u []float64) {
	copy(v, u[o.Mass.iu:o.Mass.iu+3])
}

// Acc copies the particle acceleration. ud may be nil.
func (o *MassPoint) Acc(a []float64, t float64, q, u, ud []float64) {
	a[0], a[1], a[2] = 0, 0, 0
	if ud != nil {
		copy(a, ud[o.Mass.iu:o.Mass.iu+3])
	}
}

// Rot returns the identity: a particle carries no orientation
func (o *MassPoint) Rot(A [][]float64, t float64, q []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = 0
		}
		A[i][i] = 1
	}
}

// Omega returns zero
func (o *MassPoint) Omega(om []float64, t float64, q, u []float64) {
	om[0], om[1], om[2] = 0, 0, 0
}

// Psi returns zero
func (o *MassPoint) Psi(ps []float64, t float64, q, u, ud []float64) {
	ps[0], ps[1], ps[2] = 0, 0, 0
}

// JP is the identity on the particle DOFs
func (o *MassPoint) JP(J [][]float64, t float64, q []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			J[i][j] = 0
		}
		J[i][i] = 1
	}
}

// JR is zero
func (o *MassPoint) JR(J [][]float64, t float64, q []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			J[i][j] = 0
		}
	}
}
