// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rigid implements non-deformable bodies: a rigid body with
// Euler-angle orientation, a point mass, and a fixed frame usable as the
// ground side of joints
package rigid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/rot"
)

// Body is a rigid body with six degrees of freedom: centre of mass position
// and an Euler-angle sequence for orientation.
//
//	q = [r (3), phi (3)]    u = [v (3), om (3)]
//
// with om the angular velocity in the body frame. The Euler sequence is
// selected by name ("zxz", "xyz", ...) from a closed table of basic
// rotations.
type Body struct {

	// input
	Nm    string
	Mass  float64
	Theta [3][3]float64 // inertia tensor about the centre of mass, body frame
	Axes  [3]int        // Euler sequence

	// state
	q0, u0 [6]float64

	// maps
	iq, iu int
}

// New creates a rigid body with the given Euler sequence, e.g. "zxz"
func New(name string, mass float64, theta [3][3]float64, sequence string, q0, u0 []float64) (o *Body) {
	o = new(Body)
	o.Nm = name
	o.Mass = mass
	o.Theta = theta
	o.Axes = rot.ParseAxes(sequence)
	if q0 != nil {
		if len(q0) != 6 {
			chk.Panic("rigid body %q: q0 must have 6 components", name)
		}
		copy(o.q0[:], q0)
	}
	if u0 != nil {
		if len(u0) != 6 {
			chk.Panic("rigid body %q: u0 must have 6 components", name)
		}
		copy(o.u0[:], u0)
	}
	return
}

// Name returns the body identifier
func (o *Body) Name() string { return o.Nm }

// Nq returns the number of generalized coordinates
func (o *Body) Nq() int { return 6 }

// Nu returns the number of generalized velocities
func (o *Body) Nu() int { return 6 }

// NlaS returns zero: Euler angles need no internal constraint
func (o *Body) NlaS() int { return 0 }

// SetMaps assigns the global offsets
func (o *Body) SetMaps(iq, iu, ilaS int) { o.iq, o.iu = iq, iu }

// Maps returns the global offsets
func (o *Body) Maps() (iq, iu, ilaS int) { return o.iq, o.iu, 0 }

// HasAnalyticKh reports that the force linearization is exact
func (o *Body) HasAnalyticKh() bool { return true }

// InitState writes the initial state
func (o *Body) InitState(q, u []float64) {
	copy(q[o.iq:o.iq+6], o.q0[:])
	copy(u[o.iu:o.iu+6], o.u0[:])
}

// Qdot writes the kinematic equation: positions integrate velocities and
// Euler angles integrate the inverse kinematic matrix times the body-frame
// angular velocity
func (o *Body) Qdot(qd []float64, t float64, q, u []float64) {
	for i := 0; i < 3; i++ {
		qd[o.iq+i] = u[o.iu+i]
	}
	Q := la.MatAlloc(3, 3)
	Qi := la.MatAlloc(3, 3)
	rot.EulerKinMat(Q, o.Axes, q[o.iq+3:o.iq+6])
	rot.Inv3(Qi, Q, 1e-12)
	for i := 0; i < 3; i++ {
		qd[o.iq+3+i] = 0
		for k := 0; k < 3; k++ {
			qd[o.iq+3+i] += Qi[i][k] * u[o.iu+3+k]
		}
	}
}

// AddToM adds the constant mass matrix blocks
func (o *Body) AddToM(M *la.Triplet, q []float64) {
	for i := 0; i < 3; i++ {
		M.Put(o.iu+i, o.iu+i, o.Mass)
		for j := 0; j < 3; j++ {
			if o.Theta[i][j] != 0 {
				M.Put(o.iu+3+i, o.iu+3+j, o.Theta[i][j])
			}
		}
	}
}

// AddToH adds the gyroscopic force -om x Theta om
func (o *Body) AddToH(h []float64, t float64, q, u []float64) {
	om := u[o.iu+3 : o.iu+6]
	var tw, gyr [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tw[i] += o.Theta[i][j] * om[j]
		}
	}
	rot.Cross(gyr[:], om, tw[:])
	for i := 0; i < 3; i++ {
		h[o.iu+3+i] -= gyr[i]
	}
}

// AddToKh adds nothing: the gyroscopic force does not depend on q
func (o *Body) AddToKh(Kb *la.Triplet, t float64, q, u []float64) {}

// GS has no internal constraints
func (o *Body) GS(g []float64, q []float64) {}

// AddToGSq has no internal constraints
func (o *Body) AddToGSq(K *la.Triplet, q []float64) {}

// StepCallback wraps the Euler angles into (-pi, pi]
func (o *Body) StepCallback(t float64, q, u []float64) {
	for i := 0; i < 3; i++ {
		a := q[o.iq+3+i]
		for a > math.Pi {
			a -= 2 * math.Pi
		}
		for a <= -math.Pi {
			a += 2 * math.Pi
		}
		q[o.iq+3+i] = a
	}
}

// Energy returns the kinetic energy (the body itself carries no potential)
func (o *Body) Energy(t float64, q, u []float64) (kin, pot float64) {
	v := u[o.iu : o.iu+3]
	om := u[o.iu+3 : o.iu+6]
	kin = 0.5 * o.Mass * rot.Dot3(v, v)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			kin += 0.5 * om[i] * o.Theta[i][j] * om[j]
		}
	}
	return
}

// BodyPoint exposes the world kinematics of a material point fixed in the
// body frame at offset B from the centre of mass
type BodyPoint struct {
	Body  *Body
	B     [3]float64
	udofs []int
	qdofs []int
}

// NewPoint creates a material point of body o
func (o *Body) NewPoint(b [3]float64) *BodyPoint {
	p := &BodyPoint{Body: o, B: b}
	p.udofs = make([]int, 6)
	p.qdofs = make([]int, 6)
	for i := 0; i < 6; i++ {
		p.udofs[i] = o.iu + i
		p.qdofs[i] = o.iq + i
	}
	return p
}

// UDofs returns the global velocity DOFs
func (o *BodyPoint) UDofs() []int { return o.udofs }

// QDofs returns the global coordinate DOFs
func (o *BodyPoint) QDofs() []int { return o.qdofs }

// Rot computes the world orientation
func (o *BodyPoint) Rot(A [][]float64, t float64, q []float64) {
	rot.EulerMatrix(A, o.Body.Axes, q[o.Body.iq+3:o.Body.iq+6])
}

// Pos computes the world position r + A b
func (o *BodyPoint) Pos(r []float64, t float64, q []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	for i := 0; i < 3; i++ {
		r[i] = q[o.Body.iq+i]
		for j := 0; j < 3; j++ {
			r[i] += A[i][j] * o.B[j]
		}
	}
}

// Vel computes the world velocity v + A (om x b)
func (o *BodyPoint) Vel(v []float64, t float64, q, u []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	var wb [3]float64
	rot.Cross(wb[:], u[o.Body.iu+3:o.Body.iu+6], o.B[:])
	for i := 0; i < 3; i++ {
		v[i] = u[o.Body.iu+i]
		for j := 0; j < 3; j++ {
			v[i] += A[i][j] * wb[j]
		}
	}
}

// Acc computes the world acceleration. ud may be nil.
func (o *BodyPoint) Acc(ac []float64, t float64, q, u, ud []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	om := u[o.Body.iu+3 : o.Body.iu+6]
	var omd, tmp, res [3]float64
	for i := 0; i < 3; i++ {
		ac[i] = 0
		if ud != nil {
			ac[i] = ud[o.Body.iu+i]
			omd[i] = ud[o.Body.iu+3+i]
		}
	}
	rot.Cross(tmp[:], om, o.B[:])
	rot.Cross(res[:], om, tmp[:])
	rot.Cross(tmp[:], omd[:], o.B[:])
	for i := 0; i < 3; i++ {
		res[i] += tmp[i]
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ac[i] += A[i][j] * res[j]
		}
	}
}

// Omega computes the world angular velocity A om
func (o *BodyPoint) Omega(w []float64, t float64, q, u []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	om := u[o.Body.iu+3 : o.Body.iu+6]
	for i := 0; i < 3; i++ {
		w[i] = 0
		for j := 0; j < 3; j++ {
			w[i] += A[i][j] * om[j]
		}
	}
}

// Psi computes the world angular acceleration A omd. ud may be nil.
func (o *BodyPoint) Psi(ps []float64, t float64, q, u, ud []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	for i := 0; i < 3; i++ {
		ps[i] = 0
		if ud != nil {
			for j := 0; j < 3; j++ {
				ps[i] += A[i][j] * ud[o.Body.iu+3+j]
			}
		}
	}
}

// JP computes the translation Jacobian [I | -A S(b)]
func (o *BodyPoint) JP(J [][]float64, t float64, q []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	Sb := la.MatAlloc(3, 3)
	rot.Skew(Sb, o.B[:])
	for i := 0; i < 3; i++ {
		for j := 0; j < 6; j++ {
			J[i][j] = 0
		}
		J[i][i] = 1
		for k := 0; k < 3; k++ {
			for j := 0; j < 3; j++ {
				J[i][3+k] -= A[i][j] * Sb[j][k]
			}
		}
	}
}

// JR computes the rotation Jacobian [0 | A]
func (o *BodyPoint) JR(J [][]float64, t float64, q []float64) {
	A := la.MatAlloc(3, 3)
	o.Rot(A, t, q)
	for i := 0; i < 3; i++ {
		for j := 0; j < 6; j++ {
			J[i][j] = 0
		}
		for k := 0; k < 3; k++ {
			J[i][3+k] = A[i][k]
		}
	}
}
