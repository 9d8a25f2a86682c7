// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rod

import (
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/rot"
)

// CrossSectionPoint exposes the world kinematics of a material point
// attached to the cross-section at parametric coordinate Xi, offset by B
// from the centreline in the cross-section frame
type CrossSectionPoint struct {
	Rod *Rod
	Xi  float64    // parametric location in [0,1]
	B   [3]float64 // offset in the cross-section frame

	el    int
	xl    float64
	udofs []int
	qdofs []int
}

// NewPoint creates a cross-section point of rod o
func (o *Rod) NewPoint(xi float64, b [3]float64) *CrossSectionPoint {
	p := &CrossSectionPoint{Rod: o, Xi: xi, B: b}
	p.el, p.xl = o.Msh.Locate(xi)
	nne := o.nne
	p.udofs = make([]int, 6*nne)
	p.qdofs = make([]int, 7*nne)
	for a, n := range o.Msh.Conn[p.el] {
		for i := 0; i < 3; i++ {
			p.udofs[3*a+i] = o.iuv(n) + i
			p.udofs[3*nne+3*a+i] = o.iuw(n) + i
			p.qdofs[3*a+i] = o.iqr(n) + i
		}
		for c := 0; c < 4; c++ {
			p.qdofs[3*nne+4*a+c] = o.iqp(n) + c
		}
	}
	return p
}

// UDofs returns the global velocity DOFs the point depends on
func (o *CrossSectionPoint) UDofs() []int { return o.udofs }

// QDofs returns the global coordinate DOFs the point depends on
func (o *CrossSectionPoint) QDofs() []int { return o.qdofs }

// local interpolations at the attachment site

func (o *CrossSectionPoint) quat(p []float64, q []float64) (s *refSite) {
	s = o.Rod.site(o.el, o.xl)
	for c := 0; c < 4; c++ {
		p[c] = 0
	}
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for c := 0; c < 4; c++ {
			p[c] += s.N[a] * q[o.Rod.iqp(n)+c]
		}
	}
	return
}

// Rot computes the world orientation of the cross-section frame
func (o *CrossSectionPoint) Rot(A [][]float64, t float64, q []float64) {
	var p [4]float64
	o.quat(p[:], q)
	rot.Matrix(A, p[:])
}

// Pos computes the world position
func (o *CrossSectionPoint) Pos(r []float64, t float64, q []float64) {
	s := o.Rod.site(o.el, o.xl)
	var p [4]float64
	for i := 0; i < 3; i++ {
		r[i] = 0
	}
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for i := 0; i < 3; i++ {
			r[i] += s.N[a] * q[o.Rod.iqr(n)+i]
		}
		for c := 0; c < 4; c++ {
			p[c] += s.N[a] * q[o.Rod.iqp(n)+c]
		}
	}
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i] += A[i][j] * o.B[j]
		}
	}
}

// omloc interpolates the cross-section angular velocity
func (o *CrossSectionPoint) omloc(om []float64, u []float64) {
	s := o.Rod.site(o.el, o.xl)
	om[0], om[1], om[2] = 0, 0, 0
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for i := 0; i < 3; i++ {
			om[i] += s.N[a] * u[o.Rod.iuw(n)+i]
		}
	}
}

// Vel computes the world velocity: v + A (om x b)
func (o *CrossSectionPoint) Vel(v []float64, t float64, q, u []float64) {
	s := o.Rod.site(o.el, o.xl)
	var om, wb [3]float64
	var p [4]float64
	for i := 0; i < 3; i++ {
		v[i] = 0
	}
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for i := 0; i < 3; i++ {
			v[i] += s.N[a] * u[o.Rod.iuv(n)+i]
			om[i] += s.N[a] * u[o.Rod.iuw(n)+i]
		}
		for c := 0; c < 4; c++ {
			p[c] += s.N[a] * q[o.Rod.iqp(n)+c]
		}
	}
	rot.Cross(wb[:], om[:], o.B[:])
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[i] += A[i][j] * wb[j]
		}
	}
}

// Acc computes the world acceleration. ud may be nil, in which case the
// velocity-quadratic part alone is returned.
func (o *CrossSectionPoint) Acc(ac []float64, t float64, q, u, ud []float64) {
	s := o.Rod.site(o.el, o.xl)
	var om, omd, tmp, res [3]float64
	var p [4]float64
	for i := 0; i < 3; i++ {
		ac[i] = 0
	}
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for i := 0; i < 3; i++ {
			om[i] += s.N[a] * u[o.Rod.iuw(n)+i]
			if ud != nil {
				ac[i] += s.N[a] * ud[o.Rod.iuv(n)+i]
				omd[i] += s.N[a] * ud[o.Rod.iuw(n)+i]
			}
		}
		for c := 0; c < 4; c++ {
			p[c] += s.N[a] * q[o.Rod.iqp(n)+c]
		}
	}
	// A ( omd x b + om x (om x b) )
	rot.Cross(tmp[:], om[:], o.B[:])
	rot.Cross(res[:], om[:], tmp[:])
	rot.Cross(tmp[:], omd[:], o.B[:])
	for i := 0; i < 3; i++ {
		res[i] += tmp[i]
	}
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ac[i] += A[i][j] * res[j]
		}
	}
}

// Omega computes the world angular velocity A om
func (o *CrossSectionPoint) Omega(w []float64, t float64, q, u []float64) {
	var om [3]float64
	var p [4]float64
	o.omloc(om[:], u)
	o.quat(p[:], q)
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		w[i] = 0
		for j := 0; j < 3; j++ {
			w[i] += A[i][j] * om[j]
		}
	}
}

// Psi computes the world angular acceleration. ud may be nil.
func (o *CrossSectionPoint) Psi(ps []float64, t float64, q, u, ud []float64) {
	s := o.Rod.site(o.el, o.xl)
	var om, omd [3]float64
	var p [4]float64
	for a, n := range o.Rod.Msh.Conn[o.el] {
		for i := 0; i < 3; i++ {
			om[i] += s.N[a] * u[o.Rod.iuw(n)+i]
			if ud != nil {
				omd[i] += s.N[a] * ud[o.Rod.iuw(n)+i]
			}
		}
		for c := 0; c < 4; c++ {
			p[c] += s.N[a] * q[o.Rod.iqp(n)+c]
		}
	}
	// Psi = A ( omd + om x om ) = A omd for the interpolated field
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		ps[i] = 0
		for j := 0; j < 3; j++ {
			ps[i] += A[i][j] * omd[j]
		}
	}
}

// JP computes the translation Jacobian: columns [N_a I | -N_a A S(b)]
func (o *CrossSectionPoint) JP(J [][]float64, t float64, q []float64) {
	s := o.Rod.site(o.el, o.xl)
	var p [4]float64
	o.quat(p[:], q)
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	Sb := la.MatAlloc(3, 3)
	rot.Skew(Sb, o.B[:])
	nne := o.Rod.nne
	for i := 0; i < 3; i++ {
		for j := 0; j < 6*nne; j++ {
			J[i][j] = 0
		}
	}
	for a := 0; a < nne; a++ {
		for i := 0; i < 3; i++ {
			J[i][3*a+i] = s.N[a]
			for k := 0; k < 3; k++ {
				v := 0.0
				for j := 0; j < 3; j++ {
					v += A[i][j] * Sb[j][k]
				}
				J[i][3*nne+3*a+k] = -s.N[a] * v
			}
		}
	}
}

// JR computes the rotation Jacobian: columns [0 | N_a A]
func (o *CrossSectionPoint) JR(J [][]float64, t float64, q []float64) {
	s := o.Rod.site(o.el, o.xl)
	var p [4]float64
	o.quat(p[:], q)
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	nne := o.Rod.nne
	for i := 0; i < 3; i++ {
		for j := 0; j < 6*nne; j++ {
			J[i][j] = 0
		}
	}
	for a := 0; a < nne; a++ {
		for i := 0; i < 3; i++ {
			for k := 0; k < 3; k++ {
				J[i][3*nne+3*a+k] = s.N[a] * A[i][k]
			}
		}
	}
}
