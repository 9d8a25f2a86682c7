// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rod implements a geometrically exact spatial rod finite element:
// centreline position and cross-section orientation are interpolated
// independently with Lagrange polynomials, orientations being parametrized
// by nodal non-unit quaternions kept at unit norm through an internal
// constraint. Strain measures are scaled by the reference arc-length
// Jacobian so that the reference configuration is exactly stress free.
package rod

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/mdl"
	"github.com/lisaeb/cardillo/rot"
	"github.com/lisaeb/cardillo/shp"
)

// Rod is a spatial rod discretized with nne-node elements. Generalized
// coordinates are laid out positions first, quaternions second:
//
//	q = [r_0 ... r_{N-1}, p_0 ... p_{N-1}]           (3N + 4N)
//	u = [v_0 ... v_{N-1}, om_0 ... om_{N-1}]         (3N + 3N)
//
// with om_a the angular velocity of node a in its cross-section frame. The
// kinematic equation couples them nodewise through the quaternion rate map.
type Rod struct {

	// input
	Nm       string          // name
	Msh      *shp.Mesh       // centreline mesh and quadrature data
	Mat      mdl.RodMaterial // constitutive law
	RhoA     float64         // mass per unit reference length
	Irho     [3]float64      // principal cross-section inertia densities
	Analytic bool            // use the exact force linearization

	// state
	q0, u0 []float64 // initial and reference coordinates/velocities

	// maps
	iq, iu, ilaS int

	// reference data
	cache  *shp.Cache
	warned bool
	st     *stiffScratch

	// scratch (element size)
	nne        int
	qmap, umap []int // global DOF maps per element
	fe         []float64
	fq         []float64
	Ke         [][]float64
	Kq         [][]float64
}

// refSite holds the cached evaluation data of one parametric location:
// basis values and the reference strain state
type refSite struct {
	N, Nxi []float64
	J      float64    // reference arc-length Jacobian
	Gam0   [3]float64 // reference stretch/shear strains
	Kap0   [3]float64 // reference curvatures
}

// New creates a rod. q0 defines both the initial and the reference
// configuration; u0 may be nil for a rod starting at rest.
func New(name string, msh *shp.Mesh, mat mdl.RodMaterial, rhoA float64, irho [3]float64, q0, u0 []float64) (o *Rod) {
	o = new(Rod)
	o.Nm = name
	o.Msh = msh
	o.Mat = mat
	o.RhoA = rhoA
	o.Irho = irho
	o.Analytic = true
	if len(q0) != o.Nq() {
		chk.Panic("rod %q: q0 has %d components but %d are required", name, len(q0), o.Nq())
	}
	o.q0 = make([]float64, o.Nq())
	copy(o.q0, q0)
	o.u0 = make([]float64, o.Nu())
	if u0 != nil {
		if len(u0) != o.Nu() {
			chk.Panic("rod %q: u0 has %d components but %d are required", name, len(u0), o.Nu())
		}
		copy(o.u0, u0)
	}
	o.cache = shp.NewCache(msh.Nelem*msh.Nquad + 10)
	o.nne = msh.Basis.Nnodes
	o.qmap = make([]int, 7*o.nne)
	o.umap = make([]int, 6*o.nne)
	o.fe = make([]float64, 6*o.nne)
	o.fq = make([]float64, 7*o.nne)
	o.Ke = la.MatAlloc(6*o.nne, 7*o.nne)
	o.Kq = la.MatAlloc(7*o.nne, 7*o.nne)
	return
}

// Name returns the rod identifier
func (o *Rod) Name() string { return o.Nm }

// Nq returns the number of generalized coordinates
func (o *Rod) Nq() int { return 7 * o.Msh.Nnodes }

// Nu returns the number of generalized velocities
func (o *Rod) Nu() int { return 6 * o.Msh.Nnodes }

// NlaS returns the number of quaternion norm constraints
func (o *Rod) NlaS() int { return o.Msh.Nnodes }

// SetMaps assigns the global offsets
func (o *Rod) SetMaps(iq, iu, ilaS int) { o.iq, o.iu, o.ilaS = iq, iu, ilaS }

// Maps returns the global offsets
func (o *Rod) Maps() (iq, iu, ilaS int) { return o.iq, o.iu, o.ilaS }

// HasAnalyticKh reports whether the exact force linearization is active
func (o *Rod) HasAnalyticKh() bool { return o.Analytic }

// InitState writes the initial coordinates and velocities
func (o *Rod) InitState(q, u []float64) {
	copy(q[o.iq:o.iq+o.Nq()], o.q0)
	copy(u[o.iu:o.iu+o.Nu()], o.u0)
}

// global indices of nodal blocks

func (o *Rod) iqr(n int) int { return o.iq + 3*n }                // position of node n
func (o *Rod) iqp(n int) int { return o.iq + 3*o.Msh.Nnodes + 4*n } // quaternion of node n
func (o *Rod) iuv(n int) int { return o.iu + 3*n }                // velocity of node n
func (o *Rod) iuw(n int) int { return o.iu + 3*o.Msh.Nnodes + 3*n } // angular velocity of node n

// setElemMaps fills qmap/umap with the global DOF indices of element e.
// Local q layout: [r blocks (3 each), p blocks (4 each)]; local u layout:
// [v blocks, om blocks].
func (o *Rod) setElemMaps(e int) {
	for a, n := range o.Msh.Conn[e] {
		for i := 0; i < 3; i++ {
			o.qmap[3*a+i] = o.iqr(n) + i
			o.umap[3*a+i] = o.iuv(n) + i
			o.umap[3*o.nne+3*a+i] = o.iuw(n) + i
		}
		for c := 0; c < 4; c++ {
			o.qmap[3*o.nne+4*a+c] = o.iqp(n) + c
		}
	}
}

// site returns the cached basis values and reference strain state at local
// coordinate xl of element e
func (o *Rod) site(e int, xl float64) *refSite {
	key := shp.CacheKey{El: e, Xi: xl}
	if v, ok := o.cache.Get(key); ok {
		return v.(*refSite)
	}
	s := new(refSite)
	s.N = make([]float64, o.nne)
	s.Nxi = make([]float64, o.nne)
	o.Msh.Basis.Eval(s.N, s.Nxi, xl)
	var gb, kb [3]float64
	o.strainsBar(gb[:], kb[:], e, s.N, s.Nxi, o.q0)
	s.J = rot.Norm3(gb[:])
	if s.J < 1e-14 {
		chk.Panic("rod %q: reference configuration is degenerate at element %d, xi=%g", o.Nm, e, xl)
	}
	for i := 0; i < 3; i++ {
		s.Gam0[i] = gb[i] / s.J
		s.Kap0[i] = kb[i] / s.J
	}
	o.cache.Put(key, s)
	return s
}

// strainsBar computes the unscaled strain measures at one location:
//
//	gb = A'(p) r_xi
//	kb = 2 vec(conj(p) p_xi) / (p . p)
func (o *Rod) strainsBar(gb, kb []float64, e int, N, Nxi []float64, q []float64) {
	var rp [3]float64
	var p, pp [4]float64
	for a, n := range o.Msh.Conn[e] {
		for i := 0; i < 3; i++ {
			rp[i] += Nxi[a] * q[o.iqr(n)+i]
		}
		for c := 0; c < 4; c++ {
			p[c] += N[a] * q[o.iqp(n)+c]
			pp[c] += Nxi[a] * q[o.iqp(n)+c]
		}
	}
	A := la.MatAlloc(3, 3)
	rot.Matrix(A, p[:])
	for i := 0; i < 3; i++ {
		gb[i] = A[0][i]*rp[0] + A[1][i]*rp[1] + A[2][i]*rp[2]
	}
	rot.LocalRate(kb, p[:], pp[:])
}

// Strains evaluates the scaled strain measures at global parametric
// coordinate xi in [0,1]: Gam is the stretch/shear vector and Kap the
// twist/bending vector, both in the cross-section frame. At the reference
// configuration they coincide with the cached reference values exactly.
func (o *Rod) Strains(Gam, Kap []float64, xi float64, q []float64) {
	e, xl := o.Msh.Locate(xi)
	s := o.site(e, xl)
	var gb, kb [3]float64
	o.strainsBar(gb[:], kb[:], e, s.N, s.Nxi, q)
	for i := 0; i < 3; i++ {
		Gam[i] = gb[i] / s.J
		Kap[i] = kb[i] / s.J
	}
}

// Qdot writes the kinematic equation: nodal positions integrate the nodal
// velocities and nodal quaternions integrate the nodal angular velocities
// through the quaternion rate map
func (o *Rod) Qdot(qd []float64, t float64, q, u []float64) {
	B := la.MatAlloc(4, 3)
	for n := 0; n < o.Msh.Nnodes; n++ {
		for i := 0; i < 3; i++ {
			qd[o.iqr(n)+i] = u[o.iuv(n)+i]
		}
		rot.KinMat(B, q[o.iqp(n):o.iqp(n)+4])
		for c := 0; c < 4; c++ {
			qd[o.iqp(n)+c] = 0
			for k := 0; k < 3; k++ {
				qd[o.iqp(n)+c] += B[c][k] * u[o.iuw(n)+k]
			}
		}
	}
}

// AddToM adds the consistent mass matrix. It is constant for this rod class
// since it is built from reference arc-length Jacobians only.
func (o *Rod) AddToM(M *la.Triplet, q []float64) {
	for e := 0; e < o.Msh.Nelem; e++ {
		for iq := 0; iq < o.Msh.Nquad; iq++ {
			s := o.site(e, o.Msh.Xg[iq])
			c := o.Msh.Wg[iq] * s.J
			for a, na := range o.Msh.Conn[e] {
				for b, nb := range o.Msh.Conn[e] {
					m := c * s.N[a] * s.N[b]
					for i := 0; i < 3; i++ {
						M.Put(o.iuv(na)+i, o.iuv(nb)+i, m*o.RhoA)
						M.Put(o.iuw(na)+i, o.iuw(nb)+i, m*o.Irho[i])
					}
				}
			}
		}
	}
}

// AddToH adds the internal (elastic) and gyroscopic generalized forces
func (o *Rod) AddToH(h []float64, t float64, q, u []float64) {
	for e := 0; e < o.Msh.Nelem; e++ {
		o.setElemMaps(e)
		o.elemForce(o.fe, e, q)
		for i, I := range o.umap {
			h[I] += o.fe[i]
		}
	}
	// gyroscopic term: om x I om, interpolated at the Gauss points
	var om [3]float64
	for e := 0; e < o.Msh.Nelem; e++ {
		for iq := 0; iq < o.Msh.Nquad; iq++ {
			s := o.site(e, o.Msh.Xg[iq])
			om[0], om[1], om[2] = 0, 0, 0
			for a, n := range o.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					om[i] += s.N[a] * u[o.iuw(n)+i]
				}
			}
			var gyr [3]float64
			gyr[0] = om[1]*o.Irho[2]*om[2] - om[2]*o.Irho[1]*om[1]
			gyr[1] = om[2]*o.Irho[0]*om[0] - om[0]*o.Irho[2]*om[2]
			gyr[2] = om[0]*o.Irho[1]*om[1] - om[1]*o.Irho[0]*om[0]
			c := o.Msh.Wg[iq] * s.J
			for a, n := range o.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					h[o.iuw(n)+i] -= c * s.N[a] * gyr[i]
				}
			}
		}
	}
}

// elemForce computes the element generalized force (u-space, local layout)
// from the elastic potential: fe = T' fq with fq the negative gradient of
// the stored energy with respect to the element coordinates and T the
// nodewise quaternion rate map
func (o *Rod) elemForce(fe []float64, e int, q []float64) {
	o.elemForceQ(o.fq, e, q)
	o.mapForceToU(fe, o.fq, e, q)
}

// mapForceToU projects a q-space element force to u-space
func (o *Rod) mapForceToU(fe, fq []float64, e int, q []float64) {
	for i := 0; i < 3*o.nne; i++ {
		fe[i] = fq[i]
	}
	B := la.MatAlloc(4, 3)
	for a, n := range o.Msh.Conn[e] {
		rot.KinMat(B, q[o.iqp(n):o.iqp(n)+4])
		for k := 0; k < 3; k++ {
			v := 0.0
			for c := 0; c < 4; c++ {
				v += B[c][k] * fq[3*o.nne+4*a+c]
			}
			fe[3*o.nne+3*a+k] = v
		}
	}
}

// elemForceQ computes the q-space element elastic force
func (o *Rod) elemForceQ(fq []float64, e int, q []float64) {
	for i := range fq {
		fq[i] = 0
	}
	var gb, kb [3]float64
	var sn, sm [3]float64
	var rp [3]float64
	var p, pp [4]float64
	dA := alloc334()
	dkp := la.MatAlloc(3, 4)
	dkpp := la.MatAlloc(3, 4)
	for iq := 0; iq < o.Msh.Nquad; iq++ {
		s := o.site(e, o.Msh.Xg[iq])
		o.interp(rp[:], p[:], pp[:], e, s.N, s.Nxi, q)
		A := la.MatAlloc(3, 3)
		rot.Matrix(A, p[:])
		for i := 0; i < 3; i++ {
			gb[i] = A[0][i]*rp[0] + A[1][i]*rp[1] + A[2][i]*rp[2]
		}
		rot.LocalRate(kb[:], p[:], pp[:])
		var gam, kap [3]float64
		for i := 0; i < 3; i++ {
			gam[i] = gb[i] / s.J
			kap[i] = kb[i] / s.J
		}
		o.Mat.Stress(sn[:], sm[:], gam[:], kap[:], s.Gam0[:], s.Kap0[:])
		rot.MatrixDeriv(dA, p[:])
		rot.LocalRateDerivs(dkp, dkpp, p[:], pp[:])
		w := o.Msh.Wg[iq]
		for a := 0; a < o.nne; a++ {
			// translational: dGamBar_i/dr_aj = Nxi_a A_ji
			for j := 0; j < 3; j++ {
				v := 0.0
				for i := 0; i < 3; i++ {
					v += A[j][i] * sn[i]
				}
				fq[3*a+j] -= w * s.Nxi[a] * v
			}
			// orientational: strain derivatives through A(p) and the rate map
			for c := 0; c < 4; c++ {
				v := 0.0
				for i := 0; i < 3; i++ {
					dg := 0.0
					for j := 0; j < 3; j++ {
						dg += dA[j][i][c] * rp[j]
					}
					v += sn[i] * s.N[a] * dg
					v += sm[i] * (s.N[a]*dkp[i][c] + s.Nxi[a]*dkpp[i][c])
				}
				fq[3*o.nne+4*a+c] -= w * v
			}
		}
	}
}

// interp evaluates the interpolated tangent, quaternion, and quaternion
// derivative at one location of element e
func (o *Rod) interp(rp, p, pp []float64, e int, N, Nxi []float64, q []float64) {
	for i := 0; i < 3; i++ {
		rp[i] = 0
	}
	for c := 0; c < 4; c++ {
		p[c] = 0
		pp[c] = 0
	}
	for a, n := range o.Msh.Conn[e] {
		for i := 0; i < 3; i++ {
			rp[i] += Nxi[a] * q[o.iqr(n)+i]
		}
		for c := 0; c < 4; c++ {
			p[c] += N[a] * q[o.iqp(n)+c]
			pp[c] += Nxi[a] * q[o.iqp(n)+c]
		}
	}
}

// GS writes the quaternion unit-norm constraints g = p.p - 1
func (o *Rod) GS(g []float64, q []float64) {
	for n := 0; n < o.Msh.Nnodes; n++ {
		p := q[o.iqp(n) : o.iqp(n)+4]
		g[o.ilaS+n] = p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3] - 1.0
	}
}

// AddToGSq adds the constraint Jacobian rows 2 p'
func (o *Rod) AddToGSq(K *la.Triplet, q []float64) {
	for n := 0; n < o.Msh.Nnodes; n++ {
		for c := 0; c < 4; c++ {
			K.Put(o.ilaS+n, o.iqp(n)+c, 2.0*q[o.iqp(n)+c])
		}
	}
}

// StepCallback renormalizes the nodal quaternions after an accepted step
func (o *Rod) StepCallback(t float64, q, u []float64) {
	for n := 0; n < o.Msh.Nnodes; n++ {
		rot.QuatNormalize(q[o.iqp(n) : o.iqp(n)+4])
	}
}

// Energy returns the kinetic and elastic potential energies
func (o *Rod) Energy(t float64, q, u []float64) (kin, pot float64) {
	var gb, kb [3]float64
	var v, om [3]float64
	for e := 0; e < o.Msh.Nelem; e++ {
		for iq := 0; iq < o.Msh.Nquad; iq++ {
			s := o.site(e, o.Msh.Xg[iq])
			o.strainsBar(gb[:], kb[:], e, s.N, s.Nxi, q)
			var gam, kap [3]float64
			for i := 0; i < 3; i++ {
				gam[i] = gb[i] / s.J
				kap[i] = kb[i] / s.J
			}
			pot += o.Msh.Wg[iq] * s.J * o.Mat.Potential(gam[:], kap[:], s.Gam0[:], s.Kap0[:])
			v[0], v[1], v[2] = 0, 0, 0
			om[0], om[1], om[2] = 0, 0, 0
			for a, n := range o.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					v[i] += s.N[a] * u[o.iuv(n)+i]
					om[i] += s.N[a] * u[o.iuw(n)+i]
				}
			}
			c := o.Msh.Wg[iq] * s.J
			kin += 0.5 * c * (o.RhoA*rot.Dot3(v[:], v[:]) +
				o.Irho[0]*om[0]*om[0] + o.Irho[1]*om[1]*om[1] + o.Irho[2]*om[2]*om[2])
		}
	}
	return
}

// Momenta returns the linear momentum and the angular momentum about the
// inertial origin. The rotary contribution maps the director-frame angular
// velocity through the cross-section orientation.
func (o *Rod) Momenta(q, u []float64) (p, l [3]float64) {
	pq := make([]float64, 4)
	A := la.MatAlloc(3, 3)
	var r, v, om, rxv [3]float64
	for e := 0; e < o.Msh.Nelem; e++ {
		for iq := 0; iq < o.Msh.Nquad; iq++ {
			s := o.site(e, o.Msh.Xg[iq])
			for i := 0; i < 3; i++ {
				r[i], v[i], om[i] = 0, 0, 0
			}
			for c := 0; c < 4; c++ {
				pq[c] = 0
			}
			for a, n := range o.Msh.Conn[e] {
				for i := 0; i < 3; i++ {
					r[i] += s.N[a] * q[o.iqr(n)+i]
					v[i] += s.N[a] * u[o.iuv(n)+i]
					om[i] += s.N[a] * u[o.iuw(n)+i]
				}
				for c := 0; c < 4; c++ {
					pq[c] += s.N[a] * q[o.iqp(n)+c]
				}
			}
			rot.QuatNormalize(pq)
			rot.Matrix(A, pq)
			rot.Cross(rxv[:], r[:], v[:])
			c := o.Msh.Wg[iq] * s.J
			for i := 0; i < 3; i++ {
				p[i] += c * o.RhoA * v[i]
				l[i] += c * o.RhoA * rxv[i]
				for k := 0; k < 3; k++ {
					l[i] += c * A[i][k] * o.Irho[k] * om[k]
				}
			}
		}
	}
	return
}

func alloc334() [][][]float64 {
	dA := make([][][]float64, 3)
	for i := 0; i < 3; i++ {
		dA[i] = la.MatAlloc(3, 4)
	}
	return dA
}

// AddToKh adds the derivative of the generalized forces with respect to the
// coordinates. With Analytic set the exact linearization is used; otherwise
// a central-difference fallback of the element force is assembled and a
// diagnostic warning is printed once.
func (o *Rod) AddToKh(Kb *la.Triplet, t float64, q, u []float64) {
	if !o.Analytic {
		if !o.warned {
			io.Pfred("rod %q: analytic force linearization disabled; using numerical directional derivatives\n", o.Nm)
			o.warned = true
		}
		o.addKhNumerical(Kb, q)
		return
	}
	for e := 0; e < o.Msh.Nelem; e++ {
		o.setElemMaps(e)
		o.elemStiff(o.Ke, e, q)
		for i, I := range o.umap {
			for j, J := range o.qmap {
				if o.Ke[i][j] != 0 {
					Kb.Put(I, J, o.Ke[i][j])
				}
			}
		}
	}
}

// addKhNumerical assembles the element force derivative by central
// differences on the element coordinates
func (o *Rod) addKhNumerical(Kb *la.Triplet, q []float64) {
	h := 1e-7
	qc := make([]float64, len(q))
	copy(qc, q)
	fp := make([]float64, 6*o.nne)
	fm := make([]float64, 6*o.nne)
	for e := 0; e < o.Msh.Nelem; e++ {
		o.setElemMaps(e)
		for _, J := range o.qmap {
			qc[J] += h
			o.elemForce(fp, e, qc)
			qc[J] -= 2 * h
			o.elemForce(fm, e, qc)
			qc[J] += h
			for i, I := range o.umap {
				d := (fp[i] - fm[i]) / (2 * h)
				if d != 0 {
					Kb.Put(I, J, d)
				}
			}
		}
	}
}
