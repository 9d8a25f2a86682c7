// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements the solver layer: the domain aggregating bodies and
// interactions over a global equation numbering, the consistent
// initial-condition solve, a static Newton solver, and the Moreau, Lobatto
// IIIA/B and Radau IIA time-stepping schemes
package fem

import (
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele"
)

// Domain aggregates bodies, forces and interactions and exposes their
// contributions over global vectors. Equation numbers are assigned
// incrementally when an item is added; bodies must therefore be added before
// any force or joint referring to their material points is constructed.
type Domain struct {

	// constituents
	Bodies   []ele.Body
	Forces   []ele.Force
	Joints   []ele.Bilateral
	VelJnts  []ele.VelocityBilateral
	Contacts []ele.Unilateral

	// dimensions
	Nq     int // generalized coordinates
	Nu     int // generalized velocities
	NlaS   int // internal coordinate constraints
	NlaG   int // bilateral constraints
	NlaGam int // velocity-level bilateral constraints
	NlaN   int // normal contacts
	NlaF   int // friction components

	// contact parameter tables, global indexing
	MuAll  []float64
	ENAll  []float64
	EFAll  []float64
	RNAll  []float64
	RFAll  []float64
	Groups [][]int // global friction component indices per normal contact

	// triplet capacity estimates
	nnzM  int
	nnzKh int
}

// NewDomain returns an empty domain
func NewDomain() *Domain {
	return new(Domain)
}

// AddBody registers a body and assigns its global offsets
func (o *Domain) AddBody(b ele.Body) {
	b.SetMaps(o.Nq, o.Nu, o.NlaS)
	o.Nq += b.Nq()
	o.Nu += b.Nu()
	o.NlaS += b.NlaS()
	o.nnzM += b.Nu() * b.Nu()
	o.nnzKh += b.Nu() * b.Nq()
	o.Bodies = append(o.Bodies, b)
}

// AddForce registers an applied force or actuator
func (o *Domain) AddForce(f ele.Force) {
	o.Forces = append(o.Forces, f)
}

// AddJoint registers a bilateral constraint and assigns its multiplier offset
func (o *Domain) AddJoint(c ele.Bilateral) {
	c.SetMaps(o.NlaG)
	o.NlaG += c.Nla()
	o.Joints = append(o.Joints, c)
}

// AddVelJoint registers a velocity-level bilateral constraint
func (o *Domain) AddVelJoint(c ele.VelocityBilateral) {
	c.SetMaps(o.NlaGam)
	o.NlaGam += c.Ngamma()
	o.VelJnts = append(o.VelJnts, c)
}

// AddContact registers a frictional unilateral contact and extends the
// global parameter tables
func (o *Domain) AddContact(c ele.Unilateral) {
	c.SetMaps(o.NlaN, o.NlaF)
	baseF := o.NlaF
	o.NlaN += c.NlaN()
	o.NlaF += c.NlaF()
	o.MuAll = append(o.MuAll, c.Mu()...)
	o.ENAll = append(o.ENAll, c.EN()...)
	o.EFAll = append(o.EFAll, c.EF()...)
	o.RNAll = append(o.RNAll, c.ProxRN()...)
	o.RFAll = append(o.RFAll, c.ProxRF()...)
	for _, grp := range c.FrictionGroups() {
		g := make([]int, len(grp))
		for i, k := range grp {
			g[i] = baseF + k
		}
		o.Groups = append(o.Groups, g)
	}
	o.Contacts = append(o.Contacts, c)
}

// InitState allocates and fills the global initial state
func (o *Domain) InitState() (q, u []float64) {
	q = make([]float64, o.Nq)
	u = make([]float64, o.Nu)
	for _, b := range o.Bodies {
		b.InitState(q, u)
	}
	return
}

// Qdot evaluates the global kinematic equation
func (o *Domain) Qdot(qd []float64, t float64, q, u []float64) {
	for _, b := range o.Bodies {
		b.Qdot(qd, t, q, u)
	}
}

// AddM adds all mass matrix blocks; rows and columns are velocity DOFs
func (o *Domain) AddM(M *la.Triplet, q []float64) {
	for _, b := range o.Bodies {
		b.AddToM(M, q)
	}
}

// NnzM returns the mass matrix capacity estimate
func (o *Domain) NnzM() int { return o.nnzM + 1 }

// NnzKh returns the force Jacobian capacity estimate
func (o *Domain) NnzKh() int { return o.nnzKh + o.Nu*o.Nq + 1 }

// H evaluates the global generalized force: gyroscopic and internal body
// forces plus all applied loads and actuators
func (o *Domain) H(h []float64, t float64, q, u []float64) {
	for i := range h {
		h[i] = 0
	}
	for _, b := range o.Bodies {
		b.AddToH(h, t, q, u)
	}
	for _, f := range o.Forces {
		f.AddToH(h, t, q, u)
	}
}

// AddKh adds the force Jacobian blocks dh/dq; rows are velocity DOFs,
// columns coordinates. Applied forces are configuration-independent at this
// level and contribute nothing.
func (o *Domain) AddKh(K *la.Triplet, t float64, q, u []float64) {
	for _, b := range o.Bodies {
		b.AddToKh(K, t, q, u)
	}
}

// GS evaluates the internal coordinate constraints of all bodies
func (o *Domain) GS(g []float64, q []float64) {
	for _, b := range o.Bodies {
		b.GS(g, q)
	}
}

// AddGSq adds the internal constraint Jacobian blocks (nlaS x nq)
func (o *Domain) AddGSq(K *la.Triplet, q []float64) {
	for _, b := range o.Bodies {
		b.AddToGSq(K, q)
	}
}

// G evaluates all bilateral constraints
func (o *Domain) G(g []float64, t float64, q []float64) {
	for _, c := range o.Joints {
		c.G(g, t, q)
	}
}

// GDot evaluates all bilateral constraint rates
func (o *Domain) GDot(gd []float64, t float64, q, u []float64) {
	for _, c := range o.Joints {
		c.GDot(gd, t, q, u)
	}
}

// GDDot evaluates all bilateral constraint accelerations; ud may be nil for
// the velocity-quadratic part only
func (o *Domain) GDDot(gdd []float64, t float64, q, u, ud []float64) {
	for _, c := range o.Joints {
		c.GDDot(gdd, t, q, u, ud)
	}
}

// Gamma evaluates all velocity-level constraints
func (o *Domain) Gamma(gam []float64, t float64, q, u []float64) {
	for _, c := range o.VelJnts {
		c.Gamma(gam, t, q, u)
	}
}

// GammaDot evaluates all velocity-level constraint rates; ud may be nil
func (o *Domain) GammaDot(gamd []float64, t float64, q, u, ud []float64) {
	for _, c := range o.VelJnts {
		c.GammaDot(gamd, t, q, u, ud)
	}
}

// GN evaluates all normal gaps
func (o *Domain) GN(g []float64, t float64, q []float64) {
	for _, c := range o.Contacts {
		c.GN(g, t, q)
	}
}

// GNDot evaluates all normal gap rates
func (o *Domain) GNDot(gd []float64, t float64, q, u []float64) {
	for _, c := range o.Contacts {
		c.GNDot(gd, t, q, u)
	}
}

// GammaF evaluates all tangential sliding velocities
func (o *Domain) GammaF(gf []float64, t float64, q, u []float64) {
	for _, c := range o.Contacts {
		c.GammaF(gf, t, q, u)
	}
}

// dense assembles a sparse block through a scratch triplet and returns it as
// a dense matrix; the constraint force-direction blocks are skinny, so the
// dense form is what the composite solver matrices consume
func dense(m, n int, add func(T *la.Triplet)) [][]float64 {
	if m == 0 || n == 0 {
		return la.MatAlloc(m, n)
	}
	T := new(la.Triplet)
	T.Init(m, n, m*n+1)
	T.Put(0, 0, 0)
	add(T)
	return T.ToMatrix(nil).ToDense()
}

// WG assembles the bilateral force directions (nu x nlaG)
func (o *Domain) WG(t float64, q []float64) [][]float64 {
	return dense(o.Nu, o.NlaG, func(T *la.Triplet) {
		for _, c := range o.Joints {
			c.AddToW(T, t, q)
		}
	})
}

// WGam assembles the velocity-constraint force directions (nu x nlaGam)
func (o *Domain) WGam(t float64, q []float64) [][]float64 {
	return dense(o.Nu, o.NlaGam, func(T *la.Triplet) {
		for _, c := range o.VelJnts {
			c.AddToW(T, t, q)
		}
	})
}

// WN assembles the normal contact force directions (nu x nlaN)
func (o *Domain) WN(t float64, q []float64) [][]float64 {
	return dense(o.Nu, o.NlaN, func(T *la.Triplet) {
		for _, c := range o.Contacts {
			c.AddToWN(T, t, q)
		}
	})
}

// WF assembles the friction force directions (nu x nlaF)
func (o *Domain) WF(t float64, q []float64) [][]float64 {
	return dense(o.Nu, o.NlaF, func(T *la.Triplet) {
		for _, c := range o.Contacts {
			c.AddToWF(T, t, q)
		}
	})
}

// Gq assembles the bilateral position Jacobian (nlaG x nq)
func (o *Domain) Gq(t float64, q []float64) [][]float64 {
	return dense(o.NlaG, o.Nq, func(T *la.Triplet) {
		for _, c := range o.Joints {
			c.AddToGq(T, t, q)
		}
	})
}

// GSq assembles the internal constraint Jacobian (nlaS x nq)
func (o *Domain) GSq(q []float64) [][]float64 {
	return dense(o.NlaS, o.Nq, func(T *la.Triplet) {
		o.AddGSq(T, q)
	})
}

// AddWlaQ adds the configuration derivative of the bilateral constraint
// forces (nu x nq)
func (o *Domain) AddWlaQ(K *la.Triplet, t float64, q, laG []float64) {
	for _, c := range o.Joints {
		c.AddToWlaQ(K, t, q, laG)
	}
}

// StepCallback runs the per-step maintenance of all bodies, e.g. quaternion
// renormalization
func (o *Domain) StepCallback(t float64, q, u []float64) {
	for _, b := range o.Bodies {
		b.StepCallback(t, q, u)
	}
}

// Energy sums kinetic and potential energies of bodies and the potential of
// conservative applied forces
func (o *Domain) Energy(t float64, q, u []float64) (kin, pot float64) {
	for _, b := range o.Bodies {
		k, p := b.Energy(t, q, u)
		kin += k
		pot += p
	}
	for _, f := range o.Forces {
		pot += f.Energy(t, q, u)
	}
	return
}
