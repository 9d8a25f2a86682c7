// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package joint implements interactions between material points of bodies:
// bilateral joints built from one generic relative-kinematics block,
// frictional point-plane contact, and a proportional-derivative actuator.
//
// The generic block has six rows. Rows 0-2 are the relative position of
// point 2 resolved in the frame of point 1; rows 3-5 are the axial vector of
// the skew part of the relative rotation A1' A2. Every joint variant is a
// fixed selection of rows from this block: spherical keeps rows 0-2, a rigid
// connection keeps all six, a revolute about the local z axis keeps
// {0,1,2,3,4}, and so on. There is exactly one evaluator.
package joint

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/ele"
	"github.com/lisaeb/cardillo/rot"
)

// Generic is the row-masked relative-kinematics constraint between two
// material points
type Generic struct {
	Nm     string
	P1, P2 ele.Point
	Rows   []int // retained rows of the 6-row block, strictly increasing

	ila int
}

// row masks of the standard joints
var (
	rowsSpherical   = []int{0, 1, 2}
	rowsRigid       = []int{0, 1, 2, 3, 4, 5}
	rowsRevolute    = []int{0, 1, 2, 3, 4}    // free rotation about local z
	rowsPrismatic   = []int{0, 1, 3, 4, 5}    // free translation along local z
	rowsCylindrical = []int{0, 1, 3, 4}       // free rotation and translation about local z
)

// NewSpherical constrains the relative position of two points
func NewSpherical(name string, p1, p2 ele.Point) *Generic {
	return newGeneric(name, p1, p2, rowsSpherical)
}

// NewPlanar constrains the relative position except along the given local
// axis of frame 1
func NewPlanar(name string, p1, p2 ele.Point, freeAxis int) *Generic {
	if freeAxis < 0 || freeAxis > 2 {
		chk.Panic("joint %q: free axis must be 0, 1 or 2", name)
	}
	rows := []int{}
	for i := 0; i < 3; i++ {
		if i != freeAxis {
			rows = append(rows, i)
		}
	}
	return newGeneric(name, p1, p2, rows)
}

// NewRigid locks both relative position and relative orientation
func NewRigid(name string, p1, p2 ele.Point) *Generic {
	return newGeneric(name, p1, p2, rowsRigid)
}

// NewRevolute leaves only the rotation about the local z axis of frame 1 free
func NewRevolute(name string, p1, p2 ele.Point) *Generic {
	return newGeneric(name, p1, p2, rowsRevolute)
}

// NewPrismatic leaves only the translation along the local z axis free
func NewPrismatic(name string, p1, p2 ele.Point) *Generic {
	return newGeneric(name, p1, p2, rowsPrismatic)
}

// NewCylindrical leaves translation along and rotation about the local z
// axis free
func NewCylindrical(name string, p1, p2 ele.Point) *Generic {
	return newGeneric(name, p1, p2, rowsCylindrical)
}

func newGeneric(name string, p1, p2 ele.Point, rows []int) *Generic {
	return &Generic{Nm: name, P1: p1, P2: p2, Rows: rows}
}

// Name returns the joint identifier
func (o *Generic) Name() string { return o.Nm }

// Nla returns the number of constraint equations
func (o *Generic) Nla() int { return len(o.Rows) }

// SetMaps assigns the global multiplier offset
func (o *Generic) SetMaps(ila int) { o.ila = ila }

// Maps returns the global multiplier offset
func (o *Generic) Maps() int { return o.ila }

// block computes the full 6-row relative-kinematics values
func (o *Generic) block(g6 []float64, t float64, q []float64) {
	var r1, r2, d [3]float64
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	o.P1.Pos(r1[:], t, q)
	o.P2.Pos(r2[:], t, q)
	o.P1.Rot(A1, t, q)
	o.P2.Rot(A2, t, q)
	for i := 0; i < 3; i++ {
		d[i] = r2[i] - r1[i]
	}
	for i := 0; i < 3; i++ {
		g6[i] = A1[0][i]*d[0] + A1[1][i]*d[1] + A1[2][i]*d[2]
	}
	// axial vector of the skew part of R = A1' A2
	R := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				R[i][j] += A1[k][i] * A2[k][j]
			}
		}
	}
	g6[3] = 0.5 * (R[2][1] - R[1][2])
	g6[4] = 0.5 * (R[0][2] - R[2][0])
	g6[5] = 0.5 * (R[1][0] - R[0][1])
}

// G writes the constraint values at the joint offsets
func (o *Generic) G(g []float64, t float64, q []float64) {
	var g6 [6]float64
	o.block(g6[:], t, q)
	for k, r := range o.Rows {
		g[o.ila+k] = g6[r]
	}
}

// blockDot computes the full 6-row time derivative
func (o *Generic) blockDot(gd6 []float64, t float64, q, u []float64) {
	var r1, r2, v1, v2, om1, om2, d, dv, tmp [3]float64
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	o.P1.Pos(r1[:], t, q)
	o.P2.Pos(r2[:], t, q)
	o.P1.Vel(v1[:], t, q, u)
	o.P2.Vel(v2[:], t, q, u)
	o.P1.Omega(om1[:], t, q, u)
	o.P2.Omega(om2[:], t, q, u)
	o.P1.Rot(A1, t, q)
	o.P2.Rot(A2, t, q)
	for i := 0; i < 3; i++ {
		d[i] = r2[i] - r1[i]
		dv[i] = v2[i] - v1[i]
	}
	// translation: A1' [ (v2-v1) - om1 x d ]
	rot.Cross(tmp[:], om1[:], d[:])
	for i := 0; i < 3; i++ {
		tmp[i] = dv[i] - tmp[i]
	}
	for i := 0; i < 3; i++ {
		gd6[i] = A1[0][i]*tmp[0] + A1[1][i]*tmp[1] + A1[2][i]*tmp[2]
	}
	// rotation: axial of the skew part of A1' S(om2-om1) A2
	var dom [3]float64
	for i := 0; i < 3; i++ {
		dom[i] = om2[i] - om1[i]
	}
	M := relRotRate(A1, A2, dom[:])
	gd6[3] = M[0]
	gd6[4] = M[1]
	gd6[5] = M[2]
}

// relRotRate returns the axial vector of the skew part of A1' S(v) A2
func relRotRate(A1, A2 [][]float64, v []float64) (w [3]float64) {
	S := la.MatAlloc(3, 3)
	rot.Skew(S, v)
	X := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					X[i][j] += A1[k][i] * S[k][l] * A2[l][j]
				}
			}
		}
	}
	w[0] = 0.5 * (X[2][1] - X[1][2])
	w[1] = 0.5 * (X[0][2] - X[2][0])
	w[2] = 0.5 * (X[1][0] - X[0][1])
	return
}

// GDot writes the constraint time derivatives
func (o *Generic) GDot(gd []float64, t float64, q, u []float64) {
	var gd6 [6]float64
	o.blockDot(gd6[:], t, q, u)
	for k, r := range o.Rows {
		gd[o.ila+k] = gd6[r]
	}
}

// GDDot writes the constraint second time derivatives; with ud == nil only
// the velocity-quadratic part is returned
func (o *Generic) GDDot(gdd []float64, t float64, q, u, ud []float64) {
	var r1, r2, v1, v2, a1, a2, om1, om2, ps1, ps2 [3]float64
	var d, dv, da, tmp, tmp2, acc [3]float64
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	o.P1.Pos(r1[:], t, q)
	o.P2.Pos(r2[:], t, q)
	o.P1.Vel(v1[:], t, q, u)
	o.P2.Vel(v2[:], t, q, u)
	o.P1.Acc(a1[:], t, q, u, ud)
	o.P2.Acc(a2[:], t, q, u, ud)
	o.P1.Omega(om1[:], t, q, u)
	o.P2.Omega(om2[:], t, q, u)
	o.P1.Psi(ps1[:], t, q, u, ud)
	o.P2.Psi(ps2[:], t, q, u, ud)
	o.P1.Rot(A1, t, q)
	o.P2.Rot(A2, t, q)
	for i := 0; i < 3; i++ {
		d[i] = r2[i] - r1[i]
		dv[i] = v2[i] - v1[i]
		da[i] = a2[i] - a1[i]
	}
	// translation: A1' [ da - ps1 x d - 2 om1 x dv + om1 x (om1 x d) ]
	rot.Cross(tmp[:], ps1[:], d[:])
	for i := 0; i < 3; i++ {
		acc[i] = da[i] - tmp[i]
	}
	rot.Cross(tmp[:], om1[:], dv[:])
	for i := 0; i < 3; i++ {
		acc[i] -= 2 * tmp[i]
	}
	rot.Cross(tmp[:], om1[:], d[:])
	rot.Cross(tmp2[:], om1[:], tmp[:])
	for i := 0; i < 3; i++ {
		acc[i] += tmp2[i]
	}
	var gdd6 [6]float64
	for i := 0; i < 3; i++ {
		gdd6[i] = A1[0][i]*acc[0] + A1[1][i]*acc[1] + A1[2][i]*acc[2]
	}
	// rotation: d/dt axial( skew part of A1' S(dom) A2 )
	//   Rdd = -A1' S(om1) S(dom) A2 + A1' S(dps) A2 + A1' S(dom) S(om2) A2
	var dom, dps [3]float64
	for i := 0; i < 3; i++ {
		dom[i] = om2[i] - om1[i]
		dps[i] = ps2[i] - ps1[i]
	}
	S1 := la.MatAlloc(3, 3)
	S2 := la.MatAlloc(3, 3)
	Sd := la.MatAlloc(3, 3)
	rot.Skew(S1, om1[:])
	rot.Skew(S2, om2[:])
	rot.Skew(Sd, dom[:])
	X := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// world-frame operator: -S(om1) S(dom) + S(dps collected below) + S(dom) S(om2)
			for l := 0; l < 3; l++ {
				X[i][j] += -S1[i][l]*Sd[l][j] + Sd[i][l]*S2[l][j]
			}
		}
	}
	// Rdd = A1' ( X + S(dps) ) A2
	Y := la.MatAlloc(3, 3)
	rot.Skew(Y, dps[:])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			X[i][j] += Y[i][j]
		}
	}
	Rdd := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					Rdd[i][j] += A1[k][i] * X[k][l] * A2[l][j]
				}
			}
		}
	}
	gdd6[3] = 0.5 * (Rdd[2][1] - Rdd[1][2])
	gdd6[4] = 0.5 * (Rdd[0][2] - Rdd[2][0])
	gdd6[5] = 0.5 * (Rdd[1][0] - Rdd[0][1])
	for k, r := range o.Rows {
		gdd[o.ila+k] = gdd6[r]
	}
}

// wDense computes the dense force-direction blocks of both points:
// W1 (nla x len(u1)) and W2 (nla x len(u2)) with dgdot/du columns
func (o *Generic) wDense(t float64, q []float64) (W1, W2 [][]float64) {
	n1 := len(o.P1.UDofs())
	n2 := len(o.P2.UDofs())
	nla := o.Nla()
	W1 = la.MatAlloc(nla, n1)
	W2 = la.MatAlloc(nla, n2)
	A1 := la.MatAlloc(3, 3)
	A2 := la.MatAlloc(3, 3)
	o.P1.Rot(A1, t, q)
	o.P2.Rot(A2, t, q)
	var r1, r2, d [3]float64
	o.P1.Pos(r1[:], t, q)
	o.P2.Pos(r2[:], t, q)
	for i := 0; i < 3; i++ {
		d[i] = r2[i] - r1[i]
	}
	Sd := la.MatAlloc(3, 3)
	rot.Skew(Sd, d[:])
	// rotation row operator L: row i maps world Delta-omega to gdot rows 3+i
	L := la.MatAlloc(3, 3)
	var e [3]float64
	for k := 0; k < 3; k++ {
		e[0], e[1], e[2] = 0, 0, 0
		e[k] = 1
		w := relRotRate(A1, A2, e[:])
		for i := 0; i < 3; i++ {
			L[i][k] = w[i]
		}
	}
	// translation rows: A1' [ J2P - J1P + S(d) J1R ]
	addTr := func(W [][]float64, p ele.Point, sign float64, withSd bool) {
		n := len(p.UDofs())
		if n == 0 {
			return
		}
		JP := la.MatAlloc(3, n)
		p.JP(JP, t, q)
		var JR [][]float64
		if withSd {
			JR = la.MatAlloc(3, n)
			p.JR(JR, t, q)
		}
		for k, row := range o.Rows {
			if row >= 3 {
				continue
			}
			for j := 0; j < n; j++ {
				for i := 0; i < 3; i++ {
					c := sign * JP[i][j]
					if withSd {
						for l := 0; l < 3; l++ {
							c += Sd[i][l] * JR[l][j]
						}
					}
					W[k][j] += A1[i][row] * c
				}
			}
		}
	}
	addRot := func(W [][]float64, p ele.Point, sign float64) {
		n := len(p.UDofs())
		if n == 0 {
			return
		}
		JR := la.MatAlloc(3, n)
		p.JR(JR, t, q)
		for k, row := range o.Rows {
			if row < 3 {
				continue
			}
			ri := row - 3
			for j := 0; j < n; j++ {
				for i := 0; i < 3; i++ {
					W[k][j] += sign * L[ri][i] * JR[i][j]
				}
			}
		}
	}
	addTr(W2, o.P2, +1, false)
	addTr(W1, o.P1, -1, true)
	addRot(W2, o.P2, +1)
	addRot(W1, o.P1, -1)
	return
}

// AddToW adds the generalized force directions: columns are the transposed
// constraint velocity Jacobian
func (o *Generic) AddToW(W *la.Triplet, t float64, q []float64) {
	W1, W2 := o.wDense(t, q)
	for k := 0; k < o.Nla(); k++ {
		for j, dof := range o.P1.UDofs() {
			if W1[k][j] != 0 {
				W.Put(dof, o.ila+k, W1[k][j])
			}
		}
		for j, dof := range o.P2.UDofs() {
			if W2[k][j] != 0 {
				W.Put(dof, o.ila+k, W2[k][j])
			}
		}
	}
}

// AddToGq adds the position Jacobian rows dg/dq by central differences over
// the coordinates both points depend on
func (o *Generic) AddToGq(K *la.Triplet, t float64, q []float64) {
	h := 1e-7
	nla := o.Nla()
	gp := make([]float64, 6)
	gm := make([]float64, 6)
	for _, j := range o.qUnion() {
		q[j] += h
		o.block(gp, t, q)
		q[j] -= 2 * h
		o.block(gm, t, q)
		q[j] += h
		for k := 0; k < nla; k++ {
			d := (gp[o.Rows[k]] - gm[o.Rows[k]]) / (2 * h)
			if d != 0 {
				K.Put(o.ila+k, j, d)
			}
		}
	}
}

// qUnion returns the deduplicated coordinate DOFs of both points. Points on
// the same body may share coordinates; each column must be differentiated
// once.
func (o *Generic) qUnion() []int {
	seen := map[int]bool{}
	union := []int{}
	for _, j := range o.P1.QDofs() {
		if !seen[j] {
			seen[j] = true
			union = append(union, j)
		}
	}
	for _, j := range o.P2.QDofs() {
		if !seen[j] {
			seen[j] = true
			union = append(union, j)
		}
	}
	return union
}

// AddToWlaQ adds the derivative of the constraint force W la with respect
// to the coordinates, by central differences of the force directions
func (o *Generic) AddToWlaQ(K *la.Triplet, t float64, q, la_ []float64) {
	h := 1e-7
	addCols := func(j int) {
		q[j] += h
		W1p, W2p := o.wDense(t, q)
		q[j] -= 2 * h
		W1m, W2m := o.wDense(t, q)
		q[j] += h
		for k := 0; k < o.Nla(); k++ {
			lam := la_[o.ila+k]
			if lam == 0 {
				continue
			}
			for c, dof := range o.P1.UDofs() {
				d := (W1p[k][c] - W1m[k][c]) / (2 * h) * lam
				if d != 0 {
					K.Put(dof, j, d)
				}
			}
			for c, dof := range o.P2.UDofs() {
				d := (W2p[k][c] - W2m[k][c]) / (2 * h) * lam
				if d != 0 {
					K.Put(dof, j, d)
				}
			}
		}
	}
	for _, j := range o.qUnion() {
		addCols(j)
	}
}
