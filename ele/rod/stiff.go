// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rod

import (
	"github.com/cpmech/gosl/la"

	"github.com/lisaeb/cardillo/rot"
)

// The exact force linearization rests on the fact that the unnormalized
// rotation map B(p) = n A(p), n = p.p, is quadratic in p and the curvature
// numerator w(p,p') is bilinear, so all second derivatives of the strain
// measures are closed-form.

// bmat computes B = (p0^2 - pv.pv) I + 2 pv pv' + 2 p0 S(pv)
func bmat(B [][]float64, p []float64) {
	p0, pv := p[0], p[1:]
	S := la.MatAlloc(3, 3)
	rot.Skew(S, pv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			B[i][j] = 2.0*pv[i]*pv[j] + 2.0*p0*S[i][j]
		}
		B[i][i] += p0*p0 - rot.Dot3(pv, pv)
	}
}

// bmatDeriv computes the four first derivatives Bc[c] = dB/dp_c
func bmatDeriv(Bc [][][]float64, p []float64) {
	p0, pv := p[0], p[1:]
	S := la.MatAlloc(3, 3)
	rot.Skew(S, pv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Bc[0][i][j] = 2.0 * S[i][j]
		}
		Bc[0][i][i] += 2.0 * p0
	}
	e := []float64{0, 0, 0}
	for k := 0; k < 3; k++ {
		e[0], e[1], e[2] = 0, 0, 0
		e[k] = 1
		rot.Skew(S, e)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				Bc[1+k][i][j] = 2.0 * (e[i]*pv[j] + pv[i]*e[j] + p0*S[i][j])
			}
			Bc[1+k][i][i] -= 2.0 * pv[k]
		}
	}
}

// bmatDeriv2 computes the constant second derivatives Bcd[c][d] = d2B/dp_c dp_d
func bmatDeriv2(Bcd [][][][]float64) {
	S := la.MatAlloc(3, 3)
	e := []float64{0, 0, 0}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Bcd[0][0][i][j] = 0
		}
		Bcd[0][0][i][i] = 2
	}
	for k := 0; k < 3; k++ {
		e[0], e[1], e[2] = 0, 0, 0
		e[k] = 1
		rot.Skew(S, e)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				Bcd[0][1+k][i][j] = 2.0 * S[i][j]
				Bcd[1+k][0][i][j] = 2.0 * S[i][j]
			}
		}
		for l := 0; l < 3; l++ {
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					v := 0.0
					if i == k && j == l {
						v += 2
					}
					if i == l && j == k {
						v += 2
					}
					if i == j && k == l {
						v -= 2
					}
					Bcd[1+k][1+l][i][j] = v
				}
			}
		}
	}
}

// stiffScratch holds the workspace of the exact element linearization
type stiffScratch struct {
	D    [][]float64     // strain derivative, 6 x nqe
	CD   [][]float64     // (C/J) D, 6 x nqe
	CGam [][]float64     // material tangent, stretch/shear
	CKap [][]float64     // material tangent, curvature
	B    [][]float64     // unnormalized rotation map
	Bc   [][][]float64   // its first derivatives
	Bcd  [][][][]float64 // its second derivatives (constant)
	dA   [][][]float64
	dkp  [][]float64
	dkpp [][]float64
}

func newStiffScratch(nqe int) (s *stiffScratch) {
	s = new(stiffScratch)
	s.D = la.MatAlloc(6, nqe)
	s.CD = la.MatAlloc(6, nqe)
	s.CGam = la.MatAlloc(3, 3)
	s.CKap = la.MatAlloc(3, 3)
	s.B = la.MatAlloc(3, 3)
	s.Bc = make([][][]float64, 4)
	s.Bcd = make([][][][]float64, 4)
	for c := 0; c < 4; c++ {
		s.Bc[c] = la.MatAlloc(3, 3)
		s.Bcd[c] = make([][][]float64, 4)
		for d := 0; d < 4; d++ {
			s.Bcd[c][d] = la.MatAlloc(3, 3)
		}
	}
	bmatDeriv2(s.Bcd)
	s.dA = alloc334()
	s.dkp = la.MatAlloc(3, 4)
	s.dkpp = la.MatAlloc(3, 4)
	return
}

// elemStiff computes the exact derivative of the element generalized force
// with respect to the element coordinates (u-space rows, q-space columns)
func (o *Rod) elemStiff(Ke [][]float64, e int, q []float64) {
	nqe := 7 * o.nne
	if o.st == nil {
		o.st = newStiffScratch(nqe)
	}
	st := o.st
	for i := 0; i < nqe; i++ {
		for j := 0; j < nqe; j++ {
			o.Kq[i][j] = 0
		}
	}
	o.Mat.Stiffness(st.CGam, st.CKap)

	var gb, kb, sn, sm [3]float64
	var rp [3]float64
	var p, pp [4]float64
	A := la.MatAlloc(3, 3)

	for iq := 0; iq < o.Msh.Nquad; iq++ {
		s := o.site(e, o.Msh.Xg[iq])
		o.interp(rp[:], p[:], pp[:], e, s.N, s.Nxi, q)
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
		rot.MatrixDeriv(st.dA, p[:])
		rot.LocalRateDerivs(st.dkp, st.dkpp, p[:], pp[:])
		w := o.Msh.Wg[iq]

		// strain derivative D
		for i := 0; i < 3; i++ {
			for j := 0; j < nqe; j++ {
				st.D[i][j] = 0
				st.D[3+i][j] = 0
			}
		}
		for a := 0; a < o.nne; a++ {
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					st.D[i][3*a+j] = s.Nxi[a] * A[j][i]
				}
				for c := 0; c < 4; c++ {
					dg := 0.0
					for j := 0; j < 3; j++ {
						dg += st.dA[j][i][c] * rp[j]
					}
					st.D[i][3*o.nne+4*a+c] = s.N[a] * dg
					st.D[3+i][3*o.nne+4*a+c] = s.N[a]*st.dkp[i][c] + s.Nxi[a]*st.dkpp[i][c]
				}
			}
		}

		// material part: Kq -= w D' (C/J) D
		for i := 0; i < 3; i++ {
			for j := 0; j < nqe; j++ {
				st.CD[i][j] = 0
				st.CD[3+i][j] = 0
				for k := 0; k < 3; k++ {
					st.CD[i][j] += st.CGam[i][k] / s.J * st.D[k][j]
					st.CD[3+i][j] += st.CKap[i][k] / s.J * st.D[3+k][j]
				}
			}
		}
		for i := 0; i < nqe; i++ {
			for j := 0; j < nqe; j++ {
				v := 0.0
				for k := 0; k < 6; k++ {
					v += st.D[k][i] * st.CD[k][j]
				}
				o.Kq[i][j] -= w * v
			}
		}

		// geometric part: Kq -= w sum_k sigma_k d2(strain_k)/dq2
		o.geomStiff(st, e, s.N, s.Nxi, w, rp[:], p[:], pp[:], sn[:], sm[:])
	}

	// map to u-space: Ke = T' Kq plus the rate-map derivative term
	for i := 0; i < 3*o.nne; i++ {
		for j := 0; j < nqe; j++ {
			Ke[i][j] = o.Kq[i][j]
		}
	}
	B4 := la.MatAlloc(4, 3)
	o.elemForceQ(o.fq, e, q)
	for a, n := range o.Msh.Conn[e] {
		rot.KinMat(B4, q[o.iqp(n):o.iqp(n)+4])
		for k := 0; k < 3; k++ {
			for j := 0; j < nqe; j++ {
				v := 0.0
				for c := 0; c < 4; c++ {
					v += B4[c][k] * o.Kq[3*o.nne+4*a+c][j]
				}
				Ke[3*o.nne+3*a+k][j] = v
			}
		}
		// d(B(p)' f4)/dp with f4 held fixed: B is linear in p
	}
	ec := []float64{0, 0, 0, 0}
	Ec := la.MatAlloc(4, 3)
	for a := 0; a < o.nne; a++ {
		for c := 0; c < 4; c++ {
			ec[0], ec[1], ec[2], ec[3] = 0, 0, 0, 0
			ec[c] = 1
			rot.KinMat(Ec, ec)
			for k := 0; k < 3; k++ {
				v := 0.0
				for d := 0; d < 4; d++ {
					v += Ec[d][k] * o.fq[3*o.nne+4*a+d]
				}
				Ke[3*o.nne+3*a+k][3*o.nne+4*a+c] += v
			}
		}
	}
}

// geomStiff accumulates the stress-weighted second derivatives of the
// strain measures into Kq
func (o *Rod) geomStiff(st *stiffScratch, e int, N, Nxi []float64, w float64, rp, p, pp, sn, sm []float64) {
	n := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	pv := p[1:]
	pp0, ppv := pp[0], pp[1:]

	bmat(st.B, p)
	bmatDeriv(st.Bc, p)

	// stretch/shear: GamBar_i = sum_j A[j][i] rp[j]
	// cross blocks (r, p) use dA; (p, p) blocks use d2A
	for a := 0; a < o.nne; a++ {
		for b := 0; b < o.nne; b++ {
			// (r_a, p_b) and (p_a, r_b)
			for j := 0; j < 3; j++ {
				for c := 0; c < 4; c++ {
					v := 0.0
					for i := 0; i < 3; i++ {
						v += sn[i] * st.dA[j][i][c]
					}
					d := w * Nxi[a] * N[b] * v
					o.Kq[3*a+j][3*o.nne+4*b+c] -= d
					o.Kq[3*o.nne+4*b+c][3*a+j] -= d
				}
			}
			// (p_a, p_b) through d2A
			for c := 0; c < 4; c++ {
				for d := 0; d < 4; d++ {
					v := 0.0
					for i := 0; i < 3; i++ {
						for j := 0; j < 3; j++ {
							d2A := st.Bcd[c][d][j][i]/n -
								2.0*(p[d]*st.Bc[c][j][i]+p[c]*st.Bd(d, j, i)+kron(c, d)*st.B[j][i])/(n*n) +
								8.0*p[c]*p[d]*st.B[j][i]/(n*n*n)
							v += sn[i] * d2A * rp[j]
						}
					}
					o.Kq[3*o.nne+4*a+c][3*o.nne+4*b+d] -= w * N[a] * N[b] * v
				}
			}
		}
	}

	// curvature: KapBar_i = 2 w_i(p, pp)/n with w_i linear in p and pp
	// separately. Node contributions enter p through N and pp through Nxi.
	var wv [3]float64
	rot.Cross(wv[:], pv, ppv)
	for i := 0; i < 3; i++ {
		wv[i] = p[0]*pp[1+i] - pp[0]*p[1+i] - wv[i]
	}
	Sp := la.MatAlloc(3, 3)
	Spp := la.MatAlloc(3, 3)
	rot.Skew(Sp, pv)
	rot.Skew(Spp, ppv)
	wx := la.MatAlloc(3, 4)
	wy := la.MatAlloc(3, 4)
	for i := 0; i < 3; i++ {
		wx[i][0] = pp[1+i]
		wy[i][0] = -p[1+i]
		for k := 0; k < 3; k++ {
			wx[i][1+k] = Spp[i][k]
			wy[i][1+k] = -Sp[i][k]
			if i == k {
				wx[i][1+k] -= pp0
				wy[i][1+k] += p[0]
			}
		}
	}
	// constant mixed derivatives wxy[i][c][d] = d2 w_i / dp_c dpp_d
	wxy := func(i, c, d int) float64 {
		if c == 0 {
			if d == 1+i {
				return 1
			}
			return 0
		}
		k := c - 1
		if d == 0 {
			if i == k {
				return -1
			}
			return 0
		}
		j := d - 1
		// d S(ppv)[i][k] / dppv_j = S(e_j)[i][k]
		switch {
		case i == (j+1)%3 && k == (j+2)%3:
			return -1
		case i == (j+2)%3 && k == (j+1)%3:
			return +1
		}
		return 0
	}
	for a := 0; a < o.nne; a++ {
		for b := 0; b < o.nne; b++ {
			for c := 0; c < 4; c++ {
				for d := 0; d < 4; d++ {
					v := 0.0
					for i := 0; i < 3; i++ {
						// pp-pp block vanishes; p-p and mixed blocks remain
						kxx := -4.0*(wx[i][c]*p[d]+wx[i][d]*p[c]+wv[i]*kron(c, d))/(n*n) +
							16.0*wv[i]*p[c]*p[d]/(n*n*n)
						kxyCD := 2.0*wxy(i, c, d)/n - 4.0*wy[i][d]*p[c]/(n*n)
						kxyDC := 2.0*wxy(i, d, c)/n - 4.0*wy[i][c]*p[d]/(n*n)
						v += sm[i] * (N[a]*N[b]*kxx + N[a]*Nxi[b]*kxyCD + Nxi[a]*N[b]*kxyDC)
					}
					o.Kq[3*o.nne+4*a+c][3*o.nne+4*b+d] -= w * v
				}
			}
		}
	}
}

// Bd returns element [j][i] of the first derivative dB/dp_d
func (st *stiffScratch) Bd(d, j, i int) float64 {
	return st.Bc[d][j][i]
}

func kron(c, d int) float64 {
	if c == d {
		return 1
	}
	return 0
}
