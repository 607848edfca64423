// Package healpix implements the subset of the Hierarchical Equal-Area
// iso-Latitude Pixelization of the sphere (HEALPix, ring numbering scheme)
// needed to turn a celestial coordinate and a search radius into a compact
// set of candidate pixels. See Gorski et al. 2005, "HEALPix: A Framework for
// High-Resolution Discretization and Fast Analysis of Data Distributed on
// the Sphere", ApJ 622, 759.
package healpix

import (
	"errors"
	"math"
)

// ErrBadInput is returned by New when Nside is not a positive integer.
var ErrBadInput = errors.New("healpix: nside must be >= 1")

// ErrBadCoordinate is returned by Eq2xyz, Eq2pix, and DiscIntersect when
// given a non-finite input.
var ErrBadCoordinate = errors.New("healpix: non-finite input")

// Grid is a HEALPix pixelization with a fixed Nside. It is immutable and
// safe for concurrent read-only use.
type Grid struct {
	nside int64
	npix  int64
	ncap  int64 // pixel count of one polar cap
}

// New returns the grid for the given Nside, a positive integer resolution
// parameter. Nside need not be a power of two.
func New(nside int) (*Grid, error) {
	if nside < 1 {
		return nil, ErrBadInput
	}
	n := int64(nside)
	return &Grid{
		nside: n,
		npix:  12 * n * n,
		ncap:  2 * n * (n - 1),
	}, nil
}

// Nside returns the grid's resolution parameter.
func (g *Grid) Nside() int { return int(g.nside) }

// Npix returns 12*Nside^2, the total pixel count.
func (g *Grid) Npix() int64 { return g.npix }

// Area returns the solid angle, in steradians, covered by a single pixel.
func (g *Grid) Area() float64 { return 4 * math.Pi / float64(g.npix) }

// Eq2xyz converts an equatorial coordinate in degrees to a unit Cartesian
// vector. It fails if either input is non-finite.
func Eq2xyz(raDeg, decDeg float64) (x, y, z float64, err error) {
	if !isFinite(raDeg) || !isFinite(decDeg) {
		return 0, 0, 0, ErrBadCoordinate
	}
	theta := (90.0 - decDeg) * math.Pi / 180.0
	phi := raDeg * math.Pi / 180.0
	sinTheta := math.Sin(theta)
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), math.Cos(theta), nil
}

// Eq2pix returns the ring-scheme pixel id, in [0, Npix), containing the
// given equatorial coordinate.
func (g *Grid) Eq2pix(raDeg, decDeg float64) (int64, error) {
	if !isFinite(raDeg) || !isFinite(decDeg) {
		return 0, ErrBadCoordinate
	}
	theta := (90.0 - decDeg) * math.Pi / 180.0
	phi := raDeg * math.Pi / 180.0
	return g.ang2pix(theta, phi), nil
}

// Vec2pix is like Eq2pix but operates directly on a unit Cartesian vector,
// avoiding a redundant trig round-trip when the caller already has xyz.
func (g *Grid) Vec2pix(x, y, z float64) int64 {
	theta := math.Acos(clamp(z, -1, 1))
	phi := math.Atan2(y, x)
	return g.ang2pix(theta, phi)
}

// ang2pix implements the standard ring-scheme HEALPix pixelization
// (Gorski et al. 2005, eq. 3-7). theta is colatitude in [0, pi], phi is
// longitude in radians (any real value; it is reduced mod 2*pi here).
func (g *Grid) ang2pix(theta, phi float64) int64 {
	n := g.nside
	z := math.Cos(theta)
	za := math.Abs(z)
	tt := math.Mod(phi, 2*math.Pi) / (math.Pi / 2)
	if tt < 0 {
		tt += 4
	}

	if za <= 2.0/3.0 {
		temp1 := float64(n) * (0.5 + tt)
		temp2 := float64(n) * z * 0.75
		jp := int64(math.Floor(temp1 - temp2)) // ascending edge line index
		jm := int64(math.Floor(temp1 + temp2)) // descending edge line index
		ir := n + 1 + jp - jm                  // ring number, 1 at the equator strip's first ring
		kshift := int64(1 - (ir & 1))
		ip := (jp + jm - n + kshift + 1) / 2
		ip = ((ip % (4 * n)) + 4*n) % (4 * n)
		return g.ncap + (ir-1)*4*n + ip
	}

	tp := tt - math.Floor(tt)
	tmp := float64(n) * math.Sqrt(3*(1-za))
	jp := int64(tp * tmp)
	jm := int64((1.0 - tp) * tmp)
	ir := jp + jm + 1 // ring number counted from the closest pole, 1-based
	ip := int64(tt * float64(ir))
	if ip >= 4*ir {
		ip -= 4 * ir
	}
	if z > 0 {
		return 2*ir*(ir-1) + ip
	}
	return g.npix - 2*ir*(ir+1) + ip
}

// ringInfo describes one iso-latitude ring: its 1-based index counted from
// the north pole, the pixel id of its first (phi=0-ward) pixel, the number
// of pixels it holds, and the z=cos(colatitude) of its pixel centres.
type ringInfo struct {
	index  int64
	start  int64
	numPix int64
	z      float64
}

// numRings returns the total number of iso-latitude rings, 4*Nside-1.
func (g *Grid) numRings() int64 { return 4*g.nside - 1 }

func (g *Grid) ring(i int64) ringInfo {
	n := g.nside
	switch {
	case i < n:
		return ringInfo{index: i, start: 2 * i * (i - 1), numPix: 4 * i, z: 1 - float64(i*i)/(3*float64(n*n))}
	case i <= 3*n:
		return ringInfo{index: i, start: g.ncap + (i-n)*4*n, numPix: 4 * n, z: 4.0/3.0 - 2.0*float64(i)/(3*float64(n))}
	default:
		ir := 4*n - i
		return ringInfo{index: i, start: g.npix - 2*ir*(ir+1), numPix: 4 * ir, z: -(1 - float64(ir*ir)/(3*float64(n*n)))}
	}
}

// ringOf returns the ring containing pix and the pixel's 0-based offset
// within that ring.
func (g *Grid) ringOf(pix int64) (ringInfo, int64) {
	n := g.nside
	switch {
	case pix < g.ncap:
		i := int64((1 + isqrt(1+2*pix)) / 2)
		r := g.ring(i)
		return r, pix - r.start
	case pix < g.npix-g.ncap:
		ip := pix - g.ncap
		i := ip/(4*n) + n
		r := g.ring(i)
		return r, pix - r.start
	default:
		q := g.npix - 1 - pix
		ir := int64((1 + isqrt(1+2*q)) / 2)
		i := 4*n - ir
		r := g.ring(i)
		return r, pix - r.start
	}
}

// pixCenter returns the unit vector of the centre of pixel pix.
func (g *Grid) pixCenter(pix int64) (x, y, z float64) {
	n := g.nside
	r, j := g.ringOf(pix)
	var phi float64
	switch {
	case r.index < n:
		phi = (float64(j) + 0.5) * (math.Pi / 2) / float64(r.index)
	case r.index <= 3*n:
		fodd := 0.5
		if (r.index+n)&1 == 1 {
			fodd = 1.0
		}
		phi = (float64(j) + 1 - fodd) * (math.Pi / 2) / float64(n)
	default:
		ir := 4*n - r.index
		phi = (float64(j) + 0.5) * (math.Pi / 2) / float64(ir)
	}
	sinTheta := math.Sqrt(max0(1 - r.z*r.z))
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), r.z
}

// DiscIntersect returns the sorted, duplicate-free set of pixel ids whose
// centre lies within radiusRad of the direction (x,y,z), plus every pixel
// sharing a boundary with one of those. For radiusRad == 0 it returns only
// the pixel containing the direction; for radiusRad >= pi it returns every
// pixel in the grid.
func (g *Grid) DiscIntersect(x, y, z, radiusRad float64) ([]int64, error) {
	if !isFinite(x) || !isFinite(y) || !isFinite(z) || !isFinite(radiusRad) {
		return nil, ErrBadCoordinate
	}
	if radiusRad <= 0 {
		return []int64{g.Vec2pix(x, y, z)}, nil
	}
	if radiusRad >= math.Pi {
		all := make([]int64, g.npix)
		for i := range all {
			all[i] = int64(i)
		}
		return all, nil
	}

	theta0 := math.Acos(clamp(z, -1, 1))
	cosRadius := math.Cos(radiusRad)

	set := make(map[int64]bool)

	// The query direction's own containing pixel (and its immediate
	// neighbors) must always be part of a conservative enumeration: when
	// radiusRad is small relative to the local pixel scale, no pixel
	// center — not even this one's — may fall within radiusRad of the
	// query direction, and the ring scan below would otherwise return an
	// empty set even though the direction trivially lies inside its own
	// cap.
	selfPix := g.Vec2pix(x, y, z)
	set[selfPix] = true
	for _, nb := range g.neighborCandidates(selfPix) {
		set[nb] = true
	}

	for i := int64(1); i <= g.numRings(); i++ {
		r := g.ring(i)
		thetaR := math.Acos(clamp(r.z, -1, 1))
		if math.Abs(thetaR-theta0) > radiusRad {
			continue
		}
		for j := int64(0); j < r.numPix; j++ {
			pix := r.start + j
			px, py, pz := g.pixCenter(pix)
			cosd := x*px + y*py + z*pz
			if cosd >= cosRadius {
				set[pix] = true
				for _, nb := range g.neighborCandidates(pix) {
					set[nb] = true
				}
			}
		}
	}

	out := make([]int64, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sortInt64s(out)
	return out, nil
}

// neighborCandidates returns a conservative superset of the pixels sharing
// a boundary with pix: the two azimuthal neighbors in the same ring and the
// proportionally nearest pixels in the rings immediately above and below.
// HEALPix rings have varying pixel counts near the poles, so "proportional"
// (rather than same-index) neighbors in adjacent rings is what keeps this
// conservative there; a handful of extra false-positive pixels is harmless
// since candidates are re-tested exactly afterwards.
func (g *Grid) neighborCandidates(pix int64) []int64 {
	r, j := g.ringOf(pix)
	out := make([]int64, 0, 9)
	for _, dI := range [3]int64{-1, 0, 1} {
		ring := r.index + dI
		if ring < 1 || ring > g.numRings() {
			continue
		}
		ri := g.ring(ring)
		var center int64
		if dI == 0 {
			center = j
		} else {
			center = int64(math.Round(float64(j) * float64(ri.numPix) / float64(r.numPix)))
		}
		for _, dJ := range [3]int64{-1, 0, 1} {
			jj := ((center+dJ)%ri.numPix + ri.numPix) % ri.numPix
			out = append(out, ri.start+jj)
		}
	}
	return out
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// isqrt returns floor(sqrt(n)) for non-negative n using integer-refined
// floating point, matching the reference HEALPix ring-index inversion.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func sortInt64s(s []int64) {
	// insertion sort is adequate here: the candidate sets produced by
	// DiscIntersect are small (proportional to cap area), not catalog-sized.
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

