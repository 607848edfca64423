// Package catalog holds the primary side of a match: a fixed, ordered
// sequence of points on the unit sphere, each with a precomputed Cartesian
// position, search radius, and per-point match buffer. It is built once
// from parallel (ra, dec, radius) input columns, the way interval.NewBED
// builds a BEDUnion once from parallel BED columns.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/arunkannawadi/smatch/healpix"
)

// ErrSizeMismatch is returned by New when the input columns have differing
// lengths.
var ErrSizeMismatch = errors.New("catalog: ra/dec/radius length mismatch")

// ErrEmptyCatalog is returned by New when the input columns are empty.
var ErrEmptyCatalog = errors.New("catalog: empty catalog")

// Point is a unit Cartesian vector together with the angular search radius
// (radians) and its cosine, fixed at construction time.
type Point struct {
	X, Y, Z   float64
	Radius    float64 // radians
	CosRadius float64
}

// Match is one accepted pairing between a primary catalog entry and a
// secondary-catalog point.
type Match struct {
	CatInd   int64
	InputInd int64
	Cosdist  float64
}

// CosDist implements boundedheap.Cosdist.
func (m Match) CosDist() float64 { return m.Cosdist }

// Entry is one primary-catalog point: its Point, the HEALPix pixels its
// search disc intersects, and its match buffer.
type Entry struct {
	Point      Point
	DiscPixels []int64
	Matches    Buffer
}

// Catalog is the fixed, ordered sequence of primary entries. Entries[i]'s
// index is the cat_ind referenced by any Match produced against it.
type Catalog struct {
	Entries []Entry
}

// New builds a Catalog from parallel ra/dec/radius columns (degrees),
// computing each entry's Cartesian position and disc-pixel set against
// grid. Match buffers are left at zero capacity; call Prepare before
// matching.
func New(grid *healpix.Grid, ra, dec, radiusDeg []float64) (*Catalog, error) {
	if len(ra) != len(dec) || len(ra) != len(radiusDeg) {
		return nil, ErrSizeMismatch
	}
	if len(ra) == 0 {
		return nil, ErrEmptyCatalog
	}

	entries := make([]Entry, len(ra))
	for i := range ra {
		x, y, z, err := healpix.Eq2xyz(ra[i], dec[i])
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if !isFinite(radiusDeg[i]) {
			return nil, fmt.Errorf("catalog entry %d: %w", i, healpix.ErrBadCoordinate)
		}
		radius := radiusDeg[i] * math.Pi / 180.0
		pixels, err := grid.DiscIntersect(x, y, z, radius)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		entries[i] = Entry{
			Point: Point{
				X: x, Y: y, Z: z,
				Radius:    radius,
				CosRadius: math.Cos(radius),
			},
			DiscPixels: pixels,
		}
	}
	return &Catalog{Entries: entries}, nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
