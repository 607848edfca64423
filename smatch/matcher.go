// Package smatch implements the top-level spherical spatial matching
// engine: given a primary catalog of points with per-point search radii
// and a secondary catalog of points, it reports which secondary points fall
// within each primary point's disc, optionally capped to the K closest.
package smatch

import (
	"errors"

	"github.com/arunkannawadi/smatch/catalog"
	"github.com/arunkannawadi/smatch/healpix"
	"github.com/arunkannawadi/smatch/pixtree"
	"github.com/grailbio/base/log"
)

var errSecondarySizeMismatch = errors.New("smatch: ra/dec length mismatch")

// Matcher is the top-level catalog object: it owns the HEALPix grid, the
// primary Catalog, the current maxmatch/self-match settings, and the
// running match counter from the most recent Match or MatchToFile call.
//
// A Matcher is not safe for concurrent Match/MatchToFile calls; see the
// note below.
//
// Concurrent Match calls on the same Matcher are forbidden: a match call
// mutates every entry's match buffer and the shared nmatches counter, and
// holds no internal lock.
type Matcher struct {
	grid      *healpix.Grid
	cat       *catalog.Catalog
	maxmatch  int
	selfMatch bool
	nmatches  int64
}

// New builds the primary catalog over a HEALPix grid of the given Nside,
// from parallel ra/dec/radius (degrees) columns.
func New(nside int, ra, dec, radiusDeg []float64) (*Matcher, error) {
	grid, err := healpix.New(nside)
	if err != nil {
		return nil, classifyCatalogErr("New", err)
	}
	cat, err := catalog.New(grid, ra, dec, radiusDeg)
	if err != nil {
		return nil, classifyCatalogErr("New", err)
	}
	return &Matcher{grid: grid, cat: cat}, nil
}

// NMatches returns the number of matches accepted by the most recent Match
// or MatchToFile call.
func (m *Matcher) NMatches() int64 { return m.nmatches }

// HpixNside returns the grid's Nside.
func (m *Matcher) HpixNside() int { return m.grid.Nside() }

// HpixArea returns the grid's per-pixel solid angle, in steradians.
func (m *Matcher) HpixArea() float64 { return m.grid.Area() }

// Match runs an in-memory match of this Matcher's primary catalog against
// the secondary (ra, dec) columns, keeping at most maxmatch matches per
// primary entry (0 = unbounded). selfMatch, when true, skips a candidate
// whose secondary index equals the primary's catalog index — this is only
// meaningful when the secondary array is literally the primary's own data.
//
// Match resets every entry's buffer before the secondary tree is built, so
// a failure partway through construction leaves already-reset buffers empty
// but does not roll back a previous successful call's results; the caller
// must treat a failed Match's catalog state as indeterminate and not reuse
// it.
func (m *Matcher) Match(maxmatch int, selfMatch bool, ra, dec []float64) error {
	if maxmatch < 0 {
		return badInput("Match", errNegativeMaxmatch)
	}
	if len(ra) != len(dec) {
		return badInput("Match", errSecondarySizeMismatch)
	}

	m.maxmatch = maxmatch
	m.selfMatch = selfMatch
	for i := range m.cat.Entries {
		m.cat.Entries[i].Matches.Maxmatch = maxmatch
		m.cat.Entries[i].Matches.Prepare()
	}

	tree, err := m.buildSecondaryTree(ra, dec)
	if err != nil {
		return err
	}

	var nmatches int64
	for catInd := range m.cat.Entries {
		entry := &m.cat.Entries[catInd]
		for _, pixel := range entry.DiscPixels {
			indices, ok := tree.Find(pixel)
			if !ok {
				continue
			}
			for _, inputInd := range indices {
				if selfMatch && int64(inputInd) == int64(catInd) {
					continue
				}
				x, y, z, err := healpix.Eq2xyz(ra[inputInd], dec[inputInd])
				if err != nil {
					return badCoordinate("Match", err)
				}
				cosAngle := entry.Point.X*x + entry.Point.Y*y + entry.Point.Z*z
				if cosAngle <= entry.Point.CosRadius {
					continue
				}
				if entry.Matches.Offer(catalog.Match{
					CatInd:   int64(catInd),
					InputInd: int64(inputInd),
					Cosdist:  cosAngle,
				}) {
					nmatches++
				}
			}
		}
	}
	m.nmatches = nmatches
	log.Debug.Printf("smatch: matched %d primary entries against %d secondary points, %d accepted",
		len(m.cat.Entries), len(ra), nmatches)
	return nil
}

// buildSecondaryTree indexes every secondary point by its single
// containing pixel (not its disc, since only the primary side carries a
// search radius).
func (m *Matcher) buildSecondaryTree(ra, dec []float64) (*pixtree.Tree, error) {
	tree := pixtree.New(m.grid.Npix())
	for i := range ra {
		pixel, err := m.grid.Eq2pix(ra[i], dec[i])
		if err != nil {
			return nil, badCoordinate("Match", err)
		}
		tree.Insert(pixel, i)
	}
	return tree, nil
}

// CopyMatches consumes every entry's match buffer in catalog-entry order,
// emptying each as it goes, and returns the concatenated result. A
// subsequent CopyMatches call (with no intervening Match) returns nothing.
func (m *Matcher) CopyMatches() []catalog.Match {
	var out []catalog.Match
	for i := range m.cat.Entries {
		out = append(out, m.cat.Entries[i].Matches.Drain()...)
	}
	return out
}
