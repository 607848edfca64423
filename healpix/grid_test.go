package healpix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadNside(t *testing.T) {
	_, err := New(0)
	assert.Equal(t, ErrBadInput, err)
	_, err = New(-1)
	assert.Equal(t, ErrBadInput, err)
}

func TestEq2xyzUnitVector(t *testing.T) {
	for _, tc := range []struct{ ra, dec float64 }{
		{0, 0}, {90, 0}, {0, 90}, {0, -90}, {123.4, -45.6}, {720, 30},
	} {
		x, y, z, err := Eq2xyz(tc.ra, tc.dec)
		require.NoError(t, err)
		norm := x*x + y*y + z*z
		assert.InDelta(t, 1.0, norm, 1e-9, "ra=%v dec=%v", tc.ra, tc.dec)
	}
}

func TestEq2xyzBadCoordinate(t *testing.T) {
	_, _, _, err := Eq2xyz(math.NaN(), 0)
	assert.Equal(t, ErrBadCoordinate, err)
	_, _, _, err = Eq2xyz(0, math.Inf(1))
	assert.Equal(t, ErrBadCoordinate, err)
}

func TestEq2pixInRange(t *testing.T) {
	g, err := New(64)
	require.NoError(t, err)
	for _, tc := range []struct{ ra, dec float64 }{
		{0, 0}, {10, 20}, {359.9, -89.9}, {-30, 45}, {400, -10},
	} {
		p, err := g.Eq2pix(tc.ra, tc.dec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, int64(0))
		assert.Less(t, p, g.Npix())
	}
}

// TestEq2pixPoleConsistency checks that points very close to a pole map to
// pixels in the north/south polar cap, matching the invariant that
// colatitude near 0/pi stays within the polar cap.
func TestEq2pixPoleConsistency(t *testing.T) {
	g, err := New(16)
	require.NoError(t, err)
	north, err := g.Eq2pix(0, 89.99)
	require.NoError(t, err)
	assert.Less(t, north, g.ncap)

	south, err := g.Eq2pix(0, -89.99)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, south, g.npix-g.ncap)
}

func TestDiscIntersectZeroRadiusIsSinglePixel(t *testing.T) {
	g, err := New(32)
	require.NoError(t, err)
	x, y, z, err := Eq2xyz(10, 20)
	require.NoError(t, err)
	pixels, err := g.DiscIntersect(x, y, z, 0)
	require.NoError(t, err)
	want, err := g.Eq2pix(10, 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{want}, pixels)
}

func TestDiscIntersectFullSphere(t *testing.T) {
	g, err := New(4)
	require.NoError(t, err)
	pixels, err := g.DiscIntersect(0, 0, 1, math.Pi)
	require.NoError(t, err)
	assert.Len(t, pixels, int(g.Npix()))
}

// TestDiscIntersectConservative checks invariant #7: every pixel actually
// within the search radius of the query direction appears in the returned
// set, by brute-force scanning all pixel centres.
func TestDiscIntersectConservative(t *testing.T) {
	g, err := New(32)
	require.NoError(t, err)
	x, y, z, err := Eq2xyz(45, -10)
	require.NoError(t, err)
	radius := 3.0 * math.Pi / 180.0

	pixels, err := g.DiscIntersect(x, y, z, radius)
	require.NoError(t, err)
	in := make(map[int64]bool, len(pixels))
	for _, p := range pixels {
		in[p] = true
	}

	cosRadius := math.Cos(radius)
	for p := int64(0); p < g.Npix(); p++ {
		px, py, pz := g.pixCenter(p)
		if x*px+y*py+z*pz > cosRadius {
			assert.True(t, in[p], "pixel %d within radius but missing from disc", p)
		}
	}
}

func TestAreaAndNpix(t *testing.T) {
	g, err := New(8)
	require.NoError(t, err)
	assert.Equal(t, int64(12*8*8), g.Npix())
	assert.InDelta(t, 4*math.Pi/float64(g.Npix()), g.Area(), 1e-12)
}
