package catalog

import (
	"testing"

	"github.com/arunkannawadi/smatch/healpix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesSizes(t *testing.T) {
	g, err := healpix.New(16)
	require.NoError(t, err)

	_, err = New(g, []float64{0, 1}, []float64{0}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = New(g, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNewComputesPointsAndDiscPixels(t *testing.T) {
	g, err := healpix.New(64)
	require.NoError(t, err)

	cat, err := New(g, []float64{10, 20}, []float64{20, -30}, []float64{0.5, 1.0})
	require.NoError(t, err)
	require.Len(t, cat.Entries, 2)

	for _, e := range cat.Entries {
		norm := e.Point.X*e.Point.X + e.Point.Y*e.Point.Y + e.Point.Z*e.Point.Z
		assert.InDelta(t, 1.0, norm, 1e-9)
		assert.NotEmpty(t, e.DiscPixels)
	}
}

func TestBufferUnboundedAppendsEverything(t *testing.T) {
	var b Buffer
	b.Prepare()
	for i := 0; i < 5; i++ {
		appended := b.Offer(Match{InputInd: int64(i), Cosdist: float64(i)})
		assert.True(t, appended)
	}
	assert.Equal(t, 5, b.Len())
}

func TestBufferBoundedKeepsClosestK(t *testing.T) {
	var b Buffer
	b.Maxmatch = 2
	b.Prepare()

	// cosdist values: larger = closer. Offer 0.1, 0.3, 0.4 (three candidates
	// within radius); only the two largest (0.3, 0.4) should survive.
	assert.True(t, b.Offer(Match{InputInd: 0, Cosdist: 0.1}))
	assert.True(t, b.Offer(Match{InputInd: 1, Cosdist: 0.3}))
	appended := b.Offer(Match{InputInd: 2, Cosdist: 0.4})
	assert.False(t, appended, "third candidate must not increment nmatches")

	assert.Equal(t, 2, b.Len())
	var kept []float64
	for _, m := range b.Matches() {
		kept = append(kept, m.Cosdist)
	}
	assert.ElementsMatch(t, []float64{0.3, 0.4}, kept)
}

func TestBufferDrainEmptiesAndRetainsCapacity(t *testing.T) {
	var b Buffer
	b.Maxmatch = 4
	b.Prepare()
	b.Offer(Match{Cosdist: 0.5})
	b.Offer(Match{Cosdist: 0.6})

	drained := b.Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, b.Len())

	b.Prepare()
	assert.Equal(t, 0, b.Len())
	assert.GreaterOrEqual(t, cap(b.matches), 4)
}
