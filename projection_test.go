package hoydedata

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestProjection(t *testing.T) {
	p, err := NewProjection()
	assert.NoError(t, err)

	for _, tc := range []struct {
		name     string
		lat, lon float64
		expected Coord
		delta    float64
	}{
		{
			name:     "equator_central_meridian",
			lat:      0,
			lon:      15,
			expected: Coord{E: 500000, N: 0},
			delta:    0.01,
		},
		{
			name:     "sixty_north_central_meridian",
			lat:      60,
			lon:      15,
			expected: Coord{E: 500000, N: 6651411},
			delta:    1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := p.Coord(tc.lat, tc.lon)
			assert.NoError(t, err)
			assertInDelta(t, float64(tc.expected.E), float64(actual.E), tc.delta)
			assertInDelta(t, float64(tc.expected.N), float64(actual.N), tc.delta)
		})
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	for _, name := range []string{"Galdhøpiggen", "Snøhetta", "Kufot", "Torghatten"} {
		t.Run(name, func(t *testing.T) {
			c := MustParseCoord(name)
			lat, lon, err := c.LatLon()
			assert.NoError(t, err)
			assert.True(t, 57 < lat && lat < 72)
			assert.True(t, 4 < lon && lon < 32)

			actual, err := NewCoordFromLatLon(lat, lon)
			assert.NoError(t, err)
			assertInDelta(t, float64(c.E), float64(actual.E), 0.5)
			assertInDelta(t, float64(c.N), float64(actual.N), 0.5)
		})
	}
}
