package hoydedata

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func assertInDelta(t *testing.T, expected, actual, delta float64) {
	t.Helper()
	if math.Abs(expected-actual) > delta {
		t.Fatalf("expected %v, got %v (delta %v)", expected, actual, delta)
	}
}

func TestCoordArithmetic(t *testing.T) {
	a := NewCoord(3, 4)
	b := NewCoord(-1, 2)
	assert.Equal(t, Coord{E: 2, N: 6}, a.Add(b))
	assert.Equal(t, Coord{E: 4, N: 2}, a.Sub(b))
	assert.Equal(t, Coord{E: 6, N: 8}, a.Mul(2))
	assert.Equal(t, float32(5), a.Dot(b))
	assert.Equal(t, float32(25), a.AbsSq())
	assert.Equal(t, float32(5), a.Abs())
	assert.Equal(t, Coord{E: -4, N: 3}, a.Rot90())
	assert.Equal(t, float32(0), a.Dot(a.Rot90()))
	assert.Equal(t, Coord{E: 0.6, N: 0.8}, a.Normalize())
}

func TestNewPolarCoord(t *testing.T) {
	for _, tc := range []struct {
		r, phi   float32
		expected Coord
	}{
		{r: 1, phi: 0, expected: Coord{E: 1, N: 0}},
		{r: 2, phi: math.Pi / 2, expected: Coord{E: 0, N: 2}},
		{r: 3, phi: math.Pi, expected: Coord{E: -3, N: 0}},
	} {
		actual := NewPolarCoord(tc.r, tc.phi)
		assertInDelta(t, float64(tc.expected.E), float64(actual.E), 1e-6)
		assertInDelta(t, float64(tc.expected.N), float64(actual.N), 1e-6)
	}
}

func TestCoordIsFinite(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())
	assert.True(t, NewCoord(1, 2).IsFinite())
	assert.False(t, NewCoord(inf, 2).IsFinite())
	assert.False(t, NewCoord(1, -inf).IsFinite())
	assert.False(t, NewCoord(nan, 2).IsFinite())
	assert.False(t, Coord{}.Normalize().IsFinite())
}

func TestParseCoord(t *testing.T) {
	for _, tc := range []struct {
		s        string
		expected Coord
	}{
		{s: "N6789745E100", expected: Coord{E: 100, N: 6789745}},
		{s: "N6851889.5E146005.17", expected: Coord{E: 146005.17, N: 6851889.5}},
		{s: "N-10E-120000", expected: Coord{E: -120000, N: -10}},
		{s: "N0E0", expected: Coord{}},
		{s: "Galdhøpiggen", expected: Coord{E: 146005.17, N: 6851889.09}},
		{s: "Store Skagastølstind", expected: Coord{E: 120609, N: 6834962.93}},
	} {
		t.Run(tc.s, func(t *testing.T) {
			actual, err := ParseCoord(tc.s)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParseCoordErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"6789745,100",
		"E100N6789745",
		"N6789745E",
		"N1.2.3E4",
		" N1E2",
		"Mount Everest",
	} {
		_, err := ParseCoord(s)
		assert.Error(t, err)
	}
}

func TestCoordStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"N6789745E100",
		"N6851889.5E146005.17",
		"N-10E-120000",
		"N0E0",
		"N0.25E-0.5",
		"N7801561.5E796000.8",
	} {
		c, err := ParseCoord(s)
		assert.NoError(t, err)
		assert.Equal(t, s, c.String())
		c2, err := ParseCoord(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, c2)
	}
}

func TestCoordStringLocation(t *testing.T) {
	c := MustParseCoord("Snøhetta")
	assert.NotEqual(t, "Snøhetta", c.String())
	c2, err := ParseCoord(c.String())
	assert.NoError(t, err)
	assert.Equal(t, c, c2)
}

func TestLocationNames(t *testing.T) {
	names := LocationNames()
	assert.Equal(t, len(locations), len(names))
	for i, name := range names {
		_, err := ParseCoord(name)
		assert.NoError(t, err)
		if i > 0 {
			assert.True(t, names[i-1] < name)
		}
	}
}

func TestMustParseCoordPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustParseCoord("invalid")
	})
}

func TestCoordJSON(t *testing.T) {
	data, err := json.Marshal(Coord{E: 100, N: 6789745})
	assert.NoError(t, err)
	assert.Equal(t, `"N6789745E100"`, string(data))

	for _, tc := range []struct {
		name     string
		data     string
		expected Coord
	}{
		{name: "string", data: `"N6789745E100"`, expected: Coord{E: 100, N: 6789745}},
		{name: "object", data: `{"n":6789745,"e":100}`, expected: Coord{E: 100, N: 6789745}},
		{name: "location", data: `"Slogen"`, expected: Coord{E: 67695.5, N: 6925227.33}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var actual Coord
			assert.NoError(t, json.Unmarshal([]byte(tc.data), &actual))
			assert.Equal(t, tc.expected, actual)
		})
	}

	for _, data := range []string{`"N1"`, `{"n":1}`, `[1,2]`, `42`} {
		var c Coord
		assert.Error(t, json.Unmarshal([]byte(data), &c))
	}
}

func TestCoord3(t *testing.T) {
	c := NewCoord3(1, 0, 2)
	assert.Equal(t, float32(5), c.Dot(c))
	assertInDelta(t, math.Sqrt(5), float64(c.Abs()), 1e-6)

	h := c.RotH(math.Pi / 2)
	assertInDelta(t, 0, float64(h.E), 1e-6)
	assertInDelta(t, 1, float64(h.N), 1e-6)
	assert.Equal(t, float32(2), h.H)

	e := NewCoord3(0, 1, 0).RotE(math.Pi / 2)
	assert.Equal(t, float32(0), e.E)
	assertInDelta(t, 0, float64(e.N), 1e-6)
	assertInDelta(t, 1, float64(e.H), 1e-6)

	assert.Equal(t, "(1, 0, 2)", c.String())
}
