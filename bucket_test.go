package hoydedata

import (
	"slices"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBucket(t *testing.T) {
	for _, tc := range []struct {
		coord    Coord
		expected int
	}{
		{coord: Coord{E: 100, N: 6789745}, expected: 7790240},
		{coord: Coord{E: -120000, N: 6400000}, expected: 0},
		{coord: Coord{E: -119500, N: 6400500}, expected: 10001},
		{coord: Coord{E: -119501, N: 6400499}, expected: 0},
		{coord: Coord{E: 146005.17, N: 6851889.09}, expected: 9030532},
		{coord: Coord{E: 5, N: 5}, expected: -128000000 + 240},
	} {
		t.Run(tc.coord.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, Bucket(tc.coord))
			assert.Equal(t, Bucket(tc.coord), Bucket(tc.coord))
		})
	}
}

func TestBucketSameCell(t *testing.T) {
	origin := Coord{E: 100000, N: 6900000}
	for _, offset := range []Coord{
		{E: 0, N: 0},
		{E: 499, N: 0},
		{E: 0, N: 499},
		{E: 250.5, N: 499.5},
	} {
		assert.Equal(t, Bucket(origin), Bucket(origin.Add(offset)))
	}
	for _, offset := range []Coord{
		{E: 500, N: 0},
		{E: 0, N: 500},
		{E: -1, N: 0},
		{E: 0, N: -1},
	} {
		assert.NotEqual(t, Bucket(origin), Bucket(origin.Add(offset)))
	}
}

func TestBucketCover(t *testing.T) {
	for _, tc := range []struct {
		name     string
		nw       Coord
		se       Coord
		expected int
	}{
		{
			name:     "single_bucket",
			nw:       Coord{E: 100100, N: 6900400},
			se:       Coord{E: 100200, N: 6900300},
			expected: 1,
		},
		{
			name:     "aligned",
			nw:       Coord{E: 100000, N: 6901000},
			se:       Coord{E: 101000, N: 6900000},
			expected: 9,
		},
		{
			name:     "unaligned",
			nw:       Coord{E: 100250, N: 6900750},
			se:       Coord{E: 101250, N: 6899750},
			expected: 9,
		},
		{
			name:     "large",
			nw:       Coord{E: 100000, N: 6950000},
			se:       Coord{E: 150000, N: 6900000},
			expected: 101 * 101,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buckets := bucketCover(tc.nw, tc.se)
			assert.Equal(t, tc.expected, len(buckets))
			assert.True(t, slices.IsSorted(buckets))
			assert.Equal(t, len(buckets), len(slices.Compact(slices.Clone(buckets))))
			assert.True(t, slices.Contains(buckets, Bucket(tc.nw)))
			assert.True(t, slices.Contains(buckets, Bucket(tc.se)))
			assert.True(t, slices.Contains(buckets, Bucket(Coord{E: tc.nw.E, N: tc.se.N})))
			assert.True(t, slices.Contains(buckets, Bucket(Coord{E: tc.se.E, N: tc.nw.N})))
		})
	}
}

func TestBucketSteps(t *testing.T) {
	assert.Equal(t, []float32{0, 500, 1000}, bucketSteps(0, 1000))
	assert.Equal(t, []float32{0, 500, 700}, bucketSteps(0, 700))
	assert.Equal(t, []float32{10}, bucketSteps(10, 10))
	assert.Equal(t, []float32{5}, bucketSteps(10, 5))
}
