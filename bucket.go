package hoydedata

import (
	"math"
	"slices"
)

// Buckets are 500m by 500m cells on a grid anchored so that the operating
// region has non-negative cell indexes.
const (
	bucketSize    = 500
	bucketOriginN = 6400000
	bucketOriginE = -120000
	bucketStride  = 10000
)

// Bucket returns the id of the bucket containing coord, which must be
// finite.
func Bucket(coord Coord) int {
	row := math.Floor(float64((coord.N - bucketOriginN) / bucketSize))
	col := math.Floor(float64((coord.E - bucketOriginE) / bucketSize))
	return int(row)*bucketStride + int(col)
}

// bucketCover returns the sorted ids of all buckets touched by the rectangle
// with north-west corner nw and south-east corner se.
func bucketCover(nw, se Coord) []int {
	var buckets []int
	for _, n := range bucketSteps(se.N, nw.N) {
		for _, e := range bucketSteps(nw.E, se.E) {
			buckets = append(buckets, Bucket(Coord{E: e, N: n}))
		}
	}
	slices.Sort(buckets)
	return slices.Compact(buckets)
}

// bucketSteps returns from, from+bucketSize, ... up to and including to. If
// the last step does not land on to then to is appended.
func bucketSteps(from, to float32) []float32 {
	var steps []float32
	for x := from; x <= to; x += bucketSize {
		steps = append(steps, x)
		if x+bucketSize == x {
			break
		}
	}
	if len(steps) == 0 || steps[len(steps)-1] != to {
		steps = append(steps, to)
	}
	return steps
}
