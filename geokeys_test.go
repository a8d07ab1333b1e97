package hoydedata

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseGeoKeys(t *testing.T) {
	for _, tc := range []struct {
		name        string
		directory   []uint16
		expected    geoKeys
		expectedCRS int
	}{
		{
			name: "user_defined_projection",
			directory: []uint16{
				1, 1, 0, 7,
				1024, 0, 1, 1,
				1025, 0, 1, 1,
				1026, 34737, 28, 0,
				2048, 0, 1, 4258,
				2057, 34736, 1, 5,
				3072, 0, 1, 32767,
				3076, 0, 1, 9001,
			},
			expected: geoKeys{
				GeoKeyGTModelType:  1,
				GeoKeyGTRasterType: 1,
				GeoKeyGeodeticCRS:  4258,
				GeoKeyProjectedCRS: 32767,
				3076:               9001,
			},
			expectedCRS: 4258,
		},
		{
			name: "utm_zone_33",
			directory: []uint16{
				1, 1, 0, 3,
				1024, 0, 1, 1,
				1025, 0, 1, 1,
				3072, 0, 1, 25833,
			},
			expected: geoKeys{
				GeoKeyGTModelType:  1,
				GeoKeyGTRasterType: 1,
				GeoKeyProjectedCRS: 25833,
			},
			expectedCRS: 25833,
		},
		{
			name:      "no_keys",
			directory: []uint16{1, 1, 0, 0},
			expected:  geoKeys{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := parseGeoKeys(tc.directory)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, tc.expectedCRS, actual.crs())
		})
	}
}

func TestParseGeoKeysErrors(t *testing.T) {
	for _, directory := range [][]uint16{
		nil,
		{1, 1, 0},
		{2, 1, 0, 0},
		{1, 1, 0, 2, 1024, 0, 1, 1},
		{1, 1, 0, 1, 1024, 0, 2, 1},
	} {
		_, err := parseGeoKeys(directory)
		assert.True(t, errors.Is(err, errParse))
	}
}
