package hoydedata

import (
	"errors"
	"fmt"
)

var errParse = errors.New("parse error")

type GeoKey uint16

const (
	GeoKeyGTModelType  GeoKey = 1024
	GeoKeyGTRasterType GeoKey = 1025
	GeoKeyGeodeticCRS  GeoKey = 2048
	GeoKeyProjectedCRS GeoKey = 3072
	GeoKeyVertical     GeoKey = 4096
)

// crsUserDefined is the GeoKey value of a user-defined CRS.
const crsUserDefined = 32767

// geoKeys are the GeoKeys whose values are stored directly in the GeoKey
// directory.
type geoKeys map[GeoKey]int

// parseGeoKeys parses the short-valued keys of a GeoKeyDirectoryTag. Keys
// whose values are stored in other tags are skipped.
func parseGeoKeys(directory []uint16) (geoKeys, error) {
	if len(directory) < 4 {
		return nil, errParse
	}
	if keyDirectoryVersion := directory[0]; keyDirectoryVersion != 1 {
		return nil, fmt.Errorf("key directory version %d: %w", keyDirectoryVersion, errParse)
	}
	numberOfKeys := int(directory[3])
	if len(directory) < 4+4*numberOfKeys {
		return nil, fmt.Errorf("%d keys in %d values: %w", numberOfKeys, len(directory), errParse)
	}

	keys := make(geoKeys)
	for i := range numberOfKeys {
		keyValues := directory[4+4*i : 4+4*(i+1)]
		key := GeoKey(keyValues[0])
		tiffTagLocation := keyValues[1]
		numberOfValues := keyValues[2]
		if tiffTagLocation != 0 {
			continue
		}
		if numberOfValues != 1 {
			return nil, fmt.Errorf("key %d has %d values: %w", key, numberOfValues, errParse)
		}
		keys[key] = int(keyValues[3])
	}
	return keys, nil
}

// crs returns the EPSG code of the projected CRS, falling back to the
// geodetic CRS. It returns zero if neither is a registered code.
func (k geoKeys) crs() int {
	for _, key := range []GeoKey{GeoKeyProjectedCRS, GeoKeyGeodeticCRS} {
		if code := k[key]; code != 0 && code != crsUserDefined {
			return code
		}
	}
	return 0
}
