package hoydedata

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestErrors(t *testing.T) {
	coord := Coord{E: -100000, N: 6789745}
	for _, tc := range []struct {
		err            error
		expectedString string
		expectedIs     []error
		expectedIsNot  []error
	}{
		{
			err:            &LookupError{Coord: coord, Filename: "6700_4_10m_z33.tif"},
			expectedString: "lookup 'N6789745E-100000' on tile '6700_4_10m_z33.tif' failed",
			expectedIs:     []error{ErrLookup},
			expectedIsNot:  []error{ErrTileNotFound, ErrTileNotLoaded},
		},
		{
			err:            &TileNotFoundError{Coord: coord},
			expectedString: "no tile for coordinate 'N6789745E-100000'",
			expectedIs:     []error{ErrTileNotFound},
			expectedIsNot:  []error{ErrLookup, ErrTileNotLoaded},
		},
		{
			err: &TileNotFoundError{
				Coord: coord,
				Err:   &LookupError{Coord: coord, Filename: "a.tif"},
			},
			expectedString: "no tile for coordinate 'N6789745E-100000'",
			expectedIs:     []error{ErrTileNotFound, ErrLookup},
			expectedIsNot:  []error{ErrTileNotLoaded},
		},
		{
			err:            &TileNotLoadedError{Filename: "a.tif"},
			expectedString: "tile not loaded 'a.tif'",
			expectedIs:     []error{ErrTileNotLoaded},
			expectedIsNot:  []error{ErrLookup, ErrTileNotFound},
		},
	} {
		t.Run(tc.expectedString, func(t *testing.T) {
			assert.Equal(t, tc.expectedString, tc.err.Error())
			wrapped := fmt.Errorf("wrapped: %w", tc.err)
			for _, target := range tc.expectedIs {
				assert.True(t, errors.Is(wrapped, target))
			}
			for _, target := range tc.expectedIsNot {
				assert.False(t, errors.Is(wrapped, target))
			}
		})
	}
}
