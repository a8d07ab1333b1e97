package hoydedata

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup matches a *LookupError.
	ErrLookup = errors.New("lookup failed")
	// ErrTileNotFound matches a *TileNotFoundError.
	ErrTileNotFound = errors.New("tile not found")
	// ErrTileNotLoaded matches a *TileNotLoadedError.
	ErrTileNotLoaded = errors.New("tile not loaded")
)

// A LookupError is returned when a coordinate falls outside the sampling
// region of a tile.
type LookupError struct {
	Coord    Coord
	Filename string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup '%s' on tile '%s' failed", e.Coord, e.Filename)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// A TileNotFoundError is returned when no tile yields a value for a
// coordinate. Err is the error returned by the last candidate tile, if any.
type TileNotFoundError struct {
	Coord Coord
	Err   error
}

func (e *TileNotFoundError) Error() string {
	return fmt.Sprintf("no tile for coordinate '%s'", e.Coord)
}

func (e *TileNotFoundError) Is(target error) bool {
	return target == ErrTileNotFound
}

func (e *TileNotFoundError) Unwrap() error {
	return e.Err
}

// A TileNotLoadedError is returned when a tile's samples have not been read.
type TileNotLoadedError struct {
	Filename string
}

func (e *TileNotLoadedError) Error() string {
	return fmt.Sprintf("tile not loaded '%s'", e.Filename)
}

func (e *TileNotLoadedError) Is(target error) bool {
	return target == ErrTileNotLoaded
}
