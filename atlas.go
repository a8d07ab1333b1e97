package hoydedata

import (
	"errors"
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
)

var errNoStore = errors.New("atlas has no store")

// An Atlas is a spatial index of tiles. Tiles are hashed on 500m buckets and
// each bucket holds the tiles that may cover it. A tile appears in every
// bucket that it touches, so some tiles in a bucket may not cover a given
// coordinate in the bucket.
type Atlas struct {
	store   *Store
	tiles   []*Tile
	buckets map[int][]int
	mockup  bool
}

func newAtlas(store *Store) *Atlas {
	return &Atlas{
		store:   store,
		buckets: make(map[int][]int),
	}
}

// NewAtlasFromDirectory returns a new Atlas of the GeoTIFFs in the directory
// dir of s. archive is the name of the archive that dir was mounted from, or
// empty.
func NewAtlasFromDirectory(s *Store, dir, archive string) (*Atlas, error) {
	entries, err := s.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	a := newAtlas(s)
	for _, entry := range entries {
		if entry.IsDir() || !isRasterFilename(entry.Name()) {
			continue
		}
		tile, err := NewTile(s, path.Join(dir, entry.Name()), archive)
		if err != nil {
			return nil, err
		}
		a.add(tile)
	}
	return a, nil
}

// NewAtlasFromArchive mounts the archive name in s and returns a new Atlas of
// the GeoTIFFs in it.
func NewAtlasFromArchive(s *Store, name string) (*Atlas, error) {
	dir, err := s.MountArchive(name)
	if err != nil {
		return nil, err
	}
	return NewAtlasFromDirectory(s, dir, name)
}

// NewMockupAtlas returns a new Atlas without tiles that returns heights from
// a smooth synthetic surface.
func NewMockupAtlas() *Atlas {
	return &Atlas{
		buckets: make(map[int][]int),
		mockup:  true,
	}
}

func isRasterFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tif", ".tiff":
		return true
	default:
		return false
	}
}

// add adds t to a under all buckets that it touches.
func (a *Atlas) add(t *Tile) {
	handle := len(a.tiles)
	a.tiles = append(a.tiles, t)
	for _, bucket := range t.Buckets() {
		a.buckets[bucket] = append(a.buckets[bucket], handle)
	}
}

// merge adds all tiles in other to a.
func (a *Atlas) merge(other *Atlas) {
	for _, t := range other.tiles {
		a.add(t)
	}
}

// resolution returns the resolution of an arbitrary tile in a. Atlases are
// assumed to contain tiles of a single resolution.
func (a *Atlas) resolution() (float32, bool) {
	if len(a.tiles) == 0 {
		return 0, false
	}
	return a.tiles[0].Resolution(), true
}

// candidates returns the tiles in the bucket of coord.
func (a *Atlas) candidates(coord Coord) []*Tile {
	if !coord.IsFinite() {
		return nil
	}
	handles := a.buckets[Bucket(coord)]
	if len(handles) == 0 {
		return nil
	}
	tiles := make([]*Tile, len(handles))
	for i, handle := range handles {
		tiles[i] = a.tiles[handle]
	}
	return tiles
}

func (a *Atlas) loadTile(t *Tile) error {
	if a.store == nil {
		return errNoStore
	}
	return t.Load(a.store)
}

// Store returns a's Store.
func (a *Atlas) Store() *Store {
	return a.store
}

// Empty returns if a has no tiles.
func (a *Atlas) Empty() bool {
	return len(a.buckets) == 0
}

// Len returns the number of tiles in a.
func (a *Atlas) Len() int {
	return len(a.tiles)
}

// Bound returns the union of the bounding rectangles of all tiles in a.
func (a *Atlas) Bound() orb.Bound {
	if len(a.tiles) == 0 {
		return orb.Bound{}
	}
	bound := a.tiles[0].Bound()
	for _, t := range a.tiles[1:] {
		bound = bound.Union(t.Bound())
	}
	return bound
}

// Tiles returns the tiles that may cover coord.
func (a *Atlas) Tiles(coord Coord) ([]*Tile, error) {
	tiles := a.candidates(coord)
	if len(tiles) == 0 {
		return nil, &TileNotFoundError{Coord: coord}
	}
	return tiles, nil
}

// HasTiles returns if any tile may cover coord.
func (a *Atlas) HasTiles(coord Coord) bool {
	return len(a.candidates(coord)) != 0
}

// HasLoadedData returns if there are tiles that may cover coord and all of
// them are loaded.
func (a *Atlas) HasLoadedData(coord Coord) bool {
	tiles := a.candidates(coord)
	if len(tiles) == 0 {
		return false
	}
	for _, t := range tiles {
		if !t.IsLoaded() {
			return false
		}
	}
	return true
}

// Load loads all tiles that may cover coord.
func (a *Atlas) Load(coord Coord) error {
	for _, t := range a.candidates(coord) {
		if t.IsLoaded() {
			continue
		}
		if err := a.loadTile(t); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the height at coord. Tiles are loaded as needed.
func (a *Atlas) Lookup(coord Coord) (float32, error) {
	if a.mockup {
		return float32(mockupHeight(float64(coord.E), float64(coord.N))), nil
	}
	return lookup(a, coord, (*Tile).Lookup)
}

// LookupWithGradient returns the height at coord and its partial derivatives
// with respect to easting and northing. Tiles are loaded as needed.
func (a *Atlas) LookupWithGradient(coord Coord) (float32, float32, float32, error) {
	if a.mockup {
		h, de, dn := mockupHeightWithGradient(float64(coord.E), float64(coord.N))
		return float32(h), float32(de), float32(dn), nil
	}
	type gradient struct {
		h, de, dn float32
	}
	g, err := lookup(a, coord, func(t *Tile, coord Coord) (gradient, error) {
		h, de, dn, err := t.LookupWithGradient(coord)
		return gradient{h: h, de: de, dn: dn}, err
	})
	return g.h, g.de, g.dn, err
}

// lookup returns the first value that tileLookup returns for the tiles that
// may cover coord. Tiles that are not loaded are loaded and tried again once.
// If no tile yields a value then the returned *TileNotFoundError wraps the
// error from the last candidate.
func lookup[T any](a *Atlas, coord Coord, tileLookup func(*Tile, Coord) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, t := range a.candidates(coord) {
		value, err := tileLookup(t, coord)
		if errors.Is(err, ErrTileNotLoaded) {
			if err := a.loadTile(t); err != nil {
				return zero, err
			}
			value, err = tileLookup(t, coord)
		}
		if err == nil {
			lookupHits.Inc()
			return value, nil
		}
		lastErr = err
	}
	lookupMisses.Inc()
	return zero, &TileNotFoundError{Coord: coord, Err: lastErr}
}

// mockupHeight returns the height of the synthetic surface at e, n.
func mockupHeight(e, n float64) float64 {
	return 500*(math.Sin(n*math.Pi/10000)+math.Sin(e*math.Pi/20000)) + 1000
}

// mockupHeightWithGradient returns the height of the synthetic surface at e,
// n, and its central differences one meter either side.
func mockupHeightWithGradient(e, n float64) (float64, float64, float64) {
	h := mockupHeight(e, n)
	de := (mockupHeight(e+1, n) - mockupHeight(e-1, n)) * 0.5
	dn := (mockupHeight(e, n+1) - mockupHeight(e, n-1)) * 0.5
	return h, de, dn
}
