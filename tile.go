package hoydedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
)

// A Tile is a single GeoTIFF elevation raster. Its metadata is read when it
// is created and its samples are read on demand.
type Tile struct {
	filename string
	archive  string
	width    int
	height   int
	nw       Coord
	se       Coord
	delta    Coord

	mutex   sync.RWMutex
	samples []float32
}

// A tileJSON is the serialized form of a Tile.
type tileJSON struct {
	Filename string `json:"fname"`
	Archive  string `json:"zipfile"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	NW       Coord  `json:"nw"`
	SE       Coord  `json:"se"`
	Delta    Coord  `json:"delta"`
}

// NewTile returns a new Tile for the GeoTIFF filename in s, which was
// extracted from archive. archive is empty if filename is an ordinary file.
// Only the metadata is read.
func NewTile(s *Store, filename, archive string) (*Tile, error) {
	file, err := os.Open(s.Path(filename))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	h, err := readGeoTIFFHeader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	t := &Tile{
		filename: filename,
		archive:  archive,
		width:    h.width,
		height:   h.height,
		nw:       h.nw,
		se:       southEast(h.nw, h.delta, h.width, h.height),
		delta:    h.delta,
	}
	tilesDiscovered.Inc()
	s.logger.Info("discovered tile", "filename", filename, "nw", t.nw, "se", t.se)
	return t, nil
}

func southEast(nw, delta Coord, width, height int) Coord {
	return nw.Add(Coord{
		E: float32(width) * delta.E,
		N: -float32(height) * delta.N,
	})
}

// Filename returns t's filename, relative to its Store's root directory.
func (t *Tile) Filename() string { return t.filename }

// Archive returns the name of the archive that t was extracted from.
func (t *Tile) Archive() string { return t.archive }

// Size returns t's width and height in pixels.
func (t *Tile) Size() (int, int) { return t.width, t.height }

// NW returns t's north-west corner.
func (t *Tile) NW() Coord { return t.nw }

// SE returns t's south-east corner.
func (t *Tile) SE() Coord { return t.se }

// Delta returns the size of t's pixels. The north component is positive.
func (t *Tile) Delta() Coord { return t.delta }

// Resolution returns the north size of t's pixels.
func (t *Tile) Resolution() float32 {
	return t.delta.N
}

// Bound returns t's bounding rectangle, with X as easting and Y as northing.
func (t *Tile) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(min(t.nw.E, t.se.E)), float64(min(t.nw.N, t.se.N))},
		Max: orb.Point{float64(max(t.nw.E, t.se.E)), float64(max(t.nw.N, t.se.N))},
	}
}

// Contains returns if coord is inside t's bounding rectangle.
func (t *Tile) Contains(coord Coord) bool {
	return t.Bound().Contains(orb.Point{float64(coord.E), float64(coord.N)})
}

// Buckets returns the ids of all buckets that t's bounding rectangle
// touches.
func (t *Tile) Buckets() []int {
	return bucketCover(t.nw, t.se)
}

// IsLoaded returns if t's samples have been read.
func (t *Tile) IsLoaded() bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.samples) != 0
}

// Load reads t's samples from s, mounting t's archive if needed. Calling Load
// on a loaded Tile reads the samples again.
func (t *Tile) Load(s *Store) error {
	s.logger.Info("reading tile", "filename", t.filename)

	if t.archive != "" {
		if _, err := s.MountArchive(t.archive); err != nil {
			return err
		}
	}

	file, err := os.Open(s.Path(t.filename))
	if err != nil {
		return err
	}
	defer file.Close()

	h, err := readGeoTIFFHeader(file)
	if err != nil {
		return fmt.Errorf("%s: %w", t.filename, err)
	}
	if h.width != t.width || h.height != t.height {
		return fmt.Errorf("%s: size %dx%d, expected %dx%d", t.filename, h.width, h.height, t.width, t.height)
	}
	samples, err := readSamples(file, h)
	if err != nil {
		return fmt.Errorf("%s: %w", t.filename, err)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.samples = samples
	tileLoads.Inc()
	return nil
}

// Lookup returns the height at coord.
func (t *Tile) Lookup(coord Coord) (float32, error) {
	i, err := t.index(coord)
	if err != nil {
		return 0, err
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if len(t.samples) == 0 {
		return 0, &TileNotLoadedError{Filename: t.filename}
	}
	return t.samples[i], nil
}

// LookupWithGradient returns the height at coord and its partial
// derivatives with respect to easting and northing, estimated from the
// neighboring pixels.
func (t *Tile) LookupWithGradient(coord Coord) (float32, float32, float32, error) {
	i, err := t.index(coord)
	if err != nil {
		return 0, 0, 0, err
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if len(t.samples) == 0 {
		return 0, 0, 0, &TileNotLoadedError{Filename: t.filename}
	}
	a := t.samples
	h := a[i]
	de1 := h - a[i-1]
	de2 := a[i+1] - h
	dn1 := a[i-t.width] - h
	dn2 := h - a[i+t.width]
	return h, (de1 + de2) * 0.5 / t.delta.E, (dn1 + dn2) * 0.5 / t.delta.N, nil
}

// index returns the index into t's samples of the pixel containing coord.
// Pixels on the edge of t are excluded so that every valid index has four
// neighbors.
func (t *Tile) index(coord Coord) (int, error) {
	x := (coord.E - t.nw.E) / t.delta.E
	y := (t.nw.N - coord.N) / t.delta.N
	if !(1 <= x && x < float32(t.width-1) && 1 <= y && y < float32(t.height-1)) {
		return 0, &LookupError{Coord: coord, Filename: t.filename}
	}
	return int(x) + int(y)*t.width, nil
}

func (t *Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(tileJSON{
		Filename: t.filename,
		Archive:  t.archive,
		Width:    t.width,
		Height:   t.height,
		NW:       t.nw,
		SE:       t.se,
		Delta:    t.delta,
	})
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	var v tileJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Filename == "" {
		return errors.New("tile: missing fname")
	}
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%s: invalid size %dx%d", v.Filename, v.Width, v.Height)
	}
	if !(v.Delta.E > 0 && v.Delta.N > 0) {
		return fmt.Errorf("%s: invalid delta %s", v.Filename, v.Delta)
	}
	t.filename = v.Filename
	t.archive = v.Archive
	t.width = v.Width
	t.height = v.Height
	t.nw = v.NW
	t.se = v.SE
	t.delta = v.Delta
	return nil
}
