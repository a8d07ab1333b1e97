package hoydedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// AtlasFileSuffix is the suffix of atlas metadata files.
const AtlasFileSuffix = "atlas.json"

// NewAtlas returns a new Atlas that merges all atlas metadata files in the
// root directory of s whose tiles have the given resolution. Empty metadata
// files are skipped.
func NewAtlas(s *Store, resolution float32) (*Atlas, error) {
	entries, err := s.ReadDir("")
	if err != nil {
		return nil, err
	}

	a := newAtlas(s)
	atlases := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), AtlasFileSuffix) {
			continue
		}
		fragment, err := ReadAtlasFile(s.Path(entry.Name()), s)
		if err != nil {
			return nil, err
		}
		switch fragmentResolution, ok := fragment.resolution(); {
		case !ok:
			s.logger.Debug("skipped empty atlas", "filename", entry.Name())
			continue
		case fragmentResolution != resolution:
			s.logger.Debug("skipped atlas", "filename", entry.Name(), "resolution", fragmentResolution)
			continue
		}
		a.merge(fragment)
		atlases++
	}
	s.logger.Info("read atlas metadata", "atlases", atlases, "tiles", a.Len(), "resolution", resolution)
	return a, nil
}

// DecodeAtlas decodes an Atlas from r. Its tiles are loaded from s.
func DecodeAtlas(r io.Reader, s *Store) (*Atlas, error) {
	a := newAtlas(s)
	if err := json.NewDecoder(r).Decode(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ReadAtlasFile reads an Atlas from the file name. Its tiles are loaded from s.
func ReadAtlasFile(name string, s *Store) (*Atlas, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	a, err := DecodeAtlas(file, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return a, nil
}

// Encode writes a's metadata to w.
func (a *Atlas) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(a)
}

// WriteFile writes a's metadata to the file name.
func (a *Atlas) WriteFile(name string) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return a.Encode(file)
}

// MarshalJSON implements encoding/json.Marshaler. Each tile is written once,
// in the order in which it was added.
func (a *Atlas) MarshalJSON() ([]byte, error) {
	seen := make(map[string]struct{}, len(a.tiles))
	tiles := make([]*Tile, 0, len(a.tiles))
	for _, t := range a.tiles {
		if _, ok := seen[t.filename]; ok {
			continue
		}
		seen[t.filename] = struct{}{}
		tiles = append(tiles, t)
	}
	return json.Marshal(tiles)
}

// UnmarshalJSON implements encoding/json.Unmarshaler. It replaces all tiles
// in a.
func (a *Atlas) UnmarshalJSON(data []byte) error {
	var tiles []*Tile
	if err := json.Unmarshal(data, &tiles); err != nil {
		return err
	}
	a.tiles = nil
	a.buckets = make(map[int][]int)
	for i, t := range tiles {
		if t == nil {
			return fmt.Errorf("tile %d: null", i)
		}
		a.add(t)
	}
	return nil
}
