package hoydedata

import (
	"sync"

	"github.com/twpayne/go-proj/v10"
)

const (
	crsWGS84     = "epsg:4326"
	crsUTMZone33 = "epsg:32633"
)

// A Projection converts between geographic coordinates and Coords.
type Projection struct {
	pj *proj.PJ
}

var defaultProjection = sync.OnceValues(NewProjection)

// NewProjection returns a new Projection from WGS84 latitude and longitude to
// UTM zone 33N.
func NewProjection() (*Projection, error) {
	pj, err := proj.NewCRSToCRS(crsWGS84, crsUTMZone33, nil)
	if err != nil {
		return nil, err
	}
	return &Projection{
		pj: pj,
	}, nil
}

// Coord returns the Coord of the given latitude and longitude, in degrees.
func (p *Projection) Coord(lat, lon float64) (Coord, error) {
	// EPSG:4326 has latitude first.
	utm, err := p.pj.Forward(proj.NewCoord(lat, lon, 0, 0))
	if err != nil {
		return Coord{}, err
	}
	return Coord{
		E: float32(utm.X()),
		N: float32(utm.Y()),
	}, nil
}

// LatLon returns the latitude and longitude of c, in degrees.
func (p *Projection) LatLon(c Coord) (float64, float64, error) {
	geo, err := p.pj.Inverse(proj.NewCoord(float64(c.E), float64(c.N), 0, 0))
	if err != nil {
		return 0, 0, err
	}
	return geo.X(), geo.Y(), nil
}

// NewCoordFromLatLon returns the Coord of the given latitude and longitude
// using the default Projection.
func NewCoordFromLatLon(lat, lon float64) (Coord, error) {
	p, err := defaultProjection()
	if err != nil {
		return Coord{}, err
	}
	return p.Coord(lat, lon)
}

// LatLon returns the latitude and longitude of c using the default
// Projection.
func (c Coord) LatLon() (float64, float64, error) {
	p, err := defaultProjection()
	if err != nil {
		return 0, 0, err
	}
	return p.LatLon(c)
}
