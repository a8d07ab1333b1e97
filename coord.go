package hoydedata

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
)

// A Coord is a planar coordinate in UTM zone 33N, in meters.
type Coord struct {
	E float32 // Easting.
	N float32 // Northing.
}

// A Coord3 is a coordinate with a height.
type Coord3 struct {
	E float32
	N float32
	H float32
}

var coordRx = regexp.MustCompile(`^N(-?[0-9.]+)E(-?[0-9.]+)$`)

// locations are named landmarks that ParseCoord accepts in place of a
// numeric coordinate.
var locations = map[string]string{
	"Austerdalsbreen":      "N6857378.59E74028.82",
	"Bukkehåmåren":         "N6831287.57E165104.69",
	"Dalegubben":           "N6929342.17E55699.65",
	"Dørålseter":           "N6884975.42E228065.39",
	"Galdhøpiggen":         "N6851889.09E146005.17",
	"Giklingdalen":         "N6968433.83E181437.49",
	"Gråkallen":            "N7041229.73E263033.76",
	"Higravtind":           "N7582614.25E491443.74",
	"Innerdalen":           "N6970663.77E181965.81",
	"Jønshornet":           "N6939567.47E51789.75",
	"Koven":                "N7801561.74E796000.84",
	"Kufot":                "N7777944.37E829160.64",
	"Litjdalen":            "N6957527.09E167573.23",
	"Litlefjellet":         "N6951428.83E129294.17",
	"Lodalskåpa":           "N6875511.46E89605.11",
	"Loenvatnet":           "N6878404.9E78921.26",
	"Neådalssnota":         "N6975732.57E196332.68",
	"Nordre Sætertind":     "N6934326.09E52020.75",
	"Nordre Trolltind":     "N6949920.69E125714.78",
	"Olsanestinden":        "N7590523.96E503865.44",
	"Midtronden":           "N6878653.14E230391.25",
	"Olstinden":            "N7539262.19E419471.91",
	"Rødøyløva":            "N7396875.03E413808.27",
	"Sanna":                "N7379422.66E368557.76",
	"Sautso":               "N7761024.88E838717.86",
	"Slogen":               "N6925227.33E67695.5",
	"Smedhamran":           "N6877556.88E225420.61",
	"Smørstabbtindan":      "N6844576.5E135670.28",
	"Snøheim":              "N6919748.71E207190.05",
	"Snøhetta":             "N6922988.3E203182.98",
	"Stetinden":            "N7562126.7E566097.85",
	"Store Knutholstind":   "N6827003.55E156852.26",
	"Store Ringstind":      "N6833238.42E116579.44",
	"Store Skagastølstind": "N6834962.93E120609",
	"Store Vengetind":      "N6951177.34E131787.15",
	"Storsylen":            "N6990928.53E358250.73",
	"Torghatten":           "N7255964.08E364892.09",
}

// NewCoord returns a new Coord.
func NewCoord(e, n float32) Coord {
	return Coord{E: e, N: n}
}

// NewPolarCoord returns the Coord at distance r and angle phi (radians,
// counterclockwise from east) from the origin.
func NewPolarCoord(r, phi float32) Coord {
	sin, cos := math.Sincos(float64(phi))
	return Coord{
		E: r * float32(cos),
		N: r * float32(sin),
	}
}

// ParseCoord parses s, which is either the name of a known location or a
// coordinate of the form N<northing>E<easting>.
func ParseCoord(s string) (Coord, error) {
	if location, ok := locations[s]; ok {
		s = location
	}
	m := coordRx.FindStringSubmatch(s)
	if m == nil {
		return Coord{}, fmt.Errorf("%q: invalid coordinate", s)
	}
	n, err := strconv.ParseFloat(m[1], 32)
	if err != nil {
		return Coord{}, fmt.Errorf("%q: invalid northing: %w", s, err)
	}
	e, err := strconv.ParseFloat(m[2], 32)
	if err != nil {
		return Coord{}, fmt.Errorf("%q: invalid easting: %w", s, err)
	}
	return Coord{E: float32(e), N: float32(n)}, nil
}

// MustParseCoord is like ParseCoord but panics on error.
func MustParseCoord(s string) Coord {
	c, err := ParseCoord(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LocationNames returns the names of all known locations, sorted.
func LocationNames() []string {
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c Coord) Add(o Coord) Coord {
	return Coord{E: c.E + o.E, N: c.N + o.N}
}

func (c Coord) Sub(o Coord) Coord {
	return Coord{E: c.E - o.E, N: c.N - o.N}
}

func (c Coord) Mul(f float32) Coord {
	return Coord{E: c.E * f, N: c.N * f}
}

func (c Coord) Dot(o Coord) float32 {
	return c.E*o.E + c.N*o.N
}

// Abs returns the distance from the origin to c.
func (c Coord) Abs() float32 {
	return float32(math.Sqrt(float64(c.AbsSq())))
}

func (c Coord) AbsSq() float32 {
	return c.E*c.E + c.N*c.N
}

// Rot90 returns c rotated 90 degrees counterclockwise.
func (c Coord) Rot90() Coord {
	return Coord{E: -c.N, N: c.E}
}

// Normalize returns c scaled to unit length. The zero Coord normalizes to
// non-finite values.
func (c Coord) Normalize() Coord {
	abs := c.Abs()
	return Coord{E: c.E / abs, N: c.N / abs}
}

func (c Coord) IsFinite() bool {
	return isFinite(c.E) && isFinite(c.N)
}

// String returns c in the form N<northing>E<easting>.
func (c Coord) String() string {
	return "N" + formatFloat32(c.N) + "E" + formatFloat32(c.E)
}

func (c Coord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coord) UnmarshalText(text []byte) error {
	parsed, err := ParseCoord(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON accepts both the string form and an object with n and e
// members.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.UnmarshalText([]byte(s))
	}
	var v struct {
		N *float32 `json:"n"`
		E *float32 `json:"e"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%s: invalid coordinate: %w", data, err)
	}
	if v.N == nil || v.E == nil {
		return fmt.Errorf("%s: invalid coordinate: missing n or e", data)
	}
	*c = Coord{E: *v.E, N: *v.N}
	return nil
}

func NewCoord3(e, n, h float32) Coord3 {
	return Coord3{E: e, N: n, H: h}
}

func (c Coord3) Dot(o Coord3) float32 {
	return c.E*o.E + c.N*o.N + c.H*o.H
}

// RotH returns c rotated by angle radians around the vertical axis.
func (c Coord3) RotH(angle float32) Coord3 {
	sin, cos := math.Sincos(float64(angle))
	s, k := float32(sin), float32(cos)
	return Coord3{
		E: c.E*k - c.N*s,
		N: c.E*s + c.N*k,
		H: c.H,
	}
}

// RotE returns c rotated by angle radians around the east axis.
func (c Coord3) RotE(angle float32) Coord3 {
	sin, cos := math.Sincos(float64(angle))
	s, k := float32(sin), float32(cos)
	return Coord3{
		E: c.E,
		N: c.N*k - c.H*s,
		H: c.N*s + c.H*k,
	}
}

func (c Coord3) Abs() float32 {
	return float32(math.Sqrt(float64(c.Dot(c))))
}

func (c Coord3) String() string {
	return "(" + formatFloat32(c.E) + ", " + formatFloat32(c.N) + ", " + formatFloat32(c.H) + ")"
}

// formatFloat32 returns the shortest decimal representation of f that
// round-trips, without an exponent.
func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
