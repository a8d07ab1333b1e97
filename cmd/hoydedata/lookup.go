package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/twpayne/go-hoydedata"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [coordinate|location]",
	Short: "Look up the terrain height at a coordinate",
	Long: `Look up the terrain height at a coordinate using the atlas files in the
map root directory for the configured resolution.

The coordinate is either N<northing>E<easting> in UTM zone 33N, the name of a
known location (see the locations command), or given with --lat and --lon.

Examples:
  hoydedata lookup N6851889E146005
  hoydedata lookup Galdhøpiggen --gradient
  hoydedata lookup --lat 61.6364 --lon 8.3125 --resolution 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := lookupCoord(cmd, args)
		if err != nil {
			return err
		}
		gradient, _ := cmd.Flags().GetBool("gradient")

		if mockup, _ := cmd.Flags().GetBool("mockup"); mockup {
			return printLookup(hoydedata.NewMockupAtlas(), coord, gradient)
		}

		return withStore(cmd, func(cfg Config, s *hoydedata.Store) error {
			a, err := hoydedata.NewAtlas(s, float32(cfg.Resolution))
			if err != nil {
				return err
			}
			if a.Empty() {
				return fmt.Errorf("%s: no atlas files for resolution %g", s.Dir(), cfg.Resolution)
			}
			return printLookup(a, coord, gradient)
		})
	},
}

// lookupCoord returns the coordinate given by args or by the --lat and --lon
// flags.
func lookupCoord(cmd *cobra.Command, args []string) (hoydedata.Coord, error) {
	flags := cmd.Flags()
	switch latLon := flags.Changed("lat") || flags.Changed("lon"); {
	case latLon && len(args) != 0:
		return hoydedata.Coord{}, errors.New("coordinate and --lat/--lon are mutually exclusive")
	case latLon:
		lat, _ := flags.GetFloat64("lat")
		lon, _ := flags.GetFloat64("lon")
		if lat < -90 || lat > 90 {
			return hoydedata.Coord{}, errors.New("latitude must be between -90 and 90")
		}
		if lon < -180 || lon > 180 {
			return hoydedata.Coord{}, errors.New("longitude must be between -180 and 180")
		}
		return hoydedata.NewCoordFromLatLon(lat, lon)
	case len(args) == 1:
		return hoydedata.ParseCoord(args[0])
	default:
		return hoydedata.Coord{}, errors.New("missing coordinate")
	}
}

func printLookup(a *hoydedata.Atlas, coord hoydedata.Coord, gradient bool) error {
	fmt.Printf("Coordinate: %s\n", coord)
	if lat, lon, err := coord.LatLon(); err == nil {
		fmt.Printf("Latitude, longitude: %.6f, %.6f\n", lat, lon)
	}

	if tiles, err := a.Tiles(coord); err == nil {
		for _, tile := range tiles {
			contains := "outside"
			if tile.Contains(coord) {
				contains = "contains"
			}
			fmt.Printf("Tile: %s (%s -> %s, %s)\n", tile.Filename(), tile.NW(), tile.SE(), contains)
		}
	}

	if !gradient {
		h, err := a.Lookup(coord)
		if err != nil {
			return err
		}
		fmt.Printf("Height: %g\n", h)
		return nil
	}

	h, dE, dN, err := a.LookupWithGradient(coord)
	if err != nil {
		return err
	}
	slope := math.Atan(math.Hypot(float64(dE), float64(dN))) * 180 / math.Pi
	fmt.Printf("Height: %g\n", h)
	fmt.Printf("Gradient: dh/de=%g dh/dn=%g\n", dE, dN)
	fmt.Printf("Slope: %.1f°\n", slope)
	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().Float64("lat", 0, "latitude in degrees")
	lookupCmd.Flags().Float64("lon", 0, "longitude in degrees")
	lookupCmd.Flags().Float64P("resolution", "r", 10, "tile resolution in meters (HOYDEDATA_RESOLUTION)")
	lookupCmd.Flags().BoolP("gradient", "g", false, "also print the gradient and slope")
	lookupCmd.Flags().Bool("mockup", false, "use the synthetic surface instead of tiles")
}
