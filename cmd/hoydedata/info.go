package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twpayne/go-hoydedata"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Print the metadata of GeoTIFF files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			info, err := hoydedata.ReadGeoTIFFInfo(name)
			if err != nil {
				return err
			}
			layout := "strips"
			if info.Tiled {
				layout = "tiles"
			}
			fmt.Printf("File: %s\n", name)
			fmt.Printf("  Size: %dx%d\n", info.Width, info.Height)
			fmt.Printf("  Delta: %s\n", info.Delta)
			fmt.Printf("  Corners: %s -> %s\n", info.NW, info.SE)
			fmt.Printf("  Samples: %d per pixel, %d bits, format %d\n", info.SamplesPerPixel, info.BitsPerSample, info.SampleFormat)
			fmt.Printf("  Compression: %d, predictor %d\n", info.Compression, info.Predictor)
			fmt.Printf("  Layout: %s of %dx%d\n", layout, info.ChunkWidth, info.ChunkHeight)
			if info.CRS != 0 {
				fmt.Printf("  CRS: EPSG:%d\n", info.CRS)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
