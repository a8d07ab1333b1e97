package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "hoydedata"

var rootCmd = &cobra.Command{
	Use:   "hoydedata",
	Short: "Terrain height lookups in indexed GeoTIFF tiles",
	Long: `hoydedata indexes directories and zip archives of GeoTIFF elevation
tiles and looks up terrain heights and slopes at UTM zone 33N coordinates.

Configuration can be set via environment variables or command-line flags.
Flags take precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("dir", "d", "", "map root directory (HOYDEDATA_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR (LOG_LEVEL)")
	rootCmd.PersistentFlags().String("mounter", "", "archive mounter: fuse-zip or extract (HOYDEDATA_MOUNTER)")
}
