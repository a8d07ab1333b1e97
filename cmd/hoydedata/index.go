package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twpayne/go-hoydedata"
)

var indexCmd = &cobra.Command{
	Use:   "index <outdir> [archive]",
	Short: "Write the atlas metadata of a directory or archive",
	Long: `Index the GeoTIFFs in the map root directory, or in a zip archive in the
map root directory, and write their metadata to an atlas file in outdir.

The atlas file is called atlas.json for the map root and <archive>.atlas.json
for an archive. Atlas files in the map root are merged by the lookup command.

Examples:
  hoydedata index --dir /data/hoydedata /data/hoydedata
  hoydedata index --dir /data/hoydedata --mounter extract /data/hoydedata 6700_4_10m_z33.zip`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(cfg Config, s *hoydedata.Store) error {
			outDir := args[0]
			var (
				a    *hoydedata.Atlas
				name string
				err  error
			)
			if len(args) == 1 || args[1] == "" {
				a, err = hoydedata.NewAtlasFromDirectory(s, "", "")
				name = filepath.Join(outDir, hoydedata.AtlasFileSuffix)
			} else {
				a, err = hoydedata.NewAtlasFromArchive(s, args[1])
				name = filepath.Join(outDir, args[1]+"."+hoydedata.AtlasFileSuffix)
			}
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := a.WriteFile(name); err != nil {
				return err
			}
			fmt.Printf("Wrote %d tiles to %s\n", a.Len(), name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
