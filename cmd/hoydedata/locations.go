package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twpayne/go-hoydedata"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the known locations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range hoydedata.LocationNames() {
			fmt.Printf("%-22s %s\n", name, hoydedata.MustParseCoord(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
