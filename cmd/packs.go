/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suderio/fable/internal/data"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// packsCmd represents the packs command
var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List the locally installed story packs",
	Long: `Scans the data directory for story pack files and prints their names
alongside title and author metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := viper.GetString("data_dir")
		if dataDir == "" {
			rootDir, _ := os.Getwd()
			dataDir = filepath.Join(rootDir, "data")
		}

		loader := data.NewLoader([]string{dataDir})
		names := loader.ListPacks()

		if len(names) == 0 {
			fmt.Printf("No story packs found in %s.\nRun 'fable fetch' to download some.\n", dataDir)
			return
		}

		fmt.Printf("Story packs in %s:\n", dataDir)
		for _, name := range names {
			pack, err := loader.LoadPack(name)
			if err != nil {
				fmt.Printf("- %s (unreadable: %v)\n", name, err)
				continue
			}
			fmt.Printf("- %s: %q by %s (%d rooms)\n", name, pack.Name, pack.Author, len(pack.Rooms))
		}
	},
}

func init() {
	rootCmd.AddCommand(packsCmd)
}
