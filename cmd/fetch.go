/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suderio/fable/internal/packfetch"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [pack_name...]",
	Short: "Download story packs from the remote catalog",
	Long: `Fetches story packs from the public pack catalog and stores them in the
local data directory for offline play. Without arguments all catalogued
packs are downloaded.`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := viper.GetString("data_dir")
		if dataDir == "" {
			rootDir, _ := os.Getwd()
			dataDir = filepath.Join(rootDir, "data")
		}

		force, _ := cmd.Flags().GetBool("force")

		fmt.Printf("Fetching story packs to: %s\n", dataDir)

		client := packfetch.NewClient(dataDir, force)

		catalog, err := client.FetchCatalog()
		if err != nil {
			fmt.Printf("Error fetching pack catalog: %v\n", err)
			os.Exit(1)
		}

		wanted := make(map[string]bool, len(args))
		for _, name := range args {
			wanted[name] = true
		}

		var targets []struct{ name, url string }
		for _, entry := range catalog.Packs {
			if len(wanted) > 0 && !wanted[entry.Name] {
				continue
			}
			targets = append(targets, struct{ name, url string }{entry.Name, entry.URL})
		}

		if len(targets) == 0 {
			fmt.Println("No matching packs in the catalog.")
			return
		}

		bar := progressbar.Default(int64(len(targets)), "Downloading packs")

		for _, target := range targets {
			// Throttle to respect the catalog host
			time.Sleep(100 * time.Millisecond)

			if _, err := client.DownloadPack(target.name, target.url); err != nil {
				fmt.Printf("\nFailed to download %s: %v\n", target.name, err)
			}
			bar.Add(1)
		}

		fmt.Println("\nPack download complete!")
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().Bool("force", false, "Force redownload of existing packs")
}
