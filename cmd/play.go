/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suderio/fable/internal/data"
	"github.com/suderio/fable/internal/persistence"
	"github.com/suderio/fable/internal/session"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var playCmd = &cobra.Command{
	Use:   "play [pack_name]",
	Short: "Start an interactive story session",
	Long: `Loads a story pack and starts the interactive shell.
Usage:
	> go north
	> take brass key
	> use brass key on chest`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packName := args[0]

		dataDir := viper.GetString("data_dir")
		if dataDir == "" {
			rootDir, _ := os.Getwd()
			dataDir = filepath.Join(rootDir, "data")
		}

		noTranscript, _ := cmd.Flags().GetBool("no_transcript")
		transcriptPath, _ := cmd.Flags().GetString("transcript")
		if transcriptPath == "" {
			transcriptPath = filepath.Join(dataDir, "transcripts", packName+".jsonl")
		}

		var store session.Store
		if !noTranscript {
			if err := os.MkdirAll(filepath.Dir(transcriptPath), 0755); err != nil {
				fmt.Printf("Failed to prepare transcript directory: %v\n", err)
				os.Exit(1)
			}
			transcript, err := persistence.NewTranscript(transcriptPath)
			if err != nil {
				fmt.Printf("Failed to open transcript: %v\n", err)
				os.Exit(1)
			}
			store = transcript
		}

		logger := zerolog.Nop()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		}

		loader := data.NewLoader([]string{dataDir})
		app, err := session.New(loader, session.Options{
			PackName: packName,
			Store:    store,
			Logger:   logger,
		})
		if err != nil {
			fmt.Printf("Failed to bootstrap game session: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if err := RunTUI(app, packName); err != nil {
			fmt.Printf("Fatal TUI Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("transcript", "t", "", "Transcript file path (default is <data_dir>/transcripts/<pack>.jsonl)")
	playCmd.Flags().Bool("no_transcript", false, "Disable the session transcript")
}
