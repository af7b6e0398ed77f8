/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suderio/fable/internal/persistence"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [pack_name]",
	Short: "Print the recorded transcript of a story session",
	Long: `Reads the transcript.jsonl of a pack's sessions and replays every
command and its outcome in order.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packName := args[0]

		dataDir := viper.GetString("data_dir")
		if dataDir == "" {
			rootDir, _ := os.Getwd()
			dataDir = filepath.Join(rootDir, "data")
		}

		transcriptPath, _ := cmd.Flags().GetString("transcript")
		if transcriptPath == "" {
			transcriptPath = filepath.Join(dataDir, "transcripts", packName+".jsonl")
		}

		transcript, err := persistence.NewTranscript(transcriptPath)
		if err != nil {
			fmt.Printf("Error opening transcript: %v\n", err)
			os.Exit(1)
		}
		defer transcript.Close()

		records, err := transcript.Load()
		if err != nil {
			fmt.Printf("Error reading transcript: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Printf("No recorded turns for %s.\n", packName)
			return
		}

		fmt.Printf("Replaying %d turns from %s:\n\n", len(records), transcriptPath)
		for _, rec := range records {
			fmt.Printf("[turn %d] > %s\n", rec.Turn, rec.Input)
			fmt.Printf("%s\n\n", rec.Result.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringP("transcript", "t", "", "Transcript file path (default is <data_dir>/transcripts/<pack>.jsonl)")
}
