package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/journal"
)

var flagReplayList bool

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Print a recorded run",
	Long: `Print the events of a run journal, one per line, with the time
since the run started. Without a file the most recent run in
~/.jumper/journal is shown.

Examples:
  jumper replay
  jumper replay --list
  jumper replay ~/.jumper/journal/run-20250101-120000-001.jsonl.zst`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayList, "list", false, "List recorded runs instead")
}

func runReplay(_ *cobra.Command, args []string) {
	if err := replay(os.Stdout, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func replay(w io.Writer, args []string) error {
	dir := filepath.Join(config.Dir(), "journal")

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		runs, err := journal.Runs(dir)
		if err != nil {
			return err
		}
		if flagReplayList {
			for _, r := range runs {
				fmt.Fprintln(w, r)
			}
			return nil
		}
		if len(runs) == 0 {
			return errors.New("no runs recorded yet in " + dir)
		}
		path = runs[len(runs)-1]
	}

	entries, err := journal.Read(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "Empty journal.")
		return nil
	}

	start := entries[0].Time
	for _, e := range entries {
		fmt.Fprintf(w, "%9.3fs  %-20s  %s\n", e.Time.Sub(start).Seconds(), e.Type, e.Event)
	}
	return nil
}
