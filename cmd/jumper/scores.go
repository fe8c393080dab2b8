package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/platform/tui"
)

var (
	flagScoresLimit int
	flagScoresJSON  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the global leaderboard",
	Long: `Display the leaderboard of the configured backend.

In a terminal the leaderboard opens as a pageable table; when piped, or
with --json, the top entries are printed instead.

Examples:
  jumper scores
  jumper scores --limit 50 | less
  jumper scores --json`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Entries to print when not interactive")
	scoresCmd.Flags().BoolVar(&flagScoresJSON, "json", false, "Print JSON")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	conn, err := connect(cfg, newLogger(os.Stderr, "jumper"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.close()

	if !flagScoresJSON && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height, sizeErr := term.GetSize(int(os.Stdout.Fd()))
		if sizeErr != nil {
			width, height = 80, 24
		}
		if err := tui.RunScoreboard(conn.board, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	entries, err := conn.board.Leaderboard(ctx, flagScoresLimit, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if flagScoresJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []backend.LeaderboardEntry{}
		}
		//nolint:errcheck // Nothing to do if stdout is gone
		enc.Encode(entries)
		return
	}
	printScores(os.Stdout, entries)
}

// printScores writes entries as a plain table.
func printScores(w io.Writer, entries []backend.LeaderboardEntry) {
	fmt.Fprintln(w, "Leaderboard - Matcha Jump")
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'jumper play' to set the first high score!")
		return
	}

	// Print header
	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %-5s  %s\n", "Rank", "Player", "Score", "Games", "Last played")
	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %-5s  %s\n", "----", "------", "-----", "-----", "-----------")

	for _, e := range entries {
		fmt.Fprintf(w, "  %-4d  %-16s  %-8d  %-5d  %s\n",
			e.Rank, e.UserID, e.Score, e.TotalGames, e.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
