package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/config"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/stats"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [game-url-or-id]",
	Short: "Fetch and analyze a single game, printing the verdicts",
	Long: `Fetch a finished lichess game, score every move against the cloud
evaluation database, and print the per-move verdicts.

Examples:
  replaylens analyze https://lichess.org/AbCdEf12
  replaylens analyze AbCdEf12 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJSON  bool
	analyzeDepth int
)

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the full report as JSON")
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", 0, "evaluation depth (default from EVAL_DEPTH)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if analyzeDepth > 0 {
		cfg.EvalDepth = analyzeDepth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Keep stdout clean for the report; service logs only matter here when
	// the caller asked for them.
	level := logger.ParseLevel(cfg.LogLevel)
	if os.Getenv("LOG_LEVEL") == "" {
		level = logger.WARN
	}
	log := logger.New(logger.WithLevel(level), logger.WithColors(true))
	logger.SetDefault(log)

	gameID, err := lichess.ExtractGameID(args[0])
	if err != nil {
		return err
	}

	client, err := lichess.NewCaching(lichess.New(cfg, stats.Noop{}), cfg.EvalCacheSize, stats.Noop{})
	if err != nil {
		return err
	}

	ctx := context.Background()
	game, err := client.FetchGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("fetching game %s: %w", gameID, err)
	}
	fmt.Fprintf(os.Stderr, "%s vs %s (%s), %d moves\n",
		game.White.Username, game.Black.Username, game.Result, len(game.Moves))

	analyzer := analysis.NewAnalyzer(client, cfg.EvalDepth, cfg.EvalConcurrency(), stats.Noop{})
	report, err := analyzer.AnalyzeGame(ctx, game, func(percent, completed, total int) {
		fmt.Fprintf(os.Stderr, "\revaluating %3d%% (%d/%d)", percent, completed, total)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	return nil
}

func printReport(report *models.AnalysisReport) {
	fmt.Printf("Game:    https://lichess.org/%s\n", report.GameID)
	fmt.Printf("Players: %s vs %s\n", report.Game.White.Username, report.Game.Black.Username)
	fmt.Printf("Result:  %s\n", report.Game.Result)
	if report.Game.Opening != "" {
		fmt.Printf("Opening: %s\n", report.Game.Opening)
	}
	fmt.Println()

	for _, mv := range report.Moves {
		number := (mv.Ply + 1) / 2
		dots := "."
		if mv.Player == models.ColorBlack {
			dots = "..."
		}
		line := fmt.Sprintf("%3d%s %s", number, dots, mv.Summary)
		if mv.BestMove != "" && (mv.Category == models.CategoryMistake || mv.Category == models.CategoryBlunder) {
			line += fmt.Sprintf(" (best %s)", mv.BestMove)
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Printf("White: %d mistakes, %d blunders\n", report.WhiteMistakes, report.WhiteBlunders)
	fmt.Printf("Black: %d mistakes, %d blunders\n", report.BlackMistakes, report.BlackBlunders)
}
