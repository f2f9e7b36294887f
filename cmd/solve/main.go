// Command solve fills a crossword grid from a word list using
// constraint propagation and a restart-based parallel search.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"motscroises/internal/domain"
	"motscroises/internal/gridio"
	"motscroises/internal/solve"
)

func main() {
	_ = godotenv.Load()

	dictPath := flag.String("dict", "", "Path to a newline-separated word list (required)")
	mandatoryPath := flag.String("mandatory", "", "Path to a newline-separated mandatory word list")
	gridPath := flag.String("grid", "", "Path to a partial grid (letters/#/? ), read with the -width/-height dimensions")
	width := flag.Int("width", 9, "Grid width, in cells")
	height := flag.Int("height", 9, "Grid height, in cells")
	blackTileCap := flag.Int("black-tile-cap", 0, "Maximum number of black tiles")
	threads := flag.Int("threads", 4, "Number of parallel search workers")
	cutoff := flag.Int("restart-cutoff", 70000, "Propagation failures before a worker restarts")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for value ordering")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall search timeout")
	output := flag.String("output", "", "Output file for the solved grid (default: stdout)")
	verbose := flag.Bool("verbose", false, "Verbose stderr reporting")

	flag.Parse()

	if *dictPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -dict is required")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	words, err := readWordList(*dictPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load dictionary: %v\n", err)
		os.Exit(1)
	}

	req := domain.SolveRequest{
		Width:        *width,
		Height:       *height,
		BlackTileCap: *blackTileCap,
		Words:        words,
	}

	if *mandatoryPath != "" {
		mandatory, err := readWordList(*mandatoryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load mandatory words: %v\n", err)
			os.Exit(1)
		}
		req.Mandatory = mandatory
	}

	if *gridPath != "" {
		gridFile, err := os.Open(*gridPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open grid: %v\n", err)
			os.Exit(1)
		}
		pinned, err := gridio.ParseGrid(gridFile, *width, *height)
		gridFile.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to parse grid: %v\n", err)
			os.Exit(1)
		}
		req.Pinned = pinnedToKeys(pinned, *width)
	}

	if *verbose {
		logVerbose(logger, req, *threads)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := solve.Run(ctx, req, solve.Options{
		Cutoff:  *cutoff,
		Threads: *threads,
		Seed:    *seed,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: solve failed: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Search finished in %v (solved: %v)\n", time.Since(start), result.Solved)
	}

	if !result.Solved {
		fmt.Fprintln(os.Stderr, "No solution found")
		os.Exit(1)
	}

	writeResult(result, *output)
}

func readWordList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words, nil
}

func pinnedToKeys(pinned map[int]int, width int) map[string]int {
	if len(pinned) == 0 {
		return nil
	}
	out := make(map[string]int, len(pinned))
	for cell, code := range pinned {
		row := cell / width
		col := cell % width
		out[fmt.Sprintf("%d,%d", row, col)] = code
	}
	return out
}

func logVerbose(logger *slog.Logger, req domain.SolveRequest, threads int) {
	logger.Info("starting solve",
		"width", req.Width,
		"height", req.Height,
		"black_tile_cap", req.BlackTileCap,
		"mandatory_words", len(req.Mandatory),
		"threads", threads,
	)
}

func writeResult(result *domain.SolveResult, output string) {
	colorize := output == "" && isatty.IsTerminal(os.Stdout.Fd())

	var b strings.Builder
	for _, row := range result.Grid {
		b.WriteString(colorizeRow(row, colorize))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, w := range result.Words {
		b.WriteString(w)
		b.WriteByte('\n')
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(b.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(b.String())
}

func colorizeRow(row string, colorize bool) string {
	if !colorize {
		return row
	}
	var b strings.Builder
	for _, r := range row {
		if r == gridio.BlackTile {
			b.WriteString("\x1b[90m#\x1b[0m")
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
