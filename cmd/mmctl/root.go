package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	logFile string

	// Arena flags
	regionKind string
	maxBytes   int
	chunkSize  int
	placement  string
)

// closeLog releases the log file opened by the current run.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "mmctl",
	Short: "Replay and inspect allocation traces",
	Long: `mmctl drives the arenakit allocator with allocation traces. It verifies
every payload the allocator hands out, checks heap consistency, reports space
utilization, and prints the block layout of the arena.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	cobra.OnFinalize(finishLogging)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append debug logs to this file")

	rootCmd.PersistentFlags().StringVar(&regionKind, "region", string(arena.KindMem),
		"Arena backend: mem, mmap or wasm")
	rootCmd.PersistentFlags().IntVar(&maxBytes, "max", arena.DefaultMaxSize, "Maximum arena size in bytes")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk", alloc.DefaultConfig.ChunkSize,
		"Minimum arena growth in bytes")
	rootCmd.PersistentFlags().StringVar(&placement, "placement", alloc.PlaceHybrid.String(),
		"Free-list insertion order: hybrid, tail or head")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging enables debug records when -v or --log-file is given.
func setupLogging(cmd *cobra.Command, args []string) error {
	finishLogging()
	closeFn, err := logger.Init(logger.Options{
		Enabled: (verbose && !quiet) || logFile != "",
		Level:   slog.LevelDebug,
		File:    logFile,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog = closeFn
	return nil
}

// finishLogging closes the current log file at most once.
func finishLogging() {
	_ = closeLog()
	closeLog = func() error { return nil }
}

// parsePlacement converts the --placement flag.
func parsePlacement(s string) (alloc.Placement, error) {
	for _, p := range []alloc.Placement{alloc.PlaceHybrid, alloc.PlaceTail, alloc.PlaceHead} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown placement %q (want hybrid, tail or head)", s)
}

// openAllocator builds an allocator from the arena flags. The returned
// function releases the region.
func openAllocator(ctx context.Context, checkEveryOp bool) (*alloc.Allocator, func(), error) {
	kind, err := arena.ParseKind(regionKind)
	if err != nil {
		return nil, nil, err
	}
	pl, err := parsePlacement(placement)
	if err != nil {
		return nil, nil, err
	}

	r, err := arena.Open(ctx, kind, maxBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s region: %w", kind, err)
	}
	a, err := alloc.New(r, &alloc.Config{
		ChunkSize:    chunkSize,
		Placement:    pl,
		CheckEveryOp: checkEveryOp,
		Logger:       logger.L.With("region", string(kind)),
	})
	if err != nil {
		_ = r.Close()
		return nil, nil, err
	}
	printVerbose("Arena: %s region, max %d bytes, chunk %d, %s placement\n", kind, r.Cap(), chunkSize, pl)
	return a, func() { _ = r.Close() }, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
