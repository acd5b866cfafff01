package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/trace"
	"github.com/joshuapare/arenakit/internal/logger"
)

var (
	dumpAfter int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpAfter, "after", 0, "Stop after this many operations (0 = whole trace)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Print the arena layout after replaying a trace",
		Long: `The dump command replays a trace, optionally stopping early, and prints
every block of the arena followed by the free list.

Example:
  mmctl dump short1.rep
  mmctl dump short1.rep --after 10
  mmctl dump short1.rep --after 10 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), args)
		},
	}
	return cmd
}

// DumpReport is the JSON form of dump output.
type DumpReport struct {
	Trace    string        `json:"trace"`
	Ops      int           `json:"ops"`
	Summary  alloc.Summary `json:"summary"`
	Blocks   []alloc.Block `json:"blocks"`
	FreeList []int         `json:"free_list"`
}

func runDump(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path := args[0]

	a, release, err := openAllocator(ctx, false)
	if err != nil {
		return err
	}
	defer release()

	t, err := trace.Load(path)
	if err != nil {
		return err
	}
	res, err := trace.Replay(ctx, a, t, trace.Options{Limit: dumpAfter, Logger: logger.L})
	if err != nil {
		return err
	}

	if jsonOut {
		rep := DumpReport{Trace: path, Ops: res.Ops, Summary: res.Summary, FreeList: []int{}}
		a.Walk(func(b alloc.Block) bool {
			rep.Blocks = append(rep.Blocks, b)
			return true
		})
		a.FreeBlocks(func(b alloc.Block) bool {
			rep.FreeList = append(rep.FreeList, b.Off)
			return true
		})
		return printJSON(rep)
	}

	printInfo("%s after %d of %d operations\n", path, res.Ops, len(t.Ops))
	if quiet {
		return nil
	}
	return a.Dump(os.Stdout)
}
