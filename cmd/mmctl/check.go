package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/trace"
	"github.com/joshuapare/arenakit/internal/logger"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>...",
		Short: "Validate the allocator against traces",
		Long: `The check command replays each trace with a full heap consistency check
after every operation and reports the first violation found.

Example:
  mmctl check short1.rep
  mmctl check traces/*.rep --region mmap --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args)
		},
	}
	return cmd
}

// CheckReport is the outcome of checking one trace.
type CheckReport struct {
	Trace  string `json:"trace"`
	OK     bool   `json:"ok"`
	Ops    int    `json:"ops"`
	Op     int    `json:"failed_op,omitempty"`
	Line   int    `json:"failed_line,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runCheck(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, release, err := openAllocator(ctx, false)
	if err != nil {
		return err
	}
	defer release()

	var reports []CheckReport
	failed := 0
	for _, path := range args {
		rep := CheckReport{Trace: path}

		t, err := trace.Load(path)
		if err == nil {
			var res *trace.Result
			res, err = trace.Replay(ctx, a, t, trace.Options{CheckHeap: true, Logger: logger.L})
			if err == nil {
				rep.OK, rep.Ops = true, res.Ops
			}
		}
		if err != nil {
			failed++
			rep.Error = err.Error()
			var oe *trace.OpError
			if errors.As(err, &oe) {
				rep.Ops, rep.Op, rep.Line = oe.Index, oe.Index, oe.Op.Line
			}
			var ie *alloc.InvariantError
			if errors.As(err, &ie) {
				off := ie.Off
				rep.Offset = &off
			}
			logger.Warn("check failed", "trace", path, "err", err)
		}
		reports = append(reports, rep)
	}

	if jsonOut {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.OK {
				printInfo("%s: ok (%d ops)\n", r.Trace, r.Ops)
				continue
			}
			printError("%s: %s\n", r.Trace, r.Error)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(args))
	}
	return nil
}
