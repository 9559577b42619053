package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gitrdm/lira/internal/config"
	"github.com/gitrdm/lira/internal/parallel"
	"github.com/gitrdm/lira/pkg/lira"
)

// batchResult is one script's outcome, recorded by path so the summary
// table can be printed in deterministic (sorted) order regardless of which
// goroutine finished first.
type batchResult struct {
	path   string
	status lira.Status
	err    error
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "run every *.lira script in a directory concurrently, one engine per script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			paths, err := filepath.Glob(filepath.Join(args[0], "*.lira"))
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("lira: no *.lira scripts in %s", args[0])
			}
			sort.Strings(paths)

			jobs := make([]parallel.Job, len(paths))
			for i, p := range paths {
				p := p
				jobs[i] = func(ctx context.Context) (interface{}, error) {
					f, err := os.Open(p)
					if err != nil {
						return batchResult{path: p, err: err}, nil
					}
					defer f.Close()
					status, err := runScript(cmd.OutOrStdout(), f, cfg)
					return batchResult{path: p, status: status, err: err}, nil
				}
			}
			results, err := parallel.RunBatch(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			unsat, parseErr := 0, 0
			for _, r := range results {
				br := r.(batchResult)
				if br.err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n", br.path, br.err)
					var se *scriptError
					if errors.As(br.err, &se) {
						parseErr++
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", br.path, br.status)
				if br.status == lira.StatusUnsat {
					unsat++
				}
			}
			// A malformed script anywhere in the batch takes priority over a
			// merely Inconsistent result elsewhere, per spec.md §6's exit codes.
			switch {
			case parseErr > 0:
				os.Exit(4)
			case unsat > 0:
				os.Exit(3)
			}
			return nil
		},
	}
	return cmd
}
