package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/wcp-tools/internal/watcher"
	"github.com/wippyai/wcp-tools/store"
)

func newWatchCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Convert WCP files to VCD whenever they change",
		Long: `Watch converts every file matching the patterns once, then again each
time one is created or written. Patterns default to watch.patterns from the
config file and support "**".

Examples:
  wcp watch "sim/**/*.wcp"
  wcp watch traces/*.wcp --out build/vcd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = a.cfg.Watch.Patterns
			}
			if outDir == "" {
				outDir = a.cfg.Watch.OutDir
			}

			errOut := cmd.ErrOrStderr()
			w, err := watcher.New(patterns, outDir, store.New(),
				watcher.WithDebounce(a.cfg.Watch.Debounce),
				watcher.WithExtension(a.cfg.Export.Extension),
				watcher.OnResult(func(r watcher.Result) {
					if r.Err != nil {
						fmt.Fprintf(errOut, "%s %s: %v\n", errorStyle.Render("✗"), r.Source, r.Err)
						return
					}
					fmt.Fprintf(errOut, "%s %s -> %s\n", valueStyle.Render("✓"), r.Source, r.Output)
				}))
			if err != nil {
				return err
			}

			fmt.Fprintf(errOut, "watching %d file(s) for %v\n", len(w.Files()), patterns)
			ctx, cancel := signalContext(context.Background())
			defer cancel()
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for VCD output (default: beside each source)")
	return cmd
}
