package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/internal/watcher"
	"github.com/wippyai/wcp-tools/vcd"
	"github.com/wippyai/wcp-tools/waveform"
	"github.com/wippyai/wcp-tools/wcp"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <in.wcp|->",
		Short: "Convert a WCP file to VCD",
		Long: `Convert parses a WCP file and writes its VCD export to stdout, or to the
file named by --output. Use "-" to read from stdin.

Examples:
  wcp convert counter.wcp > counter.vcd
  wcp convert counter.wcp -o out/counter.vcd
  cat counter.wcp | wcp convert -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := readWCP(cmd, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				return vcd.Encode(cmd.OutOrStdout(), wf)
			}
			if err := watcher.WriteVCD(output, wf); err != nil {
				return err
			}
			a.log.Info("converted",
				zap.String("source", args[0]),
				zap.String("output", output),
				zap.Int("signals", len(wf.Signals)),
				zap.Int("changes", len(wf.Changes)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write VCD to this file instead of stdout")
	return cmd
}

func readWCP(cmd *cobra.Command, path string) (*waveform.Waveform, error) {
	var (
		wf  *waveform.Waveform
		err error
	)
	if path == "-" {
		wf, err = wcp.Parse(cmd.InOrStdin())
	} else {
		wf, err = wcp.ParseFile(path)
	}
	if err != nil {
		return nil, explain(path, err)
	}
	return wf, nil
}
