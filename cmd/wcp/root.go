package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/internal/config"
	"github.com/wippyai/wcp-tools/internal/logging"
	"github.com/wippyai/wcp-tools/internal/server"
	"github.com/wippyai/wcp-tools/internal/watcher"
	"github.com/wippyai/wcp-tools/store"
	"github.com/wippyai/wcp-tools/vcd"
	"github.com/wippyai/wcp-tools/wcp"
)

// app carries state shared by every subcommand.
type app struct {
	log        *zap.Logger
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "wcp",
		Short: "Convert and explore WCP waveform files",
		Long: `wcp reads waveforms written in the Waveform Control Protocol text format,
exports them as VCD, and serves them for inspection over HTTP or in a terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (TOML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newConvertCmd(a),
		newInspectCmd(a),
		newChangesCmd(a),
		newViewCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup loads configuration and installs one logger into every package.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	a.cfg = cfg
	a.log = log
	wcp.SetLogger(log.Named("wcp"))
	vcd.SetLogger(log.Named("vcd"))
	store.SetLogger(log.Named("store"))
	server.SetLogger(log.Named("server"))
	watcher.SetLogger(log.Named("watcher"))
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
