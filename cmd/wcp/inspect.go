package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/wcp-tools/hierarchy"
	"github.com/wippyai/wcp-tools/store"
	"github.com/wippyai/wcp-tools/waveform"
)

type signalReport struct {
	waveform.Signal
	Ref     int `json:"ref"`
	Changes int `json:"changes"`
}

type inspectReport struct {
	Hierarchy *hierarchy.Root `json:"hierarchy"`
	Info      store.Info      `json:"info"`
	Signals   []signalReport  `json:"signals"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show header, signals and scope tree of a WCP or VCD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, info, err := openOne(args[0])
			if err != nil {
				return err
			}
			wf, _ := st.Get(info.Name)
			tree, _ := st.Hierarchy(info.Name)

			report := inspectReport{Info: info, Hierarchy: tree}
			counts := wf.CountBySignal()
			for i, s := range wf.Signals {
				report.Signals = append(report.Signals, signalReport{Signal: s, Ref: i, Changes: counts[i]})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			writeInspect(out, report, newPalette(colorEnabled(out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func writeInspect(w io.Writer, r inspectReport, p palette) {
	h := r.Info.Header
	fmt.Fprintf(w, "%s %s (%s)\n\n", p.title.Render("WCP"), r.Info.Name, r.Info.Format)
	fmt.Fprintf(w, "Version:   %s\n", h.Version)
	fmt.Fprintf(w, "Timescale: %s\n", h.Timescale)
	fmt.Fprintf(w, "Date:      %s\n", h.Date)
	fmt.Fprintf(w, "Changes:   %d (end time %d)\n\n", r.Info.Changes, r.Info.EndTime)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REF", "NAME", "PATH", "WIDTH", "TYPE", "CHANGES")
	for _, s := range r.Signals {
		t.Row(strconv.Itoa(s.Ref), s.Name, s.Path, strconv.FormatUint(uint64(s.Width), 10), s.Type, strconv.Itoa(s.Changes))
	}
	fmt.Fprintf(w, "Signals (%d):\n%s\n\n", len(r.Signals), t.String())

	fmt.Fprintln(w, "Hierarchy:")
	for _, v := range r.Hierarchy.Vars {
		fmt.Fprintf(w, "  %s [%d]\n", p.signal.Render(v.Name), v.Ref)
	}
	r.Hierarchy.Walk(func(depth int, s *hierarchy.Scope) bool {
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(w, "%s%s/\n", indent, p.scope.Render(s.Name))
		for _, v := range s.Vars {
			fmt.Fprintf(w, "%s  %s [%d]\n", indent, p.signal.Render(v.Name), v.Ref)
		}
		return true
	})
}
