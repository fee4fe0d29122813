package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

func newChangesCmd(a *app) *cobra.Command {
	var start, end uint64

	cmd := &cobra.Command{
		Use:   "changes <file> <signal>",
		Short: "List the value changes of one signal",
		Long: `Changes prints "<time> <value>" for every change of a signal with
start <= time <= end. The signal is named by its reference token, its path,
its leaf name or its index.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, info, err := openOne(args[0])
			if err != nil {
				return err
			}
			wf, _ := st.Get(info.Name)
			ref, err := resolveSignal(wf, args[1])
			if err != nil {
				return err
			}

			changes, err := st.Changes(info.Name, ref, start, end)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newPalette(colorEnabled(out))
			for _, c := range changes {
				fmt.Fprintf(out, "%d %s\n", c.Time, p.value.Render(c.Value))
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&start, "start", 0, "first time to include")
	cmd.Flags().Uint64Var(&end, "end", math.MaxUint64, "last time to include")
	return cmd
}
