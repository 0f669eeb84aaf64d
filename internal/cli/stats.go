package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"nickandperla.net/fishsynth"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var longest int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the encoding cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.openPersistence()
			if err != nil {
				return err
			}
			defer p.Shutdown()

			m, err := p.QueryMetrics()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "encodings: %d\n", m.Count)
			fmt.Fprintf(out, "optimal:   %d\n", m.OptimalCount)
			fmt.Fprintf(out, "avg len:   %.2f\n", m.AvgLength)
			fmt.Fprintf(out, "max len:   %d\n", m.MaxLength)

			strategies := make([]string, 0, len(m.ByStrategy))
			for s := range m.ByStrategy {
				strategies = append(strategies, string(s))
			}
			sort.Strings(strategies)
			for _, s := range strategies {
				fmt.Fprintf(out, "  %-10s %d\n", s, m.ByStrategy[fishsynth.Strategy(s)])
			}

			if longest <= 0 {
				return nil
			}
			encs, err := p.QueryLongest(longest)
			if err != nil {
				return err
			}
			for _, enc := range encs {
				fmt.Fprintf(out, "%v -> %v %s/%d len %d optimal %v\n",
					enc.FromValue(), enc.ToValue(), enc.Strategy, enc.Bound, enc.Length, enc.Optimal)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&longest, "longest", 5, "list this many of the longest cached programs")
	return cmd
}
