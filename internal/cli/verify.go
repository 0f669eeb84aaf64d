package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nickandperla.net/fishsynth"
)

func newVerifyCmd(root *rootOptions) *cobra.Command {
	var (
		fromRange  string
		toRange    string
		bound      uint
		workers    int
		show       int
		metricsOut string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the heuristic against bounded search over ranges of pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromLo, fromHi, err := parseRange(fromRange)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			toLo, toHi, err := parseRange(toRange)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			if !cmd.Flags().Changed("workers") {
				workers = root.config.Workers
			}

			reg := prometheus.NewRegistry()
			metrics := fishsynth.NewSynthMetrics(reg)

			pairs := fishsynth.PairRange(fromLo, fromHi, toLo, toHi)
			log.WithFields(log.Fields{"pairs": len(pairs), "bound": bound, "workers": workers}).Info("Verifying")

			results, err := fishsynth.VerifyAll(cmd.Context(), pairs, bound, workers, metrics)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, r := range results {
				if r.Reason == 0 || r.Reason == fishsynth.SkippedUnproven || shown >= show {
					continue
				}
				shown++
				fmt.Fprintf(out, "%s %v -> %v search [%s] heuristic [%s] distance %d\n",
					r.Reason, r.From, r.To, r.SearchProgram, r.HeuristicProgram, r.EditDistance)
			}

			summary := fishsynth.Summarize(results)
			reasons := make([]fishsynth.VerifyFailReason, 0, len(summary.ByReason))
			for reason := range summary.ByReason {
				reasons = append(reasons, reason)
			}
			sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

			parts := make([]string, 0, len(reasons))
			for _, reason := range reasons {
				parts = append(parts, fmt.Sprintf("%s=%d", reason, summary.ByReason[reason]))
			}
			fmt.Fprintf(out, "verified %d pairs: %s, saved %d\n", summary.Total, strings.Join(parts, " "), summary.Saved)

			if metricsOut != "" {
				if err := fishsynth.WriteMetrics(metricsOut, reg); err != nil {
					return fmt.Errorf("Failed to write metrics: %w", err)
				}
			}

			if n := summary.Failed(); n > 0 {
				return fmt.Errorf("%d pairs failed verification", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromRange, "from", "0:64", "half open range of starting values, lo:hi")
	cmd.Flags().StringVar(&toRange, "to", "0:128", "half open range of targets, lo:hi")
	cmd.Flags().UintVar(&bound, "bound", 10, "search bound. 0 is unbounded, limited only by the default node cap (about 4M nodes, several hundred MB per worker)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of workers, defaults to the config")
	cmd.Flags().IntVar(&show, "show", 20, "print at most this many disagreements")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file")
	return cmd
}

func parseRange(s string) (uint32, uint32, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("[%s] is not of the form lo:hi", s)
	}
	l, err := strconv.ParseUint(lo, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("[%s] is not a valid lower bound", lo)
	}
	h, err := strconv.ParseUint(hi, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("[%s] is not a valid upper bound", hi)
	}
	if h < l {
		return 0, 0, fmt.Errorf("range [%s] is empty", s)
	}
	return uint32(l), uint32(h), nil
}
