package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nickandperla.net/fishsynth"
	"nickandperla.net/fishsynth/deadfish"
)

type segmentReport struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Program string `json:"program" yaml:"program"`
	Length  uint   `json:"length" yaml:"length"`
	Optimal bool   `json:"optimal" yaml:"optimal"`
}

type encodeReport struct {
	Strategy fishsynth.Strategy `json:"strategy" yaml:"strategy"`
	Bound    uint               `json:"bound" yaml:"bound"`
	Program  string             `json:"program" yaml:"program"`
	Length   int                `json:"length" yaml:"length"`
	Optimal  bool               `json:"optimal" yaml:"optimal"`
	Segments []segmentReport    `json:"segments" yaml:"segments"`
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	var (
		from     string
		text     string
		strategy string
		bound    int
		format   string
		cache    bool
	)

	cmd := &cobra.Command{
		Use:   "encode [number...]",
		Short: "Print a program that outputs each number in turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseValue(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}

			targets, err := parseTargets(args, text)
			if err != nil {
				return err
			}

			config := root.config.Synth
			if cmd.Flags().Changed("strategy") {
				if config.Strategy, err = fishsynth.ParseStrategy(strategy); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("bound") {
				if bound < 0 {
					return fmt.Errorf("--bound must not be negative")
				}
				config.Bound = uint(bound)
			}

			var options []fishsynth.Option
			if cache {
				p, err := root.openPersistence()
				if err != nil {
					return err
				}
				defer p.Shutdown()
				options = append(options, fishsynth.WithCache(p))
			}

			synth, err := fishsynth.NewSynthesizerFromConfig(&config, options...)
			if err != nil {
				return err
			}

			report, err := encodeTargets(synth, start, targets)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringVar(&from, "from", "0", "starting accumulator value")
	cmd.Flags().StringVarP(&text, "string", "s", "", "encode the code points of this string")
	cmd.Flags().StringVar(&strategy, "strategy", "", "bfs, heuristic or auto, overrides the config")
	cmd.Flags().IntVar(&bound, "bound", 0, "search bound, overrides the config. 0 is unbounded, limited only by synth.max_nodes (about 4M nodes, several hundred MB)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&cache, "cache", false, "read and write the encoding cache")
	return cmd
}

func parseTargets(args []string, text string) ([]deadfish.Value, error) {
	if text != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("numbers and --string cannot be combined")
		}
		return fishsynth.StringValues(text)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("nothing to encode, pass numbers or --string")
	}

	targets := make([]deadfish.Value, 0, len(args))
	for _, arg := range args {
		v, err := parseValue(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, v)
	}
	return targets, nil
}

// parseValue accepts a signed or unsigned 32 bit number. Negative numbers
// are stored in two's complement.
func parseValue(s string) (deadfish.Value, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("[%s] is not a number", s)
	}
	if n < math.MinInt32 || n > math.MaxUint32 {
		return 0, fmt.Errorf("[%s] does not fit in 32 bits", s)
	}
	v, ok := deadfish.FromChecked(uint32(n))
	if !ok {
		return 0, fmt.Errorf("%w: [%s]", fishsynth.ErrUnrepresentable, s)
	}
	return v, nil
}

func encodeTargets(synth *fishsynth.Synthesizer, start deadfish.Value, targets []deadfish.Value) (*encodeReport, error) {
	report := &encodeReport{
		Strategy: synth.Config.Strategy,
		Bound:    synth.Config.Bound,
		Optimal:  true,
	}

	var program []deadfish.Inst
	acc := start
	for _, to := range targets {
		enc, err := synth.Encode(acc, to)
		if err != nil {
			return nil, err
		}
		insts, err := enc.Insts()
		if err != nil {
			return nil, err
		}
		program = append(program, insts...)
		report.Optimal = report.Optimal && enc.Optimal
		report.Segments = append(report.Segments, segmentReport{
			From:    acc.String(),
			To:      to.String(),
			Program: deadfish.Format(insts),
			Length:  enc.Length,
			Optimal: enc.Optimal,
		})
		acc = to
	}

	report.Program = deadfish.Format(program)
	report.Length = len(program)
	return report, nil
}

func writeReport(w io.Writer, format string, report *encodeReport) error {
	switch format {
	case "text":
		_, err := fmt.Fprintln(w, report.Program)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown format [%s], expected text, json or yaml", format)
	}
}
