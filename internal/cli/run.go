package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nickandperla.net/fishsynth/deadfish"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		start    string
		showIr   bool
		maxSteps uint
	)

	cmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a deadfish program, read from stdin when no program is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readProgram(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			insts, err := deadfish.Parse(source)
			if err != nil {
				return err
			}

			acc, err := parseValue(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}

			out := cmd.OutOrStdout()
			if showIr {
				ir, final := deadfish.EvalIr(insts, acc)
				for _, entry := range ir {
					fmt.Fprintln(out, entry)
				}
				log.WithField("acc", final).Debug("Evaluated program")
				return nil
			}

			config := root.config.Machine
			config.Start = acc
			if cmd.Flags().Changed("max-steps") {
				config.MaxInstructionExecutionCount = maxSteps
			}

			m := deadfish.NewMachine(&config)
			m.LoadProgram(insts)
			if ok, err := m.Run(out); !ok {
				return err
			}
			log.WithFields(log.Fields{
				"acc":    m.Accumulator.Value,
				"steps":  m.InstructionCount,
				"resets": m.Accumulator.Resets,
			}).Debug("Program finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "0", "starting accumulator value")
	cmd.Flags().BoolVar(&showIr, "ir", false, "print the compressed output instead of running")
	cmd.Flags().UintVar(&maxSteps, "max-steps", 0, "instruction limit, 0 is unlimited, overrides the config")
	return cmd
}

// readProgram takes the program from the arguments or from a piped stdin.
func readProgram(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", fmt.Errorf("no program given and stdin is a terminal")
	}
	source, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("Failed to read program: %w", err)
	}
	return string(source), nil
}
