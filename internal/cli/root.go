package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nickandperla.net/fishsynth"
)

const (
	appName       = "fishsynth"
	defaultConfig = "fishsynth.toml"
)

// rootOptions is shared by every subcommand. The config is loaded once
// before any subcommand runs.
type rootOptions struct {
	configPath string
	logLevel   string
	cpuProfile string
	dbPath     string

	config   *fishsynth.ToolConfig
	profiler interface{ Stop() }
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Synthesize short deadfish programs that print numbers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.profiler != nil {
				opts.profiler.Stop()
			}
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfig, "path to a TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	flags.StringVar(&opts.dbPath, "db", "", "path of the encoding cache, overrides the config")

	cmd.AddCommand(
		newEncodeCmd(opts),
		newRunCmd(opts),
		newVerifyCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	config, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	o.config = config

	if o.logLevel != "" {
		config.LogLevel = o.logLevel
	}
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(cmd.ErrOrStderr())

	if o.dbPath != "" {
		config.Persistence.Path = filepath.Dir(o.dbPath)
		config.Persistence.Name = filepath.Base(o.dbPath)
		config.Persistence.InMemory = false
	}

	if o.cpuProfile != "" {
		o.profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(o.cpuProfile), profile.NoShutdownHook, profile.Quiet)
	}
	return nil
}

// loadConfig falls back to the defaults when the default config file does
// not exist. A config named on the command line must exist.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*fishsynth.ToolConfig, error) {
	config, err := fishsynth.LoadToolConfig(o.configPath)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Debugf("No config at [%s], using defaults", o.configPath)
		return fishsynth.DefaultToolConfig(), nil
	}
	return nil, err
}

func (o *rootOptions) openPersistence() (*fishsynth.Persistence, error) {
	p, err := fishsynth.NewPersistence(&o.config.Persistence)
	if err != nil {
		return nil, fmt.Errorf("Failed to open encoding cache: %w", err)
	}
	return p, nil
}
