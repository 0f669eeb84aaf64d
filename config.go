package fishsynth

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"nickandperla.net/fishsynth/deadfish"
)

type SynthConfig struct {
	Strategy Strategy `toml:"strategy"`
	// Bound limits breadth first searches. 0 searches without limit.
	Bound    uint `toml:"bound"`
	MemoSize int  `toml:"memo_size"`
	// MaxNodes caps the memory of a single search. 0 uses DefaultMaxNodes.
	MaxNodes int `toml:"max_nodes"`
}

// ToolConfig is the configuration file of the fishsynth command.
type ToolConfig struct {
	LogLevel    string                 `toml:"log_level"`
	Workers     int                    `toml:"workers"`
	Synth       SynthConfig            `toml:"synth"`
	Persistence PersistenceConfig      `toml:"persistence"`
	Machine     deadfish.MachineConfig `toml:"machine"`
}

func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
		Synth: SynthConfig{
			Strategy: StrategyAuto,
			Bound:    16,
			MemoSize: 4096,
		},
		Persistence: PersistenceConfig{
			Name:          "fishsynth.db",
			Path:          ".",
			SQLitePragmas: []string{"journal_mode(WAL)", "busy_timeout(5000)"},
		},
		Machine: deadfish.MachineConfig{
			MaxInstructionExecutionCount: 1 << 24,
		},
	}
}

// LoadToolConfig reads a TOML file over the defaults. Keys missing from the
// file keep their default values.
func LoadToolConfig(path string) (*ToolConfig, error) {
	config := DefaultToolConfig()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open config [%s]: %w", path, err)
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(config); err != nil {
		return nil, fmt.Errorf("Failed to decode config [%s]: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config [%s]: %w", path, err)
	}
	return config, nil
}

func (c *ToolConfig) Validate() error {
	if _, err := ParseStrategy(string(c.Synth.Strategy)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers [%d] must be at least 1", c.Workers)
	}
	return nil
}

// SearchBound converts the configured bound to the one a BfsEncoder
// takes.
func (c *SynthConfig) SearchBound() int {
	if c.Bound == 0 {
		return Unbounded
	}
	return int(c.Bound)
}
