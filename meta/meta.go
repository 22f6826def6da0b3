package meta

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Compiled-in defaults.
const (
	SEARCH_DEPTH      = 2
	CANDIDATES        = 8
	MAX_TURNS         = 1000
	ARENA_GAMES       = 10
	ARENA_CONCURRENCY = 4
	PLAYERS           = 4
	ADDR              = ":8080"
	OUTPUT_DIR        = "results"
)

// Config is the process configuration. Fields missing from the YAML file keep their defaults.
type Config struct {
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
	Profile   bool   `yaml:"profile"`
	Players   int    `yaml:"players"`
	Advanced  *bool  `yaml:"advanced"`
	Search    Search `yaml:"search"`
	Arena     Arena  `yaml:"arena"`
	MaxTurns  int    `yaml:"max_turns"`
	OutputDir string `yaml:"output_dir"`
}

type Search struct {
	Depth      int    `yaml:"depth"`
	Candidates int    `yaml:"candidates"`
	Seed       uint64 `yaml:"seed"`
}

type Arena struct {
	Games       int `yaml:"games"`
	Concurrency int `yaml:"concurrency"`
}

func Default() Config {
	return Config{
		Addr:     ADDR,
		LogLevel: "info",
		Players:  PLAYERS,
		Search: Search{
			Depth:      SEARCH_DEPTH,
			Candidates: CANDIDATES,
			Seed:       1,
		},
		Arena: Arena{
			Games:       ARENA_GAMES,
			Concurrency: ARENA_CONCURRENCY,
		},
		MaxTurns:  MAX_TURNS,
		OutputDir: OUTPUT_DIR,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("cannot read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Search.Depth < 1 {
		errs = append(errs, fmt.Errorf("search depth %d must be positive", c.Search.Depth))
	}
	if c.Search.Candidates < 1 {
		errs = append(errs, fmt.Errorf("candidates %d must be positive", c.Search.Candidates))
	}
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max turns %d must be positive", c.MaxTurns))
	}
	if c.Arena.Games < 0 || c.Arena.Concurrency < 0 {
		errs = append(errs, errors.New("arena games and concurrency cannot be negative"))
	}
	return errors.Join(errs...)
}
