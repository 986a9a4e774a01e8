// Package config loads run settings (spec section 6) from a config
// file via viper, overridable by flags in the command's own main
// package. Grounded on the niceyeti-tabular repo's viper.New() +
// ReadInConfig + Unmarshal pattern (tabular/reinforcement/learning.go
// FromYaml), which favors a fresh *viper.Viper per load over the
// package-level global viper.Get* API so a process can load more than
// one settings file without cross-contamination.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AssignmentMethod selects which Assignment Engine variant a run
// uses.
type AssignmentMethod string

const (
	// Single orders one robot's requests via a per-robot ILP solve
	// (Variant B); the default greedy-makespan partition still
	// decides which robot gets which requests.
	Single AssignmentMethod = "single"
	// Multiple orders all requests via one ILP solve and gives the
	// whole order to the robot nearest its first pickup (Variant C).
	Multiple AssignmentMethod = "multiple"
)

// Settings is the run configuration named by spec section 6.
type Settings struct {
	TotalTime  int    `mapstructure:"total_time"`
	NrRobots   int    `mapstructure:"nr_robots"`
	NrRequests int    `mapstructure:"nr_requests"`
	OutputFile string `mapstructure:"output_file"`

	// AssignmentMethod is empty when the run should use the default
	// greedy-makespan engine outright, without an ILP re-ordering
	// pass.
	AssignmentMethod AssignmentMethod `mapstructure:"assignment_method"`

	SolverPath string `mapstructure:"solver_path"`
	ModelPath  string `mapstructure:"model_path"`
	Seed       int64  `mapstructure:"seed"`
}

// Default mirrors original_source's simulation/settings.rs Default
// impl (total_time=15, nr_robots=2, nr_requests=4, output_file=none).
func Default() Settings {
	return Settings{
		TotalTime:  15,
		NrRobots:   2,
		NrRequests: 4,
		Seed:       42,
	}
}

// Load reads a YAML settings file at path via a fresh viper instance,
// applying Default()'s values for anything the file omits.
func Load(path string) (Settings, error) {
	settings := Default()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	vp.SetDefault("total_time", settings.TotalTime)
	vp.SetDefault("nr_robots", settings.NrRobots)
	vp.SetDefault("nr_requests", settings.NrRequests)
	vp.SetDefault("seed", settings.Seed)

	if err := vp.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := vp.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return settings, nil
}
