// Package config loads the Strato CLI configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultIdleMinutes is the autostop idle threshold applied when the user
// schedules autostop without giving a value.
const DefaultIdleMinutes = 5

type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type Client struct {
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Parallelism int           `yaml:"parallelism" mapstructure:"parallelism"`
}

type Config struct {
	// StateDir holds the local cluster-state store.
	StateDir string `yaml:"state_dir" mapstructure:"state_dir"`

	// LocalClusters names on-prem clusters that do not support
	// stop/autostop/start.
	LocalClusters []string `yaml:"local_clusters" mapstructure:"local_clusters"`

	Client Client `yaml:"client" mapstructure:"client"`
	Log    Log    `yaml:"log" mapstructure:"log"`
}

func Default() *Config {
	return &Config{
		StateDir: defaultStateDir(),
		Client:   Client{Timeout: 30 * time.Second, Parallelism: 8},
		Log:      Log{Level: "info", Format: "text"},
	}
}

func defaultStateDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return "./state"
	}
	return filepath.Join(home, ".strato", "state")
}

// Load reads the configuration file at path, or the default locations
// when path is empty. Missing files yield the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("strato")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		home, _ := os.UserHomeDir()
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".strato"))
		}
	}
	cfg := Default()
	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
