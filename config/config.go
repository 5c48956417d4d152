// Package config loads the settings of schedsim from a YAML file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/metrics"
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/workload"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyAlgorithm        = "scheduler.algorithm"
	KeyTimeQuantum      = "scheduler.round_robin.time_quantum"
	KeySwitchCost       = "scheduler.context_switch_cost"
	KeySwitchAccounting = "scheduler.switch_accounting"
	KeyMaxProcesses     = "workload.max_processes"
	KeyMonitorPort      = "monitor.port"
	KeyRecordingOutput  = "recording.output"
	KeyRecordingEnabled = "recording.enabled"
)

// EnvPrefix is the prefix of the environment variables that override the
// configuration, for example SCHEDSIM_SCHEDULER_ALGORITHM.
const EnvPrefix = "SCHEDSIM"

// Config holds the settings. Values are resolved in the order flag,
// environment, file, default.
type Config struct {
	v *viper.Viper
}

// Load reads the .env files and the configuration file. If path is empty,
// schedsim.yaml is searched in the working directory and a missing file is
// not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}

		return &Config{v: v}, nil
	}

	v.SetConfigName("schedsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, err
	}

	return &Config{v: v}, nil
}

// Default returns the configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAlgorithm, "fcfs")
	v.SetDefault(KeyTimeQuantum, 2)
	v.SetDefault(KeySwitchCost, metrics.DefaultSwitchCost)
	v.SetDefault(KeySwitchAccounting, metrics.ChargePerProcess.String())
	v.SetDefault(KeyMaxProcesses, workload.DefaultMaxProcesses)
	v.SetDefault(KeyMonitorPort, 0)
	v.SetDefault(KeyRecordingOutput, "")
	v.SetDefault(KeyRecordingEnabled, false)
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// BindFlag lets a command line flag override a key when the flag is set.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for key %s", key)
	}

	return c.v.BindPFlag(key, flag)
}

// Set overrides a key.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Algorithm returns the name of the scheduling algorithm.
func (c *Config) Algorithm() string {
	return c.v.GetString(KeyAlgorithm)
}

// TimeQuantum returns the Round Robin time quantum.
func (c *Config) TimeQuantum() int {
	return c.v.GetInt(KeyTimeQuantum)
}

// MaxProcesses returns the largest accepted workload.
func (c *Config) MaxProcesses() int {
	return c.v.GetInt(KeyMaxProcesses)
}

// MonitorPort returns the port of the monitoring server. 0 picks a free
// port.
func (c *Config) MonitorPort() int {
	return c.v.GetInt(KeyMonitorPort)
}

// RecordingEnabled tells if results are written to a database.
func (c *Config) RecordingEnabled() bool {
	return c.v.GetBool(KeyRecordingEnabled) ||
		c.v.GetString(KeyRecordingOutput) != ""
}

// RecordingOutput returns the database path without extension. An empty
// path lets the recorder pick one.
func (c *Config) RecordingOutput() string {
	return c.v.GetString(KeyRecordingOutput)
}

// Policy returns the configured scheduling policy.
func (c *Config) Policy() (cpu.Policy, error) {
	return cpu.ParsePolicy(c.Algorithm(), c.TimeQuantum())
}

// Accounting returns the configured switch overhead accounting.
func (c *Config) Accounting() (metrics.Accounting, error) {
	mode, err := metrics.ParseSwitchMode(c.v.GetString(KeySwitchAccounting))
	if err != nil {
		return metrics.Accounting{}, err
	}

	cost := c.v.GetInt(KeySwitchCost)
	if cost < 0 {
		return metrics.Accounting{}, fmt.Errorf(
			"context switch cost must not be negative, got %d", cost)
	}

	return metrics.Accounting{
		SwitchCost: sim.VTime(cost),
		Mode:       mode,
	}, nil
}

// WorkloadReader returns a reader that enforces the process limit.
func (c *Config) WorkloadReader() workload.Reader {
	return workload.Reader{MaxProcesses: c.MaxProcesses()}
}
