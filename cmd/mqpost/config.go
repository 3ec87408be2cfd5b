package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every knob mqpost accepts, whether it arrived via flag,
// environment variable, or config file. Precedence follows Viper's
// usual layering: flags override environment, which overrides the
// config file, which overrides these defaults.
type Config struct {
	ConfigFile string

	Capacity        int
	LowWatermark    int
	HighWatermark   int
	HighWatermark2  int
	TimedOperations bool

	QueueID         string
	PostCount       int
	PostConcurrency int

	fs *pflag.FlagSet
}

// NewConfig returns a Config populated with mqpost's defaults.
func NewConfig() *Config {
	return &Config{
		Capacity:        1000,
		LowWatermark:    100,
		HighWatermark:   800,
		HighWatermark2:  950,
		QueueID:         "mqpost",
		PostCount:       10000,
		PostConcurrency: 4,
	}
}

// AddFlags binds Config's fields onto fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "path to a YAML config file")
	fs.IntVar(&c.Capacity, "capacity", c.Capacity, "maximum number of messages the queue holds")
	fs.IntVar(&c.LowWatermark, "low-watermark", c.LowWatermark, "low watermark threshold")
	fs.IntVar(&c.HighWatermark, "high-watermark", c.HighWatermark, "high watermark threshold")
	fs.IntVar(&c.HighWatermark2, "high-watermark-2", c.HighWatermark2, "second high watermark threshold")
	fs.BoolVar(&c.TimedOperations, "timed-operations", c.TimedOperations, "support TimedPopFront on the queue")
	fs.StringVar(&c.QueueID, "queue-id", c.QueueID, "identifier attached to posted messages and metrics")
	fs.IntVar(&c.PostCount, "post-count", c.PostCount, "total number of messages to post")
	fs.IntVar(&c.PostConcurrency, "post-concurrency", c.PostConcurrency, "number of concurrent posting sessions")
}

// Load layers fs's parsed flags over environment variables (prefixed
// MQPOST_) over an optional YAML config file, and unmarshals the result
// back into c.
func (c *Config) Load() error {
	v := viper.New()
	v.SetEnvPrefix("mqpost")
	v.AutomaticEnv()

	if err := v.BindPFlags(c.fs); err != nil {
		return fmt.Errorf("mqpost: bind flags: %w", err)
	}

	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("mqpost: read config file: %w", err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("mqpost: unmarshal config: %w", err)
	}
	return nil
}

// Validate rejects a Config that would fail queue construction outright,
// so mqpost can report a clean error instead of a queue-construction
// panic.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("mqpost: capacity must be positive, got %d", c.Capacity)
	}
	if c.PostConcurrency <= 0 {
		return fmt.Errorf("mqpost: post-concurrency must be positive, got %d", c.PostConcurrency)
	}
	if c.PostCount < 0 {
		return fmt.Errorf("mqpost: post-count must be non-negative, got %d", c.PostCount)
	}
	if !(0 <= c.LowWatermark && c.LowWatermark < c.HighWatermark &&
		c.HighWatermark <= c.HighWatermark2 && c.HighWatermark2 <= c.Capacity) {
		return fmt.Errorf("mqpost: watermarks must satisfy 0 <= low < high <= high2 <= capacity, got (%d,%d,%d,%d)",
			c.LowWatermark, c.HighWatermark, c.HighWatermark2, c.Capacity)
	}
	return nil
}
