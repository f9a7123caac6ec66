package influence

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages algorithm configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Simulation parameters
	v.SetDefault("simulation.max_steps", 99999)
	v.SetDefault("simulation.prob_attr", "prob")
	v.SetDefault("simulation.default_prob", 0.1)

	// Estimator parameters
	v.SetDefault("estimator.trials", 100)
	v.SetDefault("estimator.parallel", true)
	v.SetDefault("estimator.num_workers", runtime.NumCPU())

	// Algorithm parameters
	v.SetDefault("algorithm.random_seed", int64(-1)) // -1 = time-based seed

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", true)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for simulation parameters
func (c *Config) MaxSteps() int        { return c.v.GetInt("simulation.max_steps") }
func (c *Config) ProbAttr() string     { return c.v.GetString("simulation.prob_attr") }
func (c *Config) DefaultProb() float64 { return c.v.GetFloat64("simulation.default_prob") }

func (c *Config) Trials() int     { return c.v.GetInt("estimator.trials") }
func (c *Config) Parallel() bool  { return c.v.GetBool("estimator.parallel") }
func (c *Config) NumWorkers() int { return c.v.GetInt("estimator.num_workers") }

func (c *Config) RandomSeed() int64 { return c.v.GetInt64("algorithm.random_seed") }

func (c *Config) LogLevel() string     { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// seedOrNow resolves the configured random seed, falling back to the clock
func (c *Config) seedOrNow() int64 {
	seed := c.RandomSeed()
	if seed <= 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "influence").Logger()
}
