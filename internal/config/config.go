// Package config loads the simulator configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

const (
	host   = "localhost"
	port   = 5432
	user   = "postgres"
	dbname = "TournamentSimulator"
)

type Config struct {
	Data       Data       `yaml:"data"`
	Simulation Simulation `yaml:"simulation"`
	Results    Results    `yaml:"results"`
	Database   Database   `yaml:"database"`
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
}

type Data struct {
	Groups      string `yaml:"groups"`
	Exhibitions string `yaml:"exhibitions"`
}

type Simulation struct {
	Trials  int   `yaml:"trials"`
	Seed    int64 `yaml:"seed"` // 0 picks a time based seed
	Workers int   `yaml:"workers"`
}

type Results struct {
	Log string `yaml:"log"`
}

type Database struct {
	URL string `yaml:"url"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Data:       Data{Groups: "groups.json", Exhibitions: "exhibitions.json"},
		Simulation: Simulation{Trials: 1000},
		Results:    Results{Log: "tournament_results.txt"},
		Server:     Server{Addr: ":8080"},
		Log:        Log{Level: "info", Format: "text"},
	}
}

// DefaultDatabaseURL builds the local Postgres connection string.
func DefaultDatabaseURL(password string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return c, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("loading .env: %w", err)
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	} else if c.Database.URL == "" {
		if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
			c.Database.URL = DefaultDatabaseURL(pw)
		}
	}
	if v := os.Getenv("TOURNAMENT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TOURNAMENT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Simulation.Trials < 0 {
		return fmt.Errorf("config error: 'simulation.trials' cannot be negative")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("config error: 'simulation.workers' cannot be negative")
	}
	if c.Data.Groups == "" || c.Data.Exhibitions == "" {
		return fmt.Errorf("config error: 'data.groups' and 'data.exhibitions' cannot be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config error: unknown log format %q", c.Log.Format)
	}
	return nil
}
