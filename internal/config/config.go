// Package config builds the immutable runtime configuration of the server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DebugFlag is the only recognised command-line argument.
	DebugFlag = "--debug"

	// DefaultHost is the interface listeners bind to and the host shown in URLs.
	DefaultHost = "localhost"
	// DefaultBasePort is the port of the first discovered root.
	DefaultBasePort = 8080
	// DefaultLogFile is the debug log, relative to the working directory.
	DefaultLogFile = "server_log.txt"

	tomlFile = "localserve.toml"
	yamlFile = "localserve.yaml"
	envFile  = ".env"
)

var (
	// ErrInvalidPort is returned for a base port that is not a number in 1..65535.
	ErrInvalidPort = errors.New("invalid base port")
	// ErrEmptyHost is returned when a file or environment override clears the host.
	ErrEmptyHost = errors.New("empty host")
)

// Config is created once at startup and handed to every component by value.
type Config struct {
	// Debug enables request, error and listener logging.
	Debug bool
	// WorkDir is the directory scanned for document roots.
	WorkDir string
	// Host is the interface every listener binds to.
	Host string
	// BasePort is the port of the first discovered root; later roots count up from it.
	BasePort int
	// LogFile is the append-only log written in debug mode.
	LogFile string
	// OpenBrowser launches the default browser for every listener.
	OpenBrowser bool
	// Executable is the running binary, hidden from directory listings.
	Executable string
}

// fileConfig mirrors the optional localserve.toml / localserve.yaml file.
type fileConfig struct {
	Host        *string `toml:"host" yaml:"host"`
	BasePort    *int    `toml:"base_port" yaml:"base_port"`
	OpenBrowser *bool   `toml:"open_browser" yaml:"open_browser"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default(workDir string) Config {
	return Config{
		WorkDir:     workDir,
		Host:        DefaultHost,
		BasePort:    DefaultBasePort,
		LogFile:     filepath.Join(workDir, DefaultLogFile),
		OpenBrowser: true,
	}
}

// ParseArgs reports whether debug mode was requested.
// Only the first argument is inspected; anything else is ignored.
func ParseArgs(args []string) bool {
	return len(args) > 0 && args[0] == DebugFlag
}

// Load assembles the configuration for workDir.
//
// Precedence, lowest first: defaults, localserve.toml or localserve.yaml,
// LOCALSERVE_* variables from .env or the environment, and finally the
// --debug argument.
func Load(workDir string, args []string) (Config, error) {
	cfg := Default(workDir)

	if err := cfg.applyFile(); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Debug = ParseArgs(args)

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		cfg.Executable = exe
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the listener settings.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.BasePort < 1 || c.BasePort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.BasePort)
	}
	return nil
}

func (c *Config) applyFile() error {
	var fc fileConfig

	tomlPath := filepath.Join(c.WorkDir, tomlFile)
	yamlPath := filepath.Join(c.WorkDir, yamlFile)
	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, &fc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", tomlFile, err)
		}
	case fileExists(yamlPath):
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", yamlFile, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", yamlFile, err)
		}
	default:
		return nil
	}

	if fc.Host != nil {
		c.Host = *fc.Host
	}
	if fc.BasePort != nil {
		c.BasePort = *fc.BasePort
	}
	if fc.OpenBrowser != nil {
		c.OpenBrowser = *fc.OpenBrowser
	}
	return nil
}

func (c *Config) applyEnv() error {
	env := map[string]string{}
	envPath := filepath.Join(c.WorkDir, envFile)
	if fileExists(envPath) {
		read, err := godotenv.Read(envPath)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", envFile, err)
		}
		env = read
	}
	// Real environment variables win over .env entries.
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	if v, ok := lookup("LOCALSERVE_HOST"); ok {
		c.Host = v
	}
	if v, ok := lookup("LOCALSERVE_BASE_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidPort, v)
		}
		c.BasePort = port
	}
	if v, ok := lookup("LOCALSERVE_OPEN_BROWSER"); ok {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOCALSERVE_OPEN_BROWSER %q: %w", v, err)
		}
		c.OpenBrowser = open
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
