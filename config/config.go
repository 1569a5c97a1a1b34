// Package config loads the settings of a driver run from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SWMMDRIVER_"

// Sentinel errors returned by Validate.
var (
	ErrMissingPath = errors.New("config: input, report and output paths are required")
	ErrInvalidPort = errors.New("config: monitor port must be between 1024 and 65535")
)

// Config holds the settings of a run.
type Config struct {
	InputPath  string
	ReportPath string
	OutputPath string

	SaveResults bool

	// RecordPath is the SQLite recording file. Empty disables recording.
	RecordPath  string
	RecordSteps bool

	Monitor     bool
	MonitorPort int
	OpenBrowser bool

	LogLevel string
	LogDev   bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		SaveResults: true,
		LogLevel:    "warn",
	}
}

// Load reads the given .env files, ignoring those that do not exist, and
// then the process environment. Process variables win over file entries.
func Load(envFiles ...string) (Config, error) {
	values := make(map[string]string)

	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		fileValues, err := godotenv.Read(f)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}

		for k, v := range fileValues {
			values[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}

		v, ok := values[EnvPrefix+key]

		return v, ok
	}

	return fromLookup(lookup)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()

	strs := map[string]*string{
		"INPUT":       &c.InputPath,
		"REPORT":      &c.ReportPath,
		"OUTPUT":      &c.OutputPath,
		"RECORD_PATH": &c.RecordPath,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"SAVE_RESULTS": &c.SaveResults,
		"RECORD_STEPS": &c.RecordSteps,
		"MONITOR":      &c.Monitor,
		"OPEN_BROWSER": &c.OpenBrowser,
		"LOG_DEV":      &c.LogDev,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
		}

		*dst = b
	}

	if v, ok := lookup("MONITOR_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %sMONITOR_PORT: %w", EnvPrefix, err)
		}

		c.MonitorPort = port
	}

	return c, nil
}

// Validate checks that the configuration describes a runnable simulation.
func (c Config) Validate() error {
	if c.InputPath == "" || c.ReportPath == "" || c.OutputPath == "" {
		return ErrMissingPath
	}

	if c.MonitorPort != 0 && (c.MonitorPort < 1024 || c.MonitorPort > 65535) {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.MonitorPort)
	}

	return nil
}
