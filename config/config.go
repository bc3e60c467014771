// Package config implements a JSON-driven bootstrap for flogger
// Loggers, grounded on the teacher's configuration package
// (configuration/config.go, configuration/builder.go): a
// Configuration struct unmarshaled from JSON, parsed into
// core.Level/backend values via a registry of named factories.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/corelog/flogger/core"
)

// BackendConfiguration names a backend and the arguments its factory
// needs, mirroring the teacher's SinkConfiguration.
type BackendConfiguration struct {
	Name string         `json:"Name"`
	Args map[string]any `json:"Args,omitempty"`
}

// LoggerConfiguration is the JSON shape of a single Logger's setup.
type LoggerConfiguration struct {
	Name         string               `json:"Name,omitempty"`
	MinimumLevel string               `json:"MinimumLevel,omitempty"`
	Backend      BackendConfiguration `json:"Backend"`
}

// Configuration is the root configuration document.
type Configuration struct {
	Flogger LoggerConfiguration `json:"Flogger"`
}

// LoadFromFile reads and parses a JSON configuration file.
func LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON parses JSON configuration data, defaulting
// MinimumLevel to "Information" when absent.
func LoadFromJSON(data []byte) (*Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse JSON: %w", err)
	}
	if cfg.Flogger.MinimumLevel == "" {
		cfg.Flogger.MinimumLevel = "Information"
	}
	return &cfg, nil
}

// ParseLevel parses a level name (matching core.Level.String's output,
// case-insensitively, plus the teacher's short codes) into a
// core.Level.
func ParseLevel(levelStr string) (core.Level, error) {
	switch strings.ToLower(levelStr) {
	case "verbose", "vrb":
		return core.VerboseLevel, nil
	case "debug", "dbg":
		return core.DebugLevel, nil
	case "information", "info", "inf":
		return core.InformationLevel, nil
	case "warning", "warn", "wrn":
		return core.WarningLevel, nil
	case "error", "err":
		return core.ErrorLevel, nil
	case "fatal", "ftl":
		return core.FatalLevel, nil
	default:
		return core.InformationLevel, fmt.Errorf("config: unknown log level %q", levelStr)
	}
}

// GetString reads a string argument, returning def if absent or of
// the wrong type.
func GetString(args map[string]any, key, def string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetStringSlice reads a []string argument from a JSON-decoded
// []any, returning nil if absent or malformed.
func GetStringSlice(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
