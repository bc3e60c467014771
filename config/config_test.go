package config_test

import (
	"testing"

	"github.com/corelog/flogger/config"
	"github.com/corelog/flogger/core"
)

func TestLoadFromJSONDefaultsMinimumLevel(t *testing.T) {
	cfg, err := config.LoadFromJSON([]byte(`{"Flogger":{"Backend":{"Name":"Memory"}}}`))
	if err != nil {
		t.Fatalf("LoadFromJSON() returned %v", err)
	}
	if cfg.Flogger.MinimumLevel != "Information" {
		t.Errorf("MinimumLevel = %q, want default %q", cfg.Flogger.MinimumLevel, "Information")
	}
}

func TestParseLevelAcceptsShortCodes(t *testing.T) {
	level, err := config.ParseLevel("wrn")
	if err != nil || level != core.WarningLevel {
		t.Errorf("ParseLevel(%q) = %v, %v, want WarningLevel", "wrn", level, err)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := config.ParseLevel("nonsense"); err == nil {
		t.Errorf("ParseLevel(%q) should error", "nonsense")
	}
}

func TestBuilderBuildsLoggerFromMemoryBackend(t *testing.T) {
	cfg, err := config.LoadFromJSON([]byte(`{"Flogger":{"Name":"svc","MinimumLevel":"Debug","Backend":{"Name":"Memory"}}}`))
	if err != nil {
		t.Fatalf("LoadFromJSON() returned %v", err)
	}

	logger, err := config.NewBuilder().Build(cfg)
	if err != nil {
		t.Fatalf("Build() returned %v", err)
	}
	if logger.Name() != "svc" {
		t.Errorf("Name() = %q, want %q", logger.Name(), "svc")
	}
}

func TestBuilderRejectsUnknownBackend(t *testing.T) {
	cfg, err := config.LoadFromJSON([]byte(`{"Flogger":{"Backend":{"Name":"DoesNotExist"}}}`))
	if err != nil {
		t.Fatalf("LoadFromJSON() returned %v", err)
	}
	if _, err := config.NewBuilder().Build(cfg); err == nil {
		t.Errorf("Build() with an unregistered backend name should error")
	}
}
