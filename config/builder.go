package config

import (
	"fmt"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/backend/console"
	"github.com/corelog/flogger/backend/kafka"
	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

// BackendFactory builds a core.Backend from a configuration's Name and
// Args, grounded on the teacher's SinkFactory (configuration/builder.go).
type BackendFactory func(name string, args map[string]any) (core.Backend, error)

// Builder builds a *flogger.Logger from a Configuration, resolving its
// backend by name through a registry of BackendFactory values.
type Builder struct {
	factories map[string]BackendFactory
}

// NewBuilder returns a Builder pre-registered with the in-repo
// backends (Memory, Console, Kafka). Callers add their own with
// RegisterBackend before calling Build.
func NewBuilder() *Builder {
	b := &Builder{factories: make(map[string]BackendFactory)}

	b.RegisterBackend("Memory", func(name string, args map[string]any) (core.Backend, error) {
		return memory.New(name), nil
	})
	b.RegisterBackend("Console", func(name string, args map[string]any) (core.Backend, error) {
		return console.New(name), nil
	})
	b.RegisterBackend("Kafka", func(name string, args map[string]any) (core.Backend, error) {
		brokers := GetStringSlice(args, "brokers")
		topic := GetString(args, "topic", "")
		return kafka.New(name, kafka.Config{Brokers: brokers, Topic: topic})
	})

	return b
}

// RegisterBackend adds or replaces the factory used for a given
// configuration backend Name.
func (b *Builder) RegisterBackend(name string, factory BackendFactory) {
	b.factories[name] = factory
}

// Build resolves cfg's backend and minimum level and constructs a
// Logger from them.
func (b *Builder) Build(cfg *Configuration) (*flogger.Logger, error) {
	level, err := ParseLevel(cfg.Flogger.MinimumLevel)
	if err != nil {
		return nil, err
	}

	factory, ok := b.factories[cfg.Flogger.Backend.Name]
	if !ok {
		return nil, fmt.Errorf("config: no backend factory registered for %q", cfg.Flogger.Backend.Name)
	}
	backend, err := factory(cfg.Flogger.Backend.Name, cfg.Flogger.Backend.Args)
	if err != nil {
		return nil, fmt.Errorf("config: building backend %q: %w", cfg.Flogger.Backend.Name, err)
	}

	return flogger.Build(
		flogger.WithName(cfg.Flogger.Name),
		flogger.WithMinimumLevel(level),
		flogger.WithBackend(backend),
	)
}
