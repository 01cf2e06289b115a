package config

import (
	"fmt"

	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/observability"
	"github.com/kbukum/gostream/validation"
	"github.com/kbukum/gostream/version"
)

// Settings is the runtime configuration of an application built on gostream.
// Applications with more settings embed it:
//
//	type AppConfig struct {
//	    config.Settings `yaml:",inline" mapstructure:",squash"`
//	    BatchSize int   `yaml:"batch_size" mapstructure:"batch_size"`
//	}
type Settings struct {
	Name        string                     `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                     `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string                     `yaml:"version" mapstructure:"version"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// GetSettings returns the base Settings. When Settings is embedded the
// method is promoted, so the embedding struct can be passed to setup.
func (s *Settings) GetSettings() *Settings {
	return s
}

// ApplyDefaults fills unset fields. Service identity is propagated into the
// tracing and metrics blocks unless they set their own.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	fillString(&s.Version, version.Version)
	s.Logging.ApplyDefaults()

	tracing := observability.DefaultTracerConfig(s.Name)
	fillString(&s.Tracing.ServiceName, s.Name)
	fillString(&s.Tracing.ServiceVersion, s.Version)
	fillString(&s.Tracing.Environment, s.Environment)
	fillString(&s.Tracing.Endpoint, tracing.Endpoint)
	if s.Tracing.SampleRate == 0 {
		s.Tracing.SampleRate = tracing.SampleRate
	}

	metrics := observability.DefaultMeterConfig(s.Name)
	fillString(&s.Metrics.ServiceName, s.Name)
	fillString(&s.Metrics.ServiceVersion, s.Version)
	fillString(&s.Metrics.Environment, s.Environment)
	fillString(&s.Metrics.Endpoint, metrics.Endpoint)
	if s.Metrics.Interval == 0 {
		s.Metrics.Interval = metrics.Interval
	}
}

// Validate checks the struct tags, then the logging block.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

func fillString(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
