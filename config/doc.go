// Package config loads gostream settings with Viper.
//
// Values come from a config.yml file, then a .env file, then the process
// environment, each overriding the one before. Environment keys are the
// upper-cased configuration paths with dots replaced by underscores:
//
//	LOGGING_LEVEL=debug
//	TRACING_ENABLED=true
//
// # Usage
//
//	var cfg config.Settings
//	if err := config.Load("etl", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
