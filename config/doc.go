// Package config provides configuration loading for streamkit services.
//
// It uses viper to layer YAML files, .env files and environment variables
// into mapstructure-tagged structs. Services embed ServiceConfig in their
// own config struct and add the sections they need (pipeline defaults,
// connector settings); Config is the full tree a typical worker loads.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.LoadConfig("worker-ingest", &cfg); err != nil {
//	    ...
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    ...
//	}
package config
