// Package validation checks streamkit config structs against their
// struct tags.
//
//	type SinkConfig struct {
//	    Topic     string `mapstructure:"topic" validate:"required"`
//	    BatchSize int    `mapstructure:"batch_size" validate:"min=1"`
//	    Linger    string `mapstructure:"linger" validate:"duration"`
//	}
//	err := validation.Validate(cfg)
//
// The custom "duration" rule accepts time.ParseDuration strings so
// connector configs can keep durations readable in YAML and env vars.
// Failures are reported under the field's mapstructure (or json) name.
package validation
