package bootstrap

import "github.com/kbukum/streamkit/config"

// Config constrains the app's config type parameter. Embedding
// config.ServiceConfig by value satisfies it through promoted methods;
// embedding structs that need extra defaults or checks override
// ApplyDefaults/Validate and call the embedded versions first.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
