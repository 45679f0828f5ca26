package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/util"
)

// FileSystem abstracts file probing so the loader can be tested without
// touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig holds loader dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem substitutes the filesystem used for probing.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile pins the config file path, skipping the search.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile pins the .env file path, skipping the search.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ResolvedFiles are the config and env file paths the loader settled on.
// Empty strings mean nothing was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver locates config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles honors explicit paths from opts and searches the standard
// locations for anything left unset.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = cr.firstExisting(configSearchPaths(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = cr.firstExisting(envSearchPaths(serviceName))
	}
	return files
}

func (cr *Resolver) firstExisting(paths []string) string {
	for _, p := range paths {
		if cr.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// depthPrefixes covers running from the repo root, from cmd/<svc>, and
// from a package directory two levels down.
var depthPrefixes = []string{".", "..", "../.."}

// serviceNames returns the candidate directory names for a service:
// the full name plus the part after the last dash, so worker-ingest
// also matches cmd/ingest.
func serviceNames(serviceName string) []string {
	short := serviceName
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 {
		short = serviceName[idx+1:]
	}
	return util.Unique([]string{serviceName, short})
}

// configSearchPaths lists candidate config.yml locations, nearest first.
func configSearchPaths(serviceName string) []string {
	var paths []string
	for _, prefix := range depthPrefixes {
		for _, name := range serviceNames(serviceName) {
			paths = append(paths, fmt.Sprintf("%s/cmd/%s/config.yml", prefix, name))
		}
	}
	return append(paths,
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	)
}

// envSearchPaths lists candidate .env locations. A service-specific
// .env.<name> beats a plain .env at every level.
func envSearchPaths(serviceName string) []string {
	var dirs []string
	for _, prefix := range depthPrefixes {
		for _, name := range serviceNames(serviceName) {
			dirs = append(dirs, prefix+"/cmd/"+name, prefix+"/config/"+name)
		}
		dirs = append(dirs, prefix+"/config", prefix)
	}
	dirs = util.Unique(dirs)

	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

// LoadConfig fills cfg for a service. It layers, in order: a config.yml
// found in the standard locations, the process environment, and a .env
// file. A missing file is not an error; env vars alone can configure a
// service.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = osFS{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	return load(serviceName, cfg, resolver.ResolveFiles(serviceName, lc), lc.FileSystem)
}

func load(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("Config file unreadable, continuing without it",
				logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	// .env goes last so it can introduce variables the environment lacks.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("Env file unreadable, continuing without it",
				logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		} else {
			bindEnvVars(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnvVars sets every environment variable under each nested key
// variant viper might be asked for.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps UPPER_CASE_WITH_UNDERSCORES onto the nested key
// forms a config tree may use:
//
//	KAFKA_SASL_PASSWORD -> [kafka_sasl_password, kafka.sasl.password,
//	                        kafka.sasl_password]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	// Flat, fully dotted, and every dotted-prefix/underscored-suffix split.
	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts)-1; i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return util.Unique(variants)
}
