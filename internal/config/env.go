package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "SWCURSOR"

// envOverrides lists the keys that may be overridden from the environment.
// Empty values are treated as unset.
type envOverrides struct {
	Backend    string `envconfig:"BACKEND"`
	Strategy   string `envconfig:"STRATEGY"`
	CommitMode string `envconfig:"COMMIT_MODE"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	LogFormat  string `envconfig:"LOG_FORMAT"`
}

func envName(key string) string {
	return envPrefix + "_" + key
}

// loadEnvOverrides reads SWCURSOR_* variables into a raw layer and reports
// the source of every key it set.
func loadEnvOverrides() (RawConfig, map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(strings.ToLower(envPrefix), &env); err != nil {
		return RawConfig{}, nil, fmt.Errorf("environment: %w", err)
	}

	raw := RawConfig{}
	sources := map[string]Source{}
	set := func(path, key, value string) bool {
		if strings.TrimSpace(value) == "" {
			return false
		}
		sources[path] = Source{Kind: SourceEnv, Name: envName(key)}
		return true
	}

	if set("backend", "BACKEND", env.Backend) {
		v := Backend(strings.TrimSpace(env.Backend))
		raw.Backend = &v
	}
	if set("strategy", "STRATEGY", env.Strategy) {
		v := strings.TrimSpace(env.Strategy)
		raw.Strategy = &v
	}
	if set("commit_mode", "COMMIT_MODE", env.CommitMode) {
		v := CommitMode(strings.TrimSpace(env.CommitMode))
		raw.CommitMode = &v
	}
	if set("log_level", "LOG_LEVEL", env.LogLevel) {
		v := strings.TrimSpace(env.LogLevel)
		raw.LogLevel = &v
	}
	if set("log_format", "LOG_FORMAT", env.LogFormat) {
		v := strings.TrimSpace(env.LogFormat)
		raw.LogFormat = &v
	}
	return raw, sources, nil
}
