package config

// Environment variables recognized by ApplyEnv.
const (
	EnvAPIKey  = "FUELIX_API_KEY"
	EnvBaseURL = "FUELIX_API_BASE_URL"
	EnvModel   = "MODEL_NAME"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays process environment values onto cfg. The lookup is
// injected so callers and tests control where values come from.
//
// The API key itself stays in the environment; only its variable name is
// recorded so ResolveAPIKey can read it when the provider is built.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.Provider.BaseURL = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		cfg.Provider.Model = v
	}
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = EnvAPIKey
	}
}
