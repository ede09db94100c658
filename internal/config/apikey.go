package config

import (
	"github.com/cockroachdb/errors"
)

// ErrMissingAPIKey marks errors raised when no API key can be resolved.
var ErrMissingAPIKey = errors.New("missing api key")

// ResolveAPIKey resolves an API key based on the given source.
// Supported sources: "env" (envVar read through lookup) and "config" (from
// config value). A nil lookup sees an empty environment.
func ResolveAPIKey(source, configValue, envVar string, lookup LookupFunc) (string, error) {
	switch source {
	case "", "env":
		return resolveFromEnv(envVar, lookup)
	case "config":
		if configValue == "" {
			return "", errors.Mark(
				errors.New("api_key_source is 'config' but no api_key value provided"),
				ErrMissingAPIKey,
			)
		}
		return configValue, nil
	default:
		return "", errors.Newf("unknown api_key_source: %q", source)
	}
}

func resolveFromEnv(envVar string, lookup LookupFunc) (string, error) {
	if envVar == "" {
		return "", errors.New("no environment variable name specified")
	}
	var val string
	if lookup != nil {
		val, _ = lookup(envVar)
	}
	if val == "" {
		err := errors.Mark(errors.Newf("environment variable %s is not set", envVar), ErrMissingAPIKey)
		return "", errors.WithHintf(err, "export %s=<your key> or set provider.api_key in the config file", envVar)
	}
	return val, nil
}
