package provider

import (
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/julianshen/autodocs/internal/config"
)

// Options carries the resolved settings handed to a provider constructor.
type Options struct {
	BaseURL           string
	APIKey            string
	ExtraHeaders      map[string]string
	RequestsPerMinute int
	Logger            *zap.Logger
}

// ProviderConstructor is a function that creates a new LLMProvider.
type ProviderConstructor func(opts Options) LLMProvider

type registration struct {
	constructor ProviderConstructor
	keyOptional bool
}

// registry holds registered provider constructors.
var registry = map[string]registration{}

// RegisterProvider registers a provider constructor by name.
func RegisterProvider(name string, constructor ProviderConstructor) {
	registry[name] = registration{constructor: constructor}
}

// RegisterKeylessProvider registers a provider that runs without an API key,
// such as a local model server.
func RegisterKeylessProvider(name string, constructor ProviderConstructor) {
	registry[name] = registration{constructor: constructor, keyOptional: true}
}

// Registered lists the registered provider names in sorted order.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider creates an LLMProvider based on the given configuration.
// Names without their own registration are treated as OpenAI-compatible
// gateways and served by the "openai" constructor. An "env" API key is read
// through lookup.
func NewProvider(cfg *config.Config, lookup config.LookupFunc, logger *zap.Logger) (LLMProvider, error) {
	pc := cfg.Provider
	name := pc.Name
	if name == "" {
		name = "openai"
	}

	reg, ok := registry[name]
	if !ok {
		reg, ok = registry["openai"]
		if !ok {
			return nil, errors.Newf("unknown provider: %q", name)
		}
	}

	apiKey, err := config.ResolveAPIKey(pc.APIKeySource, pc.APIKey, pc.APIKeyEnv, lookup)
	if err != nil {
		if !reg.keyOptional || !errors.Is(err, config.ErrMissingAPIKey) {
			return nil, errors.Wrapf(err, "resolving %s API key", name)
		}
		apiKey = ""
	}

	return reg.constructor(Options{
		BaseURL:           pc.BaseURL,
		APIKey:            apiKey,
		ExtraHeaders:      pc.ExtraHeaders,
		RequestsPerMinute: pc.RequestsPerMinute,
		Logger:            logger,
	}), nil
}
