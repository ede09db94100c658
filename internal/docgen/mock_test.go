package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/julianshen/autodocs/internal/provider"
)

// ---------- mocks ----------

// mockLLMCompleter answers structured calls with the first response whose key
// is a substring of the user prompt, and free-text calls with readme.
type mockLLMCompleter struct {
	responses map[string]string // substring match -> JSON response
	failOn    []string          // substrings that make a structured call fail
	readme    string
	readmeErr error

	mu      sync.Mutex
	calls   []string // recorded user prompts
	systems []string
	formats []*provider.ResponseFormat
}

func (m *mockLLMCompleter) record(system, user string, format *provider.ResponseFormat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, user)
	m.systems = append(m.systems, system)
	m.formats = append(m.formats, format)
}

func (m *mockLLMCompleter) Complete(_ context.Context, system, user string) (string, error) {
	m.record(system, user, nil)
	if m.readmeErr != nil {
		return "", m.readmeErr
	}
	if m.readme == "" {
		return "# Project\n\nGenerated readme.", nil
	}
	return m.readme, nil
}

func (m *mockLLMCompleter) CompleteStructured(ctx context.Context, system, user string, format *provider.ResponseFormat, out any) error {
	m.record(system, user, format)
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range m.failOn {
		if strings.Contains(user, key) {
			return fmt.Errorf("LLM error for %s", key)
		}
	}
	for key, resp := range m.responses {
		if strings.Contains(user, key) {
			return json.Unmarshal([]byte(resp), out)
		}
	}
	return json.Unmarshal([]byte(`{"summary":"default summary","dependencies":[],"elements":[],"technical_notes":null}`), out)
}

func (m *mockLLMCompleter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
