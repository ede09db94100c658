// internal/output/markdown_test.go
package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/autodocs/internal/integrations"
)

func TestMarkdownFormatterBasic(t *testing.T) {
	f := NewMarkdownFormatter()
	result := &RunResult{
		Project:    "my-api",
		Root:       "/src/my-api",
		Model:      "gpt-4o-mini",
		FileCount:  1,
		Written:    []string{"output/my-api/README.md", "output/my-api/TECHNICAL_REFERENCE.md"},
		DurationMs: 2000,
		Usage:      integrations.Usage{Requests: 1, InputTokens: 10, OutputTokens: 4},
	}

	out, err := f.Format(result)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "## my-api")
	assert.Contains(t, s, "1 file (0 failed)")
	assert.Contains(t, s, "- `output/my-api/TECHNICAL_REFERENCE.md`")
	assert.Contains(t, s, "2s, 1 request")
	assert.NotContains(t, s, "Failed Analyses")
}

func TestMarkdownFormatterWithFailures(t *testing.T) {
	f := NewMarkdownFormatter()
	result := &RunResult{
		Project:      "p",
		FileCount:    3,
		FailedFiles:  []FailedFile{{Path: "x.py", Error: "timeout"}},
		ReadmeFailed: true,
	}

	out, err := f.Format(result)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "3 files (1 failed)")
	assert.Contains(t, s, "### Failed Analyses")
	assert.Contains(t, s, "1. **x.py**: timeout")
	assert.Contains(t, s, "README:** generation failed")
}

func TestMarkdownFormatterError(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&RunResult{Error: "no valid files found"})
	require.NoError(t, err)
	assert.Equal(t, "## Error\n\nno valid files found\n", string(out))
}
