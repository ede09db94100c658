package docgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/autodocs/internal/config"
)

func pipelineOptions(t *testing.T, root string) Options {
	t.Helper()
	opts := OptionsFromConfig(root, config.DefaultConfig())
	opts.Output.Dir = filepath.Join(t.TempDir(), "output")
	return opts
}

func TestRunFullPipeline(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my-api")
	writeFile(t, filepath.Join(root, "app.py"), "import flask\n")
	writeFile(t, filepath.Join(root, "x.py"), "def slow(): pass\n")
	writeFile(t, filepath.Join(root, "node_modules", "lib.js"), "module.exports = {}")

	llm := &mockLLMCompleter{
		responses: map[string]string{
			"'app.py'": `{"summary":"Flask app.","dependencies":["flask"],"elements":[],"technical_notes":null}`,
		},
		failOn: []string{"'x.py'"},
		readme: "# My API\n",
	}

	var progress []string
	opts := pipelineOptions(t, root)
	opts.Progress = func(_, _ int, path string) { progress = append(progress, path) }

	report, err := Run(context.Background(), opts, llm)
	require.NoError(t, err)

	assert.Equal(t, "my-api", report.Project)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, filepath.Join(opts.Output.Dir, "my-api"), report.OutputDir)
	assert.Len(t, report.Files, 2)
	assert.Equal(t, 1, report.FailedCount())
	assert.False(t, report.ReadmeFailed)
	assert.Equal(t, []string{"app.py", "x.py"}, progress)

	readme := readTestFile(t, filepath.Join(report.OutputDir, "README.md"))
	assert.Equal(t, "# My API\n", readme)

	reference := readTestFile(t, filepath.Join(report.OutputDir, "TECHNICAL_REFERENCE.md"))
	assert.Contains(t, reference, "# Technical Reference Manual\n\n## Module: `app.py`")
	assert.Contains(t, reference, "**Dependencies:** `flask`")
	assert.Contains(t, reference, "## Module: `x.py`\n\n**Summary:** Analysis Failed")
	assert.NotContains(t, reference, "lib.js")
}

func TestRunReadmeFailureStillWritesBoth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "a")

	llm := &mockLLMCompleter{readmeErr: errors.New("gateway timeout")}
	opts := pipelineOptions(t, root)
	opts.Output.PerProject = false

	report, err := Run(context.Background(), opts, llm)
	require.NoError(t, err)

	assert.True(t, report.ReadmeFailed)
	assert.Equal(t, opts.Output.Dir, report.OutputDir)
	readme := readTestFile(t, filepath.Join(report.OutputDir, "README.md"))
	assert.Contains(t, readme, "# Error Generating README")
	assert.Contains(t, readme, "gateway timeout")
	assert.FileExists(t, filepath.Join(report.OutputDir, "TECHNICAL_REFERENCE.md"))
}

func TestRunNoFilesWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "image.png"), "png")

	llm := &mockLLMCompleter{}
	opts := pipelineOptions(t, root)

	_, err := Run(context.Background(), opts, llm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFiles))
	assert.Equal(t, 0, llm.callCount())

	_, statErr := os.Stat(opts.Output.Dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInvalidRoot(t *testing.T) {
	llm := &mockLLMCompleter{}
	_, err := Run(context.Background(), pipelineOptions(t, "/nonexistent/project"), llm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, llm.callCount())
}

func TestRunCustomNamesAndFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# a")

	opts := pipelineOptions(t, root)
	opts.Project = "docs-site"
	opts.Output.ReadmeName = "index.md"
	opts.Output.ReferenceName = "reference.md"
	opts.Output.Format = FormatHugo

	report, err := Run(context.Background(), opts, &mockLLMCompleter{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(report.OutputDir, "content", "index.md"))
	assert.FileExists(t, filepath.Join(report.OutputDir, "content", "reference.md"))
	assert.FileExists(t, filepath.Join(report.OutputDir, "config.toml"))
	assert.Len(t, report.Written, 3)
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "My-API-Service", ProjectName("/home/dev/My-API-Service/"))
	assert.Equal(t, "svc", ProjectName(filepath.Join("..", "svc")))
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("output", "proj"), OutputDir(config.OutputConfig{PerProject: true}, "proj"))
	assert.Equal(t, "out", OutputDir(config.OutputConfig{Dir: "out"}, "proj"))
}
