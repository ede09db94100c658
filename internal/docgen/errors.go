package docgen

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidInput marks a scan root that does not exist or is not a directory.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoFiles marks a scan that matched nothing.
	ErrNoFiles = errors.New("no valid files found")
)

// AnalysisError is returned by Analyzer.Analyze when the remote call or the
// decoding of its answer fails.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyzing %s: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// GenerationError is returned by Generator.GenerateReadme when the README
// completion fails.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating README: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
