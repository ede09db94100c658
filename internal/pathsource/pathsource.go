// Package pathsource supplies the project directory to document, from a
// command-line argument or an interactive prompt.
package pathsource

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/julianshen/autodocs/internal/docgen"
)

// Source yields a directory path. An empty path with a nil error means the
// source had nothing to offer.
type Source interface {
	Path(ctx context.Context) (string, error)
}

// Static is a fixed path, typically a command-line argument.
type Static string

// Path returns the trimmed path.
func (s Static) Path(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Prompt asks for the path on the terminal. It offers nothing when stdin is
// not a terminal.
type Prompt struct {
	Title string

	// Interactive reports whether prompting is possible. Defaults to a TTY
	// check on stdin.
	Interactive func() bool
	// Ask runs the prompt. Defaults to a huh input form.
	Ask func(ctx context.Context, title string) (string, error)
}

// Path prompts for a directory.
func (p *Prompt) Path(ctx context.Context) (string, error) {
	interactive := p.Interactive
	if interactive == nil {
		interactive = StdinIsTerminal
	}
	if !interactive() {
		return "", nil
	}

	title := p.Title
	if title == "" {
		title = "Project folder to document"
	}
	ask := p.Ask
	if ask == nil {
		ask = askWithForm
	}

	path, err := ask(ctx, title)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", errors.Wrap(err, "prompting for project path")
	}
	return strings.TrimSpace(path), nil
}

// Chain tries each source in order and returns the first non-empty path.
// When none yields one the error is marked docgen.ErrInvalidInput.
type Chain []Source

// Path walks the chain.
func (c Chain) Path(ctx context.Context) (string, error) {
	for _, src := range c {
		path, err := src.Path(ctx)
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}
	}
	return "", errors.WithHint(
		errors.Mark(errors.New("no project path given"), docgen.ErrInvalidInput),
		"pass the folder as an argument: autodocs ../my-project",
	)
}

// ValidateDir accepts existing directories only.
func ValidateDir(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Newf("%s does not exist", path)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", path)
	}
	return nil
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func askWithForm(ctx context.Context, title string) (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("../my-project").
				Value(&path).
				Validate(ValidateDir),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return path, nil
}
