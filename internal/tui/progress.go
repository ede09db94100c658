package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var progressLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

// ProgressReporter prints analysis progress. On a terminal it redraws one
// bar in place; otherwise it prints a line per file.
type ProgressReporter struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	bar   progress.Model
	drawn bool
}

// NewProgressReporter creates a reporter writing to w.
func NewProgressReporter(w io.Writer, tty bool) *ProgressReporter {
	return &ProgressReporter{
		w:   w,
		tty: tty,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Update records that done of total files are finished, the latest being
// path. Its signature matches docgen.ProgressFunc.
func (p *ProgressReporter) Update(done, total int, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.tty {
		fmt.Fprintf(p.w, "[%d/%d] %s\n", done, total, path)
		return
	}

	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	fmt.Fprintf(p.w, "\r\x1b[2K%s %s", p.bar.ViewAs(percent),
		progressLabelStyle.Render(fmt.Sprintf("%d/%d %s", done, total, path)))
	p.drawn = true
}

// Finish ends the in-place bar with a newline.
func (p *ProgressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty && p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}
