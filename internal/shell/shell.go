// Package shell prints cargo-style status lines to the terminal.
//
// Statuses are right-aligned in a 12 column gutter so they line up with the
// output of the cargo commands spawned around them.
package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Verbosity controls which messages reach the output.
type Verbosity int

const (
	Normal Verbosity = iota
	// Quiet suppresses everything but errors.
	Quiet
)

// ColorChoice mirrors cargo's --color flag.
type ColorChoice string

const (
	ColorAuto   ColorChoice = "auto"
	ColorAlways ColorChoice = "always"
	ColorNever  ColorChoice = "never"
)

const gutter = 12

// Shell writes status messages. It is safe for concurrent use.
type Shell struct {
	mu        sync.Mutex
	w         io.Writer
	renderer  *lipgloss.Renderer
	verbosity Verbosity

	header lipgloss.Style
	err    lipgloss.Style
}

// New returns a Shell writing to w. Colours are enabled when w is a
// terminal that supports them.
func New(w io.Writer) *Shell {
	s := &Shell{w: w, renderer: lipgloss.NewRenderer(w)}
	s.restyle()
	return s
}

// Stderr returns a Shell writing to the process standard error.
func Stderr() *Shell {
	return New(os.Stderr)
}

func (s *Shell) restyle() {
	s.header = s.renderer.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(termenv.ANSIGreen))
	s.err = s.renderer.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(termenv.ANSIRed))
}

// SetVerbosity changes which messages are printed.
func (s *Shell) SetVerbosity(v Verbosity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verbosity = v
}

// Verbosity returns the current verbosity.
func (s *Shell) Verbosity() Verbosity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verbosity
}

// SetColor overrides colour detection.
func (s *Shell) SetColor(choice ColorChoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch choice {
	case ColorAlways:
		s.renderer.SetColorProfile(termenv.ANSI)
	case ColorNever:
		s.renderer.SetColorProfile(termenv.Ascii)
	case ColorAuto, "":
		s.renderer = lipgloss.NewRenderer(s.w)
	default:
		return fmt.Errorf("argument for --color must be auto, always, or never, but found `%s`", choice)
	}
	s.restyle()
	return nil
}

// Status prints a right-aligned green status followed by message.
func (s *Shell) Status(status, message string) {
	s.print(status, message, s.header, true, false)
}

// Error prints an error. Errors are printed regardless of verbosity.
func (s *Shell) Error(message string) {
	s.print("error", message, s.err, false, true)
}

// Causes prints the chain of causes of the error printed last, one indented
// "Caused by:" block per cause. Like Error, it ignores verbosity.
func (s *Shell) Causes(causes []string) {
	if len(causes) == 0 {
		return
	}
	var b strings.Builder
	for _, c := range causes {
		b.WriteString("\n  Caused by:\n")
		for _, line := range strings.Split(c, "\n") {
			if line != "" {
				b.WriteString("    ")
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, b.String())
}

func (s *Shell) print(status, message string, style lipgloss.Style, justified, always bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verbosity == Quiet && !always {
		return
	}

	var line strings.Builder
	if justified {
		if pad := gutter - len(status); pad > 0 {
			line.WriteString(strings.Repeat(" ", pad))
		}
		line.WriteString(style.Render(status))
	} else {
		line.WriteString(style.Render(status))
		line.WriteString(s.renderer.NewStyle().Bold(true).Render(":"))
	}
	if message != "" {
		line.WriteByte(' ')
		line.WriteString(message)
	}
	line.WriteByte('\n')
	_, _ = io.WriteString(s.w, line.String())
}
