// Package console renders assistant status and conversation lines on a
// terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the console color scheme.
type Theme struct {
	Primary lipgloss.Color
	User    lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is bright green on the default background.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	User:    lipgloss.Color("#58a6ff"),
	Dim:     lipgloss.Color("#6e7681"),
}

type styles struct {
	status    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	time      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		status:    lipgloss.NewStyle().Italic(true).Foreground(t.Dim),
		user:      lipgloss.NewStyle().Bold(true).Foreground(t.User),
		assistant: lipgloss.NewStyle().Foreground(t.Primary),
		time:      lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Sink writes styled lines to W. It is safe for concurrent use.
type Sink struct {
	w      io.Writer
	user   string
	styles styles
	now    func() time.Time

	mu     sync.Mutex
	status string
}

// New returns a Sink writing to w. Lines starting with "<user> :" are
// styled as user lines.
func New(w io.Writer, user string, theme Theme) *Sink {
	return &Sink{w: w, user: user, styles: newStyles(theme), now: time.Now}
}

// SetStatus prints the status when it changes.
func (s *Sink) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == s.status {
		return
	}
	s.status = status
	fmt.Fprintf(s.w, "%s %s\n", s.stamp(), s.styles.status.Render("["+status+"]"))
}

// ShowText prints a conversation line.
func (s *Sink) ShowText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	style := s.styles.assistant
	if s.user != "" && strings.HasPrefix(text, s.user+" :") {
		style = s.styles.user
	}
	fmt.Fprintf(s.w, "%s %s\n", s.stamp(), style.Render(text))
}

// Status returns the last status shown.
func (s *Sink) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Sink) stamp() string {
	return s.styles.time.Render(s.now().Format("15:04:05"))
}
