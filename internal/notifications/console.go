package notifications

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Console prints notifications as single lines on a terminal stream.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	styles  map[Level]*color.Color
	detail  *color.Color
}

// ConsoleOptions configures a Console notifier.
type ConsoleOptions struct {
	// NoColor disables ANSI colors regardless of the terminal.
	NoColor bool
	// Verbose appends status, module, error code and request id to each line.
	Verbose bool
}

// NewConsole creates a Console notifier writing to w.
func NewConsole(w io.Writer, opts ConsoleOptions) *Console {
	c := &Console{
		w:       w,
		verbose: opts.Verbose,
		styles: map[Level]*color.Color{
			LevelInfo:    color.New(color.FgCyan),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed, color.Bold),
		},
		detail: color.New(color.Faint),
	}
	if opts.NoColor {
		for _, s := range c.styles {
			s.DisableColor()
		}
		c.detail.DisableColor()
	}
	return c
}

// Notify writes n as one line.
func (c *Console) Notify(_ context.Context, n Notification) {
	style, ok := c.styles[n.Level]
	if !ok {
		style = c.styles[LevelError]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = style.Fprintf(c.w, "%s %s", levelMark(n.Level), n.Message)
	if c.verbose {
		if d := details(n); d != "" {
			_, _ = c.detail.Fprintf(c.w, "  [%s]", d)
		}
	}
	_, _ = fmt.Fprintln(c.w)
}

func levelMark(l Level) string {
	switch l {
	case LevelInfo:
		return "i"
	case LevelWarning:
		return "!"
	default:
		return "x"
	}
}

func details(n Notification) string {
	var parts []string
	if n.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("%d", n.StatusCode))
	}
	if n.Module != "" {
		parts = append(parts, n.Module)
	}
	if n.ErrorCode != "" {
		parts = append(parts, n.ErrorCode)
	}
	if n.RequestID != "" {
		parts = append(parts, "request "+n.RequestID)
	}
	return strings.Join(parts, " ")
}

// Log writes notifications to a zerolog logger.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a notifier that logs through logger.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "notifications").Logger()}
}

// Notify logs n at a level matching its severity.
func (l *Log) Notify(_ context.Context, n Notification) {
	var ev *zerolog.Event
	switch n.Level {
	case LevelInfo:
		ev = l.logger.Info()
	case LevelWarning:
		ev = l.logger.Warn()
	default:
		ev = l.logger.Error()
	}
	ev.Int("status_code", n.StatusCode).
		Str("module", n.Module).
		Str("error_type", n.ErrorType).
		Str("error_code", n.ErrorCode).
		Str("request_id", n.RequestID).
		Str("method", n.Method).
		Str("url", n.URL).
		Msg(n.Message)
}
