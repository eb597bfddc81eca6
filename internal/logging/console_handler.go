package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/isseis/go-path-filename/internal/color"
)

// ErrConsoleHandlerWriterRequired is returned when no writer is configured.
var ErrConsoleHandlerWriterRequired = errors.New("ConsoleHandler: Writer is required")

// ConsoleHandler writes one compact line per record:
//
//	ERROR decode failed input=🐧🏠x kind=malformed_escape
//
// It is meant for a person watching a terminal; use the JSON handler for
// anything that will be parsed.
type ConsoleHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	level    slog.Leveler
	useColor bool
	attrs    []slog.Attr
	groups   []string
}

// ConsoleHandlerOptions configures a ConsoleHandler.
type ConsoleHandlerOptions struct {
	Writer io.Writer
	Level  slog.Leveler
	Color  bool
}

// NewConsoleHandler creates a ConsoleHandler.
func NewConsoleHandler(opts ConsoleHandlerOptions) (*ConsoleHandler, error) {
	if opts.Writer == nil {
		return nil, ErrConsoleHandlerWriterRequired
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{
		mu:       &sync.Mutex{},
		writer:   opts.Writer,
		level:    level,
		useColor: opts.Color,
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	// h.attrs already carry the group prefix they were added under
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	prefix := groupPrefix(h.groups)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *ConsoleHandler) levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if !h.useColor {
		return label
	}
	return color.ForLevel(level)(label)
}

func groupPrefix(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return strings.Join(groups, ".") + "."
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, nested, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	value := a.Value.String()
	if strings.ContainsAny(value, " \t\n\"=") || value == "" {
		value = fmt.Sprintf("%q", value)
	}
	b.WriteString(value)
}

// WithAttrs returns a new handler with additional attributes.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	prefixed := make([]slog.Attr, len(attrs))
	prefix := groupPrefix(h.groups)
	for i, a := range attrs {
		prefixed[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	newHandler := *h
	newHandler.attrs = append(append([]slog.Attr(nil), h.attrs...), prefixed...)
	return &newHandler
}

// WithGroup returns a new handler with an additional group.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.groups = append(append([]string(nil), h.groups...), name)
	return &newHandler
}
