package logging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/isseis/go-path-filename/internal/terminal"
)

// Static errors for ConditionalHandler validation
var (
	ErrConditionalHandlerCapabilitiesRequired = errors.New("ConditionalHandler: Capabilities is required")
	ErrConditionalHandlerHandlerRequired      = errors.New("ConditionalHandler: Handler is required")
)

// Mode selects the environment in which a ConditionalHandler is active.
type Mode int

const (
	// WhenNonInteractive passes records through only for pipes, files and CI.
	WhenNonInteractive Mode = iota
	// WhenInteractive passes records through only for a terminal.
	WhenInteractive
)

// ConditionalHandler wraps another handler and forwards records only when
// the terminal's interactivity matches its Mode. This keeps the human
// oriented console output and the plain text output from both firing.
type ConditionalHandler struct {
	capabilities terminal.Capabilities
	mode         Mode
	handler      slog.Handler
}

// NewConditionalHandler creates a ConditionalHandler around handler.
func NewConditionalHandler(capabilities terminal.Capabilities, mode Mode, handler slog.Handler) (*ConditionalHandler, error) {
	if capabilities == nil {
		return nil, ErrConditionalHandlerCapabilitiesRequired
	}
	if handler == nil {
		return nil, ErrConditionalHandlerHandlerRequired
	}
	return &ConditionalHandler{
		capabilities: capabilities,
		mode:         mode,
		handler:      handler,
	}, nil
}

func (h *ConditionalHandler) active() bool {
	return h.capabilities.IsInteractive() == (h.mode == WhenInteractive)
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConditionalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.active() && h.handler.Enabled(ctx, level)
}

// Handle forwards the record to the wrapped handler when active.
func (h *ConditionalHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.active() {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with additional attributes.
func (h *ConditionalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConditionalHandler{
		capabilities: h.capabilities,
		mode:         h.mode,
		handler:      h.handler.WithAttrs(attrs),
	}
}

// WithGroup returns a new handler with an additional group.
func (h *ConditionalHandler) WithGroup(name string) slog.Handler {
	return &ConditionalHandler{
		capabilities: h.capabilities,
		mode:         h.mode,
		handler:      h.handler.WithGroup(name),
	}
}
