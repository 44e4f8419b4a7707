package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls a structured attribute out of a context.Context.
// The second return value reports whether an attribute was produced.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures a logger built by New.
type Option func(*options)

type options struct {
	level      slog.Leveler
	json       bool
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// WithLevel sets the minimum level that will be logged.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) { o.level = level }
}

// WithJSONFormatter selects JSON output (slog.JSONHandler).
func WithJSONFormatter() Option {
	return func(o *options) { o.json = true }
}

// WithTextFormatter selects human-readable text output (slog.TextHandler).
func WithTextFormatter() Option {
	return func(o *options) { o.json = false }
}

// WithOutput sets the destination writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithAttr attaches a static attribute to every record emitted by the logger.
func WithAttr(attr slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attr) }
}

// WithContextValue attaches a string attribute read from ctx.Value(ctxKey)
// under the given attrKey, when present.
func WithContextValue(ctxKey, attrKey string) Option {
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v, ok := ctx.Value(ctxKey).(string)
		if !ok || v == "" {
			return slog.Attr{}, false
		}
		return slog.String(attrKey, v), true
	})
}

// WithContextExtractors registers custom context-to-attribute extractors,
// evaluated on every *Context call (InfoContext, ErrorContext, ...).
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// WithDevelopment configures a human-readable, debug-level logger writing to
// stdout, tagged with the given service name.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.json = false
		o.level = slog.LevelDebug
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithStaging configures a JSON, info-level logger writing to stdout.
func WithStaging(service string) Option {
	return func(o *options) {
		o.json = true
		o.level = slog.LevelInfo
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// WithProduction configures a JSON, info-level logger writing to stdout.
func WithProduction(service string) Option {
	return func(o *options) {
		o.json = true
		o.level = slog.LevelInfo
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// contextHandler decorates an slog.Handler, injecting attributes pulled from
// the logging call's context on every record.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}

// New builds a *slog.Logger from the given options. With no options it
// produces a JSON, info-level logger writing to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		json:   true,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.json {
		h = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(o.output, handlerOpts)
	}

	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	if len(o.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: o.extractors}
	}

	return slog.New(h)
}
