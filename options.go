package fault

import "log/slog"

// Option configures a Handler at construction.
type Option func(*Handler)

// WithFormat selects the wire shape of error responses.
func WithFormat(f Format) Option {
	return func(h *Handler) {
		h.format = f
	}
}

// WithoutFallback disables catch-all interception: unhandled failures
// propagate to whatever default behavior the host provides.
func WithoutFallback() Option {
	return func(h *Handler) {
		h.fallback = false
	}
}

// WithoutLogging disables all log emission, overriding per-error ShouldLog
// flags. Responses are unaffected.
func WithoutLogging() Option {
	return func(h *Handler) {
		h.logEnabled = false
	}
}

// WithoutTraceback keeps raise-site fields and stack dumps out of domain and
// validation error logs. Capture at construction is unaffected.
func WithoutTraceback() Option {
	return func(h *Handler) {
		h.logTraceback = false
	}
}

// WithoutUnhandledTraceback skips the stack dump for unhandled failures.
func WithoutUnhandledTraceback() Option {
	return func(h *Handler) {
		h.logUnhandledTraceback = false
	}
}

// WithLogger routes emission through the given logger instead of
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.clog.logger = l
	}
}

// WithLogLevel overrides the effective verbosity used to gate full stack
// dumps. Without it the logger's own level decides.
func WithLogLevel(level slog.Level) Option {
	return func(h *Handler) {
		h.clog.level = &level
	}
}

// WithoutRequestContext keeps request headers out of the log context.
func WithoutRequestContext() Option {
	return func(h *Handler) {
		h.requestContext = false
	}
}

// WithLogHeaders replaces the default set of request headers captured into
// the log context. Names are validated by New.
func WithLogHeaders(keys ...string) Option {
	return func(h *Handler) {
		h.logHeaders = HeaderSet(keys)
	}
}

// WithEnrichment registers a hook that injects caller-defined fields into the
// log context of every interception.
func WithEnrichment(fn EnrichmentFunc) Option {
	return func(h *Handler) {
		h.enrich = fn
	}
}

// WithEchoPolicy controls which request headers are echoed back on error
// responses. The default echoes the tracing triple.
func WithEchoPolicy(p EchoPolicy) Option {
	return func(h *Handler) {
		h.echo = p
	}
}

// WithMetaStyle selects the rendering of the human-readable context block.
func WithMetaStyle(s MetaStyle) Option {
	return func(h *Handler) {
		h.clog.style = s
	}
}

// WithMetaMaxLen caps single context values in the readable block; longer
// values are truncated with an ellipsis.
func WithMetaMaxLen(n int) Option {
	return func(h *Handler) {
		h.clog.maxLen = n
	}
}
