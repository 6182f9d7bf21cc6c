package fault

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
)

// Interception kinds, used as the event tag in log context and as the metric
// label.
const (
	kindDomain     = "api_exception"
	kindValidation = "validation_error"
	kindUnhandled  = "unhandled_exception"
)

// EnrichmentFunc injects caller-defined fields into the log context. It
// receives the request and the intercepted error (nil when a panic carried a
// non-error value). Panics inside the hook are swallowed; they degrade log
// richness but never break response delivery.
type EnrichmentFunc func(r *http.Request, err error) map[string]any

// Handler intercepts failures raised during request handling and converts
// them into one of the documented response shapes. Build one with NewHandler
// and mount Middleware ahead of the routes it should guard.
type Handler struct {
	format                Format
	fallback              bool
	logEnabled            bool
	logTraceback          bool
	logUnhandledTraceback bool
	requestContext        bool
	logHeaders            HeaderSet
	echo                  EchoPolicy
	enrich                EnrichmentFunc
	clog                  contextLogger
}

// NewHandler builds a Handler with the given options. Header name lists are
// validated and normalized here.
func NewHandler(opts ...Option) (*Handler, error) {
	h := &Handler{
		format:                FormatStandard,
		fallback:              true,
		logEnabled:            true,
		logTraceback:          true,
		logUnhandledTraceback: true,
		requestContext:        true,
		logHeaders:            defaultLogHeaders,
		echo:                  EchoDefault(),
		clog: contextLogger{
			logger: slog.Default(),
			style:  MetaKVBlock,
			maxLen: defaultMetaMaxLen,
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	var err error
	if h.logHeaders, err = normalizeHeaderKeys(h.logHeaders); err != nil {
		return nil, err
	}
	if len(h.echo.keys) > 0 {
		if h.echo.keys, err = normalizeHeaderKeys(h.echo.keys); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Middleware returns the gin middleware hosting the three interception
// points. Domain and validation failures are always converted; anything else
// is converted only while fallback interception is enabled, and re-raised to
// the host otherwise. A single intercepted failure produces exactly one
// response.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if e, ok := r.(*Error); ok {
				h.handleDomain(c, e)
				return
			}
			if verr, ok := r.(error); ok && isValidation(verr) {
				h.handleValidation(c, verr, debug.Stack())
				return
			}
			if !h.fallback {
				panic(r)
			}
			h.handleUnhandled(c, r, debug.Stack())
		}()

		c.Next()

		err := firstError(c)
		if err == nil || c.Writer.Written() {
			return
		}

		var e *Error
		switch {
		case errors.As(err, &e):
			h.handleDomain(c, e)
		case isValidation(err):
			h.handleValidation(c, err, debug.Stack())
		case h.fallback:
			h.handleUnhandled(c, err, debug.Stack())
		}
	}
}

// firstError picks the first error attached to the context.
func firstError(c *gin.Context) error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0].Err
}

func isValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func (h *Handler) handleDomain(c *gin.Context, e *Error) {
	if h.logEnabled && e.ShouldLog {
		ctx := c.Request.Context()
		meta := h.baseContext(c, kindDomain, e)

		if h.logTraceback {
			meta["raise_file"] = e.raiseFile
			meta["raise_line"] = e.raiseLine
		}
		h.mergePayload(meta, e.LogPayload)
		h.mergeEnrichment(c.Request, e, meta)

		h.clog.logWithMeta(ctx, slog.LevelError, "APIException: "+e.Message, meta)
		if h.logTraceback && h.clog.debugEnabled(ctx) {
			h.clog.logger.Log(ctx, slog.LevelError, "Traceback:\n"+string(e.stack))
		}
	}

	h.respond(c, kindDomain, e)
}

func (h *Handler) handleValidation(c *gin.Context, cause error, stack []byte) {
	e := newValidationError(cause)

	if h.logEnabled {
		ctx := c.Request.Context()
		meta := h.baseContext(c, kindValidation, e)

		meta["error_count"] = validationErrorCount(cause)
		meta["first_error"] = e.Description
		h.mergeEnrichment(c.Request, cause, meta)

		h.clog.logWithMeta(ctx, slog.LevelWarn, "Validation Error: "+e.Description, meta)
		if h.logTraceback && h.clog.debugEnabled(ctx) {
			h.clog.logger.Log(ctx, slog.LevelWarn, "Traceback:\n"+string(stack))
		}
	}

	h.respond(c, kindValidation, e)
}

func (h *Handler) handleUnhandled(c *gin.Context, recovered any, stack []byte) {
	e := newUnhandledError()

	if h.logEnabled {
		ctx := c.Request.Context()
		meta := h.baseContext(c, kindUnhandled, e)

		meta["exception_type"] = fmt.Sprintf("%T", recovered)
		meta["exception_message"] = fmt.Sprint(recovered)
		cause, _ := recovered.(error)
		h.mergeEnrichment(c.Request, cause, meta)

		if h.logUnhandledTraceback {
			h.clog.logWithMeta(ctx, slog.LevelError,
				fmt.Sprintf("Unhandled Exception: %v\nTraceback:\n%s", recovered, stack), meta)
		} else {
			h.clog.logWithMeta(ctx, slog.LevelError,
				fmt.Sprintf("Unhandled Exception: %v", recovered), meta)
		}
	}

	h.respond(c, kindUnhandled, e)
}

// baseContext builds the fixed-field log context, extended with selected
// request headers and the trace/span IDs when present.
func (h *Handler) baseContext(c *gin.Context, event string, e *Error) map[string]any {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = "unknown"
	}

	meta := map[string]any{
		"event":        event,
		"path":         c.Request.URL.Path,
		"method":       c.Request.Method,
		"client_ip":    clientIP,
		"http_version": c.Request.Proto,
		"error_code":   e.Descriptor.Code,
		"status":       string(e.Severity),
		"http_status":  e.HTTPStatus,
	}

	if h.requestContext {
		for k, v := range collectHeaders(c.Request.Header, h.logHeaders) {
			meta[k] = v
		}
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
		meta["trace_id"] = sc.TraceID().String()
		meta["span_id"] = sc.SpanID().String()
	}

	return meta
}

// mergePayload folds the error's log payload into the context: strings
// verbatim, maps after a serializability check, anything else reported and
// dropped.
func (h *Handler) mergePayload(meta map[string]any, payload any) {
	switch p := payload.(type) {
	case nil:
	case string:
		meta["extra_log_message"] = p
	case map[string]any:
		meta["extra_log_message"] = sanitizePayload(p)
	default:
		h.clog.logger.Warn("log payload type is not supported, expected string or map[string]any",
			"type", fmt.Sprintf("%T", payload))
	}
}

func (h *Handler) mergeEnrichment(r *http.Request, cause error, meta map[string]any) {
	if h.enrich == nil {
		return
	}
	defer func() {
		// A failing hook must never break response delivery.
		_ = recover()
	}()
	for k, v := range h.enrich(r, cause) {
		meta[k] = v
	}
}

// respond computes the outgoing headers and renders the selected format.
// This is the terminal state of every interception. If a response was
// already committed the failure stays logged but nothing more is written.
func (h *Handler) respond(c *gin.Context, kind string, e *Error) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	interceptedTotal.WithLabelValues(kind, strconv.Itoa(e.HTTPStatus)).Inc()

	headers := mergeErrorHeaders(h.echo.headers(c.Request.Header), e.Headers)
	for k, v := range headers {
		c.Header(k, v)
	}

	c.Abort()
	c.Render(e.HTTPStatus, e.render(h.format))
}
