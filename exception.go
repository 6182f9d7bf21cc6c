package fault

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Error is a failure raised by application code with a known descriptor.
// Construction applies the defaulting rules; the value is read-only afterward
// and is consumed once by the handler when the request unwinds.
//
// Logging is deferred to interception time: an Error that is caught and
// discarded before reaching the middleware produces no log output.
type Error struct {
	Descriptor  Descriptor
	HTTPStatus  int
	Severity    Severity
	Message     string
	Description string

	// ShouldLog hints the handler whether to log this error. The handler's
	// master logging switch always dominates.
	ShouldLog bool

	// LogPayload is extra context for logs only: a string or a
	// map[string]any. It never appears in the response body.
	LogPayload any

	// Headers are merged into the outgoing response headers, winning over
	// echoed request headers on key collision.
	Headers map[string]string

	raiseFile string
	raiseLine int
	stack     []byte
}

// ErrorOption customizes an Error at construction.
type ErrorOption func(*Error)

// WithStatus sets an explicit HTTP status. A zero status is ignored and the
// severity default applies.
func WithStatus(code int) ErrorOption {
	return func(e *Error) {
		e.HTTPStatus = code
	}
}

// WithSeverity sets the logical outcome marker.
func WithSeverity(s Severity) ErrorOption {
	return func(e *Error) {
		e.Severity = s
	}
}

// WithMessage overrides the descriptor's message.
func WithMessage(msg string) ErrorOption {
	return func(e *Error) {
		e.Message = msg
	}
}

// WithDescription overrides the descriptor's description.
func WithDescription(desc string) ErrorOption {
	return func(e *Error) {
		e.Description = desc
	}
}

// WithoutLog marks the error as not worth logging.
func WithoutLog() ErrorOption {
	return func(e *Error) {
		e.ShouldLog = false
	}
}

// WithLogPayload attaches extra log-only context, a string or a
// map[string]any. Other types are reported once at log time and dropped.
func WithLogPayload(payload any) ErrorOption {
	return func(e *Error) {
		e.LogPayload = payload
	}
}

// WithHeaders attaches headers to merge into the response.
func WithHeaders(h map[string]string) ErrorOption {
	return func(e *Error) {
		e.Headers = h
	}
}

// New builds an Error from a descriptor. Omitted fields default from the
// descriptor, the severity defaults to FAIL, and a zero HTTP status resolves
// through the severity default map. The raise site is captured here for
// diagnostics.
func New(d Descriptor, opts ...ErrorOption) *Error {
	e := &Error{
		Descriptor:  d,
		Severity:    SeverityFail,
		Message:     d.Message,
		Description: d.Description,
		ShouldLog:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.HTTPStatus == 0 {
		e.HTTPStatus = DefaultHTTPCode(e.Severity)
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.raiseFile = file
		e.raiseLine = line
	}
	e.stack = debug.Stack()
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s (Status: %s, Description: %s)", e.Descriptor.Code, e.Message, e.Severity, e.Description)
}

// RaiseSite reports the file and line where the Error was constructed.
func (e *Error) RaiseSite() (file string, line int) {
	return e.raiseFile, e.raiseLine
}

// newValidationError wraps the first message of a request-validation failure.
func newValidationError(cause error) *Error {
	return &Error{
		Descriptor:  ValidationError,
		HTTPStatus:  422,
		Severity:    SeverityFail,
		Message:     ValidationError.Message,
		Description: validationMessage(cause),
		ShouldLog:   true,
	}
}

// newUnhandledError is the synthesized error for anything escaping the
// handler chain. The original failure's text stays out of the body.
func newUnhandledError() *Error {
	return &Error{
		Descriptor:  InternalServerError,
		HTTPStatus:  500,
		Severity:    SeverityFail,
		Message:     InternalServerError.Message,
		Description: InternalServerError.Description,
		ShouldLog:   true,
	}
}
