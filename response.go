package fault

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/go-playground/validator/v10"
)

// Format selects the wire shape of error responses.
type Format int

const (
	// FormatStandard renders the internal response model.
	FormatStandard Format = iota
	// FormatProblem renders RFC 7807 problem details.
	FormatProblem
	// FormatRaw renders the standard keys as an untyped mapping.
	FormatRaw
)

const (
	problemContentType = "application/problem+json; charset=utf-8"

	// UnsetType is substituted for an empty problem type.
	// https://datatracker.ietf.org/doc/html/rfc9457
	UnsetType = "about:blank"
)

// StandardBody is the internal response model shared by success and failure
// responses. Data is serialized even when nil so clients always see the same
// shape.
type StandardBody struct {
	Data        any      `json:"data"`
	Status      Severity `json:"status"`
	Message     string   `json:"message"`
	ErrorCode   string   `json:"error_code"`
	Description string   `json:"description"`
}

// ProblemBody is the RFC 7807 problem details shape. It carries the same
// error state as StandardBody under renamed keys: title is the message,
// detail is the description.
type ProblemBody struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// Body converts the error to the standard response model. data is normally
// nil on failures.
func (e *Error) Body(data any) StandardBody {
	return StandardBody{
		Data:        data,
		Status:      e.Severity,
		Message:     e.Message,
		ErrorCode:   e.Descriptor.Code,
		Description: e.Description,
	}
}

// Problem converts the error to RFC 7807 problem details. An empty problem
// type becomes "about:blank".
func (e *Error) Problem() ProblemBody {
	typ := e.Descriptor.ProblemType
	if typ == "" {
		typ = UnsetType
	}
	return ProblemBody{
		Type:     typ,
		Title:    e.Message,
		Status:   e.HTTPStatus,
		Detail:   e.Description,
		Instance: e.Descriptor.ProblemInstance,
	}
}

// Raw converts the error to an untyped mapping with the standard keys.
func (e *Error) Raw() gin.H {
	return gin.H{
		"data":        nil,
		"status":      string(e.Severity),
		"message":     e.Message,
		"error_code":  e.Descriptor.Code,
		"description": e.Description,
	}
}

// render returns the gin renderer for the selected format.
func (e *Error) render(format Format) render.Render {
	switch format {
	case FormatProblem:
		return problemJSON{render.JSON{Data: e.Problem()}}
	case FormatRaw:
		return render.JSON{Data: e.Raw()}
	default:
		return render.JSON{Data: e.Body(nil)}
	}
}

// problemJSON renders a body with the problem+json media type.
type problemJSON struct {
	render.JSON
}

func (r problemJSON) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{problemContentType}
	}
}

func (r problemJSON) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return r.JSON.Render(w)
}

// valueErrorPrefix is the boilerplate some validators prepend to messages of
// struct-level validation failures.
const valueErrorPrefix = "Value error, "

// validationMessage extracts the first reported message from a validation
// failure and strips the boilerplate prefix when present. Shapes it cannot
// read fall back to a static message.
func validationMessage(err error) string {
	msg := "Validation error"

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		if len(verrs) > 0 {
			msg = verrs[0].Error()
		}
	case err != nil && err.Error() != "":
		msg = err.Error()
	}

	return strings.TrimPrefix(msg, valueErrorPrefix)
}

// validationErrorCount reports how many field errors the failure carries.
func validationErrorCount(err error) int {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return len(verrs)
	}
	if err != nil {
		return 1
	}
	return 0
}
