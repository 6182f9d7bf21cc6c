package fault

import (
	"fmt"
	"net/http"
	"strings"
)

// HeaderSet is a list of header names, normalized to trimmed lower-case when
// installed on a Handler.
type HeaderSet []string

// defaultLogHeaders are folded into the log context when request-context
// logging is enabled.
var defaultLogHeaders = HeaderSet{
	"x-request-id",
	"x-correlation-id",
	"x-amzn-trace-id",
	"x-forwarded-for",
	"user-agent",
	"referer",
}

// defaultEchoHeaders are copied from the request onto error responses when
// echoing is enabled with the default set.
var defaultEchoHeaders = HeaderSet{
	"x-request-id",
	"x-correlation-id",
	"x-amzn-trace-id",
}

// normalizeHeaderKeys trims and lower-cases names, rejecting blank entries.
func normalizeHeaderKeys(keys []string) (HeaderSet, error) {
	out := make(HeaderSet, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("invalid header key: %q", k)
		}
		out = append(out, strings.ToLower(k))
	}
	return out, nil
}

// collectHeaders returns the selected headers present on the request, stored
// under lower-cased keys. Lookup is case-insensitive; absent headers are
// omitted.
func collectHeaders(h http.Header, keys HeaderSet) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			out[k] = v
		}
	}
	return out
}

// EchoPolicy decides which request headers are echoed back on error
// responses.
type EchoPolicy struct {
	keys HeaderSet
}

// EchoDefault echoes the default tracing triple
// (x-request-id, x-correlation-id, x-amzn-trace-id).
func EchoDefault() EchoPolicy {
	return EchoPolicy{keys: defaultEchoHeaders}
}

// EchoNone disables header echoing.
func EchoNone() EchoPolicy {
	return EchoPolicy{}
}

// EchoOnly echoes exactly the given headers. Names are validated when the
// policy is installed on a Handler.
func EchoOnly(keys ...string) EchoPolicy {
	return EchoPolicy{keys: HeaderSet(keys)}
}

// headers resolves the echo set against a live request.
func (p EchoPolicy) headers(h http.Header) map[string]string {
	if len(p.keys) == 0 {
		return map[string]string{}
	}
	return collectHeaders(h, p.keys)
}

// mergeErrorHeaders folds error-carried headers over the echoed base set.
// The error's values win on collision; blank keys or values are dropped. The
// merge never fails response construction.
func mergeErrorHeaders(base, extra map[string]string) map[string]string {
	for k, v := range extra {
		if strings.TrimSpace(k) == "" || v == "" {
			continue
		}
		base[k] = v
	}
	return base
}
