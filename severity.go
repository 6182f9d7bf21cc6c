package fault

// Severity is the logical outcome of an operation, independent of the HTTP
// status used to transport it.
type Severity string

const (
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityFail    Severity = "FAIL"
)

// defaultHTTPCodes maps a severity to the HTTP status used when an Error is
// built without an explicit status. Initialize-once: override through
// SetDefaultHTTPCodes before serving traffic, not during it.
var defaultHTTPCodes = map[Severity]int{
	SeveritySuccess: 200,
	SeverityWarning: 400,
	SeverityFail:    400,
}

// SetDefaultHTTPCodes merges the given mapping into the severity defaults.
// Severities not present in m keep their current value.
func SetDefaultHTTPCodes(m map[Severity]int) {
	for s, code := range m {
		defaultHTTPCodes[s] = code
	}
}

// DefaultHTTPCode returns the default HTTP status for a severity.
// Unknown severities fall back to 400.
func DefaultHTTPCode(s Severity) int {
	if code, ok := defaultHTTPCodes[s]; ok {
		return code
	}
	return 400
}
