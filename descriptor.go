package fault

// Descriptor is an immutable, client-facing description of a known failure
// class. Applications extend the catalog by declaring their own Descriptor
// values; descriptors are passed by value and never mutated after declaration.
// Code uniqueness is the caller's responsibility.
type Descriptor struct {
	// Code uniquely identifies the failure to clients, e.g. "AUTH-1000".
	Code string

	// Message is a short human-readable summary.
	Message string

	// Description adds optional detail for this failure class.
	Description string

	// ProblemType is an optional URI identifying the problem type in
	// RFC 7807 responses.
	ProblemType string

	// ProblemInstance is an optional URI identifying the problem occurrence
	// in RFC 7807 responses.
	ProblemInstance string
}

// Descriptors used by the handler itself.
var (
	ValidationError = Descriptor{
		Code:        "VAL-422",
		Message:     "Validation Error",
		Description: "Input validation failed.",
	}

	InternalServerError = Descriptor{
		Code:        "ISE-500",
		Message:     "Something went wrong.",
		Description: "An unexpected error occurred. Please try again later.",
	}
)
