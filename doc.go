// Package fault normalizes failures raised during gin request handling into
// a small set of deterministic response shapes and structured diagnostic
// records.
//
// Application code raises a *fault.Error built from an immutable Descriptor;
// the Handler middleware intercepts it (along with binding validation
// failures and, optionally, anything else escaping the handler chain), logs a
// structured context, and renders the configured wire format: the standard
// internal model, RFC 7807 problem details, or a raw mapping.
package fault
