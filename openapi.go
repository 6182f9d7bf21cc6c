package fault

import (
	"fmt"
	"strconv"
	"sync"
)

// SchemaProvider produces the generated API documentation schema as a generic
// JSON tree.
type SchemaProvider func() (map[string]any, error)

// PatchSchemaProvider wraps a schema provider so that non-success example
// payloads carrying the standard error keys also carry an explicit null data
// field. The first successful result is memoized; provider errors are
// returned as-is and the next call tries again.
func PatchSchemaProvider(next SchemaProvider) SchemaProvider {
	var (
		mu     sync.Mutex
		cached map[string]any
	)
	return func() (map[string]any, error) {
		mu.Lock()
		defer mu.Unlock()
		if cached != nil {
			return cached, nil
		}
		schema, err := next()
		if err != nil {
			return nil, err
		}
		PatchSchema(schema)
		cached = schema
		return cached, nil
	}
}

// PatchSchema injects "data": null into every non-200 response example that
// has the standard error keys but no data key. Reapplying it is a no-op:
// patched examples no longer satisfy the condition.
func PatchSchema(schema map[string]any) {
	paths, _ := schema["paths"].(map[string]any)
	for _, path := range paths {
		operations, ok := path.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range operations {
			opMap, ok := op.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := opMap["responses"].(map[string]any)
			if !ok {
				continue
			}
			for code, resp := range responses {
				if code == "200" {
					continue
				}
				respMap, ok := resp.(map[string]any)
				if !ok {
					continue
				}
				content, ok := respMap["content"].(map[string]any)
				if !ok {
					continue
				}
				for _, media := range content {
					mediaMap, ok := media.(map[string]any)
					if !ok {
						continue
					}
					example, ok := mediaMap["example"].(map[string]any)
					if !ok {
						continue
					}
					if hasBareErrorShape(example) {
						example["data"] = nil
					}
				}
			}
		}
	}
}

// hasBareErrorShape reports whether an example carries the standard error
// keys without a data field.
func hasBareErrorShape(example map[string]any) bool {
	for _, k := range []string{"status", "message", "description", "error_code"} {
		if _, ok := example[k]; !ok {
			return false
		}
	}
	_, hasData := example["data"]
	return !hasData
}

// ResponseExample pairs an HTTP status with the descriptor documented for it.
type ResponseExample struct {
	Status     int
	Descriptor Descriptor
}

// ResponseExamples builds OpenAPI response entries with standard-model
// example bodies for the given pairs, ready to merge into an operation's
// responses map.
func ResponseExamples(items ...ResponseExample) map[string]any {
	out := make(map[string]any, len(items))
	for _, it := range items {
		out[strconv.Itoa(it.Status)] = map[string]any{
			"description": fmt.Sprintf("Status: %d - %s", it.Status, it.Descriptor.Code),
			"content": map[string]any{
				"application/json": map[string]any{
					"example": map[string]any{
						"data":        nil,
						"status":      string(SeverityFail),
						"message":     it.Descriptor.Message,
						"error_code":  it.Descriptor.Code,
						"description": it.Descriptor.Description,
					},
				},
			},
		}
	}
	return out
}

// ProblemResponseExamples is the RFC 7807 counterpart of ResponseExamples.
func ProblemResponseExamples(items ...ResponseExample) map[string]any {
	out := make(map[string]any, len(items))
	for _, it := range items {
		typ := it.Descriptor.ProblemType
		if typ == "" {
			typ = UnsetType
		}
		out[strconv.Itoa(it.Status)] = map[string]any{
			"description": fmt.Sprintf("Status: %d - %s", it.Status, it.Descriptor.Code),
			"content": map[string]any{
				"application/problem+json": map[string]any{
					"example": map[string]any{
						"type":     typ,
						"title":    it.Descriptor.Message,
						"status":   it.Status,
						"detail":   it.Descriptor.Description,
						"instance": it.Descriptor.ProblemInstance,
					},
				},
			},
		}
	}
	return out
}

// DefaultResponseExamples documents the common failure statuses with generic
// descriptors.
func DefaultResponseExamples() map[string]any {
	return ResponseExamples(
		ResponseExample{400, Descriptor{Code: "BAD-400", Message: "Bad Request", Description: "Your request is invalid or malformed."}},
		ResponseExample{401, Descriptor{Code: "AUTH-401", Message: "Unauthorized", Description: "Authentication credentials were missing or invalid."}},
		ResponseExample{403, Descriptor{Code: "PERM-403", Message: "Forbidden", Description: "You do not have permission to access this resource."}},
		ResponseExample{404, Descriptor{Code: "RES-404", Message: "Not Found", Description: "The requested resource could not be found."}},
		ResponseExample{422, ValidationError},
		ResponseExample{500, Descriptor{Code: "INT-500", Message: "Internal Server Error", Description: "An unexpected error occurred on the server."}},
	)
}
