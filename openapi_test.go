package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func errorExample() map[string]any {
	return map[string]any{
		"status":      "FAIL",
		"message":     "Bad Request",
		"description": "Your request is invalid or malformed.",
		"error_code":  "BAD-400",
	}
}

func schemaFixture(examples map[string]map[string]any) map[string]any {
	responses := map[string]any{}
	for code, example := range examples {
		var ex any
		if example != nil {
			ex = example
		}
		responses[code] = map[string]any{
			"content": map[string]any{
				"application/json": map[string]any{
					"example": ex,
				},
			},
		}
	}
	return map[string]any{
		"paths": map[string]any{
			"/login": map[string]any{
				"get": map[string]any{
					"responses": responses,
				},
			},
		},
	}
}

func TestPatchSchema(t *testing.T) {
	t.Run("injects null data into bare error examples", func(t *testing.T) {
		schema := schemaFixture(map[string]map[string]any{"400": errorExample()})
		PatchSchema(schema)

		example := schemaExample(t, schema, "400")
		data, present := example["data"]
		require.True(t, present)
		require.Nil(t, data)
	})

	t.Run("success responses are left alone", func(t *testing.T) {
		schema := schemaFixture(map[string]map[string]any{"200": errorExample()})
		PatchSchema(schema)

		_, present := schemaExample(t, schema, "200")["data"]
		require.False(t, present)
	})

	t.Run("examples already carrying data are left alone", func(t *testing.T) {
		example := errorExample()
		example["data"] = map[string]any{"id": 1}
		schema := schemaFixture(map[string]map[string]any{"400": example})
		PatchSchema(schema)

		require.Equal(t, map[string]any{"id": 1}, schemaExample(t, schema, "400")["data"])
	})

	t.Run("incomplete examples are left alone", func(t *testing.T) {
		example := errorExample()
		delete(example, "error_code")
		schema := schemaFixture(map[string]map[string]any{"422": example})
		PatchSchema(schema)

		_, present := schemaExample(t, schema, "422")["data"]
		require.False(t, present)
	})

	t.Run("reapplying is a no-op", func(t *testing.T) {
		schema := schemaFixture(map[string]map[string]any{"400": errorExample()})
		PatchSchema(schema)
		first := schemaExample(t, schema, "400")

		PatchSchema(schema)
		require.Equal(t, first, schemaExample(t, schema, "400"))
	})

	t.Run("tolerates malformed subtrees", func(t *testing.T) {
		require.NotPanics(t, func() {
			PatchSchema(map[string]any{})
			PatchSchema(map[string]any{"paths": "nope"})
			PatchSchema(map[string]any{"paths": map[string]any{"/x": map[string]any{"get": "nope"}}})
		})
	})
}

func schemaExample(t *testing.T, schema map[string]any, code string) map[string]any {
	t.Helper()
	paths := schema["paths"].(map[string]any)
	op := paths["/login"].(map[string]any)["get"].(map[string]any)
	resp := op["responses"].(map[string]any)[code].(map[string]any)
	media := resp["content"].(map[string]any)["application/json"].(map[string]any)
	example, _ := media["example"].(map[string]any)
	return example
}

func TestPatchSchemaProvider(t *testing.T) {
	t.Run("memoizes after the first computation", func(t *testing.T) {
		calls := 0
		provider := PatchSchemaProvider(func() (map[string]any, error) {
			calls++
			return schemaFixture(map[string]map[string]any{"400": errorExample()}), nil
		})

		first, err := provider()
		require.NoError(t, err)
		second, err := provider()
		require.NoError(t, err)

		require.Equal(t, 1, calls)
		require.Equal(t, first, second)

		_, present := schemaExample(t, first, "400")["data"]
		require.True(t, present)
	})

	t.Run("provider errors are retried until a schema is produced", func(t *testing.T) {
		calls := 0
		provider := PatchSchemaProvider(func() (map[string]any, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("generator not ready")
			}
			return schemaFixture(map[string]map[string]any{"400": errorExample()}), nil
		})

		_, err := provider()
		require.Error(t, err)

		schema, err := provider()
		require.NoError(t, err)
		require.NotNil(t, schema)

		_, err = provider()
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})
}

func TestResponseExamples(t *testing.T) {
	t.Run("standard examples carry the full shape", func(t *testing.T) {
		out := ResponseExamples(ResponseExample{Status: 403, Descriptor: Descriptor{
			Code:        "PERM-403",
			Message:     "Forbidden",
			Description: "You do not have permission to access this resource.",
		}})

		entry := out["403"].(map[string]any)
		example := entry["content"].(map[string]any)["application/json"].(map[string]any)["example"].(map[string]any)

		require.Equal(t, "PERM-403", example["error_code"])
		require.Equal(t, "FAIL", example["status"])
		data, present := example["data"]
		require.True(t, present)
		require.Nil(t, data)
	})

	t.Run("problem examples use problem keys", func(t *testing.T) {
		out := ProblemResponseExamples(ResponseExample{Status: 403, Descriptor: Descriptor{
			Code:    "PERM-403",
			Message: "Forbidden",
		}})

		entry := out["403"].(map[string]any)
		example := entry["content"].(map[string]any)["application/problem+json"].(map[string]any)["example"].(map[string]any)

		require.Equal(t, "Forbidden", example["title"])
		require.Equal(t, 403, example["status"])
		require.Equal(t, UnsetType, example["type"])
	})

	t.Run("defaults cover the common statuses", func(t *testing.T) {
		out := DefaultResponseExamples()
		for _, code := range []string{"400", "401", "403", "404", "422", "500"} {
			require.Contains(t, out, code)
		}
	})
}
