package schema_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jacentio/lattice/schema"
)

// Re-validating an already-validated value must return it unchanged, so a
// payload can safely pass through validation more than once.
func TestProperty_ValidateIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	field := schema.Field{Kind: schema.String, Required: true}

	properties.Property("validating twice equals validating once", prop.ForAll(
		func(value string) bool {
			if value == "" {
				return true // empty values are a required-field error, not an idempotence case
			}
			once, err := field.Validate(value)
			if err != nil {
				return false
			}
			twice, err := field.Validate(once)
			if err != nil {
				return false
			}
			return once == twice
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestProperty_ConditionValidatePreservesOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	field := schema.Field{Kind: schema.String}

	properties.Property("in-condition values keep their order", prop.ForAll(
		func(values []string) bool {
			wrapped := make([]any, len(values))
			for i, v := range values {
				wrapped[i] = v
			}
			validated, err := schema.In(wrapped...).Validate(field)
			if err != nil {
				return false
			}
			if len(validated.Values) != len(values) {
				return false
			}
			for i, v := range values {
				if validated.Values[i] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
