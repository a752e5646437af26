package schema

// Op discriminates the comparison semantics of a Condition. Backends switch
// on Op to build their native query forms.
type Op int

const (
	OpEqual Op = iota
	OpGreaterThan
	OpSmallerThan
	OpContains
	OpExclude
	OpIn
	OpBetween
)

// String returns the operator's name.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpGreaterThan:
		return "greater_than"
	case OpSmallerThan:
		return "smaller_than"
	case OpContains:
		return "contains"
	case OpExclude:
		return "exclude"
	case OpIn:
		return "in"
	case OpBetween:
		return "between"
	}
	return "unknown"
}

// Condition tags one query value (or a small ordered sequence of values, for
// In and Between) with a comparison operator. Conditions are built per query
// call and discarded after it.
type Condition struct {
	Op     Op
	Values []any
}

// Equal matches records whose field equals value.
func Equal(value any) Condition {
	return Condition{Op: OpEqual, Values: []any{value}}
}

// GreaterThan matches records whose field is strictly greater than value.
func GreaterThan(value any) Condition {
	return Condition{Op: OpGreaterThan, Values: []any{value}}
}

// SmallerThan matches records whose field is strictly smaller than value.
func SmallerThan(value any) Condition {
	return Condition{Op: OpSmallerThan, Values: []any{value}}
}

// Contains matches records whose field contains value.
func Contains(value any) Condition {
	return Condition{Op: OpContains, Values: []any{value}}
}

// Exclude matches records whose field differs from value.
func Exclude(value any) Condition {
	return Condition{Op: OpExclude, Values: []any{value}}
}

// In matches records whose field equals any of the given values. Backends
// execute In as one lookup per value and concatenate the results.
func In(values ...any) Condition {
	return Condition{Op: OpIn, Values: values}
}

// Between matches records whose field falls within the [low, high] interval.
func Between(low, high any) Condition {
	return Condition{Op: OpBetween, Values: []any{low, high}}
}

// Value returns the first wrapped value. Most operators carry exactly one.
func (c Condition) Value() any {
	if len(c.Values) == 0 {
		return nil
	}
	return c.Values[0]
}

// Validate routes every wrapped value through the field's validation,
// preserving order, and returns a condition holding the validated forms.
func (c Condition) Validate(field Field) (Condition, error) {
	out := Condition{Op: c.Op, Values: make([]any, len(c.Values))}
	for i, value := range c.Values {
		validated, err := field.Validate(value)
		if err != nil {
			return Condition{}, err
		}
		out.Values[i] = validated
	}
	return out, nil
}

// Action identifies which schema operation a validation runs for. CREATE
// enforces the complete declared field set; READ validates only the supplied
// query fields.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)
