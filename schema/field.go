package schema

// Kind is the closed set of base types a Field can hold. Every kind maps to
// a storage-level type in the backend adapter (see dynamo.CreateTable).
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Map
	List
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Map:
		return "map"
	case List:
		return "list"
	}
	return "unknown"
}

// Validator is a pure check over a field value. It returns the value to keep
// (validators may normalize) or an error describing why the value is invalid.
type Validator func(value any) (any, error)

// Field describes one attribute of a record: its base type, whether it must
// be present on create, and any auxiliary validators to run in order.
//
// Fields are created once at schema-definition time and shared by every
// record validated against that schema; Validate never mutates the field.
type Field struct {
	Kind       Kind
	Required   bool
	Validators []Validator
}

// Validate checks one raw value against the field definition.
//
// Empty values (nil, "", 0, false, empty collections) fail with
// ErrFieldRequired on required fields and pass through untouched on optional
// ones, skipping both the kind check and the validators. Present values must
// match the field's kind and are then threaded through each validator in
// declaration order; the first validator failure short-circuits the rest.
func (f Field) Validate(value any) (any, error) {
	if isEmpty(value) {
		if f.Required {
			return nil, ErrFieldRequired
		}
		return value, nil
	}

	if !f.Kind.matches(value) {
		return nil, ErrFieldWrongFormat
	}

	var err error
	for _, validator := range f.Validators {
		value, err = validator(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// matches reports whether value is an instance of the kind.
func (k Kind) matches(value any) bool {
	switch k {
	case String:
		_, ok := value.(string)
		return ok
	case Int:
		switch value.(type) {
		case int, int32, int64:
			return true
		}
		return false
	case Float:
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	case Bool:
		_, ok := value.(bool)
		return ok
	case Map:
		_, ok := value.(map[string]any)
		return ok
	case List:
		_, ok := value.([]any)
		return ok
	}
	return false
}

// isEmpty reports whether a value counts as absent for required-ness checks.
// Zero numbers, empty strings, false, and empty collections are all empty.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case float32:
		return v == 0
	case float64:
		return v == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
