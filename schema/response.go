package schema

// Status is the enumerated outcome of a schema or table operation.
type Status int

const (
	StatusOK             Status = 200
	StatusAccepted       Status = 202
	StatusNotFound       Status = 404
	StatusError          Status = 500
	StatusInvalidFields  Status = 501
	StatusDuplicateValue Status = 502
)

// Error codes attached to failure responses so callers can distinguish
// validation failures from uniqueness collisions without parsing messages.
const (
	CodeValidation   = "validation_errors"
	CodeDuplicateKey = "duplicate_key"
)

// Item is one record as seen by the engine: a field-name keyed mapping.
type Item map[string]any

// Response is the envelope returned by every schema and table operation.
// Callers must check Success before trusting the payload. Errors are always
// keyed by field name so multiple failures report in one round trip.
type Response struct {
	Status Status

	// Item carries the payload of single-record operations; Items carries
	// the payload of multi-record fetches. At most one of the two is set.
	Item  Item
	Items []Item

	// Code classifies a failure (CodeValidation, CodeDuplicateKey).
	Code string

	// Errors maps field names to the reason each field was rejected.
	Errors map[string]error

	// Err holds a backend or engine failure not tied to a single field.
	Err error
}

// Success reports whether the operation completed. Accepted counts as
// success: it marks an update that found its record but had no field
// changes to write.
func (r *Response) Success() bool {
	return r.Status == StatusOK || r.Status == StatusAccepted
}

// OK creates a success response carrying a single record.
func OK(item Item) *Response {
	return &Response{Status: StatusOK, Item: item}
}

// OKList creates a success response carrying a sequence of records.
func OKList(items []Item) *Response {
	return &Response{Status: StatusOK, Items: items}
}

// Accepted creates a success response for an update that changed nothing.
func Accepted(item Item) *Response {
	return &Response{Status: StatusAccepted, Item: item}
}

// NotFound creates the response for a fetch that matched no record.
func NotFound() *Response {
	return &Response{Status: StatusNotFound}
}

// InvalidFields creates the response for a failed validation, carrying one
// error per rejected field.
func InvalidFields(errs map[string]error) *Response {
	return &Response{Status: StatusInvalidFields, Code: CodeValidation, Errors: errs}
}

// DuplicateValue creates the response for a uniqueness collision, carrying
// one error per colliding index key.
func DuplicateValue(errs map[string]error) *Response {
	return &Response{Status: StatusDuplicateValue, Code: CodeDuplicateKey, Errors: errs}
}

// Fail wraps a backend or engine error into an error response.
func Fail(err error) *Response {
	return &Response{Status: StatusError, Err: err}
}
