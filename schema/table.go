package schema

import "context"

// Query maps field names to the conditions a fetch filters on.
type Query map[string]Condition

// Sort orders fetch results over the selected index's natural order. It is
// advisory: backends only honor it when an index was selected.
type Sort int

const (
	SortNone       Sort = 0
	SortDescending Sort = 1
	SortAscending  Sort = 2
)

// FetchOptions tunes a fetch. The zero value asks for everything: no limit,
// backend-chosen index, natural order, no decoration.
type FetchOptions struct {
	// Limit caps the number of returned records (0 = no limit).
	Limit int32

	// Sort orders results over the selected index.
	Sort Sort

	// IndexName forces a specific index instead of automatic selection.
	IndexName string

	// Fields requests decoration: dotted paths naming extension outputs to
	// merge into each record, and optionally the table's own name as an
	// allow-list of base attributes to keep.
	Fields []string

	// Context is handed to each extension invoked during decoration.
	Context map[string]any
}

// Table is the storage port the schema engine drives. One implementation
// exists per backend; the engine itself never talks to a store directly.
//
// A Table is bound to exactly one Schema at a time and uses that
// back-reference to enumerate the declared indexes and fields.
type Table interface {
	// Name returns the backing table's name.
	Name() string

	// Bind registers the owning schema. Called once by schema.New.
	Bind(s *Schema)

	// FindIndex selects the index matching a query's exact field-name set,
	// or nil when the query requires a full scan.
	FindIndex(fields []string) *Index

	// Create persists a validated record and returns it.
	Create(ctx context.Context, data Item) (Item, error)

	// Update applies a partial update to current, keyed by the record's
	// identifying keys, and returns the merged record. Returns an Accepted
	// response when data holds no settable field changes.
	Update(ctx context.Context, current Item, data Item) *Response

	// Delete removes the record.
	Delete(ctx context.Context, item Item) *Response

	// Fetch returns every record matching the query, or NotFound when the
	// result set is empty.
	Fetch(ctx context.Context, query Query, opts FetchOptions) *Response

	// FetchOne returns the single record matching the query, or NotFound.
	FetchOne(ctx context.Context, query Query) *Response

	// CreateTable provisions the backing table from the bound schema's
	// indexes and fields.
	CreateTable(ctx context.Context) error

	// Copy produces a disconnected duplicate usable by Schema.Extends.
	Copy() Table
}
