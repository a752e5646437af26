package schema

import (
	"context"
	"reflect"
)

// Extension computes derived data to merge into a fetched record under the
// extension's own name. item is the record being decorated, fields the
// sub-paths requested from this extension, and extra the caller-supplied
// context from FetchOptions. Extensions must not touch the schema's own
// state; they run concurrently with their siblings.
type Extension func(ctx context.Context, item Item, fields []string, extra map[string]any) (any, error)

// Schema orchestrates validation, uniqueness enforcement, and query
// translation for one logical record type. It owns exactly one Table.
type Schema struct {
	table      Table
	indexes    []Index
	fields     map[string]Field
	extensions map[string]Extension
}

// New creates a Schema and binds it to its table.
func New(table Table, indexes []Index, fields map[string]Field) *Schema {
	s := &Schema{
		table:      table,
		indexes:    indexes,
		fields:     fields,
		extensions: make(map[string]Extension),
	}
	table.Bind(s)
	return s
}

// Table returns the schema's storage port.
func (s *Schema) Table() Table { return s.table }

// Indexes returns the declared indexes in declaration order.
func (s *Schema) Indexes() []Index { return s.indexes }

// Fields returns the declared field map.
func (s *Schema) Fields() map[string]Field { return s.fields }

// Extension registers a named extension for decoration.
func (s *Schema) Extension(name string, fn Extension) {
	s.extensions[name] = fn
}

// Validate checks a mapping of field name to raw value or Condition against
// the declared fields.
//
// READ with an empty input short-circuits to success: query filters are
// optional. CREATE validates the complete declared field set, so required
// fields are enforced even when absent from the input. Keys with no declared
// field are silently ignored on every action. All fields are attempted so a
// single response can report every invalid field at once.
func (s *Schema) Validate(values map[string]any, action Action) *Response {
	if action == ActionRead && len(values) == 0 {
		return OK(nil)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	if action == ActionCreate {
		names = names[:0]
		for name := range s.fields {
			names = append(names, name)
		}
	}

	data := make(Item, len(names))
	errs := make(map[string]error)

	for _, name := range names {
		field, ok := s.fields[name]
		if !ok {
			continue
		}

		if cond, ok := values[name].(Condition); ok {
			validated, err := cond.Validate(field)
			if err != nil {
				errs[name] = err
				continue
			}
			data[name] = validated
			continue
		}

		validated, err := field.Validate(values[name])
		if err != nil {
			errs[name] = err
			continue
		}
		data[name] = validated
	}

	if len(errs) > 0 {
		return InvalidFields(errs)
	}
	return OK(data)
}

// EnsureIndexes verifies that no existing record collides with the validated
// data on any unique index.
//
// For each unique index, the key tuple is resolved from the validated data
// first and from current (the record being updated) as a fallback, so an
// update re-checks uniqueness with a mix of changed and unchanged keys. An
// index whose tuple cannot be completed from either source is skipped. A
// found record identical to current is the record being updated, not a
// collision. Collisions across all indexes aggregate into one response.
//
// The check is a read before the write, with no isolation: two concurrent
// writers on the same key can both pass it.
func (s *Schema) EnsureIndexes(ctx context.Context, validation *Response, current Item) *Response {
	if !validation.Success() {
		return validation
	}

	data := validation.Item
	errs := make(map[string]error)

	for _, index := range s.indexes {
		if !index.IsUnique() {
			continue
		}

		query := make(Query)
		complete := true
		for _, key := range index.Keys() {
			value, ok := data[key]
			if !ok || isEmpty(value) {
				value = current[key]
			}
			if isEmpty(value) {
				complete = false
				break
			}
			query[key] = Equal(value)
		}
		if !complete {
			continue
		}

		ancestor := s.FetchOne(ctx, query, FetchOptions{})
		if !ancestor.Success() {
			continue
		}
		if current == nil || !reflect.DeepEqual(ancestor.Item, current) {
			for _, key := range index.Keys() {
				errs[key] = ErrValueAlreadyUsed
			}
		}
	}

	if len(errs) > 0 {
		return DuplicateValue(errs)
	}
	return OK(nil)
}

// Create validates data as a complete record, enforces unique indexes, and
// persists it through the table.
func (s *Schema) Create(ctx context.Context, data map[string]any) *Response {
	validation := s.Validate(data, ActionCreate)
	if !validation.Success() {
		return validation
	}

	if check := s.EnsureIndexes(ctx, validation, nil); !check.Success() {
		return check
	}

	created, err := s.table.Create(ctx, validation.Item)
	if err != nil {
		return Fail(err)
	}
	return OK(created)
}

// Update applies a partial update to the record identified by source.
//
// Source keys are excluded from data: an update cannot silently rewrite its
// own identifying keys. The remaining data validates under READ semantics
// (partial field sets allowed), the current record is re-fetched, and
// uniqueness is re-checked against the merged candidate before delegating
// to the table.
func (s *Schema) Update(ctx context.Context, source map[string]any, data map[string]any) *Response {
	if len(source) == 0 {
		return Fail(ErrEmptySource)
	}

	pruned := make(map[string]any, len(data))
	for name, value := range data {
		if _, ok := source[name]; ok {
			continue
		}
		pruned[name] = value
	}

	validation := s.Validate(pruned, ActionRead)
	if !validation.Success() {
		return validation
	}

	query := make(Query, len(source))
	for name, value := range source {
		query[name] = Equal(value)
	}
	current := s.FetchOne(ctx, query, FetchOptions{})
	if !current.Success() {
		return current
	}

	merged := make(Item, len(source)+len(validation.Item))
	for name, value := range source {
		merged[name] = value
	}
	for name, value := range validation.Item {
		merged[name] = value
	}

	if check := s.EnsureIndexes(ctx, OK(merged), current.Item); !check.Success() {
		return check
	}

	return s.table.Update(ctx, current.Item, merged)
}

// Delete removes the record matching the query, propagating NotFound when
// no record matches.
func (s *Schema) Delete(ctx context.Context, query Query) *Response {
	item := s.FetchOne(ctx, query, FetchOptions{})
	if !item.Success() {
		return item
	}
	return s.table.Delete(ctx, item.Item)
}

// Fetch returns every record matching the query, decorated when opts.Fields
// requests it.
func (s *Schema) Fetch(ctx context.Context, query Query, opts FetchOptions) *Response {
	validation := s.Validate(queryValues(query), ActionRead)
	if !validation.Success() {
		return validation
	}

	resp := s.table.Fetch(ctx, query, opts)
	if resp.Success() && len(opts.Fields) > 0 {
		if err := s.decorateResponse(ctx, resp, opts.Fields, opts.Context); err != nil {
			return Fail(err)
		}
	}
	return resp
}

// FetchOne returns the single record matching the query, decorated when
// opts.Fields requests it.
func (s *Schema) FetchOne(ctx context.Context, query Query, opts FetchOptions) *Response {
	validation := s.Validate(queryValues(query), ActionRead)
	if !validation.Success() {
		return validation
	}

	resp := s.table.FetchOne(ctx, query)
	if resp.Success() && len(opts.Fields) > 0 {
		if err := s.decorateResponse(ctx, resp, opts.Fields, opts.Context); err != nil {
			return Fail(err)
		}
	}
	return resp
}

// Extends produces a new Schema specializing this one: the given fields are
// merged over the declared ones, the indexes are copied, and the table is
// duplicated through its Copy port. The original schema is left untouched.
func (s *Schema) Extends(fields map[string]Field) *Schema {
	merged := make(map[string]Field, len(s.fields)+len(fields))
	for name, field := range s.fields {
		merged[name] = field
	}
	for name, field := range fields {
		merged[name] = field
	}

	indexes := make([]Index, len(s.indexes))
	copy(indexes, s.indexes)

	return New(s.table.Copy(), indexes, merged)
}

// queryValues widens a typed query into the mapping Validate consumes.
func queryValues(query Query) map[string]any {
	values := make(map[string]any, len(query))
	for name, cond := range query {
		values[name] = cond
	}
	return values
}
