package schema_test

import (
	"context"
	"reflect"
	"strings"

	"github.com/jacentio/lattice/schema"
)

// memTable is an in-memory schema.Table used by the engine tests. It matches
// conditions over a plain slice of records, which is enough to exercise the
// orchestration paths without a real backend.
type memTable struct {
	name   string
	schema *schema.Schema
	items  []schema.Item

	fetchCalls    int
	fetchOneCalls int
	createCalls   int
}

func newMemTable(name string) *memTable {
	return &memTable{name: name}
}

func (m *memTable) Name() string { return m.name }

func (m *memTable) Bind(s *schema.Schema) { m.schema = s }

func (m *memTable) FindIndex(fields []string) *schema.Index {
	return schema.FindIndex(m.schema.Indexes(), fields)
}

func (m *memTable) Create(ctx context.Context, data schema.Item) (schema.Item, error) {
	m.createCalls++
	m.items = append(m.items, cloneItem(data))
	return data, nil
}

func (m *memTable) Update(ctx context.Context, current schema.Item, data schema.Item) *schema.Response {
	for i, item := range m.items {
		if !reflect.DeepEqual(item, current) {
			continue
		}
		merged := cloneItem(item)
		changed := false
		for name, value := range data {
			if !reflect.DeepEqual(merged[name], value) {
				changed = true
			}
			merged[name] = value
		}
		m.items[i] = merged
		if !changed {
			return schema.Accepted(merged)
		}
		return schema.OK(merged)
	}
	return schema.NotFound()
}

func (m *memTable) Delete(ctx context.Context, item schema.Item) *schema.Response {
	for i, existing := range m.items {
		if reflect.DeepEqual(existing, item) {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return schema.OK(nil)
		}
	}
	return schema.NotFound()
}

func (m *memTable) Fetch(ctx context.Context, query schema.Query, opts schema.FetchOptions) *schema.Response {
	m.fetchCalls++

	for field, cond := range query {
		if cond.Op == schema.OpIn {
			var items []schema.Item
			for _, value := range cond.Values {
				found := m.FetchOne(ctx, schema.Query{field: schema.Equal(value)})
				if found.Success() {
					items = append(items, found.Item)
				}
			}
			if len(items) == 0 {
				return schema.NotFound()
			}
			return schema.OKList(items)
		}
	}

	var items []schema.Item
	for _, item := range m.items {
		if matches(item, query) {
			items = append(items, cloneItem(item))
			if opts.Limit > 0 && int32(len(items)) == opts.Limit {
				break
			}
		}
	}
	if len(items) == 0 {
		return schema.NotFound()
	}
	return schema.OKList(items)
}

func (m *memTable) FetchOne(ctx context.Context, query schema.Query) *schema.Response {
	m.fetchOneCalls++
	for _, item := range m.items {
		if matches(item, query) {
			return schema.OK(cloneItem(item))
		}
	}
	return schema.NotFound()
}

func (m *memTable) CreateTable(ctx context.Context) error { return nil }

func (m *memTable) Copy() schema.Table { return newMemTable(m.name) }

func matches(item schema.Item, query schema.Query) bool {
	for field, cond := range query {
		value, ok := item[field]
		if !ok {
			return false
		}
		switch cond.Op {
		case schema.OpEqual:
			if !reflect.DeepEqual(value, cond.Value()) {
				return false
			}
		case schema.OpExclude:
			if reflect.DeepEqual(value, cond.Value()) {
				return false
			}
		case schema.OpGreaterThan:
			if compare(value, cond.Value()) <= 0 {
				return false
			}
		case schema.OpSmallerThan:
			if compare(value, cond.Value()) >= 0 {
				return false
			}
		case schema.OpBetween:
			if compare(value, cond.Values[0]) < 0 || compare(value, cond.Values[1]) > 0 {
				return false
			}
		case schema.OpContains:
			s, ok := value.(string)
			sub, okSub := cond.Value().(string)
			if !ok || !okSub || !strings.Contains(s, sub) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	if af, aok := asFloat(a); aok {
		bf, _ := asFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneItem(item schema.Item) schema.Item {
	clone := make(schema.Item, len(item))
	for name, value := range item {
		clone[name] = value
	}
	return clone
}
