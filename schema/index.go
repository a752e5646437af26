package schema

// IndexType classifies an index the way hash/range stores do.
type IndexType int

const (
	// Primary is the table's own key. Exactly one per table, always unique.
	Primary IndexType = iota + 1

	// Local is a secondary index sharing the primary hash key space.
	Local

	// Global is a secondary index with its own hash key space.
	Global
)

// Index declares a lookup group of one hash key and an optional range key.
// Unique indexes are enforced by the schema on create and update; capacity
// values are only consulted at table-provisioning time.
//
// Indexes are declared once at schema-definition time and never mutated.
type Index struct {
	Type     IndexType
	Name     string
	HashKey  string
	RangeKey string
	Unique   bool

	ReadCapacity  int64
	WriteCapacity int64
}

// Keys returns the index's key names, hash key first.
func (i Index) Keys() []string {
	keys := []string{i.HashKey}
	if i.RangeKey != "" {
		keys = append(keys, i.RangeKey)
	}
	return keys
}

// IsUnique reports whether the index enforces uniqueness. The primary index
// is a key, so it is unique regardless of the flag.
func (i Index) IsUnique() bool {
	return i.Unique || i.Type == Primary
}

// FindIndex selects the index matching a query's field-name set, or nil when
// no index matches and the backend must fall back to a full scan.
//
// The match is exact: a two-field query matches only an index whose hash and
// range keys are those two fields (in either order), and a one-field query
// matches only on an index's hash key. Queries on any other field-name set
// never match.
func FindIndex(indexes []Index, fields []string) *Index {
	for _, index := range indexes {
		switch len(fields) {
		case 1:
			if index.HashKey == fields[0] {
				return &index
			}
		case 2:
			isHash := index.HashKey == fields[0] || index.HashKey == fields[1]
			isRange := index.RangeKey != "" &&
				(index.RangeKey == fields[0] || index.RangeKey == fields[1])
			if isHash && isRange {
				return &index
			}
		}
	}
	return nil
}
