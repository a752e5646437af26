// Package schema provides a validation and query-translation layer for
// key-value stores with hash/range keys and secondary indexes.
//
// Lattice sits in front of a storage backend (DynamoDB out of the box, see
// the dynamo package) and lets an application declare the shape of a record
// once: named typed fields, which field combinations must stay unique, and
// which derived data can be attached to a fetched record.
//
// # Key Features
//
//   - Typed field validation with per-field error reporting
//   - Query operator algebra (equal, range, membership, interval)
//   - Unique-index enforcement on create and update
//   - Index selection for fetch, with full-scan fallback
//   - Concurrent decoration of fetched records via named extensions
//
// # Defining a schema
//
// A Schema owns one Table, an ordered set of indexes, and a field map:
//
//	users := schema.New(table,
//	    []schema.Index{
//	        {Type: schema.Primary, HashKey: "id"},
//	        {Type: schema.Global, Name: "by_username", HashKey: "username", Unique: true},
//	    },
//	    map[string]schema.Field{
//	        "id":       {Kind: schema.String, Required: true},
//	        "username": {Kind: schema.String, Required: true},
//	        "fullname": {Kind: schema.String},
//	    })
//
// Records are then created, updated, and fetched through the Schema, which
// validates input, enforces uniqueness, and translates query operators before
// delegating to the Table:
//
//	resp := users.Create(ctx, map[string]any{"id": "30", "username": "michael"})
//	resp = users.FetchOne(ctx, schema.Query{"username": schema.Equal("michael")})
//
// # Extensions
//
// Extensions enrich a fetched record with computed sub-objects. Each
// registered extension runs concurrently during decoration and its return
// value is merged into the record under the extension's own name:
//
//	users.Extension("stats", func(ctx context.Context, item schema.Item, fields []string, extra map[string]any) (any, error) {
//	    return loadStats(ctx, item["id"]), nil
//	})
//
// # Consistency
//
// Uniqueness enforcement is a check-then-act sequence: the engine reads each
// unique index before writing. Two concurrent writers racing on the same key
// can both pass the check; the engine does not take locks or conditional
// writes on its own, so backends needing stronger guarantees must provide
// them in their Table implementation.
package schema
