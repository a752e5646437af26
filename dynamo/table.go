// Package dynamo implements the schema.Table port on DynamoDB.
//
// Queries on a matching index translate to Query calls with a key condition
// expression; everything else falls back to a Scan with a filter expression.
// All attribute names go through expression placeholders, so reserved
// DynamoDB keywords are safe as field names.
package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/schema"
)

// API is the subset of the DynamoDB client the adapter drives. The concrete
// *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Table adapts one DynamoDB table to the schema engine.
type Table struct {
	name   string
	client API

	schema  *schema.Schema
	indexes []schema.Index
	byName  map[string]schema.Index

	hashKey  string
	rangeKey string
}

// New creates a Table over a DynamoDB client. The table is inert until a
// schema binds to it.
func New(client API, name string) *Table {
	return &Table{
		name:   name,
		client: client,
		byName: make(map[string]schema.Index),
	}
}

// Name returns the DynamoDB table name.
func (t *Table) Name() string { return t.name }

// Bind registers the owning schema and snapshots its index declarations.
func (t *Table) Bind(s *schema.Schema) {
	t.schema = s
	t.indexes = s.Indexes()
	t.byName = make(map[string]schema.Index, len(t.indexes))
	for _, index := range t.indexes {
		if index.Type == schema.Primary {
			t.hashKey = index.HashKey
			t.rangeKey = index.RangeKey
		}
		t.byName[index.Name] = index
	}
}

// FindIndex selects the index matching the query's exact field-name set.
func (t *Table) FindIndex(fields []string) *schema.Index {
	return schema.FindIndex(t.indexes, fields)
}

// Copy returns a disconnected duplicate over the same client and table.
func (t *Table) Copy() schema.Table {
	return New(t.client, t.name)
}

// Create persists a record with PutItem and returns it.
func (t *Table) Create(ctx context.Context, data schema.Item) (schema.Item, error) {
	item, err := attributevalue.MarshalMap(map[string]any(data))
	if err != nil {
		return nil, fmt.Errorf("dynamo: marshal item: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo: put item: %w", err)
	}
	return data, nil
}

// Update applies data to current with an UpdateItem SET expression. Key
// attributes are never part of the expression; when nothing else remains,
// the record exists but has no changes to write, and the response is
// Accepted.
func (t *Table) Update(ctx context.Context, current schema.Item, data schema.Item) *schema.Response {
	merged := make(schema.Item, len(current)+len(data))
	for name, value := range current {
		merged[name] = value
	}

	var clauses []string
	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)

	i := 0
	for _, field := range sortedKeys(data) {
		merged[field] = data[field]
		if field == t.hashKey || field == t.rangeKey {
			continue
		}

		av, err := attributevalue.Marshal(data[field])
		if err != nil {
			return schema.Fail(fmt.Errorf("dynamo: marshal %s: %w", field, err))
		}
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		names[nameKey] = field
		values[valueKey] = av
		clauses = append(clauses, nameKey+" = "+valueKey)
		i++
	}

	if len(clauses) == 0 {
		return schema.Accepted(merged)
	}

	key, err := t.keyFor(merged)
	if err != nil {
		return schema.Fail(err)
	}

	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          aws.String("SET " + strings.Join(clauses, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return schema.Fail(fmt.Errorf("dynamo: update item: %w", err))
	}
	return schema.OK(merged)
}

// Delete removes the record with DeleteItem.
func (t *Table) Delete(ctx context.Context, item schema.Item) *schema.Response {
	key, err := t.keyFor(item)
	if err != nil {
		return schema.Fail(err)
	}

	_, err = t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return schema.Fail(fmt.Errorf("dynamo: delete item: %w", err))
	}
	return schema.OK(nil)
}

// Fetch returns every record matching the query.
//
// A membership condition fans out to one FetchOne per value. Otherwise the
// query runs as a DynamoDB Query when an index covers it and every condition
// pushes down as a key condition, and as a filtered Scan when not.
func (t *Table) Fetch(ctx context.Context, query schema.Query, opts schema.FetchOptions) *schema.Response {
	for field, cond := range query {
		if cond.Op == schema.OpIn {
			return t.fetchMany(ctx, field, cond.Values)
		}
	}

	var index *schema.Index
	if opts.IndexName != "" {
		named, ok := t.byName[opts.IndexName]
		if !ok {
			return schema.Fail(fmt.Errorf("dynamo: unknown index %q", opts.IndexName))
		}
		index = &named
	} else {
		index = t.FindIndex(sortedKeys(query))
	}

	expr, err := buildExpression(query)
	if err != nil {
		return schema.Fail(err)
	}

	var raw []map[string]types.AttributeValue
	if index != nil && expr.keyable {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(t.name),
			KeyConditionExpression:    aws.String(expr.condition),
			ExpressionAttributeNames:  expr.names,
			ExpressionAttributeValues: expr.values,
			ScanIndexForward:          aws.Bool(opts.Sort != schema.SortDescending),
		}
		if index.Name != "" {
			input.IndexName = aws.String(index.Name)
		}
		if opts.Limit > 0 {
			input.Limit = aws.Int32(opts.Limit)
		}

		out, err := t.client.Query(ctx, input)
		if err != nil {
			return schema.Fail(fmt.Errorf("dynamo: query: %w", err))
		}
		raw = out.Items
	} else {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(t.name),
			FilterExpression:          aws.String(expr.condition),
			ExpressionAttributeNames:  expr.names,
			ExpressionAttributeValues: expr.values,
		}
		if opts.Limit > 0 {
			input.Limit = aws.Int32(opts.Limit)
		}

		out, err := t.client.Scan(ctx, input)
		if err != nil {
			return schema.Fail(fmt.Errorf("dynamo: scan: %w", err))
		}
		raw = out.Items
	}

	if len(raw) == 0 {
		return schema.NotFound()
	}

	items := make([]schema.Item, len(raw))
	for i, attrs := range raw {
		item, err := unmarshalItem(attrs)
		if err != nil {
			return schema.Fail(err)
		}
		items[i] = item
	}
	return schema.OKList(items)
}

// fetchMany resolves a membership condition as one lookup per value, in
// value order, concatenating the hits. Misses are skipped; the aggregate is
// NotFound only when every value missed.
func (t *Table) fetchMany(ctx context.Context, field string, values []any) *schema.Response {
	var items []schema.Item
	for _, value := range values {
		found := t.FetchOne(ctx, schema.Query{field: schema.Equal(value)})
		if !found.Success() {
			continue
		}
		items = append(items, found.Item)
	}
	if len(items) == 0 {
		return schema.NotFound()
	}
	return schema.OKList(items)
}

// FetchOne returns the single record matching the query.
//
// When the query is exactly the primary hash (and range, if declared) with
// equality conditions, a GetItem point read answers it. Anything else runs
// through Fetch with a limit of one.
func (t *Table) FetchOne(ctx context.Context, query schema.Query) *schema.Response {
	required := 1
	hashCond, hasHash := query[t.hashKey]
	rangeCond, hasRange := query[t.rangeKey]
	if t.rangeKey == "" {
		hasRange = false
	}
	if hasRange {
		required = 2
	}

	if len(query) == required && hasHash && pointRead(query) {
		key := make(map[string]types.AttributeValue, required)
		av, err := attributevalue.Marshal(hashCond.Value())
		if err != nil {
			return schema.Fail(fmt.Errorf("dynamo: marshal %s: %w", t.hashKey, err))
		}
		key[t.hashKey] = av

		if hasRange {
			av, err := attributevalue.Marshal(rangeCond.Value())
			if err != nil {
				return schema.Fail(fmt.Errorf("dynamo: marshal %s: %w", t.rangeKey, err))
			}
			key[t.rangeKey] = av
		}

		out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(t.name),
			Key:       key,
		})
		if err != nil {
			return schema.NotFound()
		}
		if out.Item != nil {
			item, err := unmarshalItem(out.Item)
			if err != nil {
				return schema.Fail(err)
			}
			return schema.OK(item)
		}
	}

	resp := t.Fetch(ctx, query, schema.FetchOptions{Limit: 1})
	if resp.Success() && len(resp.Items) == 1 {
		return schema.OK(resp.Items[0])
	}
	if resp.Status == schema.StatusError {
		return resp
	}
	return schema.NotFound()
}

// keyFor extracts the primary key attributes from a record.
func (t *Table) keyFor(item schema.Item) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, 2)
	for _, name := range []string{t.hashKey, t.rangeKey} {
		if name == "" {
			continue
		}
		value, ok := item[name]
		if !ok || value == nil {
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("dynamo: marshal %s: %w", name, err)
		}
		key[name] = av
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("dynamo: item carries no key attribute for table %s", t.name)
	}
	return key, nil
}

// pointRead reports whether every condition is an equality, the only shape
// a GetItem key accepts.
func pointRead(query schema.Query) bool {
	for _, cond := range query {
		if cond.Op != schema.OpEqual {
			return false
		}
	}
	return true
}

// unmarshalItem converts raw DynamoDB attributes into an engine record.
func unmarshalItem(attrs map[string]types.AttributeValue) (schema.Item, error) {
	var item map[string]any
	if err := attributevalue.UnmarshalMap(attrs, &item); err != nil {
		return nil, fmt.Errorf("dynamo: unmarshal item: %w", err)
	}
	return schema.Item(item), nil
}

// sortedKeys returns map keys in a stable order so built expressions are
// deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
