package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/schema"
)

// CreateTable provisions the DynamoDB table from the bound schema: attribute
// definitions derived from the indexed fields' kinds, the primary key
// schema, and any local or global secondary indexes with their capacity.
func (t *Table) CreateTable(ctx context.Context) error {
	if t.schema == nil {
		return errors.New("dynamo: table is not bound to a schema")
	}

	var (
		attrs      []types.AttributeDefinition
		keySchema  []types.KeySchemaElement
		locals     []types.LocalSecondaryIndex
		globals    []types.GlobalSecondaryIndex
		throughput *types.ProvisionedThroughput
	)
	seen := make(map[string]bool)

	defineAttr := func(name string) error {
		if name == "" || seen[name] {
			return nil
		}
		field, ok := t.schema.Fields()[name]
		if !ok {
			return fmt.Errorf("dynamo: index key %q is not a declared field", name)
		}
		kind, err := attributeType(field.Kind)
		if err != nil {
			return err
		}
		seen[name] = true
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: kind,
		})
		return nil
	}

	for _, index := range t.schema.Indexes() {
		if err := defineAttr(index.HashKey); err != nil {
			return err
		}
		if err := defineAttr(index.RangeKey); err != nil {
			return err
		}

		elements := []types.KeySchemaElement{{
			AttributeName: aws.String(index.HashKey),
			KeyType:       types.KeyTypeHash,
		}}
		if index.RangeKey != "" {
			elements = append(elements, types.KeySchemaElement{
				AttributeName: aws.String(index.RangeKey),
				KeyType:       types.KeyTypeRange,
			})
		}

		capacity := &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(index.ReadCapacity),
			WriteCapacityUnits: aws.Int64(index.WriteCapacity),
		}

		switch index.Type {
		case schema.Primary:
			keySchema = elements
			throughput = capacity
		case schema.Local:
			locals = append(locals, types.LocalSecondaryIndex{
				IndexName:  aws.String(index.Name),
				KeySchema:  elements,
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			})
		case schema.Global:
			globals = append(globals, types.GlobalSecondaryIndex{
				IndexName:             aws.String(index.Name),
				KeySchema:             elements,
				Projection:            &types.Projection{ProjectionType: types.ProjectionTypeAll},
				ProvisionedThroughput: capacity,
			})
		}
	}

	if keySchema == nil {
		return errors.New("dynamo: schema declares no primary index")
	}

	input := &dynamodb.CreateTableInput{
		TableName:             aws.String(t.name),
		AttributeDefinitions:  attrs,
		KeySchema:             keySchema,
		ProvisionedThroughput: throughput,
	}
	if len(locals) > 0 {
		input.LocalSecondaryIndexes = locals
	}
	if len(globals) > 0 {
		input.GlobalSecondaryIndexes = globals
	}

	if _, err := t.client.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("dynamo: create table %s: %w", t.name, err)
	}
	return nil
}

// attributeType maps a field kind to the DynamoDB scalar type usable as a
// key attribute.
func attributeType(kind schema.Kind) (types.ScalarAttributeType, error) {
	switch kind {
	case schema.String:
		return types.ScalarAttributeTypeS, nil
	case schema.Int, schema.Float:
		return types.ScalarAttributeTypeN, nil
	case schema.Bool:
		return "", errors.New("dynamo: bool fields cannot be index keys")
	}
	return "", fmt.Errorf("dynamo: kind %s cannot be an index key", kind)
}
