package dynamo_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/dynamo"
	"github.com/jacentio/lattice/schema"
)

// fakeClient records every call and replays canned outputs.
type fakeClient struct {
	getItemIn  []*dynamodb.GetItemInput
	getItemOut *dynamodb.GetItemOutput
	getItemErr error

	putItemIn  []*dynamodb.PutItemInput
	putItemErr error

	updateItemIn  []*dynamodb.UpdateItemInput
	updateItemErr error

	deleteItemIn  []*dynamodb.DeleteItemInput
	deleteItemErr error

	queryIn  []*dynamodb.QueryInput
	queryOut *dynamodb.QueryOutput
	queryErr error

	scanIn  []*dynamodb.ScanInput
	scanOut *dynamodb.ScanOutput
	scanErr error

	createTableIn  []*dynamodb.CreateTableInput
	createTableErr error
}

func (f *fakeClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getItemIn = append(f.getItemIn, params)
	if f.getItemErr != nil {
		return nil, f.getItemErr
	}
	if f.getItemOut != nil {
		return f.getItemOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putItemIn = append(f.putItemIn, params)
	if f.putItemErr != nil {
		return nil, f.putItemErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateItemIn = append(f.updateItemIn, params)
	if f.updateItemErr != nil {
		return nil, f.updateItemErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteItemIn = append(f.deleteItemIn, params)
	if f.deleteItemErr != nil {
		return nil, f.deleteItemErr
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryIn = append(f.queryIn, params)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.queryOut != nil {
		return f.queryOut, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanIn = append(f.scanIn, params)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if f.scanOut != nil {
		return f.scanOut, nil
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.createTableIn = append(f.createTableIn, params)
	if f.createTableErr != nil {
		return nil, f.createTableErr
	}
	return &dynamodb.CreateTableOutput{}, nil
}

// newUserTable binds a user schema over the fake client and returns both.
func newUserTable(t *testing.T) (*dynamo.Table, *fakeClient) {
	t.Helper()
	client := &fakeClient{}
	table := dynamo.New(client, "users")
	schema.New(table,
		[]schema.Index{
			{Type: schema.Primary, HashKey: "id", ReadCapacity: 5, WriteCapacity: 5},
			{Type: schema.Global, Name: "by_username", HashKey: "username", Unique: true, ReadCapacity: 2, WriteCapacity: 2},
		},
		map[string]schema.Field{
			"id":       {Kind: schema.String, Required: true},
			"username": {Kind: schema.String, Required: true},
			"age":      {Kind: schema.Int},
		})
	return table, client
}

func userAttrs(id, username string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":       &types.AttributeValueMemberS{Value: id},
		"username": &types.AttributeValueMemberS{Value: username},
	}
}
