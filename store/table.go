package store

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/keystone/schema"
)

// EnsureTable creates the table and both GSIs if the table does not exist.
// Safe to call repeatedly. It does not wait for the table to become active;
// use WaitForTable for that.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.TableName),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return operational("DescribeTable", err)
	}

	_, err = s.client.CreateTable(ctx, s.TableDefinition())
	if err != nil {
		// Created concurrently by another caller.
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return operational("CreateTable", err)
	}
	return nil
}

// WaitForTable blocks until the table is ACTIVE or maxWait elapses.
func (s *Store) WaitForTable(ctx context.Context, maxWait time.Duration) error {
	waiter := dynamodb.NewTableExistsWaiter(s.client)
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.TableName),
	}, maxWait)
	if err != nil {
		return operational("DescribeTable", err)
	}
	return nil
}

// TableDefinition returns the CreateTable request for the single-table layout:
// (PK, SK) primary key, the email index on (GSI1PK, GSI1SK) and the seller
// status index on (GSI2PK, GSI2SK), all on-demand with full projection.
func (s *Store) TableDefinition() *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(s.config.TableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(schema.AttrPK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.AttrSK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.AttrGSI1PK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.AttrGSI1SK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.AttrGSI2PK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(schema.AttrGSI2SK), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: keySchema(schema.AttrPK, schema.AttrSK),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(s.config.EmailIndex, schema.AttrGSI1PK, schema.AttrGSI1SK),
			gsi(s.config.StatusIndex, schema.AttrGSI2PK, schema.AttrGSI2SK),
		},
	}
}

func gsi(name, hashKey, rangeKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(name),
		KeySchema:  keySchema(hashKey, rangeKey),
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func keySchema(hashKey, rangeKey string) []types.KeySchemaElement {
	return []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		{AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange},
	}
}
