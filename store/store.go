package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/keystone/schema"
)

// API is the subset of the DynamoDB client used by the Store.
// *dynamodb.Client satisfies it.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Store provides single-table DynamoDB operations for schema items.
// It is safe for concurrent use.
type Store struct {
	client API
	config Config
}

// New creates a new Store instance.
func New(client API, config Config) (*Store, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Store{
		client: client,
		config: config,
	}, nil
}

// Config returns the store configuration with defaults applied.
func (s *Store) Config() Config {
	return s.config
}

// PutIfAbsent creates item only if no item exists at its primary key.
// The check and the write are a single conditional PutItem.
//
// It returns nil when the item was created, ErrAlreadyExists when an item was
// already present (the existing item is left untouched), and an
// *OperationalError for any other DynamoDB failure.
func (s *Store) PutIfAbsent(ctx context.Context, item schema.Item) error {
	av, err := schema.Encode(item)
	if err != nil {
		return err
	}

	cond := expression.Name(schema.AttrPK).AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.config.TableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrAlreadyExists
		}
		return operational("PutItem", err)
	}
	return nil
}

// Get retrieves the item at key, returning ErrNotFound if missing.
func (s *Store) Get(ctx context.Context, key schema.Key) (schema.Item, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       key.AttributeValues(),
	})
	if err != nil {
		return nil, operational("GetItem", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return schema.Decode(result.Item)
}

// GetProfile retrieves a user's profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*schema.Profile, error) {
	item, err := s.Get(ctx, schema.UserProfileKey(userID))
	if err != nil {
		return nil, err
	}
	profile, ok := item.(*schema.Profile)
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", ErrWrongType, item.ItemType(), schema.UserPartition(userID))
	}
	return profile, nil
}

// FindProfileByEmail looks up a profile through the email index. The match is
// case-insensitive because index keys hold the lowercased email.
func (s *Store) FindProfileByEmail(ctx context.Context, email string) (*schema.Profile, error) {
	keyCond := expression.Key(schema.AttrGSI1PK).Equal(expression.Value(schema.EmailPartition(email)))

	items, err := s.query(ctx, s.config.EmailIndex, keyCond, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	profiles, err := ofType[*schema.Profile](items)
	if err != nil {
		return nil, err
	}
	return profiles[0], nil
}

// ListSellerApplicationsByStatus returns every seller application in the given
// status across all users.
func (s *Store) ListSellerApplicationsByStatus(ctx context.Context, status schema.SellerStatus) ([]*schema.SellerApplication, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", schema.ErrInvalidStatus, status)
	}

	keyCond := expression.Key(schema.AttrGSI2PK).Equal(expression.Value(schema.SellerStatusPartition(status)))

	items, err := s.query(ctx, s.config.StatusIndex, keyCond, 0)
	if err != nil {
		return nil, err
	}
	return ofType[*schema.SellerApplication](items)
}

// ListSellerApplications returns a user's seller applications, oldest first.
func (s *Store) ListSellerApplications(ctx context.Context, userID string) ([]*schema.SellerApplication, error) {
	items, err := s.queryUser(ctx, userID, schema.SellerAppPrefix)
	if err != nil {
		return nil, err
	}
	return ofType[*schema.SellerApplication](items)
}

// ListUserEvents returns a user's audit events, oldest first.
func (s *Store) ListUserEvents(ctx context.Context, userID string) ([]*schema.UserEvent, error) {
	items, err := s.queryUser(ctx, userID, schema.EventPrefix)
	if err != nil {
		return nil, err
	}
	return ofType[*schema.UserEvent](items)
}

// queryUser queries the user's partition for sort keys beginning with prefix.
func (s *Store) queryUser(ctx context.Context, userID, prefix string) ([]schema.Item, error) {
	keyCond := expression.Key(schema.AttrPK).Equal(expression.Value(schema.UserPartition(userID))).
		And(expression.Key(schema.AttrSK).BeginsWith(prefix))
	return s.query(ctx, "", keyCond, 0)
}

// query runs a key-condition query against the table or one of its indexes,
// following pages until exhausted or until limit items are collected.
func (s *Store) query(ctx context.Context, index string, keyCond expression.KeyConditionBuilder, limit int32) ([]schema.Item, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var items []schema.Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, operational("Query", err)
		}
		for _, raw := range page.Items {
			item, err := schema.Decode(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if limit > 0 && len(items) >= int(limit) {
			return items[:limit], nil
		}
	}

	return items, nil
}

// ofType narrows decoded items to a single variant.
func ofType[T schema.Item](items []schema.Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrWrongType, item.ItemType())
		}
		out = append(out, v)
	}
	return out, nil
}
