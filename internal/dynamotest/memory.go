// Package dynamotest provides an in-memory stand-in for the DynamoDB calls
// made by package store. It understands exactly the expressions the store
// builds: attribute_not_exists on put, and "#k = :v" optionally combined with
// "begins_with (#k, :v)" on query. Queries page by Limit or PageSize and
// resume from ExclusiveStartKey.
package dynamotest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	equalExpr      = regexp.MustCompile(`(#\w+)\s*=\s*(:\w+)`)
	beginsWithExpr = regexp.MustCompile(`begins_with\s*\(\s*(#\w+)\s*,\s*(:\w+)\s*\)`)
)

// Memory is a single-table in-memory DynamoDB. Items are keyed by PK and SK.
// It is safe for concurrent use; conditional puts are atomic.
type Memory struct {
	// Fail, if set, is consulted before every call with the operation name.
	// A non-nil result is returned as the call's error.
	Fail func(op string) error

	// PageSize caps the items returned by one Query when the request sets no
	// Limit. Zero means unlimited. A truncated page carries LastEvaluatedKey.
	PageSize int

	mu      sync.Mutex
	items   map[string]map[string]types.AttributeValue
	tables  map[string]*dynamodb.CreateTableInput
	puts    int
	queries []*dynamodb.QueryInput
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		items:  make(map[string]map[string]types.AttributeValue),
		tables: make(map[string]*dynamodb.CreateTableInput),
	}
}

// Len returns the number of stored items.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Puts returns the number of PutItem calls that reached the table.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Queries returns the inputs of every Query call so far.
func (m *Memory) Queries() []*dynamodb.QueryInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*dynamodb.QueryInput(nil), m.queries...)
}

// Raw returns the stored attribute map at (pk, sk), or nil.
func (m *Memory) Raw(pk, sk string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[itemKey(pk, sk)]
}

// Seed stores an attribute map unconditionally.
func (m *Memory) Seed(item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemKey(str(item, "PK"), str(item, "SK"))] = item
}

func (m *Memory) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if err := m.fail("PutItem"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++

	key := itemKey(str(params.Item, "PK"), str(params.Item, "SK"))
	if params.ConditionExpression != nil {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{
				Message: aws.String("The conditional request failed"),
			}
		}
	}

	m.items[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (m *Memory) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := m.fail("GetItem"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemKey(str(params.Key, "PK"), str(params.Key, "SK"))]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (m *Memory) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if err := m.fail("Query"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, params)

	cond := aws.ToString(params.KeyConditionExpression)
	eq := equalExpr.FindStringSubmatch(cond)
	if eq == nil {
		return nil, fmt.Errorf("dynamotest: unsupported key condition %q", cond)
	}
	hashAttr := params.ExpressionAttributeNames[eq[1]]
	hashValue := valueStr(params.ExpressionAttributeValues[eq[2]])

	var rangeAttr, prefix string
	if bw := beginsWithExpr.FindStringSubmatch(cond); bw != nil {
		rangeAttr = params.ExpressionAttributeNames[bw[1]]
		prefix = valueStr(params.ExpressionAttributeValues[bw[2]])
	}

	var matched []map[string]types.AttributeValue
	for _, item := range m.items {
		if str(item, hashAttr) != hashValue {
			continue
		}
		if rangeAttr != "" && !strings.HasPrefix(str(item, rangeAttr), prefix) {
			continue
		}
		matched = append(matched, copyItem(item))
	}

	sortAttr := "SK"
	if rangeAttr != "" {
		sortAttr = rangeAttr
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if str(a, sortAttr) != str(b, sortAttr) {
			return str(a, sortAttr) < str(b, sortAttr)
		}
		return itemKey(str(a, "PK"), str(a, "SK")) < itemKey(str(b, "PK"), str(b, "SK"))
	})

	if start := params.ExclusiveStartKey; start != nil {
		startKey := itemKey(str(start, "PK"), str(start, "SK"))
		for i, item := range matched {
			if itemKey(str(item, "PK"), str(item, "SK")) == startKey {
				matched = matched[i+1:]
				break
			}
		}
	}

	pageSize := m.PageSize
	if params.Limit != nil {
		pageSize = int(*params.Limit)
	}
	out := &dynamodb.QueryOutput{}
	if pageSize > 0 && pageSize < len(matched) {
		matched = matched[:pageSize]
		last := matched[len(matched)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": last["PK"],
			"SK": last["SK"],
		}
		if hashAttr != "PK" {
			out.LastEvaluatedKey[hashAttr] = last[hashAttr]
			if v, ok := last[sortAttr]; ok {
				out.LastEvaluatedKey[sortAttr] = v
			}
		}
	}
	out.Items = matched
	out.Count = int32(len(matched))
	return out, nil
}

func (m *Memory) DescribeTable(_ context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if err := m.fail("DescribeTable"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(params.TableName)
	if _, ok := m.tables[name]; !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String("Requested resource not found: Table: " + name + " not found"),
		}
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   aws.String(name),
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

func (m *Memory) CreateTable(_ context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if err := m.fail("CreateTable"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(params.TableName)
	if _, ok := m.tables[name]; ok {
		return nil, &types.ResourceInUseException{
			Message: aws.String("Table already exists: " + name),
		}
	}
	m.tables[name] = params
	return &dynamodb.CreateTableOutput{}, nil
}

// Table returns the CreateTable input recorded for name, or nil.
func (m *Memory) Table(name string) *dynamodb.CreateTableInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[name]
}

func (m *Memory) fail(op string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(op)
}

func itemKey(pk, sk string) string {
	return pk + "\x00" + sk
}

func str(item map[string]types.AttributeValue, name string) string {
	return valueStr(item[name])
}

func valueStr(v types.AttributeValue) string {
	if s, ok := v.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
