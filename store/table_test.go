package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/keystone/store"
)

func TestTableDefinition(t *testing.T) {
	s, _ := newTestStore(t)
	def := s.TableDefinition()

	if aws.ToString(def.TableName) != "identity-test" {
		t.Errorf("expected table 'identity-test', got %q", aws.ToString(def.TableName))
	}
	if def.BillingMode != types.BillingModePayPerRequest {
		t.Errorf("expected on-demand billing, got %q", def.BillingMode)
	}
	if len(def.KeySchema) != 2 || aws.ToString(def.KeySchema[0].AttributeName) != "PK" || aws.ToString(def.KeySchema[1].AttributeName) != "SK" {
		t.Errorf("expected key schema (PK, SK), got %+v", def.KeySchema)
	}

	expected := map[string][2]string{
		"GSI1": {"GSI1PK", "GSI1SK"},
		"GSI2": {"GSI2PK", "GSI2SK"},
	}
	if len(def.GlobalSecondaryIndexes) != len(expected) {
		t.Fatalf("expected %d GSIs, got %d", len(expected), len(def.GlobalSecondaryIndexes))
	}
	for _, idx := range def.GlobalSecondaryIndexes {
		keys, ok := expected[aws.ToString(idx.IndexName)]
		if !ok {
			t.Errorf("unexpected index %q", aws.ToString(idx.IndexName))
			continue
		}
		if aws.ToString(idx.KeySchema[0].AttributeName) != keys[0] || aws.ToString(idx.KeySchema[1].AttributeName) != keys[1] {
			t.Errorf("index %s: expected keys %v, got %+v", aws.ToString(idx.IndexName), keys, idx.KeySchema)
		}
		if idx.Projection.ProjectionType != types.ProjectionTypeAll {
			t.Errorf("index %s: expected ALL projection, got %q", aws.ToString(idx.IndexName), idx.Projection.ProjectionType)
		}
	}
}

func TestEnsureTable_CreatesOnce(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureTable(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mem.Table("identity-test") == nil {
		t.Fatal("expected table to be created")
	}

	// Second call finds the table and does nothing.
	if err := s.EnsureTable(ctx); err != nil {
		t.Fatalf("expected no error on second call, got %v", err)
	}
}

func TestEnsureTable_DescribeFailure(t *testing.T) {
	s, mem := newTestStore(t)
	mem.Fail = func(op string) error {
		if op == "DescribeTable" {
			return errors.New("network unreachable")
		}
		return nil
	}

	err := s.EnsureTable(context.Background())
	if !store.IsOperational(err) {
		t.Errorf("expected operational error, got %v", err)
	}
	if mem.Table("identity-test") != nil {
		t.Error("expected no table to be created")
	}
}

func TestEnsureTable_ConcurrentCreate(t *testing.T) {
	s, mem := newTestStore(t)
	mem.Fail = func(op string) error {
		if op == "CreateTable" {
			return &types.ResourceInUseException{Message: aws.String("Table already exists")}
		}
		return nil
	}

	if err := s.EnsureTable(context.Background()); err != nil {
		t.Errorf("expected concurrent creation to be tolerated, got %v", err)
	}
}

func TestWaitForTable(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureTable(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := s.WaitForTable(ctx, 30*time.Second); err != nil {
		t.Errorf("expected table to be active, got %v", err)
	}
}
