package schema_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/keystone/schema"
)

func stringValue(t *testing.T, av map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := av[name].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("expected string attribute %q, got %T", name, av[name])
	}
	return v.Value
}

func TestEncode_Profile(t *testing.T) {
	profile := &schema.Profile{
		UserID:      "u1",
		Email:       "jane@co.com",
		DisplayName: "Jane Doe",
		Roles:       []string{schema.RoleBuyer},
		CreatedAt:   "2024-01-01T00:00:00.000Z",
		UpdatedAt:   "2024-01-01T00:00:00.000Z",
	}

	av, err := schema.Encode(profile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := map[string]string{
		"PK":          "USER#u1",
		"SK":          "PROFILE",
		"GSI1PK":      "EMAIL#jane@co.com",
		"GSI1SK":      "USER#u1",
		"Type":        "USER",
		"userID":      "u1",
		"email":       "jane@co.com",
		"displayName": "Jane Doe",
		"createdAt":   "2024-01-01T00:00:00.000Z",
		"updatedAt":   "2024-01-01T00:00:00.000Z",
	}
	for name, want := range expected {
		if got := stringValue(t, av, name); got != want {
			t.Errorf("expected %s %q, got %q", name, want, got)
		}
	}

	roles, ok := av["roles"].(*types.AttributeValueMemberL)
	if !ok {
		t.Fatalf("expected roles to be a list, got %T", av["roles"])
	}
	if len(roles.Value) != 1 {
		t.Fatalf("expected 1 role, got %d", len(roles.Value))
	}
	if r, ok := roles.Value[0].(*types.AttributeValueMemberS); !ok || r.Value != "buyer" {
		t.Errorf("expected role 'buyer', got %v", roles.Value[0])
	}

	if _, ok := av["GSI2PK"]; ok {
		t.Error("expected profile to have no GSI2PK")
	}
}

func TestEncode_SellerApplication(t *testing.T) {
	app := schema.NewSellerApplication("u1", schema.SellerStatusSubmitted, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	av, err := schema.Encode(app)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := stringValue(t, av, "SK"); got != "SELLER_APP#2024-05-01T12:00:00.000Z" {
		t.Errorf("expected SK 'SELLER_APP#2024-05-01T12:00:00.000Z', got %q", got)
	}
	if got := stringValue(t, av, "GSI2PK"); got != "SELLER_STATUS#submitted" {
		t.Errorf("expected GSI2PK 'SELLER_STATUS#submitted', got %q", got)
	}
	if got := stringValue(t, av, "GSI2SK"); got != "USER#u1" {
		t.Errorf("expected GSI2SK 'USER#u1', got %q", got)
	}
	if got := stringValue(t, av, "Type"); got != "SELLER_APP" {
		t.Errorf("expected Type 'SELLER_APP', got %q", got)
	}
}

func TestEncode_UserEvent(t *testing.T) {
	event := schema.NewUserEvent("u1", "profile.created", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), nil)

	av, err := schema.Encode(event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := stringValue(t, av, "SK"); got != "EVENT#2024-05-01T12:00:00.000Z" {
		t.Errorf("expected SK 'EVENT#2024-05-01T12:00:00.000Z', got %q", got)
	}
	if got := stringValue(t, av, "Type"); got != "USER_EVENT" {
		t.Errorf("expected Type 'USER_EVENT', got %q", got)
	}
	for _, name := range []string{"GSI1PK", "GSI2PK"} {
		if _, ok := av[name]; ok {
			t.Errorf("expected event to have no %s", name)
		}
	}
}

func TestDecode_RoundTripsVariants(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []schema.Item{
		&schema.Profile{UserID: "u1", Email: "a@b.c", DisplayName: "a", Roles: []string{"buyer"}},
		schema.NewSellerApplication("u1", schema.SellerStatusDraft, at),
		schema.NewUserEvent("u1", "login", at, map[string]string{"ip": "10.0.0.1"}),
	}

	for _, item := range items {
		t.Run(string(item.ItemType()), func(t *testing.T) {
			av, err := schema.Encode(item)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			decoded, err := schema.Decode(av)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if decoded.ItemType() != item.ItemType() {
				t.Errorf("expected type %q, got %q", item.ItemType(), decoded.ItemType())
			}
			if decoded.PrimaryKey() != item.PrimaryKey() {
				t.Errorf("expected key %+v, got %+v", item.PrimaryKey(), decoded.PrimaryKey())
			}
		})
	}
}

func TestDecode_DiscriminatorWinsOverKeyShape(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "USER#u1"},
		"SK":     &types.AttributeValueMemberS{Value: "PROFILE"},
		"Type":   &types.AttributeValueMemberS{Value: "USER_EVENT"},
		"userID": &types.AttributeValueMemberS{Value: "u1"},
		"action": &types.AttributeValueMemberS{Value: "migrated"},
	}

	item, err := schema.Decode(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	event, ok := item.(*schema.UserEvent)
	if !ok {
		t.Fatalf("expected *schema.UserEvent, got %T", item)
	}
	if event.Action != "migrated" {
		t.Errorf("expected action 'migrated', got %q", event.Action)
	}
}

func TestDecode_FallsBackToKeyShape(t *testing.T) {
	tests := []struct {
		sk       string
		expected schema.ItemType
	}{
		{"PROFILE", schema.TypeUser},
		{"SELLER_APP#2024-01-01T00:00:00.000Z", schema.TypeSellerApp},
		{"EVENT#2024-01-01T00:00:00.000Z", schema.TypeUserEvent},
	}

	for _, tt := range tests {
		t.Run(tt.sk, func(t *testing.T) {
			raw := map[string]types.AttributeValue{
				"PK":     &types.AttributeValueMemberS{Value: "USER#u1"},
				"SK":     &types.AttributeValueMemberS{Value: tt.sk},
				"userID": &types.AttributeValueMemberS{Value: "u1"},
			}
			item, err := schema.Decode(raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if item.ItemType() != tt.expected {
				t.Errorf("expected type %q, got %q", tt.expected, item.ItemType())
			}
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]types.AttributeValue
	}{
		{
			name: "unknown discriminator",
			raw: map[string]types.AttributeValue{
				"Type": &types.AttributeValueMemberS{Value: "ORDER"},
			},
		},
		{
			name: "no discriminator and unknown key shape",
			raw: map[string]types.AttributeValue{
				"SK": &types.AttributeValueMemberS{Value: "CART#1"},
			},
		},
		{
			name: "empty item",
			raw:  map[string]types.AttributeValue{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Decode(tt.raw)
			if !errors.Is(err, schema.ErrUnknownType) {
				t.Errorf("expected ErrUnknownType, got %v", err)
			}
		})
	}
}

func TestProfileHasRole(t *testing.T) {
	p := &schema.Profile{Roles: []string{schema.RoleBuyer}}
	if !p.HasRole(schema.RoleBuyer) {
		t.Error("expected profile to have buyer role")
	}
	if p.HasRole(schema.RoleSeller) {
		t.Error("expected profile not to have seller role")
	}
}
