package schema

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Encode flattens an item into the attribute map stored in the table,
// including its primary key, index keys and Type discriminator.
func Encode(item Item) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", item.ItemType(), err)
	}

	key := item.PrimaryKey()
	av[AttrPK] = &types.AttributeValueMemberS{Value: key.PK}
	av[AttrSK] = &types.AttributeValueMemberS{Value: key.SK}
	av[AttrType] = &types.AttributeValueMemberS{Value: string(item.ItemType())}
	for name, value := range item.indexAttrs() {
		av[name] = &types.AttributeValueMemberS{Value: value}
	}

	return av, nil
}

// Decode converts a stored attribute map into its item variant. The Type
// discriminator decides the variant; the sort key shape is consulted only
// when Type is missing.
func Decode(raw map[string]types.AttributeValue) (Item, error) {
	var item Item
	switch typeOf(raw) {
	case TypeUser:
		item = &Profile{}
	case TypeSellerApp:
		item = &SellerApplication{}
	case TypeUserEvent:
		item = &UserEvent{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, stringAttr(raw, AttrType))
	}

	if err := attributevalue.UnmarshalMap(raw, item); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", item.ItemType(), err)
	}
	return item, nil
}

// typeOf returns the item type from the discriminator, falling back to the
// sort key shape for items written without one.
func typeOf(raw map[string]types.AttributeValue) ItemType {
	if _, ok := raw[AttrType]; ok {
		return ItemType(stringAttr(raw, AttrType))
	}

	sk := stringAttr(raw, AttrSK)
	switch {
	case sk == ProfileSK:
		return TypeUser
	case strings.HasPrefix(sk, SellerAppPrefix):
		return TypeSellerApp
	case strings.HasPrefix(sk, EventPrefix):
		return TypeUserEvent
	}
	return ""
}

func stringAttr(raw map[string]types.AttributeValue, name string) string {
	if v, ok := raw[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
