package schema

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names shared by every item in the table.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
	AttrType   = "Type"
)

// Index names.
const (
	// IndexEmail projects user profiles by lowercased email (GSI1PK, GSI1SK).
	IndexEmail = "GSI1"

	// IndexSellerStatus projects seller applications by status (GSI2PK, GSI2SK).
	IndexSellerStatus = "GSI2"
)

// Key prefixes and fixed sort keys.
const (
	UserPrefix         = "USER#"
	EmailPrefix        = "EMAIL#"
	SellerAppPrefix    = "SELLER_APP#"
	SellerStatusPrefix = "SELLER_STATUS#"
	EventPrefix        = "EVENT#"
	ProfileSK          = "PROFILE"
)

// TimestampLayout is the ISO-8601 layout used for timestamps in keys and
// attributes. Milliseconds are always present so every value has the same width.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Key is a primary key of the table.
type Key struct {
	PK string
	SK string
}

// AttributeValues returns the key as a DynamoDB key map.
func (k Key) AttributeValues() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: k.PK},
		AttrSK: &types.AttributeValueMemberS{Value: k.SK},
	}
}

// IndexKey is a partition/sort key pair projected into a secondary index.
type IndexKey struct {
	PK string
	SK string
}

// FormatTimestamp renders t in UTC using [TimestampLayout].
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp produced by [FormatTimestamp].
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// UserPartition returns the partition key shared by all items of a user.
func UserPartition(userID string) string {
	return UserPrefix + userID
}

// UserProfileKey returns the primary key of a user's profile item.
func UserProfileKey(userID string) Key {
	return Key{PK: UserPartition(userID), SK: ProfileSK}
}

// EmailPartition returns the GSI1 partition key for an email.
func EmailPartition(email string) string {
	return EmailPrefix + strings.ToLower(email)
}

// EmailLookupKey returns the GSI1 key projecting a profile by email.
// The email is lowercased; an empty email yields "EMAIL#".
func EmailLookupKey(email, userID string) IndexKey {
	return IndexKey{PK: EmailPartition(email), SK: UserPartition(userID)}
}

// SellerAppKey returns the primary key of a seller application submitted at
// the given instant. A zero time means now.
func SellerAppKey(userID string, at time.Time) Key {
	return SellerAppKeyAt(userID, timestampOrNow(at))
}

// SellerAppKeyAt returns the primary key of a seller application from its
// stored submittedAt timestamp, as found on [SellerApplication].
func SellerAppKeyAt(userID, submittedAt string) Key {
	return Key{PK: UserPartition(userID), SK: SellerAppPrefix + submittedAt}
}

// SellerStatusKey returns the GSI2 key projecting a seller application by
// status. The status is not checked against the known values.
func SellerStatusKey(status SellerStatus, userID string) IndexKey {
	return IndexKey{PK: SellerStatusPartition(status), SK: UserPartition(userID)}
}

// SellerStatusPartition returns the GSI2 partition key for a status.
func SellerStatusPartition(status SellerStatus) string {
	return SellerStatusPrefix + string(status)
}

// UserEventKey returns the primary key of an audit event logged at the given
// instant. A zero time means now.
func UserEventKey(userID string, at time.Time) Key {
	return UserEventKeyAt(userID, timestampOrNow(at))
}

// UserEventKeyAt returns the primary key of an audit event from its stored
// timestamp, as found on [UserEvent].
func UserEventKeyAt(userID, at string) Key {
	return Key{PK: UserPartition(userID), SK: EventPrefix + at}
}

func timestampOrNow(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return FormatTimestamp(at)
}
