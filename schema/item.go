package schema

import (
	"fmt"
	"time"
)

// ItemType is the Type discriminator stored on every item.
type ItemType string

const (
	TypeUser      ItemType = "USER"
	TypeSellerApp ItemType = "SELLER_APP"
	TypeUserEvent ItemType = "USER_EVENT"
)

// Roles assigned to users.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Item is one of the variants stored in the table: [*Profile],
// [*SellerApplication] or [*UserEvent].
type Item interface {
	// ItemType returns the Type discriminator for the variant.
	ItemType() ItemType

	// PrimaryKey returns the (PK, SK) the item is stored under.
	PrimaryKey() Key

	// indexAttrs returns secondary index key attributes, keyed by attribute name.
	indexAttrs() map[string]string
}

// Profile is the single profile item of a user.
type Profile struct {
	UserID      string   `dynamodbav:"userID"`
	Email       string   `dynamodbav:"email"`
	DisplayName string   `dynamodbav:"displayName"`
	Roles       []string `dynamodbav:"roles"`
	CreatedAt   string   `dynamodbav:"createdAt"`
	UpdatedAt   string   `dynamodbav:"updatedAt"`
}

func (p *Profile) ItemType() ItemType { return TypeUser }
func (p *Profile) PrimaryKey() Key    { return UserProfileKey(p.UserID) }

func (p *Profile) indexAttrs() map[string]string {
	k := EmailLookupKey(p.Email, p.UserID)
	return map[string]string{AttrGSI1PK: k.PK, AttrGSI1SK: k.SK}
}

// HasRole reports whether the profile carries role.
func (p *Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SellerStatus is the state of a seller application.
type SellerStatus string

const (
	SellerStatusDraft      SellerStatus = "draft"
	SellerStatusSubmitted  SellerStatus = "submitted"
	SellerStatusKYCPending SellerStatus = "kyc_pending"
	SellerStatusVerified   SellerStatus = "verified"
	SellerStatusRejected   SellerStatus = "rejected"
)

// SellerStatuses lists every known seller status.
var SellerStatuses = []SellerStatus{
	SellerStatusDraft,
	SellerStatusSubmitted,
	SellerStatusKYCPending,
	SellerStatusVerified,
	SellerStatusRejected,
}

// Valid reports whether s is a known status.
func (s SellerStatus) Valid() bool {
	for _, known := range SellerStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSellerStatus converts a string into a known SellerStatus.
func ParseSellerStatus(s string) (SellerStatus, error) {
	status := SellerStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// SellerApplication is one seller-onboarding submission. A user may have many;
// they sort chronologically by SubmittedAt.
type SellerApplication struct {
	UserID      string       `dynamodbav:"userID"`
	Status      SellerStatus `dynamodbav:"status"`
	SubmittedAt string       `dynamodbav:"submittedAt"`
	UpdatedAt   string       `dynamodbav:"updatedAt"`
}

// NewSellerApplication returns an application submitted at the given instant
// (zero means now).
func NewSellerApplication(userID string, status SellerStatus, at time.Time) *SellerApplication {
	ts := timestampOrNow(at)
	return &SellerApplication{
		UserID:      userID,
		Status:      status,
		SubmittedAt: ts,
		UpdatedAt:   ts,
	}
}

func (a *SellerApplication) ItemType() ItemType { return TypeSellerApp }

func (a *SellerApplication) PrimaryKey() Key {
	return SellerAppKeyAt(a.UserID, a.SubmittedAt)
}

func (a *SellerApplication) indexAttrs() map[string]string {
	k := SellerStatusKey(a.Status, a.UserID)
	return map[string]string{AttrGSI2PK: k.PK, AttrGSI2SK: k.SK}
}

// UserEvent is an audit log entry for a user.
type UserEvent struct {
	UserID     string            `dynamodbav:"userID"`
	Action     string            `dynamodbav:"action"`
	At         string            `dynamodbav:"at"`
	Attributes map[string]string `dynamodbav:"attributes,omitempty"`
}

// NewUserEvent returns an event logged at the given instant (zero means now).
func NewUserEvent(userID, action string, at time.Time, attrs map[string]string) *UserEvent {
	return &UserEvent{
		UserID:     userID,
		Action:     action,
		At:         timestampOrNow(at),
		Attributes: attrs,
	}
}

func (e *UserEvent) ItemType() ItemType { return TypeUserEvent }

func (e *UserEvent) PrimaryKey() Key {
	return UserEventKeyAt(e.UserID, e.At)
}

func (e *UserEvent) indexAttrs() map[string]string { return nil }
