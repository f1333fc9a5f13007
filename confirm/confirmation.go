package confirm

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jacentio/keystone/schema"
)

// ErrInvalidInput is returned when a Confirmation fails validation.
var ErrInvalidInput = errors.New("confirm: invalid input")

// validate is the package-level validator. It is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Confirmation is the identity confirmed by the authentication provider.
type Confirmation struct {
	// UserID is the provider's unique subject identifier.
	UserID string `validate:"required"`

	// Email is optional and stored as given, lowercased. The identity
	// provider has already verified it, so its shape is not checked again.
	Email string

	GivenName  string
	FamilyName string
}

// Validate checks that required fields are present.
func (c Confirmation) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return nil
}

// DisplayName derives a display name: given and family name joined by a
// space when either is present, otherwise the local part of the email, and
// otherwise the empty string.
func DisplayName(givenName, familyName, email string) string {
	if givenName != "" || familyName != "" {
		return strings.TrimSpace(givenName + " " + familyName)
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// BuildProfile returns the initial profile for c. CreatedAt and UpdatedAt are
// both set to now.
func BuildProfile(c Confirmation, now time.Time) *schema.Profile {
	email := strings.ToLower(c.Email)
	ts := schema.FormatTimestamp(now)
	return &schema.Profile{
		UserID:      c.UserID,
		Email:       email,
		DisplayName: DisplayName(c.GivenName, c.FamilyName, email),
		Roles:       []string{schema.RoleBuyer},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}
