package domain

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	handlePattern     = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	cardNumberPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{4}$`)
	cvcPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidHandle reports whether h matches the handle grammar:
// 3-20 characters of letters, digits and underscores.
func ValidHandle(h string) bool {
	return handlePattern.MatchString(h)
}

// ProfileInput carries the profile fields submitted by onboarding and
// profile updates. Optional fields are empty strings when absent.
type ProfileInput struct {
	DisplayName     string
	Bio             string
	AvatarURL       string
	BackgroundURL   string
	SocialURL       string
	ThankYouMessage string
}

func (in ProfileInput) Validate() error {
	if strings.TrimSpace(in.DisplayName) == "" {
		return &ValidationError{Field: "displayName", Message: "name is required"}
	}
	if len(in.DisplayName) > 100 {
		return &ValidationError{Field: "displayName", Message: "name too long"}
	}
	if strings.TrimSpace(in.Bio) == "" {
		return &ValidationError{Field: "bio", Message: "about section is required"}
	}
	if len(in.Bio) > 500 {
		return &ValidationError{Field: "bio", Message: "about section too long"}
	}
	if len(in.ThankYouMessage) > 200 {
		return &ValidationError{Field: "thankYouMessage", Message: "message too long"}
	}
	if err := validOptionalURL("avatarURL", in.AvatarURL); err != nil {
		return err
	}
	if err := validOptionalURL("backgroundURL", in.BackgroundURL); err != nil {
		return err
	}
	return validOptionalURL("socialURL", in.SocialURL)
}

func validOptionalURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: field, Message: "invalid URL"}
	}
	return nil
}

// CardInput carries the payout card fields. It is submitted either
// entirely absent (nil) or entirely present: a missing sub-field is a
// validation failure, never a partial write.
type CardInput struct {
	Country     string
	FirstName   string
	LastName    string
	CardNumber  string
	ExpiryMonth string
	ExpiryYear  string
	CVC         string
}

// Empty reports whether no card field was submitted at all.
func (in CardInput) Empty() bool {
	return in.Country == "" && in.FirstName == "" && in.LastName == "" &&
		in.CardNumber == "" && in.ExpiryMonth == "" && in.ExpiryYear == "" && in.CVC == ""
}

func (in CardInput) Validate() error {
	if strings.TrimSpace(in.Country) == "" {
		return &ValidationError{Field: "country", Message: "country is required"}
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if len(in.FirstName) > 50 {
		return &ValidationError{Field: "firstName", Message: "first name too long"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if len(in.LastName) > 50 {
		return &ValidationError{Field: "lastName", Message: "last name too long"}
	}
	if !cardNumberPattern.MatchString(in.CardNumber) {
		return &ValidationError{Field: "cardNumber", Message: "invalid card number format (use: 1234-5678-9012-3456)"}
	}
	month, err := strconv.Atoi(in.ExpiryMonth)
	if err != nil || month < 1 || month > 12 {
		return &ValidationError{Field: "expiryMonth", Message: "expiry month is required"}
	}
	if strings.TrimSpace(in.ExpiryYear) == "" {
		return &ValidationError{Field: "expiryYear", Message: "expiry year is required"}
	}
	if !cvcPattern.MatchString(in.CVC) {
		return &ValidationError{Field: "cvc", Message: "CVC must be 3-4 digits"}
	}
	return nil
}

// Expiry returns the stored MM/YY form of the card expiry.
func (in CardInput) Expiry() string {
	return in.ExpiryMonth + "/" + in.ExpiryYear
}

// OnboardingInput is the fully enumerated argument set of the
// onboarding and profile-update workflows. Card is nil when no payout
// fields were submitted.
type OnboardingInput struct {
	Profile ProfileInput
	Handle  string
	Card    *CardInput
}

func (in OnboardingInput) Validate() error {
	if err := in.Profile.Validate(); err != nil {
		return err
	}
	if !ValidHandle(in.Handle) {
		return &ValidationError{Field: "handle", Message: "handle must be 3-20 letters, numbers or underscores"}
	}
	if in.Card != nil {
		if err := in.Card.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DonationInput carries a supporter contribution. The amount threshold
// is checked by the ledger in its documented order, not here.
type DonationInput struct {
	RecipientProfileID uuid.UUID
	Amount             int64
	Message            string
	ContactURL         string
}

func (in DonationInput) Validate() error {
	if in.RecipientProfileID == uuid.Nil {
		return &ValidationError{Field: "recipientProfileId", Message: "recipient is required"}
	}
	if len(in.Message) > 500 {
		return &ValidationError{Field: "message", Message: "message too long"}
	}
	return validOptionalURL("contactURL", in.ContactURL)
}
