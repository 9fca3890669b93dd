package entry

import (
	"errors"

	"tableflip.dev/gracelog/pkg/scripture"
)

// ErrPremiumRequired is returned by features reserved for premium profiles.
var ErrPremiumRequired = errors.New("premium subscription required")

// Subscription gates the premium features.
type Subscription string

const (
	Free    Subscription = "FREE"
	Premium Subscription = "PREMIUM"
)

func (s Subscription) Valid() bool {
	return s == Free || s == Premium
}

// GuestID is the user id of a profile that was never signed in.
const GuestID = "guest"

// Profile is the singleton user record.
type Profile struct {
	UserID             string           `json:"userId" validate:"required"`
	Email              string           `json:"email,omitempty" validate:"omitempty,email"`
	Locale             scripture.Locale `json:"locale" validate:"oneof=ko en"`
	SubscriptionStatus Subscription     `json:"subscriptionStatus" validate:"oneof=FREE PREMIUM"`
}

// DefaultProfile is what a fresh install starts with.
func DefaultProfile() Profile {
	return Profile{
		UserID:             GuestID,
		Locale:             scripture.DefaultLocale,
		SubscriptionStatus: Free,
	}
}

// Normalize replaces unknown or missing fields with their defaults.
func (p Profile) Normalize() Profile {
	d := DefaultProfile()
	if p.UserID == "" {
		p.UserID = d.UserID
	}
	if !p.Locale.Valid() {
		p.Locale = d.Locale
	}
	if !p.SubscriptionStatus.Valid() {
		p.SubscriptionStatus = d.SubscriptionStatus
	}
	return p
}

func (p Profile) IsPremium() bool {
	return p.SubscriptionStatus == Premium
}

// RequirePremium returns ErrPremiumRequired unless p is premium.
func (p Profile) RequirePremium() error {
	if !p.IsPremium() {
		return ErrPremiumRequired
	}
	return nil
}
