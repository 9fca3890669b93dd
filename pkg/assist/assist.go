// Package assist asks a generative model for devotional commentary on the
// reflection being written.
package assist

import (
	"context"
	"errors"
	"sync/atomic"
	"unicode/utf8"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
)

// MinReflectionRunes is the shortest reflection worth sending.
const MinReflectionRunes = 5

var (
	ErrPremiumRequired    = entry.ErrPremiumRequired
	ErrReflectionTooShort = errors.New("assist: write more reflection first")
	ErrRequestPending     = errors.New("assist: a request is already in flight")
)

// Request carries the editor fields the model sees.
type Request struct {
	Book           string           `json:"book"`
	Chapter        int              `json:"chapter"`
	ReflectionText string           `json:"reflectionText"`
	Tags           []string         `json:"tags"`
	Locale         scripture.Locale `json:"locale"`
}

// SharingSummary is the essay meant to be shared with a small group.
type SharingSummary struct {
	Summary     string   `json:"summary"`
	Questions   []string `json:"questions"`
	PrayerPoint string   `json:"prayerPoint"`
}

// Response is the structured commentary returned by the model.
type Response struct {
	Observations   []string       `json:"observations"`
	Applications   []string       `json:"applications"`
	Prayers        []string       `json:"prayers"`
	SharingSummary SharingSummary `json:"sharingSummary"`
}

// Gateway produces commentary for a request.
type Gateway interface {
	Assist(ctx context.Context, req Request) (*Response, error)
}

// Check reports whether profile may ask for help on reflection.
func Check(profile entry.Profile, reflection string) error {
	if err := profile.RequirePremium(); err != nil {
		return err
	}
	if utf8.RuneCountInString(reflection) < MinReflectionRunes {
		return ErrReflectionTooShort
	}
	return nil
}

// Guard lets one request through at a time. A call made while another is
// running fails with ErrRequestPending instead of queueing.
type Guard struct {
	Gateway Gateway

	pending atomic.Bool
}

// NewGuard wraps g.
func NewGuard(g Gateway) *Guard {
	return &Guard{Gateway: g}
}

func (g *Guard) Assist(ctx context.Context, req Request) (*Response, error) {
	if g.Gateway == nil {
		return nil, errors.New("assist: no gateway configured")
	}
	if !g.pending.CompareAndSwap(false, true) {
		return nil, ErrRequestPending
	}
	defer g.pending.Store(false)
	return g.Gateway.Assist(ctx, req)
}

// Pending reports whether a request is in flight.
func (g *Guard) Pending() bool {
	return g.pending.Load()
}
