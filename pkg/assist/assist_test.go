package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/gracelog/pkg/entry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCheck(t *testing.T) {
	premium := entry.Profile{UserID: "u", SubscriptionStatus: entry.Premium}
	free := entry.DefaultProfile()

	tests := map[string]struct {
		profile    entry.Profile
		reflection string
		want       error
	}{
		"free":           {profile: free, reflection: "long enough", want: ErrPremiumRequired},
		"short":          {profile: premium, reflection: "abcd", want: ErrReflectionTooShort},
		"empty":          {profile: premium, want: ErrReflectionTooShort},
		"five":           {profile: premium, reflection: "abcde"},
		"korean counted": {profile: premium, reflection: "은혜로운날"},
		"korean short":   {profile: premium, reflection: "은혜", want: ErrReflectionTooShort},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := Check(tc.profile, tc.reflection)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

type blockingGateway struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingGateway) Assist(ctx context.Context, req Request) (*Response, error) {
	close(b.started)
	<-b.release
	if b.err != nil {
		return nil, b.err
	}
	return &Response{Prayers: []string{req.Book}}, nil
}

func TestGuardRejectsConcurrentRequest(t *testing.T) {
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{})}
	g := NewGuard(gw)

	done := make(chan error, 1)
	go func() {
		resp, err := g.Assist(context.Background(), Request{Book: "John"})
		if err == nil && resp.Prayers[0] != "John" {
			err = errors.New("unexpected response")
		}
		done <- err
	}()

	<-gw.started
	assert.True(t, g.Pending())

	_, err := g.Assist(context.Background(), Request{Book: "Mark"})
	assert.ErrorIs(t, err, ErrRequestPending)

	close(gw.release)
	require.NoError(t, <-done)
	assert.False(t, g.Pending())
}

func TestGuardReenablesAfterFailure(t *testing.T) {
	boom := errors.New("quota")
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{}), err: boom}
	close(gw.release)
	g := NewGuard(gw)

	_, err := g.Assist(context.Background(), Request{})
	require.ErrorIs(t, err, boom)
	assert.False(t, g.Pending())
}

func TestGuardWithoutGateway(t *testing.T) {
	_, err := (&Guard{}).Assist(context.Background(), Request{})
	assert.Error(t, err)
}
