package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
)

func TestValidateEntry(t *testing.T) {
	v := New()

	ok := entry.Entry{ID: "entry-1", Date: "2024-01-03", Book: "John", Chapter: 3, ReflectionText: "love"}
	require.NoError(t, v.Validate(ok))

	bad := entry.Entry{ID: "entry-1", Date: "2024-01-03", Book: "John", Chapter: 0}
	err := v.Validate(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["reflectionText"])
	assert.Equal(t, "must be greater than or equal to 1", verr.Fields["chapter"])
}

func TestValidateProfile(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(entry.DefaultProfile()))

	err := v.Validate(entry.Profile{UserID: "u", Locale: scripture.Locale("fr"), SubscriptionStatus: entry.Free})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "locale")
	assert.Contains(t, err.Error(), "locale must be one of: ko en")
}
