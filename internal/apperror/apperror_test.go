package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := NotFound("emergency", "42")
	wrapped := fmt.Errorf("service: could not get emergency: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidTransition))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := InvalidTransition("emergency", "42", "resolved", "acknowledged").WithContext("by", "c1")

	assert.Equal(t, "invalid transition (emergency 42, resolved -> acknowledged) by=c1", err.Error())
}

func TestWithContextDoesNotMutateSentinel(t *testing.T) {
	_ = ErrDeliveryFailure.WithContext("recipient", "c1")

	assert.Empty(t, ErrDeliveryFailure.Context)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindConfiguration, "bad fence", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConfiguration)
}
