package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrFetchExhausted, errors.New("connection reset"))

	assert.ErrorIs(t, wrapped, ErrFetchExhausted)
	assert.NotErrorIs(t, wrapped, ErrInvalidSymbol)
}

func TestError_UnwrapCarriesCause(t *testing.T) {
	cause := errors.New("429 Too Many Requests")
	wrapped := WrapError(ErrRateLimited, cause)

	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "429")
	assert.Contains(t, wrapped.Error(), "RATE_LIMITED")
}

func TestError_SurvivesFmtWrapping(t *testing.T) {
	err := fmt.Errorf("fetching AAPL: %w", WrapError(ErrInvalidSymbol, errors.New("delisted")))
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}
