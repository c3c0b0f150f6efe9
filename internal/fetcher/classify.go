package fetcher

import (
	"errors"
	"strings"

	"github.com/finsight/finsight/internal/core"
)

// Class is the retry classification of a fetch error.
type Class string

const (
	ClassPermanent   Class = "permanent"
	ClassRateLimited Class = "rate_limited"
	ClassTransient   Class = "transient"
)

// Provider error text markers. Providers signal invalid symbols and rate
// limits in the message body, not always in the status code.
var (
	permanentMarkers = []string{
		"delisted",
		"invalid symbol",
		"symbol not found",
		"quote not found",
		"no data found",
	}
	rateLimitMarkers = []string{
		"429",
		"too many requests",
		"rate limit",
		"rate-limited",
	}
)

// Classify maps a fetch error to its retry class. Typed errors win over
// message matching.
func Classify(err error) Class {
	if errors.Is(err, core.ErrInvalidSymbol) {
		return ClassPermanent
	}
	if errors.Is(err, core.ErrRateLimited) {
		return ClassRateLimited
	}

	msg := strings.ToLower(err.Error())
	for _, m := range permanentMarkers {
		if strings.Contains(msg, m) {
			return ClassPermanent
		}
	}
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return ClassRateLimited
		}
	}
	return ClassTransient
}
