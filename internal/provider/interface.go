// Package provider fetches schedules, results and injury reports from
// external league data feeds.
package provider

import (
	"context"

	"github.com/yourusername/matchday/internal/models"
)

// Slate identifies one batch of games to fetch: a calendar date for
// basketball, a week and season for football. Date uses models.DateLayout.
type Slate struct {
	Sport  models.Sport
	Date   string
	Week   *int
	Season *int
}

// Provider is the interface all league data feeds implement.
type Provider interface {
	// FetchSchedule retrieves the scheduled games for a slate.
	FetchSchedule(ctx context.Context, slate Slate) ([]models.GameRecord, error)

	// FetchResults retrieves completed games for a slate.
	FetchResults(ctx context.Context, slate Slate) ([]models.GameRecord, error)

	// FetchInjuries retrieves the current injury report for a team.
	FetchInjuries(ctx context.Context, sport models.Sport, team string) ([]models.InjuryEntry, error)

	// Name returns the provider name for logs and metrics.
	Name() string
}

// ProviderError wraps a provider failure with its source and a stable code.
type ProviderError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return models.ErrProviderUnavailable
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewProviderError creates a new provider error.
func NewProviderError(source, code, message string, err error) ProviderError {
	return ProviderError{Source: source, Code: code, Message: message, Err: err}
}
