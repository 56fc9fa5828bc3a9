package models

import "errors"

// Custom errors
var (
	// ErrInsufficientData means a team has too few historical games to build
	// a snapshot. Recoverable: the caller skips the matchup.
	ErrInsufficientData = errors.New("insufficient historical data")

	// ErrMissingTeamData means a matchup feature vector cannot be built
	// because one side has no snapshot.
	ErrMissingTeamData = errors.New("missing team data")

	// ErrUnknownTeam means a team has neither a cached nor a computable
	// snapshot.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrModelNotTrained means predict was invoked before train or load.
	ErrModelNotTrained = errors.New("model not trained")

	// ErrProviderUnavailable means an external data provider failed or timed
	// out; callers degrade to a local fallback.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrCorruptState means a persisted model or ledger file is malformed.
	// Fatal for that load only; callers fall back to a fresh default state.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrStateNotFound means no persisted state exists yet for the given key.
	ErrStateNotFound = errors.New("persisted state not found")
)
