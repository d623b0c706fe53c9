package services

import "errors"

// Failure taxonomy shared by the bot and the web API. Callers classify with
// errors.Is and decide whether to skip silently (bot) or map to an HTTP
// status (web).
var (
	// ErrNotFound covers both an unresolvable external reference and an
	// absent row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is the store's uniqueness constraint surfacing on insert.
	ErrDuplicate = errors.New("movie already in collection")

	// ErrMetadataUnavailable means TMDB errored or timed out; callers must
	// not persist a partial record.
	ErrMetadataUnavailable = errors.New("metadata service unavailable")

	// ErrStoreUnavailable wraps backing store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
