package ingest

import "errors"

// Sentinel errors for the failure modes of an ingestion run. Callers
// see the coarse wrapped messages; the sentinels let tests and
// operators tell the causes apart.
var (
	// ErrNoSeasons is returned when the season catalog comes back empty.
	ErrNoSeasons = errors.New("unable to fetch seasons data")

	// ErrRateLimited marks an upstream throttling notice embedded in a
	// 200 response body.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMissingResponse marks a payload without the expected
	// "response" field.
	ErrMissingResponse = errors.New("the response key is missing in the API data")

	// ErrEmptyResponse marks an empty upstream body.
	ErrEmptyResponse = errors.New("the response from the API is empty")
)
