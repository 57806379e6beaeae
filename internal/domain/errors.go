package domain

import "errors"

var (
	// ErrDataShape reports a required column, metric or reserved region that
	// is missing from a dataset. Fatal at load time.
	ErrDataShape = errors.New("data shape error")

	// ErrLookupNotFound reports that an exactly-one lookup matched nothing.
	ErrLookupNotFound = errors.New("lookup not found")

	// ErrDataIntegrity reports that an exactly-one lookup matched several rows.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrInvalidSelection reports a selector value the engine cannot interpret.
	ErrInvalidSelection = errors.New("invalid selection")
)
