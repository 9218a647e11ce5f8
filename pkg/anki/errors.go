package anki

import "errors"

var (
	// ErrMediaUnavailable marks a failed media resolution. Callers drop the
	// media slot and keep the card.
	ErrMediaUnavailable = errors.New("media unavailable")

	// ErrEngineInit marks a database engine that could not be brought up.
	// The orchestrator reacts by degrading to the next format.
	ErrEngineInit = errors.New("collection engine init failed")

	// ErrSerialize marks a failure while writing the package or archive.
	ErrSerialize = errors.New("export serialization failed")
)
