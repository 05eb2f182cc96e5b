package core

import (
	"errors"
)

var (
	// ErrSourceNotFound signals that a load source (usually a virtual
	// filesystem path) does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrDecodeFailed signals that a loader could not turn the source
	// bytes into a resource. The underlying reason is wrapped.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrNoLoaderRegistered signals a configuration fault: a source kind
	// was requested for a resource type with no matching loader.
	ErrNoLoaderRegistered = errors.New("no loader registered")
	// ErrDuplicatePublish signals a second store insertion for an already
	// resolved id. Treated as a programming error.
	ErrDuplicatePublish = errors.New("duplicate publish")
	// ErrUnknown is kept for failure paths with no better classification.
	ErrUnknown = errors.New("unknown")
)
