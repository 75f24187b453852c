package enrich

import "errors"

const Namespace = "enrich"

var (
	ErrClosed          = errors.New(Namespace + ": enricher is closed")
	ErrNilProcessor    = errors.New(Namespace + ": processor must not be nil")
	ErrNilCollection   = errors.New(Namespace + ": collection must not be nil")
	ErrProcessPanicked = errors.New(Namespace + ": process panicked")
	ErrInvalidConfig   = errors.New(Namespace + ": invalid configuration")
)
