package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrPathNotFound indicates an explicitly named input path does not
	// exist. Fatal to the whole run.
	ErrPathNotFound = errors.New("path not found")

	// ErrNoValidBags indicates none of the inputs yielded a valid bag.
	ErrNoValidBags = errors.New("no valid bags found")

	// ErrTimeRangeUnavailable indicates a bag's time range could not be
	// resolved from either its descriptor or its storage. Fatal to that
	// bag only; siblings in the batch continue.
	ErrTimeRangeUnavailable = errors.New("time range unavailable")

	// ErrEmptyOverlap indicates the bags share no common time interval.
	// Reported when cropping was requested; finding overlap alone
	// treats it as a result, not a failure.
	ErrEmptyOverlap = errors.New("no temporal overlap")

	// ErrAmbiguousOutput indicates multiple input bags were given a
	// single explicit output path. Raised before any I/O.
	ErrAmbiguousOutput = errors.New("ambiguous output path")

	// ErrNotABag indicates a path exists but is not a well-formed bag
	// directory.
	ErrNotABag = errors.New("not a valid bag")
)
