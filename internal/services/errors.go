package services

import "errors"

// Failure classes for one streamed turn. Classifier and gate logic are
// total functions; only collaborator I/O can fail, and callers need to
// tell the classes apart (a persistence failure after a fully streamed
// answer has different retry semantics than a dead generator).
var (
	ErrValidation  = errors.New("invalid request")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrRetrieval   = errors.New("retrieval failed")
	ErrGeneration  = errors.New("generation failed")
	ErrPersistence = errors.New("persistence failed")
)
