package service

import (
	"errors"
	"fmt"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("question not found")
	ErrQuestionNil  = errors.New("question is nil")
	ErrNodeNotFound = errors.New("attachment node not found")

	// ErrValidation, ErrUploadFailed and ErrStore match every *ValidationError, *UploadError
	// and *StoreError respectively through errors.Is.
	ErrValidation   = errors.New("validation failed")
	ErrUploadFailed = errors.New("upload failed")
	ErrStore        = errors.New("document store failure")

	// ErrUnresolvedAttachment means a raw attachment reached the sanitizer.
	ErrUnresolvedAttachment = errors.New("unresolved attachment")
)

// ValidationKind names the tree-shape rule a question broke.
type ValidationKind string

const (
	MissingText       ValidationKind = "MissingText"
	EmptyGroupSet     ValidationKind = "EmptyGroupSet"
	EmptyAnswerSet    ValidationKind = "EmptyAnswerSet"
	MissingAnswerText ValidationKind = "MissingAnswerText"
)

// ValidationError is returned before any I/O when a question tree is malformed.
// GroupID and AnswerID locate the offending node when the rule is node-specific.
type ValidationError struct {
	Kind     ValidationKind
	GroupID  string
	AnswerID string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingText:
		return "question text is required"
	case EmptyGroupSet:
		return "question must have at least one answer group"
	case EmptyAnswerSet:
		return fmt.Sprintf("answer group %q must have at least one answer", e.GroupID)
	case MissingAnswerText:
		return fmt.Sprintf("answer %q in group %q requires text", e.AnswerID, e.GroupID)
	default:
		return string(e.Kind)
	}
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UploadError reports the blob path whose upload aborted a save.
type UploadError struct {
	Path  string
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

func (e *UploadError) Is(target error) bool { return target == ErrUploadFailed }

// StoreError wraps a document store failure with the operation that hit it.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("document store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
