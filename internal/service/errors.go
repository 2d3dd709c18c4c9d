package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrDealClosed is returned when mutating a deal that has already been
	// won or lost
	ErrDealClosed = errors.New("deal is already closed")

	// ErrUnknownStage is returned when a deal references a stage that does
	// not exist
	ErrUnknownStage = errors.New("unknown stage")

	// ErrStageNotEmpty is returned when deleting a stage that still holds deals
	ErrStageNotEmpty = errors.New("stage still has deals")
)
