package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrInvalidID   = errors.New("invalid id")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrUpload      = errors.New("upload failed")
	ErrPersistence = errors.New("persistence failure")
)

var kindStatus = map[error]int{
	ErrValidation:  fiber.StatusBadRequest,
	ErrInvalidID:   fiber.StatusBadRequest,
	ErrNotFound:    fiber.StatusNotFound,
	ErrForbidden:   fiber.StatusForbidden,
	ErrUpload:      fiber.StatusInternalServerError,
	ErrPersistence: fiber.StatusInternalServerError,
}

// AppError carries one of the sentinel kinds above, a client-facing
// message and the underlying cause if any.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func (e *AppError) StatusCode() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: ErrValidation, Message: msg}
}

func NewInvalidIDError(msg string) *AppError {
	return &AppError{Kind: ErrInvalidID, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: msg}
}

func NewUploadError(msg string, err error) *AppError {
	return &AppError{Kind: ErrUpload, Message: msg, Err: err}
}

func NewPersistenceError(msg string, err error) *AppError {
	return &AppError{Kind: ErrPersistence, Message: msg, Err: err}
}
