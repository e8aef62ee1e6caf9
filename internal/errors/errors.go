package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// PersistenceError wraps a store-level write or read failure.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{Message: message, Cause: cause}
}

func IsPersistenceError(err error) (*PersistenceError, bool) {
	if pe, ok := err.(*PersistenceError); ok {
		return pe, true
	}
	return nil, false
}

// PaymentDeclinedError means the gateway answered but refused the charge.
// The order is cancelled, not rolled back, so the decline stays auditable.
type PaymentDeclinedError struct {
	Message string
	Reason  string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Reason)
	}
	return e.Message
}

func NewPaymentDeclinedError(message, reason string) *PaymentDeclinedError {
	return &PaymentDeclinedError{Message: message, Reason: reason}
}

func IsPaymentDeclinedError(err error) (*PaymentDeclinedError, bool) {
	if pde, ok := err.(*PaymentDeclinedError); ok {
		return pde, true
	}
	return nil, false
}

// StockInsufficientError means a conditional stock decrement matched no row:
// the product is missing or its stock cannot cover the requested quantity.
type StockInsufficientError struct {
	ProductID int
	Quantity  int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (requested %d)", e.ProductID, e.Quantity)
}

func NewStockInsufficientError(productID, quantity int) *StockInsufficientError {
	return &StockInsufficientError{ProductID: productID, Quantity: quantity}
}

func IsStockInsufficientError(err error) (*StockInsufficientError, bool) {
	if se, ok := err.(*StockInsufficientError); ok {
		return se, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
