package errors

import "errors"

// Sentinel errors for the booking workflow and catalog. Services wrap these
// with fmt.Errorf and %w; handlers translate them to HTTP statuses at the
// request boundary.
var ErrEventNotFound = errors.New("event not found")
var ErrBookingNotFound = errors.New("booking not found")
var ErrInsufficientSeats = errors.New("not enough seats available")
var ErrPaymentNotCompleted = errors.New("payment not completed")
var ErrGateway = errors.New("payment gateway request failed")
var ErrValidation = errors.New("validation failed")
var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
