package errors

import "errors"

// ErrInvalid marks errors caused by bad client input.
var ErrInvalid = errors.New("invalid")
