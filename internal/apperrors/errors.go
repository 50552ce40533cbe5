package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotEligible indicates that a fiscal document does not qualify for PIS/COFINS credit.
// This is an expected negative outcome, not a failure.
var ErrNotEligible = errors.New("document not eligible for tax credit")

// ErrCurrencyMismatch indicates an arithmetic operation between amounts of different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrForbidden indicates the authenticated user may not perform the operation.
var ErrForbidden = errors.New("operation not allowed")
