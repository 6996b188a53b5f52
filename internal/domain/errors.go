package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidFieldName = errors.New("invalid field name")
	ErrDuplicateField   = errors.New("duplicate field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNoFields         = errors.New("form has no fields")
)
