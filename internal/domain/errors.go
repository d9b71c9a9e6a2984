package domain

import (
	"errors"
)

// Sentinel errors for domain failures - match with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
