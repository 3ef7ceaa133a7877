package nutrition

import "errors"

// Domain validation errors
var (
	ErrInvalidGender    = errors.New("gender must be male or female")
	ErrInvalidWeight    = errors.New("weight must be positive")
	ErrInvalidHeight    = errors.New("height must be positive")
	ErrInvalidAge       = errors.New("age must be positive")
	ErrInvalidObjective = errors.New("unknown fitness objective")
	ErrInvalidSessions  = errors.New("sessions per week cannot be negative")
)
