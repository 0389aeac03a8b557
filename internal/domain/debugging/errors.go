package debugging

import "errors"

// InvalidInputMessage is the body message for a request without a usable code string.
const InvalidInputMessage = "Invalid input: code must be a string."

var (
	ErrInvalidInput  = errors.New("invalid input: code must be a string")
	ErrEngineFailure = errors.New("analysis failed")
)
