package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrMalformedGraph = errors.New("malformed graph document")
	ErrInvalidPair    = errors.New("invalid document pair")
)
