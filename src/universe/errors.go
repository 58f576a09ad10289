package universe

import "errors"

var (
	ErrInvalidState    = errors.New("invalid cell state")
	ErrOutOfRange      = errors.New("coordinates out of range")
	ErrInvalidSize     = errors.New("invalid world size")
	ErrMalformedGrid   = errors.New("malformed grid")
	ErrInvalidRules    = errors.New("invalid rule set")
	ErrUnknownEngine   = errors.New("unknown engine")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrClosed          = errors.New("simulation loop is closed")
)
