package lbp

import "errors"

var (
	// configuration errors
	ErrConfiguration = errors.New("invalid lbp histogram configuration")

	// input errors
	ErrNoChannels     = errors.New("image has no channels")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrShapeMismatch  = errors.New("channels have mismatched dimensions")
	ErrLengthMismatch = errors.New("histogram length mismatch")
)
