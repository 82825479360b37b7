package domain

import "errors"

var (
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrEmptyMessage           = errors.New("message empty")
	ErrMessageTooLong         = errors.New("message too long")
	ErrMediaAcquisitionFailed = errors.New("media acquisition failed")
)
