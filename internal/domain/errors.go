package domain

import "errors"

var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrMalformedRate            = errors.New("malformed rate")
	ErrInvalidVersionTransition = errors.New("invalid version transition")
	ErrInvalidAddress           = errors.New("invalid address")
	ErrNotInstantiated          = errors.New("oracle not instantiated")
	ErrAlreadyInstantiated      = errors.New("oracle already instantiated")
	ErrUnknownMessage           = errors.New("unknown message")
)
