package models

import (
	"errors"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnknownModel = errors.New("unknown model")

	ErrProviderTimeout = errors.New("provider timeout")
	ErrRateLimited     = errors.New("provider rate limited")
	ErrParse           = errors.New("malformed provider response")
	ErrProvider        = errors.New("provider error")
)
