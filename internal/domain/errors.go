package domain

import "errors"

var (
	ErrInvalidPrompt   = errors.New("invalid prompt")
	ErrInvalidStyle    = errors.New("invalid style")
	ErrProviderFailure = errors.New("provider failure")
	ErrBusy            = errors.New("generation already in progress")
	ErrNoImage         = errors.New("no generated image")
)
