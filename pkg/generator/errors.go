package generator

import "errors"

var (
	ErrGenerate          = errors.New("topic generation failed")
	ErrAPIKeyRequired    = errors.New("OpenAI API key is required")
	ErrRateLimited       = errors.New("OpenAI rate limit exceeded")
	ErrMalformedResponse = errors.New("malformed response from OpenAI")
	ErrStorageNotSet     = errors.New("image storage is not configured")
	ErrEmptyPrompt       = errors.New("image prompt is empty")
)
