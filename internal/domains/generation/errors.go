package generation

import "errors"

var (
	ErrGenerationFailed  = errors.New("generation failed")
	ErrTraitsIncomplete  = errors.New("traits do not satisfy the prompt template")
	ErrProviderPreflight = errors.New("generation provider is not configured")
)
