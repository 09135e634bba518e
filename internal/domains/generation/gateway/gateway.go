package gateway

import "context"

// ProfileGateway is the outbound contract to the AI provider. Prompts
// arrive fully rendered; the gateway knows nothing about packs or
// templates.
type ProfileGateway interface {
	// GenerateBiography returns prose for the rendered prompt.
	GenerateBiography(ctx context.Context, prompt string) (string, error)

	// GeneratePortrait returns raw image bytes and their content type.
	GeneratePortrait(ctx context.Context, prompt string) ([]byte, string, error)
}
