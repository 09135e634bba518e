package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Adapter-level errors. Callers match these with errors.Is.
var (
	ErrInvalidSourceFormat = errors.New("invalid image source format")
	ErrUploadFailed        = errors.New("image upload failed")
)

// dataURIPattern matches data:<mime>;base64,<payload>
var dataURIPattern = regexp.MustCompile(`^data:([a-z]+/[a-z0-9.+-]+);base64,(.+)$`)

// DecodeDataURI parses a base64 data-URI into raw bytes and its MIME type.
// Returns ErrInvalidSourceFormat when the string does not match the
// expected pattern or the payload is not valid base64.
func DecodeDataURI(uri string) ([]byte, string, error) {
	matches := dataURIPattern.FindStringSubmatch(strings.TrimSpace(uri))
	if matches == nil {
		return nil, "", fmt.Errorf("%w: not a base64 data-URI", ErrInvalidSourceFormat)
	}

	contentType := matches[1]
	payload := matches[2]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidSourceFormat, err)
	}

	return data, contentType, nil
}

// EncodeDataURI is the inverse of DecodeDataURI; used by the generation
// gateway when the provider returns raw portrait bytes.
func EncodeDataURI(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// extensionForContentType maps the MIME types we accept to file extensions.
func extensionForContentType(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return ".png", true
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	default:
		return "", false
	}
}
