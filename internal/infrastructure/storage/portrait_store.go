package storage

import (
	"context"
	"fmt"
)

// PortraitSource is one of the accepted upload inputs: raw bytes with a
// content type, or a base64 data-URI string. Exactly one must be set.
type PortraitSource struct {
	Data        []byte
	ContentType string
	DataURI     string
}

// PortraitStore normalizes an upload source, validates it and stores the
// original plus resized variants under a path prefix, so deleting the
// prefix removes everything that belongs to one character.
type PortraitStore struct {
	store     ObjectStore
	processor *PortraitProcessor
}

func NewPortraitStore(store ObjectStore, processor *PortraitProcessor) *PortraitStore {
	return &PortraitStore{
		store:     store,
		processor: processor,
	}
}

// Upload normalizes src, validates the image and stores the original plus
// resized variants under pathPrefix, returning the original's public URL.
func (p *PortraitStore) Upload(ctx context.Context, src PortraitSource, pathPrefix string) (string, error) {
	data, contentType, err := p.normalize(src)
	if err != nil {
		return "", err
	}

	if err := p.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSourceFormat, err)
	}

	ext, ok := extensionForContentType(contentType)
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidSourceFormat, contentType)
	}

	originalKey := fmt.Sprintf("%s/original%s", pathPrefix, ext)

	url, err := p.store.Upload(ctx, originalKey, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	variants, err := p.processor.ProcessImage(data)
	if err != nil {
		// The original is already stored and usable; variants are an
		// optimization, not a requirement.
		return url, nil
	}

	for name, variantData := range variants {
		key := fmt.Sprintf("%s/%s.jpg", pathPrefix, name)
		if _, err := p.store.Upload(ctx, key, variantData, "image/jpeg"); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}

	return url, nil
}

func (p *PortraitStore) normalize(src PortraitSource) ([]byte, string, error) {
	switch {
	case src.DataURI != "":
		return DecodeDataURI(src.DataURI)
	case len(src.Data) > 0:
		if src.ContentType == "" {
			return nil, "", fmt.Errorf("%w: missing content type for raw bytes", ErrInvalidSourceFormat)
		}
		return src.Data, src.ContentType, nil
	default:
		return nil, "", fmt.Errorf("%w: empty source", ErrInvalidSourceFormat)
	}
}
