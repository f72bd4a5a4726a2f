package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	MediaTypePlainText = "text/plain"
	MediaTypePDF       = "application/pdf"
)

var (
	// ErrUnsupportedMediaType is returned when no extractor handles the media type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrExtractionFailed wraps parser failures; the parser's error is kept in the chain.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Extractor turns raw document bytes of one media type into plain text.
// Implementations must not modify data.
type Extractor interface {
	MediaType() string
	Extension() string
	Extract(data []byte) (string, error)
}

var registry = map[string]Extractor{
	MediaTypePlainText: PlainTextExtractor{},
	MediaTypePDF:       PDFExtractor{},
}

// NormalizeMediaType lowercases the type and strips parameters such as charset.
func NormalizeMediaType(mediaType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
}

// Supported reports whether mediaType has an extractor.
func Supported(mediaType string) bool {
	_, ok := registry[NormalizeMediaType(mediaType)]
	return ok
}

// SupportedMediaTypes lists the accepted media types in a stable order.
func SupportedMediaTypes() []string {
	return []string{MediaTypePlainText, MediaTypePDF}
}

// For returns the extractor registered for mediaType.
func For(mediaType string) (Extractor, error) {
	normalized := NormalizeMediaType(mediaType)
	ex, ok := registry[normalized]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, normalized)
	}
	return ex, nil
}

// Text extracts plain text from data according to mediaType.
// The same bytes always yield the same text; nothing is cached or persisted.
func Text(ctx context.Context, data []byte, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ex, err := For(mediaType)
	if err != nil {
		return "", err
	}
	return ex.Extract(data)
}
