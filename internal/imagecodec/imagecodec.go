// Package imagecodec converts product images between their raw bytes and
// the base64 text form used on the wire, and validates content-type tags.
package imagecodec

import (
	"encoding/base64"
	"fmt"

	"github.com/guillsango/marketplace/internal/models"
)

// DefaultContentType is assumed when a client omits the content type,
// matching the behavior existing clients rely on.
const DefaultContentType = "image/png"

// allowedContentTypes is the set of image formats accepted for upload.
var allowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Decode interprets text as standard padded base64 and returns the raw
// image bytes. Invalid input yields models.ErrMalformedImage.
func Decode(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedImage, err)
	}
	return data, nil
}

// Encode returns the standard padded base64 form of the image bytes.
// It is the inverse of Decode for every byte sequence, including empty.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ValidateContentType checks a caller-supplied content type against the
// accepted image formats. An empty value falls back to DefaultContentType.
func ValidateContentType(contentType string) (string, error) {
	if contentType == "" {
		return DefaultContentType, nil
	}
	if !allowedContentTypes[contentType] {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidContentType, contentType)
	}
	return contentType, nil
}
