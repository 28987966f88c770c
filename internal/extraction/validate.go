package extraction

import (
	"errors"
	"net/http"
	"strings"
)

// MaxImageBytes is the upload ceiling enforced before the pipeline runs.
const MaxImageBytes = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var (
	ErrImageTooLarge    = errors.New("image size too large. Maximum 10MB allowed")
	ErrInvalidImageMime = errors.New("invalid image type. Only JPEG, PNG, JPG, and WebP are allowed")
)

// ValidateImage checks type and size. These are the only failures that
// surface to the caller before the vision call.
func ValidateImage(data []byte, mime string) error {
	if len(data) == 0 {
		return errors.New("empty image")
	}
	if len(data) > MaxImageBytes {
		return ErrImageTooLarge
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !allowedImageTypes[strings.ToLower(mime)] {
		return ErrInvalidImageMime
	}
	return nil
}
