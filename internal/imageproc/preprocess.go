package imageproc

import (
	"bytes"
	"log"

	"github.com/disintegration/imaging"
)

// DefaultMaxWidth bounds the image sent to the vision model. Menus
// photographed on phones are routinely 4000px wide; the model gains
// nothing past ~1600px and the request shrinks considerably.
const DefaultMaxWidth = 1600

// Prepare normalizes an uploaded menu photo for the vision call:
// EXIF auto-orientation, downscale to maxWidth preserving aspect ratio,
// a light sharpen, and a metadata-free JPEG re-encode. Best-effort by
// contract: if anything in the pipeline fails the original bytes are
// returned so the extraction can still proceed.
func Prepare(raw []byte, maxWidth int) []byte {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("imageproc: decode failed, sending original bytes: %v", err)
		return raw
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	img = imaging.Sharpen(img, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		log.Printf("imageproc: jpeg encode failed, sending original bytes: %v", err)
		return raw
	}
	return buf.Bytes()
}

// CoverCrop scales and center-crops to exactly width x height (used for
// generated marketing images, 500x300).
func CoverCrop(raw []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	img = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(88)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
