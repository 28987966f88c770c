package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/imageproc"
)

// Generator is the outbound image-generation boundary.
type Generator interface {
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)
}

type Storage interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Service struct {
	gen     Generator
	storage Storage
}

func NewService(gen Generator, storage Storage) *Service {
	return &Service{gen: gen, storage: storage}
}

type GeneratedImage struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
}

const (
	// Most models can't render 500x300 directly; generate at a similar
	// aspect ratio and crop down.
	genSize      = "1024x614"
	targetWidth  = 500
	targetHeight = 300
)

// Generate renders a marketing photo for a menu item, crops it to
// 500x300 and uploads it to storage.
func (s *Service) Generate(ctx context.Context, itemName, cuisine, notes string) (*GeneratedImage, error) {
	if itemName == "" {
		return nil, fmt.Errorf("item name is required")
	}

	raw, err := s.gen.GenerateImage(ctx, buildPrompt(itemName, cuisine, notes), genSize)
	if err != nil {
		return nil, err
	}

	resized, err := imageproc.CoverCrop(raw, targetWidth, targetHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to resize generated image: %w", err)
	}

	filename := fmt.Sprintf("%s-%d.jpg", slug(itemName), time.Now().Unix())
	key := "menu_images/" + filename

	url, err := s.storage.UploadBytes(ctx, key, resized, "image/jpeg")
	if err != nil {
		return nil, err
	}

	return &GeneratedImage{URL: url, Key: key, Filename: filename}, nil
}

func buildPrompt(itemName, cuisine, notes string) string {
	parts := []string{
		fmt.Sprintf("Ultra-realistic photograph of %q plated appetizingly", itemName),
	}
	if cuisine != "" {
		parts = append(parts, cuisine+" cuisine styling")
	}
	parts = append(parts,
		"natural lighting, shallow depth of field, restaurant presentation",
		"neutral background (wood or stone), no text, no logos, no watermark",
		"high detail, crisp focus on the dish",
	)
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, ", ") + "."
}

func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
