package extraction

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/classify"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/imageproc"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/menu"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/taxonomy"
)

// VisionClient is the outbound boundary for the multimodal extraction
// call. A non-success response or empty content is a hard failure.
type VisionClient interface {
	ExtractMenu(ctx context.Context, image []byte, mime string) (string, error)
}

// Storage accepts bytes plus a path and returns a public URL.
type Storage interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Service struct {
	repo    Repository
	storage Storage
	vision  VisionClient
	engine  *classify.Engine
}

func NewService(repo Repository, storage Storage, vision VisionClient, engine *classify.Engine) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		vision:  vision,
		engine:  engine,
	}
}

// WithVision returns a copy of the service bound to a different vision
// client (per-request model override).
func (s *Service) WithVision(v VisionClient) *Service {
	clone := *s
	clone.vision = v
	return &clone
}

// Result is the full pipeline output: the classified hierarchy, the
// flat catalog rows, and a quick summary for the UI.
type Result struct {
	Menu    *menu.NormalizedMenu `json:"menu"`
	Rows    []menu.RowRecord     `json:"rows"`
	Summary Summary              `json:"summary"`
}

type Summary struct {
	TotalItems     int   `json:"total_items"`
	CategoriesUsed []int `json:"categories_used"`
	VegItems       int   `json:"veg_items"`
	NonVegItems    int   `json:"non_veg_items"`
}

// ExtractAndNormalize runs validation, preprocessing, the vision call
// and JSON repair. It fails only on image validation or a vision-service
// hard failure; everything downstream degrades instead of failing.
func (s *Service) ExtractAndNormalize(ctx context.Context, image []byte, mime string) (*menu.NormalizedMenu, error) {
	if err := ValidateImage(image, mime); err != nil {
		return nil, err
	}

	prepared := imageproc.Prepare(image, imageproc.DefaultMaxWidth)
	raw, err := s.vision.ExtractMenu(ctx, prepared, http.DetectContentType(prepared))
	if err != nil {
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}

	return menu.Normalize(raw), nil
}

// Extract runs the whole pipeline: extract, repair, classify, flatten.
func (s *Service) Extract(ctx context.Context, image []byte, mime string) (*Result, error) {
	normalized, err := s.ExtractAndNormalize(ctx, image, mime)
	if err != nil {
		return nil, err
	}

	classified := s.engine.ClassifyAll(ctx, normalized)
	rows := menu.Flatten(classified)

	return &Result{
		Menu:    classified,
		Rows:    rows,
		Summary: buildSummary(rows),
	}, nil
}

func buildSummary(rows []menu.RowRecord) Summary {
	summary := Summary{
		TotalItems:     len(rows),
		CategoriesUsed: []int{},
	}

	seen := map[int]bool{}
	for _, row := range rows {
		if !seen[row.CategoryID] {
			seen[row.CategoryID] = true
			summary.CategoriesUsed = append(summary.CategoriesUsed, row.CategoryID)
		}
		switch row.AttributeID {
		case taxonomy.AttributeVeg:
			summary.VegItems++
		case taxonomy.AttributeNonVeg:
			summary.NonVegItems++
		}
	}
	return summary
}

// Upload stores the raw image and queues an extraction job for the
// background worker.
func (s *Service) Upload(ctx context.Context, userID string, data []byte, filename, mime string) (int, string, error) {
	if err := ValidateImage(data, mime); err != nil {
		return 0, "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("menus/%s/%s%s", userID, uuid.New().String(), ext)

	url, err := s.storage.UploadBytes(ctx, key, data, mime)
	if err != nil {
		return 0, "", err
	}

	id, err := s.repo.CreateJob(ctx, userID, url, filename)
	if err != nil {
		return 0, "", err
	}
	return id, url, nil
}

// Status reads a job for frontend polling.
func (s *Service) Status(ctx context.Context, id int) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

// Retry re-queues a FAILED job.
func (s *Service) Retry(ctx context.Context, id int) error {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != StatusFailed {
		return fmt.Errorf("job %d is %s, only FAILED jobs can be retried", id, job.Status)
	}
	return s.repo.ResetForRetry(ctx, id)
}
