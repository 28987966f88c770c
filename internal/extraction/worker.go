package extraction

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

// ProcessOne picks ONE pending extraction job and processes it.
// Per-job failures mark the job FAILED and never block the worker.
func (s *Service) ProcessOne(ctx context.Context) error {
	job, err := s.repo.ClaimPending(ctx)
	if err != nil {
		return err
	}
	if job == nil {
		return nil
	}

	resp, err := http.Get(job.ImageURL)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error())
		return nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		_ = s.repo.MarkFailed(ctx, job.ID, "failed to fetch image from storage")
		return nil
	}

	log.Printf("EXTRACT_PROCESSING id=%d bytes=%d", job.ID, len(data))

	result, err := s.Extract(ctx, data, resp.Header.Get("Content-Type"))
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error())
		return nil
	}

	log.Printf("EXTRACT_DONE id=%d rows=%d", job.ID, len(result.Rows))

	return s.repo.MarkExtracted(ctx, job.ID, result)
}

// RunWorker polls for pending jobs until the process stops.
func (s *Service) RunWorker(interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	log.Println("extraction worker started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := s.ProcessOne(context.Background()); err != nil {
			log.Printf("extraction worker error: %v", err)
		}
	}
}
