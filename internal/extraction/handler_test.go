package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/classify"
)

type fakeVision struct {
	reply string
	err   error
	model string
}

func (f *fakeVision) ExtractMenu(_ context.Context, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeStorage struct {
	keys []string
}

func (f *fakeStorage) UploadBytes(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

const menuReply = `{"restaurant_name": "Spice Villa", "menu_sections": [
	{"section_name": "Starters", "items": [
		{"name": "Paneer Tikka", "pricing": [
			{"size": "Half", "price": 180}, {"size": "Full", "price": 320}
		]},
		{"name": "Veg Biryani", "price": 220}
	]}
]}`

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 40))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func multipartImage(t *testing.T, field, filename, mime string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", mime)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func setupTestRouter(service *Service, switchModel ModelSwitch) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewHandler(service, switchModel)

	r.POST("/menu/extract", handler.Extract)
	r.POST("/menu/preview", handler.Preview)
	r.POST("/menus/upload", func(c *gin.Context) {
		c.Set("userID", "user-1")
		handler.Upload(c)
	})
	r.GET("/menus/:id/status", handler.GetStatus)
	r.POST("/menus/:id/retry", handler.Retry)

	return r
}

func newTestService(vision VisionClient) (*Service, *InMemoryRepository, *fakeStorage) {
	repo := NewInMemoryRepository()
	storage := &fakeStorage{}
	engine := classify.NewEngine(nil)
	return NewService(repo, storage, vision, engine), repo, storage
}

func TestExtractEndToEnd(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	body, contentType := multipartImage(t, "menu_image", "menu.png", "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/menu/extract", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Rows []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"rows"`
			Summary struct {
				TotalItems int `json:"total_items"`
			} `json:"summary"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	// Paneer Tikka expands to two rows, Veg Biryani stays one.
	if len(resp.Data.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(resp.Data.Rows))
	}
	if resp.Data.Rows[0].Name != "Paneer Tikka (Half)" {
		t.Fatalf("unexpected first row: %+v", resp.Data.Rows[0])
	}
	if resp.Data.Summary.TotalItems != 3 {
		t.Fatalf("summary disagrees with rows: %+v", resp.Data.Summary)
	}
}

func TestExtractMissingFile(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/menu/extract", &bytes.Buffer{})
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestExtractVisionFailure(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{err: errors.New("upstream 500")})
	router := setupTestRouter(service, nil)

	body, contentType := multipartImage(t, "menu_image", "menu.png", "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/menu/extract", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestExtractModelOverride(t *testing.T) {
	defaultVision := &fakeVision{reply: menuReply, model: "default"}
	override := &fakeVision{reply: menuReply, model: "override"}

	var requested string
	service, _, _ := newTestService(defaultVision)
	router := setupTestRouter(service, func(model string) VisionClient {
		requested = model
		return override
	})

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="menu_image"; filename="menu.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := w.CreatePart(h)
	part.Write(pngBytes(t))
	w.WriteField("model", "openai/gpt-4o")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/menu/extract", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if requested != "openai/gpt-4o" {
		t.Fatalf("model override not forwarded, got %q", requested)
	}
}

func TestPreviewLimitsRows(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	rows := make([]map[string]any, 25)
	for i := range rows {
		rows[i] = map[string]any{"id": i + 1}
	}
	payload, _ := json.Marshal(map[string]any{"rows": rows, "limit": 5})

	req := httptest.NewRequest(http.MethodPost, "/menu/preview", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		PreviewData []json.RawMessage `json:"preview_data"`
		TotalRows   int               `json:"total_rows"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.PreviewData) != 5 {
		t.Fatalf("expected 5 preview rows, got %d", len(resp.PreviewData))
	}
	if resp.TotalRows != 25 {
		t.Fatalf("expected total_rows 25, got %d", resp.TotalRows)
	}
}

func TestPreviewMissingRows(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/menu/preview", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUploadCreatesJob(t *testing.T) {
	service, repo, storage := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	body, contentType := multipartImage(t, "menu_image", "menu.png", "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/menus/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != StatusUploaded {
		t.Fatalf("expected %s, got %s", StatusUploaded, resp.Status)
	}

	job, err := repo.GetJob(context.Background(), resp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != StatusUploaded || job.UserID != "user-1" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if len(storage.keys) != 1 {
		t.Fatalf("expected one stored object, got %v", storage.keys)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	body, contentType := multipartImage(t, "menu_image", "menu.txt", "text/plain", []byte("just text"))
	req := httptest.NewRequest(http.MethodPost, "/menus/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetStatusUnknownJob(t *testing.T) {
	service, _, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/menus/99/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRetryOnlyFailedJobs(t *testing.T) {
	service, repo, _ := newTestService(&fakeVision{reply: menuReply})
	router := setupTestRouter(service, nil)

	id, err := repo.CreateJob(context.Background(), "user-1", "https://cdn.example.com/x.png", "x.png")
	if err != nil {
		t.Fatal(err)
	}

	// UPLOADED job: retry is a conflict.
	req := httptest.NewRequest(http.MethodPost, "/menus/1/retry", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for non-failed job, got %d", w.Code)
	}

	if err := repo.MarkFailed(context.Background(), id, "vision down"); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodPost, "/menus/1/retry", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after failure, got %d", w.Code)
	}

	job, _ := repo.GetJob(context.Background(), id)
	if job.Status != StatusUploaded || job.LastError != nil {
		t.Fatalf("retry did not reset job: %+v", job)
	}
}
