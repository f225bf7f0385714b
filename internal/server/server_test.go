package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/config"
	localstore "recruit-backend/internal/shared/storage/object/local"
)

type serverFixture struct {
	router *gin.Engine
	cands  *candidates.MemoryRepo
	queue  *queue.Service
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &serverFixture{
		cands: candidates.NewMemoryRepo(),
		queue: queue.NewService(queue.NewMemoryRepo(), queue.NewMemoryTransport(32), 3, time.Millisecond),
	}
	f.router = NewEngine(Deps{
		Config:       config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		Queue:        f.queue,
		Candidates:   f.cands,
		Postings:     postings.NewMemoryRepo(),
		Applications: applications.NewMemoryRepo(),
		Store:        localstore.New(t.TempDir()),
	})
	return f
}

func (f *serverFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, resp.Body.String())
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	f := newServerFixture(t)
	resp := f.request(t, http.MethodGet, "/api/v1/health", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	payload := decodeJSON(t, resp)
	if payload["status"] != "ok" || payload["database"] != "memory" {
		t.Fatalf("unexpected health payload: %v", payload)
	}
}

func TestCreateCandidateValidation(t *testing.T) {
	f := newServerFixture(t)

	resp := f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{"email": "", "fullName": "Jane"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", resp.Code)
	}

	resp = f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{"email": "jane@example.com", "fullName": "Jane Doe"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeJSON(t, resp)
	if payload["status"] != candidates.StatusPending {
		t.Fatalf("expected pending status, got %v", payload["status"])
	}
	if payload["id"] == "" {
		t.Fatalf("expected generated id")
	}
}

func TestUploadCVStoresFile(t *testing.T) {
	f := newServerFixture(t)
	created := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe",
	}))
	id := created["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("Jane Doe. Go engineer.")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/"+id+"/cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeJSON(t, resp)
	if payload["storageKey"] == "" {
		t.Fatalf("expected storage key, got %v", payload)
	}
	if !strings.HasPrefix(payload["mimeType"].(string), "text/plain") {
		t.Fatalf("unexpected mime type: %v", payload["mimeType"])
	}
}

func TestAnalyzeCandidateEnqueuesOnce(t *testing.T) {
	f := newServerFixture(t)
	created := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe",
	}))
	id := created["id"].(string)

	resp := f.request(t, http.MethodPost, "/api/v1/candidates/"+id+"/analyze", map[string]any{"kind": "cv-feedback"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	first := decodeJSON(t, resp)
	if first["created"] != true {
		t.Fatalf("expected created=true, got %v", first)
	}
	firstJob := first["job"].(map[string]any)

	resp = f.request(t, http.MethodPost, "/api/v1/candidates/"+id+"/analyze", map[string]any{"kind": "cv-feedback"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for duplicate, got %d", resp.Code)
	}
	second := decodeJSON(t, resp)
	if second["created"] != false {
		t.Fatalf("expected created=false for duplicate, got %v", second)
	}
	if second["job"].(map[string]any)["id"] != firstJob["id"] {
		t.Fatalf("expected same job returned for duplicate enqueue")
	}
}

func TestAnalyzeCandidateRejectsJobMatchKind(t *testing.T) {
	f := newServerFixture(t)
	created := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe",
	}))
	id := created["id"].(string)

	resp := f.request(t, http.MethodPost, "/api/v1/candidates/"+id+"/analyze", map[string]any{"kind": "job-match"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAnalyzeMissingCandidateReturns404(t *testing.T) {
	f := newServerFixture(t)
	resp := f.request(t, http.MethodPost, "/api/v1/candidates/ghost/analyze", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestJobStatusAndStats(t *testing.T) {
	f := newServerFixture(t)
	created := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe",
	}))
	id := created["id"].(string)

	accepted := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates/"+id+"/analyze", nil))
	jobID := accepted["job"].(map[string]any)["id"].(string)

	resp := f.request(t, http.MethodGet, "/api/v1/jobs/"+jobID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	job := decodeJSON(t, resp)
	if job["status"] != queue.StatusQueued {
		t.Fatalf("expected queued job, got %v", job["status"])
	}

	resp = f.request(t, http.MethodGet, "/api/v1/jobs/ghost", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown job, got %d", resp.Code)
	}

	resp = f.request(t, http.MethodGet, "/api/v1/jobs/stats", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	stats := decodeJSON(t, resp)
	counts := stats["counts"].(map[string]any)
	if counts[queue.StatusQueued] != float64(1) {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestApplicationFlow(t *testing.T) {
	f := newServerFixture(t)
	cand := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe",
	}))
	posting := decodeJSON(t, f.request(t, http.MethodPost, "/api/v1/postings", map[string]any{
		"title": "Backend Engineer", "yearsExperience": 3, "hardSkills": []string{"Go"},
	}))

	resp := f.request(t, http.MethodPost, "/api/v1/applications", map[string]any{
		"candidateId": cand["id"], "postingId": posting["id"],
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	app := decodeJSON(t, resp)

	resp = f.request(t, http.MethodPost, "/api/v1/applications/"+app["id"].(string)+"/analyze", nil)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	accepted := decodeJSON(t, resp)
	job := accepted["job"].(map[string]any)
	if job["entityKind"] != queue.KindJobMatch {
		t.Fatalf("expected job-match kind, got %v", job["entityKind"])
	}
}

func TestApplicationRequiresExistingEntities(t *testing.T) {
	f := newServerFixture(t)
	resp := f.request(t, http.MethodPost, "/api/v1/applications", map[string]any{
		"candidateId": "ghost", "postingId": "ghost",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
