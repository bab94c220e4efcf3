package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giygas/mediscript-api/config"
	"github.com/giygas/mediscript-api/data"
	"github.com/giygas/mediscript-api/entities"
	"github.com/giygas/mediscript-api/handlers"
	"github.com/giygas/mediscript-api/health"
	"github.com/giygas/mediscript-api/logging"
	"github.com/giygas/mediscript-api/prescription"
	"github.com/giygas/mediscript-api/validation"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	staticDir := t.TempDir()
	index := "<!doctype html><title>MediScript Pro</title>"
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte(index), 0644); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Port:              "3000",
		Address:           "127.0.0.1",
		Env:               config.EnvTest,
		LogLevel:          "info",
		MaxRequestBody:    1024,
		MaxHeaderSize:     4096,
		MaxUploadSize:     10 << 20,
		StaticDir:         staticDir,
		RateLimitRate:     3,
		RateLimitCapacity: 1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, limiter *RateLimiter) (*Server, *data.Catalog) {
	t.Helper()
	logging.InitLoggerWithConfig(&config.Config{Env: config.EnvTest, LogLevel: "info"})

	catalog := data.NewSeededCatalog()
	processor := prescription.NewProcessor(catalog, nil, 0)
	uploads := validation.UploadPolicy{FieldName: "prescription", MaxSize: cfg.MaxUploadSize}
	h := handlers.NewHTTPHandler(catalog, processor, uploads, health.NewHealthChecker(catalog, time.Now()))

	return NewServer(cfg, h, limiter), catalog
}

func prescriptionUpload(t *testing.T, contentType string, size int) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="prescription"; filename="rx.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(bytes.Repeat([]byte{0xff}, size))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/prescription/process", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProcessingDelay = 2 * time.Second
	s, _ := newTestServer(t, cfg, nil)

	if s.server.Addr != "127.0.0.1:3000" {
		t.Errorf("Expected addr 127.0.0.1:3000, got %s", s.server.Addr)
	}
	if s.server.WriteTimeout != 17*time.Second {
		t.Errorf("Expected write timeout to include the processing delay, got %s", s.server.WriteTimeout)
	}
	if s.Handler() == nil {
		t.Error("Expected router to be configured")
	}
}

func TestRoutes(t *testing.T) {
	cfg := testConfig(t)
	s, _ := newTestServer(t, cfg, NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity))

	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		expectedCode int
		contains     string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, `"service":"MediScript Pro Backend"`},
		{"list medicines", http.MethodGet, "/api/medicines", "", http.StatusOK, `"count":8`},
		{"list with trailing slash", http.MethodGet, "/api/medicines/", "", http.StatusMovedPermanently, ""},
		{"add medicine", http.MethodPost, "/api/medicines", `{"name":"Aspirin","potency":"100mg","price":"5.5"}`, http.StatusOK, `"price":5.5`},
		{"add malformed", http.MethodPost, "/api/medicines", `{`, http.StatusBadRequest, `"success":false`},
		{"index page", http.MethodGet, "/", "", http.StatusOK, "MediScript Pro"},
		{"missing asset", http.MethodGet, "/missing.css", "", http.StatusNotFound, ""},
		{"unknown api route", http.MethodGet, "/api/unknown", "", http.StatusNotFound, ""},
		{"wrong method", http.MethodDelete, "/api/medicines", "", http.StatusMethodNotAllowed, ""},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "http_request_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()

			s.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.expectedCode {
				t.Fatalf("Expected status %d, got %d (%s)", tt.expectedCode, rr.Code, rr.Body.String())
			}
			if tt.contains != "" && !strings.Contains(rr.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q, got %s", tt.contains, rr.Body.String())
			}
		})
	}
}

func TestAddThenList(t *testing.T) {
	cfg := testConfig(t)
	s, catalog := newTestServer(t, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/medicines",
		strings.NewReader(`{"name":"Aspirin","potency":"100mg","price":5.5}`))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Add failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/medicines", nil))

	var list struct {
		Data  []entities.Medicine `json:"data"`
		Count int                 `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 9 || catalog.Count() != 9 {
		t.Fatalf("Expected 9 medicines, got %d", list.Count)
	}
	if last := list.Data[8]; last.Name != "Aspirin" || last.Price != 5.5 {
		t.Errorf("Expected Aspirin last, got %+v", last)
	}
}

func TestProcessPrescriptionEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	s, _ := newTestServer(t, cfg, nil)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, prescriptionUpload(t, "image/jpeg", 2048))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool                        `json:"success"`
		Data    entities.PrescriptionResult `json:"data"`
		Message string                      `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if len(resp.Data.Medicines) != 3 {
		t.Fatalf("Expected 3 medicines, got %d", len(resp.Data.Medicines))
	}
	want := entities.Billing{Subtotal: 83.49, Tax: 6.68, Total: 90.17}
	if resp.Data.Billing != want {
		t.Errorf("Expected billing %+v, got %+v", want, resp.Data.Billing)
	}
	if resp.Data.ProcessingInfo.ImageSize != 2048 || resp.Data.ProcessingInfo.MimeType != "image/jpeg" {
		t.Errorf("Unexpected processing info %+v", resp.Data.ProcessingInfo)
	}
}

func TestProcessPrescriptionRejections(t *testing.T) {
	cfg := testConfig(t)
	s, _ := newTestServer(t, cfg, nil)

	tests := []struct {
		name          string
		req           *http.Request
		expectedError string
	}{
		{"too large", prescriptionUpload(t, "image/png", 10<<20+1), "File too large. Maximum size is 10MB."},
		{"not an image", prescriptionUpload(t, "application/pdf", 64), "No prescription image uploaded"},
		{"no body", httptest.NewRequest(http.MethodPost, "/api/prescription/process", nil), "No prescription image uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, tt.req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rr.Code)
			}
			var body handlers.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.expectedError {
				t.Errorf("Expected %q, got %q", tt.expectedError, body.Error)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig(t)
	s, _ := newTestServer(t, cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/prescription/process", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()

	s.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("Expected Access-Control-Allow-Methods POST, got %q", got)
	}
}

func TestRequestLimits(t *testing.T) {
	cfg := testConfig(t)
	s, catalog := newTestServer(t, cfg, nil)

	t.Run("body too large", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("a", 2048) + `","potency":"1mg","price":1}`
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/medicines", strings.NewReader(body)))

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d", rr.Code)
		}
		if catalog.Count() != 8 {
			t.Errorf("Catalog must be unchanged, got %d", catalog.Count())
		}
	})

	t.Run("headers too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/medicines", nil)
		req.Header.Set("X-Padding", strings.Repeat("x", 8192))
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestHeaderFieldsTooLarge {
			t.Errorf("Expected 431, got %d", rr.Code)
		}
	})
}

func TestShutdownWithoutStart(t *testing.T) {
	cfg := testConfig(t)
	s, _ := newTestServer(t, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
	if err := s.Start(); err != http.ErrServerClosed {
		t.Errorf("Expected ErrServerClosed after shutdown, got %v", err)
	}
}

func TestHealthAndListIgnoreRateLimit(t *testing.T) {
	cfg := testConfig(t)
	limiter := NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity)
	s, _ := newTestServer(t, cfg, limiter)

	// httptest requests come from 192.0.2.1:1234
	limiter.getBucket("192.0.2.1:1234").TakeAvailable(cfg.RateLimitCapacity)

	for i := 0; i < 250; i++ {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("Health request %d returned %d", i+1, rr.Code)
		}
	}

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/medicines", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("List request %d returned %d", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, prescriptionUpload(t, "image/jpeg", 16))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected uploads to be throttled with an empty bucket, got %d", rr.Code)
	}
}
