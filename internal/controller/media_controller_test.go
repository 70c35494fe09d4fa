package controller

import (
	"bytes"
	"lms_backend/internal/config"
	"lms_backend/internal/service"
	"lms_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
		start  int64
		end    int64
		ok     bool
	}{
		{"closed range", "bytes=100-199", 1000, 100, 199, true},
		{"open ended", "bytes=900-", 1000, 900, 999, true},
		{"end clamped to size", "bytes=0-5000", 1000, 0, 999, true},
		{"multi range takes first", "bytes=0-99,200-299", 1000, 0, 99, true},
		{"no header", "", 1000, 0, 0, false},
		{"wrong unit", "items=0-10", 1000, 0, 0, false},
		{"suffix range unsupported", "bytes=-500", 1000, 0, 0, false},
		{"garbage", "bytes=abc-def", 1000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := parseRange(tt.header, tt.size)
			if ok != tt.ok || start != tt.start || end != tt.end {
				t.Errorf("parseRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.header, start, end, ok, tt.start, tt.end, tt.ok)
			}
		})
	}
}

// newMediaRouter 落一个 1000 字节的视频文件到临时目录，内容为 0..255 循环
func newMediaRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "videos"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 256)
	}
	if err := os.WriteFile(filepath.Join(dir, "videos", "clip.mp4"), data, 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	storage := &service.StorageService{
		Provider: &service.LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}},
	}

	router := gin.New()
	router.GET("/uploads/:category/:filename", NewMediaController(storage).StreamMedia)
	return router
}

func serveMedia(t *testing.T, router *gin.Engine, path, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestStreamMediaFullFile(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/clip.mp4", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if got := resp.Header().Get("Content-Length"); got != "1000" {
		t.Errorf("Content-Length = %q, want 1000", got)
	}
	if got := resp.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q, want bytes", got)
	}
	if got := resp.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", got)
	}
	if resp.Body.Len() != 1000 {
		t.Errorf("body length = %d, want 1000", resp.Body.Len())
	}
}

func TestStreamMediaPartialContent(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/clip.mp4", "bytes=100-199")
	if resp.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.Code)
	}
	if got := resp.Header().Get("Content-Range"); got != "bytes 100-199/1000" {
		t.Errorf("Content-Range = %q", got)
	}
	if got := resp.Header().Get("Content-Length"); got != "100" {
		t.Errorf("Content-Length = %q, want 100", got)
	}

	want := make([]byte, 100)
	for i := range want {
		want[i] = byte((100 + i) % 256)
	}
	if !bytes.Equal(resp.Body.Bytes(), want) {
		t.Error("body does not match requested byte range")
	}
}

func TestStreamMediaOpenEndedRange(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/clip.mp4", "bytes=900-")
	if resp.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.Code)
	}
	if got := resp.Header().Get("Content-Range"); got != "bytes 900-999/1000" {
		t.Errorf("Content-Range = %q", got)
	}
	if resp.Body.Len() != 100 {
		t.Errorf("body length = %d, want 100", resp.Body.Len())
	}
}

func TestStreamMediaRangeNotSatisfiable(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/clip.mp4", "bytes=1000-")
	if resp.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want 416", resp.Code)
	}
	if got := resp.Header().Get("Content-Range"); got != "bytes */1000" {
		t.Errorf("Content-Range = %q, want bytes */1000", got)
	}
}

func TestStreamMediaMalformedRangeFallsBackToFull(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/clip.mp4", "bytes=oops")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if resp.Body.Len() != 1000 {
		t.Errorf("body length = %d, want 1000", resp.Body.Len())
	}
}

func TestStreamMediaMissingFile(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/videos/nope.mp4", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestStreamMediaRejectsUnknownCategory(t *testing.T) {
	router := newMediaRouter(t)

	resp := serveMedia(t, router, "/uploads/secrets/clip.mp4", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
