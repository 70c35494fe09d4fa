package service

import (
	"lms_backend/internal/config"
	"testing"
)

func TestStorageFallsBackToLocalOnBadMinioEndpoint(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Type:          "minio",
			LocalPath:     t.TempDir(),
			MinioEndpoint: "not a valid endpoint",
		},
	}

	svc := NewStorageService(cfg)
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("provider = %T, want local fallback", svc.Provider)
	}
}

func TestStorageUsesLocalByDefault(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	svc := NewStorageService(cfg)
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("provider = %T, want local", svc.Provider)
	}
}
