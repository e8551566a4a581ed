package app

import (
	"aperturelab/internal/config"
	"aperturelab/internal/flag"
	"aperturelab/internal/platform/logger"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		LogMode:     "dev",
		MongoDB:     "aperturelab",
		JWTSecret:   "app-test-secret",
		TokenTTL:    time.Hour,
		StateTTL:    time.Hour,
		FlagBackend: flag.BackendMemory,
		AutoAdvance: true,
		QuizURL:     "/quiz",
	}
}

func TestNewInMemory(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(context.Background())

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
	if len(a.Catalog.Topics()) == 0 {
		t.Error("no topics loaded")
	}
}

func TestOpenFlagStore(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{"memory", flag.BackendMemory, false},
		{"sqlite", flag.BackendSQLite, false},
		{"redis without client", flag.BackendRedis, true},
		{"mongo without client", flag.BackendMongo, true},
		{"unknown", "etcd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig()
			cfg.FlagBackend = tt.backend
			cfg.SQLitePath = filepath.Join(t.TempDir(), "flags.db")
			a := &App{Config: cfg, Log: logger.Nop()}
			defer a.Close(context.Background())

			store, err := a.openFlagStore(nil)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openFlagStore: %v", err)
			}
			ctx := context.Background()
			if err := flag.MarkQuizCompleted(ctx, store, "l_app"); err != nil {
				t.Fatal(err)
			}
			done, err := flag.QuizCompleted(ctx, store, "l_app")
			if err != nil || !done {
				t.Errorf("QuizCompleted = %v, %v", done, err)
			}
		})
	}
}
