package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.FlagBackend != "memory" || !cfg.AutoAdvance {
		t.Errorf("defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl: got %v", cfg.TokenTTL)
	}
	if cfg.CORS.Origins != "*" {
		t.Errorf("cors origins: got %q", cfg.CORS.Origins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FLAG_BACKEND", "Redis")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("AUTO_ADVANCE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.FlagBackend != "redis" || cfg.AutoAdvance {
		t.Errorf("env values: %+v", cfg)
	}
	if got := cfg.RedisAddr(); got != "cache:6379" {
		t.Errorf("RedisAddr: got %q", got)
	}
	if cfg.CORS.Origins != "https://example.com" {
		t.Errorf("cors origins: got %q", cfg.CORS.Origins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad duration", map[string]string{"TOKEN_TTL": "soon"}, "parse env"},
		{"unknown backend", map[string]string{"FLAG_BACKEND": "etcd"}, "unknown FLAG_BACKEND"},
		{"redis without uri", map[string]string{"FLAG_BACKEND": "redis"}, "REDIS_URI"},
		{"mongo without uri", map[string]string{"FLAG_BACKEND": "mongo"}, "MONGO_URI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load: got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
