package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Redis.Addr != "" || cfg.Postgres.URL != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9090\"\nredis:\n  addr: \"localhost:6379\"\n  db: 2\npostgres:\n  url: \"postgres://quiz@localhost/quizdb\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Postgres.URL != "postgres://quiz@localhost/quizdb" {
		t.Fatalf("unexpected postgres config %+v", cfg.Postgres)
	}
}
