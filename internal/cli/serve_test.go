package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/flowlens/flowlens/pkg/cache"
)

func TestLoadServeConfig_Defaults(t *testing.T) {
	cfg, err := loadServeConfig("")
	if err != nil {
		t.Fatalf("loadServeConfig() = %v", err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.Size != cache.DefaultMemoryCacheSize {
		t.Errorf("Cache.Size = %d, want %d", cfg.Cache.Size, cache.DefaultMemoryCacheSize)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Store.MongoDatabase != appName {
		t.Errorf("Store.MongoDatabase = %q, want %q", cfg.Store.MongoDatabase, appName)
	}
}

func TestLoadServeConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowlens.toml")
	content := `
listen = ":9090"

[cache]
backend = "file"
dir = "/tmp/flowlens-cache"

[store]
backend = "mongo"
mongo_uri = "mongodb://db:27017"
mongo_database = "analyses"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServeConfig(path)
	if err != nil {
		t.Fatalf("loadServeConfig() = %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.Dir != "/tmp/flowlens-cache" {
		t.Errorf("Cache = %+v, want file backend at /tmp/flowlens-cache", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("Store = %+v, want mongo backend at mongodb://db:27017", cfg.Store)
	}
	if cfg.Store.MongoDatabase != "analyses" {
		t.Errorf("Store.MongoDatabase = %q, want analyses", cfg.Store.MongoDatabase)
	}
}

func TestLoadServeConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FLOWLENS_REDIS_ADDR", "redis:6379")
	t.Setenv("FLOWLENS_MONGO_URI", "mongodb://secret:27017")

	cfg, err := loadServeConfig("")
	if err != nil {
		t.Fatalf("loadServeConfig() = %v", err)
	}

	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache.RedisAddr = %q, want env override", cfg.Cache.RedisAddr)
	}
	if cfg.Store.MongoURI != "mongodb://secret:27017" {
		t.Errorf("Store.MongoURI = %q, want env override", cfg.Store.MongoURI)
	}
}

func TestLoadServeConfig_MissingFile(t *testing.T) {
	if _, err := loadServeConfig("/does/not/exist.toml"); err == nil {
		t.Errorf("loadServeConfig(missing) = nil error")
	}
}

func TestBuildCache_UnknownBackend(t *testing.T) {
	if _, err := buildCache(context.Background(), CacheConfig{Backend: "tape"}); err == nil {
		t.Errorf("buildCache(tape) = nil error")
	}
}

func TestBuildStore_UnknownBackend(t *testing.T) {
	if _, err := buildStore(context.Background(), StoreConfig{Backend: "tape"}); err == nil {
		t.Errorf("buildStore(tape) = nil error")
	}
}
