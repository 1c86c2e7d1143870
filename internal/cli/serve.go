package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/httpapi"
	"github.com/flowlens/flowlens/pkg/cache"
	"github.com/flowlens/flowlens/pkg/pipeline"
	"github.com/flowlens/flowlens/pkg/store"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// ServeConfig is the TOML configuration for the serve command.
//
//	listen = ":8080"
//
//	[cache]
//	backend = "memory"        # file | memory | redis | none
//	size = 1024               # memory backend: LRU entries
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "memory"        # memory | mongo
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "flowlens"
//
// Secrets can be supplied via environment instead of the file:
// FLOWLENS_REDIS_ADDR and FLOWLENS_MONGO_URI override their TOML values.
type ServeConfig struct {
	Listen string      `toml:"listen"`
	Cache  CacheConfig `toml:"cache"`
	Store  StoreConfig `toml:"store"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"` // file backend, defaults to the XDG cache dir
	Size      int    `toml:"size"`
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// defaultServeConfig returns the configuration used when no file is given.
func defaultServeConfig() ServeConfig {
	return ServeConfig{
		Listen: ":8080",
		Cache: CacheConfig{
			Backend: "memory",
			Size:    cache.DefaultMemoryCacheSize,
		},
		Store: StoreConfig{
			Backend:       "memory",
			MongoDatabase: appName,
		},
	}
}

// loadServeConfig reads the TOML file (if any) over the defaults and
// applies environment overrides.
func loadServeConfig(path string) (ServeConfig, error) {
	cfg := defaultServeConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if addr := os.Getenv("FLOWLENS_REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if uri := os.Getenv("FLOWLENS_MONGO_URI"); uri != "" {
		cfg.Store.MongoURI = uri
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = cache.DefaultMemoryCacheSize
	}
	if cfg.Store.MongoDatabase == "" {
		cfg.Store.MongoDatabase = appName
	}
	return cfg, nil
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: `Run the HTTP analysis API.

POST CFG documents to /v1/analyses and fetch stored DJ-graphs back.
Configuration comes from a TOML file (--config); --listen overrides the
configured address. The server shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServeConfig) error {
	ca, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, err := buildStore(ctx, cfg.Store)
	if err != nil {
		_ = ca.Close()
		return fmt.Errorf("initialize store: %w", err)
	}

	runner := pipeline.NewRunner(ca, nil, c.Logger)
	defer runner.Close()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()

	api := httpapi.NewServer(runner, st, c.Logger)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Listen, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildCache constructs the configured cache backend.
func buildCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemoryCache(cfg.Size)
	case "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache backend needs redis_addr (or FLOWLENS_REDIS_ADDR)")
		}
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q (must be file, memory, redis, or none)", cfg.Backend)
	}
}

// buildStore constructs the configured store backend.
func buildStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo store backend needs mongo_uri (or FLOWLENS_MONGO_URI)")
		}
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store backend: %q (must be memory or mongo)", cfg.Backend)
	}
}
