//go:build functional

// Package functional runs the admin console, client and stores against an
// in-process development backend listening on a real port.
package functional

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/client"
	"github.com/vyrodovalexey/restadmin/internal/config"
	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/server"
	"github.com/vyrodovalexey/restadmin/internal/storage"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// Environment variable names for test configuration.
const (
	EnvTestServerHost = "TEST_SERVER_HOST"
	EnvTestTimeout    = "TEST_TIMEOUT"
	EnvTestPageSize   = "TEST_PAGE_SIZE"
)

// Default test configuration values.
const (
	DefaultTestHost        = "127.0.0.1"
	DefaultTestTimeout     = 30 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultPageSize        = 10
)

// TestConfig holds test configuration loaded from environment.
type TestConfig struct {
	Host     string
	Timeout  time.Duration
	PageSize int
}

// LoadTestConfig loads test configuration from environment variables.
func LoadTestConfig() *TestConfig {
	cfg := &TestConfig{
		Host:     DefaultTestHost,
		Timeout:  DefaultTestTimeout,
		PageSize: DefaultPageSize,
	}

	if host := os.Getenv(EnvTestServerHost); host != "" {
		cfg.Host = host
	}

	if timeoutStr := os.Getenv(EnvTestTimeout); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Timeout = timeout
		}
	}

	if sizeStr := os.Getenv(EnvTestPageSize); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			cfg.PageSize = size
		}
	}

	return cfg
}

// TestServer is a running development backend with direct storage access.
type TestServer struct {
	Server   *server.Server
	Products *storage.MemoryStorage[model.Product]
	Users    *storage.MemoryStorage[model.User]
	BaseURL  string
	Config   *TestConfig
}

// NewTestServer starts a backend on a free port and stops it on cleanup.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testCfg := LoadTestConfig()

	listener, err := net.Listen("tcp", net.JoinHostPort(testCfg.Host, "0"))
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	cfg := &config.Config{
		LogLevel:        "error",
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	ts := &TestServer{
		Products: storage.NewProductStorage(),
		Users:    storage.NewUserStorage(),
		BaseURL:  "http://" + listener.Addr().String(),
		Config:   testCfg,
	}
	ts.Server = server.New(cfg, zap.NewNop(), ts.Products, ts.Users)

	go func() {
		if err := ts.Server.Serve(listener); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	ts.waitReady(t)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		_ = ts.Server.Shutdown(ctx)
	})

	return ts
}

// waitReady polls the health endpoint until the server answers.
func (ts *TestServer) waitReady(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Server did not become ready at %s", ts.BaseURL)
		case <-ticker.C:
			resp, err := http.Get(ts.BaseURL + "/health")
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
	}
}

// Client returns an API client for the server.
func (ts *TestServer) Client(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.New(ts.BaseURL, client.WithTimeout(DefaultRequestTimeout), client.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return c
}

// ProductStore returns a products store backed by the server.
func (ts *TestServer) ProductStore(t *testing.T) *store.ResourceStore[model.Product, model.ProductDraft] {
	t.Helper()

	s, err := store.NewResourceStore[model.Product, model.ProductDraft]("products", ts.Client(t).Products(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewResourceStore() error = %v", err)
	}
	return s
}

// UserStore returns a paged users store backed by the server.
func (ts *TestServer) UserStore(t *testing.T) *store.PagedStore[model.User, model.UserDraft] {
	t.Helper()

	s, err := store.NewPagedStore[model.User, model.UserDraft](
		"users", ts.Client(t).Users(), ts.Config.PageSize, zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("NewPagedStore() error = %v", err)
	}
	return s
}

// SeedUsers inserts n users with IDs 1..n.
func (ts *TestServer) SeedUsers(n int) {
	for i := 1; i <= n; i++ {
		ts.Users.Seed(model.User{
			ID:        i,
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Username:  fmt.Sprintf("user%d", i),
			Phone:     fmt.Sprintf("555-%04d", i),
		})
	}
}

// testContext returns a context bounded by the configured test timeout.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), LoadTestConfig().Timeout)
	t.Cleanup(cancel)
	return ctx
}
