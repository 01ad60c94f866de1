package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Setenv("JWT_SECRET", "serve-test-secret")
	cfg := config.Default()
	cfg.Upload.Dir = filepath.Join(t.TempDir(), "artifacts")
	return cfg
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func request(t *testing.T, h http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestBuildApp_MemoryStoreWithDemoData(t *testing.T) {
	a, err := buildApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "memory", a.storeKind)

	h := a.server.Handler()

	code, _ := request(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, env := request(t, h, http.MethodPost, "/api/auth/login", "", `{"userId":"COORD-001","password":"coord123"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	code, env = request(t, h, http.MethodGet, "/api/benchmark-tasks", login.Token, "")
	require.Equal(t, http.StatusOK, code)
	var tasks []types.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Len(t, tasks, 2)
}

func TestBuildApp_WithoutDemoData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workflow.SeedDemoData = false

	a, err := buildApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	h := a.server.Handler()
	_, env := request(t, h, http.MethodPost, "/api/auth/login", "", `{"userId":"ADMIN-001","password":"admin123"}`)
	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	code, env := request(t, h, http.MethodGet, "/api/benchmark-tasks", login.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestBuildApp_ProductionRequiresJWTSecret(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv("JWT_SECRET", "")
	cfg.Server.Environment = config.EnvironmentProduction

	_, err := buildApp(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Server.Environment = "Production"
	require.True(t, cfg.IsProduction())
	_, err = buildApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildApp_MissingDirectoryFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Directory.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := buildApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildApp_UnreachableDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.URL = "postgres://accreditrack@127.0.0.1:1/accreditrack?sslmode=disable&connect_timeout=1"

	_, err := buildApp(context.Background(), cfg)
	assert.Error(t, err)
}
