package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"profmatch/internal/config"
	"profmatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	provider   *fakeProvider
}

// fakeProvider answers teacher searches from a fixed table keyed by search text.
type fakeProvider struct {
	mu      sync.Mutex
	results map[string]string
	queries []string
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variables map[string]any `json:"variables"`
	}
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &req)
	text, _ := req.Variables["text"].(string)

	f.mu.Lock()
	f.queries = append(f.queries, text)
	edges := f.results[text]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":{"newSearch":{"teachers":{"edges":[` + edges + `]}}}}`))
}

func (f *fakeProvider) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("PROFMATCH_DATABASE", "")
	t.Setenv("RMP_SCHOOL_ID", "")

	provider := &fakeProvider{results: map[string]string{}}
	server := httptest.NewServer(provider)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithProviderURL(server.URL), testsupport.WithWorkers(2))
	cfg.Logging.Level = "error"
	configPath := filepath.Join(testsupport.BaseDir(cfg), "profmatch.toml")
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, provider: provider}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
