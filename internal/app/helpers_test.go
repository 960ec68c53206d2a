package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quantmind-br/ghfetch/internal/config"
	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/utils"
	"github.com/stretchr/testify/require"
)

const (
	testAPI = "https://api.test"
	testRaw = "https://raw.test"
)

// fakeClient serves raw files by exact URL; everything else is a 404
type fakeClient struct {
	mu    sync.Mutex
	files map[string]string
	fail  map[string]error
	calls []string
	auth  []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{files: make(map[string]string), fail: make(map[string]error)}
}

func (c *fakeClient) raw(owner, repo, branch, path, body string) {
	c.files[testRaw+"/"+owner+"/"+repo+"/"+branch+"/"+path] = body
}

func (c *fakeClient) Get(ctx context.Context, url string, headers map[string]string) (*domain.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, url)
	c.auth = append(c.auth, headers["Authorization"])
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := c.fail[url]; ok {
		return nil, err
	}
	if body, ok := c.files[url]; ok {
		return &domain.Response{StatusCode: http.StatusOK, Body: []byte(body), URL: url}, nil
	}
	return &domain.Response{StatusCode: http.StatusNotFound, URL: url}, nil
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// fakeInspector treats anything starting with %PDF- as a three page document
type fakeInspector struct{}

func (fakeInspector) Inspect(data []byte) (*domain.PDFInfo, error) {
	if !strings.HasPrefix(string(data), "%PDF-") {
		return nil, errors.New("invalid PDF: not a pdf")
	}
	return &domain.PDFInfo{Pages: 3, Metadata: map[string]string{"title": "Doc"}}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.GitHub.APIURL = testAPI
	cfg.GitHub.RawURL = testRaw
	cfg.Output.Directory = t.TempDir()
	cfg.Cache.Enabled = false
	cfg.Logging.Level = "error"
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, client domain.HTTPClient, mutate ...func(*OrchestratorOptions)) *Orchestrator {
	t.Helper()
	opts := OrchestratorOptions{
		Config:     cfg,
		HTTPClient: client,
		Inspector:  fakeInspector{},
		Logger:     utils.NewNopLogger(),
		Progress:   io.Discard,
	}
	for _, m := range mutate {
		m(&opts)
	}
	o, err := NewOrchestrator(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
