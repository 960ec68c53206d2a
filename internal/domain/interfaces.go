package domain

import (
	"context"
	"net/http"
	"time"
)

// HTTPClient performs single GET requests. Implementations return a Response
// for every HTTP status and an error only for transport failures.
type HTTPClient interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// Writer persists fetched files
type Writer interface {
	// Write saves the result and returns the path written to
	Write(ctx context.Context, result *FetchResult, target string) (string, error)
}

// PDFInspector reads page count and document metadata from PDF bytes
type PDFInspector interface {
	Inspect(data []byte) (*PDFInfo, error)
}
