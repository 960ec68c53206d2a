package fetcher

import "github.com/quantmind-br/ghfetch/pkg/version"

// DefaultUserAgent identifies ghfetch to GitHub, which rejects requests
// without a User-Agent
func DefaultUserAgent() string {
	return version.UserAgent()
}

// DefaultHeaders returns the headers sent with every request. Callers add
// Accept and Authorization per request.
func DefaultHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	return map[string]string{
		"User-Agent":    userAgent,
		"Cache-Control": "no-cache",
	}
}
