package github

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

// contentsResponse is the subset of the contents API file object we read
type contentsResponse struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	SHA      string  `json:"sha"`
	Size     int64   `json:"size"`
	Encoding string  `json:"encoding"`
	Content  *string `json:"content"`
}

type contentsFile struct {
	Name string
	SHA  string
	Size int64

	data []byte
	// inline is false when the API answered with metadata only
	inline bool
}

var base64Whitespace = strings.NewReplacer("\n", "", "\r", "")

// decodeContents parses a 200 contents API body. A well-formed object with
// encoding "none" returns inline=false; every other shape problem is a
// ProtocolError.
func decodeContents(sourceURL string, body []byte) (*contentsFile, error) {
	var resp contentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewProtocolError(sourceURL, "expected a JSON file object", err)
	}

	file := &contentsFile{
		Name: resp.Name,
		SHA:  resp.SHA,
		Size: resp.Size,
	}

	if resp.Encoding == "none" {
		return file, nil
	}
	if resp.Content == nil {
		return nil, domain.NewProtocolError(sourceURL, "missing content field", nil)
	}
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return nil, domain.NewProtocolError(sourceURL, "unsupported content encoding "+resp.Encoding, nil)
	}

	data, err := base64.StdEncoding.DecodeString(base64Whitespace.Replace(*resp.Content))
	if err != nil {
		return nil, domain.NewProtocolError(sourceURL, "invalid base64 content", err)
	}

	file.data = data
	file.inline = true
	return file, nil
}
