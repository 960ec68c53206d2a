package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyPrefix constants for different cache types
const (
	PrefixFile = "file"
)

// anonymous is the fingerprint used for requests without a credential
const anonymous = "anon"

// GenerateKey hashes the given material into a 64 character hex key
func GenerateKey(material string) string {
	hash := sha256.Sum256([]byte(material))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, material string) string {
	return prefix + ":" + GenerateKey(material)
}

// CredentialFingerprint returns a short, non-reversible identifier for a
// credential so cached private content stays scoped to the token that read it
func CredentialFingerprint(credential string) string {
	if credential == "" {
		return anonymous
	}
	return GenerateKey(credential)[:16]
}

// FileKey generates the cache key for one file at one ref. Owner and repo are
// case-insensitive on GitHub; branch and path are not.
func FileKey(owner, repo, branch, filePath, credential string) string {
	material := strings.Join([]string{
		strings.ToLower(owner),
		strings.ToLower(repo),
		branch,
		cleanPath(filePath),
		CredentialFingerprint(credential),
	}, "\x00")
	return GenerateKeyWithPrefix(PrefixFile, material)
}

// cleanPath drops empty segments so "a//b/" and "/a/b" share a key
func cleanPath(p string) string {
	return strings.Join(strings.FieldsFunc(p, func(r rune) bool { return r == '/' }), "/")
}
