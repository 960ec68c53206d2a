package utils

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength is the maximum length in bytes for a filename
const MaxFilenameLength = 200

// MetadataSuffix is appended to a saved file's name for its JSON sidecar
const MetadataSuffix = ".meta.json"

// Windows reserved names
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// invalidCharsRegex matches invalid filename characters
var invalidCharsRegex = regexp.MustCompile(`[<>:"|?*\\/]`)

// repeatedUnderscores collapses runs produced by substitution
var repeatedUnderscores = regexp.MustCompile(`_{2,}`)

// SanitizeFilename makes a single repository path segment safe to use as a
// local file name. Spaces and non-ASCII letters are kept; names are NFC
// normalised so the same file fetched on different platforms maps to one name.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	name = invalidCharsRegex.ReplaceAllString(name, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")

	// Windows strips trailing dots and spaces
	name = strings.TrimRight(strings.TrimSpace(name), ". ")
	if strings.Trim(name, "_") == "" {
		name = ""
	}

	// Check for Windows reserved names
	upper := strings.ToUpper(name)
	baseNameUpper := strings.TrimSuffix(upper, filepath.Ext(upper))
	if windowsReserved[baseNameUpper] {
		name = "_" + name
	}

	if len(name) > MaxFilenameLength {
		name = truncateKeepingExt(name, MaxFilenameLength)
	}

	if name == "" {
		name = "untitled"
	}

	return name
}

// truncateKeepingExt shortens name to at most limit bytes without splitting a
// UTF-8 sequence
func truncateKeepingExt(name string, limit int) string {
	ext := filepath.Ext(name)
	if len(ext) >= limit {
		ext = ""
	}
	base := strings.TrimSuffix(name, ext)
	cut := limit - len(ext)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}
	return base[:cut] + ext
}

// RepoPathToLocal converts a slash separated repository path into a relative
// local path. Nested mode keeps the directory structure; flat mode keeps only
// the base name.
func RepoPathToLocal(repoPath string, flat bool) string {
	var parts []string
	for _, part := range strings.Split(repoPath, "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		parts = append(parts, SanitizeFilename(part))
	}
	if len(parts) == 0 {
		return "untitled"
	}
	if flat {
		return parts[len(parts)-1]
	}
	return filepath.Join(parts...)
}

// GenerateFilePath returns where a repository file is saved under baseDir
func GenerateFilePath(baseDir, repoPath string, flat bool) string {
	return filepath.Join(baseDir, RepoPathToLocal(repoPath, flat))
}

// MetadataPath returns the JSON sidecar path for a saved file
func MetadataPath(filePath string) string {
	return filePath + MetadataSuffix
}

// BaseName returns the last segment of a slash separated repository path
func BaseName(repoPath string) string {
	return path.Base("/" + strings.Trim(repoPath, "/"))
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// FileExists reports whether path exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
