package blob

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^a-z0-9.]`)
	repeatedUnders  = regexp.MustCompile(`_{2,}`)
)

// SanitizeName lower-cases name, replaces every character outside [a-z0-9.]
// with '_' and collapses runs of '_'.
func SanitizeName(name string) string {
	out := unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_")
	out = repeatedUnders.ReplaceAllString(out, "_")
	if out == "" || out == "_" {
		return "file"
	}
	return out
}

// BuildKey returns folder/<unix-millis>_<suffix>_<sanitized-name>.
func BuildKey(folder, name string, now time.Time, suffix string) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if suffix != "" {
		stamp += "_" + suffix
	}
	file := stamp + "_" + SanitizeName(name)
	folder = NormalizeKey(folder)
	if folder == "" {
		return file
	}
	return folder + "/" + file
}

// NormalizeKey converts separators to '/', strips leading slashes and
// collapses duplicate slashes.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimLeft(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return strings.TrimRight(key, "/")
}

// EncodeKey path-escapes every segment of key.
func EncodeKey(key string) string {
	parts := strings.Split(NormalizeKey(key), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// JoinURL appends the encoded key to base.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + EncodeKey(key)
}

// TrimBaseURL is the inverse of JoinURL: it reports the key of rawURL when
// rawURL lives under base.
func TrimBaseURL(base, rawURL string) (string, bool) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	rawURL = strings.TrimSpace(rawURL)
	if base == "" || rawURL == "" {
		return "", false
	}
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if !strings.HasPrefix(rawURL, base+"/") {
		return "", false
	}
	key, err := url.PathUnescape(rawURL[len(base)+1:])
	if err != nil {
		return "", false
	}
	key = NormalizeKey(key)
	if key == "" || hasDotSegment(key) {
		return "", false
	}
	return key, true
}

func hasDotSegment(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}
