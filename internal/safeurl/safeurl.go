// Package safeurl guards against SSRF and scheme confusion when the library
// is about to dereference a URL it did not construct itself (master file
// list entries, BigQuery export URIs echoed back in errors, etc).
package safeurl

import (
	"net/url"
	"strings"
)

// IsHTTPOrHTTPS returns true if u is a valid URL with scheme http or https.
// Used to reject file://, ftp://, and other schemes that could lead to SSRF or local file access.
func IsHTTPOrHTTPS(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	s := parsed.Scheme
	return s == "http" || s == "https"
}

// Whitelist is an allow-list of scheme://host/path-prefix tuples. A nil or
// empty Whitelist allows nothing. GDELT's default whitelist
// (data.gdeltproject.org) is DefaultGDELTWhitelist below; callers pass their
// own Whitelist instead, e.g. so tests can substitute a local fixture server.
type Whitelist []string

// Allows reports whether u is http/https and matches at least one entry by
// exact scheme+host and path-prefix. Entries are themselves parsed as URLs,
// e.g. "https://data.gdeltproject.org/gdeltv2/".
func (w Whitelist) Allows(u string) bool {
	if !IsHTTPOrHTTPS(u) {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	for _, entry := range w {
		prefix, err := url.Parse(entry)
		if err != nil {
			continue
		}
		if !strings.EqualFold(prefix.Scheme, parsed.Scheme) {
			continue
		}
		if !strings.EqualFold(prefix.Host, parsed.Host) {
			continue
		}
		if strings.HasPrefix(parsed.Path, prefix.Path) {
			return true
		}
	}
	return false
}

// DefaultGDELTWhitelist is the set of path prefixes the masterlist and
// filesource components restrict themselves to. Any URL from a master file
// list that falls outside this whitelist is rejected rather than fetched —
// the master file list is itself fetched over HTTPS from the same host, so
// this only guards against a compromised or malformed inventory entry
// pointing elsewhere.
var DefaultGDELTWhitelist = Whitelist{
	"https://data.gdeltproject.org/gdeltv2/",
	"https://data.gdeltproject.org/gkg/",
}
