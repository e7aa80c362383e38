package storage

import (
	"net/url"
	"strings"
)

// NormalizePageURL applies simple canonicalization rules suitable for page
// identity. It returns "" for input that cannot name a web page.
func NormalizePageURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.Contains(s, "://") {
		if hasOpaqueScheme(s) {
			return ""
		}
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" && u.Port() == "80" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" && u.Port() == "443" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	if strings.HasSuffix(u.Path, "/") && len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	u.RawPath = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// hasOpaqueScheme reports whether s starts with a scheme such as "mailto:"
// rather than a host with an optional port.
func hasOpaqueScheme(s string) bool {
	i := strings.IndexAny(s, ":/")
	if i < 0 || s[i] != ':' {
		return false
	}
	port := s[i+1:]
	if j := strings.IndexByte(port, '/'); j >= 0 {
		port = port[:j]
	}
	if port == "" {
		return true
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}
