package compose

import "net/url"

// rewriteLink resolves href against base and downgrades https to http,
// since the client predates TLS.
func rewriteLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme == "https" {
		resolved.Scheme = "http"
	}
	return resolved.String()
}
