// Package cookiepolicy enforces the legacy client's cookie limits: a
// ceiling on total cookies, a per-site ceiling, and a per-cookie byte
// ceiling. The fetcher applies it to the cookies sent with each upstream
// request and to the Set-Cookie list of each upstream response; the proxy
// does not forward Set-Cookie headers to the client. It holds no session
// state; full cookie-jar
// semantics (persistence, expiry) are the outer server's concern.
package cookiepolicy

import "net/http"

// Policy holds the three configured limits.
type Policy struct {
	MaxTotal   int
	MaxPerSite int
	MaxBytes   int
}

// Filter drops cookies that violate the policy, applying the per-site
// cap first (grouped by Domain, falling back to the given host for
// cookies with no explicit domain) and then the total cap, in the order
// the cookies were given.
func (p Policy) Filter(host string, cookies []*http.Cookie) []*http.Cookie {
	perSite := make(map[string]int)
	out := make([]*http.Cookie, 0, len(cookies))

	for _, c := range cookies {
		if len(c.String()) > p.MaxBytes {
			continue
		}
		domain := c.Domain
		if domain == "" {
			domain = host
		}
		if perSite[domain] >= p.MaxPerSite {
			continue
		}
		if len(out) >= p.MaxTotal {
			break
		}
		perSite[domain]++
		out = append(out, c)
	}
	return out
}
