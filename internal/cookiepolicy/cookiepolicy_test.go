package cookiepolicy

import (
	"net/http"
	"strings"
	"testing"
)

func TestMaxPerSite(t *testing.T) {
	p := Policy{MaxTotal: 100, MaxPerSite: 2, MaxBytes: 4096}
	cookies := []*http.Cookie{
		{Name: "a", Value: "1", Domain: "example.com"},
		{Name: "b", Value: "2", Domain: "example.com"},
		{Name: "c", Value: "3", Domain: "example.com"},
	}
	out := p.Filter("example.com", cookies)
	if len(out) != 2 {
		t.Fatalf("got %d cookies, want 2", len(out))
	}
}

func TestMaxTotal(t *testing.T) {
	p := Policy{MaxTotal: 2, MaxPerSite: 20, MaxBytes: 4096}
	cookies := []*http.Cookie{
		{Name: "a", Value: "1", Domain: "x.com"},
		{Name: "b", Value: "2", Domain: "y.com"},
		{Name: "c", Value: "3", Domain: "z.com"},
	}
	out := p.Filter("x.com", cookies)
	if len(out) != 2 {
		t.Fatalf("got %d cookies, want 2", len(out))
	}
}

func TestMaxBytes(t *testing.T) {
	p := Policy{MaxTotal: 100, MaxPerSite: 20, MaxBytes: 16}
	big := strings.Repeat("x", 100)
	cookies := []*http.Cookie{{Name: "a", Value: big, Domain: "x.com"}}
	out := p.Filter("x.com", cookies)
	if len(out) != 0 {
		t.Fatalf("oversize cookie was not filtered")
	}
}
