package compose

import (
	"net/url"
	"testing"
)

func TestRewriteLinkRelative(t *testing.T) {
	base, _ := url.Parse("http://ex.com/p")
	got := rewriteLink(base, "/x")
	if got != "http://ex.com/x" {
		t.Fatalf("got %q, want %q", got, "http://ex.com/x")
	}
}

func TestRewriteLinkHTTPSDowngrade(t *testing.T) {
	base, _ := url.Parse("http://ex.com/p")
	got := rewriteLink(base, "https://y.com/")
	if got != "http://y.com/" {
		t.Fatalf("got %q, want %q", got, "http://y.com/")
	}
}
