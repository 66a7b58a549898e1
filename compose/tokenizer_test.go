package compose

import "testing"

func collectEvents(htmlBytes []byte) []event {
	var out []event
	_ = runTokenizer(htmlBytes, func(e event) error {
		out = append(out, e)
		return nil
	})
	return out
}

func TestUnknownTagSuppressesFollowingText(t *testing.T) {
	events := collectEvents([]byte(`<div>before<script>var x=1;</script>after</div>`))
	var texts []string
	for _, e := range events {
		if e.kind == eventText {
			texts = append(texts, e.text)
		}
	}
	for _, txt := range texts {
		if txt == "var x=1;" {
			t.Fatalf("suppressed tag's text leaked through: %v", texts)
		}
	}
}

func TestUnknownVoidTagDoesNotSuppressFollowingContent(t *testing.T) {
	events := collectEvents([]byte(`<head><link rel="stylesheet"><title>Hi</title></head>`))
	var texts []string
	for _, e := range events {
		if e.kind == eventText {
			texts = append(texts, e.text)
		}
	}
	found := false
	for _, txt := range texts {
		if txt == "Hi" {
			found = true
		}
	}
	if !found {
		t.Fatalf("text after an unknown void tag was suppressed: %v", texts)
	}
}

func TestUnknownWrapperTagDoesNotEmptyDocument(t *testing.T) {
	events := collectEvents([]byte(`<html><body>Hello</body></html>`))
	var texts []string
	for _, e := range events {
		if e.kind == eventText {
			texts = append(texts, e.text)
		}
	}
	found := false
	for _, txt := range texts {
		if txt == "Hello" {
			found = true
		}
	}
	if !found {
		t.Fatalf("content inside an unlisted <html> wrapper was dropped entirely: %v", texts)
	}
}

func TestAttributeFilteringDropsDisallowedValue(t *testing.T) {
	events := collectEvents([]byte(`<div align="invalid">`))
	if len(events) != 1 || events[0].kind != eventStartTag {
		t.Fatalf("expected one start tag event, got %v", events)
	}
	if _, ok := events[0].attr("ALIGN"); ok {
		t.Fatalf("ALIGN with invalid value should have been dropped")
	}
}

func TestAttributeFilteringKeepsTagDropsStyle(t *testing.T) {
	events := collectEvents([]byte(`<div align="center" style="x">`))
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if v, ok := events[0].attr("ALIGN"); !ok || v != "center" {
		t.Fatalf("ALIGN=center should survive, got %v %v", v, ok)
	}
	if _, ok := events[0].attr("STYLE"); ok {
		t.Fatalf("STYLE should have been dropped")
	}
}

func TestTagNamesUppercased(t *testing.T) {
	events := collectEvents([]byte(`<div>`))
	if events[0].tag != "DIV" {
		t.Fatalf("tag = %q, want DIV", events[0].tag)
	}
}
