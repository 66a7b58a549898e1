package compose

import (
	"strings"

	"golang.org/x/net/html"
)

// event is one filtered, whitelist-applied tokenizer event.
type event struct {
	kind      eventKind
	tag       string // upper-cased
	attrs     []htmlAttr
	text      string
	selfClose bool
}

type eventKind int

const (
	eventStartTag eventKind = iota
	eventEndTag
	eventText
)

type htmlAttr struct {
	Name, Value string
}

// runTokenizer lexes html with x/net/html's low-level Tokenizer and
// applies the tag/attribute/value whitelist and tag uppercasing,
// invoking emit for each surviving event in document order.
//
// Suppression has no notion of subtree or nesting depth: seeing an
// unknown start tag simply stops text output until the next known
// start tag appears, mirroring the single-flag recovery of the
// original parser. This means a void or self-closing unknown tag
// (<link>, <wbr/>, ...) suppresses text only up to the next whitelisted
// start tag rather than the rest of the document, and wrapping
// the whole document in an unlisted tag like <html> doesn't blank it —
// the next whitelisted tag (e.g. <body>) recovers output immediately.
// End tags, known or not, never change the suppression state.
func runTokenizer(htmlBytes []byte, emit func(event) error) error {
	z := html.NewTokenizer(strings.NewReader(string(htmlBytes)))

	parsingSupportedTag := true

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return nil
		}

		switch tt {
		case html.TextToken:
			if !parsingSupportedTag {
				continue
			}
			if err := emit(event{kind: eventText, text: string(z.Text())}); err != nil {
				return err
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := z.TagName()
			tag := strings.ToUpper(string(tagBytes))

			if !isTagAllowed(tag) {
				parsingSupportedTag = false
				continue
			}
			parsingSupportedTag = true

			var attrs []htmlAttr
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				name := strings.ToUpper(string(k))
				value := string(v)
				if !isAttrAllowed(tag, name) {
					continue
				}
				if !isValueAllowed(tag, name, value) {
					continue
				}
				attrs = append(attrs, htmlAttr{Name: name, Value: value})
			}
			if err := emit(event{kind: eventStartTag, tag: tag, attrs: attrs, selfClose: tt == html.SelfClosingTagToken}); err != nil {
				return err
			}

		case html.EndTagToken:
			tagBytes, _ := z.TagName()
			tag := strings.ToUpper(string(tagBytes))

			if !isTagAllowed(tag) {
				continue
			}
			if err := emit(event{kind: eventEndTag, tag: tag}); err != nil {
				return err
			}
		}
	}
}

func (e event) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// renderTag renders a whitelisted start tag with uppercase names,
// double-quoted attribute values preserved verbatim.
func renderTag(e event) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func renderEndTag(tag string) string {
	return "</" + tag + ">"
}
