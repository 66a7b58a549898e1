package compose

import "strings"

// tagWhitelist is the set of tags the client understands. A tag outside
// this set is dropped, and text after it is suppressed until the next
// whitelisted start tag (see runTokenizer). Matching end tags are not
// tracked, so whitelisted children of an unlisted tag are still rendered.
var tagWhitelist = toSet([]string{
	"A", "ADDRESS", "AREA", "B", "BASE", "BASEFONT", "BLINK", "BLOCKQUOTE",
	"BODY", "BGCOLOR", "BR", "CLEAR", "CENTER", "CAPTION", "CITE", "CODE",
	"DD", "DIR", "DIV", "DL", "DT", "FONT", "FORM", "FRAME", "FRAMESET",
	"H1", "H2", "H3", "H4", "H5", "H6", "HR", "I", "IMG", "INPUT",
	"ISINDEX", "KBD", "LI", "MAP", "META", "MULTICOL", "NOBR", "NOFRAMES",
	"OL", "OPTION", "P", "PLAINTEXT", "PRE", "S", "SELECT", "SMALL",
	"STRIKE", "STRONG", "STYLE", "SUB", "SUP", "TABLE", "TITLE", "TD",
	"TH", "TR", "TT", "U", "UL", "VAR", "XMP", "HEAD",
})

// attrWhitelist enumerates, per tag, the attributes the client accepts.
// Tags with no entry accept no attributes.
var attrWhitelist = map[string]map[string]bool{
	"A":    toSet([]string{"HREF", "NAME", "TARGET", "ONCLICK"}),
	"IMG":  toSet([]string{"WIDTH", "HEIGHT", "BORDER", "HSPACE", "VSPACE", "ALIGN", "ISMAP", "USEMAP", "ALT", "SRC"}),
	"BR":   toSet([]string{"CLEAR"}),
	"DIV":  toSet([]string{"ALIGN"}),
	"HR":   toSet([]string{"ALIGN"}),
	"FONT": toSet([]string{"SIZE", "COLOR", "FACE"}),
	"BODY": toSet([]string{"BGCOLOR"}),
	"FORM": toSet([]string{"ACTION", "METHOD"}),
	"INPUT": toSet([]string{"TYPE", "NAME", "VALUE", "SIZE", "MAXLENGTH", "CHECKED"}),
	"TABLE": toSet([]string{"BORDER", "WIDTH", "CELLPADDING", "CELLSPACING"}),
	"TD":    toSet([]string{"ALIGN", "VALIGN", "WIDTH", "COLSPAN", "ROWSPAN"}),
	"TH":    toSet([]string{"ALIGN", "VALIGN", "WIDTH", "COLSPAN", "ROWSPAN"}),
	"TR":    toSet([]string{"ALIGN", "VALIGN"}),
	"OL":    toSet([]string{"TYPE"}),
	"UL":    toSet([]string{"TYPE"}),
	"LI":    toSet([]string{"TYPE"}),
	"AREA":  toSet([]string{"SHAPE", "COORDS", "HREF", "ALT"}),
	"MAP":   toSet([]string{"NAME"}),
	"META":  toSet([]string{"NAME", "CONTENT", "HTTP-EQUIV"}),
}

// valueWhitelist enumerates, for a handful of (tag, attribute) pairs,
// the allowed attribute values (case-insensitive). Pairs absent from
// this map have no value restriction beyond being present.
var valueWhitelist = map[string]map[string]bool{
	"BR.CLEAR":     toSet([]string{"LEFT", "RIGHT", "ALL", "NONE"}),
	"DIV.ALIGN":    toSet([]string{"LEFT", "RIGHT", "CENTER"}),
	"HR.ALIGN":     toSet([]string{"LEFT", "RIGHT", "CENTER"}),
	"IMG.ALIGN":    toSet([]string{"LEFT", "RIGHT", "TOP", "MIDDLE", "BOTTOM"}),
	"INPUT.TYPE":   toSet([]string{"TEXT", "PASSWORD", "CHECKBOX", "RADIO", "SUBMIT", "RESET", "HIDDEN", "BUTTON"}),
	"LI.TYPE":      toSet([]string{"DISC", "CIRCLE", "SQUARE", "A", "I", "1"}),
	"OL.TYPE":      toSet([]string{"DISC", "CIRCLE", "SQUARE", "A", "I", "1"}),
	"UL.TYPE":      toSet([]string{"DISC", "CIRCLE", "SQUARE"}),
	"TD.ALIGN":     toSet([]string{"LEFT", "RIGHT", "CENTER"}),
	"TH.ALIGN":     toSet([]string{"LEFT", "RIGHT", "CENTER"}),
	"TR.ALIGN":     toSet([]string{"LEFT", "RIGHT", "CENTER"}),
	"TD.VALIGN":    toSet([]string{"TOP", "MIDDLE", "BOTTOM"}),
	"TH.VALIGN":    toSet([]string{"TOP", "MIDDLE", "BOTTOM"}),
	"TR.VALIGN":    toSet([]string{"TOP", "MIDDLE", "BOTTOM"}),
	"FORM.METHOD":  toSet([]string{"GET", "POST"}),
	"AREA.SHAPE":   toSet([]string{"RECT", "CIRCLE", "POLY", "DEFAULT"}),
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

func isTagAllowed(tag string) bool {
	return tagWhitelist[strings.ToUpper(tag)]
}

func isAttrAllowed(tag, attr string) bool {
	allowed, ok := attrWhitelist[strings.ToUpper(tag)]
	if !ok {
		return false
	}
	return allowed[strings.ToUpper(attr)]
}

func isValueAllowed(tag, attr, value string) bool {
	key := strings.ToUpper(tag) + "." + strings.ToUpper(attr)
	allowed, ok := valueWhitelist[key]
	if !ok {
		// no enumeration defined for this (tag, attribute) pair: any
		// value is accepted.
		return true
	}
	return allowed[strings.ToUpper(value)]
}
