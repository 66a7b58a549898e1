// Package staticpages renders the small set of built-in pages the proxy
// serves directly: the page-too-large notice and generic HTTP error
// pages, keyed by status code exactly like the legacy controller's
// status-message table.
package staticpages

import (
	"bytes"
	"fmt"
	"text/template"
)

// statusMessages mirrors the original HTTP_STATUS_MESSAGES table: a
// short title paired with a one-line explanation, worded for the small
// screen the client renders on.
var statusMessages = map[int][2]string{
	400: {"Bad Request", "The request could not be understood."},
	401: {"Unauthorized", "Authentication is required."},
	403: {"Forbidden", "Access to this resource is denied."},
	404: {"Not Found", "The requested page could not be found."},
	429: {"Too Many Requests", "Slow down and try again shortly."},
	500: {"Server Error", "Something went wrong processing this page."},
	502: {"Bad Gateway", "The upstream server returned an invalid response."},
	503: {"Service Unavailable", "The service is temporarily unavailable."},
	504: {"Gateway Timeout", "The upstream server took too long to respond."},
}

var pageTmpl = template.Must(template.New("page").Parse(
	`<HTML><HEAD><TITLE>{{.Title}}</TITLE></HEAD><BODY><P>{{.Message}}</P></BODY></HTML>`))

type pageData struct {
	Title   string
	Message string
}

// Render produces the body for a generic HTTP status page. Unknown
// status codes fall back to a generic message rather than failing.
func Render(status int) []byte {
	title, msg := "Error", fmt.Sprintf("An error occurred (status %d).", status)
	if entry, ok := statusMessages[status]; ok {
		title, msg = entry[0], entry[1]
	}
	var buf bytes.Buffer
	_ = pageTmpl.Execute(&buf, pageData{Title: title, Message: msg})
	return buf.Bytes()
}

// TooLarge renders the dedicated page-too-large recovery notice.
func TooLarge() []byte {
	var buf bytes.Buffer
	_ = pageTmpl.Execute(&buf, pageData{
		Title:   "Page Too Large",
		Message: "This page is too large to display.",
	})
	return buf.Bytes()
}
