package adapter

import (
	"net/url"
	"strings"
)

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lastPathSegment returns the final path segment of href, ignoring any query
// string or fragment. A trailing slash yields "".
func lastPathSegment(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
