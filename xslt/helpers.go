package xslt

import (
	"fmt"

	"github.com/brejoc/xslt1/xml"
)

// attr fetches a literal (non-AVT) attribute off a stylesheet
// instruction element.
func attr(el *xml.Element, name string) (string, bool) {
	a, ok := el.GetAttribute(xml.LocalName(name))
	if !ok {
		return "", false
	}
	return a.Datum, true
}

// requireAttr fetches a required literal attribute, reporting
// ErrMissingAttribute (instruction-local - reported, not fatal) if
// absent.
func requireAttr(el *xml.Element, name string) (string, error) {
	v, ok := attr(el, name)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrMissingAttribute)
	}
	return v, nil
}

// normalizeMode maps the XSLT 1.0 "#default" mode token to the
// internal empty-string default mode key.
func normalizeMode(mode string) string {
	if mode == "#default" {
		return ""
	}
	return mode
}
