package bga

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseProfile pulls the external username from a profile document. A
// missing username element falls back to the directory name; only an
// unreadable document errors.
func ParseProfile(r io.Reader, document, fallbackName string, m ProfileMapping) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Profile{}, NewParseError(document, "", "", "unreadable profile document: %v", err)
	}

	username := strings.TrimSpace(doc.Find(m.UsernameSelector).First().Text())
	if username == "" {
		username = fallbackName
	}
	return Profile{
		ExternalUsername: username,
		DisplayName:      username,
	}, nil
}
