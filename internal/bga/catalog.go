package bga

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseCatalog reads the bulk game-list document and returns one entry per
// usable option row. Placeholder, empty and non-numeric ids are skipped and
// counted; rows with an id but no usable name come back as ParseErrors.
// Both are non-fatal; only an unreadable document errors.
func ParseCatalog(r io.Reader, document string, m CatalogMapping) (entries []CatalogEntry, skipped int, errs []error, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, nil, NewConfigurationError(document, "unreadable catalog document", err)
	}

	doc.Find(m.EntrySelector).Each(func(i int, s *goquery.Selection) {
		value := strings.TrimSpace(s.AttrOr(m.IDAttr, ""))
		name := strings.TrimSpace(s.Text())

		if value == "" || !allDigits(value) || name == "" || name == m.Placeholder {
			skipped++
			return
		}

		entry := CatalogEntry{
			ExternalID:       value,
			MinPlayers:       DefaultMinPlayers,
			MaxPlayers:       DefaultMaxPlayers,
			AveragePlayTime:  DefaultAveragePlayTime,
			ComplexityRating: DefaultComplexityRating,
		}

		// Some list variants suffix the name with a player-count range.
		if bounds := m.BoundsRe.FindStringSubmatch(name); bounds != nil {
			lo, loErr := strconv.Atoi(bounds[1])
			hi, hiErr := strconv.Atoi(bounds[2])
			if loErr == nil && hiErr == nil && lo > 0 && hi >= lo {
				entry.MinPlayers = lo
				entry.MaxPlayers = hi
				name = strings.TrimSpace(strings.TrimSuffix(name, bounds[0]))
			}
		}
		if name == "" {
			errs = append(errs, NewParseError(document, fmt.Sprintf("option %d", i), "name", "empty after cleaning"))
			return
		}

		entry.Name = name
		entries = append(entries, entry)
	})

	return entries, skipped, errs, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
