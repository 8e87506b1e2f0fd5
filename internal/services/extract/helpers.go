// Package extract maps loaded portal pages into canonical records.
// Each source sits behind one narrow strategy implementation so a
// site-layout change stays localized.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// createDocument creates a goquery.Document from an HTML string
func createDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// firstText tries multiple selectors in priority order within a
// selection and returns trimmed text from the first match.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(s.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// firstAttr tries multiple selectors and returns the named attribute
// from the first element that carries it.
func firstAttr(s *goquery.Selection, attr string, selectors ...string) string {
	for _, selector := range selectors {
		if val, exists := s.Find(selector).First().Attr(attr); exists && val != "" {
			return val
		}
	}
	return ""
}

var digitsPattern = regexp.MustCompile(`-?\d+`)

// parseCount parses a cross-tab cell permissively: the first signed
// integer found, or 0 for placeholder tokens ("-", "－", blank) and
// anything non-numeric. A malformed cell never aborts a scrape.
func parseCount(text string) int {
	m := digitsPattern.FindString(foldDigits(text))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// foldDigits converts full-width digits and signs to ASCII so the
// numeric patterns match portal markup in either width.
func foldDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '０' && r <= '９':
			r = r - '０' + '0'
		case r == '－' || r == 'ー':
			r = '-'
		case r == '＋':
			r = '+'
		case r == '：':
			r = ':'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[〜~～-]\s*(\d{1,2}:\d{2})`)

// parseTimeRange splits a working-hours string like "18:00〜24:00" into
// start and end. Unparseable input yields empty strings.
func parseTimeRange(text string) (string, string) {
	m := timeRangePattern.FindStringSubmatch(foldDigits(text))
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
