package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

// Profile probes run independently against one concatenated text blob;
// each is optional and order does not matter.
var (
	agePattern    = regexp.MustCompile(`(\d{1,2})歳`)
	heightPattern = regexp.MustCompile(`T(\d{3})`)
	bustPattern   = regexp.MustCompile(`B(\d{2,3})`)
	waistPattern  = regexp.MustCompile(`W(\d{2})`)
	hipPattern    = regexp.MustCompile(`H(\d{2,3})`)
)

var rosterRootSelectors = []string{
	"#attend_list",
	".attend_list",
	".shukkin_list",
}

var rosterItemSelectors = []string{
	"li.attend_item",
	"li",
}

// RosterExtractor parses the roster portal's attendance list: item
// elements with nested name, working-hours detail, and photo
// sub-elements.
type RosterExtractor struct {
	logger arbor.ILogger
}

// NewRosterExtractor creates a roster extractor
func NewRosterExtractor(logger arbor.ILogger) *RosterExtractor {
	return &RosterExtractor{logger: logger}
}

// ExtractAttendance returns today's attendance records. An absent root
// container yields an empty result so one broken page cannot abort an
// entire run.
func (e *RosterExtractor) ExtractAttendance(html string) []models.AttendanceRecord {
	doc, err := createDocument(html)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to parse roster HTML")
		return nil
	}

	root := findRoot(doc, rosterRootSelectors)
	if root == nil {
		e.logger.Warn().Strs("selectors", rosterRootSelectors).Msg("Roster root container not found")
		return []models.AttendanceRecord{}
	}

	records := make([]models.AttendanceRecord, 0)
	itemsOf(root, rosterItemSelectors).Each(func(i int, item *goquery.Selection) {
		name := firstText(item, ".name", ".attend_name", "h3")
		if name == "" {
			return
		}

		record := models.AttendanceRecord{
			Name:     name,
			PhotoURL: firstAttr(item, "src", "img.photo", "img"),
		}
		record.StartTime, record.EndTime = parseTimeRange(firstText(item, ".time", ".attend_time", ".detail"))

		// One blob for the profile probes; the layout scatters these
		// across detail sub-elements inconsistently.
		blob := foldDigits(item.Text())
		record.Age = probeInt(agePattern, blob)
		record.Height = probeInt(heightPattern, blob)
		record.Bust = probeInt(bustPattern, blob)
		record.Waist = probeInt(waistPattern, blob)
		record.Hip = probeInt(hipPattern, blob)

		records = append(records, record)
	})

	e.logger.Debug().Int("count", len(records)).Msg("Roster attendance extracted")
	return records
}

// findRoot returns the first matching root container, or nil.
func findRoot(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// itemsOf returns the first selector that matches any items.
func itemsOf(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		items := root.Find(selector)
		if items.Length() > 0 {
			return items
		}
	}
	return root.Find("li")
}

func probeInt(pattern *regexp.Regexp, blob string) int {
	m := pattern.FindStringSubmatch(blob)
	if m == nil {
		return 0
	}
	return parseCount(m[1])
}
