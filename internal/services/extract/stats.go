package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

var statsRootSelectors = []string{
	"table.monthly_stats",
	"table.keitai_rank",
	"#stats_table",
	"table",
}

var dateLabelPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})`)

// Row-label kinds of the cross-tab report.
const (
	rowKindDate = iota
	rowKindTotal
	rowKindLastMonth
	rowKindChange
	rowKindUnknown
)

// StatsExtractor parses the monthly cross-tab report: the header row
// enumerates worker names, subsequent rows are keyed by a row label
// (date, total/this month, last month, change). The same column index
// denotes the same worker across every row kind within one scrape.
type StatsExtractor struct {
	logger arbor.ILogger
}

// NewStatsExtractor creates a monthly stats extractor
func NewStatsExtractor(logger arbor.ILogger) *StatsExtractor {
	return &StatsExtractor{logger: logger}
}

// ExtractMonthlyStats returns one stat per worker column. An absent
// table yields an empty result.
func (e *StatsExtractor) ExtractMonthlyStats(html string) []models.MonthlyStat {
	doc, err := createDocument(html)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to parse stats HTML")
		return nil
	}

	table := findRoot(doc, statsRootSelectors)
	if table == nil {
		e.logger.Warn().Msg("Monthly stats table not found")
		return []models.MonthlyStat{}
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return []models.MonthlyStat{}
	}

	// Header row: first cell is the row-label column, the rest are
	// worker names in column order.
	var names []string
	rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		names = append(names, strings.TrimSpace(cell.Text()))
	})
	if len(names) == 0 {
		e.logger.Warn().Msg("Monthly stats header row has no worker columns")
		return []models.MonthlyStat{}
	}

	stats := make([]models.MonthlyStat, len(names))
	for i, name := range names {
		stats[i] = models.MonthlyStat{
			Name:        name,
			DailyCounts: make(map[string]int),
		}
	}

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.First().Text())
		kind, dateKey := classifyRowLabel(label)
		if kind == rowKindUnknown {
			e.logger.Debug().Str("label", label).Msg("Skipping unrecognized stats row")
			return
		}

		cells.Slice(1, cells.Length()).Each(func(col int, cell *goquery.Selection) {
			if col >= len(stats) {
				return
			}
			value := parseCount(cell.Text())
			switch kind {
			case rowKindDate:
				stats[col].DailyCounts[dateKey] = value
			case rowKindTotal:
				stats[col].MonthlyTotal = value
			case rowKindLastMonth:
				stats[col].LastMonthTotal = value
			case rowKindChange:
				stats[col].Change = value
			}
		})
	})

	e.logger.Debug().Int("workers", len(stats)).Msg("Monthly stats extracted")
	return stats
}

// classifyRowLabel maps a row label to its kind, returning the
// normalized "M/D" key for date rows.
func classifyRowLabel(label string) (int, string) {
	folded := foldDigits(label)
	if m := dateLabelPattern.FindStringSubmatch(folded); m != nil {
		return rowKindDate, m[1] + "/" + m[2]
	}

	lower := strings.ToLower(folded)
	switch {
	case strings.Contains(label, "合計") || strings.Contains(label, "今月") ||
		strings.Contains(lower, "total") || strings.Contains(lower, "this month"):
		return rowKindTotal, ""
	case strings.Contains(label, "先月") || strings.Contains(lower, "last month"):
		return rowKindLastMonth, ""
	case strings.Contains(label, "増減") || strings.Contains(lower, "change"):
		return rowKindChange, ""
	}
	return rowKindUnknown, ""
}
