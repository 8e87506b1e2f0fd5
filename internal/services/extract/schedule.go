package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

var scheduleRootSelectors = []string{
	"table.week_schedule",
	"#schedule_table",
	"table.schedule",
}

// NextWeekSelector is the navigation control the week pager follows.
const NextWeekSelector = "a.next_week"

var (
	calendarTitlePattern = regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月`)
	dayHeaderPattern     = regexp.MustCompile(`^(\d{1,2})`)
	clockPattern         = regexp.MustCompile(`\d{1,2}:\d{2}`)
	offDayTokens         = []string{"休", "×", "-"}
)

// ScheduleExtractor parses one page of the paginated weekly schedule:
// a table whose header cells carry bare day numbers and whose worker
// rows carry per-day shift cells.
type ScheduleExtractor struct {
	logger arbor.ILogger
}

// NewScheduleExtractor creates a weekly schedule extractor
func NewScheduleExtractor(logger arbor.ILogger) *ScheduleExtractor {
	return &ScheduleExtractor{logger: logger}
}

// ExtractWeek parses one weekly view. The anchor year/month come from
// the calendar title; a missing schedule table is a ScrapeError-level
// condition for the aggregator (nothing at all can be extracted).
func (e *ScheduleExtractor) ExtractWeek(html string) (*models.WeekView, error) {
	doc, err := createDocument(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule HTML: %w", err)
	}

	table := findRoot(doc, scheduleRootSelectors)
	if table == nil {
		return nil, fmt.Errorf("schedule table not found")
	}

	view := &models.WeekView{
		HasNext: doc.Find(NextWeekSelector).Length() > 0,
	}
	view.Year, view.Month = e.parseCalendarTitle(doc)

	// Header day numbers, in column order. First cell is the worker
	// name column.
	rows := table.Find("tr")
	if rows.Length() < 1 {
		return nil, fmt.Errorf("schedule table has no rows")
	}

	rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		text := foldDigits(strings.TrimSpace(cell.Text()))
		if m := dayHeaderPattern.FindStringSubmatch(text); m != nil {
			day, _ := strconv.Atoi(m[1])
			view.Days = append(view.Days, models.WeekDay{DayNumber: day})
		}
	})
	if len(view.Days) == 0 {
		return nil, fmt.Errorf("schedule header has no day columns")
	}
	view.AnchorDay = view.Days[0].DayNumber

	// Worker rows: one shift cell per header day.
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		name := strings.TrimSpace(cells.First().Text())
		if name == "" {
			return
		}

		cells.Slice(1, cells.Length()).Each(func(col int, cell *goquery.Selection) {
			if col >= len(view.Days) {
				return
			}
			start, end := parseShiftCell(cell.Text())
			if start == "" {
				return
			}
			view.Days[col].Records = append(view.Days[col].Records, models.AttendanceRecord{
				Name:      name,
				StartTime: start,
				EndTime:   end,
			})
		})
	})

	e.logger.Debug().
		Int("days", len(view.Days)).
		Int("year", view.Year).
		Str("month", view.Month.String()).
		Bool("has_next", view.HasNext).
		Msg("Week view extracted")

	return view, nil
}

// parseCalendarTitle reads the view's anchor month and year from the
// calendar title ("2026年1月"). Missing titles fall back to the current
// month, which only matters for views that never carry one.
func (e *ScheduleExtractor) parseCalendarTitle(doc *goquery.Document) (int, time.Month) {
	title := firstText(doc.Selection, ".calendar_title", ".schedule_title", "h2")
	if m := calendarTitlePattern.FindStringSubmatch(foldDigits(title)); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return year, time.Month(month)
		}
	}

	e.logger.Warn().Str("title", title).Msg("Calendar title not parseable, using current month")
	now := time.Now()
	return now.Year(), now.Month()
}

// parseShiftCell parses one schedule cell. Off-day tokens and blanks
// mean no shift.
func parseShiftCell(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ""
	}
	for _, token := range offDayTokens {
		if trimmed == token {
			return "", ""
		}
	}
	if start, end := parseTimeRange(trimmed); start != "" {
		return start, end
	}

	// Some layouts stack start and end times without a separator.
	times := clockPattern.FindAllString(foldDigits(trimmed), 2)
	if len(times) == 2 {
		return times[0], times[1]
	}
	if len(times) == 1 {
		return times[0], ""
	}
	return "", ""
}
