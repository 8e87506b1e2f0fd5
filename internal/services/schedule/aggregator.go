// Package schedule builds a bounded-range attendance calendar from a
// source that only exposes one week at a time.
package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
)

const (
	// maxIterations bounds the pagination walk so an unreachable target
	// window still terminates.
	maxIterations = 5

	minDays = 1
	maxDays = 31

	dateKeyLayout = "2006-01-02"
)

// Aggregator walks paginated weekly views into a de-duplicated,
// date-sorted attendance calendar.
type Aggregator struct {
	logger arbor.ILogger
}

// NewAggregator creates a schedule aggregator
func NewAggregator(logger arbor.ILogger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate collects attendance for the window [start, start+days).
// The requested day count is clamped to [1, 31]. Accumulation is
// idempotent per date key; a date at a week boundary is never counted
// twice. The walk stops when the window is satisfied, when an
// iteration yields no new dates, when the pager runs out of pages, or
// at the iteration bound.
func (a *Aggregator) Aggregate(ctx context.Context, pager interfaces.WeekPager, start time.Time, days int) ([]models.DailyAttendance, error) {
	if days < minDays {
		days = minDays
	}
	if days > maxDays {
		days = maxDays
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := startDay.AddDate(0, 0, days-1)

	collected := make(map[string]models.DailyAttendance)

	view, err := pager.First(ctx)
	if err != nil {
		return nil, err
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		added := a.collectView(view, startDay, endDay, collected)

		a.logger.Debug().
			Int("iteration", iteration).
			Int("new_dates", added).
			Int("total_dates", len(collected)).
			Msg("Week view collected")

		if len(collected) >= days {
			break
		}
		if iteration > 1 && added == 0 {
			// Stuck navigation: following the control did not advance.
			a.logger.Warn().
				Int("iteration", iteration).
				Msg("Week navigation yielded no new dates, stopping early")
			break
		}
		if !view.HasNext || iteration == maxIterations {
			break
		}

		view, err = pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if view == nil {
			break
		}
	}

	result := make([]models.DailyAttendance, 0, len(collected))
	for _, day := range collected {
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	a.logger.Info().
		Str("start", startDay.Format(dateKeyLayout)).
		Str("end", endDay.Format(dateKeyLayout)).
		Int("days_requested", days).
		Int("days_collected", len(result)).
		Msg("Schedule aggregation complete")

	return result, nil
}

// collectView clips one week view to the window and merges new dates
// into the accumulator, returning how many dates were added.
func (a *Aggregator) collectView(view *models.WeekView, startDay, endDay time.Time, collected map[string]models.DailyAttendance) int {
	added := 0
	for _, day := range view.Days {
		date := inferDate(view, day.DayNumber, startDay.Location())
		if date.Before(startDay) || date.After(endDay) {
			continue
		}

		key := date.Format(dateKeyLayout)
		if _, exists := collected[key]; exists {
			continue
		}

		records := day.Records
		if records == nil {
			records = []models.AttendanceRecord{}
		}
		collected[key] = models.DailyAttendance{Date: key, Attendance: records}
		added++
	}
	return added
}

// inferDate resolves a bare header day number against the view's
// anchor month and year. A day number smaller than the anchor day means
// the week crossed a month boundary, so it belongs to the next month
// (December wraps the year).
func inferDate(view *models.WeekView, dayNumber int, loc *time.Location) time.Time {
	year, month := view.Year, view.Month
	if dayNumber < view.AnchorDay {
		if month == time.December {
			month = time.January
			year++
		} else {
			month++
		}
	}
	return time.Date(year, month, dayNumber, 0, 0, 0, 0, loc)
}
