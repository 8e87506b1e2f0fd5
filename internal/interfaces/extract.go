package interfaces

import (
	"context"

	"github.com/ternarybob/shiftwatch/internal/models"
)

// Extractors map a loaded page's markup into canonical records. Each
// source sits behind its own narrow strategy so a site-layout change is
// localized to one implementation. An absent root container yields an
// empty result, never an error.

// RosterExtractor parses the roster portal's attendance list.
type RosterExtractor interface {
	ExtractAttendance(html string) []models.AttendanceRecord
}

// DiaryExtractor parses the diary portal's post feed.
type DiaryExtractor interface {
	ExtractPosts(html string) []models.SocialPost
}

// StatsExtractor parses the monthly cross-tab report.
type StatsExtractor interface {
	ExtractMonthlyStats(html string) []models.MonthlyStat
}

// ScheduleExtractor parses one weekly schedule view.
type ScheduleExtractor interface {
	ExtractWeek(html string) (*models.WeekView, error)
}

// WeekPager walks the paginated weekly schedule. First loads the
// current week; Next follows the next-week control. Next returns
// (nil, nil) when no further page is reachable.
type WeekPager interface {
	First(ctx context.Context) (*models.WeekView, error)
	Next(ctx context.Context) (*models.WeekView, error)
}
