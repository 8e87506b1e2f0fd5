package models

import "time"

// WeekDay is one header-day column of a weekly schedule view. DayNumber
// is the bare day-of-month from the header; the full date is inferred by
// the aggregator using the view's anchor month and year.
type WeekDay struct {
	DayNumber int
	Records   []AttendanceRecord
}

// WeekView is one parsed page of the paginated weekly schedule. The
// anchor year/month come from the view's calendar title; AnchorDay is
// the first header day number, used to detect month rollover within the
// view.
type WeekView struct {
	Year      int
	Month     time.Month
	AnchorDay int
	Days      []WeekDay
	HasNext   bool
}
