package models

// MonthlyStat is one worker's column from the monthly cross-tab report.
// DailyCounts is keyed by the row's date label as scraped ("1/28"). The
// same column index denotes the same worker across every row kind within
// one scrape.
type MonthlyStat struct {
	Name           string         `json:"name"`
	DailyCounts    map[string]int `json:"daily_counts"`
	MonthlyTotal   int            `json:"monthly_total"`
	LastMonthTotal int            `json:"last_month_total"`
	Change         int            `json:"change"`
}
