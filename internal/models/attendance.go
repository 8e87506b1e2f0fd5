package models

// AttendanceRecord is one worker's shift for one day. Records carry no
// identity beyond (date, name) within a result set.
type AttendanceRecord struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // "18:00"
	EndTime   string `json:"end_time"`   // "24:00"
	PhotoURL  string `json:"photo_url,omitempty"`

	// Optional profile fields probed from free text. Zero means the
	// probe did not match, never a parse failure.
	Age    int `json:"age,omitempty"`
	Height int `json:"height,omitempty"`
	Bust   int `json:"bust,omitempty"`
	Waist  int `json:"waist,omitempty"`
	Hip    int `json:"hip,omitempty"`
}

// DailyAttendance aggregates one calendar day's records. Date is an ISO
// date string (2006-01-02) and is unique within one aggregation result.
type DailyAttendance struct {
	Date       string             `json:"date"`
	Attendance []AttendanceRecord `json:"attendance"`
}
