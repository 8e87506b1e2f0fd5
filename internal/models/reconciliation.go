package models

// PostStatus classifies a worker's diary completion for the day.
type PostStatus string

const (
	PostStatusComplete PostStatus = "complete" // 3 or more posts
	PostStatusPartial  PostStatus = "partial"  // 1-2 posts
	PostStatusNone     PostStatus = "none"     // no posts
)

// StatusForCount maps a post count to its completion status.
func StatusForCount(count int) PostStatus {
	switch {
	case count >= 3:
		return PostStatusComplete
	case count >= 1:
		return PostStatusPartial
	default:
		return PostStatusNone
	}
}

// ReconciliationResult is one worker's join of roster and diary data.
// Derived fresh every run, never persisted incrementally.
type ReconciliationResult struct {
	Name      string       `json:"name"`
	IsWorking bool         `json:"is_working"`
	StartTime string       `json:"start_time,omitempty"`
	EndTime   string       `json:"end_time,omitempty"`
	PostCount int          `json:"post_count"`
	Posts     []SocialPost `json:"posts"`
	Status    PostStatus   `json:"status"`
}

// UnmatchedAuthor groups today's posts whose author string matched no
// roster entry. These represent off-roster posts or matching misses that
// need human review.
type UnmatchedAuthor struct {
	Name      string       `json:"name"`
	PostCount int          `json:"post_count"`
	Posts     []SocialPost `json:"posts"`
}

// Reconciliation is the full output of one reconciliation pass.
type Reconciliation struct {
	Date      string                 `json:"date"`
	Results   []ReconciliationResult `json:"results"`
	Unmatched []UnmatchedAuthor      `json:"unmatched"`
}
