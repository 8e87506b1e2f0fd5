package models

// SocialPost is a raw entry from the diary portal's feed widget.
// PostedAt is the source-local short form ("1/28 19:00"), not a full
// timestamp; only posts dated today (portal-local calendar day)
// participate in reconciliation.
type SocialPost struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	PostedAt string `json:"posted_at"`
	ImageURL string `json:"image_url,omitempty"`
}
