// Package reconcile joins today's roster against today's diary posts
// to compute per-worker completion status.
package reconcile

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
	"github.com/ternarybob/shiftwatch/internal/services/matcher"
)

var postedAtPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})`)

// Engine performs the roster/post join. Stateless; a fresh result is
// derived every run.
type Engine struct {
	logger arbor.ILogger
}

// NewEngine creates a reconciliation engine
func NewEngine(logger arbor.ILogger) *Engine {
	return &Engine{logger: logger}
}

// Reconcile joins attendance against posts for the given calendar day.
// Posts whose postedAt does not fall on that day are ignored. Each
// remaining post is attributed to at most one roster entry: among all
// matching entries, the one with the longest normalized name claims it
// (ties fall back to roster order). Posts claimed by nobody are grouped
// per literal author string, sorted by post count descending.
func (e *Engine) Reconcile(attendance []models.AttendanceRecord, posts []models.SocialPost, today time.Time) *models.Reconciliation {
	todaysPosts := make([]models.SocialPost, 0, len(posts))
	for _, post := range posts {
		if postedToday(post.PostedAt, today) {
			todaysPosts = append(todaysPosts, post)
		}
	}

	results := make([]models.ReconciliationResult, len(attendance))
	normalized := make([]string, len(attendance))
	for i, record := range attendance {
		normalized[i] = matcher.Normalize(record.Name)
		results[i] = models.ReconciliationResult{
			Name:      record.Name,
			IsWorking: true,
			StartTime: record.StartTime,
			EndTime:   record.EndTime,
			Posts:     []models.SocialPost{},
		}
	}

	unmatchedByAuthor := make(map[string][]models.SocialPost)
	for _, post := range todaysPosts {
		owner := claimPost(post, normalized)
		if owner < 0 {
			unmatchedByAuthor[post.Name] = append(unmatchedByAuthor[post.Name], post)
			continue
		}
		results[owner].Posts = append(results[owner].Posts, post)
	}

	for i := range results {
		results[i].PostCount = len(results[i].Posts)
		results[i].Status = models.StatusForCount(results[i].PostCount)
	}

	unmatched := make([]models.UnmatchedAuthor, 0, len(unmatchedByAuthor))
	for author, authorPosts := range unmatchedByAuthor {
		unmatched = append(unmatched, models.UnmatchedAuthor{
			Name:      author,
			PostCount: len(authorPosts),
			Posts:     authorPosts,
		})
	}
	sort.Slice(unmatched, func(i, j int) bool {
		if unmatched[i].PostCount != unmatched[j].PostCount {
			return unmatched[i].PostCount > unmatched[j].PostCount
		}
		return unmatched[i].Name < unmatched[j].Name
	})

	e.logger.Info().
		Int("workers", len(results)).
		Int("todays_posts", len(todaysPosts)).
		Int("unmatched_authors", len(unmatched)).
		Msg("Reconciliation complete")

	return &models.Reconciliation{
		Date:      today.Format("2006-01-02"),
		Results:   results,
		Unmatched: unmatched,
	}
}

// claimPost picks the roster index that claims a post, or -1. An exact
// normalized match wins outright; otherwise the longest matching
// normalized name wins, so an author string contained in two worker
// names goes to the more specific one. Ties fall back to roster order.
func claimPost(post models.SocialPost, normalizedNames []string) int {
	author := matcher.Normalize(post.Name)

	owner := -1
	ownerLen := -1
	for i, name := range normalizedNames {
		if name == author {
			return i
		}
		if !matcher.Match(name, post.Name) {
			continue
		}
		if l := len([]rune(name)); l > ownerLen {
			owner = i
			ownerLen = l
		}
	}
	return owner
}

// postedToday reports whether a source-local "M/D HH:MM" string falls
// on the given calendar day. Unparseable strings never participate.
func postedToday(postedAt string, today time.Time) bool {
	m := postedAtPattern.FindStringSubmatch(postedAt)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return month == int(today.Month()) && day == today.Day()
}
