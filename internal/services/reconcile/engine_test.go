package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

func newEngine() *Engine {
	return NewEngine(arbor.NewLogger())
}

func jan28() time.Time {
	return time.Date(2026, time.January, 28, 12, 0, 0, 0, time.UTC)
}

func TestReconcileKanaVariants(t *testing.T) {
	attendance := []models.AttendanceRecord{
		{Name: "さくら", StartTime: "18:00", EndTime: "24:00"},
	}
	posts := []models.SocialPost{
		{Name: "サクラ", PostedAt: "1/28 19:00"},
		{Name: "さくら", PostedAt: "1/28 20:00"},
	}

	r := newEngine().Reconcile(attendance, posts, jan28())

	require.Len(t, r.Results, 1)
	assert.Equal(t, 2, r.Results[0].PostCount)
	assert.Equal(t, models.PostStatusPartial, r.Results[0].Status)
	assert.True(t, r.Results[0].IsWorking)
	assert.Equal(t, "18:00", r.Results[0].StartTime)
	assert.Empty(t, r.Unmatched)
}

func TestReconcileStatusThresholds(t *testing.T) {
	tests := []struct {
		count int
		want  models.PostStatus
	}{
		{0, models.PostStatusNone},
		{1, models.PostStatusPartial},
		{2, models.PostStatusPartial},
		{3, models.PostStatusComplete},
		{4, models.PostStatusComplete},
	}

	for _, tt := range tests {
		attendance := []models.AttendanceRecord{{Name: "みく"}}
		posts := make([]models.SocialPost, tt.count)
		for i := range posts {
			posts[i] = models.SocialPost{Name: "みく", PostedAt: "1/28 19:00"}
		}

		r := newEngine().Reconcile(attendance, posts, jan28())
		require.Len(t, r.Results, 1)
		assert.Equal(t, tt.count, r.Results[0].PostCount, "count %d", tt.count)
		assert.Equal(t, tt.want, r.Results[0].Status, "count %d", tt.count)
	}
}

func TestReconcileFiltersOtherDays(t *testing.T) {
	attendance := []models.AttendanceRecord{{Name: "さくら"}}
	posts := []models.SocialPost{
		{Name: "さくら", PostedAt: "1/27 23:50"},
		{Name: "さくら", PostedAt: "1/28 00:10"},
		{Name: "さくら", PostedAt: "2/28 12:00"},
		{Name: "さくら", PostedAt: "not a date"},
	}

	r := newEngine().Reconcile(attendance, posts, jan28())

	require.Len(t, r.Results, 1)
	assert.Equal(t, 1, r.Results[0].PostCount)
}

func TestReconcileUnmatchedGrouping(t *testing.T) {
	attendance := []models.AttendanceRecord{{Name: "さくら"}}
	posts := []models.SocialPost{
		{Name: "ひなた", PostedAt: "1/28 18:00"},
		{Name: "ひなた", PostedAt: "1/28 19:00"},
		{Name: "れな", PostedAt: "1/28 20:00"},
		{Name: "さくら", PostedAt: "1/28 21:00"},
	}

	r := newEngine().Reconcile(attendance, posts, jan28())

	assert.Equal(t, 1, r.Results[0].PostCount)
	require.Len(t, r.Unmatched, 2)
	assert.Equal(t, "ひなた", r.Unmatched[0].Name)
	assert.Equal(t, 2, r.Unmatched[0].PostCount)
	assert.Equal(t, "れな", r.Unmatched[1].Name)
	assert.Equal(t, 1, r.Unmatched[1].PostCount)
}

// An author string that is a substring of two worker names goes to the
// longer (more specific) name.
func TestReconcileLongestMatchWins(t *testing.T) {
	attendance := []models.AttendanceRecord{
		{Name: "さくら"},
		{Name: "さくらこ"},
	}
	posts := []models.SocialPost{
		{Name: "さくらこ", PostedAt: "1/28 19:00"},
	}

	r := newEngine().Reconcile(attendance, posts, jan28())

	assert.Equal(t, 0, r.Results[0].PostCount)
	assert.Equal(t, 1, r.Results[1].PostCount)
	assert.Empty(t, r.Unmatched)
}

// A post is attributed to exactly one roster entry even when several
// match; an exact normalized match beats a longer superstring.
func TestReconcilePostClaimedOnce(t *testing.T) {
	attendance := []models.AttendanceRecord{
		{Name: "さくら"},
		{Name: "さくらこ"},
	}
	posts := []models.SocialPost{
		{Name: "サクラ", PostedAt: "1/28 19:00"},
	}

	r := newEngine().Reconcile(attendance, posts, jan28())

	assert.Equal(t, 1, r.Results[0].PostCount)
	assert.Equal(t, 0, r.Results[1].PostCount)
	assert.Empty(t, r.Unmatched)
}

func TestReconcileDeterministic(t *testing.T) {
	attendance := []models.AttendanceRecord{
		{Name: "さくら"}, {Name: "ひなた"}, {Name: "みく"},
	}
	posts := []models.SocialPost{
		{Name: "サクラ", PostedAt: "1/28 10:00"},
		{Name: "ミク", PostedAt: "1/28 11:00"},
		{Name: "ゲスト", PostedAt: "1/28 12:00"},
		{Name: "ひなた", PostedAt: "1/28 13:00"},
		{Name: "ゲスト", PostedAt: "1/28 14:00"},
	}

	first := newEngine().Reconcile(attendance, posts, jan28())
	for i := 0; i < 5; i++ {
		again := newEngine().Reconcile(attendance, posts, jan28())
		require.Equal(t, first, again, "run %d", i)
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	r := newEngine().Reconcile(nil, nil, jan28())
	assert.Empty(t, r.Results)
	assert.Empty(t, r.Unmatched)
	assert.Equal(t, "2026-01-28", r.Date)

	r = newEngine().Reconcile([]models.AttendanceRecord{{Name: "さくら"}}, nil, jan28())
	require.Len(t, r.Results, 1)
	assert.Equal(t, models.PostStatusNone, r.Results[0].Status)
}
