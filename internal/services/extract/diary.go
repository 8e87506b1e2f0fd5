package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

var diaryRootSelectors = []string{
	"#diary_list",
	".diary_list",
	".blog_list",
}

var diaryItemSelectors = []string{
	"li.diary_item",
	"li",
}

// DiaryExtractor parses the diary portal's post feed widget.
type DiaryExtractor struct {
	logger arbor.ILogger
}

// NewDiaryExtractor creates a diary extractor
func NewDiaryExtractor(logger arbor.ILogger) *DiaryExtractor {
	return &DiaryExtractor{logger: logger}
}

// ExtractPosts returns the feed's posts. PostedAt is kept as the
// source-local short string ("1/28 19:00"); the reconciliation engine
// owns the "today" judgement. An absent root yields an empty result.
func (e *DiaryExtractor) ExtractPosts(html string) []models.SocialPost {
	doc, err := createDocument(html)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to parse diary HTML")
		return nil
	}

	root := findRoot(doc, diaryRootSelectors)
	if root == nil {
		e.logger.Warn().Strs("selectors", diaryRootSelectors).Msg("Diary root container not found")
		return []models.SocialPost{}
	}

	posts := make([]models.SocialPost, 0)
	itemsOf(root, diaryItemSelectors).Each(func(i int, item *goquery.Selection) {
		name := firstText(item, ".diary_name", ".name", ".author")
		if name == "" {
			return
		}

		posts = append(posts, models.SocialPost{
			Name:     name,
			Title:    firstText(item, ".diary_title", ".title", "h3"),
			PostedAt: foldDigits(firstText(item, ".diary_date", ".date", "time")),
			ImageURL: firstAttr(item, "src", "img.diary_photo", "img"),
		})
	})

	e.logger.Debug().Int("count", len(posts)).Msg("Diary posts extracted")
	return posts
}
