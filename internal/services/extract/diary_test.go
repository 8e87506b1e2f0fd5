package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diaryHTML = `
<html><body>
<ul class="diary_list">
  <li class="diary_item">
    <span class="diary_name">サクラ</span>
    <span class="diary_title">出勤しました♪</span>
    <span class="diary_date">1/28 19:00</span>
    <img class="diary_photo" src="https://img.example.jp/d1.jpg">
  </li>
  <li class="diary_item">
    <span class="diary_name">さくら</span>
    <span class="diary_title">ありがとう</span>
    <span class="diary_date">１/２８ ２０:００</span>
  </li>
  <li class="diary_item">
    <span class="diary_title">no author</span>
  </li>
</ul>
</body></html>`

func TestExtractPosts(t *testing.T) {
	e := NewDiaryExtractor(testLogger())

	posts := e.ExtractPosts(diaryHTML)
	require.Len(t, posts, 2, "authorless items are skipped")

	assert.Equal(t, "サクラ", posts[0].Name)
	assert.Equal(t, "出勤しました♪", posts[0].Title)
	assert.Equal(t, "1/28 19:00", posts[0].PostedAt)
	assert.Equal(t, "https://img.example.jp/d1.jpg", posts[0].ImageURL)

	// Full-width digits in the posted-at string fold to ASCII.
	assert.Equal(t, "さくら", posts[1].Name)
	assert.Equal(t, "1/28 20:00", posts[1].PostedAt)
	assert.Empty(t, posts[1].ImageURL)
}

func TestExtractPostsMissingRoot(t *testing.T) {
	e := NewDiaryExtractor(testLogger())

	posts := e.ExtractPosts(`<html><body><div class="unrelated"></div></body></html>`)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}
