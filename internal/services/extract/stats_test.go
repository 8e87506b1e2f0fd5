package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsHTML = `
<html><body>
<table class="monthly_stats">
  <tr><th>日付</th><th>さくら</th><th>ひなた</th><th>みく</th></tr>
  <tr><td>1/27(火)</td><td>3</td><td>1</td><td>-</td></tr>
  <tr><td>1/28(水)</td><td>2</td><td>-</td><td>0</td></tr>
  <tr><td>合計</td><td>5</td><td>1</td><td>0</td></tr>
  <tr><td>先月</td><td>40</td><td>12</td><td>8</td></tr>
  <tr><td>増減</td><td>-35</td><td>-11</td><td>-8</td></tr>
</table>
</body></html>`

func TestExtractMonthlyStats(t *testing.T) {
	e := NewStatsExtractor(testLogger())

	stats := e.ExtractMonthlyStats(statsHTML)
	require.Len(t, stats, 3)

	sakura := stats[0]
	assert.Equal(t, "さくら", sakura.Name)
	assert.Equal(t, map[string]int{"1/27": 3, "1/28": 2}, sakura.DailyCounts)
	assert.Equal(t, 5, sakura.MonthlyTotal)
	assert.Equal(t, 40, sakura.LastMonthTotal)
	assert.Equal(t, -35, sakura.Change)

	// Placeholder "-" cells parse as 0, and column order is stable
	// across row kinds.
	hinata := stats[1]
	assert.Equal(t, "ひなた", hinata.Name)
	assert.Equal(t, 0, hinata.DailyCounts["1/28"])
	assert.Equal(t, 1, hinata.MonthlyTotal)

	miku := stats[2]
	assert.Equal(t, "みく", miku.Name)
	assert.Equal(t, 0, miku.DailyCounts["1/27"])
	assert.Equal(t, -8, miku.Change)
}

func TestExtractMonthlyStatsEnglishLabels(t *testing.T) {
	html := `<table>
	  <tr><th></th><th>anna</th></tr>
	  <tr><td>1/5</td><td>2</td></tr>
	  <tr><td>Total</td><td>9</td></tr>
	  <tr><td>Last Month</td><td>4</td></tr>
	  <tr><td>Change</td><td>5</td></tr>
	</table>`

	stats := NewStatsExtractor(testLogger()).ExtractMonthlyStats(html)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].DailyCounts["1/5"])
	assert.Equal(t, 9, stats[0].MonthlyTotal)
	assert.Equal(t, 4, stats[0].LastMonthTotal)
	assert.Equal(t, 5, stats[0].Change)
}

func TestExtractMonthlyStatsUnknownRowsIgnored(t *testing.T) {
	html := `<table>
	  <tr><th></th><th>anna</th></tr>
	  <tr><td>備考</td><td>something</td></tr>
	  <tr><td>1/5</td><td>2</td></tr>
	</table>`

	stats := NewStatsExtractor(testLogger()).ExtractMonthlyStats(html)
	require.Len(t, stats, 1)
	assert.Equal(t, map[string]int{"1/5": 2}, stats[0].DailyCounts)
	assert.Equal(t, 0, stats[0].MonthlyTotal)
}

func TestExtractMonthlyStatsMissingTable(t *testing.T) {
	stats := NewStatsExtractor(testLogger()).ExtractMonthlyStats(`<html><body></body></html>`)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
