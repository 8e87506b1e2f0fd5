package schedule

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
)

// BrowserPager implements WeekPager against the roster portal's weekly
// schedule page through the shared session.
type BrowserPager struct {
	session   interfaces.SessionManager
	extractor interfaces.ScheduleExtractor
	url       string
	nextSel   string
	logger    arbor.ILogger
}

// NewBrowserPager creates a pager that loads the weekly view at url and
// follows nextSel for subsequent weeks.
func NewBrowserPager(session interfaces.SessionManager, extractor interfaces.ScheduleExtractor, url, nextSel string, logger arbor.ILogger) *BrowserPager {
	return &BrowserPager{
		session:   session,
		extractor: extractor,
		url:       url,
		nextSel:   nextSel,
		logger:    logger,
	}
}

// First loads the current week view.
func (p *BrowserPager) First(ctx context.Context) (*models.WeekView, error) {
	html, err := p.session.FetchHTML(ctx, p.url)
	if err != nil {
		return nil, err
	}

	view, err := p.extractor.ExtractWeek(html)
	if err != nil {
		return nil, &models.ScrapeError{Op: "extract current week", Err: err}
	}
	return view, nil
}

// Next follows the next-week control. Returns (nil, nil) when the
// current page carries no such control.
func (p *BrowserPager) Next(ctx context.Context) (*models.WeekView, error) {
	html, err := p.session.ClickAndCapture(ctx, p.nextSel)
	if err != nil {
		return nil, err
	}

	view, err := p.extractor.ExtractWeek(html)
	if err != nil {
		return nil, &models.ScrapeError{Op: "extract next week", Err: err}
	}
	return view, nil
}
