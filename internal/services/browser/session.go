// Package browser owns the shared authenticated chromedp session for
// one portal.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/shiftwatch/internal/common"
	"github.com/ternarybob/shiftwatch/internal/models"
)

// Credential field selectors, with fallbacks for the two portal skins.
var (
	accountSelectors  = []string{`input[name="account"]`, `input[name="id"]`, `input[name="login_id"]`}
	passwordSelectors = []string{`input[name="password"]`, `input[type="password"]`}
	submitSelectors   = []string{`input[type="submit"]`, `button[type="submit"]`, `button.login`}
)

// Manager owns one browser process and its authenticated page for a
// single portal. Created lazily on first Acquire, reused across calls
// within the process, and torn down by Release.
type Manager struct {
	portal  common.PortalConfig
	scraper common.ScraperConfig
	logger  arbor.ILogger
	limiter *rate.Limiter

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	ctxCancel   context.CancelFunc
	loggedIn    bool
}

// NewManager creates a session manager for one portal. No browser is
// started until the first Acquire.
func NewManager(portal common.PortalConfig, scraper common.ScraperConfig, logger arbor.ILogger) *Manager {
	delay := scraper.RequestDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &Manager{
		portal:  portal,
		scraper: scraper,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Acquire returns an authenticated browser context, starting the
// browser and performing the login on first use. A subsequent Acquire
// reuses the existing session unless a prior Release reset it.
func (m *Manager) Acquire(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx == nil {
		if err := m.startBrowserLocked(); err != nil {
			return nil, err
		}
	}

	if !m.loggedIn {
		if err := m.loginLocked(ctx); err != nil {
			return nil, err
		}
		m.loggedIn = true
	}

	return m.browserCtx, nil
}

// startBrowserLocked creates the allocator and browser contexts. Caller
// holds the mutex.
func (m *Manager) startBrowserLocked() error {
	start := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.scraper.Headless),
		chromedp.Flag("no-sandbox", m.scraper.NoSandbox),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(m.scraper.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Startup probe so a missing Chrome binary fails here, not on the
	// first real navigation.
	probeCtx, probeCancel := context.WithTimeout(browserCtx, m.navTimeout())
	defer probeCancel()
	err := chromedp.Run(probeCtx,
		chromedp.Navigate("about:blank"),
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "ja,en;q=0.8"}),
	)
	if err != nil {
		ctxCancel()
		allocCancel()
		return &models.ScrapeError{Portal: m.portal.Name, Op: "browser startup", Err: err}
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.ctxCancel = ctxCancel

	m.logger.Info().
		Str("portal", m.portal.Name).
		Dur("startup_time", time.Since(start)).
		Msg("Browser session started")

	return nil
}

// loginLocked navigates to the tenant login URL, fills both credential
// fields, submits, and judges success by the absence of the login
// marker in the post-submit URL. Caller holds the mutex.
func (m *Manager) loginLocked(ctx context.Context) error {
	loginURL := m.portal.LoginURL()

	m.logger.Info().
		Str("portal", m.portal.Name).
		Str("url", loginURL).
		Msg("Logging in to portal")

	if err := m.limiter.Wait(ctx); err != nil {
		return &models.ScrapeError{Portal: m.portal.Name, Op: "login", Err: err}
	}

	navCtx, cancel := context.WithTimeout(m.browserCtx, m.navTimeout())
	defer cancel()

	var postSubmitURL string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(strings.Join(passwordSelectors, ", "), chromedp.ByQuery),
		fillFirst(accountSelectors, m.portal.Account),
		fillFirst(passwordSelectors, m.portal.Password),
		clickFirst(submitSelectors),
		chromedp.Sleep(1*time.Second), // let the post-submit navigation settle
		chromedp.Location(&postSubmitURL),
	)
	if err != nil {
		return &models.ScrapeError{Portal: m.portal.Name, Op: "login navigation", Err: err}
	}

	if m.portal.LoginMarker != "" && strings.Contains(postSubmitURL, m.portal.LoginMarker) {
		return &models.AuthenticationError{Portal: m.portal.Name, URL: postSubmitURL}
	}

	m.logger.Info().
		Str("portal", m.portal.Name).
		Msg("Portal login succeeded")

	return nil
}

// FetchHTML navigates to url within the authenticated session and
// returns the rendered document HTML.
func (m *Manager) FetchHTML(ctx context.Context, url string) (string, error) {
	browserCtx, err := m.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return "", &models.ScrapeError{Portal: m.portal.Name, Op: "fetch " + url, Err: err}
	}

	navCtx, cancel := context.WithTimeout(browserCtx, m.navTimeout())
	defer cancel()

	var html string
	err = chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &models.ScrapeError{Portal: m.portal.Name, Op: "fetch " + url, Err: err}
	}

	return html, nil
}

// ClickAndCapture clicks the element matching selector on the current
// page and returns the resulting document HTML.
func (m *Manager) ClickAndCapture(ctx context.Context, selector string) (string, error) {
	browserCtx, err := m.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return "", &models.ScrapeError{Portal: m.portal.Name, Op: "click " + selector, Err: err}
	}

	navCtx, cancel := context.WithTimeout(browserCtx, m.navTimeout())
	defer cancel()

	var html string
	err = chromedp.Run(navCtx,
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &models.ScrapeError{Portal: m.portal.Name, Op: "click " + selector, Err: err}
	}

	return html, nil
}

// Release tears the browser down and clears the logged-in flag so the
// next Acquire starts fresh. Safe to call repeatedly.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx == nil {
		return
	}

	if m.ctxCancel != nil {
		m.ctxCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}

	m.browserCtx = nil
	m.ctxCancel = nil
	m.allocCancel = nil
	m.loggedIn = false

	m.logger.Info().
		Str("portal", m.portal.Name).
		Msg("Browser session released")
}

func (m *Manager) navTimeout() time.Duration {
	if m.scraper.NavTimeout > 0 {
		return m.scraper.NavTimeout
	}
	return 30 * time.Second
}

// fillFirst sends keys to the first selector present on the page.
func fillFirst(selectors []string, value string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastErr error
		for _, sel := range selectors {
			var nodes int
			if err := chromedp.Evaluate(countNodesJS(sel), &nodes).Do(ctx); err != nil {
				lastErr = err
				continue
			}
			if nodes == 0 {
				continue
			}
			return chromedp.SendKeys(sel, value, chromedp.ByQuery).Do(ctx)
		}
		if lastErr != nil {
			return lastErr
		}
		return fmt.Errorf("no matching input for selectors %v", selectors)
	})
}

// clickFirst clicks the first selector present on the page.
func clickFirst(selectors []string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastErr error
		for _, sel := range selectors {
			var nodes int
			if err := chromedp.Evaluate(countNodesJS(sel), &nodes).Do(ctx); err != nil {
				lastErr = err
				continue
			}
			if nodes == 0 {
				continue
			}
			return chromedp.Click(sel, chromedp.ByQuery).Do(ctx)
		}
		if lastErr != nil {
			return lastErr
		}
		return fmt.Errorf("no matching control for selectors %v", selectors)
	})
}

func countNodesJS(selector string) string {
	return fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
}
