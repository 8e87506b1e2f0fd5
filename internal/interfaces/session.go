// Package interfaces defines the service contracts wired by the app.
package interfaces

import "context"

// SessionManager owns one authenticated browser session per portal.
// Acquire logs in lazily on first use and reuses the session until
// Release tears the browser down and clears the logged-in flag.
type SessionManager interface {
	// Acquire returns a ready-to-navigate, authenticated browser context.
	Acquire(ctx context.Context) (context.Context, error)

	// FetchHTML navigates to url within the session and returns the
	// rendered document HTML.
	FetchHTML(ctx context.Context, url string) (string, error)

	// ClickAndCapture clicks the element matching selector, waits for
	// the navigation to settle, and returns the resulting document HTML.
	ClickAndCapture(ctx context.Context, selector string) (string, error)

	// Release tears down the browser process. Safe to call repeatedly
	// and on a never-acquired manager.
	Release()
}
