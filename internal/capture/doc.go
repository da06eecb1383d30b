// Package capture turns a URL into a preview image by driving a transient,
// isolated browser surface.
//
// A capture allocates a surface sized to a fixed virtual viewport, subscribes
// to its load-complete signal, navigates, waits for the signal or a bounded
// ceiling (whichever comes first), snapshots the rendered page and destroys the
// surface. Destruction is deferred, so it runs exactly once on every exit path
// after a successful allocation, including panics.
//
// The browser itself is a Host. PlaywrightHost drives headless Chromium through
// playwright-go; tests substitute an in-memory Host.
package capture
