// Package browser opens listener URLs in the user's default browser.
package browser

import (
	"io"

	pkgbrowser "github.com/pkg/browser"
)

// Opener launches a URL.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener. It is the test seam used in place
// of System so tests never launch a real browser.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// System opens URLs with the platform handler (xdg-open, open, or the
// Windows URL protocol handler).
type System struct{}

// Open implements Opener.
func (System) Open(url string) error {
	return pkgbrowser.OpenURL(url)
}

func init() {
	// Keep helper chatter (e.g. xdg-open warnings) out of the console banner.
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}
