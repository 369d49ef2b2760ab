// Package capture renders a page of the running site in headless Chromium
// and saves it as a PNG, used as the social preview image.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "wildsl/internal/log"
)

// Default capture parameters, sized for link previews.
const (
	DefaultWidth        = 1200
	DefaultHeight       = 630
	DefaultTimeout      = 30 * time.Second
	DefaultWaitSelector = `body[data-ready="true"]`
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG is written. Parent directories are
	// created as needed.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels.
	Width  int
	Height int

	// WaitSelector must be visible before the screenshot is taken. The
	// embedded site marks <body data-ready="true"> once its data is loaded.
	WaitSelector string

	// FullPage captures the whole document instead of the viewport.
	FullPage bool

	Timeout time.Duration
}

// normalize validates opts and fills in defaults.
func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("capture: invalid viewport %dx%d", o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.WaitSelector == "" {
		o.WaitSelector = DefaultWaitSelector
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// CapturePagePNG launches a headless Chromium instance via chromedp,
// navigates to opts.URL, waits for opts.WaitSelector, and writes a PNG
// screenshot to opts.OutputPath.
func CapturePagePNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	var shot chromedp.Action = chromedp.CaptureScreenshot(&png)
	if opts.FullPage {
		shot = chromedp.FullScreenshot(&png, 100)
	}
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery),
		// Let images and fonts finish painting.
		chromedp.Sleep(500 * time.Millisecond),
		shot,
	}

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return fmt.Errorf("capture: create output dir: %w", err)
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("page captured",
		"url", opts.URL,
		"output", opts.OutputPath,
		"bytes", len(png),
		"elapsed", time.Since(start).String(),
	)
	return nil
}
