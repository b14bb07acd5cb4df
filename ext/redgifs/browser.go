package redgifs

import (
	"context"
	"fmt"

	"linkrelay/config"
	"linkrelay/util"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// renderPage is swapped in tests, chrome is not available there.
var renderPage = renderWithChrome

// renderWithChrome loads the page in headless chrome and returns
// the DOM after scripts ran, for pages that only fill in their
// metadata client side.
func renderWithChrome(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(util.ChromeUA),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
	)
	if config.Env.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(config.Env.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	zap.S().Debugf("[redgifs] rendered %s (%d bytes)", url, len(html))
	return html, nil
}
