//go:build e2e

package web

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"
)

// TestE2E_BrowserFlow drives the page with headless Chrome through a like,
// an adoption countdown and the details modal.
func TestE2E_BrowserFlow(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 1)
	go func() {
		_ = Run(ctx, fixtureConfig(t),
			WithListener(listener),
			WithLogOutput(io.Discard),
			WithReady(func(u string) { ready <- u }),
		)
	}()
	baseURL := <-ready

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 60*time.Second)
	defer cancelTimeout()

	var cards, liked int
	var adoptLabel, modalName string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(baseURL),
		chromedp.WaitVisible(`#pets .card:not(.loading)`, chromedp.ByQuery),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Navigate(baseURL),
		chromedp.Evaluate(`document.querySelectorAll('#pets .card').length`, &cards),

		chromedp.Click(`#pets .card form[action$="/like"] button`, chromedp.ByQuery),
		chromedp.WaitVisible(`#liked img`, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelectorAll('#liked img').length`, &liked),

		chromedp.Click(`#pets .card form[action$="/adopt"] button`, chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Navigate(baseURL),
		chromedp.Text(`#pets .card form[action$="/adopt"] button`, &adoptLabel, chromedp.ByQuery),

		chromedp.Click(`#pets .card button[data-pet-id]`, chromedp.ByQuery),
		chromedp.WaitVisible(`#pet-details-modal`, chromedp.ByID),
		chromedp.Text(`#pet-details-content h2`, &modalName, chromedp.ByQuery),
		chromedp.Click(`#close-pet-details`, chromedp.ByID),
		chromedp.WaitNotPresent(`#pet-details-modal:not([hidden])`, chromedp.ByQuery),
	)
	require.NoError(t, err)
	require.Equal(t, 4, cards)
	require.Equal(t, 1, liked)
	require.Equal(t, "Adopted", strings.TrimSpace(adoptLabel))
	require.NotEmpty(t, modalName)
}
