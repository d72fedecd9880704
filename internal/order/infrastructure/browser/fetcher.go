// Package browser drives a single Chrome session over the order pages. The
// session is shared sequentially across orders; robot and login gates pause
// the run for the operator instead of failing it.
package browser

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/orderdesk/walmart-importer/internal/order/application"
	"github.com/orderdesk/walmart-importer/internal/order/infrastructure/page"
)

// Gate is the operator-intervention hook: it blocks until a human has dealt
// with whatever the prompt describes.
type Gate func(prompt string)

// StdinGate prints the prompt and waits for Enter on stdin.
func StdinGate(prompt string) {
	fmt.Println(prompt)
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

const (
	robotPageMarker  = "we like real shoppers, not robots"
	contentMarker    = "Payment method"
	contentPollEvery = 500 * time.Millisecond
	postGateSettle   = 700 * time.Millisecond
)

type Fetcher struct {
	log            *slog.Logger
	gate           Gate
	contentTimeout time.Duration

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// New launches the browser with a persistent profile so the operator's
// login survives between runs. Headful on purpose: the gates require a
// human in front of the window.
func New(ctx context.Context, log *slog.Logger, userDataDir string, contentTimeout time.Duration, gate Gate) (*Fetcher, error) {
	if gate == nil {
		gate = StdinGate
	}
	if err := os.MkdirAll(userDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("browser profile dir %s: %w", userDataDir, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.UserDataDir(userDataDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a broken install fails the run up front
	// instead of on the first order.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("browser start: %w", err)
	}

	return &Fetcher{
		log:            log,
		gate:           gate,
		contentTimeout: contentTimeout,
		browserCtx:     browserCtx,
		browserCancel:  browserCancel,
		allocCancel:    allocCancel,
	}, nil
}

func (f *Fetcher) Close() {
	f.browserCancel()
	f.allocCancel()
}

func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (application.PageCapture, error) {
	if err := ctx.Err(); err != nil {
		return application.PageCapture{}, err
	}

	if err := chromedp.Run(f.browserCtx, chromedp.Navigate(pageURL)); err != nil {
		return application.PageCapture{}, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	if f.robotGateShown() {
		f.log.Warn("robot gate detected", "url", pageURL)
		f.gate("Robot check detected. Solve it in the browser window, then press Enter here to continue...")
	}
	if f.loginGateShown() {
		f.log.Warn("login gate detected", "url", pageURL)
		f.gate("Login page detected. Sign in in the browser window, then press Enter here to continue...")
	}
	if !f.waitForContent(ctx) {
		f.gate("Order content is not visible yet. Finish any gate in the browser, then press Enter here to continue...")
	}
	time.Sleep(postGateSettle)

	var markup, text string
	if err := chromedp.Run(f.browserCtx,
		chromedp.OuterHTML("html", &markup),
		chromedp.Evaluate(`document.body.innerText || ''`, &text),
	); err != nil {
		return application.PageCapture{}, fmt.Errorf("capture %s: %w", pageURL, err)
	}
	if strings.TrimSpace(text) == "" {
		text = page.Flatten(markup)
	}

	return application.PageCapture{
		HTML:        markup,
		Text:        text,
		Items:       page.Items(markup),
		ContactName: page.FirstNameAfterAddress(markup),
	}, nil
}

func (f *Fetcher) visibleText() string {
	var text string
	if err := chromedp.Run(f.browserCtx, chromedp.Evaluate(`document.body.innerText || ''`, &text)); err != nil {
		return ""
	}
	return text
}

func (f *Fetcher) robotGateShown() bool {
	return strings.Contains(strings.ToLower(f.visibleText()), robotPageMarker)
}

func (f *Fetcher) loginGateShown() bool {
	if !strings.Contains(strings.ToLower(f.visibleText()), "sign in") {
		return false
	}
	var hasCredentialInput bool
	err := chromedp.Run(f.browserCtx, chromedp.Evaluate(
		`!!document.querySelector("input[type='email'],input[type='password']")`,
		&hasCredentialInput,
	))
	return err == nil && hasCredentialInput
}

// waitForContent polls the visible text for the payment label that anchors
// a fully rendered order page.
func (f *Fetcher) waitForContent(ctx context.Context) bool {
	deadline := time.Now().Add(f.contentTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		if strings.Contains(f.visibleText(), contentMarker) {
			return true
		}
		time.Sleep(contentPollEvery)
	}
	return false
}
