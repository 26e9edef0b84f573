package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"FlashSaleSwiggy/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

var ErrEmptyPage = errors.New("page has no menu payload")

// BrowserFetcher loads the menu endpoint in headless Chrome. Used when the API
// turns away plain HTTP clients.
type BrowserFetcher struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	baseURL       string
	timeout       time.Duration

	startOnce sync.Once
	startErr  error
}

func NewBrowserFetcher(baseURL, userAgent string, timeout time.Duration) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("headless", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return &BrowserFetcher{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		baseURL:       baseURL,
		timeout:       timeout,
	}
}

// start launches Chrome on first use. Every fetch then opens its own tab in it.
func (b *BrowserFetcher) start() error {
	b.startOnce.Do(func() {
		b.startErr = chromedp.Run(b.browserCtx)
		if b.startErr == nil {
			log.Println("🌐 Headless Chrome started")
		}
	})
	return b.startErr
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}

func (b *BrowserFetcher) FetchMenu(ctx context.Context, outlet models.Outlet) (*models.MenuResponse, error) {
	menuURL, err := MenuURL(b.baseURL, outlet)
	if err != nil {
		return nil, err
	}

	if err := b.start(); err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var pageHTML string
	log.Printf("Navigating to menu page for outlet %s", outlet.RestaurantID)
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(menuURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("load menu page: %w", err)
	}

	payload, err := ExtractPagePayload(pageHTML)
	if err != nil {
		return nil, err
	}
	return DecodeMenu([]byte(payload))
}

// ExtractPagePayload pulls the raw response text out of the page Chrome renders
// for a JSON document: a <pre> element, or the body text when there is none.
func ExtractPagePayload(pageHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	text := strings.TrimSpace(doc.Find("pre").First().Text())
	if text == "" {
		text = strings.TrimSpace(doc.Find("body").Text())
	}
	if text == "" {
		return "", ErrEmptyPage
	}
	return text, nil
}
