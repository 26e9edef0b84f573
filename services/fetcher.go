package services

import (
	"log"
	"net/http"

	"FlashSaleSwiggy/config/environment"
)

// NewMenuFetcher picks the fetcher for cfg.FetchMode. The returned func
// releases whatever the fetcher holds and is safe to call once.
func NewMenuFetcher(cfg *environment.Config) (MenuFetcher, func()) {
	if cfg.FetchMode == environment.FetchModeBrowser {
		log.Println("🌐 Fetching menus through headless Chrome")
		browser := NewBrowserFetcher(cfg.MenuURL, cfg.UserAgent, cfg.FetchTimeout)
		return browser, browser.Close
	}

	client := NewSwiggyClient(&http.Client{Timeout: cfg.FetchTimeout}, cfg.MenuURL, cfg.UserAgent, cfg.FetchRatePerSec)
	return client, func() {}
}
