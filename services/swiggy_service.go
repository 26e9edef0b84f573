package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"FlashSaleSwiggy/models"

	"golang.org/x/time/rate"
)

var (
	ErrBadStatus   = errors.New("bad status")
	ErrInvalidMenu = errors.New("invalid menu response")
)

// MenuFetcher loads the raw menu payload for one outlet.
type MenuFetcher interface {
	FetchMenu(ctx context.Context, outlet models.Outlet) (*models.MenuResponse, error)
}

// MenuURL builds the menu endpoint URL for an outlet.
func MenuURL(baseURL string, outlet models.Outlet) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse menu url: %w", err)
	}
	q := u.Query()
	q.Set("page-type", "REGULAR_MENU")
	q.Set("complete-menu", "true")
	q.Set("lat", outlet.Lat)
	q.Set("lng", outlet.Lng)
	q.Set("restaurantId", outlet.RestaurantID)
	q.Set("submitAction", "ENTER")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SwiggyClient fetches menus from the public menu API over plain HTTP.
type SwiggyClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewSwiggyClient builds a client. ratePerSec <= 0 disables pacing.
func NewSwiggyClient(httpClient *http.Client, baseURL, userAgent string, ratePerSec float64) *SwiggyClient {
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &SwiggyClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

func (c *SwiggyClient) FetchMenu(ctx context.Context, outlet models.Outlet) (*models.MenuResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	menuURL, err := MenuURL(c.baseURL, outlet)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, menuURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return DecodeMenu(body)
}

// DecodeMenu parses a menu payload.
func DecodeMenu(body []byte) (*models.MenuResponse, error) {
	var resp models.MenuResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMenu, err)
	}
	return &resp, nil
}
