package services

import (
	"context"
	"log"

	"FlashSaleSwiggy/models"

	"golang.org/x/sync/errgroup"
)

type FlashSaleService struct {
	Fetcher     MenuFetcher
	Concurrency int
}

// NewFlashSaleService wires a fetcher with the number of outlets checked at once.
// A concurrency of 1 checks outlets strictly one after another.
func NewFlashSaleService(fetcher MenuFetcher, concurrency int) *FlashSaleService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FlashSaleService{
		Fetcher:     fetcher,
		Concurrency: concurrency,
	}
}

// CheckOutlet returns the missing-items rows for one outlet. A failed fetch
// becomes a single error row instead of an error return.
func (s *FlashSaleService) CheckOutlet(ctx context.Context, outlet models.Outlet, targets []string) []models.MatchResult {
	resp, err := s.Fetcher.FetchMenu(ctx, outlet)
	if err != nil {
		log.Printf("❌ Error in outlet %s: %v", outlet.RestaurantID, err)
		return []models.MatchResult{models.ErrorResult(outlet.RestaurantID, err)}
	}

	results := MissingReport(MatchItems(ExtractMenuItems(resp), targets))
	for i := range results {
		results[i].RestaurantID = outlet.RestaurantID
	}

	log.Printf("✅ Processed outlet %s", outlet.RestaurantID)
	return results
}

// CheckOutlets checks every outlet and concatenates the rows in outlet input order.
// Once ctx is done, outlets not yet started get an error row carrying ctx.Err().
func (s *FlashSaleService) CheckOutlets(ctx context.Context, outlets []models.Outlet, targets []string) []models.MatchResult {
	perOutlet := make([][]models.MatchResult, len(outlets))

	var g errgroup.Group
	g.SetLimit(s.Concurrency)

	for i, outlet := range outlets {
		if err := ctx.Err(); err != nil {
			perOutlet[i] = []models.MatchResult{models.ErrorResult(outlet.RestaurantID, err)}
			continue
		}
		g.Go(func() error {
			perOutlet[i] = s.CheckOutlet(ctx, outlet, targets)
			return nil
		})
	}
	_ = g.Wait()

	var all []models.MatchResult
	for _, rows := range perOutlet {
		all = append(all, rows...)
	}
	return all
}
