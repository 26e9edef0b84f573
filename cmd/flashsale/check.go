package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/services"

	"github.com/spf13/cobra"
)

var errRestaurantIDRequired = errors.New("--restaurant-id must not be empty")

func newCheckCmd() *cobra.Command {
	var (
		itemsPath   string
		outletsPath string
		outPath     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every outlet in an outlet CSV and write one combined report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			targets, err := readCSVFile(itemsPath, services.ReadTargetItems)
			if err != nil {
				return reportErr(cmd, err)
			}
			outlets, err := readCSVFile(outletsPath, func(r io.Reader) ([]models.Outlet, error) {
				return services.ReadOutlets(r, cfg.DefaultLat, cfg.DefaultLng)
			})
			if err != nil {
				return reportErr(cmd, err)
			}

			if cmd.Flags().Changed("concurrency") {
				cfg.FetchConcurrency = concurrency
			}

			fetcher, closeFetcher := services.NewMenuFetcher(cfg)
			defer closeFetcher()

			log.Printf("Checking %d items across %d outlets", len(targets), len(outlets))
			svc := services.NewFlashSaleService(fetcher, cfg.FetchConcurrency)
			results := svc.CheckOutlets(cmd.Context(), outlets, targets)

			opts := services.WriteOptions{IncludeRestaurant: true, Currency: cfg.CurrencySymbol}
			if err := writeCSVFile(outPath, results, opts); err != nil {
				return reportErr(cmd, err)
			}
			recordRun(cmd.Context(), cfg, outlets, len(targets), results)
			log.Printf("📄 Report written to %s (%d rows)", outPath, len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemsPath, "items", "", "CSV file with an item name column")
	cmd.Flags().StringVar(&outletsPath, "outlets", "", "CSV file with restaurantId and optional lat/lng columns")
	cmd.Flags().StringVar(&outPath, "out", "flash_sale_combined.csv", "output CSV path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "outlets checked at once")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("outlets")
	return cmd
}

func newCheckOutletCmd() *cobra.Command {
	var (
		itemsPath    string
		restaurantID string
		lat          string
		lng          string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "check-outlet",
		Short: "Check a single outlet and write the missing items",
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID = strings.TrimSpace(restaurantID)
			if restaurantID == "" {
				return reportErr(cmd, errRestaurantIDRequired)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			targets, err := readCSVFile(itemsPath, services.ReadTargetItems)
			if err != nil {
				return reportErr(cmd, err)
			}

			outlet := models.Outlet{RestaurantID: restaurantID, Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}
			if lat != "" {
				outlet.Lat = lat
			}
			if lng != "" {
				outlet.Lng = lng
			}

			fetcher, closeFetcher := services.NewMenuFetcher(cfg)
			defer closeFetcher()

			svc := services.NewFlashSaleService(fetcher, 1)
			results := svc.CheckOutlet(cmd.Context(), outlet, targets)

			if err := writeCSVFile(outPath, results, services.WriteOptions{Currency: cfg.CurrencySymbol}); err != nil {
				return reportErr(cmd, err)
			}
			recordRun(cmd.Context(), cfg, []models.Outlet{outlet}, len(targets), results)
			log.Printf("📄 Report written to %s (%d rows)", outPath, len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemsPath, "items", "", "CSV file with an item name column")
	cmd.Flags().StringVar(&restaurantID, "restaurant-id", "", "Swiggy restaurant ID")
	cmd.Flags().StringVar(&lat, "lat", "", "latitude (defaults to DEFAULT_LAT)")
	cmd.Flags().StringVar(&lng, "lng", "", "longitude (defaults to DEFAULT_LNG)")
	cmd.Flags().StringVar(&outPath, "out", "missing_flash_sale.csv", "output CSV path")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("restaurant-id")
	return cmd
}

func readCSVFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeCSVFile(path string, results []models.MatchResult, opts services.WriteOptions) error {
	var buf bytes.Buffer
	if err := services.WriteResults(&buf, results, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func reportErr(cmd *cobra.Command, err error) error {
	cmd.PrintErrf("❌ %v\n", err)
	return err
}
