package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"FlashSaleSwiggy/config/environment"
	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/services"
	"FlashSaleSwiggy/utils"

	"github.com/gin-gonic/gin"
)

const (
	singleReportFilename = "missing_flash_sale.csv"
	bulkReportFilename   = "flash_sale_combined.csv"
	bulkArchiveFilename  = "flash_sale_results.zip"
)

type FlashSaleController struct {
	FlashSaleService *services.FlashSaleService
	ReportStore      services.ReportStore
	DefaultLat       string
	DefaultLng       string
	Currency         string
	MaxUploadBytes   int64
}

func NewFlashSaleController(svc *services.FlashSaleService, store services.ReportStore, cfg *environment.Config) *FlashSaleController {
	return &FlashSaleController{
		FlashSaleService: svc,
		ReportStore:      store,
		DefaultLat:       cfg.DefaultLat,
		DefaultLng:       cfg.DefaultLng,
		Currency:         cfg.CurrencySymbol,
		MaxUploadBytes:   cfg.MaxUploadBytes,
	}
}

// Upload checks one outlet against an uploaded item list and returns the missing items as CSV.
func (h *FlashSaleController) Upload(c *gin.Context) {
	h.limitBody(c)

	fileHeader, err := c.FormFile("csvfile")
	if err != nil {
		h.fail(c, uploadError("csvfile", err))
		return
	}

	restaurantID := strings.TrimSpace(c.PostForm("restaurantId"))
	if restaurantID == "" {
		h.fail(c, utils.NewCustomError(http.StatusBadRequest, "restaurantId is required"))
		return
	}

	targets, err := readFormFile(fileHeader, services.ReadTargetItems)
	if err != nil {
		h.fail(c, err)
		return
	}

	outlet := models.Outlet{
		RestaurantID: restaurantID,
		Lat:          formValueOr(c, "lat", h.DefaultLat),
		Lng:          formValueOr(c, "lng", h.DefaultLng),
	}

	results := h.FlashSaleService.CheckOutlet(c.Request.Context(), outlet, targets)

	var buf bytes.Buffer
	if err := services.WriteResults(&buf, results, services.WriteOptions{Currency: h.Currency}); err != nil {
		h.fail(c, err)
		return
	}

	services.RecordReport(c.Request.Context(), h.ReportStore,
		services.NewReport(models.SourceUpload, []models.Outlet{outlet}, len(targets), results))

	c.Header("Content-Disposition", "attachment; filename="+singleReportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// BulkUpload checks every outlet in the outlet CSV and returns a ZIP holding the combined report.
func (h *FlashSaleController) BulkUpload(c *gin.Context) {
	h.limitBody(c)

	itemsHeader, err := c.FormFile("itemsfile")
	if err != nil {
		h.fail(c, uploadError("itemsfile", err))
		return
	}
	outletsHeader, err := c.FormFile("outletsfile")
	if err != nil {
		h.fail(c, uploadError("outletsfile", err))
		return
	}

	targets, err := readFormFile(itemsHeader, services.ReadTargetItems)
	if err != nil {
		h.fail(c, err)
		return
	}
	outlets, err := readFormFile(outletsHeader, func(r io.Reader) ([]models.Outlet, error) {
		return services.ReadOutlets(r, h.DefaultLat, h.DefaultLng)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	log.Printf("Checking %d items across %d outlets", len(targets), len(outlets))
	results := h.FlashSaleService.CheckOutlets(c.Request.Context(), outlets, targets)

	var csvBuf bytes.Buffer
	if err := services.WriteResults(&csvBuf, results, services.WriteOptions{IncludeRestaurant: true, Currency: h.Currency}); err != nil {
		h.fail(c, err)
		return
	}

	var zipBuf bytes.Buffer
	if err := services.ZipSingleFile(&zipBuf, bulkReportFilename, csvBuf.Bytes()); err != nil {
		h.fail(c, err)
		return
	}

	services.RecordReport(c.Request.Context(), h.ReportStore,
		services.NewReport(models.SourceBulkUpload, outlets, len(targets), results))

	c.Header("Content-Disposition", "attachment; filename="+bulkArchiveFilename)
	c.Data(http.StatusOK, "application/zip", zipBuf.Bytes())
}

func (h *FlashSaleController) limitBody(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
}

// fail reports client errors through the error middleware and anything else as a bare 500.
func (h *FlashSaleController) fail(c *gin.Context, err error) {
	if utils.StatusOf(err) < http.StatusInternalServerError {
		_ = c.Error(err)
		c.Abort()
		return
	}
	log.Printf("❌ %s: %v", c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, "Server Error")
}

func uploadError(field string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return utils.NewCustomError(http.StatusRequestEntityTooLarge, "upload is too large")
	}
	return utils.NewCustomError(http.StatusBadRequest, fmt.Sprintf("%s is required", field))
}

// readFormFile opens an uploaded file and parses it. Input problems become 400s.
func readFormFile[T any](fh *multipart.FileHeader, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := fh.Open()
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		if isInputError(err) {
			return zero, utils.BadRequest(err)
		}
		return zero, err
	}
	return v, nil
}

func isInputError(err error) bool {
	for _, target := range []error{
		services.ErrEmptyCSV,
		services.ErrItemColumnNotFound,
		services.ErrNoTargetItems,
		services.ErrRestaurantIDMissing,
		services.ErrNoOutlets,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func formValueOr(c *gin.Context, key, fallback string) string {
	if v := strings.TrimSpace(c.PostForm(key)); v != "" {
		return v
	}
	return fallback
}
