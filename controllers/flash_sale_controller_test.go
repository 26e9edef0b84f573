package controllers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FlashSaleSwiggy/config/environment"
	"FlashSaleSwiggy/controllers"
	"FlashSaleSwiggy/middleware"
	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/services"
	"FlashSaleSwiggy/utils"

	"github.com/gin-gonic/gin"
)

const testMenu = `{"data": {"cards": [{"groupedCard": {"cardGroupMap": {"REGULAR": {"cards": [
	{"card": {"card": {"itemCards": [
		{"card": {"info": {"name": "Paneer Tikka", "price": 25000, "finalPrice": 20000}}},
		{"card": {"info": {"name": "Masala Dosa", "price": 12000}}}
	]}}}
]}}}}]}}`

type mockFetcher struct {
	outlets []models.Outlet
	fail    map[string]bool
}

func (m *mockFetcher) FetchMenu(_ context.Context, outlet models.Outlet) (*models.MenuResponse, error) {
	m.outlets = append(m.outlets, outlet)
	if m.fail[outlet.RestaurantID] {
		return nil, errors.New("bad status: 403 Forbidden")
	}
	return services.DecodeMenu([]byte(testMenu))
}

func setupRouter(fetcher services.MenuFetcher, store services.ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &environment.Config{
		DefaultLat:     "19.0176147",
		DefaultLng:     "72.8561644",
		CurrencySymbol: "₹",
		MaxUploadBytes: 1 << 20,
	}
	h := controllers.NewFlashSaleController(services.NewFlashSaleService(fetcher, 1), store, cfg)

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.POST("/upload", h.Upload)
	r.POST("/bulk-upload", h.BulkUpload)
	return r
}

type formFile struct {
	field, name, content string
}

func multipartRequest(t *testing.T, path string, files []formFile, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = io.WriteString(fw, f.content)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_ReturnsMissingItemsCSV(t *testing.T) {
	fetcher := &mockFetcher{}
	store := services.NewMemoryReportStore()
	r := setupRouter(fetcher, store)

	req := multipartRequest(t, "/upload",
		[]formFile{{"csvfile", "items.csv", "Item Name\nPaneer Tikka\nMasala Dosa\nKulfi\n"}},
		map[string]string{"restaurantId": "101"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "missing_flash_sale.csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	want := "Item Name,Base Price (₹),Final Price (₹),Status\n" +
		`"Masala Dosa","120","120","not discounted"` + "\n" +
		`"Kulfi","-","-","not found"` + "\n"
	if w.Body.String() != want {
		t.Fatalf("unexpected body:\n%s", w.Body.String())
	}

	if len(fetcher.outlets) != 1 || fetcher.outlets[0].Lat != "19.0176147" || fetcher.outlets[0].Lng != "72.8561644" {
		t.Errorf("default coordinates not applied: %+v", fetcher.outlets)
	}

	reports, _ := store.List(context.Background(), 10)
	if len(reports) != 1 || reports[0].Source != models.SourceUpload || reports[0].MissingCount != 2 {
		t.Errorf("expected one recorded upload report, got %+v", reports)
	}
}

func TestUpload_UsesGivenCoordinates(t *testing.T) {
	fetcher := &mockFetcher{}
	r := setupRouter(fetcher, services.NewMemoryReportStore())

	req := multipartRequest(t, "/upload",
		[]formFile{{"csvfile", "items.csv", "item\nKulfi\n"}},
		map[string]string{"restaurantId": "101", "lat": "12.97", "lng": "77.59"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := fetcher.outlets[0]; got.Lat != "12.97" || got.Lng != "77.59" {
		t.Errorf("coordinates not forwarded: %+v", got)
	}
}

func TestUpload_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		files   []formFile
		fields  map[string]string
		message string
	}{
		{
			name:    "missing file",
			fields:  map[string]string{"restaurantId": "101"},
			message: "csvfile is required",
		},
		{
			name:    "missing restaurant",
			files:   []formFile{{"csvfile", "items.csv", "item\nKulfi\n"}},
			message: "restaurantId is required",
		},
		{
			name:    "no item column",
			files:   []formFile{{"csvfile", "items.csv", "sku\n1\n"}},
			fields:  map[string]string{"restaurantId": "101"},
			message: services.ErrItemColumnNotFound.Error(),
		},
		{
			name:    "no items",
			files:   []formFile{{"csvfile", "items.csv", "item\n\n"}},
			fields:  map[string]string{"restaurantId": "101"},
			message: services.ErrNoTargetItems.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			r := setupRouter(fetcher, services.NewMemoryReportStore())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, "/upload", tt.files, tt.fields))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp utils.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}
			if len(fetcher.outlets) != 0 {
				t.Errorf("no fetch expected on bad input")
			}
		})
	}
}

func TestUpload_FetchFailureIsErrorRow(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]bool{"101": true}}
	r := setupRouter(fetcher, services.NewMemoryReportStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/upload",
		[]formFile{{"csvfile", "items.csv", "item\nKulfi\n"}},
		map[string]string{"restaurantId": "101"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"-","-","-","error: bad status: 403 Forbidden"`) {
		t.Errorf("expected error row, got:\n%s", w.Body.String())
	}
}

func TestBulkUpload_ReturnsZip(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]bool{"202": true}}
	store := services.NewMemoryReportStore()
	r := setupRouter(fetcher, store)

	req := multipartRequest(t, "/bulk-upload", []formFile{
		{"itemsfile", "items.csv", "Item Name\nPaneer Tikka\nKulfi\n"},
		{"outletsfile", "outlets.csv", "restaurantId,lat,lng\n101,12.9,77.5\n202,,\n"},
	}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "flash_sale_results.zip") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "flash_sale_combined.csv" {
		t.Fatalf("unexpected archive entries %+v", zr.File)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	csvBytes, _ := io.ReadAll(rc)

	want := "Restaurant ID,Item Name,Base Price (₹),Final Price (₹),Status\n" +
		`"101","Kulfi","-","-","not found"` + "\n" +
		`"202","-","-","-","error: bad status: 403 Forbidden"` + "\n"
	if string(csvBytes) != want {
		t.Fatalf("unexpected combined csv:\n%s", csvBytes)
	}

	if fetcher.outlets[1].Lat != "19.0176147" {
		t.Errorf("blank outlet latitude should use the default: %+v", fetcher.outlets[1])
	}

	reports, _ := store.List(context.Background(), 10)
	if len(reports) != 1 || reports[0].ErrorCount != 1 || reports[0].MissingCount != 1 {
		t.Errorf("unexpected recorded report %+v", reports)
	}
}

func TestBulkUpload_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		files []formFile
	}{
		{"missing outlets file", []formFile{{"itemsfile", "items.csv", "item\nA\n"}}},
		{"missing items file", []formFile{{"outletsfile", "outlets.csv", "restaurantId\n1\n"}}},
		{"no outlets", []formFile{
			{"itemsfile", "items.csv", "item\nA\n"},
			{"outletsfile", "outlets.csv", "restaurantId\n"},
		}},
		{"no restaurant column", []formFile{
			{"itemsfile", "items.csv", "item\nA\n"},
			{"outletsfile", "outlets.csv", "id\n1\n"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&mockFetcher{}, services.NewMemoryReportStore())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, "/bulk-upload", tt.files, nil))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	fetcher := &mockFetcher{}
	r := setupRouter(fetcher, services.NewMemoryReportStore())

	big := "item\n" + strings.Repeat("Paneer Tikka\n", (2<<20)/13)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/upload",
		[]formFile{{"csvfile", "items.csv", big}},
		map[string]string{"restaurantId": "101"}))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "upload is too large" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(fetcher.outlets) != 0 {
		t.Errorf("no fetch expected for oversized upload")
	}
}
