package services

import (
	"context"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/utils"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"google.golang.org/api/iterator"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const reportsCollection = "flash_sale_reports"

// ReportStore keeps a history of check runs.
type ReportStore interface {
	Save(ctx context.Context, report *models.Report) error
	List(ctx context.Context, limit int) ([]models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
}

// NewReport summarises one run. ID and timestamp are assigned here.
func NewReport(source string, outlets []models.Outlet, targetCount int, results []models.MatchResult) *models.Report {
	report := &models.Report{
		ID:          uuid.New().String(),
		Source:      source,
		Outlets:     outlets,
		TargetCount: targetCount,
		Results:     results,
		CreatedAt:   time.Now().UTC(),
	}
	for _, r := range results {
		if r.IsError() {
			report.ErrorCount++
			continue
		}
		report.MissingCount++
	}
	return report
}

// RecordReport saves the report and only logs on failure; history must not break a check.
func RecordReport(ctx context.Context, store ReportStore, report *models.Report) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, report); err != nil {
		log.Printf("⚠️ Failed to save report %s: %v", report.ID, err)
		return
	}
	log.Printf("Saved report %s (%d rows)", report.ID, len(report.Results))
}

// FirestoreReportStore keeps reports in Firestore.
type FirestoreReportStore struct {
	FirestoreClient *firestore.Client
}

func NewFirestoreReportStore(client *firestore.Client) *FirestoreReportStore {
	return &FirestoreReportStore{FirestoreClient: client}
}

func (s *FirestoreReportStore) Save(ctx context.Context, report *models.Report) error {
	outlets := make([]map[string]interface{}, 0, len(report.Outlets))
	for _, o := range report.Outlets {
		doc := map[string]interface{}{
			"restaurantId": o.RestaurantID,
			"lat":          o.Lat,
			"lng":          o.Lng,
			"name":         o.Name,
		}
		if loc, ok := o.Location(); ok {
			doc["location"] = &latlng.LatLng{Latitude: loc.Latitude, Longitude: loc.Longitude}
			doc["geohash"] = geohash.Encode(loc.Latitude, loc.Longitude)
		}
		outlets = append(outlets, doc)
	}

	results := make([]map[string]interface{}, 0, len(report.Results))
	for _, r := range report.Results {
		results = append(results, map[string]interface{}{
			"restaurantId": r.RestaurantID,
			"name":         r.Name,
			"basePrice":    r.BasePrice.String(),
			"finalPrice":   r.FinalPrice.String(),
			"status":       r.Status,
		})
	}

	data := map[string]interface{}{
		"id":           report.ID,
		"source":       report.Source,
		"outlets":      outlets,
		"targetCount":  report.TargetCount,
		"results":      results,
		"missingCount": report.MissingCount,
		"errorCount":   report.ErrorCount,
		"createdAt":    report.CreatedAt,
	}

	_, err := s.FirestoreClient.Collection(reportsCollection).Doc(report.ID).Set(ctx, data)
	return err
}

func (s *FirestoreReportStore) List(ctx context.Context, limit int) ([]models.Report, error) {
	iter := s.FirestoreClient.Collection(reportsCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var reports []models.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to get reports")
		}
		reports = append(reports, reportFromData(doc.Data()))
	}
	return reports, nil
}

func (s *FirestoreReportStore) Get(ctx context.Context, id string) (*models.Report, error) {
	doc, err := s.FirestoreClient.Collection(reportsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, utils.NewCustomError(http.StatusNotFound, "Report not found")
		}
		return nil, err
	}
	report := reportFromData(doc.Data())
	return &report, nil
}

func reportFromData(data map[string]interface{}) models.Report {
	report := models.Report{
		ID:           asString(data["id"]),
		Source:       asString(data["source"]),
		TargetCount:  asInt(data["targetCount"]),
		MissingCount: asInt(data["missingCount"]),
		ErrorCount:   asInt(data["errorCount"]),
	}
	if t, ok := data["createdAt"].(time.Time); ok {
		report.CreatedAt = t
	}

	if outlets, ok := data["outlets"].([]interface{}); ok {
		for _, raw := range outlets {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			report.Outlets = append(report.Outlets, models.Outlet{
				RestaurantID: asString(m["restaurantId"]),
				Lat:          asString(m["lat"]),
				Lng:          asString(m["lng"]),
				Name:         asString(m["name"]),
			})
		}
	}

	if results, ok := data["results"].([]interface{}); ok {
		for _, raw := range results {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			base, _ := models.ParsePrice(asString(m["basePrice"]))
			final, _ := models.ParsePrice(asString(m["finalPrice"]))
			report.Results = append(report.Results, models.MatchResult{
				RestaurantID: asString(m["restaurantId"]),
				Name:         asString(m["name"]),
				BasePrice:    base,
				FinalPrice:   final,
				Status:       asString(m["status"]),
			})
		}
	}
	return report
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// MemoryReportStore keeps reports in process memory.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]models.Report
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[string]models.Report)}
}

func (s *MemoryReportStore) Save(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = *report
	return nil
}

func (s *MemoryReportStore) List(_ context.Context, limit int) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (s *MemoryReportStore) Get(_ context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, utils.NewCustomError(http.StatusNotFound, "Report not found")
	}
	return &report, nil
}
