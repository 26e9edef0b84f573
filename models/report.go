package models

import "time"

// Report sources.
const (
	SourceUpload     = "upload"
	SourceBulkUpload = "bulk-upload"
	SourceCLI        = "cli"
)

// Report is a persisted summary of one check run.
type Report struct {
	ID           string        `json:"id" firestore:"id"`
	Source       string        `json:"source" firestore:"source"`
	Outlets      []Outlet      `json:"outlets" firestore:"-"`
	TargetCount  int           `json:"target_count" firestore:"targetCount"`
	Results      []MatchResult `json:"results" firestore:"-"`
	MissingCount int           `json:"missing_count" firestore:"missingCount"`
	ErrorCount   int           `json:"error_count" firestore:"errorCount"`
	CreatedAt    time.Time     `json:"created_at" firestore:"createdAt"`
}
