package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Match statuses written to the report. Fetch failures use "error: <message>".
const (
	StatusNotFound        = "not found"
	StatusNotDiscounted   = "not discounted"
	StatusFoundDiscounted = "found-discounted"
	StatusErrorPrefix     = "error: "
)

// Placeholder used for a missing name or price in the report.
const Placeholder = "-"

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Outlet is a single restaurant location on the platform.
type Outlet struct {
	RestaurantID string `json:"restaurant_id"`
	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
	Name         string `json:"name,omitempty"`
}

// Location parses the outlet coordinates. ok is false when either is not a number.
func (o Outlet) Location() (GeoLocation, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(o.Lat), 64)
	if err != nil {
		return GeoLocation{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(o.Lng), 64)
	if err != nil {
		return GeoLocation{}, false
	}
	return GeoLocation{Latitude: lat, Longitude: lng}, true
}

// MenuItem is one priced entry flattened out of a menu response.
type MenuItem struct {
	Name         string  `json:"name"`
	BasePrice    float64 `json:"base_price"`
	FinalPrice   float64 `json:"final_price"`
	IsDiscounted bool    `json:"is_discounted"`
}

// Price is a number that may be absent. Absent prices render as "-".
type Price struct {
	Value float64
	Valid bool
}

func NewPrice(v float64) Price {
	return Price{Value: v, Valid: true}
}

func (p Price) String() string {
	if !p.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// ParsePrice is the inverse of Price.String.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == Placeholder || s == "" {
		return Price{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return NewPrice(v), nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return json.Marshal(Placeholder)
	}
	return json.Marshal(p.Value)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*p = NewPrice(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MatchResult is one row of the report for a target item.
type MatchResult struct {
	RestaurantID string `json:"restaurant_id,omitempty"`
	Name         string `json:"name"`
	BasePrice    Price  `json:"base_price"`
	FinalPrice   Price  `json:"final_price"`
	Status       string `json:"status"`
}

// ErrorResult is the synthetic row recorded when an outlet could not be checked.
func ErrorResult(restaurantID string, err error) MatchResult {
	return MatchResult{
		RestaurantID: restaurantID,
		Name:         Placeholder,
		Status:       StatusErrorPrefix + err.Error(),
	}
}

func (r MatchResult) IsError() bool {
	return strings.HasPrefix(r.Status, StatusErrorPrefix)
}
