package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"FlashSaleSwiggy/models"
)

var (
	ErrEmptyCSV            = errors.New("csv file is empty")
	ErrItemColumnNotFound  = errors.New("could not find an item name column (header containing \"item\" or \"name\")")
	ErrNoTargetItems       = errors.New("no item names found in csv")
	ErrRestaurantIDMissing = errors.New("could not find a restaurantId column")
	ErrNoOutlets           = errors.New("no outlets found in csv")
)

const utf8BOM = "\uFEFF"

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func readHeader(cr *csv.Reader) ([]string, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header, nil
}

// ReadTargetItems reads the item-name column: the first header mentioning "item" or "name".
// Names are trimmed, blanks dropped and duplicates removed, keeping first-seen order.
func ReadTargetItems(r io.Reader) ([]string, error) {
	cr := newCSVReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	col := -1
	for i, h := range header {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "item") || strings.Contains(lower, "name") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrItemColumnNotFound
	}

	var targets []string
	seen := make(map[string]bool)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read item csv: %w", err)
		}
		if col >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[col])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, name)
	}

	if len(targets) == 0 {
		return nil, ErrNoTargetItems
	}
	return targets, nil
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReadOutlets reads the outlet list. Blank lat/lng fall back to the given defaults.
func ReadOutlets(r io.Reader, defaultLat, defaultLng string) ([]models.Outlet, error) {
	cr := newCSVReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	idCol, latCol, lngCol, nameCol := -1, -1, -1, -1
	for i, h := range header {
		switch normalizeHeader(h) {
		case "restaurantid":
			idCol = i
		case "lat", "latitude":
			latCol = i
		case "lng", "lon", "long", "longitude":
			lngCol = i
		case "name", "outletname", "restaurantname", "displayname":
			nameCol = i
		}
	}
	if idCol < 0 {
		return nil, ErrRestaurantIDMissing
	}

	field := func(record []string, col int) string {
		if col < 0 || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	var outlets []models.Outlet
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read outlet csv: %w", err)
		}

		id := field(record, idCol)
		if id == "" {
			continue
		}
		outlet := models.Outlet{
			RestaurantID: id,
			Lat:          field(record, latCol),
			Lng:          field(record, lngCol),
			Name:         field(record, nameCol),
		}
		if outlet.Lat == "" {
			outlet.Lat = defaultLat
		}
		if outlet.Lng == "" {
			outlet.Lng = defaultLng
		}
		outlets = append(outlets, outlet)
	}

	if len(outlets) == 0 {
		return nil, ErrNoOutlets
	}
	return outlets, nil
}

// WriteOptions controls the report layout.
type WriteOptions struct {
	// IncludeRestaurant adds the leading Restaurant ID column used by multi-outlet reports.
	IncludeRestaurant bool
	Currency          string
}

const restaurantIDHeader = "Restaurant ID"

func ResultHeader(opts WriteOptions) []string {
	currency := opts.Currency
	if currency == "" {
		currency = "₹"
	}
	header := []string{
		"Item Name",
		fmt.Sprintf("Base Price (%s)", currency),
		fmt.Sprintf("Final Price (%s)", currency),
		"Status",
	}
	if opts.IncludeRestaurant {
		header = append([]string{restaurantIDHeader}, header...)
	}
	return header
}

// lineBreaks folds CR and CRLF into LF; csv.Reader returns LF for both inside quoted fields.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(lineBreaks.Replace(s), `"`, `""`) + `"`
}

// WriteResults writes the header row followed by one row per result with every field quoted.
func WriteResults(w io.Writer, results []models.MatchResult, opts WriteOptions) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(ResultHeader(opts), ",") + "\n"); err != nil {
		return err
	}

	for _, r := range results {
		fields := []string{r.Name, r.BasePrice.String(), r.FinalPrice.String(), r.Status}
		if opts.IncludeRestaurant {
			fields = append([]string{r.RestaurantID}, fields...)
		}
		for i := range fields {
			fields[i] = quoteField(fields[i])
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ParseResults reads back a report produced by WriteResults.
func ParseResults(r io.Reader) ([]models.MatchResult, error) {
	cr := newCSVReader(r)
	cr.LazyQuotes = false
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	withRestaurant := len(header) > 0 && header[0] == restaurantIDHeader
	want := 4
	if withRestaurant {
		want = 5
	}
	if len(header) != want {
		return nil, fmt.Errorf("unexpected report header %v", header)
	}

	var results []models.MatchResult
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report: %w", err)
		}
		if len(record) != want {
			return nil, fmt.Errorf("report row has %d fields, want %d", len(record), want)
		}

		var res models.MatchResult
		if withRestaurant {
			res.RestaurantID = record[0]
			record = record[1:]
		}
		res.Name = record[0]
		if res.BasePrice, err = models.ParsePrice(record[1]); err != nil {
			return nil, err
		}
		if res.FinalPrice, err = models.ParsePrice(record[2]); err != nil {
			return nil, err
		}
		res.Status = record[3]
		results = append(results, res)
	}
	return results, nil
}
