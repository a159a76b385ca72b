package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
	"go.uber.org/multierr"
)

var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// record is one CSV row keyed by normalized header.
type record struct {
	line   int
	values map[string]string
}

// get returns the first non-empty value among the column aliases.
func (r record) get(aliases ...string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(r.values[alias]); v != "" {
			return v
		}
	}
	return ""
}

func (r record) int64(field string, aliases ...string) (int64, error) {
	raw := r.get(aliases...)
	if raw == "" {
		return 0, r.fail(field, "is required")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, r.fail(field, fmt.Sprintf("%q is not an integer", raw))
	}
	return v, nil
}

func (r record) fail(field, msg string) error {
	return fmt.Errorf("line %d: %s %s", r.line, field, msg)
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func readRecords(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = normalizeHeader(header[i])
	}

	var out []record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				values[name] = row[i]
			}
		}
		out = append(out, record{line: line, values: values})
	}
	return out, nil
}

func parseProviders(records []record) ([]models.Provider, error) {
	var errs error
	out := make([]models.Provider, 0, len(records))
	for _, rec := range records {
		id, err := rec.int64("provider_id", "provider_id")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		p := models.Provider{
			ProviderID: id,
			Name:       rec.get("name"),
			Type:       rec.get("type", "provider_type"),
			Contact:    rec.get("contact"),
			Location:   rec.get("location", "city"),
		}
		if p.Name == "" {
			errs = multierr.Append(errs, rec.fail("name", "is required"))
			continue
		}
		if p.Type == "" {
			errs = multierr.Append(errs, rec.fail("type", "is required"))
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

func parseReceivers(records []record) ([]models.Receiver, error) {
	var errs error
	out := make([]models.Receiver, 0, len(records))
	for _, rec := range records {
		id, err := rec.int64("receiver_id", "receiver_id")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		r := models.Receiver{
			ReceiverID: id,
			Name:       rec.get("name"),
			Contact:    rec.get("contact"),
			Location:   rec.get("location", "city"),
		}
		if r.Name == "" {
			errs = multierr.Append(errs, rec.fail("name", "is required"))
			continue
		}
		out = append(out, r)
	}
	return out, errs
}

func parseListings(records []record, providerTypes map[int64]string) ([]models.FoodListing, error) {
	var errs error
	out := make([]models.FoodListing, 0, len(records))
	for _, rec := range records {
		listing, err := parseListing(rec, providerTypes)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, listing)
	}
	return out, errs
}

func parseListing(rec record, providerTypes map[int64]string) (models.FoodListing, error) {
	id, err := rec.int64("food_id", "food_id")
	if err != nil {
		return models.FoodListing{}, err
	}
	providerID, err := rec.int64("provider_id", "provider_id")
	if err != nil {
		return models.FoodListing{}, err
	}
	qty, err := rec.int64("quantity", "quantity")
	if err != nil {
		return models.FoodListing{}, err
	}
	if qty <= 0 {
		return models.FoodListing{}, rec.fail("quantity", "must be greater than zero")
	}
	expiry, err := parseDate(rec.get("expiry", "expiry_date"))
	if err != nil {
		return models.FoodListing{}, rec.fail("expiry", err.Error())
	}
	status := enums.ListingStatusAvailable
	if raw := rec.get("status"); raw != "" {
		status, err = enums.ParseListingStatus(raw)
		if err != nil {
			return models.FoodListing{}, rec.fail("status", err.Error())
		}
	}
	name := rec.get("food_name", "name")
	if name == "" {
		return models.FoodListing{}, rec.fail("food_name", "is required")
	}
	providerType := rec.get("provider_type")
	if providerType == "" {
		providerType = providerTypes[providerID]
	}
	return models.FoodListing{
		FoodID:       id,
		FoodName:     name,
		Quantity:     int(qty),
		Expiry:       expiry,
		ProviderID:   providerID,
		ProviderType: providerType,
		Location:     rec.get("location", "city"),
		FoodType:     rec.get("food_type"),
		MealType:     rec.get("meal_type"),
		Status:       status,
	}, nil
}

func parseClaims(records []record) ([]models.Claim, error) {
	var errs error
	out := make([]models.Claim, 0, len(records))
	for _, rec := range records {
		id, err := rec.int64("claim_id", "claim_id")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		foodID, err := rec.int64("food_id", "food_id")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		receiverID, err := rec.int64("receiver_id", "receiver_id")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		claimTime, err := parseTimestamp(rec.get("claim_time", "timestamp"))
		if err != nil {
			errs = multierr.Append(errs, rec.fail("claim_time", err.Error()))
			continue
		}
		out = append(out, models.Claim{ClaimID: id, FoodID: foodID, ReceiverID: receiverID, ClaimTime: claimTime})
	}
	return out, errs
}

func parseDate(raw string) (types.Date, error) {
	if raw == "" {
		return types.Date{}, errors.New("is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return types.NewDate(t), nil
		}
	}
	// tolerate timestamps in the date column
	if t, err := parseTimestamp(raw); err == nil {
		return types.NewDate(t), nil
	}
	return types.Date{}, fmt.Errorf("%q is not a date", raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("is required")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a timestamp", raw)
}
