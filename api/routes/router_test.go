package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodwaste-backend/internal/expiry"
	"github.com/angelmondragon/foodwaste-backend/internal/listings"
	"github.com/angelmondragon/foodwaste-backend/internal/reports"
	"github.com/angelmondragon/foodwaste-backend/pkg/config"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/dbtest"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/metrics"
)

var fixedNow = time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, refreshOnRead bool) http.Handler {
	t.Helper()

	client := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()

	listingsSvc, err := listings.NewService(listings.ServiceParams{
		Logger:     logg,
		Repository: listings.NewRepository(client.DB()),
		DB:         client,
	})
	require.NoError(t, err)

	reportsSvc, err := reports.NewService(reports.ServiceParams{
		Logger:     logg,
		Repository: reports.NewRepository(client.DB()),
		Clock:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	expirySvc, err := expiry.NewService(expiry.ServiceParams{
		Logger:     logg,
		Repository: expiry.NewRepository(client.DB()),
		Metrics:    metrics.NewExpiryMetrics(reg),
		Trigger:    "api",
	})
	require.NoError(t, err)

	dbtest.Create(t, client.DB(),
		&models.Provider{ProviderID: 1, Name: "Alpha Diner", Type: "Restaurant", Location: "Springfield", Contact: "a@example.com"},
	)

	cfg := &config.Config{
		App:    config.AppConfig{Env: "dev"},
		Expiry: config.ExpiryConfig{RefreshOnRead: refreshOnRead},
	}
	return NewRouter(Params{
		Config:   cfg,
		Logger:   logg,
		Store:    client,
		Listings: listingsSvc,
		Reports:  reportsSvc,
		Expiry:   expirySvc,
		Gatherer: reg,
		Clock:    func() time.Time { return fixedNow },
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func data[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

const staleBread = `{"food_name":"Bread","quantity":10,"expiry":"2024-01-01","provider_id":1,"location":"Springfield","food_type":"Vegetarian","meal_type":"Breakfast"}`

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, false)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/ready", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestListingLifecycle(t *testing.T) {
	h := newTestRouter(t, false)

	rec := do(t, h, http.MethodPost, "/api/v1/listings", staleBread)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := data[listings.ListingDTO](t, rec)
	assert.Equal(t, "Available", created.Status)
	assert.Equal(t, "Restaurant", created.ProviderType)

	path := "/api/v1/listings/" + jsonInt(created.FoodID)
	rec = do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bread", data[listings.ListingDTO](t, rec).FoodName)

	updated := strings.Replace(staleBread, `"quantity":10`, `"quantity":4`, 1)
	rec = do(t, h, http.MethodPut, path, updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, data[listings.ListingDTO](t, rec).Quantity)

	rec = do(t, h, http.MethodGet, "/api/v1/listings?status=Available", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data[[]listings.ListingDTO](t, rec), 1)

	rec = do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := data[map[string]any](t, rec)
	assert.Equal(t, true, body["deleted"])
	assert.Equal(t, true, body["existed"])
	assert.Empty(t, body["warning"])

	rec = do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = data[map[string]any](t, rec)
	assert.Equal(t, true, body["deleted"])
	assert.Equal(t, false, body["existed"])
	assert.NotEmpty(t, body["warning"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, path, "").Code)
}

func TestCreateListingUnknownProvider(t *testing.T) {
	h := newTestRouter(t, false)

	body := strings.Replace(staleBread, `"provider_id":1`, `"provider_id":42`, 1)
	rec := do(t, h, http.MethodPost, "/api/v1/listings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/listings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, data[[]listings.ListingDTO](t, rec))
}

func TestReportsRefreshExpiryOnRead(t *testing.T) {
	h := newTestRouter(t, true)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/listings", staleBread).Code)

	rec := do(t, h, http.MethodGet, "/api/v1/reports/expired_food", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := data[[]reports.ExpiredFoodRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bread", rows[0].FoodName)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := data[reports.Summary](t, rec)
	assert.Equal(t, int64(1), summary.ExpiredCount)
	assert.Equal(t, int64(0), summary.AvailableCount)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `listings_expired_total{trigger="api"} 1`)
}

func TestListingReadsRefreshExpiry(t *testing.T) {
	h := newTestRouter(t, true)

	rec := do(t, h, http.MethodPost, "/api/v1/listings", staleBread)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := data[listings.ListingDTO](t, rec)
	assert.Equal(t, "Available", created.Status)

	rec = do(t, h, http.MethodGet, "/api/v1/listings/"+jsonInt(created.FoodID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Expired", data[listings.ListingDTO](t, rec).Status)

	rec = do(t, h, http.MethodGet, "/api/v1/listings?status=Available", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, data[[]listings.ListingDTO](t, rec))
}

func TestReportsWithoutRefreshLeaveStatusAlone(t *testing.T) {
	h := newTestRouter(t, false)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/listings", staleBread).Code)

	rec := do(t, h, http.MethodGet, "/api/v1/reports/expired_food", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, data[[]reports.ExpiredFoodRow](t, rec))

	rec = do(t, h, http.MethodPost, "/api/v1/maintenance/expiry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data[map[string]any](t, rec)["updated"])

	rec = do(t, h, http.MethodPost, "/api/v1/maintenance/expiry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), data[map[string]any](t, rec)["updated"])
}

func TestReportCatalogRoutes(t *testing.T) {
	h := newTestRouter(t, true)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/listings", staleBread).Code)

	rec := do(t, h, http.MethodGet, "/api/v1/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reports.Names(), data[map[string][]string](t, rec)["reports"])

	rec = do(t, h, http.MethodGet, "/api/v1/reports/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	opts := data[reports.FilterOptions](t, rec)
	assert.Equal(t, []string{"All", "Restaurant"}, opts.ProviderTypes)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/filtered_available_food?city=Nowhere", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, data[[]reports.FilteredFoodRow](t, rec))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/reports/not_a_report", "").Code)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
