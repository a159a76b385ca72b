package reports

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/foodwaste-backend/internal/expiry"
	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/dbtest"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) types.Date {
	t.Helper()
	d, err := types.ParseDate(value)
	require.NoError(t, err)
	return d
}

func newService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:     logger.New(logger.Options{ServiceName: "reports-test"}),
		Repository: NewRepository(client.DB()),
		Clock:      func() time.Time { return time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func listing(t *testing.T, id int64, name string, qty int, exp string, provider int64, ptype, city, food, meal string, status enums.ListingStatus) *models.FoodListing {
	return &models.FoodListing{
		FoodID: id, FoodName: name, Quantity: qty, Expiry: day(t, exp), ProviderID: provider,
		ProviderType: ptype, Location: city, FoodType: food, MealType: meal, Status: status,
	}
}

// seedDashboard loads six providers, two receivers, eight listings and three claims.
func seedDashboard(t *testing.T, client *db.Client) {
	t.Helper()
	avail, expired, claimed := enums.ListingStatusAvailable, enums.ListingStatusExpired, enums.ListingStatusClaimed
	dbtest.Create(t, client.DB(),
		&models.Provider{ProviderID: 1, Name: "Alpha Diner", Type: "Restaurant", Location: "City A", Contact: "a@example.com"},
		&models.Provider{ProviderID: 2, Name: "Bravo Mart", Type: "Grocery Store", Location: "City B", Contact: "b@example.com"},
		&models.Provider{ProviderID: 3, Name: "Charlie Market", Type: "Supermarket", Location: "City A", Contact: "c@example.com"},
		&models.Provider{ProviderID: 4, Name: "Delta Bistro", Type: "Restaurant", Location: "City B", Contact: "d@example.com"},
		&models.Provider{ProviderID: 5, Name: "Echo Catering", Type: "Catering Service", Location: "City A", Contact: "e@example.com"},
		&models.Provider{ProviderID: 6, Name: "Foxtrot Grocers", Type: "Grocery Store", Location: "City C", Contact: "f@example.com"},
		&models.Receiver{ReceiverID: 1, Name: "Hope Shelter", Location: "City A", Contact: "h@example.com"},
		&models.Receiver{ReceiverID: 2, Name: "Kind Kitchen", Location: "City C", Contact: "k@example.com"},
		listing(t, 1, "Rice", 10, "2025-03-10", 1, "Restaurant", "City A", "Vegetarian", "Lunch", avail),
		listing(t, 2, "Rice", 5, "2025-03-05", 2, "Grocery Store", "City B", "Vegetarian", "Dinner", avail),
		listing(t, 3, "Bread", 8, "2025-03-06", 3, "Supermarket", "City A", "Vegan", "Breakfast", avail),
		listing(t, 4, "Soup", 3, "2025-02-20", 4, "Restaurant", "City B", "Non-Vegetarian", "Dinner", expired),
		listing(t, 5, "Fish", 7, "2025-02-15", 5, "Catering Service", "City A", "Non-Vegetarian", "Lunch", expired),
		listing(t, 6, "Milk", 20, "2025-03-01", 6, "Grocery Store", "City C", "Vegan", "Breakfast", claimed),
		listing(t, 7, "Fruit", 4, "2025-02-28", 1, "Restaurant", "City C", "Vegan", "Snacks", claimed),
		listing(t, 8, "Pasta", 2, "2025-03-04", 2, "Grocery Store", "City A", "Vegetarian", "Dinner", claimed),
		&models.Claim{ClaimID: 1, FoodID: 6, ReceiverID: 1, ClaimTime: time.Date(2025, 2, 27, 10, 0, 0, 0, time.UTC)},
		&models.Claim{ClaimID: 2, FoodID: 7, ReceiverID: 2, ClaimTime: time.Date(2025, 2, 26, 9, 0, 0, 0, time.UTC)},
		&models.Claim{ClaimID: 3, FoodID: 8, ReceiverID: 1, ClaimTime: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)},
	)
}

func foodIDs[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func TestListingReports(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)
	ctx := context.Background()

	available, err := svc.AvailableFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, foodIDs(available, func(r AvailableFoodRow) int64 { return r.FoodID }))
	assert.Equal(t, "Bravo Mart", available[0].ProviderName)
	assert.Equal(t, "b@example.com", available[0].Contact)
	assert.Equal(t, "2025-03-05", available[0].Expiry.String())

	expired, err := svc.ExpiredFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, foodIDs(expired, func(r ExpiredFoodRow) int64 { return r.FoodID }))

	claimed, err := svc.ClaimedFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 6, 7}, foodIDs(claimed, func(r ClaimedFoodRow) int64 { return r.FoodID }))
	assert.Equal(t, "Hope Shelter", claimed[0].ReceiverName)
	assert.True(t, claimed[0].ClaimTime.Equal(time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)), "got %s", claimed[0].ClaimTime)

	near, err := svc.NearExpiry(ctx, day(t, "2025-03-05"))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, foodIDs(near, func(r NearExpiryRow) int64 { return r.FoodID }))
	assert.EqualValues(t, 2, near[0].ProviderID)

	_, err = svc.NearExpiry(ctx, types.Date{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAggregateReports(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)
	ctx := context.Background()

	byCity, err := svc.AvailableByCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CityTotalRow{
		{Location: "City A", TotalItems: 2, TotalQuantity: 18},
		{Location: "City B", TotalItems: 1, TotalQuantity: 5},
	}, byCity)

	byType, err := svc.AvailableByProviderType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ProviderTypeTotalRow{
		{ProviderType: "Restaurant", TotalItems: 1, TotalQuantity: 10},
		{ProviderType: "Supermarket", TotalItems: 1, TotalQuantity: 8},
		{ProviderType: "Grocery Store", TotalItems: 1, TotalQuantity: 5},
	}, byType)

	wastage, err := svc.WastageByLocationType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []WastageRow{
		{Location: "City A", FoodType: "Non-Vegetarian", TotalItems: 1, TotalQuantity: 7},
		{Location: "City B", FoodType: "Non-Vegetarian", TotalItems: 1, TotalQuantity: 3},
	}, wastage)

	split, err := svc.ClaimedVsExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, []StatusTotalRow{
		{Status: "Claimed", TotalItems: 3, TotalQuantity: 26},
		{Status: "Expired", TotalItems: 2, TotalQuantity: 10},
	}, split)

	donations, err := svc.MonthlyDonations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyDonationRow{
		{Month: "2025-02", ItemsListed: 3, QuantityListed: 14},
		{Month: "2025-03", ItemsListed: 5, QuantityListed: 45},
	}, donations)

	claims, err := svc.MonthlyClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyClaimRow{
		{Month: "2025-02", ItemsClaimed: 2, QuantityClaimed: 24},
		{Month: "2025-03", ItemsClaimed: 1, QuantityClaimed: 2},
	}, claims)

	contacts, err := svc.ProviderContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ProviderContactRow{
		{ProviderName: "Alpha Diner", Contact: "a@example.com", Location: "City A", FoodType: "Vegetarian"},
		{ProviderName: "Bravo Mart", Contact: "b@example.com", Location: "City B", FoodType: "Vegetarian"},
		{ProviderName: "Charlie Market", Contact: "c@example.com", Location: "City A", FoodType: "Vegan"},
	}, contacts)
}

func TestTopRankingsAreLimitedAndSorted(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)
	ctx := context.Background()

	providers, err := svc.TopProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TopProviderRow{
		{ProviderName: "Foxtrot Grocers", TotalQuantity: 20},
		{ProviderName: "Alpha Diner", TotalQuantity: 14},
		{ProviderName: "Charlie Market", TotalQuantity: 8},
		{ProviderName: "Bravo Mart", TotalQuantity: 7},
		{ProviderName: "Echo Catering", TotalQuantity: 7},
	}, providers)

	receivers, err := svc.TopReceivers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TopReceiverRow{
		{ReceiverName: "Hope Shelter", TotalClaimed: 22},
		{ReceiverName: "Kind Kitchen", TotalClaimed: 4},
	}, receivers)
}

func TestFilteredAvailableFood(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)
	ctx := context.Background()
	ids := func(rows []FilteredFoodRow) []int64 {
		return foodIDs(rows, func(r FilteredFoodRow) int64 { return r.FoodID })
	}

	dbtest.Create(t, client.DB(),
		listing(t, 9, "Fried Rice", 6, "2025-03-08", 1, "Restaurant", "City B", "Rice", "Lunch", enums.ListingStatusAvailable),
		listing(t, 10, "Rice Pudding", 2, "2025-03-07", 3, "Supermarket", "City A", "Rice", "Snacks", enums.ListingStatusAvailable),
		listing(t, 11, "Old Rice", 9, "2025-02-01", 2, "Grocery Store", "City A", "Rice", "Dinner", enums.ListingStatusExpired),
	)
	rice, err := svc.FilteredAvailableFood(ctx, Filter{City: "All", FoodType: "Rice", MealType: "All", ProviderType: "All"})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 9}, ids(rice), "only Available Rice rows, expiry ascending")
	for _, row := range rice {
		assert.Equal(t, "Rice", row.FoodType)
	}

	vegetarian, err := svc.FilteredAvailableFood(ctx, Filter{FoodType: "Vegetarian"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(vegetarian))

	narrowed, err := svc.FilteredAvailableFood(ctx, Filter{City: "City A", FoodType: "Vegetarian", MealType: "All"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(narrowed))

	lowercase, err := svc.FilteredAvailableFood(ctx, Filter{City: "City A", FoodType: "Vegetarian", MealType: "all"})
	require.NoError(t, err)
	assert.Empty(t, lowercase, "only the exact All sentinel disables a criterion")

	byProviderType, err := svc.FilteredAvailableFood(ctx, Filter{ProviderType: "Supermarket"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 10}, ids(byProviderType))

	everything, err := svc.FilteredAvailableFood(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 10, 9, 1}, ids(everything))

	injected, err := svc.FilteredAvailableFood(ctx, Filter{City: "City A' OR '1'='1"})
	require.NoError(t, err)
	assert.Empty(t, injected)
}

type statusTotals struct {
	Items int64
	Total int64
}

func TestDashboardSummaryMatchesStatusCounts(t *testing.T) {
	client := dbtest.Open(t)
	svc := newService(t, client)
	ctx := context.Background()

	empty, err := svc.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, empty, "sums default to zero on an empty store")

	seedDashboard(t, client)
	summary, err := svc.DashboardSummary(ctx)
	require.NoError(t, err)

	for status, counts := range map[enums.ListingStatus][2]int64{
		enums.ListingStatusAvailable: {summary.AvailableCount, summary.AvailableQuantity},
		enums.ListingStatusExpired:   {summary.ExpiredCount, summary.ExpiredQuantity},
		enums.ListingStatusClaimed:   {summary.ClaimedCount, summary.ClaimedQuantity},
	} {
		var row statusTotals
		require.NoError(t, client.DB().Raw(`SELECT COUNT(*) AS items, COALESCE(SUM(quantity), 0) AS total FROM food_listings WHERE status = ?`, status).Scan(&row).Error)
		assert.Equal(t, row.Items, counts[0], "%s count", status)
		assert.Equal(t, row.Total, counts[1], "%s quantity", status)
	}
	assert.Equal(t, &Summary{
		AvailableCount: 3, AvailableQuantity: 23,
		ExpiredCount: 2, ExpiredQuantity: 10,
		ClaimedCount: 3, ClaimedQuantity: 26,
	}, summary)
}

func TestFilterOptionsLeadWithAll(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "City A", "City B", "City C"}, opts.Locations)
	assert.Equal(t, []string{"All", "Non-Vegetarian", "Vegan", "Vegetarian"}, opts.FoodTypes)
	assert.Equal(t, []string{"All", "Breakfast", "Dinner", "Lunch", "Snacks"}, opts.MealTypes)
	assert.Equal(t, []string{"All", "Catering Service", "Grocery Store", "Restaurant", "Supermarket"}, opts.ProviderTypes)
}

func TestRunDispatchesByName(t *testing.T) {
	client := dbtest.Open(t)
	seedDashboard(t, client)
	svc := newService(t, client)
	ctx := context.Background()

	for _, name := range Names() {
		out, err := svc.Run(ctx, name, Filter{})
		require.NoError(t, err, name)
		require.NotNil(t, out, name)
	}

	near, err := svc.Run(ctx, NameNearExpiry, Filter{})
	require.NoError(t, err)
	assert.Len(t, near.([]NearExpiryRow), 2, "run uses the injected clock for today")

	_, err = svc.Run(ctx, "top_donkeys", Filter{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Len(t, Names(), 15)
}

func TestExpiredListingMovesBetweenReports(t *testing.T) {
	client := dbtest.Open(t)
	dbtest.Create(t, client.DB(),
		&models.Provider{ProviderID: 1, Name: "Alpha Diner", Type: "Restaurant"},
		listing(t, 1, "Bread", 10, "2024-01-01", 1, "Restaurant", "City A", "Vegan", "Breakfast", enums.ListingStatusAvailable),
	)
	svc := newService(t, client)
	maintainer, err := expiry.NewService(expiry.ServiceParams{
		Logger:     logger.New(logger.Options{ServiceName: "reports-test"}),
		Repository: expiry.NewRepository(client.DB()),
	})
	require.NoError(t, err)
	ctx := context.Background()

	updated, err := maintainer.Refresh(ctx, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.EqualValues(t, 1, updated)

	expired, err := svc.ExpiredFood(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.EqualValues(t, 1, expired[0].FoodID)

	available, err := svc.AvailableFood(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestNormalizeFilter(t *testing.T) {
	got := NormalizeFilter(Filter{City: " ", FoodType: " Rice ", MealType: "ALL", ProviderType: "All"})
	assert.Equal(t, Filter{City: "All", FoodType: "Rice", MealType: "ALL", ProviderType: "All"}, got)
}
