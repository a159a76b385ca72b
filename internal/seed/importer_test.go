package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/foodwaste-backend/pkg/db/dbtest"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const providersCSV = `Provider_ID,Name,Type,Address,City,Contact
1,Gonzales-Cochran,Supermarket,"74347 Christopher Extensions, Andreamouth",New Jessica,+1-600-220-0480
2,"Nielsen, Johnson and Fuller",Grocery Store,"91228 Hanson Stream, Welchtown",East Sheena,+1-925-283-8901
`

const receiversCSV = `Receiver_ID,Name,Type,City,Contact
1,Donald Gomez,Shelter,Port Carlburgh,(955)922-5295
2,Laurie Ramos,Individual,Lewisberg,761.042.1137
`

const listingsCSV = `Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID,Provider_Type,Location,Food_Type,Meal_Type
1,Bread,43,3/17/2025,1,Supermarket,New Jessica,Vegetarian,Breakfast
2,Soup,22,2025-03-24,2,,East Sheena,Vegan,Dinner
`

const claimsCSV = `Claim_ID,Food_ID,Receiver_ID,Status,Timestamp
1,1,1,Pending,3/5/2025 5:26
2,2,2,Completed,2025-03-11 10:24:00
`

func newImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	imp, err := NewImporter(logger.New(logger.Options{ServiceName: "seed-test"}), client)
	require.NoError(t, err)
	return imp, client.DB()
}

func fullSources() Sources {
	return Sources{
		Providers: strings.NewReader(providersCSV),
		Receivers: strings.NewReader(receiversCSV),
		Listings:  strings.NewReader(listingsCSV),
		Claims:    strings.NewReader(claimsCSV),
	}
}

func TestImportLoadsAllTables(t *testing.T) {
	imp, conn := newImporter(t)

	res, err := imp.Import(context.Background(), fullSources())
	require.NoError(t, err)
	assert.Equal(t, &Result{Providers: 2, Receivers: 2, Listings: 2, Claims: 2}, res)

	var provider models.Provider
	require.NoError(t, conn.First(&provider, "provider_id = ?", 2).Error)
	assert.Equal(t, "Nielsen, Johnson and Fuller", provider.Name)
	assert.Equal(t, "East Sheena", provider.Location, "city column feeds location")

	var listings []models.FoodListing
	require.NoError(t, conn.Order("food_id").Find(&listings).Error)
	require.Len(t, listings, 2)
	assert.Equal(t, "2025-03-17", listings[0].Expiry.String())
	assert.Equal(t, enums.ListingStatusAvailable, listings[0].Status)
	assert.Equal(t, "Grocery Store", listings[1].ProviderType, "missing provider_type falls back to the provider's type")

	var claim models.Claim
	require.NoError(t, conn.First(&claim, "claim_id = ?", 1).Error)
	assert.True(t, claim.ClaimTime.Equal(time.Date(2025, 3, 5, 5, 26, 0, 0, time.UTC)), "got %s", claim.ClaimTime)
}

func TestImportIsAnUpsert(t *testing.T) {
	imp, conn := newImporter(t)
	ctx := context.Background()
	_, err := imp.Import(ctx, fullSources())
	require.NoError(t, err)

	_, err = imp.Import(ctx, Sources{Listings: strings.NewReader(`Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID,Location,Food_Type,Meal_Type,Status
1,Sourdough,40,2025-03-18,1,New Jessica,Vegetarian,Breakfast,Claimed
`)})
	require.NoError(t, err)

	var listing models.FoodListing
	require.NoError(t, conn.First(&listing, "food_id = ?", 1).Error)
	assert.Equal(t, "Sourdough", listing.FoodName)
	assert.Equal(t, enums.ListingStatusClaimed, listing.Status)

	var count int64
	require.NoError(t, conn.Model(&models.FoodListing{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestImportCollectsEveryBadRowAndWritesNothing(t *testing.T) {
	imp, conn := newImporter(t)

	_, err := imp.Import(context.Background(), Sources{
		Providers: strings.NewReader(providersCSV),
		Listings: strings.NewReader(`Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID
1,Bread,0,2025-03-17,1
x,Soup,3,2025-03-17,1
3,Rice,3,not-a-date,1
4,Milk,3,2025-03-17,1
`),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	msg := err.Error()
	assert.Contains(t, msg, "line 2: quantity")
	assert.Contains(t, msg, "line 3: food_id")
	assert.Contains(t, msg, "line 4: expiry")

	var count int64
	require.NoError(t, conn.Model(&models.Provider{}).Count(&count).Error)
	assert.Zero(t, count, "valid rows from the same import are not committed")
}

func TestImportRollsBackOnForeignKeyViolation(t *testing.T) {
	imp, conn := newImporter(t)

	_, err := imp.Import(context.Background(), Sources{
		Providers: strings.NewReader(providersCSV),
		Listings: strings.NewReader(`Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID
1,Bread,5,2025-03-17,99
`),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	var count int64
	require.NoError(t, conn.Model(&models.Provider{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewImporterRequiresDependencies(t *testing.T) {
	_, err := NewImporter(nil, nil)
	assert.Error(t, err)
}
