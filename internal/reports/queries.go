package reports

import "fmt"

// Catalog names, in dashboard order.
const (
	NameAvailableFood          = "available_food"
	NameClaimedFood            = "claimed_food"
	NameExpiredFood            = "expired_food"
	NameAvailableByCity        = "available_by_city"
	NameAvailableByProvType    = "available_by_provider_type"
	NameNearExpiry             = "near_expiry"
	NameTopProviders           = "top_providers"
	NameTopReceivers           = "top_receivers"
	NameWastageByLocationType  = "wastage_by_location_type"
	NameClaimedVsExpired       = "claimed_vs_expired"
	NameMonthlyDonations       = "monthly_donations"
	NameMonthlyClaims          = "monthly_claims"
	NameFilteredAvailableFood  = "filtered_available_food"
	NameProviderContactsForAvl = "provider_contacts_for_available"
	NameDashboardSummary       = "dashboard_summary"
)

var catalog = []string{
	NameAvailableFood,
	NameClaimedFood,
	NameExpiredFood,
	NameAvailableByCity,
	NameAvailableByProvType,
	NameNearExpiry,
	NameTopProviders,
	NameTopReceivers,
	NameWastageByLocationType,
	NameClaimedVsExpired,
	NameMonthlyDonations,
	NameMonthlyClaims,
	NameFilteredAvailableFood,
	NameProviderContactsForAvl,
	NameDashboardSummary,
}

// Names returns the catalog in dashboard order.
func Names() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

const topLimit = 5

const availableFoodQuery = `
SELECT f.food_id, f.food_name, f.quantity, f.expiry, f.location,
       f.food_type, f.meal_type, p.name AS provider_name, p.contact
FROM food_listings f
JOIN providers p ON f.provider_id = p.provider_id
WHERE f.status = 'Available'
ORDER BY f.expiry ASC, f.food_id ASC
`

const claimedFoodQuery = `
SELECT f.food_id, f.food_name, f.quantity, f.location, f.food_type,
       r.name AS receiver_name, r.contact, c.claim_time
FROM claims c
JOIN food_listings f ON c.food_id = f.food_id
JOIN receivers r ON c.receiver_id = r.receiver_id
ORDER BY c.claim_time DESC, c.claim_id DESC
`

const expiredFoodQuery = `
SELECT food_id, food_name, quantity, expiry, location, food_type, meal_type
FROM food_listings
WHERE status = 'Expired'
ORDER BY expiry DESC, food_id ASC
`

const availableByCityQuery = `
SELECT location, COUNT(*) AS total_items, SUM(quantity) AS total_quantity
FROM food_listings
WHERE status = 'Available'
GROUP BY location
ORDER BY total_quantity DESC, location ASC
`

const availableByProviderTypeQuery = `
SELECT provider_type, COUNT(*) AS total_items, SUM(quantity) AS total_quantity
FROM food_listings
WHERE status = 'Available'
GROUP BY provider_type
ORDER BY total_quantity DESC, provider_type ASC
`

// near expiry: today <= expiry <= today + 1 day
const nearExpiryQuery = `
SELECT food_id, food_name, quantity, expiry, location, provider_id
FROM food_listings
WHERE status = 'Available'
  AND expiry >= ?
  AND expiry <= ?
ORDER BY expiry ASC, food_id ASC
`

const topProvidersQuery = `
SELECT p.name AS provider_name, SUM(f.quantity) AS total_quantity
FROM food_listings f
JOIN providers p ON f.provider_id = p.provider_id
GROUP BY p.name
ORDER BY total_quantity DESC, provider_name ASC
LIMIT ?
`

const topReceiversQuery = `
SELECT r.name AS receiver_name, SUM(f.quantity) AS total_claimed
FROM claims c
JOIN food_listings f ON c.food_id = f.food_id
JOIN receivers r ON c.receiver_id = r.receiver_id
GROUP BY r.name
ORDER BY total_claimed DESC, receiver_name ASC
LIMIT ?
`

const wastageByLocationTypeQuery = `
SELECT location, food_type, COUNT(*) AS total_items, SUM(quantity) AS total_quantity
FROM food_listings
WHERE status = 'Expired'
GROUP BY location, food_type
ORDER BY total_quantity DESC, location ASC, food_type ASC
`

const claimedVsExpiredQuery = `
SELECT status, COUNT(*) AS total_items, SUM(quantity) AS total_quantity
FROM food_listings
WHERE status IN ('Claimed', 'Expired')
GROUP BY status
ORDER BY status ASC
`

const monthlyDonationsQueryTmpl = `
SELECT %s AS month,
       COUNT(*) AS items_listed,
       SUM(quantity) AS quantity_listed
FROM food_listings
GROUP BY month
ORDER BY month ASC
`

const monthlyClaimsQueryTmpl = `
SELECT %s AS month,
       COUNT(*) AS items_claimed,
       SUM(f.quantity) AS quantity_claimed
FROM claims c
JOIN food_listings f ON c.food_id = f.food_id
GROUP BY month
ORDER BY month ASC
`

const filteredAvailableFoodQuery = `
SELECT f.food_id, f.food_name, f.quantity, f.expiry, f.location,
       f.food_type, f.meal_type, p.name AS provider_name, p.contact
FROM food_listings f
JOIN providers p ON f.provider_id = p.provider_id
WHERE f.status = 'Available'
  AND (? = 'All' OR f.location = ?)
  AND (? = 'All' OR f.food_type = ?)
  AND (? = 'All' OR f.meal_type = ?)
  AND (? = 'All' OR f.provider_type = ?)
ORDER BY f.expiry ASC, f.food_id ASC
`

const providerContactsQuery = `
SELECT DISTINCT p.name AS provider_name, p.contact, f.location, f.food_type
FROM food_listings f
JOIN providers p ON f.provider_id = p.provider_id
WHERE f.status = 'Available'
ORDER BY provider_name ASC, f.location ASC, f.food_type ASC
`

const dashboardSummaryQuery = `
SELECT
  (SELECT COUNT(*) FROM food_listings WHERE status = 'Available') AS available_count,
  (SELECT COALESCE(SUM(quantity), 0) FROM food_listings WHERE status = 'Available') AS available_quantity,
  (SELECT COUNT(*) FROM food_listings WHERE status = 'Expired') AS expired_count,
  (SELECT COALESCE(SUM(quantity), 0) FROM food_listings WHERE status = 'Expired') AS expired_quantity,
  (SELECT COUNT(*) FROM food_listings WHERE status = 'Claimed') AS claimed_count,
  (SELECT COALESCE(SUM(quantity), 0) FROM food_listings WHERE status = 'Claimed') AS claimed_quantity
`

const distinctValuesQueryTmpl = `SELECT DISTINCT %s FROM food_listings ORDER BY %s ASC`

// filter columns are fixed identifiers, never caller input
var filterColumns = []string{"location", "food_type", "meal_type", "provider_type"}

// monthBucket returns the YYYY-MM expression for column on the given dialect.
func monthBucket(dialect, column string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
}
