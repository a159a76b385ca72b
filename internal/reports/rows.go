package reports

import (
	"time"

	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

// Filter narrows filtered_available_food. Empty or "All" disables a dimension.
type Filter struct {
	City         string
	FoodType     string
	MealType     string
	ProviderType string
}

// AllValue is the sentinel that disables a filter dimension.
const AllValue = "All"

type AvailableFoodRow struct {
	FoodID       int64      `json:"food_id"`
	FoodName     string     `json:"food_name"`
	Quantity     int64      `json:"quantity"`
	Expiry       types.Date `json:"expiry"`
	Location     string     `json:"location"`
	FoodType     string     `json:"food_type"`
	MealType     string     `json:"meal_type"`
	ProviderName string     `json:"provider_name"`
	Contact      string     `json:"contact"`
}

type ClaimedFoodRow struct {
	FoodID       int64     `json:"food_id"`
	FoodName     string    `json:"food_name"`
	Quantity     int64     `json:"quantity"`
	Location     string    `json:"location"`
	FoodType     string    `json:"food_type"`
	ReceiverName string    `json:"receiver_name"`
	Contact      string    `json:"contact"`
	ClaimTime    time.Time `json:"claim_time"`
}

type ExpiredFoodRow struct {
	FoodID   int64      `json:"food_id"`
	FoodName string     `json:"food_name"`
	Quantity int64      `json:"quantity"`
	Expiry   types.Date `json:"expiry"`
	Location string     `json:"location"`
	FoodType string     `json:"food_type"`
	MealType string     `json:"meal_type"`
}

type CityTotalRow struct {
	Location      string `json:"location"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
}

type ProviderTypeTotalRow struct {
	ProviderType  string `json:"provider_type"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
}

type NearExpiryRow struct {
	FoodID     int64      `json:"food_id"`
	FoodName   string     `json:"food_name"`
	Quantity   int64      `json:"quantity"`
	Expiry     types.Date `json:"expiry"`
	Location   string     `json:"location"`
	ProviderID int64      `json:"provider_id"`
}

type TopProviderRow struct {
	ProviderName  string `json:"provider_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type TopReceiverRow struct {
	ReceiverName string `json:"receiver_name"`
	TotalClaimed int64  `json:"total_claimed"`
}

type WastageRow struct {
	Location      string `json:"location"`
	FoodType      string `json:"food_type"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
}

type StatusTotalRow struct {
	Status        string `json:"status"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
}

type MonthlyDonationRow struct {
	Month          string `json:"month"`
	ItemsListed    int64  `json:"items_listed"`
	QuantityListed int64  `json:"quantity_listed"`
}

type MonthlyClaimRow struct {
	Month           string `json:"month"`
	ItemsClaimed    int64  `json:"items_claimed"`
	QuantityClaimed int64  `json:"quantity_claimed"`
}

// FilteredFoodRow has the same columns as available_food; provider_type is
// only a filter.
type FilteredFoodRow = AvailableFoodRow

type ProviderContactRow struct {
	ProviderName string `json:"provider_name"`
	Contact      string `json:"contact"`
	Location     string `json:"location"`
	FoodType     string `json:"food_type"`
}

// Summary holds the dashboard scalars. Quantities are 0 when no rows match.
type Summary struct {
	AvailableCount    int64 `json:"available_count"`
	AvailableQuantity int64 `json:"available_quantity"`
	ExpiredCount      int64 `json:"expired_count"`
	ExpiredQuantity   int64 `json:"expired_quantity"`
	ClaimedCount      int64 `json:"claimed_count"`
	ClaimedQuantity   int64 `json:"claimed_quantity"`
}

// FilterOptions lists the sidebar choices, each led by "All".
type FilterOptions struct {
	Locations     []string `json:"locations"`
	FoodTypes     []string `json:"food_types"`
	MealTypes     []string `json:"meal_types"`
	ProviderTypes []string `json:"provider_types"`
}
