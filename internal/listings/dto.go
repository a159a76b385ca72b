package listings

import (
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

// ListingInput carries every writable column of a listing. Create and Update
// both replace the full row with these values.
type ListingInput struct {
	FoodName     string
	Quantity     int
	Expiry       types.Date
	ProviderID   int64
	ProviderType string
	Location     string
	FoodType     string
	MealType     string
	// Status must be Available (or empty) on create. On update an empty
	// value keeps the stored status.
	Status enums.ListingStatus
}

// ListingDTO is the listing payload returned to clients.
type ListingDTO struct {
	FoodID       int64      `json:"food_id"`
	FoodName     string     `json:"food_name"`
	Quantity     int        `json:"quantity"`
	Expiry       types.Date `json:"expiry"`
	ProviderID   int64      `json:"provider_id"`
	ProviderType string     `json:"provider_type"`
	Location     string     `json:"location"`
	FoodType     string     `json:"food_type"`
	MealType     string     `json:"meal_type"`
	Status       string     `json:"status"`
}

// DeleteResult is the outcome of a delete. Deleted is true once the id is
// gone; Existed is false when there was no row to remove.
type DeleteResult struct {
	FoodID  int64 `json:"food_id"`
	Deleted bool  `json:"deleted"`
	Existed bool  `json:"existed"`
}

func toDTO(m *models.FoodListing) *ListingDTO {
	return &ListingDTO{
		FoodID:       m.FoodID,
		FoodName:     m.FoodName,
		Quantity:     m.Quantity,
		Expiry:       m.Expiry,
		ProviderID:   m.ProviderID,
		ProviderType: m.ProviderType,
		Location:     m.Location,
		FoodType:     m.FoodType,
		MealType:     m.MealType,
		Status:       m.Status.String(),
	}
}
