package models

import (
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

// FoodListing is a unit of donated food. ProviderType is a denormalized copy
// of providers.type kept for the reporting queries.
type FoodListing struct {
	FoodID       int64               `gorm:"column:food_id;primaryKey;autoIncrement"`
	FoodName     string              `gorm:"column:food_name;not null"`
	Quantity     int                 `gorm:"column:quantity;not null"`
	Expiry       types.Date          `gorm:"column:expiry;type:date;not null"`
	ProviderID   int64               `gorm:"column:provider_id;not null"`
	ProviderType string              `gorm:"column:provider_type"`
	Location     string              `gorm:"column:location"`
	FoodType     string              `gorm:"column:food_type"`
	MealType     string              `gorm:"column:meal_type"`
	Status       enums.ListingStatus `gorm:"column:status;not null;default:Available"`
	Provider     *Provider           `gorm:"foreignKey:ProviderID;references:ProviderID"`
}

func (FoodListing) TableName() string { return "food_listings" }
