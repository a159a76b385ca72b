package listings

import (
	"context"

	"github.com/angelmondragon/foodwaste-backend/internal/repo"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists food listings.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID loads a listing. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.FoodListing, error) {
	var listing models.FoodListing
	if err := r.DB(ctx).Where("food_id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindProvider loads the provider a listing points at.
func (r *Repository) FindProvider(ctx context.Context, id int64) (*models.Provider, error) {
	var provider models.Provider
	if err := r.DB(ctx).Where("provider_id = ?", id).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// Create inserts the listing; the store assigns FoodID.
func (r *Repository) Create(ctx context.Context, listing *models.FoodListing) (*models.FoodListing, error) {
	if err := r.DB(ctx).Omit("Provider").Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Replace overwrites every writable column of the listing identified by FoodID.
func (r *Repository) Replace(ctx context.Context, listing *models.FoodListing) (int64, error) {
	res := r.DB(ctx).
		Model(&models.FoodListing{}).
		Where("food_id = ?", listing.FoodID).
		Updates(map[string]any{
			"food_name":     listing.FoodName,
			"quantity":      listing.Quantity,
			"expiry":        listing.Expiry,
			"provider_id":   listing.ProviderID,
			"provider_type": listing.ProviderType,
			"location":      listing.Location,
			"food_type":     listing.FoodType,
			"meal_type":     listing.MealType,
			"status":        listing.Status,
		})
	return res.RowsAffected, res.Error
}

// Delete removes the listing and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.DB(ctx).Where("food_id = ?", id).Delete(&models.FoodListing{})
	return res.RowsAffected, res.Error
}

// List returns listings ordered by id, optionally restricted to one status.
func (r *Repository) List(ctx context.Context, status *enums.ListingStatus) ([]models.FoodListing, error) {
	query := r.DB(ctx).Model(&models.FoodListing{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.FoodListing
	if err := query.Order("food_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
