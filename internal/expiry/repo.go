package expiry

import (
	"context"

	"github.com/angelmondragon/foodwaste-backend/internal/repo"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository persists the expiry transition.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to a GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ExpireBefore flips every Available listing whose expiry is strictly before
// cutoff to Expired and returns the number of rows changed.
func (r *Repository) ExpireBefore(ctx context.Context, cutoff types.Date) (int64, error) {
	res := r.DB(ctx).
		Model(&models.FoodListing{}).
		Where("status = ? AND expiry < ?", enums.ListingStatusAvailable, cutoff).
		Update("status", enums.ListingStatusExpired)
	return res.RowsAffected, res.Error
}
