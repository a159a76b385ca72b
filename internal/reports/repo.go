package reports

import (
	"context"
	"fmt"

	"github.com/angelmondragon/foodwaste-backend/internal/repo"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository runs the read-only catalog queries.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to a GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func scan[T any](ctx context.Context, r *Repository, query string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := r.DB(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) AvailableFood(ctx context.Context) ([]AvailableFoodRow, error) {
	return scan[AvailableFoodRow](ctx, r, availableFoodQuery)
}

func (r *Repository) ClaimedFood(ctx context.Context) ([]ClaimedFoodRow, error) {
	return scan[ClaimedFoodRow](ctx, r, claimedFoodQuery)
}

func (r *Repository) ExpiredFood(ctx context.Context) ([]ExpiredFoodRow, error) {
	return scan[ExpiredFoodRow](ctx, r, expiredFoodQuery)
}

func (r *Repository) AvailableByCity(ctx context.Context) ([]CityTotalRow, error) {
	return scan[CityTotalRow](ctx, r, availableByCityQuery)
}

func (r *Repository) AvailableByProviderType(ctx context.Context) ([]ProviderTypeTotalRow, error) {
	return scan[ProviderTypeTotalRow](ctx, r, availableByProviderTypeQuery)
}

// NearExpiry returns Available listings expiring today or tomorrow.
func (r *Repository) NearExpiry(ctx context.Context, today types.Date) ([]NearExpiryRow, error) {
	return scan[NearExpiryRow](ctx, r, nearExpiryQuery, today, today.AddDays(1))
}

func (r *Repository) TopProviders(ctx context.Context) ([]TopProviderRow, error) {
	return scan[TopProviderRow](ctx, r, topProvidersQuery, topLimit)
}

func (r *Repository) TopReceivers(ctx context.Context) ([]TopReceiverRow, error) {
	return scan[TopReceiverRow](ctx, r, topReceiversQuery, topLimit)
}

func (r *Repository) WastageByLocationType(ctx context.Context) ([]WastageRow, error) {
	return scan[WastageRow](ctx, r, wastageByLocationTypeQuery)
}

func (r *Repository) ClaimedVsExpired(ctx context.Context) ([]StatusTotalRow, error) {
	return scan[StatusTotalRow](ctx, r, claimedVsExpiredQuery)
}

func (r *Repository) MonthlyDonations(ctx context.Context) ([]MonthlyDonationRow, error) {
	query := fmt.Sprintf(monthlyDonationsQueryTmpl, monthBucket(r.Dialect(), "expiry"))
	return scan[MonthlyDonationRow](ctx, r, query)
}

func (r *Repository) MonthlyClaims(ctx context.Context) ([]MonthlyClaimRow, error) {
	query := fmt.Sprintf(monthlyClaimsQueryTmpl, monthBucket(r.Dialect(), "c.claim_time"))
	return scan[MonthlyClaimRow](ctx, r, query)
}

// FilteredAvailableFood binds each filter value twice: once for the "All"
// test and once for the equality match.
func (r *Repository) FilteredAvailableFood(ctx context.Context, f Filter) ([]FilteredFoodRow, error) {
	return scan[FilteredFoodRow](ctx, r, filteredAvailableFoodQuery,
		f.City, f.City,
		f.FoodType, f.FoodType,
		f.MealType, f.MealType,
		f.ProviderType, f.ProviderType,
	)
}

func (r *Repository) ProviderContacts(ctx context.Context) ([]ProviderContactRow, error) {
	return scan[ProviderContactRow](ctx, r, providerContactsQuery)
}

func (r *Repository) DashboardSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := r.DB(ctx).Raw(dashboardSummaryQuery).Scan(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

// DistinctValues returns the distinct non-empty values of each filter column.
func (r *Repository) DistinctValues(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(filterColumns))
	for _, column := range filterColumns {
		var values []string
		query := fmt.Sprintf(distinctValuesQueryTmpl, column, column)
		if err := r.DB(ctx).Raw(query).Scan(&values).Error; err != nil {
			return nil, fmt.Errorf("distinct %s: %w", column, err)
		}
		clean := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				clean = append(clean, v)
			}
		}
		out[column] = clean
	}
	return out, nil
}
