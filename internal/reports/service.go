package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

// Service answers the dashboard's fixed reporting catalog.
type Service interface {
	AvailableFood(ctx context.Context) ([]AvailableFoodRow, error)
	ClaimedFood(ctx context.Context) ([]ClaimedFoodRow, error)
	ExpiredFood(ctx context.Context) ([]ExpiredFoodRow, error)
	AvailableByCity(ctx context.Context) ([]CityTotalRow, error)
	AvailableByProviderType(ctx context.Context) ([]ProviderTypeTotalRow, error)
	NearExpiry(ctx context.Context, today types.Date) ([]NearExpiryRow, error)
	TopProviders(ctx context.Context) ([]TopProviderRow, error)
	TopReceivers(ctx context.Context) ([]TopReceiverRow, error)
	WastageByLocationType(ctx context.Context) ([]WastageRow, error)
	ClaimedVsExpired(ctx context.Context) ([]StatusTotalRow, error)
	MonthlyDonations(ctx context.Context) ([]MonthlyDonationRow, error)
	MonthlyClaims(ctx context.Context) ([]MonthlyClaimRow, error)
	FilteredAvailableFood(ctx context.Context, filter Filter) ([]FilteredFoodRow, error)
	ProviderContacts(ctx context.Context) ([]ProviderContactRow, error)
	DashboardSummary(ctx context.Context) (*Summary, error)

	FilterOptions(ctx context.Context) (*FilterOptions, error)
	// Run executes a catalog query by name. Unknown names are NOT_FOUND.
	Run(ctx context.Context, name string, filter Filter) (any, error)
}

// ServiceParams wires the reporting service.
type ServiceParams struct {
	Logger     *logger.Logger
	Repository *Repository
	// Clock supplies "today" for near_expiry when run by name. Defaults to time.Now.
	Clock func() time.Time
}

type service struct {
	logg *logger.Logger
	repo *Repository
	now  func() time.Time
}

// NewService constructs the reporting service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{logg: params.Logger, repo: params.Repository, now: clock}, nil
}

// NormalizeFilter trims values and maps empty ones to "All". Only the exact
// "All" sentinel disables a criterion; other casings are literal values.
func NormalizeFilter(f Filter) Filter {
	norm := func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return AllValue
		}
		return v
	}
	return Filter{
		City:         norm(f.City),
		FoodType:     norm(f.FoodType),
		MealType:     norm(f.MealType),
		ProviderType: norm(f.ProviderType),
	}
}

func wrapQuery[T any](s *service, ctx context.Context, name string, rows T, err error) (T, error) {
	if err != nil {
		s.logg.Error(s.logg.WithReport(ctx, name), "report query failed", err)
		var zero T
		return zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "report "+name)
	}
	return rows, nil
}

func (s *service) AvailableFood(ctx context.Context) ([]AvailableFoodRow, error) {
	rows, err := s.repo.AvailableFood(ctx)
	return wrapQuery(s, ctx, NameAvailableFood, rows, err)
}

func (s *service) ClaimedFood(ctx context.Context) ([]ClaimedFoodRow, error) {
	rows, err := s.repo.ClaimedFood(ctx)
	return wrapQuery(s, ctx, NameClaimedFood, rows, err)
}

func (s *service) ExpiredFood(ctx context.Context) ([]ExpiredFoodRow, error) {
	rows, err := s.repo.ExpiredFood(ctx)
	return wrapQuery(s, ctx, NameExpiredFood, rows, err)
}

func (s *service) AvailableByCity(ctx context.Context) ([]CityTotalRow, error) {
	rows, err := s.repo.AvailableByCity(ctx)
	return wrapQuery(s, ctx, NameAvailableByCity, rows, err)
}

func (s *service) AvailableByProviderType(ctx context.Context) ([]ProviderTypeTotalRow, error) {
	rows, err := s.repo.AvailableByProviderType(ctx)
	return wrapQuery(s, ctx, NameAvailableByProvType, rows, err)
}

func (s *service) NearExpiry(ctx context.Context, today types.Date) ([]NearExpiryRow, error) {
	if today.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "today is required")
	}
	rows, err := s.repo.NearExpiry(ctx, today)
	return wrapQuery(s, ctx, NameNearExpiry, rows, err)
}

func (s *service) TopProviders(ctx context.Context) ([]TopProviderRow, error) {
	rows, err := s.repo.TopProviders(ctx)
	return wrapQuery(s, ctx, NameTopProviders, rows, err)
}

func (s *service) TopReceivers(ctx context.Context) ([]TopReceiverRow, error) {
	rows, err := s.repo.TopReceivers(ctx)
	return wrapQuery(s, ctx, NameTopReceivers, rows, err)
}

func (s *service) WastageByLocationType(ctx context.Context) ([]WastageRow, error) {
	rows, err := s.repo.WastageByLocationType(ctx)
	return wrapQuery(s, ctx, NameWastageByLocationType, rows, err)
}

func (s *service) ClaimedVsExpired(ctx context.Context) ([]StatusTotalRow, error) {
	rows, err := s.repo.ClaimedVsExpired(ctx)
	return wrapQuery(s, ctx, NameClaimedVsExpired, rows, err)
}

func (s *service) MonthlyDonations(ctx context.Context) ([]MonthlyDonationRow, error) {
	rows, err := s.repo.MonthlyDonations(ctx)
	return wrapQuery(s, ctx, NameMonthlyDonations, rows, err)
}

func (s *service) MonthlyClaims(ctx context.Context) ([]MonthlyClaimRow, error) {
	rows, err := s.repo.MonthlyClaims(ctx)
	return wrapQuery(s, ctx, NameMonthlyClaims, rows, err)
}

func (s *service) FilteredAvailableFood(ctx context.Context, filter Filter) ([]FilteredFoodRow, error) {
	rows, err := s.repo.FilteredAvailableFood(ctx, NormalizeFilter(filter))
	return wrapQuery(s, ctx, NameFilteredAvailableFood, rows, err)
}

func (s *service) ProviderContacts(ctx context.Context) ([]ProviderContactRow, error) {
	rows, err := s.repo.ProviderContacts(ctx)
	return wrapQuery(s, ctx, NameProviderContactsForAvl, rows, err)
}

func (s *service) DashboardSummary(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.DashboardSummary(ctx)
	return wrapQuery(s, ctx, NameDashboardSummary, summary, err)
}

func (s *service) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	values, err := s.repo.DistinctValues(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load filter options")
	}
	withAll := func(column string) []string {
		return append([]string{AllValue}, values[column]...)
	}
	return &FilterOptions{
		Locations:     withAll("location"),
		FoodTypes:     withAll("food_type"),
		MealTypes:     withAll("meal_type"),
		ProviderTypes: withAll("provider_type"),
	}, nil
}

func (s *service) Run(ctx context.Context, name string, filter Filter) (any, error) {
	switch name {
	case NameAvailableFood:
		return s.AvailableFood(ctx)
	case NameClaimedFood:
		return s.ClaimedFood(ctx)
	case NameExpiredFood:
		return s.ExpiredFood(ctx)
	case NameAvailableByCity:
		return s.AvailableByCity(ctx)
	case NameAvailableByProvType:
		return s.AvailableByProviderType(ctx)
	case NameNearExpiry:
		return s.NearExpiry(ctx, types.NewDate(s.now()))
	case NameTopProviders:
		return s.TopProviders(ctx)
	case NameTopReceivers:
		return s.TopReceivers(ctx)
	case NameWastageByLocationType:
		return s.WastageByLocationType(ctx)
	case NameClaimedVsExpired:
		return s.ClaimedVsExpired(ctx)
	case NameMonthlyDonations:
		return s.MonthlyDonations(ctx)
	case NameMonthlyClaims:
		return s.MonthlyClaims(ctx)
	case NameFilteredAvailableFood:
		return s.FilteredAvailableFood(ctx, filter)
	case NameProviderContactsForAvl:
		return s.ProviderContacts(ctx)
	case NameDashboardSummary:
		return s.DashboardSummary(ctx)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown report %q", name)).
			WithDetails(map[string]any{"available": Names()})
	}
}
