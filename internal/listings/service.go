package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes create/read/update/delete over food listings.
type Service interface {
	Create(ctx context.Context, input ListingInput) (*ListingDTO, error)
	Get(ctx context.Context, id int64) (*ListingDTO, error)
	Update(ctx context.Context, id int64, input ListingInput) (*ListingDTO, error)
	Delete(ctx context.Context, id int64) (*DeleteResult, error)
	List(ctx context.Context, status *enums.ListingStatus) ([]ListingDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the listings service.
type ServiceParams struct {
	Logger     *logger.Logger
	Repository *Repository
	DB         txRunner
}

type service struct {
	logg *logger.Logger
	repo *Repository
	db   txRunner
}

// NewService constructs a listings service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{logg: params.Logger, repo: params.Repository, db: params.DB}, nil
}

func (s *service) Create(ctx context.Context, input ListingInput) (*ListingDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = enums.ListingStatusAvailable
	}
	if input.Status != enums.ListingStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("new listings must be %s, got %q", enums.ListingStatusAvailable, input.Status)).
			WithDetails(map[string]any{"field": "status"})
	}

	var created *models.FoodListing
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.applyProvider(ctx, txRepo, &input); err != nil {
			return err
		}
		listing := fromInput(input)
		out, err := txRepo.Create(ctx, listing)
		if err != nil {
			return mapWriteError(err, "insert listing")
		}
		created = out
		return nil
	})
	if err != nil {
		return nil, asCoded(err, "create listing")
	}

	s.logg.Info(s.logg.WithFoodID(ctx, created.FoodID), "listing created")
	return toDTO(created), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ListingDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food_id must be positive")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	return toDTO(listing), nil
}

func (s *service) Update(ctx context.Context, id int64, input ListingInput) (*ListingDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food_id must be positive")
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	var updated *models.FoodListing
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		if err := checkTransition(current.Status, &input); err != nil {
			return err
		}
		if err := s.applyProvider(ctx, txRepo, &input); err != nil {
			return err
		}
		listing := fromInput(input)
		listing.FoodID = id
		if _, err := txRepo.Replace(ctx, listing); err != nil {
			return mapWriteError(err, "update listing")
		}
		reloaded, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, asCoded(err, "update listing")
	}

	s.logg.Info(s.logg.WithFoodID(ctx, id), "listing updated")
	return toDTO(updated), nil
}

// Delete removes the listing. Deleting an absent id still reports
// Deleted=true; Existed tells the two cases apart and a warning is logged.
func (s *service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food_id must be positive")
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "listing still has claims")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}

	logCtx := s.logg.WithFoodID(ctx, id)
	if rows == 0 {
		s.logg.Warn(logCtx, "delete requested for missing listing")
		return &DeleteResult{FoodID: id, Deleted: true, Existed: false}, nil
	}
	s.logg.Info(logCtx, "listing deleted")
	return &DeleteResult{FoodID: id, Deleted: true, Existed: true}, nil
}

func (s *service) List(ctx context.Context, status *enums.ListingStatus) ([]ListingDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *status))
	}
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	out := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// applyProvider checks the provider exists and fills ProviderType from it
// when the caller left it empty.
func (s *service) applyProvider(ctx context.Context, repo *Repository, input *ListingInput) error {
	provider, err := repo.FindProvider(ctx, input.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("provider %d does not exist", input.ProviderID)).
				WithDetails(map[string]any{"field": "provider_id"})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	if input.ProviderType == "" {
		input.ProviderType = provider.Type
	}
	return nil
}

func validateInput(input *ListingInput) error {
	input.FoodName = strings.TrimSpace(input.FoodName)
	input.ProviderType = strings.TrimSpace(input.ProviderType)
	input.Location = strings.TrimSpace(input.Location)
	input.FoodType = strings.TrimSpace(input.FoodType)
	input.MealType = strings.TrimSpace(input.MealType)

	invalid := func(field, msg string) error {
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{"field": field})
	}

	if input.FoodName == "" {
		return invalid("food_name", "food_name is required")
	}
	if input.Quantity <= 0 {
		return invalid("quantity", "quantity must be greater than zero")
	}
	if input.Expiry.IsZero() {
		return invalid("expiry", "expiry is required")
	}
	if input.ProviderID <= 0 {
		return invalid("provider_id", "provider_id must be positive")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return invalid("status", fmt.Sprintf("invalid status %q", input.Status))
	}
	return nil
}

// checkTransition fills an empty status with the stored one and rejects
// moves out of Claimed or Expired.
func checkTransition(current enums.ListingStatus, input *ListingInput) error {
	if input.Status == "" {
		input.Status = current
		return nil
	}
	if !current.CanTransitionTo(input.Status) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot change status from %s to %s", current, input.Status)).
			WithDetails(map[string]any{"field": "status", "from": current.String(), "to": input.Status.String()})
	}
	return nil
}

func fromInput(input ListingInput) *models.FoodListing {
	return &models.FoodListing{
		FoodName:     input.FoodName,
		Quantity:     input.Quantity,
		Expiry:       input.Expiry,
		ProviderID:   input.ProviderID,
		ProviderType: input.ProviderType,
		Location:     input.Location,
		FoodType:     input.FoodType,
		MealType:     input.MealType,
		Status:       input.Status,
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
}

func mapWriteError(err error, op string) error {
	switch {
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing violates a column constraint")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing references a missing provider")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
}

// asCoded keeps coded errors from inside a transaction and treats anything
// else (begin/commit failures) as the store being unavailable.
func asCoded(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
