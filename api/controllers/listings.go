package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/foodwaste-backend/api/responses"
	"github.com/angelmondragon/foodwaste-backend/api/validators"
	"github.com/angelmondragon/foodwaste-backend/internal/listings"
	"github.com/angelmondragon/foodwaste-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

const (
	foodIDParam    = "foodId"
	maxTextLen     = 255
	missingWarning = "listing not found; nothing was deleted"
)

type listingRequest struct {
	FoodName     string `json:"food_name" validate:"required,max=255"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	Expiry       string `json:"expiry" validate:"required"`
	ProviderID   int64  `json:"provider_id" validate:"required,gt=0"`
	ProviderType string `json:"provider_type,omitempty" validate:"max=255"`
	Location     string `json:"location" validate:"required,max=255"`
	FoodType     string `json:"food_type" validate:"required,max=255"`
	MealType     string `json:"meal_type" validate:"required,max=255"`
	Status       string `json:"status,omitempty"`
}

func (r listingRequest) toInput() (listings.ListingInput, error) {
	expiry, err := types.ParseDate(r.Expiry)
	if err != nil {
		return listings.ListingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expiry").
			WithDetails(map[string]any{"expiry": "must be YYYY-MM-DD"})
	}

	var status enums.ListingStatus
	if raw := strings.TrimSpace(r.Status); raw != "" {
		status, err = enums.ParseListingStatus(raw)
		if err != nil {
			return listings.ListingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]any{"status": enums.ListingStatuses()})
		}
	}

	return listings.ListingInput{
		FoodName:     r.FoodName,
		Quantity:     r.Quantity,
		Expiry:       expiry,
		ProviderID:   r.ProviderID,
		ProviderType: r.ProviderType,
		Location:     r.Location,
		FoodType:     r.FoodType,
		MealType:     r.MealType,
		Status:       status,
	}, nil
}

type deleteListingResponse struct {
	listings.DeleteResult
	Warning string `json:"warning,omitempty"`
}

// ListListings returns every listing, optionally narrowed by ?status=.
func ListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		var status *enums.ListingStatus
		if raw := validators.QueryString(r, "status", maxTextLen); raw != "" {
			parsed, err := enums.ParseListingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		rows, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func CreateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		var payload listingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func GetListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, foodIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// UpdateListing replaces every writable column of an existing listing.
func UpdateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, foodIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload listingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// DeleteListing removes a listing. Deleting an id that does not exist is not
// an error; the response carries a warning instead.
func DeleteListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, foodIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := deleteListingResponse{DeleteResult: *result}
		if !result.Existed {
			resp.Warning = missingWarning
		}
		responses.WriteSuccess(w, resp)
	}
}
