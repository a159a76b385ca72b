package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/foodwaste-backend/api/responses"
	"github.com/angelmondragon/foodwaste-backend/api/validators"
	"github.com/angelmondragon/foodwaste-backend/internal/reports"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

const reportNameParam = "name"

func ListReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string][]string{"reports": reports.Names()})
	}
}

func ReportFilters(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		opts, err := svc.FilterOptions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, opts)
	}
}

func ReportSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		summary, err := svc.DashboardSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// RunReport executes any catalog query by name. The filter query parameters
// only affect filtered_available_food.
func RunReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		name := chi.URLParam(r, reportNameParam)
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithReport(ctx, name)
		}

		filter := reports.Filter{
			City:         validators.QueryString(r, "city", maxTextLen),
			FoodType:     validators.QueryString(r, "food_type", maxTextLen),
			MealType:     validators.QueryString(r, "meal_type", maxTextLen),
			ProviderType: validators.QueryString(r, "provider_type", maxTextLen),
		}

		rows, err := svc.Run(ctx, name, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
