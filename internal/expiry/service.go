package expiry

import (
	"context"
	"time"

	"github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/metrics"
	"github.com/angelmondragon/foodwaste-backend/pkg/types"
)

type expirer interface {
	ExpireBefore(ctx context.Context, cutoff types.Date) (int64, error)
}

// Service moves listings past their expiry date out of the Available pool.
type Service interface {
	Refresh(ctx context.Context, now time.Time) (int64, error)
}

// ServiceParams wires the maintainer.
type ServiceParams struct {
	Logger     *logger.Logger
	Repository expirer
	Metrics    *metrics.ExpiryMetrics
	// Trigger labels metrics and logs with the caller ("api", "cron").
	Trigger string
}

type service struct {
	logg    *logger.Logger
	repo    expirer
	metrics *metrics.ExpiryMetrics
	trigger string
}

// NewService builds the status maintainer.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "logger required")
	}
	if params.Repository == nil {
		return nil, errors.New(errors.CodeInternal, "expiry repository required")
	}
	return &service{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
		trigger: params.Trigger,
	}, nil
}

// Refresh expires every Available listing whose expiry date is before the
// calendar date of now. Running it again with the same now changes nothing.
func (s *service) Refresh(ctx context.Context, now time.Time) (int64, error) {
	cutoff := types.NewDate(now)
	rows, err := s.repo.ExpireBefore(ctx, cutoff)
	s.metrics.ObserveSweep(s.trigger, rows, err)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff.String(),
		"trigger": s.trigger,
	})
	if err != nil {
		s.logg.Error(logCtx, "expiry sweep failed", err)
		return 0, errors.Wrap(errors.CodeDependency, err, "expire listings")
	}

	logCtx = s.logg.WithField(logCtx, "listings_expired", rows)
	s.logg.Info(logCtx, "expiry sweep complete")
	return rows, nil
}
