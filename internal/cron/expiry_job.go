package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

// ExpiryJobName identifies the sweep in logs, metrics and the lock key.
const ExpiryJobName = "expiry-sweep"

// ExpiryJobParams configure the scheduled expiry sweep.
type ExpiryJobParams struct {
	Logger     *logger.Logger
	Maintainer expiryRefresher
}

type expiryRefresher interface {
	Refresh(ctx context.Context, now time.Time) (int64, error)
}

// NewExpiryJob builds the cron job that expires past-due Available listings.
func NewExpiryJob(params ExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Maintainer == nil {
		return nil, fmt.Errorf("expiry maintainer required")
	}
	return &expiryJob{
		logg:       params.Logger,
		maintainer: params.Maintainer,
		now:        time.Now,
	}, nil
}

type expiryJob struct {
	logg       *logger.Logger
	maintainer expiryRefresher
	now        func() time.Time
}

func (j *expiryJob) Name() string { return ExpiryJobName }

func (j *expiryJob) Run(ctx context.Context) error {
	now := j.now()
	rows, err := j.maintainer.Refresh(ctx, now)
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"now":          now,
		"rows_updated": rows,
	})
	j.logg.Info(logCtx, "expiry sweep job complete")
	return nil
}
