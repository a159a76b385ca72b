// Package seed loads the dashboard's CSV exports (providers, receivers,
// food listings, claims) into the store.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	"github.com/angelmondragon/foodwaste-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodwaste-backend/pkg/errors"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 200

// Sources holds one CSV stream per table. Nil sources are skipped.
type Sources struct {
	Providers io.Reader
	Receivers io.Reader
	Listings  io.Reader
	Claims    io.Reader
}

// Result counts the rows written per table.
type Result struct {
	Providers int `json:"providers"`
	Receivers int `json:"receivers"`
	Listings  int `json:"listings"`
	Claims    int `json:"claims"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Importer upserts CSV rows by primary key.
type Importer struct {
	logg *logger.Logger
	db   txRunner
}

// NewImporter wires an importer.
func NewImporter(logg *logger.Logger, runner txRunner) (*Importer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if runner == nil {
		return nil, fmt.Errorf("db runner required")
	}
	return &Importer{logg: logg, db: runner}, nil
}

type parsed struct {
	providers []models.Provider
	receivers []models.Receiver
	listings  []models.FoodListing
	claims    []models.Claim
}

// Import parses every source first and reports all malformed rows together.
// Rows are written in dependency order inside one transaction; nothing is
// committed if any row fails.
func (i *Importer) Import(ctx context.Context, src Sources) (*Result, error) {
	data, err := parseSources(src)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "seed data is invalid").
			WithDetails(map[string]any{"errors": errorStrings(err)})
	}

	err = i.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := upsert(tx, data.providers); err != nil {
			return fmt.Errorf("providers: %w", err)
		}
		if err := upsert(tx, data.receivers); err != nil {
			return fmt.Errorf("receivers: %w", err)
		}
		if err := upsert(tx, data.listings); err != nil {
			return fmt.Errorf("food_listings: %w", err)
		}
		if err := upsert(tx, data.claims); err != nil {
			return fmt.Errorf("claims: %w", err)
		}
		return resetSequences(tx)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) || db.IsCheckViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "seed data violates a constraint")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write seed data")
	}

	res := &Result{
		Providers: len(data.providers),
		Receivers: len(data.receivers),
		Listings:  len(data.listings),
		Claims:    len(data.claims),
	}
	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"providers": res.Providers,
		"receivers": res.Receivers,
		"listings":  res.Listings,
		"claims":    res.Claims,
	}), "seed import complete")
	return res, nil
}

func parseSources(src Sources) (parsed, error) {
	var (
		out  parsed
		errs error
	)
	read := func(name string, r io.Reader) []record {
		if r == nil {
			return nil
		}
		recs, err := readRecords(r)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return recs
	}
	prefix := func(name string, err error) error {
		if err == nil {
			return nil
		}
		wrapped := make([]error, 0)
		for _, e := range multierr.Errors(err) {
			wrapped = append(wrapped, fmt.Errorf("%s: %w", name, e))
		}
		return multierr.Combine(wrapped...)
	}

	var err error
	out.providers, err = parseProviders(read("providers", src.Providers))
	errs = multierr.Append(errs, prefix("providers", err))

	out.receivers, err = parseReceivers(read("receivers", src.Receivers))
	errs = multierr.Append(errs, prefix("receivers", err))

	providerTypes := make(map[int64]string, len(out.providers))
	for _, p := range out.providers {
		providerTypes[p.ProviderID] = p.Type
	}
	out.listings, err = parseListings(read("food_listings", src.Listings), providerTypes)
	errs = multierr.Append(errs, prefix("food_listings", err))

	out.claims, err = parseClaims(read("claims", src.Claims))
	errs = multierr.Append(errs, prefix("claims", err))

	return out, errs
}

func upsert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, batchSize).Error
}

// resetSequences moves postgres identity sequences past explicitly
// inserted ids. sqlite AUTOINCREMENT tracks this on its own.
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range []string{
		`SELECT setval(pg_get_serial_sequence('food_listings', 'food_id'), COALESCE((SELECT MAX(food_id) FROM food_listings), 0) + 1, false)`,
		`SELECT setval(pg_get_serial_sequence('claims', 'claim_id'), COALESCE((SELECT MAX(claim_id) FROM claims), 0) + 1, false)`,
	} {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("reset sequence: %w", err)
		}
	}
	return nil
}

func errorStrings(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
