package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/db"
	"github.com/pelicanstate/constructhub/internal/domain"
)

// SQLiteLaborRateRepo implements LaborRateRepo using a SQLite database.
type SQLiteLaborRateRepo struct {
	db db.DBTX
}

// NewSQLiteLaborRateRepo creates a new SQLiteLaborRateRepo.
func NewSQLiteLaborRateRepo(conn db.DBTX) *SQLiteLaborRateRepo {
	return &SQLiteLaborRateRepo{db: conn}
}

// LaborRates returns every stored rate keyed by rate class.
func (r *SQLiteLaborRateRepo) LaborRates(ctx context.Context) (map[string]float64, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	rates := make(map[string]float64, len(list))
	for _, lr := range list {
		rates[lr.RateClass] = lr.HourlyRate
	}
	return rates, nil
}

func (r *SQLiteLaborRateRepo) Upsert(ctx context.Context, rateClass string, hourlyRate float64) error {
	rateClass = strings.TrimSpace(rateClass)
	if rateClass == "" || hourlyRate <= 0 {
		return fmt.Errorf("%w: class %q rate %v", ErrInvalidRate, rateClass, hourlyRate)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO labor_rates (rate_class, hourly_rate, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(rate_class) DO UPDATE SET hourly_rate = excluded.hourly_rate, updated_at = excluded.updated_at`,
		rateClass, hourlyRate, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting labor rate: %w", err)
	}
	return nil
}

func (r *SQLiteLaborRateRepo) List(ctx context.Context) ([]domain.LaborRate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rate_class, hourly_rate, updated_at FROM labor_rates ORDER BY rate_class`)
	if err != nil {
		return nil, fmt.Errorf("listing labor rates: %w", err)
	}
	defer rows.Close()

	var out []domain.LaborRate
	for rows.Next() {
		var lr domain.LaborRate
		var updatedAt string
		if err := rows.Scan(&lr.RateClass, &lr.HourlyRate, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning labor rate: %w", err)
		}
		if lr.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labor rates: %w", err)
	}
	return out, nil
}
