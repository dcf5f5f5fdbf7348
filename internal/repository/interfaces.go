package repository

import (
	"context"

	"github.com/pelicanstate/constructhub/internal/domain"
)

type WorkOrderRepo interface {
	Create(ctx context.Context, w *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkOrder, error)
	Delete(ctx context.Context, id string) error
}

// LaborRateRepo stores hourly rates. It satisfies assembly.RateTable.
type LaborRateRepo interface {
	LaborRates(ctx context.Context) (map[string]float64, error)
	Upsert(ctx context.Context, rateClass string, hourlyRate float64) error
	List(ctx context.Context) ([]domain.LaborRate, error)
}
