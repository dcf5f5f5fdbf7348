package service

import (
	"context"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// TaskService turns edited plans into persisted work orders.
type TaskService interface {
	CreateTasks(ctx context.Context, projectID string, plan domain.ProjectPlan, edits *domain.PlanEdits, budget float64) ([]domain.WorkOrder, error)
	ListTasks(ctx context.Context, projectID string) ([]*domain.WorkOrder, error)
	DeleteTask(ctx context.Context, id string) error
}

// RateService reads and updates the hourly labor rate table.
type RateService interface {
	List(ctx context.Context) ([]domain.LaborRate, error)
	Set(ctx context.Context, rateClass string, hourlyRate float64) error
}
