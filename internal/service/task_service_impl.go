package service

import (
	"context"
	"strings"
	"time"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/db"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/repository"
)

type taskService struct {
	assembler  *assembly.Assembler
	workOrders repository.WorkOrderRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewTaskService(assembler *assembly.Assembler, workOrders repository.WorkOrderRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		assembler:  assembler,
		workOrders: workOrders,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// CreateTasks assembles the selected plan tasks and stores them in a single
// transaction. Either every work order is written or none is.
func (s *taskService) CreateTasks(ctx context.Context, projectID string, plan domain.ProjectPlan, edits *domain.PlanEdits, budget float64) (orders []domain.WorkOrder, err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-tasks",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"project_id": projectID,
				"template":   plan.TemplateName,
				"created":    len(orders),
			},
		})
	}()

	orders = s.assembler.Assemble(ctx, plan, edits, budget)
	if len(orders) == 0 {
		return nil, ErrNoTasksSelected
	}
	projectID = strings.TrimSpace(projectID)
	for i := range orders {
		orders[i].ProjectID = projectID
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkOrders := repository.NewSQLiteWorkOrderRepo(tx)
		for i := range orders {
			if err := txWorkOrders.Create(ctx, &orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		orders = nil
		return nil, err
	}
	return orders, nil
}

func (s *taskService) ListTasks(ctx context.Context, projectID string) (orders []*domain.WorkOrder, err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "list-tasks",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"project_id": projectID,
				"count":      len(orders),
			},
		})
	}()
	return s.workOrders.ListByProject(ctx, projectID)
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	return s.workOrders.Delete(ctx, id)
}
