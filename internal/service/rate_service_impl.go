package service

import (
	"context"
	"time"

	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/repository"
)

type rateService struct {
	rates    repository.LaborRateRepo
	observer UseCaseObserver
}

func NewRateService(rates repository.LaborRateRepo, observers ...UseCaseObserver) RateService {
	return &rateService{rates: rates, observer: useCaseObserverOrNoop(observers)}
}

func (s *rateService) List(ctx context.Context) ([]domain.LaborRate, error) {
	return s.rates.List(ctx)
}

func (s *rateService) Set(ctx context.Context, rateClass string, hourlyRate float64) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "set-labor-rate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"rate_class":  rateClass,
				"hourly_rate": hourlyRate,
			},
		})
	}()
	return s.rates.Upsert(ctx, rateClass, hourlyRate)
}
