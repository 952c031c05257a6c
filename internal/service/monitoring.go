package service

import (
	"context"
	"errors"
	"time"

	"morning_heating/internal/models"
	"morning_heating/internal/repository"
)

// StateView is the persisted state as reported by the status API.
type StateView struct {
	Initialized bool            `json:"initialized"`
	State       models.RunState `json:"state"`
}

// WindowView reports whether the run window is open at a given instant.
type WindowView struct {
	At   time.Time `json:"at"`
	Open bool      `json:"open"`
}

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted run state.
// If nothing is persisted yet, returns an uninitialized baseline.
func (s *MonitoringService) GetState(ctx context.Context) (StateView, error) {
	st, err := s.stateRepo.Load(ctx)
	if errors.Is(err, repository.ErrNoState) {
		return StateView{State: baselineState()}, nil
	}
	if err != nil {
		return StateView{}, err
	}
	return StateView{Initialized: true, State: st}, nil
}

// Window evaluates the run window at the given instant.
func (s *MonitoringService) Window(at time.Time) WindowView {
	return WindowView{At: at, Open: IsWindowOpen(at)}
}

func baselineState() models.RunState {
	return models.RunState{LastTemperature: models.Unknown()}
}
