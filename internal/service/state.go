package service

import (
	"context"
	"time"

	"morning_heating/internal/logger"
	"morning_heating/internal/models"
	"morning_heating/internal/repository"
)

// StateService applies the load/save policy on top of a StateRepo.
type StateService struct {
	repo repository.StateRepo
	log  *logger.Logger
}

func NewStateService(repo repository.StateRepo, log *logger.Logger) *StateService {
	return &StateService{repo: repo, log: log}
}

// Load never fails: when the previous record cannot be read it logs the cause
// and returns models.FailSafeState(now).
func (s *StateService) Load(ctx context.Context, now time.Time) models.RunState {
	st, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Errorw("failed to load previous run state, assuming heating already triggered",
			"err", err)
		return models.FailSafeState(now)
	}
	s.log.Infow("loaded previous run state",
		"last_run", st.LastRunTime.Format(time.ANSIC),
		"temp_celsius", st.LastTemperature.String(),
		"heating_triggered", st.HeatingTriggeredToday)
	return st
}

// Save overwrites the record. Errors are returned unchanged.
func (s *StateService) Save(ctx context.Context, st models.RunState) error {
	if err := s.repo.Save(ctx, st); err != nil {
		return err
	}
	s.log.Infow("saved run state",
		"temp_celsius", st.LastTemperature.String(),
		"heating_triggered", st.HeatingTriggeredToday)
	return nil
}
