package service

import (
	"context"
	"time"

	"morning_heating/internal/logger"
	"morning_heating/internal/repository"
)

// Forecaster returns the temperature for about 09:00 today. It always yields a
// usable value, substituting FallbackTemperatureC on failure.
type Forecaster interface {
	Temperature(ctx context.Context, now time.Time) float64
}

// PresenceChecker probes whether a device answers on the network. An
// indeterminate probe reports false.
type PresenceChecker interface {
	IsReachable(ctx context.Context, address string) bool
}

// Notifier asks the remote automation to start heating.
type Notifier interface {
	Trigger(ctx context.Context, celsius float64) error
}

// Heating runs the once-per-day decision.
type Heating interface {
	Run(ctx context.Context, now time.Time) (Decision, error)
}

// Monitoring exposes read-only state for the status API.
type Monitoring interface {
	GetState(ctx context.Context) (StateView, error)
	Window(at time.Time) WindowView
}

// Collaborators are the external capabilities the decision engine calls.
type Collaborators struct {
	Forecaster Forecaster
	Presence   PresenceChecker
	Notifier   Notifier
	TargetIP   string
}

type Service struct {
	Heating
	Monitoring
}

// NewService wires the repository layer and collaborators into services.
func NewService(repos *repository.Repository, c Collaborators, log *logger.Logger) *Service {
	return &Service{
		Heating:    NewHeatingService(NewStateService(repos.StateRepo, log), c, log),
		Monitoring: NewMonitoringService(repos.StateRepo),
	}
}
