package service

import (
	"context"
	"fmt"
	"time"

	"morning_heating/internal/logger"
	"morning_heating/internal/models"
)

const (
	// ColdThresholdC is the temperature below which the morning counts as cold.
	ColdThresholdC = 15.0
	// MinRunInterval guards against bursts of invocations.
	MinRunInterval = 5 * time.Minute

	// savedTimePrecision is the finest run time both state stores can hold.
	savedTimePrecision = time.Microsecond
)

// Decision records what a single run saw and did.
type Decision struct {
	Now                   time.Time
	Temperature           models.Temperature
	FetchedForecast       bool
	EnoughTimeElapsed     bool
	PresenceChecked       bool
	DeviceSeen            bool
	Triggered             bool // notifier invoked during this run
	HeatingTriggeredToday bool
}

// HeatingService decides, at most once per calendar day, whether to turn the
// heating on.
type HeatingService struct {
	state    *StateService
	forecast Forecaster
	presence PresenceChecker
	notifier Notifier
	targetIP string
	log      *logger.Logger
}

func NewHeatingService(state *StateService, c Collaborators, log *logger.Logger) *HeatingService {
	return &HeatingService{
		state:    state,
		forecast: c.Forecaster,
		presence: c.Presence,
		notifier: c.Notifier,
		targetIP: c.TargetIP,
		log:      log,
	}
}

// Run performs one invocation at now. The caller has already checked the run
// window. The only error returned is a failure to persist the new state.
func (s *HeatingService) Run(ctx context.Context, now time.Time) (Decision, error) {
	prev := s.state.Load(ctx, now)
	d := Decision{Now: now}

	sameDay := sameDate(now, prev.LastRunTime)
	triggeredToday := false
	if sameDay {
		triggeredToday = prev.HeatingTriggeredToday
		s.log.Infow("same day as last run, reusing heating triggered flag", "heating_triggered", triggeredToday)
	} else {
		s.log.Infow("heating was not triggered so far today")
	}

	if sameDay {
		d.Temperature = prev.LastTemperature
		s.log.Infow("reusing last temperature", "temp_celsius", d.Temperature.String())
	} else {
		d.Temperature = models.Celsius(s.forecast.Temperature(ctx, now))
		d.FetchedForecast = true
		s.log.Infow("fetched new temperature", "temp_celsius", d.Temperature.String())
	}

	d.EnoughTimeElapsed = now.After(prev.LastRunTime.Add(MinRunInterval))
	s.log.Infow("checked time since last run",
		"current_time", now.Format(time.ANSIC),
		"last_time", prev.LastRunTime.Format(time.ANSIC),
		"enough_time_elapsed", d.EnoughTimeElapsed)

	if !triggeredToday && d.EnoughTimeElapsed {
		cold := isCold(d.Temperature)
		d.PresenceChecked = true
		d.DeviceSeen = s.presence.IsReachable(ctx, s.targetIP)

		if cold && d.DeviceSeen {
			s.log.Infow("turning on heating", "temp_celsius", d.Temperature.String())
			if err := s.notifier.Trigger(ctx, d.Temperature.Celsius); err != nil {
				s.log.Errorw("failed to trigger heating webhook", "err", err)
			}
			triggeredToday = true
			d.Triggered = true
		}
	}
	d.HeatingTriggeredToday = triggeredToday

	err := s.state.Save(ctx, models.RunState{
		LastRunTime:           now.Truncate(savedTimePrecision),
		LastTemperature:       d.Temperature,
		HeatingTriggeredToday: triggeredToday,
	})
	if err != nil {
		return d, fmt.Errorf("save run state: %w", err)
	}
	return d, nil
}

// isCold is false for an unknown temperature.
func isCold(t models.Temperature) bool {
	return t.Known && t.Celsius < ColdThresholdC
}

// sameDate compares calendar dates in now's location.
func sameDate(now, last time.Time) bool {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := last.In(now.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
