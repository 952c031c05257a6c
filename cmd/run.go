package main

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"morning_heating/internal/config"
	"morning_heating/internal/logger"
	"morning_heating/internal/repository"
	"morning_heating/internal/repository/db"
	"morning_heating/internal/service"

	"github.com/google/uuid"
)

// runDeps are the host-bound pieces of a run: the clock and the device probe.
type runDeps struct {
	now      func() time.Time
	presence func(log *logger.Logger) service.PresenceChecker
}

func defaultRunDeps() runDeps {
	return runDeps{
		now: time.Now,
		presence: func(log *logger.Logger) service.PresenceChecker {
			return service.NewPresenceChecker(runtime.GOOS, log)
		},
	}
}

// run performs one scheduled invocation. Outside the window it returns nil
// before reading config, opening the log or touching state.
func run(ctx context.Context, configPath string, deps runDeps) error {
	now := deps.now()
	if !service.IsWindowOpen(now) {
		return nil
	}

	prefs, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fileLog, err := logger.Open(prefs.Log.Path, prefs.Log.Level)
	if err != nil {
		return err
	}
	defer fileLog.Close()
	log := fileLog.With("run_id", uuid.NewString())

	repos, closeRepos, err := openRepository(prefs)
	if err != nil {
		log.Errorw("failed to open state store", "err", err, "backend", prefs.State.Backend)
		return fmt.Errorf("open state store: %w", err)
	}
	defer closeRepos()

	client := &http.Client{Timeout: httpClientTimeout}
	services := service.NewService(repos, service.Collaborators{
		Forecaster: service.NewMetOfficeForecaster(client, service.ForecastConfig{
			BaseURL:      prefs.MetOffice.BaseURL,
			Latitude:     prefs.Latitude,
			Longitude:    prefs.Longitude,
			ClientID:     prefs.MetOffice.ClientID,
			ClientSecret: prefs.MetOffice.ClientSecret,
		}, log),
		Presence: deps.presence(log),
		Notifier: buildNotifier(prefs, client, log),
		TargetIP: prefs.Presence.TargetIP,
	}, log)

	d, err := services.Heating.Run(ctx, now)
	if err != nil {
		log.Errorw("run failed", "err", err)
		return err
	}
	log.Infow("run complete",
		"temp_celsius", d.Temperature.String(),
		"triggered", d.Triggered,
		"heating_triggered_today", d.HeatingTriggeredToday,
	)
	return nil
}

// openRepository selects the state backend. The returned func releases it.
func openRepository(prefs config.Preferences) (*repository.Repository, func(), error) {
	if prefs.State.Backend != config.BackendSQLite {
		return repository.NewFileRepository(prefs.State.Path), func() {}, nil
	}
	conn, err := db.InitDB(prefs.State.Path)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewSQLiteRepository(conn), func() { _ = conn.Close() }, nil
}

// buildNotifier always includes the IFTTT webhook and adds MQTT when a broker
// is configured. The broker is only dialled if heating is actually triggered.
func buildNotifier(prefs config.Preferences, client *http.Client, log *logger.Logger) service.Notifier {
	notifiers := service.MultiNotifier{
		service.NewIFTTTNotifier(client, prefs.IFTTT.BaseURL, prefs.IFTTT.Event, prefs.IFTTT.Key, log),
	}
	if prefs.MQTT.Broker != "" {
		notifiers = append(notifiers, service.NewMQTTNotifier(prefs.MQTT.Broker, prefs.MQTT.ClientID, prefs.MQTT.Topic))
	}
	return notifiers
}
