package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"morning_heating/internal/models"
)

// CreateTemp opens files 0600; the renamed file must stay world-readable.
const stateFileMode = 0o644

// StateFile stores the run state as a one-element JSON list:
//
//	[{"current_time": 1700000000.5, "temp_celsius": 10.5, "heating_triggered_today": false}]
type StateFile struct {
	path string
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the file location.
func (r *StateFile) Path() string { return r.path }

// stateRecord mirrors the on-disk object. Pointers detect missing fields.
type stateRecord struct {
	CurrentTime           *float64            `json:"current_time"`
	TempCelsius           *models.Temperature `json:"temp_celsius"`
	HeatingTriggeredToday *bool               `json:"heating_triggered_today"`
}

// Load reads and decodes the record. A missing file yields ErrNoState.
func (r *StateFile) Load(_ context.Context) (models.RunState, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.RunState{}, fmt.Errorf("%w: %s", ErrNoState, r.path)
		}
		return models.RunState{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	var records []stateRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return models.RunState{}, fmt.Errorf("%w: %s: %v", ErrMalformedState, r.path, err)
	}
	if len(records) == 0 {
		return models.RunState{}, fmt.Errorf("%w: %s: empty list", ErrMalformedState, r.path)
	}

	rec := records[0]
	switch {
	case rec.CurrentTime == nil:
		return models.RunState{}, fmt.Errorf("%w: missing current_time", ErrMalformedState)
	case rec.TempCelsius == nil:
		return models.RunState{}, fmt.Errorf("%w: missing temp_celsius", ErrMalformedState)
	case rec.HeatingTriggeredToday == nil:
		return models.RunState{}, fmt.Errorf("%w: missing heating_triggered_today", ErrMalformedState)
	}

	return models.RunState{
		LastRunTime:           fromEpoch(*rec.CurrentTime),
		LastTemperature:       *rec.TempCelsius,
		HeatingTriggeredToday: *rec.HeatingTriggeredToday,
	}, nil
}

// Save replaces the file atomically: the record is written to a temporary file
// in the same directory which is then renamed over the old one.
func (r *StateFile) Save(_ context.Context, s models.RunState) error {
	epoch := toEpoch(s.LastRunTime)
	temp := s.LastTemperature
	triggered := s.HeatingTriggeredToday

	b, err := json.Marshal([]stateRecord{{
		CurrentTime:           &epoch,
		TempCelsius:           &temp,
		HeatingTriggeredToday: &triggered,
	}})
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(stateFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
