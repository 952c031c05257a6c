package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"morning_heating/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	runStateRowID = 1

	upsertRunStateSQL = `
		INSERT INTO run_state (id, last_run_epoch, temp_c, heating_triggered)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_run_epoch=excluded.last_run_epoch,
			temp_c=excluded.temp_c,
			heating_triggered=excluded.heating_triggered
	`

	selectRunStateSQL = `
		SELECT last_run_epoch, temp_c, heating_triggered
		FROM run_state WHERE id=?
	`
)

// Save upserts the run_state row (id always 1). An unknown temperature is NULL.
func (r *StateSQLite) Save(ctx context.Context, s models.RunState) error {
	temp := sql.NullFloat64{Float64: s.LastTemperature.Celsius, Valid: s.LastTemperature.Known}

	_, err := r.db.ExecContext(ctx, upsertRunStateSQL,
		runStateRowID,
		toEpoch(s.LastRunTime),
		temp,
		s.HeatingTriggeredToday,
	)
	if err != nil {
		return fmt.Errorf("upsert run_state: %w", err)
	}
	return nil
}

// Load fetches the run_state row. No row yields ErrNoState.
func (r *StateSQLite) Load(ctx context.Context) (models.RunState, error) {
	row := r.db.QueryRowContext(ctx, selectRunStateSQL, runStateRowID)

	var (
		epoch     float64
		temp      sql.NullFloat64
		triggered bool
	)
	if err := row.Scan(&epoch, &temp, &triggered); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunState{}, ErrNoState
		}
		return models.RunState{}, fmt.Errorf("select run_state: %w", err)
	}

	st := models.RunState{
		LastRunTime:           fromEpoch(epoch),
		LastTemperature:       models.Unknown(),
		HeatingTriggeredToday: triggered,
	}
	if temp.Valid {
		st.LastTemperature = models.Celsius(temp.Float64)
	}
	return st, nil
}
