package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"morning_heating/internal/models"
)

var (
	// ErrNoState is returned by Load when nothing has been persisted yet.
	ErrNoState = errors.New("no run state persisted")
	// ErrMalformedState is returned by Load when the record cannot be decoded.
	ErrMalformedState = errors.New("malformed run state")
)

// StateRepo persists the single RunState record. Save always overwrites it.
type StateRepo interface {
	Save(ctx context.Context, s models.RunState) error
	Load(ctx context.Context) (models.RunState, error)
}

type Repository struct {
	StateRepo StateRepo
}

// NewFileRepository keeps state in a JSON file at path.
func NewFileRepository(path string) *Repository {
	return &Repository{StateRepo: NewStateFile(path)}
}

// NewSQLiteRepository keeps state in the run_state table of db.
func NewSQLiteRepository(db *sql.DB) *Repository {
	return &Repository{StateRepo: NewStateSQLite(db)}
}

// Timestamps are persisted as float epoch seconds, which hold microseconds
// exactly for present-day dates but not nanoseconds.
const epochPrecision = time.Microsecond

// toEpoch converts t to fractional seconds since the Unix epoch, truncated to
// microseconds.
func toEpoch(t time.Time) float64 {
	t = t.Truncate(epochPrecision)
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// fromEpoch converts fractional epoch seconds to a local time, rounding the
// fraction to the nearest microsecond.
func fromEpoch(f float64) time.Time {
	sec, frac := math.Modf(f)
	usec := int64(math.Round(frac * 1e6))
	return time.Unix(int64(sec), usec*int64(epochPrecision))
}
