package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"morning_heating/internal/models"
	"morning_heating/internal/repository"
	"morning_heating/internal/repository/db"
)

func TestInitDB_StateRoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "heating.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := repository.NewSQLiteRepository(conn).StateRepo
	ctx := context.Background()

	if _, err := repo.Load(ctx); !errors.Is(err, repository.ErrNoState) {
		t.Fatalf("Load() on empty table: error = %v, want ErrNoState", err)
	}

	first := models.RunState{
		LastRunTime:     time.Date(2024, 1, 8, 8, 35, 0, 0, time.Local),
		LastTemperature: models.Celsius(10),
	}
	second := models.RunState{
		LastRunTime:           time.Date(2024, 1, 8, 8, 45, 3, 987_654_000, time.Local),
		LastTemperature:       models.Unknown(),
		HeatingTriggeredToday: true,
	}
	for _, st := range []models.RunState{first, second} {
		if err := repo.Save(ctx, st); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.LastRunTime.Equal(second.LastRunTime) || got.LastTemperature != second.LastTemperature || !got.HeatingTriggeredToday {
		t.Fatalf("Load() = %+v, want %+v", got, second)
	}

	// nanoseconds are dropped, microseconds survive
	third := second
	third.LastRunTime = time.Date(2024, 1, 8, 8, 55, 12, 123_456_789, time.Local)
	if err := repo.Save(ctx, third); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := third.LastRunTime.Truncate(time.Microsecond); !got.LastRunTime.Equal(want) {
		t.Fatalf("LastRunTime = %v, want %v", got.LastRunTime, want)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM run_state").Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("run_state rows = %d, want 1", n)
	}
}
