package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"morning_heating/internal/models"
	"morning_heating/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != statusOK {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestStateHandler(t *testing.T) {
	last := time.Date(2024, 1, 8, 8, 40, 0, 0, time.UTC)
	mon := &mockMonitoring{view: service.StateView{
		Initialized: true,
		State: models.RunState{
			LastRunTime:           last,
			LastTemperature:       models.Celsius(12.5),
			HeatingTriggeredToday: true,
		},
	}}
	r := newTestRouter(&service.Service{Monitoring: mon})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var got service.StateView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if !got.Initialized || !got.State.HeatingTriggeredToday || got.State.LastTemperature != models.Celsius(12.5) {
		t.Fatalf("unexpected state: %+v", got)
	}
	if !got.State.LastRunTime.Equal(last) {
		t.Fatalf("last run = %v, want %v", got.State.LastRunTime, last)
	}
}

func TestStateHandler_UnknownTemperature(t *testing.T) {
	mon := &mockMonitoring{view: service.StateView{State: models.RunState{LastTemperature: models.Unknown()}}}
	r := newTestRouter(&service.Service{Monitoring: mon})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d", w.Code)
	}
	var raw struct {
		Initialized bool `json:"initialized"`
		State       struct {
			LastTemperature json.RawMessage `json:"last_temperature"`
		} `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.Initialized || string(raw.State.LastTemperature) != `"Unknown"` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestStateHandler_Error(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("db down")}
	r := newTestRouter(&service.Service{Monitoring: mon})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != errGetState {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestWindowHandler(t *testing.T) {
	now := time.Date(2024, 1, 13, 9, 0, 0, 0, time.UTC) // Saturday

	cases := []struct {
		name     string
		query    string
		wantCode int
		wantOpen bool
		wantAt   time.Time
	}{
		{name: "defaults to now", query: "", wantCode: http.StatusOK, wantOpen: false, wantAt: now},
		{name: "open on monday morning", query: "?at=2024-01-08T08:30:00Z", wantCode: http.StatusOK, wantOpen: true, wantAt: time.Date(2024, 1, 8, 8, 30, 0, 0, time.UTC)},
		{name: "closed after ten", query: "?at=2024-01-08T10:00:01Z", wantCode: http.StatusOK, wantOpen: false, wantAt: time.Date(2024, 1, 8, 10, 0, 1, 0, time.UTC)},
		{name: "offset decides wall clock", query: "?at=2024-01-08T09:00:00%2B01:00", wantCode: http.StatusOK, wantOpen: true, wantAt: time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)},
		{name: "bad time", query: "?at=monday", wantCode: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mon := &mockMonitoring{}
			r := newTestRouterAt(&service.Service{Monitoring: mon}, now)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/window"+tc.query, nil))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				var body map[string]string
				_ = json.Unmarshal(w.Body.Bytes(), &body)
				if body["error"] != errAtInvalid {
					t.Fatalf("unexpected body: %s", w.Body.String())
				}
				return
			}
			var got service.WindowView
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Open != tc.wantOpen || !got.At.Equal(tc.wantAt) {
				t.Fatalf("got %+v, want open=%v at=%v", got, tc.wantOpen, tc.wantAt)
			}
			if !mon.lastAt.Equal(tc.wantAt) {
				t.Fatalf("service saw %v", mon.lastAt)
			}
		})
	}
}

func TestSwaggerRoutes(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("swagger index status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("swagger doc status=%d, body=%s", w.Code, w.Body.String())
	}
	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	for _, path := range []string{"/health", "/api/v1/state", "/api/v1/window"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc.json missing %s", path)
		}
	}
}
