package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UnknownLabel is how an unknown temperature is written to the state record.
const UnknownLabel = "Unknown"

// Temperature is a Celsius reading that may be unknown.
type Temperature struct {
	Celsius float64
	Known   bool
}

// Celsius returns a known temperature.
func Celsius(c float64) Temperature {
	return Temperature{Celsius: c, Known: true}
}

// Unknown returns the unknown temperature sentinel.
func Unknown() Temperature {
	return Temperature{}
}

// String renders the value as it appears in logs.
func (t Temperature) String() string {
	if !t.Known {
		return UnknownLabel
	}
	return strconv.FormatFloat(t.Celsius, 'f', -1, 64)
}

// MarshalJSON writes a number, or the literal "Unknown".
func (t Temperature) MarshalJSON() ([]byte, error) {
	if !t.Known {
		return json.Marshal(UnknownLabel)
	}
	return json.Marshal(t.Celsius)
}

// UnmarshalJSON accepts a number or the literal "Unknown".
func (t *Temperature) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != UnknownLabel {
			return fmt.Errorf("temperature: unexpected label %q", s)
		}
		*t = Unknown()
		return nil
	}
	var c float64
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("temperature: %w", err)
	}
	*t = Celsius(c)
	return nil
}

// RunState is the record carried from one invocation to the next.
type RunState struct {
	LastRunTime           time.Time   `json:"last_run_time"`
	LastTemperature       Temperature `json:"last_temperature"`
	HeatingTriggeredToday bool        `json:"heating_triggered_today"`
}

// FailSafeState is used whenever the previous record cannot be read. It claims
// heating already fired so that a lost record never causes a second trigger.
func FailSafeState(now time.Time) RunState {
	return RunState{
		LastRunTime:           now,
		LastTemperature:       Unknown(),
		HeatingTriggeredToday: true,
	}
}
