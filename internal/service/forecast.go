package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"morning_heating/internal/logger"
)

// FallbackTemperatureC is used whenever no forecast is available. It is above
// the cold threshold so it can never cause heating on its own.
const FallbackTemperatureC = 20.0

const (
	threeHourlyPath   = "/metoffice/production/v0/forecasts/point/three-hourly"
	sampleTimeLayout  = "2006-01-02T15:04Z"
	referenceHour     = 9
	maxSampleDistance = 24 * time.Hour
)

var (
	errNoFeatures = errors.New("forecast response has no features")
	errNoSample   = errors.New("no forecast sample within 24h of 09:00")
	errNoAirTemp  = errors.New("forecast sample has no maxScreenAirTemp")
)

// ForecastConfig identifies the forecast point and the API credentials.
type ForecastConfig struct {
	BaseURL      string
	Latitude     float64
	Longitude    float64
	ClientID     string
	ClientSecret string
}

// MetOfficeForecaster reads the Met Office three-hourly point forecast.
type MetOfficeForecaster struct {
	client *http.Client
	cfg    ForecastConfig
	log    *logger.Logger
}

func NewMetOfficeForecaster(client *http.Client, cfg ForecastConfig, log *logger.Logger) *MetOfficeForecaster {
	if client == nil {
		client = http.DefaultClient
	}
	return &MetOfficeForecaster{client: client, cfg: cfg, log: log}
}

type metOfficeResponse struct {
	Features []struct {
		Properties struct {
			Location struct {
				Name string `json:"name"`
			} `json:"location"`
			TimeSeries []forecastSample `json:"timeSeries"`
		} `json:"properties"`
	} `json:"features"`
}

type forecastSample struct {
	Time             string   `json:"time"`
	MaxScreenAirTemp *float64 `json:"maxScreenAirTemp"`
}

// Temperature returns the forecast temperature closest to 09:00 on now's date,
// or FallbackTemperatureC on any failure.
func (f *MetOfficeForecaster) Temperature(ctx context.Context, now time.Time) float64 {
	c, err := f.fetch(ctx, now)
	if err != nil {
		f.log.Errorw("failed to get Met Office temperature",
			"err", err,
			"fallback_celsius", FallbackTemperatureC)
		return FallbackTemperatureC
	}
	return c
}

func (f *MetOfficeForecaster) fetch(ctx context.Context, now time.Time) (float64, error) {
	q := url.Values{}
	q.Set("excludeParameterMetadata", "false")
	q.Set("includeLocationName", "true")
	q.Set("latitude", strconv.FormatFloat(f.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(f.cfg.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.BaseURL+threeHourlyPath+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("x-ibm-client-id", f.cfg.ClientID)
	req.Header.Set("x-ibm-client-secret", f.cfg.ClientSecret)
	req.Header.Set("accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("forecast request: unexpected status %s", resp.Status)
	}

	var body metOfficeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode forecast: %w", err)
	}
	if len(body.Features) == 0 {
		return 0, errNoFeatures
	}
	props := body.Features[0].Properties
	f.log.Infow("getting weather", "location", props.Location.Name)

	times := make([]time.Time, len(props.TimeSeries))
	for i, s := range props.TimeSeries {
		ts, err := time.Parse(sampleTimeLayout, s.Time)
		if err != nil {
			return 0, fmt.Errorf("parse sample time %q: %w", s.Time, err)
		}
		times[i] = ts
	}

	idx, ok := closestSample(times, nineOClock(now))
	if !ok {
		return 0, errNoSample
	}
	chosen := props.TimeSeries[idx]
	if chosen.MaxScreenAirTemp == nil {
		return 0, errNoAirTemp
	}

	c := roundTenth(*chosen.MaxScreenAirTemp)
	f.log.Infow("found time closest to 9am", "sample_time", chosen.Time, "temp_celsius", c)
	return c, nil
}

// nineOClock is 09:00 on now's calendar date, in now's location.
func nineOClock(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, referenceHour, 0, 0, 0, now.Location())
}

// closestSample returns the index of the sample nearest to ref. Only samples
// strictly closer than 24h qualify; on equal distance the earlier index wins.
func closestSample(times []time.Time, ref time.Time) (int, bool) {
	best := -1
	bestDelta := maxSampleDistance
	for i, ts := range times {
		delta := ts.Sub(ref)
		if delta < 0 {
			delta = -delta
		}
		if delta < bestDelta {
			bestDelta = delta
			best = i
		}
	}
	return best, best >= 0
}

func roundTenth(c float64) float64 {
	return math.Round(c*10) / 10
}
