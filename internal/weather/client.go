// Package weather fetches current conditions for the coop's location from
// OpenWeatherMap. It is a stateless collaborator: results go straight to
// the presentation layer and never touch the ledger.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	applog "chickenkeeper/internal/log"
)

var ErrNoAPIKey = errors.New("openweathermap api key not configured")

// Report is the condition summary the UI shows.
type Report struct {
	TempF            float64 `json:"tempF"`
	Humidity         int     `json:"humidity"`
	WindMPH          float64 `json:"windMph"`
	VisibilityMeters int     `json:"visibilityMeters"`
	Description      string  `json:"description"`
}

// Config holds the fixed location and credential for the lookup.
type Config struct {
	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64
}

// Client is a resty-backed OpenWeatherMap client.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	latitude   float64
	longitude  float64
}

// NewClient builds a weather client from the provided configuration.
func NewClient(cfg Config) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)

	return &Client{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
		latitude:   cfg.Latitude,
		longitude:  cfg.Longitude,
	}
}

// currentWeatherResponse mirrors the OpenWeatherMap current-weather payload.
type currentWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
}

type apiError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// Current fetches the current conditions in imperial units.
func (c *Client) Current(ctx context.Context) (*Report, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	result := new(currentWeatherResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", c.latitude),
			"lon":   fmt.Sprintf("%f", c.longitude),
			"units": "imperial",
			"appid": c.apiKey,
		}).
		SetResult(result).
		SetError(apiErr).
		Get("/data/2.5/weather")
	if err != nil {
		return nil, fmt.Errorf("fetch current weather: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("weather api returned %d: %s", resp.StatusCode(), apiErr.Message)
	}

	report := &Report{
		TempF:            result.Main.Temp,
		Humidity:         result.Main.Humidity,
		WindMPH:          result.Wind.Speed,
		VisibilityMeters: result.Visibility,
	}
	if len(result.Weather) > 0 {
		report.Description = result.Weather[0].Description
	}

	slog.DebugContext(ctx, "Fetched current conditions",
		applog.FieldComponent, applog.ComponentWeather,
		"temp_f", report.TempF,
		"description", report.Description)
	return report, nil
}
