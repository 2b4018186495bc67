package config

import (
	"os"
	"strconv"
	"sync"
)

// ForecastConfig holds the forecasting tunables. Velocity is averaged over
// WindowDays of trailing consumption; components without a lead time on
// either the component or its preferred supplier fall back to
// DefaultLeadTimeDays; WarningBufferDays widens the critical threshold into
// the warning band.
type ForecastConfig struct {
	WindowDays          int
	DefaultLeadTimeDays int
	WarningBufferDays   int
}

var (
	forecastConfig *ForecastConfig
	forecastOnce   sync.Once
)

// Forecast returns the forecast tunables, loaded from env once.
func Forecast() *ForecastConfig {
	forecastOnce.Do(func() {
		forecastConfig = &ForecastConfig{
			WindowDays:          envInt("FORECAST_WINDOW_DAYS", 30),
			DefaultLeadTimeDays: envInt("FORECAST_DEFAULT_LEAD_TIME_DAYS", 14),
			WarningBufferDays:   envInt("FORECAST_WARNING_BUFFER_DAYS", 7),
		}
	})
	return forecastConfig
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
