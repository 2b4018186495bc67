package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyWindowDays contextKey = "windowDays"

// WindowDaysFromContext returns the velocity window override for the current
// request. Zero means use the configured default.
func WindowDaysFromContext(ctx context.Context) int {
	if v := ctx.Value(CtxKeyWindowDays); v != nil {
		if days, ok := v.(int); ok {
			return days
		}
	}
	return 0
}

// WithWindowDays attaches a velocity window override to context.
func WithWindowDays(ctx context.Context, days int) context.Context {
	return context.WithValue(ctx, CtxKeyWindowDays, days)
}

// Window override for the current request.
// Resolved from: Forecast-Window header > __Window query param > JSON variables.__Window
const (
	HeaderWindow     = "Forecast-Window"
	QueryParamWindow = "__Window"
	VarWindow        = "__Window"
)

// ParseWindowFromVariables parses variables from JSON body for the window override.
func ParseWindowFromVariables(body []byte) (int, bool) {
	var payload struct {
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Variables == nil {
		return 0, false
	}
	if v, ok := payload.Variables[VarWindow]; ok {
		switch val := v.(type) {
		case string:
			if days, err := strconv.Atoi(val); err == nil && days > 0 {
				return days, true
			}
		case float64:
			if val > 0 {
				return int(val), true
			}
		}
	}
	return 0, false
}

// WindowFromRequest extracts the window override from header or query param.
// Body variables are handled separately because the body is consumed once.
func WindowFromRequest(r *http.Request) int {
	if h := r.Header.Get(HeaderWindow); h != "" {
		if days, err := strconv.Atoi(h); err == nil && days > 0 {
			return days
		}
	}
	if q := r.URL.Query().Get(QueryParamWindow); q != "" {
		if days, err := strconv.Atoi(q); err == nil && days > 0 {
			return days
		}
	}
	return 0
}
