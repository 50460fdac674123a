package validators

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// ParseQueryInt reads an integer query parameter, clamping to [min, max].
// Missing or malformed values fall back to defaultVal.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ParseQueryDecimal reads an optional decimal query parameter.
// Malformed values are treated as absent.
func ParseQueryDecimal(r *http.Request, key string) *decimal.Decimal {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}
