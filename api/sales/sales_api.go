package sales

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	"stockops.GO/config"
	salesService "stockops.GO/service/sales"
)

func init() {
	api.RegisterModule(RegisterSalesRoutes)
}

// getChannelSecret returns the shared webhook secret from env
func getChannelSecret() string {
	return config.GetEnv("CHANNEL_SYNC_SECRET", "")
}

// verifyChannelSignature checks a hex HMAC-SHA256 signature over the raw
// body in constant time. A missing secret or signature fails the check.
func verifyChannelSignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

type importPayload struct {
	Items     []salesService.OrderItemInput `json:"items"`
	BatchSize int                           `json:"batch_size"`
}

// RegisterSalesRoutes wires the channel order feed endpoints.
func RegisterSalesRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/sales")

	// POST /api/sales/import – JSON order line feed from channel connectors.
	// When CHANNEL_SYNC_SECRET is set, X-Channel-Sig must carry an
	// HMAC-SHA256 of the raw body.
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read request body"})
		}

		if secret := getChannelSecret(); secret != "" {
			if !verifyChannelSignature(body, c.Request().Header.Get("X-Channel-Sig"), secret) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid channel signature"})
			}
		}

		var payload importPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}
		if len(payload.Items) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
		}

		result, err := salesService.ImportOrdersJSON(db, payload.Items, payload.BatchSize)
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, result)
	})

	// POST /api/sales/import/csv – same feed as CSV (header row required)
	g.POST("/import/csv", func(c echo.Context) error {
		start := time.Now()

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read request body"})
		}

		if secret := getChannelSecret(); secret != "" {
			if !verifyChannelSignature(body, c.Request().Header.Get("X-Channel-Sig"), secret) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid channel signature"})
			}
		}

		batchSize := 0
		if raw := c.QueryParam("batch_size"); raw != "" {
			batchSize, _ = strconv.Atoi(raw)
		}

		result, err := salesService.ImportOrdersCSV(db, bytes.NewReader(body), batchSize)
		if err != nil {
			if strings.Contains(err.Error(), "CSV") {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, result)
	})
}
