package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"go-auth-service/pkg/apperr"
	"go-auth-service/pkg/token"
)

// DevHandler exposes debugging utilities. It is only registered when the
// server runs in the development environment.
type DevHandler struct {
	Pool   *pgxpool.Pool
	Tokens *token.Manager
	Logger *logrus.Logger

	DatabaseURL     string
	ExpirationHours int
}

func NewDevHandler(pool *pgxpool.Pool, tokens *token.Manager, logger *logrus.Logger, databaseURL string, expirationHours int) *DevHandler {
	return &DevHandler{
		Pool:            pool,
		Tokens:          tokens,
		Logger:          logger,
		DatabaseURL:     databaseURL,
		ExpirationHours: expirationHours,
	}
}

// State handles GET /dev/state with pool utilization figures.
func (h *DevHandler) State(c *gin.Context) {
	stat := h.Pool.Stat()
	var utilization float64
	if stat.MaxConns() > 0 {
		utilization = float64(stat.AcquiredConns()) / float64(stat.MaxConns()) * 100
	}

	load := "healthy"
	switch {
	case utilization > 80:
		load = "high_load"
	case utilization > 50:
		load = "moderate"
	}

	c.JSON(http.StatusOK, gin.H{
		"environment": "development",
		"database": gin.H{
			"pool_size":      stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
			"acquired_conns": stat.AcquiredConns(),
			"status":         load,
		},
		"jwt": gin.H{
			"expiration_hours": h.ExpirationHours,
		},
	})
}

// Health handles GET /dev/health.
func (h *DevHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"mode":      "development",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Echo handles POST /dev/echo and mirrors the request body back.
func (h *DevHandler) Echo(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, h.Logger, apperr.BadRequest("request body must be valid JSON"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"echo":        body,
		"received_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// SimulateError handles GET /dev/error/:type, producing each error shape on
// demand so clients can exercise their error handling.
func (h *DevHandler) SimulateError(c *gin.Context) {
	switch c.Param("type") {
	case "not_found":
		apperr.Respond(c, h.Logger, apperr.NotFound("test resource not found"))
	case "bad_request":
		apperr.Respond(c, h.Logger, apperr.BadRequest("test bad request"))
	case "unauthorized":
		apperr.Respond(c, h.Logger, apperr.Unauthorized("test unauthorized"))
	case "internal":
		apperr.Respond(c, h.Logger, apperr.Internal("test internal error", nil))
	case "database":
		apperr.Respond(c, h.Logger, apperr.Database("test database error", nil))
	default:
		c.JSON(http.StatusOK, gin.H{
			"available_error_types": []string{"not_found", "bad_request", "unauthorized", "internal", "database"},
		})
	}
}

// TestToken handles POST /dev/token and issues a token for a throwaway user.
func (h *DevHandler) TestToken(c *gin.Context) {
	tok, err := h.Tokens.Issue(uuid.NewString(), "dev@example.com", "devuser")
	if err != nil {
		apperr.Respond(c, h.Logger, apperr.Internal("issue token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":            tok,
		"expires_in_hours": h.ExpirationHours,
		"test_user": gin.H{
			"email":    "dev@example.com",
			"username": "devuser",
		},
	})
}

// DBInfo handles GET /dev/db-info.
func (h *DevHandler) DBInfo(c *gin.Context) {
	var userCount int64 = -1
	if err := h.Pool.QueryRow(c.Request.Context(), "SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		h.Logger.WithError(err).Warn("dev db-info: count query failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"database": gin.H{
			"url_masked": maskDatabaseURL(h.DatabaseURL),
			"max_conns":  h.Pool.Stat().MaxConns(),
		},
		"tables": gin.H{
			"users": gin.H{"count": userCount},
		},
	})
}

// maskDatabaseURL hides credentials between the scheme and the host.
func maskDatabaseURL(url string) string {
	at := strings.Index(url, "@")
	scheme := strings.Index(url, "://")
	if at == -1 || scheme == -1 || scheme+3 > at {
		return "***"
	}
	return url[:scheme+3] + "***" + url[at:]
}
