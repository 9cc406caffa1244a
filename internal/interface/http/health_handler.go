package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// HealthHandler reports liveness and the state of the backing services.
type HealthHandler struct {
	Pool    *pgxpool.Pool
	Logger  *logrus.Logger
	started time.Time
}

func NewHealthHandler(pool *pgxpool.Pool, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Pool: pool, Logger: logger, started: time.Now()}
}

// Check handles GET /api/v1/health. It returns 503 when the database is
// unreachable so load balancers stop routing to a broken instance.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if h.Pool == nil {
		status = http.StatusServiceUnavailable
		dbStatus = "not configured"
	} else if err := h.Pool.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
		h.Logger.WithError(err).Warn("health check: database ping failed")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	body := gin.H{
		"status":         statusWord(status),
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  mem.HeapAlloc / (1 << 20),
	}
	if h.Pool != nil {
		stat := h.Pool.Stat()
		body["db_pool"] = gin.H{
			"total_conns": stat.TotalConns(),
			"idle_conns":  stat.IdleConns(),
			"max_conns":   stat.MaxConns(),
		}
	}
	c.JSON(status, body)
}

func statusWord(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
