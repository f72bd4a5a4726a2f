package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when running on in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Status reports liveness and, when a database is configured, whether it answers a ping.
func (s *Service) Status(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: "memory"}
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		telemetry.Warn("health.db_ping_failed", map[string]any{"error": err})
		return Status{OK: false, Database: "unavailable"}
	}
	return Status{OK: true, Database: "ok"}
}

// RegisterRoutes attaches the health route.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		st := s.Status(c.Request.Context())
		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, st)
	})
}
