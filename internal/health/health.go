package health

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	Components map[string]interface{} `json:"components"`
}

// StartHealthServer starts the health check HTTP server. admissionDB is nil
// when no external admission store is configured.
func StartHealthServer(cfg *config.Config, botUsername string, admissionDB *sql.DB, logger *zap.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := checkHealth(botUsername, admissionDB, logger)

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "healthy" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("alive"))
	})

	addr := fmt.Sprintf(":%d", cfg.HealthCheckPort)
	logger.Info("Starting health check server", zap.String("addr", addr))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Health server error", zap.Error(err))
		}
	}()
}

func checkHealth(botUsername string, admissionDB *sql.DB, logger *zap.Logger) HealthResponse {
	health := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().Format(time.RFC3339),
		Components: make(map[string]interface{}),
	}

	health.Components["telegram"] = fmt.Sprintf("authorized as %s", botUsername)

	// The admission store is advisory and fail-open, so a broken store
	// degrades the report without flipping overall health.
	if admissionDB == nil {
		health.Components["admission_store"] = "not configured (in-process)"
	} else if err := admissionDB.Ping(); err != nil {
		health.Components["admission_store"] = map[string]string{
			"status": "unreachable (failing open)",
			"error":  err.Error(),
		}
		logger.Warn("Admission store health check failed", zap.Error(err))
	} else {
		health.Components["admission_store"] = "healthy"
	}

	return health
}
