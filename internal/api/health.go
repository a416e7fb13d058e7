package api

import (
	"net/http"

	"go.uber.org/zap"
)

// Health handles GET /health. It reports degraded dependencies without
// failing the probe unless Postgres itself is unreachable, since every
// marketplace operation needs the database.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "postgres": "ok", "redis": "ok"}
	code := http.StatusOK

	if err := s.PG.DB.PingContext(r.Context()); err != nil {
		s.Logger.Error("Postgres health check failed", zap.Error(err))
		status["status"] = "unhealthy"
		status["postgres"] = "unreachable"
		code = http.StatusServiceUnavailable
	}
	if s.Store != nil {
		if err := s.Store.Client.Ping(r.Context()).Err(); err != nil {
			s.Logger.Warn("Redis health check failed", zap.Error(err))
			status["redis"] = "unreachable"
			if status["status"] == "ok" {
				status["status"] = "degraded"
			}
		}
	}

	writeJSON(w, code, status)
}
