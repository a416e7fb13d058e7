package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/middleware"
	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

// newsletterSubscribersKey is the Redis set holding normalized subscriber
// addresses. SADD makes repeat subscriptions idempotent.
const newsletterSubscribersKey = "newsletter:subscribers"

// SubscribeNewsletter handles POST /api/newsletter/subscribe. The endpoint is
// public: no session is required to sign up.
func (s *Server) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementNewsletterSignups("invalid")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Email is required",
		})
		return
	}

	email := validate.NormalizeEmail(req.Email)
	if msg := validate.Email(email); msg != "" {
		s.Metrics.IncrementNewsletterSignups("invalid")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   msg,
		})
		return
	}

	// Persistence is best effort. A Redis hiccup should not turn away a
	// subscriber who typed a valid address.
	if s.Store != nil {
		if err := s.Store.Client.SAdd(r.Context(), newsletterSubscribersKey, email).Err(); err != nil {
			middleware.LoggerFromRequest(r, s.Logger).Warn("Failed to store newsletter subscriber", zap.Error(err))
		}
	}

	s.Metrics.IncrementNewsletterSignups("subscribed")
	s.recordEvent(r.Context(), analytics.Event{EventType: analytics.EventNewsletterSignup})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thanks for subscribing!",
	})
}
