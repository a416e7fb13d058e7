// Package session resolves request cookies into marketplace identities by
// consulting the external auth service that owns user sessions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// Directory looks up the role-scoping records linked to an auth user.
// *db.Postgres satisfies it.
type Directory interface {
	GetSponsorByUserID(ctx context.Context, userID string) (*models.Sponsor, error)
	GetPublisherByUserID(ctx context.Context, userID string) (*models.Publisher, error)
}

// Resolver turns a raw cookie header into an Identity. The cookie is
// forwarded unmodified to the session service; no token translation occurs.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	directory  Directory
	logger     *zap.Logger
}

// NewResolver creates a Resolver against the session service base URL.
func NewResolver(baseURL string, timeout time.Duration, directory Directory, logger *zap.Logger) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		directory: directory,
		logger:    logger,
	}
}

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	User *sessionUser `json:"user"`
}

// Resolve returns the caller's identity, or nil when there is no valid
// session. Transport failures and non-2xx responses from the session
// service fail open to unauthenticated, never to authenticated. Role is
// re-derived from the sponsor/publisher tables on every call: sponsor rows
// win when a user somehow has both.
func (r *Resolver) Resolve(ctx context.Context, cookieHeader string) (*models.Identity, error) {
	if cookieHeader == "" {
		return nil, nil
	}

	user := r.fetchSession(ctx, cookieHeader)
	if user == nil || user.ID == "" {
		return nil, nil
	}

	identity := &models.Identity{UserID: user.ID, Email: user.Email}

	sponsor, err := r.directory.GetSponsorByUserID(ctx, user.ID)
	if err == nil {
		identity.Role = models.RoleSponsor
		identity.SponsorID = sponsor.ID
		return identity, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("sponsor lookup: %w", err)
	}

	publisher, err := r.directory.GetPublisherByUserID(ctx, user.ID)
	if err == nil {
		identity.Role = models.RolePublisher
		identity.PublisherID = publisher.ID
		return identity, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("publisher lookup: %w", err)
	}

	// Authenticated but owns neither record; no role.
	return identity, nil
}

// fetchSession calls the session service. Every failure path collapses to
// nil so callers cannot accidentally authenticate on error.
func (r *Resolver) fetchSession(ctx context.Context, cookieHeader string) *sessionUser {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		r.logger.Warn("build session request", zap.Error(err))
		return nil
	}
	req.Header.Set("Cookie", cookieHeader)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("session service unreachable", zap.Error(err))
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		r.logger.Warn("decode session response", zap.Error(err))
		return nil
	}
	return sr.User
}
