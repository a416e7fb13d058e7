package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// APIError carries a backend failure response. FieldErrors is populated for
// validation failures so form pages can render messages inline.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api request failed with status %d", e.Status)
}

// Client is the dashboard's HTTP client for the marketplace API. Every
// request forwards the browser's Cookie header so the backend performs its
// own session resolution; the dashboard never re-implements authorization.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do issues a request with the forwarded cookie and decodes either the
// success body into out or the error body into an *APIError.
func (c *Client) do(ctx context.Context, method, path, cookie string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var parsed struct {
			Error       string            `json:"error"`
			FieldErrors map[string]string `json:"fieldErrors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil {
			apiErr.Message = parsed.Error
			apiErr.FieldErrors = parsed.FieldErrors
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListAdSlots(ctx context.Context, cookie string) ([]models.AdSlot, error) {
	var slots []models.AdSlot
	if err := c.do(ctx, http.MethodGet, "/api/ad-slots", cookie, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) CreateAdSlot(ctx context.Context, cookie string, payload map[string]any) error {
	return c.do(ctx, http.MethodPost, "/api/ad-slots", cookie, payload, nil)
}

func (c *Client) UpdateAdSlot(ctx context.Context, cookie, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPut, "/api/ad-slots/"+id, cookie, payload, nil)
}

func (c *Client) DeleteAdSlot(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ad-slots/"+id, cookie, nil, nil)
}

func (c *Client) UnbookAdSlot(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodPost, "/api/ad-slots/"+id+"/unbook", cookie, nil, nil)
}

func (c *Client) BookAdSlot(ctx context.Context, cookie, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPost, "/api/ad-slots/"+id+"/book", cookie, payload, nil)
}

func (c *Client) ListCampaigns(ctx context.Context, cookie string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := c.do(ctx, http.MethodGet, "/api/campaigns", cookie, nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (c *Client) CreateCampaign(ctx context.Context, cookie string, payload map[string]any) error {
	return c.do(ctx, http.MethodPost, "/api/campaigns", cookie, payload, nil)
}

func (c *Client) UpdateCampaign(ctx context.Context, cookie, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPut, "/api/campaigns/"+id, cookie, payload, nil)
}

func (c *Client) DeleteCampaign(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/campaigns/"+id, cookie, nil, nil)
}

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": email}, nil)
}
