package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gift-shop/config"
	"gift-shop/models"
	"gift-shop/services"
	"gift-shop/utils"
)

// APIClient wraps the auth and catalog calls that go through the proxy.
// Auth helpers consult the per-action attempt limiter before any
// network round trip and clear its record on success.
type APIClient struct {
	baseURL   string
	client    *http.Client
	limiter   *services.AttemptLimiter
	csrfToken string
	token     string
}

func NewAPIClient(limiter *services.AttemptLimiter) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(config.AppConfig.UpstreamBaseURL, "/"),
		client: &http.Client{
			Timeout: config.AppConfig.UpstreamTimeout,
		},
		limiter: limiter,
	}
}

// SetBaseURL points the client at a different gateway, e.g. in tests.
func (c *APIClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

func (c *APIClient) SetCSRFToken(token string) { c.csrfToken = token }
func (c *APIClient) SetAuthToken(token string) { c.token = token }

type apiEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// parseAPIError mirrors the response-shape contract of the proxy: one
// uniform "parse success flag, else read message" pattern.
func parseAPIError(envelope *apiEnvelope, status int) error {
	if envelope == nil {
		return errors.New("Something went wrong. Please try again.")
	}
	if status == http.StatusTooManyRequests {
		if envelope.Message != "" {
			return errors.New(envelope.Message)
		}
		return errors.New("Too many requests. Please slow down.")
	}
	if status == http.StatusServiceUnavailable {
		return errors.New("Service unavailable. Please try again later.")
	}
	if len(envelope.Errors) > 0 {
		parts := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			parts = append(parts, e.Message)
		}
		return errors.New(strings.Join(parts, " · "))
	}
	if envelope.Message != "" {
		return errors.New(envelope.Message)
	}
	return errors.New("Something went wrong. Please try again.")
}

func (c *APIClient) do(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", c.csrfToken)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope *apiEnvelope
	if len(raw) > 0 {
		envelope = &apiEnvelope{}
		if err := json.Unmarshal(raw, envelope); err != nil {
			envelope = nil
		}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if envelope != nil && envelope.Success != nil && !*envelope.Success {
		ok = false
	}
	if !ok {
		return nil, parseAPIError(envelope, resp.StatusCode)
	}

	if envelope != nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	return raw, nil
}

// authCall runs one rate-limited auth action: limiter first, then the
// request, then the explicit clear on success.
func (c *APIClient) authCall(ctx context.Context, action, path string, payload interface{}) (json.RawMessage, error) {
	if err := c.limiter.Check(action); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	c.limiter.Clear(action)
	return data, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	payload := map[string]string{
		"email":    utils.NormalizeEmail(email),
		"password": password,
	}
	data, err := c.authCall(ctx, "login", "auth/login", payload)
	if err != nil {
		return nil, err
	}

	var out models.LoginResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.New("Something went wrong. Please try again.")
	}
	return &out, nil
}

func (c *APIClient) Register(ctx context.Context, email, password, fullName string) (*models.LoginResponse, error) {
	payload := map[string]string{
		"email":    utils.NormalizeEmail(email),
		"password": password,
		"fullName": fullName,
	}
	data, err := c.authCall(ctx, "signup", "auth/register", payload)
	if err != nil {
		return nil, err
	}

	var out models.LoginResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.New("Something went wrong. Please try again.")
	}
	return &out, nil
}

func (c *APIClient) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": utils.NormalizeEmail(email)}
	_, err := c.authCall(ctx, "forgot-password", "auth/forgot-password", payload)
	return err
}

func (c *APIClient) VerifyCode(ctx context.Context, email, code string) error {
	payload := map[string]string{
		"email": utils.NormalizeEmail(email),
		"code":  code,
	}
	_, err := c.authCall(ctx, "verify-code", "auth/verify-email", payload)
	return err
}

func (c *APIClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	_, err := c.authCall(ctx, "change-password", "auth/change-password", payload)
	return err
}

// Products fetches the catalog with the typed filter's parameters.
func (c *APIClient) Products(ctx context.Context, filter models.ProductFilter) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "products?"+filter.Values().Encode(), nil)
}
