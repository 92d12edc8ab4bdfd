package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shutterbook/models"

	"go.uber.org/zap"
)

const defaultTimeout = 20 * time.Second

// Client talks to the studio REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API rooted at baseURL, e.g. "https://studio.example".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, reqBody, respBody any) error {
	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return &Error{Kind: KindValidation, Message: "request could not be encoded", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "request could not be built", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "response could not be read", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(b, &eb)
		msg := eb.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		apiErr := &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Message: msg}
		c.logger.Info("API request rejected",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("message", msg), zap.String("details", eb.Details))
		return apiErr
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "unexpected response shape", Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
		}
	}
	return nil
}

func requireToken(token string) error {
	if token == "" {
		return ErrAuthRequired()
	}
	return nil
}

// Login exchanges credentials for a user and token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a customer account and returns its user and token.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestAdminOTP asks the server to send a one-time password to an admin email.
func (c *Client) RequestAdminOTP(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/admin/otp/request", "", models.OTPRequest{Email: email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyAdminOTP exchanges an admin one-time password for a user and token.
func (c *Client) VerifyAdminOTP(ctx context.Context, email, otp string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/admin/otp/verify", "", models.OTPVerification{Email: email, OTP: otp}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking submits a draft.
func (c *Client) CreateBooking(ctx context.Context, token string, draft models.BookingRequest) (*models.Booking, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out struct {
		Booking models.Booking `json:"booking"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/bookings", token, draft, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// ListMyBookings returns the caller's own bookings.
func (c *Client) ListMyBookings(ctx context.Context, token string) ([]models.Booking, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookings", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// ListAllBookings returns every booking, optionally filtered by status. Admin only.
func (c *Client) ListAllBookings(ctx context.Context, token string, status models.BookingStatus) ([]models.Booking, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	path := "/api/bookings/admin/all"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var out struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// UpdateBookingStatus applies an admin transition with an optional note.
func (c *Client) UpdateBookingStatus(ctx context.Context, token, id string, status models.BookingStatus, notes string) (*models.Booking, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out struct {
		Booking models.Booking `json:"booking"`
	}
	body := models.StatusUpdate{Status: status, AdminNotes: notes}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/bookings/admin/status/"+url.PathEscape(id), token, body, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// CancelBooking deletes one of the caller's pending bookings.
func (c *Client) CancelBooking(ctx context.Context, token, id string) (*models.CancelResult, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.CancelResult
	if err := c.doJSON(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
