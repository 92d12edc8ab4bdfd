package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	bookingRepo "shutterbook/database/repository/booking"
	userRepo "shutterbook/database/repository/user"
	"shutterbook/handlers"
	"shutterbook/models"
	"shutterbook/services/booking"
	"shutterbook/services/user"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := userRepo.NewMemoryUserRepo()
	userSvc := &user.DefaultUserService{Repo: users, OTP: utils.NewMemoryOTPStore(), Sender: user.LogOTPSender{}}
	require.NoError(t, userSvc.EnsureAdmin(context.Background(), "Admin", "admin@studio.test", "Admin1234"))
	bookingSvc := booking.NewBookingService(bookingRepo.NewMemoryBookingRepo(), nil)

	hb := handlers.NewHandlerBundle(users, handlers.NewUserHandler(userSvc), handlers.NewBookingHandler(bookingSvc))
	utils.CheckHealth(context.Background(), nil, nil)
	return &testServer{router: NewRouter(hb, RouterOptions{AllowedOrigins: "*", MaxRequestsPerMin: 1000})}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	code, body := s.do(t, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: email, Password: password})
	require.Equal(t, http.StatusOK, code, body)
	return body["token"].(string)
}

var draft = models.BookingRequest{
	ServiceType: "Wedding Shoot",
	PackageType: "Silver Package",
	Date:        "2025-06-01",
	Location:    "Dehradun",
	Price:       75000,
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/api/auth/register", "", models.Registration{Name: "Asha", Email: "asha@example.com", Password: "Secret123"})
	require.Equal(t, http.StatusCreated, code)
	u := body["user"].(map[string]any)
	assert.Equal(t, "customer", u["role"])
	assert.NotContains(t, u, "passwordHash")
	assert.NotEmpty(t, body["token"])

	code, body = s.do(t, http.MethodPost, "/api/auth/register", "", models.Registration{Name: "Asha", Email: "asha@example.com", Password: "Secret123"})
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, body["message"])

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "asha@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodPost, "/api/auth/admin/otp/request", "", models.OTPRequest{Email: "asha@example.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["message"])

	code, _ = s.do(t, http.MethodPost, "/api/auth/admin/otp/verify", "", models.OTPVerification{Email: "admin@studio.test", OTP: "000000x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBookingLifecycleRoutes(t *testing.T) {
	s := newTestServer(t)
	_, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.Registration{Name: "Asha", Email: "asha@example.com", Password: "Secret123"})
	customer := s.login(t, "asha@example.com", "Secret123")
	admin := s.login(t, "admin@studio.test", "Admin1234")

	code, _ := s.do(t, http.MethodPost, "/api/bookings", "", draft)
	assert.Equal(t, http.StatusUnauthorized, code)

	tampered := draft
	tampered.Price = 1
	code, body := s.do(t, http.MethodPost, "/api/bookings", customer, tampered)
	require.Equal(t, http.StatusCreated, code)
	created := body["booking"].(map[string]any)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, 75000.0, created["price"])
	id := created["_id"].(string)

	code, body = s.do(t, http.MethodGet, "/api/bookings", customer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["bookings"], 1)

	code, body = s.do(t, http.MethodGet, "/api/bookings/admin/all", customer, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Insufficient permission", body["message"])

	code, _ = s.do(t, http.MethodPatch, "/api/bookings/admin/status/"+id, customer, models.StatusUpdate{Status: models.StatusApproved})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPatch, "/api/bookings/admin/status/"+id, admin, models.StatusUpdate{Status: models.StatusCompleted})
	assert.Equal(t, http.StatusConflict, code)

	code, body = s.do(t, http.MethodPatch, "/api/bookings/admin/status/"+id, admin, models.StatusUpdate{Status: models.StatusApproved, AdminNotes: "Confirmed"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", body["booking"].(map[string]any)["status"])

	code, body = s.do(t, http.MethodGet, "/api/bookings/admin/all?status=approved", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["bookings"], 1)

	code, body = s.do(t, http.MethodGet, "/api/bookings/admin/all?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["bookings"], 0)

	code, body = s.do(t, http.MethodDelete, "/api/bookings/"+id, customer, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Only pending bookings can be cancelled", body["message"])

	code, _ = s.do(t, http.MethodPatch, "/api/bookings/admin/status/missing", admin, models.StatusUpdate{Status: models.StatusApproved})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCancelRoutes(t *testing.T) {
	s := newTestServer(t)
	_, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.Registration{Name: "A", Email: "a@example.com", Password: "Secret123"})
	_, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.Registration{Name: "B", Email: "b@example.com", Password: "Secret123"})
	owner := s.login(t, "a@example.com", "Secret123")
	other := s.login(t, "b@example.com", "Secret123")

	_, body := s.do(t, http.MethodPost, "/api/bookings", owner, draft)
	id := body["booking"].(map[string]any)["_id"].(string)

	code, _ := s.do(t, http.MethodDelete, "/api/bookings/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(t, http.MethodDelete, "/api/bookings/"+id, owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, id, body["booking"].(map[string]any)["_id"])

	code, _ = s.do(t, http.MethodDelete, "/api/bookings/"+id, owner, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shutterbook_http_requests_total")
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig("*")
	assert.True(t, all.AllowAllOrigins)
	assert.Empty(t, all.AllowOrigins)

	listed := corsConfig("https://studio.example, https://admin.studio.example")
	assert.False(t, listed.AllowAllOrigins)
	assert.Equal(t, []string{"https://studio.example", "https://admin.studio.example"}, listed.AllowOrigins)
}
