package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"shutterbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSendsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "asha@example.com", creds.Email)

		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			User:  models.User{ID: "u1", Email: creds.Email, Role: models.RoleCustomer},
			Token: "tok-1",
		})
	}))
	defer server.Close()

	resp, err := New(server.URL + "/").Login(context.Background(), models.Credentials{Email: "asha@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusConflict, KindValidation},
		{http.StatusUnauthorized, KindAuthRequired},
		{http.StatusForbidden, KindPermissionDenied},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "server says no", "details": "x"})
			}))
			defer server.Close()

			_, err := New(server.URL).ListMyBookings(context.Background(), "tok")
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, "server says no", apiErr.Message)
		})
	}
}

func TestUserMessages(t *testing.T) {
	assert.Equal(t, "Only pending bookings can be cancelled",
		(&Error{Kind: KindValidation, Status: 400, Message: "Only pending bookings can be cancelled"}).UserMessage())
	assert.Equal(t, PermissionDeniedMessage, (&Error{Kind: KindPermissionDenied, Status: 403, Message: "Insufficient permission"}).UserMessage())
	assert.Equal(t, genericMessage, (&Error{Kind: KindServer, Status: 500, Message: "mongo exploded"}).UserMessage())
	assert.Equal(t, "invalid email or password", (&Error{Kind: KindAuthRequired, Status: 401, Message: "invalid email or password"}).UserMessage())
	assert.NotEqual(t, UserMessage(ErrPermissionDenied()), UserMessage(&Error{Kind: KindServer}))
}

func TestTokenRequiredCallsSkipNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	_, err := c.CreateBooking(ctx, "", models.BookingRequest{})
	assert.Equal(t, KindAuthRequired, KindOf(err))
	_, err = c.ListMyBookings(ctx, "")
	assert.Equal(t, KindAuthRequired, KindOf(err))
	_, err = c.ListAllBookings(ctx, "", "")
	assert.Equal(t, KindAuthRequired, KindOf(err))
	_, err = c.UpdateBookingStatus(ctx, "", "b1", models.StatusApproved, "")
	assert.Equal(t, KindAuthRequired, KindOf(err))
	_, err = c.CancelBooking(ctx, "", "b1")
	assert.Equal(t, KindAuthRequired, KindOf(err))

	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestBookingCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/bookings/admin/all":
			assert.Equal(t, "approved", r.URL.Query().Get("status"))
			_ = json.NewEncoder(w).Encode(map[string]any{"bookings": []models.Booking{{ID: "b1", Status: models.StatusApproved}}})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/bookings/admin/status/b1":
			var upd models.StatusUpdate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
			assert.Equal(t, "Confirmed slot", upd.AdminNotes)
			_ = json.NewEncoder(w).Encode(map[string]any{"booking": models.Booking{ID: "b1", Status: upd.Status, AdminNotes: upd.AdminNotes}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/bookings/b2":
			_ = json.NewEncoder(w).Encode(models.CancelResult{Message: "Booking cancelled successfully", Booking: &models.Booking{ID: "b2"}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"booking": models.Booking{ID: "b3", Status: models.StatusPending, Price: 75000}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	list, err := c.ListAllBookings(ctx, "tok", models.StatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 1)

	b, err := c.UpdateBookingStatus(ctx, "tok", "b1", models.StatusApproved, "Confirmed slot")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, b.Status)

	res, err := c.CancelBooking(ctx, "tok", "b2")
	require.NoError(t, err)
	assert.Equal(t, "b2", res.Booking.ID)

	created, err := c.CreateBooking(ctx, "tok", models.BookingRequest{ServiceType: "Wedding Shoot"})
	require.NoError(t, err)
	assert.Equal(t, 75000.0, created.Price)
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).Login(context.Background(), models.Credentials{Email: "a@example.com", Password: "x"})
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, genericMessage, UserMessage(err))
}
