package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"shutterbook/client/api"
	"shutterbook/client/session"
	"shutterbook/models"

	"go.uber.org/zap"
)

// MinFetchInterval is the shortest gap between two completed fetches of the caller's bookings.
const MinFetchInterval = 5 * time.Second

// API is the part of the REST client the store calls.
type API interface {
	CreateBooking(ctx context.Context, token string, draft models.BookingRequest) (*models.Booking, error)
	ListMyBookings(ctx context.Context, token string) ([]models.Booking, error)
	ListAllBookings(ctx context.Context, token string, status models.BookingStatus) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, token, id string, status models.BookingStatus, notes string) (*models.Booking, error)
	CancelBooking(ctx context.Context, token, id string) (*models.CancelResult, error)
}

// Sessions supplies the acting identity. *session.Manager implements it.
type Sessions interface {
	Current() session.Session
	Generation() uint64
	Subscribe(fn func(session.Session)) func()
	Invalidate(ctx context.Context)
}

// ErrorState is the message and flag pair a view renders.
type ErrorState struct {
	Message string
	Failed  bool
}

// Store mediates every booking operation against the API for one session lifetime.
type Store struct {
	api      API
	sessions Sessions
	logger   *zap.Logger
	now      func() time.Time

	mu           sync.Mutex
	userBookings []models.Booking
	allBookings  []models.Booking
	filter       models.BookingStatus

	// debounce guard for FetchUserBookings
	inFlight  bool
	lastFetch time.Time

	userSeq uint64
	allSeq  uint64

	err      error
	staleErr error

	unsubscribe func()
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for the debounce guard.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore subscribes to session changes; call Close to stop.
func NewStore(a API, sessions Sessions, opts ...Option) *Store {
	s := &Store{
		api:      a,
		sessions: sessions,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = sessions.Subscribe(s.HandleSessionChange)
	return s
}

func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// HandleSessionChange drops everything loaded for the previous identity and resets the guard.
func (s *Store) HandleSessionChange(session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userBookings = nil
	s.allBookings = nil
	s.inFlight = false
	s.lastFetch = time.Time{}
	s.userSeq++
	s.allSeq++
	s.err = nil
	s.staleErr = nil
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Store) clearErr() {
	s.setErr(nil)
}

// fail records a primary-operation error and ends the session on a server 401. The session
// reset clears the error state, so the error is stored after it.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.logger.Warn("booking operation failed", zap.String("op", op), zap.Error(err))
	s.handleUnauthorized(ctx, err)
	s.setErr(err)
	return err
}

func (s *Store) handleUnauthorized(ctx context.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		s.sessions.Invalidate(ctx)
	}
}

// CreateBooking submits the draft, then refreshes the caller's list before returning.
// A failed refresh is logged and never returned.
func (s *Store) CreateBooking(ctx context.Context, draft models.BookingRequest) (*models.Booking, error) {
	sess := s.sessions.Current()
	if sess.Token == "" {
		return nil, s.fail(ctx, "create", api.ErrAuthRequired())
	}

	b, err := s.api.CreateBooking(ctx, sess.Token, draft)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.clearErr()

	if _, err := s.fetchUser(ctx); err != nil {
		s.logger.Warn("refresh after create failed", zap.String("bookingID", b.ID), zap.Error(err))
	}
	return b, nil
}

// FetchUserBookings loads the caller's bookings. It is a silent no-op while another fetch is
// in flight or within MinFetchInterval of the last completed one.
func (s *Store) FetchUserBookings(ctx context.Context) error {
	if !s.sessions.Current().Authenticated() {
		return s.fail(ctx, "fetchUser", api.ErrAuthRequired())
	}
	fetched, err := s.fetchUser(ctx)
	if err != nil {
		return s.fail(ctx, "fetchUser", err)
	}
	if fetched {
		s.clearErr()
	}
	return nil
}

// fetchUser reports whether a request was issued and applied.
func (s *Store) fetchUser(ctx context.Context) (bool, error) {
	sess := s.sessions.Current()
	if !sess.Authenticated() {
		return false, api.ErrAuthRequired()
	}

	s.mu.Lock()
	if s.inFlight || (!s.lastFetch.IsZero() && s.now().Sub(s.lastFetch) < MinFetchInterval) {
		s.mu.Unlock()
		s.logger.Debug("fetch suppressed by debounce guard")
		return false, nil
	}
	s.inFlight = true
	s.userSeq++
	seq := s.userSeq
	gen := s.sessions.Generation()
	s.mu.Unlock()

	list, err := s.api.ListMyBookings(ctx, sess.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.sessions.Generation() || seq != s.userSeq {
		// The session changed while the request was out; its guard was already reset.
		s.logger.Debug("discarding stale user bookings response")
		return false, nil
	}
	s.inFlight = false
	s.lastFetch = s.now()
	if err != nil {
		return false, err
	}
	s.userBookings = list
	return true, nil
}

func (s *Store) requireAdmin(ctx context.Context, op string) (session.Session, error) {
	sess := s.sessions.Current()
	if !sess.IsAdmin() {
		return sess, s.fail(ctx, op, api.ErrPermissionDenied())
	}
	return sess, nil
}

// FetchAllBookings loads every booking, filtered by status ("" for all). Non-admins get an
// empty list and a permission error without a request being made.
func (s *Store) FetchAllBookings(ctx context.Context, filter models.BookingStatus) ([]models.Booking, error) {
	sess, err := s.requireAdmin(ctx, "fetchAll")
	if err != nil {
		return []models.Booking{}, err
	}
	list, err := s.fetchAll(ctx, sess, filter)
	if err != nil {
		return []models.Booking{}, s.fail(ctx, "fetchAll", err)
	}
	s.clearErr()
	return list, nil
}

func (s *Store) fetchAll(ctx context.Context, sess session.Session, filter models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	s.allSeq++
	seq := s.allSeq
	s.filter = filter
	gen := s.sessions.Generation()
	s.mu.Unlock()

	list, err := s.api.ListAllBookings(ctx, sess.Token, filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.sessions.Generation() && seq == s.allSeq {
		s.allBookings = list
		s.staleErr = nil
	} else {
		s.logger.Debug("not applying superseded all-bookings response", zap.String("filter", string(filter)))
	}
	return list, nil
}

// UpdateBookingStatus applies an admin transition, then reloads the admin list with the
// current filter. A failed reload raises the stale signal instead of an error.
func (s *Store) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, notes string) (*models.Booking, error) {
	sess, err := s.requireAdmin(ctx, "updateStatus")
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateBookingStatus(ctx, sess.Token, id, status, notes)
	if err != nil {
		return nil, s.fail(ctx, "updateStatus", err)
	}
	s.clearErr()

	if _, err := s.fetchAll(ctx, sess, s.Filter()); err != nil {
		s.logger.Warn("refresh after status update failed", zap.String("bookingID", id), zap.Error(err))
		s.markStale(*updated, err)
		s.handleUnauthorized(ctx, err)
	}
	return updated, nil
}

// markStale patches the cached admin list with the updated booking and records why it may lag.
func (s *Store) markStale(updated models.Booking, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleErr = reason
	patched := s.allBookings[:0:0]
	for _, b := range s.allBookings {
		if b.ID == updated.ID {
			if s.filter != "" && updated.Status != s.filter {
				continue
			}
			b = updated
		}
		patched = append(patched, b)
	}
	s.allBookings = patched
}

// CancelBooking deletes a pending booking. Lists are left for the caller to refresh.
func (s *Store) CancelBooking(ctx context.Context, id string) (*models.CancelResult, error) {
	sess := s.sessions.Current()
	if sess.Token == "" {
		return nil, s.fail(ctx, "cancel", api.ErrAuthRequired())
	}
	res, err := s.api.CancelBooking(ctx, sess.Token, id)
	if err != nil {
		return nil, s.fail(ctx, "cancel", err)
	}
	s.clearErr()
	return res, nil
}

// UserBookings returns the last applied list of the caller's bookings.
func (s *Store) UserBookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Booking(nil), s.userBookings...)
}

// AllBookings returns the last applied admin list.
func (s *Store) AllBookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Booking(nil), s.allBookings...)
}

// Filter is the status filter of the most recent admin list request.
func (s *Store) Filter() models.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Err returns the error of the last primary operation, or nil after a success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) ErrorState() ErrorState {
	err := s.Err()
	if err == nil {
		return ErrorState{}
	}
	return ErrorState{Message: api.UserMessage(err), Failed: true}
}

// Stale reports that a status update succeeded but the admin list could not be reloaded.
func (s *Store) Stale() bool {
	return s.StaleErr() != nil
}

func (s *Store) StaleErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staleErr
}
