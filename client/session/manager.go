package session

import (
	"context"
	"sync"

	"shutterbook/client/api"
	"shutterbook/models"

	"go.uber.org/zap"
)

// AuthAPI is the part of the REST client the manager calls.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	RequestAdminOTP(ctx context.Context, email string) (string, error)
	VerifyAdminOTP(ctx context.Context, email, otp string) (*models.AuthResponse, error)
}

// Manager owns the current session. Every change is persisted before it becomes visible
// through Current and before subscribers are called.
type Manager struct {
	api    AuthAPI
	store  Storage
	logger *zap.Logger

	// writeMu serializes persist-then-publish so subscribers see changes in order.
	writeMu    sync.Mutex
	mu         sync.RWMutex
	current    Session
	generation uint64

	subMu   sync.Mutex
	subs    map[int]func(Session)
	nextSub int
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(authAPI AuthAPI, store Storage, opts ...Option) *Manager {
	m := &Manager{
		api:     authAPI,
		store:   store,
		logger:  zap.NewNop(),
		current: Anonymous(),
		subs:    make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	return m.Current().Token
}

// Generation increases on every session change. Responses issued under an older
// generation belong to a previous identity.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Subscribe registers fn for every future session change and returns its unsubscribe func.
// fn runs on the goroutine that made the change, after persistence completed, and must not
// change the session itself.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) publish(s Session) {
	m.mu.Lock()
	m.current = s
	m.generation++
	m.mu.Unlock()

	m.subMu.Lock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// Restore loads the persisted pair without any network call. A stray half is cleared.
func (m *Manager) Restore(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	e, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("session restore failed, starting anonymous", zap.Error(err))
		m.publish(Anonymous())
		return err
	}
	if e.Complete() {
		s, err := decode(e)
		if err == nil {
			m.publish(s)
			return nil
		}
		m.logger.Warn("discarding unreadable session", zap.Error(err))
	}
	if !e.Empty() {
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Warn("failed to clear partial session", zap.Error(err))
		}
	}
	m.publish(Anonymous())
	return nil
}

// Login authenticates with email and password.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (Session, error) {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		return m.Current(), err
	}
	return m.establish(ctx, resp)
}

// Register creates a customer account and logs in as it.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (Session, error) {
	resp, err := m.api.Register(ctx, reg)
	if err != nil {
		return m.Current(), err
	}
	return m.establish(ctx, resp)
}

// RequestAdminOTP asks the server to send a one-time password. The session is unchanged.
func (m *Manager) RequestAdminOTP(ctx context.Context, email string) (string, error) {
	return m.api.RequestAdminOTP(ctx, email)
}

// VerifyAdminOTP completes the admin OTP login.
func (m *Manager) VerifyAdminOTP(ctx context.Context, email, otp string) (Session, error) {
	resp, err := m.api.VerifyAdminOTP(ctx, email, otp)
	if err != nil {
		return m.Current(), err
	}
	return m.establish(ctx, resp)
}

func (m *Manager) establish(ctx context.Context, resp *models.AuthResponse) (Session, error) {
	s := fromAuth(resp)
	if !s.Authenticated() {
		return m.Current(), api.Local(api.KindServer, "login response is missing the user or token")
	}
	e, err := encode(s)
	if err != nil {
		return m.Current(), &api.Error{Kind: api.KindServer, Message: "session could not be encoded", Err: err}
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.store.Save(ctx, e); err != nil {
		m.logger.Error("failed to persist session", zap.Error(err))
		return m.Current(), &api.Error{Kind: api.KindServer, Message: "session could not be saved", Err: err}
	}
	m.publish(s)
	m.logger.Info("session established", zap.String("userID", s.UserID), zap.String("role", string(s.Role)))
	return s, nil
}

// Logout clears the persisted pair and resets to anonymous. It always succeeds;
// a storage failure is logged.
func (m *Manager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear persisted session", zap.Error(err))
	}
	m.publish(Anonymous())
}

// Invalidate ends a session the server no longer accepts.
func (m *Manager) Invalidate(ctx context.Context) {
	if !m.Current().Authenticated() {
		return
	}
	m.logger.Info("session rejected by server, logging out")
	m.Logout(ctx)
}
