package client

import (
	"context"
	"errors"
	"net/http"

	"shutterbook/client/adminreview"
	"shutterbook/client/api"
	"shutterbook/client/booking"
	"shutterbook/client/bookingform"
	"shutterbook/client/session"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SDK holds the components for one user of one studio API.
type SDK struct {
	API      *api.Client
	Sessions *session.Manager
	Bookings *booking.Store
	logger   *zap.Logger
}

type Option func(*options)

type options struct {
	logger  *zap.Logger
	storage session.Storage
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStorage overrides the storage chosen from Config.SessionFile.
func WithStorage(s session.Storage) Option {
	return func(o *options) { o.storage = s }
}

// New builds the SDK and restores a persisted session, if any.
func New(ctx context.Context, cfg Config, opts ...Option) (*SDK, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("client: API URL is required")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = newLogger(cfg.LogLevel)
	}
	if o.storage == nil {
		switch {
		case cfg.SessionFile != "" && cfg.SessionKey != "":
			o.storage = session.NewEncryptedFileStorage(cfg.SessionFile, cfg.SessionKey)
		case cfg.SessionFile != "":
			o.storage = session.NewFileStorage(cfg.SessionFile)
		default:
			o.storage = session.NewMemoryStorage()
		}
	}

	apiOpts := []api.Option{api.WithLogger(o.logger.Named("api"))}
	if cfg.Timeout > 0 {
		apiOpts = append(apiOpts, api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	apiClient := api.New(cfg.APIURL, apiOpts...)

	sessions := session.NewManager(apiClient, o.storage, session.WithLogger(o.logger.Named("session")))
	// An unreadable store leaves the session anonymous; Restore has logged it.
	_ = sessions.Restore(ctx)
	store := booking.NewStore(apiClient, sessions, booking.WithLogger(o.logger.Named("bookings")))

	return &SDK{API: apiClient, Sessions: sessions, Bookings: store, logger: o.logger}, nil
}

// NewBookingForm starts a booking form bound to the SDK's session and store.
func (s *SDK) NewBookingForm(prompter bookingform.Prompter, navigator bookingform.Navigator) *bookingform.Flow {
	return bookingform.New(s.Bookings, s.Sessions, prompter, navigator, bookingform.WithLogger(s.logger.Named("form")))
}

func (s *SDK) AdminReview() *adminreview.Flow {
	return adminreview.New(s.Bookings)
}

func (s *SDK) Close() {
	s.Bookings.Close()
	_ = s.logger.Sync()
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
