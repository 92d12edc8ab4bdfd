package bookingform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shutterbook/client/api"
	"shutterbook/client/session"
	"shutterbook/models"

	"go.uber.org/zap"
)

// State of the submission.
type State int

const (
	Ready State = iota
	AwaitingAuth
	Submitting
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case AwaitingAuth:
		return "awaiting_auth"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

const (
	// RedirectDelay separates the success message from the redirect to the bookings list.
	RedirectDelay  = 2 * time.Second
	SuccessMessage = "Booking request submitted! We will confirm your slot shortly."
)

// ErrSubmissionInProgress rejects a Submit while another one has not finished.
var ErrSubmissionInProgress = errors.New("a booking submission is already in progress")

// Creator is the part of the booking store the flow uses.
type Creator interface {
	CreateBooking(ctx context.Context, draft models.BookingRequest) (*models.Booking, error)
}

// Sessions is the part of the session manager the flow uses.
type Sessions interface {
	Current() session.Session
	Subscribe(fn func(session.Session)) func()
}

// Prompter opens the login or registration prompt.
type Prompter interface {
	OpenAuthPrompt()
}

// Navigator shows the outcome of a submission.
type Navigator interface {
	ShowSuccess(message string)
	RedirectToBookings()
}

// AfterFunc runs f once after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Flow collects a draft and submits it once a session exists, holding it across a login prompt.
type Flow struct {
	store     Creator
	prompter  Prompter
	navigator Navigator
	afterFunc AfterFunc
	logger    *zap.Logger

	mu            sync.Mutex
	draft         models.BookingRequest
	held          *models.BookingRequest
	state         State
	authenticated bool
	stopRedirect  func() bool

	unsubscribe func()
}

type Option func(*Flow)

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(f *Flow) { f.afterFunc = fn }
}

func New(store Creator, sessions Sessions, prompter Prompter, navigator Navigator, opts ...Option) *Flow {
	f := &Flow{
		store:     store,
		prompter:  prompter,
		navigator: navigator,
		afterFunc: realAfterFunc,
		logger:    zap.NewNop(),
		state:     Ready,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.authenticated = sessions.Current().Authenticated()
	f.unsubscribe = sessions.Subscribe(f.onSessionChange)
	return f
}

// Close stops tracking the session and cancels a pending redirect.
func (f *Flow) Close() {
	f.unsubscribe()
	f.mu.Lock()
	stop := f.stopRedirect
	f.stopRedirect = nil
	f.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (f *Flow) onSessionChange(s session.Session) {
	f.mu.Lock()
	f.authenticated = s.Authenticated()
	f.mu.Unlock()
}

// SelectService sets the service. The price is left at 0 until a package is picked.
func (f *Flow) SelectService(serviceType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.ServiceType = serviceType
	f.draft.Price = priceFor(f.draft.PackageType)
}

// SelectPackage sets the package and recomputes the price from the catalog.
func (f *Flow) SelectPackage(packageType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.PackageType = packageType
	f.draft.Price = priceFor(packageType)
}

func priceFor(packageType string) float64 {
	price, _ := models.PackagePrice(packageType)
	return price
}

func (f *Flow) SetDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Date = date
}

func (f *Flow) SetLocation(location string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Location = location
}

func (f *Flow) SetAdditionalRequirements(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.AdditionalRequirements = text
}

func (f *Flow) Draft() models.BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func validate(d models.BookingRequest) error {
	if missing := d.MissingFields(); len(missing) > 0 {
		return api.Local(api.KindValidation, "Please fill in all required fields: "+strings.Join(missing, ", "))
	}
	if d.Price <= 0 {
		return api.Local(api.KindValidation, "Please select a package")
	}
	return nil
}

// Submit validates the draft and creates the booking. When no one is logged in it holds the
// draft, opens the auth prompt and returns (nil, nil); OnAuthPromptClosed resumes it.
func (f *Flow) Submit(ctx context.Context) (*models.Booking, error) {
	f.mu.Lock()
	if f.state != Ready {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	draft := f.draft
	if err := validate(draft); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.held = &draft
	if !f.authenticated {
		f.state = AwaitingAuth
		f.mu.Unlock()
		f.logger.Debug("submission held until login")
		f.prompter.OpenAuthPrompt()
		return nil, nil
	}
	f.state = Submitting
	f.mu.Unlock()

	return f.submit(ctx, draft)
}

// OnAuthPromptClosed resumes a held submission if a session now exists. Otherwise the flow
// goes back to Ready and the user has to submit again.
func (f *Flow) OnAuthPromptClosed(ctx context.Context) (*models.Booking, error) {
	f.mu.Lock()
	if f.state != AwaitingAuth {
		f.mu.Unlock()
		return nil, nil
	}
	if !f.authenticated || f.held == nil {
		f.state = Ready
		f.held = nil
		f.mu.Unlock()
		f.logger.Debug("auth prompt closed without login")
		return nil, nil
	}
	draft := *f.held
	f.state = Submitting
	f.mu.Unlock()

	return f.submit(ctx, draft)
}

func (f *Flow) submit(ctx context.Context, draft models.BookingRequest) (*models.Booking, error) {
	b, err := f.store.CreateBooking(ctx, draft)

	f.mu.Lock()
	f.state = Ready
	f.held = nil
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn("booking submission failed", zap.Error(err))
		return nil, err
	}
	f.draft = models.BookingRequest{}
	f.mu.Unlock()

	f.navigator.ShowSuccess(SuccessMessage)
	stop := f.afterFunc(RedirectDelay, f.navigator.RedirectToBookings)
	f.mu.Lock()
	prev := f.stopRedirect
	f.stopRedirect = stop
	f.mu.Unlock()
	if prev != nil {
		prev()
	}
	return b, nil
}
