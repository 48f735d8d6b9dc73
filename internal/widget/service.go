package widget

//go:generate mockgen -destination=./service_mock_test.go -package=widget -source=service.go Service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service defines the business logic for the WidgetService: one Controller
// per browser page session, kept in memory only.
type Service interface {
	// Creates a new session with an empty conversation and a closed popup.
	CreateSession(ctx context.Context) (uuid.UUID, Snapshot, error)

	// Returns the current state of a session.
	GetSession(ctx context.Context, id uuid.UUID) (Snapshot, error)

	// Submits visitor text to the session's conversation.
	SubmitMessage(ctx context.Context, id uuid.UUID, text string) (Snapshot, error)

	// Opens or closes the session's popup.
	ToggleVisibility(ctx context.Context, id uuid.UUID) (Snapshot, error)

	// Subscribes to the session's state changes (used by the websocket stream).
	Subscribe(ctx context.Context, id uuid.UUID) (<-chan Snapshot, func(), error)

	// Closes every session.
	Close()
}

// ServiceOptions configures the session service.
type ServiceOptions struct {
	// PlaceholderDelay is handed to every Controller.
	PlaceholderDelay time.Duration
	// SessionTTL evicts sessions that saw no activity for that long. Zero disables eviction.
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// service is the concrete implementation of the Service interface.
type service struct {
	answers AnswerClient
	opts    ServiceOptions
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	stop chan struct{}
	done chan struct{}
}

// NewService is the constructor for the WidgetService. When SessionTTL is set
// a background sweeper evicts idle sessions until Close is called.
func NewService(answers AnswerClient, opts ServiceOptions) Service {
	return newService(answers, opts, time.Now)
}

func newService(answers AnswerClient, opts ServiceOptions, now func() time.Time) *service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &service{
		answers:  answers,
		opts:     opts,
		logger:   opts.Logger,
		now:      now,
		sessions: make(map[uuid.UUID]*session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if opts.SessionTTL > 0 {
		go s.sweepLoop(opts.SessionTTL / 2)
	} else {
		close(s.done)
	}
	return s
}

// CreateSession implements the Service interface.
func (s *service) CreateSession(ctx context.Context) (uuid.UUID, Snapshot, error) {
	id := uuid.New()
	c := NewController(s.answers, ControllerOptions{
		PlaceholderDelay: s.opts.PlaceholderDelay,
		Logger:           s.logger.With("session", id.String()),
		Now:              s.now,
	})

	s.mu.Lock()
	s.sessions[id] = &session{controller: c, lastSeen: s.now()}
	s.mu.Unlock()

	s.logger.Info("widget session created", "session", id.String())
	return id, c.Snapshot(), nil
}

// GetSession implements the Service interface.
func (s *service) GetSession(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	c, err := s.touch(id)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// SubmitMessage implements the Service interface. Blank text returns
// ErrEmptyInput together with the unchanged snapshot.
func (s *service) SubmitMessage(ctx context.Context, id uuid.UUID, text string) (Snapshot, error) {
	c, err := s.touch(id)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := c.Submit(text); err != nil {
		return c.Snapshot(), fmt.Errorf("could not submit message: %w", err)
	}
	return c.Snapshot(), nil
}

// ToggleVisibility implements the Service interface.
func (s *service) ToggleVisibility(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	c, err := s.touch(id)
	if err != nil {
		return Snapshot{}, err
	}
	c.ToggleVisibility()
	return c.Snapshot(), nil
}

// Subscribe implements the Service interface.
func (s *service) Subscribe(ctx context.Context, id uuid.UUID) (<-chan Snapshot, func(), error) {
	c, err := s.touch(id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := c.Subscribe()
	return ch, cancel, nil
}

// touch looks a session up and marks it as active.
func (s *service) touch(id uuid.UUID) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.controller, nil
}

func (s *service) sweepLoop(every time.Duration) {
	defer close(s.done)
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep closes sessions idle for longer than the TTL. A session with an
// outstanding exchange or an attached stream is never evicted.
func (s *service) sweep() int {
	cutoff := s.now().Add(-s.opts.SessionTTL)

	var expired []*Controller
	s.mu.Lock()
	for id, sess := range s.sessions {
		if !sess.lastSeen.Before(cutoff) {
			continue
		}
		if sess.controller.Phase() != PhaseIdle || sess.controller.hasSubscribers() {
			continue
		}
		expired = append(expired, sess.controller)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("evicted idle widget sessions", "count", len(expired))
	}
	return len(expired)
}

// Close implements the Service interface.
func (s *service) Close() {
	s.mu.Lock()
	select {
	case <-s.stop:
		s.mu.Unlock()
		return
	default:
		close(s.stop)
	}
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	<-s.done
	for _, sess := range sessions {
		sess.controller.Close()
	}
}
