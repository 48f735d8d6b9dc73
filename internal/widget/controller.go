package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ControllerOptions tunes a Controller. The zero value is usable.
type ControllerOptions struct {
	// PlaceholderDelay is the pause between the user message and the placeholder.
	// Zero means no pause.
	PlaceholderDelay time.Duration
	Logger           *slog.Logger
	// Now is the clock used for message timestamps.
	Now func() time.Time
}

// Controller owns one widget conversation: the transcript, the visibility of
// the popup and the single outstanding exchange with the answer service.
//
// Submissions are serialized: while an exchange is outstanding further
// submissions are rejected with ErrBusy.
type Controller struct {
	answers AnswerClient
	delay   time.Duration
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	messages    []Message
	visible     bool
	phase       Phase
	placeholder uuid.UUID
	closed      bool
	subscribers map[int]chan Snapshot
	nextSubID   int
	inflight    sync.WaitGroup
}

// NewController is the constructor for a Controller.
func NewController(answers AnswerClient, opts ControllerOptions) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PlaceholderDelay < 0 {
		opts.PlaceholderDelay = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		answers:     answers,
		delay:       opts.PlaceholderDelay,
		logger:      opts.Logger,
		now:         opts.Now,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[int]chan Snapshot),
	}
}

// Exchange is one accepted submission. Its Result is delivered exactly once.
type Exchange struct {
	Question string
	done     chan struct{}
	result   Result
}

// Result is how an exchange ended.
type Result struct {
	Outcome Outcome
	// Answer is the assistant message that replaced the placeholder.
	Answer Message
	// Err is the underlying failure for OutcomeFailed and OutcomeUnavailable.
	Err error
}

// Wait blocks until the exchange is resolved or ctx ends.
func (e *Exchange) Wait(ctx context.Context) (Result, error) {
	select {
	case <-e.done:
		return e.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Submit appends the user message and starts the exchange with the answer service.
// Blank input returns ErrEmptyInput and changes nothing.
func (c *Controller) Submit(text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.messages = append(c.messages, c.newMessage(RoleUser, text, false))
	c.phase = PhaseUserMessageAppended
	c.inflight.Add(1)
	c.publishLocked()
	c.mu.Unlock()

	ex := &Exchange{Question: text, done: make(chan struct{})}
	go c.run(ex)
	return ex, nil
}

// run drives one exchange from the placeholder to its resolution.
func (c *Controller) run(ex *Exchange) {
	defer c.inflight.Done()

	if c.delay > 0 {
		t := time.NewTimer(c.delay)
		select {
		case <-t.C:
		case <-c.ctx.Done():
			t.Stop()
		}
	}

	c.mu.Lock()
	ph := c.newMessage(RoleAssistant, PlaceholderText, true)
	c.placeholder = ph.ID
	c.messages = append(c.messages, ph)
	c.phase = PhasePending
	c.publishLocked()
	c.mu.Unlock()

	answer, err := c.answers.Ask(c.ctx, ex.Question)
	c.resolve(ex, answer, err)
}

// resolve is the single exit path of an exchange.
func (c *Controller) resolve(ex *Exchange, answer string, err error) {
	res := Result{Outcome: OutcomeAnswered, Err: err}
	switch {
	case errors.Is(err, ErrMissingAnswer):
		res.Outcome = OutcomeUnavailable
		answer = UnavailableText
	case err != nil:
		res.Outcome = OutcomeFailed
		answer = ApologyText
		c.logger.Error("answer service exchange failed", "question", ex.Question, "error", err)
	case answer == "":
		res.Outcome = OutcomeUnavailable
		answer = UnavailableText
	}

	c.mu.Lock()
	c.removePlaceholderLocked()
	res.Answer = c.newMessage(RoleAssistant, answer, false)
	c.messages = append(c.messages, res.Answer)
	c.phase = PhaseResolved
	c.publishLocked()
	c.phase = PhaseIdle
	c.publishLocked()
	c.mu.Unlock()

	ex.result = res
	close(ex.done)
}

func (c *Controller) removePlaceholderLocked() {
	if c.placeholder == uuid.Nil {
		return
	}
	for i, m := range c.messages {
		if m.Pending && m.ID == c.placeholder {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			break
		}
	}
	c.placeholder = uuid.Nil
}

func (c *Controller) newMessage(role Role, text string, pending bool) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		Pending:   pending,
		CreatedAt: c.now(),
	}
}

// IsBusy reports whether a placeholder is waiting for an answer.
func (c *Controller) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placeholder != uuid.Nil
}

// ToggleVisibility flips the popup and returns the new visibility.
func (c *Controller) ToggleVisibility() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = !c.visible
	c.publishLocked()
	return c.visible
}

// Visible reports whether the popup is open.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Phase returns where the current exchange is in its lifecycle.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyMessagesLocked()
}

// Snapshot returns a copy of the whole controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Visible:  c.visible,
		Busy:     c.placeholder != uuid.Nil,
		Phase:    c.phase,
		Messages: c.copyMessagesLocked(),
	}
}

func (c *Controller) copyMessagesLocked() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Subscribe returns a channel receiving a snapshot after every state change,
// and a function to stop the subscription. A slow reader misses intermediate
// snapshots but always receives the latest one.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot, 8)
	id := c.nextSubID
	c.nextSubID++
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

func (c *Controller) hasSubscribers() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers) > 0
}

func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for id, ch := range c.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full buffer: drop the oldest snapshot to make room for the newest.
		select {
		case <-ch:
			c.logger.Debug("dropped stale widget snapshot", "subscriber", id)
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close stops the controller. An outstanding exchange is cut short and still
// resolves its placeholder before Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.inflight.Wait()

	c.mu.Lock()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
	c.mu.Unlock()
}
