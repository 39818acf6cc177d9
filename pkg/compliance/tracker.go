package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/duediligence"
	"github.com/lexdesk/casedesk/pkg/events"
	"github.com/lexdesk/casedesk/pkg/models"
)

// Defaults for Config.
const (
	DefaultPollInterval    = 5 * time.Second
	DefaultMaxPollFailures = 3
)

// Transcript texts.
const (
	Greeting           = "Hello! Describe the scope, jurisdiction and concerns of your due diligence request and I will run a compliance analysis."
	PlaceholderText    = "Analyzing your due diligence request. This may take a few minutes..."
	GuardrailText      = "Your request could not be processed because it violates our content guidelines."
	GenericErrorText   = "An error occurred while processing your request."
	EmptyResultText    = "The analysis completed without findings."
	SubmitFailedPrefix = "Failed to submit request: "
	PollFailedPrefix   = "Error checking request status: "
)

// Submit rejections that leave the tracker untouched.
var (
	ErrBusy   = apiclient.NewValidationError("request", "a due diligence request is already in progress")
	ErrClosed = apiclient.NewValidationError("session", "compliance session is closed")
)

// Service is the due-diligence API the tracker drives.
type Service interface {
	Submit(ctx context.Context, req duediligence.Request) (duediligence.SubmitResponse, error)
	Status(ctx context.Context, requestID string) (duediligence.StatusResponse, error)
}

// HistoryRecorder persists the transcript once a request reaches a terminal state.
type HistoryRecorder interface {
	SaveComplianceMessages(ctx context.Context, messages []models.ChatHistoryMessage) (models.ChatHistory, error)
}

// Config tunes the polling scheduler.
type Config struct {
	PollInterval time.Duration
	// MaxPollFailures is the number of consecutive transient poll failures
	// that end a request in error. 1 makes the first failure terminal.
	MaxPollFailures int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxPollFailures <= 0 {
		c.MaxPollFailures = DefaultMaxPollFailures
	}
	return c
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock driving the scheduler.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithPublisher sets the notification sink.
func WithPublisher(p events.Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

// WithHistory enables transcript persistence on terminal states.
func WithHistory(h HistoryRecorder) Option {
	return func(t *Tracker) { t.history = h }
}

// WithConfig overrides the scheduler settings.
func WithConfig(cfg Config) Option {
	return func(t *Tracker) { t.cfg = cfg }
}

// WithID sets the tracker id used in logs and notifications.
func WithID(id string) Option {
	return func(t *Tracker) { t.id = id }
}

// Tracker owns one due-diligence conversation. All methods are safe for
// concurrent use.
type Tracker struct {
	id        string
	service   Service
	publisher events.Publisher
	history   HistoryRecorder
	clock     clock.Clock
	cfg       Config
	validate  *validator.Validate
	logger    *slog.Logger

	// ctx carries caller credentials into scheduled polls.
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         State
	requestID     string
	placeholderID string
	messages      []Message
	failures      int
	// generation increments on Submit and Reset so that calls that were
	// already in flight cannot write into a newer request.
	generation        uint64
	notifiedCompleted bool
	notifiedError     bool
	closed            bool
	ticker            *clock.Ticker
	stopCh            chan struct{}
	wg                sync.WaitGroup
}

// NewTracker creates an idle tracker showing the greeting. ctx outlives
// individual HTTP requests and supplies credentials for scheduled polls.
func NewTracker(ctx context.Context, service Service, opts ...Option) *Tracker {
	t := &Tracker{
		id:        uuid.NewString(),
		service:   service,
		publisher: events.NoOpPublisher{},
		clock:     clock.New(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cfg = t.cfg.withDefaults()
	if t.publisher == nil {
		t.publisher = events.NoOpPublisher{}
	}
	t.logger = slog.Default().With("component", "compliance", "tracker_id", t.id)
	t.ctx, t.cancel = context.WithCancel(context.WithoutCancel(ctx))
	t.resetLocked()
	return t
}

// ID returns the tracker id.
func (t *Tracker) ID() string {
	return t.id
}

// State returns the externally visible state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.external()
}

// Snapshot copies the current state and transcript.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	messages := make([]Message, len(t.messages))
	copy(messages, t.messages)
	return Snapshot{
		ID:        t.id,
		State:     t.state.external(),
		RequestID: t.requestID,
		Polling:   t.ticker != nil,
		Messages:  messages,
	}
}

// Submit validates the form and starts a request. Validation failures and
// ErrBusy are returned without any network call or state change; every
// other outcome is recorded in the transcript and the returned error is nil.
func (t *Tracker) Submit(ctx context.Context, form Form) error {
	form = form.normalized()
	if err := t.validate.Struct(form); err != nil {
		return validationError(err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.state.Busy() {
		t.mu.Unlock()
		return ErrBusy
	}
	t.stopPollingLocked()
	t.generation++
	gen := t.generation
	t.state = StateSubmitting
	t.requestID = ""
	t.failures = 0
	t.notifiedCompleted = false
	t.notifiedError = false
	echo := form
	t.appendLocked(Message{
		Type:    models.ChatRoleUser,
		Content: describe(form),
		Request: &echo,
	})
	t.placeholderID = t.appendLocked(Message{
		Type:    models.ChatRoleBot,
		Content: PlaceholderText,
		Status:  MessageProcessing,
	})
	t.mu.Unlock()

	t.logger.Info("Submitting due diligence request")
	resp, err := t.service.Submit(ctx, form.request())

	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return nil
	}
	var note *events.Notification
	switch {
	case err != nil:
		note = t.failLocked(SubmitFailedPrefix + apiclient.AsError(err).Message)
	case resp.GuardrailViolated:
		note = t.failLocked(orDefault(resp.Error, GuardrailText))
	case strings.TrimSpace(resp.RequestID) == "":
		note = t.failLocked(orDefault(resp.Error, SubmitFailedPrefix+"no request id returned"))
	default:
		t.state = StateProcessing
		t.requestID = resp.RequestID
		t.startPollingLocked()
	}
	t.mu.Unlock()

	t.deliver(note)
	return nil
}

// Poll performs one status check. It is a no-op unless the tracker is
// processing and no other poll is in flight. The returned error is the
// status call failure or an unrecognized status, if any, after it has been
// applied to the state.
func (t *Tracker) Poll(ctx context.Context) (State, error) {
	t.mu.Lock()
	if t.state != StateProcessing {
		state := t.state.external()
		t.mu.Unlock()
		return state, nil
	}
	t.state = StatePolling
	gen := t.generation
	requestID := t.requestID
	t.mu.Unlock()

	resp, err := t.service.Status(ctx, requestID)

	t.mu.Lock()
	if gen != t.generation || t.state != StatePolling {
		state := t.state.external()
		t.mu.Unlock()
		return state, err
	}
	var note *events.Notification
	switch {
	case err != nil:
		note = t.pollFailedLocked(requestID, apiclient.AsError(err))
	case resp.GuardrailViolated:
		note = t.failLocked(orDefault(resp.Error, GuardrailText))
	case resp.Status == duediligence.StatusCompleted:
		note = t.completeLocked(resp.Result)
	case resp.Status == duediligence.StatusError:
		note = t.failLocked(orDefault(resp.Error, GenericErrorText))
	case resp.Status == duediligence.StatusProcessing:
		t.failures = 0
		t.state = StateProcessing
	default:
		apiErr := &apiclient.Error{
			Kind:    apiclient.KindDecode,
			Message: fmt.Sprintf("unexpected status %q", resp.Status),
		}
		err = apiErr
		note = t.pollFailedLocked(requestID, apiErr)
	}
	state := t.state
	t.mu.Unlock()

	t.deliver(note)
	return state.external(), err
}

// Reset abandons any request and restores the greeting.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.generation++
	t.resetLocked()
	t.logger.Info("Tracker reset")
}

// Close stops the scheduler and cancels in-flight scheduled polls. The
// transcript stays readable.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.generation++
	t.stopPollingLocked()
	if t.state.Busy() {
		t.state = StateIdle
	}
	t.mu.Unlock()
	t.cancel()
	t.wg.Wait()
}

// pollFailedLocked counts a failed status check. Transport failures, timeouts
// and unrecognized statuses are retried until MaxPollFailures consecutive
// failures; anything else ends the request.
func (t *Tracker) pollFailedLocked(requestID string, apiErr *apiclient.Error) *events.Notification {
	t.failures++
	if retryable(apiErr) && t.failures < t.cfg.MaxPollFailures {
		t.logger.Warn("Status check failed, will retry",
			"request_id", requestID, "failures", t.failures, "error", apiErr.Message)
		t.state = StateProcessing
		return nil
	}
	return t.failLocked(PollFailedPrefix + apiErr.Message)
}

func (t *Tracker) resetLocked() {
	t.stopPollingLocked()
	t.state = StateIdle
	t.requestID = ""
	t.placeholderID = ""
	t.failures = 0
	t.notifiedCompleted = false
	t.notifiedError = false
	t.messages = nil
	t.appendLocked(Message{Type: models.ChatRoleBot, Content: Greeting})
}

func (t *Tracker) appendLocked(m Message) string {
	m.ID = uuid.NewString()
	m.Timestamp = t.clock.Now()
	t.messages = append(t.messages, m)
	return m.ID
}

// updatePlaceholderLocked rewrites the live bot message of the current request.
func (t *Tracker) updatePlaceholderLocked(content string, status MessageStatus) {
	for i := range t.messages {
		if t.messages[i].ID == t.placeholderID {
			t.messages[i].Content = content
			t.messages[i].Status = status
			t.messages[i].Timestamp = t.clock.Now()
			return
		}
	}
}

func (t *Tracker) completeLocked(result string) *events.Notification {
	t.stopPollingLocked()
	t.state = StateCompleted
	t.failures = 0
	t.updatePlaceholderLocked(orDefault(result, EmptyResultText), MessageCompleted)
	t.logger.Info("Due diligence request completed", "request_id", t.requestID)
	t.recordLocked()
	if t.notifiedCompleted {
		return nil
	}
	t.notifiedCompleted = true
	return t.notificationLocked(events.TypeComplianceCompleted, "Due diligence analysis completed")
}

func (t *Tracker) failLocked(message string) *events.Notification {
	t.stopPollingLocked()
	t.state = StateError
	t.updatePlaceholderLocked(message, MessageError)
	t.logger.Error("Due diligence request failed", "request_id", t.requestID, "error", message)
	t.recordLocked()
	if t.notifiedError {
		return nil
	}
	t.notifiedError = true
	return t.notificationLocked(events.TypeComplianceFailed, message)
}

func (t *Tracker) notificationLocked(eventType, message string) *events.Notification {
	return &events.Notification{
		Type:      eventType,
		TrackerID: t.id,
		RequestID: t.requestID,
		Message:   message,
		Timestamp: t.clock.Now(),
	}
}

// recordLocked persists a copy of the transcript in the background.
func (t *Tracker) recordLocked() {
	if t.history == nil || t.closed {
		return
	}
	messages := make([]models.ChatHistoryMessage, 0, len(t.messages))
	for _, m := range t.messages {
		messages = append(messages, m.history())
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if _, err := t.history.SaveComplianceMessages(t.ctx, messages); err != nil {
			t.logger.Warn("Failed to save compliance history", "error", err)
		}
	}()
}

// deliver publishes outside the lock so sinks may read the tracker.
func (t *Tracker) deliver(n *events.Notification) {
	if n == nil {
		return
	}
	if err := t.publisher.Publish(t.ctx, n); err != nil {
		t.logger.Warn("Failed to publish notification", "type", n.Type, "error", err)
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apiclient.NewValidationError(strings.ToLower(fieldErrs[0].Field()), "is required")
	}
	return apiclient.NewValidationError("form", err.Error())
}

// retryable reports whether a poll failure may clear up on its own.
func retryable(err *apiclient.Error) bool {
	switch err.Kind {
	case apiclient.KindTransport, apiclient.KindTimeout, apiclient.KindDecode:
		return true
	}
	return false
}

func describe(f Form) string {
	return "Scope: " + f.Scope + "\nJurisdiction: " + f.Jurisdiction + "\nConcerns: " + f.Concerns
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
