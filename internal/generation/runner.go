// Package generation runs the avatar generation lifecycle: one active
// attempt per user, submitted to the remote job API and polled on a
// fixed interval until a terminal status, cancellation or timeout.
package generation

import (
	"log"
	"sync"
	"time"

	"github.com/carlelieser/avatarmon/internal/apperrors"
	"github.com/carlelieser/avatarmon/internal/events"
	"github.com/carlelieser/avatarmon/internal/metrics"
	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/prompt"
	"github.com/carlelieser/avatarmon/internal/quota"
	"github.com/carlelieser/avatarmon/internal/replicate"
)

const (
	// DefaultPollInterval is how often an active job's status is fetched.
	DefaultPollInterval = 2 * time.Second

	// DefaultTimeout bounds a whole attempt from submit to terminal
	// status.
	DefaultTimeout = 5 * time.Minute
)

// ErrGenerationInFlight is returned when a start is attempted while a
// previous attempt is still active.
var ErrGenerationInFlight = apperrors.New(apperrors.GenerationFailed, "a generation is already in progress")

// JobClient is the remote job API surface the runner depends on.
type JobClient interface {
	Create(req models.GenerationRequest) (models.JobState, error)
	GetStatus(id string) (models.JobState, error)
	Cancel(id string) error
}

// Notifier receives the runner's lifecycle events, already scoped to
// the owning user; nil disables publishing.
type Notifier func(event string, payload map[string]interface{})

// Runner owns one user's generation attempt. At most one attempt is
// active at a time; the job state is transient and never persisted.
type Runner struct {
	client       JobClient
	gate         *quota.Gate
	notify       Notifier
	pollInterval time.Duration
	timeout      time.Duration

	mu        sync.Mutex
	job       *models.GenerationJob
	active    bool
	startedAt time.Time
	cancelCh  chan struct{}
	doneCh    chan struct{}
}

// Option adjusts a Runner's timing; used by tests and configuration.
type Option func(*Runner)

func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) { r.pollInterval = d }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notify = n }
}

func NewRunner(client JobClient, gate *quota.Gate, opts ...Option) *Runner {
	r := &Runner{
		client:       client,
		gate:         gate,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start validates the form, checks quota, builds the request and
// submits it. On success the poll loop runs in the background until a
// terminal status; Done reports loop completion.
func (r *Runner) Start(form models.AvatarForm) (models.GenerationJob, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return models.GenerationJob{}, ErrGenerationInFlight
	}
	r.active = true
	r.mu.Unlock()

	job, err := r.start(form)
	if err != nil {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return models.GenerationJob{}, err
	}
	return job, nil
}

func (r *Runner) start(form models.AvatarForm) (models.GenerationJob, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return models.GenerationJob{}, apperrors.Wrap(apperrors.InvalidFormat, "invalid avatar form", err)
	}

	if !r.gate.CanGenerate() {
		return models.GenerationJob{}, apperrors.New(apperrors.DailyLimitReached, "daily generation limit reached")
	}

	var images []string
	if form.Source.Type == models.SourcePhoto {
		images = make([]string, len(form.Source.Photos))
		for i, photo := range form.Source.Photos {
			if photo.Base64 != "" {
				images[i] = photo.Base64
			} else {
				images[i] = photo.URI
			}
		}
	}

	req := prompt.BuildGenerationRequest(form.Source, form.Style, form.AspectRatio, images, form.StyleModifiers)
	state, err := r.client.Create(req)
	if err != nil {
		return models.GenerationJob{}, mapClientError(err)
	}

	job := models.GenerationJob{
		ID:               state.ID,
		Status:           state.Status,
		Progress:         state.Progress,
		EstimatedSeconds: state.EstimatedSeconds,
	}
	if job.Status == "" {
		job.Status = models.StatusQueued
	}

	r.mu.Lock()
	r.job = &job
	r.startedAt = time.Now()
	r.cancelCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.poll(job.ID, r.cancelCh, r.doneCh)
	return job, nil
}

// poll drives the attempt to a terminal state. Exactly one of the three
// select arms finishes the attempt; teardown is idempotent.
func (r *Runner) poll(jobID string, cancelCh, doneCh chan struct{}) {
	ticker := time.NewTicker(r.pollInterval)
	timer := time.NewTimer(r.timeout)
	defer func() {
		ticker.Stop()
		timer.Stop()
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		close(doneCh)
	}()

	for {
		select {
		case <-cancelCh:
			r.finishCancelled(jobID)
			return

		case <-timer.C:
			r.finishTimedOut(jobID)
			r.emitTerminal()
			return

		case <-ticker.C:
			state, err := r.client.GetStatus(jobID)
			if err != nil {
				// A poll failure ends the attempt; the next submit
				// starts fresh.
				log.Printf("generation: polling job %s: %v", jobID, err)
				r.finishFailed(err)
				r.emitTerminal()
				return
			}
			before, _ := r.Job()
			if r.applyState(state) {
				r.emitTerminal()
				return
			}
			if after, exists := r.Job(); exists && r.notify != nil && after.Progress > before.Progress {
				r.notify("generation_progress", events.GenerationProgressPayload(after.ID, after.Progress))
			}
		}
	}
}

// applyState folds one status response into the job and reports whether
// the attempt reached a terminal state.
func (r *Runner) applyState(state models.JobState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil {
		return true
	}

	r.job.Status = state.Status
	if state.Progress > r.job.Progress {
		r.job.Progress = state.Progress
	}
	if state.EstimatedSeconds > 0 {
		r.job.EstimatedSeconds = state.EstimatedSeconds
	}

	switch state.Status {
	case models.StatusCompleted:
		if state.ImageURL == "" {
			r.job.Status = models.StatusFailed
			r.job.ErrorMessage = apperrors.Message(apperrors.GenerationFailed)
			r.recordTerminalLocked()
			return true
		}
		r.job.Progress = 100
		r.job.ResultURL = state.ImageURL
		r.gate.RecordGeneration()
		r.recordTerminalLocked()
		return true

	case models.StatusFailed:
		r.job.ErrorMessage = state.Error
		if r.job.ErrorMessage == "" {
			r.job.ErrorMessage = apperrors.Message(apperrors.GenerationFailed)
		}
		r.recordTerminalLocked()
		return true

	case models.StatusCancelled:
		r.recordTerminalLocked()
		return true
	}
	return false
}

// emitTerminal publishes the outcome of a finished attempt. Cancelled
// attempts clear the job before this runs, so they publish nothing.
func (r *Runner) emitTerminal() {
	if r.notify == nil {
		return
	}
	job, exists := r.Job()
	if !exists {
		return
	}
	switch job.Status {
	case models.StatusCompleted:
		r.notify("generation_completed", events.GenerationCompletedPayload(job.ID, job.ResultURL))
	case models.StatusFailed, models.StatusTimedOut:
		r.notify("generation_failed", events.GenerationFailedPayload(job.ID, job.ErrorMessage))
	}
}

// recordTerminalLocked observes the attempt outcome; callers hold r.mu.
func (r *Runner) recordTerminalLocked() {
	metrics.GenerationsTotal.WithLabelValues(string(r.job.Status)).Inc()
	metrics.GenerationDuration.Observe(time.Since(r.startedAt).Seconds())
}

func (r *Runner) finishFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job != nil {
		r.job.Status = models.StatusFailed
		r.job.ErrorMessage = apperrors.UserMessageOf(mapClientError(err))
		r.recordTerminalLocked()
	}
}

// finishCancelled tears down a user-cancelled attempt. The remote
// cancel is best-effort; local state returns to idle unconditionally.
func (r *Runner) finishCancelled(jobID string) {
	if err := r.client.Cancel(jobID); err != nil {
		log.Printf("generation: cancelling job %s: %v", jobID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job != nil {
		r.job.Status = models.StatusCancelled
		r.recordTerminalLocked()
		r.job = nil
	}
}

func (r *Runner) finishTimedOut(jobID string) {
	if err := r.client.Cancel(jobID); err != nil {
		log.Printf("generation: cancelling timed out job %s: %v", jobID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job != nil {
		r.job.Status = models.StatusTimedOut
		r.job.ErrorMessage = apperrors.Message(apperrors.GenerationTimeout)
		r.recordTerminalLocked()
	}
}

// Cancel asks the active attempt to stop. Cancelling when nothing is
// active, or twice, is a no-op.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active || r.cancelCh == nil {
		return
	}
	select {
	case <-r.cancelCh:
	default:
		close(r.cancelCh)
	}
}

// Job returns a snapshot of the current job, if any.
func (r *Runner) Job() (models.GenerationJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil {
		return models.GenerationJob{}, false
	}
	return *r.job, true
}

// Clear drops a finished job so its result no longer reports. Clearing
// while an attempt is active is refused.
func (r *Runner) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return
	}
	r.job = nil
}

// Done returns a channel closed when the active attempt's poll loop
// exits, or nil when no attempt has been started.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneCh
}

// mapClientError translates job API errors into the error taxonomy.
func mapClientError(err error) error {
	apiErr, ok := err.(*replicate.APIError)
	if !ok {
		return apperrors.Wrap(apperrors.APIError, "generation api request failed", err)
	}
	switch {
	case apiErr.Status == 0:
		return apperrors.Wrap(apperrors.NetworkOffline, "generation api unreachable", err)
	case apiErr.Status == 429:
		return apperrors.Wrap(apperrors.RateLimited, "generation api rate limited", err)
	case apiErr.Status == 408 || apiErr.Status == 504:
		return apperrors.Wrap(apperrors.Timeout, "generation api timed out", err)
	default:
		return apperrors.Wrap(apperrors.APIError, "generation api error", err)
	}
}
