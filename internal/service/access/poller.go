package access

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/tracing"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultInterval     = 10 * time.Second
	DefaultCheckTimeout = 5 * time.Second
	revokeTimeout       = 10 * time.Second
)

type Config struct {
	Interval           time.Duration
	CheckTimeout       time.Duration
	PrivilegedSubjects []string
}

// Poller re-evaluates one subject's access on an interval and signs the
// subject out once when access goes from granted to revoked. At most one
// loop runs at a time.
type Poller struct {
	query        domain.AccessQuery
	revoker      domain.SessionRevoker
	metrics      *metrics.AccessMetrics
	interval     time.Duration
	checkTimeout time.Duration
	privileged   map[string]struct{}

	// lifecycleMu guards the loop handles below.
	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	stop        chan struct{}
	done        chan struct{}

	// checkMu serializes checks so edge detection sees a consistent history.
	checkMu  sync.Mutex
	inFlight atomic.Bool

	mu         sync.Mutex
	state      domain.AccessState
	alertShown bool
	// loopSubject is the subject the running loop was started with.
	loopSubject string
	loopRevoked chan struct{}
}

func NewPoller(query domain.AccessQuery, revoker domain.SessionRevoker, accessMetrics *metrics.AccessMetrics, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	checkTimeout := cfg.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}

	privileged := make(map[string]struct{}, len(cfg.PrivilegedSubjects))
	for _, s := range cfg.PrivilegedSubjects {
		if s != "" {
			privileged[s] = struct{}{}
		}
	}

	return &Poller{
		query:        query,
		revoker:      revoker,
		metrics:      accessMetrics,
		interval:     interval,
		checkTimeout: checkTimeout,
		privileged:   privileged,
		state:        domain.AccessState{Phase: domain.AccessIdle},
	}
}

// Start polls subjectID. A loop for another subject is stopped first and the
// state reset. Starting the subject already being polled is a no-op. The
// loop keeps running even if the immediate check fails; that error is
// returned alongside the state.
func (p *Poller) Start(ctx context.Context, subjectID string) (domain.AccessState, error) {
	if subjectID == "" {
		return domain.AccessState{}, fmt.Errorf("subject id is required")
	}

	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.loopActiveLocked() && p.loopSubjectID() == subjectID {
		return p.State(), nil
	}

	p.stopLocked()
	p.reset(subjectID)

	state, err := p.Check(ctx, subjectID)

	revoked := make(chan struct{}, 1)
	p.mu.Lock()
	p.loopSubject = subjectID
	p.loopRevoked = revoked
	p.mu.Unlock()

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(loopCtx, subjectID, p.stop, revoked, p.done)

	slog.InfoContext(ctx, "access poller started",
		slog.String("subject_id", subjectID),
		slog.Duration("interval", p.interval),
	)

	return state, err
}

// Stop ends the loop. A check already in flight completes, but no further
// tick is scheduled. Calling Stop without a running loop is a no-op.
func (p *Poller) Stop() {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.stopLocked() {
		p.reset("")
		slog.Info("access poller stopped")
	}
}

// stopLocked also releases the handles of a loop that already ended on its
// own after a revocation.
func (p *Poller) stopLocked() bool {
	if p.done == nil {
		return false
	}

	close(p.stop)
	<-p.done
	p.cancel()

	p.cancel = nil
	p.stop = nil
	p.done = nil

	p.mu.Lock()
	p.loopSubject = ""
	p.loopRevoked = nil
	p.mu.Unlock()
	return true
}

func (p *Poller) loopActiveLocked() bool {
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Poller) loopSubjectID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loopSubject
}

// Running reports whether a loop is active. A loop that ended after a
// revocation is not running.
func (p *Poller) Running() bool {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	return p.loopActiveLocked()
}

func (p *Poller) State() domain.AccessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// loop polls the subject it was started with until stopped or until that
// subject has been signed out.
func (p *Poller) loop(ctx context.Context, subjectID string, stop, revoked <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var checks sync.WaitGroup
	defer checks.Wait()

	for {
		select {
		case <-stop:
			return
		case <-revoked:
			slog.InfoContext(ctx, "access poller finished after revocation",
				slog.String("subject_id", subjectID),
			)
			return
		case <-ticker.C:
		}

		// Prefer stop and revocation when a tick is ready at the same time.
		select {
		case <-stop:
			return
		case <-revoked:
			return
		default:
		}

		if !p.inFlight.CompareAndSwap(false, true) {
			slog.DebugContext(ctx, "skipping access check tick, previous check still running")
			if p.metrics != nil {
				p.metrics.RecordSkippedTick(ctx)
			}
			continue
		}

		checks.Add(1)
		go func() {
			defer checks.Done()
			defer p.inFlight.Store(false)

			if _, err := p.Check(ctx, subjectID); err != nil {
				slog.WarnContext(ctx, "periodic access check failed",
					slog.String("subject_id", subjectID),
					slog.String("error", err.Error()),
				)
			}
		}()
	}
}

// Check fetches the subject's access and applies edge detection. A subject
// different from the current one resets all state first, unless a loop is
// polling another subject: then the subject is evaluated on its own and the
// loop's state is left alone. After a sign-out the returned state shows the
// revoked phase while the poller itself goes back to idle.
func (p *Poller) Check(ctx context.Context, subjectID string) (domain.AccessState, error) {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()

	ctx, span := tracing.StartAccessCheckSpan(ctx, subjectID)
	defer span.End()

	p.mu.Lock()
	if p.loopSubject != "" && p.loopSubject != subjectID {
		p.mu.Unlock()
		return p.checkDetached(ctx, span, subjectID)
	}
	if p.state.SubjectID != subjectID {
		p.resetLocked(subjectID)
	}
	previousPhase := p.state.Phase
	p.state.Phase = domain.AccessChecking
	p.mu.Unlock()

	start := time.Now()
	remote, err := p.fetch(ctx, subjectID)
	if err != nil {
		p.mu.Lock()
		p.state.Phase = previousPhase
		state := p.state
		p.mu.Unlock()

		p.recordCheck(ctx, "error", start)
		tracing.RecordAccessCheckResult(span, false, false, false, err)
		return state, fmt.Errorf("%w: %w", domain.ErrAccessQueryFailed, err)
	}

	privileged := p.isPrivileged(subjectID, remote.SubjectKey)
	hasAccess := privileged || remote.RemoteFlag

	p.mu.Lock()
	shouldRevoke := p.state.Initialized &&
		p.state.LastObservedAccess &&
		!hasAccess &&
		!privileged &&
		!p.alertShown

	p.state.HasAccess = hasAccess
	p.state.IsPrivileged = privileged
	p.state.LastObservedAccess = hasAccess
	p.state.Initialized = true
	if hasAccess {
		p.alertShown = false
		p.state.Phase = domain.AccessAllowed
	} else {
		p.state.Phase = domain.AccessRevoked
	}
	if shouldRevoke {
		p.alertShown = true
	}
	state := p.state
	p.mu.Unlock()

	p.recordCheck(ctx, accessOutcome(hasAccess), start)
	tracing.RecordAccessCheckResult(span, hasAccess, privileged, shouldRevoke, nil)

	if shouldRevoke {
		p.revoke(ctx, subjectID)
		p.finishRevoked(subjectID)
	}

	return state, nil
}

// checkDetached evaluates a subject other than the one being polled. It never
// signs anyone out.
func (p *Poller) checkDetached(ctx context.Context, span trace.Span, subjectID string) (domain.AccessState, error) {
	start := time.Now()
	remote, err := p.fetch(ctx, subjectID)
	if err != nil {
		p.recordCheck(ctx, "error", start)
		tracing.RecordAccessCheckResult(span, false, false, false, err)
		return domain.AccessState{SubjectID: subjectID, Phase: domain.AccessIdle},
			fmt.Errorf("%w: %w", domain.ErrAccessQueryFailed, err)
	}

	privileged := p.isPrivileged(subjectID, remote.SubjectKey)
	hasAccess := privileged || remote.RemoteFlag

	state := domain.AccessState{
		SubjectID:          subjectID,
		HasAccess:          hasAccess,
		IsPrivileged:       privileged,
		LastObservedAccess: hasAccess,
		Initialized:        true,
		Phase:              domain.AccessRevoked,
	}
	if hasAccess {
		state.Phase = domain.AccessAllowed
	}

	p.recordCheck(ctx, accessOutcome(hasAccess), start)
	tracing.RecordAccessCheckResult(span, hasAccess, privileged, false, nil)
	return state, nil
}

func (p *Poller) fetch(ctx context.Context, subjectID string) (*domain.RemoteAccess, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.checkTimeout)
	defer cancel()
	return p.query.Fetch(fetchCtx, subjectID)
}

// finishRevoked ends the loop polling subjectID, if any, and returns the
// poller to idle. It must not take lifecycleMu since it runs inside loop
// checks that Stop waits on.
func (p *Poller) finishRevoked(subjectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loopSubject == subjectID && p.loopRevoked != nil {
		select {
		case p.loopRevoked <- struct{}{}:
		default:
		}
		p.loopSubject = ""
		p.loopRevoked = nil
	}
	if p.state.SubjectID == subjectID {
		p.resetLocked("")
	}
}

func accessOutcome(hasAccess bool) string {
	if hasAccess {
		return "allowed"
	}
	return "denied"
}

func (p *Poller) revoke(ctx context.Context, subjectID string) {
	slog.InfoContext(ctx, "access revoked, signing subject out",
		slog.String("subject_id", subjectID),
	)

	if p.revoker == nil {
		return
	}

	revokeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revokeTimeout)
	defer cancel()

	outcome := "success"
	if err := p.revoker.Revoke(revokeCtx, subjectID); err != nil {
		outcome = "error"
		slog.ErrorContext(ctx, "failed to sign out revoked subject",
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
	}
	if p.metrics != nil {
		p.metrics.RecordRevocation(ctx, outcome)
	}
}

func (p *Poller) isPrivileged(subjectID, subjectKey string) bool {
	if _, ok := p.privileged[subjectID]; ok {
		return true
	}
	if subjectKey == "" {
		return false
	}
	_, ok := p.privileged[subjectKey]
	return ok
}

func (p *Poller) reset(subjectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked(subjectID)
}

func (p *Poller) resetLocked(subjectID string) {
	p.state = domain.AccessState{
		SubjectID: subjectID,
		Phase:     domain.AccessIdle,
	}
	p.alertShown = false
}

func (p *Poller) recordCheck(ctx context.Context, outcome string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordCheck(ctx, outcome, time.Since(start))
	}
}
