package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/logger"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type SnapshotSource string

const (
	SourceFetch SnapshotSource = "fetch"
	SourcePush  SnapshotSource = "push"
)

// LiveViewObserver is told about every snapshot the view applies and every
// push it drops.
type LiveViewObserver interface {
	SnapshotApplied(source SnapshotSource, snapshot domain.AnalyticsSnapshot)
	PushDropped(formID domain.ID, reason error)
}

// LiveView keeps the latest analytics snapshot of one form. It is fed by a
// one-shot fetch and by a push stream; whichever snapshot was received last
// is the cached one, regardless of its source. A fetch that resolves after a
// push therefore replaces the pushed data; this race is accepted.
type LiveView struct {
	formID   domain.ID
	api      FormsAPI
	dialer   SnapshotStreamDialer
	observer LiveViewObserver
	log      logger.Logger

	mu          sync.RWMutex
	snapshot    domain.AnalyticsSnapshot
	hasSnapshot bool
	lastSource  SnapshotSource
	fetchErr    error
	streamErr   error
	received    int
	dropped     int
	stream      SnapshotStream
	deactivated bool

	updates        chan domain.AnalyticsSnapshot
	streamDone     chan struct{}
	activated      atomic.Bool
	cancel         context.CancelFunc
	deactivateOnce sync.Once
	wg             sync.WaitGroup
}

func NewLiveView(formID domain.ID, api FormsAPI, dialer SnapshotStreamDialer, observer LiveViewObserver, log logger.Logger) *LiveView {
	return &LiveView{
		formID:     formID,
		api:        api,
		dialer:     dialer,
		observer:   observer,
		log:        logger.OrNop(log),
		updates:    make(chan domain.AnalyticsSnapshot, 1),
		streamDone: make(chan struct{}),
	}
}

func (v *LiveView) FormID() domain.ID {
	return v.formID
}

// Activate starts the initial fetch and opens the push stream. It does not
// wait for either; use Updates or Snapshot to observe the result.
func (v *LiveView) Activate(ctx context.Context) error {
	if !v.activated.CompareAndSwap(false, true) {
		return ErrAlreadyActive
	}

	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel

	v.wg.Add(2)
	go v.fetch(ctx)
	go v.listen(ctx)

	return nil
}

// Deactivate closes the stream and waits for the fetch and receive loops to
// return. Calling it more than once is harmless.
func (v *LiveView) Deactivate() {
	v.deactivateOnce.Do(func() {
		v.mu.Lock()
		v.deactivated = true
		stream := v.stream
		v.mu.Unlock()

		if v.cancel != nil {
			v.cancel()
		}
		if stream != nil {
			_ = stream.Close()
		}

		v.wg.Wait()
		v.log.Debugw("live view deactivated", "form_id", v.formID)
	})
}

// Snapshot returns the cached snapshot; false until the first one arrives.
func (v *LiveView) Snapshot() (domain.AnalyticsSnapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot, v.hasSnapshot
}

func (v *LiveView) LastSource() SnapshotSource {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastSource
}

// Err reports the initial fetch failure, if any.
func (v *LiveView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fetchErr
}

// StreamErr reports why the push stream could not be opened or ended.
func (v *LiveView) StreamErr() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.streamErr
}

func (v *LiveView) Received() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.received
}

func (v *LiveView) Dropped() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dropped
}

// Updates delivers the newest applied snapshot. Slow readers skip
// intermediate values.
func (v *LiveView) Updates() <-chan domain.AnalyticsSnapshot {
	return v.updates
}

// StreamDone is closed once the receive loop has ended.
func (v *LiveView) StreamDone() <-chan struct{} {
	return v.streamDone
}

func (v *LiveView) fetch(ctx context.Context) {
	defer v.wg.Done()

	ctx, span := otel.Tracer("live-view").Start(ctx, "fetch-analytics")
	defer span.End()
	span.SetAttributes(attribute.String("form.id", v.formID.String()))

	snapshot, err := v.api.GetAnalytics(ctx, v.formID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		span.RecordError(err)
		v.log.Warnw("fetching analytics failed", "form_id", v.formID, "error", err)
		v.mu.Lock()
		v.fetchErr = err
		v.mu.Unlock()
		return
	}

	v.apply(SourceFetch, snapshot)
}

func (v *LiveView) listen(ctx context.Context) {
	defer v.wg.Done()
	defer close(v.streamDone)

	stream, err := v.dialer.Dial(ctx, v.formID)
	if err != nil {
		if ctx.Err() == nil {
			v.log.Warnw("opening analytics stream failed", "form_id", v.formID, "error", err)
			v.setStreamErr(err)
		}
		return
	}
	if !v.attach(stream) {
		_ = stream.Close()
		return
	}
	defer v.detach()

	if err := stream.Send(ctx, StreamGreeting); err != nil {
		v.log.Debugw("sending stream greeting failed", "form_id", v.formID, "error", err)
	}

	for {
		payload, err := stream.Receive(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, ErrStreamClosed) {
				v.log.Warnw("analytics stream ended", "form_id", v.formID, "error", err)
				v.setStreamErr(err)
			}
			return
		}
		v.applyPush(payload)
	}
}

func (v *LiveView) applyPush(payload []byte) {
	snapshot, err := DecodeSnapshot(payload)
	if err == nil && snapshot.FormID != "" && snapshot.FormID != v.formID {
		err = fmt.Errorf("%w: %s", ErrForeignSnapshot, snapshot.FormID)
	}
	if err != nil {
		v.mu.Lock()
		v.dropped++
		v.mu.Unlock()
		v.log.Debugw("dropping push payload", "form_id", v.formID, "error", err)
		if v.observer != nil {
			v.observer.PushDropped(v.formID, err)
		}
		return
	}

	v.apply(SourcePush, snapshot)
}

// apply replaces the cache unconditionally.
func (v *LiveView) apply(source SnapshotSource, snapshot domain.AnalyticsSnapshot) {
	v.mu.Lock()
	v.snapshot = snapshot
	v.hasSnapshot = true
	v.lastSource = source
	v.received++
	select {
	case <-v.updates:
	default:
	}
	v.updates <- snapshot
	v.mu.Unlock()

	if v.observer != nil {
		v.observer.SnapshotApplied(source, snapshot)
	}
}

func (v *LiveView) attach(stream SnapshotStream) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.deactivated {
		return false
	}
	v.stream = stream
	return true
}

func (v *LiveView) detach() {
	v.mu.Lock()
	stream := v.stream
	v.stream = nil
	v.mu.Unlock()
	if stream != nil {
		_ = stream.Close()
	}
}

func (v *LiveView) setStreamErr(err error) {
	v.mu.Lock()
	v.streamErr = err
	v.mu.Unlock()
}

// DecodeSnapshot parses a pushed payload. Anything that is not a JSON object
// is malformed.
func DecodeSnapshot(payload []byte) (domain.AnalyticsSnapshot, error) {
	var snapshot *domain.AnalyticsSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.AnalyticsSnapshot{}, fmt.Errorf("%w: %w", ErrMalformedPush, err)
	}
	if snapshot == nil {
		return domain.AnalyticsSnapshot{}, ErrMalformedPush
	}
	return *snapshot, nil
}
