package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"poiviewer/internal/domain/entities"
	"poiviewer/internal/services"
)

var (
	// ErrNoPendingPrompt is returned when the browser reports an outcome
	// nobody is waiting for.
	ErrNoPendingPrompt = errors.New("no pending request")
	// ErrInvalidOutcome is returned for an unknown permission answer.
	ErrInvalidOutcome = errors.New("invalid permission outcome")
)

// Payloads of the commands sent to the browser.
type (
	centerCommand struct {
		Coordinate entities.Coordinate `json:"coordinate"`
		Zoom       int                 `json:"zoom"`
	}
	watchCommand struct {
		WatchID      uint64 `json:"watch_id"`
		HighAccuracy bool   `json:"high_accuracy"`
		MaximumAgeMs int64  `json:"maximum_age_ms"`
		TimeoutMs    int64  `json:"timeout_ms"`
	}
	textCommand struct {
		Text string `json:"text"`
	}
)

func newWatchCommand(id uint64, opts services.WatchOptions) watchCommand {
	return watchCommand{
		WatchID:      id,
		HighAccuracy: opts.HighAccuracy,
		MaximumAgeMs: opts.MaximumAge.Milliseconds(),
		TimeoutMs:    opts.Timeout.Milliseconds(),
	}
}

type locateResult struct {
	sample services.Sample
	err    error
}

// Browser is the browser side of one session. It implements every
// collaborator contract of the services package by sending commands through
// the hub, and resolves pending waits when the browser reports back.
type Browser struct {
	session string
	hub     *Hub

	mu         sync.Mutex
	sceneReady chan struct{}
	camera     chan services.PermissionOutcome
	locate     chan locateResult
	watch      *watch
	watchIDs   uint64
}

var (
	_ services.MapSurface       = (*Browser)(nil)
	_ services.ARScene          = sceneView{}
	_ services.CameraPermission = (*Browser)(nil)
	_ services.LocationSource   = (*Browser)(nil)
	_ services.StatusSink       = (*Browser)(nil)
)

func NewBrowser(session string, hub *Hub) *Browser {
	return &Browser{session: session, hub: hub}
}

// Collaborators returns b as every collaborator of its session.
func (b *Browser) Collaborators() services.Collaborators {
	return services.Collaborators{Map: b, Scene: sceneView{b}, Camera: b, Location: b, Status: b}
}

func (b *Browser) send(typ string, data any) {
	b.hub.Send(b.session, Message{Type: typ, Data: data})
}

// Map surface.

func (b *Browser) Show() { b.send(MessageMapShow, nil) }
func (b *Browser) Hide() { b.send(MessageMapHide, nil) }

func (b *Browser) CenterOn(c entities.Coordinate, zoom int) {
	b.send(MessageMapCenter, centerCommand{Coordinate: c, Zoom: zoom})
}

// AR scene. Browser's own Show and Hide belong to the map, so the scene is
// exposed through sceneView.

type sceneView struct{ b *Browser }

func (s sceneView) Initialize() <-chan struct{}       { return s.b.Initialize() }
func (s sceneView) Pause()                            { s.b.Pause() }
func (s sceneView) Populate(ents []services.AREntity) { s.b.Populate(ents) }
func (s sceneView) Show()                             { s.b.send(MessageSceneShow, nil) }
func (s sceneView) Hide()                             { s.b.send(MessageSceneHide, nil) }

// Initialize asks the browser to start the scene. The returned channel closes
// when the browser reports the scene ready.
func (b *Browser) Initialize() <-chan struct{} {
	b.mu.Lock()
	ch := make(chan struct{})
	b.sceneReady = ch
	b.mu.Unlock()

	b.send(MessageSceneInit, nil)
	return ch
}

// Pause releases the scene. A ready report for the paused initialization is
// no longer expected.
func (b *Browser) Pause() {
	b.mu.Lock()
	b.sceneReady = nil
	b.mu.Unlock()

	b.send(MessageScenePause, nil)
}

func (b *Browser) Populate(ents []services.AREntity) {
	b.send(MessageScenePopulate, ents)
}

// ReportSceneReady resolves the pending scene initialization.
func (b *Browser) ReportSceneReady() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sceneReady == nil {
		return fmt.Errorf("scene ready: %w", ErrNoPendingPrompt)
	}
	close(b.sceneReady)
	b.sceneReady = nil
	return nil
}

// Camera permission.

// Request prompts the browser for camera access and waits for ReportCamera.
func (b *Browser) Request(ctx context.Context) (services.PermissionOutcome, error) {
	ch := make(chan services.PermissionOutcome, 1)
	b.mu.Lock()
	b.camera = ch
	b.mu.Unlock()

	b.send(MessageCameraRequest, nil)

	select {
	case outcome := <-ch:
		return outcome, nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.camera == ch {
			b.camera = nil
		}
		b.mu.Unlock()
		return "", ctx.Err()
	}
}

// ReportCamera resolves the pending camera prompt.
func (b *Browser) ReportCamera(outcome services.PermissionOutcome) error {
	switch outcome {
	case services.PermissionGranted, services.PermissionDenied, services.PermissionUnavailable:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.camera == nil {
		return fmt.Errorf("camera: %w", ErrNoPendingPrompt)
	}
	b.camera <- outcome
	b.camera = nil
	return nil
}

// Location source.

// watch is one continuous location subscription. A watchdog reports
// ErrSampleTimeout whenever no sample arrived within the timeout, and keeps
// the subscription open.
type watch struct {
	id       uint64
	b        *Browser
	opts     services.WatchOptions
	onSample func(services.Sample)
	onError  func(error)
	timer    *time.Timer
	closed   bool
}

func (b *Browser) Subscribe(opts services.WatchOptions, onSample func(services.Sample), onError func(error)) (services.Subscription, error) {
	b.mu.Lock()
	if b.watch != nil {
		b.watch.stopLocked()
	}
	b.watchIDs++
	w := &watch{id: b.watchIDs, b: b, opts: opts, onSample: onSample, onError: onError}
	if opts.Timeout > 0 {
		w.timer = time.AfterFunc(opts.Timeout, w.expire)
	}
	b.watch = w
	b.mu.Unlock()

	b.send(MessageLocationWatch, newWatchCommand(w.id, opts))
	return w, nil
}

// Close ends the subscription and tells the browser to clear its watch.
func (w *watch) Close() {
	w.b.mu.Lock()
	if w.closed {
		w.b.mu.Unlock()
		return
	}
	w.stopLocked()
	if w.b.watch == w {
		w.b.watch = nil
	}
	w.b.mu.Unlock()

	w.b.send(MessageLocationClear, newWatchCommand(w.id, w.opts))
}

// stopLocked marks the watch closed. Callers hold b.mu.
func (w *watch) stopLocked() {
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watch) expire() {
	w.b.mu.Lock()
	if w.closed {
		w.b.mu.Unlock()
		return
	}
	w.timer.Reset(w.opts.Timeout)
	onError := w.onError
	w.b.mu.Unlock()

	onError(services.ErrSampleTimeout)
}

// Current asks the browser for one position fix and waits for the report.
func (b *Browser) Current(ctx context.Context, opts services.WatchOptions) (services.Sample, error) {
	ch := make(chan locateResult, 1)
	b.mu.Lock()
	b.locate = ch
	b.mu.Unlock()

	b.send(MessageLocationCurrent, newWatchCommand(0, opts))

	select {
	case r := <-ch:
		return r.sample, r.err
	case <-ctx.Done():
		b.mu.Lock()
		if b.locate == ch {
			b.locate = nil
		}
		b.mu.Unlock()
		return services.Sample{}, ctx.Err()
	}
}

// ReportSample delivers a device position. A pending one-shot request takes
// it first; otherwise it goes to the running subscription. Either way the
// device is alive, so the subscription's watchdog restarts.
func (b *Browser) ReportSample(s services.Sample) error {
	b.mu.Lock()
	w := b.watch
	if w != nil && w.timer != nil {
		w.timer.Reset(w.opts.Timeout)
	}

	if ch := b.locate; ch != nil {
		b.locate = nil
		b.mu.Unlock()
		ch <- locateResult{sample: s}
		return nil
	}

	if w == nil {
		b.mu.Unlock()
		return fmt.Errorf("location sample: %w", ErrNoPendingPrompt)
	}
	onSample := w.onSample
	b.mu.Unlock()

	onSample(s)
	return nil
}

// ReportError delivers a device location failure, with the same routing as
// ReportSample.
func (b *Browser) ReportError(message string) error {
	err := errors.New(message)

	b.mu.Lock()
	if ch := b.locate; ch != nil {
		b.locate = nil
		b.mu.Unlock()
		ch <- locateResult{err: err}
		return nil
	}

	w := b.watch
	if w == nil {
		b.mu.Unlock()
		return fmt.Errorf("location error: %w", ErrNoPendingPrompt)
	}
	onError := w.onError
	b.mu.Unlock()

	onError(err)
	return nil
}

// Watching reports whether a location subscription is open.
func (b *Browser) Watching() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.watch != nil
}

// Status sink.

func (b *Browser) GPSStatus(text string) { b.send(MessageStatusGPS, textCommand{Text: text}) }
func (b *Browser) ARStatus(text string)  { b.send(MessageStatusAR, textCommand{Text: text}) }
func (b *Browser) Loading(text string)   { b.send(MessageLoading, textCommand{Text: text}) }
func (b *Browser) LoadingDone()          { b.send(MessageLoadingDone, nil) }
func (b *Browser) Notice(text string)    { b.send(MessageNotice, textCommand{Text: text}) }
