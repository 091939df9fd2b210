package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"poiviewer/internal/catalog"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/logging"
	"poiviewer/internal/metrics"
)

var (
	// ErrNoSelection is returned by EnterAR when no POI is selected. The
	// refusal notice has already been shown when it is returned.
	ErrNoSelection = errors.New("no POI selected")
	// ErrSessionClosed is returned by operations on a closed coordinator.
	ErrSessionClosed = errors.New("session closed")
)

// CoordinatorConfig holds the per-session view settings.
type CoordinatorConfig struct {
	SceneReadyTimeout    time.Duration
	CameraPromptTimeout  time.Duration
	ClearSelectionOnExit bool
	SelectionZoom        int
	UserZoom             int
	Watch                WatchOptions // continuous tracking while in AR
	OneShot              WatchOptions // startup fix
	GeohashPrecision     int
}

// POIInfo is what the info panel shows for the selected POI.
type POIInfo struct {
	POI          entities.POI `json:"poi"`
	DistanceKm   *float64     `json:"distance_km,omitempty"`
	DistanceText string       `json:"distance_text"`
}

// Coordinator is the view-state machine of one viewer session. It owns the
// session's view, selection and AR entry progress, and the tracking session
// that drives live position feedback while in AR.
//
// Every state change goes through dispatch, which runs the pure Transition
// table under c.mu and then performs the returned effects. Waits on external
// collaborators (scene readiness, camera prompt) run on goroutines that feed
// their outcome back through post; each AR entry attempt carries a generation
// number so outcomes of an abandoned attempt are dropped.
//
// Go Learning Note — Pure Core, Effectful Shell:
// Transition decides, the Coordinator does. Tests can drive Transition
// directly with a table of (state, event) cases and no fakes at all, while
// the Coordinator's tests only need to check that effects reach the right
// collaborator.
type Coordinator struct {
	id        string
	cfg       CoordinatorConfig
	catalog   *catalog.Catalog
	proximity *ProximityService
	collab    Collaborators
	tracker   *TrackingSession
	log       zerolog.Logger
	createdAt time.Time

	mu            sync.Mutex
	state         CoordinatorState
	selectedID    string
	gen           uint64
	attemptCtx    context.Context // cancelled when the AR entry attempt ends
	attemptCancel context.CancelFunc
	closed        bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoordinator creates a session coordinator in the Map view with nothing
// selected.
func NewCoordinator(id string, cfg CoordinatorConfig, c *catalog.Catalog, proximity *ProximityService, collab Collaborators) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		id:        id,
		cfg:       cfg,
		catalog:   c,
		proximity: proximity,
		collab:    collab,
		tracker:   NewTrackingSession(collab.Location, collab.Status, cfg.Watch, cfg.GeohashPrecision),
		log:       logging.With().Str("component", "coordinator").Str("session", id).Logger(),
		createdAt: time.Now(),
		state:     CoordinatorState{View: entities.ViewMap, Phase: entities.ARPhaseIdle},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ID returns the session id.
func (c *Coordinator) ID() string { return c.id }

// Tracker exposes the session's location tracking.
func (c *Coordinator) Tracker() *TrackingSession { return c.tracker }

// Select makes the POI with the given id the current selection and centers
// the map on it. Selecting does not change the view.
func (c *Coordinator) Select(poiID string) (POIInfo, error) {
	poi, err := c.catalog.Get(poiID)
	if err != nil {
		return POIInfo{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return POIInfo{}, ErrSessionClosed
	}

	c.selectedID = poi.ID
	c.state.Selected = true
	c.collab.Map.CenterOn(poi.Coordinate, c.cfg.SelectionZoom)
	c.log.Debug().Str("poi", poi.ID).Msg("POI selected")

	return c.infoFor(poi), nil
}

// Selection returns the info for the selected POI, if any.
func (c *Coordinator) Selection() (POIInfo, bool) {
	c.mu.Lock()
	id := c.selectedID
	c.mu.Unlock()
	if id == "" {
		return POIInfo{}, false
	}
	poi, err := c.catalog.Get(id)
	if err != nil {
		return POIInfo{}, false
	}
	return c.infoFor(poi), true
}

// ClosePanel clears the selection. It never changes the view, so closing the
// panel while in AR leaves AR running.
func (c *Coordinator) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = ""
	c.state.Selected = false
}

// EnterAR requests the switch to the AR view. With nothing selected the
// request is refused with a notice and ErrNoSelection. Entering while already
// in AR is a no-op. Otherwise the call returns once the AR surface is shown;
// scene readiness and the camera prompt complete asynchronously.
func (c *Coordinator) EnterAR() error {
	effects := c.dispatch(EventEnterRequested)
	for _, e := range effects {
		if e == EffectNoticeSelectFirst {
			return ErrNoSelection
		}
	}
	return nil
}

// ExitAR returns to the Map view. It always succeeds and is a no-op when
// already in Map.
func (c *Coordinator) ExitAR() {
	c.dispatch(EventExitRequested)
}

// Locate performs the one-shot startup position request and, on success,
// centers the map on the user. Failure shows a notice. The view is never
// changed. A closed session returns ErrSessionClosed without asking the
// device, and closing the session cancels a request in flight.
func (c *Coordinator) Locate(ctx context.Context) (entities.UserPosition, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return entities.UserPosition{}, ErrSessionClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()
	if c.cfg.OneShot.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, c.cfg.OneShot.Timeout)
		defer cancelTimeout()
	}

	pos, err := c.tracker.LocateOnce(ctx, c.cfg.OneShot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return entities.UserPosition{}, ErrSessionClosed
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("one-shot location failed")
		c.collab.Status.Notice(NoticeLocateFailed)
		return entities.UserPosition{}, err
	}
	c.collab.Map.CenterOn(pos.Coordinate, c.cfg.UserZoom)
	c.collab.Status.GPSStatus(FormatGPSStatus(pos))
	return pos, nil
}

// Snapshot returns a copy of the session state. LastTouched is left for the
// session repository to fill.
func (c *Coordinator) Snapshot() entities.SessionSnapshot {
	c.mu.Lock()
	snap := entities.SessionSnapshot{
		ID:         c.id,
		View:       c.state.View,
		Phase:      c.state.Phase,
		SelectedID: c.selectedID,
		CreatedAt:  c.createdAt,
	}
	c.mu.Unlock()

	if pos, ok := c.tracker.Position(); ok {
		snap.Position = &pos
	}
	snap.Tracking = c.tracker.Running()
	return snap
}

// Close stops tracking, abandons any AR entry in progress and waits for the
// coordinator's goroutines to finish. Later calls have no effect.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.endAttempt()
	c.mu.Unlock()

	c.cancel()
	c.tracker.Stop()
	c.wg.Wait()
	c.log.Debug().Msg("coordinator closed")
}

// dispatch applies ev to the current state and performs the resulting
// effects. It returns the effects for callers that need to inspect them.
func (c *Coordinator) dispatch(ev Event) []Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.apply(ev)
}

// post delivers the outcome of an asynchronous wait. Outcomes that belong to
// an earlier AR entry attempt are dropped.
func (c *Coordinator) post(gen uint64, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		c.log.Debug().Str("event", string(ev)).Msg("dropping stale event")
		return
	}
	c.apply(ev)
}

// apply runs one transition. Callers hold c.mu.
func (c *Coordinator) apply(ev Event) []Effect {
	from := c.state
	to, effects := Transition(from, ev)
	c.state = to

	switch {
	case from.View == entities.ViewMap && to.View == entities.ViewAR:
		c.gen++
		c.attemptCtx, c.attemptCancel = context.WithCancel(c.ctx)
	case from.View == entities.ViewAR && to.View == entities.ViewMap:
		c.endAttempt()
	}

	if from.View != to.View {
		if !entities.CanTransition(from.View, to.View) {
			// Transition only ever produces legal view changes.
			panic(fmt.Sprintf("illegal view change %s -> %s", from.View, to.View))
		}
		metrics.ViewTransitionsTotal.WithLabelValues(string(from.View), string(to.View)).Inc()
		c.log.Info().
			Str("from", string(from.View)).
			Str("to", string(to.View)).
			Str("event", string(ev)).
			Msg("view changed")
	} else if from.Phase != to.Phase {
		c.log.Debug().
			Str("from", string(from.Phase)).
			Str("to", string(to.Phase)).
			Str("event", string(ev)).
			Msg("AR phase changed")
	}

	for _, e := range effects {
		c.perform(e)
	}

	if to.View == entities.ViewMap && from.View == entities.ViewAR && c.cfg.ClearSelectionOnExit {
		c.selectedID = ""
		c.state.Selected = false
	}
	return effects
}

// perform executes one effect. Callers hold c.mu; collaborators never call
// back into the coordinator synchronously.
func (c *Coordinator) perform(e Effect) {
	switch e {
	case EffectNoticeSelectFirst:
		metrics.AREntryRefusedTotal.WithLabelValues("no_selection").Inc()
		c.collab.Status.Notice(NoticeSelectFirst)
	case EffectHideMap:
		c.collab.Map.Hide()
	case EffectShowMap:
		c.collab.Map.Show()
	case EffectShowAR:
		c.collab.Scene.Show()
	case EffectHideAR:
		c.collab.Scene.Hide()
	case EffectShowLoading:
		c.collab.Status.Loading(StatusInitializing)
	case EffectHideLoading:
		c.collab.Status.LoadingDone()
	case EffectInitScene:
		c.waitForScene(c.attemptCtx, c.gen, c.collab.Scene.Initialize())
	case EffectPauseScene:
		c.collab.Scene.Pause()
	case EffectARStatusActive:
		c.collab.Status.ARStatus(StatusARActive)
	case EffectRequestCamera:
		c.requestCamera(c.attemptCtx, c.gen)
	case EffectPopulate:
		c.collab.Scene.Populate(BuildAREntities(c.catalog))
	case EffectStartTracking:
		if err := c.tracker.Start(); err != nil {
			c.log.Error().Err(err).Msg("location tracking failed to start")
		}
	case EffectStopTracking:
		c.tracker.Stop()
	case EffectNoticeCameraDenied:
		metrics.AREntryRefusedTotal.WithLabelValues("camera_denied").Inc()
		c.collab.Status.Notice(NoticeCameraDenied)
	}
}

// waitForScene posts SceneReady when ready closes, or SceneTimeout once the
// configured wait has elapsed.
//
// Go Learning Note — select with a Timer:
// A nil channel blocks forever in a select, so a scene that will never
// signal readiness simply falls through to the timer case.
func (c *Coordinator) waitForScene(ctx context.Context, gen uint64, ready <-chan struct{}) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		timer := time.NewTimer(c.cfg.SceneReadyTimeout)
		defer timer.Stop()

		select {
		case <-ready:
			c.post(gen, EventSceneReady)
		case <-timer.C:
			metrics.SceneReadyTimeoutsTotal.Inc()
			c.log.Warn().Dur("timeout", c.cfg.SceneReadyTimeout).Msg("AR scene not ready in time, continuing")
			c.post(gen, EventSceneTimeout)
		case <-ctx.Done():
		}
	}()
}

// requestCamera asks for camera access on a goroutine and posts the outcome.
// An error or an unanswered prompt counts as a denial.
func (c *Coordinator) requestCamera(ctx context.Context, gen uint64) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		promptCtx, cancel := context.WithTimeout(ctx, c.cfg.CameraPromptTimeout)
		defer cancel()

		outcome, err := c.collab.Camera.Request(promptCtx)
		if ctx.Err() != nil {
			return
		}

		ev := EventCameraDenied
		switch {
		case err != nil:
			c.log.Warn().Err(err).Msg("camera permission request failed")
		case outcome == PermissionGranted:
			ev = EventCameraGranted
		case outcome == PermissionUnavailable:
			ev = EventCameraUnavailable
		}
		c.post(gen, ev)
	}()
}

// endAttempt invalidates the current AR entry attempt. Callers hold c.mu.
func (c *Coordinator) endAttempt() {
	c.gen++
	if c.attemptCancel != nil {
		c.attemptCancel()
	}
	c.attemptCtx, c.attemptCancel = nil, nil
}

// infoFor builds the info panel content for poi.
func (c *Coordinator) infoFor(poi entities.POI) POIInfo {
	info := POIInfo{POI: poi, DistanceText: DistanceUnavailable}
	if pos, ok := c.tracker.Position(); ok {
		d, err := c.proximity.DistanceTo(poi.ID, pos.Coordinate)
		if err == nil {
			info.DistanceKm = &d
			info.DistanceText = fmt.Sprintf("Distance: %.2f km", d)
		}
	}
	return info
}
