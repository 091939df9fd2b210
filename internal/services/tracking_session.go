package services

import (
	"context"
	"fmt"
	"sync"

	"poiviewer/internal/domain/entities"
	"poiviewer/internal/geo"
	"poiviewer/internal/logging"
	"poiviewer/internal/metrics"
)

// TrackingSession owns at most one continuous device location subscription
// and the user position it produces.
//
// Every subscription gets a generation number. Sample and error handlers
// carry the generation they were opened with and are ignored once Stop (or a
// later Start) has moved the generation on, so late deliveries from a closed
// subscription never touch the position.
type TrackingSession struct {
	mu        sync.Mutex
	source    LocationSource
	status    StatusSink
	opts      WatchOptions
	precision int

	running  bool
	gen      uint64
	sub      Subscription
	position *entities.UserPosition
}

// NewTrackingSession creates a stopped tracking session. precision is the
// geohash precision used to label positions.
func NewTrackingSession(source LocationSource, status StatusSink, opts WatchOptions, precision int) *TrackingSession {
	return &TrackingSession{
		source:    source,
		status:    status,
		opts:      opts,
		precision: precision,
	}
}

// Start opens the subscription. It is a no-op while one is already running.
func (t *TrackingSession) Start() error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = true
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	// Subscribe may deliver a first sample before it returns, so it is
	// called without holding the lock.
	sub, err := t.source.Subscribe(t.opts,
		func(s Sample) { t.onSample(gen, s) },
		func(err error) { t.onError(gen, err) },
	)

	t.mu.Lock()
	if err != nil {
		if t.gen == gen {
			t.running = false
		}
		t.mu.Unlock()
		t.status.GPSStatus("GPS error: " + err.Error())
		return fmt.Errorf("subscribe to location: %w", err)
	}
	if t.gen != gen {
		// Stopped while subscribing.
		t.mu.Unlock()
		sub.Close()
		return nil
	}
	t.sub = sub
	t.mu.Unlock()

	logging.Debug().Uint64("generation", gen).Msg("location tracking started")
	return nil
}

// Stop closes the subscription immediately. Samples still in flight are
// dropped. It is a no-op when not running.
func (t *TrackingSession) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.gen++
	sub := t.sub
	t.sub = nil
	t.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	logging.Debug().Msg("location tracking stopped")
}

// Running reports whether a subscription is open.
func (t *TrackingSession) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Position returns the last known user position, if any.
func (t *TrackingSession) Position() (entities.UserPosition, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.position == nil {
		return entities.UserPosition{}, false
	}
	return *t.position, true
}

// LocateOnce performs the one-shot startup position request. A successful
// fix overwrites the user position; the view state is never touched.
func (t *TrackingSession) LocateOnce(ctx context.Context, opts WatchOptions) (entities.UserPosition, error) {
	s, err := t.source.Current(ctx, opts)
	if err != nil {
		return entities.UserPosition{}, fmt.Errorf("locate: %w", err)
	}

	t.mu.Lock()
	pos := t.record(s)
	t.mu.Unlock()
	return pos, nil
}

func (t *TrackingSession) onSample(gen uint64, s Sample) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	pos := t.record(s)
	t.mu.Unlock()

	metrics.LocationSamplesTotal.Inc()
	t.status.GPSStatus(FormatGPSStatus(pos))
}

func (t *TrackingSession) onError(gen uint64, err error) {
	t.mu.Lock()
	live := t.running && gen == t.gen
	t.mu.Unlock()
	if !live {
		return
	}

	metrics.LocationErrorsTotal.Inc()
	logging.Warn().Err(err).Msg("location sample failed")
	t.status.GPSStatus("GPS error: " + err.Error())
}

// record overwrites the position. Callers hold t.mu.
func (t *TrackingSession) record(s Sample) entities.UserPosition {
	pos := entities.NewUserPosition(s.Coordinate, s.AccuracyM, geo.Encode(s.Coordinate, t.precision))
	t.position = &pos
	return pos
}

// FormatGPSStatus renders a position for the GPS status line.
func FormatGPSStatus(p entities.UserPosition) string {
	return fmt.Sprintf("GPS: %.6f, %.6f\nAccuracy: %.1fm",
		p.Coordinate.Latitude, p.Coordinate.Longitude, p.AccuracyM)
}
