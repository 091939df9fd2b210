package services

import (
	"context"
	"errors"
	"time"

	"poiviewer/internal/domain/entities"
)

// The interfaces below are the narrow contracts between the core and the
// things it does not own: the map, the AR renderer, device permission prompts,
// the device location API and the status display. None of them may call back
// into a Coordinator synchronously from inside one of these methods.

// MapSurface is the 2D map with its markers.
type MapSurface interface {
	Show()
	Hide()
	CenterOn(c entities.Coordinate, zoom int)
}

// ARScene is the AR renderer together with the surface it draws on.
type ARScene interface {
	// Initialize starts (or resumes) the scene. The returned channel is closed
	// once the scene is ready; it may never close if the renderer stalls, and
	// a nil channel means readiness will never be signalled.
	Initialize() <-chan struct{}
	Pause()
	Populate(entities []AREntity)
	Show()
	Hide()
}

// PermissionOutcome is the answer to a permission prompt.
type PermissionOutcome string

const (
	PermissionGranted PermissionOutcome = "granted"
	PermissionDenied  PermissionOutcome = "denied"
	// PermissionUnavailable means the device has no camera API to ask. The
	// coordinator proceeds without a prompt.
	PermissionUnavailable PermissionOutcome = "unavailable"
)

// CameraPermission prompts the user for camera access. Request blocks until
// the user answers or ctx is done.
type CameraPermission interface {
	Request(ctx context.Context) (PermissionOutcome, error)
}

// WatchOptions are the device location request options.
type WatchOptions struct {
	HighAccuracy bool          `json:"high_accuracy"`
	MaximumAge   time.Duration `json:"maximum_age"`
	Timeout      time.Duration `json:"timeout"`
}

// Sample is one raw device position report.
type Sample struct {
	Coordinate entities.Coordinate `json:"coordinate"`
	AccuracyM  float64             `json:"accuracy_m"`
}

// ErrSampleTimeout is reported to a subscription's error handler when no
// sample arrived within WatchOptions.Timeout. The subscription stays open.
var ErrSampleTimeout = errors.New("position request timed out")

// Subscription is a running continuous location stream.
type Subscription interface {
	Close()
}

// LocationSource is the device location API.
type LocationSource interface {
	// Subscribe opens a continuous stream. onSample and onError are invoked in
	// device-reported order and may be invoked after Close returns; callers
	// must ignore such late deliveries.
	Subscribe(opts WatchOptions, onSample func(Sample), onError func(error)) (Subscription, error)
	// Current performs a single best-effort position request.
	Current(ctx context.Context, opts WatchOptions) (Sample, error)
}

// StatusSink receives short human-readable status lines. Calls are
// fire-and-forget.
type StatusSink interface {
	GPSStatus(text string)
	ARStatus(text string)
	Loading(text string)
	LoadingDone()
	Notice(text string)
}

// Collaborators bundles the external collaborators of one viewer session.
type Collaborators struct {
	Map      MapSurface
	Scene    ARScene
	Camera   CameraPermission
	Location LocationSource
	Status   StatusSink
}

// CollaboratorProvider hands out the collaborators for a session and is told
// when the session goes away.
type CollaboratorProvider interface {
	Acquire(sessionID string) Collaborators
	Release(sessionID string)
}
