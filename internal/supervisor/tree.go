// Package supervisor runs the long-lived parts of the server under a suture
// supervisor tree.
//
// Go Learning Note — Supervision Trees:
// A suture.Service is anything with Serve(ctx) error. The supervisor restarts
// a service whose Serve returns early or panics, backing off when failures
// pile up. Grouping services into child supervisors keeps a crash loop in
// one layer from restarting the others.
package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"poiviewer/internal/logging"
)

// TreeConfig holds supervisor tree configuration. Zero values take the
// suture defaults.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree has two layers: sessions (websocket hub, idle-session sweeper) and
// api (HTTP server).
type Tree struct {
	root     *suture.Supervisor
	sessions *suture.Supervisor
	api      *suture.Supervisor
}

func NewTree(cfg TreeConfig) *Tree {
	d := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = d.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = d.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = d.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = d.ShutdownTimeout
	}

	rootSpec := suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := rootSpec
	childSpec.EventHook = nil // children report through the root's hook

	t := &Tree{
		root:     suture.New("poiviewer", rootSpec),
		sessions: suture.New("session-layer", childSpec),
		api:      suture.New("api-layer", childSpec),
	}
	t.root.Add(t.sessions)
	t.root.Add(t.api)
	return t
}

// logEvent writes suture events through zerolog.
func logEvent(e suture.Event) {
	level := zerolog.WarnLevel
	if e.Type() == suture.EventTypeResume {
		level = zerolog.InfoLevel
	}
	l := logging.Logger()
	l.WithLevel(level).
		Str("component", "supervisor").
		Fields(e.Map()).
		Msg(e.String())
}

// AddSessionService adds the hub or the session sweeper.
func (t *Tree) AddSessionService(svc suture.Service) suture.ServiceToken {
	return t.sessions.Add(svc)
}

// AddAPIService adds the HTTP server.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is done.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result of Serve.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
