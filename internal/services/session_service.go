package services

import (
	"context"
	"fmt"
	"time"

	"poiviewer/internal/catalog"
	"poiviewer/internal/config"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/logging"
	"poiviewer/internal/metrics"
	"poiviewer/internal/repository"
	"poiviewer/pkg/utils"
)

// CoordinatorConfigFrom extracts the per-session settings from the
// application config.
func CoordinatorConfigFrom(cfg *config.Config) CoordinatorConfig {
	watch := WatchOptions{
		HighAccuracy: cfg.Location.HighAccuracy,
		MaximumAge:   cfg.Location.MaximumAge,
	}
	continuous, oneShot := watch, watch
	continuous.Timeout = cfg.Location.SampleTimeout
	oneShot.Timeout = cfg.Location.OneShotTimeout

	return CoordinatorConfig{
		SceneReadyTimeout:    cfg.View.SceneReadyTimeout,
		CameraPromptTimeout:  cfg.View.CameraPromptTimeout,
		ClearSelectionOnExit: cfg.View.ClearSelectionOnExit,
		SelectionZoom:        cfg.Map.SelectionZoom,
		UserZoom:             cfg.Map.UserZoom,
		Watch:                continuous,
		OneShot:              oneShot,
		GeohashPrecision:     cfg.Location.GeohashPrecision,
	}
}

// SessionService creates, looks up and expires viewer sessions. Each session
// is one Coordinator wired to the collaborators the provider hands out for it.
type SessionService struct {
	cfg       CoordinatorConfig
	idleTTL   time.Duration
	sweep     time.Duration
	catalog   *catalog.Catalog
	proximity *ProximityService
	provider  CollaboratorProvider
	repo      repository.SessionRepository[*Coordinator]
}

func NewSessionService(
	cfg *config.Config,
	c *catalog.Catalog,
	proximity *ProximityService,
	provider CollaboratorProvider,
	repo repository.SessionRepository[*Coordinator],
) *SessionService {
	return &SessionService{
		cfg:       CoordinatorConfigFrom(cfg),
		idleTTL:   cfg.Session.IdleTTL,
		sweep:     cfg.Session.SweepInterval,
		catalog:   c,
		proximity: proximity,
		provider:  provider,
		repo:      repo,
	}
}

// Create starts a new session in the Map view.
func (s *SessionService) Create(ctx context.Context) (*Coordinator, error) {
	id := utils.NewSessionID()

	collab := s.provider.Acquire(id)
	collab.Status = MultiStatus{collab.Status, NewLogStatus(id)}

	coord := NewCoordinator(id, s.cfg, s.catalog, s.proximity, collab)
	if err := s.repo.Create(ctx, id, coord); err != nil {
		coord.Close()
		s.provider.Release(id)
		return nil, fmt.Errorf("store session: %w", err)
	}

	metrics.ActiveSessions.Inc()
	logging.Info().Str("session", id).Msg("session created")
	return coord, nil
}

// Get returns the session and marks it as used.
func (s *SessionService) Get(ctx context.Context, id string) (*Coordinator, error) {
	coord, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Touch(ctx, id); err != nil {
		return nil, err
	}
	return coord, nil
}

// Snapshot returns the session state including when it was last used.
func (s *SessionService) Snapshot(ctx context.Context, id string) (entities.SessionSnapshot, error) {
	coord, err := s.repo.Get(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	snap := coord.Snapshot()
	if last, err := s.repo.LastTouched(ctx, id); err == nil {
		snap.LastTouched = last
	}
	return snap, nil
}

// Delete ends the session: tracking stops and its collaborators are released.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	coord, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.end(coord, "deleted")
	return nil
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	return s.repo.Count()
}

// Sweep ends every session idle for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) Sweep(ctx context.Context) int {
	expired := s.repo.ExpireIdle(ctx, s.idleTTL)
	for _, coord := range expired {
		s.end(coord, "expired")
	}
	return len(expired)
}

// Serve runs the idle sweeper until ctx is done. It has the signature of a
// suture service.
//
// Go Learning Note — time.NewTicker:
// A ticker repeats until stopped; always defer ticker.Stop() so the runtime
// can release it.
func (s *SessionService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				logging.Info().Int("expired", n).Int("remaining", s.repo.Count()).Msg("idle sessions swept")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String names the sweeper in supervisor logs.
func (s *SessionService) String() string { return "session-sweeper" }

// CloseAll ends every session. It is used on shutdown.
func (s *SessionService) CloseAll(ctx context.Context) {
	for _, coord := range s.repo.ExpireIdle(ctx, -time.Hour) {
		s.end(coord, "shutdown")
	}
}

func (s *SessionService) end(coord *Coordinator, reason string) {
	coord.Close()
	s.provider.Release(coord.ID())
	metrics.ActiveSessions.Dec()
	logging.Info().Str("session", coord.ID()).Str("reason", reason).Msg("session ended")
}
