package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poiviewer/internal/domain/entities"
)

var (
	mapIdle        = CoordinatorState{View: entities.ViewMap, Phase: entities.ARPhaseIdle}
	mapSelected    = CoordinatorState{View: entities.ViewMap, Phase: entities.ARPhaseIdle, Selected: true}
	awaitingScene  = CoordinatorState{View: entities.ViewAR, Phase: entities.ARPhaseAwaitingScene, Selected: true}
	awaitingCamera = CoordinatorState{View: entities.ViewAR, Phase: entities.ARPhaseAwaitingCamera, Selected: true}
	arActive       = CoordinatorState{View: entities.ViewAR, Phase: entities.ARPhaseActive, Selected: true}
)

func TestTransition(t *testing.T) {
	exitEffects := []Effect{EffectStopTracking, EffectShowMap, EffectHideAR, EffectPauseScene}

	tests := []struct {
		name    string
		from    CoordinatorState
		event   Event
		want    CoordinatorState
		effects []Effect
	}{
		{
			name:    "enter without selection is refused",
			from:    mapIdle,
			event:   EventEnterRequested,
			want:    mapIdle,
			effects: []Effect{EffectNoticeSelectFirst},
		},
		{
			name:    "enter with selection",
			from:    mapSelected,
			event:   EventEnterRequested,
			want:    awaitingScene,
			effects: []Effect{EffectHideMap, EffectShowAR, EffectShowLoading, EffectInitScene},
		},
		{
			name:  "enter while in AR is a no-op",
			from:  arActive,
			event: EventEnterRequested,
			want:  arActive,
		},
		{
			name:    "scene ready",
			from:    awaitingScene,
			event:   EventSceneReady,
			want:    awaitingCamera,
			effects: []Effect{EffectHideLoading, EffectARStatusActive, EffectRequestCamera},
		},
		{
			name:    "scene timeout proceeds like ready",
			from:    awaitingScene,
			event:   EventSceneTimeout,
			want:    awaitingCamera,
			effects: []Effect{EffectHideLoading, EffectARStatusActive, EffectRequestCamera},
		},
		{
			name:  "scene ready outside the wait is ignored",
			from:  mapSelected,
			event: EventSceneReady,
			want:  mapSelected,
		},
		{
			name:    "camera granted",
			from:    awaitingCamera,
			event:   EventCameraGranted,
			want:    arActive,
			effects: []Effect{EffectPopulate, EffectStartTracking},
		},
		{
			name:    "no camera API proceeds like granted",
			from:    awaitingCamera,
			event:   EventCameraUnavailable,
			want:    arActive,
			effects: []Effect{EffectPopulate, EffectStartTracking},
		},
		{
			name:    "camera denied aborts to map",
			from:    awaitingCamera,
			event:   EventCameraDenied,
			want:    mapSelected,
			effects: append([]Effect{EffectNoticeCameraDenied}, exitEffects...),
		},
		{
			name:  "camera answer after exit is ignored",
			from:  mapSelected,
			event: EventCameraDenied,
			want:  mapSelected,
		},
		{
			name:    "exit from active AR",
			from:    arActive,
			event:   EventExitRequested,
			want:    mapSelected,
			effects: exitEffects,
		},
		{
			name:    "exit while waiting for the scene hides the loading indicator",
			from:    awaitingScene,
			event:   EventExitRequested,
			want:    mapSelected,
			effects: []Effect{EffectStopTracking, EffectHideLoading, EffectShowMap, EffectHideAR, EffectPauseScene},
		},
		{
			name:  "exit in map is a no-op",
			from:  mapIdle,
			event: EventExitRequested,
			want:  mapIdle,
		},
		{
			name:    "exit keeps a cleared selection cleared",
			from:    CoordinatorState{View: entities.ViewAR, Phase: entities.ARPhaseActive},
			event:   EventExitRequested,
			want:    mapIdle,
			effects: exitEffects,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effects := Transition(tt.from, tt.event)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.effects, effects)
		})
	}
}

func TestTransitionOnlyLegalViewChanges(t *testing.T) {
	states := []CoordinatorState{mapIdle, mapSelected, awaitingScene, awaitingCamera, arActive}
	events := []Event{
		EventEnterRequested, EventExitRequested, EventSceneReady, EventSceneTimeout,
		EventCameraGranted, EventCameraDenied, EventCameraUnavailable,
	}

	for _, s := range states {
		for _, ev := range events {
			got, _ := Transition(s, ev)
			if got.View != s.View {
				assert.True(t, entities.CanTransition(s.View, got.View), "%v on %s", s, ev)
			}
			if got.View == entities.ViewMap {
				assert.Equal(t, entities.ARPhaseIdle, got.Phase, "%v on %s", s, ev)
			}
			assert.Equal(t, s.Selected, got.Selected, "selection must not change on %s", ev)
		}
	}
}
