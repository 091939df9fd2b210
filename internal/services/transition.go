package services

import "poiviewer/internal/domain/entities"

// Event is an input to the view-state machine.
type Event string

const (
	EventEnterRequested    Event = "enter_requested"
	EventExitRequested     Event = "exit_requested"
	EventSceneReady        Event = "scene_ready"
	EventSceneTimeout      Event = "scene_timeout"
	EventCameraGranted     Event = "camera_granted"
	EventCameraDenied      Event = "camera_denied"
	EventCameraUnavailable Event = "camera_unavailable"
)

// Effect is a side effect the coordinator performs after a transition.
type Effect string

const (
	EffectNoticeSelectFirst  Effect = "notice_select_first"
	EffectHideMap            Effect = "hide_map"
	EffectShowMap            Effect = "show_map"
	EffectShowAR             Effect = "show_ar"
	EffectHideAR             Effect = "hide_ar"
	EffectShowLoading        Effect = "show_loading"
	EffectHideLoading        Effect = "hide_loading"
	EffectInitScene          Effect = "init_scene"
	EffectPauseScene         Effect = "pause_scene"
	EffectARStatusActive     Effect = "ar_status_active"
	EffectRequestCamera      Effect = "request_camera"
	EffectPopulate           Effect = "populate"
	EffectStartTracking      Effect = "start_tracking"
	EffectStopTracking       Effect = "stop_tracking"
	EffectNoticeCameraDenied Effect = "notice_camera_denied"
)

// CoordinatorState is the input of the transition function: the view, the AR
// entry phase and whether a POI is selected.
type CoordinatorState struct {
	View     entities.ViewState
	Phase    entities.ARPhase
	Selected bool
}

// Transition is the coordinator's transition table. It is a pure function of
// the current state and the event; everything it wants done is returned as
// effects, in execution order. Events that do not apply to the current state
// return the state unchanged and no effects.
//
// Selection is an input only: no transition sets or clears it.
func Transition(s CoordinatorState, ev Event) (CoordinatorState, []Effect) {
	switch ev {
	case EventEnterRequested:
		if s.View == entities.ViewAR {
			return s, nil
		}
		if !s.Selected {
			return s, []Effect{EffectNoticeSelectFirst}
		}
		s.View, s.Phase = entities.ViewAR, entities.ARPhaseAwaitingScene
		return s, []Effect{EffectHideMap, EffectShowAR, EffectShowLoading, EffectInitScene}

	case EventSceneReady, EventSceneTimeout:
		if s.View != entities.ViewAR || s.Phase != entities.ARPhaseAwaitingScene {
			return s, nil
		}
		s.Phase = entities.ARPhaseAwaitingCamera
		return s, []Effect{EffectHideLoading, EffectARStatusActive, EffectRequestCamera}

	case EventCameraGranted, EventCameraUnavailable:
		if s.View != entities.ViewAR || s.Phase != entities.ARPhaseAwaitingCamera {
			return s, nil
		}
		s.Phase = entities.ARPhaseActive
		return s, []Effect{EffectPopulate, EffectStartTracking}

	case EventCameraDenied:
		if s.View != entities.ViewAR || s.Phase != entities.ARPhaseAwaitingCamera {
			return s, nil
		}
		exit, effects := exitAR(s)
		return exit, append([]Effect{EffectNoticeCameraDenied}, effects...)

	case EventExitRequested:
		if s.View != entities.ViewAR {
			return s, nil
		}
		return exitAR(s)
	}
	return s, nil
}

func exitAR(s CoordinatorState) (CoordinatorState, []Effect) {
	effects := []Effect{EffectStopTracking}
	if s.Phase == entities.ARPhaseAwaitingScene {
		effects = append(effects, EffectHideLoading)
	}
	effects = append(effects, EffectShowMap, EffectHideAR, EffectPauseScene)
	s.View, s.Phase = entities.ViewMap, entities.ARPhaseIdle
	return s, effects
}
