package entities

import "time"

// ViewState selects which surface is active. Exactly one value holds at a time.
//
// Go Learning Note — Typed String Enums:
// Go has no enum keyword. A named string type plus constants gives readable
// JSON ("map"/"ar") and lets the compiler reject a bare string where a
// ViewState is expected.
type ViewState string

const (
	ViewMap ViewState = "map"
	ViewAR  ViewState = "ar"
)

// ARPhase refines ViewAR while entry is still in progress. In ViewMap the
// phase is always ARPhaseIdle.
type ARPhase string

const (
	ARPhaseIdle           ARPhase = "idle"
	ARPhaseAwaitingScene  ARPhase = "awaiting_scene"
	ARPhaseAwaitingCamera ARPhase = "awaiting_camera"
	ARPhaseActive         ARPhase = "active"
)

// validViewTransitions lists the view changes the coordinator may perform.
// Self-transitions are no-ops handled before this table is consulted.
var validViewTransitions = map[ViewState][]ViewState{
	ViewMap: {ViewAR},
	ViewAR:  {ViewMap},
}

// CanTransition reports whether from → to is a legal view change.
func CanTransition(from, to ViewState) bool {
	for _, s := range validViewTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SessionSnapshot is a read-only copy of one viewer session's state.
type SessionSnapshot struct {
	ID          string        `json:"id"`
	View        ViewState     `json:"view"`
	Phase       ARPhase       `json:"phase"`
	SelectedID  string        `json:"selected_id,omitempty"`
	Position    *UserPosition `json:"position,omitempty"`
	Tracking    bool          `json:"tracking"`
	CreatedAt   time.Time     `json:"created_at"`
	LastTouched time.Time     `json:"last_touched"`
}
