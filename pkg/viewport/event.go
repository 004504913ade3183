package viewport

import "github.com/matzehuels/lineageview/pkg/geom"

// EventKind identifies what changed.
type EventKind int

const (
	// EventTransform: pan or zoom changed the transform.
	EventTransform EventKind = iota
	// EventNodeMoved: a dragged node's position changed.
	EventNodeMoved
	// EventDragEnded: a drag finished; group boxes may need updating.
	EventDragEnded
	// EventExpansionChanged: expansion flags flipped. NodeID is empty for
	// expand-all and collapse-all.
	EventExpansionChanged
	// EventNodeSettled: a toggled node finished resizing and its height was
	// re-measured. Its edges, column edges and groups should be refreshed.
	EventNodeSettled
	// EventAllSettled: a bulk expand or collapse finished and every height
	// was re-measured.
	EventAllSettled
	// EventLayoutReset: the layout was recomputed from scratch.
	EventLayoutReset
	// EventFramePresented: the frame after a fit was presented; column
	// edges can be re-routed against the new port positions.
	EventFramePresented
)

var eventNames = [...]string{
	EventTransform:        "transform",
	EventNodeMoved:        "node-moved",
	EventDragEnded:        "drag-ended",
	EventExpansionChanged: "expansion-changed",
	EventNodeSettled:      "node-settled",
	EventAllSettled:       "all-settled",
	EventLayoutReset:      "layout-reset",
	EventFramePresented:   "frame-presented",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is delivered to subscribers after a state change.
type Event struct {
	Kind      EventKind
	NodeID    string
	Expanded  bool
	Transform geom.Transform
}

// Mode is the controller's interaction mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDragging
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModeDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// TargetKind classifies what a pointer-down landed on.
type TargetKind int

const (
	// TargetCanvas is empty canvas background.
	TargetCanvas TargetKind = iota
	// TargetNodeHeader is a node's header bar, outside its expand control.
	TargetNodeHeader
	// TargetNodeBody is any other part of a node (column rows, charts).
	TargetNodeBody
	// TargetExpandControl is a table's expand/collapse control.
	TargetExpandControl
)

// Target is the element under a pointer-down.
type Target struct {
	Kind   TargetKind
	NodeID string
}
