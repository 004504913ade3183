package viewport

import (
	"time"

	"github.com/matzehuels/lineageview/pkg/geom"
)

// Surface is the rendering side as seen by the controller.
type Surface interface {
	// ViewportSize returns the canvas size in view space.
	ViewportSize() geom.Size

	// MeasureNode returns the live rendered size of a node in graph units.
	// ok is false when the node is not rendered or cannot be measured.
	MeasureNode(id string) (size geom.Size, ok bool)

	geom.PortLocator
}

// TransitionNotifier is implemented by surfaces that animate node size
// changes and can report when an animation has finished.
type TransitionNotifier interface {
	OnTransitionEnd(fn func(nodeID string))
}

// Scheduler defers callbacks. Callbacks must run on the same goroutine as the
// controller's other methods.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func())

	// NextFrame runs fn after the surface has presented its next frame.
	NextFrame(fn func())
}
