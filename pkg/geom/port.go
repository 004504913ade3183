package geom

// PortLocator is implemented by rendering surfaces that can report where a
// column's connection port currently sits on screen. The returned point is in
// view space, relative to the canvas origin. ok is false when the node, the
// column row or the port is not rendered.
type PortLocator interface {
	LocatePort(nodeID, column string, side Side) (p Point, ok bool)
}

// PortLocatorFunc adapts a plain function to [PortLocator].
type PortLocatorFunc func(nodeID, column string, side Side) (Point, bool)

// LocatePort calls f.
func (f PortLocatorFunc) LocatePort(nodeID, column string, side Side) (Point, bool) {
	return f(nodeID, column, side)
}

// PortPosition resolves the graph-space position of a column port by asking
// loc for its view-space position and inverting t. It returns false when the
// port cannot be located this frame.
func PortPosition(loc PortLocator, nodeID, column string, side Side, t Transform) (Point, bool) {
	if loc == nil || t.Scale == 0 {
		return Point{}, false
	}
	p, ok := loc.LocatePort(nodeID, column, side)
	if !ok {
		return Point{}, false
	}
	return t.ToGraph(p), true
}
