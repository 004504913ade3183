// Package viewport owns the pan/zoom transform of a lineage diagram and the
// pointer interactions that change it.
//
// The [Controller] is a small state machine. Idle is the resting mode; a
// pointer-down on empty canvas enters panning, a pointer-down on a node
// header enters dragging that node, and pointer-up returns to idle. Wheel and
// zoom-button input change the scale while keeping the graph point under the
// zoom anchor fixed on screen:
//
//	translate' = anchor - (anchor - translate) * (s'/s)
//
// where s' is the requested scale after clamping.
//
// The controller never touches pixels. It talks to the rendering side through
// three capabilities:
//
//   - [Surface] reports the viewport size, live node sizes and column port
//     locations.
//   - [Scheduler] defers work by a settle delay or to the next presented
//     frame. [ImmediateScheduler] suits surfaces without transitions;
//     [ManualScheduler] lets a host loop (or a test) drive time explicitly.
//   - [TransitionNotifier], when the surface implements it, replaces the
//     fixed settle delay after an expand/collapse toggle with an explicit
//     transition-end callback.
//
// Everything runs on the caller's goroutine. The controller starts no
// goroutines and holds no locks.
package viewport
