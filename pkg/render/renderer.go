// Package render defines the presentation seam between form controllers and
// output adapters. Controllers produce Snapshots; Presenters turn them into
// bytes (HTML, terminal sessions, ...). The Registry stores presenters by
// name for composition-time wiring.
package render

import "context"

// FieldView is the read-only projection of a single registered field after a
// reconciliation pass. Error carries the displayed error (already gated on
// dirty/submitted state) as plain text; trust decisions belong to presenters.
type FieldView struct {
	Path     string
	ID       string
	Group    string
	Value    any
	Error    string
	Required bool
	Disabled bool
	Modified bool
}

// Snapshot is the consistent view of a form produced in a single step, in
// field registration order.
type Snapshot struct {
	Fields    []FieldView
	Submitted bool
	Disabled  bool
}

// Options carries per-presentation instructions.
type Options struct {
	// Title labels the form (legend, heading, or session banner).
	Title string
	// Action and Method describe the submission target for markup presenters.
	Action string
	Method string
}

// Presenter renders a form snapshot into presenter-specific output.
type Presenter interface {
	// Name reports the presenter identifier used for registry lookup.
	Name() string
	// Present renders the snapshot.
	Present(ctx context.Context, snapshot Snapshot, opts Options) ([]byte, error)
}
