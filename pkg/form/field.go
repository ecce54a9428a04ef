package form

// Field is the live handle returned by RegisterField. Widgets read the
// bindable value, displayed error, and disabled/required flags from it and
// push edits back through Controller.SetFieldValue. Handles share the
// controller's single-goroutine contract.
type Field struct {
	ctrl  *Controller
	path  string
	id    string
	group string

	required bool
	disabled bool

	value          any
	displayedError string

	// observed distinguishes the initial data observation (which never marks
	// the field modified) from subsequent ones; lastObserved is the data
	// value seen by that observation, kept separate from the bindable value
	// so an in-flight edit still registers as a data change.
	observed     bool
	lastObserved any

	// seeded marks a stored error that came from WithInitialErrors rather
	// than validation. Seeded errors survive submit revalidation until the
	// field's value changes or a submit outcome supersedes them.
	seeded bool
}

// Path returns the field's address into the bound data object.
func (f *Field) Path() string { return f.path }

// ID returns the sanitized identifier derived from the path.
func (f *Field) ID() string { return f.id }

// Group returns the validation group key (path prefix before the first
// bracket).
func (f *Field) Group() string { return f.group }

// Required reports whether the field carries a required constraint, derived
// once at registration.
func (f *Field) Required() bool { return f.required }

// Disabled reports whether the field is currently disabled (form submitting
// or configured disabled).
func (f *Field) Disabled() bool { return f.disabled }

// Value returns the field's current bindable value.
func (f *Field) Value() any { return f.value }

// Error returns the displayed error computed by the last reconciliation
// pass, or empty when none should be shown. The string is plain text.
func (f *Field) Error() string { return f.displayedError }

// Modified reports whether a user-driven edit has been observed since the
// last reset.
func (f *Field) Modified() bool { return f.ctrl.st.modified[f.id] }

// Button is the handle returned by RegisterSubmitButton. The registry is
// positional: buttons carry no identity beyond the handle itself.
type Button struct {
	disabled bool
}

// Disabled reports whether the button is currently disabled.
func (b *Button) Disabled() bool { return b.disabled }
