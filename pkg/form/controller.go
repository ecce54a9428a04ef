// Package form implements the form-binding controller at the heart of
// go-formbind: it registers fields and submit buttons against an externally
// owned data object, keeps field values and data in two-way sync, tracks
// per-field dirty and error state, orchestrates rule validation, and runs the
// submit pipeline with error mapping back onto individual fields.
//
// The controller is cooperative and single-goroutine by contract: drive it
// from one goroutine (an HTTP handler, a TUI loop, a test). Internally every
// mutation flows through a FIFO task queue that public methods drain to
// quiescence before returning, so two-way sync is deferred by one
// notification cycle and displayed errors change in a single consolidated
// reconciliation pass rather than field by field.
package form

import (
	"context"
	"errors"

	"github.com/goliatone/go-formbind/pkg/paths"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/rules"
)

// SubmitFunc performs the actual submission. The controller never owns
// transport; implementations post over HTTP, enqueue jobs, or write stores.
// Returning a rules.FieldErrors (directly or wrapped) maps the rejection back
// onto individual fields.
type SubmitFunc func(ctx context.Context, data map[string]any) (any, error)

// Service bundles validation rules with a submit implementation. Resolve the
// name-to-instance mapping at the application's composition boundary and pass
// the instance here by reference.
type Service interface {
	ValidationRules() rules.Set
	Submit(ctx context.Context, data map[string]any) (any, error)
}

// Defaults holds fallback submit callbacks, resolved at call time and only
// when no per-controller callback is bound. Inject one shared instance
// instead of relying on ambient global state.
type Defaults struct {
	SubmitComplete func(result any)
	SubmitError    func(err error)
}

// Option customises controller construction.
type Option func(*Controller)

// WithRules configures the declarative rule set evaluated by the default
// evaluator. Takes precedence over rules provided by a Service.
func WithRules(set rules.Set) Option {
	return func(c *Controller) {
		if len(set) > 0 {
			c.ruleSet = set
		}
	}
}

// WithEvaluator substitutes the rule evaluator. Takes precedence over
// WithRules and Service-provided rules.
func WithEvaluator(evaluator rules.Evaluator) Option {
	return func(c *Controller) {
		c.evaluator = evaluator
	}
}

// WithService wires a Service providing validation rules and a fallback
// submit implementation.
func WithService(service Service) Option {
	return func(c *Controller) {
		c.service = service
	}
}

// WithSubmitFunc binds an explicit submit function, taking precedence over a
// Service's Submit.
func WithSubmitFunc(fn SubmitFunc) Option {
	return func(c *Controller) {
		c.submitFn = fn
	}
}

// WithSubmitComplete binds a completion callback invoked with the submit
// result payload.
func WithSubmitComplete(fn func(result any)) Option {
	return func(c *Controller) {
		c.onComplete = fn
	}
}

// WithSubmitError binds an error callback invoked with the submission
// rejection.
func WithSubmitError(fn func(err error)) Option {
	return func(c *Controller) {
		c.onError = fn
	}
}

// WithDefaults injects shared fallback callbacks used when no per-controller
// callback is bound.
func WithDefaults(defaults Defaults) Option {
	return func(c *Controller) {
		c.defaults = defaults
	}
}

// WithDisabled keeps every registered field and button disabled for the
// controller's lifetime.
func WithDisabled() Option {
	return func(c *Controller) {
		c.alwaysDisabled = true
	}
}

// WithInitialErrors seeds stored field errors (keyed by field path) before
// any validation runs, typically from a previous server response. The errors
// stay hidden until the matching field is modified or the form submitted, and
// persist until the field's value changes or a submit outcome supersedes
// them.
func WithInitialErrors(errs map[string]string) Option {
	return func(c *Controller) {
		if len(errs) == 0 {
			return
		}
		if c.initialErrors == nil {
			c.initialErrors = make(map[string]string, len(errs))
		}
		for path, message := range errs {
			c.initialErrors[path] = message
		}
	}
}

// Controller coordinates one form's lifecycle over an externally owned data
// object. It never copies the data: reads and writes happen in place.
type Controller struct {
	data map[string]any

	ruleSet   rules.Set
	evaluator rules.Evaluator
	service   Service

	submitFn   SubmitFunc
	onComplete func(any)
	onError    func(error)
	defaults   Defaults

	alwaysDisabled bool
	initialErrors  map[string]string

	fields  map[string]*Field
	order   []string
	buttons []*Button

	st             state
	lastReconciled uint64

	queue      []func()
	draining   bool
	submitting bool
}

// New constructs a controller bound to data. The data object stays owned by
// the caller and is mutated in place as fields are edited.
func New(data map[string]any, options ...Option) (*Controller, error) {
	if data == nil {
		return nil, errors.New("form: data object is required")
	}
	c := &Controller{
		data:   data,
		fields: make(map[string]*Field),
		st:     newState(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.evaluator == nil {
		set := c.ruleSet
		if set == nil && c.service != nil {
			set = c.service.ValidationRules()
		}
		if len(set) > 0 {
			c.evaluator = rules.NewEvaluator(set)
		}
	}
	return c, nil
}

// RegisterField attaches a field at the given path and returns its live
// handle. Registering a path that is already registered tears the previous
// record down first, so stale observations never leak. The initial data
// observation (value population, no dirty-marking) happens before the call
// returns.
func (c *Controller) RegisterField(path string) (*Field, error) {
	id := paths.Sanitize(path)
	if id == "" {
		return nil, errors.New("form: field path is required")
	}
	if _, exists := c.fields[id]; exists {
		c.UnregisterField(path)
	}

	field := &Field{
		ctrl:     c,
		path:     path,
		id:       id,
		group:    paths.GroupKey(path),
		disabled: c.alwaysDisabled || c.submitting,
	}
	if c.evaluator != nil {
		field.required = c.evaluator.IsFieldRequired(path)
	}
	c.fields[id] = field
	c.order = append(c.order, id)

	if message, ok := c.initialErrors[path]; ok {
		c.st.setError(id, message)
		field.seeded = true
	}

	c.schedule(func() { c.observe(field) })
	c.drain()
	return field, nil
}

// UnregisterField detaches the field at path, e.g. when a conditional or
// repeated widget leaves the form. Unregistering a never-registered path is a
// no-op returning false.
func (c *Controller) UnregisterField(path string) bool {
	id := paths.Sanitize(path)
	if _, ok := c.fields[id]; !ok {
		return false
	}
	delete(c.fields, id)
	for idx, candidate := range c.order {
		if candidate == id {
			c.order = append(c.order[:idx], c.order[idx+1:]...)
			break
		}
	}
	c.st.drop(id)
	c.drain()
	return true
}

// RegisterSubmitButton appends a button record and returns its handle for the
// caller to observe.
func (c *Controller) RegisterSubmitButton() *Button {
	button := &Button{disabled: c.alwaysDisabled || c.submitting}
	c.buttons = append(c.buttons, button)
	return button
}

// UnregisterSubmitButton removes a previously registered button handle,
// returning false when the handle is unknown.
func (c *Controller) UnregisterSubmitButton(button *Button) bool {
	for idx, candidate := range c.buttons {
		if candidate == button {
			c.buttons = append(c.buttons[:idx], c.buttons[idx+1:]...)
			return true
		}
	}
	return false
}

// Field returns the handle registered at path, or nil.
func (c *Controller) Field(path string) *Field {
	return c.fields[paths.Sanitize(path)]
}

// Data returns the bound data object.
func (c *Controller) Data() map[string]any { return c.data }

// Submitted reports whether a submit has been triggered since the last
// ResetErrors.
func (c *Controller) Submitted() bool { return c.st.submitted }

// ResetErrors restores the pristine presentation state: it clears the
// submitted flag and every field's modified flag. Stored error values are
// kept; the reconciliation visibility rule hides them until fields are
// touched again.
func (c *Controller) ResetErrors() {
	c.schedule(func() {
		c.st.setSubmitted(false)
		c.st.clearModified()
	})
	c.drain()
}

// Snapshot returns the consistent post-reconciliation view of the form in
// field registration order.
func (c *Controller) Snapshot() render.Snapshot {
	c.drain()
	snapshot := render.Snapshot{
		Submitted: c.st.submitted,
		Disabled:  c.alwaysDisabled || c.submitting,
		Fields:    make([]render.FieldView, 0, len(c.order)),
	}
	for _, id := range c.order {
		field := c.fields[id]
		snapshot.Fields = append(snapshot.Fields, render.FieldView{
			Path:     field.path,
			ID:       field.id,
			Group:    field.group,
			Value:    field.value,
			Error:    field.displayedError,
			Required: field.required,
			Disabled: field.disabled,
			Modified: c.st.modified[field.id],
		})
	}
	return snapshot
}

// schedule appends a task to the notification queue.
func (c *Controller) schedule(task func()) {
	c.queue = append(c.queue, task)
}

// drain runs queued tasks to quiescence, then reconciles once if any tracked
// state changed. Re-entrant calls (from tasks or callbacks) are no-ops; the
// outer drain picks their work up.
func (c *Controller) drain() {
	if c.draining {
		return
	}
	c.draining = true
	defer func() { c.draining = false }()

	for len(c.queue) > 0 {
		task := c.queue[0]
		c.queue = c.queue[1:]
		task()
	}

	if c.st.token != c.lastReconciled {
		c.reconcile()
	}
}

// reconcile recomputes every field's displayed error from stored state in one
// pass: errors show only once the form has been submitted or the field
// individually modified; otherwise the display is forced empty, which also
// covers the reset-to-pristine case without clearing stored errors.
func (c *Controller) reconcile() {
	for _, field := range c.fields {
		if c.st.submitted || c.st.modified[field.id] {
			field.displayedError = c.st.errors[field.id]
		} else {
			field.displayedError = ""
		}
	}
	c.lastReconciled = c.st.token
}

// setFormDisabled propagates the submitting/enabled transition to every
// field and button record.
func (c *Controller) setFormDisabled(disabled bool) {
	c.submitting = disabled
	effective := disabled || c.alwaysDisabled
	for _, field := range c.fields {
		field.disabled = effective
	}
	for _, button := range c.buttons {
		button.disabled = effective
	}
}
