// Package formbind re-exports the form controller surface and provides the
// convenience entry points most applications start with: a controller bound
// to a data object, optionally with validation rules parsed from YAML or
// derived from an OpenAPI operation.
package formbind

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/form"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/html"
	"github.com/goliatone/go-formbind/pkg/rules"
)

// Controller coordinates one form's fields, sync, validation, and submit
// pipeline; alias exported via the root package for convenience.
type Controller = form.Controller

// Field is the live per-field handle returned by RegisterField.
type Field = form.Field

// Button is the handle returned by RegisterSubmitButton.
type Button = form.Button

// SubmitFunc performs the actual submission.
type SubmitFunc = form.SubmitFunc

// Service bundles validation rules with a submit implementation.
type Service = form.Service

// Defaults holds fallback submit callbacks shared across controllers.
type Defaults = form.Defaults

// Option customises controller construction.
type Option = form.Option

// Snapshot is the consistent post-reconciliation view handed to presenters.
type Snapshot = render.Snapshot

// FieldView is one field's slice of a Snapshot.
type FieldView = render.FieldView

// Options carries presentation inputs that are not form state.
type Options = render.Options

// RuleSet maps field paths to declarative validation rules.
type RuleSet = rules.Set

// FieldErrors maps field paths to messages; submit functions return it to
// distribute a rejection onto individual fields.
type FieldErrors = rules.FieldErrors

// ErrNoSubmitFunc reports a submit attempt with no submit binding configured.
var ErrNoSubmitFunc = form.ErrNoSubmitFunc

// New constructs a controller bound to data. See form.New.
func New(data map[string]any, options ...Option) (*Controller, error) {
	return form.New(data, options...)
}

// Reject builds a submission rejection from a payload: structured payloads
// map back onto fields, plain values surface through the error callback.
func Reject(payload any) error {
	return form.Reject(payload)
}

// Presenters returns a registry preloaded with the built-in presenters,
// currently the HTML presenter under the name "html". Applications that bring
// their own presenters register them on the returned registry and resolve by
// name at render time.
func Presenters() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(html.New())
	return registry
}

// WithRules configures the declarative rule set for the default evaluator.
func WithRules(set rules.Set) Option { return form.WithRules(set) }

// WithEvaluator substitutes the rule evaluator.
func WithEvaluator(evaluator rules.Evaluator) Option { return form.WithEvaluator(evaluator) }

// WithService wires a Service providing rules and a fallback submit.
func WithService(service Service) Option { return form.WithService(service) }

// WithSubmitFunc binds an explicit submit function.
func WithSubmitFunc(fn SubmitFunc) Option { return form.WithSubmitFunc(fn) }

// WithSubmitComplete binds a completion callback.
func WithSubmitComplete(fn func(result any)) Option { return form.WithSubmitComplete(fn) }

// WithSubmitError binds an error callback.
func WithSubmitError(fn func(err error)) Option { return form.WithSubmitError(fn) }

// WithDefaults injects shared fallback callbacks.
func WithDefaults(defaults Defaults) Option { return form.WithDefaults(defaults) }

// WithInitialErrors seeds stored field errors before any validation runs.
func WithInitialErrors(errs map[string]string) Option { return form.WithInitialErrors(errs) }

// WithRulesYAML parses a YAML rule document and returns the option wiring the
// resulting set into a controller.
func WithRulesYAML(data []byte) (Option, error) {
	set, err := rules.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return form.WithRules(set), nil
}

// FromOperation builds a controller whose validation rules are derived from
// the request body schema of an OpenAPI operation. The document is parsed
// from raw bytes (JSON or YAML).
func FromOperation(ctx context.Context, document []byte, operationID string, data map[string]any, options ...Option) (*Controller, error) {
	doc, err := pkgopenapi.Load(ctx, document)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, operationID, data, options)
}

// FromOperationFile is FromOperation for a document on disk.
func FromOperationFile(ctx context.Context, path, operationID string, data map[string]any, options ...Option) (*Controller, error) {
	doc, err := pkgopenapi.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, operationID, data, options)
}

func fromDocument(doc pkgopenapi.Document, operationID string, data map[string]any, options []Option) (*Controller, error) {
	set, err := pkgopenapi.RulesForOperation(doc, operationID)
	if err != nil {
		return nil, err
	}
	// Derived rules go first so explicit WithRules/WithEvaluator options win.
	merged := make([]Option, 0, len(options)+1)
	merged = append(merged, form.WithRules(set))
	merged = append(merged, options...)
	return form.New(data, merged...)
}
