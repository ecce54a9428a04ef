package prompt

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/paths"
	"github.com/goliatone/go-formbind/pkg/rules"
)

const (
	defaultMaxAttempts = 3
	defaultMaxRounds   = 1
)

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver used by the session.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMaxAttempts bounds how often a field with inline validation errors is
// re-prompted before the session moves on and lets the submit pipeline report
// the remaining problem.
func WithMaxAttempts(attempts int) Option {
	return func(s *Session) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithMaxRounds bounds how many times the session re-prompts fields rejected
// by the submit pipeline before giving up and returning the rejection.
func WithMaxRounds(rounds int) Option {
	return func(s *Session) {
		if rounds >= 0 {
			s.rounds = rounds
		}
	}
}

// WithConfirm asks for a yes/no confirmation before submitting. Declining
// aborts the session with ErrAborted.
func WithConfirm() Option {
	return func(s *Session) {
		s.confirm = true
	}
}

// WithChoices renders the field at path as a single-choice select over the
// given options instead of a free-form input.
func WithChoices(path string, options ...string) Option {
	return func(s *Session) {
		if len(options) == 0 {
			return
		}
		if s.choices == nil {
			s.choices = make(map[string][]string)
		}
		s.choices[paths.Sanitize(path)] = options
	}
}

// Session walks a controller's registered fields as terminal prompts and runs
// the submit pipeline at the end. It shares the controller's single-goroutine
// contract.
type Session struct {
	ctrl   *form.Controller
	driver PromptDriver

	attempts int
	rounds   int
	confirm  bool
	choices  map[string][]string
}

// NewSession binds a session to a controller. The default driver prompts via
// survey on the real terminal.
func NewSession(ctrl *form.Controller, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("prompt: controller is required")
	}
	s := &Session{
		ctrl:     ctrl,
		driver:   NewSurveyDriver(),
		attempts: defaultMaxAttempts,
		rounds:   defaultMaxRounds,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Run prompts every registered field in registration order, then submits.
// Fields the submission rejects are re-prompted and the submit retried, up to
// the configured round limit. The returned error is nil on a successful
// submit, ErrAborted when the user bails out, or the final rejection.
func (s *Session) Run(ctx context.Context) error {
	snapshot := s.ctrl.Snapshot()
	for _, view := range snapshot.Fields {
		if view.Disabled {
			continue
		}
		if err := s.promptField(ctx, view.Path); err != nil {
			return err
		}
	}

	if s.confirm {
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	for round := 0; ; round++ {
		err := s.ctrl.Submit(ctx)
		if err == nil {
			return nil
		}

		var fieldErrs rules.FieldErrors
		if !errors.As(err, &fieldErrs) || round >= s.rounds {
			return err
		}
		prompted, promptErr := s.repromptRejected(ctx, fieldErrs)
		if promptErr != nil {
			return promptErr
		}
		if !prompted {
			return err
		}
	}
}

// repromptRejected re-opens the rejected fields that are still registered, in
// a stable order. It reports whether any prompt actually ran, so rejections
// that map onto nothing registered do not loop.
func (s *Session) repromptRejected(ctx context.Context, fieldErrs rules.FieldErrors) (bool, error) {
	rejected := make([]string, 0, len(fieldErrs))
	for path := range fieldErrs {
		rejected = append(rejected, path)
	}
	sort.Strings(rejected)

	prompted := false
	for _, path := range rejected {
		if s.ctrl.Field(path) == nil {
			continue
		}
		if err := s.promptField(ctx, path); err != nil {
			return false, err
		}
		prompted = true
	}
	return prompted, nil
}

// promptField collects one field's value, re-prompting while inline
// validation keeps rejecting the input. After the attempt budget the last
// message is surfaced as info and the stored error is left for the submit
// pipeline to report.
func (s *Session) promptField(ctx context.Context, path string) error {
	field := s.ctrl.Field(path)
	if field == nil {
		return nil
	}

	label := field.Path()
	if field.Required() {
		label += " *"
	}
	help := field.Error()

	if options, ok := s.choices[field.ID()]; ok {
		index, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, valueString(field.Value())),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if index < 0 || index >= len(options) {
			return fmt.Errorf("prompt: selection out of range for %q", path)
		}
		return s.ctrl.SetFieldValue(path, options[index])
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		value, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: valueString(field.Value()),
			Help:    help,
		})
		if err != nil {
			return err
		}
		if err := s.ctrl.SetFieldValue(path, value); err != nil {
			return err
		}
		message := field.Error()
		if message == "" {
			return nil
		}
		help = message
	}

	if message := field.Error(); message != "" {
		if err := s.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Path(), message)); err != nil {
			return err
		}
	}
	return nil
}

func valueString(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
