package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/paths"
	"github.com/goliatone/go-formbind/pkg/rules"
)

// ErrNoSubmitFunc is returned when neither an explicit submit function nor a
// Service submit is configured. It flows through the ordinary rejection path:
// the error callback fires and the form is re-enabled.
var ErrNoSubmitFunc = errors.New("form: no submit function provided")

// Submit runs the submit pipeline: mark the form submitted (making stored
// errors visible on the next reconciliation), disable fields and buttons,
// bulk-validate every distinct validation group, and only when validation
// passes invoke the resolved submit function. Validation failures and submit
// failures both flow through the error callback. Structured rejections
// (rules.FieldErrors) are distributed back onto individual fields; every
// outcome re-enables the form. The returned error is nil exactly when the
// submit function resolved successfully.
func (c *Controller) Submit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.schedule(func() {
		c.st.setSubmitted(true)
		c.setFormDisabled(true)
	})
	c.drain()
	defer func() {
		c.schedule(func() { c.setFormDisabled(false) })
		c.drain()
	}()

	if err := c.validateAll(ctx); err != nil {
		var fieldErrs rules.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.applyFieldErrors(fieldErrs)
		}
		c.invokeError(err)
		c.drain()
		return err
	}

	submit := c.resolveSubmit()
	if submit == nil {
		c.invokeError(ErrNoSubmitFunc)
		return ErrNoSubmitFunc
	}

	result, err := c.invokeSubmit(ctx, submit)
	if err != nil {
		var fieldErrs rules.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.applyFieldErrors(fieldErrs)
		}
		c.invokeError(err)
		c.drain()
		return err
	}

	// An accepted submission retires any remaining seeded errors.
	c.schedule(func() {
		for _, field := range c.fields {
			if field.seeded {
				field.seeded = false
				c.st.clearError(field.id)
			}
		}
	})
	c.drain()

	c.invokeComplete(result)
	return nil
}

// ValidateAll clears stored field errors and re-runs bulk validation over the
// distinct validation group keys of all registered fields. Collection fields
// validate once per group, not once per element. With no rules configured the
// form is considered valid.
func (c *Controller) ValidateAll(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.validateAll(ctx)
	if err != nil {
		var fieldErrs rules.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.applyFieldErrors(fieldErrs)
		}
	}
	c.drain()
	return err
}

func (c *Controller) validateAll(ctx context.Context) error {
	c.schedule(func() {
		for _, id := range c.order {
			if !c.fields[id].seeded {
				c.st.clearError(id)
			}
		}
	})
	c.drain()

	if c.evaluator == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(c.order))
	groups := make([]string, 0, len(c.order))
	for _, id := range c.order {
		group := c.fields[id].group
		if _, ok := seen[group]; ok {
			continue
		}
		seen[group] = struct{}{}
		groups = append(groups, group)
	}

	return c.evaluator.ValidateFields(ctx, c.data, groups)
}

// applyFieldErrors stores a rejection mapping into form state. A path with no
// registered field is matched by normalized path instead, so a rejection
// keyed by a rule path like "items.qty" still lands on the registered element
// fields ("items[0].qty", ...). Paths matching nothing are dropped; fields
// absent from the mapping keep their cleared state.
func (c *Controller) applyFieldErrors(fieldErrs rules.FieldErrors) {
	c.schedule(func() {
		for path, message := range fieldErrs {
			id := paths.Sanitize(path)
			if field, ok := c.fields[id]; ok {
				field.seeded = false
				c.st.setError(id, message)
				continue
			}
			norm := paths.Normalize(path)
			for _, candidate := range c.order {
				field := c.fields[candidate]
				if paths.Normalize(field.path) != norm {
					continue
				}
				field.seeded = false
				c.st.setError(candidate, message)
			}
		}
	})
	c.drain()
}

// resolveSubmit picks the submit function: the explicit per-controller
// binding wins, then the Service's Submit, then nothing.
func (c *Controller) resolveSubmit() SubmitFunc {
	if c.submitFn != nil {
		return c.submitFn
	}
	if c.service != nil {
		return c.service.Submit
	}
	return nil
}

// invokeSubmit guards against misbehaving integrations: a panicking submit
// function is converted into an ordinary rejection instead of unwinding
// through the pipeline.
func (c *Controller) invokeSubmit(ctx context.Context, submit SubmitFunc) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = fmt.Errorf("form: submit function panicked: %v", recovered)
		}
	}()
	return submit(ctx, c.data)
}

func (c *Controller) invokeComplete(result any) {
	callback := c.onComplete
	if callback == nil {
		callback = c.defaults.SubmitComplete
	}
	if callback != nil {
		callback(result)
	}
}

func (c *Controller) invokeError(err error) {
	callback := c.onError
	if callback == nil {
		callback = c.defaults.SubmitError
	}
	if callback != nil {
		callback(err)
	}
}
