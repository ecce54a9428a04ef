package form

import (
	"context"
	"fmt"
	"reflect"

	"github.com/goliatone/go-formbind/pkg/paths"
)

// SetFieldValue is the Field → Data half of the sync protocol: a widget
// pushes an edited bindable value, and the controller writes it into the
// bound data object at the field's path on the next notification cycle. The
// write is equality-gated so echoing an unchanged value is a no-op, which
// breaks feedback loops with the Data → Field half. Validation is never
// triggered directly by this path; it runs when the resulting data change is
// observed.
func (c *Controller) SetFieldValue(path string, value any) error {
	field := c.Field(path)
	if field == nil {
		return fmt.Errorf("form: field %q is not registered", path)
	}
	if reflect.DeepEqual(field.value, value) {
		return nil
	}
	previous := field.value
	field.value = value

	var writeErr error
	c.schedule(func() {
		if err := paths.Write(c.data, field.path, value); err != nil {
			writeErr = err
			field.value = previous
			return
		}
		c.schedule(func() { c.observe(field) })
	})
	c.drain()
	return writeErr
}

// NotifyDataChanged is the Data → Field entry point for external mutation:
// after changing the bound data object directly, callers pass the affected
// paths (or none, meaning every registered field) and the controller observes
// them on the next notification cycle.
func (c *Controller) NotifyDataChanged(changed ...string) {
	if len(changed) == 0 {
		for _, id := range c.order {
			field := c.fields[id]
			c.schedule(func() { c.observe(field) })
		}
		c.drain()
		return
	}
	for _, path := range changed {
		if field := c.Field(path); field != nil {
			c.schedule(func() { c.observe(field) })
		}
	}
	c.drain()
}

// observe is the Data → Field observer body. It always refreshes the
// bindable value from the data object. The very first observation (initial
// population at registration) only populates the value: it never marks the
// field modified and never validates, so errors seeded through
// WithInitialErrors survive registration. Subsequent observations mark the
// field modified and validate it, except the transition from an unset value
// to an empty string, since a widget auto-initializing an untouched key on
// blur is not a user edit. Validation outcomes are stored, to be surfaced by
// the next reconciliation pass; an actual edit also retires any seeded error.
func (c *Controller) observe(field *Field) {
	value, _ := paths.Read(c.data, field.path)
	previous := field.lastObserved
	field.lastObserved = value
	field.value = value

	if !field.observed {
		field.observed = true
		return
	}
	if reflect.DeepEqual(previous, value) {
		return
	}
	if previous == nil && value == "" {
		return
	}
	c.st.setModified(field.id, true)
	field.seeded = false

	if c.evaluator == nil {
		return
	}
	if err := c.evaluator.ValidateField(context.Background(), c.data, field.path); err != nil {
		c.st.setError(field.id, err.Error())
	} else {
		c.st.clearError(field.id)
	}
}
