package form_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
)

func TestReconcile_IdempotentSnapshot(t *testing.T) {
	ctrl, _ := form.New(map[string]any{}, form.WithRules(emailRules()))
	ctrl.RegisterField("email")
	ctrl.SetFieldValue("email", "nope")

	first := ctrl.Snapshot()
	second := ctrl.Snapshot()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("snapshots differ with no intervening change (-first +second):\n%s", diff)
	}
}

func TestReconcile_DirtyGating(t *testing.T) {
	// Stored errors stay invisible until the field is modified or the form
	// submitted.
	ctrl, _ := form.New(map[string]any{}, form.WithRules(emailRules()))
	field, _ := ctrl.RegisterField("email")

	// Registration only populates the value; the pristine field must not
	// display anything.
	if field.Error() != "" {
		t.Fatalf("pristine field shows %q, want nothing", field.Error())
	}

	ctrl.SetFieldValue("email", "still-bad")
	if field.Error() == "" {
		t.Fatal("modified field should display its stored error")
	}
}

func TestReconcile_SubmittedForcesVisibility(t *testing.T) {
	ctrl, _ := form.New(map[string]any{}, form.WithRules(emailRules()),
		form.WithSubmitFunc(func(context.Context, map[string]any) (any, error) {
			return nil, nil
		}))
	field, _ := ctrl.RegisterField("email")

	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("expected validation failure")
	}
	if field.Error() != "is required" {
		t.Fatalf("submitted form should display stored errors, got %q", field.Error())
	}
}

func TestResetErrors_RestoresPristineDisplay(t *testing.T) {
	ctrl, _ := form.New(map[string]any{}, form.WithRules(emailRules()))
	field, _ := ctrl.RegisterField("email")

	ctrl.SetFieldValue("email", "bad")
	if field.Error() == "" {
		t.Fatal("expected a displayed error before reset")
	}

	ctrl.ResetErrors()
	if ctrl.Submitted() {
		t.Fatal("reset should clear the submitted flag")
	}
	if field.Modified() {
		t.Fatal("reset should clear modified flags")
	}
	if field.Error() != "" {
		t.Fatalf("reset should hide stored errors, got %q", field.Error())
	}
}
