package form_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/paths"
	"github.com/goliatone/go-formbind/pkg/rules"
)

func TestSync_RoundTrip(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "initial"}}
	ctrl, _ := form.New(data)
	field, _ := ctrl.RegisterField("user.name")

	if err := ctrl.SetFieldValue("user.name", "Ada"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if got, _ := paths.Read(data, "user.name"); got != "Ada" {
		t.Fatalf("data not updated, got %v", got)
	}

	if err := paths.Write(data, "user.name", "Grace"); err != nil {
		t.Fatalf("external write: %v", err)
	}
	ctrl.NotifyDataChanged("user.name")
	if field.Value() != "Grace" {
		t.Fatalf("bindable value not refreshed, got %v", field.Value())
	}
}

func TestSync_FirstObservationNeverMarksModified(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
	}{
		{"populated", map[string]any{"email": "ada@example.com"}},
		{"empty string", map[string]any{"email": ""}},
		{"absent", map[string]any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, _ := form.New(tc.data)
			field, _ := ctrl.RegisterField("email")
			if field.Modified() {
				t.Fatal("first observation must not mark the field modified")
			}
		})
	}
}

func TestSync_BlurInitGuard(t *testing.T) {
	// A widget auto-initializing an unset key to "" on blur is not a user
	// edit.
	ctrl, _ := form.New(map[string]any{})
	field, _ := ctrl.RegisterField("email")

	if err := ctrl.SetFieldValue("email", ""); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if field.Modified() {
		t.Fatal("unset-to-empty transition must not mark the field modified")
	}

	if err := ctrl.SetFieldValue("email", "a"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if !field.Modified() {
		t.Fatal("a real edit after the blur-init must mark the field modified")
	}
}

func TestSync_ExternalRepopulationMarksModified(t *testing.T) {
	data := map[string]any{"email": "old@example.com"}
	ctrl, _ := form.New(data)
	field, _ := ctrl.RegisterField("email")

	paths.Write(data, "email", "new@example.com")
	ctrl.NotifyDataChanged("email")
	if !field.Modified() {
		t.Fatal("subsequent observations of a changed value mark the field modified")
	}
}

func TestSync_EqualValueObservationIsNoOp(t *testing.T) {
	data := map[string]any{"email": "same@example.com"}
	ctrl, _ := form.New(data)
	field, _ := ctrl.RegisterField("email")

	ctrl.NotifyDataChanged("email")
	ctrl.NotifyDataChanged()
	if field.Modified() {
		t.Fatal("observing an unchanged value must not mark the field modified")
	}
}

func TestSync_EditTriggersFieldValidation(t *testing.T) {
	ctrl, _ := form.New(map[string]any{}, form.WithRules(rules.Set{
		"email": {{Kind: rules.RuleFormat, Params: map[string]string{"name": "email"}}},
	}))
	field, _ := ctrl.RegisterField("email")

	if err := ctrl.SetFieldValue("email", "not-an-email"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if field.Error() != "must be a valid email" {
		t.Fatalf("edit should validate and surface the error, got %q", field.Error())
	}

	if err := ctrl.SetFieldValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if field.Error() != "" {
		t.Fatalf("valid value should clear the error, got %q", field.Error())
	}
}

func TestSetFieldValue_WriteFailureKeepsValue(t *testing.T) {
	data := map[string]any{"user": "not a map"}
	ctrl, _ := form.New(data)
	field, _ := ctrl.RegisterField("user.name")

	if err := ctrl.SetFieldValue("user.name", "Ada"); err == nil {
		t.Fatal("expected error writing through scalar")
	}
	if field.Value() != nil {
		t.Fatalf("failed write must not leave the bindable value diverged, got %v", field.Value())
	}
	if field.Modified() {
		t.Fatal("failed write must not mark the field modified")
	}
}

func TestSetFieldValue_UnknownField(t *testing.T) {
	ctrl, _ := form.New(map[string]any{})
	if err := ctrl.SetFieldValue("ghost", "x"); err == nil {
		t.Fatal("expected error for unregistered field")
	}
}
