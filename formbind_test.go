package formbind_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	formbind "github.com/goliatone/go-formbind"
)

const signupDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Accounts", "version": "1.0.0"},
  "paths": {
    "/signups": {
      "post": {
        "operationId": "createSignup",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "name": {"type": "string", "minLength": 2}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestFromOperation_DerivesRules(t *testing.T) {
	data := map[string]any{}
	submits := 0
	ctrl, err := formbind.FromOperation(context.Background(), []byte(signupDocument), "createSignup", data,
		formbind.WithSubmitFunc(func(context.Context, map[string]any) (any, error) {
			submits++
			return nil, nil
		}))
	if err != nil {
		t.Fatalf("from operation: %v", err)
	}

	field, err := ctrl.RegisterField("email")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !field.Required() {
		t.Fatal("email should be required per the document schema")
	}

	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("missing email should fail validation")
	}
	if submits != 0 {
		t.Fatal("submit function must not run on validation failure")
	}

	ctrl.SetFieldValue("email", "ada@example.com")
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submits != 1 {
		t.Fatalf("submit ran %d times, want 1", submits)
	}
}

func TestFromOperation_UnknownOperation(t *testing.T) {
	_, err := formbind.FromOperation(context.Background(), []byte(signupDocument), "nope", map[string]any{})
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestWithRulesYAML(t *testing.T) {
	opt, err := formbind.WithRulesYAML([]byte("email:\n  - kind: required\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctrl, err := formbind.New(map[string]any{}, opt)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	field, _ := ctrl.RegisterField("email")
	if !field.Required() {
		t.Fatal("yaml rules should mark email required")
	}
}

func TestPresenters_ResolvesBuiltinHTML(t *testing.T) {
	registry := formbind.Presenters()
	presenter, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get html presenter: %v", err)
	}

	ctrl, err := formbind.New(map[string]any{"email": "ada@example.com"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctrl.RegisterField("email")

	markup, err := presenter.Present(context.Background(), ctrl.Snapshot(), formbind.Options{Title: "Sign up"})
	if err != nil {
		t.Fatalf("present: %v", err)
	}
	if !strings.Contains(string(markup), `value="ada@example.com"`) {
		t.Fatalf("markup missing field value:\n%s", markup)
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Fatal("unknown presenter name should error")
	}
}

func TestNew_NoSubmitBinding(t *testing.T) {
	ctrl, err := formbind.New(map[string]any{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := ctrl.Submit(context.Background()); !errors.Is(err, formbind.ErrNoSubmitFunc) {
		t.Fatalf("got %v, want ErrNoSubmitFunc", err)
	}
}
