package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/rules"
)

const orderSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Orders", "version": "1.0.0"},
  "paths": {
    "/orders": {
      "post": {
        "operationId": "createOrder",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "note": {"type": "string", "maxLength": 200},
                  "status": {"type": "string", "enum": ["draft", "placed"]},
                  "items": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "required": ["qty"],
                      "properties": {
                        "qty": {"type": "integer", "minimum": 1},
                        "sku": {"type": "string", "pattern": "^[A-Z0-9-]+$"}
                      }
                    }
                  }
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

func TestRulesForOperation(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Load(ctx, []byte(orderSpec))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	set, err := openapi.RulesForOperation(doc, "createOrder")
	if err != nil {
		t.Fatalf("rules for operation: %v", err)
	}

	want := rules.Set{
		"email": {
			{Kind: rules.RuleRequired},
			{Kind: rules.RuleFormat, Params: map[string]string{"name": "email"}},
		},
		"note": {
			{Kind: rules.RuleMaxLength, Params: map[string]string{"value": "200"}},
		},
		"status": {
			{Kind: rules.RuleEnum, Params: map[string]string{"values": "draft,placed"}},
		},
		"items.qty": {
			{Kind: rules.RuleRequired},
			{Kind: rules.RuleMin, Params: map[string]string{"value": "1"}},
		},
		"items.sku": {
			{Kind: rules.RulePattern, Params: map[string]string{"pattern": "^[A-Z0-9-]+$"}},
		},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Fatalf("rule set mismatch (-want +got):\n%s", diff)
	}
}

func TestRulesForOperation_DrivesEvaluator(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Load(ctx, []byte(orderSpec))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	set, err := openapi.RulesForOperation(doc, "createOrder")
	if err != nil {
		t.Fatalf("rules for operation: %v", err)
	}

	ev := rules.NewEvaluator(set)
	if !ev.IsFieldRequired("email") {
		t.Error("email should be required")
	}
	if !ev.IsFieldRequired("items[4].qty") {
		t.Error("collection elements should inherit the item constraints")
	}

	data := map[string]any{
		"email": "ada@example.com",
		"items": []any{map[string]any{"qty": 0, "sku": "ok-lower"}},
	}
	err = ev.ValidateFields(ctx, data, []string{"email", "items"})
	fieldErrs, ok := err.(rules.FieldErrors)
	if !ok {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fieldErrs["items[0].qty"] == "" {
		t.Error("qty below minimum should fail")
	}
	if fieldErrs["items[0].sku"] == "" {
		t.Error("lowercase sku should fail the pattern")
	}
}

func TestRulesForOperation_UnknownOperation(t *testing.T) {
	doc, err := openapi.Load(context.Background(), []byte(orderSpec))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := openapi.RulesForOperation(doc, "nope"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestLoad_EmptyPayload(t *testing.T) {
	if _, err := openapi.Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
