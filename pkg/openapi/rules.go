// Package openapi derives validation rule sets from OpenAPI 3 documents, so
// forms bound to API payloads validate with the constraints the API already
// declares.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/rules"
)

// Document wraps a parsed OpenAPI 3 specification.
type Document struct {
	spec *openapi3.T
}

// Load parses an OpenAPI document from raw bytes (JSON or YAML).
func Load(ctx context.Context, data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return Document{spec: spec}, nil
}

// LoadFile parses an OpenAPI document from a file path.
func LoadFile(ctx context.Context, path string) (Document, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: load %q: %w", path, err)
	}
	return Document{spec: spec}, nil
}

// RulesForOperation walks the request body schema of the operation with the
// given operationId and emits the rule set a controller needs to validate a
// payload for it. Field paths are normalized (collection indices stripped),
// so array item constraints apply to every element.
func RulesForOperation(doc Document, operationID string) (rules.Set, error) {
	if doc.spec == nil {
		return nil, errors.New("openapi: document is not loaded")
	}
	if operationID == "" {
		return nil, errors.New("openapi: operation id is required")
	}

	operation := findOperation(doc.spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return rules.Set{}, nil
	}

	set := make(rules.Set)
	collectRules(schema, "", set)
	return set, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

// requestSchema prefers JSON bodies, then form encodings, then whatever media
// type the operation declares.
func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return schemaValue(mt.Schema)
		}
	}
	for _, mt := range content {
		return schemaValue(mt.Schema)
	}
	return nil
}

func schemaValue(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func collectRules(schema *openapi3.Schema, prefix string, set rules.Set) {
	if schema == nil {
		return
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	for name, property := range schema.Properties {
		child := schemaValue(property)
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		var fieldRules []rules.Rule
		if _, ok := required[name]; ok {
			fieldRules = append(fieldRules, rules.Rule{Kind: rules.RuleRequired})
		}
		fieldRules = append(fieldRules, constraintRules(child)...)
		if len(fieldRules) > 0 {
			set[path] = append(set[path], fieldRules...)
		}

		if child == nil {
			continue
		}
		if child.Properties != nil {
			collectRules(child, path, set)
		}
		// Array items share the normalized collection path: "items.qty"
		// covers items[0].qty, items[1].qty, ...
		if items := itemsSchema(child); items != nil {
			set[path] = append(set[path], constraintRules(items)...)
			if len(set[path]) == 0 {
				delete(set, path)
			}
			collectRules(items, path, set)
		}
	}
}

func itemsSchema(schema *openapi3.Schema) *openapi3.Schema {
	if schema == nil || schema.Items == nil {
		return nil
	}
	return schema.Items.Value
}

// constraintRules mirrors the constraints the evaluator understands: numeric
// bounds with exclusivity, length limits, pattern, enum, and the string
// formats the evaluator ships.
func constraintRules(schema *openapi3.Schema) []rules.Rule {
	if schema == nil {
		return nil
	}
	var out []rules.Rule

	if schema.Min != nil {
		params := map[string]string{"value": formatFloat(*schema.Min)}
		if schema.ExclusiveMin {
			params["exclusive"] = "true"
		}
		out = append(out, rules.Rule{Kind: rules.RuleMin, Params: params})
	}
	if schema.Max != nil {
		params := map[string]string{"value": formatFloat(*schema.Max)}
		if schema.ExclusiveMax {
			params["exclusive"] = "true"
		}
		out = append(out, rules.Rule{Kind: rules.RuleMax, Params: params})
	}
	if schema.MinLength != 0 {
		out = append(out, rules.Rule{
			Kind:   rules.RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.MaxLength != nil {
		out = append(out, rules.Rule{
			Kind:   rules.RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)},
		})
	}
	if schema.Pattern != "" {
		out = append(out, rules.Rule{
			Kind:   rules.RulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	if len(schema.Enum) > 0 {
		values := make([]string, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			values = append(values, fmt.Sprint(value))
		}
		out = append(out, rules.Rule{
			Kind:   rules.RuleEnum,
			Params: map[string]string{"values": strings.Join(values, ",")},
		})
	}
	switch strings.ToLower(schema.Format) {
	case "email", "uuid":
		out = append(out, rules.Rule{
			Kind:   rules.RuleFormat,
			Params: map[string]string{"name": strings.ToLower(schema.Format)},
		})
	}

	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
