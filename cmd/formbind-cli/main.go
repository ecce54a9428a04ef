// Command formbind-cli fills an API payload interactively: it derives
// validation rules from an OpenAPI operation, prompts for every field on the
// terminal, and prints the collected payload as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/goliatone/go-formbind/pkg/form"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/renderers/prompt"
	"github.com/goliatone/go-formbind/pkg/rules"
)

func main() {
	document := flag.String("document", "openapi.json", "OpenAPI document path")
	operation := flag.String("operation", "", "operation ID whose request body to fill")
	seed := flag.String("data", "", "JSON file with initial payload values (optional)")
	output := flag.String("output", "", "output file (stdout if empty)")
	confirm := flag.Bool("confirm", true, "ask before submitting")
	flag.Parse()

	if *operation == "" {
		log.Fatal("missing -operation")
	}

	ctx := context.Background()

	doc, err := pkgopenapi.LoadFile(ctx, *document)
	if err != nil {
		log.Fatalf("load document: %v", err)
	}
	set, err := pkgopenapi.RulesForOperation(doc, *operation)
	if err != nil {
		log.Fatalf("derive rules: %v", err)
	}

	data := map[string]any{}
	if *seed != "" {
		raw, err := os.ReadFile(*seed)
		if err != nil {
			log.Fatalf("read seed data: %v", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Fatalf("parse seed data: %v", err)
		}
	}

	ctrl, err := form.New(data, form.WithRules(set),
		form.WithSubmitFunc(func(_ context.Context, payload map[string]any) (any, error) {
			return payload, nil
		}))
	if err != nil {
		log.Fatal(err)
	}
	for _, path := range fieldPaths(set, data) {
		if _, err := ctrl.RegisterField(path); err != nil {
			log.Fatalf("register %s: %v", path, err)
		}
	}

	var options []prompt.Option
	if *confirm {
		options = append(options, prompt.WithConfirm())
	}
	session, err := prompt.NewSession(ctrl, options...)
	if err != nil {
		log.Fatal(err)
	}
	if err := session.Run(ctx); err != nil {
		log.Fatalf("session: %v", err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("payload written to %s\n", *output)
		return
	}
	fmt.Println(string(encoded))
}

// fieldPaths merges the rule set's paths with the seed payload's top-level
// keys, deduplicated and sorted for a stable prompt order.
func fieldPaths(set rules.Set, data map[string]any) []string {
	seen := make(map[string]struct{}, len(set)+len(data))
	for path := range set {
		seen[path] = struct{}{}
	}
	for key := range data {
		seen[key] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
