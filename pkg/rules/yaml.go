package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a rule set from YAML. The document maps field paths to
// rule lists:
//
//	user.email:
//	  - kind: required
//	  - kind: format
//	    params: {name: email}
//	items.qty:
//	  - kind: min
//	    params: {value: "1"}
func ParseYAML(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("rules: parse yaml: %w", err)
	}
	for path, fieldRules := range set {
		for _, rule := range fieldRules {
			if rule.Kind == "" {
				return nil, fmt.Errorf("rules: parse yaml: field %q has a rule without a kind", path)
			}
		}
	}
	return set, nil
}
