// Package rules defines the declarative validation rule model used by
// go-formbind controllers and provides the default rule evaluator.
package rules

// Canonical rule kinds understood by the default evaluator. Numeric bounds
// and length limits encode their threshold in Params["value"] while pattern
// rules carry the expression in Params["pattern"]. Every kind honours an
// optional Params["message"] override.
const (
	RuleRequired  = "required"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleFormat    = "format"
	RuleEnum      = "enum"
)

// Rule represents a single validation constraint applied to a field.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Set maps normalized field paths (collection indices stripped, so
// "items.qty" covers every "items[N].qty") to the rules applied at that path.
type Set map[string][]Rule

// Message returns the custom message configured on the rule, or empty.
func (r Rule) Message() string {
	if r.Params == nil {
		return ""
	}
	return r.Params["message"]
}

// Param returns the named parameter, or empty when unset.
func (r Rule) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}
