package rules

import (
	"sort"
	"strings"
)

// FieldErrors carries per-field validation messages keyed by concrete field
// path. It implements error so bulk validation and submit rejections can flow
// through ordinary error returns.
type FieldErrors map[string]string

// Error renders the messages sorted by field path for stable output.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "rules: no field errors"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}
