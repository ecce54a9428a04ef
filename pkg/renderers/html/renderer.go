// Package html implements a render.Presenter that turns form snapshots into
// HTML markup. Field errors are treated as untrusted text: they pass through
// a bluemonday policy that keeps minimal inline markup and strips everything
// else, so the markup-trust decision lives here rather than in the core.
package html

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbind/pkg/render"
)

// Theme tokens the presenter honours when a go-theme RendererConfig is
// supplied.
const (
	tokenFormClass  = "form.class"
	tokenFieldClass = "field.class"
	tokenErrorClass = "error.class"
)

const defaultTemplate = `<form class="{{ form_class }}"{% if action %} action="{{ action }}"{% endif %}{% if method %} method="{{ method }}"{% endif %}>
{% if title %}<legend>{{ title }}</legend>
{% endif %}{% if css_vars %}<style>{{ css_vars }}</style>
{% endif %}{% for field in fields %}<div class="{{ field_class }}{% if field.error %} has-error{% endif %}">
<label for="{{ field.id }}">{{ field.path }}{% if field.required %} *{% endif %}</label>
<input id="{{ field.id }}" name="{{ field.path }}" value="{{ field.value }}"{% if field.required %} required{% endif %}{% if field.disabled %} disabled{% endif %}>
{% if field.error %}<span class="{{ error_class }}">{{ field.error|safe }}</span>
{% endif %}</div>
{% endfor %}<button type="submit"{% if disabled %} disabled{% endif %}>Submit</button>
</form>
`

// Option customises the presenter before construction.
type Option func(*Presenter)

// WithTemplate overrides the pongo2 template used for the whole form.
func WithTemplate(source string) Option {
	return func(p *Presenter) {
		if strings.TrimSpace(source) != "" {
			p.source = source
		}
	}
}

// WithPolicy substitutes the bluemonday policy applied to error strings.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(p *Presenter) {
		if policy != nil {
			p.policy = policy
		}
	}
}

// WithTheme applies a resolved go-theme configuration: class tokens decorate
// the form, field, and error elements, and CSS variables are emitted as an
// inline style block.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(p *Presenter) {
		p.theme = cfg
	}
}

// Presenter renders snapshots with a pongo2 template.
type Presenter struct {
	source string
	policy *bluemonday.Policy
	theme  *theme.RendererConfig

	once     sync.Once
	template *pongo2.Template
	parseErr error
}

var _ render.Presenter = (*Presenter)(nil)

// New constructs the HTML presenter with the default template and error
// policy.
func New(options ...Option) *Presenter {
	p := &Presenter{
		source: defaultTemplate,
		policy: errorPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Name reports the presenter identifier.
func (p *Presenter) Name() string { return "html" }

// Present renders the snapshot into form markup.
func (p *Presenter) Present(ctx context.Context, snapshot render.Snapshot, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(func() {
		p.template, p.parseErr = pongo2.FromString(p.source)
	})
	if p.parseErr != nil {
		return nil, fmt.Errorf("html presenter: parse template: %w", p.parseErr)
	}

	fields := make([]map[string]any, 0, len(snapshot.Fields))
	for _, field := range snapshot.Fields {
		fields = append(fields, map[string]any{
			"path":     field.Path,
			"id":       field.ID,
			"value":    valueString(field.Value),
			"error":    p.sanitize(field.Error),
			"required": field.Required,
			"disabled": field.Disabled,
		})
	}

	output, err := p.template.Execute(pongo2.Context{
		"fields":      fields,
		"submitted":   snapshot.Submitted,
		"disabled":    snapshot.Disabled,
		"title":       opts.Title,
		"action":      opts.Action,
		"method":      opts.Method,
		"form_class":  p.token(tokenFormClass, "formbind"),
		"field_class": p.token(tokenFieldClass, "formbind-field"),
		"error_class": p.token(tokenErrorClass, "formbind-error"),
		"css_vars":    p.cssVars(),
	})
	if err != nil {
		return nil, fmt.Errorf("html presenter: render: %w", err)
	}
	return []byte(output), nil
}

func (p *Presenter) sanitize(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(p.policy.Sanitize(trimmed))
}

func (p *Presenter) token(name, fallback string) string {
	if p.theme == nil {
		return fallback
	}
	if value := strings.TrimSpace(p.theme.Tokens[name]); value != "" {
		return value
	}
	return fallback
}

// cssVars renders the theme's CSS variables as a :root block, sorted for
// deterministic output.
func (p *Presenter) cssVars() string {
	if p.theme == nil || len(p.theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.theme.CSSVars))
	for key := range p.theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(p.theme.CSSVars[key])
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

func valueString(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// errorPolicy keeps the inline tags servers legitimately embed in messages
// (emphasis and links) and strips everything else, scripts included.
func errorPolicy() *bluemonday.Policy {
	policy := bluemonday.StrictPolicy()
	policy.AllowElements("b", "strong", "em", "i", "span", "br", "code")
	policy.AllowAttrs("href").OnElements("a")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
