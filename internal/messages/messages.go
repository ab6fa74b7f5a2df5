package messages

import "fmt"

// Keys used by the reply analysis report.
const (
	ReportName        = "arb_name"
	ReportDescription = "arb_description"
)

// Bundle formats user-facing strings by key.
type Bundle interface {
	Format(key string, args ...any) string
}

var defaults = map[string]string{
	ReportName:        "Reply analysis for @%s (%s)",
	ReportDescription: "Where replies by @%s rank on their parent threads, captured %s.",
}

// MapBundle is a Bundle backed by fmt-style templates.
type MapBundle struct {
	templates map[string]string
}

// New returns a bundle with the built-in templates, overridden by templates.
func New(templates map[string]string) *MapBundle {
	b := &MapBundle{templates: make(map[string]string, len(defaults)+len(templates))}
	for k, v := range defaults {
		b.templates[k] = v
	}
	for k, v := range templates {
		if v != "" {
			b.templates[k] = v
		}
	}
	return b
}

// Format renders key with args. Unknown keys render as the key itself.
func (b *MapBundle) Format(key string, args ...any) string {
	tpl, ok := b.templates[key]
	if !ok {
		return key
	}
	return fmt.Sprintf(tpl, args...)
}
