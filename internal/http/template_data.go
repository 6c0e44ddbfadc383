package httpx

import (
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	"github.com/gamestore/gamestore-web/internal/http/ui/viewmodel"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message shown above the form.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithNotice appends a notice rendered alongside any pending flashes.
func (b *TemplateDataBuilder) WithNotice(category domainauth.FlashCategory, msg string) *TemplateDataBuilder {
	if msg == "" {
		return b
	}
	flashes, _ := b.data["Flashes"].([]viewmodel.Flash)
	b.data["Flashes"] = append(flashes, viewmodel.Flash{Category: string(category), Message: msg})
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// toViewFlashes converts session flashes for templates.
func toViewFlashes(in []domainauth.Flash) []viewmodel.Flash {
	if len(in) == 0 {
		return nil
	}
	out := make([]viewmodel.Flash, 0, len(in))
	for _, f := range in {
		out = append(out, viewmodel.Flash{Category: string(f.Category), Message: f.Message})
	}
	return out
}
