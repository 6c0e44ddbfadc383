// Package core holds the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"html/template"
	"time"

	"github.com/gamestore/gamestore-web/internal/http/uiutil"
)

// Deps wires the helpers to the parsed template set.
type Deps struct {
	// Template points at the set being built, so renderSection can execute into it
	// once parsing has finished.
	Template           **template.Template
	ContentTemplateFor func(page string) string
	Now                func() time.Time
}

// Funcs returns the page helpers.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return template.FuncMap{
		"alertClass":    uiutil.AlertClass,
		"price":         uiutil.FormatPrice,
		"stockLabel":    uiutil.StockLabel,
		"truncateText":  truncateText,
		"year":          func() int { return now().Year() },
		"renderSection": renderSection(deps),
	}
}

func renderSection(deps Deps) func(page string, data any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("renderSection: templates not parsed yet")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("renderSection: no content template mapping")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 -- output of html/template, already escaped.
		return template.HTML(buf.String()), nil
	}
}

// truncateText shortens s to n runes. Non-positive n leaves s alone.
func truncateText(s string, n int) string {
	if n <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, n)
}
