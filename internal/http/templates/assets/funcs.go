// Package assets holds the template helpers that point pages at static files.
package assets

import (
	"html/template"

	httpassets "github.com/gamestore/gamestore-web/internal/http/assets"
)

// Options configures the helpers. Both fields may be nil.
type Options struct {
	Resolver    *httpassets.AssetResolver
	CriticalCSS func() string
}

// Funcs returns the "asset" and "criticalCSS" template helpers.
//
//	<link rel="stylesheet" href="{{asset "css/app.css"}}">
//	<style>{{criticalCSS}}</style>
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": func(name string) string {
			return httpassets.ResolveAsset(opts.Resolver, name)
		},
		"criticalCSS": func() template.CSS {
			if opts.CriticalCSS == nil {
				return ""
			}
			// #nosec G203 -- read from the embedded static tree, never from user input.
			return template.CSS(opts.CriticalCSS())
		},
	}
}
