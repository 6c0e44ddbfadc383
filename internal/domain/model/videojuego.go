//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Videojuego is one catalogue entry returned by the backend listing endpoint.
type Videojuego struct {
	ID          string   `json:"id"`
	Titulo      string   `json:"titulo"`
	Plataforma  string   `json:"plataforma,omitempty"`
	Genero      string   `json:"genero,omitempty"`
	Descripcion string   `json:"descripcion,omitempty"`
	Imagen      string   `json:"imagen,omitempty"`
	Precio      *float64 `json:"precio,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// videojuegoWire accepts the field spellings the backend has used over time.
type videojuegoWire struct {
	ID          json.RawMessage `json:"id"`
	Titulo      string          `json:"titulo"`
	Nombre      string          `json:"nombre"`
	Title       string          `json:"title"`
	Plataforma  string          `json:"plataforma"`
	Genero      string          `json:"genero"`
	Descripcion string          `json:"descripcion"`
	Imagen      string          `json:"imagen"`
	Precio      json.RawMessage `json:"precio"`
	Stock       json.RawMessage `json:"stock"`
}

// UnmarshalJSON decodes a catalogue entry, tolerating numeric or string ids and prices.
func (v *Videojuego) UnmarshalJSON(data []byte) error {
	var w videojuegoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*v = Videojuego{
		ID:          rawScalar(w.ID),
		Titulo:      firstNonEmpty(w.Titulo, w.Nombre, w.Title),
		Plataforma:  w.Plataforma,
		Genero:      w.Genero,
		Descripcion: w.Descripcion,
		Imagen:      w.Imagen,
	}
	if f, ok := rawFloat(w.Precio); ok {
		v.Precio = &f
	}
	if f, ok := rawFloat(w.Stock); ok {
		n := int(f)
		v.Stock = &n
	}
	return nil
}

// PriceLabel formats the price for display, or returns an empty string when unknown.
func (v Videojuego) PriceLabel() string {
	if v.Precio == nil {
		return ""
	}
	return "$" + strconv.FormatFloat(*v.Precio, 'f', 2, 64)
}

// InStock reports whether stock is unknown or positive.
func (v Videojuego) InStock() bool {
	return v.Stock == nil || *v.Stock > 0
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func rawScalar(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func rawFloat(raw json.RawMessage) (float64, bool) {
	s := rawScalar(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
