package uiutil

import (
	"strconv"
	"strings"
)

const (
	missingPrice = "Precio no disponible"
	outOfStock   = "Agotado"
)

// FormatPrice renders an optional price as "$12.34".
func FormatPrice(p *float64) string {
	if p == nil {
		return missingPrice
	}
	return "$" + strconv.FormatFloat(*p, 'f', 2, 64)
}

// StockLabel describes an optional stock count. Unknown stock yields an empty string.
func StockLabel(n *int) string {
	switch {
	case n == nil:
		return ""
	case *n <= 0:
		return outOfStock
	case *n == 1:
		return "1 unidad disponible"
	default:
		return strconv.Itoa(*n) + " unidades disponibles"
	}
}

// AlertClass maps a flash category to its alert CSS modifier.
func AlertClass(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "success":
		return "alert-success"
	case "error":
		return "alert-danger"
	default:
		return "alert-info"
	}
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
