package backend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/gamestore/gamestore-web/internal/domain/model"
	apperrors "github.com/gamestore/gamestore-web/internal/errors"
	"github.com/gamestore/gamestore-web/internal/ports"
)

// Default selection expressions. Each accepts a bare payload or a common envelope.
const (
	DefaultItemsPath   = "(type(@) == 'array' && @) || videojuegos || data || items"
	DefaultProfilePath = "user || profile || data || @"

	// First string among the token fields; a non-string access_token must not hide token.
	accessTokenPath = "[access_token, token][?type(@) == 'string'] | [0]"
)

// errorMessageFields are tried in order. A string wins over a structured value in a
// later field; structured values are flattened only when no field holds text.
var errorMessageFields = []string{"msg", "message", "error"}

// Decoder extracts domain values from backend response bodies.
type Decoder struct {
	itemsPath   string
	profilePath string
}

// NewDecoder compiles the selection expressions once to reject bad configuration early.
// Empty expressions select the defaults.
func NewDecoder(itemsPath, profilePath string) (*Decoder, error) {
	d := &Decoder{
		itemsPath:   strings.TrimSpace(itemsPath),
		profilePath: strings.TrimSpace(profilePath),
	}
	if d.itemsPath == "" {
		d.itemsPath = DefaultItemsPath
	}
	if d.profilePath == "" {
		d.profilePath = DefaultProfilePath
	}

	for _, expr := range []string{d.itemsPath, d.profilePath} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("compile jmespath %q: %w", expr, err)
		}
	}
	return d, nil
}

// ErrorMessage returns the backend's message for a rejected call.
// JSON bodies without a message field yield fallback; bodies that are not JSON
// yield fallback annotated with the status code.
func (d *Decoder) ErrorMessage(res ports.Result, fallback string) string {
	data, ok := parseJSON(res.Body)
	if !ok {
		if res.StatusCode == 0 {
			return fallback
		}
		return fmt.Sprintf("%s (HTTP %d)", fallback, res.StatusCode)
	}
	if msg := errorMessage(data); msg != "" {
		return msg
	}
	return fallback
}

func errorMessage(data any) string {
	values := make([]any, 0, len(errorMessageFields))
	for _, field := range errorMessageFields {
		v, err := jmespath.Search(field, data)
		if err != nil || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		values = append(values, v)
	}
	for _, v := range values {
		if s := flattenMessage(v); s != "" {
			return s
		}
	}
	return ""
}

// flattenMessage renders validation-style payloads such as {"email":["taken"]}
// as "email: taken". Keys are sorted so the text is stable.
func flattenMessage(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenMessage(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := flattenMessage(t[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// AccessToken returns the bearer token from a successful login body, or "".
func (d *Decoder) AccessToken(body []byte) string {
	data, ok := parseJSON(body)
	if !ok {
		return ""
	}
	return searchString(accessTokenPath, data)
}

// Videojuegos decodes a successful listing body. A missing list decodes as empty.
func (d *Decoder) Videojuegos(body []byte) ([]model.Videojuego, error) {
	data, ok := parseJSON(body)
	if !ok {
		return nil, apperrors.Malformed(nil, "videojuegos body is not JSON")
	}
	switch data.(type) {
	case []any, map[string]any:
	default:
		return nil, apperrors.Malformed(nil, fmt.Sprintf("videojuegos: unexpected body of type %T", data))
	}

	selected, err := jmespath.Search(d.itemsPath, data)
	if err != nil {
		return nil, apperrors.Malformed(err, "select videojuegos")
	}
	if selected == nil {
		return []model.Videojuego{}, nil
	}
	if _, isList := selected.([]any); !isList {
		return nil, apperrors.Malformed(nil, fmt.Sprintf("videojuegos: expected a list, got %T", selected))
	}

	var items []model.Videojuego
	if err := remarshal(selected, &items); err != nil {
		return nil, apperrors.Malformed(err, "decode videojuegos")
	}
	return items, nil
}

// Profile decodes a successful profile body.
func (d *Decoder) Profile(body []byte) (model.Profile, error) {
	data, ok := parseJSON(body)
	if !ok {
		return model.Profile{}, apperrors.Malformed(nil, "profile body is not JSON")
	}

	selected, err := jmespath.Search(d.profilePath, data)
	if err != nil {
		return model.Profile{}, apperrors.Malformed(err, "select profile")
	}
	if _, isObject := selected.(map[string]any); !isObject {
		return model.Profile{}, apperrors.Malformed(nil, fmt.Sprintf("profile: expected an object, got %T", selected))
	}

	var p model.Profile
	if err := remarshal(selected, &p); err != nil {
		return model.Profile{}, apperrors.Malformed(err, "decode profile")
	}
	return p, nil
}

func parseJSON(body []byte) (any, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, false
	}
	return data, true
}

func searchString(expr string, data any) string {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func remarshal(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
