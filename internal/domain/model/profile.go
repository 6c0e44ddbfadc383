//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "encoding/json"

// Profile is the authenticated user's profile as returned by the backend.
type Profile struct {
	ID     string `json:"id,omitempty"`
	Email  string `json:"email"`
	Nombre string `json:"nombre,omitempty"`
}

// UnmarshalJSON accepts numeric or string ids.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var w struct {
		ID     json.RawMessage `json:"id"`
		Email  string          `json:"email"`
		Nombre string          `json:"nombre"`
		Name   string          `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Profile{
		ID:     rawScalar(w.ID),
		Email:  w.Email,
		Nombre: firstNonEmpty(w.Nombre, w.Name),
	}
	return nil
}

// DisplayName returns the best human-readable label for the profile.
func (p Profile) DisplayName() string {
	if p.Nombre != "" {
		return p.Nombre
	}
	return p.Email
}
