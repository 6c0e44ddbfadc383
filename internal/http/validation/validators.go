// Package validation checks form input before it is sent to the backend. Messages are
// Spanish and end up next to the offending field.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validator returns "" for an acceptable value, otherwise the message to show.
type Validator func(v string) string

// Required rejects blank values (after trimming) and values longer than maxLen runes.
func Required(label string, maxLen int) Validator {
	return presence(label, maxLen, true)
}

// Present is Required without trimming. Passwords keep their surrounding whitespace.
func Present(label string, maxLen int) Validator {
	return presence(label, maxLen, false)
}

func presence(label string, maxLen int, trim bool) Validator {
	return func(v string) string {
		if trim {
			v = strings.TrimSpace(v)
		}
		switch {
		case v == "":
			return label + ": campo obligatorio."
		case utf8.RuneCountInString(v) > maxLen:
			return fmt.Sprintf("%s no puede superar %d caracteres.", label, maxLen)
		}
		return ""
	}
}

// Email accepts a bare address with a dotted domain ("ana@example.com"). Display
// names and angle brackets are rejected. Blank input passes so Required owns that message.
func Email(label string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || isBareAddress(v) {
			return ""
		}
		return label + " no tiene un formato válido."
	}
}

func isBareAddress(v string) bool {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Name != "" || addr.Address != v {
		return false
	}
	at := strings.LastIndexByte(v, '@')
	return strings.Contains(v[at+1:], ".")
}

// FieldValidator collects the first failure per field.
type FieldValidator struct {
	errors map[string]string
}

// New returns an empty FieldValidator.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate runs validators against value in order until one fails.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, check := range validators {
		if msg := check(value); msg != "" {
			fv.errors[field] = msg
			return fv
		}
	}
	return fv
}

// Errors maps field names to messages. It is empty when every field passed.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}
