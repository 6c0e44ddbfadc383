// Package viewmodel holds the values templates read besides raw backend data.
package viewmodel

// User is the signed-in account shown in the navigation bar.
type User struct {
	Email string
}

// Flash is a one-shot notice. Category maps to an alert style via alertClass.
type Flash struct {
	Category string
	Message  string
}
