// Package mocks provides mock implementations for testing the storefront.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackend(ctrl)
//	backend.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ports.Result{StatusCode: 200}, nil)
package mocks

// Generate mocks for the Backend and BackendFactory interfaces from internal/ports.
// MockBackend covers: Login, Register, ListVideojuegos, Profile, Health, SetToken, ClearToken, Token
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/gamestore/gamestore-web/internal/ports Backend,BackendFactory
