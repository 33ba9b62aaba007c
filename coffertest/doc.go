// Package coffertest provides mocks and helpers to test handlers,
// decorators and extensions without a running chain.
package coffertest
