// Package testutil holds the shared fixtures for the favorites test suites:
// HTTP request builders, request-context seeding, scenario subtests and the
// container helpers used by integration tests.
package testutil

import "testing"

// Given opens a scenario by naming the state under test, such as a nonce
// issued to a visitor or a site that requires login.
func Given(t *testing.T, state string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+state, fn)
}

// When names the admission input or action being exercised.
func When(t *testing.T, action string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+action, fn)
}

// Then holds a single expected outcome. Keep one assertion group per call so
// a failing reject code shows up by name in the test output.
func Then(t *testing.T, outcome string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+outcome, fn)
}
