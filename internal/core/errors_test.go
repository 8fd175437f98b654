package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("failed to fetch feed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if !IsCode(err, ErrCodeFetch) {
		t.Errorf("expected code %s", ErrCodeFetch)
	}
	if IsCode(err, ErrCodeParse) {
		t.Error("did not expect parse code")
	}

	// Wrapping through fmt keeps the classification visible.
	wrapped := fmt.Errorf("refresh failed: %w", err)
	if !IsCode(wrapped, ErrCodeFetch) {
		t.Error("expected code to survive fmt wrapping")
	}
}

func TestGetHTTPStatusCode(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewFetchError("fetch", nil), http.StatusBadGateway},
		{NewParseError("parse", nil), http.StatusUnprocessableEntity},
		{NewValidationError("validation", nil), http.StatusBadRequest},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewPersistenceError("store", nil), http.StatusInternalServerError},
		{NewRegistryError("registry", nil), http.StatusInternalServerError},
		{NewDatabaseError("db", nil), http.StatusInternalServerError},
		{NewInternalError("internal", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := GetHTTPStatusCode(tc.err); got != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.err.Code, tc.status, got)
		}
	}
}

func TestIsCodeNonAppError(t *testing.T) {
	if IsCode(errors.New("plain"), ErrCodeFetch) {
		t.Error("plain errors have no code")
	}
	if IsCode(nil, ErrCodeFetch) {
		t.Error("nil has no code")
	}
}
