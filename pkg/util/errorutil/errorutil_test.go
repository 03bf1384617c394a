package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	cause := errors.New("disk full")
	cases := []struct {
		name    string
		err     error
		code    string
		status  int
		message string
	}{
		{"validation", NewValidationError("Name and URL are required", nil), CodeValidationFailed, http.StatusBadRequest, "Name and URL are required"},
		{"not found", NewNotFound("Department", nil), CodeNotFound, http.StatusNotFound, "Department not found"},
		{"internal", NewInternalError("Failed to create department", cause), CodeInternal, http.StatusInternalServerError, "Failed to create department"},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewValidationError("bad", nil)), CodeValidationFailed, http.StatusBadRequest, "bad"},
		{"sql no rows", sql.ErrNoRows, CodeNotFound, http.StatusNotFound, "resource not found"},
		{"pgx no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound, "resource not found"},
		{"plain", cause, CodeInternal, http.StatusInternalServerError, defaultInternalMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			if de.Code != tc.code || de.HTTPStatus != tc.status || de.Message != tc.message {
				t.Fatalf("got %s/%d/%q, want %s/%d/%q", de.Code, de.HTTPStatus, de.Message, tc.code, tc.status, tc.message)
			}
		})
	}
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("constraint failed")
	err := NewInternalError("Failed to update department", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrappable")
	}
	if got := err.Error(); got != "Failed to update department: constraint failed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatalf("expected nil")
	}
}
